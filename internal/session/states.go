package session

import "fmt"

// State identifies a discrete position in the game conversation flow.
// The integer value is what gets persisted, so the numbering is part
// of the storage contract and must stay stable.
type State int

const (
	WaitingForTrigger State = iota
	WaitingForStartChoice
	WaitingForPlayersAmount
	WaitingForRegistration
	WaitingForBets
	WaitingForAction
	WaitingForLastChoice
)

var stateNames = map[State]string{
	WaitingForTrigger:       "waiting_for_trigger",
	WaitingForStartChoice:   "waiting_for_start_choice",
	WaitingForPlayersAmount: "waiting_for_players_amount",
	WaitingForRegistration:  "waiting_for_registration",
	WaitingForBets:          "waiting_for_bets",
	WaitingForAction:        "waiting_for_action",
	WaitingForLastChoice:    "waiting_for_last_choice",
}

// Known reports whether the id maps to a defined state. Unknown ids
// come from corrupted storage and make the message undeliverable.
func (s State) Known() bool {
	_, ok := stateNames[s]
	return ok
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown_state_%d", int(s))
}
