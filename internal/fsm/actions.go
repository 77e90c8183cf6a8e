// Package fsm drives the per-chat game conversation: it maps the
// stored session state to a handler, parses button payloads into
// typed actions and runs the business transitions of a round.
package fsm

import (
	"regexp"
	"strconv"
)

// CancelAction is the payload value that aborts the session from any
// state. It is checked before state handlers run.
const CancelAction = "cancel"

// StartAction is a start-menu choice.
type StartAction string

const (
	StartNewGame       StartAction = "new_game"
	StartBonus         StartAction = "bonus"
	StartBalance       StartAction = "balance"
	StartStatistics    StartAction = "stat"
	StartPersonalStats StartAction = "pers_stat"
)

// ParseStartAction maps a payload to a start-menu action.
// Unknown payloads report false and are ignored by the handler.
func ParseStartAction(payload string) (StartAction, bool) {
	switch a := StartAction(payload); a {
	case StartNewGame, StartBonus, StartBalance, StartStatistics, StartPersonalStats:
		return a, true
	}
	return "", false
}

// ParsePlayersAmount maps a payload to the planned player count.
func ParsePlayersAmount(payload string) (int, bool) {
	switch payload {
	case "1", "2", "3":
		return int(payload[0] - '0'), true
	}
	return 0, false
}

// MainAction is a turn-phase choice: the regular hit/stand pair plus
// the three natural-blackjack sub-choices.
type MainAction string

const (
	ActionHit               MainAction = "hit"
	ActionStand             MainAction = "stand"
	ActionBlackjackPickup11 MainAction = "pick up 11"
	ActionBlackjackPickup32 MainAction = "pick up 32"
	ActionBlackjackWait     MainAction = "wait"
)

// ParseMainAction maps a payload to a turn action.
func ParseMainAction(payload string) (MainAction, bool) {
	switch a := MainAction(payload); a {
	case ActionHit, ActionStand, ActionBlackjackPickup11, ActionBlackjackPickup32, ActionBlackjackWait:
		return a, true
	}
	return "", false
}

// LastAction is the end-of-round choice.
type LastAction string

const (
	LastRepeat LastAction = "again"
	LastStop   LastAction = "stop"
)

// ParseLastAction maps a payload to an end-of-round action.
func ParseLastAction(payload string) (LastAction, bool) {
	switch a := LastAction(payload); a {
	case LastRepeat, LastStop:
		return a, true
	}
	return "", false
}

var betPattern = regexp.MustCompile(`\d+`)

// ParseBet extracts a wager from free-form text: the first run of
// digits. Reports false when the text contains none.
func ParseBet(text string) (int64, bool) {
	match := betPattern.FindString(text)
	if match == "" {
		return 0, false
	}

	bet, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0, false
	}
	return bet, true
}
