package vk

import (
	"encoding/json"
	"fmt"
)

// ButtonColor is the VK keyboard button color.
type ButtonColor string

const (
	ColorPrimary   ButtonColor = "primary"
	ColorSecondary ButtonColor = "secondary"
	ColorPositive  ButtonColor = "positive"
	ColorNegative  ButtonColor = "negative"
)

// ButtonAction is the nested action object of a text button.
type ButtonAction struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Payload string `json:"payload,omitempty"`
}

// Button is one keyboard button.
type Button struct {
	Color  ButtonColor  `json:"color"`
	Action ButtonAction `json:"action"`
}

// Keyboard is the VK reply keyboard attached to an outbound message.
// Rows hold buttons left to right, top to bottom.
type Keyboard struct {
	OneTime bool       `json:"one_time"`
	Inline  bool       `json:"inline"`
	Buttons [][]Button `json:"buttons"`
}

// Serialize renders the keyboard for the messages.send call. The empty
// keyboard serializes to a keyboard-remove instruction.
func (k Keyboard) Serialize() (string, error) {
	if k.Buttons == nil {
		k.Buttons = [][]Button{}
	}
	raw, err := json.Marshal(k)
	if err != nil {
		return "", fmt.Errorf("failed to encode keyboard: %w", err)
	}
	return string(raw), nil
}

// textButton builds a button carrying a {"button": value} payload.
func textButton(label string, color ButtonColor, payload string) Button {
	return Button{
		Color: color,
		Action: ButtonAction{
			Type:    "text",
			Label:   label,
			Payload: fmt.Sprintf(`{"button": %q}`, payload),
		},
	}
}

// The fixed keyboards of the game flow. Payload values are the wire
// contract between the keyboards and the fsm action parsers.
var (
	// EmptyKeyboard removes the current keyboard.
	EmptyKeyboard = Keyboard{OneTime: true}

	// StartKeyboard is the main menu shown after the trigger.
	StartKeyboard = Keyboard{
		Buttons: [][]Button{
			{textButton("Start a game", ColorPositive, "new_game")},
			{textButton("Claim bonus", ColorPrimary, "bonus")},
			{textButton("Check balance", ColorPrimary, "balance")},
			{textButton("Chat top", ColorPrimary, "stat")},
			{textButton("My statistics", ColorPrimary, "pers_stat")},
			{textButton("Leave", ColorNegative, "cancel")},
		},
	}

	// PlayersAmountKeyboard asks how many seats the table has.
	PlayersAmountKeyboard = Keyboard{
		Buttons: [][]Button{
			{textButton("One player", ColorPrimary, "1")},
			{
				textButton("Two players", ColorPrimary, "2"),
				textButton("Three players", ColorPrimary, "3"),
			},
			{textButton("Cancel", ColorNegative, "cancel")},
		},
	}

	// RegisterKeyboard collects registrations.
	RegisterKeyboard = Keyboard{
		Buttons: [][]Button{
			{textButton("I'm in!", ColorPositive, "register")},
			{textButton("Cancel the game", ColorNegative, "cancel")},
		},
	}

	// CancelKeyboard accompanies the betting phase.
	CancelKeyboard = Keyboard{
		Buttons: [][]Button{
			{textButton("Cancel the game", ColorNegative, "cancel")},
		},
	}

	// ActionKeyboard is the main turn choice.
	ActionKeyboard = Keyboard{
		Inline: true,
		Buttons: [][]Button{
			{
				textButton("Hit", ColorPositive, "hit"),
				textButton("Stand", ColorNegative, "stand"),
			},
		},
	}

	// BlackjackClarifyKeyboard is shown to a natural blackjack when
	// the dealer's up-card is an ace: take even money now or wait.
	BlackjackClarifyKeyboard = Keyboard{
		Inline: true,
		Buttons: [][]Button{
			{
				textButton("Take 1:1", ColorPositive, "pick up 11"),
				textButton("Wait for the dealer", ColorPrimary, "wait"),
			},
		},
	}

	// BlackjackWin32Keyboard is shown when the 3:2 payout is certain.
	BlackjackWin32Keyboard = Keyboard{
		Inline: true,
		Buttons: [][]Button{
			{textButton("Take 3:2", ColorPositive, "pick up 32")},
		},
	}

	// BlackjackWaitKeyboard is shown when the dealer shows a
	// ten-value card and the result must wait.
	BlackjackWaitKeyboard = Keyboard{
		Inline: true,
		Buttons: [][]Button{
			{textButton("Wait for the dealer", ColorPrimary, "wait")},
		},
	}

	// RepeatKeyboard asks the table to play another round or stop.
	RepeatKeyboard = Keyboard{
		Buttons: [][]Button{
			{
				textButton("Play again", ColorPositive, "again"),
				textButton("Stop playing", ColorNegative, "stop"),
			},
		},
	}
)
