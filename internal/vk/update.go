// Package vk implements the minimal VK API surface the bot needs:
// long-poll ingress, outbound messages with keyboards and user lookup.
package vk

import (
	"encoding/json"
	"fmt"
)

// UpdateTypeMessageNew is the only long-poll update type the game
// consumes; everything else is dropped at unpack time.
const UpdateTypeMessageNew = "message_new"

// UpdateMessage is one inbound chat message. Payload carries the
// button-click data as a JSON string and is empty for plain text.
type UpdateMessage struct {
	FromID  int64  `json:"from_id"`
	PeerID  int64  `json:"peer_id"`
	ID      int64  `json:"id"`
	Text    string `json:"text"`
	Payload string `json:"payload,omitempty"`
}

// PayloadButton extracts the "button" value from the structured
// payload. The second return is false for plain-text messages and for
// payloads without a button key; such messages are ignored by most
// handlers.
func (m UpdateMessage) PayloadButton() (string, bool) {
	if m.Payload == "" {
		return "", false
	}

	var payload struct {
		Button string `json:"button"`
	}
	if err := json.Unmarshal([]byte(m.Payload), &payload); err != nil {
		return "", false
	}
	if payload.Button == "" {
		return "", false
	}
	return payload.Button, true
}

// UpdateObject wraps the message inside a long-poll update.
type UpdateObject struct {
	Message UpdateMessage `json:"message"`
}

// Update is one long-poll event as delivered by VK and forwarded
// through the queue.
type Update struct {
	Type   string       `json:"type"`
	Object UpdateObject `json:"object"`
}

// UnpackMessages decodes a queued batch of raw updates and keeps only
// new-message events.
func UnpackMessages(body []byte) ([]UpdateMessage, error) {
	var updates []Update
	if err := json.Unmarshal(body, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode update batch: %w", err)
	}

	var msgs []UpdateMessage
	for _, u := range updates {
		if u.Type != UpdateTypeMessageNew {
			continue
		}
		msgs = append(msgs, u.Object.Message)
	}
	return msgs, nil
}
