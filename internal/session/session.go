package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"vk-blackjack-bot/internal/game"
)

// Session is the transactional proxy over one chat's stored
// (state, game) pair. The worker loads it, lets one handler mutate it
// and writes it back; mutations go through explicit methods instead of
// hidden setter side effects, so dirty tracking is visible.
//
// The game is written back unconditionally on Save; the state only
// when one of the state mutators ran. A handler that ignores the
// message therefore costs no state write.
type Session struct {
	store Store
	chat  int64

	state      State
	lastState  State
	gm         *game.BlackJackGame
	stateDirty bool
	cleared    bool
}

// Load reads the chat's session. A chat without stored state starts at
// WaitingForTrigger; that first-contact default is marked dirty so it
// gets persisted on Save.
func Load(ctx context.Context, store Store, chat int64) (*Session, error) {
	s := &Session{store: store, chat: chat}

	stateID, err := store.GetState(ctx, chat)
	switch {
	case errors.Is(err, ErrNotFound):
		s.state = WaitingForTrigger
		s.stateDirty = true
	case err != nil:
		return nil, fmt.Errorf("failed to load state for chat %d: %w", chat, err)
	default:
		s.state = State(stateID)
	}

	raw, err := store.GetData(ctx, chat)
	switch {
	case errors.Is(err, ErrNotFound):
		// no game yet
	case err != nil:
		return nil, fmt.Errorf("failed to load game for chat %d: %w", chat, err)
	default:
		var g game.BlackJackGame
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("corrupted game record for chat %d: %w", chat, err)
		}
		s.gm = &g
	}

	return s, nil
}

// Chat returns the owning chat id.
func (s *Session) Chat() int64 { return s.chat }

// State returns the current state.
func (s *Session) State() State { return s.state }

// LastState returns the state before the most recent SetState.
func (s *Session) LastState() State { return s.lastState }

// Game returns the loaded game aggregate, or nil when no game exists.
func (s *Session) Game() *game.BlackJackGame { return s.gm }

// SetState records a transition. The previous state is kept for
// rollback and the session is marked dirty.
func (s *Session) SetState(state State) {
	s.lastState = s.state
	s.state = state
	s.stateDirty = true
	s.cleared = false
}

// RollbackState returns to the state before the last SetState.
func (s *Session) RollbackState() {
	s.state = s.lastState
	s.stateDirty = true
}

// SetGame attaches a game aggregate to the session.
func (s *Session) SetGame(g *game.BlackJackGame) { s.gm = g }

// Clear ends the session: both state and game are removed from
// storage on Save. The next message from this chat starts over at
// WaitingForTrigger.
func (s *Session) Clear() {
	s.gm = nil
	s.stateDirty = true
	s.cleared = true
}

// Save writes the session back. The game is persisted (or deleted)
// unconditionally; the state only when dirty.
func (s *Session) Save(ctx context.Context) error {
	if s.gm == nil {
		if err := s.store.ResetData(ctx, s.chat); err != nil {
			return fmt.Errorf("failed to reset game for chat %d: %w", s.chat, err)
		}
	} else {
		raw, err := json.Marshal(s.gm)
		if err != nil {
			return fmt.Errorf("failed to encode game for chat %d: %w", s.chat, err)
		}
		if err := s.store.SetData(ctx, s.chat, raw); err != nil {
			return fmt.Errorf("failed to save game for chat %d: %w", s.chat, err)
		}
	}

	if !s.stateDirty {
		return nil
	}

	if s.cleared {
		if err := s.store.ResetState(ctx, s.chat); err != nil {
			return fmt.Errorf("failed to reset state for chat %d: %w", s.chat, err)
		}
	} else if err := s.store.SetState(ctx, s.chat, int(s.state)); err != nil {
		return fmt.Errorf("failed to save state for chat %d: %w", s.chat, err)
	}

	s.stateDirty = false
	return nil
}
