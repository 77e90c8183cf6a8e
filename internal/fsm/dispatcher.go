package fsm

import (
	"context"
	"errors"
	"fmt"

	"vk-blackjack-bot/internal/session"
	"vk-blackjack-bot/internal/vk"
)

// ErrUnknownState marks a stored state id with no registered handler.
// The worker logs it and drops the message instead of crashing.
var ErrUnknownState = errors.New("unknown session state")

// Handler processes one inbound message against a loaded session.
type Handler func(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error

// Dispatcher routes an inbound message to the handler of the session's
// current state. The routing table is built once at construction; no
// global registry.
type Dispatcher struct {
	interactor *Interactor
	handlers   map[session.State]Handler
}

// NewDispatcher builds the state routing table around an interactor.
func NewDispatcher(i *Interactor) *Dispatcher {
	return &Dispatcher{
		interactor: i,
		handlers: map[session.State]Handler{
			session.WaitingForTrigger:       i.handleTriggerState,
			session.WaitingForStartChoice:   i.handleStartChoiceState,
			session.WaitingForPlayersAmount: i.handlePlayersAmountState,
			session.WaitingForRegistration:  i.handleRegistrationState,
			session.WaitingForBets:          i.handleBetsState,
			session.WaitingForAction:        i.handleActionState,
			session.WaitingForLastChoice:    i.handleLastChoiceState,
		},
	}
}

// Dispatch runs one message through the session's current state
// handler. A cancel button aborts the session from any state before
// the handler is consulted.
func (d *Dispatcher) Dispatch(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	if btn, ok := msg.PayloadButton(); ok && btn == CancelAction {
		return d.interactor.Cancel(ctx, s)
	}

	handler, ok := d.handlers[s.State()]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownState, int(s.State()))
	}

	return handler(ctx, s, msg)
}

// ForceCancel exposes the failure recovery path to the worker.
func (d *Dispatcher) ForceCancel(ctx context.Context, s *session.Session) error {
	return d.interactor.ForceCancel(ctx, s)
}
