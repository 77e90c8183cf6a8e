package fsm

import (
	"context"
	"strings"

	"vk-blackjack-bot/internal/session"
	"vk-blackjack-bot/internal/vk"
)

// State handlers. Each consumes one inbound message in its state and
// runs the matching business transition. Messages that do not fit the
// state (stray text, idle clicks, wrong sender) are a silent no-op, so
// an ignored message costs no storage write.

func (i *Interactor) handleTriggerState(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	if !strings.Contains(msg.Text, TriggerWord) {
		return nil
	}
	return i.handleTrigger(ctx, s)
}

func (i *Interactor) handleStartChoiceState(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	btn, ok := msg.PayloadButton()
	if !ok {
		return nil
	}

	action, ok := ParseStartAction(btn)
	if !ok {
		return nil
	}

	switch action {
	case StartNewGame:
		return i.handleNewGame(ctx, s)
	case StartBonus:
		return i.handleBonus(ctx, s, msg)
	case StartBalance:
		return i.handleBalance(ctx, s, msg)
	case StartStatistics:
		return i.handleStatistics(ctx, s)
	case StartPersonalStats:
		return i.handlePersonalStatistics(ctx, s, msg)
	}
	return nil
}

func (i *Interactor) handlePlayersAmountState(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	btn, ok := msg.PayloadButton()
	if !ok {
		return nil
	}

	amount, ok := ParsePlayersAmount(btn)
	if !ok {
		return nil
	}

	return i.initGame(ctx, s, amount)
}

func (i *Interactor) handleRegistrationState(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	btn, ok := msg.PayloadButton()
	if !ok || btn != "register" || s.Game() == nil {
		return nil
	}

	return i.registerPlayer(ctx, s, msg)
}

func (i *Interactor) handleBetsState(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	g := s.Game()
	if g == nil {
		return nil
	}

	player := g.PlayerByID(msg.FromID)
	if player == nil {
		return nil
	}

	return i.placeBet(ctx, s, msg, player)
}

func (i *Interactor) handleActionState(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	btn, ok := msg.PayloadButton()
	if !ok {
		return nil
	}

	action, ok := ParseMainAction(btn)
	if !ok || s.Game() == nil {
		return nil
	}

	return i.handleMainAction(ctx, s, msg, action)
}

func (i *Interactor) handleLastChoiceState(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	g := s.Game()
	if g == nil || g.PlayerByID(msg.FromID) == nil {
		return nil
	}

	btn, ok := msg.PayloadButton()
	if !ok {
		return nil
	}

	action, ok := ParseLastAction(btn)
	if !ok {
		return nil
	}

	switch action {
	case LastRepeat:
		return i.repeatGame(ctx, s)
	case LastStop:
		return i.endGame(ctx, s)
	}
	return nil
}
