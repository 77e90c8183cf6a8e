// Package worker drains the update queue and drives the game state
// machine, one chat at a time.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"vk-blackjack-bot/internal/fsm"
	"vk-blackjack-bot/internal/pkg/lock"
	"vk-blackjack-bot/internal/pkg/queue"
	"vk-blackjack-bot/internal/session"
	"vk-blackjack-bot/internal/vk"
)

// handleTimeout bounds one delivery's processing, so draining on
// shutdown cannot hang forever.
const handleTimeout = 30 * time.Second

// Worker consumes queued update batches and dispatches every new
// message through the state machine. Deliveries are acknowledged only
// after the whole batch is handled; concurrent deliveries are bounded
// by the queue capacity, and messages of one chat serialize on the
// chat lock.
type Worker struct {
	client     *queue.Client
	store      session.Store
	dispatcher *fsm.Dispatcher
	locks      *lock.ChatLock

	sem chan struct{}
	wg  sync.WaitGroup
}

// New creates a worker. capacity caps how many deliveries are handled
// at once and should match the queue prefetch.
func New(client *queue.Client, store session.Store, dispatcher *fsm.Dispatcher, locks *lock.ChatLock, capacity int) *Worker {
	if capacity < 1 {
		capacity = 1
	}
	return &Worker{
		client:     client,
		store:      store,
		dispatcher: dispatcher,
		locks:      locks,
		sem:        make(chan struct{}, capacity),
	}
}

// Run consumes until the context is cancelled, then drains in-flight
// deliveries before returning. A dropped connection is retried with
// the configured pause.
func (w *Worker) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		deliveries, err := w.client.Consume()
		if err != nil {
			if errors.Is(err, queue.ErrClosed) {
				break
			}
			log.Error().Err(err).Msg("Failed to open consumer, retrying")
			if !w.pause(ctx) {
				break
			}
			continue
		}

		log.Info().Msg("Worker is consuming updates")

		if !w.consumeStream(ctx, deliveries) {
			break
		}

		log.Warn().Msg("Delivery stream closed, reconnecting")
		if !w.pause(ctx) {
			break
		}
	}

	log.Info().Msg("Worker is draining in-flight deliveries")
	w.wg.Wait()
	return nil
}

// consumeStream drains one delivery stream. Returns false when the
// context was cancelled, true when the stream closed and a reconnect
// is in order.
func (w *Worker) consumeStream(ctx context.Context, deliveries <-chan amqp.Delivery) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case d, ok := <-deliveries:
			if !ok {
				return true
			}

			w.sem <- struct{}{}
			w.wg.Add(1)
			go func(d amqp.Delivery) {
				defer w.wg.Done()
				defer func() { <-w.sem }()
				w.handleDelivery(d)
			}(d)
		}
	}
}

// pause waits out the reconnect timeout; false means the context was
// cancelled while waiting.
func (w *Worker) pause(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.client.ReconnectTimeout()):
		return true
	}
}

// handleDelivery processes one queued batch and acknowledges it. A
// batch that cannot even be decoded is acknowledged and dropped, so a
// poison message cannot wedge the queue.
func (w *Worker) handleDelivery(d amqp.Delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	msgs, err := vk.UnpackMessages(d.Body)
	if err != nil {
		log.Error().Err(err).Msg("Dropping undecodable update batch")
		if err := d.Ack(false); err != nil {
			log.Error().Err(err).Msg("Failed to ack delivery")
		}
		return
	}

	for _, msg := range msgs {
		w.handleMessage(ctx, msg)
	}

	if err := d.Ack(false); err != nil {
		log.Error().Err(err).Msg("Failed to ack delivery")
	}
}

// handleMessage runs one message through load-dispatch-save under the
// chat's lock. Any failure or panic inside the handler triggers a
// best-effort force-cancel of the chat's session; the error is logged
// and never escapes to the consume loop.
func (w *Worker) handleMessage(ctx context.Context, msg vk.UpdateMessage) {
	chatID := msg.PeerID

	_ = w.locks.WithLock(chatID, func() error {
		s, err := session.Load(ctx, w.store, chatID)
		if err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to load session")
			return nil
		}

		log.Debug().
			Int64("chat_id", chatID).
			Int64("user_id", msg.FromID).
			Stringer("state", s.State()).
			Msg("Dispatching message")

		if err := w.dispatch(ctx, s, msg); err != nil {
			log.Error().Err(err).
				Int64("chat_id", chatID).
				Stringer("state", s.State()).
				Msg("Handler failed, cancelling session")

			if err := w.dispatcher.ForceCancel(ctx, s); err != nil {
				log.Error().Err(err).Int64("chat_id", chatID).Msg("Force-cancel failed")
				s.Clear()
			}
		}

		if err := s.Save(ctx); err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to save session")
		}
		return nil
	})
}

// dispatch converts a handler panic into an error, so one broken chat
// cannot take the worker down.
func (w *Worker) dispatch(ctx context.Context, s *session.Session, msg vk.UpdateMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return w.dispatcher.Dispatch(ctx, s, msg)
}
