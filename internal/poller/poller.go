// Package poller runs the ingress side: VK long-poll batches go to
// the durable queue, the worker picks them up from there.
package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"vk-blackjack-bot/internal/pkg/queue"
	"vk-blackjack-bot/internal/vk"
)

const retryPause = 3 * time.Second

// Poller fetches long-poll update batches and publishes them raw.
// Decoding happens on the worker side; the poller only moves bytes.
type Poller struct {
	vk    *vk.Client
	queue *queue.Client
}

// New creates a poller.
func New(vkClient *vk.Client, q *queue.Client) *Poller {
	return &Poller{vk: vkClient, queue: q}
}

// Run polls until the context is cancelled. A failed long-poll cursor
// or server error re-acquires the polling endpoint.
func (p *Poller) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		server, err := p.vk.GetLongPollServer(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to get long-poll server, retrying")
			if !pause(ctx) {
				break
			}
			continue
		}

		log.Info().Msg("Polling for updates")
		p.poll(ctx, server)
	}
	return nil
}

// poll runs the a_check loop against one server handout. Returns when
// the server asks for a re-acquire or a request fails.
func (p *Poller) poll(ctx context.Context, server *vk.LongPollServer) {
	for ctx.Err() == nil {
		updates, ts, err := p.vk.Poll(ctx, server)
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("Long-poll request failed")
				pause(ctx)
			}
			return
		}
		if ts == "" {
			// server invalidated the cursor
			return
		}
		server.TS = ts

		if len(updates) == 0 || string(updates) == "[]" || string(updates) == "null" {
			continue
		}

		if err := p.queue.Publish(ctx, updates); err != nil {
			log.Error().Err(err).Msg("Failed to publish update batch")
		}
	}
}

func pause(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(retryPause):
		return true
	}
}
