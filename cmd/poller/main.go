// Package main is the entry point of the poller process: it moves VK
// long-poll update batches into the durable queue.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vk-blackjack-bot/internal/config"
	"vk-blackjack-bot/internal/pkg/queue"
	"vk-blackjack-bot/internal/poller"
	"vk-blackjack-bot/internal/vk"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queueClient, err := queue.Connect(cfg.Rabbit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	defer queueClient.Close()

	p := poller.New(vk.NewClient(cfg.VK), queueClient)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info().Msg("Poller is starting...")
		if err := p.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Poller stopped with error")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	cancel()
	<-done
	log.Info().Msg("Poller stopped gracefully")
}
