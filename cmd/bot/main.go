// Package main is the entry point of the blackjack worker process: it
// consumes queued VK updates and drives the game state machine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vk-blackjack-bot/internal/config"
	"vk-blackjack-bot/internal/fsm"
	"vk-blackjack-bot/internal/model"
	"vk-blackjack-bot/internal/pkg/db"
	"vk-blackjack-bot/internal/pkg/lock"
	"vk-blackjack-bot/internal/pkg/queue"
	"vk-blackjack-bot/internal/repository"
	"vk-blackjack-bot/internal/session"
	"vk-blackjack-bot/internal/vk"
	"vk-blackjack-bot/internal/worker"
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

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	playerRepo := repository.NewPlayerRepository(dbPool.Pool)
	settingsRepo := repository.NewSettingsRepository(dbPool.Pool)
	roundRepo := repository.NewRoundRepository(dbPool.Pool)

	// Seed table rules from config on first start
	seed := model.GameSettings{
		MinBet:             cfg.Game.MinBet,
		MaxBet:             cfg.Game.MaxBet,
		StartCash:          cfg.Game.StartCash,
		Bonus:              cfg.Game.Bonus,
		BonusPeriodMinutes: cfg.Game.BonusPeriodMinutes,
		NumOfDecks:         cfg.Game.NumOfDecks,
	}
	if err := settingsRepo.Seed(ctx, seed); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed game settings")
	}

	// Initialize session store
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr(),
		DB:   cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer redisClient.Close()

	store := session.NewRedisStore(redisClient)

	// Initialize queue consumer
	queueClient, err := queue.Connect(cfg.Rabbit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	defer queueClient.Close()

	// Wire the state machine
	vkClient := vk.NewClient(cfg.VK)
	interactor := fsm.NewInteractor(vkClient, vkClient, playerRepo, settingsRepo, roundRepo)
	dispatcher := fsm.NewDispatcher(interactor)

	w := worker.New(queueClient, store, dispatcher, lock.NewChatLock(), cfg.Rabbit.Capacity)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info().Msg("Worker is starting...")
		if err := w.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Worker stopped with error")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	cancel()
	<-done
	log.Info().Msg("Worker stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create players table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS players (
			chat_id BIGINT NOT NULL,
			vk_id BIGINT NOT NULL,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL DEFAULT '',
			cash DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_bonus_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			number_of_games INT NOT NULL DEFAULT 0,
			number_of_wins INT NOT NULL DEFAULT 0,
			number_of_defeats INT NOT NULL DEFAULT 0,
			max_cash DOUBLE PRECISION NOT NULL DEFAULT 0,
			max_win DOUBLE PRECISION NOT NULL DEFAULT 0,
			max_bet DOUBLE PRECISION NOT NULL DEFAULT 0,
			average_bet DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (chat_id, vk_id)
		);
		CREATE INDEX IF NOT EXISTS idx_players_chat_cash ON players(chat_id, cash DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: players table created")

	// Migration 2: Create game_settings table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_settings (
			id INT PRIMARY KEY,
			min_bet BIGINT NOT NULL,
			max_bet BIGINT NOT NULL,
			start_cash DOUBLE PRECISION NOT NULL,
			bonus DOUBLE PRECISION NOT NULL,
			bonus_period_minutes INT NOT NULL,
			num_of_decks INT NOT NULL
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: game_settings table created")

	// Migration 3: Create rounds audit table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rounds (
			id BIGSERIAL PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			vk_id BIGINT NOT NULL,
			bet BIGINT NOT NULL,
			delta DOUBLE PRECISION NOT NULL,
			status VARCHAR(50) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_player_time ON rounds(chat_id, vk_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: rounds table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
