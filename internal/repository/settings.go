package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vk-blackjack-bot/internal/model"
)

// SettingsRepository reads the single-row game settings table.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository instance.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns the current table rules.
func (r *SettingsRepository) Get(ctx context.Context) (*model.GameSettings, error) {
	const query = `
		SELECT min_bet, max_bet, start_cash, bonus, bonus_period_minutes, num_of_decks
		FROM game_settings
		WHERE id = 0
	`

	var s model.GameSettings
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.MinBet,
		&s.MaxBet,
		&s.StartCash,
		&s.Bonus,
		&s.BonusPeriodMinutes,
		&s.NumOfDecks,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("game settings row is missing")
		}
		return nil, fmt.Errorf("failed to get game settings: %w", err)
	}
	return &s, nil
}

// Seed inserts the settings row with the given defaults if it does not
// exist yet. Existing values are left untouched.
func (r *SettingsRepository) Seed(ctx context.Context, defaults model.GameSettings) error {
	const query = `
		INSERT INTO game_settings (id, min_bet, max_bet, start_cash, bonus, bonus_period_minutes, num_of_decks)
		VALUES (0, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		defaults.MinBet, defaults.MaxBet, defaults.StartCash,
		defaults.Bonus, defaults.BonusPeriodMinutes, defaults.NumOfDecks,
	)
	if err != nil {
		return fmt.Errorf("failed to seed game settings: %w", err)
	}
	return nil
}

// Update overwrites the table rules.
func (r *SettingsRepository) Update(ctx context.Context, s model.GameSettings) error {
	const query = `
		UPDATE game_settings
		SET min_bet = $1, max_bet = $2, start_cash = $3,
		    bonus = $4, bonus_period_minutes = $5, num_of_decks = $6
		WHERE id = 0
	`

	result, err := r.pool.Exec(ctx, query,
		s.MinBet, s.MaxBet, s.StartCash, s.Bonus, s.BonusPeriodMinutes, s.NumOfDecks,
	)
	if err != nil {
		return fmt.Errorf("failed to update game settings: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errors.New("game settings row is missing")
	}
	return nil
}
