package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"vk-blackjack-bot/internal/model"
)

// RoundRepository records finished rounds for auditing. Every cash
// movement at round end leaves one row here.
type RoundRepository struct {
	pool *pgxpool.Pool
}

// NewRoundRepository creates a new RoundRepository instance.
func NewRoundRepository(pool *pgxpool.Pool) *RoundRepository {
	return &RoundRepository{pool: pool}
}

// Record inserts one player's round result.
func (r *RoundRepository) Record(ctx context.Context, chatID, vkID, bet int64, delta float64, status string) error {
	const query = `
		INSERT INTO rounds (chat_id, vk_id, bet, delta, status)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.pool.Exec(ctx, query, chatID, vkID, bet, delta, status); err != nil {
		return fmt.Errorf("failed to record round: %w", err)
	}
	return nil
}

// ListByPlayer returns a player's most recent rounds, newest first.
func (r *RoundRepository) ListByPlayer(ctx context.Context, chatID, vkID int64, limit int) ([]*model.Round, error) {
	const query = `
		SELECT id, chat_id, vk_id, bet, delta, status, created_at
		FROM rounds
		WHERE chat_id = $1 AND vk_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, chatID, vkID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []*model.Round
	for rows.Next() {
		var round model.Round
		err := rows.Scan(
			&round.ID,
			&round.ChatID,
			&round.VKID,
			&round.Bet,
			&round.Delta,
			&round.Status,
			&round.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, &round)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rounds: %w", err)
	}
	return rounds, nil
}
