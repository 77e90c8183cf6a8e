// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vk-blackjack-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrPlayerNotFound = errors.New("player not found")
)

const playerColumns = `
	chat_id, vk_id, first_name, last_name, cash, last_bonus_date,
	number_of_games, number_of_wins, number_of_defeats,
	max_cash, max_win, max_bet, average_bet,
	created_at, updated_at
`

// PlayerRepository handles player profile and statistics persistence.
// Players are keyed by (chat_id, vk_id): the same person has an
// independent balance in every chat.
type PlayerRepository struct {
	pool *pgxpool.Pool
}

// NewPlayerRepository creates a new PlayerRepository instance.
func NewPlayerRepository(pool *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var p model.Player
	err := row.Scan(
		&p.ChatID,
		&p.VKID,
		&p.FirstName,
		&p.LastName,
		&p.Cash,
		&p.LastBonusDate,
		&p.Stats.NumberOfGames,
		&p.Stats.NumberOfWins,
		&p.Stats.NumberOfDefeats,
		&p.Stats.MaxCash,
		&p.Stats.MaxWin,
		&p.Stats.MaxBet,
		&p.Stats.AverageBet,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return &p, nil
}

// Add creates a player profile with the configured starting balance.
// The first bonus is considered claimed at creation time.
func (r *PlayerRepository) Add(ctx context.Context, chatID, vkID int64, firstName, lastName string, startCash float64) (*model.Player, error) {
	query := `
		INSERT INTO players (chat_id, vk_id, first_name, last_name, cash, last_bonus_date)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + playerColumns

	player, err := scanPlayer(r.pool.QueryRow(ctx, query, chatID, vkID, firstName, lastName, startCash))
	if err != nil {
		return nil, fmt.Errorf("failed to add player: %w", err)
	}
	return player, nil
}

// GetByVKID retrieves a chat's player by VK id.
// Returns ErrPlayerNotFound if the player does not exist.
func (r *PlayerRepository) GetByVKID(ctx context.Context, chatID, vkID int64) (*model.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE chat_id = $1 AND vk_id = $2`
	return scanPlayer(r.pool.QueryRow(ctx, query, chatID, vkID))
}

// UpdateCash sets a player's balance to an exact value.
func (r *PlayerRepository) UpdateCash(ctx context.Context, chatID, vkID int64, cash float64) error {
	const query = `
		UPDATE players
		SET cash = $3, updated_at = NOW()
		WHERE chat_id = $1 AND vk_id = $2
	`

	result, err := r.pool.Exec(ctx, query, chatID, vkID, cash)
	if err != nil {
		return fmt.Errorf("failed to update cash: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// UpdateAfterGame reconciles the round outcome: the new balance and
// the recalculated statistics block, in one statement.
func (r *PlayerRepository) UpdateAfterGame(ctx context.Context, chatID, vkID int64, cash float64, stats model.PlayerStats) error {
	const query = `
		UPDATE players
		SET cash = $3,
		    number_of_games = $4,
		    number_of_wins = $5,
		    number_of_defeats = $6,
		    max_cash = $7,
		    max_win = $8,
		    max_bet = $9,
		    average_bet = $10,
		    updated_at = NOW()
		WHERE chat_id = $1 AND vk_id = $2
	`

	result, err := r.pool.Exec(ctx, query, chatID, vkID, cash,
		stats.NumberOfGames, stats.NumberOfWins, stats.NumberOfDefeats,
		stats.MaxCash, stats.MaxWin, stats.MaxBet, stats.AverageBet,
	)
	if err != nil {
		return fmt.Errorf("failed to update player after game: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// GiveBonus sets the new balance and stamps the bonus claim time.
func (r *PlayerRepository) GiveBonus(ctx context.Context, chatID, vkID int64, cash float64, claimedAt time.Time) error {
	const query = `
		UPDATE players
		SET cash = $3, last_bonus_date = $4, updated_at = NOW()
		WHERE chat_id = $1 AND vk_id = $2
	`

	result, err := r.pool.Exec(ctx, query, chatID, vkID, cash, claimedAt)
	if err != nil {
		return fmt.Errorf("failed to give bonus: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// ListByCash returns a chat's players ordered by balance, richest
// first, for the leaderboard.
func (r *PlayerRepository) ListByCash(ctx context.Context, chatID int64, limit int) ([]*model.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE chat_id = $1
		ORDER BY cash DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

// Position returns the 1-based rating position of a balance within a
// chat: one plus the number of strictly richer players.
func (r *PlayerRepository) Position(ctx context.Context, chatID int64, cash float64) (int, error) {
	const query = `SELECT COUNT(*) + 1 FROM players WHERE chat_id = $1 AND cash > $2`

	var pos int
	if err := r.pool.QueryRow(ctx, query, chatID, cash).Scan(&pos); err != nil {
		return 0, fmt.Errorf("failed to get player position: %w", err)
	}
	return pos, nil
}
