// Package model defines the persisted data models of the blackjack bot.
package model

import "time"

// PlayerStats is the lifetime statistics block stored with a player.
type PlayerStats struct {
	NumberOfGames   int     `db:"number_of_games"`
	NumberOfWins    int     `db:"number_of_wins"`
	NumberOfDefeats int     `db:"number_of_defeats"`
	MaxCash         float64 `db:"max_cash"`
	MaxWin          float64 `db:"max_win"`
	MaxBet          float64 `db:"max_bet"`
	AverageBet      float64 `db:"average_bet"`
}

// Player is a chat participant's stored profile. Cash here is the
// authoritative balance; during a round the game works on a snapshot
// that is reconciled back exactly once at round end.
type Player struct {
	ChatID        int64       `db:"chat_id"`
	VKID          int64       `db:"vk_id"`
	FirstName     string      `db:"first_name"`
	LastName      string      `db:"last_name"`
	Cash          float64     `db:"cash"`
	LastBonusDate time.Time   `db:"last_bonus_date"`
	Stats         PlayerStats
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// DisplayName is the name used in chat messages.
func (p *Player) DisplayName() string {
	return p.FirstName
}

// CanClaimBonus reports whether the bonus period has elapsed since the
// last claim.
func (p *Player) CanClaimBonus(periodMinutes int, now time.Time) bool {
	return !now.Before(p.LastBonusDate.Add(time.Duration(periodMinutes) * time.Minute))
}

// TimeToBonus returns how long remains until the next bonus claim.
func (p *Player) TimeToBonus(periodMinutes int, now time.Time) time.Duration {
	next := p.LastBonusDate.Add(time.Duration(periodMinutes) * time.Minute)
	if now.After(next) {
		return 0
	}
	return next.Sub(now)
}

// GameSettings is the single-row table of table rules. Values are
// seeded from config defaults on first start and editable in storage
// afterwards.
type GameSettings struct {
	MinBet             int64   `db:"min_bet"`
	MaxBet             int64   `db:"max_bet"`
	StartCash          float64 `db:"start_cash"`
	Bonus              float64 `db:"bonus"`
	BonusPeriodMinutes int     `db:"bonus_period_minutes"`
	NumOfDecks         int     `db:"num_of_decks"`
}

// Round is the audit record of one player's finished round.
type Round struct {
	ID        int64     `db:"id"`
	ChatID    int64     `db:"chat_id"`
	VKID      int64     `db:"vk_id"`
	Bet       int64     `db:"bet"`
	Delta     float64   `db:"delta"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
