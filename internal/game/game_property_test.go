package game

import (
	"testing"

	"pgregory.net/rapid"
)

// TestDeckDrawCountProperty checks that any draw sequence depletes the
// deck one card at a time and never produces a card twice.
func TestDeckDrawCountProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numDecks := rapid.IntRange(1, 4).Draw(t, "numDecks")
		draws := rapid.IntRange(0, 52*numDecks).Draw(t, "draws")

		d := NewDeck(numDecks)
		seen := make(map[Card]int)

		for i := 0; i < draws; i++ {
			c, err := d.Draw()
			if err != nil {
				t.Fatalf("draw %d of %d failed: %v", i+1, draws, err)
			}
			seen[c]++
		}

		if d.Remaining() != 52*numDecks-draws {
			t.Fatalf("remaining = %d, want %d", d.Remaining(), 52*numDecks-draws)
		}

		for c, n := range seen {
			if n > numDecks {
				t.Fatalf("card %v drawn %d times from %d decks", c, n, numDecks)
			}
		}
	})
}

// TestScoreSequentialAceProperty checks that the incremental score
// always equals a replay of the sequential ace rule over the hand:
// each ace is worth 11 unless that would push the running total past 21.
func TestScoreSequentialAceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ranks := rapid.SliceOfN(
			rapid.SampledFrom(Ranks), 1, 10,
		).Draw(t, "ranks")

		p := NewPlayer(1, "p", 0)
		expected := 0
		for _, r := range ranks {
			c := Card{Rank: r, Suit: "clubs"}
			expected += c.BlackjackValue(expected)
			p.AddCard(c)
		}

		if p.Score != expected {
			t.Fatalf("score = %d, want %d for %v", p.Score, expected, ranks)
		}
	})
}

// TestSettleConservationProperty checks cash conservation: whatever
// terminal status a player reaches, the balance moves by exactly the
// status' payout, and only once no matter how often it is re-applied.
func TestSettleConservationProperty(t *testing.T) {
	settlers := []struct {
		name   string
		settle func(*Player)
		payout func(bet int64) float64
	}{
		{"win", (*Player).SetWin, func(b int64) float64 { return float64(b) }},
		{"draw", (*Player).SetDraw, func(int64) float64 { return 0 }},
		{"defeat", (*Player).SetDefeat, func(b int64) float64 { return -float64(b) }},
		{"bust", (*Player).SetBust, func(b int64) float64 { return -float64(b) }},
		{"bj32", (*Player).SetBlackjackWin32, func(b int64) float64 { return 1.5 * float64(b) }},
		{"bj11", (*Player).SetBlackjackWin11, func(b int64) float64 { return float64(b) }},
	}

	rapid.Check(t, func(t *rapid.T) {
		cash := float64(rapid.Int64Range(0, 1_000_000).Draw(t, "cash"))
		bet := rapid.Int64Range(1, 10_000).Draw(t, "bet")
		idx := rapid.IntRange(0, len(settlers)-1).Draw(t, "settler")
		repeats := rapid.IntRange(1, 5).Draw(t, "repeats")

		p := NewPlayer(1, "p", cash)
		p.PlaceBet(bet)

		for i := 0; i < repeats; i++ {
			settlers[idx].settle(p)
		}

		want := cash + settlers[idx].payout(bet)
		if p.Cash != want {
			t.Fatalf("%s settled %d times: cash = %v, want %v",
				settlers[idx].name, repeats, p.Cash, want)
		}
	})
}
