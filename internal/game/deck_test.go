package game

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackjackValue(t *testing.T) {
	tests := []struct {
		name         string
		card         Card
		runningTotal int
		expected     int
	}{
		{"numeric rank", Card{Rank: "7", Suit: "clubs"}, 0, 7},
		{"ten", Card{Rank: "10", Suit: "hearts"}, 5, 10},
		{"jack", Card{Rank: "j", Suit: "spades"}, 0, 10},
		{"queen", Card{Rank: "q", Suit: "spades"}, 0, 10},
		{"king", Card{Rank: "k", Suit: "spades"}, 0, 10},
		{"ace counts 11 on empty hand", Card{Rank: "a", Suit: "clubs"}, 0, 11},
		{"ace counts 11 at total 10", Card{Rank: "a", Suit: "clubs"}, 10, 11},
		{"ace counts 1 at total 11", Card{Rank: "a", Suit: "clubs"}, 11, 1},
		{"ace counts 1 at total 21", Card{Rank: "a", Suit: "clubs"}, 21, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.card.BlackjackValue(tt.runningTotal))
		})
	}
}

func TestNewDeckSize(t *testing.T) {
	assert.Equal(t, 52, NewDeck(1).Remaining())
	assert.Equal(t, 52*5, NewDeck(5).Remaining())
	assert.Equal(t, 52, NewDeck(0).Remaining(), "deck count below 1 falls back to a single deck")
}

func TestDeckDraw(t *testing.T) {
	d := NewDeck(1)
	tail := d.Cards[len(d.Cards)-1]

	card, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, tail, card, "Draw pops from the tail")
	assert.Equal(t, 51, d.Remaining())
	require.NotNil(t, d.LastCard)
	assert.Equal(t, card, *d.LastCard)
}

func TestDeckDrawExhausted(t *testing.T) {
	d := &Deck{}

	_, err := d.Draw()
	assert.True(t, errors.Is(err, ErrDeckExhausted))
}

func TestDeckJSONRoundTrip(t *testing.T) {
	d := NewDeck(2)
	for i := 0; i < 10; i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var restored Deck
	require.NoError(t, json.Unmarshal(raw, &restored))

	assert.Equal(t, d.Cards, restored.Cards, "remaining card order must round-trip exactly")
	require.NotNil(t, restored.LastCard)
	assert.Equal(t, *d.LastCard, *restored.LastCard)
}
