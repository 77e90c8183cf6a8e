// Package game implements the blackjack rules engine: cards, deck,
// players and the per-chat game aggregate. The package is pure
// in-memory logic; persistence and messaging live elsewhere.
package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrDeckExhausted is returned by Draw when no cards remain.
// Callers must abort the current round gracefully instead of crashing.
var ErrDeckExhausted = errors.New("deck exhausted")

// Suit identifies one of the four french suits.
type Suit string

// Rank identifies a card rank.
type Rank string

// Suits in deck-building order.
var Suits = []Suit{"clubs", "diamonds", "hearts", "spades"}

// Ranks in deck-building order.
var Ranks = []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", "j", "q", "k", "a"}

// Card is an immutable rank/suit value object.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// BlackjackValue returns the card's value given the running hand total
// before this card is added. Faces count 10, numeric ranks their face
// value. An ace counts 11 only while it keeps the total at 21 or below,
// so the value depends on draw order, not on hand composition.
func (c Card) BlackjackValue(runningTotal int) int {
	switch c.Rank {
	case "j", "q", "k", "10":
		return 10
	case "a":
		if runningTotal+11 <= 21 {
			return 11
		}
		return 1
	default:
		// numeric ranks 2-9
		v := int(c.Rank[0] - '0')
		return v
	}
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Deck is an ordered, depletable shoe of 52×N cards, shuffled at
// creation. Draw pops from the tail. The deck persists between chat
// messages, so its JSON form must round-trip the exact card order and
// the last drawn card.
type Deck struct {
	Cards    []Card `json:"cards"`
	LastCard *Card  `json:"last_card"`
}

// NewDeck builds a shuffled shoe of numDecks standard decks.
// numDecks below 1 is treated as 1.
func NewDeck(numDecks int) *Deck {
	if numDecks < 1 {
		numDecks = 1
	}

	cards := make([]Card, 0, 52*numDecks)
	for i := 0; i < numDecks; i++ {
		for _, r := range Ranks {
			for _, s := range Suits {
				cards = append(cards, Card{Rank: r, Suit: s})
			}
		}
	}

	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &Deck{Cards: cards}
}

// Draw removes and returns the last card of the deck.
// Returns ErrDeckExhausted when the deck is empty.
func (d *Deck) Draw() (Card, error) {
	if len(d.Cards) == 0 {
		return Card{}, ErrDeckExhausted
	}

	card := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	d.LastCard = &card
	return card, nil
}

// Remaining reports how many cards are left in the shoe.
func (d *Deck) Remaining() int {
	return len(d.Cards)
}
