package game

// BlackJackGame is the per-chat aggregate: the shoe, the seated
// players in registration order, the dealer hand, betting limits and
// the turn cursor. The whole aggregate serializes to one JSON record,
// which is the unit of persistence between chat messages.
type BlackJackGame struct {
	ChatID         int64     `json:"chat_id"`
	PlannedPlayers int       `json:"planned_players"`
	Deck           *Deck     `json:"deck"`
	Players        []*Player `json:"players"`
	Dealer         *Player   `json:"dealer"`
	MinBet         int64     `json:"min_bet"`
	MaxBet         int64     `json:"max_bet"`

	// CurrentIdx points at the player whose turn it is;
	// nil means the turn order is exhausted.
	CurrentIdx *int `json:"current_player_idx"`
}

// NewBlackJackGame creates a game for the given chat with an empty
// seat list and a freshly shuffled shoe.
func NewBlackJackGame(chatID int64, plannedPlayers, numDecks int, minBet, maxBet int64) *BlackJackGame {
	idx := 0
	return &BlackJackGame{
		ChatID:         chatID,
		PlannedPlayers: plannedPlayers,
		Deck:           NewDeck(numDecks),
		Dealer:         NewDealer(),
		MinBet:         minBet,
		MaxBet:         maxBet,
		CurrentIdx:     &idx,
	}
}

// AddPlayer seats a player. A second registration with the same VK id
// is rejected and reported with false.
func (g *BlackJackGame) AddPlayer(p *Player) bool {
	if g.PlayerByID(p.VKID) != nil {
		return false
	}

	g.Players = append(g.Players, p)
	return true
}

// PlayerByID finds a seated player by VK id, or nil.
func (g *BlackJackGame) PlayerByID(vkID int64) *Player {
	for _, p := range g.Players {
		if p.VKID == vkID {
			return p
		}
	}
	return nil
}

// AllPlayersRegistered reports whether the planned seat count is full.
func (g *BlackJackGame) AllPlayersRegistered() bool {
	return len(g.Players) == g.PlannedPlayers
}

// PlayersWhoBet returns the players that already placed a bet.
func (g *BlackJackGame) PlayersWhoBet() []*Player {
	var res []*Player
	for _, p := range g.Players {
		if p.Bet != nil {
			res = append(res, p)
		}
	}
	return res
}

// AllPlayersBet reports whether every seated player placed a bet.
func (g *BlackJackGame) AllPlayersBet() bool {
	return len(g.Players) == len(g.PlayersWhoBet())
}

// CurrentPlayer returns the player at the turn cursor, or nil when the
// turn order is exhausted.
func (g *BlackJackGame) CurrentPlayer() *Player {
	if g.CurrentIdx == nil || *g.CurrentIdx >= len(g.Players) {
		return nil
	}
	return g.Players[*g.CurrentIdx]
}

// NextPlayer advances the turn cursor. It returns false and nils the
// cursor when the last player's turn has passed, which is the signal
// to move on to the dealer.
func (g *BlackJackGame) NextPlayer() bool {
	if g.CurrentIdx == nil {
		return false
	}

	next := *g.CurrentIdx + 1
	if next >= len(g.Players) {
		g.CurrentIdx = nil
		return false
	}

	g.CurrentIdx = &next
	return true
}

// DealCards gives every seated player two cards and the dealer one
// face-up card. The dealer's second card is drawn later, during the
// dealer's turn. A depleted shoe surfaces as ErrDeckExhausted.
func (g *BlackJackGame) DealCards() error {
	for _, p := range g.Players {
		for i := 0; i < 2; i++ {
			c, err := g.Deck.Draw()
			if err != nil {
				return err
			}
			p.AddCard(c)
		}
	}

	c, err := g.Deck.Draw()
	if err != nil {
		return err
	}
	g.Dealer.AddCard(c)
	return nil
}

// DealerHasPotentialBlackjack reports whether the dealer's single
// up-card could be half of a natural: any ten-value card or an ace.
func (g *BlackJackGame) DealerHasPotentialBlackjack() bool {
	return len(g.Dealer.Hand) == 1 && g.Dealer.Score >= 10
}

// HandlePlayerBlackjack resolves a player's natural against the
// dealer's up-card. With no potential dealer blackjack the player is
// paid 3:2 immediately. Otherwise the result is deferred, because the
// hole card is not known yet: an ace up-card asks the player to choose
// (even money now or wait), a ten-value up-card just waits.
func (g *BlackJackGame) HandlePlayerBlackjack(p *Player) {
	if !g.DealerHasPotentialBlackjack() {
		p.SetBlackjackWin32()
		return
	}

	if g.Dealer.Score == 10 {
		p.SetBlackjackAwaitingDealer()
	} else {
		p.SetBlackjackNeedsClarification()
	}
}

// HandleDealer plays the dealer hand: draw until 17 or more.
func (g *BlackJackGame) HandleDealer() error {
	for g.Dealer.Score < 17 {
		c, err := g.Deck.Draw()
		if err != nil {
			return err
		}
		g.Dealer.AddCard(c)
	}
	return nil
}

// DefineResults finalizes every player whose result is still pending
// and applies the cash deltas. Players resolved earlier (bust, early
// blackjack payout) are skipped.
func (g *BlackJackGame) DefineResults() {
	if g.Dealer.HasBlackjack() {
		g.defineResultsWithDealerBlackjack()
	} else {
		g.defineResultsWithoutDealerBlackjack()
	}
}

// defineResultsWithDealerBlackjack pushes deferred blackjacks and
// defeats everyone else still pending.
func (g *BlackJackGame) defineResultsWithDealerBlackjack() {
	for _, p := range g.Players {
		if p.ResultDefined() {
			continue
		}

		if p.AwaitingDealer() {
			p.SetDraw()
		} else {
			p.SetDefeat()
		}
	}
}

func (g *BlackJackGame) defineResultsWithoutDealerBlackjack() {
	d := g.Dealer
	for _, p := range g.Players {
		if p.ResultDefined() {
			continue
		}

		switch {
		case p.AwaitingDealer():
			p.SetBlackjackWin32()
		case !d.NotBust() || p.Score > d.Score:
			p.SetWin()
		case p.Score == d.Score:
			p.SetDraw()
		default:
			p.SetDefeat()
		}
	}
}

// Reset prepares the same table for another round: every hand and bet
// is cleared and the turn cursor rewound. The shoe is kept and keeps
// depleting until it runs out.
func (g *BlackJackGame) Reset() {
	for _, p := range g.Players {
		p.Reset()
	}
	g.Dealer.Reset()

	idx := 0
	g.CurrentIdx = &idx
}
