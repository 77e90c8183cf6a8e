package game

// DealerID is the sentinel identity of the dealer hand; real players
// always carry a positive VK user id.
const DealerID int64 = -1

// Status is the per-round result state of a player. Exactly one status
// is active per player per round.
type Status string

// Player statuses. InGame is the only non-final pre-dealer status;
// BlackjackAwaitingDealer and BlackjackNeedsClarification defer a
// natural blackjack until the dealer's hole card is known.
const (
	StatusInGame                      Status = "in_game"
	StatusWin                         Status = "win"
	StatusDraw                        Status = "draw"
	StatusDefeat                      Status = "defeat"
	StatusBust                        Status = "bust"
	StatusBlackjackWin32              Status = "bj_win_3_2"
	StatusBlackjackWin11              Status = "bj_win_1_1"
	StatusBlackjackAwaitingDealer     Status = "bj_awaiting_dealer"
	StatusBlackjackNeedsClarification Status = "bj_needs_clarification"
)

// Player is one participant of a round: a hand, a bet and a working
// copy of the cash balance. Cash here is a snapshot of the stored
// balance, reconciled back to storage exactly once at round end.
type Player struct {
	VKID   int64   `json:"vk_id"`
	Name   string  `json:"name"`
	Cash   float64 `json:"cash"`
	Bet    *int64  `json:"bet"`
	Hand   []Card  `json:"hand"`
	Score  int     `json:"score"`
	Status Status  `json:"status"`

	// Settled guards the one-shot cash adjustment of a terminal
	// status: setting a terminal status twice must not pay twice.
	Settled bool `json:"settled"`
}

// NewPlayer creates a participant with an empty hand.
func NewPlayer(vkID int64, name string, cash float64) *Player {
	return &Player{
		VKID:   vkID,
		Name:   name,
		Cash:   cash,
		Status: StatusInGame,
	}
}

// NewDealer creates the dealer hand. The dealer has no human owner and
// never bets.
func NewDealer() *Player {
	return NewPlayer(DealerID, "Dealer", 0)
}

// IsDealer reports whether this hand belongs to the dealer.
func (p *Player) IsDealer() bool {
	return p.VKID == DealerID
}

// AddCard appends a card to the hand and advances the running score.
// The score is updated incrementally because ace valuation depends on
// the total at the moment the ace is drawn.
func (p *Player) AddCard(c Card) {
	p.Hand = append(p.Hand, c)
	p.Score += c.BlackjackValue(p.Score)
}

// PlaceBet records the player's wager for this round.
func (p *Player) PlaceBet(amount int64) {
	p.Bet = &amount
}

// BetAmount returns the placed bet, or 0 when none was placed.
func (p *Player) BetAmount() int64 {
	if p.Bet == nil {
		return 0
	}
	return *p.Bet
}

// HasBlackjack reports a natural: exactly two cards totaling 21.
func (p *Player) HasBlackjack() bool {
	return len(p.Hand) == 2 && p.Score == 21
}

// NotBust reports whether the hand is still at 21 or below.
func (p *Player) NotBust() bool {
	return p.Score <= 21
}

// ResultDefined reports whether the round outcome is already final for
// this player. The two blackjack deferral statuses are still pending.
func (p *Player) ResultDefined() bool {
	switch p.Status {
	case StatusInGame, StatusBlackjackAwaitingDealer, StatusBlackjackNeedsClarification:
		return false
	}
	return true
}

// AwaitingDealer reports whether the player's natural blackjack waits
// for the dealer's hole card.
func (p *Player) AwaitingDealer() bool {
	return p.Status == StatusBlackjackAwaitingDealer
}

// IsWinner reports whether the final status pays out.
func (p *Player) IsWinner() bool {
	switch p.Status {
	case StatusWin, StatusBlackjackWin32, StatusBlackjackWin11:
		return true
	}
	return false
}

// IsLoser reports whether the final status costs the bet.
func (p *Player) IsLoser() bool {
	return p.Status == StatusDefeat || p.Status == StatusBust
}

// WinAmount returns the cash delta of a winning status, for statistics.
func (p *Player) WinAmount() float64 {
	switch p.Status {
	case StatusWin, StatusBlackjackWin11:
		return float64(p.BetAmount())
	case StatusBlackjackWin32:
		return 1.5 * float64(p.BetAmount())
	}
	return 0
}

// settle applies the terminal status and its cash delta exactly once.
// A repeated terminal transition changes neither status nor cash.
func (p *Player) settle(s Status, delta float64) {
	if p.Settled {
		return
	}
	p.Status = s
	p.Cash += delta
	p.Settled = true
}

// SetWin finalizes a regular win, paying the bet 1:1.
func (p *Player) SetWin() { p.settle(StatusWin, float64(p.BetAmount())) }

// SetDraw finalizes a push; cash is unchanged.
func (p *Player) SetDraw() { p.settle(StatusDraw, 0) }

// SetDefeat finalizes a loss, costing the bet.
func (p *Player) SetDefeat() { p.settle(StatusDefeat, -float64(p.BetAmount())) }

// SetBust finalizes a bust, costing the bet.
func (p *Player) SetBust() { p.settle(StatusBust, -float64(p.BetAmount())) }

// SetBlackjackWin32 finalizes a natural blackjack at 3:2.
func (p *Player) SetBlackjackWin32() {
	p.settle(StatusBlackjackWin32, 1.5*float64(p.BetAmount()))
}

// SetBlackjackWin11 finalizes an early even-money blackjack payout.
func (p *Player) SetBlackjackWin11() {
	p.settle(StatusBlackjackWin11, float64(p.BetAmount()))
}

// SetBlackjackAwaitingDealer defers the blackjack until the dealer's
// turn; no cash moves yet.
func (p *Player) SetBlackjackAwaitingDealer() {
	p.Status = StatusBlackjackAwaitingDealer
}

// SetBlackjackNeedsClarification asks the player to choose between the
// even-money payout and waiting for the dealer; no cash moves yet.
func (p *Player) SetBlackjackNeedsClarification() {
	p.Status = StatusBlackjackNeedsClarification
}

// Reset clears the round state (bet, hand, score, status) for another
// round with the same participants. Cash is untouched.
func (p *Player) Reset() {
	p.Bet = nil
	p.Hand = nil
	p.Score = 0
	p.Status = StatusInGame
	p.Settled = false
}
