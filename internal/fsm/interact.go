package fsm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vk-blackjack-bot/internal/game"
	"vk-blackjack-bot/internal/model"
	"vk-blackjack-bot/internal/repository"
	"vk-blackjack-bot/internal/session"
	"vk-blackjack-bot/internal/vk"
)

// TriggerWord wakes the bot up in a chat without an active session.
const TriggerWord = "/go"

const leaderboardSize = 10

// Sender posts outbound chat messages. Fire-and-forget: a failed send
// surfaces as an error but is never retried here.
type Sender interface {
	SendMessage(ctx context.Context, peerID int64, text string, kbd vk.Keyboard) error
}

// UserDirectory resolves platform profiles for first-contact players.
type UserDirectory interface {
	GetUsers(ctx context.Context, ids []int64) ([]vk.User, error)
}

// PlayerAccessor is the stored-player contract the game needs. Cash in
// storage is authoritative between rounds; within a round the game
// works on a snapshot reconciled back via UpdateAfterGame.
type PlayerAccessor interface {
	Add(ctx context.Context, chatID, vkID int64, firstName, lastName string, startCash float64) (*model.Player, error)
	GetByVKID(ctx context.Context, chatID, vkID int64) (*model.Player, error)
	UpdateAfterGame(ctx context.Context, chatID, vkID int64, cash float64, stats model.PlayerStats) error
	GiveBonus(ctx context.Context, chatID, vkID int64, cash float64, claimedAt time.Time) error
	ListByCash(ctx context.Context, chatID int64, limit int) ([]*model.Player, error)
	Position(ctx context.Context, chatID int64, cash float64) (int, error)
}

// SettingsAccessor reads the table rules.
type SettingsAccessor interface {
	Get(ctx context.Context) (*model.GameSettings, error)
}

// RoundRecorder keeps the per-player audit trail of finished rounds.
type RoundRecorder interface {
	Record(ctx context.Context, chatID, vkID, bet int64, delta float64, status string) error
}

// Interactor runs the business transitions of the game flow. State
// handlers decide which transition applies; the Interactor mutates the
// session, talks to storage and sends the chat messages.
type Interactor struct {
	sender   Sender
	users    UserDirectory
	players  PlayerAccessor
	settings SettingsAccessor
	rounds   RoundRecorder

	now func() time.Time
}

// NewInteractor wires the interaction layer. rounds may be nil when no
// audit trail is wanted.
func NewInteractor(
	sender Sender,
	users UserDirectory,
	players PlayerAccessor,
	settings SettingsAccessor,
	rounds RoundRecorder,
) *Interactor {
	return &Interactor{
		sender:   sender,
		users:    users,
		players:  players,
		settings: settings,
		rounds:   rounds,
		now:      time.Now,
	}
}

func (i *Interactor) send(ctx context.Context, s *session.Session, text string, kbd vk.Keyboard) error {
	return i.sender.SendMessage(ctx, s.Chat(), text, kbd)
}

// handleTrigger greets the chat and opens the start menu.
func (i *Interactor) handleTrigger(ctx context.Context, s *session.Session) error {
	if err := i.send(ctx, s, "Hey there! What shall we do?", vk.StartKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForStartChoice)
	return nil
}

// handleNewGame asks for the number of seats.
func (i *Interactor) handleNewGame(ctx context.Context, s *session.Session) error {
	if err := i.send(ctx, s, "Choose the number of players", vk.PlayersAmountKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForPlayersAmount)
	return nil
}

// fetchPlayer loads the sender's stored profile, creating it with the
// starting balance on first contact. Reports whether it was created.
func (i *Interactor) fetchPlayer(ctx context.Context, chatID, vkID int64, startCash float64) (bool, *model.Player, error) {
	player, err := i.players.GetByVKID(ctx, chatID, vkID)
	if err == nil {
		return false, player, nil
	}
	if !errors.Is(err, repository.ErrPlayerNotFound) {
		return false, nil, err
	}

	users, err := i.users.GetUsers(ctx, []int64{vkID})
	if err != nil {
		return false, nil, err
	}

	firstName, lastName := "Player", ""
	if len(users) > 0 {
		firstName, lastName = users[0].FirstName, users[0].LastName
	}

	player, err = i.players.Add(ctx, chatID, vkID, firstName, lastName, startCash)
	if err != nil {
		return false, nil, err
	}
	return true, player, nil
}

// handleBalance shows the sender's stored balance.
func (i *Interactor) handleBalance(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	sets, err := i.settings.Get(ctx)
	if err != nil {
		return err
	}

	_, player, err := i.fetchPlayer(ctx, s.Chat(), msg.FromID, sets.StartCash)
	if err != nil {
		return err
	}

	answer := fmt.Sprintf("Your balance: %s$", formatCash(player.Cash))
	if err := i.send(ctx, s, answer, vk.StartKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForStartChoice)
	return nil
}

// handleBonus pays the periodic bonus, or reports how long remains
// until the next one. First contact pays the starting balance instead.
func (i *Interactor) handleBonus(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	sets, err := i.settings.Get(ctx)
	if err != nil {
		return err
	}

	created, player, err := i.fetchPlayer(ctx, s.Chat(), msg.FromID, sets.StartCash)
	if err != nil {
		return err
	}

	now := i.now()
	period := time.Duration(sets.BonusPeriodMinutes) * time.Minute

	var answer string
	switch {
	case created:
		answer = fmt.Sprintf(
			"First time here, so you start with %s$\nNext bonus in %s",
			formatCash(sets.StartCash), prettyDuration(period),
		)
	case player.CanClaimBonus(sets.BonusPeriodMinutes, now):
		if err := i.players.GiveBonus(ctx, s.Chat(), player.VKID, player.Cash+sets.Bonus, now); err != nil {
			return err
		}
		answer = fmt.Sprintf(
			"Here is your bonus: %s$\nNext bonus in %s",
			formatCash(sets.Bonus), prettyDuration(period),
		)
	default:
		answer = fmt.Sprintf(
			"No bonus available yet :(\nNext bonus in %s",
			prettyDuration(player.TimeToBonus(sets.BonusPeriodMinutes, now)),
		)
	}

	if err := i.send(ctx, s, answer, vk.StartKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForStartChoice)
	return nil
}

// handleStatistics shows the chat leaderboard.
func (i *Interactor) handleStatistics(ctx context.Context, s *session.Session) error {
	players, err := i.players.ListByCash(ctx, s.Chat(), leaderboardSize)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d players of the chat:\n", leaderboardSize)
	for idx, p := range players {
		fmt.Fprintf(&b, "\n%d) %s %s: %s$", idx+1, p.FirstName, p.LastName, formatCash(p.Cash))
	}

	if err := i.send(ctx, s, b.String(), vk.StartKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForStartChoice)
	return nil
}

// handlePersonalStatistics shows the sender's lifetime numbers and
// rating position.
func (i *Interactor) handlePersonalStatistics(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	sets, err := i.settings.Get(ctx)
	if err != nil {
		return err
	}

	_, player, err := i.fetchPlayer(ctx, s.Chat(), msg.FromID, sets.StartCash)
	if err != nil {
		return err
	}

	pos, err := i.players.Position(ctx, s.Chat(), player.Cash)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Statistics for %s %s\n\n", player.FirstName, player.LastName)
	fmt.Fprintf(&b, "Rating position: %d\n", pos)
	fmt.Fprintf(&b, "Games played: %d\n", player.Stats.NumberOfGames)
	fmt.Fprintf(&b, "Wins: %d\n", player.Stats.NumberOfWins)
	fmt.Fprintf(&b, "Defeats: %d\n", player.Stats.NumberOfDefeats)
	fmt.Fprintf(&b, "Best balance: %s$\n", formatCash(player.Stats.MaxCash))
	fmt.Fprintf(&b, "Biggest win: %s$\n", formatCash(player.Stats.MaxWin))
	fmt.Fprintf(&b, "Biggest bet: %s$\n", formatCash(player.Stats.MaxBet))
	fmt.Fprintf(&b, "Average bet: %s$", formatCash(player.Stats.AverageBet))

	if err := i.send(ctx, s, b.String(), vk.StartKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForStartChoice)
	return nil
}

// initGame creates the game aggregate for the chosen seat count and
// opens registration.
func (i *Interactor) initGame(ctx context.Context, s *session.Session, plannedPlayers int) error {
	sets, err := i.settings.Get(ctx)
	if err != nil {
		return err
	}

	s.SetGame(game.NewBlackJackGame(s.Chat(), plannedPlayers, sets.NumOfDecks, sets.MinBet, sets.MaxBet))

	answer := fmt.Sprintf("Number of players: %d", plannedPlayers)
	if err := i.send(ctx, s, answer, vk.EmptyKeyboard); err != nil {
		return err
	}

	answer = "Great! Everyone who wants to play, press the button:"
	if err := i.send(ctx, s, answer, vk.RegisterKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForRegistration)
	return nil
}

// registerPlayer seats the sender, then moves to betting once the seat
// quota is full. A repeated registration is acknowledged, not an error.
func (i *Interactor) registerPlayer(ctx context.Context, s *session.Session, msg vk.UpdateMessage) error {
	sets, err := i.settings.Get(ctx)
	if err != nil {
		return err
	}

	_, stored, err := i.fetchPlayer(ctx, s.Chat(), msg.FromID, sets.StartCash)
	if err != nil {
		return err
	}

	g := s.Game()
	player := game.NewPlayer(stored.VKID, stored.FirstName, stored.Cash)

	var answer string
	if g.AddPlayer(player) {
		answer = fmt.Sprintf("%s, you are in! (%d/%d registered)",
			player.Name, len(g.Players), g.PlannedPlayers)
	} else {
		answer = fmt.Sprintf("%s, you are already in. Wait for the others!", player.Name)
	}

	if err := i.send(ctx, s, answer, vk.RegisterKeyboard); err != nil {
		return err
	}

	if g.AllPlayersRegistered() {
		return i.completeRegistration(ctx, s)
	}
	return nil
}

func (i *Interactor) completeRegistration(ctx context.Context, s *session.Session) error {
	g := s.Game()

	var b strings.Builder
	b.WriteString("All players registered.\nSend your bet amount without spaces.\n\n")
	fmt.Fprintf(&b, "Table rules: bets from %d to %d\n", g.MinBet, g.MaxBet)
	b.WriteString("Balances:")
	for _, p := range g.Players {
		fmt.Fprintf(&b, "\n%s: %s$", p.Name, formatCash(p.Cash))
	}

	if err := i.send(ctx, s, b.String(), vk.CancelKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForBets)
	return nil
}

// placeBet validates and records the sender's wager. Every rejection
// answers with a corrective message and keeps the state unchanged.
// When the last bet lands the cards are dealt.
func (i *Interactor) placeBet(ctx context.Context, s *session.Session, msg vk.UpdateMessage, player *game.Player) error {
	g := s.Game()

	bet, ok := ParseBet(msg.Text)
	var answer string
	switch {
	case !ok:
		answer = fmt.Sprintf("%s, that is not a valid bet amount", player.Name)
	case float64(bet) > player.Cash:
		answer = fmt.Sprintf("%s, not enough money. Your balance: %s$", player.Name, formatCash(player.Cash))
	case bet > g.MaxBet:
		answer = fmt.Sprintf("%s, that is over the table maximum (bets from %d to %d)", player.Name, g.MinBet, g.MaxBet)
	case bet < g.MinBet:
		answer = fmt.Sprintf("%s, that is under the table minimum (bets from %d to %d)", player.Name, g.MinBet, g.MaxBet)
	default:
		player.PlaceBet(bet)
		answer = fmt.Sprintf("%s, bet accepted! Amount: %d", player.Name, bet)
	}

	if err := i.send(ctx, s, answer, vk.CancelKeyboard); err != nil {
		return err
	}

	if g.AllPlayersBet() {
		return i.completeBetting(ctx, s)
	}
	return nil
}

func (i *Interactor) completeBetting(ctx context.Context, s *session.Session) error {
	if err := i.send(ctx, s, "All bets are in! Dealing the cards...", vk.EmptyKeyboard); err != nil {
		return err
	}
	return i.dealCards(ctx, s)
}

// dealCards hands out the initial cards and opens the turn loop.
func (i *Interactor) dealCards(ctx context.Context, s *session.Session) error {
	g := s.Game()

	if err := g.DealCards(); err != nil {
		if errors.Is(err, game.ErrDeckExhausted) {
			return i.abortExhaustedDeck(ctx, s)
		}
		return err
	}

	var b strings.Builder
	for idx, p := range g.Players {
		if idx > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s, your cards:\n%s", p.Name, handInfo(p))
	}
	fmt.Fprintf(&b, "\n\n%s:\n%s", g.Dealer.Name, handInfo(g.Dealer))

	if err := i.send(ctx, s, b.String(), vk.EmptyKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForAction)
	return i.askPlayer(ctx, s)
}

// askPlayer prompts the player at the turn cursor. A natural blackjack
// gets its own prompt, everyone else chooses hit or stand.
func (i *Interactor) askPlayer(ctx context.Context, s *session.Session) error {
	if s.Game().CurrentPlayer().HasBlackjack() {
		return i.askPlayerWithBlackjack(ctx, s)
	}
	return i.askPlayerAction(ctx, s)
}

func (i *Interactor) askPlayerAction(ctx context.Context, s *session.Session) error {
	g := s.Game()
	player := g.CurrentPlayer()

	answer := fmt.Sprintf("%s, your total: %d (%s: %d)", player.Name, player.Score, g.Dealer.Name, g.Dealer.Score)
	return i.send(ctx, s, answer, vk.ActionKeyboard)
}

// askPlayerWithBlackjack resolves the natural against the dealer's
// up-card and prompts accordingly: choose even money, collect 3:2, or
// wait for the dealer.
func (i *Interactor) askPlayerWithBlackjack(ctx context.Context, s *session.Session) error {
	g := s.Game()
	player := g.CurrentPlayer()

	g.HandlePlayerBlackjack(player)

	answer := fmt.Sprintf("%s, you have blackjack!\n", player.Name)
	var kbd vk.Keyboard
	switch player.Status {
	case game.StatusBlackjackNeedsClarification:
		answer += "Your call"
		kbd = vk.BlackjackClarifyKeyboard
	case game.StatusBlackjackWin32:
		answer += "Congratulations!"
		kbd = vk.BlackjackWin32Keyboard
	default:
		answer += "Wait until the end of the round"
		kbd = vk.BlackjackWaitKeyboard
	}

	return i.send(ctx, s, answer, kbd)
}

// handleMainAction runs one turn-loop choice of the current player.
// Messages from anyone but the current player are ignored, and so are
// actions that do not fit the player's situation.
func (i *Interactor) handleMainAction(ctx context.Context, s *session.Session, msg vk.UpdateMessage, action MainAction) error {
	g := s.Game()
	player := g.CurrentPlayer()
	if player == nil || msg.FromID != player.VKID {
		return nil
	}

	if player.HasBlackjack() {
		return i.handleBlackjackAction(ctx, s, player, action)
	}

	switch action {
	case ActionHit:
		return i.handleHit(ctx, s, player)
	case ActionStand:
		return i.advanceTurn(ctx, s)
	}
	return nil
}

// handleBlackjackAction settles the deferred natural per the player's
// choice and passes the turn.
func (i *Interactor) handleBlackjackAction(ctx context.Context, s *session.Session, player *game.Player, action MainAction) error {
	switch {
	case action == ActionBlackjackPickup11 && player.Status == game.StatusBlackjackNeedsClarification:
		player.SetBlackjackWin11()
		answer := fmt.Sprintf("%s, take your 1:1!", player.Name)
		if err := i.send(ctx, s, answer, vk.EmptyKeyboard); err != nil {
			return err
		}
	case action == ActionBlackjackWait:
		player.SetBlackjackAwaitingDealer()
		answer := fmt.Sprintf("%s, wait until the end of the round!", player.Name)
		if err := i.send(ctx, s, answer, vk.EmptyKeyboard); err != nil {
			return err
		}
	case action == ActionBlackjackPickup32 && player.Status == game.StatusBlackjackWin32:
		// already paid during the prompt, just pass the turn
	default:
		return nil
	}

	return i.advanceTurn(ctx, s)
}

// handleHit draws one card. Under 21 the same player keeps choosing;
// exactly 21 passes the turn; over 21 busts.
func (i *Interactor) handleHit(ctx context.Context, s *session.Session, player *game.Player) error {
	g := s.Game()

	card, err := g.Deck.Draw()
	if err != nil {
		if errors.Is(err, game.ErrDeckExhausted) {
			return i.abortExhaustedDeck(ctx, s)
		}
		return err
	}
	player.AddCard(card)

	answer := fmt.Sprintf("%s\n%s", player.Name, handInfo(player))
	if err := i.send(ctx, s, answer, vk.EmptyKeyboard); err != nil {
		return err
	}

	if !player.NotBust() {
		player.SetBust()
		answer = fmt.Sprintf("%s, too many! (total: %d)", player.Name, player.Score)
		if err := i.send(ctx, s, answer, vk.EmptyKeyboard); err != nil {
			return err
		}
		return i.advanceTurn(ctx, s)
	}

	if player.Score == 21 {
		return i.advanceTurn(ctx, s)
	}
	return i.askPlayerAction(ctx, s)
}

// advanceTurn passes the turn to the next player, or runs the dealer
// and closes the round when the turn order is exhausted.
func (i *Interactor) advanceTurn(ctx context.Context, s *session.Session) error {
	g := s.Game()

	if g.NextPlayer() {
		return i.askPlayer(ctx, s)
	}

	if err := g.HandleDealer(); err != nil {
		if errors.Is(err, game.ErrDeckExhausted) {
			return i.abortExhaustedDeck(ctx, s)
		}
		return err
	}

	g.DefineResults()

	if err := i.showResults(ctx, s); err != nil {
		return err
	}
	if err := i.updatePlayersData(ctx, s); err != nil {
		return err
	}

	s.SetState(session.WaitingForLastChoice)
	return nil
}

func (i *Interactor) showResults(ctx context.Context, s *session.Session) error {
	g := s.Game()
	d := g.Dealer

	answer := fmt.Sprintf("%s:\n%s\n\nTotal: %d", d.Name, handInfo(d), d.Score)
	if d.HasBlackjack() {
		answer += " (blackjack)"
	}
	if err := i.send(ctx, s, answer, vk.EmptyKeyboard); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("Round results:")
	for _, p := range g.Players {
		fmt.Fprintf(&b, "\n%s: %s (balance: %s$)", p.Name, statusText(p.Status), formatCash(p.Cash))
	}

	return i.send(ctx, s, b.String(), vk.RepeatKeyboard)
}

// updatePlayersData reconciles every player's round outcome back to
// storage: the new balance, the recalculated statistics and one audit
// row per player.
func (i *Interactor) updatePlayersData(ctx context.Context, s *session.Session) error {
	for _, player := range s.Game().Players {
		stats, err := i.calculateStats(ctx, s.Chat(), player)
		if err != nil {
			return err
		}
		if err := i.players.UpdateAfterGame(ctx, s.Chat(), player.VKID, player.Cash, stats); err != nil {
			return err
		}

		if i.rounds == nil {
			continue
		}
		delta := roundDelta(player)
		if err := i.rounds.Record(ctx, s.Chat(), player.VKID, player.BetAmount(), delta, string(player.Status)); err != nil {
			return err
		}
	}
	return nil
}

// calculateStats folds one finished round into the player's lifetime
// statistics.
func (i *Interactor) calculateStats(ctx context.Context, chatID int64, player *game.Player) (model.PlayerStats, error) {
	stored, err := i.players.GetByVKID(ctx, chatID, player.VKID)
	if err != nil {
		return model.PlayerStats{}, err
	}

	st := stored.Stats
	st.NumberOfGames++
	if player.Cash > st.MaxCash {
		st.MaxCash = player.Cash
	}

	if player.IsWinner() {
		st.NumberOfWins++
		if win := player.WinAmount(); win > st.MaxWin {
			st.MaxWin = win
		}
	} else if player.IsLoser() {
		st.NumberOfDefeats++
	}

	bet := float64(player.BetAmount())
	if bet > st.MaxBet {
		st.MaxBet = bet
	}
	st.AverageBet = (st.AverageBet*float64(st.NumberOfGames-1) + bet) / float64(st.NumberOfGames)

	return st, nil
}

// repeatGame resets the table for another round with the same players
// and the same depleting shoe.
func (i *Interactor) repeatGame(ctx context.Context, s *session.Session) error {
	g := s.Game()
	g.Reset()

	var b strings.Builder
	b.WriteString("Great, one more round! Send your bet amount without spaces.\n\nBalances:")
	for _, p := range g.Players {
		fmt.Fprintf(&b, "\n%s: %s$", p.Name, formatCash(p.Cash))
	}

	if err := i.send(ctx, s, b.String(), vk.CancelKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForBets)
	return nil
}

// endGame closes the session for good.
func (i *Interactor) endGame(ctx context.Context, s *session.Session) error {
	if err := i.send(ctx, s, "Okay, no more games!", vk.EmptyKeyboard); err != nil {
		return err
	}

	s.Clear()
	return nil
}

// Cancel aborts the session on the user's request.
func (i *Interactor) Cancel(ctx context.Context, s *session.Session) error {
	if err := i.send(ctx, s, "Game cancelled", vk.EmptyKeyboard); err != nil {
		return err
	}

	s.Clear()
	return nil
}

// ForceCancel is the recovery path for a handler failure: apologize,
// drop the session, let the chat start over. Called by the worker, so
// a broken chat cannot poison its later messages.
func (i *Interactor) ForceCancel(ctx context.Context, s *session.Session) error {
	if err := i.send(ctx, s, "Oops, something went wrong :(", vk.EmptyKeyboard); err != nil {
		return err
	}

	s.Clear()
	return nil
}

// abortExhaustedDeck ends a round that ran out of cards: the game is
// dropped and the chat returns to the start menu.
func (i *Interactor) abortExhaustedDeck(ctx context.Context, s *session.Session) error {
	s.SetGame(nil)

	answer := "The deck ran out! This game cannot continue"
	if err := i.send(ctx, s, answer, vk.StartKeyboard); err != nil {
		return err
	}

	s.SetState(session.WaitingForStartChoice)
	return nil
}

// roundDelta is the cash movement of one player's finished round.
func roundDelta(p *game.Player) float64 {
	switch {
	case p.IsWinner():
		return p.WinAmount()
	case p.IsLoser():
		return -float64(p.BetAmount())
	}
	return 0
}

func handInfo(p *game.Player) string {
	cards := make([]string, len(p.Hand))
	for idx, c := range p.Hand {
		cards[idx] = c.String()
	}
	return strings.Join(cards, ", ")
}

func statusText(s game.Status) string {
	switch s {
	case game.StatusWin:
		return "win"
	case game.StatusDraw:
		return "push"
	case game.StatusDefeat:
		return "defeat"
	case game.StatusBust:
		return "bust"
	case game.StatusBlackjackWin32:
		return "blackjack 3:2"
	case game.StatusBlackjackWin11:
		return "blackjack 1:1"
	default:
		return string(s)
	}
}

func formatCash(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func prettyDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d.Seconds())
	days, total := total/86400, total%86400
	hours, total := total/3600, total%3600
	minutes, seconds := total/60, total%60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh%dm%ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
