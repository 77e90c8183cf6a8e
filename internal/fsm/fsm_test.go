package fsm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vk-blackjack-bot/internal/game"
	"vk-blackjack-bot/internal/model"
	"vk-blackjack-bot/internal/repository"
	"vk-blackjack-bot/internal/session"
	"vk-blackjack-bot/internal/vk"
)

type sentMessage struct {
	peer int64
	text string
	kbd  vk.Keyboard
}

type fakeSender struct {
	sent []sentMessage
}

func (f *fakeSender) SendMessage(_ context.Context, peerID int64, text string, kbd vk.Keyboard) error {
	f.sent = append(f.sent, sentMessage{peer: peerID, text: text, kbd: kbd})
	return nil
}

func (f *fakeSender) lastText() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].text
}

func (f *fakeSender) allText() string {
	var b strings.Builder
	for _, m := range f.sent {
		b.WriteString(m.text)
		b.WriteString("\n")
	}
	return b.String()
}

type fakeUsers struct{}

func (fakeUsers) GetUsers(_ context.Context, ids []int64) ([]vk.User, error) {
	users := make([]vk.User, len(ids))
	for i, id := range ids {
		users[i] = vk.User{ID: id, FirstName: fmt.Sprintf("User%d", id), LastName: "Tester"}
	}
	return users, nil
}

type playerKey struct {
	chat, vk int64
}

type fakePlayers struct {
	players map[playerKey]*model.Player
}

func newFakePlayers() *fakePlayers {
	return &fakePlayers{players: make(map[playerKey]*model.Player)}
}

func (f *fakePlayers) Add(_ context.Context, chatID, vkID int64, firstName, lastName string, startCash float64) (*model.Player, error) {
	p := &model.Player{
		ChatID:        chatID,
		VKID:          vkID,
		FirstName:     firstName,
		LastName:      lastName,
		Cash:          startCash,
		LastBonusDate: time.Now(),
	}
	f.players[playerKey{chatID, vkID}] = p
	return p, nil
}

func (f *fakePlayers) GetByVKID(_ context.Context, chatID, vkID int64) (*model.Player, error) {
	p, ok := f.players[playerKey{chatID, vkID}]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlayers) UpdateAfterGame(_ context.Context, chatID, vkID int64, cash float64, stats model.PlayerStats) error {
	p, ok := f.players[playerKey{chatID, vkID}]
	if !ok {
		return repository.ErrPlayerNotFound
	}
	p.Cash = cash
	p.Stats = stats
	return nil
}

func (f *fakePlayers) GiveBonus(_ context.Context, chatID, vkID int64, cash float64, claimedAt time.Time) error {
	p, ok := f.players[playerKey{chatID, vkID}]
	if !ok {
		return repository.ErrPlayerNotFound
	}
	p.Cash = cash
	p.LastBonusDate = claimedAt
	return nil
}

func (f *fakePlayers) ListByCash(_ context.Context, chatID int64, limit int) ([]*model.Player, error) {
	var res []*model.Player
	for _, p := range f.players {
		if p.ChatID == chatID {
			cp := *p
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Cash > res[j].Cash })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakePlayers) Position(_ context.Context, chatID int64, cash float64) (int, error) {
	pos := 1
	for _, p := range f.players {
		if p.ChatID == chatID && p.Cash > cash {
			pos++
		}
	}
	return pos, nil
}

type fakeSettings struct {
	settings model.GameSettings
}

func (f *fakeSettings) Get(context.Context) (*model.GameSettings, error) {
	s := f.settings
	return &s, nil
}

type recordedRound struct {
	chatID, vkID, bet int64
	delta             float64
	status            string
}

type fakeRounds struct {
	rows []recordedRound
}

func (f *fakeRounds) Record(_ context.Context, chatID, vkID, bet int64, delta float64, status string) error {
	f.rows = append(f.rows, recordedRound{chatID, vkID, bet, delta, status})
	return nil
}

type fixture struct {
	store      *session.MemoryStore
	sender     *fakeSender
	players    *fakePlayers
	rounds     *fakeRounds
	dispatcher *Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sender := &fakeSender{}
	players := newFakePlayers()
	rounds := &fakeRounds{}
	settings := &fakeSettings{settings: model.GameSettings{
		MinBet:             10,
		MaxBet:             1000,
		StartCash:          1000,
		Bonus:              500,
		BonusPeriodMinutes: 1440,
		NumOfDecks:         1,
	}}

	return &fixture{
		store:      session.NewMemoryStore(),
		sender:     sender,
		players:    players,
		rounds:     rounds,
		dispatcher: NewDispatcher(NewInteractor(sender, fakeUsers{}, players, settings, rounds)),
	}
}

// drive runs one message through load-dispatch-save, the way the
// worker does.
func (f *fixture) drive(t *testing.T, msg vk.UpdateMessage) {
	t.Helper()

	ctx := context.Background()
	s, err := session.Load(ctx, f.store, msg.PeerID)
	require.NoError(t, err)
	require.NoError(t, f.dispatcher.Dispatch(ctx, s, msg))
	require.NoError(t, s.Save(ctx))
}

func (f *fixture) state(t *testing.T, chat int64) session.State {
	t.Helper()

	s, err := session.Load(context.Background(), f.store, chat)
	require.NoError(t, err)
	return s.State()
}

func textMsg(chat, from int64, text string) vk.UpdateMessage {
	return vk.UpdateMessage{PeerID: chat, FromID: from, Text: text}
}

func buttonMsg(chat, from int64, button string) vk.UpdateMessage {
	return vk.UpdateMessage{
		PeerID:  chat,
		FromID:  from,
		Payload: fmt.Sprintf(`{"button": %q}`, button),
	}
}

// rigDeck swaps the stored game's shoe for a fixed draw order. The
// listed ranks come out of Draw in the given order.
func rigDeck(t *testing.T, store session.Store, chat int64, ranks ...game.Rank) {
	t.Helper()

	ctx := context.Background()
	s, err := session.Load(ctx, store, chat)
	require.NoError(t, err)
	require.NotNil(t, s.Game())

	cards := make([]game.Card, len(ranks))
	for i, r := range ranks {
		cards[len(ranks)-1-i] = game.Card{Rank: r, Suit: "spades"}
	}
	s.Game().Deck = &game.Deck{Cards: cards}
	require.NoError(t, s.Save(ctx))
}

func TestFullRoundScenario(t *testing.T) {
	const (
		chat    = int64(777)
		player1 = int64(1)
		player2 = int64(2)
	)

	f := newFixture(t)

	// wake up
	f.drive(t, textMsg(chat, player1, "/go"))
	assert.Equal(t, session.WaitingForStartChoice, f.state(t, chat))

	// start a two player game
	f.drive(t, buttonMsg(chat, player1, "new_game"))
	assert.Equal(t, session.WaitingForPlayersAmount, f.state(t, chat))

	f.drive(t, buttonMsg(chat, player1, "2"))
	assert.Equal(t, session.WaitingForRegistration, f.state(t, chat))

	f.drive(t, buttonMsg(chat, player1, "register"))
	assert.Equal(t, session.WaitingForRegistration, f.state(t, chat))

	f.drive(t, buttonMsg(chat, player2, "register"))
	assert.Equal(t, session.WaitingForBets, f.state(t, chat))
	assert.Contains(t, f.sender.allText(), "All players registered")

	// fix the shoe before the bets land: player1 19, player2 15,
	// dealer 6 then 10 and 2 for an 18
	rigDeck(t, f.store, chat, "10", "9", "7", "8", "6", "10", "2")

	f.drive(t, textMsg(chat, player1, "100"))
	assert.Equal(t, session.WaitingForBets, f.state(t, chat))

	f.drive(t, textMsg(chat, player2, "100"))
	assert.Equal(t, session.WaitingForAction, f.state(t, chat))
	assert.Contains(t, f.sender.allText(), "Dealing the cards")

	// both players stand, dealer finishes on 18
	f.drive(t, buttonMsg(chat, player1, "stand"))
	assert.Equal(t, session.WaitingForAction, f.state(t, chat))

	f.drive(t, buttonMsg(chat, player2, "stand"))
	assert.Equal(t, session.WaitingForLastChoice, f.state(t, chat))
	assert.Contains(t, f.sender.allText(), "Round results")

	// 19 beats 18, 15 loses to it
	p1, err := f.players.GetByVKID(context.Background(), chat, player1)
	require.NoError(t, err)
	assert.Equal(t, float64(1100), p1.Cash)
	assert.Equal(t, 1, p1.Stats.NumberOfGames)
	assert.Equal(t, 1, p1.Stats.NumberOfWins)

	p2, err := f.players.GetByVKID(context.Background(), chat, player2)
	require.NoError(t, err)
	assert.Equal(t, float64(900), p2.Cash)
	assert.Equal(t, 1, p2.Stats.NumberOfDefeats)

	require.Len(t, f.rounds.rows, 2)
	assert.Equal(t, recordedRound{chat, player1, 100, 100, "win"}, f.rounds.rows[0])
	assert.Equal(t, recordedRound{chat, player2, 100, -100, "defeat"}, f.rounds.rows[1])

	// stop ends the session for good
	f.drive(t, buttonMsg(chat, player1, "stop"))

	_, err = f.store.GetState(context.Background(), chat)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = f.store.GetData(context.Background(), chat)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestBetValidation(t *testing.T) {
	const (
		chat   = int64(42)
		player = int64(7)
	)

	f := newFixture(t)

	f.drive(t, textMsg(chat, player, "/go"))
	f.drive(t, buttonMsg(chat, player, "new_game"))
	f.drive(t, buttonMsg(chat, player, "1"))
	f.drive(t, buttonMsg(chat, player, "register"))
	require.Equal(t, session.WaitingForBets, f.state(t, chat))

	f.drive(t, textMsg(chat, player, "no digits here"))
	assert.Contains(t, f.sender.lastText(), "not a valid bet")
	assert.Equal(t, session.WaitingForBets, f.state(t, chat))

	f.drive(t, textMsg(chat, player, "5"))
	assert.Contains(t, f.sender.lastText(), "under the table minimum")
	assert.Equal(t, session.WaitingForBets, f.state(t, chat))

	f.drive(t, textMsg(chat, player, "5000"))
	assert.Contains(t, f.sender.lastText(), "not enough money")
	assert.Equal(t, session.WaitingForBets, f.state(t, chat))
}

func TestUnknownPayloadIsNoOp(t *testing.T) {
	const (
		chat   = int64(11)
		player = int64(3)
	)

	f := newFixture(t)

	f.drive(t, textMsg(chat, player, "/go"))
	require.Equal(t, session.WaitingForStartChoice, f.state(t, chat))
	sentBefore := len(f.sender.sent)

	// stray text and unknown buttons are ignored
	f.drive(t, textMsg(chat, player, "hello there"))
	f.drive(t, buttonMsg(chat, player, "mystery_button"))

	assert.Equal(t, session.WaitingForStartChoice, f.state(t, chat))
	assert.Len(t, f.sender.sent, sentBefore)
}

func TestCancelClearsSession(t *testing.T) {
	const (
		chat   = int64(5)
		player = int64(9)
	)

	f := newFixture(t)

	f.drive(t, textMsg(chat, player, "/go"))
	f.drive(t, buttonMsg(chat, player, "new_game"))
	f.drive(t, buttonMsg(chat, player, "1"))
	f.drive(t, buttonMsg(chat, player, "register"))
	require.Equal(t, session.WaitingForBets, f.state(t, chat))

	f.drive(t, buttonMsg(chat, player, "cancel"))
	assert.Contains(t, f.sender.lastText(), "Game cancelled")

	_, err := f.store.GetState(context.Background(), chat)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = f.store.GetData(context.Background(), chat)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestDeckExhaustionAbortsRound(t *testing.T) {
	const (
		chat   = int64(21)
		player = int64(6)
	)

	f := newFixture(t)

	f.drive(t, textMsg(chat, player, "/go"))
	f.drive(t, buttonMsg(chat, player, "new_game"))
	f.drive(t, buttonMsg(chat, player, "1"))
	f.drive(t, buttonMsg(chat, player, "register"))
	require.Equal(t, session.WaitingForBets, f.state(t, chat))

	// empty shoe: dealing must fail gracefully
	rigDeck(t, f.store, chat)

	f.drive(t, textMsg(chat, player, "100"))

	assert.Contains(t, f.sender.allText(), "The deck ran out")
	assert.Equal(t, session.WaitingForStartChoice, f.state(t, chat))

	_, err := f.store.GetData(context.Background(), chat)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestBonusFlow(t *testing.T) {
	const (
		chat   = int64(33)
		player = int64(8)
	)

	f := newFixture(t)

	f.drive(t, textMsg(chat, player, "/go"))

	// first contact: starting balance, no extra bonus
	f.drive(t, buttonMsg(chat, player, "bonus"))
	assert.Contains(t, f.sender.lastText(), "you start with 1000$")

	p, err := f.players.GetByVKID(context.Background(), chat, player)
	require.NoError(t, err)
	assert.Equal(t, float64(1000), p.Cash)

	// period has not elapsed yet
	f.drive(t, buttonMsg(chat, player, "bonus"))
	assert.Contains(t, f.sender.lastText(), "No bonus available yet")

	// backdate the claim, bonus becomes available
	f.players.players[playerKey{chat, player}].LastBonusDate = time.Now().Add(-25 * time.Hour)
	f.drive(t, buttonMsg(chat, player, "bonus"))
	assert.Contains(t, f.sender.lastText(), "Here is your bonus: 500$")

	p, err = f.players.GetByVKID(context.Background(), chat, player)
	require.NoError(t, err)
	assert.Equal(t, float64(1500), p.Cash)
}

func TestBalanceAndStatistics(t *testing.T) {
	const (
		chat   = int64(55)
		player = int64(4)
	)

	f := newFixture(t)

	f.drive(t, textMsg(chat, player, "/go"))

	f.drive(t, buttonMsg(chat, player, "balance"))
	assert.Contains(t, f.sender.lastText(), "Your balance: 1000$")
	assert.Equal(t, session.WaitingForStartChoice, f.state(t, chat))

	f.drive(t, buttonMsg(chat, player, "stat"))
	assert.Contains(t, f.sender.lastText(), "Top 10 players")

	f.drive(t, buttonMsg(chat, player, "pers_stat"))
	assert.Contains(t, f.sender.lastText(), "Rating position: 1")
	assert.Equal(t, session.WaitingForStartChoice, f.state(t, chat))
}

func TestPlayAgainReusesTable(t *testing.T) {
	const (
		chat   = int64(99)
		player = int64(12)
	)

	f := newFixture(t)

	f.drive(t, textMsg(chat, player, "/go"))
	f.drive(t, buttonMsg(chat, player, "new_game"))
	f.drive(t, buttonMsg(chat, player, "1"))
	f.drive(t, buttonMsg(chat, player, "register"))

	// player 18 vs dealer: 10 then 9 for a 19
	rigDeck(t, f.store, chat, "10", "8", "10", "9", "5", "5", "10", "7")

	f.drive(t, textMsg(chat, player, "100"))
	f.drive(t, buttonMsg(chat, player, "stand"))
	require.Equal(t, session.WaitingForLastChoice, f.state(t, chat))

	f.drive(t, buttonMsg(chat, player, "again"))
	assert.Equal(t, session.WaitingForBets, f.state(t, chat))
	assert.Contains(t, f.sender.allText(), "one more round")

	// the same depleted shoe continues: 5, 5 to the player, 10 up-card
	f.drive(t, textMsg(chat, player, "50"))
	assert.Equal(t, session.WaitingForAction, f.state(t, chat))
}
