package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/pokearena/arena-server/internal/arena"
)

type mockRepo struct {
	challenges map[uint64]arena.Challenge
	bets       map[uint64]arena.BattleBet
	stats      map[string]arena.PlayerStats
	settings   arena.EngineSettings
	profiles   map[string]arena.PlayerProfile

	settlements   int
	cancellations int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		challenges: map[uint64]arena.Challenge{},
		bets:       map[uint64]arena.BattleBet{},
		stats:      map[string]arena.PlayerStats{},
		profiles:   map[string]arena.PlayerProfile{},
		settings: arena.EngineSettings{
			ID:                  1,
			WinnerExpReward:     100,
			LoserExpReward:      25,
			ChallengeTimeoutSec: int64((24 * time.Hour).Seconds()),
			FeeBps:              500,
			FeeRecipient:        "FEEWALLET",
			Admin:               "admin@example.com",
		},
	}
}

func (m *mockRepo) ListChallenges() ([]arena.Challenge, error) {
	out := make([]arena.Challenge, 0, len(m.challenges))
	for _, c := range m.challenges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRepo) ListBets() ([]arena.BattleBet, error) {
	out := make([]arena.BattleBet, 0, len(m.bets))
	for _, b := range m.bets {
		out = append(out, b)
	}
	return out, nil
}

func (m *mockRepo) TopStats(limit int) ([]arena.PlayerStats, error) {
	out := make([]arena.PlayerStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Address < out[j].Address
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepo) GetSettings() (*arena.EngineSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockRepo) GetStatsByAddress(address string) (*arena.PlayerStats, error) {
	if s, ok := m.stats[address]; ok {
		out := s
		return &out, nil
	}
	return &arena.PlayerStats{Address: address}, nil
}

func (m *mockRepo) SaveChallengeAndBet(c *arena.Challenge, b *arena.BattleBet) error {
	m.challenges[c.ID] = *c
	if b != nil {
		m.bets[b.ChallengeID] = *b
	}
	return nil
}

func (m *mockRepo) SaveSettings(s *arena.EngineSettings) error {
	m.settings = *s
	return nil
}

func (m *mockRepo) SaveSettlement(c *arena.Challenge, b *arena.BattleBet, winner, loser *arena.PlayerStats, s *arena.EngineSettings) error {
	m.settlements++
	m.challenges[c.ID] = *c
	if b != nil {
		m.bets[b.ChallengeID] = *b
	}
	m.stats[winner.Address] = *winner
	m.stats[loser.Address] = *loser
	if s != nil {
		m.settings = *s
	}
	return nil
}

func (m *mockRepo) SaveCancellation(c *arena.Challenge, b *arena.BattleBet) error {
	m.cancellations++
	m.challenges[c.ID] = *c
	if b != nil {
		m.bets[b.ChallengeID] = *b
	}
	return nil
}

func (m *mockRepo) GetProfileByEmail(email string) (*arena.PlayerProfile, error) {
	if p, ok := m.profiles[email]; ok {
		return &p, nil
	}
	return nil, errors.New("not found")
}

func (m *mockRepo) GetProfileByAddress(address string) (*arena.PlayerProfile, error) {
	for _, p := range m.profiles {
		if p.Address == address {
			out := p
			return &out, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockRepo) SaveProfile(p *arena.PlayerProfile) error {
	m.profiles[p.Email] = *p
	return nil
}

type mockCards struct {
	owners  map[uint64]string
	stats   map[uint64]arena.CardStats
	credits map[uint64]uint64
	failExp bool
}

func newMockCards() *mockCards {
	return &mockCards{
		owners:  map[uint64]string{},
		stats:   map[uint64]arena.CardStats{},
		credits: map[uint64]uint64{},
	}
}

func (m *mockCards) OwnerOf(_ context.Context, cardID uint64) (string, error) {
	if o, ok := m.owners[cardID]; ok {
		return o, nil
	}
	return "", errors.New("unknown card")
}

func (m *mockCards) GetStats(_ context.Context, cardID uint64) (arena.CardStats, error) {
	if s, ok := m.stats[cardID]; ok {
		return s, nil
	}
	return arena.CardStats{}, errors.New("unknown card")
}

func (m *mockCards) CreditExperience(_ context.Context, cardID uint64, amount uint64) error {
	if m.failExp {
		return errors.New("registry unavailable")
	}
	m.credits[cardID] += amount
	return nil
}

type railCall struct {
	addr   string
	amount int64
}

type mockRail struct {
	collects  []railCall
	transfers []railCall

	failCollect    bool
	failTransfer   bool
	failTransferTo string
}

func (m *mockRail) Collect(_ context.Context, from string, amount int64) error {
	if m.failCollect {
		return errors.New("collect rejected")
	}
	m.collects = append(m.collects, railCall{addr: from, amount: amount})
	return nil
}

func (m *mockRail) Transfer(_ context.Context, to string, amount int64) error {
	if m.failTransfer || (m.failTransferTo != "" && to == m.failTransferTo) {
		return errors.New("transfer rejected")
	}
	m.transfers = append(m.transfers, railCall{addr: to, amount: amount})
	return nil
}

// fireCard beats grassCard: fire hits grass super-effectively and resists
// the return matchup.
func fireCard() arena.CardStats {
	return arena.CardStats{HP: 10, Attack: 10, Defense: 10, Speed: 10, Type: arena.TypeFire, Rarity: arena.RarityCommon}
}

func grassCard() arena.CardStats {
	return arena.CardStats{HP: 10, Attack: 10, Defense: 10, Speed: 10, Type: arena.TypeGrass, Rarity: arena.RarityCommon}
}

func newTestEngine(t *testing.T, repo *mockRepo, cards *mockCards, rail *mockRail) *BattleEngine {
	t.Helper()
	e, err := NewBattleEngine(repo, cards, rail)
	if err != nil {
		t.Fatalf("NewBattleEngine: %v", err)
	}
	return e
}

func TestNewBattleEngine_RestoresState(t *testing.T) {
	repo := newMockRepo()
	repo.challenges[3] = arena.Challenge{ID: 3, Challenger: "ALICE", Opponent: "BOB", ChallengerCardID: 1, Status: arena.StatusPending, Wagered: true, CreatedAt: time.Now()}
	repo.bets[3] = arena.BattleBet{ChallengeID: 3, ChallengerStake: 10_000_000, BettingEnabled: true}
	repo.stats["CARA"] = arena.PlayerStats{Address: "CARA", Wins: 5, Losses: 1, TotalBattles: 6}
	repo.settings.FeePool = 2_000_000

	e := newTestEngine(t, repo, newMockCards(), &mockRail{})

	if _, ok := e.registry.Get(3); !ok {
		t.Fatalf("expected persisted challenge to be restored")
	}
	if b, ok := e.ledger.Bet(3); !ok || b.ChallengerStake != 10_000_000 {
		t.Fatalf("expected persisted bet to be restored")
	}
	if e.ledger.FeePool() != 2_000_000 {
		t.Fatalf("expected fee pool restored, got %d", e.ledger.FeePool())
	}
	if e.board.Rank("CARA") != 1 {
		t.Fatalf("expected CARA ranked first, rank=%d", e.board.Rank("CARA"))
	}
}
