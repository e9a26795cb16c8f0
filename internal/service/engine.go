package service

import (
	"context"
	"sync"
	"time"

	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/constants"
	"github.com/pokearena/arena-server/internal/engine"
	"github.com/pokearena/arena-server/internal/escrow"
	"github.com/pokearena/arena-server/internal/leaderboard"
	"github.com/pokearena/arena-server/internal/registry"
	"github.com/pokearena/arena-server/internal/storage"
)

// CardRegistry is the slice of the external card service the engine needs:
// ownership checks, stat reads and best-effort experience credits.
type CardRegistry interface {
	OwnerOf(ctx context.Context, cardID uint64) (string, error)
	GetStats(ctx context.Context, cardID uint64) (arena.CardStats, error)
	CreditExperience(ctx context.Context, cardID uint64, amount uint64) error
}

// PaymentRail moves lamports in and out of escrow. Both calls are fallible
// and treated as fatal by the operation that issued them.
type PaymentRail interface {
	Collect(ctx context.Context, from string, amount int64) error
	Transfer(ctx context.Context, to string, amount int64) error
}

// BattleEngine orchestrates the whole settlement flow: challenge lifecycle,
// battle resolution, escrow and ranking. Every mutating operation runs under
// one engine-wide mutex, so settlement is strictly serialized and no
// interleaving can observe a half-applied battle.
type BattleEngine struct {
	mu sync.Mutex

	repo  storage.Repository
	cards CardRegistry
	rail  PaymentRail

	chart    *engine.TypeChart
	registry *registry.Registry
	ledger   *escrow.Ledger
	board    *leaderboard.Leaderboard
	settings *arena.EngineSettings

	now func() time.Time
}

// NewBattleEngine restores the engine's working set from the repository:
// challenges into the registry, bets and the fee pool into the escrow
// ledger, and the top win counts into the leaderboard.
func NewBattleEngine(repo storage.Repository, cards CardRegistry, rail PaymentRail) (*BattleEngine, error) {
	settings, err := repo.GetSettings()
	if err != nil {
		return nil, err
	}
	challenges, err := repo.ListChallenges()
	if err != nil {
		return nil, err
	}
	bets, err := repo.ListBets()
	if err != nil {
		return nil, err
	}
	top, err := repo.TopStats(constants.LeaderboardCapacity)
	if err != nil {
		return nil, err
	}

	board := leaderboard.New(constants.LeaderboardCapacity)
	entries := make([]leaderboard.Entry, 0, len(top))
	for _, s := range top {
		if s.Wins == 0 {
			continue
		}
		entries = append(entries, leaderboard.Entry{Address: s.Address, Wins: s.Wins})
	}
	board.Rebuild(entries)

	return &BattleEngine{
		repo:     repo,
		cards:    cards,
		rail:     rail,
		chart:    engine.NewTypeChart(),
		registry: registry.New(challenges),
		ledger:   escrow.NewLedger(bets, settings.FeePool),
		board:    board,
		settings: settings,
		now:      time.Now,
	}, nil
}

// requireOwner verifies that the caller owns the card it wants to commit.
func (e *BattleEngine) requireOwner(ctx context.Context, caller string, cardID uint64) error {
	owner, err := e.cards.OwnerOf(ctx, cardID)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotCardOwner
	}
	return nil
}
