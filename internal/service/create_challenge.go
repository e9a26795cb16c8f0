package service

import (
	"context"
	"fmt"

	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/constants"
	"github.com/pokearena/arena-server/internal/escrow"
	"github.com/pokearena/arena-server/internal/logging"
	"github.com/pokearena/arena-server/internal/registry"
)

// CreateChallenge opens a pending challenge from challenger to opponent with
// the committed card. A positive stake makes the challenge wagered: the
// stake is bounds-checked, collected into escrow via the payment rail and
// recorded in the ledger. stake == 0 creates a friendly (unwagered)
// challenge.
//
// Ordering: every fallible step (validation, ownership check, stake
// collection) runs before the first mutation, so a failure leaves no trace.
func (e *BattleEngine) CreateChallenge(ctx context.Context, challenger, opponent string, cardID uint64, stake int64) (*arena.Challenge, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settings.Paused {
		return nil, ErrPaused
	}
	if opponent == arena.ZeroAddress {
		return nil, registry.ErrZeroOpponent
	}
	if opponent == challenger {
		return nil, registry.ErrSelfChallenge
	}
	if stake != 0 && (stake < constants.MinStake || stake > constants.MaxStake) {
		return nil, escrow.ErrStakeOutOfBounds
	}
	if err := e.requireOwner(ctx, challenger, cardID); err != nil {
		return nil, err
	}

	if stake > 0 {
		if err := e.rail.Collect(ctx, challenger, stake); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
	}

	c, err := e.registry.Create(challenger, opponent, cardID, e.now())
	if err != nil {
		return nil, err
	}

	var bet *arena.BattleBet
	if stake > 0 {
		c.Wagered = true
		if err := e.ledger.Open(c.ID, stake); err != nil {
			return nil, err
		}
		bet, _ = e.ledger.Bet(c.ID)
	}

	if err := e.repo.SaveChallengeAndBet(c, bet); err != nil {
		logging.Error("failed to persist new challenge", err, logging.Fields{constants.LogFieldChallengeID: c.ID})
		return nil, err
	}

	logging.Info("challenge created", logging.Fields{
		constants.LogFieldChallengeID: c.ID,
		constants.LogFieldChallenger:  challenger,
		constants.LogFieldOpponent:    opponent,
		constants.LogFieldCardID:      cardID,
		constants.LogFieldStake:       stake,
	})

	// Return a snapshot, not the registry's live record: the caller reads
	// it outside the engine lock, where a concurrent accept or cancel may
	// mutate the pending challenge.
	snapshot := *c
	return &snapshot, nil
}
