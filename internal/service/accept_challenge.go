package service

import (
	"context"
	"fmt"

	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/constants"
	"github.com/pokearena/arena-server/internal/engine"
	"github.com/pokearena/arena-server/internal/escrow"
	"github.com/pokearena/arena-server/internal/logging"
)

// BattleResult is the settled outcome of an accepted challenge. Payout and
// Fee are zero for friendly (unwagered) battles.
type BattleResult struct {
	Challenge *arena.Challenge `json:"challenge"`
	Outcome   engine.Outcome   `json:"outcome"`
	Payout    int64            `json:"payout"`
	Fee       int64            `json:"fee"`
}

// AcceptChallenge resolves a pending challenge in one atomic step: the
// opponent commits a card (and a matching stake when wagered), the battle
// resolves deterministically, the pool pays out to the winner minus the fee
// and both players' records update. There is no persisted intermediate
// state — a challenge goes from pending straight to completed.
//
// The flow is staged: all validation and the external payout run before any
// in-memory or persisted mutation. A rail failure aborts the acceptance
// with the challenge still pending and the opponent's collected stake
// returned.
func (e *BattleEngine) AcceptChallenge(ctx context.Context, challengeID uint64, caller string, opponentCardID uint64, stake int64) (*BattleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settings.Paused {
		return nil, ErrPaused
	}
	c, err := e.registry.ValidateAccept(challengeID, caller, e.now(), e.settings.ChallengeTimeout())
	if err != nil {
		return nil, err
	}

	bet, hasBet := e.ledger.Bet(challengeID)
	wagered := hasBet && bet.BettingEnabled && !bet.Paid
	if wagered {
		if stake != bet.ChallengerStake {
			return nil, escrow.ErrStakeMismatch
		}
	} else if stake != 0 {
		return nil, escrow.ErrStakeMismatch
	}

	if err := e.requireOwner(ctx, caller, opponentCardID); err != nil {
		return nil, err
	}
	challengerStats, err := e.cards.GetStats(ctx, c.ChallengerCardID)
	if err != nil {
		return nil, err
	}
	opponentStats, err := e.cards.GetStats(ctx, opponentCardID)
	if err != nil {
		return nil, err
	}

	outcome := e.chart.Resolve(
		engine.Combatant{Address: c.Challenger, CardID: c.ChallengerCardID, Stats: challengerStats},
		engine.Combatant{Address: caller, CardID: opponentCardID, Stats: opponentStats},
	)

	winnerRecord, err := e.repo.GetStatsByAddress(outcome.Winner.Address)
	if err != nil {
		return nil, err
	}
	loserRecord, err := e.repo.GetStatsByAddress(outcome.Loser.Address)
	if err != nil {
		return nil, err
	}

	var settlement escrow.Settlement
	if wagered {
		// Collect the opponent's stake unless an earlier aborted
		// settlement already escrowed it; the marker is persisted so a
		// retry never charges the opponent twice.
		if !bet.OpponentEscrowed {
			if err := e.rail.Collect(ctx, caller, stake); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
			}
			if err := e.ledger.Match(challengeID, stake); err != nil {
				return nil, err
			}
			if err := e.repo.SaveChallengeAndBet(c, bet); err != nil {
				logging.Error("failed to persist escrowed opponent stake", err, logging.Fields{constants.LogFieldChallengeID: challengeID})
			}
		}
		settlement, err = e.ledger.StageSettlement(challengeID, e.settings.FeeBps)
		if err != nil {
			return nil, err
		}
		if err := e.rail.Transfer(ctx, outcome.Winner.Address, settlement.Payout); err != nil {
			// The opponent's stake stays escrowed and the challenge
			// pending; retrying the acceptance (or cancelling) releases
			// the held funds.
			return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
	}

	// Payout succeeded (or no wager): commit everything.
	e.registry.Complete(challengeID, opponentCardID, outcome.Winner.Address, e.now())
	winnerRecord.RecordWin()
	loserRecord.RecordLoss()
	e.board.RecordWin(outcome.Winner.Address, winnerRecord.Wins)

	var settingsDirty *arena.EngineSettings
	if wagered {
		e.ledger.CommitSettlement(settlement)
		e.settings.FeePool = e.ledger.FeePool()
		settingsDirty = e.settings
	}

	if err := e.repo.SaveSettlement(c, bet, winnerRecord, loserRecord, settingsDirty); err != nil {
		logging.Error("failed to persist settlement", err, logging.Fields{constants.LogFieldChallengeID: challengeID})
		return nil, err
	}

	e.creditExperience(ctx, challengeID, outcome)

	logging.Info("challenge settled", logging.Fields{
		constants.LogFieldChallengeID: challengeID,
		constants.LogFieldWinner:      outcome.Winner.Address,
		constants.LogFieldLoser:       outcome.Loser.Address,
		constants.LogFieldPayout:      settlement.Payout,
		constants.LogFieldFee:         settlement.Fee,
	})
	snapshot := *c
	return &BattleResult{Challenge: &snapshot, Outcome: outcome, Payout: settlement.Payout, Fee: settlement.Fee}, nil
}

// creditExperience pushes post-battle experience to both cards. Failures are
// logged and swallowed: the settlement is already committed and a missing
// credit must never roll it back.
func (e *BattleEngine) creditExperience(ctx context.Context, challengeID uint64, outcome engine.Outcome) {
	if err := e.cards.CreditExperience(ctx, outcome.Winner.CardID, e.settings.WinnerExpReward); err != nil {
		logging.Error("winner experience credit failed", err, logging.Fields{
			constants.LogFieldChallengeID: challengeID,
			constants.LogFieldCardID:      outcome.Winner.CardID,
		})
	}
	if err := e.cards.CreditExperience(ctx, outcome.Loser.CardID, e.settings.LoserExpReward); err != nil {
		logging.Error("loser experience credit failed", err, logging.Fields{
			constants.LogFieldChallengeID: challengeID,
			constants.LogFieldCardID:      outcome.Loser.CardID,
		})
	}
}
