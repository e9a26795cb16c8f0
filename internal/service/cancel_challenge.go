package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/constants"
	"github.com/pokearena/arena-server/internal/escrow"
	"github.com/pokearena/arena-server/internal/logging"
)

// CancelChallenge withdraws a pending challenge. The challenger may cancel
// at any time; once the acceptance window has elapsed anyone may sweep the
// stale challenge. Escrowed stakes are refunded in full with no fee — the
// challenger's always, plus the opponent's when an aborted acceptance left
// it held.
//
// Each refund leg transfers before it commits and commits before the next
// leg starts, so a rail failure leaves the challenge pending with only the
// outstanding legs staged for the retry; no leg ever pays twice.
// Cancellation is allowed while paused so funds are never trapped.
func (e *BattleEngine) CancelChallenge(ctx context.Context, challengeID uint64, caller string) (*arena.Challenge, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.registry.ValidateCancel(challengeID, caller, e.now(), e.settings.ChallengeTimeout())
	if err != nil {
		return nil, err
	}

	bet, hasBet := e.ledger.Bet(challengeID)
	refund := escrow.Refund{}
	if hasBet {
		refund, err = e.ledger.StageRefund(challengeID)
		if err != nil {
			if errors.Is(err, escrow.ErrAlreadyPaid) {
				// The bet was already settled or refunded; cancel the
				// challenge without touching funds again.
				refund = escrow.Refund{}
			} else {
				return nil, err
			}
		}
	}

	if refund.OpponentAmount > 0 {
		if err := e.rail.Transfer(ctx, c.Opponent, refund.OpponentAmount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
		e.ledger.CommitOpponentRefund(challengeID)
	}
	if refund.ChallengerAmount > 0 {
		if err := e.rail.Transfer(ctx, c.Challenger, refund.ChallengerAmount); err != nil {
			if refund.OpponentAmount > 0 {
				// Keep the committed opponent leg durable before
				// surfacing the failure; the retry refunds only the
				// challenger's leg.
				if saveErr := e.repo.SaveChallengeAndBet(c, bet); saveErr != nil {
					logging.Error("failed to persist partial refund", saveErr, logging.Fields{constants.LogFieldChallengeID: challengeID})
				}
			}
			return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
		e.ledger.CommitChallengerRefund(challengeID)
	}

	e.registry.Cancel(challengeID)

	if err := e.repo.SaveCancellation(c, bet); err != nil {
		logging.Error("failed to persist cancellation", err, logging.Fields{constants.LogFieldChallengeID: challengeID})
		return nil, err
	}

	logging.Info("challenge cancelled", logging.Fields{
		constants.LogFieldChallengeID: challengeID,
		constants.LogFieldAddress:     caller,
		constants.LogFieldAmount:      refund.ChallengerAmount + refund.OpponentAmount,
	})
	snapshot := *c
	return &snapshot, nil
}
