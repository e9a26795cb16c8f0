package service

import (
	"context"
	"fmt"

	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/constants"
	"github.com/pokearena/arena-server/internal/escrow"
	"github.com/pokearena/arena-server/internal/logging"
)

// SettingsUpdate carries a partial settings change: nil fields are left
// untouched.
type SettingsUpdate struct {
	WinnerExpReward     *uint64 `json:"winner_exp_reward"`
	LoserExpReward      *uint64 `json:"loser_exp_reward"`
	ChallengeTimeoutSec *int64  `json:"challenge_timeout_sec"`
	FeeBps              *int64  `json:"fee_bps"`
	FeeRecipient        *string `json:"fee_recipient"`
}

// Settings returns a copy of the current engine settings.
func (e *BattleEngine) Settings() arena.EngineSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.settings
}

// UpdateSettings applies an admin settings change. The fee rate can never
// exceed the hard cap and the acceptance window can never drop below the
// minimum, no matter who asks.
func (e *BattleEngine) UpdateSettings(caller string, u SettingsUpdate) (arena.EngineSettings, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.settings.Admin {
		return arena.EngineSettings{}, ErrNotAdmin
	}
	if u.FeeBps != nil && (*u.FeeBps < 0 || *u.FeeBps > constants.MaxFeeBps) {
		return arena.EngineSettings{}, escrow.ErrFeeAboveCap
	}
	if u.ChallengeTimeoutSec != nil && *u.ChallengeTimeoutSec < int64(constants.MinChallengeTimeout.Seconds()) {
		return arena.EngineSettings{}, ErrTimeoutTooShort
	}

	if u.WinnerExpReward != nil {
		e.settings.WinnerExpReward = *u.WinnerExpReward
	}
	if u.LoserExpReward != nil {
		e.settings.LoserExpReward = *u.LoserExpReward
	}
	if u.ChallengeTimeoutSec != nil {
		e.settings.ChallengeTimeoutSec = *u.ChallengeTimeoutSec
	}
	if u.FeeBps != nil {
		e.settings.FeeBps = *u.FeeBps
	}
	if u.FeeRecipient != nil {
		e.settings.FeeRecipient = *u.FeeRecipient
	}

	if err := e.repo.SaveSettings(e.settings); err != nil {
		return arena.EngineSettings{}, err
	}
	logging.Info("engine settings updated", logging.Fields{constants.LogFieldAdmin: caller})
	return *e.settings, nil
}

// SetPaused pauses or resumes the engine. While paused no new challenges
// open and no acceptance settles; cancellation stays available so escrowed
// stakes can always come back out.
func (e *BattleEngine) SetPaused(caller string, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.settings.Admin {
		return ErrNotAdmin
	}
	if e.settings.Paused == paused {
		return nil
	}
	e.settings.Paused = paused
	if err := e.repo.SaveSettings(e.settings); err != nil {
		return err
	}
	logging.Info("engine pause state changed", logging.Fields{constants.LogFieldAdmin: caller, "paused": paused})
	return nil
}

// ProposeAdmin starts a two-step admin handover. Nothing changes hands
// until the proposed admin accepts; re-proposing overwrites any earlier
// unaccepted proposal.
func (e *BattleEngine) ProposeAdmin(caller, newAdmin string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.settings.Admin {
		return ErrNotAdmin
	}
	e.settings.PendingAdmin = newAdmin
	if err := e.repo.SaveSettings(e.settings); err != nil {
		return err
	}
	logging.Info("admin handover proposed", logging.Fields{constants.LogFieldAdmin: caller, "pending_admin": newAdmin})
	return nil
}

// AcceptAdmin completes a handover: only the currently proposed admin may
// claim the role.
func (e *BattleEngine) AcceptAdmin(caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settings.PendingAdmin == arena.ZeroAddress || caller != e.settings.PendingAdmin {
		return ErrNotPendingAdmin
	}
	e.settings.Admin = caller
	e.settings.PendingAdmin = arena.ZeroAddress
	if err := e.repo.SaveSettings(e.settings); err != nil {
		return err
	}
	logging.Info("admin handover accepted", logging.Fields{constants.LogFieldAdmin: caller})
	return nil
}

// WithdrawFees drains the accumulated fee pool to the configured recipient.
// The pool is restored untouched if the rail rejects the transfer.
func (e *BattleEngine) WithdrawFees(ctx context.Context, caller string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.settings.Admin {
		return 0, ErrNotAdmin
	}
	amount := e.ledger.WithdrawFees()
	if amount == 0 {
		return 0, ErrNoPendingFees
	}
	if err := e.rail.Transfer(ctx, e.settings.FeeRecipient, amount); err != nil {
		e.ledger.AddFees(amount)
		return 0, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	e.settings.FeePool = e.ledger.FeePool()
	if err := e.repo.SaveSettings(e.settings); err != nil {
		return 0, err
	}
	logging.Info("fees withdrawn", logging.Fields{
		constants.LogFieldAdmin:   caller,
		constants.LogFieldAmount:  amount,
		constants.LogFieldAddress: e.settings.FeeRecipient,
	})
	return amount, nil
}
