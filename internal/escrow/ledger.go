package escrow

import (
	"errors"
	"fmt"

	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/constants"
)

var (
	ErrStakeOutOfBounds = fmt.Errorf("stake outside [%d, %d] lamports", constants.MinStake, constants.MaxStake)
	ErrStakeMismatch    = errors.New("opponent stake must equal challenger stake")
	ErrFeeAboveCap      = errors.New("fee above hard cap")
	ErrNoBet            = errors.New("no bet recorded for challenge")
	ErrAlreadyPaid      = errors.New("bet already paid out")
)

// Ledger owns wager accounting: per-challenge bet records and the
// accumulated fee pool. It performs no external transfers itself — the
// orchestrator stages a settlement or refund, runs the rail transfer, and
// commits only on success, so a failed transfer leaves the ledger untouched.
type Ledger struct {
	bets    map[uint64]*arena.BattleBet
	feePool int64
}

// NewLedger builds a ledger, optionally restoring persisted bets and the
// accumulated fee pool.
func NewLedger(existing []arena.BattleBet, feePool int64) *Ledger {
	l := &Ledger{bets: make(map[uint64]*arena.BattleBet), feePool: feePool}
	for i := range existing {
		b := existing[i]
		l.bets[b.ChallengeID] = &b
	}
	return l
}

// Open escrows the challenger's stake for a new wagered challenge. The
// stake must lie within the allowed bounds.
func (l *Ledger) Open(challengeID uint64, challengerStake int64) error {
	if challengerStake < constants.MinStake || challengerStake > constants.MaxStake {
		return ErrStakeOutOfBounds
	}
	l.bets[challengeID] = &arena.BattleBet{
		ChallengeID:     challengeID,
		ChallengerStake: challengerStake,
		BettingEnabled:  true,
	}
	return nil
}

// Match records the opponent's stake as escrowed at acceptance time. Only
// symmetric wagers are supported: the opponent must match the challenger
// exactly. The escrowed marker survives an aborted settlement, so a retry
// knows the stake is already held and must not be collected again.
func (l *Ledger) Match(challengeID uint64, opponentStake int64) error {
	b, ok := l.bets[challengeID]
	if !ok {
		return ErrNoBet
	}
	if opponentStake != b.ChallengerStake {
		return ErrStakeMismatch
	}
	b.OpponentStake = opponentStake
	b.OpponentEscrowed = true
	return nil
}

// Bet returns the wager record for a challenge, if one exists.
func (l *Ledger) Bet(challengeID uint64) (*arena.BattleBet, bool) {
	b, ok := l.bets[challengeID]
	return b, ok
}

// FeePool returns the withdrawable accumulated fees.
func (l *Ledger) FeePool() int64 { return l.feePool }

// Settlement is a staged payout: computed amounts for a bet that has been
// validated but not yet committed.
type Settlement struct {
	ChallengeID uint64
	Payout      int64
	Fee         int64
}

// StageSettlement computes pool, fee and payout for an unpaid bet.
// pool = challengerStake + opponentStake, fee = pool x feeBps / 10000,
// payout = pool - fee; payout + fee == pool always holds exactly.
// A bet that was already paid (settled or refunded) yields ErrAlreadyPaid,
// making the losing path of a settle/refund race a no-op.
func (l *Ledger) StageSettlement(challengeID uint64, feeBps int64) (Settlement, error) {
	if feeBps < 0 || feeBps > constants.MaxFeeBps {
		return Settlement{}, ErrFeeAboveCap
	}
	b, ok := l.bets[challengeID]
	if !ok {
		return Settlement{}, ErrNoBet
	}
	if b.Paid {
		return Settlement{}, ErrAlreadyPaid
	}
	pool := b.Pool()
	fee := pool * feeBps / constants.BpsDenominator
	return Settlement{ChallengeID: challengeID, Payout: pool - fee, Fee: fee}, nil
}

// CommitSettlement marks the bet paid and accumulates the fee into the
// withdrawable pool. Called only after the external payout transfer
// succeeded; Paid flips false to true exactly once.
func (l *Ledger) CommitSettlement(s Settlement) {
	if b, ok := l.bets[s.ChallengeID]; ok {
		b.Paid = true
	}
	l.feePool += s.Fee
}

// Refund is a staged refund: the amount still escrowed on each side of the
// bet. Refunds carry no fee.
type Refund struct {
	ChallengerAmount int64
	OpponentAmount   int64
}

// StageRefund computes the outstanding refund legs for a cancelled pending
// challenge. A leg already refunded, or an opponent stake that was never
// escrowed, contributes zero.
func (l *Ledger) StageRefund(challengeID uint64) (Refund, error) {
	b, ok := l.bets[challengeID]
	if !ok {
		return Refund{}, ErrNoBet
	}
	if b.Paid {
		return Refund{}, ErrAlreadyPaid
	}
	r := Refund{}
	if !b.ChallengerRefunded {
		r.ChallengerAmount = b.ChallengerStake
	}
	if b.OpponentEscrowed && !b.OpponentRefunded {
		r.OpponentAmount = b.OpponentStake
	}
	return r, nil
}

// CommitChallengerRefund marks the challenger's leg returned after its
// transfer succeeded. Each leg commits independently, so a refund that fails
// halfway resumes with only the outstanding leg.
func (l *Ledger) CommitChallengerRefund(challengeID uint64) {
	if b, ok := l.bets[challengeID]; ok {
		b.ChallengerRefunded = true
		finishRefund(b)
	}
}

// CommitOpponentRefund marks the opponent's leg returned.
func (l *Ledger) CommitOpponentRefund(challengeID uint64) {
	if b, ok := l.bets[challengeID]; ok {
		b.OpponentRefunded = true
		finishRefund(b)
	}
}

// finishRefund flips Paid once no escrowed leg remains outstanding.
func finishRefund(b *arena.BattleBet) {
	if b.ChallengerRefunded && (!b.OpponentEscrowed || b.OpponentRefunded) {
		b.Paid = true
	}
}

// WithdrawFees drains the fee pool, returning the amount to transfer to the
// fee recipient. Commit-style: the caller restores the amount via AddFees
// if the external transfer fails.
func (l *Ledger) WithdrawFees() int64 {
	amount := l.feePool
	l.feePool = 0
	return amount
}

// AddFees returns a withdrawn amount to the pool (failed withdrawal).
func (l *Ledger) AddFees(amount int64) { l.feePool += amount }
