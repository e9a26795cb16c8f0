package escrow

import (
	"testing"

	"github.com/pokearena/arena-server/internal/constants"
)

func TestOpen_EnforcesStakeBounds(t *testing.T) {
	l := NewLedger(nil, 0)
	if err := l.Open(1, constants.MinStake-1); err != ErrStakeOutOfBounds {
		t.Fatalf("expected ErrStakeOutOfBounds below minimum, got %v", err)
	}
	if err := l.Open(1, constants.MaxStake+1); err != ErrStakeOutOfBounds {
		t.Fatalf("expected ErrStakeOutOfBounds above maximum, got %v", err)
	}
	if err := l.Open(1, constants.MinStake); err != nil {
		t.Fatalf("unexpected error at minimum stake: %v", err)
	}
}

func TestMatch_RequiresSymmetricStakes(t *testing.T) {
	l := NewLedger(nil, 0)
	if err := l.Open(1, 10_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Match(1, 9_999_999); err != ErrStakeMismatch {
		t.Fatalf("expected ErrStakeMismatch, got %v", err)
	}
	if err := l.Match(1, 10_000_000); err != nil {
		t.Fatalf("unexpected error on matching stake: %v", err)
	}
	if b, _ := l.Bet(1); !b.OpponentEscrowed {
		t.Fatalf("expected opponent stake marked escrowed after match")
	}
	if err := l.Match(2, 10_000_000); err != ErrNoBet {
		t.Fatalf("expected ErrNoBet for unknown challenge, got %v", err)
	}
}

func TestStageSettlement_PoolConservation(t *testing.T) {
	// Scenario: both stake 0.01 units at feeBps=500 -> pool=0.02,
	// fee=0.001, payout=0.019.
	l := NewLedger(nil, 0)
	stake := constants.LamportsPerUnit / 100
	if err := l.Open(7, stake); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Match(7, stake); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := l.StageSettlement(7, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Fee != constants.LamportsPerUnit/1000 {
		t.Fatalf("expected fee of 0.001 units, got %d", s.Fee)
	}
	if s.Payout != 19*constants.LamportsPerUnit/1000 {
		t.Fatalf("expected payout of 0.019 units, got %d", s.Payout)
	}
	if s.Payout+s.Fee != 2*stake {
		t.Fatalf("value not conserved: payout %d + fee %d != pool %d", s.Payout, s.Fee, 2*stake)
	}
}

func TestStageSettlement_FeeCap(t *testing.T) {
	l := NewLedger(nil, 0)
	if _, err := l.StageSettlement(1, constants.MaxFeeBps+1); err != ErrFeeAboveCap {
		t.Fatalf("expected ErrFeeAboveCap, got %v", err)
	}
}

func TestPaidFlipsExactlyOnce(t *testing.T) {
	l := NewLedger(nil, 0)
	if err := l.Open(3, 10_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Match(3, 10_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := l.StageSettlement(3, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.CommitSettlement(s)

	// Any later settlement or refund attempt is a no-op.
	if _, err := l.StageSettlement(3, 500); err != ErrAlreadyPaid {
		t.Fatalf("expected ErrAlreadyPaid on re-settle, got %v", err)
	}
	if _, err := l.StageRefund(3); err != ErrAlreadyPaid {
		t.Fatalf("expected ErrAlreadyPaid on refund after settle, got %v", err)
	}
	if l.FeePool() != s.Fee {
		t.Fatalf("expected fee pool %d, got %d", s.Fee, l.FeePool())
	}
}

func TestRefund_FullStakeThenNoOp(t *testing.T) {
	l := NewLedger(nil, 0)
	if err := l.Open(4, 25_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := l.StageRefund(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ChallengerAmount != 25_000_000 {
		t.Fatalf("expected full stake refund, got %d", r.ChallengerAmount)
	}
	if r.OpponentAmount != 0 {
		t.Fatalf("no opponent stake was escrowed, got %d", r.OpponentAmount)
	}
	l.CommitChallengerRefund(4)

	if _, err := l.StageRefund(4); err != ErrAlreadyPaid {
		t.Fatalf("expected ErrAlreadyPaid on second refund, got %v", err)
	}
	if _, err := l.StageSettlement(4, 500); err != ErrAlreadyPaid {
		t.Fatalf("expected ErrAlreadyPaid on settle after refund, got %v", err)
	}
}

func TestRefund_EscrowedOpponentLegsCommitIndependently(t *testing.T) {
	l := NewLedger(nil, 0)
	if err := l.Open(5, 10_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Match(5, 10_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := l.StageRefund(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ChallengerAmount != 10_000_000 || r.OpponentAmount != 10_000_000 {
		t.Fatalf("expected both legs staged, got %+v", r)
	}

	// One committed leg drops out of the next staging; the bet is not paid
	// until every leg is back.
	l.CommitOpponentRefund(5)
	if b, _ := l.Bet(5); b.Paid {
		t.Fatalf("bet must not be paid with a leg outstanding")
	}
	r, err = l.StageRefund(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.OpponentAmount != 0 || r.ChallengerAmount != 10_000_000 {
		t.Fatalf("expected only the challenger leg outstanding, got %+v", r)
	}

	l.CommitChallengerRefund(5)
	if b, _ := l.Bet(5); !b.Paid {
		t.Fatalf("expected bet paid once both legs are refunded")
	}
	if _, err := l.StageRefund(5); err != ErrAlreadyPaid {
		t.Fatalf("expected ErrAlreadyPaid after full refund, got %v", err)
	}
}

func TestWithdrawFees_RestoresOnFailure(t *testing.T) {
	l := NewLedger(nil, 1234)
	amount := l.WithdrawFees()
	if amount != 1234 || l.FeePool() != 0 {
		t.Fatalf("expected drained pool, amount=%d pool=%d", amount, l.FeePool())
	}
	l.AddFees(amount)
	if l.FeePool() != 1234 {
		t.Fatalf("expected restored pool, got %d", l.FeePool())
	}
}
