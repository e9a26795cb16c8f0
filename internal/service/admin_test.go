package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pokearena/arena-server/internal/escrow"
)

const admin = "admin@example.com"

func int64p(v int64) *int64 { return &v }

func TestUpdateSettings_AdminOnly(t *testing.T) {
	repo := newMockRepo()
	e := newTestEngine(t, repo, newMockCards(), &mockRail{})

	if _, err := e.UpdateSettings("mallory@example.com", SettingsUpdate{FeeBps: int64p(100)}); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	got, err := e.UpdateSettings(admin, SettingsUpdate{FeeBps: int64p(100)})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if got.FeeBps != 100 {
		t.Fatalf("expected fee 100 bps, got %d", got.FeeBps)
	}
	if repo.settings.FeeBps != 100 {
		t.Fatalf("expected settings persisted")
	}
}

func TestUpdateSettings_FeeHardCap(t *testing.T) {
	e := newTestEngine(t, newMockRepo(), newMockCards(), &mockRail{})

	if _, err := e.UpdateSettings(admin, SettingsUpdate{FeeBps: int64p(1001)}); !errors.Is(err, escrow.ErrFeeAboveCap) {
		t.Fatalf("expected ErrFeeAboveCap, got %v", err)
	}
	if _, err := e.UpdateSettings(admin, SettingsUpdate{FeeBps: int64p(1000)}); err != nil {
		t.Fatalf("the cap itself is allowed: %v", err)
	}
}

func TestUpdateSettings_TimeoutFloor(t *testing.T) {
	e := newTestEngine(t, newMockRepo(), newMockCards(), &mockRail{})

	if _, err := e.UpdateSettings(admin, SettingsUpdate{ChallengeTimeoutSec: int64p(60)}); !errors.Is(err, ErrTimeoutTooShort) {
		t.Fatalf("expected ErrTimeoutTooShort, got %v", err)
	}
	if _, err := e.UpdateSettings(admin, SettingsUpdate{ChallengeTimeoutSec: int64p(3600)}); err != nil {
		t.Fatalf("one hour is allowed: %v", err)
	}
}

func TestAdminHandover_TwoStep(t *testing.T) {
	repo := newMockRepo()
	e := newTestEngine(t, repo, newMockCards(), &mockRail{})

	if err := e.ProposeAdmin("mallory@example.com", "mallory@example.com"); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if err := e.ProposeAdmin(admin, "next@example.com"); err != nil {
		t.Fatalf("ProposeAdmin: %v", err)
	}

	// Proposal alone changes nothing.
	if e.Settings().Admin != admin {
		t.Fatalf("admin must not change before acceptance")
	}
	if err := e.AcceptAdmin("mallory@example.com"); !errors.Is(err, ErrNotPendingAdmin) {
		t.Fatalf("expected ErrNotPendingAdmin, got %v", err)
	}

	if err := e.AcceptAdmin("next@example.com"); err != nil {
		t.Fatalf("AcceptAdmin: %v", err)
	}
	s := e.Settings()
	if s.Admin != "next@example.com" || s.PendingAdmin != "" {
		t.Fatalf("expected completed handover, got admin=%s pending=%s", s.Admin, s.PendingAdmin)
	}

	// The old admin lost the role.
	if err := e.SetPaused(admin, true); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected old admin rejected, got %v", err)
	}
}

func TestWithdrawFees_DrainsPool(t *testing.T) {
	repo := newMockRepo()
	cards := newMockCards()
	rail := &mockRail{}
	e := newTestEngine(t, repo, cards, rail)

	const stake = int64(10_000_000)
	id := setupWagered(t, e, cards, stake)
	if _, err := e.AcceptChallenge(context.Background(), id, "BOB", 2, stake); err != nil {
		t.Fatalf("AcceptChallenge: %v", err)
	}

	amount, err := e.WithdrawFees(context.Background(), admin)
	if err != nil {
		t.Fatalf("WithdrawFees: %v", err)
	}
	if amount != 1_000_000 {
		t.Fatalf("expected 1_000_000 withdrawn, got %d", amount)
	}
	last := rail.transfers[len(rail.transfers)-1]
	if last.addr != "FEEWALLET" || last.amount != 1_000_000 {
		t.Fatalf("expected fees sent to the recipient, got %+v", last)
	}
	if e.ledger.FeePool() != 0 || repo.settings.FeePool != 0 {
		t.Fatalf("expected pool drained and persisted")
	}

	if _, err := e.WithdrawFees(context.Background(), admin); !errors.Is(err, ErrNoPendingFees) {
		t.Fatalf("expected ErrNoPendingFees on empty pool, got %v", err)
	}
}

func TestWithdrawFees_FailedTransferRestoresPool(t *testing.T) {
	repo := newMockRepo()
	cards := newMockCards()
	rail := &mockRail{}
	e := newTestEngine(t, repo, cards, rail)

	const stake = int64(10_000_000)
	id := setupWagered(t, e, cards, stake)
	if _, err := e.AcceptChallenge(context.Background(), id, "BOB", 2, stake); err != nil {
		t.Fatalf("AcceptChallenge: %v", err)
	}

	rail.failTransfer = true
	if _, err := e.WithdrawFees(context.Background(), admin); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}
	if e.ledger.FeePool() != 1_000_000 {
		t.Fatalf("failed withdrawal must restore the pool, got %d", e.ledger.FeePool())
	}
}
