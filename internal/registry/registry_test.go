package registry

import (
	"testing"
	"time"

	"github.com/pokearena/arena-server/internal/arena"
)

const timeout = 24 * time.Hour

func TestCreate_RejectsSelfAndZeroOpponent(t *testing.T) {
	r := New(nil)
	now := time.Now()
	if _, err := r.Create("alice", "alice", 1, now); err != ErrSelfChallenge {
		t.Fatalf("expected ErrSelfChallenge, got %v", err)
	}
	if _, err := r.Create("alice", arena.ZeroAddress, 1, now); err != ErrZeroOpponent {
		t.Fatalf("expected ErrZeroOpponent, got %v", err)
	}
}

func TestCreate_AllocatesMonotonicIDsAndIndexes(t *testing.T) {
	r := New(nil)
	now := time.Now()
	c1, err := r.Create("alice", "bob", 10, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c2, err := r.Create("alice", "carol", 11, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c2.ID <= c1.ID {
		t.Fatalf("expected monotonic ids, got %d then %d", c1.ID, c2.ID)
	}
	if got := r.Outgoing("alice"); len(got) != 2 {
		t.Fatalf("expected 2 outgoing for alice, got %v", got)
	}
	if got := r.Incoming("bob"); len(got) != 1 || got[0] != c1.ID {
		t.Fatalf("expected bob's incoming [%d], got %v", c1.ID, got)
	}
}

func TestValidateAccept_Gates(t *testing.T) {
	r := New(nil)
	now := time.Now()
	c, _ := r.Create("alice", "bob", 10, now)

	if _, err := r.ValidateAccept(999, "bob", now, timeout); err != ErrChallengeNotFound {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
	if _, err := r.ValidateAccept(c.ID, "mallory", now, timeout); err != ErrNotOpponent {
		t.Fatalf("expected ErrNotOpponent, got %v", err)
	}
	if _, err := r.ValidateAccept(c.ID, "bob", now.Add(timeout+time.Minute), timeout); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if _, err := r.ValidateAccept(c.ID, "bob", now.Add(time.Hour), timeout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Complete(c.ID, 20, "bob", now.Add(time.Hour))
	if _, err := r.ValidateAccept(c.ID, "bob", now.Add(time.Hour), timeout); err != ErrNotPending {
		t.Fatalf("expected ErrNotPending after completion, got %v", err)
	}
}

func TestComplete_TerminalAndUnindexed(t *testing.T) {
	r := New(nil)
	now := time.Now()
	c, _ := r.Create("alice", "bob", 10, now)

	r.Complete(c.ID, 20, "alice", now)

	got, ok := r.Get(c.ID)
	if !ok || got.Status != arena.StatusCompleted || got.Winner != "alice" || got.OpponentCardID != 20 {
		t.Fatalf("unexpected completed challenge: %+v", got)
	}
	if len(r.Outgoing("alice")) != 0 || len(r.Incoming("bob")) != 0 {
		t.Fatalf("expected indices cleared after completion")
	}
	// Terminal: neither accept nor cancel applies anymore.
	if _, err := r.ValidateCancel(c.ID, "alice", now, timeout); err != ErrNotPending {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
}

func TestValidateCancel_ChallengerAlwaysThirdPartyAfterTimeout(t *testing.T) {
	r := New(nil)
	now := time.Now()
	c, _ := r.Create("alice", "bob", 10, now)

	// Challenger cancels at any time.
	if _, err := r.ValidateCancel(c.ID, "alice", now, timeout); err != nil {
		t.Fatalf("unexpected error for challenger cancel: %v", err)
	}
	// Anyone else only after the timeout has elapsed.
	if _, err := r.ValidateCancel(c.ID, "mallory", now, timeout); err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized before timeout, got %v", err)
	}
	if _, err := r.ValidateCancel(c.ID, "mallory", now.Add(timeout+time.Second), timeout); err != nil {
		t.Fatalf("unexpected error for third-party cancel after timeout: %v", err)
	}

	r.Cancel(c.ID)
	got, _ := r.Get(c.ID)
	if got.Status != arena.StatusCancelled {
		t.Fatalf("expected cancelled status, got %s", got.Status)
	}
	if len(r.Outgoing("alice")) != 0 || len(r.Incoming("bob")) != 0 {
		t.Fatalf("expected indices cleared after cancel")
	}
}

func TestSwapRemove_KeepsIndexConsistent(t *testing.T) {
	r := New(nil)
	now := time.Now()
	c1, _ := r.Create("alice", "bob", 1, now)
	c2, _ := r.Create("alice", "carol", 2, now)
	c3, _ := r.Create("alice", "dave", 3, now)

	// Remove the middle entry; the last one is swapped into its slot.
	r.Cancel(c2.ID)

	out := r.Outgoing("alice")
	if len(out) != 2 {
		t.Fatalf("expected 2 outgoing after cancel, got %v", out)
	}
	seen := map[uint64]bool{}
	for _, id := range out {
		seen[id] = true
	}
	if !seen[c1.ID] || !seen[c3.ID] || seen[c2.ID] {
		t.Fatalf("unexpected outgoing set: %v", out)
	}

	// Removing the swapped-in entry must still work.
	r.Cancel(c3.ID)
	out = r.Outgoing("alice")
	if len(out) != 1 || out[0] != c1.ID {
		t.Fatalf("expected outgoing [%d], got %v", c1.ID, out)
	}
}

func TestNew_RebuildsFromPersistedChallenges(t *testing.T) {
	now := time.Now()
	existing := []arena.Challenge{
		{ID: 4, Challenger: "alice", Opponent: "bob", Status: arena.StatusPending, CreatedAt: now},
		{ID: 7, Challenger: "carol", Opponent: "alice", Status: arena.StatusCompleted, Winner: "carol", CreatedAt: now},
	}
	r := New(existing)

	if got := r.Outgoing("alice"); len(got) != 1 || got[0] != 4 {
		t.Fatalf("expected alice's pending outgoing [4], got %v", got)
	}
	if got := r.Incoming("alice"); len(got) != 0 {
		t.Fatalf("completed challenges must not be indexed, got %v", got)
	}

	c, err := r.Create("dave", "erin", 1, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 8 {
		t.Fatalf("expected allocation to continue at 8, got %d", c.ID)
	}
}
