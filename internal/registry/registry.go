package registry

import (
	"errors"
	"time"

	"github.com/pokearena/arena-server/internal/arena"
)

var (
	// Validation failures: rejected before any state is touched.
	ErrSelfChallenge = errors.New("cannot challenge yourself")
	ErrZeroOpponent  = errors.New("opponent address is required")

	// State failures: operation invalid for the challenge's current status.
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrNotPending        = errors.New("challenge is not pending")
	ErrNotOpponent       = errors.New("only the challenged opponent may accept")
	ErrExpired           = errors.New("challenge acceptance window has expired")
	ErrNotAuthorized     = errors.New("only the challenger may cancel before the timeout")
)

// Registry owns the challenge state machine and the per-player indices of
// outstanding (pending) challenges. All mutation happens under the
// orchestrator's engine-wide lock; the registry itself holds no locks.
//
// Transitions are split into a non-mutating validate step and a mutating
// commit step so the orchestrator can run the fallible external transfer in
// between and leave the registry untouched when it fails.
type Registry struct {
	challenges map[uint64]*arena.Challenge
	nextID     uint64

	// Outstanding-challenge index lists with O(1) swap-remove, plus the
	// stored position of each id inside its list.
	outgoing map[string][]uint64
	incoming map[string][]uint64
	outPos   map[uint64]int
	inPos    map[uint64]int
}

// New restores a registry from persisted challenges. Only pending
// challenges are indexed; id allocation continues past the highest
// persisted id.
func New(existing []arena.Challenge) *Registry {
	r := &Registry{
		challenges: make(map[uint64]*arena.Challenge),
		nextID:     1,
		outgoing:   make(map[string][]uint64),
		incoming:   make(map[string][]uint64),
		outPos:     make(map[uint64]int),
		inPos:      make(map[uint64]int),
	}
	for i := range existing {
		c := existing[i]
		r.challenges[c.ID] = &c
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
		if c.Status == arena.StatusPending {
			r.index(&c)
		}
	}
	return r
}

func (r *Registry) index(c *arena.Challenge) {
	r.outgoing[c.Challenger] = append(r.outgoing[c.Challenger], c.ID)
	r.outPos[c.ID] = len(r.outgoing[c.Challenger]) - 1
	r.incoming[c.Opponent] = append(r.incoming[c.Opponent], c.ID)
	r.inPos[c.ID] = len(r.incoming[c.Opponent]) - 1
}

// unindex removes the id from both players' lists via swap-remove.
func (r *Registry) unindex(c *arena.Challenge) {
	removeAt := func(list []uint64, pos map[uint64]int, i int) []uint64 {
		last := len(list) - 1
		if i != last {
			list[i] = list[last]
			pos[list[i]] = i
		}
		return list[:last]
	}
	if i, ok := r.outPos[c.ID]; ok {
		r.outgoing[c.Challenger] = removeAt(r.outgoing[c.Challenger], r.outPos, i)
		delete(r.outPos, c.ID)
	}
	if i, ok := r.inPos[c.ID]; ok {
		r.incoming[c.Opponent] = removeAt(r.incoming[c.Opponent], r.inPos, i)
		delete(r.inPos, c.ID)
	}
}

// Create allocates a new pending challenge and appends it to the
// challenger's outgoing and the opponent's incoming index.
func (r *Registry) Create(challenger, opponent string, challengerCardID uint64, now time.Time) (*arena.Challenge, error) {
	if opponent == arena.ZeroAddress {
		return nil, ErrZeroOpponent
	}
	if opponent == challenger {
		return nil, ErrSelfChallenge
	}
	c := &arena.Challenge{
		ID:               r.nextID,
		Challenger:       challenger,
		Opponent:         opponent,
		ChallengerCardID: challengerCardID,
		Status:           arena.StatusPending,
		CreatedAt:        now,
	}
	r.nextID++
	r.challenges[c.ID] = c
	r.index(c)
	return c, nil
}

// Get returns a challenge by id.
func (r *Registry) Get(id uint64) (*arena.Challenge, bool) {
	c, ok := r.challenges[id]
	return c, ok
}

// ValidateAccept checks that the caller may accept the challenge right now:
// it must be pending, the caller must be the stored opponent and the
// acceptance window must still be open. No state is touched.
func (r *Registry) ValidateAccept(id uint64, caller string, now time.Time, timeout time.Duration) (*arena.Challenge, error) {
	c, ok := r.challenges[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	if c.Status != arena.StatusPending {
		return nil, ErrNotPending
	}
	if c.Opponent != caller {
		return nil, ErrNotOpponent
	}
	if c.Expired(now, timeout) {
		return nil, ErrExpired
	}
	return c, nil
}

// Complete commits acceptance and resolution in one step: pending goes
// through the transient active state straight to completed, the winner is
// recorded and the challenge leaves both players' outstanding indices.
// Callers run ValidateAccept first; there is no persisted
// active-but-unresolved state.
func (r *Registry) Complete(id uint64, opponentCardID uint64, winner string, now time.Time) {
	c, ok := r.challenges[id]
	if !ok {
		return
	}
	c.OpponentCardID = opponentCardID
	c.Status = arena.StatusCompleted
	c.Winner = winner
	c.CompletedAt = now
	r.unindex(c)
}

// ValidateCancel checks that the caller may cancel: the challenge must be
// pending, and the caller must be the challenger — or anyone once the
// acceptance window has elapsed. No state is touched.
func (r *Registry) ValidateCancel(id uint64, caller string, now time.Time, timeout time.Duration) (*arena.Challenge, error) {
	c, ok := r.challenges[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	if c.Status != arena.StatusPending {
		return nil, ErrNotPending
	}
	if caller != c.Challenger && !c.Expired(now, timeout) {
		return nil, ErrNotAuthorized
	}
	return c, nil
}

// Cancel commits a cancellation: terminal state, indices cleaned up.
func (r *Registry) Cancel(id uint64) {
	c, ok := r.challenges[id]
	if !ok {
		return
	}
	c.Status = arena.StatusCancelled
	r.unindex(c)
}

// Outgoing returns a copy of the player's pending outgoing challenge ids.
func (r *Registry) Outgoing(address string) []uint64 {
	return append([]uint64(nil), r.outgoing[address]...)
}

// Incoming returns a copy of the player's pending incoming challenge ids.
func (r *Registry) Incoming(address string) []uint64 {
	return append([]uint64(nil), r.incoming[address]...)
}
