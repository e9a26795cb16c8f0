package leaderboard

import "sync"

// Entry pairs a ranked address with its win count.
type Entry struct {
	Address string `json:"address"`
	Wins    uint64 `json:"wins"`
}

// Leaderboard is a capacity-bounded ranking of players, strictly
// non-increasing by wins. A reverse index maps address to 1-based rank
// (0 = unranked) and is kept the exact inverse of the sequence at every
// step. Updates are local bubble-up insertions, at most O(displacement)
// work per call, bounded by the capacity.
type Leaderboard struct {
	mu       sync.RWMutex
	capacity int
	entries  []Entry
	ranks    map[string]int
}

// New creates an empty leaderboard bounded at capacity entries.
func New(capacity int) *Leaderboard {
	return &Leaderboard{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
		ranks:    make(map[string]int, capacity),
	}
}

// Rebuild replaces the whole ranking from stats already sorted by wins
// descending (used at startup to restore state from storage). Input beyond
// capacity is dropped.
func (l *Leaderboard) Rebuild(sorted []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
	l.ranks = make(map[string]int, l.capacity)
	for _, e := range sorted {
		if len(l.entries) == l.capacity {
			break
		}
		l.entries = append(l.entries, e)
		l.ranks[e.Address] = len(l.entries)
	}
}

// RecordWin repositions the player after a win-count increase. The caller
// passes the player's already-updated total wins. A player enters or
// displaces another only through this path.
func (l *Leaderboard) RecordWin(address string, wins uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rank, ok := l.ranks[address]; ok {
		l.entries[rank-1].Wins = wins
		l.bubbleUp(rank - 1)
		return
	}

	if len(l.entries) < l.capacity {
		l.entries = append(l.entries, Entry{Address: address, Wins: wins})
		l.ranks[address] = len(l.entries)
		l.bubbleUp(len(l.entries) - 1)
		return
	}

	// At capacity: evict the lowest entry only if strictly beaten.
	last := len(l.entries) - 1
	if wins <= l.entries[last].Wins {
		return
	}
	delete(l.ranks, l.entries[last].Address)
	l.entries[last] = Entry{Address: address, Wins: wins}
	l.ranks[address] = last + 1
	l.bubbleUp(last)
}

// bubbleUp swaps the entry at index i toward rank 1 while its predecessor
// has strictly fewer wins, fixing the reverse index at each swap.
func (l *Leaderboard) bubbleUp(i int) {
	for i > 0 && l.entries[i-1].Wins < l.entries[i].Wins {
		l.entries[i-1], l.entries[i] = l.entries[i], l.entries[i-1]
		l.ranks[l.entries[i-1].Address] = i
		l.ranks[l.entries[i].Address] = i + 1
		i--
	}
}

// Top returns the first min(limit, size) entries in rank order. The
// sequence is sorted by construction; no sort happens at read time.
func (l *Leaderboard) Top(limit int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	if limit < 0 {
		limit = 0
	}
	out := make([]Entry, limit)
	copy(out, l.entries[:limit])
	return out
}

// Rank returns the 1-based rank for an address, or 0 when unranked.
func (l *Leaderboard) Rank(address string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ranks[address]
}

// Len returns the number of ranked players.
func (l *Leaderboard) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
