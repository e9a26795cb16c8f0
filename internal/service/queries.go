package service

import (
	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/leaderboard"
	"github.com/pokearena/arena-server/internal/registry"
)

// GetChallenge returns a copy of a challenge and, when wagered, its bet.
func (e *BattleEngine) GetChallenge(challengeID uint64) (arena.Challenge, *arena.BattleBet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.registry.Get(challengeID)
	if !ok {
		return arena.Challenge{}, nil, registry.ErrChallengeNotFound
	}
	if b, ok := e.ledger.Bet(challengeID); ok {
		bet := *b
		return *c, &bet, nil
	}
	return *c, nil, nil
}

// PlayerChallenges lists a player's pending challenges, outgoing then
// incoming, resolved to full challenge records.
func (e *BattleEngine) PlayerChallenges(address string) (outgoing, incoming []arena.Challenge) {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolve := func(ids []uint64) []arena.Challenge {
		out := make([]arena.Challenge, 0, len(ids))
		for _, id := range ids {
			if c, ok := e.registry.Get(id); ok {
				out = append(out, *c)
			}
		}
		return out
	}
	return resolve(e.registry.Outgoing(address)), resolve(e.registry.Incoming(address))
}

// PlayerRecord reads a player's aggregate battle record and current
// leaderboard rank (0 when unranked).
func (e *BattleEngine) PlayerRecord(address string) (*arena.PlayerStats, int, error) {
	stats, err := e.repo.GetStatsByAddress(address)
	if err != nil {
		return nil, 0, err
	}
	return stats, e.board.Rank(address), nil
}

// Top returns the first limit leaderboard entries in rank order.
func (e *BattleEngine) Top(limit int) []leaderboard.Entry {
	return e.board.Top(limit)
}
