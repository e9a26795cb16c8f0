package storage

import (
	"github.com/pokearena/arena-server/internal/arena"
)

// Repository persists the engine's durable state. The engine keeps its
// authoritative working set in memory and writes through; at startup the
// registry, escrow ledger and leaderboard are rebuilt from here.
type Repository interface {
	// Startup loads
	ListChallenges() ([]arena.Challenge, error)
	ListBets() ([]arena.BattleBet, error)
	TopStats(limit int) ([]arena.PlayerStats, error)
	GetSettings() (*arena.EngineSettings, error)

	// Reads
	GetStatsByAddress(address string) (*arena.PlayerStats, error)

	// Writes. SaveChallengeAndBet persists a challenge and, when wagered,
	// its bet in one transaction.
	SaveChallengeAndBet(c *arena.Challenge, b *arena.BattleBet) error
	SaveSettings(s *arena.EngineSettings) error
	// SaveSettlement persists a completed settlement as one transaction:
	// the challenge, the (optional) bet, both players' stats and the
	// settings row carrying the fee pool. Either everything is visible or
	// nothing is.
	SaveSettlement(c *arena.Challenge, b *arena.BattleBet, winner, loser *arena.PlayerStats, s *arena.EngineSettings) error
	// SaveCancellation persists a cancellation and, for wagered
	// challenges, the refunded bet in one transaction.
	SaveCancellation(c *arena.Challenge, b *arena.BattleBet) error

	// Player profiles (API-layer identity bridge)
	GetProfileByEmail(email string) (*arena.PlayerProfile, error)
	GetProfileByAddress(address string) (*arena.PlayerProfile, error)
	SaveProfile(p *arena.PlayerProfile) error
}
