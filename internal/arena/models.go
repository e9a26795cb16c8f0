package arena

import (
	"time"
)

// ChallengeStatus is a string alias for a challenge's lifecycle state.
// Using a dedicated type instead of plain string makes code safer and
// self-documenting.
type ChallengeStatus string

const (
	StatusPending   ChallengeStatus = "pending"
	StatusActive    ChallengeStatus = "active"
	StatusCompleted ChallengeStatus = "completed"
	StatusCancelled ChallengeStatus = "cancelled"
)

// ZeroAddress is the empty player identity. Challenges may never target it.
const ZeroAddress = ""

// Challenge is a single head-to-head card duel between two players.
// Identity is a monotonically increasing integer allocated by the registry.
// OpponentCardID is meaningful only once the challenge is active or
// completed.
type Challenge struct {
	ID               uint64          `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Challenger       string          `json:"challenger" gorm:"index"`
	Opponent         string          `json:"opponent" gorm:"index"`
	ChallengerCardID uint64          `json:"challenger_card_id"`
	OpponentCardID   uint64          `json:"opponent_card_id"`
	Status           ChallengeStatus `json:"status" gorm:"index"`
	Wagered          bool            `json:"wagered"`
	Winner           string          `json:"winner"`
	CreatedAt        time.Time       `json:"created_at"`
	CompletedAt      time.Time       `json:"completed_at"`
}

// TableName keeps the persisted table singular-free and explicit.
func (Challenge) TableName() string { return "challenges" }

// Expired reports whether a pending challenge's acceptance window has
// closed. Expiry is evaluated lazily on accept/cancel; an expired pending
// challenge sits in storage untouched until someone interacts with it.
func (c *Challenge) Expired(now time.Time, timeout time.Duration) bool {
	return now.After(c.CreatedAt.Add(timeout))
}

// BattleBet is the wager record attached to a wagered challenge. Stakes are
// denominated in lamports (1 value unit = 1_000_000_000 lamports).
//
// OpponentEscrowed records that the opponent's stake was actually collected,
// so an acceptance aborted after collection never charges the opponent a
// second time on retry. The refunded flags track each side's refund leg
// independently; Paid flips exactly once, from false to true, on the single
// settlement or once every escrowed leg has been refunded — whichever
// happens first. The other path must then be a no-op.
type BattleBet struct {
	ChallengeID        uint64 `json:"challenge_id" gorm:"primaryKey;autoIncrement:false"`
	ChallengerStake    int64  `json:"challenger_stake"`
	OpponentStake      int64  `json:"opponent_stake"`
	BettingEnabled     bool   `json:"betting_enabled"`
	OpponentEscrowed   bool   `json:"opponent_escrowed"`
	ChallengerRefunded bool   `json:"challenger_refunded"`
	OpponentRefunded   bool   `json:"opponent_refunded"`
	Paid               bool   `json:"paid"`
}

func (BattleBet) TableName() string { return "battle_bets" }

// Pool is the total staked value for this bet.
func (b *BattleBet) Pool() int64 { return b.ChallengerStake + b.OpponentStake }

// PlayerStats is the per-address aggregate battle record. It is created
// lazily on a player's first settled battle and never deleted.
// Invariant: Wins+Losses == TotalBattles at all times.
type PlayerStats struct {
	Address       string `json:"address" gorm:"primaryKey"`
	Wins          uint64 `json:"wins"`
	Losses        uint64 `json:"losses"`
	TotalBattles  uint64 `json:"total_battles"`
	CurrentStreak uint64 `json:"current_streak"`
	BestStreak    uint64 `json:"best_streak"`
}

func (PlayerStats) TableName() string { return "player_stats" }

// RecordWin applies win-side bookkeeping: the streak grows and the best
// streak tracks its running maximum.
func (s *PlayerStats) RecordWin() {
	s.Wins++
	s.TotalBattles++
	s.CurrentStreak++
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}
}

// RecordLoss applies loss-side bookkeeping; any loss resets the streak.
func (s *PlayerStats) RecordLoss() {
	s.Losses++
	s.TotalBattles++
	s.CurrentStreak = 0
}

// PlayerProfile links an authenticated account (email) to its wallet
// address and display name. The engine itself only ever sees addresses;
// the profile is the API-layer bridge from session identity to them.
type PlayerProfile struct {
	Email      string `json:"email" gorm:"primaryKey"`
	Address    string `json:"address" gorm:"uniqueIndex"`
	PlayerName string `json:"player_name"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }

// EngineSettings is the single-row, admin-configurable engine state. The
// fee pool accumulates settlement fees until the admin withdraws them to
// the configured recipient.
type EngineSettings struct {
	ID                  uint   `json:"-" gorm:"primaryKey"`
	WinnerExpReward     uint64 `json:"winner_exp_reward"`
	LoserExpReward      uint64 `json:"loser_exp_reward"`
	ChallengeTimeoutSec int64  `json:"challenge_timeout_sec"`
	FeeBps              int64  `json:"fee_bps"`
	FeeRecipient        string `json:"fee_recipient"`
	FeePool             int64  `json:"fee_pool"`
	Paused              bool   `json:"paused"`
	Admin               string `json:"admin"`
	PendingAdmin        string `json:"pending_admin"`
}

func (EngineSettings) TableName() string { return "engine_settings" }

// ChallengeTimeout returns the configured acceptance window as a duration.
func (s *EngineSettings) ChallengeTimeout() time.Duration {
	return time.Duration(s.ChallengeTimeoutSec) * time.Second
}
