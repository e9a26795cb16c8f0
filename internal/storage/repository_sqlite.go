package storage

import (
	"errors"

	"github.com/pokearena/arena-server/internal/arena"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) ListChallenges() ([]arena.Challenge, error) {
	var out []arena.Challenge
	if err := r.db.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) ListBets() ([]arena.BattleBet, error) {
	var out []arena.BattleBet
	if err := r.db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// TopStats returns players ordered by wins descending; ties keep a stable
// order by address so leaderboard rebuilds are deterministic.
func (r *sqliteRepository) TopStats(limit int) ([]arena.PlayerStats, error) {
	var out []arena.PlayerStats
	if err := r.db.Model(&arena.PlayerStats{}).
		Order("wins DESC").
		Order("address").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) GetSettings() (*arena.EngineSettings, error) {
	var s arena.EngineSettings
	if err := r.db.First(&s, 1).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) GetStatsByAddress(address string) (*arena.PlayerStats, error) {
	var s arena.PlayerStats
	if err := r.db.Where("address = ?", address).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Stats are created lazily; an unknown address reads as zeros.
			return &arena.PlayerStats{Address: address}, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) SaveChallengeAndBet(c *arena.Challenge, b *arena.BattleBet) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		if b != nil {
			if err := tx.Save(b).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqliteRepository) SaveSettings(s *arena.EngineSettings) error {
	return r.db.Save(s).Error
}

func (r *sqliteRepository) SaveSettlement(c *arena.Challenge, b *arena.BattleBet, winner, loser *arena.PlayerStats, s *arena.EngineSettings) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		if b != nil {
			if err := tx.Save(b).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(winner).Error; err != nil {
			return err
		}
		if err := tx.Save(loser).Error; err != nil {
			return err
		}
		if s != nil {
			if err := tx.Save(s).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqliteRepository) SaveCancellation(c *arena.Challenge, b *arena.BattleBet) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		if b != nil {
			if err := tx.Save(b).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqliteRepository) GetProfileByEmail(email string) (*arena.PlayerProfile, error) {
	var p arena.PlayerProfile
	if err := r.db.Where("email = ?", email).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) GetProfileByAddress(address string) (*arena.PlayerProfile, error) {
	var p arena.PlayerProfile
	if err := r.db.Where("address = ?", address).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) SaveProfile(p *arena.PlayerProfile) error {
	return r.db.Save(p).Error
}
