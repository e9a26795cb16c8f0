package storage

import (
	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/config"
	"github.com/pokearena/arena-server/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database, keeps the schema updated via
// AutoMigrate and seeds the single engine-settings row from configuration
// when missing.
func OpenAndMigrate(dataSourceName string, cfg *config.LoadedConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&arena.Challenge{},
		&arena.BattleBet{},
		&arena.PlayerStats{},
		&arena.PlayerProfile{},
		&arena.EngineSettings{},
	)
	if err != nil {
		return nil, err
	}

	seedSettings(db, cfg)
	return db, nil
}

// seedSettings creates the settings row on first boot. Config values only
// bootstrap the row; afterwards the admin surface is the source of truth
// and later config edits do not silently override it.
func seedSettings(db *gorm.DB, cfg *config.LoadedConfig) {
	var count int64
	db.Model(&arena.EngineSettings{}).Count(&count)
	if count > 0 {
		return
	}
	s := arena.EngineSettings{
		ID:                  1,
		WinnerExpReward:     cfg.WinnerExpReward,
		LoserExpReward:      cfg.LoserExpReward,
		ChallengeTimeoutSec: int64(cfg.ChallengeTimeout.Seconds()),
		FeeBps:              cfg.FeeBps,
		FeeRecipient:        cfg.FeeRecipient,
		Admin:               cfg.AdminEmail,
	}
	if err := db.Create(&s).Error; err != nil {
		logging.Error("failed to seed engine settings", err, nil)
	}
}
