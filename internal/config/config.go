package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pokearena/arena-server/internal/constants"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	Database *struct {
		Path string `json:"path"`
	} `json:"database"`
	CardRegistry *struct {
		BaseURL string `json:"base_url"`
	} `json:"card_registry"`
	PaymentRail *struct {
		BaseURL string `json:"base_url"`
	} `json:"payment_rail"`
	Engine *struct {
		AdminEmail          string `json:"admin_email"`
		AdminAddress        string `json:"admin_address"`
		FeeRecipient        string `json:"fee_recipient"`
		FeeBps              *int64 `json:"fee_bps"`
		ChallengeTimeoutSec *int64 `json:"challenge_timeout_sec"`
		WinnerExpReward     *uint64 `json:"winner_exp_reward"`
		LoserExpReward      *uint64 `json:"loser_exp_reward"`
	} `json:"engine"`
	Session *struct {
		TTLSec int64 `json:"ttl_sec"`
	} `json:"session"`
	LogLevel string `json:"log_level"`
}

// LoadedConfig is the validated runtime configuration.
type LoadedConfig struct {
	ServerAddress string
	DBPath        string

	CardRegistryBaseURL string
	PaymentRailBaseURL  string

	AdminEmail       string
	AdminAddress     string
	FeeRecipient     string
	FeeBps           int64
	ChallengeTimeout time.Duration
	WinnerExpReward  uint64
	LoserExpReward   uint64

	SessionTTL time.Duration
	LogLevel   string
}

// LoadConfig reads the configuration file at path and returns the validated
// runtime configuration. Engine bounds (minimum challenge timeout, fee cap)
// are enforced here so a misconfigured server refuses to start instead of
// rejecting every call at runtime.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	out := &LoadedConfig{
		ServerAddress:    ":8080",
		DBPath:           "./data/arena.db",
		FeeBps:           constants.DefaultFeeBps,
		ChallengeTimeout: constants.DefaultChallengeTimeout,
		WinnerExpReward:  constants.DefaultWinnerExpReward,
		LoserExpReward:   constants.DefaultLoserExpReward,
		SessionTTL:       24 * time.Hour,
		LogLevel:         "info",
	}

	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if rc.Database != nil && rc.Database.Path != "" {
		out.DBPath = rc.Database.Path
	}
	if rc.CardRegistry == nil || strings.TrimSpace(rc.CardRegistry.BaseURL) == "" {
		return nil, fmt.Errorf("config file %s: card_registry.base_url is required", path)
	}
	out.CardRegistryBaseURL = strings.TrimRight(strings.TrimSpace(rc.CardRegistry.BaseURL), "/")
	if rc.PaymentRail == nil || strings.TrimSpace(rc.PaymentRail.BaseURL) == "" {
		return nil, fmt.Errorf("config file %s: payment_rail.base_url is required", path)
	}
	out.PaymentRailBaseURL = strings.TrimRight(strings.TrimSpace(rc.PaymentRail.BaseURL), "/")

	if rc.Engine != nil {
		out.AdminEmail = strings.TrimSpace(rc.Engine.AdminEmail)
		out.AdminAddress = strings.TrimSpace(rc.Engine.AdminAddress)
		out.FeeRecipient = strings.TrimSpace(rc.Engine.FeeRecipient)
		if rc.Engine.FeeBps != nil {
			out.FeeBps = *rc.Engine.FeeBps
		}
		if rc.Engine.ChallengeTimeoutSec != nil {
			out.ChallengeTimeout = time.Duration(*rc.Engine.ChallengeTimeoutSec) * time.Second
		}
		if rc.Engine.WinnerExpReward != nil {
			out.WinnerExpReward = *rc.Engine.WinnerExpReward
		}
		if rc.Engine.LoserExpReward != nil {
			out.LoserExpReward = *rc.Engine.LoserExpReward
		}
	}
	if out.AdminEmail == "" {
		return nil, fmt.Errorf("config file %s: engine.admin_email is required", path)
	}

	if out.FeeBps < 0 || out.FeeBps > constants.MaxFeeBps {
		return nil, fmt.Errorf("config file %s: engine.fee_bps %d outside [0, %d]", path, out.FeeBps, constants.MaxFeeBps)
	}
	if out.ChallengeTimeout < constants.MinChallengeTimeout {
		return nil, fmt.Errorf("config file %s: engine.challenge_timeout_sec below minimum of %s", path, constants.MinChallengeTimeout)
	}

	if rc.Session != nil && rc.Session.TTLSec > 0 {
		out.SessionTTL = time.Duration(rc.Session.TTLSec) * time.Second
	}
	if rc.LogLevel != "" {
		out.LogLevel = rc.LogLevel
	}
	return out, nil
}
