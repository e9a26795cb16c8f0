package main

import (
	"os"

	"github.com/pokearena/arena-server/internal/api"
	"github.com/pokearena/arena-server/internal/cardclient"
	"github.com/pokearena/arena-server/internal/config"
	"github.com/pokearena/arena-server/internal/constants"
	"github.com/pokearena/arena-server/internal/logging"
	"github.com/pokearena/arena-server/internal/payment"
	"github.com/pokearena/arena-server/internal/service"
	"github.com/pokearena/arena-server/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	// Load the arena configuration file (required). Path may be provided
	// via ARENA_CONFIG or defaults to ./arena_config.json in the current
	// working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./arena_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{"config_path": configPath, "hint": "create an arena_config.json with card_registry.base_url, payment_rail.base_url and engine.admin_email; optional keys: server.address, database.path, engine.{fee_bps,fee_recipient,challenge_timeout_sec,winner_exp_reward,loser_exp_reward}, session.ttl_sec, log_level"})
	}
	logging.SetLevel(cfg.LogLevel)

	// Allow the DB path to be overridden via ARENA_DB for container
	// deployments.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	db, err := storage.OpenAndMigrate(dbPath, cfg)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	cards := cardclient.New(cfg.CardRegistryBaseURL)
	rail := payment.New(cfg.PaymentRailBaseURL)

	engine, err := service.NewBattleEngine(repo, cards, rail)
	if err != nil {
		logging.Fatal("Failed to restore engine state", err, nil)
	}

	handler := api.NewArenaHandler(engine, repo)
	authHandler := api.NewAuthHandler(repo, cfg.SessionTTL)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.GET(constants.RouteLeaderboard, handler.Leaderboard)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		protected.POST(constants.RoutePlayerStats, handler.UpdatePlayerProfile)
		protected.GET(constants.RoutePlayerProfile, handler.GetPlayerProfile)

		protected.POST(constants.RouteChallenges, handler.CreateChallenge)
		protected.GET(constants.RouteChallenges, handler.ListChallenges)
		protected.GET(constants.RouteChallengeByID, handler.GetChallenge)
		protected.POST(constants.RouteChallengeAccept, handler.AcceptChallenge)
		protected.POST(constants.RouteChallengeCancel, handler.CancelChallenge)

		protected.GET(constants.RouteAdminSettings, handler.GetSettings)
		protected.PUT(constants.RouteAdminSettings, handler.UpdateSettings)
		protected.POST(constants.RouteAdminPause, handler.Pause)
		protected.POST(constants.RouteAdminUnpause, handler.Unpause)
		protected.POST(constants.RouteAdminHandover, handler.ProposeHandover)
		protected.POST(constants.RouteAdminHandoverAccept, handler.AcceptHandover)
		protected.POST(constants.RouteAdminWithdrawFees, handler.WithdrawFees)
	}

	router.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)

	// Start server on configured address
	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
