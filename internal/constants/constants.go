package constants

import "time"

// Centralized constants for env keys, headers, routes and engine defaults.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "ARENA_CONFIG"
	EnvDBPath              = "ARENA_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	ContentTypeJSON     = "application/json"

	// Session / Cookie names
	CookieSessionName = "arena_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Engine constants. Stakes are lamports: 1 value unit = 1e9 lamports.
const (
	// LamportsPerUnit converts value units to the integer denomination all
	// escrow math runs in.
	LamportsPerUnit = int64(1_000_000_000)

	// Stake bounds: [0.001, 0.5] value units.
	MinStake = int64(1_000_000)
	MaxStake = int64(500_000_000)

	// Fee configuration: basis points of the pool, hard-capped at 10%.
	DefaultFeeBps  = int64(500)
	MaxFeeBps      = int64(1000)
	BpsDenominator = int64(10_000)

	// Challenge acceptance window.
	DefaultChallengeTimeout = 24 * time.Hour
	MinChallengeTimeout     = time.Hour

	// Experience rewards credited best-effort after settlement.
	DefaultWinnerExpReward = uint64(100)
	DefaultLoserExpReward  = uint64(25)

	// Leaderboard capacity.
	LeaderboardCapacity = 100
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteVersion            = "/version"
	RouteLeaderboard        = "/leaderboard"
	RoutePlayerStats        = "/player-stats"
	RoutePlayerProfile      = "/player-profile"
	RouteChallenges         = "/challenges"
	RouteChallengeByID      = "/challenges/:challengeID"
	RouteChallengeAccept    = "/challenges/:challengeID/accept"
	RouteChallengeCancel    = "/challenges/:challengeID/cancel"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"

	RouteAdminSettings       = "/admin/settings"
	RouteAdminPause          = "/admin/pause"
	RouteAdminUnpause        = "/admin/unpause"
	RouteAdminHandover       = "/admin/handover"
	RouteAdminHandoverAccept = "/admin/handover/accept"
	RouteAdminWithdrawFees   = "/admin/withdraw-fees"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrMissingGoogleEnv   = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrInvalidChallengeID = "Invalid challenge ID"
	ErrChallengeNotFound  = "Challenge not found"

	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchStats       = "Failed to fetch stats"
	ErrFailedFetchChallenges  = "Failed to fetch challenges"
	ErrFailedSaveProfile      = "Failed to save profile"

	ErrAddressRequired    = "A registered wallet address is required"
	ErrFailedCreate       = "Failed to create challenge"
	ErrFailedAccept       = "Failed to accept challenge"
	ErrFailedCancel       = "Failed to cancel challenge"
	ErrSettlementDeclined = "Settlement transfer failed; challenge left unchanged"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
	ErrAdminRequired  = "Admin access required"
)

// Logging field names
const (
	LogFieldChallengeID = "challenge_id"
	LogFieldCardID      = "card_id"
	LogFieldAddress     = "address"
	LogFieldWinner      = "winner"
	LogFieldLoser       = "loser"
	LogFieldPayout      = "payout"
	LogFieldFee         = "fee"
	LogFieldStake       = "stake"
	LogFieldAmount      = "amount"
	LogFieldFeePool     = "fee_pool"
	LogFieldAdmin       = "admin"
	LogFieldChallenger  = "challenger"
	LogFieldOpponent    = "opponent"
	LogFieldAddr        = "addr"
)
