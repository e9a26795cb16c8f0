package api

import (
	"errors"
	"net/http"

	"github.com/pokearena/arena-server/internal/constants"
	"github.com/pokearena/arena-server/internal/escrow"
	"github.com/pokearena/arena-server/internal/registry"
	"github.com/pokearena/arena-server/internal/service"
	"github.com/pokearena/arena-server/internal/storage"
	"github.com/gin-gonic/gin"
)

// ArenaHandler exposes the battle engine over HTTP. The session identifies a
// player by email; the stored profile maps that email to the wallet address
// the engine operates on.
type ArenaHandler struct {
	engine *service.BattleEngine
	repo   storage.Repository
}

func NewArenaHandler(engine *service.BattleEngine, repo storage.Repository) *ArenaHandler {
	return &ArenaHandler{engine: engine, repo: repo}
}

// sessionAddress resolves the authenticated session to a wallet address.
// Players must register an address on their profile before battling.
func (h *ArenaHandler) sessionAddress(c *gin.Context) (string, bool) {
	email := sessionEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return "", false
	}
	p, err := h.repo.GetProfileByEmail(email)
	if err != nil || p.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrAddressRequired})
		return "", false
	}
	return p.Address, true
}

// statusForError maps engine sentinels onto HTTP status codes: validation
// failures are 400, authorization failures 403, state conflicts 409 and
// payment-rail failures 502.
func statusForError(err error) int {
	switch {
	case errors.Is(err, registry.ErrChallengeNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrSelfChallenge),
		errors.Is(err, registry.ErrZeroOpponent),
		errors.Is(err, escrow.ErrStakeOutOfBounds),
		errors.Is(err, escrow.ErrStakeMismatch),
		errors.Is(err, escrow.ErrFeeAboveCap),
		errors.Is(err, service.ErrTimeoutTooShort):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrNotOpponent),
		errors.Is(err, registry.ErrNotAuthorized),
		errors.Is(err, service.ErrNotCardOwner),
		errors.Is(err, service.ErrNotAdmin),
		errors.Is(err, service.ErrNotPendingAdmin):
		return http.StatusForbidden
	case errors.Is(err, registry.ErrNotPending),
		errors.Is(err, registry.ErrExpired),
		errors.Is(err, escrow.ErrAlreadyPaid),
		errors.Is(err, escrow.ErrNoBet),
		errors.Is(err, service.ErrPaused),
		errors.Is(err, service.ErrNoPendingFees):
		return http.StatusConflict
	case errors.Is(err, service.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, message string, err error) {
	c.JSON(statusForError(err), gin.H{constants.JSONKeyError: message, constants.JSONKeyDetails: err.Error()})
}
