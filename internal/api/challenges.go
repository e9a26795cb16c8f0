package api

import (
	"net/http"
	"strconv"

	"github.com/pokearena/arena-server/internal/constants"
	"github.com/gin-gonic/gin"
)

type createChallengeRequest struct {
	Opponent string `json:"opponent" binding:"required"`
	CardID   uint64 `json:"card_id" binding:"required"`
	Stake    int64  `json:"stake"`
}

// CreateChallenge opens a pending challenge from the session player. A
// positive stake (lamports) makes the challenge wagered.
func (h *ArenaHandler) CreateChallenge(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	address, ok := h.sessionAddress(c)
	if !ok {
		return
	}
	challenge, err := h.engine.CreateChallenge(c.Request.Context(), address, req.Opponent, req.CardID, req.Stake)
	if err != nil {
		abortWithError(c, constants.ErrFailedCreate, err)
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

type acceptChallengeRequest struct {
	CardID uint64 `json:"card_id" binding:"required"`
	Stake  int64  `json:"stake"`
}

// AcceptChallenge accepts and settles a pending challenge in one step: the
// response carries the resolved outcome and, for wagered battles, the
// payout and fee.
func (h *ArenaHandler) AcceptChallenge(c *gin.Context) {
	id, ok := challengeID(c)
	if !ok {
		return
	}
	var req acceptChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	address, ok := h.sessionAddress(c)
	if !ok {
		return
	}
	result, err := h.engine.AcceptChallenge(c.Request.Context(), id, address, req.CardID, req.Stake)
	if err != nil {
		abortWithError(c, constants.ErrFailedAccept, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelChallenge withdraws a pending challenge, refunding any escrowed
// stake to the challenger.
func (h *ArenaHandler) CancelChallenge(c *gin.Context) {
	id, ok := challengeID(c)
	if !ok {
		return
	}
	address, ok := h.sessionAddress(c)
	if !ok {
		return
	}
	challenge, err := h.engine.CancelChallenge(c.Request.Context(), id, address)
	if err != nil {
		abortWithError(c, constants.ErrFailedCancel, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// GetChallenge returns a challenge with its bet record when wagered.
func (h *ArenaHandler) GetChallenge(c *gin.Context) {
	id, ok := challengeID(c)
	if !ok {
		return
	}
	challenge, bet, err := h.engine.GetChallenge(id)
	if err != nil {
		abortWithError(c, constants.ErrChallengeNotFound, err)
		return
	}
	out := gin.H{"challenge": challenge}
	if bet != nil {
		out["bet"] = bet
	}
	c.JSON(http.StatusOK, out)
}

// ListChallenges returns the session player's pending challenges, split
// into outgoing and incoming.
func (h *ArenaHandler) ListChallenges(c *gin.Context) {
	address, ok := h.sessionAddress(c)
	if !ok {
		return
	}
	outgoing, incoming := h.engine.PlayerChallenges(address)
	c.JSON(http.StatusOK, gin.H{"outgoing": outgoing, "incoming": incoming})
}

func challengeID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("challengeID"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidChallengeID})
		return 0, false
	}
	return id, true
}
