package api

import (
	"net/http"

	"github.com/pokearena/arena-server/internal/constants"
	"github.com/pokearena/arena-server/internal/service"
	"github.com/gin-gonic/gin"
)

// Admin endpoints authenticate like any player; authorization against the
// current (or pending) admin happens inside the engine so the check always
// runs under the same lock as the mutation.

// GetSettings returns the full engine settings, fee pool included.
func (h *ArenaHandler) GetSettings(c *gin.Context) {
	email := sessionEmail(c)
	s := h.engine.Settings()
	if email != s.Admin {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrAdminRequired})
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateSettings applies a partial settings change.
func (h *ArenaHandler) UpdateSettings(c *gin.Context) {
	var req service.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	updated, err := h.engine.UpdateSettings(sessionEmail(c), req)
	if err != nil {
		abortWithError(c, constants.ErrAdminRequired, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Pause stops new challenges and settlements; cancellation stays open.
func (h *ArenaHandler) Pause(c *gin.Context) {
	if err := h.engine.SetPaused(sessionEmail(c), true); err != nil {
		abortWithError(c, constants.ErrAdminRequired, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "paused"})
}

// Unpause resumes normal operation.
func (h *ArenaHandler) Unpause(c *gin.Context) {
	if err := h.engine.SetPaused(sessionEmail(c), false); err != nil {
		abortWithError(c, constants.ErrAdminRequired, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "running"})
}

type handoverRequest struct {
	Admin string `json:"admin" binding:"required"`
}

// ProposeHandover starts a two-step admin handover.
func (h *ArenaHandler) ProposeHandover(c *gin.Context) {
	var req handoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.engine.ProposeAdmin(sessionEmail(c), req.Admin); err != nil {
		abortWithError(c, constants.ErrAdminRequired, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "proposed"})
}

// AcceptHandover completes a handover; only the proposed admin may call it.
func (h *ArenaHandler) AcceptHandover(c *gin.Context) {
	if err := h.engine.AcceptAdmin(sessionEmail(c)); err != nil {
		abortWithError(c, constants.ErrAdminRequired, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "accepted"})
}

// WithdrawFees drains the accumulated fee pool to the fee recipient.
func (h *ArenaHandler) WithdrawFees(c *gin.Context) {
	amount, err := h.engine.WithdrawFees(c.Request.Context(), sessionEmail(c))
	if err != nil {
		abortWithError(c, constants.ErrAdminRequired, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawn": amount})
}
