package api

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/constants"
	"github.com/gin-gonic/gin"
)

// Leaderboard returns the top players by wins, limited to 10 by default.
func (h *ArenaHandler) Leaderboard(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= constants.LeaderboardCapacity {
			limit = n
		}
	}
	c.JSON(http.StatusOK, h.engine.Top(limit))
}

// GetPlayerStats returns the aggregate battle record for an address. With no
// address query the session player's own record is returned.
func (h *ArenaHandler) GetPlayerStats(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		var ok bool
		if address, ok = h.sessionAddress(c); !ok {
			return
		}
	}
	stats, rank, err := h.engine.PlayerRecord(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "rank": rank})
}

var playerNameRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}.'\- ]{4,40}$`)

// UpdatePlayerProfile updates the session player's display name and wallet
// address. The address is what every engine operation keys on; changing it
// re-binds the account to a different wallet.
func (h *ArenaHandler) UpdatePlayerProfile(c *gin.Context) {
	var body struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	email := sessionEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}

	profile, err := h.repo.GetProfileByEmail(email)
	if err != nil {
		profile = &arena.PlayerProfile{Email: email}
	}
	if body.Name != "" {
		trimmed := strings.TrimSpace(body.Name)
		if !playerNameRegex.MatchString(trimmed) {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: "Invalid player name"})
			return
		}
		profile.PlayerName = trimmed
	}
	if body.Address != "" {
		profile.Address = strings.TrimSpace(body.Address)
	}

	if err := h.repo.SaveProfile(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveProfile})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}

// GetPlayerProfile returns the session player's own profile.
func (h *ArenaHandler) GetPlayerProfile(c *gin.Context) {
	email := sessionEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	profile, err := h.repo.GetProfileByEmail(email)
	if err != nil {
		c.JSON(http.StatusOK, &arena.PlayerProfile{Email: email})
		return
	}
	c.JSON(http.StatusOK, profile)
}
