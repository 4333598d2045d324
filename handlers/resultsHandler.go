package handlers

import (
	"net/http"
	"strconv"

	"pebbleserver/middlewares"
	"pebbleserver/pebbles/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

// ResultsHandler はプレイヤーの過去の対戦結果を返す
func ResultsHandler(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "results_disabled", "error": "Result storage is not configured"})
		return
	}

	limit := defaultResultsLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "request_binding_error", "error": "limit must be a positive integer"})
			return
		}
		if n > maxResultsLimit {
			n = maxResultsLimit
		}
		limit = n
	}

	playerID := middlewares.GetPlayerID(c)
	results, err := database.ListResults(db, playerID, limit)
	if err != nil {
		logger.Error("Failed to retrieve results", zap.String("playerID", playerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "Failed to retrieve results"})
		return
	}

	items := make([]gin.H, 0, len(results))
	for _, r := range results {
		items = append(items, gin.H{
			"gameID":               r.GameID,
			"difficulty":           r.Difficulty,
			"pebbles_count":        r.PebblesCount,
			"max_pebbles_per_turn": r.MaxPebblesPerTurn,
			"first_player":         r.FirstPlayer,
			"winner":               r.Winner,
			"gaveUp":               r.GaveUp,
			"turns":                r.Turns,
			"finishedAt":           r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "results": items})
}
