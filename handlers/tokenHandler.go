package handlers

import (
	"net/http"

	"pebbleserver/middlewares"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenHandler は匿名プレイヤーのトークンを発行する
func TokenHandler(c *gin.Context, logger *zap.Logger) {
	token, playerID, err := middlewares.GeneratePlayerToken()
	if err != nil {
		logger.Error("Token generation error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "Failed to generate token"})
		return
	}
	logger.Info("Player token issued", zap.String("playerID", playerID))
	c.JSON(http.StatusOK, gin.H{"status": "success", "token": token, "playerID": playerID})
}
