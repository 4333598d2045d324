package middlewares

import (
	"net/http"

	"pebbleserver/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const playerIDKey = "playerID"

// トークン検証を行うミドルウェア。成功するとplayerIDをコンテキストにセットする
func AuthMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.ParseToken(auth.BearerToken(c.GetHeader("Authorization")))
		if err != nil {
			logger.Warn("認証失敗", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "unauthorized", "error": "Unauthorized"})
			return
		}
		c.Set(playerIDKey, claims.PlayerID)
		c.Next()
	}
}

// GetPlayerID はAuthMiddlewareがセットしたプレイヤーIDを返す
func GetPlayerID(c *gin.Context) string {
	return c.GetString(playerIDKey)
}
