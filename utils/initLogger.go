package utils

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ロガーを初期化。APP_ENV=development なら開発用の出力にする
func InitLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Gin のミドルウェア用関数で、リクエストのログを取得します。
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		}
		if playerID := c.GetString("playerID"); playerID != "" {
			fields = append(fields, zap.String("playerID", playerID))
		}
		logger.Info("request", fields...)
	}
}
