package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pebbleserver/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionTTL = 24 * time.Hour

var ErrInvalidSession = errors.New("invalid or expired session ID")

type sessionInfo struct {
	PlayerID string `json:"playerID"`
	GameID   string `json:"gameID"`
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// ValidateSessionID checks the session ID in Redis and returns the client it belongs to.
// 使用済みのセッションIDは削除する
func ValidateSessionID(ctx context.Context, rdb *redis.Client, sessionID string, logger *zap.Logger) (*models.Client, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	sessionInfoJSON, err := rdb.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		logger.Error("Failed to retrieve session info", zap.Error(err))
		return nil, err
	}

	var info sessionInfo
	if err := json.Unmarshal([]byte(sessionInfoJSON), &info); err != nil {
		logger.Error("Failed to decode session info", zap.Error(err))
		return nil, fmt.Errorf("decode session info: %w", err)
	}
	if info.PlayerID == "" || info.GameID == "" {
		return nil, ErrInvalidSession
	}

	// 旧セッションの削除
	if err := rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		logger.Warn("Failed to delete old session", zap.Error(err))
	}
	return &models.Client{PlayerID: info.PlayerID, GameID: info.GameID}, nil
}

// GenerateAndStoreSessionID issues a new session ID, stores it in Redis and sends it to the client
func GenerateAndStoreSessionID(ctx context.Context, client *models.Client, rdb *redis.Client, logger *zap.Logger) error {
	sessionID := uuid.New().String()

	sessionInfoJSON, err := json.Marshal(sessionInfo{PlayerID: client.PlayerID, GameID: client.GameID})
	if err != nil {
		logger.Error("Error encoding session info", zap.Error(err))
		return err
	}

	// 24時間の有効期限
	if err := rdb.Set(ctx, sessionKey(sessionID), sessionInfoJSON, sessionTTL).Err(); err != nil {
		logger.Error("Error storing session info in Redis", zap.Error(err))
		return err
	}

	return sendSessionIDToClient(client, sessionID, logger)
}

func sendSessionIDToClient(client *models.Client, sessionID string, logger *zap.Logger) error {
	response := map[string]interface{}{
		"type":      "sessionID",
		"sessionID": sessionID,
		"gameID":    client.GameID,
	}

	if client.Conn == nil {
		logger.Warn("WebSocket connection is not established, cannot send session ID")
		return nil
	}
	if err := client.Conn.WriteJSON(response); err != nil {
		logger.Error("Error sending session ID to client", zap.Error(err))
		return err
	}
	logger.Info("Successfully sent session ID to client", zap.String("sessionID", sessionID))
	return nil
}
