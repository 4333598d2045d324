package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pebbleserver/auth"
	"pebbleserver/models"
	"pebbleserver/pebbles/database"
	"pebbleserver/pebbles/registry"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ClientContext はクライアントのセッション情報を保持するための構造体です。
type ClientContext struct {
	PlayerID string
	GameID   string
	Resumed  bool // SessionIDから復元した場合true
}

// TokenValidation はAuthorizationヘッダーのトークンを検証する
func TokenValidation(r *http.Request, logger *zap.Logger) (*models.MyClaims, error) {
	claims, err := auth.ParseToken(auth.BearerToken(r.Header.Get("Authorization")))
	if err != nil {
		logger.Error("Failed to validate token", zap.Error(err))
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	return claims, nil
}

// FetchClientContext はトークンとgameID（またはSessionID）から接続先のゲームを決める
func FetchClientContext(ctx context.Context, r *http.Request, games *registry.Registry, rdb *redis.Client, logger *zap.Logger) (*ClientContext, error) {
	claims, err := TokenValidation(r, logger)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	clientContext := &ClientContext{
		PlayerID: claims.PlayerID,
		GameID:   r.URL.Query().Get("gameID"),
	}

	// セッションIDの検証と復元
	if sessionID := r.Header.Get("SessionID"); sessionID != "" && rdb != nil {
		restored, err := database.ValidateSessionID(ctx, rdb, sessionID, logger)
		if err != nil {
			return nil, err
		}
		if restored.PlayerID != claims.PlayerID {
			return nil, errors.New("session belongs to another player")
		}
		clientContext.GameID = restored.GameID
		clientContext.Resumed = true
	}

	if clientContext.GameID == "" {
		return nil, errors.New("gameID is required")
	}
	// ゲームが存在し、このプレイヤーのものであることを確認
	if _, err := games.State(clientContext.GameID, clientContext.PlayerID); err != nil {
		return nil, err
	}
	return clientContext, nil
}
