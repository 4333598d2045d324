package pebbles

import (
	"context"
	"net/http"

	"pebbleserver/models"
	"pebbleserver/pebbles/actions"
	"pebbleserver/pebbles/broadcast"
	"pebbleserver/pebbles/connection"
	"pebbleserver/pebbles/database"
	"pebbleserver/pebbles/registry"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NewUpgrader はWebSocketのアップグレーダーを生成する
func NewUpgrader(allowOrigins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(allowOrigins))
	for _, origin := range allowOrigins {
		allowed[origin] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		},
	}
}

// WebSocket接続へのアップグレードを行い、接続が切れるまでアクションを処理する
func HandleConnections(ctx context.Context, w http.ResponseWriter, r *http.Request, games *registry.Registry, rdb *redis.Client, logger *zap.Logger, upgrader websocket.Upgrader) {
	clientContext, err := connection.FetchClientContext(ctx, r, games, rdb, logger)
	if err != nil {
		logger.Error("Error fetching client context", zap.Error(err))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgradeが失敗した場合、レスポンスは既に書き込まれている
		logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	client := &models.Client{
		Conn:     conn,
		PlayerID: clientContext.PlayerID,
		GameID:   clientContext.GameID,
	}
	logger = logger.With(zap.String("playerID", client.PlayerID), zap.String("gameID", client.GameID))
	logger.Info("New client connected", zap.Bool("resumed", clientContext.Resumed))

	client.Conn.SetCloseHandler(func(code int, text string) error {
		logger.Info("WebSocket closed", zap.Int("code", code), zap.String("reason", text))
		return nil
	})

	// Generate and store session ID, then send it back to the client
	if rdb != nil {
		if err := database.GenerateAndStoreSessionID(ctx, client, rdb, logger); err != nil {
			logger.Error("Failed to generate or store session ID", zap.Error(err))
		}
	}

	// 接続直後に現在の状態を送信
	state, err := games.State(client.GameID, client.PlayerID)
	if err != nil {
		broadcast.SendError(client, actions.ErrorKind(err), err, logger)
		conn.Close()
		return
	}
	broadcast.SendGameState(client, state, models.Event{}, logger)

	done := make(chan struct{})
	go connection.MaintainWebSocketConnection(client, done, logger)

	actions.HandleClient(client, games, logger)
	close(done)
	logger.Info("Client removed")
}
