package actions

import (
	"encoding/json"

	"pebbleserver/models"
	"pebbleserver/pebbles/broadcast"
	"pebbleserver/pebbles/registry"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// クライアントごとにメッセージを読み取るゴルーチン。接続が切れるまで戻らない
func HandleClient(client *models.Client, games *registry.Registry, logger *zap.Logger) {
	defer client.Conn.Close()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error", zap.Error(err))
			}
			return
		}
		HandleMessage(client, message, games, logger)
	}
}

// HandleMessage は1つのメッセージを処理し、結果をクライアントに送り返す
func HandleMessage(client *models.Client, message []byte, games *registry.Registry, logger *zap.Logger) {
	var req models.ActionRequest
	if err := json.Unmarshal(message, &req); err != nil {
		logger.Error("Error decoding message", zap.Error(err))
		broadcast.SendError(client, "request_binding_error", err, logger)
		return
	}

	action, err := ToAction(req)
	if err != nil {
		logger.Info("Invalid action", zap.String("type", req.Type), zap.Error(err))
		broadcast.SendError(client, ErrorKind(err), err, logger)
		return
	}

	state, event, err := games.Apply(client.GameID, client.PlayerID, action)
	if err != nil {
		broadcast.SendError(client, ErrorKind(err), err, logger)
		return
	}
	logger.Info("Action applied",
		zap.String("gameID", client.GameID),
		zap.String("action", action.Name()),
		zap.Uint32("remaining", state.PebblesRemaining),
	)
	broadcast.SendGameState(client, state, event, logger)
}
