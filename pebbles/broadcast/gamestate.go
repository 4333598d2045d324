package broadcast

import (
	"encoding/json"

	"pebbleserver/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// GameStateMessage はクライアントに送るゲーム状態のメッセージ
func GameStateMessage(gameID string, state models.GameState, event models.Event) map[string]interface{} {
	message := map[string]interface{}{
		"type":   "gameState",
		"gameID": gameID,
		"state":  state,
	}
	if !event.IsEmpty() {
		message["event"] = event
	}
	return message
}

// ErrorMessage はアクションが拒否されたときのメッセージ
func ErrorMessage(kind string, err error) map[string]interface{} {
	return map[string]interface{}{
		"type":   "error",
		"status": kind,
		"error":  err.Error(),
	}
}

// ゲームの状態をクライアントに送信するヘルパー関数
func SendGameState(client *models.Client, state models.GameState, event models.Event, logger *zap.Logger) {
	send(client, GameStateMessage(client.GameID, state, event), logger)
}

func SendError(client *models.Client, kind string, err error, logger *zap.Logger) {
	send(client, ErrorMessage(kind, err), logger)
}

func send(client *models.Client, message map[string]interface{}, logger *zap.Logger) {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	if client.Conn == nil {
		return
	}
	if err := client.Conn.WriteMessage(websocket.TextMessage, messageJSON); err != nil {
		logger.Error("Failed to send message", zap.String("playerID", client.PlayerID), zap.Error(err))
	}
}
