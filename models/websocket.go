package models

import (
	"github.com/gorilla/websocket"
)

// Websocketクライアントを定義
type Client struct {
	Conn     *websocket.Conn
	PlayerID string // JWTから抽出したプレイヤーID
	GameID   string
}
