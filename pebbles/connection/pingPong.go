package connection

import (
	"time"

	"pebbleserver/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingPeriod   = 10 * time.Second // 10秒ごとにPingを送信
	readDeadline = 60 * time.Second
	writeWait    = 5 * time.Second
)

// MaintainWebSocketConnection はPing/Pongで接続を維持する。doneが閉じられるか送信に失敗すると戻る
func MaintainWebSocketConnection(c *models.Client, done <-chan struct{}, logger *zap.Logger) {
	// 読み取りデッドラインの初期設定（最初のPong待機に使用）
	c.Conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			// WriteControlは他の書き込みと並行して呼べる
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logger.Error("Error sending ping", zap.String("playerID", c.PlayerID), zap.Error(err))
				c.Conn.Close()
				return
			}
		}
	}
}
