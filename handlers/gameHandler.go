package handlers

import (
	"net/http"

	"pebbleserver/middlewares"
	"pebbleserver/models"
	"pebbleserver/pebbles/actions"
	"pebbleserver/pebbles/registry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// エラー種別ごとのHTTPステータス
var errorStatus = map[string]int{
	"invalid_config":    http.StatusBadRequest,
	"invalid_turn":      http.StatusBadRequest,
	"unknown_action":    http.StatusBadRequest,
	"game_already_over": http.StatusConflict,
	"game_not_found":    http.StatusNotFound,
	"not_owner":         http.StatusForbidden,
}

func respondError(c *gin.Context, err error) {
	kind := actions.ErrorKind(err)
	status, ok := errorStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"status": kind, "error": err.Error()})
}

func respondGame(c *gin.Context, status int, body gin.H, event models.Event) {
	body["status"] = "success"
	if !event.IsEmpty() {
		body["event"] = event
	}
	c.JSON(status, body)
}

// CreateGame は新しいゲームを作成する（Initメッセージ）
func CreateGame(c *gin.Context, games *registry.Registry, logger *zap.Logger) {
	var request models.InitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Game create request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "request_binding_error", "error": err.Error()})
		return
	}

	playerID := middlewares.GetPlayerID(c)
	gameID, state, event, err := games.Create(playerID, request.Config(), *request.Difficulty)
	if err != nil {
		logger.Info("Game create rejected", zap.String("playerID", playerID), zap.Error(err))
		respondError(c, err)
		return
	}
	respondGame(c, http.StatusCreated, gin.H{"gameID": gameID, "state": state}, event)
}

// GameAction はTurn, GiveUp, Restartを処理する
func GameAction(c *gin.Context, games *registry.Registry, logger *zap.Logger) {
	var request models.ActionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Game action request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "request_binding_error", "error": err.Error()})
		return
	}

	action, err := actions.ToAction(request)
	if err != nil {
		respondError(c, err)
		return
	}

	gameID := c.Param("id")
	state, event, err := games.Apply(gameID, middlewares.GetPlayerID(c), action)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("Action applied", zap.String("gameID", gameID), zap.String("action", action.Name()))
	respondGame(c, http.StatusOK, gin.H{"gameID": gameID, "state": state}, event)
}

// GameState は現在の状態を返す（読み取りのみ）
func GameState(c *gin.Context, games *registry.Registry) {
	gameID := c.Param("id")
	state, err := games.State(gameID, middlewares.GetPlayerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "gameID": gameID, "state": state})
}

// DeleteGame は進行中のゲームを破棄する
func DeleteGame(c *gin.Context, games *registry.Registry, logger *zap.Logger) {
	gameID := c.Param("id")
	if err := games.Remove(gameID, middlewares.GetPlayerID(c)); err != nil {
		respondError(c, err)
		return
	}
	logger.Info("Game removed", zap.String("gameID", gameID))
	c.JSON(http.StatusOK, gin.H{"status": "success", "gameID": gameID})
}
