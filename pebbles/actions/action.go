package actions

import (
	"errors"
	"fmt"

	"pebbleserver/models"
	"pebbleserver/pebbles/game"
	"pebbleserver/pebbles/registry"
)

var ErrUnknownAction = errors.New("unknown action type")

// ToAction はリクエストをControllerのアクションに変換する
func ToAction(req models.ActionRequest) (game.Action, error) {
	switch req.Type {
	case "turn":
		return game.Turn{N: req.Pebbles}, nil
	case "giveUp":
		return game.GiveUp{}, nil
	case "restart":
		if req.Difficulty == nil {
			return nil, fmt.Errorf("%w: restart requires difficulty", game.ErrInvalidConfig)
		}
		return game.Restart{
			Difficulty:        *req.Difficulty,
			PebblesCount:      req.PebblesCount,
			MaxPebblesPerTurn: req.MaxPebblesPerTurn,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Type)
}

// ErrorKind はクライアントに返すエラー種別
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, game.ErrInvalidTurn):
		return "invalid_turn"
	case errors.Is(err, game.ErrGameAlreadyOver):
		return "game_already_over"
	case errors.Is(err, registry.ErrGameNotFound):
		return "game_not_found"
	case errors.Is(err, registry.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	}
	return "internal_error"
}
