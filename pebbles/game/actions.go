package game

import (
	"pebbleserver/models"
)

// Action は Turn, GiveUp, Restart のいずれか
type Action interface {
	Name() string
}

// Turn はUserが小石をN個取る
type Turn struct {
	N uint32
}

// GiveUp はUserの降参。Programの勝ちになる
type GiveUp struct{}

// Restart は現在のゲームを破棄し、新しい設定で作り直す
type Restart struct {
	Difficulty        models.DifficultyLevel
	PebblesCount      uint32
	MaxPebblesPerTurn uint32
}

func (Turn) Name() string    { return "turn" }
func (GiveUp) Name() string  { return "giveUp" }
func (Restart) Name() string { return "restart" }

func (r Restart) config() models.GameConfig {
	return models.GameConfig{PebblesCount: r.PebblesCount, MaxPebblesPerTurn: r.MaxPebblesPerTurn}
}
