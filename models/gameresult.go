package models

import (
	"gorm.io/gorm"
)

// GameResult モデルの定義。終了したゲームごとに1行
type GameResult struct {
	gorm.Model
	GameID            string `gorm:"index;not null"`
	PlayerID          string `gorm:"index;not null"` // ゲームを作成したプレイヤー（トークンのPlayerID）
	Difficulty        string `gorm:"not null"`       // "Easy" または "Hard"
	PebblesCount      uint32 `gorm:"not null"`
	MaxPebblesPerTurn uint32 `gorm:"not null"`
	FirstPlayer       string `gorm:"not null"`
	Winner            string `gorm:"index;not null"`
	GaveUp            bool   `gorm:"default:false"` // Userの降参で終了したか
	Turns             int    `gorm:"default:0"`     // User・Program合計の手数
}
