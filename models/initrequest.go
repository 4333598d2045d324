package models

// InitRequest はゲーム作成リクエスト
type InitRequest struct {
	Difficulty        *DifficultyLevel `json:"difficulty" binding:"required"`
	PebblesCount      uint32           `json:"pebbles_count"`
	MaxPebblesPerTurn uint32           `json:"max_pebbles_per_turn"`
}

func (r InitRequest) Config() GameConfig {
	return GameConfig{PebblesCount: r.PebblesCount, MaxPebblesPerTurn: r.MaxPebblesPerTurn}
}

// ActionRequest はゲームへのアクション。Typeは "turn", "giveUp", "restart"
type ActionRequest struct {
	Type              string           `json:"type" binding:"required"`
	Pebbles           uint32           `json:"pebbles"`
	Difficulty        *DifficultyLevel `json:"difficulty"`
	PebblesCount      uint32           `json:"pebbles_count"`
	MaxPebblesPerTurn uint32           `json:"max_pebbles_per_turn"`
}
