package game

import "errors"

var (
	// 小石の数・1手の上限の制約違反（初期化・Restart）
	ErrInvalidConfig = errors.New("invalid config")
	// 取る数が [1, min(max_pebbles_per_turn, pebbles_remaining)] の外
	ErrInvalidTurn = errors.New("invalid turn")
	// 終了済みのゲームへのアクション
	ErrGameAlreadyOver = errors.New("game already over")
)
