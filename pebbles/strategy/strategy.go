// Package strategy はProgram側の手の選択を行う。
// ゲームの履歴は参照せず、残りの小石の数と1手の上限だけで決める。
package strategy

import (
	"pebbleserver/models"
)

// RandSource は乱数の供給元。*rand.Rand がそのまま使える
type RandSource interface {
	Intn(n int) int
}

// SelectMove は 1 <= n <= min(maxPerTurn, remaining) の範囲で取る小石の数を返す。
// remaining か maxPerTurn が0の場合は合法手がないので0を返す。
func SelectMove(rng RandSource, remaining, maxPerTurn uint32, difficulty models.DifficultyLevel) uint32 {
	limit := Limit(remaining, maxPerTurn)
	if limit == 0 {
		return 0
	}

	if difficulty == models.Hard {
		if n, ok := WinningMove(remaining, maxPerTurn); ok {
			return n
		}
		// 負けが確定している局面。どの手でも理論上の結果は変わらない
	}
	return randomMove(rng, limit)
}

// WinningMove は残りを (maxPerTurn+1) の倍数にする手を返す。
// 既に倍数であれば勝ち手はなく false を返す。
// maxPerTurn+1 はuint32で桁あふれするのでuint64で計算する。
func WinningMove(remaining, maxPerTurn uint32) (uint32, bool) {
	if remaining == 0 || maxPerTurn == 0 {
		return 0, false
	}
	r := uint64(remaining) % (uint64(maxPerTurn) + 1)
	if r == 0 {
		return 0, false
	}
	return uint32(r), true
}

// Limit は1手で取れる最大数
func Limit(remaining, maxPerTurn uint32) uint32 {
	if maxPerTurn < remaining {
		return maxPerTurn
	}
	return remaining
}

func randomMove(rng RandSource, limit uint32) uint32 {
	return 1 + uint32(rng.Intn(int(limit)))
}
