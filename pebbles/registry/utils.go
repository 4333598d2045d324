package registry

import (
	"math/rand"
	"time"
)

// 乱数は先手の決定とProgramの手の選択に使用。ゲームごとに1つ生成する
func createLocalRandGenerator() *rand.Rand {
	source := rand.NewSource(time.Now().UnixNano())
	return rand.New(source)
}
