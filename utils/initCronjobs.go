package utils

import (
	"time"

	"pebbleserver/models"
	"pebbleserver/pebbles/database"
	"pebbleserver/pebbles/registry"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CronCleaner は放置されたゲームと古い対戦結果を定期的に削除する
func CronCleaner(games *registry.Registry, db *gorm.DB, config models.Config, logger *zap.Logger) *cron.Cron {
	c := cron.New()

	// 一定時間操作のないゲームをメモリから削除するジョブ
	c.AddFunc("@every 10m", func() {
		SweepIdleGames(games, config, logger)
	})

	// 保存期間を過ぎた対戦結果を削除するジョブ（"分 時 日 月 曜日"）
	if db != nil {
		c.AddFunc("0 3 * * *", func() {
			PurgeOldResults(db, config, time.Now(), logger)
		})
	}

	c.Start()
	return c
}

func SweepIdleGames(games *registry.Registry, config models.Config, logger *zap.Logger) int {
	if config.GameIdleMinutes <= 0 {
		return 0
	}
	removed := games.SweepIdle(time.Duration(config.GameIdleMinutes) * time.Minute)
	if removed > 0 {
		logger.Info("放置されたゲームを削除しました", zap.Int("games_removed", removed), zap.Int("games_active", games.Len()))
	}
	return removed
}

func PurgeOldResults(db *gorm.DB, config models.Config, now time.Time, logger *zap.Logger) {
	if config.ResultRetentionDays <= 0 {
		return
	}
	logger.Info("古い対戦結果を削除する処理を開始")
	cutoff := now.AddDate(0, 0, -config.ResultRetentionDays)
	deleted, err := database.DeleteResultsBefore(db, cutoff)
	if err != nil {
		logger.Error("対戦結果の削除に失敗しました", zap.Error(err))
		return
	}
	logger.Info("対戦結果の削除完了", zap.Int64("results_deleted", deleted))
}
