package main

import (
	"pebbleserver/database"
	"pebbleserver/utils"

	"go.uber.org/zap"
)

// game_resultsテーブルを作成・更新する
func main() {
	logger, err := utils.InitLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	config, err := database.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
	}
	if config.DBHost == "" {
		logger.Fatal("DB_HOSTが設定されていません")
	}

	db, err := database.InitPostgreSQL(config, logger)
	if err != nil {
		logger.Fatal("PostgreSQLの初期化に失敗しました", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Error migrating GameResult table", zap.Error(err))
	}
	logger.Info("GameResult table migrated successfully")
}
