package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"pebbleserver/models"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DefaultJwtSecret は開発用の署名鍵。本番ではJWT_SECRETで必ず上書きする
const DefaultJwtSecret = "your_secret_key"

// DefaultConfig はconfig.jsonがない場合の設定
func DefaultConfig() models.Config {
	return models.Config{
		ServerAddr:          ":8080",
		AllowOrigins:        []string{"http://localhost:8080"},
		JwtSecret:           DefaultJwtSecret,
		DBSSLMode:           "disable",
		GameIdleMinutes:     60,
		ResultRetentionDays: 30,
	}
}

// LoadConfig loads the configuration from config.json, then applies .env and environment overrides
func LoadConfig(filename string) (models.Config, error) {
	config := DefaultConfig()

	// .envは任意。存在しなければ無視する
	_ = godotenv.Load()

	configFile, err := os.Open(filename)
	switch {
	case err == nil:
		defer configFile.Close()
		if err := json.NewDecoder(configFile).Decode(&config); err != nil {
			return config, fmt.Errorf("decode %s: %w", filename, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// 設定ファイルなしでも環境変数だけで起動できる
	default:
		return config, err
	}

	applyEnv(&config)
	return config, nil
}

// WarnDefaultSecret は署名鍵が既定値のままなら警告を出し、trueを返す
func WarnDefaultSecret(config models.Config, logger *zap.Logger) bool {
	if config.JwtSecret != "" && config.JwtSecret != DefaultJwtSecret {
		return false
	}
	logger.Warn("JWTの署名鍵が既定値のままです。JWT_SECRETを設定してください")
	return true
}

func applyEnv(config *models.Config) {
	overrides := map[string]*string{
		"SERVER_ADDR":    &config.ServerAddr,
		"JWT_SECRET":     &config.JwtSecret,
		"DB_HOST":        &config.DBHost,
		"DB_USER":        &config.DBUser,
		"DB_PASSWORD":    &config.DBPassword,
		"DB_NAME":        &config.DBName,
		"DB_SSLMODE":     &config.DBSSLMode,
		"REDIS_ADDR":     &config.RedisAddr,
		"REDIS_PASSWORD": &config.RedisPassword,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			config.RedisDB = db
		}
	}
}

func InitPostgreSQL(config models.Config, logger *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s dbname=%s password=%s sslmode=%s",
		config.DBHost, config.DBUser, config.DBName, config.DBPassword, config.DBSSLMode)

	const maxRetries = 3
	const retryInterval = 5 * time.Second
	var err error
	for i := 0; i <= maxRetries; i++ {
		var gormDB *gorm.DB
		gormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			return gormDB, nil
		}
		logger.Error("データベース接続のリトライ", zap.Int("retry", i), zap.Error(err))
		if i < maxRetries {
			time.Sleep(retryInterval)
		}
	}
	return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
}

// AutoMigrate はテーブルを作成・更新する
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.GameResult{})
}

func InitRedis(config models.Config, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	// Redisへの接続テスト
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Error("Failed to connect to Redis", zap.Error(err))
		return nil, err
	}

	logger.Info("Connected to Redis", zap.String("addr", config.RedisAddr))
	return rdb, nil
}
