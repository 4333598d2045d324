package models

// Config 構造体はサーバー、データベース、Redis、JWTの設定情報を保持します。
type Config struct {
	ServerAddr   string   `json:"server_addr"`
	AllowOrigins []string `json:"allow_origins"`
	JwtSecret    string   `json:"jwt_secret"`

	DBHost     string `json:"db_host"` // 空の場合PostgreSQLは使用しない
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_sslmode"`

	RedisAddr     string `json:"redis_addr"` // 空の場合Redisは使用しない
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	GameIdleMinutes     int `json:"game_idle_minutes"`     // この時間操作がないゲームはメモリから削除
	ResultRetentionDays int `json:"result_retention_days"` // 対戦結果の保存期間
}
