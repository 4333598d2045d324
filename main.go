package main

import (
	"time"

	"go.uber.org/zap"

	"pebbleserver/auth"                       //JWTの署名鍵
	"pebbleserver/database"                   //設定の読み込みとPostgreSQL・Redisの初期化
	"pebbleserver/handlers"                   //REST APIのハンドラー
	"pebbleserver/middlewares"                //トークン検証
	"pebbleserver/pebbles"                    //小石取りゲームのWebSocket接続
	pebblesdb "pebbleserver/pebbles/database" //対戦結果の保存
	"pebbleserver/pebbles/registry"           //進行中のゲームの管理
	"pebbleserver/utils"                      //ロガーの初期化とCronジョブ

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

func main() {
	logger, err := utils.InitLogger() // ロガーの初期化
	if err != nil {
		panic(err) // 失敗した場合はプログラム停止
	}
	defer logger.Sync() // ロガーのクリーンアップ

	config, err := database.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
	}
	database.WarnDefaultSecret(config, logger)
	auth.SetSecret(config.JwtSecret)

	// 非同期でPostgreSQLとRedisの初期化。ホストが未設定なら無効のまま起動する
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		defer func() { done <- true }()
		if config.DBHost == "" {
			logger.Info("DB_HOSTが未設定のため対戦結果は保存されません")
			return
		}
		conn, err := database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("PostgreSQLの初期化に失敗しました", zap.Error(err))
		}
		if err := database.AutoMigrate(conn); err != nil {
			logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
		}
		db = conn
	}()

	go func() {
		defer func() { done <- true }()
		if config.RedisAddr == "" {
			logger.Info("REDIS_ADDR is empty, session resume disabled")
			return
		}
		client, err := database.InitRedis(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		rdb = client
	}()

	// 2つの初期化が完了するのを待つ
	<-done
	<-done

	// 終了したゲームはPostgreSQLに記録する
	var onFinish registry.FinishFunc
	if db != nil {
		onFinish = func(finished registry.Finished) {
			if err := pebblesdb.RecordResult(db, finished, logger); err != nil {
				logger.Error("対戦結果の保存に失敗しました", zap.String("gameID", finished.GameID), zap.Error(err))
			}
		}
	}
	games := registry.New(onFinish, logger)

	// クーロンスケジューラのセットアップと呼び出し
	scheduler := utils.CronCleaner(games, db, config, logger)
	defer scheduler.Stop()

	upgrader := pebbles.NewUpgrader(config.AllowOrigins)

	router := gin.New()
	//リクエストロガーを起動
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	//CORS（Cross-Origin Resource Sharing）ポリシーを設定
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "SessionID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	//各HTTPリクエストのルーティング
	router.POST("/token", func(c *gin.Context) {
		handlers.TokenHandler(c, logger)
	})

	authorized := router.Group("/", middlewares.AuthMiddleware(logger))
	authorized.POST("/games", func(c *gin.Context) {
		handlers.CreateGame(c, games, logger)
	})
	authorized.GET("/games/:id", func(c *gin.Context) {
		handlers.GameState(c, games)
	})
	authorized.POST("/games/:id/actions", func(c *gin.Context) {
		handlers.GameAction(c, games, logger)
	})
	authorized.DELETE("/games/:id", func(c *gin.Context) {
		handlers.DeleteGame(c, games, logger)
	})
	authorized.GET("/results", func(c *gin.Context) {
		handlers.ResultsHandler(c, db, logger)
	})

	// WebSocketはハンドシェイク内でトークンを検証する
	router.GET("/ws", func(c *gin.Context) {
		pebbles.HandleConnections(c.Request.Context(), c.Writer, c.Request, games, rdb, logger, upgrader)
	})

	logger.Info("Server starting", zap.String("addr", config.ServerAddr))
	if err := router.Run(config.ServerAddr); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
