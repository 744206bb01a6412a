package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"concord-backend/internal/chat"
	"concord-backend/internal/database"
	"concord-backend/internal/handlers"
	"concord-backend/internal/hub"
	"concord-backend/internal/jwt"
	"concord-backend/internal/keyValue"
	"concord-backend/internal/models"
	"concord-backend/internal/snowflake"
	"concord-backend/internal/store"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func setupLogger(cfg *models.ConfigFile) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()

	if cfg.LogToFile {
		config.OutputPaths = []string{"app.log", "stdout"}
	} else {
		config.OutputPaths = []string{"stdout"}
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	config.Level = level

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

func readConfigFile() (*models.ConfigFile, error) {
	configFile, err := os.Open("config.json")
	if err != nil {
		return nil, err
	}
	defer configFile.Close()

	bytes, err := io.ReadAll(configFile)
	if err != nil {
		return nil, err
	}

	var cfg models.ConfigFile
	if err := json.Unmarshal(bytes, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupRedis(cfg *models.ConfigFile) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

func main() {
	fmt.Println("Reading config file...")
	cfg, err := readConfigFile()
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Setting up logger...")
	sugar, err := setupLogger(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer sugar.Sync()

	fmt.Println("Connecting to database...")
	db, err := database.Setup(cfg)
	if err != nil {
		sugar.Fatal(err)
	}

	var redisClient *redis.Client
	if !cfg.SelfContained {
		fmt.Println("Connecting to redis...")
		redisClient, err = setupRedis(cfg)
		if err != nil {
			sugar.Fatal(err)
		}
	}

	if err := snowflake.Setup(cfg.SnowflakeWorkerID); err != nil {
		sugar.Fatal(err)
	}

	isHttps := cfg.TlsCert != "" && cfg.TlsKey != ""

	keyValue.Setup(sugar, redisClient, cfg.SelfContained)
	hub.Setup(sugar, redisClient, cfg.SelfContained)
	jwt.Setup(cfg.JwtSecret, isHttps)
	store.Setup(sugar, db)

	chatService := chat.NewService(sugar, hub.Notifier{})

	var httpProtocol string
	if isHttps {
		httpProtocol = "https"
	} else {
		httpProtocol = "http"
	}

	fmt.Printf("Server is running on %s://%s:%s\n", httpProtocol, cfg.Address, cfg.Port)

	if err := handlers.Setup(isHttps, cfg, sugar, db, chatService); err != nil {
		sugar.Fatal(err)
	}
}
