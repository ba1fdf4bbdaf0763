package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"arguely/internal/ai"
	"arguely/internal/api"
	"arguely/internal/config"
	"arguely/internal/crypto"
	"arguely/internal/middleware"
	"arguely/internal/models"
	"arguely/internal/repository"
	"arguely/internal/service"
	"arguely/internal/storage"
	"arguely/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	utils.SetJWTSecret(cfg.JWT.Secret)

	cipher, err := crypto.NewCipher(cfg.Encryption.Key)
	if err != nil {
		logger.Fatal("Failed to initialize cipher", zap.Error(err))
	}

	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.User{}, &models.Round{}, &models.Participant{}, &models.Argument{}); err != nil {
		logger.Fatal("Failed to auto migrate database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second, logger)

	aiClient := ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.SmartModel, cfg.AI.FastModel, logger)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, aiClient, cipher, logger)

	r := gin.Default()
	api.SetupRoutes(r, services, limiter, logger)

	logger.Info("starting server", zap.String("address", cfg.Server.Address))
	if err := r.Run(cfg.Server.Address); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
