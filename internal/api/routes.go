package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"arguely/internal/api/handlers"
	"arguely/internal/middleware"
	"arguely/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, limiter *middleware.RateLimiter, logger *zap.Logger) {
	authHandler := handlers.NewAuthHandler(services.User)
	roundHandler := handlers.NewRoundHandler(services.Round, services.User, services.Feed)
	argumentHandler := handlers.NewArgumentHandler(services.Argument)
	chatHandler := handlers.NewChatHandler(services.Round, services.Argument, services.Opponent, logger)
	statsHandler := handlers.NewStatsHandler(services.Round)
	wsHandler := handlers.NewWebSocketHandler(services.Feed, services.Round)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	api := r.Group("/api")
	api.Use(limiter.Middleware())

	// public routes
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)

		api.GET("/stats", statsHandler.GetStats)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	// authorized routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/profile", authHandler.Profile)

		rounds := authorized.Group("/rounds")
		{
			rounds.POST("", roundHandler.CreateRound)
			rounds.GET("/open", roundHandler.ListOpenRounds)
			rounds.GET("/:id", roundHandler.GetRound)
			rounds.GET("/:id/status", roundHandler.CheckStatus)
			rounds.POST("/:id/join", roundHandler.JoinRound)
			rounds.POST("/:id/arguments", argumentHandler.SubmitArgument)
			rounds.POST("/:id/chat", chatHandler.Stream)
			rounds.POST("/:id/judge", roundHandler.EndAndJudge)

			rounds.GET("/:id/ws", wsHandler.HandleWebSocket)
		}

		authorized.POST("/arguments/:id/analysis", argumentHandler.TriggerAnalysis)
	}
}
