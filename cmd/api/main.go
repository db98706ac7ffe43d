package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizsetup-api/internal/config"
	"github.com/yourusername/quizsetup-api/internal/handler"
	"github.com/yourusername/quizsetup-api/internal/middleware"
	"github.com/yourusername/quizsetup-api/internal/repository/backendapi"
	redisRepo "github.com/yourusername/quizsetup-api/internal/repository/redis"
	"github.com/yourusername/quizsetup-api/internal/service"
	"github.com/yourusername/quizsetup-api/pkg/auth"
	"github.com/yourusername/quizsetup-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	draftRepo, err := redisRepo.NewDraftRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize DraftRepo: %v", err)
		os.Exit(1)
	}

	backendClient, err := backendapi.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.TimeoutSec)*time.Second)
	if err != nil {
		log.Printf("Failed to initialize backend client: %v", err)
		os.Exit(1)
	}

	tokenService, err := auth.NewTokenService(cfg.Auth.TokenSecret, time.Duration(cfg.Auth.TokenLifetimeHrs)*time.Hour)
	if err != nil {
		log.Printf("Failed to initialize TokenService: %v", err)
		os.Exit(1)
	}

	authService, err := service.NewAuthService(tokenService, draftRepo, cfg.Auth.GoogleClientID, cfg.Auth.LandingPath)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	configuratorService := service.NewConfiguratorService(draftRepo, draftRepo, backendClient)

	authHandler := handler.NewAuthHandler(authService)
	draftHandler := handler.NewDraftHandler(configuratorService)
	historyHandler := handler.NewHistoryHandler(configuratorService)
	sessionMiddleware := middleware.NewSessionMiddleware(tokenService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := gin.Mode() == gin.ReleaseMode

	router := gin.Default()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()))
		{
			loginLimit := rateLimiter.Limit(middleware.StrictLoginRateLimitConfig())

			authGroup.GET("/config", authHandler.AuthConfig)
			authGroup.POST("/google", loginLimit, authHandler.GoogleLogin)
			authGroup.POST("/guest", loginLimit, authHandler.GuestLogin)
		}

		categories := api.Group("/categories")
		categories.Use(sessionMiddleware.RequireSession())
		{
			categories.POST("/:id/drafts", draftHandler.CreateDraft)
			categories.GET("/:id/history", historyHandler.ListHistory)
			categories.GET("/:id/history/export", historyHandler.ExportHistory)
		}

		drafts := api.Group("/drafts")
		drafts.Use(sessionMiddleware.RequireSession())
		{
			drafts.GET("/:id", draftHandler.GetDraft)
			drafts.PATCH("/:id", draftHandler.UpdateField)
			drafts.POST("/:id/submit", draftHandler.SubmitDraft)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing redis client: %v", err)
	}
	log.Println("Server exited")
}
