package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"betaware/internal/config"
	"betaware/internal/handler"
	"betaware/internal/logger"
	"betaware/internal/middleware"
	"betaware/internal/repository"
	"betaware/internal/repository/memory"
	"betaware/internal/repository/postgres"
	"betaware/internal/service"
	"betaware/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// --- Storage backend ---
	var (
		userRepo repository.UserRepository
		betRepo  repository.BetRepository
		pinger   handler.Pinger
	)
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		dbCfg, err := config.LoadDBConfig()
		if err != nil {
			zlog.Fatal("failed to load DB config", zap.Error(err))
		}
		pool, err := config.ConnectDB(dbCfg, zlog)
		if err != nil {
			zlog.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		if err := config.AutoMigrate(pool); err != nil {
			zlog.Fatal("failed to auto-migrate database", zap.Error(err))
		}
		userRepo = postgres.NewUserRepository(pool)
		betRepo = postgres.NewBetRepository(pool)
		pinger = pool
	case config.BackendMemory:
		userRepo = memory.NewUserRepository()
		betRepo = memory.NewBetRepository()
	}
	zlog.Info("storage backend ready", zap.String("backend", cfg.StorageBackend))

	// --- Token service ---
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTExpHours)
	var verifiers []token.Verifier
	if cfg.AuthProviderURL != "" {
		verifiers = append(verifiers, token.NewProviderVerifier(cfg.AuthProviderURL))
		zlog.Info("external token verification enabled", zap.String("provider", cfg.AuthProviderURL))
	}
	verifiers = append(verifiers, token.NewLocalVerifier(cfg.JWTSecret))
	verifier := token.NewChain(verifiers...)

	// --- Services ---
	authService := service.NewAuthService(userRepo, issuer, zlog)
	betService := service.NewBetService(betRepo, zlog)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, zlog)
	betHandler := handler.NewBetHandler(betService, zlog)
	healthHandler := handler.NewHealthHandler(pinger)

	// --- Setup Gin Router ---
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())

	// Simple CORS middleware (allow all for development)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	authMW := middleware.AuthMiddleware(verifier)
	adminMW := middleware.AdminMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup, authMW, adminMW)
	betHandler.RegisterBetRoutes(apiGroup, authMW, adminMW)
	healthHandler.RegisterHealthRoutes(router)

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exiting")
}
