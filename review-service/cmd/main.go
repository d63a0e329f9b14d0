package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/paper-review-chat/pkg/database"
	"github.com/weiawesome/paper-review-chat/pkg/idgen"
	"github.com/weiawesome/paper-review-chat/pkg/jwt"
	"github.com/weiawesome/paper-review-chat/pkg/log"
	"github.com/weiawesome/paper-review-chat/pkg/metrics"
	"github.com/weiawesome/paper-review-chat/pkg/middleware"
	"github.com/weiawesome/paper-review-chat/pkg/pubsub"
	"github.com/weiawesome/paper-review-chat/review-service/internal/cache"
	"github.com/weiawesome/paper-review-chat/review-service/internal/config"
	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
	"github.com/weiawesome/paper-review-chat/review-service/internal/handler"
	"github.com/weiawesome/paper-review-chat/review-service/internal/repository"
	"github.com/weiawesome/paper-review-chat/review-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log.Init(log.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "review-service",
	})
	logger := log.L()

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal().Msg("auth.jwt_secret (JWT_SECRET) must be set")
	}

	// Initialize database
	db, err := database.New(cfg.DB())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.PaperChatModel{},
		&domain.PaperChatMessageModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize cache
	var chatCache cache.ChatCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisChatCache(cfg.Redis, cfg.Cache.Prefix)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create redis cache")
		}
		chatCache = redisCache
	} else {
		chatCache = cache.NewNopChatCache(cfg.Cache.Prefix)
	}
	defer chatCache.Close()

	ids, err := idgen.New(cfg.IDs.Strategy)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid id strategy")
	}

	events, err := pubsub.NewPublisher(cfg.PubSub())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create event publisher")
	}
	defer events.Close()

	tokens, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create token manager")
	}

	// Initialize services
	chatService := service.NewChatService(
		repository.NewGormChatRepository(db, ids),
		chatCache,
		cfg.Cache.TTL,
		service.Reviewer{ID: cfg.Chat.DefaultReviewerID, Name: cfg.Chat.DefaultReviewerName},
		events,
	)
	authService := service.NewAuthService(repository.NewGormUserRepository(db, ids), tokens)

	httpHandler := handler.NewHandler(chatService, authService, middleware.NewAuthMiddleware(tokens), cfg.Auth.TokenTTL)

	// Setup Gin router
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(log.GinMiddleware(logger))
	router.Use(metrics.GinMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	httpHandler.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Str("db_driver", cfg.Database.Driver).Bool("cache", cfg.Cache.Enabled).Msg("starting review-service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
