package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/services"
	httphandlers "github.com/IgorPchelyakov/streamflow-backend/internal/handlers/http"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/chatws"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/eventbus"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/middleware"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/monitoring"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/repositories"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/storage"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/config"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/logger"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/tracing"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const streamListCacheTTL = 10 * time.Second

func main() {
	startTime := time.Now()

	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/streamflow/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		// Fallback to defaults if config cannot be loaded
		cfg = config.DefaultConfig()
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	// Tracing
	if cfg.Tracing.Enabled {
		tracerProvider, err := tracing.Init(tracing.Config{
			ServiceName: "streamflow-api",
			JaegerURL:   cfg.Tracing.JaegerURL,
			SampleRate:  cfg.Tracing.SampleRate,
			Enabled:     true,
		})
		if err != nil {
			log.Warnw("failed to initialize tracing", "error", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracerProvider.Shutdown(ctx); err != nil {
					log.Errorw("error shutting down tracer provider", "error", err)
				}
			}()
		}
	}

	// Repositories
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	userRepo := repoFactory.CreateUserRepository()
	streamRepo := repoFactory.CreateStreamRepository()
	messageRepo := repoFactory.CreateChatMessageRepository()

	// Upload storage
	fileStorage, err := storage.NewLocalFileStorage(cfg.Storage.RootDir, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatalw("failed to initialize file storage", "error", err)
	}

	// Chat fan-out: redis bus across instances, in-process bus otherwise
	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()

	hub := chatws.NewHub(log)

	var publisher ports.ChatEventPublisher
	if cfg.Redis.Enabled {
		redisClient, err := eventbus.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()

		bus := eventbus.NewRedisChatBus(redisClient, utils.NewRequestID(), log)
		defer bus.Close()
		go func() {
			if err := bus.Subscribe(busCtx, hub.Broadcast); err != nil && busCtx.Err() == nil {
				log.Errorw("chat event subscription stopped", "error", err)
			}
		}()
		publisher = eventbus.NewBreakerPublisher(bus, log)
		log.Info("using redis chat event bus")
	} else {
		bus := eventbus.NewMemoryChatBus()
		go func() {
			_ = bus.Subscribe(busCtx, hub.Broadcast)
		}()
		publisher = bus
		log.Info("using in-process chat event bus")
	}

	// Services
	identityService := services.NewIdentityService(userRepo)
	tokenService := services.NewTokenService(identityService, userRepo, services.TokenConfig{
		APIKey:    cfg.Media.APIKey,
		APISecret: cfg.Media.APISecret,
		TTL:       cfg.Media.TokenTTL,
	})
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	accountService := services.NewAccountService(userRepo, streamRepo)
	profileService := services.NewProfileService(userRepo, fileStorage)

	streamService := services.NewCachedStreamService(
		services.NewStreamService(streamRepo, fileStorage),
		streamListCacheTTL,
	)
	defer streamService.Stop()

	// Chat settings writes bypass the cached stream service, so it is
	// handed in as the invalidator.
	chatService := services.NewChatService(streamRepo, messageRepo, userRepo, publisher, streamService, log)

	// Monitoring
	prometheusCollector := monitoring.NewPrometheusCollector()
	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddCheck("database", repoFactory.HealthCheck, 2*time.Second)

	// HTTP handlers
	accountHandler := httphandlers.NewAccountHandler(accountService, authService, prometheusCollector, cfg.Auth.AccessTokenTTL)
	profileHandler := httphandlers.NewProfileHandler(profileService, authService)
	streamHandler := httphandlers.NewStreamHandler(streamService, tokenService, authService, prometheusCollector)
	chatHandler := httphandlers.NewChatHandler(chatService, authService, hub, prometheusCollector, cfg.Chat.MaxMessageLength)

	// Router
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}

	accountHandler.SetupRoutes(router)
	profileHandler.SetupRoutes(router)
	streamHandler.SetupRoutes(router)
	chatHandler.SetupRoutes(router)

	// Uploaded thumbnails and avatars
	router.Static(cfg.Storage.BaseURL, cfg.Storage.RootDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).String(),
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		status := healthChecker.CheckAll(c.Request.Context())
		code := http.StatusOK
		if status.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})

	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting StreamFlow API server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down StreamFlow API server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	log.Info("StreamFlow API server stopped")
}
