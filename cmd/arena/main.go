package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"apiservices/docs"
	"apiservices/internal/auth"
	"apiservices/internal/cache"
	"apiservices/internal/config"
	"apiservices/internal/db"
	"apiservices/internal/handler"
	"apiservices/internal/logging"
	"apiservices/internal/metrics"
	"apiservices/internal/model"
	"apiservices/internal/repository"
	"apiservices/internal/router"
	"apiservices/internal/server"
	"apiservices/internal/service"
)

// @title Snake Arena API
// @version 1.0
// @description Snake Arena leaderboard, auth and live game sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("arena server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, model.ArenaTables()...); err != nil {
		return err
	}
	logger.Info("database ready", slog.String("driver", cfg.DBDriver))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, service.ArenaCachePrefix)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, serving without cache", slog.String("error", err.Error()))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(reg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	leaderboardRepo := repository.NewLeaderboardRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, service.AuthOptions{
		MeMode:    cfg.MeMode,
		MockEmail: cfg.MockEmail,
	}, recorder, logger)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, cacheClient, cfg.CacheTTL, recorder, logger)
	sessionService := service.NewSessionService(sessionRepo, cacheClient, cfg.CacheTTL, recorder)
	seeder := service.NewSampleSeeder(userRepo, leaderboardRepo, sessionRepo, hasher, cacheClient, logger)

	if cfg.SeedData {
		if _, err := seeder.SeedSample(ctx); err != nil {
			return err
		}
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HidePort = true
	router.Setup(e, cfg, logger, recorder, reg)
	router.RegisterArena(e, cfg, jwtService, router.ArenaHandlers{
		Auth:        handler.NewAuthHandler(authService),
		Leaderboard: handler.NewLeaderboardHandler(leaderboardService),
		Session:     handler.NewSessionHandler(sessionService),
		Seed:        handler.NewSeedHandler(seeder),
	})

	logger.Info("swagger documentation available", slog.String("path", "/swagger/index.html"))
	return server.Run(ctx, e, ":"+cfg.ServerPort, logger)
}
