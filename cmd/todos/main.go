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

// @title TODO API
// @version 1.0
// @description TODO tracker with resolve/reopen transitions and overdue listing.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("todo server stopped", slog.String("error", err.Error()))
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
	if err := db.Migrate(gormDB, cfg.ResetDB, model.TodoTables()...); err != nil {
		return err
	}
	logger.Info("database ready", slog.String("driver", cfg.DBDriver))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(reg)

	todoService := service.NewTodoService(repository.NewTodoRepository(gormDB), recorder)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HidePort = true
	router.Setup(e, cfg, logger, recorder, reg)
	router.RegisterTodos(e, cfg, handler.NewTodoHandler(todoService))

	return server.Run(ctx, e, ":"+cfg.ServerPort, logger)
}
