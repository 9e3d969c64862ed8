package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"craftfolio/config"
	httpadapter "craftfolio/internal/adapter/http"
	repo "craftfolio/internal/adapter/repository"
	"craftfolio/internal/infrastructure/migration"
	"craftfolio/internal/usecase"
	"craftfolio/pkg/ai"
	"craftfolio/pkg/catalog"
	infra "craftfolio/pkg/infrastructure"
	"craftfolio/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4/pgxpool"
)

func main() {
	if err := run(); err != nil {
		logger.Log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// run owns every resource so its defers execute before main exits.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	ctx := context.Background()

	model, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTemperature)
	if err != nil {
		return fmt.Errorf("create model client: %w", err)
	}

	// persistence is optional, without it the API still edits documents
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = infra.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Log.Warn("portfolio database not available", "error", err)
			pool = nil
		} else {
			defer pool.Close()
			if cfg.RunMigrations {
				if err := migration.RunMigrations(ctx, pool); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}
			}
		}
	}

	var (
		portfolios usecase.PortfolioRepo
		turns      usecase.ChatTurnRepo
	)
	if pool != nil {
		portfolios = repo.NewPortfolioRepo(pool)
		turns = repo.NewChatTurnRepo(pool)
	}

	renderer := infra.NewChromedpRenderer(cfg.ChromePath)
	processor := usecase.NewProcessor(model, catalog.Default(), cfg.MemoryWindow, portfolios, turns, renderer)

	app := fiber.New(fiber.Config{
		AppName:      "craftfolio",
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: httpadapter.ErrorHandler,
	})
	httpadapter.Use(app)
	httpadapter.NewHandler(processor).Register(app)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server starting", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	logger.Log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Log.Error("server forced to shutdown", "error", err)
	}
	logger.Log.Info("server exited")
	return nil
}
