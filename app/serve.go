package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"repair-tracker/internal/listeners"
	"repair-tracker/internal/repositories"
	"repair-tracker/internal/routes"
	"repair-tracker/internal/services"
	"repair-tracker/pkg/database/migrations"
	"repair-tracker/pkg/database/postgresql"
	"repair-tracker/pkg/eventbus"
	"repair-tracker/pkg/mailer"
	"repair-tracker/pkg/metrics"
	"repair-tracker/pkg/middleware"
	"repair-tracker/pkg/spreadsheet"
	"repair-tracker/pkg/trackingcode"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations before serving")

	return cmd
}

func runServe(autoMigrate bool) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server",
		zap.String("environment", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.Bool("auto-migrate", autoMigrate),
	)

	// 1. БД
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if autoMigrate {
		if err := migrations.Up(ctx, dbConn); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	generator, err := trackingcode.New(cfg.Tracking.Mode)
	if err != nil {
		return err
	}

	// 2. Кэш (необязателен)
	var (
		cacheRepo      repositories.CacheRepositoryInterface
		rateLimitStore echomw.RateLimiterStore
	)
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer redisClient.Close()

		cacheRepo = repositories.NewRedisCacheRepository(redisClient)
		if err := cacheRepo.Ping(ctx); err != nil {
			logger.Warn("Redis is not reachable, rate limiting fails open until it is", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		rateLimitStore = middleware.NewCounterStore(cacheRepo, cfg.Security.RateLimitPerMinute, time.Minute, logger)
	} else {
		logger.Warn("REDIS_ADDRESS is not set, rate limit is kept in process memory")
	}

	// 3. Метрики и шина событий
	appMetrics := metrics.New(cfg.App.Name)
	bus := eventbus.New(logger)

	notificationService := services.NewNotificationService(mailer.New(cfg.Mail, logger), cfg.Admin.Email, cfg.Server.BaseURL)
	listeners.NewNotificationListener(notificationService, appMetrics, logger).Register(bus)

	if cfg.Sheets.Enabled() {
		workbook := spreadsheet.NewWorkbook(cfg.Sheets.Path, cfg.Sheets.Sheet, services.QuoteSheetHeaders)
		listeners.NewSheetListener(workbook, appMetrics, logger).Register(bus)
	} else {
		logger.Warn("SPREADSHEET_PATH is not set, quotes will not be mirrored")
	}

	// 4. Роуты
	deps := routes.Dependencies{
		Config:         cfg,
		TxManager:      repositories.NewTxManager(dbConn),
		QuoteRepo:      repositories.NewQuoteRepository(dbConn, logger),
		StatusRepo:     repositories.NewStatusEntryRepository(dbConn),
		Generator:      generator,
		Publisher:      bus,
		Metrics:        appMetrics,
		RateLimitStore: rateLimitStore,
		DB:             dbConn,
		Logger:         logger,
	}
	if cacheRepo != nil {
		deps.Cache = cacheRepo
	}

	e := echo.New()
	e.HidePort = true
	routes.InitRouter(e, deps)

	// 5. Запуск
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	// письма и запись в таблицу, начатые до остановки
	listenerCtx, cancelListeners := context.WithTimeout(context.Background(), eventbus.DefaultListenerTimeout)
	defer cancelListeners()
	if err := bus.Wait(listenerCtx); err != nil {
		logger.Warn("event listeners did not finish in time", zap.Error(err))
	}

	logger.Info("server exited gracefully")
	return nil
}
