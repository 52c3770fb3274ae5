package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/swiss-tables/config"
	"github.com/Dosada05/swiss-tables/db"
	"github.com/Dosada05/swiss-tables/handlers"
	"github.com/Dosada05/swiss-tables/live"
	"github.com/Dosada05/swiss-tables/pairing"
	"github.com/Dosada05/swiss-tables/repositories"
	api "github.com/Dosada05/swiss-tables/routes"
	"github.com/Dosada05/swiss-tables/services"
	"github.com/Dosada05/swiss-tables/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("store", cfg.StoreBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// WebSocket Hub и, если задан REDIS_URL, ретрансляция событий между инстансами
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := live.NewHub(logger)
	go wsHub.Run(hubCtx)
	logger.Info("WebSocket Hub started")

	var relay live.Relay
	if cfg.RedisURL != "" {
		redisClient, err := live.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		redisRelay := live.NewRedisRelay(redisClient, live.DefaultChannel, wsHub, logger)
		if err := redisRelay.Start(hubCtx); err != nil {
			return err
		}
		relay = redisRelay
	}
	events := live.NewPublisher(wsHub, relay, logger)

	// Выгрузка таблицы в R2 включается только при полной конфигурации
	var uploader storage.FileUploader
	r2cfg := storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2cfg.Enabled() {
		uploader, err = storage.NewR2Uploader(ctx, r2cfg)
		if err != nil {
			return fmt.Errorf("initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("standings export disabled: R2 is not configured")
	}

	// Инициализация сервисов
	gate := services.NewAccessGate()
	authService := services.NewAuthService(store, services.AuthConfig{
		Secret:            []byte(cfg.JWTSecretKey),
		TTL:               cfg.JWTTTL,
		AdminName:         cfg.AdminName,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})
	participantService := services.NewParticipantService(store, gate, cfg.AdminName, events, logger)
	roundService := services.NewRoundService(store, pairing.NewSwissGenerator(), gate, events, logger)
	matchService := services.NewMatchService(store, gate, events, logger)
	pairingEditor := services.NewPairingEditor(store, gate, events, logger)
	standingsService := services.NewStandingsService(store, gate)
	exportService := services.NewExportService(standingsService, store, uploader, gate, logger)
	logger.Info("Services initialized")

	if uploader != nil && cfg.ExportInterval > 0 {
		stopExport, err := exportService.StartSchedule(cfg.ExportInterval)
		if err != nil {
			return fmt.Errorf("start export schedule: %w", err)
		}
		defer func() {
			if err := stopExport(); err != nil {
				logger.Error("failed to stop export scheduler", slog.Any("error", err))
			}
		}()
		logger.Info("standings export scheduled", slog.Duration("interval", cfg.ExportInterval))
	}

	// Инициализация обработчиков HTTP
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			TokenParser:    authService,
		},
		handlers.NewAuthHandler(authService),
		handlers.NewParticipantHandler(participantService),
		handlers.NewRoundHandler(roundService),
		handlers.NewMatchHandler(matchService),
		handlers.NewSwapHandler(pairingEditor),
		handlers.NewStandingsHandler(standingsService, exportService),
		handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		// закрываем websocket-клиентов до ожидания HTTP-запросов
		stopHub()
		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}
	return nil
}

// openStore returns the configured Entity Store and a func releasing it.
func openStore(cfg *config.Config, logger *slog.Logger) (repositories.Store, func(), error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return repositories.NewMemoryStore(), func() {}, nil
	}

	if cfg.AutoMigrate {
		applied, err := db.MigrateUp(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("database migrations checked", slog.Bool("applied", applied))
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	closeFn := func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}
	return repositories.NewPostgresStore(dbConn), closeFn, nil
}
