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

	"cherdak-bot/internal/bot"
	"cherdak-bot/internal/catalog"
	"cherdak-bot/internal/config"
	"cherdak-bot/internal/dialog"
	"cherdak-bot/internal/metrics"
	"cherdak-bot/internal/session"
	"cherdak-bot/internal/storage"
	"cherdak-bot/pkg/logger"
	"cherdak-bot/pkg/redis"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// catalogStorage is what main needs from a storage driver beyond catalog.Store.
type catalogStorage interface {
	catalog.Store
	SeedAdmins(ctx context.Context, ids []int64) error
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	store, err := openStorage(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init catalog storage", zap.Error(err))
	}
	defer store.Close()

	if err := store.SeedAdmins(ctx, cfg.AdminIDs); err != nil {
		zapLogger.Fatal("Failed to seed admins", zap.Error(err))
	}

	sessions, closeSessions, err := openSessions(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init session storage", zap.Error(err))
	}
	defer closeSessions()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	catalogStore := metrics.InstrumentStore(storage.WithTimeout(store, cfg.StoreTimeout), m)
	machine := dialog.NewMachine(catalogStore, zapLogger, cfg.LocationURL)

	tgBot, err := bot.New(bot.Options{
		Token:    cfg.TelegramToken,
		Debug:    cfg.TelegramDebug,
		Workers:  cfg.Workers,
		SendRate: cfg.SendRate,
	}, machine, sessions, m, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return tgBot.Start(gctx)
	})

	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, registry)
		g.Go(func() error {
			zapLogger.Info("Metrics server listening", zap.String("addr", cfg.MetricsAddr))
			if err := srv.Run(gctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (catalogStorage, error) {
	if cfg.StorageDriver == config.DriverMemory {
		logger.Warn("Using in-memory catalog storage, data is lost on restart")
		return storage.NewMemoryStorage(), nil
	}

	pg, err := storage.NewPostgresStorage(ctx, storage.Config{
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		DBName:          cfg.DBName,
		SSLMode:         cfg.DBSSLMode,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnectTimeout:  cfg.DBConnectTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return pg, nil
}

func openSessions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	if cfg.SessionDriver == config.DriverMemory {
		return session.NewMemory(), func() {}, nil
	}

	client := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = cfg.DBConnectTimeout

	err := backoff.RetryNotify(
		func() error { return client.Ping(ctx) },
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("Redis connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("Successfully connected to Redis", zap.String("addr", cfg.RedisAddr))
	return session.NewRedis(client), client.Close, nil
}
