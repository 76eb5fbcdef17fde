// cmd/launchpad/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solaunch/launchpad/internal/api"
	"github.com/solaunch/launchpad/internal/collab/local"
	"github.com/solaunch/launchpad/internal/config"
	"github.com/solaunch/launchpad/internal/engine"
	"github.com/solaunch/launchpad/internal/logger"
	"github.com/solaunch/launchpad/internal/migration"
	"github.com/solaunch/launchpad/internal/registry"
	"github.com/solaunch/launchpad/internal/storage"
	"github.com/solaunch/launchpad/internal/storage/memory"
	"github.com/solaunch/launchpad/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	log.Info("Starting launchpad",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("postgres", cfg.PostgresURL != ""))

	var store storage.Store
	if cfg.PostgresURL != "" {
		store, err = postgres.NewStore(cfg.PostgresURL, log.Logger)
		if err != nil {
			log.Fatal("Failed to connect to postgres", zap.Error(err))
		}
		if err := store.RunMigrations(); err != nil {
			log.Fatal("Failed to run schema migrations", zap.Error(err))
		}
	} else {
		log.Warn("No postgres_url configured, using in-memory storage")
		store = memory.New()
	}

	reg := registry.New(log.Logger)
	platformWallet := cfg.PlatformWalletKey()

	eng := engine.New(engine.Params{
		Registry:       reg,
		Minter:         local.NewMinter(log.Logger),
		AMMFactory:     local.NewAMMFactory(log.Logger),
		ACL:            local.NewACL(platformWallet, reg.Creator, log.Logger),
		Payout:         local.NewPayout(log.Logger),
		Store:          store,
		PlatformWallet: platformWallet,
		Migration: migration.Options{
			MaxTries:   cfg.MigrateMaxTries,
			RetryDelay: time.Duration(cfg.MigrateRetryDelay) * time.Millisecond,
		},
		Logger: log.Logger,
	})

	handlers := api.NewHandlers(eng, store, log.Logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.SetupRouter(handlers, log.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Shutdown complete")
}
