package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/GonzaloH5/league-bot/go/internal/config"
	"github.com/GonzaloH5/league-bot/go/internal/tenants"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.Load(getEnv("CONFIG_PATH", config.DefaultPath))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// configure zerolog console output and level
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	zerolog.SetGlobalLevel(cfg.Level())

	// signal-aware context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := setupRegistry(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open tenant registry")
	}
	defer registry.Close()

	stores := tenantstore.NewManager(cfg.Storage.DataDir, registry)
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error().Err(err).Msg("close tenant stores")
		}
	}()

	notifier, closeNotifier, err := setupNotifier(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create notifier")
	}
	defer closeNotifier()

	services := setupServices(registry, stores, notifier, cfg.OperatorIDs(), clockwork.NewRealClock())
	server := setupServer(cfg, services)

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting league engine")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.Registry.Driver == "postgres" && cfg.Registry.Listen {
		lcfg := tenants.DefaultListenerConfig()
		lcfg.DatabaseURL = cfg.Registry.DSN
		listener, err := tenants.NewBanListener(registry, stores, lcfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create ban listener")
		}
		go func() {
			errCh <- listener.Start(ctx)
		}()
	}

	// wait for shutdown or error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("engine exited unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("graceful shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
