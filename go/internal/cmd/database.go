package main

import (
	"context"
	"fmt"

	"github.com/GonzaloH5/league-bot/go/internal/config"
	"github.com/GonzaloH5/league-bot/go/internal/tenants"
	"github.com/rs/zerolog/log"
)

func setupRegistry(ctx context.Context, cfg *config.Config) (tenants.Registry, error) {
	registry, err := tenants.Open(ctx, cfg.Registry.Driver, cfg.Registry.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s registry: %w", cfg.Registry.Driver, err)
	}

	log.Info().
		Str("driver", cfg.Registry.Driver).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("tenant registry ready")
	return registry, nil
}
