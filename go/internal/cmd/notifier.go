package main

import (
	"context"

	"github.com/GonzaloH5/league-bot/go/internal/config"
	"github.com/GonzaloH5/league-bot/go/internal/notify"
	"github.com/rs/zerolog/log"
)

// setupNotifier picks the notification sink from config
func setupNotifier(ctx context.Context, cfg *config.Config) (notify.Notifier, func(), error) {
	if cfg.Notifications.Driver != "jetstream" {
		log.Info().Msg("notifications go to the log")
		return notify.NewLogNotifier(), func() {}, nil
	}

	jsCfg := notify.DefaultJetStreamConfig()
	if cfg.Notifications.NATSURL != "" {
		jsCfg.URL = cfg.Notifications.NATSURL
	}
	if cfg.Notifications.StreamName != "" {
		jsCfg.StreamName = cfg.Notifications.StreamName
	}
	if cfg.Notifications.SubjectPrefix != "" {
		jsCfg.SubjectPrefix = cfg.Notifications.SubjectPrefix
	}

	notifier, err := notify.NewJetStreamNotifier(ctx, jsCfg)
	if err != nil {
		return nil, nil, err
	}
	return notifier, func() {
		if err := notifier.Close(); err != nil {
			log.Error().Err(err).Msg("close notifier")
		}
	}, nil
}
