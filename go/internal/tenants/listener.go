package tenants

import (
	"context"
	"fmt"
	"time"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Evicter drops the cached store of a tenant
type Evicter interface {
	Evict(tenant models.TenantID) error
}

type ListenerConfig struct {
	DatabaseURL      string        // Postgres DSN for LISTEN/NOTIFY
	Channel          string        // Channel name to LISTEN on
	FallbackInterval time.Duration // How often to resync the whole ban list
	PingInterval     time.Duration
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		Channel:          BanChannel,
		FallbackInterval: 5 * time.Minute,
		PingInterval:     90 * time.Second,
	}
}

// BanListener evicts tenant stores as soon as another process bans the tenant
type BanListener struct {
	listener *pq.Listener
	registry Registry
	evicter  Evicter
	cfg      ListenerConfig
}

func NewBanListener(registry Registry, evicter Evicter, cfg ListenerConfig) (*BanListener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("ban listener event")
			}
		},
	)
	if err := l.Listen(cfg.Channel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.Channel).
		Msg("listening for tenant bans")

	return &BanListener{
		listener: l,
		registry: registry,
		evicter:  evicter,
		cfg:      cfg,
	}, nil
}

// Start blocks until ctx is done
func (l *BanListener) Start(ctx context.Context) error {
	pingTicker := time.NewTicker(l.cfg.PingInterval)
	fallbackTicker := time.NewTicker(l.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("ban listener shutting down")
			return l.Stop()
		case note := <-l.listener.Notify:
			if note == nil {
				// reconnected, notifications may have been missed
				l.resync(ctx)
				continue
			}
			l.evict(models.TenantID(note.Extra))
		case <-fallbackTicker.C:
			l.resync(ctx)
		case <-pingTicker.C:
			if err := l.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping ban listener")
			}
		}
	}
}

func (l *BanListener) Stop() error {
	return l.listener.Close()
}

func (l *BanListener) evict(tenant models.TenantID) {
	if err := l.evicter.Evict(tenant); err != nil {
		log.Error().Err(err).Str("tenant_id", string(tenant)).Msg("failed to evict banned tenant")
		return
	}
	log.Debug().Str("tenant_id", string(tenant)).Msg("Evicted banned tenant")
}

func (l *BanListener) resync(ctx context.Context) {
	bans, err := l.registry.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to resync tenant bans")
		return
	}
	for _, ban := range bans {
		l.evict(ban.TenantID)
	}
}
