package tenantstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/rs/zerolog/log"
)

var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// BanChecker is the global ban list consulted before any tenant store is used
type BanChecker interface {
	IsBanned(ctx context.Context, tenant models.TenantID) (bool, error)
}

// Manager owns the open tenant stores, keyed by tenant id
type Manager struct {
	dataDir string
	bans    BanChecker

	mu     sync.Mutex
	stores map[models.TenantID]*Store
}

// NewManager creates a Manager storing tenant databases under dataDir
func NewManager(dataDir string, bans BanChecker) *Manager {
	return &Manager{
		dataDir: dataDir,
		bans:    bans,
		stores:  make(map[models.TenantID]*Store),
	}
}

// ValidateTenantID checks that tenant can safely name a store
func ValidateTenantID(tenant models.TenantID) error {
	if !tenantIDPattern.MatchString(string(tenant)) {
		return leagueerr.ErrInvalidTenant.WithMessage("invalid tenant id %q", tenant)
	}
	return nil
}

// Get returns the store of tenant, opening it on first use.
// Banned tenants are refused on every call.
func (m *Manager) Get(ctx context.Context, tenant models.TenantID) (*Store, error) {
	if err := ValidateTenantID(tenant); err != nil {
		return nil, err
	}

	if m.bans != nil {
		banned, err := m.bans.IsBanned(ctx, tenant)
		if err != nil {
			log.Error().Err(err).Str("tenant_id", string(tenant)).Msg("failed to check tenant ban list")
			return nil, leagueerr.Persistence(err)
		}
		if banned {
			return nil, leagueerr.ErrTenantBanned
		}
	}

	m.mu.Lock()
	store, ok := m.stores[tenant]
	m.mu.Unlock()
	if ok {
		return store, nil
	}

	opened, err := Open(ctx, m.dataDir, tenant)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", string(tenant)).Msg("failed to open tenant store")
		return nil, leagueerr.Persistence(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.stores[tenant]; ok {
		_ = opened.Close()
		return existing, nil
	}
	m.stores[tenant] = opened
	log.Info().Str("tenant_id", string(tenant)).Msg("Opened tenant store")
	return opened, nil
}

// Evict closes and forgets the store of tenant, if open
func (m *Manager) Evict(tenant models.TenantID) error {
	m.mu.Lock()
	store, ok := m.stores[tenant]
	delete(m.stores, tenant)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("failed to close tenant store %s: %w", tenant, err)
	}
	return nil
}

// Close closes every open store
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for tenant, store := range m.stores {
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close tenant store %s: %w", tenant, err))
		}
		delete(m.stores, tenant)
	}
	return errors.Join(errs...)
}
