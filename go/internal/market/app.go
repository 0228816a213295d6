package market

import (
	"context"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/roster"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/rs/zerolog/log"
)

// StoreProvider resolves the store of a tenant
type StoreProvider interface {
	Get(ctx context.Context, tenant models.TenantID) (*tenantstore.Store, error)
}

// App switches the per-tenant market gate
type App struct {
	stores StoreProvider
}

// NewApp creates a new market App
func NewApp(stores StoreProvider) *App {
	return &App{stores: stores}
}

// Open opens the market of tenant. Existing offers are untouched.
func (a *App) Open(ctx context.Context, tenant models.TenantID, actor models.Actor) error {
	return a.toggle(ctx, tenant, actor, true)
}

// Close closes the market of tenant. Existing offers are untouched.
func (a *App) Close(ctx context.Context, tenant models.TenantID, actor models.Actor) error {
	return a.toggle(ctx, tenant, actor, false)
}

func (a *App) toggle(ctx context.Context, tenant models.TenantID, actor models.Actor, open bool) error {
	if err := roster.RequireAdmin(actor); err != nil {
		return err
	}
	store, err := a.stores.Get(ctx, tenant)
	if err != nil {
		return err
	}
	if err := store.Run(ctx, func(q *tenantstore.Queries) error {
		return set(ctx, q, open)
	}); err != nil {
		return err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("actor_id", string(actor.ID)).
		Bool("open", open).
		Msg("Market gate switched")
	return nil
}

// IsOpen reports whether the market of tenant is open
func (a *App) IsOpen(ctx context.Context, tenant models.TenantID) (bool, error) {
	store, err := a.stores.Get(ctx, tenant)
	if err != nil {
		return false, err
	}
	var open bool
	err = store.Run(ctx, func(q *tenantstore.Queries) error {
		var err error
		open, err = IsOpen(ctx, q)
		return err
	})
	return open, err
}
