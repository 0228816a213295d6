package tenants

import (
	"context"
	"strings"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// App manages the global ban list on behalf of platform operators
type App struct {
	registry  Registry
	evicter   Evicter
	operators map[models.ActorID]struct{}
	clock     clockwork.Clock
}

// NewApp creates a new tenants App. Only actors listed in operators may ban or unban.
func NewApp(registry Registry, evicter Evicter, operators []models.ActorID, clock clockwork.Clock) *App {
	ops := make(map[models.ActorID]struct{}, len(operators))
	for _, op := range operators {
		ops[op] = struct{}{}
	}
	return &App{
		registry:  registry,
		evicter:   evicter,
		operators: ops,
		clock:     clock,
	}
}

func (a *App) requireOperator(actor models.Actor) error {
	if _, ok := a.operators[actor.ID]; !ok {
		return leagueerr.ErrUnauthorized.WithMessage("only platform operators can manage tenant bans")
	}
	return nil
}

// Ban adds tenant to the ban list and drops its open store
func (a *App) Ban(ctx context.Context, actor models.Actor, tenant models.TenantID, reason string) (*models.TenantBan, error) {
	if err := a.requireOperator(actor); err != nil {
		return nil, err
	}
	if err := tenantstore.ValidateTenantID(tenant); err != nil {
		return nil, err
	}

	ban := models.TenantBan{
		TenantID: tenant,
		Reason:   strings.TrimSpace(reason),
		BannedAt: a.clock.Now().UTC(),
	}
	if err := a.registry.Ban(ctx, ban); err != nil {
		log.Error().Err(err).Str("tenant_id", string(tenant)).Msg("failed to ban tenant")
		return nil, leagueerr.Persistence(err)
	}
	if err := a.evicter.Evict(tenant); err != nil {
		log.Warn().Err(err).Str("tenant_id", string(tenant)).Msg("failed to evict banned tenant")
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("operator_id", string(actor.ID)).
		Str("reason", ban.Reason).
		Msg("Banned tenant")
	return &ban, nil
}

// Unban removes tenant from the ban list
func (a *App) Unban(ctx context.Context, actor models.Actor, tenant models.TenantID) error {
	if err := a.requireOperator(actor); err != nil {
		return err
	}
	if err := tenantstore.ValidateTenantID(tenant); err != nil {
		return err
	}

	removed, err := a.registry.Unban(ctx, tenant)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", string(tenant)).Msg("failed to unban tenant")
		return leagueerr.Persistence(err)
	}
	if !removed {
		return leagueerr.ErrNotFound.WithMessage("tenant %s is not banned", tenant)
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("operator_id", string(actor.ID)).
		Msg("Unbanned tenant")
	return nil
}

// IsBanned reports whether tenant is on the ban list
func (a *App) IsBanned(ctx context.Context, tenant models.TenantID) (bool, error) {
	if err := tenantstore.ValidateTenantID(tenant); err != nil {
		return false, err
	}
	banned, err := a.registry.IsBanned(ctx, tenant)
	if err != nil {
		return false, leagueerr.Persistence(err)
	}
	return banned, nil
}

// List returns the ban list, operators only
func (a *App) List(ctx context.Context, actor models.Actor) ([]models.TenantBan, error) {
	if err := a.requireOperator(actor); err != nil {
		return nil, err
	}
	bans, err := a.registry.List(ctx)
	if err != nil {
		return nil, leagueerr.Persistence(err)
	}
	return bans, nil
}
