package tenants

import (
	"context"

	"github.com/GonzaloH5/league-bot/go/internal/models"
)

// BanChannel is the Postgres notification channel a ban is announced on
const BanChannel = "tenant_bans"

// Registry is the global, cross-tenant ban list
type Registry interface {
	IsBanned(ctx context.Context, tenant models.TenantID) (bool, error)
	Ban(ctx context.Context, ban models.TenantBan) error
	Unban(ctx context.Context, tenant models.TenantID) (bool, error)
	List(ctx context.Context) ([]models.TenantBan, error)
	Close() error
}

// Open opens the registry for driver, "sqlite" or "postgres"
func Open(ctx context.Context, driver, dsn string) (Registry, error) {
	switch driver {
	case "", "sqlite":
		return OpenSQLite(ctx, dsn)
	case "postgres":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, &UnknownDriverError{Driver: driver}
	}
}

// UnknownDriverError reports an unsupported registry driver
type UnknownDriverError struct {
	Driver string
}

func (e *UnknownDriverError) Error() string {
	return "unknown registry driver: " + e.Driver
}
