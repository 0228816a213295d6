package tenants

import (
	"context"
	"fmt"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/sqlutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tenant_bans (
    tenant_id TEXT PRIMARY KEY,
    reason    TEXT NOT NULL DEFAULT '',
    banned_at BIGINT NOT NULL
)`

// PostgresRegistry keeps the ban list in Postgres, shared by every engine process.
// Bans are announced on BanChannel in the same transaction.
type PostgresRegistry struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the ban table if needed
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRegistry, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping registry: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate registry: %w", err)
	}

	log.Info().Msg("Connected to Postgres tenant registry")
	return &PostgresRegistry{pool: pool}, nil
}

func (r *PostgresRegistry) IsBanned(ctx context.Context, tenant models.TenantID) (bool, error) {
	var banned bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenant_bans WHERE tenant_id = $1)`, string(tenant),
	).Scan(&banned)
	if err != nil {
		return false, fmt.Errorf("failed to check tenant ban: %w", err)
	}
	return banned, nil
}

func (r *PostgresRegistry) Ban(ctx context.Context, ban models.TenantBan) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
INSERT INTO tenant_bans (tenant_id, reason, banned_at) VALUES ($1, $2, $3)
ON CONFLICT (tenant_id) DO UPDATE SET reason = EXCLUDED.reason, banned_at = EXCLUDED.banned_at`,
			string(ban.TenantID), ban.Reason, ban.BannedAt.UnixMilli()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, BanChannel, string(ban.TenantID))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to ban tenant: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) Unban(ctx context.Context, tenant models.TenantID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tenant_bans WHERE tenant_id = $1`, string(tenant))
	if err != nil {
		return false, fmt.Errorf("failed to unban tenant: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRegistry) List(ctx context.Context) ([]models.TenantBan, error) {
	rows, err := r.pool.Query(ctx, `SELECT tenant_id, reason, banned_at FROM tenant_bans ORDER BY banned_at DESC, tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant bans: %w", err)
	}
	bans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TenantBan, error) {
		var (
			ban      models.TenantBan
			tenant   string
			bannedAt int64
		)
		if err := row.Scan(&tenant, &ban.Reason, &bannedAt); err != nil {
			return ban, err
		}
		ban.TenantID = models.TenantID(tenant)
		ban.BannedAt = sqlutil.FromMillis(bannedAt)
		return ban, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant bans: %w", err)
	}
	return bans, nil
}

func (r *PostgresRegistry) Close() error {
	r.pool.Close()
	return nil
}
