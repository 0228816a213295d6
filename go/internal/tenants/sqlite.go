package tenants

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/sqlutil"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tenant_bans (
    tenant_id TEXT PRIMARY KEY,
    reason    TEXT NOT NULL DEFAULT '',
    banned_at INTEGER NOT NULL
)`

// SQLiteRegistry keeps the ban list in its own SQLite database
type SQLiteRegistry struct {
	db *sql.DB
}

// OpenSQLite opens the registry at path, in memory when path is empty
func OpenSQLite(ctx context.Context, path string) (*SQLiteRegistry, error) {
	dsn := ":memory:?_pragma=busy_timeout(5000)"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create registry directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate registry: %w", err)
	}
	return &SQLiteRegistry{db: db}, nil
}

func (r *SQLiteRegistry) IsBanned(ctx context.Context, tenant models.TenantID) (bool, error) {
	var banned bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenant_bans WHERE tenant_id = ?)`, string(tenant),
	).Scan(&banned)
	if err != nil {
		return false, fmt.Errorf("failed to check tenant ban: %w", err)
	}
	return banned, nil
}

func (r *SQLiteRegistry) Ban(ctx context.Context, ban models.TenantBan) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tenant_bans (tenant_id, reason, banned_at) VALUES (?, ?, ?)
ON CONFLICT (tenant_id) DO UPDATE SET reason = excluded.reason, banned_at = excluded.banned_at`,
		string(ban.TenantID), ban.Reason, ban.BannedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to ban tenant: %w", err)
	}
	return nil
}

func (r *SQLiteRegistry) Unban(ctx context.Context, tenant models.TenantID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tenant_bans WHERE tenant_id = ?`, string(tenant))
	if err != nil {
		return false, fmt.Errorf("failed to unban tenant: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to unban tenant: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRegistry) List(ctx context.Context) ([]models.TenantBan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tenant_id, reason, banned_at FROM tenant_bans ORDER BY banned_at DESC, tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant bans: %w", err)
	}
	defer rows.Close()

	var bans []models.TenantBan
	for rows.Next() {
		var (
			ban      models.TenantBan
			bannedAt int64
		)
		if err := rows.Scan(&ban.TenantID, &ban.Reason, &bannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant ban: %w", err)
		}
		ban.BannedAt = sqlutil.FromMillis(bannedAt)
		bans = append(bans, ban)
	}
	return bans, rows.Err()
}

func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}
