package tenantstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Store is the isolated persistent container of one tenant.
// It holds a single connection, so transactions on a tenant are serialized.
type Store struct {
	tenant models.TenantID
	db     *sql.DB
}

// Open opens (creating if needed) the store of tenant under dataDir.
// An empty dataDir keeps the store in memory.
func Open(ctx context.Context, dataDir string, tenant models.TenantID) (*Store, error) {
	dsn := ":memory:?" + pragmas
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		path := filepath.Join(dataDir, string(tenant)+".db")
		dsn = "file:" + path + "?" + pragmas + "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open tenant store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to tenant store: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{tenant: tenant, db: db}, nil
}

// Tenant returns the tenant the store belongs to
func (s *Store) Tenant() models.TenantID {
	return s.tenant
}

// Run executes fn as one atomic unit against the tenant's store.
// Engine errors returned by fn pass through unchanged; any other failure is
// logged and surfaced as a persistence error. fn must only use q.
func (s *Store) Run(ctx context.Context, fn func(q *Queries) error) error {
	err := sqlutil.Run(ctx, s.db, func(tx *sql.Tx) *Queries { return New(tx) }, fn)
	if err == nil {
		return nil
	}
	var engineErr *leagueerr.Error
	if errors.As(err, &engineErr) {
		return err
	}
	log.Error().Err(err).Str("tenant_id", string(s.tenant)).Msg("tenant store transaction failed")
	return leagueerr.Persistence(err)
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
