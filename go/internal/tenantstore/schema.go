package tenantstore

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations creates the tenant schema. Times are unix milliseconds.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		division TEXT NOT NULL DEFAULT '',
		manager_id TEXT UNIQUE,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		actor_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		team_id TEXT REFERENCES teams(id),
		banned INTEGER NOT NULL DEFAULT 0,
		transferable INTEGER NOT NULL DEFAULT 0,
		contract_duration INTEGER,
		release_clause INTEGER,
		original_release_clause INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_captains (
		team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		captain_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (team_id, captain_id)
	)`,
	`CREATE TABLE IF NOT EXISTS club_balances (
		team_id TEXT PRIMARY KEY REFERENCES teams(id),
		balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS transfer_offers (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		player_id TEXT NOT NULL REFERENCES players(actor_id),
		from_team_id TEXT REFERENCES teams(id),
		to_team_id TEXT REFERENCES teams(id),
		manager_id TEXT NOT NULL,
		price INTEGER NOT NULL,
		contract_duration INTEGER,
		release_clause INTEGER,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_offers_open_pair
		ON transfer_offers(manager_id, player_id)
		WHERE status IN ('pending', 'bought_clause')`,
	`CREATE INDEX IF NOT EXISTS idx_offers_player ON transfer_offers(player_id)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS friendly_tables (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS time_slots (
		table_id TEXT NOT NULL REFERENCES friendly_tables(id) ON DELETE CASCADE,
		label TEXT NOT NULL,
		position INTEGER NOT NULL,
		available INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (table_id, label)
	)`,
	`CREATE TABLE IF NOT EXISTS friendly_matches (
		id TEXT PRIMARY KEY,
		table_id TEXT NOT NULL REFERENCES friendly_tables(id) ON DELETE CASCADE,
		slot_label TEXT NOT NULL,
		team1_id TEXT NOT NULL REFERENCES teams(id),
		team2_id TEXT NOT NULL REFERENCES teams(id),
		status TEXT NOT NULL DEFAULT 'confirmed',
		created_at INTEGER NOT NULL,
		UNIQUE (table_id, slot_label)
	)`,
	`CREATE TABLE IF NOT EXISTS friendly_requests (
		id TEXT PRIMARY KEY,
		table_id TEXT NOT NULL REFERENCES friendly_tables(id) ON DELETE CASCADE,
		slot_label TEXT NOT NULL,
		requesting_team_id TEXT NOT NULL REFERENCES teams(id),
		requested_team_id TEXT NOT NULL REFERENCES teams(id),
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_requested ON friendly_requests(requested_team_id, status)`,
	`CREATE TABLE IF NOT EXISTS screenshots (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		tag TEXT NOT NULL,
		detected_time TEXT,
		channel_ref TEXT NOT NULL,
		image_ref TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_screenshots_actor ON screenshots(actor_id)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
