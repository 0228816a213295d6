package tenantstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const screenshotColumns = `id, actor_id, display_name, tag, detected_time, channel_ref, image_ref, status, created_at`

func scanScreenshot(row interface{ Scan(...any) error }) (Screenshot, error) {
	var i Screenshot
	err := row.Scan(
		&i.ID,
		&i.ActorID,
		&i.DisplayName,
		&i.Tag,
		&i.DetectedTime,
		&i.ChannelRef,
		&i.ImageRef,
		&i.Status,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) listScreenshots(ctx context.Context, query string, args ...any) ([]Screenshot, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Screenshot
	for rows.Next() {
		i, err := scanScreenshot(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createScreenshot = `-- name: CreateScreenshot :one
INSERT INTO screenshots (id, actor_id, display_name, tag, detected_time, channel_ref, image_ref, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, 'pending', ?)
RETURNING ` + screenshotColumns

type CreateScreenshotParams struct {
	ID           uuid.UUID
	ActorID      string
	DisplayName  string
	Tag          string
	DetectedTime sql.NullString
	ChannelRef   string
	ImageRef     string
	CreatedAt    int64
}

func (q *Queries) CreateScreenshot(ctx context.Context, arg CreateScreenshotParams) (Screenshot, error) {
	row := q.db.QueryRowContext(ctx, createScreenshot,
		arg.ID,
		arg.ActorID,
		arg.DisplayName,
		arg.Tag,
		arg.DetectedTime,
		arg.ChannelRef,
		arg.ImageRef,
		arg.CreatedAt,
	)
	return scanScreenshot(row)
}

const getScreenshot = `-- name: GetScreenshot :one
SELECT ` + screenshotColumns + ` FROM screenshots WHERE id = ?`

func (q *Queries) GetScreenshot(ctx context.Context, id uuid.UUID) (Screenshot, error) {
	return scanScreenshot(q.db.QueryRowContext(ctx, getScreenshot, id))
}

const setScreenshotStatus = `-- name: SetScreenshotStatus :execrows
UPDATE screenshots SET status = ? WHERE id = ?`

type SetScreenshotStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) SetScreenshotStatus(ctx context.Context, arg SetScreenshotStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setScreenshotStatus, arg.Status, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listScreenshotsByActor = `-- name: ListScreenshotsByActor :many
SELECT ` + screenshotColumns + ` FROM screenshots WHERE actor_id = ? ORDER BY created_at DESC, rowid DESC`

func (q *Queries) ListScreenshotsByActor(ctx context.Context, actorID string) ([]Screenshot, error) {
	return q.listScreenshots(ctx, listScreenshotsByActor, actorID)
}

const listScreenshots = `-- name: ListScreenshots :many
SELECT ` + screenshotColumns + ` FROM screenshots ORDER BY created_at DESC, rowid DESC`

func (q *Queries) ListScreenshots(ctx context.Context) ([]Screenshot, error) {
	return q.listScreenshots(ctx, listScreenshots)
}

const listScreenshotsByStatus = `-- name: ListScreenshotsByStatus :many
SELECT ` + screenshotColumns + ` FROM screenshots WHERE status = ? ORDER BY created_at DESC, rowid DESC`

func (q *Queries) ListScreenshotsByStatus(ctx context.Context, status string) ([]Screenshot, error) {
	return q.listScreenshots(ctx, listScreenshotsByStatus, status)
}
