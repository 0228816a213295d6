package screenshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/sqlutil"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/google/uuid"
)

// Querier defines what the screenshot repository needs from the tenant store
type Querier interface {
	CreateScreenshot(ctx context.Context, arg tenantstore.CreateScreenshotParams) (tenantstore.Screenshot, error)
	GetScreenshot(ctx context.Context, id uuid.UUID) (tenantstore.Screenshot, error)
	SetScreenshotStatus(ctx context.Context, arg tenantstore.SetScreenshotStatusParams) (int64, error)
	ListScreenshotsByActor(ctx context.Context, actorID string) ([]tenantstore.Screenshot, error)
	ListScreenshots(ctx context.Context) ([]tenantstore.Screenshot, error)
	ListScreenshotsByStatus(ctx context.Context, status string) ([]tenantstore.Screenshot, error)
}

// Repository implements screenshot record access
type Repository struct {
	queries Querier
}

// NewRepository creates a new screenshot repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// Create stores a pending screenshot record
func (r *Repository) Create(ctx context.Context, s *models.Screenshot) (*models.Screenshot, error) {
	dbShot, err := r.queries.CreateScreenshot(ctx, tenantstore.CreateScreenshotParams{
		ID:           s.ID,
		ActorID:      string(s.ActorID),
		DisplayName:  s.DisplayName,
		Tag:          s.Tag,
		DetectedTime: sqlutil.ToSqlString(s.DetectedTime),
		ChannelRef:   s.ChannelRef,
		ImageRef:     s.ImageRef,
		CreatedAt:    s.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create screenshot: %w", err)
	}
	return dbScreenshotToModel(dbShot), nil
}

// Get retrieves a screenshot by ID
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Screenshot, error) {
	dbShot, err := r.queries.GetScreenshot(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leagueerr.ErrScreenshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get screenshot: %w", err)
	}
	return dbScreenshotToModel(dbShot), nil
}

// SetStatus records the review outcome
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status models.ScreenshotStatus) error {
	n, err := r.queries.SetScreenshotStatus(ctx, tenantstore.SetScreenshotStatusParams{ID: id, Status: string(status)})
	if err != nil {
		return fmt.Errorf("failed to update screenshot status: %w", err)
	}
	if n == 0 {
		return leagueerr.ErrScreenshotNotFound
	}
	return nil
}

// List returns screenshots newest first, optionally filtered by actor or status
func (r *Repository) List(ctx context.Context, actor *models.ActorID, status *models.ScreenshotStatus) ([]models.Screenshot, error) {
	var (
		dbShots []tenantstore.Screenshot
		err     error
	)
	switch {
	case actor != nil:
		dbShots, err = r.queries.ListScreenshotsByActor(ctx, string(*actor))
	case status != nil:
		dbShots, err = r.queries.ListScreenshotsByStatus(ctx, string(*status))
	default:
		dbShots, err = r.queries.ListScreenshots(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list screenshots: %w", err)
	}
	shots := make([]models.Screenshot, len(dbShots))
	for i, dbShot := range dbShots {
		shots[i] = *dbScreenshotToModel(dbShot)
	}
	return shots, nil
}

func dbScreenshotToModel(dbShot tenantstore.Screenshot) *models.Screenshot {
	return &models.Screenshot{
		ID:           dbShot.ID,
		ActorID:      models.ActorID(dbShot.ActorID),
		DisplayName:  dbShot.DisplayName,
		Tag:          dbShot.Tag,
		DetectedTime: sqlutil.FromSqlStringPtr[string](dbShot.DetectedTime),
		ChannelRef:   dbShot.ChannelRef,
		ImageRef:     dbShot.ImageRef,
		Status:       models.ScreenshotStatus(dbShot.Status),
		CreatedAt:    sqlutil.FromMillis(dbShot.CreatedAt),
	}
}
