package screenshots

import (
	"context"
	"strings"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/roster"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// StoreProvider resolves the store of a tenant
type StoreProvider interface {
	Get(ctx context.Context, tenant models.TenantID) (*tenantstore.Store, error)
}

// SubmitRequest is a screenshot record produced by the OCR collaborator
type SubmitRequest struct {
	ActorID      models.ActorID `json:"actor_id"`
	DisplayName  string         `json:"display_name"`
	Tag          string         `json:"tag"`
	DetectedTime *string        `json:"detected_time,omitempty"`
	ChannelRef   string         `json:"channel_ref"`
	ImageRef     string         `json:"image_ref"`
}

// App stores screenshot records and their review outcome
type App struct {
	stores StoreProvider
	clock  clockwork.Clock
}

// NewApp creates a new screenshots App
func NewApp(stores StoreProvider, clock clockwork.Clock) *App {
	return &App{
		stores: stores,
		clock:  clock,
	}
}

func (a *App) run(ctx context.Context, tenant models.TenantID, fn func(r *Repository) error) error {
	store, err := a.stores.Get(ctx, tenant)
	if err != nil {
		return err
	}
	return store.Run(ctx, func(q *tenantstore.Queries) error {
		return fn(NewRepository(q))
	})
}

// Submit records a screenshot as pending review
func (a *App) Submit(ctx context.Context, tenant models.TenantID, req SubmitRequest) (*models.Screenshot, error) {
	if strings.TrimSpace(string(req.ActorID)) == "" || strings.TrimSpace(req.ImageRef) == "" {
		return nil, leagueerr.ErrInvalidInput.WithMessage("actor and image reference are required")
	}

	var shot *models.Screenshot
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		shot, err = r.Create(ctx, &models.Screenshot{
			ID:           uuid.New(),
			ActorID:      req.ActorID,
			DisplayName:  req.DisplayName,
			Tag:          req.Tag,
			DetectedTime: req.DetectedTime,
			ChannelRef:   req.ChannelRef,
			ImageRef:     req.ImageRef,
			Status:       models.ScreenshotStatusPending,
			CreatedAt:    a.clock.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("screenshot_id", shot.ID.String()).
		Str("actor_id", string(shot.ActorID)).
		Msg("Screenshot submitted")
	return shot, nil
}

// UpdateStatus records a reviewer's decision
func (a *App) UpdateStatus(ctx context.Context, tenant models.TenantID, actor models.Actor, id uuid.UUID, status models.ScreenshotStatus) (*models.Screenshot, error) {
	if err := roster.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if status != models.ScreenshotStatusAccepted && status != models.ScreenshotStatusRejected {
		return nil, leagueerr.ErrInvalidStatus.WithMessage("status must be accepted or rejected")
	}

	var shot *models.Screenshot
	err := a.run(ctx, tenant, func(r *Repository) error {
		if err := r.SetStatus(ctx, id, status); err != nil {
			return err
		}
		var err error
		shot, err = r.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("screenshot_id", id.String()).
		Str("status", string(status)).
		Msg("Screenshot reviewed")
	return shot, nil
}

// Get returns one screenshot record
func (a *App) Get(ctx context.Context, tenant models.TenantID, id uuid.UUID) (*models.Screenshot, error) {
	var shot *models.Screenshot
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		shot, err = r.Get(ctx, id)
		return err
	})
	return shot, err
}

// ListByActor returns the screenshots submitted for an actor
func (a *App) ListByActor(ctx context.Context, tenant models.TenantID, actorID models.ActorID) ([]models.Screenshot, error) {
	var shots []models.Screenshot
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		shots, err = r.List(ctx, &actorID, nil)
		return err
	})
	return shots, err
}

// List returns every screenshot, or only those in status
func (a *App) List(ctx context.Context, tenant models.TenantID, status *models.ScreenshotStatus) ([]models.Screenshot, error) {
	var shots []models.Screenshot
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		shots, err = r.List(ctx, nil, status)
		return err
	})
	return shots, err
}
