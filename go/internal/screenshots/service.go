package screenshots

import (
	"context"
	"net/http"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/rpc"
	"github.com/google/uuid"
)

const serviceName = "ScreenshotService"

// ScreenshotsApp defines what the service layer needs from the screenshots application
type ScreenshotsApp interface {
	Submit(ctx context.Context, tenant models.TenantID, req SubmitRequest) (*models.Screenshot, error)
	UpdateStatus(ctx context.Context, tenant models.TenantID, actor models.Actor, id uuid.UUID, status models.ScreenshotStatus) (*models.Screenshot, error)
	Get(ctx context.Context, tenant models.TenantID, id uuid.UUID) (*models.Screenshot, error)
	ListByActor(ctx context.Context, tenant models.TenantID, actorID models.ActorID) ([]models.Screenshot, error)
	List(ctx context.Context, tenant models.TenantID, status *models.ScreenshotStatus) ([]models.Screenshot, error)
}

// Service exposes screenshot records over connect
type Service struct {
	app ScreenshotsApp
}

// NewService creates a new screenshots service
func NewService(app ScreenshotsApp) *Service {
	return &Service{app: app}
}

type SubmitMessage struct {
	Caller rpc.Caller `json:"caller"`
	SubmitRequest
}

type UpdateStatusMessage struct {
	Caller       rpc.Caller              `json:"caller"`
	ScreenshotID uuid.UUID               `json:"screenshot_id"`
	Status       models.ScreenshotStatus `json:"status"`
}

type ScreenshotMessage struct {
	Caller       rpc.Caller `json:"caller"`
	ScreenshotID uuid.UUID  `json:"screenshot_id"`
}

type ListByActorMessage struct {
	Caller  rpc.Caller     `json:"caller"`
	ActorID models.ActorID `json:"actor_id"`
}

type ListMessage struct {
	Caller rpc.Caller               `json:"caller"`
	Status *models.ScreenshotStatus `json:"status,omitempty"`
}

type ScreenshotResponse struct {
	Screenshot *models.Screenshot `json:"screenshot"`
}

type ScreenshotsResponse struct {
	Screenshots []models.Screenshot `json:"screenshots"`
}

// Register mounts the screenshot procedures on mux
func (s *Service) Register(mux *http.ServeMux) {
	rpc.Handle(mux, rpc.Procedure(serviceName, "Submit"), s.Submit)
	rpc.Handle(mux, rpc.Procedure(serviceName, "UpdateStatus"), s.UpdateStatus)
	rpc.Handle(mux, rpc.Procedure(serviceName, "Get"), s.Get)
	rpc.Handle(mux, rpc.Procedure(serviceName, "ListByActor"), s.ListByActor)
	rpc.Handle(mux, rpc.Procedure(serviceName, "List"), s.List)
}

func (s *Service) Submit(ctx context.Context, req *SubmitMessage) (*ScreenshotResponse, error) {
	shot, err := s.app.Submit(ctx, req.Caller.TenantID, req.SubmitRequest)
	if err != nil {
		return nil, err
	}
	return &ScreenshotResponse{Screenshot: shot}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req *UpdateStatusMessage) (*ScreenshotResponse, error) {
	shot, err := s.app.UpdateStatus(ctx, req.Caller.TenantID, req.Caller.Actor(), req.ScreenshotID, req.Status)
	if err != nil {
		return nil, err
	}
	return &ScreenshotResponse{Screenshot: shot}, nil
}

func (s *Service) Get(ctx context.Context, req *ScreenshotMessage) (*ScreenshotResponse, error) {
	shot, err := s.app.Get(ctx, req.Caller.TenantID, req.ScreenshotID)
	if err != nil {
		return nil, err
	}
	return &ScreenshotResponse{Screenshot: shot}, nil
}

func (s *Service) ListByActor(ctx context.Context, req *ListByActorMessage) (*ScreenshotsResponse, error) {
	shots, err := s.app.ListByActor(ctx, req.Caller.TenantID, req.ActorID)
	if err != nil {
		return nil, err
	}
	return &ScreenshotsResponse{Screenshots: shots}, nil
}

func (s *Service) List(ctx context.Context, req *ListMessage) (*ScreenshotsResponse, error) {
	shots, err := s.app.List(ctx, req.Caller.TenantID, req.Status)
	if err != nil {
		return nil, err
	}
	return &ScreenshotsResponse{Screenshots: shots}, nil
}
