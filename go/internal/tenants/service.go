package tenants

import (
	"context"
	"net/http"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/rpc"
)

const serviceName = "TenantService"

// TenantsApp defines what the service layer needs from the tenants application
type TenantsApp interface {
	Ban(ctx context.Context, actor models.Actor, tenant models.TenantID, reason string) (*models.TenantBan, error)
	Unban(ctx context.Context, actor models.Actor, tenant models.TenantID) error
	IsBanned(ctx context.Context, tenant models.TenantID) (bool, error)
	List(ctx context.Context, actor models.Actor) ([]models.TenantBan, error)
}

// Service exposes the ban list over connect. The caller's tenant is ignored;
// the target tenant travels in the message.
type Service struct {
	app TenantsApp
}

// NewService creates a new tenants service
func NewService(app TenantsApp) *Service {
	return &Service{app: app}
}

type BanMessage struct {
	Caller   rpc.Caller      `json:"caller"`
	TenantID models.TenantID `json:"tenant_id"`
	Reason   string          `json:"reason,omitempty"`
}

type TenantMessage struct {
	Caller   rpc.Caller      `json:"caller"`
	TenantID models.TenantID `json:"tenant_id"`
}

type CallerMessage struct {
	Caller rpc.Caller `json:"caller"`
}

type BanResponse struct {
	Ban *models.TenantBan `json:"ban"`
}

type StatusResponse struct {
	Banned bool `json:"banned"`
}

type BansResponse struct {
	Bans []models.TenantBan `json:"bans"`
}

// Register mounts the tenant procedures on mux
func (s *Service) Register(mux *http.ServeMux) {
	rpc.Handle(mux, rpc.Procedure(serviceName, "Ban"), s.Ban)
	rpc.Handle(mux, rpc.Procedure(serviceName, "Unban"), s.Unban)
	rpc.Handle(mux, rpc.Procedure(serviceName, "IsBanned"), s.IsBanned)
	rpc.Handle(mux, rpc.Procedure(serviceName, "List"), s.List)
}

func (s *Service) Ban(ctx context.Context, req *BanMessage) (*BanResponse, error) {
	ban, err := s.app.Ban(ctx, req.Caller.Actor(), req.TenantID, req.Reason)
	if err != nil {
		return nil, err
	}
	return &BanResponse{Ban: ban}, nil
}

func (s *Service) Unban(ctx context.Context, req *TenantMessage) (*StatusResponse, error) {
	if err := s.app.Unban(ctx, req.Caller.Actor(), req.TenantID); err != nil {
		return nil, err
	}
	return &StatusResponse{Banned: false}, nil
}

func (s *Service) IsBanned(ctx context.Context, req *TenantMessage) (*StatusResponse, error) {
	banned, err := s.app.IsBanned(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{Banned: banned}, nil
}

func (s *Service) List(ctx context.Context, req *CallerMessage) (*BansResponse, error) {
	bans, err := s.app.List(ctx, req.Caller.Actor())
	if err != nil {
		return nil, err
	}
	return &BansResponse{Bans: bans}, nil
}
