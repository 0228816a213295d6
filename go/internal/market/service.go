package market

import (
	"context"
	"net/http"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/rpc"
)

const serviceName = "MarketService"

// MarketApp defines what the service layer needs from the market application
type MarketApp interface {
	Open(ctx context.Context, tenant models.TenantID, actor models.Actor) error
	Close(ctx context.Context, tenant models.TenantID, actor models.Actor) error
	IsOpen(ctx context.Context, tenant models.TenantID) (bool, error)
}

// Service exposes the market gate over connect
type Service struct {
	app MarketApp
}

// NewService creates a new market service
func NewService(app MarketApp) *Service {
	return &Service{app: app}
}

type GateMessage struct {
	Caller rpc.Caller `json:"caller"`
}

type GateResponse struct {
	Open bool `json:"open"`
}

// Register mounts the market procedures on mux
func (s *Service) Register(mux *http.ServeMux) {
	rpc.Handle(mux, rpc.Procedure(serviceName, "Open"), s.Open)
	rpc.Handle(mux, rpc.Procedure(serviceName, "Close"), s.Close)
	rpc.Handle(mux, rpc.Procedure(serviceName, "Status"), s.Status)
}

func (s *Service) Open(ctx context.Context, req *GateMessage) (*GateResponse, error) {
	if err := s.app.Open(ctx, req.Caller.TenantID, req.Caller.Actor()); err != nil {
		return nil, err
	}
	return &GateResponse{Open: true}, nil
}

func (s *Service) Close(ctx context.Context, req *GateMessage) (*GateResponse, error) {
	if err := s.app.Close(ctx, req.Caller.TenantID, req.Caller.Actor()); err != nil {
		return nil, err
	}
	return &GateResponse{Open: false}, nil
}

func (s *Service) Status(ctx context.Context, req *GateMessage) (*GateResponse, error) {
	open, err := s.app.IsOpen(ctx, req.Caller.TenantID)
	if err != nil {
		return nil, err
	}
	return &GateResponse{Open: open}, nil
}
