package friendlies

import (
	"context"
	"net/http"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/rpc"
	"github.com/google/uuid"
)

const serviceName = "FriendlyService"

// FriendliesApp defines what the service layer needs from the scheduler
type FriendliesApp interface {
	CreateTable(ctx context.Context, tenant models.TenantID, actor models.Actor, req CreateTableRequest) (*models.FriendlyTable, error)
	LatestTable(ctx context.Context, tenant models.TenantID) (*models.FriendlyTable, error)
	GetTable(ctx context.Context, tenant models.TenantID, tableID uuid.UUID) (*models.FriendlyTable, error)
	RequestFriendly(ctx context.Context, tenant models.TenantID, actor models.Actor, in FriendlyRequestInput) (*models.FriendlyRequest, error)
	ResolveRequest(ctx context.Context, tenant models.TenantID, actor models.Actor, requestID uuid.UUID, decision models.Decision) (*ResolveResult, error)
	DeleteMatch(ctx context.Context, tenant models.TenantID, actor models.Actor, matchID uuid.UUID) (*models.FriendlyMatch, error)
	RenderTable(ctx context.Context, tenant models.TenantID, tableID uuid.UUID) (*models.TableView, error)
	PendingRequests(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) ([]models.FriendlyRequest, error)
	Matches(ctx context.Context, tenant models.TenantID, tableID uuid.UUID) ([]models.FriendlyMatch, error)
	ResetTables(ctx context.Context, tenant models.TenantID, actor models.Actor) (int, error)
	SetBoardMessage(ctx context.Context, tenant models.TenantID, actor models.Actor, tableID uuid.UUID, ref string) (*models.BoardMessage, error)
	BoardMessage(ctx context.Context, tenant models.TenantID) (*models.BoardMessage, error)
}

// Service exposes the friendly scheduler over connect
type Service struct {
	app FriendliesApp
}

// NewService creates a new friendlies service
func NewService(app FriendliesApp) *Service {
	return &Service{
		app: app,
	}
}

type CreateTableMessage struct {
	Caller rpc.Caller `json:"caller"`
	CreateTableRequest
}

type TableMessage struct {
	Caller  rpc.Caller `json:"caller"`
	TableID uuid.UUID  `json:"table_id"`
}

type CallerMessage struct {
	Caller rpc.Caller `json:"caller"`
}

type RequestFriendlyMessage struct {
	Caller rpc.Caller `json:"caller"`
	FriendlyRequestInput
}

type ResolveMessage struct {
	Caller    rpc.Caller      `json:"caller"`
	RequestID uuid.UUID       `json:"request_id"`
	Decision  models.Decision `json:"decision"`
}

type MatchMessage struct {
	Caller  rpc.Caller `json:"caller"`
	MatchID uuid.UUID  `json:"match_id"`
}

type TeamMessage struct {
	Caller rpc.Caller `json:"caller"`
	TeamID uuid.UUID  `json:"team_id"`
}

type BoardMessageMessage struct {
	Caller     rpc.Caller `json:"caller"`
	TableID    uuid.UUID  `json:"table_id"`
	MessageRef string     `json:"message_ref"`
}

type TableResponse struct {
	Table *models.FriendlyTable `json:"table"`
}

type RequestResponse struct {
	Request *models.FriendlyRequest `json:"request"`
}

type RequestsResponse struct {
	Requests []models.FriendlyRequest `json:"requests"`
}

type MatchResponse struct {
	Match *models.FriendlyMatch `json:"match"`
}

type MatchesResponse struct {
	Matches []models.FriendlyMatch `json:"matches"`
}

type ResetResponse struct {
	Removed int `json:"removed"`
}

type BoardResponse struct {
	Board *models.BoardMessage `json:"board,omitempty"`
}

// Register mounts the friendly procedures on mux
func (s *Service) Register(mux *http.ServeMux) {
	rpc.Handle(mux, rpc.Procedure(serviceName, "CreateTable"), s.CreateTable)
	rpc.Handle(mux, rpc.Procedure(serviceName, "LatestTable"), s.LatestTable)
	rpc.Handle(mux, rpc.Procedure(serviceName, "GetTable"), s.GetTable)
	rpc.Handle(mux, rpc.Procedure(serviceName, "RequestFriendly"), s.RequestFriendly)
	rpc.Handle(mux, rpc.Procedure(serviceName, "ResolveRequest"), s.ResolveRequest)
	rpc.Handle(mux, rpc.Procedure(serviceName, "DeleteMatch"), s.DeleteMatch)
	rpc.Handle(mux, rpc.Procedure(serviceName, "RenderTable"), s.RenderTable)
	rpc.Handle(mux, rpc.Procedure(serviceName, "PendingRequests"), s.PendingRequests)
	rpc.Handle(mux, rpc.Procedure(serviceName, "Matches"), s.Matches)
	rpc.Handle(mux, rpc.Procedure(serviceName, "ResetTables"), s.ResetTables)
	rpc.Handle(mux, rpc.Procedure(serviceName, "SetBoardMessage"), s.SetBoardMessage)
	rpc.Handle(mux, rpc.Procedure(serviceName, "BoardMessage"), s.BoardMessage)
}

func (s *Service) CreateTable(ctx context.Context, req *CreateTableMessage) (*TableResponse, error) {
	table, err := s.app.CreateTable(ctx, req.Caller.TenantID, req.Caller.Actor(), req.CreateTableRequest)
	if err != nil {
		return nil, err
	}
	return &TableResponse{Table: table}, nil
}

func (s *Service) LatestTable(ctx context.Context, req *CallerMessage) (*TableResponse, error) {
	table, err := s.app.LatestTable(ctx, req.Caller.TenantID)
	if err != nil {
		return nil, err
	}
	return &TableResponse{Table: table}, nil
}

func (s *Service) GetTable(ctx context.Context, req *TableMessage) (*TableResponse, error) {
	table, err := s.app.GetTable(ctx, req.Caller.TenantID, req.TableID)
	if err != nil {
		return nil, err
	}
	return &TableResponse{Table: table}, nil
}

func (s *Service) RequestFriendly(ctx context.Context, req *RequestFriendlyMessage) (*RequestResponse, error) {
	request, err := s.app.RequestFriendly(ctx, req.Caller.TenantID, req.Caller.Actor(), req.FriendlyRequestInput)
	if err != nil {
		return nil, err
	}
	return &RequestResponse{Request: request}, nil
}

func (s *Service) ResolveRequest(ctx context.Context, req *ResolveMessage) (*ResolveResult, error) {
	return s.app.ResolveRequest(ctx, req.Caller.TenantID, req.Caller.Actor(), req.RequestID, req.Decision)
}

func (s *Service) DeleteMatch(ctx context.Context, req *MatchMessage) (*MatchResponse, error) {
	match, err := s.app.DeleteMatch(ctx, req.Caller.TenantID, req.Caller.Actor(), req.MatchID)
	if err != nil {
		return nil, err
	}
	return &MatchResponse{Match: match}, nil
}

// RenderTable returns the slot-ordered view a binding draws
func (s *Service) RenderTable(ctx context.Context, req *TableMessage) (*models.TableView, error) {
	return s.app.RenderTable(ctx, req.Caller.TenantID, req.TableID)
}

func (s *Service) PendingRequests(ctx context.Context, req *TeamMessage) (*RequestsResponse, error) {
	requests, err := s.app.PendingRequests(ctx, req.Caller.TenantID, req.TeamID)
	if err != nil {
		return nil, err
	}
	return &RequestsResponse{Requests: requests}, nil
}

func (s *Service) Matches(ctx context.Context, req *TableMessage) (*MatchesResponse, error) {
	matches, err := s.app.Matches(ctx, req.Caller.TenantID, req.TableID)
	if err != nil {
		return nil, err
	}
	return &MatchesResponse{Matches: matches}, nil
}

func (s *Service) ResetTables(ctx context.Context, req *CallerMessage) (*ResetResponse, error) {
	removed, err := s.app.ResetTables(ctx, req.Caller.TenantID, req.Caller.Actor())
	if err != nil {
		return nil, err
	}
	return &ResetResponse{Removed: removed}, nil
}

func (s *Service) SetBoardMessage(ctx context.Context, req *BoardMessageMessage) (*BoardResponse, error) {
	board, err := s.app.SetBoardMessage(ctx, req.Caller.TenantID, req.Caller.Actor(), req.TableID, req.MessageRef)
	if err != nil {
		return nil, err
	}
	return &BoardResponse{Board: board}, nil
}

func (s *Service) BoardMessage(ctx context.Context, req *CallerMessage) (*BoardResponse, error) {
	board, err := s.app.BoardMessage(ctx, req.Caller.TenantID)
	if err != nil {
		return nil, err
	}
	return &BoardResponse{Board: board}, nil
}
