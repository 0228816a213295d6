package transfers

import (
	"context"
	"net/http"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/rpc"
	"github.com/google/uuid"
)

const serviceName = "TransferService"

// TransfersApp defines what the service layer needs from the transfers application
type TransfersApp interface {
	CreateOffer(ctx context.Context, tenant models.TenantID, actor models.Actor, req CreateOfferRequest) (*models.TransferOffer, error)
	PayClause(ctx context.Context, tenant models.TenantID, actor models.Actor, req PayClauseRequest) (*models.TransferOffer, error)
	AcceptOffer(ctx context.Context, tenant models.TenantID, actor models.Actor, offerID uuid.UUID) (*AcceptResult, error)
	RejectOffer(ctx context.Context, tenant models.TenantID, actor models.Actor, offerID uuid.UUID) (*models.TransferOffer, error)
	CancelOffer(ctx context.Context, tenant models.TenantID, actor models.Actor, offerID uuid.UUID) (*models.TransferOffer, error)
	AdvanceSeason(ctx context.Context, tenant models.TenantID, actor models.Actor) (*SeasonResult, error)
	ListPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID, newClause *int64) (*models.Player, error)
	UnlistPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID) (*models.Player, error)
	Balance(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) (*models.ClubBalance, error)
	AddFunds(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, amount int64) (*models.ClubBalance, error)
	RemoveFunds(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, amount int64) (*models.ClubBalance, error)
	GetOffer(ctx context.Context, tenant models.TenantID, offerID uuid.UUID) (*models.TransferOffer, error)
	OpenOffersByManager(ctx context.Context, tenant models.TenantID, manager models.ActorID) ([]models.TransferOffer, error)
	OpenOffersForPlayer(ctx context.Context, tenant models.TenantID, player models.ActorID) ([]models.TransferOffer, error)
	PlayerHistory(ctx context.Context, tenant models.TenantID, player models.ActorID) ([]models.TransferRecord, error)
	TeamHistory(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) ([]models.TransferRecord, error)
	RecentTransfers(ctx context.Context, tenant models.TenantID, limit int) ([]models.TransferRecord, error)
	ListTransferable(ctx context.Context, tenant models.TenantID) ([]models.Player, error)
}

// Service exposes the transfer ledger over connect
type Service struct {
	app TransfersApp
}

// NewService creates a new transfers service
func NewService(app TransfersApp) *Service {
	return &Service{
		app: app,
	}
}

type CreateOfferMessage struct {
	Caller rpc.Caller `json:"caller"`
	CreateOfferRequest
}

type PayClauseMessage struct {
	Caller rpc.Caller `json:"caller"`
	PayClauseRequest
}

type OfferMessage struct {
	Caller  rpc.Caller `json:"caller"`
	OfferID uuid.UUID  `json:"offer_id"`
}

type CallerMessage struct {
	Caller rpc.Caller `json:"caller"`
}

type ListPlayerMessage struct {
	Caller    rpc.Caller     `json:"caller"`
	PlayerID  models.ActorID `json:"player_id"`
	NewClause *int64         `json:"new_clause,omitempty"`
}

type PlayerMessage struct {
	Caller   rpc.Caller     `json:"caller"`
	PlayerID models.ActorID `json:"player_id"`
}

type TeamMessage struct {
	Caller rpc.Caller `json:"caller"`
	TeamID uuid.UUID  `json:"team_id"`
}

type FundsMessage struct {
	Caller rpc.Caller `json:"caller"`
	TeamID uuid.UUID  `json:"team_id"`
	Amount int64      `json:"amount"`
}

type ActorMessage struct {
	Caller  rpc.Caller     `json:"caller"`
	ActorID models.ActorID `json:"actor_id"`
}

type RecentMessage struct {
	Caller rpc.Caller `json:"caller"`
	Limit  int        `json:"limit"`
}

type OfferResponse struct {
	Offer *models.TransferOffer `json:"offer"`
}

type OffersResponse struct {
	Offers []models.TransferOffer `json:"offers"`
}

type HistoryResponse struct {
	Transfers []models.TransferRecord `json:"transfers"`
}

type PlayerResponse struct {
	Player *models.Player `json:"player"`
}

type PlayersResponse struct {
	Players []models.Player `json:"players"`
}

type BalanceResponse struct {
	Balance *models.ClubBalance `json:"balance"`
}

// Register mounts the transfer procedures on mux
func (s *Service) Register(mux *http.ServeMux) {
	rpc.Handle(mux, rpc.Procedure(serviceName, "CreateOffer"), s.CreateOffer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "PayClause"), s.PayClause)
	rpc.Handle(mux, rpc.Procedure(serviceName, "AcceptOffer"), s.AcceptOffer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "RejectOffer"), s.RejectOffer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "CancelOffer"), s.CancelOffer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "AdvanceSeason"), s.AdvanceSeason)
	rpc.Handle(mux, rpc.Procedure(serviceName, "ListPlayer"), s.ListPlayer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "UnlistPlayer"), s.UnlistPlayer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "Balance"), s.Balance)
	rpc.Handle(mux, rpc.Procedure(serviceName, "AddFunds"), s.AddFunds)
	rpc.Handle(mux, rpc.Procedure(serviceName, "RemoveFunds"), s.RemoveFunds)
	rpc.Handle(mux, rpc.Procedure(serviceName, "GetOffer"), s.GetOffer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "OpenOffersByManager"), s.OpenOffersByManager)
	rpc.Handle(mux, rpc.Procedure(serviceName, "OpenOffersForPlayer"), s.OpenOffersForPlayer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "PlayerHistory"), s.PlayerHistory)
	rpc.Handle(mux, rpc.Procedure(serviceName, "TeamHistory"), s.TeamHistory)
	rpc.Handle(mux, rpc.Procedure(serviceName, "RecentTransfers"), s.RecentTransfers)
	rpc.Handle(mux, rpc.Procedure(serviceName, "ListTransferable"), s.ListTransferable)
}

func (s *Service) CreateOffer(ctx context.Context, req *CreateOfferMessage) (*OfferResponse, error) {
	offer, err := s.app.CreateOffer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.CreateOfferRequest)
	if err != nil {
		return nil, err
	}
	return &OfferResponse{Offer: offer}, nil
}

func (s *Service) PayClause(ctx context.Context, req *PayClauseMessage) (*OfferResponse, error) {
	offer, err := s.app.PayClause(ctx, req.Caller.TenantID, req.Caller.Actor(), req.PayClauseRequest)
	if err != nil {
		return nil, err
	}
	return &OfferResponse{Offer: offer}, nil
}

func (s *Service) AcceptOffer(ctx context.Context, req *OfferMessage) (*AcceptResult, error) {
	return s.app.AcceptOffer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.OfferID)
}

func (s *Service) RejectOffer(ctx context.Context, req *OfferMessage) (*OfferResponse, error) {
	offer, err := s.app.RejectOffer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.OfferID)
	if err != nil {
		return nil, err
	}
	return &OfferResponse{Offer: offer}, nil
}

func (s *Service) CancelOffer(ctx context.Context, req *OfferMessage) (*OfferResponse, error) {
	offer, err := s.app.CancelOffer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.OfferID)
	if err != nil {
		return nil, err
	}
	return &OfferResponse{Offer: offer}, nil
}

// AdvanceSeason decrements contracts and releases expired players
func (s *Service) AdvanceSeason(ctx context.Context, req *CallerMessage) (*SeasonResult, error) {
	return s.app.AdvanceSeason(ctx, req.Caller.TenantID, req.Caller.Actor())
}

func (s *Service) ListPlayer(ctx context.Context, req *ListPlayerMessage) (*PlayerResponse, error) {
	player, err := s.app.ListPlayer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.PlayerID, req.NewClause)
	if err != nil {
		return nil, err
	}
	return &PlayerResponse{Player: player}, nil
}

func (s *Service) UnlistPlayer(ctx context.Context, req *PlayerMessage) (*PlayerResponse, error) {
	player, err := s.app.UnlistPlayer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.PlayerID)
	if err != nil {
		return nil, err
	}
	return &PlayerResponse{Player: player}, nil
}

func (s *Service) Balance(ctx context.Context, req *TeamMessage) (*BalanceResponse, error) {
	balance, err := s.app.Balance(ctx, req.Caller.TenantID, req.TeamID)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{Balance: balance}, nil
}

func (s *Service) AddFunds(ctx context.Context, req *FundsMessage) (*BalanceResponse, error) {
	balance, err := s.app.AddFunds(ctx, req.Caller.TenantID, req.Caller.Actor(), req.TeamID, req.Amount)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{Balance: balance}, nil
}

func (s *Service) RemoveFunds(ctx context.Context, req *FundsMessage) (*BalanceResponse, error) {
	balance, err := s.app.RemoveFunds(ctx, req.Caller.TenantID, req.Caller.Actor(), req.TeamID, req.Amount)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{Balance: balance}, nil
}

func (s *Service) GetOffer(ctx context.Context, req *OfferMessage) (*OfferResponse, error) {
	offer, err := s.app.GetOffer(ctx, req.Caller.TenantID, req.OfferID)
	if err != nil {
		return nil, err
	}
	return &OfferResponse{Offer: offer}, nil
}

func (s *Service) OpenOffersByManager(ctx context.Context, req *ActorMessage) (*OffersResponse, error) {
	offers, err := s.app.OpenOffersByManager(ctx, req.Caller.TenantID, req.ActorID)
	if err != nil {
		return nil, err
	}
	return &OffersResponse{Offers: offers}, nil
}

func (s *Service) OpenOffersForPlayer(ctx context.Context, req *ActorMessage) (*OffersResponse, error) {
	offers, err := s.app.OpenOffersForPlayer(ctx, req.Caller.TenantID, req.ActorID)
	if err != nil {
		return nil, err
	}
	return &OffersResponse{Offers: offers}, nil
}

func (s *Service) PlayerHistory(ctx context.Context, req *PlayerMessage) (*HistoryResponse, error) {
	records, err := s.app.PlayerHistory(ctx, req.Caller.TenantID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	return &HistoryResponse{Transfers: records}, nil
}

func (s *Service) TeamHistory(ctx context.Context, req *TeamMessage) (*HistoryResponse, error) {
	records, err := s.app.TeamHistory(ctx, req.Caller.TenantID, req.TeamID)
	if err != nil {
		return nil, err
	}
	return &HistoryResponse{Transfers: records}, nil
}

func (s *Service) RecentTransfers(ctx context.Context, req *RecentMessage) (*HistoryResponse, error) {
	records, err := s.app.RecentTransfers(ctx, req.Caller.TenantID, req.Limit)
	if err != nil {
		return nil, err
	}
	return &HistoryResponse{Transfers: records}, nil
}

func (s *Service) ListTransferable(ctx context.Context, req *CallerMessage) (*PlayersResponse, error) {
	players, err := s.app.ListTransferable(ctx, req.Caller.TenantID)
	if err != nil {
		return nil, err
	}
	return &PlayersResponse{Players: players}, nil
}
