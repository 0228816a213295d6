package roster

import (
	"context"
	"net/http"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/rpc"
	"github.com/google/uuid"
)

const serviceName = "RosterService"

// RosterApp defines what the service layer needs from the roster application
type RosterApp interface {
	CreateTeam(ctx context.Context, tenant models.TenantID, actor models.Actor, req CreateTeamRequest) (*models.Team, error)
	AssignManager(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, manager models.ActorID) (*models.Team, error)
	UnassignManager(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID) (*models.Team, error)
	AddCaptain(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, captain models.ActorID) error
	RemoveCaptain(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, captain models.ActorID) error
	RegisterPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, req RegisterPlayerRequest) (*models.Player, error)
	BanPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID) (*models.Player, error)
	UnbanPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID) (*models.Player, error)
	ReleasePlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID) (*models.Player, error)
	DeleteTeam(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID) (*DeleteTeamResult, error)
	GetTeam(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) (*models.Team, error)
	GetTeamByName(ctx context.Context, tenant models.TenantID, name string) (*models.Team, error)
	ListTeams(ctx context.Context, tenant models.TenantID, division *string) ([]models.Team, error)
	GetPlayer(ctx context.Context, tenant models.TenantID, playerID models.ActorID) (*models.Player, error)
	ListTeamPlayers(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) ([]models.Player, error)
	ListFreeAgents(ctx context.Context, tenant models.TenantID) ([]models.Player, error)
	Captains(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) ([]models.ActorID, error)
	TeamOf(ctx context.Context, tenant models.TenantID, actorID models.ActorID) (*models.Team, error)
	RoleFor(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID) (models.Role, error)
}

// Service exposes the roster over connect
type Service struct {
	app RosterApp
}

// NewService creates a new roster service
func NewService(app RosterApp) *Service {
	return &Service{
		app: app,
	}
}

type CreateTeamMessage struct {
	Caller rpc.Caller `json:"caller"`
	CreateTeamRequest
}

type TeamMessage struct {
	Caller rpc.Caller `json:"caller"`
	TeamID uuid.UUID  `json:"team_id"`
}

type TeamActorMessage struct {
	Caller  rpc.Caller     `json:"caller"`
	TeamID  uuid.UUID      `json:"team_id"`
	ActorID models.ActorID `json:"actor_id"`
}

type TeamByNameMessage struct {
	Caller rpc.Caller `json:"caller"`
	Name   string     `json:"name"`
}

type ListTeamsMessage struct {
	Caller   rpc.Caller `json:"caller"`
	Division *string    `json:"division,omitempty"`
}

type RegisterPlayerMessage struct {
	Caller rpc.Caller `json:"caller"`
	RegisterPlayerRequest
}

type PlayerMessage struct {
	Caller   rpc.Caller     `json:"caller"`
	PlayerID models.ActorID `json:"player_id"`
}

type TeamResponse struct {
	Team *models.Team `json:"team"`
}

type TeamsResponse struct {
	Teams []models.Team `json:"teams"`
}

type PlayerResponse struct {
	Player *models.Player `json:"player"`
}

type PlayersResponse struct {
	Players []models.Player `json:"players"`
}

type CaptainsResponse struct {
	Captains []models.ActorID `json:"captains"`
}

type RoleResponse struct {
	Role models.Role `json:"role"`
}

// Register mounts the roster procedures on mux
func (s *Service) Register(mux *http.ServeMux) {
	rpc.Handle(mux, rpc.Procedure(serviceName, "CreateTeam"), s.CreateTeam)
	rpc.Handle(mux, rpc.Procedure(serviceName, "AssignManager"), s.AssignManager)
	rpc.Handle(mux, rpc.Procedure(serviceName, "UnassignManager"), s.UnassignManager)
	rpc.Handle(mux, rpc.Procedure(serviceName, "AddCaptain"), s.AddCaptain)
	rpc.Handle(mux, rpc.Procedure(serviceName, "RemoveCaptain"), s.RemoveCaptain)
	rpc.Handle(mux, rpc.Procedure(serviceName, "RegisterPlayer"), s.RegisterPlayer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "BanPlayer"), s.BanPlayer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "UnbanPlayer"), s.UnbanPlayer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "ReleasePlayer"), s.ReleasePlayer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "DeleteTeam"), s.DeleteTeam)
	rpc.Handle(mux, rpc.Procedure(serviceName, "GetTeam"), s.GetTeam)
	rpc.Handle(mux, rpc.Procedure(serviceName, "GetTeamByName"), s.GetTeamByName)
	rpc.Handle(mux, rpc.Procedure(serviceName, "ListTeams"), s.ListTeams)
	rpc.Handle(mux, rpc.Procedure(serviceName, "GetPlayer"), s.GetPlayer)
	rpc.Handle(mux, rpc.Procedure(serviceName, "ListTeamPlayers"), s.ListTeamPlayers)
	rpc.Handle(mux, rpc.Procedure(serviceName, "ListFreeAgents"), s.ListFreeAgents)
	rpc.Handle(mux, rpc.Procedure(serviceName, "Captains"), s.Captains)
	rpc.Handle(mux, rpc.Procedure(serviceName, "TeamOf"), s.TeamOf)
	rpc.Handle(mux, rpc.Procedure(serviceName, "RoleFor"), s.RoleFor)
}

// CreateTeam creates a new team
func (s *Service) CreateTeam(ctx context.Context, req *CreateTeamMessage) (*TeamResponse, error) {
	team, err := s.app.CreateTeam(ctx, req.Caller.TenantID, req.Caller.Actor(), req.CreateTeamRequest)
	if err != nil {
		return nil, err
	}
	return &TeamResponse{Team: team}, nil
}

func (s *Service) AssignManager(ctx context.Context, req *TeamActorMessage) (*TeamResponse, error) {
	team, err := s.app.AssignManager(ctx, req.Caller.TenantID, req.Caller.Actor(), req.TeamID, req.ActorID)
	if err != nil {
		return nil, err
	}
	return &TeamResponse{Team: team}, nil
}

func (s *Service) UnassignManager(ctx context.Context, req *TeamMessage) (*TeamResponse, error) {
	team, err := s.app.UnassignManager(ctx, req.Caller.TenantID, req.Caller.Actor(), req.TeamID)
	if err != nil {
		return nil, err
	}
	return &TeamResponse{Team: team}, nil
}

func (s *Service) AddCaptain(ctx context.Context, req *TeamActorMessage) (*rpc.Empty, error) {
	if err := s.app.AddCaptain(ctx, req.Caller.TenantID, req.Caller.Actor(), req.TeamID, req.ActorID); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func (s *Service) RemoveCaptain(ctx context.Context, req *TeamActorMessage) (*rpc.Empty, error) {
	if err := s.app.RemoveCaptain(ctx, req.Caller.TenantID, req.Caller.Actor(), req.TeamID, req.ActorID); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

// RegisterPlayer registers a player
func (s *Service) RegisterPlayer(ctx context.Context, req *RegisterPlayerMessage) (*PlayerResponse, error) {
	player, err := s.app.RegisterPlayer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.RegisterPlayerRequest)
	if err != nil {
		return nil, err
	}
	return &PlayerResponse{Player: player}, nil
}

func (s *Service) BanPlayer(ctx context.Context, req *PlayerMessage) (*PlayerResponse, error) {
	player, err := s.app.BanPlayer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.PlayerID)
	if err != nil {
		return nil, err
	}
	return &PlayerResponse{Player: player}, nil
}

func (s *Service) UnbanPlayer(ctx context.Context, req *PlayerMessage) (*PlayerResponse, error) {
	player, err := s.app.UnbanPlayer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.PlayerID)
	if err != nil {
		return nil, err
	}
	return &PlayerResponse{Player: player}, nil
}

func (s *Service) ReleasePlayer(ctx context.Context, req *PlayerMessage) (*PlayerResponse, error) {
	player, err := s.app.ReleasePlayer(ctx, req.Caller.TenantID, req.Caller.Actor(), req.PlayerID)
	if err != nil {
		return nil, err
	}
	return &PlayerResponse{Player: player}, nil
}

// DeleteTeam deletes a team and everything referencing it
func (s *Service) DeleteTeam(ctx context.Context, req *TeamMessage) (*DeleteTeamResult, error) {
	return s.app.DeleteTeam(ctx, req.Caller.TenantID, req.Caller.Actor(), req.TeamID)
}

func (s *Service) GetTeam(ctx context.Context, req *TeamMessage) (*TeamResponse, error) {
	team, err := s.app.GetTeam(ctx, req.Caller.TenantID, req.TeamID)
	if err != nil {
		return nil, err
	}
	return &TeamResponse{Team: team}, nil
}

func (s *Service) GetTeamByName(ctx context.Context, req *TeamByNameMessage) (*TeamResponse, error) {
	team, err := s.app.GetTeamByName(ctx, req.Caller.TenantID, req.Name)
	if err != nil {
		return nil, err
	}
	return &TeamResponse{Team: team}, nil
}

func (s *Service) ListTeams(ctx context.Context, req *ListTeamsMessage) (*TeamsResponse, error) {
	teams, err := s.app.ListTeams(ctx, req.Caller.TenantID, req.Division)
	if err != nil {
		return nil, err
	}
	return &TeamsResponse{Teams: teams}, nil
}

func (s *Service) GetPlayer(ctx context.Context, req *PlayerMessage) (*PlayerResponse, error) {
	player, err := s.app.GetPlayer(ctx, req.Caller.TenantID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	return &PlayerResponse{Player: player}, nil
}

func (s *Service) ListTeamPlayers(ctx context.Context, req *TeamMessage) (*PlayersResponse, error) {
	players, err := s.app.ListTeamPlayers(ctx, req.Caller.TenantID, req.TeamID)
	if err != nil {
		return nil, err
	}
	return &PlayersResponse{Players: players}, nil
}

func (s *Service) ListFreeAgents(ctx context.Context, req *TeamMessage) (*PlayersResponse, error) {
	players, err := s.app.ListFreeAgents(ctx, req.Caller.TenantID)
	if err != nil {
		return nil, err
	}
	return &PlayersResponse{Players: players}, nil
}

func (s *Service) Captains(ctx context.Context, req *TeamMessage) (*CaptainsResponse, error) {
	captains, err := s.app.Captains(ctx, req.Caller.TenantID, req.TeamID)
	if err != nil {
		return nil, err
	}
	return &CaptainsResponse{Captains: captains}, nil
}

func (s *Service) TeamOf(ctx context.Context, req *PlayerMessage) (*TeamResponse, error) {
	team, err := s.app.TeamOf(ctx, req.Caller.TenantID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	return &TeamResponse{Team: team}, nil
}

func (s *Service) RoleFor(ctx context.Context, req *TeamMessage) (*RoleResponse, error) {
	role, err := s.app.RoleFor(ctx, req.Caller.TenantID, req.Caller.Actor(), req.TeamID)
	if err != nil {
		return nil, err
	}
	return &RoleResponse{Role: role}, nil
}
