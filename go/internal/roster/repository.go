package roster

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

// Querier defines what the repository needs from the tenant store
type Querier interface {
	CreateTeam(ctx context.Context, arg tenantstore.CreateTeamParams) (tenantstore.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (tenantstore.Team, error)
	GetTeamByName(ctx context.Context, name string) (tenantstore.Team, error)
	GetTeamByManager(ctx context.Context, managerID string) (tenantstore.Team, error)
	ListTeams(ctx context.Context) ([]tenantstore.Team, error)
	ListTeamsByDivision(ctx context.Context, division string) ([]tenantstore.Team, error)
	SetTeamManager(ctx context.Context, arg tenantstore.SetTeamManagerParams) (int64, error)
	DeleteTeam(ctx context.Context, id uuid.UUID) (int64, error)
	AddCaptain(ctx context.Context, arg tenantstore.AddCaptainParams) error
	RemoveCaptain(ctx context.Context, arg tenantstore.CaptainParams) (int64, error)
	IsCaptain(ctx context.Context, arg tenantstore.CaptainParams) (bool, error)
	ListCaptains(ctx context.Context, teamID uuid.UUID) ([]string, error)
	ListCaptainTeams(ctx context.Context, captainID string) ([]tenantstore.Team, error)
	DeleteTeamCaptains(ctx context.Context, teamID uuid.UUID) error
	CreatePlayer(ctx context.Context, arg tenantstore.CreatePlayerParams) (tenantstore.Player, error)
	GetPlayer(ctx context.Context, actorID string) (tenantstore.Player, error)
	ListTeamPlayers(ctx context.Context, teamID uuid.UUID) ([]tenantstore.Player, error)
	ListFreeAgents(ctx context.Context) ([]tenantstore.Player, error)
	ListTransferablePlayers(ctx context.Context) ([]tenantstore.Player, error)
	SetPlayerBanned(ctx context.Context, arg tenantstore.SetPlayerBannedParams) error
	UpdatePlayerContract(ctx context.Context, arg tenantstore.UpdatePlayerContractParams) error
	ReleaseTeamPlayers(ctx context.Context, teamID uuid.UUID) (int64, error)
	CreateBalance(ctx context.Context, teamID uuid.UUID) error
	DeleteBalance(ctx context.Context, teamID uuid.UUID) error
	DeleteTeamOffers(ctx context.Context, teamID uuid.UUID) (int64, error)
	FreeTeamSlots(ctx context.Context, teamID uuid.UUID) error
	DeleteTeamMatches(ctx context.Context, teamID uuid.UUID) (int64, error)
	DeleteTeamRequests(ctx context.Context, teamID uuid.UUID) error
}

// Repository implements roster data access on one tenant transaction
type Repository struct {
	queries Querier
}

// NewRepository creates a new roster repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateTeam inserts a team together with its empty balance
func (r *Repository) CreateTeam(ctx context.Context, id uuid.UUID, req CreateTeamRequest, createdAt int64) (*models.Team, error) {
	dbTeam, err := r.queries.CreateTeam(ctx, tenantstore.CreateTeamParams{
		ID:        id,
		Name:      req.Name,
		Division:  req.Division,
		ManagerID: sqlutil.ToSqlString(req.ManagerID),
		CreatedAt: createdAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	if err := r.queries.CreateBalance(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to create team balance: %w", err)
	}
	return r.dbTeamToModel(dbTeam, nil), nil
}

// GetTeam retrieves a team with its captains
func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	dbTeam, err := r.queries.GetTeam(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leagueerr.ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return r.withCaptains(ctx, dbTeam)
}

// GetTeamByName retrieves a team by its unique name
func (r *Repository) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	dbTeam, err := r.queries.GetTeamByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leagueerr.ErrTeamNotFound.WithMessage("team %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team by name: %w", err)
	}
	return r.withCaptains(ctx, dbTeam)
}

// FindTeamByManager returns the team managed by actor, or nil when there is none
func (r *Repository) FindTeamByManager(ctx context.Context, actor models.ActorID) (*models.Team, error) {
	dbTeam, err := r.queries.GetTeamByManager(ctx, string(actor))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team by manager: %w", err)
	}
	return r.withCaptains(ctx, dbTeam)
}

// ListTeams lists teams, optionally filtered by division
func (r *Repository) ListTeams(ctx context.Context, division *string) ([]models.Team, error) {
	var (
		dbTeams []tenantstore.Team
		err     error
	)
	if division != nil {
		dbTeams, err = r.queries.ListTeamsByDivision(ctx, *division)
	} else {
		dbTeams, err = r.queries.ListTeams(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	teams := make([]models.Team, len(dbTeams))
	for i, dbTeam := range dbTeams {
		team, err := r.withCaptains(ctx, dbTeam)
		if err != nil {
			return nil, err
		}
		teams[i] = *team
	}
	return teams, nil
}

// TeamsCaptainedBy lists the teams where actor is a captain
func (r *Repository) TeamsCaptainedBy(ctx context.Context, actor models.ActorID) ([]models.Team, error) {
	dbTeams, err := r.queries.ListCaptainTeams(ctx, string(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to list captain teams: %w", err)
	}
	teams := make([]models.Team, len(dbTeams))
	for i, dbTeam := range dbTeams {
		teams[i] = *r.dbTeamToModel(dbTeam, nil)
	}
	return teams, nil
}

// SetManager assigns or clears the manager of a team
func (r *Repository) SetManager(ctx context.Context, teamID uuid.UUID, manager *models.ActorID) error {
	n, err := r.queries.SetTeamManager(ctx, tenantstore.SetTeamManagerParams{
		ID:        teamID,
		ManagerID: sqlutil.ToSqlString(manager),
	})
	if err != nil {
		return fmt.Errorf("failed to set team manager: %w", err)
	}
	if n == 0 {
		return leagueerr.ErrTeamNotFound
	}
	return nil
}

// IsCaptain reports whether actor captains teamID
func (r *Repository) IsCaptain(ctx context.Context, teamID uuid.UUID, actor models.ActorID) (bool, error) {
	ok, err := r.queries.IsCaptain(ctx, tenantstore.CaptainParams{TeamID: teamID, CaptainID: string(actor)})
	if err != nil {
		return false, fmt.Errorf("failed to check captaincy: %w", err)
	}
	return ok, nil
}

// AddCaptain grants captaincy of teamID to actor
func (r *Repository) AddCaptain(ctx context.Context, teamID uuid.UUID, actor models.ActorID, createdAt int64) error {
	if err := r.queries.AddCaptain(ctx, tenantstore.AddCaptainParams{
		TeamID:    teamID,
		CaptainID: string(actor),
		CreatedAt: createdAt,
	}); err != nil {
		return fmt.Errorf("failed to add captain: %w", err)
	}
	return nil
}

// RemoveCaptain revokes captaincy, failing when actor was not a captain
func (r *Repository) RemoveCaptain(ctx context.Context, teamID uuid.UUID, actor models.ActorID) error {
	n, err := r.queries.RemoveCaptain(ctx, tenantstore.CaptainParams{TeamID: teamID, CaptainID: string(actor)})
	if err != nil {
		return fmt.Errorf("failed to remove captain: %w", err)
	}
	if n == 0 {
		return leagueerr.ErrNotCaptain
	}
	return nil
}

// Captains lists the captains of a team
func (r *Repository) Captains(ctx context.Context, teamID uuid.UUID) ([]models.ActorID, error) {
	ids, err := r.queries.ListCaptains(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list captains: %w", err)
	}
	captains := make([]models.ActorID, len(ids))
	for i, id := range ids {
		captains[i] = models.ActorID(id)
	}
	return captains, nil
}

// CreatePlayer registers a player record
func (r *Repository) CreatePlayer(ctx context.Context, req RegisterPlayerRequest, createdAt int64) (*models.Player, error) {
	dbPlayer, err := r.queries.CreatePlayer(ctx, tenantstore.CreatePlayerParams{
		ActorID:   string(req.ActorID),
		Name:      req.Name,
		CreatedAt: createdAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return r.dbPlayerToModel(dbPlayer), nil
}

// GetPlayer retrieves a player by actor id
func (r *Repository) GetPlayer(ctx context.Context, actor models.ActorID) (*models.Player, error) {
	player, err := r.FindPlayer(ctx, actor)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, leagueerr.ErrPlayerNotFound
	}
	return player, nil
}

// FindPlayer returns the player record of actor, or nil when not registered
func (r *Repository) FindPlayer(ctx context.Context, actor models.ActorID) (*models.Player, error) {
	dbPlayer, err := r.queries.GetPlayer(ctx, string(actor))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return r.dbPlayerToModel(dbPlayer), nil
}

// ListTeamPlayers lists the players owned by a team
func (r *Repository) ListTeamPlayers(ctx context.Context, teamID uuid.UUID) ([]models.Player, error) {
	dbPlayers, err := r.queries.ListTeamPlayers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team players: %w", err)
	}
	return r.dbPlayersToModels(dbPlayers), nil
}

// ListFreeAgents lists players without a team who are not banned
func (r *Repository) ListFreeAgents(ctx context.Context) ([]models.Player, error) {
	dbPlayers, err := r.queries.ListFreeAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list free agents: %w", err)
	}
	return r.dbPlayersToModels(dbPlayers), nil
}

// ListTransferable lists players on the market who do not manage a team
func (r *Repository) ListTransferable(ctx context.Context) ([]models.Player, error) {
	dbPlayers, err := r.queries.ListTransferablePlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transferable players: %w", err)
	}
	return r.dbPlayersToModels(dbPlayers), nil
}

// SetBanned updates the ban flag of a player
func (r *Repository) SetBanned(ctx context.Context, actor models.ActorID, banned bool) error {
	if err := r.queries.SetPlayerBanned(ctx, tenantstore.SetPlayerBannedParams{ActorID: string(actor), Banned: banned}); err != nil {
		return fmt.Errorf("failed to update player ban: %w", err)
	}
	return nil
}

// SaveContract writes the ownership, market and contract fields of p
func (r *Repository) SaveContract(ctx context.Context, p *models.Player) error {
	if err := r.queries.UpdatePlayerContract(ctx, tenantstore.UpdatePlayerContractParams{
		ActorID:               string(p.ActorID),
		TeamID:                sqlutil.ToNullUUID(p.TeamID),
		Transferable:          p.Transferable,
		ContractDuration:      sqlutil.ToSqlInt(p.ContractDuration),
		ReleaseClause:         sqlutil.ToSqlInt64(p.ReleaseClause),
		OriginalReleaseClause: sqlutil.ToSqlInt64(p.OriginalReleaseClause),
	}); err != nil {
		return fmt.Errorf("failed to update player contract: %w", err)
	}
	return nil
}

// RoleFor evaluates the authority actor holds over teamID
func (r *Repository) RoleFor(ctx context.Context, actor models.Actor, teamID uuid.UUID) (models.Role, error) {
	team, err := r.GetTeam(ctx, teamID)
	if err != nil {
		return models.RoleNone, err
	}
	return r.roleOn(ctx, actor, team)
}

func (r *Repository) roleOn(ctx context.Context, actor models.Actor, team *models.Team) (models.Role, error) {
	if team.IsManagedBy(actor.ID) {
		return models.RoleManager, nil
	}
	captain, err := r.IsCaptain(ctx, team.ID, actor.ID)
	if err != nil {
		return models.RoleNone, err
	}
	if captain {
		return models.RoleCaptain, nil
	}
	if actor.Admin {
		return models.RoleAdmin, nil
	}
	return models.RoleNone, nil
}

// DeleteTeamCascade removes a team and everything that references it
func (r *Repository) DeleteTeamCascade(ctx context.Context, teamID uuid.UUID) (*DeleteTeamResult, error) {
	result := &DeleteTeamResult{TeamID: teamID}

	released, err := r.queries.ReleaseTeamPlayers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to release team players: %w", err)
	}
	result.ReleasedPlayers = int(released)

	purged, err := r.queries.DeleteTeamOffers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to purge team offers: %w", err)
	}
	result.PurgedOffers = int(purged)

	if err := r.queries.FreeTeamSlots(ctx, teamID); err != nil {
		return nil, fmt.Errorf("failed to free team slots: %w", err)
	}
	matches, err := r.queries.DeleteTeamMatches(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete team matches: %w", err)
	}
	result.DeletedMatches = int(matches)
	if err := r.queries.DeleteTeamRequests(ctx, teamID); err != nil {
		return nil, fmt.Errorf("failed to delete team friendly requests: %w", err)
	}

	if err := r.queries.DeleteBalance(ctx, teamID); err != nil {
		return nil, fmt.Errorf("failed to delete team balance: %w", err)
	}
	if err := r.queries.DeleteTeamCaptains(ctx, teamID); err != nil {
		return nil, fmt.Errorf("failed to delete team captains: %w", err)
	}
	n, err := r.queries.DeleteTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete team: %w", err)
	}
	if n == 0 {
		return nil, leagueerr.ErrTeamNotFound
	}
	return result, nil
}

func (r *Repository) withCaptains(ctx context.Context, dbTeam tenantstore.Team) (*models.Team, error) {
	captains, err := r.Captains(ctx, dbTeam.ID)
	if err != nil {
		return nil, err
	}
	return r.dbTeamToModel(dbTeam, captains), nil
}

// Helper function to convert DB team to model
func (r *Repository) dbTeamToModel(dbTeam tenantstore.Team, captains []models.ActorID) *models.Team {
	return &models.Team{
		ID:        dbTeam.ID,
		Name:      dbTeam.Name,
		Division:  dbTeam.Division,
		ManagerID: sqlutil.FromSqlStringPtr[models.ActorID](dbTeam.ManagerID),
		Captains:  captains,
		CreatedAt: sqlutil.FromMillis(dbTeam.CreatedAt),
	}
}

// Helper function to convert DB player to model
func (r *Repository) dbPlayerToModel(dbPlayer tenantstore.Player) *models.Player {
	return &models.Player{
		ActorID:               models.ActorID(dbPlayer.ActorID),
		Name:                  dbPlayer.Name,
		TeamID:                sqlutil.FromNullUUID(dbPlayer.TeamID),
		Banned:                dbPlayer.Banned,
		Transferable:          dbPlayer.Transferable,
		ContractDuration:      sqlutil.FromSqlInt(dbPlayer.ContractDuration),
		ReleaseClause:         sqlutil.FromSqlInt64(dbPlayer.ReleaseClause),
		OriginalReleaseClause: sqlutil.FromSqlInt64(dbPlayer.OriginalReleaseClause),
		CreatedAt:             sqlutil.FromMillis(dbPlayer.CreatedAt),
	}
}

func (r *Repository) dbPlayersToModels(dbPlayers []tenantstore.Player) []models.Player {
	players := make([]models.Player, len(dbPlayers))
	for i, dbPlayer := range dbPlayers {
		players[i] = *r.dbPlayerToModel(dbPlayer)
	}
	return players
}
