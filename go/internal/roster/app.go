package roster

import (
	"context"
	"errors"
	"strings"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// StoreProvider resolves the store of a tenant
type StoreProvider interface {
	Get(ctx context.Context, tenant models.TenantID) (*tenantstore.Store, error)
}

// App handles roster business logic
type App struct {
	stores StoreProvider
	clock  clockwork.Clock
}

// NewApp creates a new roster App
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

// RequireAdmin fails unless actor holds the platform admin permission
func RequireAdmin(actor models.Actor) error {
	if !actor.Admin {
		return leagueerr.ErrUnauthorized.WithMessage("only administrators can perform this operation")
	}
	return nil
}

// RequirePlayerAuthority fails unless actor is an admin or manages the player's team
func (r *Repository) RequirePlayerAuthority(ctx context.Context, actor models.Actor, player *models.Player) error {
	if actor.Admin {
		return nil
	}
	if player.TeamID == nil {
		return leagueerr.ErrUnauthorized.WithMessage("only administrators can act on free agents")
	}
	team, err := r.GetTeam(ctx, *player.TeamID)
	if err != nil {
		return err
	}
	if !team.IsManagedBy(actor.ID) {
		return leagueerr.ErrUnauthorized.WithMessage("only the manager of %s can act on this player", team.Name)
	}
	return nil
}

// CreateTeam creates a team with an empty balance
func (a *App) CreateTeam(ctx context.Context, tenant models.TenantID, actor models.Actor, req CreateTeamRequest) (*models.Team, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Division = strings.TrimSpace(req.Division)
	if req.Name == "" {
		return nil, leagueerr.ErrInvalidInput.WithMessage("team name is required")
	}
	if req.ManagerID != nil && *req.ManagerID == "" {
		return nil, leagueerr.ErrInvalidInput.WithMessage("manager id must not be empty")
	}

	var team *models.Team
	err := a.run(ctx, tenant, func(r *Repository) error {
		if _, err := r.GetTeamByName(ctx, req.Name); err == nil {
			return leagueerr.ErrTeamExists.WithMessage("team %q already exists", req.Name)
		} else if !errors.Is(err, leagueerr.ErrTeamNotFound) {
			return err
		}
		if req.ManagerID != nil {
			if err := r.checkManagerCandidate(ctx, *req.ManagerID); err != nil {
				return err
			}
		}

		var err error
		team, err = r.CreateTeam(ctx, uuid.New(), req, a.clock.Now().UnixMilli())
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("team_id", team.ID.String()).
		Str("name", team.Name).
		Str("division", team.Division).
		Msg("Created team")
	return team, nil
}

// checkManagerCandidate enforces that a manager manages one team and is never a player
func (r *Repository) checkManagerCandidate(ctx context.Context, manager models.ActorID) error {
	managed, err := r.FindTeamByManager(ctx, manager)
	if err != nil {
		return err
	}
	if managed != nil {
		return leagueerr.ErrAlreadyManager.WithMessage("%s already manages %s", manager, managed.Name)
	}
	player, err := r.FindPlayer(ctx, manager)
	if err != nil {
		return err
	}
	if player != nil {
		return leagueerr.ErrActorIsPlayer
	}
	return nil
}

// AssignManager sets the manager of a team that has none
func (a *App) AssignManager(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, manager models.ActorID) (*models.Team, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	if manager == "" {
		return nil, leagueerr.ErrInvalidInput.WithMessage("manager id is required")
	}

	var team *models.Team
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		team, err = r.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if team.HasManager() {
			return leagueerr.ErrAlreadyHasManager.WithMessage("%s already has a manager", team.Name)
		}
		if err := r.checkManagerCandidate(ctx, manager); err != nil {
			return err
		}
		if err := r.SetManager(ctx, teamID, &manager); err != nil {
			return err
		}
		team.ManagerID = &manager
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("team_id", teamID.String()).
		Str("manager_id", string(manager)).
		Msg("Assigned manager")
	return team, nil
}

// UnassignManager removes the manager of a team
func (a *App) UnassignManager(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID) (*models.Team, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var team *models.Team
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		team, err = r.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if !team.HasManager() {
			return leagueerr.ErrNoManager.WithMessage("%s has no manager", team.Name)
		}
		if err := r.SetManager(ctx, teamID, nil); err != nil {
			return err
		}
		team.ManagerID = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("tenant_id", string(tenant)).Str("team_id", teamID.String()).Msg("Unassigned manager")
	return team, nil
}

// AddCaptain grants captaincy of a team
func (a *App) AddCaptain(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, captain models.ActorID) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if captain == "" {
		return leagueerr.ErrInvalidInput.WithMessage("captain id is required")
	}

	err := a.run(ctx, tenant, func(r *Repository) error {
		if _, err := r.GetTeam(ctx, teamID); err != nil {
			return err
		}
		already, err := r.IsCaptain(ctx, teamID, captain)
		if err != nil {
			return err
		}
		if already {
			return leagueerr.ErrAlreadyCaptain
		}
		return r.AddCaptain(ctx, teamID, captain, a.clock.Now().UnixMilli())
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("team_id", teamID.String()).
		Str("captain_id", string(captain)).
		Msg("Added captain")
	return nil
}

// RemoveCaptain revokes captaincy of a team
func (a *App) RemoveCaptain(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, captain models.ActorID) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}

	err := a.run(ctx, tenant, func(r *Repository) error {
		if _, err := r.GetTeam(ctx, teamID); err != nil {
			return err
		}
		return r.RemoveCaptain(ctx, teamID, captain)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("team_id", teamID.String()).
		Str("captain_id", string(captain)).
		Msg("Removed captain")
	return nil
}

// RegisterPlayer registers req.ActorID as a player; actors register themselves unless admin
func (a *App) RegisterPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, req RegisterPlayerRequest) (*models.Player, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.ActorID == "" || req.Name == "" {
		return nil, leagueerr.ErrInvalidInput.WithMessage("actor id and name are required")
	}
	if req.ActorID != actor.ID && !actor.Admin {
		return nil, leagueerr.ErrUnauthorized.WithMessage("only administrators can register other actors")
	}

	var player *models.Player
	err := a.run(ctx, tenant, func(r *Repository) error {
		managed, err := r.FindTeamByManager(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if managed != nil {
			return leagueerr.ErrActorIsManager.WithMessage("%s manages %s and cannot register as a player", req.ActorID, managed.Name)
		}
		existing, err := r.FindPlayer(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if existing != nil {
			return leagueerr.ErrAlreadyRegistered
		}
		player, err = r.CreatePlayer(ctx, req, a.clock.Now().UnixMilli())
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("tenant_id", string(tenant)).Str("player_id", string(player.ActorID)).Msg("Registered player")
	return player, nil
}

// BanPlayer bans a player and takes them off the market
func (a *App) BanPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID) (*models.Player, error) {
	return a.setBanned(ctx, tenant, actor, playerID, true)
}

// UnbanPlayer lifts a player's ban
func (a *App) UnbanPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID) (*models.Player, error) {
	return a.setBanned(ctx, tenant, actor, playerID, false)
}

func (a *App) setBanned(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID, banned bool) (*models.Player, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var player *models.Player
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		player, err = r.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if err := r.SetBanned(ctx, playerID, banned); err != nil {
			return err
		}
		player.Banned = banned
		if banned && player.Transferable {
			player.Unlist()
			return r.SaveContract(ctx, player)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("player_id", string(playerID)).
		Bool("banned", banned).
		Msg("Updated player ban")
	return player, nil
}

// ReleasePlayer turns a player into a free agent
func (a *App) ReleasePlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID) (*models.Player, error) {
	var (
		player *models.Player
		from   uuid.UUID
	)
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		player, err = r.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if player.IsFreeAgent() {
			return leagueerr.ErrFreeAgent
		}
		if err := r.RequirePlayerAuthority(ctx, actor, player); err != nil {
			return err
		}
		from = *player.TeamID
		player.Release()
		return r.SaveContract(ctx, player)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("player_id", string(playerID)).
		Str("team_id", from.String()).
		Msg("Released player")
	return player, nil
}

// DeleteTeam deletes a team, releasing its players and purging everything that references it
func (a *App) DeleteTeam(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID) (*DeleteTeamResult, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var result *DeleteTeamResult
	err := a.run(ctx, tenant, func(r *Repository) error {
		if _, err := r.GetTeam(ctx, teamID); err != nil {
			return err
		}
		var err error
		result, err = r.DeleteTeamCascade(ctx, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("team_id", teamID.String()).
		Int("released_players", result.ReleasedPlayers).
		Int("purged_offers", result.PurgedOffers).
		Int("deleted_matches", result.DeletedMatches).
		Msg("Deleted team")
	return result, nil
}

// GetTeam retrieves a team by ID
func (a *App) GetTeam(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) (*models.Team, error) {
	var team *models.Team
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		team, err = r.GetTeam(ctx, teamID)
		return err
	})
	return team, err
}

// GetTeamByName retrieves a team by name
func (a *App) GetTeamByName(ctx context.Context, tenant models.TenantID, name string) (*models.Team, error) {
	var team *models.Team
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		team, err = r.GetTeamByName(ctx, strings.TrimSpace(name))
		return err
	})
	return team, err
}

// ListTeams lists teams, optionally in one division
func (a *App) ListTeams(ctx context.Context, tenant models.TenantID, division *string) ([]models.Team, error) {
	var teams []models.Team
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		teams, err = r.ListTeams(ctx, division)
		return err
	})
	return teams, err
}

// GetPlayer retrieves a player
func (a *App) GetPlayer(ctx context.Context, tenant models.TenantID, playerID models.ActorID) (*models.Player, error) {
	var player *models.Player
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		player, err = r.GetPlayer(ctx, playerID)
		return err
	})
	return player, err
}

// ListTeamPlayers lists the players of a team
func (a *App) ListTeamPlayers(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) ([]models.Player, error) {
	var players []models.Player
	err := a.run(ctx, tenant, func(r *Repository) error {
		if _, err := r.GetTeam(ctx, teamID); err != nil {
			return err
		}
		var err error
		players, err = r.ListTeamPlayers(ctx, teamID)
		return err
	})
	return players, err
}

// ListFreeAgents lists players without a team
func (a *App) ListFreeAgents(ctx context.Context, tenant models.TenantID) ([]models.Player, error) {
	var players []models.Player
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		players, err = r.ListFreeAgents(ctx)
		return err
	})
	return players, err
}

// Captains lists the captains of a team
func (a *App) Captains(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) ([]models.ActorID, error) {
	var captains []models.ActorID
	err := a.run(ctx, tenant, func(r *Repository) error {
		if _, err := r.GetTeam(ctx, teamID); err != nil {
			return err
		}
		var err error
		captains, err = r.Captains(ctx, teamID)
		return err
	})
	return captains, err
}

// TeamOf returns the team actor manages, or else the first team actor captains
func (a *App) TeamOf(ctx context.Context, tenant models.TenantID, actorID models.ActorID) (*models.Team, error) {
	var team *models.Team
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		team, err = r.TeamOf(ctx, actorID)
		return err
	})
	return team, err
}

// TeamOf returns the team actor manages, or else the first team actor captains
func (r *Repository) TeamOf(ctx context.Context, actorID models.ActorID) (*models.Team, error) {
	managed, err := r.FindTeamByManager(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if managed != nil {
		return managed, nil
	}
	captained, err := r.TeamsCaptainedBy(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(captained) == 0 {
		return nil, leagueerr.ErrTeamNotFound.WithMessage("%s neither manages nor captains a team", actorID)
	}
	return r.GetTeam(ctx, captained[0].ID)
}

// RoleFor evaluates the authority actor holds over a team
func (a *App) RoleFor(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID) (models.Role, error) {
	role := models.RoleNone
	err := a.run(ctx, tenant, func(r *Repository) error {
		var err error
		role, err = r.RoleFor(ctx, actor, teamID)
		return err
	})
	return role, err
}
