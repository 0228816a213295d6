package roster

import (
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/google/uuid"
)

// CreateTeamRequest represents the data needed to create a team
type CreateTeamRequest struct {
	Name      string          `json:"name"`
	Division  string          `json:"division"`
	ManagerID *models.ActorID `json:"manager_id,omitempty"`
}

// RegisterPlayerRequest represents a player registration
type RegisterPlayerRequest struct {
	ActorID models.ActorID `json:"actor_id"`
	Name    string         `json:"name"`
}

// DeleteTeamResult summarizes a team deletion cascade
type DeleteTeamResult struct {
	TeamID          uuid.UUID `json:"team_id"`
	ReleasedPlayers int       `json:"released_players"`
	PurgedOffers    int       `json:"purged_offers"`
	DeletedMatches  int       `json:"deleted_matches"`
}
