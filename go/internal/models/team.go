package models

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a club inside a tenant's league
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Division  string    `json:"division"`
	ManagerID *ActorID  `json:"manager_id,omitempty"`
	Captains  []ActorID `json:"captains,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasManager reports whether a manager is assigned to the team
func (t *Team) HasManager() bool {
	return t.ManagerID != nil
}

// IsManagedBy reports whether actor is the team's manager
func (t *Team) IsManagedBy(actor ActorID) bool {
	return t.ManagerID != nil && *t.ManagerID == actor
}

// ClubBalance is the ledger of a single team.
type ClubBalance struct {
	TeamID  uuid.UUID `json:"team_id"`
	Balance int64     `json:"balance"`
}
