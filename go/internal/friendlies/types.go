package friendlies

import (
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/google/uuid"
)

// CreateTableRequest describes a new timetable. Start and End are "HH:MM".
type CreateTableRequest struct {
	Name  string `json:"name,omitempty"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// FriendlyRequestInput asks the requested team to play in Slot of a table.
// A nil TableID targets the latest table.
type FriendlyRequestInput struct {
	TableID          *uuid.UUID `json:"table_id,omitempty"`
	RequestingTeamID uuid.UUID  `json:"requesting_team_id"`
	RequestedTeamID  uuid.UUID  `json:"requested_team_id"`
	Slot             string     `json:"slot"`
}

// ResolveResult is the outcome of answering a request
type ResolveResult struct {
	Request *models.FriendlyRequest `json:"request"`
	Match   *models.FriendlyMatch   `json:"match,omitempty"`
}
