package models

import (
	"time"

	"github.com/google/uuid"
)

// FriendlyTable is a named timetable holding a fixed, ordered set of slots
type FriendlyTable struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Start     string     `json:"start"`
	End       string     `json:"end"`
	Slots     []TimeSlot `json:"slots"`
	CreatedAt time.Time  `json:"created_at"`
}

// TimeSlot is a fixed-width label within a table
type TimeSlot struct {
	Label     string `json:"label"`
	Position  int    `json:"position"`
	Available bool   `json:"available"`
}

// MatchStatus is the state of a scheduled friendly
type MatchStatus string

const (
	MatchStatusConfirmed MatchStatus = "confirmed"
)

// FriendlyMatch is a confirmed friendly occupying one slot
type FriendlyMatch struct {
	ID        uuid.UUID   `json:"id"`
	TableID   uuid.UUID   `json:"table_id"`
	Slot      string      `json:"slot"`
	Team1ID   uuid.UUID   `json:"team1_id"`
	Team2ID   uuid.UUID   `json:"team2_id"`
	Status    MatchStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// Involves reports whether teamID plays in the match
func (m *FriendlyMatch) Involves(teamID uuid.UUID) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}

// RequestStatus is the state of a friendly request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// Decision is the answer of the requested team
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// FriendlyRequest asks the requested team to play in a given slot
type FriendlyRequest struct {
	ID               uuid.UUID     `json:"id"`
	TableID          uuid.UUID     `json:"table_id"`
	Slot             string        `json:"slot"`
	RequestingTeamID uuid.UUID     `json:"requesting_team_id"`
	RequestedTeamID  uuid.UUID     `json:"requested_team_id"`
	Status           RequestStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// SlotAvailable is the rendered state of a free slot
const SlotAvailable = "available"

// SlotView is one rendered row of a table
type SlotView struct {
	Label     string     `json:"label"`
	Available bool       `json:"available"`
	Status    string     `json:"status"` // "available" or "<team1> vs <team2>"
	MatchID   *uuid.UUID `json:"match_id,omitempty"`
	Team1     string     `json:"team1,omitempty"`
	Team2     string     `json:"team2,omitempty"`
}

// TableView is a pure read projection of a table
type TableView struct {
	TableID uuid.UUID  `json:"table_id"`
	Name    string     `json:"name"`
	Slots   []SlotView `json:"slots"`
}

// BoardMessage references the message the binding posted for a table
type BoardMessage struct {
	TableID    uuid.UUID `json:"table_id"`
	MessageRef string    `json:"message_ref"`
}
