package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a registered actor that can be signed by a team
type Player struct {
	ActorID               ActorID    `json:"actor_id"`
	Name                  string     `json:"name"`
	TeamID                *uuid.UUID `json:"team_id,omitempty"`
	Banned                bool       `json:"banned"`
	Transferable          bool       `json:"transferable"`
	ContractDuration      *int       `json:"contract_duration,omitempty"`        // months remaining
	ReleaseClause         *int64     `json:"release_clause,omitempty"`           // nil when the player has no clause
	OriginalReleaseClause *int64     `json:"original_release_clause,omitempty"` // clause before market listing
	CreatedAt             time.Time  `json:"created_at"`
}

// IsFreeAgent reports whether the player has no owning team
func (p *Player) IsFreeAgent() bool {
	return p.TeamID == nil
}

// PlaysFor reports whether the player is owned by teamID
func (p *Player) PlaysFor(teamID uuid.UUID) bool {
	return p.TeamID != nil && *p.TeamID == teamID
}

// HasClause reports whether the player carries a positive release clause
func (p *Player) HasClause() bool {
	return p.ReleaseClause != nil && *p.ReleaseClause > 0
}

// Release clears ownership and every contract field, turning the player into a free agent
func (p *Player) Release() {
	p.TeamID = nil
	p.Transferable = false
	p.ContractDuration = nil
	p.ReleaseClause = nil
	p.OriginalReleaseClause = nil
}

// ListOnMarket marks the player transferable, remembering the current clause.
// A non-nil newClause replaces the clause while listed.
func (p *Player) ListOnMarket(newClause *int64) {
	p.OriginalReleaseClause = p.ReleaseClause
	if newClause != nil {
		clause := *newClause
		p.ReleaseClause = &clause
	}
	p.Transferable = true
}

// Unlist takes the player off the market and restores the pre-listing clause
func (p *Player) Unlist() {
	if !p.Transferable {
		return
	}
	p.ReleaseClause = p.OriginalReleaseClause
	p.OriginalReleaseClause = nil
	p.Transferable = false
}

// SignWith moves the player to teamID under a new contract
func (p *Player) SignWith(teamID uuid.UUID, duration *int, clause *int64) {
	id := teamID
	p.TeamID = &id
	p.Transferable = false
	p.ContractDuration = duration
	p.ReleaseClause = clause
	p.OriginalReleaseClause = nil
}
