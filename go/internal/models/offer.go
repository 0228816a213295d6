package models

import (
	"time"

	"github.com/google/uuid"
)

// OfferStatus is the lifecycle state of a transfer offer
type OfferStatus string

const (
	OfferStatusPending      OfferStatus = "pending"
	OfferStatusBoughtClause OfferStatus = "bought_clause"
	OfferStatusAccepted     OfferStatus = "accepted"
	OfferStatusRejected     OfferStatus = "rejected"
	OfferStatusCancelled    OfferStatus = "cancelled"
	OfferStatusFinalized    OfferStatus = "finalized"
)

// IsOpen reports whether the offer still awaits the player's answer
func (s OfferStatus) IsOpen() bool {
	return s == OfferStatusPending || s == OfferStatusBoughtClause
}

// IsValid reports whether s is a known status
func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusBoughtClause, OfferStatusAccepted,
		OfferStatusRejected, OfferStatusCancelled, OfferStatusFinalized:
		return true
	}
	return false
}

// OfferKind distinguishes negotiated contracts from release clause purchases
type OfferKind string

const (
	OfferKindContract OfferKind = "contract"
	OfferKindClause   OfferKind = "clause"
)

// TransferOffer is a row of the flat offer log
type TransferOffer struct {
	ID               uuid.UUID   `json:"id"`
	Kind             OfferKind   `json:"kind"`
	PlayerID         ActorID     `json:"player_id"`
	FromTeamID       *uuid.UUID  `json:"from_team_id,omitempty"`
	ToTeamID         *uuid.UUID  `json:"to_team_id,omitempty"`
	ManagerID        ActorID     `json:"manager_id"`
	Price            int64       `json:"price"`
	ContractDuration *int        `json:"contract_duration,omitempty"`
	ReleaseClause    *int64      `json:"release_clause,omitempty"`
	Status           OfferStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TransferRecord is an offer joined with player and team names, used by history listings.
// Empty team names mean free agency.
type TransferRecord struct {
	OfferID    uuid.UUID   `json:"offer_id"`
	PlayerID   ActorID     `json:"player_id"`
	PlayerName string      `json:"player_name"`
	FromTeam   string      `json:"from_team,omitempty"`
	ToTeam     string      `json:"to_team,omitempty"`
	Price      int64       `json:"price"`
	Status     OfferStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}
