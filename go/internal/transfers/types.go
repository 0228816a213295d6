package transfers

import (
	"github.com/GonzaloH5/league-bot/go/internal/models"
)

// CreateOfferRequest is a manager's contract proposal to a player
type CreateOfferRequest struct {
	PlayerID         models.ActorID `json:"player_id"`
	ReleaseClause    int64          `json:"release_clause"`
	ContractDuration int            `json:"contract_duration"`
	Price            int64          `json:"price"`
}

// PayClauseRequest is a manager's purchase of a player's release clause
type PayClauseRequest struct {
	PlayerID         models.ActorID `json:"player_id"`
	ContractDuration int            `json:"contract_duration"`
	NewClause        int64          `json:"new_clause"`
}

// AcceptResult is the outcome of an accepted offer
type AcceptResult struct {
	Offer  *models.TransferOffer `json:"offer"`
	Player *models.Player        `json:"player"`
}

// SeasonResult is the outcome of a season advance
type SeasonResult struct {
	Decremented int             `json:"decremented"`
	Released    []models.Player `json:"released"`
}

// MaxRecentTransfers bounds RecentTransfers
const MaxRecentTransfers = 25
