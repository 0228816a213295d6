package tenantstore

import (
	"database/sql"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID
	Name      string
	Division  string
	ManagerID sql.NullString
	CreatedAt int64
}

type Player struct {
	ActorID               string
	Name                  string
	TeamID                uuid.NullUUID
	Banned                bool
	Transferable          bool
	ContractDuration      sql.NullInt64
	ReleaseClause         sql.NullInt64
	OriginalReleaseClause sql.NullInt64
	CreatedAt             int64
}

type TransferOffer struct {
	ID               uuid.UUID
	Kind             string
	PlayerID         string
	FromTeamID       uuid.NullUUID
	ToTeamID         uuid.NullUUID
	ManagerID        string
	Price            int64
	ContractDuration sql.NullInt64
	ReleaseClause    sql.NullInt64
	Status           string
	CreatedAt        int64
	UpdatedAt        int64
}

type TransferRecordRow struct {
	OfferID    uuid.UUID
	PlayerID   string
	PlayerName string
	FromTeam   sql.NullString
	ToTeam     sql.NullString
	Price      int64
	Status     string
	CreatedAt  int64
}

type FriendlyTable struct {
	ID        uuid.UUID
	Name      string
	StartTime string
	EndTime   string
	CreatedAt int64
}

type TimeSlot struct {
	TableID   uuid.UUID
	Label     string
	Position  int64
	Available bool
}

type FriendlyMatch struct {
	ID        uuid.UUID
	TableID   uuid.UUID
	SlotLabel string
	Team1ID   uuid.UUID
	Team2ID   uuid.UUID
	Status    string
	CreatedAt int64
}

type FriendlyRequest struct {
	ID               uuid.UUID
	TableID          uuid.UUID
	SlotLabel        string
	RequestingTeamID uuid.UUID
	RequestedTeamID  uuid.UUID
	Status           string
	CreatedAt        int64
	UpdatedAt        int64
}

type Screenshot struct {
	ID           uuid.UUID
	ActorID      string
	DisplayName  string
	Tag          string
	DetectedTime sql.NullString
	ChannelRef   string
	ImageRef     string
	Status       string
	CreatedAt    int64
}
