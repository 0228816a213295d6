package transfers

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

// Querier defines what the ledger repository needs from the tenant store
type Querier interface {
	CreateOffer(ctx context.Context, arg tenantstore.CreateOfferParams) (tenantstore.TransferOffer, error)
	GetOffer(ctx context.Context, id uuid.UUID) (tenantstore.TransferOffer, error)
	CloseOffer(ctx context.Context, arg tenantstore.CloseOfferParams) (int64, error)
	HasOpenOffer(ctx context.Context, arg tenantstore.HasOpenOfferParams) (bool, error)
	ListOpenOffersByManager(ctx context.Context, managerID string) ([]tenantstore.TransferOffer, error)
	ListOpenOffersForPlayer(ctx context.Context, playerID string) ([]tenantstore.TransferOffer, error)
	ListPlayerTransfers(ctx context.Context, playerID string) ([]tenantstore.TransferRecordRow, error)
	ListTeamTransfers(ctx context.Context, teamID uuid.UUID) ([]tenantstore.TransferRecordRow, error)
	ListRecentTransfers(ctx context.Context, limit int64) ([]tenantstore.TransferRecordRow, error)
	GetBalance(ctx context.Context, teamID uuid.UUID) (int64, error)
	AdjustBalance(ctx context.Context, arg tenantstore.AdjustBalanceParams) (int64, error)
	DecrementContracts(ctx context.Context) (int64, error)
	ListExpiredContracts(ctx context.Context) ([]tenantstore.Player, error)
	ReleaseExpiredContracts(ctx context.Context) (int64, error)
}

// Repository implements offer log and balance access on one tenant transaction
type Repository struct {
	queries Querier
}

// NewRepository creates a new ledger repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateOffer inserts an offer
func (r *Repository) CreateOffer(ctx context.Context, offer *models.TransferOffer) (*models.TransferOffer, error) {
	dbOffer, err := r.queries.CreateOffer(ctx, tenantstore.CreateOfferParams{
		ID:               offer.ID,
		Kind:             string(offer.Kind),
		PlayerID:         string(offer.PlayerID),
		FromTeamID:       sqlutil.ToNullUUID(offer.FromTeamID),
		ToTeamID:         sqlutil.ToNullUUID(offer.ToTeamID),
		ManagerID:        string(offer.ManagerID),
		Price:            offer.Price,
		ContractDuration: sqlutil.ToSqlInt(offer.ContractDuration),
		ReleaseClause:    sqlutil.ToSqlInt64(offer.ReleaseClause),
		Status:           string(offer.Status),
		CreatedAt:        offer.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}
	return r.dbOfferToModel(dbOffer), nil
}

// GetOffer retrieves an offer by ID
func (r *Repository) GetOffer(ctx context.Context, id uuid.UUID) (*models.TransferOffer, error) {
	dbOffer, err := r.queries.GetOffer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leagueerr.ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return r.dbOfferToModel(dbOffer), nil
}

// CloseOffer moves an open offer to a terminal status
func (r *Repository) CloseOffer(ctx context.Context, offer *models.TransferOffer, status models.OfferStatus, at int64) error {
	n, err := r.queries.CloseOffer(ctx, tenantstore.CloseOfferParams{
		ID:        offer.ID,
		Status:    string(status),
		UpdatedAt: at,
	})
	if err != nil {
		return fmt.Errorf("failed to update offer status: %w", err)
	}
	if n == 0 {
		return leagueerr.ErrInvalidState.WithMessage("offer is no longer open")
	}
	offer.Status = status
	offer.UpdatedAt = sqlutil.FromMillis(at)
	return nil
}

// HasOpenOffer reports whether manager already has an open offer for player
func (r *Repository) HasOpenOffer(ctx context.Context, manager, player models.ActorID) (bool, error) {
	open, err := r.queries.HasOpenOffer(ctx, tenantstore.HasOpenOfferParams{
		ManagerID: string(manager),
		PlayerID:  string(player),
	})
	if err != nil {
		return false, fmt.Errorf("failed to check open offers: %w", err)
	}
	return open, nil
}

// OpenOffersByManager lists the open offers a manager made
func (r *Repository) OpenOffersByManager(ctx context.Context, manager models.ActorID) ([]models.TransferOffer, error) {
	dbOffers, err := r.queries.ListOpenOffersByManager(ctx, string(manager))
	if err != nil {
		return nil, fmt.Errorf("failed to list manager offers: %w", err)
	}
	return r.dbOffersToModels(dbOffers), nil
}

// OpenOffersForPlayer lists the open offers addressed to a player
func (r *Repository) OpenOffersForPlayer(ctx context.Context, player models.ActorID) ([]models.TransferOffer, error) {
	dbOffers, err := r.queries.ListOpenOffersForPlayer(ctx, string(player))
	if err != nil {
		return nil, fmt.Errorf("failed to list player offers: %w", err)
	}
	return r.dbOffersToModels(dbOffers), nil
}

// PlayerHistory lists every offer involving a player, newest first
func (r *Repository) PlayerHistory(ctx context.Context, player models.ActorID) ([]models.TransferRecord, error) {
	rows, err := r.queries.ListPlayerTransfers(ctx, string(player))
	if err != nil {
		return nil, fmt.Errorf("failed to list player transfers: %w", err)
	}
	return r.dbRecordsToModels(rows), nil
}

// TeamHistory lists every offer from or to a team, newest first
func (r *Repository) TeamHistory(ctx context.Context, teamID uuid.UUID) ([]models.TransferRecord, error) {
	rows, err := r.queries.ListTeamTransfers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team transfers: %w", err)
	}
	return r.dbRecordsToModels(rows), nil
}

// RecentTransfers lists the latest completed or clause-paid transfers
func (r *Repository) RecentTransfers(ctx context.Context, limit int) ([]models.TransferRecord, error) {
	rows, err := r.queries.ListRecentTransfers(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transfers: %w", err)
	}
	return r.dbRecordsToModels(rows), nil
}

// Balance returns the balance of a team
func (r *Repository) Balance(ctx context.Context, teamID uuid.UUID) (int64, error) {
	balance, err := r.queries.GetBalance(ctx, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, leagueerr.ErrTeamNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Credit adds amount to the balance of a team
func (r *Repository) Credit(ctx context.Context, teamID uuid.UUID, amount int64) (int64, error) {
	return r.adjust(ctx, teamID, amount)
}

// Debit removes amount from the balance of a team, refusing to go negative
func (r *Repository) Debit(ctx context.Context, teamID uuid.UUID, amount int64) (int64, error) {
	balance, err := r.Balance(ctx, teamID)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, leagueerr.ErrInsufficientFunds.WithMessage("balance %d is below %d", balance, amount)
	}
	return r.adjust(ctx, teamID, -amount)
}

func (r *Repository) adjust(ctx context.Context, teamID uuid.UUID, delta int64) (int64, error) {
	balance, err := r.queries.AdjustBalance(ctx, tenantstore.AdjustBalanceParams{TeamID: teamID, Delta: delta})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, leagueerr.ErrTeamNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return balance, nil
}

// AdvanceContracts decrements every running contract and releases the expired ones
func (r *Repository) AdvanceContracts(ctx context.Context) (*SeasonResult, error) {
	decremented, err := r.queries.DecrementContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement contracts: %w", err)
	}
	expired, err := r.queries.ListExpiredContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired contracts: %w", err)
	}
	if _, err := r.queries.ReleaseExpiredContracts(ctx); err != nil {
		return nil, fmt.Errorf("failed to release expired contracts: %w", err)
	}

	released := make([]models.Player, len(expired))
	for i, p := range expired {
		released[i] = models.Player{
			ActorID:   models.ActorID(p.ActorID),
			Name:      p.Name,
			Banned:    p.Banned,
			CreatedAt: sqlutil.FromMillis(p.CreatedAt),
		}
	}
	return &SeasonResult{Decremented: int(decremented), Released: released}, nil
}

// Helper function to convert DB offer to model
func (r *Repository) dbOfferToModel(dbOffer tenantstore.TransferOffer) *models.TransferOffer {
	return &models.TransferOffer{
		ID:               dbOffer.ID,
		Kind:             models.OfferKind(dbOffer.Kind),
		PlayerID:         models.ActorID(dbOffer.PlayerID),
		FromTeamID:       sqlutil.FromNullUUID(dbOffer.FromTeamID),
		ToTeamID:         sqlutil.FromNullUUID(dbOffer.ToTeamID),
		ManagerID:        models.ActorID(dbOffer.ManagerID),
		Price:            dbOffer.Price,
		ContractDuration: sqlutil.FromSqlInt(dbOffer.ContractDuration),
		ReleaseClause:    sqlutil.FromSqlInt64(dbOffer.ReleaseClause),
		Status:           models.OfferStatus(dbOffer.Status),
		CreatedAt:        sqlutil.FromMillis(dbOffer.CreatedAt),
		UpdatedAt:        sqlutil.FromMillis(dbOffer.UpdatedAt),
	}
}

func (r *Repository) dbOffersToModels(dbOffers []tenantstore.TransferOffer) []models.TransferOffer {
	offers := make([]models.TransferOffer, len(dbOffers))
	for i, dbOffer := range dbOffers {
		offers[i] = *r.dbOfferToModel(dbOffer)
	}
	return offers
}

func (r *Repository) dbRecordsToModels(rows []tenantstore.TransferRecordRow) []models.TransferRecord {
	records := make([]models.TransferRecord, len(rows))
	for i, row := range rows {
		records[i] = models.TransferRecord{
			OfferID:    row.OfferID,
			PlayerID:   models.ActorID(row.PlayerID),
			PlayerName: row.PlayerName,
			FromTeam:   sqlutil.FromSqlString(row.FromTeam, ""),
			ToTeam:     sqlutil.FromSqlString(row.ToTeam, ""),
			Price:      row.Price,
			Status:     models.OfferStatus(row.Status),
			CreatedAt:  sqlutil.FromMillis(row.CreatedAt),
		}
	}
	return records
}
