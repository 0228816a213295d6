package tenantstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const offerColumns = `id, kind, player_id, from_team_id, to_team_id, manager_id, price, contract_duration, release_clause, status, created_at, updated_at`

func scanOffer(row interface{ Scan(...any) error }) (TransferOffer, error) {
	var i TransferOffer
	err := row.Scan(
		&i.ID,
		&i.Kind,
		&i.PlayerID,
		&i.FromTeamID,
		&i.ToTeamID,
		&i.ManagerID,
		&i.Price,
		&i.ContractDuration,
		&i.ReleaseClause,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listOffers(ctx context.Context, query string, args ...any) ([]TransferOffer, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransferOffer
	for rows.Next() {
		i, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createOffer = `-- name: CreateOffer :one
INSERT INTO transfer_offers (
    id, kind, player_id, from_team_id, to_team_id, manager_id, price,
    contract_duration, release_clause, status, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + offerColumns

type CreateOfferParams struct {
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
}

func (q *Queries) CreateOffer(ctx context.Context, arg CreateOfferParams) (TransferOffer, error) {
	row := q.db.QueryRowContext(ctx, createOffer,
		arg.ID,
		arg.Kind,
		arg.PlayerID,
		arg.FromTeamID,
		arg.ToTeamID,
		arg.ManagerID,
		arg.Price,
		arg.ContractDuration,
		arg.ReleaseClause,
		arg.Status,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return scanOffer(row)
}

const getOffer = `-- name: GetOffer :one
SELECT ` + offerColumns + ` FROM transfer_offers WHERE id = ?`

func (q *Queries) GetOffer(ctx context.Context, id uuid.UUID) (TransferOffer, error) {
	return scanOffer(q.db.QueryRowContext(ctx, getOffer, id))
}

const closeOffer = `-- name: CloseOffer :execrows
UPDATE transfer_offers SET status = ?, updated_at = ?
WHERE id = ? AND status IN ('pending', 'bought_clause')`

type CloseOfferParams struct {
	ID        uuid.UUID
	Status    string
	UpdatedAt int64
}

// CloseOffer moves an open offer to a terminal status; zero rows means it was no longer open
func (q *Queries) CloseOffer(ctx context.Context, arg CloseOfferParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, closeOffer, arg.Status, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const hasOpenOffer = `-- name: HasOpenOffer :one
SELECT EXISTS (
    SELECT 1 FROM transfer_offers
    WHERE manager_id = ? AND player_id = ? AND status IN ('pending', 'bought_clause')
)`

type HasOpenOfferParams struct {
	ManagerID string
	PlayerID  string
}

func (q *Queries) HasOpenOffer(ctx context.Context, arg HasOpenOfferParams) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, hasOpenOffer, arg.ManagerID, arg.PlayerID).Scan(&exists)
	return exists, err
}

const listOpenOffersByManager = `-- name: ListOpenOffersByManager :many
SELECT ` + offerColumns + ` FROM transfer_offers
WHERE manager_id = ? AND status IN ('pending', 'bought_clause')
ORDER BY created_at DESC`

func (q *Queries) ListOpenOffersByManager(ctx context.Context, managerID string) ([]TransferOffer, error) {
	return q.listOffers(ctx, listOpenOffersByManager, managerID)
}

const listOpenOffersForPlayer = `-- name: ListOpenOffersForPlayer :many
SELECT ` + offerColumns + ` FROM transfer_offers
WHERE player_id = ? AND status IN ('pending', 'bought_clause')
ORDER BY created_at DESC`

func (q *Queries) ListOpenOffersForPlayer(ctx context.Context, playerID string) ([]TransferOffer, error) {
	return q.listOffers(ctx, listOpenOffersForPlayer, playerID)
}

const countTeamOffers = `-- name: CountTeamOffers :one
SELECT COUNT(*) FROM transfer_offers WHERE from_team_id = ? OR to_team_id = ?`

func (q *Queries) CountTeamOffers(ctx context.Context, teamID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countTeamOffers, teamID, teamID).Scan(&count)
	return count, err
}

const deleteTeamOffers = `-- name: DeleteTeamOffers :execrows
DELETE FROM transfer_offers WHERE from_team_id = ? OR to_team_id = ?`

func (q *Queries) DeleteTeamOffers(ctx context.Context, teamID uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTeamOffers, teamID, teamID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const transferRecordSelect = `SELECT o.id, o.player_id, p.name, ft.name, tt.name, o.price, o.status, o.created_at
FROM transfer_offers o
JOIN players p ON p.actor_id = o.player_id
LEFT JOIN teams ft ON ft.id = o.from_team_id
LEFT JOIN teams tt ON tt.id = o.to_team_id`

func (q *Queries) listTransferRecords(ctx context.Context, query string, args ...any) ([]TransferRecordRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransferRecordRow
	for rows.Next() {
		var i TransferRecordRow
		if err := rows.Scan(
			&i.OfferID,
			&i.PlayerID,
			&i.PlayerName,
			&i.FromTeam,
			&i.ToTeam,
			&i.Price,
			&i.Status,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listPlayerTransfers = `-- name: ListPlayerTransfers :many
` + transferRecordSelect + `
WHERE o.player_id = ?
ORDER BY o.created_at DESC, o.rowid DESC`

func (q *Queries) ListPlayerTransfers(ctx context.Context, playerID string) ([]TransferRecordRow, error) {
	return q.listTransferRecords(ctx, listPlayerTransfers, playerID)
}

const listTeamTransfers = `-- name: ListTeamTransfers :many
` + transferRecordSelect + `
WHERE o.from_team_id = ? OR o.to_team_id = ?
ORDER BY o.created_at DESC, o.rowid DESC`

func (q *Queries) ListTeamTransfers(ctx context.Context, teamID uuid.UUID) ([]TransferRecordRow, error) {
	return q.listTransferRecords(ctx, listTeamTransfers, teamID, teamID)
}

const listRecentTransfers = `-- name: ListRecentTransfers :many
` + transferRecordSelect + `
WHERE o.status IN ('accepted', 'finalized', 'bought_clause')
ORDER BY o.updated_at DESC, o.rowid DESC
LIMIT ?`

func (q *Queries) ListRecentTransfers(ctx context.Context, limit int64) ([]TransferRecordRow, error) {
	return q.listTransferRecords(ctx, listRecentTransfers, limit)
}
