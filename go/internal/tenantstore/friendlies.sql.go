package tenantstore

import (
	"context"

	"github.com/google/uuid"
)

const tableColumns = `id, name, start_time, end_time, created_at`

func scanFriendlyTable(row interface{ Scan(...any) error }) (FriendlyTable, error) {
	var i FriendlyTable
	err := row.Scan(&i.ID, &i.Name, &i.StartTime, &i.EndTime, &i.CreatedAt)
	return i, err
}

const createFriendlyTable = `-- name: CreateFriendlyTable :one
INSERT INTO friendly_tables (id, name, start_time, end_time, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + tableColumns

type CreateFriendlyTableParams struct {
	ID        uuid.UUID
	Name      string
	StartTime string
	EndTime   string
	CreatedAt int64
}

func (q *Queries) CreateFriendlyTable(ctx context.Context, arg CreateFriendlyTableParams) (FriendlyTable, error) {
	row := q.db.QueryRowContext(ctx, createFriendlyTable, arg.ID, arg.Name, arg.StartTime, arg.EndTime, arg.CreatedAt)
	return scanFriendlyTable(row)
}

const getFriendlyTable = `-- name: GetFriendlyTable :one
SELECT ` + tableColumns + ` FROM friendly_tables WHERE id = ?`

func (q *Queries) GetFriendlyTable(ctx context.Context, id uuid.UUID) (FriendlyTable, error) {
	return scanFriendlyTable(q.db.QueryRowContext(ctx, getFriendlyTable, id))
}

const getLatestFriendlyTable = `-- name: GetLatestFriendlyTable :one
SELECT ` + tableColumns + ` FROM friendly_tables ORDER BY created_at DESC, rowid DESC LIMIT 1`

func (q *Queries) GetLatestFriendlyTable(ctx context.Context) (FriendlyTable, error) {
	return scanFriendlyTable(q.db.QueryRowContext(ctx, getLatestFriendlyTable))
}

const createTimeSlot = `-- name: CreateTimeSlot :exec
INSERT INTO time_slots (table_id, label, position, available) VALUES (?, ?, ?, 1)`

type CreateTimeSlotParams struct {
	TableID  uuid.UUID
	Label    string
	Position int64
}

func (q *Queries) CreateTimeSlot(ctx context.Context, arg CreateTimeSlotParams) error {
	_, err := q.db.ExecContext(ctx, createTimeSlot, arg.TableID, arg.Label, arg.Position)
	return err
}

const slotColumns = `table_id, label, position, available`

const listTimeSlots = `-- name: ListTimeSlots :many
SELECT ` + slotColumns + ` FROM time_slots WHERE table_id = ? ORDER BY position`

func (q *Queries) ListTimeSlots(ctx context.Context, tableID uuid.UUID) ([]TimeSlot, error) {
	rows, err := q.db.QueryContext(ctx, listTimeSlots, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TimeSlot
	for rows.Next() {
		var i TimeSlot
		if err := rows.Scan(&i.TableID, &i.Label, &i.Position, &i.Available); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type SlotParams struct {
	TableID uuid.UUID
	Label   string
}

const getTimeSlot = `-- name: GetTimeSlot :one
SELECT ` + slotColumns + ` FROM time_slots WHERE table_id = ? AND label = ?`

func (q *Queries) GetTimeSlot(ctx context.Context, arg SlotParams) (TimeSlot, error) {
	var i TimeSlot
	err := q.db.QueryRowContext(ctx, getTimeSlot, arg.TableID, arg.Label).Scan(&i.TableID, &i.Label, &i.Position, &i.Available)
	return i, err
}

const setSlotAvailable = `-- name: SetSlotAvailable :exec
UPDATE time_slots SET available = ? WHERE table_id = ? AND label = ?`

type SetSlotAvailableParams struct {
	TableID   uuid.UUID
	Label     string
	Available bool
}

func (q *Queries) SetSlotAvailable(ctx context.Context, arg SetSlotAvailableParams) error {
	_, err := q.db.ExecContext(ctx, setSlotAvailable, arg.Available, arg.TableID, arg.Label)
	return err
}

const requestColumns = `id, table_id, slot_label, requesting_team_id, requested_team_id, status, created_at, updated_at`

func scanFriendlyRequest(row interface{ Scan(...any) error }) (FriendlyRequest, error) {
	var i FriendlyRequest
	err := row.Scan(
		&i.ID,
		&i.TableID,
		&i.SlotLabel,
		&i.RequestingTeamID,
		&i.RequestedTeamID,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createFriendlyRequest = `-- name: CreateFriendlyRequest :one
INSERT INTO friendly_requests (id, table_id, slot_label, requesting_team_id, requested_team_id, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 'pending', ?, ?)
RETURNING ` + requestColumns

type CreateFriendlyRequestParams struct {
	ID               uuid.UUID
	TableID          uuid.UUID
	SlotLabel        string
	RequestingTeamID uuid.UUID
	RequestedTeamID  uuid.UUID
	CreatedAt        int64
}

func (q *Queries) CreateFriendlyRequest(ctx context.Context, arg CreateFriendlyRequestParams) (FriendlyRequest, error) {
	row := q.db.QueryRowContext(ctx, createFriendlyRequest,
		arg.ID,
		arg.TableID,
		arg.SlotLabel,
		arg.RequestingTeamID,
		arg.RequestedTeamID,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return scanFriendlyRequest(row)
}

const getFriendlyRequest = `-- name: GetFriendlyRequest :one
SELECT ` + requestColumns + ` FROM friendly_requests WHERE id = ?`

func (q *Queries) GetFriendlyRequest(ctx context.Context, id uuid.UUID) (FriendlyRequest, error) {
	return scanFriendlyRequest(q.db.QueryRowContext(ctx, getFriendlyRequest, id))
}

const resolveFriendlyRequest = `-- name: ResolveFriendlyRequest :execrows
UPDATE friendly_requests SET status = ?, updated_at = ? WHERE id = ? AND status = 'pending'`

type ResolveFriendlyRequestParams struct {
	ID        uuid.UUID
	Status    string
	UpdatedAt int64
}

func (q *Queries) ResolveFriendlyRequest(ctx context.Context, arg ResolveFriendlyRequestParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, resolveFriendlyRequest, arg.Status, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listPendingRequestsForTeam = `-- name: ListPendingRequestsForTeam :many
SELECT ` + requestColumns + ` FROM friendly_requests
WHERE requested_team_id = ? AND status = 'pending'
ORDER BY created_at, rowid`

func (q *Queries) ListPendingRequestsForTeam(ctx context.Context, teamID uuid.UUID) ([]FriendlyRequest, error) {
	rows, err := q.db.QueryContext(ctx, listPendingRequestsForTeam, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FriendlyRequest
	for rows.Next() {
		i, err := scanFriendlyRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteTeamRequests = `-- name: DeleteTeamRequests :exec
DELETE FROM friendly_requests WHERE requesting_team_id = ? OR requested_team_id = ?`

func (q *Queries) DeleteTeamRequests(ctx context.Context, teamID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteTeamRequests, teamID, teamID)
	return err
}

const matchColumns = `id, table_id, slot_label, team1_id, team2_id, status, created_at`

func scanFriendlyMatch(row interface{ Scan(...any) error }) (FriendlyMatch, error) {
	var i FriendlyMatch
	err := row.Scan(&i.ID, &i.TableID, &i.SlotLabel, &i.Team1ID, &i.Team2ID, &i.Status, &i.CreatedAt)
	return i, err
}

const createFriendlyMatch = `-- name: CreateFriendlyMatch :one
INSERT INTO friendly_matches (id, table_id, slot_label, team1_id, team2_id, status, created_at)
VALUES (?, ?, ?, ?, ?, 'confirmed', ?)
RETURNING ` + matchColumns

type CreateFriendlyMatchParams struct {
	ID        uuid.UUID
	TableID   uuid.UUID
	SlotLabel string
	Team1ID   uuid.UUID
	Team2ID   uuid.UUID
	CreatedAt int64
}

func (q *Queries) CreateFriendlyMatch(ctx context.Context, arg CreateFriendlyMatchParams) (FriendlyMatch, error) {
	row := q.db.QueryRowContext(ctx, createFriendlyMatch, arg.ID, arg.TableID, arg.SlotLabel, arg.Team1ID, arg.Team2ID, arg.CreatedAt)
	return scanFriendlyMatch(row)
}

const getFriendlyMatch = `-- name: GetFriendlyMatch :one
SELECT ` + matchColumns + ` FROM friendly_matches WHERE id = ?`

func (q *Queries) GetFriendlyMatch(ctx context.Context, id uuid.UUID) (FriendlyMatch, error) {
	return scanFriendlyMatch(q.db.QueryRowContext(ctx, getFriendlyMatch, id))
}

const listFriendlyMatches = `-- name: ListFriendlyMatches :many
SELECT m.id, m.table_id, m.slot_label, m.team1_id, m.team2_id, m.status, m.created_at
FROM friendly_matches m
JOIN time_slots s ON s.table_id = m.table_id AND s.label = m.slot_label
WHERE m.table_id = ?
ORDER BY s.position`

func (q *Queries) ListFriendlyMatches(ctx context.Context, tableID uuid.UUID) ([]FriendlyMatch, error) {
	rows, err := q.db.QueryContext(ctx, listFriendlyMatches, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FriendlyMatch
	for rows.Next() {
		i, err := scanFriendlyMatch(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const teamPlaysInSlot = `-- name: TeamPlaysInSlot :one
SELECT EXISTS (
    SELECT 1 FROM friendly_matches
    WHERE table_id = ? AND slot_label = ?
      AND (team1_id IN (?, ?) OR team2_id IN (?, ?))
)`

type TeamPlaysInSlotParams struct {
	TableID uuid.UUID
	Label   string
	TeamA   uuid.UUID
	TeamB   uuid.UUID
}

// TeamPlaysInSlot reports whether either team already has a match in the slot
func (q *Queries) TeamPlaysInSlot(ctx context.Context, arg TeamPlaysInSlotParams) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, teamPlaysInSlot,
		arg.TableID, arg.Label,
		arg.TeamA, arg.TeamB,
		arg.TeamA, arg.TeamB,
	).Scan(&exists)
	return exists, err
}

const deleteFriendlyMatch = `-- name: DeleteFriendlyMatch :execrows
DELETE FROM friendly_matches WHERE id = ?`

func (q *Queries) DeleteFriendlyMatch(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteFriendlyMatch, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const freeTeamSlots = `-- name: FreeTeamSlots :exec
UPDATE time_slots SET available = 1
WHERE EXISTS (
    SELECT 1 FROM friendly_matches m
    WHERE m.table_id = time_slots.table_id AND m.slot_label = time_slots.label
      AND (m.team1_id = ? OR m.team2_id = ?)
)`

func (q *Queries) FreeTeamSlots(ctx context.Context, teamID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, freeTeamSlots, teamID, teamID)
	return err
}

const deleteTeamMatches = `-- name: DeleteTeamMatches :execrows
DELETE FROM friendly_matches WHERE team1_id = ? OR team2_id = ?`

func (q *Queries) DeleteTeamMatches(ctx context.Context, teamID uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTeamMatches, teamID, teamID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllFriendlyRequests = `-- name: DeleteAllFriendlyRequests :exec
DELETE FROM friendly_requests`

const deleteAllFriendlyMatches = `-- name: DeleteAllFriendlyMatches :exec
DELETE FROM friendly_matches`

const deleteAllTimeSlots = `-- name: DeleteAllTimeSlots :exec
DELETE FROM time_slots`

const deleteAllFriendlyTables = `-- name: DeleteAllFriendlyTables :execrows
DELETE FROM friendly_tables`

// DeleteAllFriendlies clears every table with its slots, requests and matches
func (q *Queries) DeleteAllFriendlies(ctx context.Context) (int64, error) {
	for _, query := range []string{deleteAllFriendlyRequests, deleteAllFriendlyMatches, deleteAllTimeSlots} {
		if _, err := q.db.ExecContext(ctx, query); err != nil {
			return 0, err
		}
	}
	result, err := q.db.ExecContext(ctx, deleteAllFriendlyTables)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
