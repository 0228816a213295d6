package tenantstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const teamColumns = `id, name, division, manager_id, created_at`

func scanTeam(row interface{ Scan(...any) error }) (Team, error) {
	var i Team
	err := row.Scan(&i.ID, &i.Name, &i.Division, &i.ManagerID, &i.CreatedAt)
	return i, err
}

func (q *Queries) listTeams(ctx context.Context, query string, args ...any) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Team
	for rows.Next() {
		i, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createTeam = `-- name: CreateTeam :one
INSERT INTO teams (id, name, division, manager_id, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + teamColumns

type CreateTeamParams struct {
	ID        uuid.UUID
	Name      string
	Division  string
	ManagerID sql.NullString
	CreatedAt int64
}

func (q *Queries) CreateTeam(ctx context.Context, arg CreateTeamParams) (Team, error) {
	row := q.db.QueryRowContext(ctx, createTeam, arg.ID, arg.Name, arg.Division, arg.ManagerID, arg.CreatedAt)
	return scanTeam(row)
}

const getTeam = `-- name: GetTeam :one
SELECT ` + teamColumns + ` FROM teams WHERE id = ?`

func (q *Queries) GetTeam(ctx context.Context, id uuid.UUID) (Team, error) {
	return scanTeam(q.db.QueryRowContext(ctx, getTeam, id))
}

const getTeamByName = `-- name: GetTeamByName :one
SELECT ` + teamColumns + ` FROM teams WHERE name = ?`

func (q *Queries) GetTeamByName(ctx context.Context, name string) (Team, error) {
	return scanTeam(q.db.QueryRowContext(ctx, getTeamByName, name))
}

const getTeamByManager = `-- name: GetTeamByManager :one
SELECT ` + teamColumns + ` FROM teams WHERE manager_id = ?`

func (q *Queries) GetTeamByManager(ctx context.Context, managerID string) (Team, error) {
	return scanTeam(q.db.QueryRowContext(ctx, getTeamByManager, managerID))
}

const listTeams = `-- name: ListTeams :many
SELECT ` + teamColumns + ` FROM teams ORDER BY name`

func (q *Queries) ListTeams(ctx context.Context) ([]Team, error) {
	return q.listTeams(ctx, listTeams)
}

const listTeamsByDivision = `-- name: ListTeamsByDivision :many
SELECT ` + teamColumns + ` FROM teams WHERE division = ? ORDER BY name`

func (q *Queries) ListTeamsByDivision(ctx context.Context, division string) ([]Team, error) {
	return q.listTeams(ctx, listTeamsByDivision, division)
}

const setTeamManager = `-- name: SetTeamManager :execrows
UPDATE teams SET manager_id = ? WHERE id = ?`

type SetTeamManagerParams struct {
	ID        uuid.UUID
	ManagerID sql.NullString
}

func (q *Queries) SetTeamManager(ctx context.Context, arg SetTeamManagerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setTeamManager, arg.ManagerID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTeam = `-- name: DeleteTeam :execrows
DELETE FROM teams WHERE id = ?`

func (q *Queries) DeleteTeam(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTeam, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const addCaptain = `-- name: AddCaptain :exec
INSERT INTO team_captains (team_id, captain_id, created_at) VALUES (?, ?, ?)`

type AddCaptainParams struct {
	TeamID    uuid.UUID
	CaptainID string
	CreatedAt int64
}

func (q *Queries) AddCaptain(ctx context.Context, arg AddCaptainParams) error {
	_, err := q.db.ExecContext(ctx, addCaptain, arg.TeamID, arg.CaptainID, arg.CreatedAt)
	return err
}

const removeCaptain = `-- name: RemoveCaptain :execrows
DELETE FROM team_captains WHERE team_id = ? AND captain_id = ?`

type CaptainParams struct {
	TeamID    uuid.UUID
	CaptainID string
}

func (q *Queries) RemoveCaptain(ctx context.Context, arg CaptainParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, removeCaptain, arg.TeamID, arg.CaptainID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const isCaptain = `-- name: IsCaptain :one
SELECT EXISTS (SELECT 1 FROM team_captains WHERE team_id = ? AND captain_id = ?)`

func (q *Queries) IsCaptain(ctx context.Context, arg CaptainParams) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, isCaptain, arg.TeamID, arg.CaptainID).Scan(&exists)
	return exists, err
}

const listCaptains = `-- name: ListCaptains :many
SELECT captain_id FROM team_captains WHERE team_id = ? ORDER BY created_at, captain_id`

func (q *Queries) ListCaptains(ctx context.Context, teamID uuid.UUID) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listCaptains, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var captainID string
		if err := rows.Scan(&captainID); err != nil {
			return nil, err
		}
		items = append(items, captainID)
	}
	return items, rows.Err()
}

const listCaptainTeams = `-- name: ListCaptainTeams :many
SELECT t.id, t.name, t.division, t.manager_id, t.created_at
FROM teams t JOIN team_captains c ON c.team_id = t.id
WHERE c.captain_id = ?
ORDER BY t.name`

func (q *Queries) ListCaptainTeams(ctx context.Context, captainID string) ([]Team, error) {
	return q.listTeams(ctx, listCaptainTeams, captainID)
}

const deleteTeamCaptains = `-- name: DeleteTeamCaptains :exec
DELETE FROM team_captains WHERE team_id = ?`

func (q *Queries) DeleteTeamCaptains(ctx context.Context, teamID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteTeamCaptains, teamID)
	return err
}

const playerColumns = `actor_id, name, team_id, banned, transferable, contract_duration, release_clause, original_release_clause, created_at`

func scanPlayer(row interface{ Scan(...any) error }) (Player, error) {
	var i Player
	err := row.Scan(
		&i.ActorID,
		&i.Name,
		&i.TeamID,
		&i.Banned,
		&i.Transferable,
		&i.ContractDuration,
		&i.ReleaseClause,
		&i.OriginalReleaseClause,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) listPlayers(ctx context.Context, query string, args ...any) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createPlayer = `-- name: CreatePlayer :one
INSERT INTO players (actor_id, name, created_at) VALUES (?, ?, ?)
RETURNING ` + playerColumns

type CreatePlayerParams struct {
	ActorID   string
	Name      string
	CreatedAt int64
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, createPlayer, arg.ActorID, arg.Name, arg.CreatedAt))
}

const getPlayer = `-- name: GetPlayer :one
SELECT ` + playerColumns + ` FROM players WHERE actor_id = ?`

func (q *Queries) GetPlayer(ctx context.Context, actorID string) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayer, actorID))
}

const listTeamPlayers = `-- name: ListTeamPlayers :many
SELECT ` + playerColumns + ` FROM players WHERE team_id = ? ORDER BY name`

func (q *Queries) ListTeamPlayers(ctx context.Context, teamID uuid.UUID) ([]Player, error) {
	return q.listPlayers(ctx, listTeamPlayers, teamID)
}

const listFreeAgents = `-- name: ListFreeAgents :many
SELECT ` + playerColumns + ` FROM players WHERE team_id IS NULL AND banned = 0 ORDER BY name`

func (q *Queries) ListFreeAgents(ctx context.Context) ([]Player, error) {
	return q.listPlayers(ctx, listFreeAgents)
}

const listTransferablePlayers = `-- name: ListTransferablePlayers :many
SELECT ` + playerColumns + ` FROM players
WHERE transferable = 1
  AND actor_id NOT IN (SELECT manager_id FROM teams WHERE manager_id IS NOT NULL)
ORDER BY name`

func (q *Queries) ListTransferablePlayers(ctx context.Context) ([]Player, error) {
	return q.listPlayers(ctx, listTransferablePlayers)
}

const setPlayerBanned = `-- name: SetPlayerBanned :exec
UPDATE players SET banned = ? WHERE actor_id = ?`

type SetPlayerBannedParams struct {
	ActorID string
	Banned  bool
}

func (q *Queries) SetPlayerBanned(ctx context.Context, arg SetPlayerBannedParams) error {
	_, err := q.db.ExecContext(ctx, setPlayerBanned, arg.Banned, arg.ActorID)
	return err
}

const updatePlayerContract = `-- name: UpdatePlayerContract :exec
UPDATE players
SET team_id = ?, transferable = ?, contract_duration = ?, release_clause = ?, original_release_clause = ?
WHERE actor_id = ?`

type UpdatePlayerContractParams struct {
	ActorID               string
	TeamID                uuid.NullUUID
	Transferable          bool
	ContractDuration      sql.NullInt64
	ReleaseClause         sql.NullInt64
	OriginalReleaseClause sql.NullInt64
}

func (q *Queries) UpdatePlayerContract(ctx context.Context, arg UpdatePlayerContractParams) error {
	_, err := q.db.ExecContext(ctx, updatePlayerContract,
		arg.TeamID,
		arg.Transferable,
		arg.ContractDuration,
		arg.ReleaseClause,
		arg.OriginalReleaseClause,
		arg.ActorID,
	)
	return err
}

const releaseTeamPlayers = `-- name: ReleaseTeamPlayers :execrows
UPDATE players
SET team_id = NULL, transferable = 0, contract_duration = NULL, release_clause = NULL, original_release_clause = NULL
WHERE team_id = ?`

func (q *Queries) ReleaseTeamPlayers(ctx context.Context, teamID uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, releaseTeamPlayers, teamID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const decrementContracts = `-- name: DecrementContracts :execrows
UPDATE players SET contract_duration = contract_duration - 1 WHERE contract_duration > 0`

func (q *Queries) DecrementContracts(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, decrementContracts)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listExpiredContracts = `-- name: ListExpiredContracts :many
SELECT ` + playerColumns + ` FROM players WHERE contract_duration = 0 ORDER BY name`

func (q *Queries) ListExpiredContracts(ctx context.Context) ([]Player, error) {
	return q.listPlayers(ctx, listExpiredContracts)
}

const releaseExpiredContracts = `-- name: ReleaseExpiredContracts :execrows
UPDATE players
SET team_id = NULL, transferable = 0, contract_duration = NULL, release_clause = NULL, original_release_clause = NULL
WHERE contract_duration = 0`

func (q *Queries) ReleaseExpiredContracts(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, releaseExpiredContracts)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createBalance = `-- name: CreateBalance :exec
INSERT INTO club_balances (team_id, balance) VALUES (?, 0) ON CONFLICT (team_id) DO NOTHING`

func (q *Queries) CreateBalance(ctx context.Context, teamID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, createBalance, teamID)
	return err
}

const getBalance = `-- name: GetBalance :one
SELECT balance FROM club_balances WHERE team_id = ?`

func (q *Queries) GetBalance(ctx context.Context, teamID uuid.UUID) (int64, error) {
	var balance int64
	err := q.db.QueryRowContext(ctx, getBalance, teamID).Scan(&balance)
	return balance, err
}

const adjustBalance = `-- name: AdjustBalance :one
UPDATE club_balances SET balance = balance + ? WHERE team_id = ?
RETURNING balance`

type AdjustBalanceParams struct {
	TeamID uuid.UUID
	Delta  int64
}

func (q *Queries) AdjustBalance(ctx context.Context, arg AdjustBalanceParams) (int64, error) {
	var balance int64
	err := q.db.QueryRowContext(ctx, adjustBalance, arg.Delta, arg.TeamID).Scan(&balance)
	return balance, err
}

const deleteBalance = `-- name: DeleteBalance :exec
DELETE FROM club_balances WHERE team_id = ?`

func (q *Queries) DeleteBalance(ctx context.Context, teamID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteBalance, teamID)
	return err
}
