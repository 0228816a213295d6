package friendlies

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

const (
	settingBoardTable   = "board_table_id"
	settingBoardMessage = "board_message_ref"
)

// Querier defines what the scheduler repository needs from the tenant store
type Querier interface {
	CreateFriendlyTable(ctx context.Context, arg tenantstore.CreateFriendlyTableParams) (tenantstore.FriendlyTable, error)
	GetFriendlyTable(ctx context.Context, id uuid.UUID) (tenantstore.FriendlyTable, error)
	GetLatestFriendlyTable(ctx context.Context) (tenantstore.FriendlyTable, error)
	CreateTimeSlot(ctx context.Context, arg tenantstore.CreateTimeSlotParams) error
	ListTimeSlots(ctx context.Context, tableID uuid.UUID) ([]tenantstore.TimeSlot, error)
	GetTimeSlot(ctx context.Context, arg tenantstore.SlotParams) (tenantstore.TimeSlot, error)
	SetSlotAvailable(ctx context.Context, arg tenantstore.SetSlotAvailableParams) error
	CreateFriendlyRequest(ctx context.Context, arg tenantstore.CreateFriendlyRequestParams) (tenantstore.FriendlyRequest, error)
	GetFriendlyRequest(ctx context.Context, id uuid.UUID) (tenantstore.FriendlyRequest, error)
	ResolveFriendlyRequest(ctx context.Context, arg tenantstore.ResolveFriendlyRequestParams) (int64, error)
	ListPendingRequestsForTeam(ctx context.Context, teamID uuid.UUID) ([]tenantstore.FriendlyRequest, error)
	CreateFriendlyMatch(ctx context.Context, arg tenantstore.CreateFriendlyMatchParams) (tenantstore.FriendlyMatch, error)
	GetFriendlyMatch(ctx context.Context, id uuid.UUID) (tenantstore.FriendlyMatch, error)
	ListFriendlyMatches(ctx context.Context, tableID uuid.UUID) ([]tenantstore.FriendlyMatch, error)
	TeamPlaysInSlot(ctx context.Context, arg tenantstore.TeamPlaysInSlotParams) (bool, error)
	DeleteFriendlyMatch(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteAllFriendlies(ctx context.Context) (int64, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, arg tenantstore.SetSettingParams) error
	DeleteSetting(ctx context.Context, key string) error
}

// Repository implements timetable access on one tenant transaction
type Repository struct {
	queries Querier
}

// NewRepository creates a new scheduler repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateTable inserts a table and its slots in label order
func (r *Repository) CreateTable(ctx context.Context, table *models.FriendlyTable, labels []string) (*models.FriendlyTable, error) {
	dbTable, err := r.queries.CreateFriendlyTable(ctx, tenantstore.CreateFriendlyTableParams{
		ID:        table.ID,
		Name:      table.Name,
		StartTime: table.Start,
		EndTime:   table.End,
		CreatedAt: table.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create friendly table: %w", err)
	}
	slots := make([]models.TimeSlot, len(labels))
	for i, label := range labels {
		if err := r.queries.CreateTimeSlot(ctx, tenantstore.CreateTimeSlotParams{
			TableID:  table.ID,
			Label:    label,
			Position: int64(i),
		}); err != nil {
			return nil, fmt.Errorf("failed to create slot %s: %w", label, err)
		}
		slots[i] = models.TimeSlot{Label: label, Position: i, Available: true}
	}
	return dbTableToModel(dbTable, slots), nil
}

// GetTable retrieves a table with its slots
func (r *Repository) GetTable(ctx context.Context, id uuid.UUID) (*models.FriendlyTable, error) {
	dbTable, err := r.queries.GetFriendlyTable(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leagueerr.ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendly table: %w", err)
	}
	return r.withSlots(ctx, dbTable)
}

// LatestTable retrieves the most recently created table
func (r *Repository) LatestTable(ctx context.Context) (*models.FriendlyTable, error) {
	dbTable, err := r.queries.GetLatestFriendlyTable(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leagueerr.ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest friendly table: %w", err)
	}
	return r.withSlots(ctx, dbTable)
}

// ResolveTable returns the table with id, or the latest one when id is nil
func (r *Repository) ResolveTable(ctx context.Context, id *uuid.UUID) (*models.FriendlyTable, error) {
	if id == nil {
		return r.LatestTable(ctx)
	}
	return r.GetTable(ctx, *id)
}

// GetSlot retrieves one slot of a table
func (r *Repository) GetSlot(ctx context.Context, tableID uuid.UUID, label string) (*models.TimeSlot, error) {
	dbSlot, err := r.queries.GetTimeSlot(ctx, tenantstore.SlotParams{TableID: tableID, Label: label})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leagueerr.ErrSlotNotFound.WithMessage("slot %s is not part of the table", label)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	slot := dbSlotToModel(dbSlot)
	return &slot, nil
}

// SlotFree reports whether the slot is open and neither team already plays in it
func (r *Repository) SlotFree(ctx context.Context, slot *models.TimeSlot, tableID, teamA, teamB uuid.UUID) (bool, error) {
	if !slot.Available {
		return false, nil
	}
	busy, err := r.queries.TeamPlaysInSlot(ctx, tenantstore.TeamPlaysInSlotParams{
		TableID: tableID,
		Label:   slot.Label,
		TeamA:   teamA,
		TeamB:   teamB,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return !busy, nil
}

// SetSlotAvailable toggles a slot
func (r *Repository) SetSlotAvailable(ctx context.Context, tableID uuid.UUID, label string, available bool) error {
	if err := r.queries.SetSlotAvailable(ctx, tenantstore.SetSlotAvailableParams{
		TableID:   tableID,
		Label:     label,
		Available: available,
	}); err != nil {
		return fmt.Errorf("failed to update slot: %w", err)
	}
	return nil
}

// CreateRequest inserts a pending request
func (r *Repository) CreateRequest(ctx context.Context, req *models.FriendlyRequest) (*models.FriendlyRequest, error) {
	dbReq, err := r.queries.CreateFriendlyRequest(ctx, tenantstore.CreateFriendlyRequestParams{
		ID:               req.ID,
		TableID:          req.TableID,
		SlotLabel:        req.Slot,
		RequestingTeamID: req.RequestingTeamID,
		RequestedTeamID:  req.RequestedTeamID,
		CreatedAt:        req.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create friendly request: %w", err)
	}
	return dbRequestToModel(dbReq), nil
}

// GetRequest retrieves a request by ID
func (r *Repository) GetRequest(ctx context.Context, id uuid.UUID) (*models.FriendlyRequest, error) {
	dbReq, err := r.queries.GetFriendlyRequest(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leagueerr.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendly request: %w", err)
	}
	return dbRequestToModel(dbReq), nil
}

// ResolveRequest moves a pending request to status
func (r *Repository) ResolveRequest(ctx context.Context, req *models.FriendlyRequest, status models.RequestStatus, at int64) error {
	n, err := r.queries.ResolveFriendlyRequest(ctx, tenantstore.ResolveFriendlyRequestParams{
		ID:        req.ID,
		Status:    string(status),
		UpdatedAt: at,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve friendly request: %w", err)
	}
	if n == 0 {
		return leagueerr.ErrInvalidState.WithMessage("request is no longer pending")
	}
	req.Status = status
	req.UpdatedAt = sqlutil.FromMillis(at)
	return nil
}

// PendingRequests lists the pending requests addressed to a team
func (r *Repository) PendingRequests(ctx context.Context, teamID uuid.UUID) ([]models.FriendlyRequest, error) {
	dbReqs, err := r.queries.ListPendingRequestsForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendly requests: %w", err)
	}
	reqs := make([]models.FriendlyRequest, len(dbReqs))
	for i, dbReq := range dbReqs {
		reqs[i] = *dbRequestToModel(dbReq)
	}
	return reqs, nil
}

// CreateMatch inserts a confirmed match
func (r *Repository) CreateMatch(ctx context.Context, match *models.FriendlyMatch) (*models.FriendlyMatch, error) {
	dbMatch, err := r.queries.CreateFriendlyMatch(ctx, tenantstore.CreateFriendlyMatchParams{
		ID:        match.ID,
		TableID:   match.TableID,
		SlotLabel: match.Slot,
		Team1ID:   match.Team1ID,
		Team2ID:   match.Team2ID,
		CreatedAt: match.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create friendly match: %w", err)
	}
	return dbMatchToModel(dbMatch), nil
}

// GetMatch retrieves a match by ID
func (r *Repository) GetMatch(ctx context.Context, id uuid.UUID) (*models.FriendlyMatch, error) {
	dbMatch, err := r.queries.GetFriendlyMatch(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leagueerr.ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendly match: %w", err)
	}
	return dbMatchToModel(dbMatch), nil
}

// Matches lists the matches of a table in slot order
func (r *Repository) Matches(ctx context.Context, tableID uuid.UUID) ([]models.FriendlyMatch, error) {
	dbMatches, err := r.queries.ListFriendlyMatches(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendly matches: %w", err)
	}
	matches := make([]models.FriendlyMatch, len(dbMatches))
	for i, dbMatch := range dbMatches {
		matches[i] = *dbMatchToModel(dbMatch)
	}
	return matches, nil
}

// DeleteMatch removes a match and frees its slot
func (r *Repository) DeleteMatch(ctx context.Context, match *models.FriendlyMatch) error {
	n, err := r.queries.DeleteFriendlyMatch(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("failed to delete friendly match: %w", err)
	}
	if n == 0 {
		return leagueerr.ErrMatchNotFound
	}
	return r.SetSlotAvailable(ctx, match.TableID, match.Slot, true)
}

// Reset removes every table with its slots, requests and matches
func (r *Repository) Reset(ctx context.Context) (int, error) {
	n, err := r.queries.DeleteAllFriendlies(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reset friendly tables: %w", err)
	}
	for _, key := range []string{settingBoardTable, settingBoardMessage} {
		if err := r.queries.DeleteSetting(ctx, key); err != nil {
			return 0, fmt.Errorf("failed to clear board message: %w", err)
		}
	}
	return int(n), nil
}

// SetBoardMessage remembers the message that displays a table
func (r *Repository) SetBoardMessage(ctx context.Context, msg models.BoardMessage) error {
	for key, value := range map[string]string{
		settingBoardTable:   msg.TableID.String(),
		settingBoardMessage: msg.MessageRef,
	} {
		if err := r.queries.SetSetting(ctx, tenantstore.SetSettingParams{Key: key, Value: value}); err != nil {
			return fmt.Errorf("failed to store board message: %w", err)
		}
	}
	return nil
}

// BoardMessage returns the remembered board message, nil when none was set
func (r *Repository) BoardMessage(ctx context.Context) (*models.BoardMessage, error) {
	tableID, err := r.queries.GetSetting(ctx, settingBoardTable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read board message: %w", err)
	}
	ref, err := r.queries.GetSetting(ctx, settingBoardMessage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read board message: %w", err)
	}
	id, err := uuid.Parse(tableID)
	if err != nil {
		return nil, fmt.Errorf("invalid board table id %q: %w", tableID, err)
	}
	return &models.BoardMessage{TableID: id, MessageRef: ref}, nil
}

func (r *Repository) withSlots(ctx context.Context, dbTable tenantstore.FriendlyTable) (*models.FriendlyTable, error) {
	dbSlots, err := r.queries.ListTimeSlots(ctx, dbTable.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	slots := make([]models.TimeSlot, len(dbSlots))
	for i, dbSlot := range dbSlots {
		slots[i] = dbSlotToModel(dbSlot)
	}
	return dbTableToModel(dbTable, slots), nil
}

func dbTableToModel(dbTable tenantstore.FriendlyTable, slots []models.TimeSlot) *models.FriendlyTable {
	return &models.FriendlyTable{
		ID:        dbTable.ID,
		Name:      dbTable.Name,
		Start:     dbTable.StartTime,
		End:       dbTable.EndTime,
		Slots:     slots,
		CreatedAt: sqlutil.FromMillis(dbTable.CreatedAt),
	}
}

func dbSlotToModel(dbSlot tenantstore.TimeSlot) models.TimeSlot {
	return models.TimeSlot{
		Label:     dbSlot.Label,
		Position:  int(dbSlot.Position),
		Available: dbSlot.Available,
	}
}

func dbRequestToModel(dbReq tenantstore.FriendlyRequest) *models.FriendlyRequest {
	return &models.FriendlyRequest{
		ID:               dbReq.ID,
		TableID:          dbReq.TableID,
		Slot:             dbReq.SlotLabel,
		RequestingTeamID: dbReq.RequestingTeamID,
		RequestedTeamID:  dbReq.RequestedTeamID,
		Status:           models.RequestStatus(dbReq.Status),
		CreatedAt:        sqlutil.FromMillis(dbReq.CreatedAt),
		UpdatedAt:        sqlutil.FromMillis(dbReq.UpdatedAt),
	}
}

func dbMatchToModel(dbMatch tenantstore.FriendlyMatch) *models.FriendlyMatch {
	return &models.FriendlyMatch{
		ID:        dbMatch.ID,
		TableID:   dbMatch.TableID,
		Slot:      dbMatch.SlotLabel,
		Team1ID:   dbMatch.Team1ID,
		Team2ID:   dbMatch.Team2ID,
		Status:    models.MatchStatus(dbMatch.Status),
		CreatedAt: sqlutil.FromMillis(dbMatch.CreatedAt),
	}
}
