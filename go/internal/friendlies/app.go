package friendlies

import (
	"context"
	"fmt"
	"strings"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/notify"
	"github.com/GonzaloH5/league-bot/go/internal/roster"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// StoreProvider resolves the store of a tenant
type StoreProvider interface {
	Get(ctx context.Context, tenant models.TenantID) (*tenantstore.Store, error)
}

// App schedules friendlies between teams on per-tenant timetables
type App struct {
	stores   StoreProvider
	notifier notify.Notifier
	clock    clockwork.Clock
}

// NewApp creates a new friendlies App
func NewApp(stores StoreProvider, notifier notify.Notifier, clock clockwork.Clock) *App {
	return &App{
		stores:   stores,
		notifier: notifier,
		clock:    clock,
	}
}

func (a *App) run(ctx context.Context, tenant models.TenantID, fn func(r *Repository, teams *roster.Repository) error) error {
	store, err := a.stores.Get(ctx, tenant)
	if err != nil {
		return err
	}
	return store.Run(ctx, func(q *tenantstore.Queries) error {
		return fn(NewRepository(q), roster.NewRepository(q))
	})
}

// requireScheduler loads teamID and checks that actor manages or captains it.
// Platform admins get no bypass here.
func requireScheduler(ctx context.Context, teams *roster.Repository, actor models.Actor, teamID uuid.UUID) (*models.Team, error) {
	team, err := teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	role, err := teams.RoleFor(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	if !role.CanSchedule() {
		return nil, leagueerr.ErrUnauthorized.WithMessage("only the manager or a captain of %s can do this", team.Name)
	}
	return team, nil
}

// staff returns the manager and captains of a team
func staff(team *models.Team) []models.ActorID {
	recipients := make([]models.ActorID, 0, len(team.Captains)+1)
	if team.ManagerID != nil {
		recipients = append(recipients, *team.ManagerID)
	}
	return append(recipients, team.Captains...)
}

// CreateTable generates a timetable with one slot every 30 minutes from Start to End
func (a *App) CreateTable(ctx context.Context, tenant models.TenantID, actor models.Actor, req CreateTableRequest) (*models.FriendlyTable, error) {
	if err := roster.RequireAdmin(actor); err != nil {
		return nil, err
	}
	labels, err := slotLabels(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("%s-%s", req.Start, req.End)
	}

	var table *models.FriendlyTable
	err = a.run(ctx, tenant, func(r *Repository, _ *roster.Repository) error {
		var err error
		table, err = r.CreateTable(ctx, &models.FriendlyTable{
			ID:        uuid.New(),
			Name:      name,
			Start:     req.Start,
			End:       req.End,
			CreatedAt: a.clock.Now(),
		}, labels)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("table_id", table.ID.String()).
		Int("slots", len(table.Slots)).
		Msg("Created friendly table")
	return table, nil
}

// LatestTable returns the most recently created table
func (a *App) LatestTable(ctx context.Context, tenant models.TenantID) (*models.FriendlyTable, error) {
	var table *models.FriendlyTable
	err := a.run(ctx, tenant, func(r *Repository, _ *roster.Repository) error {
		var err error
		table, err = r.LatestTable(ctx)
		return err
	})
	return table, err
}

// GetTable returns a table by ID
func (a *App) GetTable(ctx context.Context, tenant models.TenantID, tableID uuid.UUID) (*models.FriendlyTable, error) {
	var table *models.FriendlyTable
	err := a.run(ctx, tenant, func(r *Repository, _ *roster.Repository) error {
		var err error
		table, err = r.GetTable(ctx, tableID)
		return err
	})
	return table, err
}

// RequestFriendly asks another team to play in a free slot
func (a *App) RequestFriendly(ctx context.Context, tenant models.TenantID, actor models.Actor, in FriendlyRequestInput) (*models.FriendlyRequest, error) {
	var (
		req       *models.FriendlyRequest
		requester *models.Team
		requested *models.Team
	)
	err := a.run(ctx, tenant, func(r *Repository, teams *roster.Repository) error {
		var err error
		requester, err = requireScheduler(ctx, teams, actor, in.RequestingTeamID)
		if err != nil {
			return err
		}
		if in.RequestingTeamID == in.RequestedTeamID {
			return leagueerr.ErrSameTeam.WithMessage("a team cannot play against itself")
		}
		requested, err = teams.GetTeam(ctx, in.RequestedTeamID)
		if err != nil {
			return err
		}
		table, err := r.ResolveTable(ctx, in.TableID)
		if err != nil {
			return err
		}
		slot, err := r.GetSlot(ctx, table.ID, in.Slot)
		if err != nil {
			return err
		}
		free, err := r.SlotFree(ctx, slot, table.ID, requester.ID, requested.ID)
		if err != nil {
			return err
		}
		if !free {
			return leagueerr.ErrSlotUnavailable.WithMessage("slot %s is taken", slot.Label)
		}

		req, err = r.CreateRequest(ctx, &models.FriendlyRequest{
			ID:               uuid.New(),
			TableID:          table.ID,
			Slot:             slot.Label,
			RequestingTeamID: requester.ID,
			RequestedTeamID:  requested.ID,
			Status:           models.RequestStatusPending,
			CreatedAt:        a.clock.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("request_id", req.ID.String()).
		Str("requesting_team_id", requester.ID.String()).
		Str("requested_team_id", requested.ID.String()).
		Str("slot", req.Slot).
		Msg("Requested friendly")

	notify.Send(ctx, a.notifier, notify.Notification{
		TenantID:   tenant,
		Kind:       notify.KindFriendlyRequested,
		Recipients: staff(requested),
		Message:    fmt.Sprintf("%s wants to play a friendly at %s", requester.Name, req.Slot),
		Data:       requestData(req),
	})
	return req, nil
}

// ResolveRequest accepts or rejects a pending request on behalf of the requested team
func (a *App) ResolveRequest(ctx context.Context, tenant models.TenantID, actor models.Actor, requestID uuid.UUID, decision models.Decision) (*ResolveResult, error) {
	if decision != models.DecisionAccept && decision != models.DecisionReject {
		return nil, leagueerr.ErrInvalidDecision
	}

	var (
		result    = &ResolveResult{}
		requester *models.Team
		requested *models.Team
	)
	err := a.run(ctx, tenant, func(r *Repository, teams *roster.Repository) error {
		req, err := r.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		requested, err = requireScheduler(ctx, teams, actor, req.RequestedTeamID)
		if err != nil {
			return err
		}
		if req.Status != models.RequestStatusPending {
			return leagueerr.ErrInvalidState.WithMessage("request is %s", req.Status)
		}
		requester, err = teams.GetTeam(ctx, req.RequestingTeamID)
		if err != nil {
			return err
		}
		now := a.clock.Now()

		if decision == models.DecisionReject {
			result.Request = req
			return r.ResolveRequest(ctx, req, models.RequestStatusRejected, now.UnixMilli())
		}

		slot, err := r.GetSlot(ctx, req.TableID, req.Slot)
		if err != nil {
			return err
		}
		free, err := r.SlotFree(ctx, slot, req.TableID, requester.ID, requested.ID)
		if err != nil {
			return err
		}
		if !free {
			return leagueerr.ErrSlotUnavailable.WithMessage("slot %s was taken in the meantime", slot.Label)
		}
		result.Match, err = r.CreateMatch(ctx, &models.FriendlyMatch{
			ID:        uuid.New(),
			TableID:   req.TableID,
			Slot:      slot.Label,
			Team1ID:   requester.ID,
			Team2ID:   requested.ID,
			Status:    models.MatchStatusConfirmed,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
		if err := r.SetSlotAvailable(ctx, req.TableID, slot.Label, false); err != nil {
			return err
		}
		result.Request = req
		return r.ResolveRequest(ctx, req, models.RequestStatusAccepted, now.UnixMilli())
	})
	if err != nil {
		return nil, err
	}

	event := log.Info().
		Str("tenant_id", string(tenant)).
		Str("request_id", requestID.String()).
		Str("status", string(result.Request.Status))
	if result.Match != nil {
		event = event.Str("match_id", result.Match.ID.String())
	}
	event.Msg("Resolved friendly request")

	kind, verb := notify.KindFriendlyRejected, "rejected"
	if result.Match != nil {
		kind, verb = notify.KindFriendlyAccepted, "accepted"
	}
	notify.Send(ctx, a.notifier, notify.Notification{
		TenantID:   tenant,
		Kind:       kind,
		Recipients: staff(requester),
		Message:    fmt.Sprintf("%s %s your friendly at %s", requested.Name, verb, result.Request.Slot),
		Data:       requestData(result.Request),
	})
	return result, nil
}

// DeleteMatch cancels a confirmed friendly and frees its slot
func (a *App) DeleteMatch(ctx context.Context, tenant models.TenantID, actor models.Actor, matchID uuid.UUID) (*models.FriendlyMatch, error) {
	var (
		match      *models.FriendlyMatch
		recipients []models.ActorID
	)
	err := a.run(ctx, tenant, func(r *Repository, teams *roster.Repository) error {
		var err error
		match, err = r.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		allowed := false
		for _, teamID := range []uuid.UUID{match.Team1ID, match.Team2ID} {
			team, err := teams.GetTeam(ctx, teamID)
			if err != nil {
				return err
			}
			role, err := teams.RoleFor(ctx, actor, teamID)
			if err != nil {
				return err
			}
			allowed = allowed || role.CanSchedule()
			recipients = append(recipients, staff(team)...)
		}
		if !allowed {
			return leagueerr.ErrUnauthorized.WithMessage("only the managers or captains of the two teams can cancel this friendly")
		}
		return r.DeleteMatch(ctx, match)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("match_id", matchID.String()).
		Str("slot", match.Slot).
		Msg("Deleted friendly match")

	notify.Send(ctx, a.notifier, notify.Notification{
		TenantID:   tenant,
		Kind:       notify.KindFriendlyCancelled,
		Recipients: without(recipients, actor.ID),
		Message:    fmt.Sprintf("the friendly at %s was cancelled by %s", match.Slot, actor.ID),
		Data: map[string]string{
			"match_id": match.ID.String(),
			"table_id": match.TableID.String(),
			"slot":     match.Slot,
		},
	})
	return match, nil
}

// RenderTable projects a table into slot-ordered rows
func (a *App) RenderTable(ctx context.Context, tenant models.TenantID, tableID uuid.UUID) (*models.TableView, error) {
	var view *models.TableView
	err := a.run(ctx, tenant, func(r *Repository, teams *roster.Repository) error {
		table, err := r.GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		matches, err := r.Matches(ctx, tableID)
		if err != nil {
			return err
		}
		bySlot := make(map[string]models.FriendlyMatch, len(matches))
		for _, m := range matches {
			bySlot[m.Slot] = m
		}
		names := make(map[uuid.UUID]string)
		teamName := func(id uuid.UUID) (string, error) {
			if name, ok := names[id]; ok {
				return name, nil
			}
			team, err := teams.GetTeam(ctx, id)
			if err != nil {
				return "", err
			}
			names[id] = team.Name
			return team.Name, nil
		}

		view = &models.TableView{TableID: table.ID, Name: table.Name, Slots: make([]models.SlotView, len(table.Slots))}
		for i, slot := range table.Slots {
			row := models.SlotView{Label: slot.Label, Available: slot.Available, Status: models.SlotAvailable}
			if m, ok := bySlot[slot.Label]; ok {
				matchID := m.ID
				if row.Team1, err = teamName(m.Team1ID); err != nil {
					return err
				}
				if row.Team2, err = teamName(m.Team2ID); err != nil {
					return err
				}
				row.MatchID = &matchID
				row.Status = fmt.Sprintf("%s vs %s", row.Team1, row.Team2)
			} else if !slot.Available {
				row.Status = "occupied"
			}
			view.Slots[i] = row
		}
		return nil
	})
	return view, err
}

// PendingRequests lists the requests awaiting an answer from a team
func (a *App) PendingRequests(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) ([]models.FriendlyRequest, error) {
	var reqs []models.FriendlyRequest
	err := a.run(ctx, tenant, func(r *Repository, teams *roster.Repository) error {
		if _, err := teams.GetTeam(ctx, teamID); err != nil {
			return err
		}
		var err error
		reqs, err = r.PendingRequests(ctx, teamID)
		return err
	})
	return reqs, err
}

// Matches lists the confirmed friendlies of a table
func (a *App) Matches(ctx context.Context, tenant models.TenantID, tableID uuid.UUID) ([]models.FriendlyMatch, error) {
	var matches []models.FriendlyMatch
	err := a.run(ctx, tenant, func(r *Repository, _ *roster.Repository) error {
		if _, err := r.GetTable(ctx, tableID); err != nil {
			return err
		}
		var err error
		matches, err = r.Matches(ctx, tableID)
		return err
	})
	return matches, err
}

// ResetTables removes every table of the tenant together with its requests and matches
func (a *App) ResetTables(ctx context.Context, tenant models.TenantID, actor models.Actor) (int, error) {
	if err := roster.RequireAdmin(actor); err != nil {
		return 0, err
	}
	var removed int
	err := a.run(ctx, tenant, func(r *Repository, _ *roster.Repository) error {
		var err error
		removed, err = r.Reset(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	log.Info().Str("tenant_id", string(tenant)).Int("tables", removed).Msg("Reset friendly tables")
	return removed, nil
}

// SetBoardMessage records which posted message displays a table
func (a *App) SetBoardMessage(ctx context.Context, tenant models.TenantID, actor models.Actor, tableID uuid.UUID, ref string) (*models.BoardMessage, error) {
	if err := roster.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ref) == "" {
		return nil, leagueerr.ErrInvalidInput.WithMessage("message reference is required")
	}
	msg := &models.BoardMessage{TableID: tableID, MessageRef: ref}
	err := a.run(ctx, tenant, func(r *Repository, _ *roster.Repository) error {
		if _, err := r.GetTable(ctx, tableID); err != nil {
			return err
		}
		return r.SetBoardMessage(ctx, *msg)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// BoardMessage returns the recorded board message, nil when none is set
func (a *App) BoardMessage(ctx context.Context, tenant models.TenantID) (*models.BoardMessage, error) {
	var msg *models.BoardMessage
	err := a.run(ctx, tenant, func(r *Repository, _ *roster.Repository) error {
		var err error
		msg, err = r.BoardMessage(ctx)
		return err
	})
	return msg, err
}

func requestData(req *models.FriendlyRequest) map[string]string {
	return map[string]string{
		"request_id":         req.ID.String(),
		"table_id":           req.TableID.String(),
		"slot":               req.Slot,
		"requesting_team_id": req.RequestingTeamID.String(),
		"requested_team_id":  req.RequestedTeamID.String(),
		"status":             string(req.Status),
	}
}

func without(ids []models.ActorID, skip models.ActorID) []models.ActorID {
	out := make([]models.ActorID, 0, len(ids))
	for _, id := range ids {
		if id != skip {
			out = append(out, id)
		}
	}
	return out
}
