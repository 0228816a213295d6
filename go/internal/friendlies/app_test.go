package friendlies

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/notify"
	"github.com/GonzaloH5/league-bot/go/internal/roster"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenant models.TenantID = "guild"

var (
	admin = models.Actor{ID: "admin", Admin: true}
	m1    = models.Actor{ID: "m1"}
	c1    = models.Actor{ID: "c1"}
	m2    = models.Actor{ID: "m2"}
	m3    = models.Actor{ID: "m3"}
)

type fixture struct {
	app    *App
	roster *roster.App
	sent   *notify.Recorder
	clock  *clockwork.FakeClock

	lions, tigers, pumas *models.Team
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	stores := tenantstore.NewManager("", nil)
	t.Cleanup(func() { _ = stores.Close() })
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC))
	sent := &notify.Recorder{}
	f := &fixture{
		app:    NewApp(stores, sent, clock),
		roster: roster.NewApp(stores, clock),
		sent:   sent,
		clock:  clock,
	}
	team := func(name string, manager models.ActorID) *models.Team {
		created, err := f.roster.CreateTeam(ctx, tenant, admin, roster.CreateTeamRequest{Name: name, ManagerID: &manager})
		require.NoError(t, err)
		return created
	}
	f.lions = team("Lions", "m1")
	f.tigers = team("Tigers", "m2")
	f.pumas = team("Pumas", "m3")
	require.NoError(t, f.roster.AddCaptain(ctx, tenant, admin, f.lions.ID, "c1"))
	return f
}

func (f *fixture) table(t *testing.T, start, end string) *models.FriendlyTable {
	t.Helper()
	table, err := f.app.CreateTable(context.Background(), tenant, admin, CreateTableRequest{Start: start, End: end})
	require.NoError(t, err)
	return table
}

func TestCreateTable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	table := f.table(t, "19:00", "21:00")
	assert.Equal(t, "19:00-21:00", table.Name)
	require.Len(t, table.Slots, 5)
	for i, slot := range table.Slots {
		assert.Equal(t, i, slot.Position)
		assert.True(t, slot.Available)
	}

	_, err := f.app.CreateTable(ctx, tenant, m1, CreateTableRequest{Start: "19:00", End: "21:00"})
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
	_, err = f.app.CreateTable(ctx, tenant, admin, CreateTableRequest{Start: "19:10", End: "21:00"})
	assert.ErrorIs(t, err, leagueerr.ErrInvalidRange)

	f.clock.Advance(time.Minute)
	named, err := f.app.CreateTable(ctx, tenant, admin, CreateTableRequest{Name: "Sunday", Start: "23:30", End: "00:30"})
	require.NoError(t, err)
	assert.Len(t, named.Slots, 3)

	latest, err := f.app.LatestTable(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, named.ID, latest.ID)

	_, err = f.app.GetTable(ctx, tenant, uuid.New())
	assert.ErrorIs(t, err, leagueerr.ErrTableNotFound)
}

func TestRequestFriendly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.app.RequestFriendly(ctx, tenant, m1, FriendlyRequestInput{RequestingTeamID: f.lions.ID, RequestedTeamID: f.tigers.ID, Slot: "19:00"})
	assert.ErrorIs(t, err, leagueerr.ErrTableNotFound)

	table := f.table(t, "19:00", "21:00")
	in := FriendlyRequestInput{RequestingTeamID: f.lions.ID, RequestedTeamID: f.tigers.ID, Slot: "19:30"}

	tests := []struct {
		name    string
		actor   models.Actor
		mutate  func(in *FriendlyRequestInput)
		wantErr error
	}{
		{"stranger", models.Actor{ID: "x"}, nil, leagueerr.ErrUnauthorized},
		{"admin gets no bypass", admin, nil, leagueerr.ErrUnauthorized},
		{"other team manager", m2, nil, leagueerr.ErrUnauthorized},
		{"same team", m1, func(in *FriendlyRequestInput) { in.RequestedTeamID = f.lions.ID }, leagueerr.ErrSameTeam},
		{"unknown team", m1, func(in *FriendlyRequestInput) { in.RequestedTeamID = uuid.New() }, leagueerr.ErrTeamNotFound},
		{"unknown slot", m1, func(in *FriendlyRequestInput) { in.Slot = "22:00" }, leagueerr.ErrSlotNotFound},
		{"unknown table", m1, func(in *FriendlyRequestInput) { id := uuid.New(); in.TableID = &id }, leagueerr.ErrTableNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := in
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			_, err := f.app.RequestFriendly(ctx, tenant, tt.actor, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	req, err := f.app.RequestFriendly(ctx, tenant, c1, in)
	require.NoError(t, err, "captains can request")
	assert.Equal(t, table.ID, req.TableID)
	assert.Equal(t, models.RequestStatusPending, req.Status)

	requested := f.sent.OfKind(notify.KindFriendlyRequested)
	require.Len(t, requested, 1)
	assert.Equal(t, []models.ActorID{"m2"}, requested[0].Recipients)

	pending, err := f.app.PendingRequests(ctx, tenant, f.tigers.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].ID)
}

func TestResolveRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	table := f.table(t, "19:00", "21:00")

	req, err := f.app.RequestFriendly(ctx, tenant, m1, FriendlyRequestInput{RequestingTeamID: f.lions.ID, RequestedTeamID: f.tigers.ID, Slot: "20:00"})
	require.NoError(t, err)
	rival, err := f.app.RequestFriendly(ctx, tenant, m3, FriendlyRequestInput{RequestingTeamID: f.pumas.ID, RequestedTeamID: f.tigers.ID, Slot: "20:00"})
	require.NoError(t, err)

	_, err = f.app.ResolveRequest(ctx, tenant, m2, req.ID, "maybe")
	assert.ErrorIs(t, err, leagueerr.ErrInvalidDecision)
	_, err = f.app.ResolveRequest(ctx, tenant, m1, req.ID, models.DecisionAccept)
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized, "the requesting side cannot answer")
	_, err = f.app.ResolveRequest(ctx, tenant, m2, uuid.New(), models.DecisionAccept)
	assert.ErrorIs(t, err, leagueerr.ErrRequestNotFound)

	result, err := f.app.ResolveRequest(ctx, tenant, m2, req.ID, models.DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, result.Request.Status)
	require.NotNil(t, result.Match)
	assert.True(t, result.Match.Involves(f.lions.ID))
	assert.True(t, result.Match.Involves(f.tigers.ID))

	accepted := f.sent.OfKind(notify.KindFriendlyAccepted)
	require.Len(t, accepted, 1)
	assert.ElementsMatch(t, []models.ActorID{"m1", "c1"}, accepted[0].Recipients)

	_, err = f.app.ResolveRequest(ctx, tenant, m2, req.ID, models.DecisionReject)
	assert.ErrorIs(t, err, leagueerr.ErrInvalidState)

	_, err = f.app.ResolveRequest(ctx, tenant, m2, rival.ID, models.DecisionAccept)
	assert.ErrorIs(t, err, leagueerr.ErrSlotUnavailable, "the slot was taken by the first acceptance")

	rejected, err := f.app.ResolveRequest(ctx, tenant, m2, rival.ID, models.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, rejected.Request.Status)
	assert.Nil(t, rejected.Match)

	_, err = f.app.RequestFriendly(ctx, tenant, m3, FriendlyRequestInput{TableID: &table.ID, RequestingTeamID: f.pumas.ID, RequestedTeamID: f.lions.ID, Slot: "20:00"})
	assert.ErrorIs(t, err, leagueerr.ErrSlotUnavailable)

	view, err := f.app.RenderTable(ctx, tenant, table.ID)
	require.NoError(t, err)
	require.Len(t, view.Slots, 5)
	for _, row := range view.Slots {
		if row.Label == "20:00" {
			assert.False(t, row.Available)
			assert.Equal(t, "Lions vs Tigers", row.Status)
			require.NotNil(t, row.MatchID)
			continue
		}
		assert.True(t, row.Available)
		assert.Equal(t, models.SlotAvailable, row.Status)
	}
}

func TestConcurrentResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	table := f.table(t, "19:00", "21:00")

	first, err := f.app.RequestFriendly(ctx, tenant, m1, FriendlyRequestInput{RequestingTeamID: f.lions.ID, RequestedTeamID: f.tigers.ID, Slot: "19:30"})
	require.NoError(t, err)
	second, err := f.app.RequestFriendly(ctx, tenant, m3, FriendlyRequestInput{RequestingTeamID: f.pumas.ID, RequestedTeamID: f.tigers.ID, Slot: "19:30"})
	require.NoError(t, err)

	ids := []uuid.UUID{first.ID, second.ID}
	var (
		wg   sync.WaitGroup
		errs = make([]error, len(ids))
	)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.app.ResolveRequest(ctx, tenant, m2, id, models.DecisionAccept)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, leagueerr.ErrSlotUnavailable)
	}
	assert.Equal(t, 1, succeeded, "a slot hosts one match")

	matches, err := f.app.Matches(ctx, tenant, table.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "19:30", matches[0].Slot)
}

func TestDeleteMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	table := f.table(t, "19:00", "20:00")

	req, err := f.app.RequestFriendly(ctx, tenant, m1, FriendlyRequestInput{RequestingTeamID: f.lions.ID, RequestedTeamID: f.tigers.ID, Slot: "19:00"})
	require.NoError(t, err)
	result, err := f.app.ResolveRequest(ctx, tenant, m2, req.ID, models.DecisionAccept)
	require.NoError(t, err)

	_, err = f.app.DeleteMatch(ctx, tenant, m3, result.Match.ID)
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)

	deleted, err := f.app.DeleteMatch(ctx, tenant, m2, result.Match.ID)
	require.NoError(t, err)
	assert.Equal(t, "19:00", deleted.Slot)

	cancelled := f.sent.OfKind(notify.KindFriendlyCancelled)
	require.Len(t, cancelled, 1)
	assert.ElementsMatch(t, []models.ActorID{"m1", "c1"}, cancelled[0].Recipients)

	_, err = f.app.DeleteMatch(ctx, tenant, m2, result.Match.ID)
	assert.ErrorIs(t, err, leagueerr.ErrMatchNotFound)

	matches, err := f.app.Matches(ctx, tenant, table.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = f.app.RequestFriendly(ctx, tenant, m3, FriendlyRequestInput{RequestingTeamID: f.pumas.ID, RequestedTeamID: f.lions.ID, Slot: "19:00"})
	assert.NoError(t, err, "the slot is free again")
}

func TestTeamDeletionFreesSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	table := f.table(t, "19:00", "19:30")

	req, err := f.app.RequestFriendly(ctx, tenant, m1, FriendlyRequestInput{RequestingTeamID: f.lions.ID, RequestedTeamID: f.tigers.ID, Slot: "19:30"})
	require.NoError(t, err)
	_, err = f.app.ResolveRequest(ctx, tenant, m2, req.ID, models.DecisionAccept)
	require.NoError(t, err)

	_, err = f.roster.DeleteTeam(ctx, tenant, admin, f.tigers.ID)
	require.NoError(t, err)

	view, err := f.app.RenderTable(ctx, tenant, table.ID)
	require.NoError(t, err)
	for _, row := range view.Slots {
		assert.True(t, row.Available, row.Label)
	}
}

func TestResetAndBoard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	table := f.table(t, "19:00", "21:00")

	board, err := f.app.BoardMessage(ctx, tenant)
	require.NoError(t, err)
	assert.Nil(t, board)

	_, err = f.app.SetBoardMessage(ctx, tenant, m1, table.ID, "msg-1")
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
	_, err = f.app.SetBoardMessage(ctx, tenant, admin, uuid.New(), "msg-1")
	assert.ErrorIs(t, err, leagueerr.ErrTableNotFound)

	_, err = f.app.SetBoardMessage(ctx, tenant, admin, table.ID, "msg-1")
	require.NoError(t, err)
	board, err = f.app.BoardMessage(ctx, tenant)
	require.NoError(t, err)
	require.NotNil(t, board)
	assert.Equal(t, table.ID, board.TableID)
	assert.Equal(t, "msg-1", board.MessageRef)

	_, err = f.app.RequestFriendly(ctx, tenant, m1, FriendlyRequestInput{RequestingTeamID: f.lions.ID, RequestedTeamID: f.tigers.ID, Slot: "19:00"})
	require.NoError(t, err)

	_, err = f.app.ResetTables(ctx, tenant, m1)
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
	removed, err := f.app.ResetTables(ctx, tenant, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = f.app.LatestTable(ctx, tenant)
	assert.ErrorIs(t, err, leagueerr.ErrTableNotFound)
	pending, err := f.app.PendingRequests(ctx, tenant, f.tigers.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
	board, err = f.app.BoardMessage(ctx, tenant)
	require.NoError(t, err)
	assert.Nil(t, board)
}
