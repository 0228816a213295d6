package roster

import (
	"context"
	"testing"
	"time"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenant models.TenantID = "guild"

var admin = models.Actor{ID: "admin", Admin: true}

func newTestApp(t *testing.T) (*App, *tenantstore.Manager) {
	t.Helper()
	stores := tenantstore.NewManager("", nil)
	t.Cleanup(func() { _ = stores.Close() })
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC))
	return NewApp(stores, clock), stores
}

func actorPtr(id models.ActorID) *models.ActorID { return &id }

func mustTeam(t *testing.T, app *App, name string, manager models.ActorID) *models.Team {
	t.Helper()
	req := CreateTeamRequest{Name: name, Division: "A"}
	if manager != "" {
		req.ManagerID = actorPtr(manager)
	}
	team, err := app.CreateTeam(context.Background(), tenant, admin, req)
	require.NoError(t, err)
	return team
}

func mustPlayer(t *testing.T, app *App, id models.ActorID) *models.Player {
	t.Helper()
	player, err := app.RegisterPlayer(context.Background(), tenant, models.Actor{ID: id}, RegisterPlayerRequest{ActorID: id, Name: string(id)})
	require.NoError(t, err)
	return player
}

func TestCreateTeam(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t)

	lions := mustTeam(t, app, "Lions", "m1")
	assert.Equal(t, "Lions", lions.Name)
	assert.True(t, lions.IsManagedBy("m1"))

	tests := []struct {
		name    string
		actor   models.Actor
		req     CreateTeamRequest
		wantErr error
	}{
		{"non admin", models.Actor{ID: "m9"}, CreateTeamRequest{Name: "Tigers"}, leagueerr.ErrUnauthorized},
		{"empty name", admin, CreateTeamRequest{Name: "  "}, leagueerr.ErrInvalidInput},
		{"name taken", admin, CreateTeamRequest{Name: "Lions"}, leagueerr.ErrTeamExists},
		{"manager busy", admin, CreateTeamRequest{Name: "Tigers", ManagerID: actorPtr("m1")}, leagueerr.ErrAlreadyManager},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := app.CreateTeam(ctx, tenant, tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("registered player cannot manage", func(t *testing.T) {
		mustPlayer(t, app, "p1")
		_, err := app.CreateTeam(ctx, tenant, admin, CreateTeamRequest{Name: "Tigers", ManagerID: actorPtr("p1")})
		assert.ErrorIs(t, err, leagueerr.ErrActorIsPlayer)
	})
}

func TestManagerAssignment(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t)
	lions := mustTeam(t, app, "Lions", "")
	tigers := mustTeam(t, app, "Tigers", "m2")

	team, err := app.AssignManager(ctx, tenant, admin, lions.ID, "m1")
	require.NoError(t, err)
	assert.True(t, team.IsManagedBy("m1"))

	_, err = app.AssignManager(ctx, tenant, admin, lions.ID, "m3")
	assert.ErrorIs(t, err, leagueerr.ErrAlreadyHasManager)

	_, err = app.UnassignManager(ctx, tenant, admin, lions.ID)
	require.NoError(t, err)

	_, err = app.AssignManager(ctx, tenant, admin, lions.ID, "m2")
	assert.ErrorIs(t, err, leagueerr.ErrAlreadyManager)

	_, err = app.UnassignManager(ctx, tenant, admin, lions.ID)
	assert.ErrorIs(t, err, leagueerr.ErrNoManager)

	_, err = app.AssignManager(ctx, tenant, admin, uuid.New(), "m4")
	assert.ErrorIs(t, err, leagueerr.ErrTeamNotFound)

	_, err = app.UnassignManager(ctx, tenant, models.Actor{ID: "m2"}, tigers.ID)
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
}

func TestCaptains(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t)
	lions := mustTeam(t, app, "Lions", "m1")

	require.NoError(t, app.AddCaptain(ctx, tenant, admin, lions.ID, "c1"))
	assert.ErrorIs(t, app.AddCaptain(ctx, tenant, admin, lions.ID, "c1"), leagueerr.ErrAlreadyCaptain)

	captains, err := app.Captains(ctx, tenant, lions.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.ActorID{"c1"}, captains)

	team, err := app.TeamOf(ctx, tenant, "c1")
	require.NoError(t, err)
	assert.Equal(t, lions.ID, team.ID)

	require.NoError(t, app.RemoveCaptain(ctx, tenant, admin, lions.ID, "c1"))
	assert.ErrorIs(t, app.RemoveCaptain(ctx, tenant, admin, lions.ID, "c1"), leagueerr.ErrNotCaptain)

	_, err = app.TeamOf(ctx, tenant, "c1")
	assert.ErrorIs(t, err, leagueerr.ErrTeamNotFound)
}

func TestRoleFor(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t)
	lions := mustTeam(t, app, "Lions", "m1")
	require.NoError(t, app.AddCaptain(ctx, tenant, admin, lions.ID, "c1"))
	require.NoError(t, app.AddCaptain(ctx, tenant, admin, lions.ID, "admin"))

	tests := []struct {
		actor models.Actor
		want  models.Role
	}{
		{models.Actor{ID: "m1"}, models.RoleManager},
		{models.Actor{ID: "m1", Admin: true}, models.RoleManager},
		{models.Actor{ID: "c1"}, models.RoleCaptain},
		{models.Actor{ID: "admin", Admin: true}, models.RoleCaptain},
		{models.Actor{ID: "root", Admin: true}, models.RoleAdmin},
		{models.Actor{ID: "x"}, models.RoleNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.actor.ID), func(t *testing.T) {
			role, err := app.RoleFor(ctx, tenant, tt.actor, lions.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestRegisterPlayer(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t)
	mustTeam(t, app, "Lions", "m1")

	mustPlayer(t, app, "p1")

	_, err := app.RegisterPlayer(ctx, tenant, models.Actor{ID: "p1"}, RegisterPlayerRequest{ActorID: "p1", Name: "again"})
	assert.ErrorIs(t, err, leagueerr.ErrAlreadyRegistered)

	_, err = app.RegisterPlayer(ctx, tenant, models.Actor{ID: "m1"}, RegisterPlayerRequest{ActorID: "m1", Name: "manager"})
	assert.ErrorIs(t, err, leagueerr.ErrActorIsManager)

	_, err = app.RegisterPlayer(ctx, tenant, models.Actor{ID: "p2"}, RegisterPlayerRequest{ActorID: "p3", Name: "someone"})
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)

	player, err := app.RegisterPlayer(ctx, tenant, admin, RegisterPlayerRequest{ActorID: "p3", Name: "someone"})
	require.NoError(t, err)
	assert.True(t, player.IsFreeAgent())
}

func signPlayer(t *testing.T, stores *tenantstore.Manager, player models.ActorID, team uuid.UUID, transferable bool) {
	t.Helper()
	ctx := context.Background()
	store, err := stores.Get(ctx, tenant)
	require.NoError(t, err)
	require.NoError(t, store.Run(ctx, func(q *tenantstore.Queries) error {
		r := NewRepository(q)
		p, err := r.GetPlayer(ctx, player)
		if err != nil {
			return err
		}
		months, clause := 6, int64(1000)
		p.SignWith(team, &months, &clause)
		if transferable {
			listed := int64(400)
			p.ListOnMarket(&listed)
		}
		return r.SaveContract(ctx, p)
	}))
}

func TestBanPlayer(t *testing.T) {
	ctx := context.Background()
	app, stores := newTestApp(t)
	lions := mustTeam(t, app, "Lions", "m1")
	mustPlayer(t, app, "p1")
	signPlayer(t, stores, "p1", lions.ID, true)

	player, err := app.BanPlayer(ctx, tenant, admin, "p1")
	require.NoError(t, err)
	assert.True(t, player.Banned)
	assert.False(t, player.Transferable)
	assert.Equal(t, int64(1000), *player.ReleaseClause)

	stored, err := app.GetPlayer(ctx, tenant, "p1")
	require.NoError(t, err)
	assert.True(t, stored.Banned)
	assert.False(t, stored.Transferable)
	assert.True(t, stored.PlaysFor(lions.ID))

	player, err = app.UnbanPlayer(ctx, tenant, admin, "p1")
	require.NoError(t, err)
	assert.False(t, player.Banned)

	_, err = app.BanPlayer(ctx, tenant, models.Actor{ID: "m1"}, "p1")
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
	_, err = app.BanPlayer(ctx, tenant, admin, "ghost")
	assert.ErrorIs(t, err, leagueerr.ErrPlayerNotFound)
}

func TestReleasePlayer(t *testing.T) {
	ctx := context.Background()
	app, stores := newTestApp(t)
	lions := mustTeam(t, app, "Lions", "m1")
	mustTeam(t, app, "Tigers", "m2")
	mustPlayer(t, app, "p1")
	signPlayer(t, stores, "p1", lions.ID, true)

	_, err := app.ReleasePlayer(ctx, tenant, models.Actor{ID: "m2"}, "p1")
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)

	player, err := app.ReleasePlayer(ctx, tenant, models.Actor{ID: "m1"}, "p1")
	require.NoError(t, err)
	assert.True(t, player.IsFreeAgent())
	assert.False(t, player.Transferable)
	assert.Nil(t, player.ContractDuration)
	assert.Nil(t, player.ReleaseClause)
	assert.Nil(t, player.OriginalReleaseClause)

	_, err = app.ReleasePlayer(ctx, tenant, admin, "p1")
	assert.ErrorIs(t, err, leagueerr.ErrFreeAgent)

	agents, err := app.ListFreeAgents(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, models.ActorID("p1"), agents[0].ActorID)
}

func TestDeleteTeamCascade(t *testing.T) {
	ctx := context.Background()
	app, stores := newTestApp(t)
	lions := mustTeam(t, app, "Lions", "m1")
	tigers := mustTeam(t, app, "Tigers", "m2")
	require.NoError(t, app.AddCaptain(ctx, tenant, admin, lions.ID, "c1"))

	for _, id := range []models.ActorID{"p1", "p2", "p3"} {
		mustPlayer(t, app, id)
		signPlayer(t, stores, id, lions.ID, false)
	}

	store, err := stores.Get(ctx, tenant)
	require.NoError(t, err)
	require.NoError(t, store.Run(ctx, func(q *tenantstore.Queries) error {
		for _, player := range []string{"p1", "p2"} {
			if _, err := q.CreateOffer(ctx, tenantstore.CreateOfferParams{
				ID:         uuid.New(),
				Kind:       string(models.OfferKindContract),
				PlayerID:   player,
				FromTeamID: uuid.NullUUID{UUID: lions.ID, Valid: true},
				ToTeamID:   uuid.NullUUID{UUID: tigers.ID, Valid: true},
				ManagerID:  "m2",
				Price:      500,
				Status:     string(models.OfferStatusPending),
				CreatedAt:  1,
			}); err != nil {
				return err
			}
		}
		return nil
	}))

	result, err := app.DeleteTeam(ctx, tenant, admin, lions.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ReleasedPlayers)
	assert.Equal(t, 2, result.PurgedOffers)

	for _, id := range []models.ActorID{"p1", "p2", "p3"} {
		player, err := app.GetPlayer(ctx, tenant, id)
		require.NoError(t, err)
		assert.True(t, player.IsFreeAgent())
		assert.Nil(t, player.ContractDuration)
		assert.Nil(t, player.ReleaseClause)
	}

	_, err = app.GetTeam(ctx, tenant, lions.ID)
	assert.ErrorIs(t, err, leagueerr.ErrTeamNotFound)

	require.NoError(t, store.Run(ctx, func(q *tenantstore.Queries) error {
		count, err := q.CountTeamOffers(ctx, lions.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
		_, err = q.GetBalance(ctx, lions.ID)
		assert.Error(t, err)
		return nil
	}))

	_, err = app.TeamOf(ctx, tenant, "c1")
	assert.ErrorIs(t, err, leagueerr.ErrTeamNotFound)

	// the manager of a deleted team is free to manage again
	pumas, err := app.CreateTeam(ctx, tenant, admin, CreateTeamRequest{Name: "Pumas", ManagerID: actorPtr("m1")})
	require.NoError(t, err)
	assert.True(t, pumas.IsManagedBy("m1"))
}
