package transfers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/market"
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

var admin = models.Actor{ID: "admin", Admin: true}

type fixture struct {
	app    *App
	roster *roster.App
	market *market.App
	stores *tenantstore.Manager
	sent   *notify.Recorder
	clock  *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stores := tenantstore.NewManager("", nil)
	t.Cleanup(func() { _ = stores.Close() })
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC))
	sent := &notify.Recorder{}
	f := &fixture{
		app:    NewApp(stores, sent, clock),
		roster: roster.NewApp(stores, clock),
		market: market.NewApp(stores),
		stores: stores,
		sent:   sent,
		clock:  clock,
	}
	require.NoError(t, f.market.Open(context.Background(), tenant, admin))
	return f
}

func (f *fixture) team(t *testing.T, name string, manager models.ActorID, balance int64) *models.Team {
	t.Helper()
	ctx := context.Background()
	team, err := f.roster.CreateTeam(ctx, tenant, admin, roster.CreateTeamRequest{Name: name, ManagerID: &manager})
	require.NoError(t, err)
	if balance > 0 {
		_, err = f.app.AddFunds(ctx, tenant, admin, team.ID, balance)
		require.NoError(t, err)
	}
	return team
}

// signed registers a player already under contract with team
func (f *fixture) signed(t *testing.T, id models.ActorID, teamID *uuid.UUID, clause int64) *models.Player {
	t.Helper()
	ctx := context.Background()
	player, err := f.roster.RegisterPlayer(ctx, tenant, models.Actor{ID: id}, roster.RegisterPlayerRequest{ActorID: id, Name: string(id)})
	require.NoError(t, err)
	if teamID == nil {
		return player
	}
	store, err := f.stores.Get(ctx, tenant)
	require.NoError(t, err)
	require.NoError(t, store.Run(ctx, func(q *tenantstore.Queries) error {
		duration := 6
		player.SignWith(*teamID, &duration, &clause)
		return roster.NewRepository(q).SaveContract(ctx, player)
	}))
	return player
}

func (f *fixture) balance(t *testing.T, teamID uuid.UUID) int64 {
	t.Helper()
	b, err := f.app.Balance(context.Background(), tenant, teamID)
	require.NoError(t, err)
	return b.Balance
}

func (f *fixture) player(t *testing.T, id models.ActorID) *models.Player {
	t.Helper()
	p, err := f.roster.GetPlayer(context.Background(), tenant, id)
	require.NoError(t, err)
	return p
}

func TestCreateOfferAndAccept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lions := f.team(t, "Lions", "m1", 0)
	f.signed(t, "p1", nil, 0)

	offer, err := f.app.CreateOffer(ctx, tenant, models.Actor{ID: "m1"}, CreateOfferRequest{
		PlayerID: "p1", ReleaseClause: 800, ContractDuration: 3, Price: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusPending, offer.Status)
	assert.Equal(t, models.OfferKindContract, offer.Kind)
	assert.Nil(t, offer.FromTeamID)
	require.Len(t, f.sent.OfKind(notify.KindOfferCreated), 1)
	assert.Equal(t, []models.ActorID{"p1"}, f.sent.OfKind(notify.KindOfferCreated)[0].Recipients)

	_, err = f.app.CreateOffer(ctx, tenant, models.Actor{ID: "m1"}, CreateOfferRequest{
		PlayerID: "p1", ReleaseClause: 900, ContractDuration: 2, Price: 50,
	})
	assert.ErrorIs(t, err, leagueerr.ErrDuplicateOffer)

	_, err = f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p2"}, offer.ID)
	assert.ErrorIs(t, err, leagueerr.ErrNotTargetPlayer)

	result, err := f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, result.Offer.Status)
	assert.True(t, result.Player.PlaysFor(lions.ID))

	p1 := f.player(t, "p1")
	assert.Equal(t, 3, *p1.ContractDuration)
	assert.Equal(t, int64(800), *p1.ReleaseClause)
	assert.False(t, p1.Transferable)
	assert.Equal(t, int64(0), f.balance(t, lions.ID), "contract offers move no money")

	_, err = f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, offer.ID)
	assert.ErrorIs(t, err, leagueerr.ErrInvalidState)
	require.Len(t, f.sent.OfKind(notify.KindOfferAccepted), 1)
	assert.Equal(t, []models.ActorID{"m1"}, f.sent.OfKind(notify.KindOfferAccepted)[0].Recipients)
}

func TestCreateOfferValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lions := f.team(t, "Lions", "m1", 0)
	f.signed(t, "p1", &lions.ID, 1000)
	f.signed(t, "p2", nil, 0)

	valid := CreateOfferRequest{PlayerID: "p2", ReleaseClause: 500, ContractDuration: 2, Price: 10}
	tests := []struct {
		name    string
		actor   models.ActorID
		mutate  func(r *CreateOfferRequest)
		wantErr error
	}{
		{"not a manager", "x1", nil, leagueerr.ErrNotManager},
		{"zero price", "m1", func(r *CreateOfferRequest) { r.Price = 0 }, leagueerr.ErrInvalidAmount},
		{"negative clause", "m1", func(r *CreateOfferRequest) { r.ReleaseClause = -1 }, leagueerr.ErrInvalidAmount},
		{"zero duration", "m1", func(r *CreateOfferRequest) { r.ContractDuration = 0 }, leagueerr.ErrInvalidAmount},
		{"unknown player", "m1", func(r *CreateOfferRequest) { r.PlayerID = "ghost" }, leagueerr.ErrPlayerNotFound},
		{"own player", "m1", func(r *CreateOfferRequest) { r.PlayerID = "p1" }, leagueerr.ErrSameTeam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			_, err := f.app.CreateOffer(ctx, tenant, models.Actor{ID: tt.actor}, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("banned player", func(t *testing.T) {
		_, err := f.roster.BanPlayer(ctx, tenant, admin, "p2")
		require.NoError(t, err)
		_, err = f.app.CreateOffer(ctx, tenant, models.Actor{ID: "m1"}, valid)
		assert.ErrorIs(t, err, leagueerr.ErrPlayerBanned)
	})

	t.Run("market closed", func(t *testing.T) {
		require.NoError(t, f.market.Close(ctx, tenant, admin))
		_, err := f.app.CreateOffer(ctx, tenant, models.Actor{ID: "m1"}, valid)
		assert.ErrorIs(t, err, leagueerr.ErrMarketClosed)
	})
}

func TestPayClause(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lions := f.team(t, "Lions", "m1", 0)
	tigers := f.team(t, "Tigers", "m2", 3000)
	f.signed(t, "p1", &lions.ID, 5000)
	f.signed(t, "p2", nil, 0)

	req := PayClauseRequest{PlayerID: "p1", ContractDuration: 4, NewClause: 7000}
	m2 := models.Actor{ID: "m2"}

	_, err := f.app.PayClause(ctx, tenant, m2, req)
	assert.ErrorIs(t, err, leagueerr.ErrInsufficientFunds)
	assert.Equal(t, int64(3000), f.balance(t, tigers.ID))
	assert.True(t, f.player(t, "p1").PlaysFor(lions.ID))

	_, err = f.app.PayClause(ctx, tenant, m2, PayClauseRequest{PlayerID: "p2", ContractDuration: 4, NewClause: 7000})
	assert.ErrorIs(t, err, leagueerr.ErrNoClause)

	_, err = f.app.PayClause(ctx, tenant, models.Actor{ID: "m1"}, req)
	assert.ErrorIs(t, err, leagueerr.ErrSameTeam)

	_, err = f.app.AddFunds(ctx, tenant, admin, tigers.ID, 3000)
	require.NoError(t, err)

	offer, err := f.app.PayClause(ctx, tenant, m2, req)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusBoughtClause, offer.Status)
	assert.Equal(t, models.OfferKindClause, offer.Kind)
	assert.Equal(t, int64(5000), offer.Price)
	assert.Equal(t, int64(6000), f.balance(t, tigers.ID), "funds move on acceptance")

	_, err = f.app.PayClause(ctx, tenant, m2, req)
	assert.ErrorIs(t, err, leagueerr.ErrDuplicateOffer)

	result, err := f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusFinalized, result.Offer.Status)
	assert.Equal(t, int64(1000), f.balance(t, tigers.ID))
	assert.Equal(t, int64(5000), f.balance(t, lions.ID))

	p1 := f.player(t, "p1")
	assert.True(t, p1.PlaysFor(tigers.ID))
	assert.Equal(t, 4, *p1.ContractDuration)
	assert.Equal(t, int64(7000), *p1.ReleaseClause)

	recent, err := f.app.RecentTransfers(ctx, tenant, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Lions", recent[0].FromTeam)
	assert.Equal(t, "Tigers", recent[0].ToTeam)
	assert.Equal(t, models.OfferStatusFinalized, recent[0].Status)
}

func TestAcceptClauseWithoutFunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lions := f.team(t, "Lions", "m1", 0)
	tigers := f.team(t, "Tigers", "m2", 6000)
	f.signed(t, "p1", &lions.ID, 5000)

	offer, err := f.app.PayClause(ctx, tenant, models.Actor{ID: "m2"}, PayClauseRequest{PlayerID: "p1", ContractDuration: 2, NewClause: 6000})
	require.NoError(t, err)
	_, err = f.app.RemoveFunds(ctx, tenant, admin, tigers.ID, 2000)
	require.NoError(t, err)

	_, err = f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, offer.ID)
	assert.ErrorIs(t, err, leagueerr.ErrInsufficientFunds)

	assert.Equal(t, int64(4000), f.balance(t, tigers.ID))
	assert.Equal(t, int64(0), f.balance(t, lions.ID))
	assert.True(t, f.player(t, "p1").PlaysFor(lions.ID))
	stored, err := f.app.GetOffer(ctx, tenant, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusBoughtClause, stored.Status)
}

func TestRejectAndCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.team(t, "Lions", "m1", 0)
	f.signed(t, "p1", nil, 0)
	req := CreateOfferRequest{PlayerID: "p1", ReleaseClause: 500, ContractDuration: 2, Price: 10}

	offer, err := f.app.CreateOffer(ctx, tenant, models.Actor{ID: "m1"}, req)
	require.NoError(t, err)

	_, err = f.app.CancelOffer(ctx, tenant, models.Actor{ID: "p1"}, offer.ID)
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
	_, err = f.app.RejectOffer(ctx, tenant, models.Actor{ID: "m1"}, offer.ID)
	assert.ErrorIs(t, err, leagueerr.ErrNotTargetPlayer)

	rejected, err := f.app.RejectOffer(ctx, tenant, models.Actor{ID: "p1"}, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, rejected.Status)
	_, err = f.app.CancelOffer(ctx, tenant, models.Actor{ID: "m1"}, offer.ID)
	assert.ErrorIs(t, err, leagueerr.ErrInvalidState)

	again, err := f.app.CreateOffer(ctx, tenant, models.Actor{ID: "m1"}, req)
	require.NoError(t, err, "a closed offer frees the pair")
	cancelled, err := f.app.CancelOffer(ctx, tenant, models.Actor{ID: "m1"}, again.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusCancelled, cancelled.Status)

	open, err := f.app.OpenOffersForPlayer(ctx, tenant, "p1")
	require.NoError(t, err)
	assert.Empty(t, open)
	assert.Len(t, f.sent.OfKind(notify.KindOfferRejected), 1)
	assert.Len(t, f.sent.OfKind(notify.KindOfferCancelled), 1)

	_, err = f.app.GetOffer(ctx, tenant, uuid.New())
	assert.ErrorIs(t, err, leagueerr.ErrOfferNotFound)
}

func TestConcurrentAccept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lions := f.team(t, "Lions", "m1", 0)
	tigers := f.team(t, "Tigers", "m2", 2000)
	f.signed(t, "p1", &lions.ID, 1500)

	offer, err := f.app.PayClause(ctx, tenant, models.Actor{ID: "m2"}, PayClauseRequest{PlayerID: "p1", ContractDuration: 2, NewClause: 3000})
	require.NoError(t, err)

	const attempts = 4
	var (
		wg   sync.WaitGroup
		errs = make([]error, attempts)
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, offer.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, leagueerr.ErrInvalidState)
	}
	assert.Equal(t, 1, succeeded, "an offer is accepted exactly once")
	assert.Equal(t, int64(500), f.balance(t, tigers.ID))
	assert.Equal(t, int64(1500), f.balance(t, lions.ID))
}

func TestAdvanceSeason(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lions := f.team(t, "Lions", "m1", 0)
	f.signed(t, "p1", &lions.ID, 1000)
	f.signed(t, "p2", nil, 0)

	_, err := f.app.AdvanceSeason(ctx, tenant, models.Actor{ID: "m1"})
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)

	for month := 5; month > 0; month-- {
		result, err := f.app.AdvanceSeason(ctx, tenant, admin)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Decremented)
		assert.Empty(t, result.Released)
		assert.Equal(t, month, *f.player(t, "p1").ContractDuration)
	}

	result, err := f.app.AdvanceSeason(ctx, tenant, admin)
	require.NoError(t, err)
	require.Len(t, result.Released, 1)
	assert.Equal(t, models.ActorID("p1"), result.Released[0].ActorID)
	assert.True(t, f.player(t, "p1").IsFreeAgent())
	require.Len(t, f.sent.OfKind(notify.KindContractExpired), 1)

	result, err = f.app.AdvanceSeason(ctx, tenant, admin)
	require.NoError(t, err)
	assert.Zero(t, result.Decremented, "free agents have nothing to decrement")
	assert.Empty(t, result.Released)
}

func TestListing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lions := f.team(t, "Lions", "m1", 0)
	f.team(t, "Tigers", "m2", 0)
	f.signed(t, "p1", &lions.ID, 1000)
	f.signed(t, "p2", nil, 0)

	_, err := f.app.ListPlayer(ctx, tenant, models.Actor{ID: "m2"}, "p1", nil)
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
	_, err = f.app.ListPlayer(ctx, tenant, models.Actor{ID: "m1"}, "p2", nil)
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
	zero := int64(0)
	_, err = f.app.ListPlayer(ctx, tenant, models.Actor{ID: "m1"}, "p1", &zero)
	assert.ErrorIs(t, err, leagueerr.ErrInvalidAmount)

	require.NoError(t, f.market.Close(ctx, tenant, admin))
	clause := int64(400)
	listed, err := f.app.ListPlayer(ctx, tenant, models.Actor{ID: "m1"}, "p1", &clause)
	require.NoError(t, err, "listing ignores the market gate")
	assert.True(t, listed.Transferable)
	assert.Equal(t, int64(400), *listed.ReleaseClause)
	assert.Equal(t, int64(1000), *listed.OriginalReleaseClause)

	_, err = f.app.ListPlayer(ctx, tenant, admin, "p1", nil)
	assert.ErrorIs(t, err, leagueerr.ErrAlreadyListed)

	onMarket, err := f.app.ListTransferable(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, onMarket, 1)

	unlisted, err := f.app.UnlistPlayer(ctx, tenant, models.Actor{ID: "m1"}, "p1")
	require.NoError(t, err)
	assert.False(t, unlisted.Transferable)
	assert.Equal(t, int64(1000), *unlisted.ReleaseClause)
	assert.Nil(t, unlisted.OriginalReleaseClause)

	_, err = f.app.UnlistPlayer(ctx, tenant, models.Actor{ID: "m1"}, "p1")
	assert.ErrorIs(t, err, leagueerr.ErrNotListed)
}

func TestFunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lions := f.team(t, "Lions", "m1", 0)

	_, err := f.app.AddFunds(ctx, tenant, models.Actor{ID: "m1"}, lions.ID, 100)
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
	_, err = f.app.AddFunds(ctx, tenant, admin, lions.ID, 0)
	assert.ErrorIs(t, err, leagueerr.ErrInvalidAmount)
	_, err = f.app.AddFunds(ctx, tenant, admin, uuid.New(), 100)
	assert.ErrorIs(t, err, leagueerr.ErrTeamNotFound)

	b, err := f.app.AddFunds(ctx, tenant, admin, lions.ID, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), b.Balance)

	_, err = f.app.RemoveFunds(ctx, tenant, admin, lions.ID, 300)
	assert.ErrorIs(t, err, leagueerr.ErrInsufficientFunds)
	b, err = f.app.RemoveFunds(ctx, tenant, admin, lions.ID, 250)
	require.NoError(t, err)
	assert.Zero(t, b.Balance)
}

func TestRecentTransfersLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, limit := range []int{0, -1, MaxRecentTransfers + 1} {
		_, err := f.app.RecentTransfers(ctx, tenant, limit)
		assert.ErrorIs(t, err, leagueerr.ErrInvalidLimit)
	}
	records, err := f.app.RecentTransfers(ctx, tenant, MaxRecentTransfers)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAcceptStaleClause(t *testing.T) {
	ctx := context.Background()

	t.Run("owner changed", func(t *testing.T) {
		f := newFixture(t)
		lions := f.team(t, "Lions", "m1", 0)
		tigers := f.team(t, "Tigers", "m2", 6000)
		pumas := f.team(t, "Pumas", "m3", 0)
		f.signed(t, "p1", &lions.ID, 5000)

		clause, err := f.app.PayClause(ctx, tenant, models.Actor{ID: "m2"}, PayClauseRequest{PlayerID: "p1", ContractDuration: 2, NewClause: 8000})
		require.NoError(t, err)
		contract, err := f.app.CreateOffer(ctx, tenant, models.Actor{ID: "m3"}, CreateOfferRequest{
			PlayerID: "p1", ReleaseClause: 100000, ContractDuration: 3, Price: 10,
		})
		require.NoError(t, err)
		_, err = f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, contract.ID)
		require.NoError(t, err)

		_, err = f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, clause.ID)
		assert.ErrorIs(t, err, leagueerr.ErrInvalidState)

		assert.Equal(t, int64(6000), f.balance(t, tigers.ID))
		assert.Equal(t, int64(0), f.balance(t, lions.ID))
		assert.Equal(t, int64(0), f.balance(t, pumas.ID))
		assert.True(t, f.player(t, "p1").PlaysFor(pumas.ID))
	})

	t.Run("clause changed", func(t *testing.T) {
		f := newFixture(t)
		lions := f.team(t, "Lions", "m1", 0)
		tigers := f.team(t, "Tigers", "m2", 6000)
		f.signed(t, "p1", &lions.ID, 5000)

		clause, err := f.app.PayClause(ctx, tenant, models.Actor{ID: "m2"}, PayClauseRequest{PlayerID: "p1", ContractDuration: 2, NewClause: 8000})
		require.NoError(t, err)
		raised := int64(9000)
		_, err = f.app.ListPlayer(ctx, tenant, models.Actor{ID: "m1"}, "p1", &raised)
		require.NoError(t, err)

		_, err = f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, clause.ID)
		assert.ErrorIs(t, err, leagueerr.ErrInvalidState)
		assert.Equal(t, int64(6000), f.balance(t, tigers.ID))
		assert.True(t, f.player(t, "p1").PlaysFor(lions.ID))
	})
}

func TestAcceptOfferFromOwnTeam(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lions := f.team(t, "Lions", "m1", 0)
	f.signed(t, "p1", nil, 0)

	first, err := f.app.CreateOffer(ctx, tenant, models.Actor{ID: "m1"}, CreateOfferRequest{
		PlayerID: "p1", ReleaseClause: 800, ContractDuration: 3, Price: 100,
	})
	require.NoError(t, err)

	_, err = f.roster.UnassignManager(ctx, tenant, admin, lions.ID)
	require.NoError(t, err)
	_, err = f.roster.AssignManager(ctx, tenant, admin, lions.ID, "m4")
	require.NoError(t, err)
	second, err := f.app.CreateOffer(ctx, tenant, models.Actor{ID: "m4"}, CreateOfferRequest{
		PlayerID: "p1", ReleaseClause: 50, ContractDuration: 1, Price: 1,
	})
	require.NoError(t, err)

	_, err = f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, first.ID)
	require.NoError(t, err)
	_, err = f.app.AcceptOffer(ctx, tenant, models.Actor{ID: "p1"}, second.ID)
	assert.ErrorIs(t, err, leagueerr.ErrSameTeam)

	p1 := f.player(t, "p1")
	assert.Equal(t, 3, *p1.ContractDuration)
	assert.Equal(t, int64(800), *p1.ReleaseClause)
}
