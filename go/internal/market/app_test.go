package market

import (
	"context"
	"testing"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketGate(t *testing.T) {
	ctx := context.Background()
	stores := tenantstore.NewManager("", nil)
	defer stores.Close()
	app := NewApp(stores)
	admin := models.Actor{ID: "admin", Admin: true}

	open, err := app.IsOpen(ctx, "guild")
	require.NoError(t, err)
	assert.False(t, open, "market starts closed")

	assert.ErrorIs(t, app.Open(ctx, "guild", models.Actor{ID: "m1"}), leagueerr.ErrUnauthorized)

	require.NoError(t, app.Open(ctx, "guild", admin))
	open, err = app.IsOpen(ctx, "guild")
	require.NoError(t, err)
	assert.True(t, open)

	other, err := app.IsOpen(ctx, "other-guild")
	require.NoError(t, err)
	assert.False(t, other, "gates are per tenant")

	require.NoError(t, app.Close(ctx, "guild", admin))
	store, err := stores.Get(ctx, "guild")
	require.NoError(t, err)
	err = store.Run(ctx, func(q *tenantstore.Queries) error {
		return RequireOpen(ctx, q)
	})
	assert.ErrorIs(t, err, leagueerr.ErrMarketClosed)
}
