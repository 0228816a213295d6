package screenshots

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

func TestScreenshotReview(t *testing.T) {
	ctx := context.Background()
	stores := tenantstore.NewManager("", nil)
	defer stores.Close()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC))
	app := NewApp(stores, clock)
	admin := models.Actor{ID: "admin", Admin: true}

	_, err := app.Submit(ctx, "guild", SubmitRequest{ActorID: "p1"})
	assert.ErrorIs(t, err, leagueerr.ErrInvalidInput)

	detected := "12:41"
	first, err := app.Submit(ctx, "guild", SubmitRequest{
		ActorID: "p1", DisplayName: "Player One", Tag: "#A1", DetectedTime: &detected,
		ChannelRef: "chan-1", ImageRef: "img-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ScreenshotStatusPending, first.Status)
	require.NotNil(t, first.DetectedTime)
	assert.Equal(t, "12:41", *first.DetectedTime)

	clock.Advance(time.Minute)
	second, err := app.Submit(ctx, "guild", SubmitRequest{ActorID: "p2", ChannelRef: "chan-1", ImageRef: "img-2"})
	require.NoError(t, err)
	assert.Nil(t, second.DetectedTime)

	_, err = app.UpdateStatus(ctx, "guild", models.Actor{ID: "p1"}, first.ID, models.ScreenshotStatusAccepted)
	assert.ErrorIs(t, err, leagueerr.ErrUnauthorized)
	_, err = app.UpdateStatus(ctx, "guild", admin, first.ID, models.ScreenshotStatusPending)
	assert.ErrorIs(t, err, leagueerr.ErrInvalidStatus)
	_, err = app.UpdateStatus(ctx, "guild", admin, uuid.New(), models.ScreenshotStatusAccepted)
	assert.ErrorIs(t, err, leagueerr.ErrScreenshotNotFound)

	reviewed, err := app.UpdateStatus(ctx, "guild", admin, first.ID, models.ScreenshotStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ScreenshotStatusAccepted, reviewed.Status)

	all, err := app.List(ctx, "guild", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	pending := models.ScreenshotStatusPending
	onlyPending, err := app.List(ctx, "guild", &pending)
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, second.ID, onlyPending[0].ID)

	mine, err := app.ListByActor(ctx, "guild", "p1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	other, err := app.List(ctx, "other", nil)
	require.NoError(t, err)
	assert.Empty(t, other)
}
