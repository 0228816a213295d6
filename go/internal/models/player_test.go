package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPlayerMarketListing(t *testing.T) {
	p := &Player{ActorID: "p1", ReleaseClause: ptr(int64(1000))}

	p.ListOnMarket(ptr(int64(400)))
	assert.True(t, p.Transferable)
	assert.Equal(t, int64(400), *p.ReleaseClause)
	assert.Equal(t, int64(1000), *p.OriginalReleaseClause)

	p.Unlist()
	assert.False(t, p.Transferable)
	require.NotNil(t, p.ReleaseClause)
	assert.Equal(t, int64(1000), *p.ReleaseClause)
	assert.Nil(t, p.OriginalReleaseClause)

	p.Unlist()
	assert.Equal(t, int64(1000), *p.ReleaseClause)
}

func TestPlayerRelease(t *testing.T) {
	team := uuid.New()
	p := &Player{ActorID: "p1"}
	p.SignWith(team, ptr(6), ptr(int64(5000)))
	assert.True(t, p.PlaysFor(team))
	assert.True(t, p.HasClause())

	p.Release()
	assert.True(t, p.IsFreeAgent())
	assert.False(t, p.HasClause())
	assert.Nil(t, p.ContractDuration)
	assert.Nil(t, p.OriginalReleaseClause)
}

func TestOfferStatus(t *testing.T) {
	assert.True(t, OfferStatusPending.IsOpen())
	assert.True(t, OfferStatusBoughtClause.IsOpen())
	assert.False(t, OfferStatusFinalized.IsOpen())
	assert.True(t, OfferStatusCancelled.IsValid())
	assert.False(t, OfferStatus("expired").IsValid())
}

func TestRoleCanSchedule(t *testing.T) {
	assert.True(t, RoleManager.CanSchedule())
	assert.True(t, RoleCaptain.CanSchedule())
	assert.False(t, RoleAdmin.CanSchedule())
	assert.False(t, RoleNone.CanSchedule())
}
