package leagueerr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	t.Run("copy with message still matches sentinel", func(t *testing.T) {
		err := ErrSlotUnavailable.WithMessage("slot %s is taken", "20:00")
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		assert.NotErrorIs(t, err, ErrDuplicateOffer)
		assert.Equal(t, "slot 20:00 is taken", err.Error())
	})

	t.Run("wrapped sentinel keeps its kind", func(t *testing.T) {
		err := fmt.Errorf("accept offer: %w", ErrInsufficientFunds)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, KindInsufficientFunds, KindOf(err))
		assert.True(t, IsBusiness(err))
	})

	t.Run("persistence keeps the cause", func(t *testing.T) {
		err := Persistence(sql.ErrConnDone)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Equal(t, KindPersistence, KindOf(err))
		assert.False(t, IsBusiness(err))
	})

	t.Run("foreign errors are treated as persistence", func(t *testing.T) {
		assert.Equal(t, KindPersistence, KindOf(errors.New("boom")))
	})
}

func TestSentinelKinds(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
	}{
		{ErrInvalidAmount, KindValidation},
		{ErrInvalidRange, KindValidation},
		{ErrUnauthorized, KindAuthorization},
		{ErrNotTargetPlayer, KindAuthorization},
		{ErrInvalidState, KindState},
		{ErrNoClause, KindState},
		{ErrDuplicateOffer, KindConflict},
		{ErrSlotUnavailable, KindConflict},
		{ErrInsufficientFunds, KindInsufficientFunds},
		{ErrOfferNotFound, KindNotFound},
		{ErrMarketClosed, KindMarketClosed},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
		})
	}
}
