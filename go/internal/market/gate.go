package market

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
)

const settingMarketOpen = "market_open"

// Querier defines what the gate needs from the tenant store
type Querier interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, arg tenantstore.SetSettingParams) error
}

// IsOpen reads the gate inside the caller's transaction. A tenant that never set it is closed.
func IsOpen(ctx context.Context, q Querier) (bool, error) {
	value, err := q.GetSetting(ctx, settingMarketOpen)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read market gate: %w", err)
	}
	open, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid market gate value %q: %w", value, err)
	}
	return open, nil
}

// RequireOpen fails with ErrMarketClosed unless the gate is open
func RequireOpen(ctx context.Context, q Querier) error {
	open, err := IsOpen(ctx, q)
	if err != nil {
		return err
	}
	if !open {
		return leagueerr.ErrMarketClosed
	}
	return nil
}

func set(ctx context.Context, q Querier, open bool) error {
	if err := q.SetSetting(ctx, tenantstore.SetSettingParams{
		Key:   settingMarketOpen,
		Value: strconv.FormatBool(open),
	}); err != nil {
		return fmt.Errorf("failed to update market gate: %w", err)
	}
	return nil
}
