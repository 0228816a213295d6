package friendlies

import (
	"time"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
)

const (
	clockLayout = "15:04"
	slotStep    = 30 * time.Minute
)

// slotLabels expands an "HH:MM" range into 30 minute labels, both ends included.
// An end earlier than start wraps past midnight.
func slotLabels(start, end string) ([]string, error) {
	from, err := parseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := parseClock(end)
	if err != nil {
		return nil, err
	}
	if to < from {
		to += 24 * time.Hour
	}

	labels := make([]string, 0, int((to-from)/slotStep)+1)
	for at := from; at <= to; at += slotStep {
		labels = append(labels, formatClock(at))
	}
	return labels, nil
}

func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, leagueerr.ErrInvalidRange.WithMessage("%q is not a HH:MM time", value)
	}
	offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	if offset%slotStep != 0 {
		return 0, leagueerr.ErrInvalidRange.WithMessage("%s is not on a 30 minute boundary", value)
	}
	return offset, nil
}

func formatClock(offset time.Duration) string {
	return time.Time{}.Add(offset % (24 * time.Hour)).Format(clockLayout)
}
