package friendlies

import (
	"testing"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLabels(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       []string
	}{
		{"evening", "19:00", "21:00", []string{"19:00", "19:30", "20:00", "20:30", "21:00"}},
		{"single slot", "20:30", "20:30", []string{"20:30"}},
		{"wraps midnight", "23:00", "00:30", []string{"23:00", "23:30", "00:00", "00:30"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := slotLabels(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotLabelsInvalid(t *testing.T) {
	for _, r := range [][2]string{{"7pm", "21:00"}, {"19:00", "25:00"}, {"19:15", "21:00"}, {"19:00", "20:45"}, {"", ""}} {
		_, err := slotLabels(r[0], r[1])
		assert.ErrorIs(t, err, leagueerr.ErrInvalidRange, "%s-%s", r[0], r[1])
	}
}
