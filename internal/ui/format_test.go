package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelTime(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "-"},
		{"future", now.Add(time.Minute), "now"},
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-48 * time.Hour), "2d ago"},
		{"old falls back to date", now.Add(-60 * 24 * time.Hour), "2026-07-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relTime(tt.t, now))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0%", Percent(0))
	assert.Equal(t, "50%", Percent(0.5))
	assert.Equal(t, "100%", Percent(1))
}

func TestProgressBar(t *testing.T) {
	bar := ProgressBar(0.5, 10)
	assert.Len(t, []rune(bar), 10)
	assert.Equal(t, "█████░░░░░", bar)

	assert.Equal(t, "░░░░", ProgressBar(-1, 4), "negative clamps to empty")
	assert.Equal(t, "████", ProgressBar(2, 4), "overflow clamps to full")

	// Zero width falls back to the default.
	assert.Len(t, []rune(ProgressBar(0.3, 0)), 20)
}
