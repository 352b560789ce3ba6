package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

func rate(v float64) *float64 { return &v }

func TestBest(t *testing.T) {
	tests := []struct {
		name string
		rows []api.ScorecardRow
		want int
	}{
		{"empty", nil, -1},
		{
			"single row",
			[]api.ScorecardRow{{Model: "a", PassRate: rate(0.5)}},
			0,
		},
		{
			"highest wins",
			[]api.ScorecardRow{
				{Model: "a", PassRate: rate(0.5)},
				{Model: "b", PassRate: rate(0.9)},
				{Model: "c", PassRate: rate(0.7)},
			},
			1,
		},
		{
			"tie keeps first in encounter order",
			[]api.ScorecardRow{
				{Model: "a", PassRate: rate(0.9)},
				{Model: "b", PassRate: rate(0.9)},
				{Model: "c", PassRate: nil},
			},
			0,
		},
		{
			"missing rate counts as zero",
			[]api.ScorecardRow{
				{Model: "a", PassRate: nil},
				{Model: "b", PassRate: rate(0.1)},
			},
			1,
		},
		{
			"all missing picks first",
			[]api.ScorecardRow{
				{Model: "a"},
				{Model: "b"},
			},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Best(tt.rows))
		})
	}
}
