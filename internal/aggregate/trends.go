package aggregate

import (
	"sort"
	"time"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

// TrendPoint is one time bucket of a drift series.
type TrendPoint struct {
	Bucket time.Time
	Avg    float64
	Min    float64
	Max    float64
	Count  int
}

// TrendSeries buckets drift points by the given interval and averages
// each bucket, returning buckets in chronological order. Points with a
// zero timestamp are skipped: they cannot be placed on a time axis.
func TrendSeries(points []api.DriftPoint, bucket time.Duration) []TrendPoint {
	if bucket <= 0 {
		bucket = 24 * time.Hour
	}

	byBucket := make(map[time.Time]*TrendPoint)
	for _, p := range points {
		if p.MeasuredAt.IsZero() {
			continue
		}
		key := p.MeasuredAt.Truncate(bucket)
		tp, ok := byBucket[key]
		if !ok {
			tp = &TrendPoint{Bucket: key, Min: p.Score, Max: p.Score}
			byBucket[key] = tp
		}
		tp.Avg += p.Score // running sum until the final divide
		tp.Count++
		if p.Score < tp.Min {
			tp.Min = p.Score
		}
		if p.Score > tp.Max {
			tp.Max = p.Score
		}
	}

	out := make([]TrendPoint, 0, len(byBucket))
	for _, tp := range byBucket {
		tp.Avg /= float64(tp.Count)
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket.Before(out[j].Bucket) })
	return out
}

// CategoryAverages computes the mean value per category. Empty
// categories are accumulated under UnknownKey rather than dropped;
// when an input category collapses into an existing key, the mean is
// taken over the combined values, not averaged per input group.
func CategoryAverages(values map[string][]float64) map[string]float64 {
	sums := make(map[string]float64, len(values))
	counts := make(map[string]int, len(values))
	for category, vs := range values {
		if len(vs) == 0 {
			continue
		}
		if category == "" {
			category = UnknownKey
		}
		for _, v := range vs {
			sums[category] += v
		}
		counts[category] += len(vs)
	}

	out := make(map[string]float64, len(sums))
	for category, sum := range sums {
		out[category] = sum / float64(counts[category])
	}
	return out
}

// TotalDelta returns the net score movement across an ordered history,
// last score minus first score. Empty history yields 0.
func TotalDelta(points []api.DriftPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	return points[len(points)-1].Score - points[0].Score
}
