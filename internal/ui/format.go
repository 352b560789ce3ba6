package ui

import (
	"fmt"
	"time"
)

// RelTime renders a timestamp relative to now ("3m ago", "2d ago").
// Zero times render as a dash; future times as "now".
func RelTime(t time.Time) string {
	return relTime(t, time.Now())
}

func relTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < 0:
		return "now"
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// Percent renders a [0,1] ratio as a percentage.
func Percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// ProgressBar renders a fixed-width text progress bar for a [0,1]
// ratio.
func ProgressBar(v float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	filled := int(v*float64(width) + 0.5)
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}
