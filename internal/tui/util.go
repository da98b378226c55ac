package tui

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// formatDistance sums the great-circle length of a path and renders it
// in meters or kilometers.
func formatDistance(ls orb.LineString) string {
	total := 0.0
	for i := 1; i < len(ls); i++ {
		total += geo.Distance(ls[i-1], ls[i])
	}
	if total >= 1000 {
		return fmt.Sprintf("%.2f km", total/1000)
	}
	return fmt.Sprintf("%.1f m", total)
}

// formatArea renders square meters, switching to km² past 1 km².
func formatArea(sqm float64) string {
	if sqm >= 1e6 {
		return fmt.Sprintf("%.3f km²", sqm/1e6)
	}
	return fmt.Sprintf("%.1f m²", sqm)
}
