package points

import (
	"strings"
	"time"
)

// Criteria selects a subset of points. SubgridTerms is a
// comma-separated list of case-insensitive substrings, OR-matched
// against each point's subgrid. When StrictDate is set, points whose
// capture date parses to an instant strictly before DateThreshold are
// excluded; unparseable capture dates never exclude a point.
type Criteria struct {
	SubgridTerms  string
	DateThreshold string
	StrictDate    bool
}

// whenLayouts are the accepted capture-date spellings, tried in order.
var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseWhen parses a capture or threshold date best-effort.
func ParseWhen(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Filter returns the points passing both predicates, preserving input
// order. It never sorts and never mutates pts.
func Filter(pts []Point, c Criteria) []Point {
	terms := splitTerms(c.SubgridTerms)
	threshold, haveThreshold := time.Time{}, false
	if c.StrictDate && c.DateThreshold != "" {
		threshold, haveThreshold = ParseWhen(c.DateThreshold)
	}

	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(terms) > 0 && !matchesAnyTerm(p.Subgrid, terms) {
			continue
		}
		if haveThreshold {
			if when, ok := ParseWhen(p.CapturedAt); ok && when.Before(threshold) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// Older reports whether the point's capture date parses and lies
// strictly before the threshold. Used for date-based coloring.
func Older(p Point, threshold string) bool {
	th, ok := ParseWhen(threshold)
	if !ok {
		return false
	}
	when, ok := ParseWhen(p.CapturedAt)
	return ok && when.Before(th)
}

func splitTerms(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var terms []string
	for _, t := range strings.Split(strings.ToLower(raw), ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

func matchesAnyTerm(subgrid string, terms []string) bool {
	s := strings.ToLower(subgrid)
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
