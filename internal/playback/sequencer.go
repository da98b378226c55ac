// Package playback walks an ordered subset of track points, either by
// manual stepping or on a recurring timer. The sequencer itself is a
// synchronous state machine; the caller owns the actual timer and
// feeds ticks back in, tagged with the generation the timer was armed
// for. Every transition out of the playing state bumps the generation,
// so a tick from a torn-down timer can never advance the sequence.
package playback

import (
	"time"

	"panomap/internal/points"
)

type State int

const (
	Idle State = iota
	Positioned
	Playing
)

func (s State) String() string {
	switch s {
	case Positioned:
		return "positioned"
	case Playing:
		return "playing"
	default:
		return "idle"
	}
}

// Sequencer tracks the current selection by point id rather than by
// index, so a changed subset re-resolves the position on the next
// step instead of jumping to an unrelated point.
type Sequencer struct {
	state      State
	currentID  int
	hasCurrent bool
	interval   time.Duration
	generation int
}

func New(interval time.Duration) *Sequencer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Sequencer{interval: interval}
}

func (s *Sequencer) State() State            { return s.state }
func (s *Sequencer) Interval() time.Duration { return s.interval }
func (s *Sequencer) Generation() int         { return s.generation }

func (s *Sequencer) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// CurrentID returns the selected point id, if any.
func (s *Sequencer) CurrentID() (int, bool) {
	return s.currentID, s.hasCurrent
}

// IndexIn resolves the current selection inside subset, or -1.
func (s *Sequencer) IndexIn(subset []points.Point) int {
	if !s.hasCurrent {
		return -1
	}
	return points.IndexByID(subset, s.currentID)
}

// Select positions the sequencer on a point. Selecting while playing
// stops playback and releases the timer generation.
func (s *Sequencer) Select(p points.Point) {
	s.stopTimer()
	s.state = Positioned
	s.currentID = p.ID
	s.hasCurrent = true
}

// Next advances one step within subset, returning the new point. At
// the last index (or when the selection is missing from subset) it is
// a no-op. The playing state and its timer are untouched.
func (s *Sequencer) Next(subset []points.Point) (points.Point, bool) {
	return s.step(subset, 1)
}

// Prev steps backward; a no-op at index 0.
func (s *Sequencer) Prev(subset []points.Point) (points.Point, bool) {
	return s.step(subset, -1)
}

func (s *Sequencer) step(subset []points.Point, delta int) (points.Point, bool) {
	if s.state == Idle || !s.hasCurrent {
		return points.Point{}, false
	}
	idx := points.IndexByID(subset, s.currentID)
	if idx < 0 {
		return points.Point{}, false
	}
	next := idx + delta
	if next < 0 || next >= len(subset) {
		return points.Point{}, false
	}
	s.currentID = subset[next].ID
	return subset[next], true
}

// TogglePlay flips between positioned and playing. Starting from idle
// is allowed: the first tick selects the head of the subset. The
// returned generation identifies the timer to arm; arming is the
// caller's job and only ticks carrying that generation are honored.
func (s *Sequencer) TogglePlay() (generation int, playing bool) {
	if s.state == Playing {
		s.stopTimer()
		s.state = Positioned
		return s.generation, false
	}
	s.generation++
	s.state = Playing
	return s.generation, true
}

// Stop leaves the playing state unconditionally (pause or teardown).
func (s *Sequencer) Stop() {
	if s.state == Playing {
		s.stopTimer()
		s.state = Positioned
	}
}

// Tick handles one timer firing. Stale generations are dropped. While
// playing it advances to the next point in subset; at the end of the
// subset, or when the current point is no longer present, playback
// stops in place. The second return reports whether the caller should
// re-arm the timer.
func (s *Sequencer) Tick(subset []points.Point, generation int) (points.Point, bool) {
	if s.state != Playing || generation != s.generation {
		return points.Point{}, false
	}
	if len(subset) == 0 {
		s.Stop()
		return points.Point{}, false
	}
	if !s.hasCurrent {
		s.currentID = subset[0].ID
		s.hasCurrent = true
		return subset[0], true
	}
	idx := points.IndexByID(subset, s.currentID)
	if idx < 0 || idx == len(subset)-1 {
		s.Stop()
		return points.Point{}, false
	}
	s.currentID = subset[idx+1].ID
	return subset[idx+1], true
}

func (s *Sequencer) stopTimer() {
	// Invalidating the generation is the release: outstanding ticks
	// compare against it and fall through.
	s.generation++
}
