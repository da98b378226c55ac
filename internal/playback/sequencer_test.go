package playback

import (
	"testing"
	"time"

	"panomap/internal/points"
)

func subset() []points.Point {
	return []points.Point{
		{ID: 10, Bearing: 90},
		{ID: 20, Bearing: 180},
		{ID: 30, Bearing: 270},
	}
}

func TestSelectAndStep(t *testing.T) {
	s := New(time.Second)
	pts := subset()

	if _, ok := s.Next(pts); ok {
		t.Error("Next from idle should be a no-op")
	}

	s.Select(pts[1])
	if s.State() != Positioned || s.IndexIn(pts) != 1 {
		t.Fatalf("state=%v index=%d", s.State(), s.IndexIn(pts))
	}

	p, ok := s.Next(pts)
	if !ok || p.ID != 30 {
		t.Fatalf("Next = %+v, %v", p, ok)
	}
	if _, ok := s.Next(pts); ok {
		t.Error("Next at last index should be a no-op")
	}

	p, ok = s.Prev(pts)
	if !ok || p.ID != 20 {
		t.Fatalf("Prev = %+v, %v", p, ok)
	}
	s.Select(pts[0])
	if _, ok := s.Prev(pts); ok {
		t.Error("Prev at index 0 should be a no-op")
	}
}

func TestTickAdvancesAndStopsAtEnd(t *testing.T) {
	s := New(time.Second)
	pts := subset()
	s.Select(pts[1])

	gen, playing := s.TogglePlay()
	if !playing || s.State() != Playing {
		t.Fatal("expected playing state")
	}

	p, again := s.Tick(pts, gen)
	if !again || p.ID != 30 {
		t.Fatalf("first tick = %+v, %v", p, again)
	}

	// now at the last index: the next tick auto-stops
	if _, again := s.Tick(pts, gen); again {
		t.Error("tick at last index should stop playback")
	}
	if s.State() != Positioned {
		t.Errorf("state after auto-stop = %v", s.State())
	}
	if id, _ := s.CurrentID(); id != 30 {
		t.Errorf("auto-stop moved selection to %d", id)
	}
}

func TestTogglePlayFromLastIndexStopsOnFirstTick(t *testing.T) {
	s := New(time.Second)
	pts := subset()
	s.Select(pts[2])
	gen, _ := s.TogglePlay()
	if _, again := s.Tick(pts, gen); again {
		t.Error("expected auto-stop on first tick from last index")
	}
}

func TestStaleGenerationDropped(t *testing.T) {
	s := New(time.Second)
	pts := subset()
	s.Select(pts[0])

	gen, _ := s.TogglePlay()
	s.TogglePlay() // pause: releases the timer
	if _, ok := s.Tick(pts, gen); ok {
		t.Error("tick from released timer must be ignored")
	}
	if idx := s.IndexIn(pts); idx != 0 {
		t.Errorf("stale tick moved selection to index %d", idx)
	}

	// pausing and resuming yields a fresh generation
	gen2, _ := s.TogglePlay()
	if gen2 == gen {
		t.Error("generation not refreshed on resume")
	}
	if _, ok := s.Tick(pts, gen2); !ok {
		t.Error("current generation tick should advance")
	}
}

func TestSubsetChangeReResolvesByID(t *testing.T) {
	s := New(time.Second)
	pts := subset()
	s.Select(pts[0])
	gen, _ := s.TogglePlay()

	// the filtered subset shrinks but still contains the current point
	narrowed := []points.Point{{ID: 10}, {ID: 30}}
	p, again := s.Tick(narrowed, gen)
	if !again || p.ID != 30 {
		t.Fatalf("tick against new subset = %+v, %v", p, again)
	}

	// current point filtered out entirely: playback stops
	s2 := New(time.Second)
	s2.Select(pts[0])
	gen2, _ := s2.TogglePlay()
	if _, again := s2.Tick([]points.Point{{ID: 99}}, gen2); again {
		t.Error("expected stop when current point left the subset")
	}
	if s2.State() != Positioned {
		t.Errorf("state = %v; want positioned", s2.State())
	}
}

func TestPlayFromIdleSelectsHead(t *testing.T) {
	s := New(time.Second)
	pts := subset()
	gen, playing := s.TogglePlay()
	if !playing {
		t.Fatal("expected playing")
	}
	p, again := s.Tick(pts, gen)
	if !again || p.ID != 10 {
		t.Fatalf("first tick from idle = %+v, %v", p, again)
	}
}

func TestManualStepWhilePlayingKeepsTimer(t *testing.T) {
	s := New(time.Second)
	pts := subset()
	s.Select(pts[0])
	gen, _ := s.TogglePlay()

	if _, ok := s.Next(pts); !ok {
		t.Fatal("manual step while playing should work")
	}
	if s.State() != Playing {
		t.Errorf("manual step changed state to %v", s.State())
	}
	// the armed generation is still honored
	p, again := s.Tick(pts, gen)
	if !again || p.ID != 30 {
		t.Fatalf("tick after manual step = %+v, %v", p, again)
	}
}

func TestSelectWhilePlayingStops(t *testing.T) {
	s := New(time.Second)
	pts := subset()
	s.Select(pts[0])
	gen, _ := s.TogglePlay()

	s.Select(pts[2])
	if s.State() != Positioned {
		t.Errorf("state = %v; want positioned after select", s.State())
	}
	if _, ok := s.Tick(pts, gen); ok {
		t.Error("old timer generation must be dead after select")
	}
}

func TestIntervalGuard(t *testing.T) {
	s := New(0)
	if s.Interval() != time.Second {
		t.Errorf("zero interval not defaulted: %v", s.Interval())
	}
	s.SetInterval(250 * time.Millisecond)
	if s.Interval() != 250*time.Millisecond {
		t.Errorf("SetInterval ignored: %v", s.Interval())
	}
	s.SetInterval(-1)
	if s.Interval() != 250*time.Millisecond {
		t.Errorf("negative interval accepted: %v", s.Interval())
	}
}
