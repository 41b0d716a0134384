package game

import (
	"testing"
	"time"
)

// fakeClock advances only when told to, making the wall-clock pacing testable.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) fn() func() time.Time    { return func() time.Time { return c.now } }

func newTestTrail() (*FootprintTrail, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	ft := NewFootprintTrail()
	ft.clock = clock.fn()
	return ft, clock
}

func TestFootprintRateLimit(t *testing.T) {
	ft, clock := newTestTrail()

	ft.Add(0, 0)
	ft.Add(1, 0) // same instant, must be dropped
	if ft.Count() != 1 {
		t.Fatalf("count after two same-instant adds = %d, want 1", ft.Count())
	}

	clock.advance(footprintMinGap / 2)
	ft.Add(2, 0)
	if ft.Count() != 1 {
		t.Fatalf("add inside the minimum gap was accepted")
	}

	clock.advance(footprintMinGap / 2)
	ft.Add(3, 0)
	if ft.Count() != 2 {
		t.Fatalf("add at the gap boundary was rejected, count = %d", ft.Count())
	}
}

func TestFootprintCapDropsOldest(t *testing.T) {
	ft, clock := newTestTrail()

	for i := 0; i < footprintCap+10; i++ {
		ft.Add(float64(i), 0)
		clock.advance(footprintMinGap)
	}
	if ft.Count() != footprintCap {
		t.Fatalf("count = %d, want cap %d", ft.Count(), footprintCap)
	}
	if ft.prints[0].x != 10 {
		t.Fatalf("oldest surviving print x = %.0f, want 10 (first ten dropped)", ft.prints[0].x)
	}
}

func TestFootprintPruneAtFadeAge(t *testing.T) {
	ft, clock := newTestTrail()

	ft.Add(0, 0)
	clock.advance(footprintMinGap)
	ft.Add(1, 0)

	clock.advance(footprintFade - footprintMinGap - time.Millisecond)
	ft.Prune()
	if ft.Count() != 2 {
		t.Fatalf("prune removed prints still inside the fade window, count = %d", ft.Count())
	}

	clock.advance(2 * time.Millisecond)
	ft.Prune()
	if ft.Count() != 1 {
		t.Fatalf("first print should have expired, count = %d", ft.Count())
	}

	clock.advance(footprintFade)
	ft.Prune()
	if ft.Count() != 0 {
		t.Fatalf("all prints should have expired, count = %d", ft.Count())
	}
}
