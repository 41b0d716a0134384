package game

import (
	"math"
	"testing"
)

func TestSparkSpawnCounts(t *testing.T) {
	p := NewSparkPool(1)
	for i := 0; i < 50; i++ {
		before := p.Count()
		p.AddScatterSparks(100, 100, SurfaceWall)
		added := p.Count() - before
		if added < sparkMinCount || added > sparkMaxCount {
			t.Fatalf("spawn %d added %d sparks, want %d-%d", i, added, sparkMinCount, sparkMaxCount)
		}
	}
}

func TestImpactSparksReflectAroundImpactAngle(t *testing.T) {
	p := NewSparkPool(2)
	// Impact travelling straight right: sparks fly back left, within ±60°.
	p.AddImpactSparks(0, 0, 0, SurfaceMetal)
	for i, s := range p.sparks {
		a := math.Atan2(s.vy, s.vx)
		diff := math.Abs(math.Atan2(math.Sin(a-math.Pi), math.Cos(a-math.Pi)))
		if diff > sparkSpread+1e-9 {
			t.Fatalf("spark %d direction %.2f rad deviates %.2f from reflection, spread limit %.2f",
				i, a, diff, sparkSpread)
		}
	}
}

func TestSparkFadeIsMonotonic(t *testing.T) {
	p := NewSparkPool(3)
	p.AddScatterSparks(0, 0, SurfaceDirt)

	prevSizes := make(map[*ImpactSpark]float64)
	prevReds := make(map[*ImpactSpark]uint8)
	for _, s := range p.sparks {
		prevSizes[s] = s.size
		prevReds[s] = s.col.R
	}

	for tick := 0; tick < 40; tick++ {
		p.Update(1.0 / 60.0)
		for _, s := range p.sparks {
			if s.size > prevSizes[s]+1e-9 {
				t.Fatalf("spark size grew at tick %d", tick)
			}
			if s.col.R > prevReds[s] {
				t.Fatalf("spark red channel grew at tick %d", tick)
			}
			prevSizes[s] = s.size
			prevReds[s] = s.col.R
		}
	}
}

func TestSparkExpiresAtLifetime(t *testing.T) {
	p := NewSparkPool(4)
	p.AddScatterSparks(0, 0, SurfaceWall)

	// No lifetime exceeds sparkMaxLife, so the pool must drain in that time.
	ticks := int(sparkMaxLife*60) + 2
	for i := 0; i < ticks; i++ {
		p.Update(1.0 / 60.0)
	}
	if p.Count() != 0 {
		t.Fatalf("%d sparks alive past the maximum lifetime", p.Count())
	}
}

// The advance must use the previous tick's velocity, then apply gravity,
// then drag, in that order.
func TestSparkIntegrationOrder(t *testing.T) {
	s := &ImpactSpark{
		x: 10, y: 20,
		vx: 60, vy: -120,
		initSize: 3, size: 3,
		lifetime: 1.0,
	}
	const dt = 1.0 / 60.0
	s.update(dt)

	if math.Abs(s.x-(10+60*dt)) > 1e-9 || math.Abs(s.y-(20-120*dt)) > 1e-9 {
		t.Fatalf("position advanced with post-update velocity: (%.4f, %.4f)", s.x, s.y)
	}
	wantVY := (-120 + sparkGravity*dt) * sparkDrag
	if math.Abs(s.vy-wantVY) > 1e-9 {
		t.Fatalf("vy = %.4f, want %.4f (gravity before drag)", s.vy, wantVY)
	}
	if math.Abs(s.vx-60*sparkDrag) > 1e-9 {
		t.Fatalf("vx = %.4f, want %.4f", s.vx, 60*sparkDrag)
	}
}

func TestSparkPoolClear(t *testing.T) {
	p := NewSparkPool(6)
	p.AddScatterSparks(0, 0, SurfaceWall)
	p.AddImpactSparks(50, 50, 1.0, SurfaceMetal)
	p.Clear()
	if p.Count() != 0 {
		t.Fatalf("Clear left %d sparks", p.Count())
	}
}
