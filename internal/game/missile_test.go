package game

import (
	"math"
	"testing"
)

func newTestMissile(spec missileSpec) *Missile {
	return newMissile(spec, nil, testRNG(1))
}

func TestMissileStateProgression(t *testing.T) {
	m := newTestMissile(missileSpec{
		startX: 0, startY: 0,
		targetX: 100, targetY: 0,
		damage:          120,
		explosionRadius: 150,
	})
	if m.State() != MissileFlying {
		t.Fatalf("initial state = %s, want flying", m.State())
	}

	// At 800 px/s the 100px flight crosses the 10px fuse within 0.125s.
	const dt = 1.0 / 60.0
	elapsed := 0.0
	for m.State() == MissileFlying {
		m.Update(dt, nil)
		elapsed += dt
		if elapsed > 0.2 {
			t.Fatalf("missile still flying after %.2fs on a 100px flight", elapsed)
		}
	}
	if m.State() != MissileExploding {
		t.Fatalf("state after fuse = %s, want exploding", m.State())
	}
	x, y := m.Position()
	if math.Hypot(x-100, y) > targetFuseDistance+missileDefaultSpeed*dt {
		t.Fatalf("detonated at (%.1f, %.1f), far from target", x, y)
	}

	// Explosion runs for 0.6s, then the missile reports finished.
	explosionTicks := 0
	removed := false
	for !removed {
		removed = m.Update(dt, nil)
		explosionTicks++
		if explosionTicks > int(explosionDuration/dt)+2 {
			t.Fatalf("explosion did not finish after %.2fs", float64(explosionTicks)*dt)
		}
	}
	if m.State() != MissileFinished {
		t.Fatalf("state after explosion = %s, want finished", m.State())
	}
	if got := float64(explosionTicks) * dt; got < explosionDuration-dt {
		t.Fatalf("explosion lasted %.2fs, want %.1fs", got, explosionDuration)
	}
}

func TestMissileZeroLengthFlightDetonatesByAge(t *testing.T) {
	m := newTestMissile(missileSpec{
		startX: 50, startY: 50,
		targetX: 50, targetY: 60, // within the 10px fuse from launch
		damage:  120, explosionRadius: 150,
	})
	m.Update(1.0/60.0, nil)
	if m.State() != MissileExploding {
		t.Fatalf("launch inside the fuse distance should detonate immediately, state = %s", m.State())
	}

	// Identical start and target: zero direction, zero velocity, the
	// max-flight fuse still fires.
	m2 := newTestMissile(missileSpec{
		startX: 500, startY: 500,
		targetX: 500, targetY: 500,
		damage:  120, explosionRadius: 150,
	})
	m2.x += 100 // move off the target so the distance fuse stays silent
	const dt = 0.1
	for i := 0; i < int(maxFlightTime/dt); i++ {
		m2.Update(dt, nil)
	}
	m2.Update(dt, nil)
	if m2.State() != MissileExploding {
		t.Fatalf("zero-velocity missile never hit the age fuse, state = %s", m2.State())
	}
}

func TestMissileProximityFuse(t *testing.T) {
	m := newTestMissile(missileSpec{
		startX: 0, startY: 0,
		targetX: 1000, targetY: 0,
		damage:  120, explosionRadius: 150,
	})
	enemy := &stubEnemy{id: 1, x: 400, y: 15, size: 20}

	const dt = 1.0 / 60.0
	for m.State() == MissileFlying {
		m.Update(dt, []Enemy{enemy})
	}
	x, _ := m.Position()
	if x > 450 {
		t.Fatalf("missile flew %.0fpx past the proximity target", x-400)
	}
}

func TestMissileBodyHitDedup(t *testing.T) {
	m := newTestMissile(missileSpec{
		startX: 0, startY: 0,
		targetX: 1000, targetY: 0,
		damage:  120, explosionRadius: 150,
	})
	// Body radius is max(60,18)/2 = 30; the enemy at 35 with size 20 overlaps
	// the hull (35 <= 30+10). No Update runs, so the proximity fuse stays out
	// of the picture.
	enemy := &stubEnemy{id: 7, x: 35, y: 0, size: 20}

	evs := m.CheckVisualDamage([]Enemy{enemy})
	if len(evs) != 1 {
		t.Fatalf("first pass events = %d, want 1", len(evs))
	}
	if evs[0].Cause != DamageMissileBody {
		t.Fatalf("cause = %s, want missile_body", evs[0].Cause)
	}
	if math.Abs(evs[0].Damage-30) > 1e-9 {
		t.Fatalf("body damage = %.1f, want 30 (quarter of 120)", evs[0].Damage)
	}

	// Same frame, same enemy: no double credit.
	if evs := m.CheckVisualDamage([]Enemy{enemy}); len(evs) != 0 {
		t.Fatalf("second pass produced %d duplicate events", len(evs))
	}
}

func TestExplosionDamageUsesGrowingRadius(t *testing.T) {
	m := newTestMissile(missileSpec{
		startX: 0, startY: 0,
		targetX: 5, targetY: 0, // detonates on the first update
		damage:  120, explosionRadius: 150,
	})
	m.Update(1.0/60.0, nil)
	if m.State() != MissileExploding {
		t.Fatalf("setup: missile not exploding")
	}

	// Early in the explosion the visual radius is small: a distant enemy is
	// untouched until the ring grows out to it.
	far := &stubEnemy{id: 1, x: 140, y: 0, size: 10}
	if evs := m.CheckVisualDamage([]Enemy{far}); len(evs) != 0 {
		t.Fatalf("enemy hit before the explosion reached it")
	}

	growTicks := explosionGrowPhase * explosionDuration * 60
	for i := 0; i < int(growTicks)+1; i++ {
		m.Update(1.0/60.0, nil)
	}
	evs := m.CheckVisualDamage([]Enemy{far})
	if len(evs) != 1 {
		t.Fatalf("full-size explosion missed an enemy inside its radius")
	}
	if evs[0].Cause != DamageExplosion || math.Abs(evs[0].Damage-120) > 1e-9 {
		t.Fatalf("explosion event = %+v, want full 120 damage", evs[0])
	}
}

func TestGrenadeVariant(t *testing.T) {
	g := newMissile(missileSpec{
		startX: 0, startY: 0,
		targetX: 600, targetY: 0,
		damage:  45, explosionRadius: 100,
		grenade: true,
	}, nil, testRNG(2))

	if g.maxTrail != 0 {
		t.Fatalf("grenade trail length = %d, want 0", g.maxTrail)
	}
	// Grenades fly slower: 600px at 600px/s is just under a second to the fuse.
	const dt = 1.0 / 60.0
	elapsed := 0.0
	for g.State() == MissileFlying {
		g.Update(dt, nil)
		elapsed += dt
	}
	if elapsed < 0.9 {
		t.Fatalf("grenade covered 600px in %.2fs, faster than 600px/s", elapsed)
	}
	if len(g.trail) != 0 {
		t.Fatalf("grenade accumulated %d trail points", len(g.trail))
	}
}

func TestSpecialMissileDimensions(t *testing.T) {
	m := newMissile(missileSpec{
		targetX: 100, special: true,
		damage:  180, explosionRadius: 150,
	}, nil, testRNG(3))
	if m.length != specialLength || m.width != specialWidth {
		t.Fatalf("special body = %gx%g, want %gx%g", m.length, m.width, specialLength, specialWidth)
	}
	if m.maxTrail != specialTrailLen {
		t.Fatalf("special trail = %d, want %d", m.maxTrail, specialTrailLen)
	}

	std := newMissile(missileSpec{
		targetX: 100,
		damage:  120, explosionRadius: 150,
	}, nil, testRNG(3))
	if std.length != missileLength || std.width != missileWidth {
		t.Fatalf("standard body = %gx%g, want %gx%g", std.length, std.width, missileLength, missileWidth)
	}
}

func TestSpecialDetonationSpawnsGroundFire(t *testing.T) {
	var spawned []float64
	m := newMissile(missileSpec{
		startX: 0, startY: 0,
		targetX: 5, targetY: 0,
		damage:  180, explosionRadius: 150,
		special: true,
	}, nil, testRNG(4))
	m.spawnGroundFire = func(x, y, radius, dps, duration float64) {
		spawned = []float64{x, y, radius, dps, duration}
	}

	m.Update(1.0/60.0, nil)
	if m.State() != MissileExploding {
		t.Fatalf("setup: missile not exploding")
	}
	if spawned == nil {
		t.Fatalf("special detonation spawned no ground fire")
	}
	if math.Abs(spawned[2]-150*spawnedFireRadiusScale) > 1e-9 {
		t.Fatalf("fire radius = %.1f, want %.1f", spawned[2], 150*spawnedFireRadiusScale)
	}
	if spawned[3] != spawnedFireDamage || spawned[4] != spawnedFireDuration {
		t.Fatalf("fire dps/duration = %.0f/%.0f, want %.0f/%.0f",
			spawned[3], spawned[4], spawnedFireDamage, spawnedFireDuration)
	}
}
