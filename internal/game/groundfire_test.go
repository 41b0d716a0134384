package game

import (
	"math"
	"math/rand"
	"testing"
)

type stubEnemy struct {
	id   int
	x, y float64
	size float64
}

func (e *stubEnemy) ID() int                      { return e.id }
func (e *stubEnemy) Position() (float64, float64) { return e.x, e.y }
func (e *stubEnemy) Size() float64                { return e.size }

func testRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- test only
}

func TestGroundFireDamageCooldown(t *testing.T) {
	gf := NewGroundFire(0, 0, 100, 15, 5, testRNG(1))
	inside := &stubEnemy{id: 1, x: 50, y: 0, size: 20}
	outside := &stubEnemy{id: 2, x: 200, y: 0, size: 20}
	enemies := []Enemy{inside, outside}

	// Tick the damage check every frame for 2.0s of clock time: exactly four
	// events fire for the inside enemy (t=0, 0.5, 1.0, 1.5), each for half
	// the per-second damage.
	const dt = 1.0 / 60.0
	events := 0
	for now := 0.0; now < 2.0-dt/2; now += dt {
		for _, ev := range gf.CheckEnemyDamage(enemies, now) {
			if ev.Enemy.ID() != inside.id {
				t.Fatalf("enemy outside the radius took damage")
			}
			if ev.Cause != DamageGroundFire {
				t.Fatalf("cause = %s, want ground_fire", ev.Cause)
			}
			if math.Abs(ev.Damage-7.5) > 1e-9 {
				t.Fatalf("damage = %.2f, want 7.5 (dps x cooldown)", ev.Damage)
			}
			events++
		}
	}
	if events != 4 {
		t.Fatalf("events over 2.0s = %d, want 4", events)
	}
}

func TestGroundFireRadiusIncludesEnemySize(t *testing.T) {
	gf := NewGroundFire(0, 0, 100, 15, 5, testRNG(2))

	// Centre at 105 with size 20: distance 105 <= 100 + 10, so it burns.
	grazing := &stubEnemy{id: 1, x: 105, y: 0, size: 20}
	if evs := gf.CheckEnemyDamage([]Enemy{grazing}, 0); len(evs) != 1 {
		t.Fatalf("enemy overlapping the edge took no damage")
	}

	clear := &stubEnemy{id: 2, x: 115, y: 0, size: 20}
	if evs := gf.CheckEnemyDamage([]Enemy{clear}, 0); len(evs) != 0 {
		t.Fatalf("enemy past the edge took damage")
	}
}

func TestGroundFirePerEnemyCooldownsAreIndependent(t *testing.T) {
	gf := NewGroundFire(0, 0, 100, 15, 5, testRNG(3))
	a := &stubEnemy{id: 1, x: 10, y: 0, size: 10}
	b := &stubEnemy{id: 2, x: -10, y: 0, size: 10}

	// a burns at t=0; b arrives at t=0.3 and must burn immediately.
	if evs := gf.CheckEnemyDamage([]Enemy{a}, 0); len(evs) != 1 {
		t.Fatalf("first contact for a produced %d events", len(evs))
	}
	evs := gf.CheckEnemyDamage([]Enemy{a, b}, 0.3)
	if len(evs) != 1 || evs[0].Enemy.ID() != b.id {
		t.Fatalf("b's first contact at t=0.3 produced %v", evs)
	}
}

func TestGroundFireExpires(t *testing.T) {
	gf := NewGroundFire(0, 0, 60, 15, 2, testRNG(4))
	const dt = 1.0 / 60.0
	ticks := 0
	for !gf.Update(dt) {
		ticks++
		if ticks > int(2.5/dt) {
			t.Fatalf("fire still burning at %.1fs, duration is 2s", float64(ticks)*dt)
		}
	}
	elapsed := float64(ticks+1) * dt
	if elapsed < 2.0-dt {
		t.Fatalf("fire expired at %.2fs, before its 2s duration", elapsed)
	}
}

func TestGroundFireFadeFactor(t *testing.T) {
	gf := NewGroundFire(0, 0, 60, 15, 10, testRNG(5))
	if f := gf.fadeFactor(); math.Abs(f-1.0) > 1e-9 {
		t.Fatalf("fresh fire fade = %.2f, want 1.0", f)
	}
	gf.age = 10
	if f := gf.fadeFactor(); math.Abs(f-0.6) > 1e-9 {
		t.Fatalf("end-of-life fade = %.2f, want 0.6", f)
	}
}
