package game

import (
	"math"
	"testing"
)

// recordingAudio counts playback calls for audio-wiring assertions.
type recordingAudio struct {
	nextHandle    SoundHandle
	loopsStarted  []SoundHandle
	loopsStopped  []SoundHandle
	explosions    int
}

func (a *recordingAudio) PlayFlightLoop() SoundHandle {
	a.nextHandle++
	a.loopsStarted = append(a.loopsStarted, a.nextHandle)
	return a.nextHandle
}

func (a *recordingAudio) StopFlightLoop(h SoundHandle) {
	a.loopsStopped = append(a.loopsStopped, h)
}

func (a *recordingAudio) PlayExplosion() {
	a.explosions++
}

func TestManagerRemovesFinishedMissiles(t *testing.T) {
	mm := NewMissileManager(nil, 1)
	mm.FireMissile(0, 0, 100, 0, 120, 150, false)

	const dt = 1.0 / 60.0
	// 100px flight plus the 0.6s explosion is well under 2 seconds.
	for i := 0; i < 120; i++ {
		mm.Update(dt, nil)
	}
	if mm.MissileCount() != 0 {
		t.Fatalf("finished missile not removed, count = %d", mm.MissileCount())
	}
}

func TestSpecialMissileSpawnsManagedFire(t *testing.T) {
	mm := NewMissileManager(nil, 2)
	mm.FireMissile(0, 0, 100, 0, 180, 150, true)

	const dt = 1.0 / 60.0
	for i := 0; i < 30 && mm.GroundFireCount() == 0; i++ {
		mm.Update(dt, nil)
	}
	if mm.GroundFireCount() != 1 {
		t.Fatalf("special detonation left %d fires, want 1", mm.GroundFireCount())
	}
	fire := mm.fires[0]
	if math.Abs(fire.Radius()-150*spawnedFireRadiusScale) > 1e-9 {
		t.Fatalf("fire radius = %.1f, want %.1f", fire.Radius(), 150*spawnedFireRadiusScale)
	}

	// Standard missiles never leave fire behind.
	mm2 := NewMissileManager(nil, 3)
	mm2.FireMissile(0, 0, 100, 0, 120, 150, false)
	for i := 0; i < 120; i++ {
		mm2.Update(dt, nil)
	}
	if mm2.GroundFireCount() != 0 {
		t.Fatalf("standard missile spawned %d fires", mm2.GroundFireCount())
	}
}

func TestManagerAudioLifecycle(t *testing.T) {
	rec := &recordingAudio{}
	mm := NewMissileManager(rec, 4)

	mm.FireMissile(0, 0, 200, 0, 120, 150, false)
	if len(rec.loopsStarted) != 1 {
		t.Fatalf("missile launch started %d flight loops, want 1", len(rec.loopsStarted))
	}

	// Grenades are silent in flight.
	mm.FireGrenade(0, 0, 200, 0, 45, 100)
	if len(rec.loopsStarted) != 1 {
		t.Fatalf("grenade launch started a flight loop")
	}

	const dt = 1.0 / 60.0
	for i := 0; i < 120; i++ {
		mm.Update(dt, nil)
	}
	if len(rec.loopsStopped) != 1 || rec.loopsStopped[0] != rec.loopsStarted[0] {
		t.Fatalf("flight loop not stopped on detonation: stopped=%v started=%v",
			rec.loopsStopped, rec.loopsStarted)
	}
	if rec.explosions != 2 {
		t.Fatalf("explosion sounds = %d, want 2 (missile + grenade)", rec.explosions)
	}
}

func TestManagerClearStopsFlightAudio(t *testing.T) {
	rec := &recordingAudio{}
	mm := NewMissileManager(rec, 5)
	mm.FireMissile(0, 0, 2000, 0, 120, 150, false)
	mm.FireMissile(0, 500, 2000, 500, 120, 150, false)

	mm.Clear()
	if mm.MissileCount() != 0 || mm.GroundFireCount() != 0 {
		t.Fatalf("Clear left missiles=%d fires=%d", mm.MissileCount(), mm.GroundFireCount())
	}
	if len(rec.loopsStopped) != 2 {
		t.Fatalf("Clear stopped %d flight loops, want 2", len(rec.loopsStopped))
	}
}

func TestExplodingMissilesAccessor(t *testing.T) {
	mm := NewMissileManager(nil, 6)
	mm.FireMissile(0, 0, 50, 0, 120, 150, false)
	mm.FireMissile(0, 0, 3000, 0, 120, 150, false)

	const dt = 1.0 / 60.0
	for i := 0; i < 10; i++ {
		mm.Update(dt, nil)
	}
	exploding := mm.ExplodingMissiles()
	if len(exploding) != 1 {
		t.Fatalf("exploding missiles = %d, want 1 (short flight only)", len(exploding))
	}
	if !exploding[0].IsExploding() {
		t.Fatalf("accessor returned a non-exploding missile")
	}
}

func TestManagerGroundFireDamagePass(t *testing.T) {
	mm := NewMissileManager(nil, 7)
	mm.SpawnGroundFire(0, 0, 100, 15, 5)
	enemy := &stubEnemy{id: 1, x: 20, y: 0, size: 10}

	evs := mm.CheckGroundFireDamage([]Enemy{enemy}, 0)
	if len(evs) != 1 || evs[0].Cause != DamageGroundFire {
		t.Fatalf("ground fire pass events = %v", evs)
	}
	// Cooldown holds across manager calls at the same clock.
	if evs := mm.CheckGroundFireDamage([]Enemy{enemy}, 0.1); len(evs) != 0 {
		t.Fatalf("cooldown ignored across manager passes")
	}
}
