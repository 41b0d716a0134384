package game

import (
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
)

// MissileManager owns all live projectiles and the ground fires their
// detonations create. Drawing order puts fires under missiles so explosions
// read on top of burning ground.
type MissileManager struct {
	missiles []*Missile
	fires    []*GroundFire
	audio    AudioPlayer
	rng      *rand.Rand
}

// NewMissileManager returns a manager seeded for deterministic visuals.
// audio may be nil in headless runs.
func NewMissileManager(audio AudioPlayer, seed int64) *MissileManager {
	return &MissileManager{
		audio: audio,
		rng:   rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
	}
}

// FireMissile launches a missile toward the target point. Special-attack
// missiles get the larger body, longer trail, and spawn a ground fire on
// detonation.
func (mm *MissileManager) FireMissile(startX, startY, targetX, targetY, damage, explosionRadius float64, special bool) *Missile {
	m := newMissile(missileSpec{
		startX: startX, startY: startY,
		targetX: targetX, targetY: targetY,
		damage:          damage,
		explosionRadius: explosionRadius,
		special:         special,
	}, mm.audio, mm.rng)
	if special {
		m.spawnGroundFire = mm.SpawnGroundFire
	}
	mm.missiles = append(mm.missiles, m)
	return m
}

// FireGrenade launches a grenade: slower, no trail or flight sound, rendered
// as a tumbling shell instead of a rocket.
func (mm *MissileManager) FireGrenade(startX, startY, targetX, targetY, damage, explosionRadius float64) *Missile {
	m := newMissile(missileSpec{
		startX: startX, startY: startY,
		targetX: targetX, targetY: targetY,
		damage:          damage,
		explosionRadius: explosionRadius,
		grenade:         true,
	}, mm.audio, mm.rng)
	mm.missiles = append(mm.missiles, m)
	return m
}

// SpawnGroundFire adds a burning area directly. Also bound onto
// special-attack missiles as their detonation callback.
func (mm *MissileManager) SpawnGroundFire(x, y, radius, damagePerSecond, duration float64) {
	mm.fires = append(mm.fires, NewGroundFire(x, y, radius, damagePerSecond, duration, mm.rng))
}

// Update advances every projectile and fire, removing finished ones.
func (mm *MissileManager) Update(dt float64, enemies []Enemy) {
	kept := mm.missiles[:0]
	for _, m := range mm.missiles {
		if m.Update(dt, enemies) {
			m.stopFlightSound()
			continue
		}
		kept = append(kept, m)
	}
	mm.missiles = kept

	keptFires := mm.fires[:0]
	for _, f := range mm.fires {
		if f.Update(dt) {
			continue
		}
		keptFires = append(keptFires, f)
	}
	mm.fires = keptFires
}

// CheckVisualDamage collects body-hit and explosion damage events from every
// live missile. This pass is the sole damage authority for projectiles.
func (mm *MissileManager) CheckVisualDamage(enemies []Enemy) []DamageEvent {
	var events []DamageEvent
	for _, m := range mm.missiles {
		events = append(events, m.CheckVisualDamage(enemies)...)
	}
	return events
}

// CheckGroundFireDamage collects burn ticks from every active fire. now is
// the caller's clock in seconds, shared across calls so per-enemy cooldowns
// hold between frames.
func (mm *MissileManager) CheckGroundFireDamage(enemies []Enemy, now float64) []DamageEvent {
	var events []DamageEvent
	for _, f := range mm.fires {
		events = append(events, f.CheckEnemyDamage(enemies, now)...)
	}
	return events
}

// ExplodingMissiles returns missiles currently in their explosion phase, for
// screen shake and scoring hooks. Damage is never derived from this list.
func (mm *MissileManager) ExplodingMissiles() []*Missile {
	var out []*Missile
	for _, m := range mm.missiles {
		if m.IsExploding() {
			out = append(out, m)
		}
	}
	return out
}

// Draw renders ground fires, then missiles and explosions above them.
func (mm *MissileManager) Draw(screen *ebiten.Image, offX, offY float64) {
	for _, f := range mm.fires {
		f.Draw(screen, offX, offY)
	}
	for _, m := range mm.missiles {
		m.Draw(screen, offX, offY)
	}
}

// Clear removes all projectiles and fires, stopping any flight loops.
func (mm *MissileManager) Clear() {
	for _, m := range mm.missiles {
		m.stopFlightSound()
	}
	mm.missiles = nil
	mm.fires = nil
}

// MissileCount returns the number of live projectiles.
func (mm *MissileManager) MissileCount() int { return len(mm.missiles) }

// GroundFireCount returns the number of active burning areas.
func (mm *MissileManager) GroundFireCount() int { return len(mm.fires) }
