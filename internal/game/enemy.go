package game

import "math"

// Enemy is the read-only view of a hostile entity that the effects core
// collides against. The host entity layer issues the stable integer ID; the
// core uses it for damage cooldown maps and per-missile dedup sets instead of
// relying on object identity.
type Enemy interface {
	ID() int
	Position() (x, y float64)
	Size() float64
}

// DamageCause identifies which effect produced a damage event.
type DamageCause int

const (
	DamageMissileBody DamageCause = iota
	DamageExplosion
	DamageGroundFire
)

func (c DamageCause) String() string {
	switch c {
	case DamageMissileBody:
		return "missile_body"
	case DamageExplosion:
		return "explosion"
	case DamageGroundFire:
		return "ground_fire"
	}
	return "unknown"
}

// DamageEvent is one pending damage attribution. The effects core never
// mutates enemy health itself; it returns these records and the combat layer
// applies them.
type DamageEvent struct {
	Enemy  Enemy
	Damage float64
	Cause  DamageCause
}

// enemyDistance returns the distance from (x, y) to the enemy centre.
func enemyDistance(x, y float64, e Enemy) float64 {
	ex, ey := e.Position()
	return math.Hypot(ex-x, ey-y)
}
