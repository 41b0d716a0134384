package game

import (
	"fmt"
	"math/rand"
)

const simTickDelta = 1.0 / 60.0 // s per headless tick

// SimEnemy is a stationary target with hit points, used by the headless
// harness as the damage sink for missiles, explosions and ground fires.
type SimEnemy struct {
	id     int
	x, y   float64
	size   float64
	Health float64
}

func (e *SimEnemy) ID() int                      { return e.id }
func (e *SimEnemy) Position() (float64, float64) { return e.x, e.y }
func (e *SimEnemy) Size() float64                { return e.size }

// Alive reports whether the enemy still has hit points.
func (e *SimEnemy) Alive() bool { return e.Health > 0 }

// EffectsSim is a headless simulation harness used by tests and the
// soak-report tool. It mirrors Game.Update but has no Ebiten dependency and
// supports deterministic seeding and structured logging.
type EffectsSim struct {
	Atmosphere *AtmosphereField
	Sparks     *SparkPool
	Missiles   *MissileManager
	Enemies    []*SimEnemy
	Log        *EffectsLog

	now  float64 // sim clock, seconds
	tick int

	rng    *rand.Rand
	nextID int

	// Stable log labels per missile, assigned in launch order.
	labels      map[*Missile]string
	nextMissile int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // seed, verbose, atmosphere: applied first
	simOptActor                      // enemies: applied after managers exist
)

// SimOption is a builder function applied to an EffectsSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*EffectsSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(es *EffectsSim) {
		es.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(es *EffectsSim) {
		es.Log = NewEffectsLog(v)
	}}
}

// WithAtmosphere sets the starting atmosphere kind.
func WithAtmosphere(kind AtmosphereKind) SimOption {
	return SimOption{simOptInfra, func(es *EffectsSim) {
		es.Atmosphere.SetAtmosphere(kind)
	}}
}

// WithEnemy adds a stationary enemy at (x,y) with the given body size and
// hit points.
func WithEnemy(x, y, size, health float64) SimOption {
	return SimOption{simOptActor, func(es *EffectsSim) {
		es.AddEnemy(x, y, size, health)
	}}
}

// NewEffectsSim constructs an EffectsSim from the given options in two
// ordered passes: infrastructure first (seed, verbose, atmosphere), then
// actors. Audio is always nil in headless runs.
func NewEffectsSim(opts ...SimOption) *EffectsSim {
	es := &EffectsSim{
		Log:    NewEffectsLog(false),
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
		labels: make(map[*Missile]string),
	}
	for _, o := range opts {
		if o.kind == simOptInfra && o.fn != nil {
			// Atmosphere options need the field to exist; build it lazily on
			// first use with whatever seed is current.
			if es.Atmosphere == nil {
				es.Atmosphere = NewAtmosphereField(es.rng.Int63())
			}
			o.fn(es)
		}
	}
	if es.Atmosphere == nil {
		es.Atmosphere = NewAtmosphereField(es.rng.Int63())
	}
	es.Sparks = NewSparkPool(es.rng.Int63())
	es.Missiles = NewMissileManager(nil, es.rng.Int63())
	for _, o := range opts {
		if o.kind == simOptActor {
			o.fn(es)
		}
	}
	return es
}

// AddEnemy adds a stationary enemy and returns it.
func (es *EffectsSim) AddEnemy(x, y, size, health float64) *SimEnemy {
	e := &SimEnemy{id: es.nextID, x: x, y: y, size: size, Health: health}
	es.nextID++
	es.Enemies = append(es.Enemies, e)
	return e
}

// AliveEnemies returns the enemies that still have hit points, as the
// Enemy interface slice the effect managers consume.
func (es *EffectsSim) AliveEnemies() []Enemy {
	var out []Enemy
	for _, e := range es.Enemies {
		if e.Alive() {
			out = append(out, e)
		}
	}
	return out
}

// Now returns the simulation clock in seconds.
func (es *EffectsSim) Now() float64 { return es.now }

// CurrentTick returns the current simulation tick.
func (es *EffectsSim) CurrentTick() int { return es.tick }

// RunTicks advances the simulation n ticks at 60 Hz, applying damage events
// to enemy health and logging to Log.
func (es *EffectsSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		es.tick++
		es.now += simTickDelta
		es.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if
// predicate returns true. Returns the tick at which the predicate was
// satisfied, or -1.
func (es *EffectsSim) RunUntil(predicate func(*EffectsSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		es.tick++
		es.now += simTickDelta
		es.runOneTick()
		if predicate(es) {
			return es.tick
		}
	}
	return -1
}

// runOneTick mirrors Game.Update for the headless harness: advance effects,
// then run the two damage passes and apply their events.
func (es *EffectsSim) runOneTick() {
	tick := es.tick
	enemies := es.AliveEnemies()

	tracked := make([]*Missile, len(es.Missiles.missiles))
	copy(tracked, es.Missiles.missiles)
	prevStates := make([]MissileState, len(tracked))
	for i, m := range tracked {
		if _, ok := es.labels[m]; !ok {
			es.labels[m] = fmt.Sprintf("M%d", es.nextMissile)
			es.nextMissile++
		}
		prevStates[i] = m.State()
	}
	prevFires := es.Missiles.GroundFireCount()

	es.Atmosphere.Update(simTickDelta)
	es.Sparks.Update(simTickDelta)
	es.Missiles.Update(simTickDelta, enemies)

	for i, m := range tracked {
		if m.State() != prevStates[i] {
			x, y := m.Position()
			es.Log.Add(tick, es.labels[m], "missile", "state_change",
				fmt.Sprintf("%s → %s at (%.0f,%.0f)", prevStates[i], m.State(), x, y), 0)
		}
		if m.State() == MissileFinished {
			delete(es.labels, m)
		}
	}
	if n := es.Missiles.GroundFireCount(); n > prevFires {
		es.Log.Add(tick, "--", "fire", "spawned",
			fmt.Sprintf("%d → %d active fires", prevFires, n), float64(n))
	}

	for _, ev := range es.Missiles.CheckVisualDamage(enemies) {
		es.applyDamage(tick, ev)
	}
	for _, ev := range es.Missiles.CheckGroundFireDamage(enemies, es.now) {
		es.applyDamage(tick, ev)
	}

	es.Log.AddVerbose(tick, "--", "missile", "count", "", float64(es.Missiles.MissileCount()))
	es.Log.AddVerbose(tick, "--", "spark", "count", "", float64(es.Sparks.Count()))
}

// applyDamage is the harness's stand-in for the combat layer: it subtracts
// the event's damage from the enemy and logs it.
func (es *EffectsSim) applyDamage(tick int, ev DamageEvent) {
	e, ok := ev.Enemy.(*SimEnemy)
	if !ok {
		return
	}
	e.Health -= ev.Damage
	es.Log.Add(tick, fmt.Sprintf("E%d", e.id), "damage", ev.Cause.String(),
		fmt.Sprintf("%.1f dmg, %.1f hp left", ev.Damage, e.Health), ev.Damage)
}

// TotalDamageByCause sums applied damage per cause from the log.
func (es *EffectsSim) TotalDamageByCause() map[string]float64 {
	out := make(map[string]float64)
	for _, e := range es.Log.Filter("damage", "") {
		out[e.Key] += e.NumVal
	}
	return out
}
