package game

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// --- Ground fire constants ---

const (
	groundFireDefaultDuration = 5.0 // s
	groundFireCooldown        = 0.5 // s between damage ticks per enemy
	groundFireEndFade         = 0.4 // lifetime fade: opacity falls to 60% of full
	smokeRiseSpeed            = 10.0 // px/s upward bias on smoke drift
)

// fireParticle is one animated particle in a ground fire layer. Fields beyond
// the shared set are used only by the layer that owns the particle.
type fireParticle struct {
	x, y         float64
	baseX, baseY float64
	size         float64
	intensity    float64
	flickerSpeed float64
	colorVariant float64

	// Dancing flames.
	danceRadius float64
	danceSpeed  float64

	// Sparks.
	popInterval float64
	lastPop     float64

	// Smoke.
	driftDir   float64
	driftSpeed float64
}

// GroundFire is a stationary damage-over-time zone with a four-layer
// procedural flame animation. Damage pacing is wall-clock based: the caller
// passes an explicit timestamp so cooldowns stay frame-rate independent.
type GroundFire struct {
	x, y            float64
	radius          float64
	damagePerSecond float64
	duration        float64
	age             float64
	flickerTime     float64

	lastDamageAt map[int]float64 // enemy ID → last damage timestamp

	baseFlames    []fireParticle
	dancingFlames []fireParticle
	sparks        []fireParticle
	smoke         []fireParticle

	rng *rand.Rand
}

// NewGroundFire creates a fire zone and procedurally seeds its particle
// layers. Layer counts scale with the radius.
func NewGroundFire(x, y, radius, damagePerSecond, duration float64, rng *rand.Rand) *GroundFire {
	if duration <= 0 {
		duration = groundFireDefaultDuration
	}
	gf := &GroundFire{
		x:               x,
		y:               y,
		radius:          radius,
		damagePerSecond: damagePerSecond,
		duration:        duration,
		lastDamageAt:    make(map[int]float64),
		rng:             rng,
	}
	gf.seedLayers()
	return gf
}

func (gf *GroundFire) uniform(lo, hi float64) float64 {
	return lo + gf.rng.Float64()*(hi-lo)
}

// scatter returns a point uniformly sampled in the annulus [minR, maxR]
// around the fire centre (by angle + distance, matching the visual density
// the layers want).
func (gf *GroundFire) scatter(minR, maxR float64) (float64, float64) {
	a := gf.uniform(0, 2*math.Pi)
	d := gf.uniform(minR, maxR)
	return gf.x + math.Cos(a)*d, gf.y + math.Sin(a)*d
}

func (gf *GroundFire) seedLayers() {
	baseCount := int(gf.radius / 4)
	if baseCount < 1 {
		baseCount = 1
	}

	gf.baseFlames = make([]fireParticle, 0, baseCount)
	for i := 0; i < baseCount; i++ {
		x, y := gf.scatter(0, gf.radius*0.9)
		gf.baseFlames = append(gf.baseFlames, fireParticle{
			x: x, y: y, baseX: x, baseY: y,
			size:         gf.uniform(8, 16),
			intensity:    gf.uniform(0.8, 1.2),
			flickerSpeed: gf.uniform(6, 10),
			colorVariant: gf.uniform(0.8, 1.2),
		})
	}

	gf.dancingFlames = make([]fireParticle, 0, baseCount/2)
	for i := 0; i < baseCount/2; i++ {
		x, y := gf.scatter(0, gf.radius*0.7)
		gf.dancingFlames = append(gf.dancingFlames, fireParticle{
			x: x, y: y, baseX: x, baseY: y,
			size:         gf.uniform(6, 12),
			intensity:    gf.uniform(0.9, 1.4),
			flickerSpeed: gf.uniform(12, 18),
			danceRadius:  gf.uniform(8, 15),
			danceSpeed:   gf.uniform(2, 4),
			colorVariant: gf.uniform(0.9, 1.1),
		})
	}

	gf.sparks = make([]fireParticle, 0, baseCount*2)
	for i := 0; i < baseCount*2; i++ {
		x, y := gf.scatter(0, gf.radius*0.8)
		gf.sparks = append(gf.sparks, fireParticle{
			x: x, y: y, baseX: x, baseY: y,
			size:         gf.uniform(2, 5),
			intensity:    gf.uniform(1.0, 1.5),
			flickerSpeed: gf.uniform(15, 25),
			popInterval:  gf.uniform(0.5, 2.0),
			colorVariant: gf.uniform(1.0, 1.3),
		})
	}

	gf.smoke = make([]fireParticle, 0, baseCount/3)
	for i := 0; i < baseCount/3; i++ {
		x, y := gf.scatter(gf.radius*0.3, gf.radius*1.1)
		gf.smoke = append(gf.smoke, fireParticle{
			x: x, y: y, baseX: x, baseY: y,
			size:       gf.uniform(10, 20),
			intensity:  gf.uniform(0.3, 0.7),
			driftSpeed: gf.uniform(1, 3),
			driftDir:   gf.uniform(0, 2*math.Pi),
		})
	}
}

// Position returns the fire centre.
func (gf *GroundFire) Position() (float64, float64) { return gf.x, gf.y }

// Radius returns the damage radius.
func (gf *GroundFire) Radius() float64 { return gf.radius }

// Update advances all layer animations. Returns true when the fire has burned
// out and should be removed.
func (gf *GroundFire) Update(dt float64) bool {
	gf.age += dt
	gf.flickerTime += dt

	for i := range gf.baseFlames {
		p := &gf.baseFlames[i]
		flicker := math.Sin(gf.flickerTime*p.flickerSpeed) * 2
		p.x = p.baseX + gf.uniform(-1, 1) + flicker
		p.y = p.baseY + gf.uniform(-1, 1) + flicker*0.5
	}

	for i := range gf.dancingFlames {
		p := &gf.dancingFlames[i]
		danceAngle := gf.flickerTime * p.danceSpeed
		flicker := math.Sin(gf.flickerTime*p.flickerSpeed) * 3
		p.x = p.baseX + math.Cos(danceAngle)*p.danceRadius + gf.uniform(-2, 2) + flicker
		p.y = p.baseY + math.Sin(danceAngle)*p.danceRadius*0.5 + gf.uniform(-1, 1) + flicker*0.3
	}

	for i := range gf.sparks {
		p := &gf.sparks[i]
		// Occasional bright pop, decaying back toward the base intensity.
		if gf.flickerTime-p.lastPop > p.popInterval {
			p.lastPop = gf.flickerTime
			p.popInterval = gf.uniform(0.5, 2.0)
			p.intensity = gf.uniform(1.5, 2.0)
		} else {
			p.intensity = math.Max(0.8, p.intensity-dt*2)
		}
		flicker := math.Sin(gf.flickerTime*p.flickerSpeed) * 4
		p.x = p.baseX + gf.uniform(-3, 3) + flicker
		p.y = p.baseY + gf.uniform(-2, 2) + flicker*0.4
	}

	for i := range gf.smoke {
		p := &gf.smoke[i]
		p.x += math.Cos(p.driftDir) * p.driftSpeed * dt
		p.y += math.Sin(p.driftDir)*p.driftSpeed*dt - smokeRiseSpeed*dt
	}

	return gf.age >= gf.duration
}

// CheckEnemyDamage emits one damage event per enemy inside the fire whose
// cooldown window has elapsed at the given timestamp. Each event carries
// damagePerSecond × cooldown so total applied damage is independent of frame
// rate.
func (gf *GroundFire) CheckEnemyDamage(enemies []Enemy, now float64) []DamageEvent {
	var events []DamageEvent
	for _, e := range enemies {
		if enemyDistance(gf.x, gf.y, e) > gf.radius+e.Size()/2 {
			continue
		}
		if last, ok := gf.lastDamageAt[e.ID()]; ok && now-last < groundFireCooldown {
			continue
		}
		events = append(events, DamageEvent{
			Enemy:  e,
			Damage: gf.damagePerSecond * groundFireCooldown,
			Cause:  DamageGroundFire,
		})
		gf.lastDamageAt[e.ID()] = now
	}
	return events
}

// fadeFactor is the lifetime opacity multiplier: linear from 1.0 down to 0.6
// at burnout.
func (gf *GroundFire) fadeFactor() float64 {
	return 1.0 - clamp01(gf.age/gf.duration)*groundFireEndFade
}

// Draw renders the fire back-to-front: area glow, smoke, base flames, dancing
// flames, sparks, then the pulsing danger ring.
func (gf *GroundFire) Draw(screen *ebiten.Image, offX, offY float64) {
	fade := gf.fadeFactor()
	cx := float32(gf.x - offX)
	cy := float32(gf.y - offY)

	gf.drawBaseGlow(screen, cx, cy, fade)
	gf.drawSmoke(screen, offX, offY, fade)
	gf.drawBaseFlames(screen, offX, offY, fade)
	gf.drawDancingFlames(screen, offX, offY, fade)
	gf.drawSparks(screen, offX, offY, fade)
	gf.drawDangerRing(screen, cx, cy, fade)
}

func (gf *GroundFire) drawBaseGlow(screen *ebiten.Image, cx, cy float32, fade float64) {
	glowR := float32(gf.radius * 1.2)
	a := 40 * fade
	vector.FillCircle(screen, cx, cy, glowR, color.RGBA{R: 255, G: 80, B: 0, A: clamp255(a)}, false)
	vector.FillCircle(screen, cx, cy, glowR*0.8, color.RGBA{R: 255, G: 120, B: 20, A: clamp255(a * 1.2)}, false)
	vector.FillCircle(screen, cx, cy, glowR*0.6, color.RGBA{R: 255, G: 150, B: 50, A: clamp255(a * 1.4)}, false)
}

func (gf *GroundFire) drawSmoke(screen *ebiten.Image, offX, offY, fade float64) {
	for i := range gf.smoke {
		p := &gf.smoke[i]
		size := p.size * p.intensity * fade
		if size <= 0 {
			continue
		}
		grey := clamp255(80 + 40*p.intensity)
		col := color.RGBA{R: grey, G: grey, B: grey, A: clamp255(120 * p.intensity * fade)}
		vector.FillCircle(screen, float32(p.x-offX), float32(p.y-offY), float32(size), col, false)
	}
}

func (gf *GroundFire) drawBaseFlames(screen *ebiten.Image, offX, offY, fade float64) {
	for i := range gf.baseFlames {
		p := &gf.baseFlames[i]
		size := p.size * p.intensity * fade
		if size <= 0 {
			continue
		}
		col := color.RGBA{
			R: clamp255(255 * fade * p.colorVariant),
			G: clamp255(120 * fade * p.colorVariant),
			A: 255,
		}
		x := float32(p.x - offX)
		y := float32(p.y - offY)
		vector.FillCircle(screen, x, y, float32(size), col, false)
		if size > 3 {
			glow := col
			glow.A = clamp255(80 * fade * p.intensity)
			vector.FillCircle(screen, x, y, float32(size+3), glow, false)
		}
	}
}

func (gf *GroundFire) drawDancingFlames(screen *ebiten.Image, offX, offY, fade float64) {
	for i := range gf.dancingFlames {
		p := &gf.dancingFlames[i]
		size := p.size * p.intensity * fade
		if size <= 0 {
			continue
		}
		col := color.RGBA{
			R: clamp255(255 * fade),
			G: clamp255(160 * fade * p.colorVariant),
			B: clamp255(20 * fade * p.colorVariant),
			A: 255,
		}
		x := float32(p.x - offX)
		y := float32(p.y - offY)
		vector.FillCircle(screen, x, y, float32(size), col, false)
		if size > 2 {
			glow := col
			glow.A = clamp255(100 * fade * p.intensity)
			vector.FillCircle(screen, x, y, float32(size+2), glow, false)
		}
	}
}

func (gf *GroundFire) drawSparks(screen *ebiten.Image, offX, offY, fade float64) {
	for i := range gf.sparks {
		p := &gf.sparks[i]
		size := p.size * p.intensity * fade
		if size <= 0 {
			continue
		}
		boost := p.intensity * p.colorVariant
		col := color.RGBA{
			R: clamp255(255 * fade * boost),
			G: clamp255(200 * fade * boost),
			B: clamp255(100 * fade * boost),
			A: 255,
		}
		x := float32(p.x - offX)
		y := float32(p.y - offY)
		vector.FillCircle(screen, x, y, float32(size), col, false)
		if size > 1 {
			glow := col
			glow.A = clamp255(150 * fade * p.intensity)
			vector.FillCircle(screen, x, y, float32(size+1), glow, false)
		}
	}
}

func (gf *GroundFire) drawDangerRing(screen *ebiten.Image, cx, cy float32, fade float64) {
	pulse := 0.8 + 0.2*math.Sin(gf.flickerTime*4)
	a := 60 * fade * pulse
	if a <= 10 {
		return
	}
	vector.StrokeCircle(screen, cx, cy, float32(gf.radius), 2,
		color.RGBA{R: 255, A: clamp255(a)}, false)
}
