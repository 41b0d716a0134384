package game

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// --- Missile constants ---

const (
	missileDefaultSpeed = 800.0 // px/s
	grenadeDefaultSpeed = 600.0

	missileLength = 60.0 // px, standard body
	missileWidth  = 18.0
	specialLength = 80.0 // px, special-attack body
	specialWidth  = 24.0

	missileTrailLen = 8  // trail points, standard
	specialTrailLen = 10 // trail points, special attack

	maxFlightTime         = 5.0  // s before auto-detonation
	targetFuseDistance    = 10.0 // px to target that triggers detonation
	proximityFuseDistance = 30.0 // px to any enemy that triggers detonation

	explosionDuration  = 0.6 // s
	explosionGrowPhase = 0.7 // fraction of duration over which the radius grows

	// Explosion render sub-phase boundaries (fractions of explosionDuration).
	explosionFlashEnd     = 0.1
	explosionExpansionEnd = 0.4
	explosionPeakEnd      = 0.7

	// Ground fire spawned by special-attack detonations.
	spawnedFireRadiusScale = 0.8
	spawnedFireDamage      = 15.0 // dmg/s
	spawnedFireDuration    = 5.0  // s

	flameFlickerHz    = 12.0
	grenadeBodyRadius = 12.0
)

// MissileState is the missile lifecycle phase. Transitions are monotonic:
// FLYING → EXPLODING → FINISHED, each entered exactly once.
type MissileState int

const (
	MissileFlying MissileState = iota
	MissileExploding
	MissileFinished
)

func (s MissileState) String() string {
	switch s {
	case MissileFlying:
		return "flying"
	case MissileExploding:
		return "exploding"
	case MissileFinished:
		return "finished"
	}
	return "unknown"
}

// GroundFireSpawner is bound onto special-attack missiles so detonation can
// leave a burning area behind without the missile owning the fire pool.
type GroundFireSpawner func(x, y, radius, damagePerSecond, duration float64)

type trailPoint struct {
	x, y float64
}

// missileSpec carries the spawn parameters for one projectile.
type missileSpec struct {
	startX, startY   float64
	targetX, targetY float64
	damage           float64
	explosionRadius  float64
	speed            float64 // 0 picks the per-variant default
	special          bool
	grenade          bool
}

// Missile is a ballistic projectile flying toward a fixed target point, with
// an explosion phase and visual-hitbox damage attribution. Grenades share the
// state machine but skip the trail, flight sound and rocket rendering.
type Missile struct {
	x, y             float64
	targetX, targetY float64
	vx, vy           float64
	angle            float64 // facing, radians

	damage          float64
	explosionRadius float64
	state           MissileState
	special         bool
	grenade         bool

	length float64
	width  float64

	trail    []trailPoint
	maxTrail int

	age          float64
	flickerTime  float64
	explosionAge float64

	// Enemy IDs already credited with damage by this missile.
	damaged map[int]struct{}

	audio         AudioPlayer
	flightSound   SoundHandle
	flightSoundOn bool

	spawnGroundFire GroundFireSpawner

	rng *rand.Rand
}

func newMissile(spec missileSpec, audio AudioPlayer, rng *rand.Rand) *Missile {
	speed := spec.speed
	if speed <= 0 {
		if spec.grenade {
			speed = grenadeDefaultSpeed
		} else {
			speed = missileDefaultSpeed
		}
	}

	m := &Missile{
		x:               spec.startX,
		y:               spec.startY,
		targetX:         spec.targetX,
		targetY:         spec.targetY,
		damage:          spec.damage,
		explosionRadius: spec.explosionRadius,
		state:           MissileFlying,
		special:         spec.special,
		grenade:         spec.grenade,
		length:          missileLength,
		width:           missileWidth,
		maxTrail:        missileTrailLen,
		damaged:         make(map[int]struct{}),
		audio:           audio,
		rng:             rng,
	}
	if spec.special {
		m.length = specialLength
		m.width = specialWidth
		m.maxTrail = specialTrailLen
	}
	if spec.grenade {
		m.maxTrail = 0
	}

	// Zero-length direction falls back to zero velocity; the max-flight-time
	// fuse still detonates the projectile where it sits.
	m.vx, m.vy = normalizeScaled(spec.targetX-spec.startX, spec.targetY-spec.startY, speed)
	m.angle = math.Atan2(m.vy, m.vx)

	// Grenades never carry the looping flight sound.
	if m.audio != nil && !m.grenade {
		if h := m.audio.PlayFlightLoop(); h != 0 {
			m.flightSound = h
			m.flightSoundOn = true
		}
	}
	return m
}

// State returns the current lifecycle phase.
func (m *Missile) State() MissileState { return m.state }

// Position returns the missile (or explosion) centre.
func (m *Missile) Position() (float64, float64) { return m.x, m.y }

// IsExploding reports whether the missile is in its explosion phase.
func (m *Missile) IsExploding() bool { return m.state == MissileExploding }

// ExplosionRadius returns the full explosion radius (the visual radius grows
// toward this during the explosion phase).
func (m *Missile) ExplosionRadius() float64 { return m.explosionRadius }

// Update advances the missile one tick. Returns true when the missile has
// reached FINISHED and should be removed by its owner.
func (m *Missile) Update(dt float64, enemies []Enemy) bool {
	m.age += dt
	m.flickerTime += dt

	switch m.state {
	case MissileFlying:
		m.updateFlight(dt, enemies)
		return false
	case MissileExploding:
		m.explosionAge += dt
		if m.explosionAge >= explosionDuration {
			m.state = MissileFinished
		}
		return m.state == MissileFinished
	default:
		return true
	}
}

func (m *Missile) updateFlight(dt float64, enemies []Enemy) {
	prevX, prevY := m.x, m.y
	m.x += m.vx * dt
	m.y += m.vy * dt

	if m.maxTrail > 0 {
		m.trail = append(m.trail, trailPoint{prevX, prevY})
		if len(m.trail) > m.maxTrail {
			m.trail = m.trail[1:]
		}
	}

	if m.vx != 0 || m.vy != 0 {
		m.angle = math.Atan2(m.vy, m.vx)
	}

	if math.Hypot(m.targetX-m.x, m.targetY-m.y) < targetFuseDistance || m.age >= maxFlightTime {
		m.detonate()
		return
	}

	for _, e := range enemies {
		if enemyDistance(m.x, m.y, e) < proximityFuseDistance {
			m.detonate()
			return
		}
	}
}

// detonate transitions FLYING → EXPLODING exactly once, stops the flight
// loop, fires the explosion sound and, for armed special attacks, spawns the
// ground fire at the detonation point.
func (m *Missile) detonate() {
	m.state = MissileExploding
	m.explosionAge = 0

	m.stopFlightSound()
	if m.audio != nil {
		m.audio.PlayExplosion()
	}

	if m.special && m.spawnGroundFire != nil {
		m.spawnGroundFire(m.x, m.y,
			m.explosionRadius*spawnedFireRadiusScale,
			spawnedFireDamage, spawnedFireDuration)
	}
}

func (m *Missile) stopFlightSound() {
	if m.audio != nil && m.flightSoundOn {
		m.audio.StopFlightLoop(m.flightSound)
		m.flightSoundOn = false
		m.flightSound = 0
	}
}

// currentExplosionRadius is the growing visual radius: linear to full size
// over the first 70% of the explosion, then held during the fade.
func (m *Missile) currentExplosionRadius() float64 {
	progress := clamp01(m.explosionAge / explosionDuration)
	if progress < explosionGrowPhase {
		return m.explosionRadius * (progress / explosionGrowPhase)
	}
	return m.explosionRadius
}

// CheckVisualDamage returns damage events derived from the rendered effect
// geometry: quarter-damage body hits while flying, full-damage hits inside
// the current explosion radius while exploding. Each enemy ID is credited at
// most once per missile, however many frames it stays in range.
func (m *Missile) CheckVisualDamage(enemies []Enemy) []DamageEvent {
	var events []DamageEvent

	switch m.state {
	case MissileFlying:
		bodyRadius := math.Max(m.length, m.width) / 2
		for _, e := range enemies {
			if _, hit := m.damaged[e.ID()]; hit {
				continue
			}
			if enemyDistance(m.x, m.y, e) <= bodyRadius+e.Size()/2 {
				m.damaged[e.ID()] = struct{}{}
				events = append(events, DamageEvent{
					Enemy:  e,
					Damage: m.damage / 4,
					Cause:  DamageMissileBody,
				})
			}
		}
	case MissileExploding:
		radius := m.currentExplosionRadius()
		for _, e := range enemies {
			if _, hit := m.damaged[e.ID()]; hit {
				continue
			}
			if enemyDistance(m.x, m.y, e) <= radius+e.Size()/2 {
				m.damaged[e.ID()] = struct{}{}
				events = append(events, DamageEvent{
					Enemy:  e,
					Damage: m.damage,
					Cause:  DamageExplosion,
				})
			}
		}
	}
	return events
}

// --- Rendering ---

// Draw renders the projectile for its current state; FINISHED draws nothing.
func (m *Missile) Draw(screen *ebiten.Image, offX, offY float64) {
	switch m.state {
	case MissileFlying:
		if m.grenade {
			m.drawGrenade(screen, float32(m.x-offX), float32(m.y-offY))
		} else {
			m.drawTrail(screen, offX, offY)
			m.drawBody(screen, offX, offY)
		}
	case MissileExploding:
		m.drawExplosion(screen, float32(m.x-offX), float32(m.y-offY))
	}
}

func (m *Missile) drawGrenade(screen *ebiten.Image, cx, cy float32) {
	const r = grenadeBodyRadius
	// Olive body with a darker rim and a metal pin highlight.
	vector.FillCircle(screen, cx, cy, r, color.RGBA{R: 80, G: 90, B: 60, A: 255}, false)
	vector.StrokeCircle(screen, cx, cy, r, 2, color.RGBA{R: 60, G: 70, B: 45, A: 255}, false)
	vector.FillCircle(screen, cx, cy-r*0.6, 3, color.RGBA{R: 150, G: 150, B: 150, A: 255}, false)
	// Segmented cross-hatch.
	seam := color.RGBA{R: 50, G: 60, B: 35, A: 255}
	vector.StrokeLine(screen, cx-r*0.7, cy, cx+r*0.7, cy, 2, seam, false)
	vector.StrokeLine(screen, cx, cy-r*0.7, cx, cy+r*0.7, 2, seam, false)
}

// trailLayer is one concentric circle of the layered exhaust trail.
type trailLayer struct {
	size float64
	col  color.RGBA
}

var missileTrailLayers = []trailLayer{
	{12, color.RGBA{R: 255, G: 80, B: 0, A: 255}},
	{6, color.RGBA{R: 255, G: 180, B: 50, A: 255}},
	{3, color.RGBA{R: 255, G: 220, B: 100, A: 255}},
	{2, color.RGBA{R: 255, G: 255, B: 150, A: 255}},
}

var specialTrailLayers = []trailLayer{
	{16, color.RGBA{R: 255, G: 60, B: 0, A: 255}},
	{9, color.RGBA{R: 255, G: 140, B: 50, A: 255}},
	{4, color.RGBA{R: 255, G: 220, B: 120, A: 255}},
	{2, color.RGBA{R: 255, G: 255, B: 150, A: 255}},
}

func (m *Missile) drawTrail(screen *ebiten.Image, offX, offY float64) {
	if len(m.trail) == 0 {
		return
	}
	layers := missileTrailLayers
	if m.special {
		layers = specialTrailLayers
	}
	for i, tp := range m.trail {
		// Older points (front of the slice) fade toward black and shrink.
		fade := float64(i+1) / float64(len(m.trail))
		tx := float32(tp.x - offX)
		ty := float32(tp.y - offY)
		for _, layer := range layers {
			r := math.Max(1, layer.size*fade)
			col := color.RGBA{
				R: clamp255(float64(layer.col.R) * fade),
				G: clamp255(float64(layer.col.G) * fade),
				B: clamp255(float64(layer.col.B) * fade),
				A: 255,
			}
			vector.FillCircle(screen, tx, ty, float32(r), col, false)
		}
	}
}

func (m *Missile) drawBody(screen *ebiten.Image, offX, offY float64) {
	cx := m.x - offX
	cy := m.y - offY
	cos := math.Cos(m.angle)
	sin := math.Sin(m.angle)
	halfLen := m.length / 2
	perpX := -sin * (m.width / 2)
	perpY := cos * (m.width / 2)

	// Fuselage segments, darker at the tail and brighter toward the warhead.
	const segments = 3
	segLen := m.length / segments
	for i := 0; i < segments; i++ {
		segStart := (float64(i) - segments/2.0 + 0.5) * segLen
		segEnd := segStart + segLen*0.8
		shade := 0.6 + 0.4*float64(i)/(segments-1)
		col := color.RGBA{
			R: clamp255(180 * shade),
			G: clamp255(180 * shade),
			B: clamp255(200 * shade),
			A: 255,
		}
		fx := cx + cos*segEnd
		fy := cy + sin*segEnd
		bx := cx + cos*segStart
		by := cy + sin*segStart

		var path vector.Path
		path.MoveTo(float32(fx+perpX), float32(fy+perpY))
		path.LineTo(float32(fx-perpX), float32(fy-perpY))
		path.LineTo(float32(bx-perpX), float32(by-perpY))
		path.LineTo(float32(bx+perpX), float32(by+perpY))
		path.Close()
		fillPath(screen, &path, col)
	}

	// Warhead tip.
	tipX := cx + cos*halfLen
	tipY := cy + sin*halfLen
	tipBackX := cx + cos*(halfLen-8)
	tipBackY := cy + sin*(halfLen-8)
	var tip vector.Path
	tip.MoveTo(float32(tipX), float32(tipY))
	tip.LineTo(float32(tipBackX+perpX), float32(tipBackY+perpY))
	tip.LineTo(float32(tipBackX-perpX), float32(tipBackY-perpY))
	tip.Close()
	fillPath(screen, &tip, color.RGBA{R: 255, G: 200, B: 100, A: 255})

	// Tail fins.
	finLen := m.width * 1.2
	finBaseX := cx - cos*(halfLen-5)
	finBaseY := cy - sin*(halfLen-5)
	finCol := color.RGBA{R: 150, G: 100, B: 100, A: 255}
	for _, finAngle := range []float64{0.7, -0.7, 2.4, -2.4} {
		fpx := -sin*math.Cos(finAngle)*finLen - cos*math.Sin(finAngle)*finLen
		fpy := cos*math.Cos(finAngle)*finLen - sin*math.Sin(finAngle)*finLen
		var fin vector.Path
		fin.MoveTo(float32(finBaseX), float32(finBaseY))
		fin.LineTo(float32(finBaseX+fpx), float32(finBaseY+fpy))
		fin.LineTo(float32(finBaseX-cos*8+fpx*0.6), float32(finBaseY-sin*8+fpy*0.6))
		fin.Close()
		fillPath(screen, &fin, finCol)
	}

	m.drawExhaustFlame(screen, cx-cos*halfLen, cy-sin*halfLen, cos, sin)
}

// drawExhaustFlame renders the flickering layered flame behind the body.
// Flicker is three stacked sinusoids so the pulse never looks periodic.
func (m *Missile) drawExhaustFlame(screen *ebiten.Image, backX, backY, cos, sin float64) {
	f1 := math.Sin(m.flickerTime*flameFlickerHz) * 0.15
	f2 := math.Sin(m.flickerTime*flameFlickerHz*1.3) * 0.1
	f3 := math.Sin(m.flickerTime*flameFlickerHz*0.7) * 0.12
	base := 1.0
	if m.special {
		base = 1.2
	}
	intensity := base + f1 + f2 + f3
	if intensity < 0.6 {
		intensity = 0.6
	} else if intensity > 1.3 {
		intensity = 1.3
	}

	flameLen := m.length * 0.8
	layers := []struct {
		scale float64
		col   color.RGBA
	}{
		{1.0, color.RGBA{R: 255, G: 100, B: 0, A: 255}},
		{0.8, color.RGBA{R: 255, G: 150, B: 50, A: 255}},
		{0.6, color.RGBA{R: 255, G: 200, B: 100, A: 255}},
		{0.4, color.RGBA{R: 255, G: 255, B: 150, A: 255}},
	}
	for _, layer := range layers {
		length := flameLen * layer.scale * intensity
		width := m.width * 0.5 * layer.scale * intensity
		tipX := backX - cos*length
		tipY := backY - sin*length
		var path vector.Path
		path.MoveTo(float32(backX-sin*width/2), float32(backY+cos*width/2))
		path.LineTo(float32(backX+sin*width/2), float32(backY-cos*width/2))
		path.LineTo(float32(tipX), float32(tipY))
		path.Close()
		fillPath(screen, &path, layer.col)
	}
}

// drawExplosion renders the explosion as four sub-phases computed purely from
// the age fraction, with no stored sub-state.
func (m *Missile) drawExplosion(screen *ebiten.Image, cx, cy float32) {
	progress := clamp01(m.explosionAge / explosionDuration)
	switch {
	case progress < explosionFlashEnd:
		m.drawExplosionFlash(screen, cx, cy, progress/explosionFlashEnd)
	case progress < explosionExpansionEnd:
		m.drawExplosionExpansion(screen, cx, cy,
			(progress-explosionFlashEnd)/(explosionExpansionEnd-explosionFlashEnd))
	case progress < explosionPeakEnd:
		m.drawExplosionPeak(screen, cx, cy,
			(progress-explosionExpansionEnd)/(explosionPeakEnd-explosionExpansionEnd))
	default:
		m.drawExplosionFade(screen, cx, cy,
			(progress-explosionPeakEnd)/(1-explosionPeakEnd))
	}
}

func (m *Missile) drawExplosionFlash(screen *ebiten.Image, cx, cy float32, t float64) {
	flashR := float32(m.explosionRadius * 0.5)
	fade := 1.0 - t
	vector.FillCircle(screen, cx, cy, flashR*2.0, color.RGBA{R: 255, G: 255, B: 200, A: clamp255(60 * fade)}, false)
	vector.FillCircle(screen, cx, cy, flashR*1.4, color.RGBA{R: 255, G: 255, B: 150, A: clamp255(120 * fade)}, false)
	vector.FillCircle(screen, cx, cy, flashR, color.RGBA{R: 255, G: 255, B: 255, A: clamp255(200 * fade)}, false)
	vector.FillCircle(screen, cx, cy, flashR*0.6, color.RGBA{R: 255, G: 255, B: 100, A: clamp255(255 * fade)}, false)
}

func (m *Missile) drawExplosionExpansion(screen *ebiten.Image, cx, cy float32, t float64) {
	r := m.explosionRadius * t
	layers := []struct {
		mult  float64
		col   color.RGBA
		alpha float64
	}{
		{1.2, color.RGBA{R: 255, G: 80, B: 0}, 140 * (1 - t*0.3)},
		{1.0, color.RGBA{R: 255, G: 120, B: 20}, 180 * (1 - t*0.2)},
		{0.8, color.RGBA{R: 255, G: 150, B: 50}, 200 * (1 - t*0.1)},
		{0.6, color.RGBA{R: 255, G: 200, B: 100}, 220},
		{0.4, color.RGBA{R: 255, G: 255, B: 150}, 240},
		{0.2, color.RGBA{R: 255, G: 255, B: 255}, 255},
	}
	for _, layer := range layers {
		lr := r * layer.mult
		if lr <= 0 {
			continue
		}
		col := layer.col
		col.A = clamp255(layer.alpha)
		vector.FillCircle(screen, cx, cy, float32(lr), col, false)
	}

	// Hot fragments thrown around the expanding rim.
	for i := 0; i < int(20*t); i++ {
		a := m.rng.Float64() * 2 * math.Pi
		d := r * (0.8 + m.rng.Float64()*0.5)
		px := cx + float32(math.Cos(a)*d)
		py := cy + float32(math.Sin(a)*d)
		col := color.RGBA{
			R: 255,
			G: clamp255(150 + m.rng.Float64()*105),
			B: clamp255(m.rng.Float64() * 100),
			A: clamp255(120 + m.rng.Float64()*80),
		}
		vector.FillCircle(screen, px, py, float32(2+m.rng.Intn(5)), col, false)
	}

	// Shockwave ring slightly ahead of the fireball.
	ringR := float32(r * 1.4)
	if ringR > 5 {
		vector.StrokeCircle(screen, cx, cy, ringR, 4,
			color.RGBA{R: 255, G: 200, B: 150, A: clamp255(100 * (1 - t))}, false)
	}
}

func (m *Missile) drawExplosionPeak(screen *ebiten.Image, cx, cy float32, t float64) {
	fade := 1.0 - t*0.5
	layers := []struct {
		mult float64
		col  color.RGBA
	}{
		{1.0, color.RGBA{R: 255, G: 80, B: 0}},
		{0.8, color.RGBA{R: 255, G: 120, B: 40}},
		{0.6, color.RGBA{R: 255, G: 160, B: 80}},
		{0.4, color.RGBA{R: 255, G: 200, B: 120}},
		{0.2, color.RGBA{R: 255, G: 240, B: 160}},
	}
	for _, layer := range layers {
		col := layer.col
		col.A = clamp255(255 * fade)
		vector.FillCircle(screen, cx, cy, float32(m.explosionRadius*layer.mult), col, false)
	}

	// Debris ring pushed outward as the peak progresses.
	const debrisCount = 12
	debrisDist := m.explosionRadius * (0.8 + t*0.4)
	for i := 0; i < debrisCount; i++ {
		a := float64(i) / debrisCount * 2 * math.Pi
		px := cx + float32(math.Cos(a)*debrisDist)
		py := cy + float32(math.Sin(a)*debrisDist)
		col := color.RGBA{R: 255, G: clamp255(100 + m.rng.Float64()*100), A: 255}
		vector.FillCircle(screen, px, py, float32(2+m.rng.Intn(5)), col, false)
	}
}

func (m *Missile) drawExplosionFade(screen *ebiten.Image, cx, cy float32, t float64) {
	smokeR := m.explosionRadius * (1.1 + t*0.3)
	alpha := 150 * (1 - t)
	layers := []struct {
		mult float64
		grey uint8
	}{
		{1.0, 80},
		{0.8, 100},
		{0.6, 120},
	}
	for _, layer := range layers {
		col := color.RGBA{R: layer.grey, G: layer.grey, B: layer.grey, A: clamp255(alpha)}
		vector.FillCircle(screen, cx, cy, float32(smokeR*layer.mult), col, false)
	}

	// Dying embers inside the smoke.
	if t < 0.7 {
		for i := 0; i < 8; i++ {
			a := m.rng.Float64() * 2 * math.Pi
			d := smokeR * (0.3 + m.rng.Float64()*0.5)
			px := cx + float32(math.Cos(a)*d)
			py := cy + float32(math.Sin(a)*d)
			col := color.RGBA{
				R: 255,
				G: clamp255(150 + m.rng.Float64()*105),
				B: clamp255(m.rng.Float64() * 100),
				A: 255,
			}
			vector.FillCircle(screen, px, py, float32(1+m.rng.Intn(3)), col, false)
		}
	}
}

// fillPath fills a closed polygon path with a flat colour.
func fillPath(dst *ebiten.Image, path *vector.Path, col color.RGBA) {
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(col)
	vector.FillPath(dst, path, &vector.FillOptions{}, op)
}
