package game

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// --- World + atmosphere constants ---

const (
	worldWidth  = 3840.0 // px, fixed world coordinate space
	worldHeight = 2160.0

	wrapMargin = 50.0 // px a particle may leave the world before wrapping
	cullMargin = 50.0 // px beyond the screen edge where particles still draw

	rainParticleCount  = 800
	snowParticleCount  = 600
	petalParticleCount = 400

	// Lightning pacing (wall-clock seconds, sampled uniformly).
	lightningFirstMin    = 3.0
	lightningFirstMax    = 8.0
	lightningRepeatMin   = 4.0
	lightningRepeatMax   = 10.0
	lightningFlashMin    = 0.1
	lightningFlashMax    = 0.2
)

// AtmosphereKind selects which particle field is active.
type AtmosphereKind int

const (
	AtmosphereNone AtmosphereKind = iota
	AtmosphereRain
	AtmosphereSnow
	AtmospherePetals
)

func (k AtmosphereKind) String() string {
	switch k {
	case AtmosphereNone:
		return "none"
	case AtmosphereRain:
		return "rain"
	case AtmosphereSnow:
		return "snow"
	case AtmospherePetals:
		return "petals"
	}
	return "unknown"
}

// atmosphereParticle is a single world-space weather particle. The same struct
// serves all kinds; unused fields stay zero.
type atmosphereParticle struct {
	x, y   float64
	vx, vy float64 // px/s
	col    color.RGBA

	// Rain bar dimensions.
	barW, barH float32

	// Snow/petal disc radius.
	size float64

	// Petal spin.
	rot      float64
	rotSpeed float64 // rad/s
}

// lightningState drives the rain storm's flash overlay. The flash flag is
// true only during [0, remaining) after a trigger; a trigger requires the
// elapsed timer to reach the sampled interval while no flash is active.
type lightningState struct {
	timer      float64 // seconds since last flash ended (or since rain began)
	active     bool
	remaining  float64 // seconds of flash left
	nextStrike float64 // sampled interval for the next trigger
}

var rainColors = []color.RGBA{
	{R: 180, G: 200, B: 255, A: 255},
	{R: 160, G: 180, B: 255, A: 255},
	{R: 200, G: 220, B: 255, A: 255},
}

var snowColors = []color.RGBA{
	{R: 255, G: 255, B: 255, A: 255},
	{R: 240, G: 240, B: 255, A: 255},
	{R: 220, G: 220, B: 240, A: 255},
}

var petalColors = []color.RGBA{
	{R: 255, G: 182, B: 193, A: 255},
	{R: 255, G: 192, B: 203, A: 255},
	{R: 255, G: 174, B: 185, A: 255},
	{R: 255, G: 160, B: 180, A: 255},
	{R: 240, G: 170, B: 190, A: 255},
}

// AtmosphereField owns the full weather particle set in world space, plus the
// lightning sub-state and the player footprint trail.
type AtmosphereField struct {
	kind      AtmosphereKind
	particles []atmosphereParticle
	lightning lightningState
	footprints *FootprintTrail
	rng       *rand.Rand
}

// NewAtmosphereField creates an empty field (kind none).
func NewAtmosphereField(seed int64) *AtmosphereField {
	return &AtmosphereField{
		footprints: NewFootprintTrail(),
		rng:        rand.New(rand.NewSource(seed)), // #nosec G404 -- visuals only
	}
}

// Kind returns the active atmosphere kind.
func (f *AtmosphereField) Kind() AtmosphereKind { return f.kind }

// ParticleCount returns the number of live particles.
func (f *AtmosphereField) ParticleCount() int { return len(f.particles) }

// LightningActive reports whether a lightning flash is currently lit.
func (f *AtmosphereField) LightningActive() bool { return f.lightning.active }

// SetAtmosphere switches the active weather. Setting the current kind again
// is a no-op: the particle set is left untouched. Otherwise the whole field is
// cleared and regenerated at the per-kind count.
func (f *AtmosphereField) SetAtmosphere(kind AtmosphereKind) {
	if f.kind == kind {
		return
	}
	f.kind = kind
	f.particles = f.particles[:0]
	f.lightning = lightningState{}

	switch kind {
	case AtmosphereRain:
		f.generate(rainParticleCount)
		f.lightning.nextStrike = f.uniform(lightningFirstMin, lightningFirstMax)
	case AtmosphereSnow:
		f.generate(snowParticleCount)
	case AtmospherePetals:
		f.generate(petalParticleCount)
	}
}

func (f *AtmosphereField) uniform(lo, hi float64) float64 {
	return lo + f.rng.Float64()*(hi-lo)
}

// generate populates the field with count particles of the current kind,
// uniformly distributed over the world bounds.
func (f *AtmosphereField) generate(count int) {
	if cap(f.particles) < count {
		f.particles = make([]atmosphereParticle, 0, count)
	}
	for i := 0; i < count; i++ {
		p := atmosphereParticle{
			x: f.rng.Float64() * worldWidth,
			y: f.rng.Float64() * worldHeight,
		}
		switch f.kind {
		case AtmosphereRain:
			p.vy = f.uniform(400, 800)
			p.vx = f.uniform(-50, 50)
			p.barW = float32(2 + f.rng.Intn(3))  // 2-4
			p.barH = float32(15 + f.rng.Intn(11)) // 15-25
			p.col = rainColors[f.rng.Intn(len(rainColors))]
		case AtmosphereSnow:
			p.vy = f.uniform(60, 120)
			p.vx = f.uniform(-80, 80)
			p.size = float64(3 + f.rng.Intn(6)) // 3-8
			p.col = snowColors[f.rng.Intn(len(snowColors))]
		case AtmospherePetals:
			p.vy = f.uniform(40, 100)
			p.vx = f.uniform(-120, 120)
			p.size = float64(5 + f.rng.Intn(7)) // 5-11
			p.col = petalColors[f.rng.Intn(len(petalColors))]
			p.rot = f.uniform(0, 2*math.Pi)
			p.rotSpeed = f.uniform(-2, 2)
		}
		f.particles = append(f.particles, p)
	}
}

// Update integrates every particle and, for rain, advances the lightning
// sub-state. Particles leaving the bottom of the world by the wrap margin
// return to the top (y = -margin) with a freshly sampled x; horizontal motion
// wraps at the same margin.
func (f *AtmosphereField) Update(dt float64) {
	if f.kind == AtmosphereNone {
		f.footprints.Prune()
		return
	}

	for i := range f.particles {
		p := &f.particles[i]
		p.y += p.vy * dt
		p.x += p.vx * dt
		if f.kind == AtmospherePetals {
			p.rot += p.rotSpeed * dt
		}

		if p.y > worldHeight+wrapMargin {
			p.y = -wrapMargin
			p.x = f.rng.Float64() * worldWidth
		}
		if p.x < -wrapMargin {
			p.x = worldWidth + wrapMargin
		} else if p.x > worldWidth+wrapMargin {
			p.x = -wrapMargin
		}
	}

	if f.kind == AtmosphereRain {
		f.updateLightning(dt)
	}
	f.footprints.Prune()
}

func (f *AtmosphereField) updateLightning(dt float64) {
	l := &f.lightning
	l.timer += dt

	if !l.active && l.timer >= l.nextStrike {
		l.active = true
		l.remaining = f.uniform(lightningFlashMin, lightningFlashMax)
	}
	if l.active {
		l.remaining -= dt
		if l.remaining <= 0 {
			l.active = false
			l.remaining = 0
			l.timer = 0
			l.nextStrike = f.uniform(lightningRepeatMin, lightningRepeatMax)
		}
	}
}

// AddFootprint records a player footprint, rate-limited by the trail.
func (f *AtmosphereField) AddFootprint(x, y float64) {
	f.footprints.Add(x, y)
}

// FootprintCount returns the number of live footprints.
func (f *AtmosphereField) FootprintCount() int {
	return f.footprints.Count()
}

// DrawFootprints renders the fading footprint circles under the weather layer.
func (f *AtmosphereField) DrawFootprints(screen *ebiten.Image, offX, offY float64) {
	f.footprints.Draw(screen, offX, offY)
}

// Draw projects all particles to screen space and renders the visible ones.
// Particles beyond the screen edge plus the cull margin are skipped.
func (f *AtmosphereField) Draw(screen *ebiten.Image, offX, offY float64) {
	if f.kind == AtmosphereNone {
		return
	}
	sw := float64(screen.Bounds().Dx())
	sh := float64(screen.Bounds().Dy())

	for i := range f.particles {
		p := &f.particles[i]
		sx := p.x - offX
		sy := p.y - offY
		if sx < -cullMargin || sx > sw+cullMargin || sy < -cullMargin || sy > sh+cullMargin {
			continue
		}
		switch f.kind {
		case AtmosphereRain:
			vector.FillRect(screen, float32(sx), float32(sy), p.barW, p.barH, p.col, false)
		case AtmosphereSnow:
			vector.FillCircle(screen, float32(sx), float32(sy), float32(p.size/2+1), p.col, false)
		case AtmospherePetals:
			drawPetalFlower(screen, float32(sx), float32(sy), p)
		}
	}
}

// drawPetalFlower renders a five-petal radial flower with a bright centre dot.
func drawPetalFlower(screen *ebiten.Image, sx, sy float32, p *atmosphereParticle) {
	petalLen := math.Max(3, p.size*0.8)
	petalR := float32(math.Max(1, p.size*0.3))
	const petalStep = 2 * math.Pi / 5

	for i := 0; i < 5; i++ {
		a := float64(i)*petalStep + p.rot
		px := sx + float32(math.Cos(a)*petalLen*0.6)
		py := sy + float32(math.Sin(a)*petalLen*0.6)
		vector.FillCircle(screen, px, py, petalR, p.col, false)
	}

	centreR := float32(math.Max(1, p.size/3))
	vector.FillCircle(screen, sx, sy, centreR, color.RGBA{R: 200, G: 255, B: 200, A: 255}, false)
	if centreR > 1 {
		vector.FillCircle(screen, sx, sy, centreR/2, color.RGBA{R: 255, G: 255, B: 150, A: 255}, false)
	}
}

// DrawScreenTint renders the full-screen atmosphere overlay. Rain swaps its
// blue tint for a bright flash while lightning is active.
func (f *AtmosphereField) DrawScreenTint(screen *ebiten.Image) {
	if f.kind == AtmosphereNone {
		return
	}
	sw := float32(screen.Bounds().Dx())
	sh := float32(screen.Bounds().Dy())

	var tint color.RGBA
	switch f.kind {
	case AtmosphereRain:
		if f.lightning.active {
			tint = color.RGBA{R: 255, G: 255, B: 255, A: 100}
		} else {
			tint = color.RGBA{R: 100, G: 150, B: 200, A: 25}
		}
	case AtmosphereSnow:
		tint = color.RGBA{R: 200, G: 220, B: 255, A: 20}
	case AtmospherePetals:
		tint = color.RGBA{R: 255, G: 200, B: 220, A: 15}
	}
	vector.FillRect(screen, 0, 0, sw, sh, tint, false)
}
