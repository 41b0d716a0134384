package game

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// --- Impact spark constants ---

const (
	sparkMinCount = 3
	sparkMaxCount = 5
	sparkMinSpeed = 50.0  // px/s
	sparkMaxSpeed = 150.0
	sparkGravity  = 300.0 // px/s² downward
	sparkDrag     = 0.95  // per-tick velocity multiplier
	sparkMinLife  = 0.2 // s
	sparkMaxLife  = 0.5
	sparkSpread   = math.Pi / 3 // ±60° around the reflected impact direction
	sparkCull     = 10.0        // px off-screen margin before culling
)

// SurfaceKind selects the spark palette for an impact.
type SurfaceKind int

const (
	SurfaceWall SurfaceKind = iota
	SurfaceMetal
	SurfaceDirt
)

var sparkPalettes = map[SurfaceKind][]color.RGBA{
	SurfaceWall: {
		{R: 255, G: 255, B: 255, A: 255},
		{R: 255, G: 255, B: 200, A: 255},
		{R: 255, G: 200, B: 100, A: 255},
	},
	SurfaceMetal: {
		{R: 255, G: 255, B: 255, A: 255},
		{R: 200, G: 200, B: 255, A: 255},
		{R: 150, G: 150, B: 255, A: 255},
	},
	SurfaceDirt: {
		{R: 139, G: 69, B: 19, A: 255},
		{R: 160, G: 82, B: 45, A: 255},
		{R: 210, G: 180, B: 140, A: 255},
	},
}

func paletteFor(surface SurfaceKind) []color.RGBA {
	if p, ok := sparkPalettes[surface]; ok {
		return p
	}
	return sparkPalettes[SurfaceWall]
}

// ImpactSpark is one short-lived ballistic spark.
type ImpactSpark struct {
	x, y     float64
	vx, vy   float64
	col      color.RGBA
	initCol  color.RGBA
	size     float64
	initSize float64
	age      float64
	lifetime float64
}

// update integrates one tick. Order matters: the position advance uses the
// velocity from the previous tick, then gravity and drag are applied.
// Returns true when the spark has expired.
func (s *ImpactSpark) update(dt float64) bool {
	s.age += dt

	s.x += s.vx * dt
	s.y += s.vy * dt
	s.vy += sparkGravity * dt
	s.vx *= sparkDrag
	s.vy *= sparkDrag

	remaining := 1.0 - s.age/s.lifetime
	if remaining < 0 {
		remaining = 0
	}
	s.col = color.RGBA{
		R: clamp255(float64(s.initCol.R) * remaining),
		G: clamp255(float64(s.initCol.G) * remaining),
		B: clamp255(float64(s.initCol.B) * remaining),
		A: 255,
	}
	s.size = s.initSize * remaining

	return s.age >= s.lifetime
}

// SparkPool owns every live impact spark.
type SparkPool struct {
	sparks []*ImpactSpark
	rng    *rand.Rand
}

func NewSparkPool(seed int64) *SparkPool {
	return &SparkPool{
		rng: rand.New(rand.NewSource(seed)), // #nosec G404 -- visuals only
	}
}

// Count returns the number of live sparks.
func (p *SparkPool) Count() int { return len(p.sparks) }

// AddImpactSparks spawns 3-5 sparks reflected opposite the impact direction
// with a ±60° random spread.
func (p *SparkPool) AddImpactSparks(x, y, impactAngle float64, surface SurfaceKind) {
	base := impactAngle + math.Pi
	p.spawn(x, y, surface, func() float64 {
		return base + (p.rng.Float64()*2-1)*sparkSpread
	})
}

// AddScatterSparks spawns sparks in fully random directions, for impacts with
// no known incoming angle.
func (p *SparkPool) AddScatterSparks(x, y float64, surface SurfaceKind) {
	p.spawn(x, y, surface, func() float64 {
		return p.rng.Float64() * 2 * math.Pi
	})
}

func (p *SparkPool) spawn(x, y float64, surface SurfaceKind, direction func() float64) {
	palette := paletteFor(surface)
	n := sparkMinCount + p.rng.Intn(sparkMaxCount-sparkMinCount+1)
	for i := 0; i < n; i++ {
		angle := direction()
		speed := sparkMinSpeed + p.rng.Float64()*(sparkMaxSpeed-sparkMinSpeed)
		col := palette[p.rng.Intn(len(palette))]
		size := float64(2 + p.rng.Intn(3)) // 2-4

		p.sparks = append(p.sparks, &ImpactSpark{
			x:        x + (p.rng.Float64()*4 - 2),
			y:        y + (p.rng.Float64()*4 - 2),
			vx:       math.Cos(angle) * speed,
			vy:       math.Sin(angle) * speed,
			col:      col,
			initCol:  col,
			size:     size,
			initSize: size,
			lifetime: sparkMinLife + p.rng.Float64()*(sparkMaxLife-sparkMinLife),
		})
	}
}

// Update advances all sparks and compacts out the expired ones in place.
func (p *SparkPool) Update(dt float64) {
	kept := p.sparks[:0]
	for _, s := range p.sparks {
		if !s.update(dt) {
			kept = append(kept, s)
		}
	}
	p.sparks = kept
}

// Draw renders every on-screen spark as a filled circle.
func (p *SparkPool) Draw(screen *ebiten.Image, offX, offY float64) {
	sw := float64(screen.Bounds().Dx())
	sh := float64(screen.Bounds().Dy())
	for _, s := range p.sparks {
		sx := s.x - offX
		sy := s.y - offY
		if sx < -sparkCull || sx > sw+sparkCull || sy < -sparkCull || sy > sh+sparkCull {
			continue
		}
		if s.size <= 0 {
			continue
		}
		vector.FillCircle(screen, float32(sx), float32(sy), float32(s.size), s.col, false)
	}
}

// Clear drops all live sparks.
func (p *SparkPool) Clear() {
	p.sparks = p.sparks[:0]
}
