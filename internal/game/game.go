package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// Screen size of the demo window. The world is larger; the camera follows
// the player.
const (
	screenWidth  = 1280
	screenHeight = 720
)

// Player movement and default weapon tuning.
const (
	playerSpeed           = 300.0 // px/s
	playerRadius          = 10.0
	missileDefaultDamage  = 120.0
	missileDefaultRadius  = 150.0
	grenadeDefaultDamage  = 45.0
	grenadeDefaultRadius  = 100.0
	specialDamageFactor   = 1.5
	demoEnemyCount        = 6
	demoEnemyRespawnDelay = 3.0 // s
)

// DemoEnemy is a wandering target for the effects demo.
type DemoEnemy struct {
	id      int
	x, y    float64
	size    float64
	Health  float64
	maxHP   float64
	vx, vy  float64
	retime  float64 // countdown to respawn while dead
	turnIn  float64 // countdown to next direction change
}

func (e *DemoEnemy) ID() int                      { return e.id }
func (e *DemoEnemy) Position() (float64, float64) { return e.x, e.y }
func (e *DemoEnemy) Size() float64                { return e.size }
func (e *DemoEnemy) Alive() bool                  { return e.Health > 0 }

type Game struct {
	seed int64
	tick int

	atmosphere *AtmosphereField
	sparks     *SparkPool
	missiles   *MissileManager
	audio      AudioPlayer
	perf       *FramePerf

	enemies []*DemoEnemy
	rng     *rand.Rand

	playerX float64
	playerY float64

	// Camera centre in world space, following the player.
	camX float64
	camY float64

	// Wall-clock seconds since start, drives the ground fire damage cooldowns.
	clock float64

	lastFrame     time.Time
	updateElapsed time.Duration // last Update cost, recorded with the draw cost
	showHUD       bool
	prevKeys  map[ebiten.Key]bool
	prevMouse [2]bool // left, right

	// Deterministic ground colour patches, generated once.
	terrainPatches []terrainPatch
}

// terrainPatch is a subtle ground colour variation tile.
type terrainPatch struct {
	x, y  float32
	w, h  float32
	shade uint8
}

// New creates the demo game. audio may be nil for a silent run.
func New(audio AudioPlayer) *Game {
	seed := time.Now().UnixNano()
	g := &Game{
		seed:       seed,
		atmosphere: NewAtmosphereField(seed),
		sparks:     NewSparkPool(seed + 1),
		missiles:   NewMissileManager(audio, seed+2),
		audio:      audio,
		perf:       NewFramePerf(),
		rng:        rand.New(rand.NewSource(seed + 3)), // #nosec G404 -- game only
		playerX:    worldWidth / 2,
		playerY:    worldHeight / 2,
		showHUD:    true,
		prevKeys:   make(map[ebiten.Key]bool),
	}
	g.camX = g.playerX
	g.camY = g.playerY
	g.atmosphere.SetAtmosphere(AtmosphereRain)
	g.initTerrainPatches()
	for i := 0; i < demoEnemyCount; i++ {
		g.spawnEnemy()
	}
	return g
}

// initTerrainPatches generates deterministic subtle ground colour patches.
func (g *Game) initTerrainPatches() {
	rng := rand.New(rand.NewSource(54321)) // #nosec G404 -- cosmetic only
	count := 600
	g.terrainPatches = make([]terrainPatch, 0, count)
	for i := 0; i < count; i++ {
		g.terrainPatches = append(g.terrainPatches, terrainPatch{
			x:     float32(rng.Intn(worldWidth)),
			y:     float32(rng.Intn(worldHeight)),
			w:     float32(24 + rng.Intn(80)),
			h:     float32(24 + rng.Intn(80)),
			shade: uint8(rng.Intn(13)),
		})
	}
}

func (g *Game) spawnEnemy() *DemoEnemy {
	margin := 200.0
	e := &DemoEnemy{
		id:     len(g.enemies),
		x:      margin + g.rng.Float64()*(worldWidth-2*margin),
		y:      margin + g.rng.Float64()*(worldHeight-2*margin),
		size:   18 + g.rng.Float64()*10,
		Health: 200,
		maxHP:  200,
	}
	g.enemies = append(g.enemies, e)
	return e
}

func (g *Game) aliveEnemies() []Enemy {
	var out []Enemy
	for _, e := range g.enemies {
		if e.Alive() {
			out = append(out, e)
		}
	}
	return out
}

func (g *Game) Update() error {
	start := time.Now()

	dt := 0.0
	if !g.lastFrame.IsZero() {
		dt = time.Since(g.lastFrame).Seconds()
	}
	g.lastFrame = time.Now()
	dt = sanitizeDelta(dt)

	g.tick++
	g.clock += dt

	g.handleInput(dt)
	g.updateEnemies(dt)

	enemies := g.aliveEnemies()
	g.atmosphere.Update(dt)
	g.sparks.Update(dt)
	g.missiles.Update(dt, enemies)

	for _, ev := range g.missiles.CheckVisualDamage(enemies) {
		g.applyDamage(ev)
		if ev.Cause == DamageMissileBody {
			ex, ey := ev.Enemy.Position()
			g.sparks.AddScatterSparks(ex, ey, SurfaceMetal)
		}
	}
	for _, ev := range g.missiles.CheckGroundFireDamage(enemies, g.clock) {
		g.applyDamage(ev)
	}

	// Camera follows the player, clamped to the world.
	g.camX = clampRange(g.playerX, screenWidth/2, worldWidth-screenWidth/2)
	g.camY = clampRange(g.playerY, screenHeight/2, worldHeight-screenHeight/2)

	g.updateElapsed = time.Since(start)
	return nil
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (g *Game) applyDamage(ev DamageEvent) {
	e, ok := ev.Enemy.(*DemoEnemy)
	if !ok {
		return
	}
	e.Health -= ev.Damage
	if e.Health <= 0 {
		e.retime = demoEnemyRespawnDelay
	}
}

// updateEnemies wanders the live targets and respawns the dead ones.
func (g *Game) updateEnemies(dt float64) {
	margin := 100.0
	for _, e := range g.enemies {
		if !e.Alive() {
			e.retime -= dt
			if e.retime <= 0 {
				e.x = margin + g.rng.Float64()*(worldWidth-2*margin)
				e.y = margin + g.rng.Float64()*(worldHeight-2*margin)
				e.Health = e.maxHP
			}
			continue
		}
		e.turnIn -= dt
		if e.turnIn <= 0 {
			a := g.rng.Float64() * 2 * math.Pi
			speed := 40 + g.rng.Float64()*60
			e.vx = math.Cos(a) * speed
			e.vy = math.Sin(a) * speed
			e.turnIn = 1 + g.rng.Float64()*3
		}
		e.x = clampRange(e.x+e.vx*dt, margin, worldWidth-margin)
		e.y = clampRange(e.y+e.vy*dt, margin, worldHeight-margin)
	}
}

// handleInput moves the player, fires weapons, and services the hotkeys.
func (g *Game) handleInput(dt float64) {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// Player movement: WASD or arrows, footprints trail behind.
	var mx, my float64
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		my -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		my += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		mx -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		mx += 1
	}
	if mx != 0 || my != 0 {
		vx, vy := normalizeScaled(mx, my, playerSpeed)
		g.playerX = clampRange(g.playerX+vx*dt, 0, worldWidth)
		g.playerY = clampRange(g.playerY+vy*dt, 0, worldHeight)
		g.atmosphere.AddFootprint(g.playerX, g.playerY)
	}

	// Atmosphere cycling: 1=rain 2=snow 3=petals 0=clear.
	if pressed(ebiten.Key1) {
		g.atmosphere.SetAtmosphere(AtmosphereRain)
	}
	if pressed(ebiten.Key2) {
		g.atmosphere.SetAtmosphere(AtmosphereSnow)
	}
	if pressed(ebiten.Key3) {
		g.atmosphere.SetAtmosphere(AtmospherePetals)
	}
	if pressed(ebiten.Key0) {
		g.atmosphere.SetAtmosphere(AtmosphereNone)
	}

	// H: toggle HUD. F8: copy the debug report. C: clear all effects.
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if pressed(ebiten.KeyF8) {
		// Best effort: keep running when no clipboard backend exists.
		_ = g.copyDebugReport()
	}
	if pressed(ebiten.KeyC) {
		g.missiles.Clear()
		g.sparks.Clear()
	}

	// Weapons aim at the cursor in world space.
	cx, cy := ebiten.CursorPosition()
	tx := float64(cx) + g.camX - screenWidth/2
	ty := float64(cy) + g.camY - screenHeight/2

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if left && !g.prevMouse[0] {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.missiles.FireMissile(g.playerX, g.playerY, tx, ty,
				missileDefaultDamage*specialDamageFactor, missileDefaultRadius, true)
		} else {
			g.missiles.FireMissile(g.playerX, g.playerY, tx, ty,
				missileDefaultDamage, missileDefaultRadius, false)
		}
	}
	if right && !g.prevMouse[1] {
		g.missiles.FireGrenade(g.playerX, g.playerY, tx, ty,
			grenadeDefaultDamage, grenadeDefaultRadius)
	}
	g.prevMouse[0], g.prevMouse[1] = left, right

	g.prevKeys = currentKeys
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	offX := g.camX - screenWidth/2
	offY := g.camY - screenHeight/2

	// Ground.
	screen.Fill(color.RGBA{R: 28, G: 42, B: 28, A: 255})
	for _, tp := range g.terrainPatches {
		px := tp.x - float32(offX)
		py := tp.y - float32(offY)
		if px+tp.w < 0 || px > screenWidth || py+tp.h < 0 || py > screenHeight {
			continue
		}
		shade := uint8(36 + tp.shade)
		vector.FillRect(screen, px, py, tp.w, tp.h,
			color.RGBA{R: 28, G: shade, B: 28, A: 40}, false)
	}

	// Footprints sit directly on the ground, under everything else.
	g.atmosphere.DrawFootprints(screen, offX, offY)

	g.drawEnemies(screen, offX, offY)
	g.drawPlayer(screen, offX, offY)

	g.missiles.Draw(screen, offX, offY)
	g.sparks.Draw(screen, offX, offY)

	// Weather over the action, tint over the weather.
	g.atmosphere.Draw(screen, offX, offY)
	g.atmosphere.DrawScreenTint(screen)

	if g.showHUD {
		g.drawHUD(screen)
	}

	g.perf.Record(g.updateElapsed, time.Since(start))
}

func (g *Game) drawPlayer(screen *ebiten.Image, offX, offY float64) {
	px := float32(g.playerX - offX)
	py := float32(g.playerY - offY)
	vector.FillCircle(screen, px, py, playerRadius, colornames.Steelblue, false)
	vector.StrokeCircle(screen, px, py, playerRadius, 2, colornames.Lightsteelblue, false)
}

func (g *Game) drawEnemies(screen *ebiten.Image, offX, offY float64) {
	for _, e := range g.enemies {
		if !e.Alive() {
			continue
		}
		ex := float32(e.x - offX)
		ey := float32(e.y - offY)
		r := float32(e.size / 2)
		vector.FillCircle(screen, ex, ey, r, colornames.Indianred, false)
		vector.StrokeCircle(screen, ex, ey, r, 1.5, colornames.Darkred, false)
		// Health bar.
		frac := float32(clamp01(e.Health / e.maxHP))
		barW := r * 2
		vector.FillRect(screen, ex-r, ey-r-6, barW, 3, color.RGBA{R: 40, G: 40, B: 40, A: 200}, false)
		vector.FillRect(screen, ex-r, ey-r-6, barW*frac, 3, colornames.Limegreen, false)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("weather: %s  [1]rain [2]snow [3]petals [0]clear", g.atmosphere.Kind()),
		"LMB=missile  Shift+LMB=special  RMB=grenade",
		fmt.Sprintf("missiles=%d  fires=%d  sparks=%d  footprints=%d",
			g.missiles.MissileCount(), g.missiles.GroundFireCount(),
			g.sparks.Count(), g.atmosphere.FootprintCount()),
		g.perf.HUDLine(),
		"[H] hud  [F8] copy report  [C] clear",
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 8, screenHeight-len(lines)*14-8+i*14)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}
