package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// effectsDebugReport formats a snapshot of every effect pool for bug reports.
// F8 in the demo copies it to the system clipboard.
func (g *Game) effectsDebugReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- StormStrike debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d\n\n", g.seed, g.tick)

	fmt.Fprintf(&b, "atmosphere: kind=%s particles=%d lightning=%t footprints=%d\n",
		g.atmosphere.Kind(),
		g.atmosphere.ParticleCount(),
		g.atmosphere.LightningActive(),
		g.atmosphere.FootprintCount(),
	)
	fmt.Fprintf(&b, "sparks: %d\n", g.sparks.Count())
	fmt.Fprintf(&b, "missiles: %d  ground_fires: %d\n",
		g.missiles.MissileCount(), g.missiles.GroundFireCount())

	exploding := g.missiles.ExplodingMissiles()
	if len(exploding) > 0 {
		b.WriteString("exploding:\n")
		for _, m := range exploding {
			x, y := m.Position()
			fmt.Fprintf(&b, "  - (%.0f,%.0f) radius=%.0f/%.0f\n",
				x, y, m.currentExplosionRadius(), m.ExplosionRadius())
		}
	}

	alive := 0
	for _, e := range g.enemies {
		if e.Alive() {
			alive++
		}
	}
	fmt.Fprintf(&b, "enemies: %d alive / %d total\n", alive, len(g.enemies))
	fmt.Fprintf(&b, "player: (%.0f,%.0f)\n", g.playerX, g.playerY)
	fmt.Fprintf(&b, "perf: %s\n", g.perf.HUDLine())

	return b.String()
}

// copyDebugReport writes the report to the system clipboard. Returns an error
// when no clipboard backend is available (e.g. headless Linux without X).
func (g *Game) copyDebugReport() error {
	return clipboard.WriteAll(g.effectsDebugReport())
}
