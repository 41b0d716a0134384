// Command headless-report soaks the effects simulation without a window and
// prints damage and lifecycle statistics across seeded runs.
package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/Storm-Strike/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	firstExplosionTick int
	firstFireTick      int
	firstKillTick      int

	stateChanges int
	firesSpawned int
	damageEvents int

	damageByCause map[string]float64
	enemiesKilled int
	enemiesTotal  int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 1800, "ticks per run (60 per second)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "barrage", "scenario name")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if scenario != "barrage" {
		fmt.Printf("error: unsupported scenario %q (supported: barrage)\n", scenario)
		return
	}

	fmt.Printf("=== Headless Effects Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenarioBarrage(i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runScenarioBarrage sets a ring of targets around a launch point and walks
// through a fixed weapon rotation: missile, grenade, special missile.
func runScenarioBarrage(runIndex int, seed int64, ticks int) runStats {
	es := game.NewEffectsSim(
		game.WithSeed(seed),
		game.WithAtmosphere(game.AtmosphereRain),
		game.WithEnemy(2100, 1080, 24, 400),
		game.WithEnemy(1700, 1080, 24, 400),
		game.WithEnemy(1920, 1300, 24, 400),
		game.WithEnemy(1920, 860, 24, 400),
		game.WithEnemy(2250, 1250, 24, 400),
		game.WithEnemy(1600, 900, 24, 400),
	)

	const launchX, launchY = 1920.0, 1600.0
	const volleyInterval = 90 // ticks between launches

	targets := es.Enemies
	fired := 0
	for remaining := ticks; remaining > 0; {
		tgt := targets[fired%len(targets)]
		tx, ty := tgt.Position()
		switch fired % 3 {
		case 0:
			es.Missiles.FireMissile(launchX, launchY, tx, ty, 120, 150, false)
		case 1:
			es.Missiles.FireGrenade(launchX, launchY, tx, ty, 45, 100)
		case 2:
			es.Missiles.FireMissile(launchX, launchY, tx, ty, 180, 150, true)
		}
		fired++

		step := volleyInterval
		if step > remaining {
			step = remaining
		}
		es.RunTicks(step)
		remaining -= step
	}

	killed := 0
	for _, e := range es.Enemies {
		if !e.Alive() {
			killed++
		}
	}

	return runStats{
		runIndex:           runIndex,
		seed:               seed,
		firstExplosionTick: firstTick(es.Log.Entries(), "missile", "state_change", "exploding"),
		firstFireTick:      firstTick(es.Log.Entries(), "fire", "spawned", ""),
		firstKillTick:      firstKill(es),
		stateChanges:       es.Log.CountCategory("missile", "state_change"),
		firesSpawned:       es.Log.CountCategory("fire", "spawned"),
		damageEvents:       es.Log.CountCategory("damage", ""),
		damageByCause:      es.TotalDamageByCause(),
		enemiesKilled:      killed,
		enemiesTotal:       len(es.Enemies),
	}
}

func firstTick(entries []game.EffectsLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// firstKill scans damage entries for the first one that reports zero or
// negative remaining hit points.
func firstKill(es *game.EffectsSim) int {
	for _, e := range es.Log.Filter("damage", "") {
		if strings.Contains(e.Value, " 0.0 hp left") || strings.Contains(e.Value, " -") {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_explosion=%d first_fire=%d first_kill=%d\n",
		rs.firstExplosionTick, rs.firstFireTick, rs.firstKillTick)
	fmt.Printf("event_totals: state_change=%d fires_spawned=%d damage_events=%d\n",
		rs.stateChanges, rs.firesSpawned, rs.damageEvents)
	fmt.Printf("targets: killed=%d/%d\n", rs.enemiesKilled, rs.enemiesTotal)
	fmt.Printf("damage_by_cause: %s\n\n", formatCauses(rs.damageByCause))
}

func printAggregate(all []runStats) {
	fmt.Printf("=== Aggregate (%d runs) ===\n", len(all))

	totalDamage := map[string]float64{}
	killed, total := 0, 0
	stateChanges, fires := 0, 0
	for _, rs := range all {
		for k, v := range rs.damageByCause {
			totalDamage[k] += v
		}
		killed += rs.enemiesKilled
		total += rs.enemiesTotal
		stateChanges += rs.stateChanges
		fires += rs.firesSpawned
	}
	n := float64(len(all))
	fmt.Printf("avg_state_changes=%.1f avg_fires=%.1f kills=%d/%d\n",
		float64(stateChanges)/n, float64(fires)/n, killed, total)
	fmt.Printf("total_damage_by_cause: %s\n", formatCauses(totalDamage))
}

func formatCauses(m map[string]float64) string {
	if len(m) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.0f", k, m[k])
	}
	return strings.Join(parts, "  ")
}
