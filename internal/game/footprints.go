package game

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	footprintMinGap = 200 * time.Millisecond // wall-clock gap between prints
	footprintFade   = 5 * time.Second        // age at which a print disappears
	footprintCap    = 50                     // stored prints; oldest dropped
	footprintRadius = 3.0
)

type footprint struct {
	x, y    float64
	created time.Time
}

// FootprintTrail keeps a bounded, fading trail of player footprints.
// Pacing and fading use wall-clock time so they stay correct regardless of
// frame rate; the clock is a field so tests can substitute a fake.
type FootprintTrail struct {
	prints  []footprint
	lastAdd time.Time
	clock   func() time.Time
}

func NewFootprintTrail() *FootprintTrail {
	return &FootprintTrail{clock: time.Now}
}

// Add records a footprint at (x, y) unless one was added within the minimum
// gap. The trail is capped; the oldest print is dropped first.
func (ft *FootprintTrail) Add(x, y float64) {
	now := ft.clock()
	if !ft.lastAdd.IsZero() && now.Sub(ft.lastAdd) < footprintMinGap {
		return
	}
	ft.prints = append(ft.prints, footprint{x: x, y: y, created: now})
	ft.lastAdd = now
	if len(ft.prints) > footprintCap {
		ft.prints = ft.prints[len(ft.prints)-footprintCap:]
	}
}

// Prune drops prints older than the fade window.
func (ft *FootprintTrail) Prune() {
	now := ft.clock()
	kept := ft.prints[:0]
	for _, fp := range ft.prints {
		if now.Sub(fp.created) < footprintFade {
			kept = append(kept, fp)
		}
	}
	ft.prints = kept
}

// Count returns the number of stored prints.
func (ft *FootprintTrail) Count() int { return len(ft.prints) }

// Draw renders each print as a grey circle fading out over its lifetime.
func (ft *FootprintTrail) Draw(screen *ebiten.Image, offX, offY float64) {
	now := ft.clock()
	for _, fp := range ft.prints {
		age := now.Sub(fp.created).Seconds()
		alpha := 1.0 - age/footprintFade.Seconds()
		if alpha <= 0 {
			continue
		}
		col := color.RGBA{R: 100, G: 100, B: 100, A: clamp255(alpha * 160)}
		vector.FillCircle(screen, float32(fp.x-offX), float32(fp.y-offY), footprintRadius, col, false)
	}
}
