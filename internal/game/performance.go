package game

import (
	"fmt"
	"time"
)

// Frame budget thresholds at 60 Hz.
const (
	frameBudget     = 16.6 * float64(time.Millisecond) // ns
	perfWindowSize  = 120                              // frames in the rolling window
	perfSpikeFactor = 2.0                              // over-budget multiple counted as a spike
)

// FramePerf tracks update and draw timings over a rolling window so the HUD
// can show whether the effect pools are staying inside the frame budget.
type FramePerf struct {
	updateNS [perfWindowSize]int64
	drawNS   [perfWindowSize]int64
	idx      int
	filled   int

	overBudget int // frames where update+draw exceeded the budget
	spikes     int // frames exceeding perfSpikeFactor × budget
	frames     int
}

// NewFramePerf returns an empty tracker.
func NewFramePerf() *FramePerf {
	return &FramePerf{}
}

// Record adds one frame's update and draw durations.
func (fp *FramePerf) Record(update, draw time.Duration) {
	fp.updateNS[fp.idx] = int64(update)
	fp.drawNS[fp.idx] = int64(draw)
	fp.idx = (fp.idx + 1) % perfWindowSize
	if fp.filled < perfWindowSize {
		fp.filled++
	}
	fp.frames++

	total := float64(update + draw)
	if total > frameBudget {
		fp.overBudget++
	}
	if total > frameBudget*perfSpikeFactor {
		fp.spikes++
	}
}

// Averages returns mean update and draw time over the window, in milliseconds.
func (fp *FramePerf) Averages() (updateMS, drawMS float64) {
	if fp.filled == 0 {
		return 0, 0
	}
	var u, d int64
	for i := 0; i < fp.filled; i++ {
		u += fp.updateNS[i]
		d += fp.drawNS[i]
	}
	n := float64(fp.filled)
	return float64(u) / n / float64(time.Millisecond),
		float64(d) / n / float64(time.Millisecond)
}

// Worst returns the slowest update and draw time in the window, in milliseconds.
func (fp *FramePerf) Worst() (updateMS, drawMS float64) {
	var u, d int64
	for i := 0; i < fp.filled; i++ {
		if fp.updateNS[i] > u {
			u = fp.updateNS[i]
		}
		if fp.drawNS[i] > d {
			d = fp.drawNS[i]
		}
	}
	return float64(u) / float64(time.Millisecond), float64(d) / float64(time.Millisecond)
}

// OverBudgetFrames returns the lifetime count of frames over the 16.6ms budget.
func (fp *FramePerf) OverBudgetFrames() int { return fp.overBudget }

// Spikes returns the lifetime count of frames over twice the budget.
func (fp *FramePerf) Spikes() int { return fp.spikes }

// HUDLine formats a single status line for the debug overlay.
func (fp *FramePerf) HUDLine() string {
	au, ad := fp.Averages()
	wu, wd := fp.Worst()
	return fmt.Sprintf("upd %.2fms (max %.2f)  draw %.2fms (max %.2f)  over=%d spikes=%d",
		au, wu, ad, wd, fp.overBudget, fp.spikes)
}
