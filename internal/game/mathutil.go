package game

import "math"

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clamp255 clamps v into the displayable [0, 255] byte range.
func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// normalizeScaled returns (dx, dy) normalised and scaled to speed.
// A zero-length input yields a zero vector rather than dividing by zero.
func normalizeScaled(dx, dy, speed float64) (float64, float64) {
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 0, 0
	}
	return dx / length * speed, dy / length * speed
}

// sanitizeDelta guards the host boundary against malformed frame deltas.
// NaN, infinite or negative deltas collapse to zero; absurdly large deltas
// (pauses, debugger stops) are capped so the simulation never teleports.
func sanitizeDelta(dt float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	if dt > 0.1 {
		return 0.1
	}
	return dt
}
