// Package audio synthesizes the projectile sound effects at runtime, so the
// game ships with no sample assets.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/Storm-Strike/internal/game"
)

const sampleRate = beep.SampleRate(48000)

// Synth implements game.AudioPlayer with procedurally generated streams.
// Multiple flight loops can run at once, one per airborne missile.
type Synth struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	loops       map[game.SoundHandle]*beep.Ctrl
	nextHandle  game.SoundHandle
	initialized bool
}

// NewSynth creates an uninitialized synth. Call Initialize before use;
// an uninitialized synth degrades to silence instead of failing.
func NewSynth() *Synth {
	return &Synth{
		mixer:      &beep.Mixer{},
		loops:      make(map[game.SoundHandle]*beep.Ctrl),
		nextHandle: 1,
	}
}

// Initialize opens the speaker and starts the mixer.
func (s *Synth) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Cleanup pauses all loops and clears the mixer.
func (s *Synth) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	for _, ctrl := range s.loops {
		ctrl.Paused = true
	}
	s.loops = make(map[game.SoundHandle]*beep.Ctrl)
	s.mixer.Clear()
	s.initialized = false
}

// PlayFlightLoop starts a looping rocket-motor rumble and returns its handle.
func (s *Synth) PlayFlightLoop() game.SoundHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0
	}
	// The generator streams forever on its own, so no loop wrapper is needed.
	ctrl := &beep.Ctrl{Streamer: newFlightGenerator(sampleRate)}
	h := s.nextHandle
	s.nextHandle++
	s.loops[h] = ctrl
	s.mixer.Add(ctrl)
	return h
}

// StopFlightLoop silences the loop for the given handle. Unknown handles
// (including 0) are ignored.
func (s *Synth) StopFlightLoop(h game.SoundHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctrl, ok := s.loops[h]; ok {
		ctrl.Paused = true
		delete(s.loops, h)
	}
}

// PlayExplosion fires a one-shot noise burst with a low rumble tail.
func (s *Synth) PlayExplosion() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	streamer := beep.Take(sampleRate.N(time.Millisecond*600), newExplosionGenerator(sampleRate))
	s.mixer.Add(streamer)
}

// flightGenerator produces the airborne-missile rumble: a low sawtooth-ish
// drone with a slow amplitude wobble.
type flightGenerator struct {
	sr  beep.SampleRate
	pos int
}

func newFlightGenerator(sr beep.SampleRate) *flightGenerator {
	return &flightGenerator{sr: sr}
}

func (g *flightGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Base drone plus harmonics, wobbled at 7Hz for the motor feel.
		wobble := 0.8 + 0.2*math.Sin(2*math.Pi*7*t)
		sample := 0.0
		sample += 0.12 * math.Sin(2*math.Pi*95*t)
		sample += 0.06 * math.Sin(2*math.Pi*190*t)
		sample += 0.03 * math.Sin(2*math.Pi*285*t)
		sample *= wobble

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *flightGenerator) Err() error {
	return nil
}

// explosionGenerator produces a filtered noise burst over a decaying rumble.
type explosionGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
	prev float64
}

func newExplosionGenerator(sr beep.SampleRate) *explosionGenerator {
	return &explosionGenerator{
		sr:   sr,
		seed: time.Now().UnixNano(),
	}
}

func (g *explosionGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-t * 6)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		// One-pole low pass softens the noise into a boom.
		g.prev = g.prev*0.92 + noise*0.08

		rumble := 0.35 * math.Sin(2*math.Pi*55*t)
		sample := envelope * (0.5*g.prev + rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *explosionGenerator) Err() error {
	return nil
}
