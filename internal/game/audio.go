package game

// SoundHandle identifies one playing looped sound so it can be stopped later.
type SoundHandle int

// AudioPlayer is the narrow audio capability the effects core consumes.
// A nil AudioPlayer is a valid "no audio" configuration; every call site
// checks for nil and degrades silently.
type AudioPlayer interface {
	// PlayFlightLoop starts the looping missile-flight sound and returns a
	// handle for stopping it. A zero handle means the sound did not start.
	PlayFlightLoop() SoundHandle
	StopFlightLoop(h SoundHandle)
	PlayExplosion()
}
