package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Storm-Strike/internal/audio"
	"github.com/Garsondee/Storm-Strike/internal/game"
)

func main() {
	synth := audio.NewSynth()
	if err := synth.Initialize(); err != nil {
		// No audio device is fine; the game runs silent.
		log.Printf("audio disabled: %v", err)
	}
	defer synth.Cleanup()

	ebiten.SetWindowTitle("Storm Strike")
	ebiten.SetWindowSize(1280, 720)
	if err := ebiten.RunGame(game.New(synth)); err != nil {
		log.Fatal(err)
	}
}
