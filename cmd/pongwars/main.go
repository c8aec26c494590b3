package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/pong-wars/internal/config"
	"github.com/Garsondee/pong-wars/internal/game"
	"github.com/Garsondee/pong-wars/internal/sim"
)

// Interactive sessions keep only recent events for the debug report.
const eventLogLimit = 512

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := flags.Resolve()
	if err != nil {
		log.Fatal(err)
	}

	opts := append(cfg.SimOptions(), sim.WithBoundedLog(eventLogLimit), sim.WithReporter(0, 0))
	s, err := sim.New(cfg.Sim(), opts...)
	if err != nil {
		log.Fatal(err)
	}

	board := s.BoardPx()
	ebiten.SetWindowTitle("Pong Wars")
	ebiten.SetWindowSize(board, board)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	if err := ebiten.RunGame(game.New(cfg, s)); err != nil {
		log.Fatal(err)
	}
}
