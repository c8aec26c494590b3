package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/pong-wars/internal/config"
	"github.com/Garsondee/pong-wars/internal/sim"
	"github.com/Garsondee/pong-wars/internal/term"
)

const eventLogLimit = 512

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := flags.Resolve()
	if err != nil {
		log.Fatal(err)
	}

	opts := append(cfg.SimOptions(), sim.WithBoundedLog(eventLogLimit))
	s, err := sim.New(cfg.Sim(), opts...)
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = term.NewLoop(screen, s, cfg).Run(ctx)
	stop()
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
