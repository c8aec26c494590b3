// Package term is the terminal frontend. Each tile is two cells wide and one
// row tall so the board looks roughly square in a typical terminal font.
package term

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Garsondee/pong-wars/internal/config"
	"github.com/Garsondee/pong-wars/internal/sim"
)

const (
	cellsPerTile = 2
	ballRune     = '●'
	pauseText    = "PAUSED"
)

// Renderer draws a Sim onto a tcell screen.
type Renderer struct {
	screen tcell.Screen

	tile   [2]tcell.Style // background per owning team
	ball   [2]tcell.Color // foreground per ball team
	label  tcell.Style
	status tcell.Style
}

// NewRenderer builds the styles for cfg's team colours.
func NewRenderer(screen tcell.Screen, cfg config.Config) *Renderer {
	r := &Renderer{screen: screen}
	for _, t := range []sim.Team{sim.TeamDay, sim.TeamNight} {
		c := cfg.TeamColor(t)
		r.tile[t] = tcell.StyleDefault.Background(toTcell(c))
		r.ball[t] = toTcell(c)
	}
	night := cfg.TeamColor(sim.TeamNight)
	r.label = tcell.StyleDefault.Background(toTcell(night)).Foreground(contrast(night)).Bold(true)
	r.status = tcell.StyleDefault
	return r
}

// TileStyle is the style used for cells of a tile owned by t.
func (r *Renderer) TileStyle(t sim.Team) tcell.Style { return r.tile[t] }

// BallStyle is the style of a ball of team t drawn over a tile owned by under.
func (r *Renderer) BallStyle(t, under sim.Team) tcell.Style {
	return r.tile[under].Foreground(r.ball[t])
}

// Draw renders the board, both balls, the pause label and a status line.
func (r *Renderer) Draw(s *sim.Sim) {
	r.screen.Clear()

	grid := s.Grid()
	n := grid.Size()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			st := r.tile[grid.At(row, col)]
			for i := 0; i < cellsPerTile; i++ {
				r.screen.SetContent(col*cellsPerTile+i, row, ' ', nil, st)
			}
		}
	}

	tile := float64(s.Config().TileSize)
	for _, b := range s.Balls() {
		row, col, ok := ballCell(b.Position(), tile, n)
		if !ok {
			continue
		}
		under := grid.At(row, col)
		r.screen.SetContent(col*cellsPerTile, row, ballRune, nil, r.BallStyle(b.Team(), under))
	}

	if s.PauseLabelVisible() {
		x, y := pauseLabelCell(n)
		r.drawText(x, y, pauseText, r.label)
	}

	r.drawText(0, n, statusLine(s), r.status)
	r.screen.Show()
}

func (r *Renderer) drawText(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

// ballCell maps a board position to the tile holding the ball's centre.
func ballCell(p sim.Vec2, tileSize float64, n int) (row, col int, ok bool) {
	if tileSize <= 0 || p.X < 0 || p.Y < 0 {
		return 0, 0, false
	}
	col = int(p.X / tileSize)
	row = int(p.Y / tileSize)
	if row >= n || col >= n {
		return 0, 0, false
	}
	return row, col, true
}

// pauseLabelCell centres the label horizontally at a third of the board
// height.
func pauseLabelCell(n int) (x, y int) {
	width := n * cellsPerTile
	return max((width-len(pauseText))/2, 0), n / 3
}

func statusLine(s *sim.Sim) string {
	g := s.Grid()
	return fmt.Sprintf("%s %d  %s %d  tick %d  [p]ause [r]eset [q]uit",
		sim.TeamDay, g.Count(sim.TeamDay), sim.TeamNight, g.Count(sim.TeamNight), s.Tick())
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// contrast picks black or white text for legibility on bg.
func contrast(bg color.RGBA) tcell.Color {
	cf, _ := colorful.MakeColor(bg)
	if l, _, _ := cf.Lab(); l > 0.5 {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}

type action int

const (
	actionNone action = iota
	actionPause
	actionReset
	actionQuit
)

// keyAction decodes a key press into a frontend action.
func keyAction(k tcell.Key, ch rune) action {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyRune:
		switch ch {
		case 'p', 'P', ' ':
			return actionPause
		case 'r', 'R':
			return actionReset
		case 'q', 'Q':
			return actionQuit
		}
	}
	return actionNone
}

// Loop drives a Sim at a fixed rate and redraws it after every step.
type Loop struct {
	screen   tcell.Screen
	sim      *sim.Sim
	renderer *Renderer
	interval time.Duration
	paused   bool
}

// NewLoop wires s to screen. tps is the number of steps per second.
func NewLoop(screen tcell.Screen, s *sim.Sim, cfg config.Config) *Loop {
	tps := cfg.TPS
	if tps <= 0 {
		tps = config.DefaultTPS
	}
	return &Loop{
		screen:   screen,
		sim:      s,
		renderer: NewRenderer(screen, cfg),
		interval: time.Second / time.Duration(tps),
	}
}

// Paused reports whether the loop is holding the simulation.
func (l *Loop) Paused() bool { return l.paused }

// handle applies one action and reports whether the loop should keep going.
func (l *Loop) handle(a action) bool {
	switch a {
	case actionPause:
		l.paused = !l.paused
	case actionReset:
		l.sim.Reset()
	case actionQuit:
		return false
	}
	return true
}

// frame advances the simulation one step and redraws.
func (l *Loop) frame() {
	l.sim.Step(l.paused)
	l.renderer.Draw(l.sim)
}

// Run steps and draws until the user quits or ctx is cancelled. The screen
// must already be initialised; Run does not call Fini.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	l.renderer.Draw(l.sim)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !l.handle(keyAction(ev.Key(), ev.Rune())) {
					return nil
				}
			case *tcell.EventResize:
				l.screen.Sync()
			}
		case <-ticker.C:
			l.frame()
		}
	}
}
