package game

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/pong-wars/internal/config"
	"github.com/Garsondee/pong-wars/internal/sim"
)

const (
	pauseText = "PAUSED"

	// pauseFontPx is the on-board height of the pause label. The basic
	// face is 13px tall and gets scaled up to this.
	pauseFontPx   = 30
	basicFacePx   = 13
	statusTTL     = 120 // frames a status line stays on screen
	statusPadding = 6
)

// letterboxColor fills the window around the board when the window is not
// square.
var letterboxColor color.Color = colornames.Whitesmoke

// action is one user command decoded from the keyboard.
type action int

const (
	actionPause action = iota
	actionReset
	actionCopyReport
	actionRescale
	actionQuit
)

// keyBindings maps edge-triggered keys to actions.
var keyBindings = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyP, actionPause},
	{ebiten.KeySpace, actionPause},
	{ebiten.KeyR, actionReset},
	{ebiten.KeyC, actionCopyReport},
	{ebiten.KeyU, actionRescale},
	{ebiten.KeyEscape, actionQuit},
	{ebiten.KeyQ, actionQuit},
}

// Game is the windowed frontend. It owns the pause toggle and forwards one
// Step per Update to the simulation, then draws the resulting state.
type Game struct {
	sim *sim.Sim
	cfg config.Config

	paused bool

	// Offscreen board, one texel per board pixel. It is blitted into the
	// window with nearest filtering so tiles stay crisp at any scale.
	board *ebiten.Image

	face       text.Face
	pauseWidth float64 // measured width of pauseText at face size

	// Window size as last reported by Layout.
	winW, winH int

	status    string
	statusTTL int

	// copyText is the clipboard sink; swapped out in tests.
	copyText func(string) error
}

// New wraps s in a windowed frontend drawn with cfg's colours.
func New(cfg config.Config, s *sim.Sim) *Game {
	face := text.NewGoXFace(basicfont.Face7x13)
	w, _ := text.Measure(pauseText, face, 0)
	board := s.BoardPx()
	return &Game{
		sim:        s,
		cfg:        cfg,
		face:       face,
		pauseWidth: w,
		winW:       board,
		winH:       board,
		copyText:   clipboard.WriteAll,
	}
}

func (g *Game) Update() error {
	for _, kb := range keyBindings {
		if inpututil.IsKeyJustPressed(kb.key) {
			if err := g.apply(kb.act); err != nil {
				return err
			}
		}
	}

	g.sim.Step(g.paused)

	if g.statusTTL > 0 {
		g.statusTTL--
	}
	return nil
}

// apply runs one user action against the game.
func (g *Game) apply(a action) error {
	switch a {
	case actionPause:
		g.paused = !g.paused
	case actionReset:
		g.sim.Reset()
		g.setStatus("reset")
	case actionCopyReport:
		if err := g.copyText(g.sim.DebugReport()); err != nil {
			log.Printf("clipboard: %v", err)
			g.setStatus("clipboard unavailable")
			return nil
		}
		g.setStatus("debug report copied")
	case actionRescale:
		g.rescaleToWindow()
	case actionQuit:
		return ebiten.Termination
	}
	return nil
}

// rescaleToWindow picks the largest whole tile size that fits the current
// window and rescales the simulation to it, so the board is drawn 1:1.
func (g *Game) rescaleToWindow() {
	tile := fitTileSize(g.winW, g.winH, g.sim.Config().GridSize)
	if tile == g.sim.Config().TileSize {
		return
	}
	if err := g.sim.Rescale(tile); err != nil {
		log.Printf("rescale: %v", err)
		g.setStatus("window too small")
		return
	}
	g.board = nil
	g.setStatus(fmt.Sprintf("tile %dpx", tile))
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTTL = statusTTL
}

// Paused reports whether the frontend is holding the simulation.
func (g *Game) Paused() bool {
	return g.paused
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(letterboxColor)

	bp := g.sim.BoardPx()
	if g.board == nil || g.board.Bounds().Dx() != bp {
		g.board = ebiten.NewImage(bp, bp)
	}
	g.drawBoard(g.board)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale, offX, offY := fitBoard(sw, sh, bp)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offX, offY)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(g.board, op)

	if g.statusTTL > 0 {
		ebitenutil.DebugPrintAt(screen, g.status, int(offX)+statusPadding, int(offY)+statusPadding)
	}
}

// drawBoard renders tiles, balls and the pause label in board pixels.
func (g *Game) drawBoard(dst *ebiten.Image) {
	grid := g.sim.Grid()
	n := grid.Size()
	tile := float64(g.sim.Config().TileSize)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			r := sim.TileRect(row, col, tile)
			vector.FillRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H),
				g.cfg.TeamColor(grid.At(row, col)), false)
		}
	}

	for _, b := range g.sim.Balls() {
		p := b.Position()
		vector.FillCircle(dst, float32(p.X), float32(p.Y), float32(b.Radius()),
			g.cfg.TeamColor(b.Team()), true)
	}

	if g.sim.PauseLabelVisible() {
		g.drawPauseLabel(dst)
	}
}

// drawPauseLabel centres the label horizontally at a third of the board
// height.
func (g *Game) drawPauseLabel(dst *ebiten.Image) {
	scale := float64(pauseFontPx) / basicFacePx
	x, y := pauseLabelOrigin(float64(g.sim.BoardPx()), g.pauseWidth*scale)

	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(dst, pauseText, g.face, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.winW, g.winH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// fitBoard returns the uniform scale and offsets that fit a square board of
// boardPx into a w×h window, centred with letterboxing.
func fitBoard(w, h, boardPx int) (scale, offX, offY float64) {
	if boardPx <= 0 {
		return 1, 0, 0
	}
	side := math.Min(float64(w), float64(h))
	scale = side / float64(boardPx)
	offX = (float64(w) - side) / 2
	offY = (float64(h) - side) / 2
	return scale, offX, offY
}

// fitTileSize returns the largest whole tile edge for which gridSize tiles
// fit the shorter window side.
func fitTileSize(w, h, gridSize int) int {
	if gridSize <= 0 {
		return 0
	}
	return min(w, h) / gridSize
}

// pauseLabelOrigin returns the top-left of a label of the given width,
// centred horizontally at a third of the board height.
func pauseLabelOrigin(boardPx, labelWidth float64) (x, y float64) {
	return (boardPx - labelWidth) / 2, boardPx / 3
}
