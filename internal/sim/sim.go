package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInvalidConfig is returned when the grid or tile size is not positive.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config is the board geometry the simulation runs on.
type Config struct {
	GridSize int // tiles per side
	TileSize int // pixels per tile side
}

// Validate checks that both sizes are positive.
func (c Config) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("%w: grid size %d must be > 0", ErrInvalidConfig, c.GridSize)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %d must be > 0", ErrInvalidConfig, c.TileSize)
	}
	return nil
}

// BoardPx returns the board edge length in pixels.
func (c Config) BoardPx() int {
	return c.GridSize * c.TileSize
}

// GridView is the read-only face of the board handed to renderers.
type GridView interface {
	Size() int
	At(row, col int) Team
	Count(team Team) int
	Cells() []Team
}

// Sim owns the board, both balls and the pause clock. It is advanced one
// frame at a time by its frontend and is not safe for concurrent use.
type Sim struct {
	cfg      Config
	grid     *Grid
	balls    [2]*Ball // index 0 = day, 1 = night; the step order
	rng      *rand.Rand
	seed     int64
	events   *EventLog
	reporter *Reporter

	tick   int  // simulated (unpaused) frames
	frames int  // paused frames, drives the blinking label
	paused bool // pause flag of the most recent Step
}

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optInfra  optionKind = iota // applied before the first reset
	optLayout                   // applied after it
)

// Option configures a Sim during construction.
type Option struct {
	kind optionKind
	fn   func(*Sim)
}

// WithSeed seeds the spawn-offset RNG for reproducible runs.
func WithSeed(seed int64) Option {
	return Option{optInfra, func(s *Sim) {
		s.seed = seed
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- spawn jitter only
	}}
}

// WithEventLog routes simulation events to log.
func WithEventLog(log *EventLog) Option {
	return Option{optInfra, func(s *Sim) {
		s.events = log
	}}
}

// WithVerbose installs a fresh EventLog, recording per-tick ball positions
// when v is true.
func WithVerbose(v bool) Option {
	return Option{optInfra, func(s *Sim) {
		s.events = NewEventLog(v)
	}}
}

// WithBoundedLog installs an EventLog keeping only the newest limit events,
// for long interactive sessions.
func WithBoundedLog(limit int) Option {
	return Option{optInfra, func(s *Sim) {
		s.events = NewBoundedEventLog(limit, false)
	}}
}

// WithReporter samples territory every interval ticks, keeping window ticks
// of history for summaries.
func WithReporter(interval, window int) Option {
	return Option{optInfra, func(s *Sim) {
		s.reporter = NewReporter(interval, window)
	}}
}

// WithBallAt replaces team's ball with one spawned at (x, y). The heading
// follows the usual spawn rule.
func WithBallAt(team Team, x, y float64) Option {
	return Option{optLayout, func(s *Sim) {
		s.balls[team] = NewBall(team, x, y, float64(s.cfg.TileSize), float64(s.cfg.BoardPx()))
	}}
}

// WithBallHeading overrides team's heading. dx and dy are reduced to their
// sign; zero counts as positive.
func WithBallHeading(team Team, dx, dy float64) Option {
	return Option{optLayout, func(s *Sim) {
		s.balls[team].dir = Vec2{X: unitSign(dx), Y: unitSign(dy)}
	}}
}

// WithTile assigns a single tile.
func WithTile(row, col int, team Team) Option {
	return Option{optLayout, func(s *Sim) {
		s.grid.Set(row, col, team)
	}}
}

// WithFilledBoard assigns every tile to team.
func WithFilledBoard(team Team) Option {
	return Option{optLayout, func(s *Sim) {
		n := s.grid.Size()
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				s.grid.Set(row, col, team)
			}
		}
	}}
}

func unitSign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// New builds a Sim for cfg and performs the initial reset. Options are
// applied in two passes: infrastructure before the reset, layout after.
func New(cfg Config, opts ...Option) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano()
	s := &Sim{
		cfg:  cfg,
		grid: NewGrid(cfg.GridSize),
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)), // #nosec G404 -- spawn jitter only
	}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(s)
		}
	}
	s.Reset()
	for _, o := range opts {
		if o.kind == optLayout {
			o.fn(s)
		}
	}
	return s, nil
}

// Reset restores the half-split board and respawns both balls with fresh
// random offsets. The pause flag and frame counter are left alone.
func (s *Sim) Reset() {
	s.grid.Initialize()

	tile := float64(s.cfg.TileSize)
	board := s.cfg.BoardPx()
	boardF := float64(board)
	jx := max(board/4-s.cfg.TileSize, 0)
	jy := max(board/2-s.cfg.TileSize, 0)

	s.balls[TeamDay] = NewBall(TeamDay,
		boardF/4*3+float64(s.randomOffset(jx)),
		boardF/2+float64(s.randomOffset(jy)),
		tile, boardF)
	s.balls[TeamNight] = NewBall(TeamNight,
		boardF/4+float64(s.randomOffset(jx)),
		boardF/2+float64(s.randomOffset(jy)),
		tile, boardF)

	s.events.Add(s.tick, "--", CategoryReset, KeyReset,
		fmt.Sprintf("%dx%d tiles=%dpx", s.cfg.GridSize, s.cfg.GridSize, s.cfg.TileSize), 0)
}

// randomOffset draws uniformly from [-j, j].
func (s *Sim) randomOffset(j int) int {
	if j <= 0 {
		return 0
	}
	return s.rng.Intn(2*j+1) - j
}

// Step advances the simulation by one frame. While paused only the frame
// counter moves; otherwise the day ball then the night ball are resolved
// against the shared board.
func (s *Sim) Step(paused bool) {
	s.paused = paused
	if paused {
		s.frames++
		return
	}
	s.tick++
	for _, b := range s.balls {
		s.advance(b)
	}
	s.reporter.Observe(s.tick, s.grid, s.balls)
}

// advance runs one frame of motion and collision for b.
func (s *Sim) advance(b *Ball) {
	team := b.team.String()

	b.integrate()

	bx, by := ResolveWalls(b, float64(s.cfg.BoardPx()))
	if bx {
		s.events.Add(s.tick, team, CategoryWall, KeyBounceX, fmt.Sprintf("x=%.1f", b.pos.X), b.pos.X)
	}
	if by {
		s.events.Add(s.tick, team, CategoryWall, KeyBounceY, fmt.Sprintf("y=%.1f", b.pos.Y), b.pos.Y)
	}

	for _, c := range ResolveTiles(s.grid, b, float64(s.cfg.TileSize)) {
		s.events.Add(s.tick, team, CategoryTile, KeyFlip,
			fmt.Sprintf("(%d,%d) → %s", c.Row, c.Col, s.grid.At(c.Row, c.Col)), 0)
	}

	s.events.AddVerbose(s.tick, team, CategoryBall, KeyPosition,
		fmt.Sprintf("(%.1f,%.1f)", b.pos.X, b.pos.Y), 0)
}

// Rescale switches to a new tile size, keeping the board layout and
// scaling both balls with it.
func (s *Sim) Rescale(tileSize int) error {
	next := Config{GridSize: s.cfg.GridSize, TileSize: tileSize}
	if err := next.Validate(); err != nil {
		return err
	}
	factor := float64(tileSize) / float64(s.cfg.TileSize)
	for i, b := range s.balls {
		s.balls[i] = b.rescaled(factor, float64(tileSize))
	}
	s.events.Add(s.tick, "--", CategoryReset, KeyRescale,
		fmt.Sprintf("tile %dpx → %dpx", s.cfg.TileSize, tileSize), factor)
	s.cfg = next
	return nil
}

// Config returns the current geometry.
func (s *Sim) Config() Config { return s.cfg }

// Grid returns a read-only view of the board.
func (s *Sim) Grid() GridView { return s.grid }

// Balls returns the day and night balls, in step order.
func (s *Sim) Balls() [2]*Ball { return s.balls }

// Ball returns team's ball.
func (s *Sim) Ball(team Team) *Ball { return s.balls[team] }

// BoardPx returns the board edge length in pixels.
func (s *Sim) BoardPx() int { return s.cfg.BoardPx() }

// Seed returns the seed of the spawn RNG.
func (s *Sim) Seed() int64 { return s.seed }

// Tick returns the number of simulated frames.
func (s *Sim) Tick() int { return s.tick }

// Frames returns the number of frames spent paused.
func (s *Sim) Frames() int { return s.frames }

// Paused reports the pause flag passed to the most recent Step.
func (s *Sim) Paused() bool { return s.paused }

// Events returns the event log, which may be nil.
func (s *Sim) Events() *EventLog { return s.events }

// Reporter returns the territory reporter, which may be nil.
func (s *Sim) Reporter() *Reporter { return s.reporter }

// PauseLabelVisible reports whether the blinking pause label is in its
// visible half-cycle: 30 frames on, 30 frames off.
func (s *Sim) PauseLabelVisible() bool {
	return s.paused && (s.frames/30)%2 == 1
}
