package sim

import (
	"errors"
	"math"
	"testing"
)

func mustNew(t *testing.T, cfg Config, opts ...Option) *Sim {
	t.Helper()
	s, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return s
}

func assertHalfSplit(t *testing.T, g GridView) {
	t.Helper()
	n := g.Size()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			want := TeamNight
			if col < n/2 {
				want = TeamDay
			}
			if got := g.At(row, col); got != want {
				t.Fatalf("tile (%d,%d)=%s, want %s", row, col, got, want)
			}
		}
	}
}

func TestNew_RejectsNonPositiveSizes(t *testing.T) {
	for _, cfg := range []Config{{GridSize: 0, TileSize: 25}, {GridSize: 24, TileSize: 0}, {GridSize: -1, TileSize: -1}} {
		if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New(%+v) err=%v, want ErrInvalidConfig", cfg, err)
		}
	}
}

func TestReset_HalfSplitForAllSizes(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 24, 30} {
		s := mustNew(t, Config{GridSize: n, TileSize: 25}, WithSeed(1))
		assertHalfSplit(t, s.Grid())
	}
}

func TestReset_TwiceRestoresBoard(t *testing.T) {
	s := mustNew(t, Config{GridSize: 24, TileSize: 25}, WithSeed(3))
	for i := 0; i < 500; i++ {
		s.Step(false)
	}
	s.Reset()
	s.Reset()
	assertHalfSplit(t, s.Grid())
}

func TestReset_SpawnsInsideBoardFacingEachOther(t *testing.T) {
	cfg := Config{GridSize: 24, TileSize: 25}
	board := float64(cfg.BoardPx())
	for seed := int64(0); seed < 200; seed++ {
		s := mustNew(t, cfg, WithSeed(seed))
		day := s.Ball(TeamDay)
		night := s.Ball(TeamNight)

		for _, b := range []*Ball{day, night} {
			p := b.Position()
			if p.X <= b.Radius() || p.X >= board-b.Radius() || p.Y <= b.Radius() || p.Y >= board-b.Radius() {
				t.Fatalf("seed %d: %s ball spawned at %+v, outside the board", seed, b.Team(), p)
			}
		}
		if day.Position().X <= board/2 {
			t.Fatalf("seed %d: day ball x=%.1f should be right of centre", seed, day.Position().X)
		}
		if night.Position().X >= board/2 {
			t.Fatalf("seed %d: night ball x=%.1f should be left of centre", seed, night.Position().X)
		}
		if d := day.Direction(); d.X != -1 || d.Y != 1 {
			t.Fatalf("seed %d: day heading=%+v, want (-1,+1)", seed, d)
		}
		if d := night.Direction(); d.X != 1 || d.Y != -1 {
			t.Fatalf("seed %d: night heading=%+v, want (+1,-1)", seed, d)
		}
	}
}

func TestReset_SameSeedSameSpawn(t *testing.T) {
	cfg := Config{GridSize: 30, TileSize: 20}
	a := mustNew(t, cfg, WithSeed(42))
	b := mustNew(t, cfg, WithSeed(42))
	for _, team := range []Team{TeamDay, TeamNight} {
		if a.Ball(team).Position() != b.Ball(team).Position() {
			t.Fatalf("%s spawn differs for the same seed: %+v vs %+v",
				team, a.Ball(team).Position(), b.Ball(team).Position())
		}
	}
	if a.Seed() != 42 {
		t.Fatalf("Seed()=%d, want 42", a.Seed())
	}
}

func TestReset_KeepsPauseClock(t *testing.T) {
	s := mustNew(t, Config{GridSize: 24, TileSize: 25}, WithSeed(1))
	for i := 0; i < 45; i++ {
		s.Step(true)
	}
	s.Reset()
	if s.Frames() != 45 || !s.Paused() {
		t.Fatalf("reset cleared the clock: frames=%d paused=%t", s.Frames(), s.Paused())
	}
}

func TestStep_InvariantsHoldOverLongRuns(t *testing.T) {
	cfg := Config{GridSize: 24, TileSize: 25}
	board := float64(cfg.BoardPx())
	for seed := int64(0); seed < 20; seed++ {
		s := mustNew(t, cfg, WithSeed(seed))
		radii := [2]float64{s.Ball(TeamDay).Radius(), s.Ball(TeamNight).Radius()}
		for i := 0; i < 3000; i++ {
			s.Step(false)
			for k, b := range s.Balls() {
				if b.Radius() != radii[k] {
					t.Fatalf("seed %d tick %d: %s radius changed %f → %f", seed, s.Tick(), b.Team(), radii[k], b.Radius())
				}
				d := b.Direction()
				if math.Abs(d.X) != 1 || math.Abs(d.Y) != 1 {
					t.Fatalf("seed %d tick %d: %s heading drifted to %+v", seed, s.Tick(), b.Team(), d)
				}
				lo := b.Radius() - b.Speed() - 1e-9
				hi := board - b.Radius() + b.Speed() + 1e-9
				p := b.Position()
				if p.X < lo || p.X > hi || p.Y < lo || p.Y > hi {
					t.Fatalf("seed %d tick %d: %s ball at %+v escaped [%.2f,%.2f]", seed, s.Tick(), b.Team(), p, lo, hi)
				}
			}
			if got := s.Grid().Count(TeamDay) + s.Grid().Count(TeamNight); got != 24*24 {
				t.Fatalf("seed %d tick %d: %d owned tiles, want %d", seed, s.Tick(), got, 24*24)
			}
		}
	}
}

func TestStep_TwoFlipsOnOneFrame(t *testing.T) {
	// After one step of 11.5px the day ball sits at (137.5,137.5), centred
	// in tile (5,5). Its 0° probe reaches (5,6), its 90° probe (6,5).
	s := mustNew(t, Config{GridSize: 24, TileSize: 25},
		WithSeed(1),
		WithVerbose(false),
		WithFilledBoard(TeamNight),
		WithTile(5, 6, TeamDay),
		WithTile(6, 5, TeamDay),
		WithBallAt(TeamDay, 126, 126),
		WithBallHeading(TeamDay, 1, 1),
		WithBallAt(TeamNight, 500, 500),
	)

	s.Step(false)

	if s.Grid().At(5, 6) != TeamNight || s.Grid().At(6, 5) != TeamNight {
		t.Fatal("both day tiles touched by the day ball should have flipped")
	}
	if d := s.Ball(TeamDay).Direction(); d.X != -1 || d.Y != -1 {
		t.Fatalf("day heading=%+v, want (-1,-1)", d)
	}
	if got := s.Events().CountTeam(TeamDay, CategoryTile, KeyFlip); got != 2 {
		t.Fatalf("logged %d day flips, want 2\n%s", got, s.Events().Format())
	}
}

func TestStep_WallReflectionBeforeProbing(t *testing.T) {
	// Integration carries the ball to x=8.5, inside the radius. The wall
	// pass must reverse x first; the probes then see a night-only board.
	s := mustNew(t, Config{GridSize: 24, TileSize: 25},
		WithSeed(1),
		WithVerbose(false),
		WithFilledBoard(TeamNight),
		WithBallAt(TeamDay, 20, 300),
		WithBallHeading(TeamDay, -1, 1),
		WithBallAt(TeamNight, 500, 500),
	)

	s.Step(false)

	day := s.Ball(TeamDay)
	if day.Direction().X != 1 {
		t.Fatalf("dir.x=%f, want +1 after the wall", day.Direction().X)
	}
	if day.Position().X != 20 {
		t.Fatalf("x=%f, want 20 after the one-step nudge", day.Position().X)
	}
	if !s.Events().HasEntry(CategoryWall, KeyBounceX, "") {
		t.Fatalf("missing bounce_x event\n%s", s.Events().Format())
	}
}

func TestStep_DayBallResolvesFirst(t *testing.T) {
	// Tile (1,2) is reached by the day ball's 0° probe and by the night
	// ball's 180° probe on the same frame. Day goes first and hands it to
	// night; night then sees its own colour and hands it straight back.
	s := mustNew(t, Config{GridSize: 8, TileSize: 25},
		WithSeed(1),
		WithFilledBoard(TeamNight),
		WithTile(1, 2, TeamDay),
		WithTile(1, 3, TeamDay),
		WithTile(2, 3, TeamDay),
		WithBallAt(TeamDay, 26, 26),
		WithBallHeading(TeamDay, 1, 1),
		WithBallAt(TeamNight, 96.5, 26),
		WithBallHeading(TeamNight, -1, 1),
	)

	s.Step(false)

	if got := s.Grid().At(1, 2); got != TeamDay {
		t.Fatalf("shared tile=%s, want day (flipped by day, then back by night)", got)
	}
	if d := s.Ball(TeamDay).Direction(); d.X != -1 {
		t.Fatalf("day dir.x=%f, want -1", d.X)
	}
	if d := s.Ball(TeamNight).Direction(); d.X != 1 {
		t.Fatalf("night dir.x=%f, want +1", d.X)
	}
}

func TestStep_PausedFreezesBoard(t *testing.T) {
	s := mustNew(t, Config{GridSize: 24, TileSize: 25}, WithSeed(9))
	before := s.Grid().Cells()
	pos := s.Ball(TeamDay).Position()

	for i := 0; i < 100; i++ {
		s.Step(true)
	}

	if s.Frames() != 100 || s.Tick() != 0 {
		t.Fatalf("frames=%d tick=%d, want 100 and 0", s.Frames(), s.Tick())
	}
	if s.Ball(TeamDay).Position() != pos {
		t.Fatal("ball moved while paused")
	}
	after := s.Grid().Cells()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("tile %d changed while paused", i)
		}
	}

	s.Step(false)
	if s.Paused() || s.Tick() != 1 || s.Frames() != 100 {
		t.Fatalf("after resume: paused=%t tick=%d frames=%d", s.Paused(), s.Tick(), s.Frames())
	}
}

func TestPauseLabelVisible_Blinks(t *testing.T) {
	s := mustNew(t, Config{GridSize: 4, TileSize: 10}, WithSeed(1))
	if s.PauseLabelVisible() {
		t.Fatal("label should be hidden while running")
	}
	for frame := 1; frame <= 120; frame++ {
		s.Step(true)
		want := (frame/30)%2 == 1
		if got := s.PauseLabelVisible(); got != want {
			t.Fatalf("frame %d: visible=%t, want %t", frame, got, want)
		}
	}
}

func TestRescale_ScalesBallsKeepsBoard(t *testing.T) {
	s := mustNew(t, Config{GridSize: 24, TileSize: 25}, WithSeed(5), WithVerbose(false))
	for i := 0; i < 200; i++ {
		s.Step(false)
	}
	cells := s.Grid().Cells()
	day := s.Ball(TeamDay)

	if err := s.Rescale(50); err != nil {
		t.Fatalf("Rescale: %v", err)
	}

	scaled := s.Ball(TeamDay)
	if scaled.Radius() != 25 || scaled.Speed() != 24 {
		t.Fatalf("radius=%f speed=%f, want 25 and 24", scaled.Radius(), scaled.Speed())
	}
	if scaled.Position().X != day.Position().X*2 || scaled.Position().Y != day.Position().Y*2 {
		t.Fatalf("position=%+v, want double %+v", scaled.Position(), day.Position())
	}
	if scaled.Direction() != day.Direction() {
		t.Fatal("heading changed on rescale")
	}
	if s.BoardPx() != 1200 {
		t.Fatalf("BoardPx=%d, want 1200", s.BoardPx())
	}
	after := s.Grid().Cells()
	for i := range cells {
		if cells[i] != after[i] {
			t.Fatalf("tile %d changed on rescale", i)
		}
	}
	if !s.Events().HasEntry(CategoryReset, KeyRescale, "25px → 50px") {
		t.Fatalf("missing rescale event\n%s", s.Events().Format())
	}
}

func TestRescale_RejectsNonPositive(t *testing.T) {
	s := mustNew(t, Config{GridSize: 24, TileSize: 25}, WithSeed(1))
	if err := s.Rescale(0); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Rescale(0) err=%v, want ErrInvalidConfig", err)
	}
	if s.Config().TileSize != 25 {
		t.Fatal("failed rescale must not change the config")
	}
}
