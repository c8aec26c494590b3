package sim

import (
	"strings"
	"testing"
)

func TestReporter_SamplesOnInterval(t *testing.T) {
	s := mustNew(t, Config{GridSize: 24, TileSize: 25}, WithSeed(4), WithReporter(10, 100))
	for i := 0; i < 95; i++ {
		s.Step(false)
	}
	hist := s.Reporter().History()
	if len(hist) != 9 {
		t.Fatalf("samples=%d, want 9", len(hist))
	}
	for i, r := range hist {
		if r.Tick != (i+1)*10 {
			t.Fatalf("sample %d at tick %d, want %d", i, r.Tick, (i+1)*10)
		}
		if r.Day+r.Night != 24*24 {
			t.Fatalf("sample %d owns %d tiles, want %d", i, r.Day+r.Night, 24*24)
		}
	}
	if latest := s.Reporter().Latest(); latest == nil || latest.Tick != 90 {
		t.Fatalf("Latest=%+v, want tick 90", latest)
	}
}

func TestReporter_PausedFramesNotSampled(t *testing.T) {
	s := mustNew(t, Config{GridSize: 8, TileSize: 10}, WithSeed(4), WithReporter(1, 10))
	for i := 0; i < 30; i++ {
		s.Step(true)
	}
	if s.Reporter().Latest() != nil {
		t.Fatal("paused frames should not produce samples")
	}
}

func TestReporter_WindowSummary(t *testing.T) {
	r := NewReporter(1, 2)
	g := NewGrid(2) // 2 day, 2 night
	balls := [2]*Ball{
		NewBall(TeamDay, 30, 10, 10, 20),
		NewBall(TeamNight, 5, 10, 10, 20),
	}

	r.Observe(1, g, balls) // tie
	g.Set(0, 1, TeamDay)
	r.Observe(2, g, balls) // day 3/4
	g.Set(0, 0, TeamNight)
	g.Set(0, 1, TeamNight)
	r.Observe(3, g, balls) // day 1/4
	g.Set(1, 1, TeamDay)
	g.Set(0, 0, TeamDay)
	r.Observe(4, g, balls) // day 3/4

	wr := r.WindowSummary()
	if wr == nil {
		t.Fatal("WindowSummary returned nil")
	}
	if wr.FromTick != 2 || wr.ToTick != 4 || wr.SampleCount != 3 {
		t.Fatalf("window=%d..%d samples=%d, want 2..4 and 3", wr.FromTick, wr.ToTick, wr.SampleCount)
	}
	if wr.MinDayShare != 0.25 || wr.MaxDayShare != 0.75 {
		t.Fatalf("min/max=%.2f/%.2f, want 0.25/0.75", wr.MinDayShare, wr.MaxDayShare)
	}
	if wr.LeadChanges != 2 {
		t.Fatalf("lead changes=%d, want 2", wr.LeadChanges)
	}
	if !strings.Contains(wr.Format(), "lead_changes=2") {
		t.Fatalf("format missing lead changes:\n%s", wr.Format())
	}
}

func TestReporter_NilSafe(t *testing.T) {
	var r *Reporter
	r.Observe(1, NewGrid(2), [2]*Ball{})
	if r.Latest() != nil || r.WindowSummary() != nil || r.History() != nil {
		t.Fatal("nil reporter should report nothing")
	}
	if r.FormatLatest() != "no territory samples" {
		t.Fatalf("FormatLatest=%q", r.FormatLatest())
	}
}

func TestDebugReport_Sections(t *testing.T) {
	s := mustNew(t, Config{GridSize: 12, TileSize: 20}, WithSeed(77), WithVerbose(false), WithReporter(10, 100))
	for i := 0; i < 120; i++ {
		s.Step(false)
	}
	out := s.DebugReport()
	for _, want := range []string{"seed=77 grid=12 tile=20px board=240px", "tick=120", "Summary at T=120", "window T=", "recent events:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
