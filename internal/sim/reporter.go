package sim

import (
	"fmt"
	"strings"
)

// Defaults used when a Reporter is built with non-positive settings.
const (
	reportIntervalTicks = 30  // one sample every half second at 60 TPS
	reportWindowTicks   = 600 // ~10s at 60 TPS
)

// TerritoryReport is a snapshot of the board at one tick.
type TerritoryReport struct {
	Tick      int
	Day       int // tiles owned by day
	Night     int // tiles owned by night
	DayShare  float64
	DayBall   Vec2
	NightBall Vec2
}

// Leader returns the team owning more tiles, or false on a tie.
func (tr TerritoryReport) Leader() (Team, bool) {
	switch {
	case tr.Day > tr.Night:
		return TeamDay, true
	case tr.Night > tr.Day:
		return TeamNight, true
	default:
		return TeamDay, false
	}
}

// Reporter samples territory periodically and summarises recent history.
// A nil *Reporter ignores observations.
type Reporter struct {
	history     []TerritoryReport
	interval    int
	windowTicks int
}

// NewReporter creates a Reporter sampling every interval ticks and
// summarising the last windowTicks ticks.
func NewReporter(interval, windowTicks int) *Reporter {
	if interval <= 0 {
		interval = reportIntervalTicks
	}
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &Reporter{
		interval:    interval,
		windowTicks: windowTicks,
	}
}

// Observe records a snapshot when tick falls on the sampling interval.
func (r *Reporter) Observe(tick int, grid *Grid, balls [2]*Ball) {
	if r == nil || tick%r.interval != 0 {
		return
	}
	day := grid.Count(TeamDay)
	night := grid.Count(TeamNight)
	share := 0.0
	if total := day + night; total > 0 {
		share = float64(day) / float64(total)
	}
	r.history = append(r.history, TerritoryReport{
		Tick:      tick,
		Day:       day,
		Night:     night,
		DayShare:  share,
		DayBall:   balls[TeamDay].Position(),
		NightBall: balls[TeamNight].Position(),
	})
}

// Latest returns the most recent snapshot, or nil before the first one.
func (r *Reporter) Latest() *TerritoryReport {
	if r == nil || len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1]
	return &latest
}

// History returns every snapshot taken so far.
func (r *Reporter) History() []TerritoryReport {
	if r == nil {
		return nil
	}
	return r.history
}

// WindowReport aggregates the snapshots inside the sliding window.
type WindowReport struct {
	FromTick    int
	ToTick      int
	SampleCount int

	AvgDayShare float64
	MinDayShare float64
	MaxDayShare float64
	AvgDay      float64
	AvgNight    float64

	// LeadChanges counts how often the leading team changed between
	// consecutive samples. Ties are skipped.
	LeadChanges int
}

// WindowSummary aggregates the snapshots from the last windowTicks ticks.
// It returns nil when nothing has been sampled.
func (r *Reporter) WindowSummary() *WindowReport {
	if r == nil || len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	start := len(r.history) - 1
	for start > 0 && r.history[start-1].Tick >= cutoff {
		start--
	}
	window := r.history[start:]

	n := float64(len(window))
	wr := &WindowReport{
		FromTick:    window[0].Tick,
		ToTick:      window[len(window)-1].Tick,
		SampleCount: len(window),
		MinDayShare: window[0].DayShare,
		MaxDayShare: window[0].DayShare,
	}

	var lastLeader Team
	haveLeader := false
	for _, rpt := range window {
		wr.AvgDayShare += rpt.DayShare
		wr.AvgDay += float64(rpt.Day)
		wr.AvgNight += float64(rpt.Night)
		wr.MinDayShare = min(wr.MinDayShare, rpt.DayShare)
		wr.MaxDayShare = max(wr.MaxDayShare, rpt.DayShare)

		leader, ok := rpt.Leader()
		if !ok {
			continue
		}
		if haveLeader && leader != lastLeader {
			wr.LeadChanges++
		}
		lastLeader = leader
		haveLeader = true
	}

	wr.AvgDayShare /= n
	wr.AvgDay /= n
	wr.AvgNight /= n
	return wr
}

// Format renders the window report as a short multi-line block.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "no territory samples\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "window T=%d..%d samples=%d\n", wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  day share avg=%.1f%% min=%.1f%% max=%.1f%%\n",
		wr.AvgDayShare*100, wr.MinDayShare*100, wr.MaxDayShare*100)
	fmt.Fprintf(&sb, "  tiles avg day=%.1f night=%.1f lead_changes=%d\n",
		wr.AvgDay, wr.AvgNight, wr.LeadChanges)
	return sb.String()
}

// FormatLatest renders the most recent snapshot on one line.
func (r *Reporter) FormatLatest() string {
	latest := r.Latest()
	if latest == nil {
		return "no territory samples"
	}
	return fmt.Sprintf("T=%d day=%d night=%d (%.1f%% day)",
		latest.Tick, latest.Day, latest.Night, latest.DayShare*100)
}
