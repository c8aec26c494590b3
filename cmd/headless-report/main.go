package main

import (
	"flag"
	"fmt"
	"math"
	"strings"

	"github.com/Garsondee/pong-wars/internal/config"
	"github.com/Garsondee/pong-wars/internal/sim"
)

// A run is "balanced" while the day share stays inside this band.
const balanceBand = 0.10

type runStats struct {
	runIndex int
	seed     int64

	dayTiles   int
	nightTiles int
	dayShare   float64

	dayFlips     int
	nightFlips   int
	dayBounces   int
	nightBounces int

	// First sampled tick at which the day share left the balance band, or -1.
	firstSwingTick int

	windowSummary *sim.WindowReport
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	cfg, err := flags.Resolve()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Territory Report ===\n")
	fmt.Printf("grid=%d tile=%dpx runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		cfg.GridSize, cfg.TileSize, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runOnce(cfg, i+1, seed, ticks)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats)
	}
	printAggregate(all)
}

func runOnce(cfg config.Config, runIndex int, seed int64, ticks int) (runStats, error) {
	s, err := sim.New(cfg.Sim(),
		sim.WithSeed(seed),
		sim.WithEventLog(sim.NewEventLog(false)),
		sim.WithReporter(0, 0),
	)
	if err != nil {
		return runStats{}, err
	}
	for i := 0; i < ticks; i++ {
		s.Step(false)
	}
	return collectStats(s, runIndex), nil
}

func collectStats(s *sim.Sim, runIndex int) runStats {
	ev := s.Events()
	g := s.Grid()
	day, night := g.Count(sim.TeamDay), g.Count(sim.TeamNight)
	return runStats{
		runIndex:   runIndex,
		seed:       s.Seed(),
		dayTiles:   day,
		nightTiles: night,
		dayShare:   share(day, night),
		dayFlips:   ev.CountTeam(sim.TeamDay, sim.CategoryTile, sim.KeyFlip),
		nightFlips: ev.CountTeam(sim.TeamNight, sim.CategoryTile, sim.KeyFlip),
		dayBounces: ev.CountTeam(sim.TeamDay, sim.CategoryWall, sim.KeyBounceX) +
			ev.CountTeam(sim.TeamDay, sim.CategoryWall, sim.KeyBounceY),
		nightBounces: ev.CountTeam(sim.TeamNight, sim.CategoryWall, sim.KeyBounceX) +
			ev.CountTeam(sim.TeamNight, sim.CategoryWall, sim.KeyBounceY),
		firstSwingTick: firstSwing(s.Reporter().History(), balanceBand),
		windowSummary:  s.Reporter().WindowSummary(),
	}
}

func share(day, night int) float64 {
	if day+night == 0 {
		return 0
	}
	return float64(day) / float64(day+night)
}

// firstSwing returns the tick of the first sample whose day share is more
// than band away from an even split, or -1.
func firstSwing(history []sim.TerritoryReport, band float64) int {
	for _, r := range history {
		if math.Abs(r.DayShare-0.5) > band {
			return r.Tick
		}
	}
	return -1
}

// classifyOutcome labels a run by its final territory. A run counts as
// balanced when the final share is inside the band and the window never
// left it either.
func classifyOutcome(rs runStats) (string, string) {
	reasons := []string{fmt.Sprintf("final_day_share=%.2f", rs.dayShare)}
	swung := false
	if wr := rs.windowSummary; wr != nil {
		reasons = append(reasons,
			fmt.Sprintf("window_min=%.2f", wr.MinDayShare),
			fmt.Sprintf("window_max=%.2f", wr.MaxDayShare))
		if wr.MinDayShare < 0.5-balanceBand || wr.MaxDayShare > 0.5+balanceBand {
			swung = true
			reasons = append(reasons, "window_swing")
		}
	}
	reason := strings.Join(reasons, ",")
	switch {
	case rs.dayShare > 0.5+balanceBand:
		return "day_ahead", reason
	case rs.dayShare < 0.5-balanceBand:
		return "night_ahead", reason
	case swung:
		return "oscillating", reason
	default:
		return "balanced", reason
	}
}

func printRun(rs runStats) {
	outcome, reason := classifyOutcome(rs)
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("territory: day=%d night=%d day_share=%.1f%%\n", rs.dayTiles, rs.nightTiles, rs.dayShare*100)
	fmt.Printf("event_totals: day_flips=%d night_flips=%d day_wall_bounces=%d night_wall_bounces=%d\n",
		rs.dayFlips, rs.nightFlips, rs.dayBounces, rs.nightBounces)
	fmt.Printf("first_swing_tick=%s\n", tickString(rs.firstSwingTick))
	fmt.Print(rs.windowSummary.Format())
	fmt.Printf("outcome=%s (%s)\n\n", outcome, reason)
}

func printAggregate(all []runStats) {
	totalDayFlips := 0
	totalNightFlips := 0
	totalBounces := 0
	shareSum := 0.0
	swingTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}

	for _, rs := range all {
		totalDayFlips += rs.dayFlips
		totalNightFlips += rs.nightFlips
		totalBounces += rs.dayBounces + rs.nightBounces
		shareSum += rs.dayShare
		if rs.firstSwingTick >= 0 {
			swingTicks = append(swingTicks, rs.firstSwingTick)
		}
		outcome, _ := classifyOutcome(rs)
		outcomes[outcome]++
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: day_flips=%.1f night_flips=%.1f wall_bounces=%.1f\n",
		avg(totalDayFlips, len(all)), avg(totalNightFlips, len(all)), avg(totalBounces, len(all)))
	fmt.Printf("avg_final_day_share=%.1f%%\n", shareSum/float64(max(len(all), 1))*100)
	fmt.Printf("avg_first_swing_tick=%s\n", avgTickString(swingTicks))
	fmt.Printf("outcomes: balanced=%d oscillating=%d day_ahead=%d night_ahead=%d\n",
		outcomes["balanced"], outcomes["oscillating"], outcomes["day_ahead"], outcomes["night_ahead"])
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func tickString(t int) string {
	if t < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", t)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
