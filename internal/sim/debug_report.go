package sim

import (
	"fmt"
	"strings"
)

// debugReportEvents is how many trailing events DebugReport includes.
const debugReportEvents = 20

// DebugReport renders the current state as plain text for pasting into a
// bug report.
func (s *Sim) DebugReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Pong Wars debug report ---\n")
	fmt.Fprintf(&b, "seed=%d grid=%d tile=%dpx board=%dpx\n",
		s.seed, s.cfg.GridSize, s.cfg.TileSize, s.cfg.BoardPx())
	fmt.Fprintf(&b, "tick=%d paused=%t paused_frames=%d\n\n", s.tick, s.paused, s.frames)

	b.WriteString(s.events.Summary(s.tick, s.grid, s.balls))

	if s.reporter != nil {
		b.WriteByte('\n')
		b.WriteString(s.reporter.WindowSummary().Format())
	}

	if entries := s.events.Entries(); len(entries) > 0 {
		from := max(len(entries)-debugReportEvents, 0)
		b.WriteString("\nrecent events:\n")
		b.WriteString(formatEvents(entries[from:]))
	}
	return b.String()
}
