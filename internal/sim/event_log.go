package sim

import (
	"fmt"
	"strings"
)

// Event categories and keys recorded by Sim.
const (
	CategoryReset = "reset"
	CategoryTile  = "tile"
	CategoryWall  = "wall"
	CategoryBall  = "ball"

	KeyReset    = "board"
	KeyFlip     = "flip"
	KeyBounceX  = "bounce_x"
	KeyBounceY  = "bounce_y"
	KeyPosition = "position"
	KeyRescale  = "rescale"
)

// Event is one recorded simulation event.
type Event struct {
	Tick     int
	Team     string // "day", "night", or "--" for board-wide events
	Category string // reset, tile, wall, ball
	Key      string // specific event name within the category
	Value    string // human-readable detail
	NumVal   float64
}

// String formats the event as a fixed-width log line.
//
//	[T=042] night tile      flip             (3,11) → day
func (e Event) String() string {
	return fmt.Sprintf("[T=%03d] %-5s %-9s %-16s %s",
		e.Tick, e.Team, e.Category, e.Key, e.Value)
}

// EventLog collects structured events from a Sim. It is machine-readable;
// the headless report and tests read it back. A nil *EventLog discards
// everything.
type EventLog struct {
	entries []Event
	verbose bool
	limit   int // 0 = unbounded, otherwise only the newest limit events are kept
}

// NewEventLog creates an unbounded EventLog. If verbose is true, per-tick
// ball positions are also recorded.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// NewBoundedEventLog creates an EventLog that keeps only the newest limit
// events. Counts and filters then cover the retained events only.
func NewBoundedEventLog(limit int, verbose bool) *EventLog {
	return &EventLog{verbose: verbose, limit: max(limit, 0)}
}

// Add records a new event.
func (el *EventLog) Add(tick int, team, category, key, value string, numVal float64) {
	if el == nil {
		return
	}
	if el.limit > 0 && len(el.entries) >= 2*el.limit {
		el.entries = append(el.entries[:0], el.entries[len(el.entries)-el.limit:]...)
	}
	el.entries = append(el.entries, Event{
		Tick:     tick,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an event only when verbose mode is on.
func (el *EventLog) AddVerbose(tick int, team, category, key, value string, numVal float64) {
	if el == nil || !el.verbose {
		return
	}
	el.Add(tick, team, category, key, value, numVal)
}

// Verbose reports whether per-tick events are recorded.
func (el *EventLog) Verbose() bool {
	return el != nil && el.verbose
}

// Entries returns all recorded events.
func (el *EventLog) Entries() []Event {
	if el == nil {
		return nil
	}
	if el.limit > 0 && len(el.entries) > el.limit {
		return el.entries[len(el.entries)-el.limit:]
	}
	return el.entries
}

// Len returns the number of retained events.
func (el *EventLog) Len() int {
	return len(el.Entries())
}

// Filter returns events matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range el.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTeam returns events attributed to team.
func (el *EventLog) FilterTeam(team Team) []Event {
	var out []Event
	label := team.String()
	for _, e := range el.Entries() {
		if e.Team == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns events within [fromTick, toTick] inclusive.
func (el *EventLog) FilterTickRange(fromTick, toTick int) []Event {
	var out []Event
	for _, e := range el.Entries() {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many events match the given category and key.
func (el *EventLog) CountCategory(category, key string) int {
	return len(el.Filter(category, key))
}

// CountTeam returns how many events of category+key team produced.
func (el *EventLog) CountTeam(team Team, category, key string) int {
	n := 0
	label := team.String()
	for _, e := range el.Filter(category, key) {
		if e.Team == label {
			n++
		}
	}
	return n
}

// LastOf returns the most recent event matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (Event, bool) {
	events := el.Filter(category, key)
	if len(events) == 0 {
		return Event{}, false
	}
	return events[len(events)-1], true
}

// HasEntry returns true if at least one event matches category, key, and value substring.
func (el *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (el *EventLog) Format() string {
	return formatEvents(el.Entries())
}

// FormatRange returns a log string filtered to a tick range.
func (el *EventLog) FormatRange(fromTick, toTick int) string {
	return formatEvents(el.FilterTickRange(fromTick, toTick))
}

func formatEvents(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the board and the
// event counts so far.
func (el *EventLog) Summary(tick int, grid *Grid, balls [2]*Ball) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)

	total := grid.Size() * grid.Size()
	for _, team := range []Team{TeamDay, TeamNight} {
		owned := grid.Count(team)
		fmt.Fprintf(&sb, "%-5s tiles=%d (%.1f%%) flips=%d wall_bounces=%d\n",
			team, owned, 100*float64(owned)/float64(total),
			el.CountTeam(team, CategoryTile, KeyFlip),
			el.CountTeam(team, CategoryWall, KeyBounceX)+el.CountTeam(team, CategoryWall, KeyBounceY))
	}

	for _, b := range balls {
		p := b.Position()
		d := b.Direction()
		fmt.Fprintf(&sb, "%-5s ball at (%.1f,%.1f) heading (%+.0f,%+.0f)\n",
			b.Team(), p.X, p.Y, d.X, d.Y)
	}
	return sb.String()
}
