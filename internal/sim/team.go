package sim

// Team identifies which side owns a tile or a ball.
type Team uint8

const (
	TeamDay   Team = iota // left half at reset; its ball spawns on the right
	TeamNight             // right half at reset; its ball spawns on the left
)

// Opposite returns the other team.
func (t Team) Opposite() Team {
	if t == TeamDay {
		return TeamNight
	}
	return TeamDay
}

func (t Team) String() string {
	switch t {
	case TeamDay:
		return "day"
	case TeamNight:
		return "night"
	default:
		return "unknown"
	}
}
