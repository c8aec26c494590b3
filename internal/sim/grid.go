package sim

// Grid is a square board of N×N tiles, each owned by exactly one team.
// Cells are stored row-major in a single slice.
type Grid struct {
	n     int
	cells []Team
}

// NewGrid creates an n×n grid in its initial half-split state.
func NewGrid(n int) *Grid {
	g := &Grid{
		n:     n,
		cells: make([]Team, n*n),
	}
	g.Initialize()
	return g
}

// Initialize splits the board into two vertical halves: columns left of
// n/2 belong to Day, the rest to Night. With an odd n the extra column
// goes to Night.
func (g *Grid) Initialize() {
	half := g.n / 2
	for row := 0; row < g.n; row++ {
		for col := 0; col < g.n; col++ {
			if col < half {
				g.cells[g.index(row, col)] = TeamDay
			} else {
				g.cells[g.index(row, col)] = TeamNight
			}
		}
	}
}

// Size returns N.
func (g *Grid) Size() int {
	return g.n
}

// InBounds reports whether (row, col) addresses a tile.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.n && col >= 0 && col < g.n
}

// At returns the owner of the tile at (row, col).
func (g *Grid) At(row, col int) Team {
	return g.cells[g.index(row, col)]
}

// Set assigns the tile at (row, col) to team.
func (g *Grid) Set(row, col int, team Team) {
	g.cells[g.index(row, col)] = team
}

// Flip hands the tile at (row, col) to the opposite team.
func (g *Grid) Flip(row, col int) {
	i := g.index(row, col)
	g.cells[i] = g.cells[i].Opposite()
}

// Count returns how many tiles team owns.
func (g *Grid) Count(team Team) int {
	n := 0
	for _, c := range g.cells {
		if c == team {
			n++
		}
	}
	return n
}

// Cells returns a row-major copy of the board.
func (g *Grid) Cells() []Team {
	out := make([]Team, len(g.cells))
	copy(out, g.cells)
	return out
}

func (g *Grid) index(row, col int) int {
	return row*g.n + col
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y float64
	W, H float64
}

// TileRect returns the pixel rectangle covered by tile (row, col) for the
// given tile size. Geometry is derived on demand and never stored.
func TileRect(row, col int, tileSize float64) Rect {
	return Rect{
		X: float64(col) * tileSize,
		Y: float64(row) * tileSize,
		W: tileSize,
		H: tileSize,
	}
}
