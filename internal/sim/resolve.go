package sim

import "math"

// ringSampleCount is the number of points probed around a ball's rim.
const ringSampleCount = 8

// axisTieEps absorbs the last-bit difference between cos and sin on the
// diagonals so those samples resolve as exact ties.
const axisTieEps = 1e-9

// ringSample is one probe direction on the ball's circumference.
type ringSample struct {
	cos, sin float64
	reflectX bool // horizontal component strictly dominates
}

var ring = buildRing()

func buildRing() [ringSampleCount]ringSample {
	var r [ringSampleCount]ringSample
	for k := range r {
		angle := float64(k) * (2 * math.Pi / ringSampleCount)
		c := snapZero(math.Cos(angle))
		s := snapZero(math.Sin(angle))
		r[k] = ringSample{
			cos:      c,
			sin:      s,
			reflectX: math.Abs(c)-math.Abs(s) > axisTieEps,
		}
	}
	return r
}

func snapZero(v float64) float64 {
	if math.Abs(v) < axisTieEps {
		return 0
	}
	return v
}

// Cell addresses one tile.
type Cell struct {
	Row, Col int
}

// ResolveWalls reflects the ball off the board edges. Each axis is checked
// independently: when the centre is within radius of either bound the
// heading on that axis is negated and the ball is nudged one step back
// along the new heading so it cannot sit on the wall across frames.
func ResolveWalls(b *Ball, boardPx float64) (bouncedX, bouncedY bool) {
	if b.pos.X <= b.radius || b.pos.X >= boardPx-b.radius {
		b.dir.X = -b.dir.X
		b.pos.X += b.dir.X * b.speed
		bouncedX = true
	}
	if b.pos.Y <= b.radius || b.pos.Y >= boardPx-b.radius {
		b.dir.Y = -b.dir.Y
		b.pos.Y += b.dir.Y * b.speed
		bouncedY = true
	}
	return bouncedX, bouncedY
}

// ResolveTiles probes eight points on the ball's rim. Every probe that lands
// on a tile still owned by the ball's own team flips that tile and reflects
// the ball on the probe's dominant axis (y on diagonal ties). Probes are
// evaluated in angle order and each one sees the effects of the previous
// ones, so a single call may flip several tiles and toggle the heading more
// than once. Out-of-board probes are skipped. Flipped cells are returned in
// probe order.
func ResolveTiles(g *Grid, b *Ball, tileSize float64) []Cell {
	var flipped []Cell
	for _, s := range ring {
		px := b.pos.X + s.cos*b.radius
		py := b.pos.Y + s.sin*b.radius
		col := int(math.Floor(px / tileSize))
		row := int(math.Floor(py / tileSize))
		if !g.InBounds(row, col) {
			continue
		}
		if g.At(row, col) != b.team {
			continue
		}
		g.Flip(row, col)
		flipped = append(flipped, Cell{Row: row, Col: col})
		if s.reflectX {
			b.dir.X = -b.dir.X
		} else {
			b.dir.Y = -b.dir.Y
		}
	}
	return flipped
}
