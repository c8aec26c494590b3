package sim

import "math"

// Vec2 is a 2D vector in board pixel space.
type Vec2 struct {
	X, Y float64
}

// Ball is one of the two bouncing balls. Direction components are always
// exactly +1 or -1; the step length lives in speed so heading and
// magnitude never mix.
type Ball struct {
	pos    Vec2
	dir    Vec2
	speed  float64
	radius float64
	team   Team
}

// ballSpeed is the per-frame step length for a given tile size.
func ballSpeed(tileSize float64) float64 {
	return math.Max(1, tileSize*0.5-1)
}

// NewBall creates a ball for team at (startX, startY). A ball spawned right
// of the board centre heads down-left, otherwise up-right, so the two
// balls launch towards each other.
func NewBall(team Team, startX, startY, tileSize, boardPx float64) *Ball {
	dir := Vec2{X: 1, Y: -1}
	if startX > boardPx/2 {
		dir = Vec2{X: -1, Y: 1}
	}
	return &Ball{
		pos:    Vec2{X: startX, Y: startY},
		dir:    dir,
		speed:  ballSpeed(tileSize),
		radius: tileSize * 0.5,
		team:   team,
	}
}

// Team returns the side the ball plays for.
func (b *Ball) Team() Team { return b.team }

// Position returns the ball centre in board pixels.
func (b *Ball) Position() Vec2 { return b.pos }

// Direction returns the ±1 heading.
func (b *Ball) Direction() Vec2 { return b.dir }

// Radius returns the ball radius in board pixels.
func (b *Ball) Radius() float64 { return b.radius }

// Speed returns the step length per frame.
func (b *Ball) Speed() float64 { return b.speed }

// Velocity returns direction scaled by speed.
func (b *Ball) Velocity() Vec2 {
	return Vec2{X: b.dir.X * b.speed, Y: b.dir.Y * b.speed}
}

// integrate advances the ball by one step along its heading.
func (b *Ball) integrate() {
	b.pos.X += b.dir.X * b.speed
	b.pos.Y += b.dir.Y * b.speed
}

// rescaled returns a copy of the ball sized for a new tile size. Position
// and radius scale by factor, heading and team carry over, speed is
// re-derived. The receiver is left untouched.
func (b *Ball) rescaled(factor, tileSize float64) *Ball {
	return &Ball{
		pos:    Vec2{X: b.pos.X * factor, Y: b.pos.Y * factor},
		dir:    b.dir,
		speed:  ballSpeed(tileSize),
		radius: b.radius * factor,
		team:   b.team,
	}
}
