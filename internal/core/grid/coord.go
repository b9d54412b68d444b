package grid

import "fmt"

// Coord is a signed 2D grid position shared by every layer.
type Coord struct {
	X, Y int
}

func (c Coord) Add(o Coord) Coord { return Coord{X: c.X + o.X, Y: c.Y + o.Y} }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Direction is an absolute compass heading. North points toward +Y.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var dirNames = [...]string{"north", "east", "south", "west"}

func (d Direction) String() string {
	if d < North || d > West {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return dirNames[d]
}

// Offset returns the unit step for the heading.
func (d Direction) Offset() Coord {
	switch d {
	case North:
		return Coord{0, 1}
	case East:
		return Coord{1, 0}
	case South:
		return Coord{0, -1}
	case West:
		return Coord{-1, 0}
	}
	return Coord{}
}

// Turn rotates clockwise by quarter turns (negative turns counter-clockwise).
func (d Direction) Turn(quarters int) Direction {
	return Direction(((int(d)+quarters)%4 + 4) % 4)
}

// ParseDirection maps a lowercase heading name to a Direction.
func ParseDirection(s string) (Direction, bool) {
	for i, n := range dirNames {
		if n == s {
			return Direction(i), true
		}
	}
	return North, false
}
