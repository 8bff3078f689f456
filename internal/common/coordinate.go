package common

import "fmt"

// Coordinate represents a position on a map grid
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a grid index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return IsValidCoordinate(c.X, c.Y, width, height)
}

// ToIndex converts the coordinate to a grid index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction represents a cardinal direction. The numeric value is also the
// bit position of the direction in a neighbour mask.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the cardinal directions in mask bit order.
var Directions = [4]Direction{North, East, South, West}

// DirectionVectors provides coordinate offsets for each direction
var DirectionVectors = [4]Coordinate{
	North: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: 1},
	West:  {X: -1, Y: 0},
}

// Bit returns the neighbour mask bit for d.
func (d Direction) Bit() int { return 1 << uint(d) }

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

// Move returns a new coordinate moved one step in the given direction
func (c Coordinate) Move(d Direction) Coordinate {
	if d < North || d > West {
		return c
	}
	return c.Add(DirectionVectors[d])
}

// Neighbors returns the four orthogonal neighbors of this coordinate in
// North, East, South, West order
func (c Coordinate) Neighbors() [4]Coordinate {
	var n [4]Coordinate
	for _, d := range Directions {
		n[d] = c.Move(d)
	}
	return n
}
