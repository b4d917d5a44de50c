package maze

import "strings"

// Direction represents a cardinal direction
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return North
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "unknown"
}

// Delta returns the row and column offset of a single step in this direction.
// Rows grow downward, so north is -1.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	}
	return 0, 0
}

// AllDirections returns all four cardinal directions in the fixed order
// north, south, east, west. Carving depends on this order for reproducibility.
func AllDirections() []Direction {
	return []Direction{North, South, East, West}
}

// ParseDirection converts a direction name or its one-letter shortcut.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n":
		return North, true
	case "south", "s":
		return South, true
	case "east", "e":
		return East, true
	case "west", "w":
		return West, true
	}
	return North, false
}
