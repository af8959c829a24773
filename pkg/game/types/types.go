package types

import (
	"fmt"
	"strings"
)

// Coordinate is a cell on the board. X grows to the right and Y grows downward.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Offset returns the neighbouring cell in the given direction.
func (c Coordinate) Offset(d Direction) Coordinate {
	dx, dy := d.Delta()
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// InBounds reports whether c lies inside a cols x rows board.
func (c Coordinate) InBounds(cols, rows int) bool {
	return c.X >= 0 && c.X < cols && c.Y >= 0 && c.Y < rows
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

type Direction uint8

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "UP"
	case DirectionDown:
		return "DOWN"
	case DirectionLeft:
		return "LEFT"
	case DirectionRight:
		return "RIGHT"
	default:
		return "UNKNOWN"
	}
}

// Delta returns the unit step for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// ParseDirection parses the case-insensitive name of a direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(s) {
	case "UP":
		return DirectionUp, nil
	case "DOWN":
		return DirectionDown, nil
	case "LEFT":
		return DirectionLeft, nil
	case "RIGHT":
		return DirectionRight, nil
	default:
		return DirectionRight, fmt.Errorf("unknown direction: %s", s)
	}
}

// CollisionType records what ended a game.
type CollisionType uint8

const (
	CollisionNone CollisionType = iota
	CollisionWall
	CollisionSelf
)

func (c CollisionType) String() string {
	switch c {
	case CollisionNone:
		return "none"
	case CollisionWall:
		return "wall"
	case CollisionSelf:
		return "self"
	default:
		return "unknown"
	}
}
