package mine

import (
	"fmt"
	"strings"
)

type CellType int

const (
	START CellType = iota
	EXIT
	FLOOR
	GOLD
	KEY
	LOCK
	LAVA
)

func (t CellType) String() string {
	names := [...]string{"START", "EXIT", "FLOOR", "GOLD", "KEY", "LOCK", "LAVA"}
	if t < START || t > LAVA {
		return fmt.Sprintf("CellType(%d)", t)
	}
	return names[t]
}

// Coloured reports whether cells of this type carry a key colour.
func (t CellType) Coloured() bool {
	return t == KEY || t == LOCK
}

type Color int

const (
	NONE Color = iota
	RED
	GREEN
	BLUE
)

// Colors lists the key colours in inventory order.
var Colors = [...]Color{RED, GREEN, BLUE}

func (c Color) String() string {
	names := [...]string{"NONE", "RED", "GREEN", "BLUE"}
	if c < NONE || c > BLUE {
		return fmt.Sprintf("Color(%d)", c)
	}
	return names[c]
}

func NewColor(c string) (Color, error) {
	switch strings.ToUpper(c) {
	case "RED":
		return RED, nil
	case "GREEN":
		return GREEN, nil
	case "BLUE":
		return BLUE, nil
	default:
		return NONE, fmt.Errorf("invalid color: %s", c)
	}
}

// MarshalText lets colours serve as JSON object keys, as in a key inventory.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	if strings.ToUpper(string(text)) == "NONE" {
		*c = NONE
		return nil
	}
	parsed, err := NewColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Direction indexes the four neighbour slots of a cell, clockwise from north.
type Direction int

const (
	NORTH Direction = iota
	EAST
	SOUTH
	WEST
)

const MaxNeighbours = 4

var Directions = [MaxNeighbours]Direction{NORTH, EAST, SOUTH, WEST}

func (d Direction) Valid() bool {
	return d >= NORTH && d <= WEST
}

func (d Direction) String() string {
	names := [...]string{"NORTH", "EAST", "SOUTH", "WEST"}
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", d)
	}
	return names[d]
}

func (d Direction) Opposite() Direction {
	return (d + 2) % MaxNeighbours
}

// Offset returns the row and column deltas of a step in direction d.
func (d Direction) Offset() (int, int) {
	switch d {
	case NORTH:
		return -1, 0
	case EAST:
		return 0, 1
	case SOUTH:
		return 1, 0
	case WEST:
		return 0, -1
	default:
		return 0, 0
	}
}
