package mine

import "fmt"

type markState uint8

const (
	unmarked markState = iota
	inStack
	outOfStack
)

// Cell is a single open location of a mine. Walls are not cells; a wall next to a cell shows
// up as an absent neighbour.
type Cell struct {
	id         int
	row        int
	col        int
	kind       CellType
	color      Color
	mark       markState
	neighbours [MaxNeighbours]*Cell
}

func newCell(id, row, col int, kind CellType, color Color) *Cell {
	return &Cell{id: id, row: row, col: col, kind: kind, color: color}
}

func (c *Cell) ID() int {
	return c.id
}

func (c *Cell) Row() int {
	return c.row
}

func (c *Cell) Col() int {
	return c.col
}

func (c *Cell) Type() CellType {
	return c.kind
}

func (c *Cell) Color() Color {
	return c.color
}

// Neighbour returns the cell in direction d. The second value is false when there is no cell
// in that slot, including when d is not a valid direction.
func (c *Cell) Neighbour(d Direction) (*Cell, bool) {
	if !d.Valid() {
		return nil, false
	}
	n := c.neighbours[d]
	return n, n != nil
}

func (c *Cell) IsStart() bool    { return c.kind == START }
func (c *Cell) IsExit() bool     { return c.kind == EXIT }
func (c *Cell) IsFloor() bool    { return c.kind == FLOOR }
func (c *Cell) IsGoldCell() bool { return c.kind == GOLD }
func (c *Cell) IsKeyCell() bool  { return c.kind == KEY }
func (c *Cell) IsLockCell() bool { return c.kind == LOCK }
func (c *Cell) IsLava() bool     { return c.kind == LAVA }

// Colour predicates are only meaningful on key and lock cells.
func (c *Cell) IsRed() bool   { return c.color == RED }
func (c *Cell) IsGreen() bool { return c.color == GREEN }
func (c *Cell) IsBlue() bool  { return c.color == BLUE }

// IsMarked reports whether the cell has been visited by the current search, either because
// it is on the search stack or because it was popped off it while backtracking.
func (c *Cell) IsMarked() bool {
	return c.mark != unmarked
}

func (c *Cell) IsInStack() bool {
	return c.mark == inStack
}

func (c *Cell) MarkInStack() {
	c.mark = inStack
}

// MarkOutStack records that the cell left the search stack. It stays marked so a
// dead end is never entered twice.
func (c *Cell) MarkOutStack() {
	c.mark = outOfStack
}

func (c *Cell) unmark() {
	c.mark = unmarked
}

// ChangeToFloor turns a collected gold or key cell into plain floor.
func (c *Cell) ChangeToFloor() {
	c.kind = FLOOR
	c.color = NONE
}

func (c *Cell) String() string {
	if c.kind.Coloured() {
		return fmt.Sprintf("%d(%s %s)", c.id, c.color, c.kind)
	}
	return fmt.Sprintf("%d(%s)", c.id, c.kind)
}
