package mine

import "fmt"

// Mine is a rectangular grid of optional cells. Cells are placed one at a time and then
// linked to their neighbours with Link before the mine is searched.
type Mine struct {
	rows  int
	cols  int
	cells [][]*Cell
	start *Cell
	count int
}

func New(rows, cols int) (*Mine, error) {
	if rows <= 0 || cols <= 0 {
		return nil, Error{
			ErrorCode: InvalidDimensions,
			Message:   fmt.Sprintf("invalid mine dimensions %dx%d", rows, cols),
		}
	}

	cells := make([][]*Cell, rows)
	for i := range cells {
		cells[i] = make([]*Cell, cols)
	}
	return &Mine{rows: rows, cols: cols, cells: cells}, nil
}

func (m *Mine) Rows() int {
	return m.rows
}

func (m *Mine) Cols() int {
	return m.cols
}

// Len returns the number of placed cells.
func (m *Mine) Len() int {
	return m.count
}

func (m *Mine) Start() *Cell {
	return m.start
}

func (m *Mine) Cell(row, col int) (*Cell, bool) {
	if !m.inBounds(row, col) {
		return nil, false
	}
	c := m.cells[row][col]
	return c, c != nil
}

// Place adds a cell of the given type at (row, col). The cell ID is its row-major index.
func (m *Mine) Place(row, col int, kind CellType, color Color) (*Cell, error) {
	if !m.inBounds(row, col) {
		return nil, Error{
			ErrorCode: OutOfBounds,
			Message:   fmt.Sprintf("cell (%d,%d) is outside a %dx%d mine", row, col, m.rows, m.cols),
		}
	}
	if m.cells[row][col] != nil {
		return nil, Error{
			ErrorCode: DuplicateCell,
			Message:   fmt.Sprintf("cell (%d,%d) is already placed", row, col),
		}
	}
	if kind.Coloured() != (color != NONE) {
		return nil, Error{
			ErrorCode: InvalidColor,
			Message:   fmt.Sprintf("cell (%d,%d) of type %s cannot have color %s", row, col, kind, color),
		}
	}

	c := newCell(row*m.cols+col, row, col, kind, color)
	m.cells[row][col] = c
	m.count++
	return c, nil
}

// forward are the directions Link walks; each link also sets the reverse slot.
var forward = [...]Direction{EAST, SOUTH}

// Link wires every placed cell to its orthogonal neighbours and locates the unique start cell.
func (m *Mine) Link() error {
	m.start = nil
	var starts int
	for row := range m.cells {
		for col, c := range m.cells[row] {
			if c == nil {
				continue
			}
			for _, d := range forward {
				dr, dc := d.Offset()
				if n, ok := m.Cell(row+dr, col+dc); ok {
					c.neighbours[d] = n
					n.neighbours[d.Opposite()] = c
				}
			}
			if c.IsStart() {
				starts++
				if m.start == nil {
					m.start = c
				}
			}
		}
	}

	switch {
	case starts == 0:
		return Error{ErrorCode: NoStart, Message: "mine has no start cell"}
	case starts > 1:
		m.start = nil
		return Error{ErrorCode: MultipleStarts, Message: fmt.Sprintf("mine has %d start cells", starts)}
	}
	return nil
}

// Reset clears the marks left behind by a search.
func (m *Mine) Reset() {
	for row := range m.cells {
		for _, c := range m.cells[row] {
			if c != nil {
				c.unmark()
			}
		}
	}
}

// Cells returns the placed cells in row-major order.
func (m *Mine) Cells() []*Cell {
	cells := make([]*Cell, 0, m.count)
	for row := range m.cells {
		for _, c := range m.cells[row] {
			if c != nil {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

func (m *Mine) inBounds(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

/* *** Errors *** */

type ErrorCode int

const (
	_ ErrorCode = iota
	InvalidDimensions
	OutOfBounds
	DuplicateCell
	InvalidColor
	NoStart
	MultipleStarts
)

type Error struct {
	ErrorCode ErrorCode
	Message   string
	Err       error
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Is(target error) bool {
	if other, ok := target.(Error); ok {
		ignoreErrorCode := other.ErrorCode == 0
		ignoreMessage := other.Message == ""
		matchErrorCode := other.ErrorCode == e.ErrorCode
		matchMessage := other.Message == e.Message

		return matchMessage && matchErrorCode || matchMessage && ignoreErrorCode || ignoreMessage && matchErrorCode
	}
	return false
}
