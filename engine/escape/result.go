package escape

import (
	"strconv"
	"strings"

	"github.com/aleph-zero/mineescape/engine/mine"
)

const noSolution = "No solution found"

type Result struct {
	Path  []int              `json:"path"`
	Gold  int                `json:"gold"`
	Keys  map[mine.Color]int `json:"keys"`
	Found bool               `json:"found"`
	Stats Stats              `json:"stats"`
}

// Stats describes the work a search did. Pushes includes the start cell.
type Stats struct {
	Pushes     int `json:"pushes"`
	Backtracks int `json:"backtracks"`
	MaxDepth   int `json:"max_depth"`
	Capacity   int `json:"capacity"`
}

// String renders "Path: <id> <id> ... <gold>G" for a found path, otherwise "No solution found".
// The path lists every cell stepped onto, including cells later abandoned by backtracking.
func (r *Result) String() string {
	if !r.Found {
		return noSolution
	}

	var sb strings.Builder
	sb.WriteString("Path: ")
	for _, id := range r.Path {
		sb.WriteString(strconv.Itoa(id))
		sb.WriteByte(' ')
	}
	sb.WriteString(strconv.Itoa(r.Gold))
	sb.WriteByte('G')
	return sb.String()
}
