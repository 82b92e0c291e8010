package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aleph-zero/mineescape/engine/mine"
	"github.com/stretchr/testify/require"
)

const data = "../../testdata/maps"

func TestParse_Corridor(t *testing.T) {
	m, err := Load(strings.NewReader("; start, gold, exit\n1 3\nS$E\n"))
	require.NoError(t, err)
	require.Equal(t, 1, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.Equal(t, 3, m.Len())

	start := m.Start()
	require.Equal(t, 0, start.ID())
	gold, ok := start.Neighbour(mine.EAST)
	require.True(t, ok)
	require.True(t, gold.IsGoldCell())
	exit, ok := gold.Neighbour(mine.EAST)
	require.True(t, ok)
	require.True(t, exit.IsExit())
	require.Equal(t, 2, exit.ID())
}

func TestParse_Symbols(t *testing.T) {
	src := `
2 6

S.#$~E
rgbRGB
`
	m, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 11, m.Len())

	tests := []struct {
		row, col int
		kind     mine.CellType
		color    mine.Color
	}{
		{0, 0, mine.START, mine.NONE},
		{0, 1, mine.FLOOR, mine.NONE},
		{0, 3, mine.GOLD, mine.NONE},
		{0, 4, mine.LAVA, mine.NONE},
		{0, 5, mine.EXIT, mine.NONE},
		{1, 0, mine.KEY, mine.RED},
		{1, 1, mine.KEY, mine.GREEN},
		{1, 2, mine.KEY, mine.BLUE},
		{1, 3, mine.LOCK, mine.RED},
		{1, 4, mine.LOCK, mine.GREEN},
		{1, 5, mine.LOCK, mine.BLUE},
	}
	for _, tt := range tests {
		c, ok := m.Cell(tt.row, tt.col)
		require.True(t, ok, "(%d,%d)", tt.row, tt.col)
		require.Equal(t, tt.kind, c.Type(), "(%d,%d)", tt.row, tt.col)
		require.Equal(t, tt.color, c.Color(), "(%d,%d)", tt.row, tt.col)
		require.Equal(t, tt.row*6+tt.col, c.ID())
	}

	_, ok := m.Cell(0, 2)
	require.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"missing header", "S.E\n"},
		{"missing cols", "1\nS.E\n"},
		{"short row", "1 3\nSE\n"},
		{"long row", "1 3\nS..E\n"},
		{"missing row", "2 3\nS.E\n"},
		{"extra row", "1 3\nS.E\n...\n"},
		{"integer in row", "1 3\nS1E\n"},
		{"zero rows", "0 3\n"},
		{"no start", "1 3\n..E\n"},
		{"two starts", "1 3\nSSE\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			require.Error(t, err)
		})
	}
}

func TestParse_ErrorKinds(t *testing.T) {
	_, err := Load(strings.NewReader("1 3\n..E\n"))
	require.ErrorIs(t, err, mine.Error{ErrorCode: mine.NoStart})

	_, err = Load(strings.NewReader("1 3\nSE\n"))
	var rowErr RowError
	require.True(t, errors.As(err, &rowErr))
	require.Equal(t, 0, rowErr.Row)
	require.Equal(t, 2, rowErr.Received)
	require.Equal(t, 3, rowErr.Expected)

	_, err = Load(strings.NewReader("x 3\n"))
	require.Error(t, err)
}

func TestParse_HeaderLargerThanInput(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		row      int
		expected int
		received int
	}{
		{"huge row count", "3000000000000 1\nS\n", 1, 1, 0},
		{"huge square", "5000 5000\nS\n", 0, 5000, 1},
		{"huge column count", "1 3000000000000\nS.E\n", 0, 3000000000000, 3},
		{"rows missing after blank lines", "3 2\nS.\n\n\n.E\n", 2, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			var rowErr RowError
			require.True(t, errors.As(err, &rowErr), "%v", err)
			require.Equal(t, tt.row, rowErr.Row)
			require.Equal(t, tt.expected, rowErr.Expected)
			require.Equal(t, tt.received, rowErr.Received)
		})
	}
}

func TestParse_InvalidDimensions(t *testing.T) {
	_, err := Load(strings.NewReader("3000000000 0\n"))
	require.ErrorIs(t, err, mine.Error{ErrorCode: mine.InvalidDimensions})
}

func TestLoadFile(t *testing.T) {
	m, err := LoadFile(filepath.Join(data, "corridor.map"))
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.map"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}
