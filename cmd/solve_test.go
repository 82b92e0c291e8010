package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/aleph-zero/mineescape/service/escape"
	"github.com/stretchr/testify/require"
)

const data = "../testdata/maps"

func TestSolve(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		out    string
		errOut string
	}{
		{"corridor", []string{filepath.Join(data, "corridor.map")}, "Path: 1 2 2G\n", ""},
		{"vault", []string{filepath.Join(data, "vault.map")}, "Path: 9 10 11 12 15 22 23 24 25 26 33 1G\n", ""},
		{"sealed", []string{filepath.Join(data, "sealed.map")}, "No solution found\n", ""},
		{"no arguments", nil, "", "Map file not given in the arguments."},
		{"too many arguments", []string{"a.map", "b.map"}, "", "Map file not given in the arguments."},
		{"missing file", []string{filepath.Join(data, "absent.map")}, "", "Error opening map file"},
		{"invalid map", []string{filepath.Join(data, "batch.txt")}, "", "Error loading map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			solve(context.Background(), &out, &errOut, tt.args, escape.NewConfig(), t.TempDir())
			require.Equal(t, tt.out, out.String())
			require.Contains(t, errOut.String(), tt.errOut)
		})
	}
}

func TestSolveRecordsRuns(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer

	solve(context.Background(), &out, &errOut, []string{filepath.Join(data, "corridor.map")}, escape.NewConfig(), dir)
	solve(context.Background(), &out, &errOut, []string{filepath.Join(data, "sealed.map")}, escape.NewConfig(), dir)
	solve(context.Background(), &out, &errOut, []string{filepath.Join(data, "vault.map")},
		escape.NewConfig(escape.WithRecord(false)), dir)
	require.Empty(t, errOut.String())

	out.Reset()
	listRuns(&out, &errOut, dir)
	require.Empty(t, errOut.String())
	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	require.Contains(t, string(lines[0]), "corridor.map")
	require.Contains(t, string(lines[0]), "Path: 1 2 2G")
	require.Contains(t, string(lines[1]), "sealed.map")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLevel("debug").String())
	require.Equal(t, "WARN", parseLevel("warn").String())
	require.Equal(t, "INFO", parseLevel("loud").String())
}
