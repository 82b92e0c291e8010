package runstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleph-zero/mineescape/engine/escape"
	"github.com/aleph-zero/mineescape/engine/mine"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const data = "../../testdata/runstore"

func TestServiceProvider_Open(t *testing.T) {
	teardown, _, store := setupSuite(t, data)
	defer teardown(t)

	expected := &Run{
		RunId:    "7d1f3c2e-5b8a-4f0e-9c61-2a4b8e6d0f13",
		Map:      "corridor.map",
		Started:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Duration: 41 * time.Microsecond,
		Found:    true,
		Gold:     2,
		Keys:     map[mine.Color]int{mine.RED: 0, mine.GREEN: 0, mine.BLUE: 0},
		Path:     []int{1, 2},
		Result:   "Path: 1 2 2G",
		Stats:    escape.Stats{Pushes: 3, MaxDepth: 3, Capacity: 10},
	}

	run, err := store.GetRun(expected.RunId)
	require.NoError(t, err)
	if diff := cmp.Diff(expected, run); diff != "" {
		t.Errorf("run does not match (-expected, +received):\n%s", diff)
	}

	runs := store.GetRuns()
	require.Len(t, runs, 2)
	require.Equal(t, "sealed.map", runs[0].Map)
	require.Equal(t, "corridor.map", runs[1].Map)
}

func TestServiceProvider_OpenMissingStore(t *testing.T) {
	store := NewService(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, store.Open())
	require.Empty(t, store.GetRuns())
}

func TestServiceProvider_RecordAndPersist(t *testing.T) {
	teardown, dir, store := setupSuite(t, data)
	defer teardown(t)

	started := time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC)
	run := NewRun("c4b1e2d9-7a5f-4e36-b0d8-93f2a1c6e57b", "vault.map", started,
		&escape.Result{Path: []int{9, 10, 11}, Gold: 1, Found: true,
			Keys:  map[mine.Color]int{mine.RED: 0, mine.GREEN: 0, mine.BLUE: 2},
			Stats: escape.Stats{Pushes: 4, MaxDepth: 4, Capacity: 10}})
	require.Equal(t, "Path: 9 10 11 1G", run.Result)

	require.NoError(t, store.Record(context.Background(), run))
	err := store.Record(context.Background(), run)
	require.ErrorIs(t, err, Error{ErrorCode: RunExists})

	require.NoError(t, store.Persist())

	// read the newly persisted runs into a new service
	store2 := NewService(dir)
	require.NoError(t, store2.Open())
	run2, err := store2.GetRun(run.RunId)
	require.NoError(t, err)
	if diff := cmp.Diff(run, run2); diff != "" {
		t.Errorf("run does not match (-expected, +received):\n%s", diff)
	}
	require.Len(t, store2.GetRuns(), 3)
	require.Equal(t, run.RunId, store2.GetRuns()[2].RunId)
}

func TestServiceProvider_OpenInvalidKeyColor(t *testing.T) {
	dir := t.TempDir()
	data := `{"runs": {"r1": {"run": "r1", "keys": {"PURPLE": 1}}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, storeFile), []byte(data), 0644))

	err := NewService(dir).Open()
	require.ErrorContains(t, err, "invalid color: PURPLE")
}

func TestServiceProvider_InMemory(t *testing.T) {
	store := NewService("")
	require.NoError(t, store.Open())

	run := NewRun("r1", "corridor.map", time.Now(), &escape.Result{Path: []int{}})
	require.NoError(t, store.Record(context.Background(), run))
	require.NoError(t, store.Persist())

	_, err := store.GetRun("r2")
	require.ErrorIs(t, err, Error{ErrorCode: NoSuchRun})
	require.Len(t, store.GetRuns(), 1)
}

func setupSuite(tb testing.TB, testdata string) (func(tb testing.TB), string, Service) {
	dir, err := createTempStore(filepath.Join(testdata, storeFile))
	if err != nil {
		tb.Fatal(err)
	}

	store := NewService(dir)
	if err := store.Open(); err != nil {
		tb.Fatal(err)
	}
	return func(tb testing.TB) { os.RemoveAll(dir) }, dir, store
}

func createTempStore(srcFile string) (string, error) {
	tempDir, err := os.MkdirTemp("", "runstore-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	src, err := os.Open(srcFile)
	if err != nil {
		os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(filepath.Join(tempDir, storeFile))
	if err != nil {
		os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dest.Close()

	if _, err = io.Copy(dest, src); err != nil {
		os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to copy data: %w", err)
	}
	return tempDir, nil
}
