package escape

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aleph-zero/mineescape/engine/mine"
	"github.com/aleph-zero/mineescape/service/runstore"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const data = "../../testdata/maps"

func TestServiceProvider_Solve(t *testing.T) {
	tests := []struct {
		file     string
		expected string
		found    bool
	}{
		{"corridor.map", "Path: 1 2 2G", true},
		{"vault.map", "Path: 9 10 11 12 15 22 23 24 25 26 33 1G", true},
		{"sealed.map", "No solution found", false},
	}

	svc, store := setupSuite(t, NewConfig())
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			f, err := os.Open(filepath.Join(data, tt.file))
			require.NoError(t, err)
			defer f.Close()

			run, err := svc.Solve(context.Background(), tt.file, f)
			require.NoError(t, err)
			require.Equal(t, tt.expected, run.Result)
			require.Equal(t, tt.found, run.Found)
			require.Equal(t, tt.file, run.Map)
			require.NotEmpty(t, run.RunId)

			recorded, err := store.GetRun(run.RunId)
			require.NoError(t, err)
			require.Same(t, run, recorded)
		})
	}
	require.Len(t, store.GetRuns(), len(tests))
}

func TestServiceProvider_SolveOptions(t *testing.T) {
	svc, store := setupSuite(t, NewConfig(WithCountOnSelect(false), WithRecord(false)))

	run, err := svc.Solve(context.Background(), "inline", strings.NewReader("1 3\nS$E"))
	require.NoError(t, err)
	require.Equal(t, "Path: 1 2 1G", run.Result)
	require.Empty(t, store.GetRuns())
}

func TestServiceProvider_SolveInvalidMap(t *testing.T) {
	svc, store := setupSuite(t, NewConfig())

	tests := []struct {
		name string
		src  string
	}{
		{"missing header", "S.E"},
		{"short row", "2 3\nS.E\n.."},
		{"no start", "1 2\n.E"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Solve(context.Background(), tt.name, strings.NewReader(tt.src))
			require.ErrorIs(t, err, Error{ErrorCode: InvalidMap})
		})
	}

	_, err := svc.Solve(context.Background(), "no start", strings.NewReader("1 2\n.E"))
	require.ErrorIs(t, err, mine.Error{ErrorCode: mine.NoStart})
	require.Empty(t, store.GetRuns())
}

func TestServiceProvider_SolveMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	defer otel.SetMeterProvider(previous)

	svc, _ := setupSuite(t, NewConfig(WithRecord(false)))
	ctx := context.Background()
	for _, src := range []string{"1 3\nS$E", "1 4\nS..E", "1 3\nS#E"} {
		_, err := svc.Solve(ctx, "inline", strings.NewReader(src))
		require.NoError(t, err)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[bool]int64{}
	var lengths metricdata.HistogramDataPoint[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				require.Equal(t, "mineescape.solve.count", m.Name)
				for _, dp := range data.DataPoints {
					found, ok := dp.Attributes.Value("found")
					require.True(t, ok)
					counts[found.AsBool()] += dp.Value
				}
			case metricdata.Histogram[int64]:
				require.Equal(t, "mineescape.solve.path.length", m.Name)
				require.Len(t, data.DataPoints, 1)
				lengths = data.DataPoints[0]
			}
		}
	}

	require.Equal(t, map[bool]int64{true: 2, false: 1}, counts)
	require.Equal(t, uint64(3), lengths.Count)
	require.Equal(t, int64(2+3+0), lengths.Sum)
}

func setupSuite(tb testing.TB, config *Config) (Service, runstore.Service) {
	store := runstore.NewService("")
	if err := store.Open(); err != nil {
		tb.Fatal(err)
	}

	svc, err := NewService(config, store)
	if err != nil {
		tb.Fatal(err)
	}
	return svc, store
}
