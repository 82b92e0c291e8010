package escape

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aleph-zero/mineescape/engine"
	search "github.com/aleph-zero/mineescape/engine/escape"
	"github.com/aleph-zero/mineescape/engine/parser"
	"github.com/aleph-zero/mineescape/service/runstore"
	"github.com/aleph-zero/mineescape/telemetry"
	log "github.com/go-chi/httplog/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Service interface {
	Solve(ctx context.Context, name string, r io.Reader) (*runstore.Run, error)
}

type ServiceProvider struct {
	config     *Config
	runSvc     runstore.Service
	solveCount metric.Int64Counter
	pathLength metric.Int64Histogram
}

func NewService(config *Config, runSvc runstore.Service) (Service, error) {
	meter := telemetry.Meter()
	solveCount, err := meter.Int64Counter("mineescape.solve.count",
		metric.WithDescription("Number of escape searches run"))
	if err != nil {
		return nil, fmt.Errorf("creating solve counter: %w", err)
	}
	pathLength, err := meter.Int64Histogram("mineescape.solve.path.length",
		metric.WithDescription("Number of cells stepped onto during an escape search"))
	if err != nil {
		return nil, fmt.Errorf("creating path length histogram: %w", err)
	}

	return &ServiceProvider{
		config:     config,
		runSvc:     runSvc,
		solveCount: solveCount,
		pathLength: pathLength,
	}, nil
}

// Solve loads the map read from r, searches it for an escape path and, when recording is
// enabled, stores the outcome as a run under a fresh run ID.
func (sp *ServiceProvider) Solve(ctx context.Context, name string, r io.Reader) (*runstore.Run, error) {
	started := time.Now()
	runId := engine.NewRunId()
	ctx = engine.WithRunId(ctx, runId)

	ctx, span := telemetry.StartSpan(ctx, "escape.Solve", trace.WithAttributes(
		attribute.String("runId", runId),
		attribute.String("map.name", name)))
	defer span.End()

	m, err := parser.Load(r)
	if err != nil {
		log.LogEntry(ctx).Error("Error loading map", "map", name, "runId", runId, "error", err)
		return nil, Error{
			ErrorCode: InvalidMap,
			Message:   fmt.Sprintf("invalid map %s: %v", name, err),
			Err:       err,
		}
	}

	solver := search.NewSolver(m, search.WithSelectionCounting(sp.config.CountOnSelect))
	result, err := solver.FindEscapePath(ctx)
	if err != nil {
		log.LogEntry(ctx).Error("Error searching map", "map", name, "runId", runId, "error", err)
		return nil, err
	}

	sp.solveCount.Add(ctx, 1, metric.WithAttributes(attribute.Bool("found", result.Found)))
	sp.pathLength.Record(ctx, int64(len(result.Path)))

	run := runstore.NewRun(runId, name, started, result)
	if sp.config.Record {
		if err := sp.runSvc.Record(ctx, run); err != nil {
			return nil, err
		}
	}

	log.LogEntry(ctx).Info("Solved map", "map", name, "runId", runId,
		"result", run.Result, "duration", run.Duration)
	return run, nil
}

/* *** Escape Config *** */

type Config struct {
	CountOnSelect bool
	Record        bool
}

type Option func(*Config)

func NewConfig(options ...Option) *Config {
	cfg := &Config{CountOnSelect: true, Record: true}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func WithCountOnSelect(countOnSelect bool) Option {
	return func(c *Config) {
		c.CountOnSelect = countOnSelect
	}
}

func WithRecord(record bool) Option {
	return func(c *Config) {
		c.Record = record
	}
}

/* *** Errors *** */

type ErrorCode int

const (
	_ ErrorCode = iota
	InvalidMap
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
