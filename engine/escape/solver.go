package escape

import (
	"context"
	"errors"
	"fmt"

	"github.com/aleph-zero/mineescape/engine"
	"github.com/aleph-zero/mineescape/engine/mine"
	"github.com/aleph-zero/mineescape/telemetry"
	log "github.com/go-chi/httplog/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/maps"
)

var ErrNoStart = errors.New("mine has no start cell")

// Grid is the part of a mine the solver needs; everything else is reached through the
// start cell's neighbours.
type Grid interface {
	Start() *mine.Cell
}

type Option func(*Solver)

// WithSelectionCounting controls whether gold and keys are counted when a neighbour is
// selected as well as when the solver steps onto it. It is enabled by default, so every cell
// collected through selection is counted twice.
func WithSelectionCounting(enabled bool) Option {
	return func(s *Solver) {
		s.countOnSelect = enabled
	}
}

// Solver searches a mine depth first for a path from the start cell to an exit, collecting
// gold and keys on the way. A solver owns its counters and is meant for a single search.
type Solver struct {
	grid          Grid
	gold          int
	keys          map[mine.Color]int
	countOnSelect bool
}

func NewSolver(grid Grid, opts ...Option) *Solver {
	s := &Solver{
		grid:          grid,
		keys:          make(map[mine.Color]int, len(mine.Colors)),
		countOnSelect: true,
	}
	for _, c := range mine.Colors {
		s.keys[c] = 0
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) Gold() int {
	return s.gold
}

func (s *Solver) Keys(c mine.Color) int {
	return s.keys[c]
}

// FindEscapePath runs the search. A mine without an exit reachable from the start yields a
// Result with Found set to false, not an error.
func (s *Solver) FindEscapePath(ctx context.Context) (*Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "escape.FindEscapePath",
		trace.WithAttributes(attribute.String("runId", engine.RunIdFromContext(ctx))))
	defer span.End()
	logger := log.LogEntry(ctx)

	start := s.grid.Start()
	if start == nil {
		return nil, ErrNoStart
	}

	stack := engine.NewStack[*mine.Cell]()
	stack.Push(start)
	start.MarkInStack()

	result := &Result{Path: make([]int, 0)}
	result.Stats.Pushes = 1
	result.Stats.MaxDepth = 1

	for !stack.IsEmpty() {
		curr, err := stack.Peek()
		if err != nil {
			return nil, fmt.Errorf("inspecting search stack: %w", err)
		}
		if curr.IsExit() {
			break
		}

		s.checkHazards(curr)
		s.collect(curr)

		next := s.findNextCell(curr)
		if next == nil {
			curr.MarkOutStack()
			if _, err := stack.Pop(); err != nil {
				return nil, fmt.Errorf("backtracking from cell %d: %w", curr.ID(), err)
			}
			result.Stats.Backtracks++
			logger.Debug("Backtracking", "cell", curr.ID(), "depth", stack.Len())
			continue
		}

		result.Path = append(result.Path, next.ID())
		next.MarkInStack()
		stack.Push(next)
		result.Stats.Pushes++
		result.Stats.MaxDepth = max(result.Stats.MaxDepth, stack.Len())
		logger.Debug("Advancing", "from", curr.ID(), "to", next.ID(), "type", next.Type().String())
	}

	result.Found = !stack.IsEmpty()
	result.Gold = s.gold
	result.Keys = maps.Clone(s.keys)
	result.Stats.Capacity = stack.Cap()

	span.SetAttributes(
		attribute.Bool("found", result.Found),
		attribute.Int("path.length", len(result.Path)),
		attribute.Int("gold", result.Gold))
	logger.Info("Finished escape search", "found", result.Found, "gold", result.Gold,
		"pushes", result.Stats.Pushes, "backtracks", result.Stats.Backtracks)
	return result, nil
}

// checkHazards drops all gold carried so far when curr borders lava.
func (s *Solver) checkHazards(curr *mine.Cell) {
	for _, d := range mine.Directions {
		if n, ok := curr.Neighbour(d); ok && n.IsLava() {
			s.gold = 0
		}
	}
}

func (s *Solver) collect(curr *mine.Cell) {
	switch {
	case curr.IsGoldCell():
		s.gold++
		curr.ChangeToFloor()
	case curr.IsKeyCell():
		s.keys[curr.Color()]++
		curr.ChangeToFloor()
	}
}

// findNextCell picks the first unmarked neighbour of curr in priority order: an exit, then
// gold or a key, then floor, then a lock whose colour matches a held key. It returns nil
// when curr is a dead end.
func (s *Solver) findNextCell(curr *mine.Cell) *mine.Cell {
	if next := s.firstNeighbour(curr, (*mine.Cell).IsExit); next != nil {
		return next
	}

	if next := s.firstNeighbour(curr, isCollectible); next != nil {
		if s.countOnSelect {
			if next.IsGoldCell() {
				s.gold++
			}
			if next.IsKeyCell() {
				s.keys[next.Color()]++
			}
		}
		return next
	}

	if next := s.firstNeighbour(curr, (*mine.Cell).IsFloor); next != nil {
		return next
	}

	return s.firstNeighbour(curr, s.canUnlock)
}

func (s *Solver) firstNeighbour(curr *mine.Cell, eligible func(*mine.Cell) bool) *mine.Cell {
	for _, d := range mine.Directions {
		n, ok := curr.Neighbour(d)
		if ok && !n.IsMarked() && eligible(n) {
			return n
		}
	}
	return nil
}

func (s *Solver) canUnlock(c *mine.Cell) bool {
	return c.IsLockCell() && s.keys[c.Color()] > 0
}

func isCollectible(c *mine.Cell) bool {
	return c.IsGoldCell() || c.IsKeyCell()
}
