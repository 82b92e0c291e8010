package runstore

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/aleph-zero/mineescape/engine/escape"
	"github.com/aleph-zero/mineescape/engine/mine"
	log "github.com/go-chi/httplog/v2"
	"golang.org/x/exp/maps"
)

const storeFile = "runs.json"

type Service interface {
	Open() error
	Persist() error
	Record(ctx context.Context, run *Run) error
	GetRun(id string) (*Run, error)
	GetRuns() []*Run
}

type ServiceProvider struct {
	filestore *filestore
}

// NewService returns a run store backed by directory. An empty directory keeps runs in
// memory only.
func NewService(directory string) Service {
	return &ServiceProvider{
		filestore: newFileStore(directory),
	}
}

type filestore struct {
	lock      sync.RWMutex
	directory string
	Runs      map[string]*Run `json:"runs"`
}

func newFileStore(directory string) *filestore {
	return &filestore{
		directory: directory,
		Runs:      make(map[string]*Run),
	}
}

func (s *ServiceProvider) Open() error {
	s.filestore.lock.Lock()
	defer s.filestore.lock.Unlock()

	if s.filestore.directory == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(s.filestore.directory, storeFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening filestore: %w", err)
	}

	err = json.Unmarshal(data, s.filestore)
	if err != nil {
		return fmt.Errorf("unmarshalling filestore: %w", err)
	}
	if s.filestore.Runs == nil {
		s.filestore.Runs = make(map[string]*Run)
	}
	return nil
}

func (s *ServiceProvider) Persist() error {
	s.filestore.lock.RLock()
	defer s.filestore.lock.RUnlock()

	if s.filestore.directory == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.filestore, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling filestore: %w", err)
	}

	if err = os.MkdirAll(s.filestore.directory, 0750); err != nil {
		return fmt.Errorf("creating filestore directory: %w", err)
	}
	if err = os.WriteFile(filepath.Join(s.filestore.directory, storeFile), data, 0644); err != nil {
		return fmt.Errorf("persisting filestore: %w", err)
	}
	return nil
}

func (s *ServiceProvider) Record(ctx context.Context, run *Run) error {
	s.filestore.lock.Lock()
	defer s.filestore.lock.Unlock()

	if _, ok := s.filestore.Runs[run.RunId]; ok {
		log.LogEntry(ctx).Error("Run already exists", "runId", run.RunId)
		return Error{
			ErrorCode: RunExists,
			Message:   fmt.Sprintf("run %s already exists", run.RunId),
		}
	}

	s.filestore.Runs[run.RunId] = run
	return nil
}

func (s *ServiceProvider) GetRun(id string) (*Run, error) {
	s.filestore.lock.RLock()
	defer s.filestore.lock.RUnlock()

	run, ok := s.filestore.Runs[id]
	if !ok {
		return nil, Error{
			ErrorCode: NoSuchRun,
			Message:   fmt.Sprintf("run %s does not exist", id),
		}
	}
	return run, nil
}

// GetRuns returns every recorded run, oldest first.
func (s *ServiceProvider) GetRuns() []*Run {
	s.filestore.lock.RLock()
	defer s.filestore.lock.RUnlock()

	runs := maps.Values(s.filestore.Runs)
	slices.SortFunc(runs, func(a, b *Run) int {
		if c := a.Started.Compare(b.Started); c != 0 {
			return c
		}
		return cmp.Compare(a.RunId, b.RunId)
	})
	return runs
}

type Run struct {
	RunId    string             `json:"run"`
	Map      string             `json:"map"`
	Started  time.Time          `json:"started"`
	Duration time.Duration      `json:"duration"`
	Found    bool               `json:"found"`
	Gold     int                `json:"gold"`
	Keys     map[mine.Color]int `json:"keys"`
	Path     []int              `json:"path"`
	Result   string             `json:"result"`
	Stats    escape.Stats       `json:"stats"`
}

func NewRun(id, mapName string, started time.Time, result *escape.Result) *Run {
	return &Run{
		RunId:    id,
		Map:      mapName,
		Started:  started,
		Duration: time.Since(started),
		Found:    result.Found,
		Gold:     result.Gold,
		Keys:     result.Keys,
		Path:     result.Path,
		Result:   result.String(),
		Stats:    result.Stats,
	}
}

/* *** Runstore Config *** */

type Config struct {
	Directory string
}

type Option func(*Config)

func NewConfig(options ...Option) *Config {
	cfg := &Config{}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func WithDirectory(directory string) Option {
	return func(config *Config) {
		config.Directory = directory
	}
}

/* *** Errors *** */

type ErrorCode int

const (
	_ ErrorCode = iota
	RunExists
	NoSuchRun
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
