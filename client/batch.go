package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleph-zero/mineescape/telemetry"
	"github.com/fatih/color"
)

type BatchConfig struct {
	ClientConfig *Config
	Filename     string
}

type BatchOption func(*BatchConfig)

func NewBatchConfig(options ...BatchOption) *BatchConfig {
	cfg := &BatchConfig{}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func WithFilename(filename string) BatchOption {
	return func(cfg *BatchConfig) {
		cfg.Filename = filename
	}
}

func WithClientConfig(clientConfig *Config) BatchOption {
	return func(cfg *BatchConfig) {
		cfg.ClientConfig = clientConfig
	}
}

// BatchSummary counts the outcome of every map listed in a batch file.
type BatchSummary struct {
	Solved   int
	Unsolved int
	Failed   int
}

func BootstrapBatch(config *BatchConfig) {
	ctx := context.Background()
	shutdown, err := telemetry.New(serviceName, serviceVersion, telemetry.CollectorURL)
	if err != nil {
		shutdown = func() {}
	}
	defer shutdown()

	file, err := os.Open(config.Filename)
	if err != nil {
		color.New(color.FgRed).Printf("Error opening batch file '%s': %s\n", config.Filename, err)
		return
	}
	defer file.Close()

	summary := solveBatch(ctx, newRemote(config.ClientConfig.baseURL()), os.Stdout,
		filepath.Dir(config.Filename), file)
	fmt.Printf("Solved: %d, unsolved: %d, failed: %d\n", summary.Solved, summary.Unsolved, summary.Failed)
}

// solveBatch submits every map file listed in list, one path per line. Relative paths are
// resolved against dir; blank lines and lines starting with ';' are skipped.
func solveBatch(ctx context.Context, r *remote, w io.Writer, dir string, list io.Reader) BatchSummary {
	var summary BatchSummary
	scanner := bufio.NewScanner(list)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		path := line
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		run, err := r.solveFile(ctx, path)
		if err != nil {
			color.New(color.FgRed).Fprintf(w, "Error solving %s: %s\n", line, err)
			summary.Failed++
			continue
		}
		printRun(w, run)
		if run.Found {
			summary.Solved++
		} else {
			summary.Unsolved++
		}
	}

	if err := scanner.Err(); err != nil {
		color.New(color.FgRed).Fprintf(w, "Error scanning batch file: %s\n", err)
	}
	return summary
}
