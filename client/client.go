package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aleph-zero/mineescape/api"
	"github.com/aleph-zero/mineescape/service/runstore"
	"github.com/aleph-zero/mineescape/telemetry"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName       = "mineescape-cli"
	serviceVersion    = "0.0.1"
	readlineConfigDir = ".config/mineescape"
)

type Config struct {
	RemoteAddr string
	RemotePort int
}

type Option func(*Config)

func NewConfig(options ...Option) *Config {
	cfg := &Config{}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func WithRemoteAddr(addr string) Option {
	return func(cfg *Config) {
		cfg.RemoteAddr = addr
	}
}

func WithRemotePort(port uint16) Option {
	return func(cfg *Config) {
		cfg.RemotePort = int(port)
	}
}

func (c *Config) baseURL() string {
	return fmt.Sprintf("http://%s:%d", c.RemoteAddr, c.RemotePort)
}

// Bootstrap runs an interactive prompt. Each line is either a map file to solve remotely,
// "runs" to list the server's solve history, or "run <id>" to show a single run.
func Bootstrap(config *Config) {
	ctx := context.Background()

	rl, err := setupReadline()
	if err != nil {
		slog.Error("Error setting up readline config", "error", err)
		return
	}
	defer rl.Close()

	shutdown, err := telemetry.New(serviceName, serviceVersion, telemetry.CollectorURL)
	if err != nil {
		slog.Error("Error initializing telemetry", "error", err)
		shutdown = func() {}
	}
	defer shutdown()

	remote := newRemote(config.baseURL())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := remote.dispatch(ctx, rl.Stdout(), line); err != nil {
			color.New(color.FgRed).Fprintf(rl.Stderr(), "%s\n", err)
		}
	}
}

type remote struct {
	client  http.Client
	baseURL string
}

func newRemote(baseURL string) *remote {
	return &remote{
		client: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   time.Second * 30,
		},
		baseURL: baseURL,
	}
}

func (r *remote) dispatch(ctx context.Context, w io.Writer, line string) error {
	fields := strings.Fields(line)
	switch {
	case fields[0] == "runs" && len(fields) == 1:
		runs, err := r.runs(ctx)
		if err != nil {
			return err
		}
		for _, run := range runs {
			printRun(w, run)
		}
		return nil
	case fields[0] == "run" && len(fields) == 2:
		run, err := r.run(ctx, fields[1])
		if err != nil {
			return err
		}
		printRun(w, run)
		return nil
	default:
		run, err := r.solveFile(ctx, line)
		if err != nil {
			return err
		}
		printRun(w, run)
		return nil
	}
}

func (r *remote) solveFile(ctx context.Context, path string) (*runstore.Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening map file: %w", err)
	}
	defer f.Close()
	return r.solve(ctx, filepath.Base(path), f)
}

func (r *remote) solve(ctx context.Context, name string, body io.Reader) (*runstore.Run, error) {
	tr := otel.Tracer(serviceName)
	traceCtx, span := tr.Start(ctx, "client.solve", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("map.name", name)))
	defer span.End()

	endpoint := fmt.Sprintf("%s/escape?name=%s", r.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(traceCtx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	run := &runstore.Run{}
	if err := r.do(req, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *remote) runs(ctx context.Context) ([]*runstore.Run, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/runs", nil)
	if err != nil {
		return nil, err
	}

	var runs []*runstore.Run
	if err := r.do(req, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *remote) run(ctx context.Context, id string) (*runstore.Run, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/runs/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	run := &runstore.Run{}
	if err := r.do(req, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *remote) do(req *http.Request, v any) error {
	res, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var errResponse api.ErrResponse
		if err := json.NewDecoder(res.Body).Decode(&errResponse); err != nil || errResponse.ErrorText == "" {
			return fmt.Errorf("request failed: %s", res.Status)
		}
		return fmt.Errorf("request failed: %s: %s", res.Status, errResponse.ErrorText)
	}
	return json.NewDecoder(res.Body).Decode(v)
}

func printRun(w io.Writer, run *runstore.Run) {
	c := color.New(color.FgRed)
	if run.Found {
		c = color.New(color.FgGreen)
	}
	fmt.Fprintf(w, "%s %s ", run.RunId, run.Map)
	c.Fprintln(w, run.Result)
}

func setupReadline() (rl *readline.Instance, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(home, readlineConfigDir)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		return nil, err
	}

	return readline.NewEx(&readline.Config{
		Prompt:            "\033[31mmineescape> \033[0m ",
		HistoryFile:       filepath.Join(dir, "mineescape.history"),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("runs"),
			readline.PcItem("run")),
	})
}
