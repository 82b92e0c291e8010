package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aleph-zero/mineescape/service/escape"
	"github.com/aleph-zero/mineescape/service/runstore"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var solveCmd = &cobra.Command{
	Use:   "solve <mapfile>",
	Short: "Find an escape path through a mine",
	Long:  "Load a mine map from a file and print the path to an exit along with the gold collected",
	Run: func(cmd *cobra.Command, args []string) {
		solve(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args,
			escapeConfig(), viper.GetString("runs.data-dir"))
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
}

// solve prints the escape path for the single map file in args. Usage and load errors are
// printed to errOut and are not treated as command failures.
func solve(ctx context.Context, out, errOut io.Writer, args []string, config *escape.Config, directory string) {
	red := color.New(color.FgRed)
	if len(args) != 1 {
		red.Fprintln(errOut, "Map file not given in the arguments.")
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	store := runstore.NewService(directory)
	if err := store.Open(); err != nil {
		red.Fprintf(errOut, "Error opening solve history: %s\n", err)
		return
	}

	svc, err := escape.NewService(config, store)
	if err != nil {
		red.Fprintf(errOut, "Error creating escape service: %s\n", err)
		return
	}

	f, err := os.Open(args[0])
	if err != nil {
		red.Fprintf(errOut, "Error opening map file: %s\n", err)
		return
	}
	defer f.Close()

	run, err := svc.Solve(ctx, filepath.Base(args[0]), f)
	if err != nil {
		red.Fprintf(errOut, "Error loading map: %s\n", err)
		return
	}
	fmt.Fprintln(out, run.Result)

	if config.Record {
		if err := store.Persist(); err != nil {
			red.Fprintf(errOut, "Error persisting solve history: %s\n", err)
		}
	}
}
