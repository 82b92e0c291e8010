package cmd

import (
	"fmt"
	"io"

	"github.com/aleph-zero/mineescape/service/runstore"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the solve history",
	Long:  "List every recorded solve, oldest first",
	Run: func(cmd *cobra.Command, args []string) {
		listRuns(cmd.OutOrStdout(), cmd.ErrOrStderr(), viper.GetString("runs.data-dir"))
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func listRuns(out, errOut io.Writer, directory string) {
	store := runstore.NewService(directory)
	if err := store.Open(); err != nil {
		color.New(color.FgRed).Fprintf(errOut, "Error opening solve history: %s\n", err)
		return
	}

	for _, run := range store.GetRuns() {
		fmt.Fprintf(out, "%s  %s  %-16s  %s\n", run.RunId, run.Started.Format("2006-01-02 15:04:05"), run.Map, run.Result)
	}
}
