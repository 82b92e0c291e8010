package cmd

import (
	"github.com/aleph-zero/mineescape/server"
	"github.com/aleph-zero/mineescape/service/escape"
	"github.com/aleph-zero/mineescape/service/runstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run a mineescape server",
	Long:  "Run a mineescape server that solves maps posted to /escape and keeps their solve history",
	Run: func(cmd *cobra.Command, args []string) {
		config := server.NewConfig(
			server.WithAddress(viper.GetString("server.addr")),
			server.WithPort(viper.GetUint16("server.port")),
			server.WithLogLevel(parseLevel(viper.GetString("log.level"))),
			server.WithEscapeConfig(escapeConfig()),
			server.WithRunstoreConfig(runstore.NewConfig(
				runstore.WithDirectory(viper.GetString("runs.data-dir")))))
		server.Bootstrap(config)
	},
}

const (
	apiListenAddr = "0.0.0.0"
	apiListenPort = 1234
)

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.PersistentFlags().String("server.addr", apiListenAddr, "Address to bind to")
	serverCmd.PersistentFlags().Uint16("server.port", apiListenPort, "Port to listen on")

	viper.BindPFlag("server.addr", serverCmd.PersistentFlags().Lookup("server.addr"))
	viper.BindPFlag("server.port", serverCmd.PersistentFlags().Lookup("server.port"))
}

func escapeConfig() *escape.Config {
	return escape.NewConfig(
		escape.WithCountOnSelect(viper.GetBool("solve.count-on-select")),
		escape.WithRecord(viper.GetBool("solve.record")))
}
