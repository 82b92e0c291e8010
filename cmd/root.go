package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mineescape",
	Short: "Find a way out of a mine",
	Long:  `MineEscape: search a mine map for a path to an exit, collecting gold and keys on the way`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

const (
	logLevel = "info"
	runsDir  = ".mineescape"
)

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.config/mineescape/mineescape.yaml)")
	rootCmd.PersistentFlags().String("log.level", logLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("runs.data-dir", runsDir, "Data directory for solve history")
	rootCmd.PersistentFlags().Bool("solve.record", true, "Record every solve in the solve history")
	rootCmd.PersistentFlags().Bool("solve.count-on-select", true, "Count gold and keys when a cell is selected as well as when it is entered")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log.level"))
	viper.BindPFlag("runs.data-dir", rootCmd.PersistentFlags().Lookup("runs.data-dir"))
	viper.BindPFlag("solve.record", rootCmd.PersistentFlags().Lookup("solve.record"))
	viper.BindPFlag("solve.count-on-select", rootCmd.PersistentFlags().Lookup("solve.count-on-select"))
}

// initConfig reads in a .env file, the config file and ENV variables if set.
func initConfig() {
	// a missing .env file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile) // use config file from the flag.
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config/mineescape"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("mineescape")
	}

	viper.SetEnvPrefix("MINEESCAPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		// it's ok if we don't have a config file, we can fall back to defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func initLogger() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(viper.GetString("log.level")),
	})))
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
