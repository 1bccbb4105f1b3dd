package cmd

import (
	"os"

	"github.com/djcass44/go-utils/logging"
	"github.com/djcass44/rdb-diff/cmd/cache"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var command = &cobra.Command{
	Use:   "rdb-diff",
	Short: "compare the binary packages of ALT Linux branches",
	Long: `Compares the binary package lists that the ALT Linux repository database (RDB)
publishes for its branches.`,
	SilenceUsage:     true,
	PersistentPreRun: setup,
}

const (
	flagLogLevel = "v"
	flagNoColor  = "no-color"
)

func init() {
	command.PersistentFlags().Int(flagLogLevel, 0, "log level. Higher is more")
	command.PersistentFlags().Bool(flagNoColor, false, "disable coloured warnings")
	command.AddCommand(compareCmd, exportCmd, cache.Command)
}

// setup attaches the logger to the command context
// before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) {
	logLevel, _ := cmd.Flags().GetInt(flagLogLevel)
	if noColor, _ := cmd.Flags().GetBool(flagNoColor); noColor {
		color.NoColor = true
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(logLevel * -1))

	_, ctx := logging.NewZap(cmd.Context(), zc)
	cmd.SetContext(ctx)
}

func Execute(version string) {
	command.Version = version
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
