package commands

import (
	"github.com/spf13/cobra"

	"github.com/willowtrade/willow/internal/alert"
	"github.com/willowtrade/willow/internal/pipeline"
	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/internal/yahoo"
	"github.com/willowtrade/willow/pkg/config"
	"github.com/willowtrade/willow/pkg/logger"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "willow",
	Short: "Willow - credit spread screening and ranking",
	Long: `Willow scans options chains for high-probability credit spread
opportunities (bull puts and bear calls), ranks them by a composite
quality score, and delivers the results as console tables, CSV/Excel
exports, HTML dashboards and Slack alerts.

Usage:
  go run ./cmd/willow [command]

Examples:
  go run ./cmd/willow screen
  go run ./cmd/willow screen --symbols SPY,QQQ --min-ror 25 --excel
  go run ./cmd/willow serve
  go run ./cmd/willow schedule
  go run ./cmd/willow test-alerts`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the environment config and prepares data directories.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger, honoring --verbose.
func newLogger(cfg *config.Config) *logger.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logger.New(level, cfg.LogFormat)
}

// newRunner wires the Yahoo chain source into a screening runner.
func newRunner(cfg *config.Config, log *logger.Logger) *screener.Runner {
	source := yahoo.NewClient(cfg.Yahoo, cfg.CacheDir(), log)
	return screener.NewRunner(source, cfg.Screener, log)
}

// newPipeline wires the full screening pipeline.
func newPipeline(cfg *config.Config, log *logger.Logger) *pipeline.Pipeline {
	source := yahoo.NewClient(cfg.Yahoo, cfg.CacheDir(), log)
	runner := screener.NewRunner(source, cfg.Screener, log)
	notifier := alert.New(cfg.Alert, log)
	return pipeline.New(runner, source, notifier, cfg, log)
}
