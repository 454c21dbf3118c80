package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Himanshusheo/Market-Lens/internal/config"
)

var version = "0.3.0"

var (
	configFile  string
	dataPath    string
	quickMode   bool
	verboseMode bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "marketlens",
	Short: "Market-Lens - multi-agent marketing report generator",
	Long: `Market-Lens turns a marketing dataset into an analytical report.
Specialist workers (data exploration, SQL analysis, ROI, budget, KPI,
market research) are orchestrated per section and their findings are
compiled into narrative prose by an LLM.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal-driven cancellation.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration and initializes logging before any command.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	loader := config.NewConfigLoader(config.NewConfigValidator())
	loaded, err := loader.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	// Flags win over file settings.
	if dataPath != "" {
		cfg.Data.Path = dataPath
	}
	if quickMode {
		cfg.Core.QuickMode = true
	}
	if verboseMode {
		cfg.Logging.Level = "debug"
	}

	logger = newLogger(cfg.Logging)
	slog.SetDefault(logger)
	return nil
}

func newLogger(lc config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "Path to CSV file or directory of CSV files")
	rootCmd.PersistentFlags().BoolVarP(&quickMode, "quick", "q", false, "Quick mode: faster model, tighter retry budget")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Verbose (debug) logging")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sectionCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(versionCmd)
}
