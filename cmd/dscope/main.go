package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deltascope/deltascope/internal/config"
	"github.com/deltascope/deltascope/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile  string
	verbose  bool
	logger   *logrus.Logger
	cfg      *config.Config
	closeLog func() error
)

func main() {
	defer func() {
		if closeLog != nil {
			closeLog()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dscope",
	Short: "DeltaScope - function-level change tracking for code review",
	Long: `DeltaScope tracks code changes at function granularity between two
states of a repository and turns them into a prioritized review plan:
which functions changed, how their complexity moved, and what to look
at first.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		closeLog, err = logging.Setup(logging.Config{
			Level:      level,
			OutputFile: cfg.Log.File,
			AddSource:  verbose,
		})
		if err != nil {
			logger.WithError(err).Warn("Failed to set up structured logging")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .deltascope/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`DeltaScope {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(uncommittedCmd)
}
