// Command platecheck checks whether personalized vehicle plates are available
// for registration, by driving a headless browser session against the
// registration service's interactive query page.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"platecheck/internal/classify"
	"platecheck/internal/config"
	"platecheck/internal/query"
	"platecheck/internal/session"
)

const exitInterrupted = 130

var (
	// Global flags
	cfgFile       string
	verbose       bool
	flagHeadless  bool
	flagTimeout   time.Duration
	flagRetries   int
	flagDelay     time.Duration
	flagUserAgent string
	flagHistory   string

	// Logger
	logger *zap.Logger
)

// exitError carries a specific process exit code out of a RunE. The outcome
// has already been printed by the time this is returned, so it renders empty.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "platecheck",
	Short: "Check personalized plate availability on the EzyPlates service",
	Long: `platecheck automates the EzyPlates availability form through a headless
browser session: it normalizes a plate string, submits it, reads back the
response region, and classifies the text into available / unavailable /
unknown. Batch mode checks many plates sequentially with rate-limit pacing
and writes results to CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "path to YAML config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&flagHeadless, "headless", true, "run the browser without visible UI")
	pf.DurationVar(&flagTimeout, "timeout", 0, "max wait per page operation (e.g. 15s)")
	pf.IntVar(&flagRetries, "retries", 0, "max attempts per plate on transient failure")
	pf.DurationVar(&flagDelay, "delay", 0, "pause between batch queries (e.g. 2s)")
	pf.StringVar(&flagUserAgent, "user-agent", "", "override the browser user agent")
	pf.StringVar(&flagHistory, "history", "", "record outcomes to a SQLite journal at this path")
}

// loadConfig builds the effective configuration: file + env, then any flags
// the user set on this invocation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("headless") {
		cfg.Session.Headless = flagHeadless
	}
	if flags.Changed("timeout") {
		cfg.Session.TimeoutMs = int(flagTimeout / time.Millisecond)
	}
	if flags.Changed("retries") {
		cfg.Retry.MaxAttempts = flagRetries
	}
	if flags.Changed("delay") {
		cfg.Batch.InterQueryDelayMs = int(flagDelay / time.Millisecond)
		if cfg.Batch.InterQueryDelayMs == 0 {
			// Explicit zero means no pause, not "use the default".
			cfg.Batch.InterQueryDelayMs = -1
		}
	}
	if flags.Changed("user-agent") {
		cfg.Session.UserAgent = flagUserAgent
	}
	if flags.Changed("history") {
		cfg.History.Enabled = true
		cfg.History.Path = flagHistory
	}
	return cfg, nil
}

// newRunner wires the session driver, classifier, and retry policy.
func newRunner(cfg *config.Config) (*query.Runner, error) {
	rules, err := cfg.ClassifierRules()
	if err != nil {
		return nil, err
	}
	driver := session.NewDriver(cfg.Session, logger)
	return query.NewRunner(driver, classify.New(rules), cfg.Retry, logger), nil
}

// historyPath resolves where the outcome journal lives.
func historyPath(cfg *config.Config) (string, error) {
	path := cfg.History.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve history path: %w", err)
		}
		path = filepath.Join(home, ".platecheck", "history.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create history directory: %w", err)
	}
	return path, nil
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
