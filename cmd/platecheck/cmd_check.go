package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"platecheck/internal/config"
	"platecheck/internal/history"
	"platecheck/internal/report"
	"platecheck/internal/result"
)

// checkCmd runs a single plate through the query state machine. Exit code:
// 0 available, 1 unavailable, 2 unknown or error, 130 interrupted.
var checkCmd = &cobra.Command{
	Use:   "check [plate]",
	Short: "Check one plate for availability",
	Example: `  platecheck check EZYPLTE
  platecheck check "EZY PLTE" --timeout 20s --retries 5`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome := runner.Check(ctx, args[0])
	if ctx.Err() != nil {
		return &exitError{code: exitInterrupted}
	}

	report.PrintOutcome(os.Stdout, outcome)

	if cfg.History.Enabled {
		if err := recordOne(cfg, outcome); err != nil {
			logger.Warn("failed to record history", zap.Error(err))
		}
	}

	if code := outcome.Status.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func recordOne(cfg *config.Config, outcome result.Outcome) error {
	path, err := historyPath(cfg)
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(uuid.NewString(), outcome)
}
