package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"platecheck/internal/batch"
	"platecheck/internal/history"
	"platecheck/internal/report"
	"platecheck/internal/result"
)

var (
	batchFile   string
	batchOutput string
)

// batchCmd checks a list of plates sequentially. Individual query failures
// are data, not process failures: the run always completes with a summary
// unless interrupted or the output file cannot be written.
var batchCmd = &cobra.Command{
	Use:   "batch [plates...]",
	Short: "Check multiple plates and aggregate the results",
	Example: `  platecheck batch ABC123 DEF456 GHI789
  platecheck batch --file plates.txt
  platecheck batch --file plates.txt --output results.csv`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "newline-delimited plate list (# comments and blank lines skipped)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write results to this CSV file")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	plates := append([]string{}, args...)
	if batchFile != "" {
		fromFile, err := batch.ReadPlateFile(batchFile)
		if err != nil {
			return err
		}
		plates = append(plates, fromFile...)
	}
	if len(plates) == 0 {
		return fmt.Errorf("no plates to check: pass plates as arguments or use --file")
	}

	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	var csvw *report.CSVWriter
	if batchOutput != "" {
		csvw, err = report.NewCSVWriter(batchOutput)
		if err != nil {
			return err
		}
		defer func() {
			if err := csvw.Close(); err != nil {
				logger.Warn("failed to close output file", zap.Error(err))
			}
		}()
	}

	var store *history.Store
	if cfg.History.Enabled {
		path, err := historyPath(cfg)
		if err != nil {
			return err
		}
		store, err = history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	orch := batch.NewOrchestrator(runner, cfg.Batch, logger)
	orch.OnOutcome(func(runID string, o result.Outcome) error {
		if csvw != nil {
			if err := csvw.Append(o); err != nil {
				return err
			}
		}
		if store != nil {
			if err := store.Record(runID, o); err != nil {
				logger.Warn("failed to record history", zap.Error(err))
			}
		}
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, runErr := orch.Run(ctx, plates)

	if len(b.Outcomes) > 0 {
		report.PrintBatch(os.Stdout, b)
	}
	report.PrintSummary(os.Stdout, b)
	if batchOutput != "" {
		fmt.Printf("Results written to %s\n", batchOutput)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Batch interrupted; results above were finalized before the interrupt.")
			return &exitError{code: exitInterrupted}
		}
		return runErr
	}
	return nil
}
