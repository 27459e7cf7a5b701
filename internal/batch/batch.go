// Package batch sequences many plate checks against the rate-limited remote
// service: one query at a time, a configurable pause between queries, and
// partial-failure semantics so one bad input never aborts the run.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"platecheck/internal/result"
)

// Checker runs a single plate check to completion. Satisfied by query.Runner.
type Checker interface {
	Check(ctx context.Context, raw string) result.Outcome
}

// Config holds batch pacing.
type Config struct {
	// InterQueryDelayMs is the pause between consecutive checks, to respect
	// the service's rate limits. Sequential execution is deliberate; this
	// delay is the only concurrency tunable.
	InterQueryDelayMs int `yaml:"inter_query_delay_ms"`
}

// DefaultConfig returns the default pacing (2s between queries).
func DefaultConfig() Config {
	return Config{InterQueryDelayMs: 2000}
}

func (c Config) delay() time.Duration {
	if c.InterQueryDelayMs < 0 {
		return 0
	}
	if c.InterQueryDelayMs == 0 {
		return 2 * time.Second
	}
	return time.Duration(c.InterQueryDelayMs) * time.Millisecond
}

// Orchestrator runs an ordered plate list through a Checker.
type Orchestrator struct {
	checker Checker
	cfg     Config
	logger  *zap.Logger

	// onOutcome, when set, observes each outcome as it is finalized. Used for
	// incremental CSV/history writes so interrupted runs keep finished rows.
	onOutcome func(runID string, o result.Outcome) error
}

// NewOrchestrator builds an orchestrator. A nil logger is replaced with a
// no-op logger.
func NewOrchestrator(checker Checker, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{checker: checker, cfg: cfg, logger: logger}
}

// OnOutcome registers an observer called once per finalized outcome, in input
// order. An observer error stops the run (e.g. the output file went away).
func (o *Orchestrator) OnOutcome(fn func(runID string, o result.Outcome) error) {
	o.onOutcome = fn
}

// Run checks every plate in order and returns the batch, interrupted or not.
// The returned error is non-nil only for interruption (ctx.Err()) or an
// observer failure; individual query failures are recorded as outcomes, not
// returned. Already-finalized outcomes are always present in the batch.
func (o *Orchestrator) Run(ctx context.Context, plates []string) (*result.Batch, error) {
	b := &result.Batch{RunID: uuid.NewString()}

	o.logger.Info("batch started",
		zap.String("run_id", b.RunID),
		zap.Int("plates", len(plates)))

	for i, raw := range plates {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("batch interrupted",
				zap.String("run_id", b.RunID),
				zap.Int("completed", len(b.Outcomes)))
			return b, err
		}

		o.logger.Info("checking plate",
			zap.String("run_id", b.RunID),
			zap.Int("index", i+1),
			zap.Int("total", len(plates)),
			zap.String("input", raw))

		outcome := o.checker.Check(ctx, raw)

		// A query cut short by cancellation surfaces as an error outcome;
		// that is not data. A real classification that merely raced the
		// interrupt is finalized and kept.
		if ctx.Err() != nil && outcome.Status == result.StatusError {
			o.logger.Warn("batch interrupted mid-query",
				zap.String("run_id", b.RunID),
				zap.Int("completed", len(b.Outcomes)))
			return b, ctx.Err()
		}

		b.Append(outcome)
		if o.onOutcome != nil {
			if err := o.onOutcome(b.RunID, outcome); err != nil {
				return b, err
			}
		}
		if err := ctx.Err(); err != nil {
			o.logger.Warn("batch interrupted",
				zap.String("run_id", b.RunID),
				zap.Int("completed", len(b.Outcomes)))
			return b, err
		}

		if i < len(plates)-1 {
			if err := sleepCtx(ctx, o.cfg.delay()); err != nil {
				return b, err
			}
		}
	}

	summary := b.Summarize()
	o.logger.Info("batch complete",
		zap.String("run_id", b.RunID),
		zap.Int("total", summary.Total),
		zap.Int("available", summary.Available),
		zap.Int("unavailable", summary.Unavailable),
		zap.Int("unknown", summary.Unknown),
		zap.Int("errors", summary.Errors))
	return b, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
