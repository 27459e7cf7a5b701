// Package query drives one plate check end-to-end: normalize, acquire a
// session, submit, classify, retry on transient failure. Every check yields
// exactly one Outcome; no failure escapes as an error.
package query

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"platecheck/internal/classify"
	"platecheck/internal/plate"
	"platecheck/internal/result"
	"platecheck/internal/session"
)

// Driver is the scoped-session collaborator the state machine drives. The
// concrete implementation lives in internal/session; tests substitute fakes.
type Driver interface {
	Open(ctx context.Context) (*session.Session, error)
	Submit(ctx context.Context, s *session.Session, normalizedPlate string) (string, error)
	Close(s *session.Session)
}

// Config holds the retry policy. Everything is tunable, with defaults that
// keep a single query's wall-clock budget bounded.
type Config struct {
	MaxAttempts      int     `yaml:"max_attempts"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms"`
	BackoffFactor    float64 `yaml:"backoff_factor"`
	MaxBackoffMs     int     `yaml:"max_backoff_ms"`
	MaxPlateLength   int     `yaml:"max_plate_length"`
}

// DefaultConfig returns the default retry policy: 3 attempts, exponential
// backoff from 1s capped at 10s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:      3,
		InitialBackoffMs: 1000,
		BackoffFactor:    2.0,
		MaxBackoffMs:     10000,
		MaxPlateLength:   plate.MaxLength,
	}
}

func (c Config) maxAttempts() int {
	if c.MaxAttempts <= 0 {
		return 3
	}
	return c.MaxAttempts
}

// Backoff returns the delay before the given retry (attempt is 1-based; the
// delay precedes attempt+1).
func (c Config) Backoff(attempt int) time.Duration {
	initial := time.Duration(c.InitialBackoffMs) * time.Millisecond
	if initial <= 0 {
		initial = time.Second
	}
	factor := c.BackoffFactor
	if factor < 1 {
		factor = 2.0
	}
	max := time.Duration(c.MaxBackoffMs) * time.Millisecond
	if max <= 0 {
		max = 10 * time.Second
	}

	delay := initial
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * factor)
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}

// Query tracks one check in flight.
type Query struct {
	Raw      string
	Plate    string
	Attempts int
}

// Runner executes queries against a session driver.
type Runner struct {
	driver     Driver
	classifier *classify.Classifier
	cfg        Config
	logger     *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewRunner builds a runner. A nil classifier gets the default rules; a nil
// logger is replaced with a no-op logger.
func NewRunner(driver Driver, classifier *classify.Classifier, cfg Config, logger *zap.Logger) *Runner {
	if classifier == nil {
		classifier = classify.New(classify.DefaultRules())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		driver:     driver,
		classifier: classifier,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Check runs the full state machine for one raw plate string. It always
// returns a terminal Outcome: validation failures, session failures, and
// exhausted retries all surface as status error with a descriptive message.
func (r *Runner) Check(ctx context.Context, raw string) result.Outcome {
	q := Query{Raw: raw}

	normalized, err := plate.NormalizeMax(raw, r.cfg.MaxPlateLength)
	if err != nil {
		// A malformed plate will not become valid on retry.
		r.logger.Warn("plate rejected", zap.String("input", raw), zap.Error(err))
		return r.failed(&q, raw, err.Error())
	}
	q.Plate = normalized

	maxAttempts := r.cfg.maxAttempts()
	for {
		q.Attempts++

		if err := ctx.Err(); err != nil {
			return r.failed(&q, normalized, "interrupted before session acquisition")
		}

		outcome, retriable, err := r.attempt(ctx, &q)
		if err == nil {
			return outcome
		}

		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return r.failed(&q, normalized, "interrupted: "+err.Error())
		}
		if !retriable || q.Attempts >= maxAttempts {
			return r.failed(&q, normalized, err.Error())
		}

		delay := r.cfg.Backoff(q.Attempts)
		r.logger.Info("transient failure, retrying",
			zap.String("plate", normalized),
			zap.Int("attempt", q.Attempts),
			zap.Duration("backoff", delay),
			zap.Error(err))
		if err := sleepCtx(ctx, delay); err != nil {
			return r.failed(&q, normalized, "interrupted during retry backoff")
		}
	}
}

// attempt performs one session-acquire/submit/classify cycle. The session is
// released on every path out of this function.
func (r *Runner) attempt(ctx context.Context, q *Query) (result.Outcome, bool, error) {
	sess, err := r.driver.Open(ctx)
	if err != nil {
		var launch *session.LaunchError
		if errors.As(err, &launch) {
			// The environment cannot run sessions at all.
			return result.Outcome{}, false, err
		}
		return result.Outcome{}, false, err
	}
	defer r.driver.Close(sess)

	raw, err := r.driver.Submit(ctx, sess, q.Plate)
	if err != nil {
		var timeout *session.TimeoutError
		var missing *session.ElementNotFoundError
		retriable := errors.As(err, &timeout) || errors.As(err, &missing)
		return result.Outcome{}, retriable, err
	}

	status, message := r.classifier.Classify(raw)
	r.logger.Info("plate classified",
		zap.String("plate", q.Plate),
		zap.String("status", string(status)),
		zap.Int("attempts", q.Attempts))

	return result.Outcome{
		Plate:     q.Plate,
		Status:    status,
		Message:   message,
		Timestamp: r.now(),
		Attempts:  q.Attempts,
	}, false, nil
}

func (r *Runner) failed(q *Query, plateStr string, message string) result.Outcome {
	return result.Outcome{
		Plate:     plateStr,
		Status:    result.StatusError,
		Message:   message,
		Timestamp: r.now(),
		Attempts:  q.Attempts,
	}
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
