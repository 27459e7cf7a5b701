package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platecheck/internal/result"
)

// fakeChecker maps raw input to a canned outcome and can cancel the run
// after a set number of checks to simulate an interrupt.
type fakeChecker struct {
	outcomes    map[string]result.Outcome
	checked     []string
	cancelAfter int
	cancel      context.CancelFunc
}

func (c *fakeChecker) Check(ctx context.Context, raw string) result.Outcome {
	c.checked = append(c.checked, raw)
	if c.cancel != nil && len(c.checked) == c.cancelAfter {
		c.cancel()
	}
	if o, ok := c.outcomes[raw]; ok {
		return o
	}
	return result.Outcome{Plate: raw, Status: result.StatusAvailable, Timestamp: time.Now()}
}

func fastBatch() Config {
	return Config{InterQueryDelayMs: -1}
}

func TestReadPlateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plates.txt")
	content := "ABC123\n#comment\n\n  DEF456  \n   # indented comment\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	plates, err := ReadPlateFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC123", "DEF456"}, plates)
}

func TestReadPlateFile_Missing(t *testing.T) {
	_, err := ReadPlateFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestRun_OrderPreserved(t *testing.T) {
	checker := &fakeChecker{}
	orch := NewOrchestrator(checker, fastBatch(), nil)

	b, err := orch.Run(context.Background(), []string{"ABC123", "DEF456", "GHI789"})
	require.NoError(t, err)
	require.Len(t, b.Outcomes, 3)
	assert.NotEmpty(t, b.RunID)

	var plates []string
	for _, o := range b.Outcomes {
		plates = append(plates, o.Plate)
	}
	assert.Equal(t, []string{"ABC123", "DEF456", "GHI789"}, plates)
}

func TestRun_PartialFailureContinues(t *testing.T) {
	checker := &fakeChecker{outcomes: map[string]result.Outcome{
		"BAD!": {Plate: "BAD!", Status: result.StatusError, Message: "invalid plate"},
	}}
	orch := NewOrchestrator(checker, fastBatch(), nil)

	b, err := orch.Run(context.Background(), []string{"ABC123", "BAD!", "DEF456"})
	require.NoError(t, err)
	require.Len(t, b.Outcomes, 3, "one failed query must not abort the batch")

	sum := b.Summarize()
	assert.Equal(t, 2, sum.Available)
	assert.Equal(t, 1, sum.Errors)
}

func TestRun_InterruptStopsBeforeNextPlate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	checker := &fakeChecker{cancelAfter: 2, cancel: cancel}
	orch := NewOrchestrator(checker, fastBatch(), nil)

	b, err := orch.Run(ctx, []string{"P1", "P2", "P3", "P4", "P5"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, checker.checked, 2, "no further plates after the interrupt")
	assert.Len(t, b.Outcomes, 2, "finalized outcomes survive the interrupt")
}

func TestRun_InterruptMidQueryDropsCutShortOutcome(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	checker := &fakeChecker{
		cancelAfter: 2,
		cancel:      cancel,
		outcomes: map[string]result.Outcome{
			"P2": {Plate: "P2", Status: result.StatusError, Message: "interrupted"},
		},
	}
	orch := NewOrchestrator(checker, fastBatch(), nil)

	b, err := orch.Run(ctx, []string{"P1", "P2", "P3"})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, b.Outcomes, 1, "the cut-short query is not data")
	assert.Equal(t, "P1", b.Outcomes[0].Plate)
}

func TestRun_ObserverSeesEveryOutcomeInOrder(t *testing.T) {
	checker := &fakeChecker{}
	orch := NewOrchestrator(checker, fastBatch(), nil)

	var seen []string
	var runIDs []string
	orch.OnOutcome(func(runID string, o result.Outcome) error {
		seen = append(seen, o.Plate)
		runIDs = append(runIDs, runID)
		return nil
	})

	b, err := orch.Run(context.Background(), []string{"ABC123", "DEF456"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC123", "DEF456"}, seen)
	for _, id := range runIDs {
		assert.Equal(t, b.RunID, id)
	}
}

func TestRun_ObserverErrorStopsRun(t *testing.T) {
	checker := &fakeChecker{}
	orch := NewOrchestrator(checker, fastBatch(), nil)

	boom := errors.New("disk full")
	orch.OnOutcome(func(string, result.Outcome) error { return boom })

	b, err := orch.Run(context.Background(), []string{"ABC123", "DEF456"})
	require.ErrorIs(t, err, boom)
	assert.Len(t, b.Outcomes, 1)
	assert.Len(t, checker.checked, 1)
}
