package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusExitCode(t *testing.T) {
	assert.Equal(t, 0, StatusAvailable.ExitCode())
	assert.Equal(t, 1, StatusUnavailable.ExitCode())
	assert.Equal(t, 2, StatusUnknown.ExitCode())
	assert.Equal(t, 2, StatusError.ExitCode())
}

func TestBatchSummarize(t *testing.T) {
	b := &Batch{}
	for _, s := range []Status{
		StatusAvailable, StatusUnavailable, StatusUnavailable,
		StatusUnknown, StatusError,
	} {
		b.Append(Outcome{Plate: "X", Status: s})
	}

	sum := b.Summarize()
	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 1, sum.Available)
	assert.Equal(t, 2, sum.Unavailable)
	assert.Equal(t, 1, sum.Unknown)
	assert.Equal(t, 1, sum.Errors)
}

func TestBatchAvailablePlates(t *testing.T) {
	b := &Batch{}
	b.Append(Outcome{Plate: "AAA111", Status: StatusAvailable})
	b.Append(Outcome{Plate: "BBB222", Status: StatusUnavailable})
	b.Append(Outcome{Plate: "CCC333", Status: StatusAvailable})

	assert.Equal(t, []string{"AAA111", "CCC333"}, b.AvailablePlates())
}
