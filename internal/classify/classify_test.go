package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platecheck/internal/result"
)

func TestClassify_DefaultRules(t *testing.T) {
	c := New(DefaultRules())

	tests := []struct {
		name  string
		input string
		want  result.Status
	}{
		{"congratulations phrasing", "Congratulations! This plate can be yours.", result.StatusAvailable},
		{"available phrasing", "The plate EZYPLTE is available for registration", result.StatusAvailable},
		{"not available beats available", "Sorry, this combination is NOT available", result.StatusUnavailable},
		{"unavailable", "This plate is currently unavailable", result.StatusUnavailable},
		{"already taken", "That combination is already taken", result.StatusUnavailable},
		{"taken alone", "Plate taken", result.StatusUnavailable},
		{"unrecognized", "Please try again later", result.StatusUnknown},
		{"empty string", "", result.StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := c.Classify(tt.input)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestClassify_MessagePreservedVerbatim(t *testing.T) {
	c := New(DefaultRules())

	raw := "Some phrasing the rules have never seen: §§§"
	status, message := c.Classify(raw)
	require.Equal(t, result.StatusUnknown, status)
	assert.Equal(t, raw, message)

	status, message = c.Classify("  Congratulations! Available.  ")
	require.Equal(t, result.StatusAvailable, status)
	assert.Equal(t, "Congratulations! Available.", message, "message trimmed but otherwise verbatim")
}

func TestClassify_EmptyRuleListIsTotal(t *testing.T) {
	c := New(nil)
	status, message := c.Classify("anything at all")
	assert.Equal(t, result.StatusUnknown, status)
	assert.Equal(t, "anything at all", message)
}

func TestClassify_OrderMatters(t *testing.T) {
	// With the rule order reversed, "not available" would misclassify; the
	// default order must check negative phrasings first.
	c := New(DefaultRules())
	status, _ := c.Classify("not available")
	assert.Equal(t, result.StatusUnavailable, status)
}
