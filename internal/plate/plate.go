// Package plate validates and canonicalizes raw plate strings before they are
// submitted to the registration service.
package plate

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxLength is the longest plate the service's input field accepts.
const MaxLength = 7

// ValidationError reports a raw input that cannot become a submittable plate.
// Validation failures are never retried.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid plate %q: %s", e.Input, e.Reason)
}

// Normalize strips all whitespace from raw and upper-cases the remainder.
// The result contains only [A-Z0-9] and is at most MaxLength characters, or a
// *ValidationError is returned. Normalize is pure and idempotent.
func Normalize(raw string) (string, error) {
	return NormalizeMax(raw, MaxLength)
}

// NormalizeMax is Normalize with a caller-supplied length limit, for deployments
// where the remote input field accepts a different maximum.
func NormalizeMax(raw string, max int) (string, error) {
	if max <= 0 {
		max = MaxLength
	}
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	normalized := b.String()

	if normalized == "" {
		return "", &ValidationError{Input: raw, Reason: "plate is empty"}
	}
	if len(normalized) > max {
		return "", &ValidationError{
			Input:  raw,
			Reason: fmt.Sprintf("plate exceeds %d characters", max),
		}
	}
	for _, r := range normalized {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", &ValidationError{
				Input:  raw,
				Reason: fmt.Sprintf("character %q is not a letter or digit", r),
			}
		}
	}
	return normalized, nil
}
