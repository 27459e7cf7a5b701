// Package classify maps raw response text from the registration service to an
// availability status. Rules are an ordered, declarative list so new response
// phrasings can be added without touching control flow.
package classify

import (
	"regexp"
	"strings"

	"platecheck/internal/result"
)

// Rule pairs a response pattern with the status it implies. Rules are applied
// in order; the first match wins.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Status  result.Status
}

// Classifier applies an ordered rule list to response text. Classification is
// total: any input yields exactly one status, and the raw text is always
// preserved in the returned message for audit.
type Classifier struct {
	rules []Rule
}

// DefaultRules mirrors the phrasings the service is known to use. Negative
// phrasings come first because "not available" contains "available".
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "taken",
			Pattern: regexp.MustCompile(`(?i)not\s+available|unavailable|already\s+taken|\btaken\b`),
			Status:  result.StatusUnavailable,
		},
		{
			Name:    "registrable",
			Pattern: regexp.MustCompile(`(?i)congratulations|\bavailable\b`),
			Status:  result.StatusAvailable,
		},
	}
}

// New builds a classifier from an ordered rule list. An empty list classifies
// everything as unknown.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Rules returns the active rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify returns the status implied by raw and the message to surface. The
// message is the trimmed response verbatim; when no rule matches the status is
// unknown and callers can inspect the literal text.
func (c *Classifier) Classify(raw string) (result.Status, string) {
	message := strings.TrimSpace(raw)
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(message) {
			return rule.Status, message
		}
	}
	return result.StatusUnknown, message
}
