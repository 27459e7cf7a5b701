// Package result defines the outcome model shared by the query state machine,
// the batch orchestrator, and the report writers.
package result

import "time"

// Status is the terminal classification of one plate check. Values are the
// lower-case strings the CSV contract requires.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusUnknown     Status = "unknown"
	StatusError       Status = "error"
)

// ExitCode maps a status to the single-query process exit code.
func (s Status) ExitCode() int {
	switch s {
	case StatusAvailable:
		return 0
	case StatusUnavailable:
		return 1
	default:
		return 2
	}
}

// Outcome is the terminal result of checking one plate. Produced exactly once
// per query; immutable afterward.
type Outcome struct {
	Plate     string    `json:"plate"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Attempts  int       `json:"attempts"`
}

// Summary holds per-status counts over a batch.
type Summary struct {
	Total       int
	Available   int
	Unavailable int
	Unknown     int
	Errors      int
}

// Batch is an ordered collection of outcomes, input order preserved.
type Batch struct {
	RunID    string
	Outcomes []Outcome
}

// Append records an outcome at the end of the batch.
func (b *Batch) Append(o Outcome) {
	b.Outcomes = append(b.Outcomes, o)
}

// Summarize derives per-status counts from the recorded outcomes.
func (b *Batch) Summarize() Summary {
	s := Summary{Total: len(b.Outcomes)}
	for _, o := range b.Outcomes {
		switch o.Status {
		case StatusAvailable:
			s.Available++
		case StatusUnavailable:
			s.Unavailable++
		case StatusUnknown:
			s.Unknown++
		default:
			s.Errors++
		}
	}
	return s
}

// AvailablePlates returns the plates that classified as available, in input order.
func (b *Batch) AvailablePlates() []string {
	var plates []string
	for _, o := range b.Outcomes {
		if o.Status == StatusAvailable {
			plates = append(plates, o.Plate)
		}
	}
	return plates
}
