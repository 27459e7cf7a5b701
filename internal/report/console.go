// Package report renders outcomes and batch summaries: human-readable console
// output and a structured CSV file. Pure projection of the result model, no
// business logic.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"platecheck/internal/classify"
	"platecheck/internal/result"
)

// PrintOutcome renders a single query result.
func PrintOutcome(out io.Writer, o result.Outcome) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Plate", "Status", "Message"})
	t.AppendRow(table.Row{o.Plate, strings.ToUpper(string(o.Status)), o.Message})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// PrintBatch renders every outcome in the batch, input order preserved.
func PrintBatch(out io.Writer, b *result.Batch) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Plate", "Status", "Message", "Checked At"})
	for i, o := range b.Outcomes {
		t.AppendRow(table.Row{
			i + 1,
			o.Plate,
			strings.ToUpper(string(o.Status)),
			o.Message,
			o.Timestamp.Format(time.RFC3339),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// PrintSummary renders per-status counts and highlights available plates.
func PrintSummary(out io.Writer, b *result.Batch) {
	s := b.Summarize()

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Total", "Available", "Unavailable", "Unknown", "Errors"})
	t.AppendRow(table.Row{s.Total, s.Available, s.Unavailable, s.Unknown, s.Errors})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if plates := b.AvailablePlates(); len(plates) > 0 {
		fmt.Fprintf(out, "Available plates: %s\n", strings.Join(plates, ", "))
	}
}

// PrintRules renders the active classification rule table in evaluation order.
func PrintRules(out io.Writer, rules []classify.Rule) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Order", "Rule", "Pattern", "Status"})
	for i, r := range rules {
		t.AppendRow(table.Row{i + 1, r.Name, r.Pattern.String(), string(r.Status)})
	}
	t.AppendRow(table.Row{len(rules) + 1, "fallback", "(no match)", string(result.StatusUnknown)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
