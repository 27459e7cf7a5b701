package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"platecheck/internal/result"
)

// csvHeader is the batch output contract: one row per input plate, in input
// order, statuses lower-case, timestamps RFC3339.
var csvHeader = []string{"plate_number", "status", "message", "timestamp"}

// CSVWriter writes outcomes to a CSV file incrementally, flushing after every
// row so an interrupted run keeps the rows already finalized.
type CSVWriter struct {
	file *os.File
	w    *csv.Writer
}

// NewCSVWriter creates (or truncates) the output file and writes the header.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}
	return &CSVWriter{file: f, w: w}, nil
}

// Append writes one outcome row and flushes it to disk.
func (c *CSVWriter) Append(o result.Outcome) error {
	record := []string{
		o.Plate,
		string(o.Status),
		o.Message,
		o.Timestamp.Format(time.RFC3339),
	}
	if err := c.w.Write(record); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("flush csv row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.file.Close()
		return err
	}
	return c.file.Close()
}
