package main

import (
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"platecheck/internal/history"
	"platecheck/internal/plate"
)

var (
	historyPlate string
	historyLimit int
)

// historyCmd lists past check outcomes from the local journal.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past check results from the local journal",
	Example: `  platecheck history --limit 50
  platecheck history --plate EZYPLTE`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyPlate, "plate", "", "only show checks for this plate")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, err := historyPath(cfg)
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	filter := historyPlate
	if filter != "" {
		if normalized, err := plate.Normalize(filter); err == nil {
			filter = normalized
		}
	}

	entries, err := store.Recent(filter, historyLimit)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Checked At", "Plate", "Status", "Message", "Run"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.CheckedAt.Local().Format(time.RFC3339),
			e.Plate,
			strings.ToUpper(string(e.Status)),
			e.Message,
			shortID(e.RunID),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
