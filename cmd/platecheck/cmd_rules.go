package main

import (
	"os"

	"github.com/spf13/cobra"

	"platecheck/internal/report"
)

// rulesCmd prints the active classification rules so operators can validate
// the patterns against the live service's response phrasing.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the response classification rules in evaluation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rules, err := cfg.ClassifierRules()
		if err != nil {
			return err
		}
		report.PrintRules(os.Stdout, rules)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
