package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var uncommittedCmd = &cobra.Command{
	Use:   "uncommitted",
	Short: "Compare HEAD against the working tree",
	Long: `Compares HEAD against the current uncommitted state, covering both
staged and unstaged changes.`,
	Args: cobra.NoArgs,
	RunE: runUncommitted,
}

func init() {
	addReportFlags(uncommittedCmd)
}

func runUncommitted(cmd *cobra.Command, args []string) error {
	analyzer, err := newAnalyzer(cmd)
	if err != nil {
		return err
	}

	d, err := analyzer.CompareWorkingTree(context.Background())
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	return writeReport(cmd, d)
}
