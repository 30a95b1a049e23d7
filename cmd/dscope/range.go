package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rangeCmd = &cobra.Command{
	Use:   "range <from> [<to>]",
	Short: "Compare a direct commit range",
	Long: `Compares two commits with a plain two-dot diff. The second commit
defaults to HEAD.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRange,
}

func init() {
	addReportFlags(rangeCmd)
}

func runRange(cmd *cobra.Command, args []string) error {
	to := "HEAD"
	if len(args) == 2 {
		to = args[1]
	}

	analyzer, err := newAnalyzer(cmd)
	if err != nil {
		return err
	}

	d, err := analyzer.CompareCommitRange(context.Background(), args[0], to)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	return writeReport(cmd, d)
}
