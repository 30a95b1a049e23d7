package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deltascope/deltascope/internal/delta"
	"github.com/deltascope/deltascope/internal/git"
	"github.com/deltascope/deltascope/internal/report"
)

var compareCmd = &cobra.Command{
	Use:   "compare <base> <target>",
	Short: "Compare two refs using merge-base semantics",
	Long: `Compares the target ref against the merge base it shares with the
base ref (triple-dot diff), the usual shape for reviewing a branch
against main.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	addReportFlags(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	analyzer, err := newAnalyzer(cmd)
	if err != nil {
		return err
	}

	d, err := analyzer.CompareRefs(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	return writeReport(cmd, d)
}

// addReportFlags registers the flags shared by every comparison command.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "write the markdown report to a file instead of stdout")
	cmd.Flags().Int("top", 0, "override how many critical changes are kept")
}

// newAnalyzer wires the git content provider into the analyzer using
// the loaded configuration and command flags.
func newAnalyzer(cmd *cobra.Command) (*delta.Analyzer, error) {
	if err := git.DetectGitRepo(); err != nil {
		return nil, err
	}
	root, err := git.FindGitRoot()
	if err != nil {
		return nil, err
	}

	topN := cfg.Report.TopN
	if n, _ := cmd.Flags().GetInt("top"); n > 0 {
		topN = n
	}

	return delta.NewAnalyzer(git.NewCLIProvider(root),
		delta.WithTopN(topN),
		delta.WithWorkers(cfg.Analysis.Workers),
		delta.WithChurn(delta.ConstantChurn(cfg.Analysis.Churn)),
		delta.WithExtensions(cfg.Analysis.Extensions),
	), nil
}

// writeReport renders the review plan to stdout or the --out file.
func writeReport(cmd *cobra.Command, d *delta.DeltaDiff) error {
	markdown := report.FormatReview(d)

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Report.OutputPath
	}
	if out == "" {
		fmt.Print(markdown)
		return nil
	}

	if err := os.WriteFile(out, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.WithField("path", out).Info("Report written")
	return nil
}
