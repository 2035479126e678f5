package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caselens/rfescope/internal/reporting"
)

var diffFlags struct {
	base   string
	head   string
	outDir string
	dbPath string
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two stored assessments of a case",
	RunE:  runDiff,
}

func init() {
	f := diffCmd.Flags()
	f.StringVar(&diffFlags.base, "base", "", "Base assessment ID")
	f.StringVar(&diffFlags.head, "head", "", "Head assessment ID")
	f.StringVar(&diffFlags.outDir, "out", "", "Output directory")
	f.StringVar(&diffFlags.dbPath, "db", "", "SQLite database path")

	_ = diffCmd.MarkFlagRequired("base")
	_ = diffCmd.MarkFlagRequired("head")
}

func runDiff(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	if diffFlags.outDir == "" {
		diffFlags.outDir = cfg.Reporting.OutDir
	}
	if diffFlags.dbPath == "" {
		diffFlags.dbPath = cfg.Database.DSN
	}

	db, err := openDB(diffFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	base, err := db.LoadAssessment(diffFlags.base)
	if err != nil {
		return fmt.Errorf("load base assessment: %w", err)
	}
	head, err := db.LoadAssessment(diffFlags.head)
	if err != nil {
		return fmt.Errorf("load head assessment: %w", err)
	}
	if base.CaseID != head.CaseID {
		fmt.Fprintf(os.Stderr, "warning: diffing assessments of different cases (%s vs %s)\n",
			base.CaseID, head.CaseID)
	}

	path, err := reporting.WriteDiffJSON(diffFlags.outDir, &base, &head)
	if err != nil {
		return err
	}
	d := reporting.DiffAssessments(&base, &head)
	fmt.Fprintf(cmd.OutOrStdout(), "Diff OK\n  Score delta: %+.1f\n  New: %d  Resolved: %d  Changed: %d\n  %s\n",
		d.ScoreDelta, d.Summary.NewCount, d.Summary.ResolvedCount, d.Summary.ChangedCount, path)
	return nil
}
