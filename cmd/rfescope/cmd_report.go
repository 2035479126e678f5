package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caselens/rfescope/internal/casefile"
	"github.com/caselens/rfescope/internal/reporting"
)

var reportFlags struct {
	id     string
	caseID string
	outDir string
	dbPath string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Regenerate reports for a stored assessment",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.id, "id", "", "Assessment ID")
	f.StringVar(&reportFlags.caseID, "case", "", "Case ID (uses the latest assessment)")
	f.StringVar(&reportFlags.outDir, "out", "", "Output directory")
	f.StringVar(&reportFlags.dbPath, "db", "", "SQLite database path")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	if reportFlags.outDir == "" {
		reportFlags.outDir = cfg.Reporting.OutDir
	}
	if reportFlags.dbPath == "" {
		reportFlags.dbPath = cfg.Database.DSN
	}
	if reportFlags.id == "" && reportFlags.caseID == "" {
		return fmt.Errorf("either --id or --case is required")
	}

	db, err := openDB(reportFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	var a casefile.AssessmentResult
	if reportFlags.id != "" {
		a, err = db.LoadAssessment(reportFlags.id)
	} else {
		a, err = db.LoadLatestForCase(reportFlags.caseID)
	}
	if err != nil {
		return fmt.Errorf("load assessment: %w", err)
	}
	if err := os.MkdirAll(reportFlags.outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	jsonPath, err := reporting.WriteJSON(reportFlags.outDir, &a)
	if err != nil {
		return err
	}
	htmlPath, err := reporting.WriteHTML(reportFlags.outDir, &a)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report OK\n  Assessment: %s\n  JSON: %s\n  HTML: %s\n", a.ID, jsonPath, htmlPath)
	return nil
}
