package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/caselens/rfescope/internal/assess"
	"github.com/caselens/rfescope/internal/casefile"
	"github.com/caselens/rfescope/internal/reporting"
)

var assessFlags struct {
	outDir  string
	dbPath  string
	dryRun  bool
	workers int
}

var assessCmd = &cobra.Command{
	Use:   "assess <context.json> [more-contexts...]",
	Short: "Assess RFE risk for one or more case context files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAssess,
}

func init() {
	f := assessCmd.Flags()
	f.StringVar(&assessFlags.outDir, "out", "", "Output directory for reports")
	f.StringVar(&assessFlags.dbPath, "db", "", "SQLite database path")
	f.BoolVar(&assessFlags.dryRun, "dry-run", false, "Assess without persisting or writing reports")
	f.IntVar(&assessFlags.workers, "workers", 4, "Concurrent assessments for batch input")
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if assessFlags.outDir == "" {
		assessFlags.outDir = cfg.Reporting.OutDir
	}
	if assessFlags.dbPath == "" {
		assessFlags.dbPath = cfg.Database.DSN
	}

	engine := assess.NewEngine(assess.WithLogger(logger))

	var db interface {
		SaveAssessment(*casefile.AssessmentResult) error
		ActiveSuppressionIDs(string) ([]string, error)
		Close() error
	}
	if !assessFlags.dryRun {
		sdb, err := openDB(assessFlags.dbPath)
		if err != nil {
			return err
		}
		defer sdb.Close()
		db = sdb
		if err := os.MkdirAll(assessFlags.outDir, 0o755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
	}

	// Assessments are independent pure computations; batch input runs them
	// in parallel. SQLite writes are serialized below.
	var g errgroup.Group
	g.SetLimit(assessFlags.workers)
	var mu sync.Mutex

	out := cmd.OutOrStdout()
	for _, path := range args {
		g.Go(func() error {
			ctx, diags, err := casefile.LoadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, warn := range diags.Warnings {
				logger.Warn("context warning", "file", path, "warning", warn)
			}

			var suppressed []string
			if db != nil {
				if suppressed, err = db.ActiveSuppressionIDs(ctx.CaseID); err != nil {
					return fmt.Errorf("%s: load suppressions: %w", path, err)
				}
			}

			result, err := engine.Assess(ctx, suppressed...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if db != nil {
				if err := db.SaveAssessment(result); err != nil {
					return fmt.Errorf("%s: save: %w", path, err)
				}
				jsonPath, _ := reporting.WriteJSON(assessFlags.outDir, result)
				htmlPath, _ := reporting.WriteHTML(assessFlags.outDir, result)
				logger.Info("assessment complete",
					"case", result.CaseID, "score", result.RFERiskScore,
					"level", result.RiskLevel, "json", jsonPath, "html", htmlPath)
			}
			fmt.Fprintf(out, "%s  case=%s visa=%s score=%.1f level=%s triggered=%d\n",
				path, result.CaseID, result.VisaType, result.RFERiskScore,
				result.RiskLevel, len(result.TriggeredRules))
			return nil
		})
	}
	return g.Wait()
}
