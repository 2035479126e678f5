package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/caselens/rfescope/internal/casefile"
)

func WriteHTML(outDir string, a *casefile.AssessmentResult) (string, error) {
	path := filepath.Join(outDir, a.ID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(a.CaseID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .sev-critical{color:#b00020;font-weight:bold} .sev-high{color:#d2691e;font-weight:bold} .sev-medium{color:#b8860b} .sev-low{color:#666}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + summary
	fmt.Fprintf(f, "<h1>RFE risk report – <span class='mono'>%s</span></h1>", html.EscapeString(a.CaseID))
	fmt.Fprintf(f, "<p>Visa type: <b>%s</b> &nbsp; Assessed: %s &nbsp; Ruleset: %s</p>",
		html.EscapeString(string(a.VisaType)),
		a.AssessedAt.Format("2006-01-02 15:04 MST"),
		html.EscapeString(a.AssessmentVersion),
	)
	fmt.Fprintf(f, "<p><b>Risk score: %.1f / 100</b> (%s) &nbsp; Estimated RFE probability: %.0f%% <span class='dim'>(heuristic, not calibrated)</span></p>",
		a.RFERiskScore, html.EscapeString(string(a.RiskLevel)), a.EstimatedRFEProbability*100)
	fmt.Fprintf(f, "<p class='dim'>Data confidence: %.2f &nbsp; Rules triggered: %d &nbsp; Rules clear: %d</p>",
		a.DataConfidence, len(a.TriggeredRules), len(a.SafeRuleIDs))

	// Priority actions
	if len(a.PriorityActions) > 0 {
		fmt.Fprint(f, "<h2>Priority Actions</h2><ol>")
		for _, act := range a.PriorityActions {
			fmt.Fprintf(f, "<li>%s</li>", html.EscapeString(act))
		}
		fmt.Fprint(f, "</ol>")
	}

	// Triggered rules (already most severe first)
	if len(a.TriggeredRules) > 0 {
		fmt.Fprint(f, "<h2>Triggered Rules</h2><table><tr><th>Severity</th><th>Rule</th><th>Category</th><th>Confidence</th><th>Evidence</th></tr>")
		for _, tr := range a.TriggeredRules {
			fmt.Fprintf(f, "<tr><td class='sev-%s'>%s</td><td>%s<br><span class='dim'>%s</span></td><td>%s</td><td>%.2f</td><td>%s</td></tr>",
				html.EscapeString(string(tr.Severity)),
				html.EscapeString(string(tr.Severity)),
				html.EscapeString(tr.Title),
				html.EscapeString(tr.RuleID),
				html.EscapeString(string(tr.Category)),
				tr.Confidence,
				html.EscapeString(strings.Join(tr.Evidence, "; ")),
			)
		}
		fmt.Fprint(f, "</table>")
	} else {
		fmt.Fprint(f, "<h2>Triggered Rules</h2><p class='dim'>No rules triggered.</p>")
	}

	// Cleared rules
	if len(a.SafeRuleIDs) > 0 {
		fmt.Fprintf(f, "<h2>Evaluated and Clear</h2><p class='mono dim'>%s</p>",
			html.EscapeString(strings.Join(a.SafeRuleIDs, ", ")))
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
