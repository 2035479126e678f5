package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/caselens/rfescope/internal/casefile"
)

// Diff compares two assessments of a case, typically before and after a round
// of document collection, so an attorney can see which deficiencies were
// cured and which appeared.
type Diff struct {
	BaseID     string      `json:"baseId"`
	HeadID     string      `json:"headId"`
	ScoreDelta float64     `json:"scoreDelta"` // head − base; positive = improved
	Summary    diffSummary `json:"summary"`
	New        []diffRule  `json:"new"`
	Resolved   []diffRule  `json:"resolved"`
	Changed    []diffRule  `json:"changed"`
}

type diffSummary struct {
	NewCount      int `json:"new"`
	ResolvedCount int `json:"resolved"`
	ChangedCount  int `json:"changed"`
}

type diffRule struct {
	RuleID     string  `json:"ruleId"`
	Severity   string  `json:"severity"`
	Title      string  `json:"title"`
	Confidence float64 `json:"confidence"`
}

// DiffAssessments computes the triggered-rule delta between base and head.
func DiffAssessments(base, head *casefile.AssessmentResult) Diff {
	bm := map[string]casefile.TriggeredRule{}
	hm := map[string]casefile.TriggeredRule{}
	for _, tr := range base.TriggeredRules {
		bm[tr.RuleID] = tr
	}
	for _, tr := range head.TriggeredRules {
		hm[tr.RuleID] = tr
	}

	d := Diff{
		BaseID:     base.ID,
		HeadID:     head.ID,
		ScoreDelta: head.RFERiskScore - base.RFERiskScore,
	}
	for id, tr := range hm {
		if btr, ok := bm[id]; !ok {
			d.New = append(d.New, asDiffRule(tr))
		} else if btr.Confidence != tr.Confidence || btr.Severity != tr.Severity {
			d.Changed = append(d.Changed, asDiffRule(tr))
		}
	}
	for id, tr := range bm {
		if _, ok := hm[id]; !ok {
			d.Resolved = append(d.Resolved, asDiffRule(tr))
		}
	}

	for _, set := range []*[]diffRule{&d.New, &d.Resolved, &d.Changed} {
		sort.Slice(*set, func(i, j int) bool { return (*set)[i].RuleID < (*set)[j].RuleID })
	}
	d.Summary = diffSummary{
		NewCount:      len(d.New),
		ResolvedCount: len(d.Resolved),
		ChangedCount:  len(d.Changed),
	}
	return d
}

// WriteDiffJSON writes the delta between two assessments to outDir.
func WriteDiffJSON(outDir string, base, head *casefile.AssessmentResult) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	d := DiffAssessments(base, head)
	path := filepath.Join(outDir, "diff_"+base.ID+"__"+head.ID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", err
	}
	return path, nil
}

func asDiffRule(tr casefile.TriggeredRule) diffRule {
	return diffRule{
		RuleID:     tr.RuleID,
		Severity:   string(tr.Severity),
		Title:      tr.Title,
		Confidence: tr.Confidence,
	}
}
