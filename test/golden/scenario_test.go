package golden

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/caselens/rfescope/internal/assess"
	"github.com/caselens/rfescope/internal/casefile"
)

// End-to-end scenario coverage: one JSON context document per common intake
// situation, run through Load and the full engine, asserted on the outcomes
// an attorney would act on.

var refTime = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func assessDoc(t *testing.T, doc string) *casefile.AssessmentResult {
	t.Helper()

	ctx, _, err := casefile.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load context: %v", err)
	}
	e := assess.NewEngine(
		assess.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		assess.WithClock(func() time.Time { return refTime }),
	)
	res, err := e.Assess(ctx)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	return res
}

func triggeredIDs(res *casefile.AssessmentResult) map[string]casefile.TriggeredRule {
	out := map[string]casefile.TriggeredRule{}
	for _, tr := range res.TriggeredRules {
		out[tr.RuleID] = tr
	}
	return out
}

func TestScenario_H1BMissingPassport(t *testing.T) {
	res := assessDoc(t, `{
		"caseId": "case-h1b-1",
		"visaType": "H1B",
		"referenceTime": "2026-03-02T12:00:00Z",
		"uploadedDocumentTypes": ["certified_lca", "degree_certificate"],
		"requiredDocumentTypes": ["passport", "certified_lca", "degree_certificate"]
	}`)

	hits := triggeredIDs(res)
	tr, ok := hits["COMMON-PASSPORT-MISSING"]
	if !ok {
		t.Fatalf("expected COMMON-PASSPORT-MISSING to trigger; got %v", res.TriggeredRules)
	}
	if tr.Severity != casefile.SeverityHigh {
		t.Fatalf("passport-missing severity = %s, want high", tr.Severity)
	}
	if tr.Confidence < 0.9 {
		t.Fatalf("passport-missing confidence = %v, want >= 0.9 (pure absence check)", tr.Confidence)
	}
	if res.RFERiskScore >= 100 {
		t.Fatalf("score should drop below 100, got %v", res.RFERiskScore)
	}
}

func TestScenario_I485IncomeShortfall(t *testing.T) {
	res := assessDoc(t, `{
		"caseId": "case-i485-1",
		"visaType": "I485",
		"referenceTime": "2026-03-02T12:00:00Z",
		"uploadedDocumentTypes": ["i864_affidavit_of_support", "i693_medical_exam", "federal_tax_return"],
		"financialInfo": {"sponsorIncome": 20000, "householdSize": 3, "taxYearsProvided": 3}
	}`)

	hits := triggeredIDs(res)
	tr, ok := hits["I485-INCOME-BELOW-GUIDELINE"]
	if !ok {
		t.Fatalf("expected I485-INCOME-BELOW-GUIDELINE to trigger; got %v", res.TriggeredRules)
	}
	if tr.Severity != casefile.SeverityCritical {
		t.Fatalf("income-shortfall severity = %s, want critical", tr.Severity)
	}
	joined := strings.Join(tr.Evidence, " | ")
	if !strings.Contains(joined, "33312.50") || !strings.Contains(joined, "13312.50") {
		t.Fatalf("evidence should quote the 125%% floor and the shortfall, got %q", joined)
	}
	if res.RiskLevel == casefile.RiskLow {
		t.Fatalf("a critical income shortfall cannot be low risk (score %v)", res.RFERiskScore)
	}
}

func TestScenario_StaffingPlacementCuredByEndClientLetter(t *testing.T) {
	base := `{
		"caseId": "case-h1b-2",
		"visaType": "H1B",
		"referenceTime": "2026-03-02T12:00:00Z",
		"uploadedDocumentTypes": [%s],
		"employerInfo": {"isStaffingFirm": true}
	}`

	before := assessDoc(t, strings.Replace(base, "%s", `"certified_lca"`, 1))
	if _, ok := triggeredIDs(before)["H1B-STAFFING-END-CLIENT"]; !ok {
		t.Fatalf("staffing firm without placement evidence should trigger; got %v", before.TriggeredRules)
	}

	after := assessDoc(t, strings.Replace(base, "%s", `"certified_lca", "end_client_letter"`, 1))
	if _, ok := triggeredIDs(after)["H1B-STAFFING-END-CLIENT"]; ok {
		t.Fatalf("end-client letter should clear the staffing rule")
	}
	if after.RFERiskScore <= before.RFERiskScore {
		t.Fatalf("curing a deficiency must improve the score: before=%v after=%v",
			before.RFERiskScore, after.RFERiskScore)
	}
}

func TestScenario_I130ThinBonaFideEvidence(t *testing.T) {
	res := assessDoc(t, `{
		"caseId": "case-i130-1",
		"visaType": "I130",
		"referenceTime": "2026-03-02T12:00:00Z",
		"uploadedDocumentTypes": ["marriage_certificate"],
		"bonaFideEvidenceCategories": ["photographs"],
		"bonaFideEvidenceCount": 1
	}`)

	tr, ok := triggeredIDs(res)["I130-BONA-FIDE-EVIDENCE"]
	if !ok {
		t.Fatalf("one evidence category should trigger the bona fide rule; got %v", res.TriggeredRules)
	}
	if tr.Severity != casefile.SeverityCritical {
		t.Fatalf("bona-fide severity = %s, want critical", tr.Severity)
	}
	joined := strings.Join(tr.Evidence, " | ")
	for _, missing := range []string{"joint_financial", "shared_residence", "third_party_affidavits"} {
		if !strings.Contains(joined, missing) {
			t.Fatalf("evidence should itemize missing category %q, got %q", missing, joined)
		}
	}
}

func TestScenario_DeadlinePressureWithDocumentsOutstanding(t *testing.T) {
	base := `{
		"caseId": "case-i140-1",
		"visaType": "I140",
		"referenceTime": "2026-03-02T12:00:00Z",
		"deadline": "%s",
		"requiredDocumentTypes": ["perm_labor_certification"]
	}`

	near := assessDoc(t, strings.Replace(base, "%s", "2026-03-09T12:00:00Z", 1))
	if _, ok := triggeredIDs(near)["COMMON-DEADLINE-PROXIMITY"]; !ok {
		t.Fatalf("deadline in 7 days with outstanding documents should trigger; got %v", near.TriggeredRules)
	}

	far := assessDoc(t, strings.Replace(base, "%s", "2026-06-01T12:00:00Z", 1))
	if _, ok := triggeredIDs(far)["COMMON-DEADLINE-PROXIMITY"]; ok {
		t.Fatalf("a distant deadline must not trigger the proximity rule")
	}
	if far.RFERiskScore <= near.RFERiskScore {
		t.Fatalf("deadline pressure must cost score: near=%v far=%v",
			near.RFERiskScore, far.RFERiskScore)
	}
}

func TestScenario_CleanCaseScoresLowRisk(t *testing.T) {
	res := assessDoc(t, `{
		"caseId": "case-h1b-3",
		"visaType": "H1B",
		"referenceTime": "2026-03-02T12:00:00Z",
		"deadline": "2026-06-01T12:00:00Z",
		"uploadedDocumentTypes": ["passport", "certified_lca", "degree_certificate", "pay_stubs", "employment_letter"],
		"requiredDocumentTypes": ["passport", "certified_lca", "degree_certificate", "pay_stubs"],
		"extractedData": {"passport": {"expiration_date": "2031-01-15"}},
		"formValues": {"I-129": {"signature": "signed"}},
		"employerInfo": {"isStaffingFirm": false, "netIncome": 2500000},
		"financialInfo": {"feePaid": true}
	}`)

	if len(res.TriggeredRules) != 0 {
		t.Fatalf("clean case triggered rules: %v", res.TriggeredRules)
	}
	if res.RFERiskScore != 100 {
		t.Fatalf("clean case score = %v, want 100", res.RFERiskScore)
	}
	if res.RiskLevel != casefile.RiskLow {
		t.Fatalf("clean case risk level = %s, want low", res.RiskLevel)
	}
	if len(res.SafeRuleIDs) == 0 {
		t.Fatalf("clean case should report the rules it cleared")
	}
}
