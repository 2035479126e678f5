package casefile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc := `{
		"caseId": "case-001",
		"visaType": "H1B",
		"deadline": "2026-04-01T00:00:00Z",
		"referenceTime": "2026-03-02T00:00:00Z",
		"uploadedDocumentTypes": ["Passport", "certified_lca"],
		"requiredDocumentTypes": ["passport", "certified_lca", "pay_stubs"],
		"employerInfo": {"isStaffingFirm": true, "netIncome": -1200.50}
	}`

	ctx, diags, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, diags.Warnings)
	assert.Equal(t, "case-001", ctx.CaseID)
	assert.Equal(t, VisaH1B, ctx.VisaType)
	require.NotNil(t, ctx.Employer.IsStaffingFirm)
	assert.True(t, *ctx.Employer.IsStaffingFirm)
	require.NotNil(t, ctx.Employer.NetIncome)
	assert.Equal(t, -1200.50, *ctx.Employer.NetIncome)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	doc := `{"caseId": "c", "visaType": "H1B", "vsaType": "typo"}`
	_, _, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode context")
}

func TestLoad_MissingIdentityRejected(t *testing.T) {
	for name, doc := range map[string]string{
		"no caseId":   `{"visaType": "H1B"}`,
		"no visaType": `{"caseId": "case-001"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := Load(strings.NewReader(doc))
			require.ErrorIs(t, err, ErrInvalidContext)
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	doc := `{
		"caseId": "case-002",
		"visaType": "I130",
		"deadline": "2026-01-01T00:00:00Z",
		"referenceTime": "2026-03-02T00:00:00Z",
		"uploadedDocumentTypes": [""],
		"bonaFideEvidenceCategories": ["photographs", "joint_financial"]
	}`

	_, diags, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, diags.Warnings, 3)
	assert.Contains(t, diags.Warnings[0], "bonaFideEvidenceCount")
	assert.Contains(t, diags.Warnings[1], "already past")
	assert.Contains(t, diags.Warnings[2], "empty uploaded document type")
}

func TestDocumentMatchingIsCaseInsensitive(t *testing.T) {
	ctx := AnalysisContext{
		UploadedDocumentTypes: []string{"Passport", "MARRIAGE_CERTIFICATE"},
		RequiredDocumentTypes: []string{"passport", "marriage_certificate", "i864"},
	}
	assert.True(t, ctx.HasDocument("passport"))
	assert.True(t, ctx.HasDocument("marriage_certificate"))
	assert.False(t, ctx.HasDocument("i864"))
	assert.True(t, ctx.Requires("I864"))
	assert.Equal(t, []string{"i864"}, ctx.MissingRequiredDocuments())
}

func TestDocumentFieldAndFormValue(t *testing.T) {
	ctx := AnalysisContext{
		ExtractedData: map[string]map[string]string{
			"Passport": {"expiration_date": "2026-05-01"},
		},
		FormValues: map[string]map[string]string{
			"I-129": {"signature": ""},
		},
	}

	v, ok := ctx.DocumentField("passport", "expiration_date")
	assert.True(t, ok)
	assert.Equal(t, "2026-05-01", v)

	_, ok = ctx.DocumentField("passport", "issue_date")
	assert.False(t, ok)

	sig, ok := ctx.FormValue("i-129", "signature")
	assert.True(t, ok)
	assert.Empty(t, sig)
}

func TestDaysUntilDeadline(t *testing.T) {
	ref := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	deadline := ref.AddDate(0, 0, 10)

	ctx := AnalysisContext{ReferenceTime: ref, Deadline: &deadline}
	days, ok := ctx.DaysUntilDeadline()
	require.True(t, ok)
	assert.Equal(t, 10, days)

	ctx.Deadline = nil
	_, ok = ctx.DaysUntilDeadline()
	assert.False(t, ok)
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityRank(SeverityCritical), SeverityRank(SeverityHigh))
	assert.Greater(t, SeverityRank(SeverityHigh), SeverityRank(SeverityMedium))
	assert.Greater(t, SeverityRank(SeverityMedium), SeverityRank(SeverityLow))
	assert.Equal(t, SeverityRank(SeverityLow), SeverityRank("unheard-of"))
}
