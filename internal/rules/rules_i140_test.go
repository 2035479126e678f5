package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/rfescope/internal/casefile"
)

func TestAbilityToPay(t *testing.T) {
	ctx := baseContext(casefile.VisaI140)
	ctx.Financial.ProfferedWage = fptr(120000)
	ctx.Employer.NetIncome = fptr(80000)
	ctx.Employer.NetCurrentAssets = fptr(50000)

	res := evalAbilityToPay(&ctx)
	require.True(t, res.Triggered, "neither showing reaches the wage")
	assert.GreaterOrEqual(t, len(res.Evidence), 3)

	ctx.Employer.NetIncome = fptr(150000)
	res = evalAbilityToPay(&ctx)
	assert.False(t, res.Triggered, "net income covers the wage")

	ctx.Employer.NetIncome = fptr(80000)
	ctx.Employer.NetCurrentAssets = fptr(200000)
	res = evalAbilityToPay(&ctx)
	assert.False(t, res.Triggered, "net current assets cover the wage")
}

func TestAbilityToPay_PartialFinancialsLowerConfidence(t *testing.T) {
	ctx := baseContext(casefile.VisaI140)
	ctx.Financial.ProfferedWage = fptr(120000)
	ctx.Employer.NetIncome = fptr(80000)

	res := evalAbilityToPay(&ctx)
	require.True(t, res.Triggered)
	assert.Less(t, res.Confidence, 0.85, "only one showing could be checked")
}

func TestAbilityToPay_MissingFactsInconclusive(t *testing.T) {
	ctx := baseContext(casefile.VisaI140)
	res := evalAbilityToPay(&ctx)
	assert.Less(t, res.Confidence, 0.5)

	ctx.Financial.ProfferedWage = fptr(120000)
	res = evalAbilityToPay(&ctx)
	assert.Less(t, res.Confidence, 0.5, "no employer financials at all")
}

func TestLaborCertMissing(t *testing.T) {
	ctx := baseContext(casefile.VisaI140)
	res := evalLaborCertMissing(&ctx)
	require.True(t, res.Triggered)

	ctx.UploadedDocumentTypes = []string{docLaborCertification}
	res = evalLaborCertMissing(&ctx)
	assert.False(t, res.Triggered)
}

func TestExperienceLettersMissing_OnlyWhenRequired(t *testing.T) {
	ctx := baseContext(casefile.VisaI140)
	res := evalExperienceLettersMissing(&ctx)
	assert.False(t, res.Triggered, "not on the checklist")

	ctx.RequiredDocumentTypes = []string{docExperienceLetters}
	res = evalExperienceLettersMissing(&ctx)
	assert.True(t, res.Triggered)
}
