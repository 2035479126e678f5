package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/rfescope/internal/casefile"
)

func TestPovertyGuideline(t *testing.T) {
	g, ok := PovertyGuideline(3)
	require.True(t, ok)
	assert.Equal(t, 26650.0, g)

	g, ok = PovertyGuideline(10)
	require.True(t, ok)
	assert.Equal(t, 54150.0+2*5500, g, "extrapolates beyond household of eight")

	_, ok = PovertyGuideline(0)
	assert.False(t, ok)
}

func TestIncomeBelowGuideline_ReportsShortfall(t *testing.T) {
	ctx := baseContext(casefile.VisaI485)
	ctx.Financial.SponsorIncome = fptr(20000)
	ctx.Financial.HouseholdSize = iptr(3)

	res := evalIncomeBelowGuideline(&ctx)
	require.True(t, res.Triggered)
	assert.GreaterOrEqual(t, res.Confidence, 0.9)

	// 26650 * 1.25 = 33312.50; shortfall 13312.50
	joined := ""
	for _, e := range res.Evidence {
		joined += e + "\n"
	}
	assert.Contains(t, joined, "33312.50")
	assert.Contains(t, joined, "13312.50")
}

func TestIncomeBelowGuideline_SufficientIncome(t *testing.T) {
	ctx := baseContext(casefile.VisaI485)
	ctx.Financial.SponsorIncome = fptr(60000)
	ctx.Financial.HouseholdSize = iptr(3)

	res := evalIncomeBelowGuideline(&ctx)
	assert.False(t, res.Triggered)
	assert.GreaterOrEqual(t, res.Confidence, 0.9)
}

func TestIncomeBelowGuideline_MissingFactsInconclusive(t *testing.T) {
	ctx := baseContext(casefile.VisaI485)
	ctx.Financial.SponsorIncome = fptr(20000)

	res := evalIncomeBelowGuideline(&ctx)
	assert.False(t, res.Triggered)
	assert.Less(t, res.Confidence, 0.5)
}

func TestStatusGap(t *testing.T) {
	ctx := baseContext(casefile.VisaI485)
	ctx.Beneficiary.DaysOutOfStatus = iptr(200)

	res := evalStatusGap(&ctx)
	require.True(t, res.Triggered)

	ctx.Beneficiary.DaysOutOfStatus = iptr(30)
	res = evalStatusGap(&ctx)
	assert.False(t, res.Triggered)
}

func TestTaxReturnsMissing(t *testing.T) {
	ctx := baseContext(casefile.VisaI485)
	res := evalTaxReturnsMissing(&ctx)
	require.True(t, res.Triggered)

	ctx.Financial.TaxYearsProvided = iptr(3)
	res = evalTaxReturnsMissing(&ctx)
	assert.False(t, res.Triggered, "recorded tax years substitute for the upload")

	ctx.Financial.TaxYearsProvided = nil
	ctx.UploadedDocumentTypes = []string{docTaxReturn}
	res = evalTaxReturnsMissing(&ctx)
	assert.False(t, res.Triggered)
}
