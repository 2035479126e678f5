package rules

import (
	"fmt"

	"github.com/caselens/rfescope/internal/casefile"
)

// Days of unlawful presence that start the 3-year inadmissibility bar.
const statusGapBarDays = 180

func i485Rules() []Rule {
	i485 := []casefile.VisaType{casefile.VisaI485}
	return []Rule{
		{
			ID:             "I485-I864-MISSING",
			VisaTypes:      i485,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityCritical,
			Title:          "Affidavit of support missing",
			Description:    "The I-864 affidavit of support is required for family-based adjustment and is not on file.",
			Recommendation: "Prepare and upload the signed I-864 with the sponsor's supporting financial documents.",
			Eval:           evalI864Missing,
		},
		{
			ID:             "I485-INCOME-BELOW-GUIDELINE",
			VisaTypes:      i485,
			Category:       casefile.CategoryFinancial,
			Severity:       casefile.SeverityCritical,
			Title:          "Sponsor income below 125% of poverty guideline",
			Description:    "The sponsor's household income falls short of the 125% Federal Poverty Guideline floor for the household size.",
			Recommendation: "Add a joint sponsor or document assets worth five times the income shortfall.",
			Eval:           evalIncomeBelowGuideline,
		},
		{
			ID:             "I485-MEDICAL-EXAM-MISSING",
			VisaTypes:      i485,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityHigh,
			Title:          "Medical examination missing",
			Description:    "No I-693 civil-surgeon medical examination is on file.",
			Recommendation: "Schedule the I-693 examination with a designated civil surgeon and upload the sealed report.",
			Eval:           evalMedicalExamMissing,
		},
		{
			ID:             "I485-TAX-RETURNS-MISSING",
			VisaTypes:      i485,
			Category:       casefile.CategoryFinancial,
			Severity:       casefile.SeverityMedium,
			Title:          "Sponsor tax returns missing",
			Description:    "The sponsor's federal tax return, required to corroborate the I-864, is not on file.",
			Recommendation: "Upload the sponsor's most recent federal tax return or IRS transcript.",
			Eval:           evalTaxReturnsMissing,
		},
		{
			ID:             "I485-STATUS-GAP",
			VisaTypes:      i485,
			Category:       casefile.CategoryProcedural,
			Severity:       casefile.SeverityHigh,
			Title:          "Extended period out of status",
			Description:    "The applicant's record shows more than 180 days out of status, which can bar adjustment absent an exemption.",
			Recommendation: "Analyze 245(k) or other exemptions and document them in the filing.",
			Eval:           evalStatusGap,
		},
	}
}

func evalI864Missing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if ctx.HasDocument(docAffidavitOfSupport) {
		return cleared(confCertain)
	}
	return triggered(confCertain,
		fmt.Sprintf("Required document %q has not been uploaded", docAffidavitOfSupport))
}

func evalIncomeBelowGuideline(ctx *casefile.AnalysisContext) casefile.RuleResult {
	income := ctx.Financial.SponsorIncome
	size := ctx.Financial.HouseholdSize
	if income == nil || size == nil {
		return inconclusive("sponsor income or household size not on file")
	}
	floor, ok := SponsorIncomeFloor(*size)
	if !ok {
		return inconclusive(fmt.Sprintf("household size %d is out of range", *size))
	}
	if *income >= floor {
		return cleared(confCertain)
	}
	shortfall := floor - *income
	res := triggered(confCertain,
		fmt.Sprintf("Sponsor income $%.2f is below the $%.2f floor (125%% FPG, household of %d)",
			*income, floor, *size),
		fmt.Sprintf("Shortfall: $%.2f", shortfall))
	res.Details = fmt.Sprintf("shortfall=%.2f", shortfall)
	return res
}

func evalMedicalExamMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if ctx.HasDocument(docMedicalExam) {
		return cleared(confCertain)
	}
	return triggered(confCertain,
		fmt.Sprintf("Required document %q has not been uploaded", docMedicalExam))
}

func evalTaxReturnsMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if ctx.HasDocument(docTaxReturn) {
		return cleared(confCertain)
	}
	if years := ctx.Financial.TaxYearsProvided; years != nil && *years > 0 {
		return cleared(confStrong)
	}
	return triggered(confStrong,
		fmt.Sprintf("No %q on file and no tax years recorded for the sponsor", docTaxReturn))
}

func evalStatusGap(ctx *casefile.AnalysisContext) casefile.RuleResult {
	days := ctx.Beneficiary.DaysOutOfStatus
	if days == nil {
		return inconclusive("status history not on file")
	}
	if *days <= statusGapBarDays {
		return cleared(confCertain)
	}
	return triggered(confStrong,
		fmt.Sprintf("Record shows %d days out of status (threshold %d)", *days, statusGapBarDays))
}
