package rules

import (
	"fmt"

	"github.com/caselens/rfescope/internal/casefile"
)

func h1bRules() []Rule {
	h1b := []casefile.VisaType{casefile.VisaH1B}
	return []Rule{
		{
			ID:             "H1B-LCA-MISSING",
			VisaTypes:      h1b,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityCritical,
			Title:          "Certified LCA missing",
			Description:    "Every H-1B petition must include a DOL-certified Labor Condition Application; none is on file.",
			Recommendation: "Obtain the certified LCA from FLAG and upload it before filing the I-129.",
			Eval:           evalLCAMissing,
		},
		{
			ID:             "H1B-SPECIALTY-DEGREE-EVIDENCE",
			VisaTypes:      h1b,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityHigh,
			Title:          "Specialty-occupation degree evidence missing",
			Description:    "The petition lacks documentary proof of the degree that qualifies the position as a specialty occupation.",
			Recommendation: "Upload the beneficiary's degree certificate or a credential evaluation.",
			Eval:           evalSpecialtyDegreeEvidence,
		},
		{
			ID:             "H1B-WAGE-LEVEL-EXPERIENCE-MISMATCH",
			VisaTypes:      h1b,
			Category:       casefile.CategoryCrossDocument,
			Severity:       casefile.SeverityHigh,
			Title:          "Entry-level wage with senior experience",
			Description:    "The offered wage is designated Level I while the beneficiary has substantial experience, a pairing adjudicators flag as inconsistent with a specialty occupation.",
			Recommendation: "Re-evaluate the wage level designation or document why the position is genuinely entry level.",
			Eval:           evalWageLevelExperienceMismatch,
		},
		{
			ID:             "H1B-STAFFING-END-CLIENT",
			VisaTypes:      h1b,
			Category:       casefile.CategoryCrossDocument,
			Severity:       casefile.SeverityHigh,
			Title:          "Staffing placement without end-client evidence",
			Description:    "The petitioner is a staffing firm and no end-client or employment letter documents the actual worksite and duties.",
			Recommendation: "Obtain an end-client letter (or detailed employment letter) covering worksite, duties, and duration of the placement.",
			Eval:           evalStaffingEndClient,
		},
		{
			ID:             "H1B-EMPLOYER-FINANCIAL-VIABILITY",
			VisaTypes:      h1b,
			Category:       casefile.CategoryFinancial,
			Severity:       casefile.SeverityMedium,
			Title:          "Employer financials show no net income",
			Description:    "The petitioner's reported net income is zero or negative, inviting questions about ability to pay the offered wage.",
			Recommendation: "Include supplementary ability-to-pay evidence such as bank statements, annual reports, or officer attestations.",
			Eval:           evalEmployerFinancialViability,
		},
		{
			ID:             "H1B-PAY-EVIDENCE-MISSING",
			VisaTypes:      h1b,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityMedium,
			Title:          "Recent pay evidence missing",
			Description:    "Pay stubs on the checklist (typically for extensions or transfers proving maintenance of status) have not been uploaded.",
			Recommendation: "Upload the beneficiary's most recent pay stubs.",
			Eval:           evalPayEvidenceMissing,
		},
	}
}

func evalLCAMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if ctx.HasDocument(docCertifiedLCA) {
		return cleared(confCertain)
	}
	return triggered(confCertain,
		fmt.Sprintf("No %q document on file; a certified LCA is mandatory for H-1B", docCertifiedLCA))
}

func evalSpecialtyDegreeEvidence(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if ctx.HasDocument(docDegreeCertificate) || ctx.HasDocument(docCredentialEval) {
		return cleared(confCertain)
	}
	if ctx.Beneficiary.HighestDegree != nil {
		// Degree is claimed but undocumented; the claim itself is data we
		// cannot verify from uploads.
		res := triggered(confModerate,
			fmt.Sprintf("Claimed degree %q has no supporting certificate or evaluation on file",
				*ctx.Beneficiary.HighestDegree))
		return res
	}
	return triggered(confStrong,
		"Neither a degree certificate nor a credential evaluation has been uploaded")
}

func evalWageLevelExperienceMismatch(ctx *casefile.AnalysisContext) casefile.RuleResult {
	years := ctx.Beneficiary.YearsExperience
	level := ctx.Financial.OfferedWageLevel
	if years == nil || level == nil {
		return inconclusive("experience or wage level not on file")
	}
	if *level != wageLevelEntry || *years < seniorExperienceYears {
		return cleared(confStrong)
	}
	return triggered(confStrong,
		fmt.Sprintf("Offered wage is Level %s while the beneficiary reports %.0f years of experience",
			*level, *years))
}

func evalStaffingEndClient(ctx *casefile.AnalysisContext) casefile.RuleResult {
	staffing := ctx.Employer.IsStaffingFirm
	if staffing == nil {
		return inconclusive("staffing-firm status unknown")
	}
	if !*staffing {
		return cleared(confCertain)
	}
	if ctx.HasDocument(docEndClientLetter) || ctx.HasDocument(docEmploymentLetter) {
		return cleared(confCertain)
	}
	return triggered(confStrong,
		"Petitioner is a staffing firm and no end-client or employment letter is on file")
}

func evalEmployerFinancialViability(ctx *casefile.AnalysisContext) casefile.RuleResult {
	net := ctx.Employer.NetIncome
	if net == nil {
		return inconclusive("employer net income not on file")
	}
	if *net > 0 {
		return cleared(confCertain)
	}
	return triggered(confStrong,
		fmt.Sprintf("Employer net income is %.2f (zero or negative)", *net))
}

func evalPayEvidenceMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if !ctx.Requires(docPayStubs) {
		return cleared(confModerate)
	}
	if ctx.HasDocument(docPayStubs) {
		return cleared(confCertain)
	}
	return triggered(confCertain,
		fmt.Sprintf("Required document %q has not been uploaded", docPayStubs))
}
