package rules

import (
	"fmt"

	"github.com/caselens/rfescope/internal/casefile"
)

func i140Rules() []Rule {
	i140 := []casefile.VisaType{casefile.VisaI140}
	return []Rule{
		{
			ID:             "I140-LABOR-CERT-MISSING",
			VisaTypes:      i140,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityCritical,
			Title:          "PERM labor certification missing",
			Description:    "The certified PERM labor certification underpinning the I-140 is not on file.",
			Recommendation: "Upload the original certified ETA-9089 before the 180-day validity window closes.",
			Eval:           evalLaborCertMissing,
		},
		{
			ID:             "I140-ABILITY-TO-PAY",
			VisaTypes:      i140,
			Category:       casefile.CategoryFinancial,
			Severity:       casefile.SeverityCritical,
			Title:          "Ability to pay not established",
			Description:    "Neither net income nor net current assets reaches the proffered wage, the two standard ability-to-pay showings.",
			Recommendation: "Document ability to pay through annual reports, audited financials, or evidence of wages already paid to the beneficiary.",
			Eval:           evalAbilityToPay,
		},
		{
			ID:             "I140-DEGREE-EVIDENCE-MISSING",
			VisaTypes:      i140,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityHigh,
			Title:          "Degree evidence missing",
			Description:    "No degree certificate or credential evaluation supports the education requirement of the offered position.",
			Recommendation: "Upload the degree certificate, transcripts, or a credential evaluation.",
			Eval:           evalDegreeEvidenceMissing,
		},
		{
			ID:             "I140-EXPERIENCE-LETTERS-MISSING",
			VisaTypes:      i140,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityHigh,
			Title:          "Experience letters missing",
			Description:    "Experience letters on the checklist, needed to prove the beneficiary met the position requirements before filing, are not uploaded.",
			Recommendation: "Collect experience letters from prior employers covering duties and dates.",
			Eval:           evalExperienceLettersMissing,
		},
	}
}

func evalLaborCertMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if ctx.HasDocument(docLaborCertification) {
		return cleared(confCertain)
	}
	return triggered(confCertain,
		fmt.Sprintf("Required document %q has not been uploaded", docLaborCertification))
}

func evalAbilityToPay(ctx *casefile.AnalysisContext) casefile.RuleResult {
	wage := ctx.Financial.ProfferedWage
	if wage == nil {
		return inconclusive("proffered wage not on file")
	}
	net := ctx.Employer.NetIncome
	assets := ctx.Employer.NetCurrentAssets
	if net == nil && assets == nil {
		return inconclusive("no employer financials on file")
	}
	if net != nil && *net >= *wage {
		return cleared(confCertain)
	}
	if assets != nil && *assets >= *wage {
		return cleared(confCertain)
	}
	ev := []string{fmt.Sprintf("Proffered wage $%.2f exceeds available showings", *wage)}
	if net != nil {
		ev = append(ev, fmt.Sprintf("Net income: $%.2f", *net))
	}
	if assets != nil {
		ev = append(ev, fmt.Sprintf("Net current assets: $%.2f", *assets))
	}
	conf := confStrong
	if net == nil || assets == nil {
		// Only one of the two showings could be checked.
		conf = confModerate
	}
	return triggered(conf, ev...)
}

func evalDegreeEvidenceMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if ctx.HasDocument(docDegreeCertificate) || ctx.HasDocument(docCredentialEval) {
		return cleared(confCertain)
	}
	return triggered(confStrong,
		"Neither a degree certificate nor a credential evaluation has been uploaded")
}

func evalExperienceLettersMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if !ctx.Requires(docExperienceLetters) {
		return cleared(confModerate)
	}
	if ctx.HasDocument(docExperienceLetters) {
		return cleared(confCertain)
	}
	return triggered(confCertain,
		fmt.Sprintf("Required document %q has not been uploaded", docExperienceLetters))
}
