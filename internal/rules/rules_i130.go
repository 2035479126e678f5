package rules

import (
	"fmt"
	"strings"

	"github.com/caselens/rfescope/internal/casefile"
)

// The independent bona fide marriage evidence categories adjudicators expect.
var bonaFideCategories = []string{
	"joint_financial",
	"shared_residence",
	"photographs",
	"third_party_affidavits",
}

func i130Rules() []Rule {
	i130 := []casefile.VisaType{casefile.VisaI130}
	return []Rule{
		{
			ID:             "I130-MARRIAGE-CERT-MISSING",
			VisaTypes:      i130,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityCritical,
			Title:          "Marriage certificate missing",
			Description:    "A civil marriage certificate is the threshold document for a spousal I-130 and is not on file.",
			Recommendation: "Upload the certified civil marriage certificate (with translation if not in English).",
			Eval:           evalMarriageCertMissing,
		},
		{
			ID:             "I130-BONA-FIDE-EVIDENCE",
			VisaTypes:      i130,
			Category:       casefile.CategoryCrossDocument,
			Severity:       casefile.SeverityCritical,
			Title:          "Insufficient bona fide marriage evidence",
			Description:    "Too few independent categories of relationship evidence are documented; bona fides RFEs are the most common I-130 deficiency.",
			Recommendation: "Document additional independent evidence categories: joint finances, shared residence, photographs, and third-party affidavits.",
			Eval:           evalBonaFideEvidence,
		},
		{
			ID:             "I130-PRIOR-MARRIAGE-TERMINATION",
			VisaTypes:      i130,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityHigh,
			Title:          "Prior marriage termination undocumented",
			Description:    "A party reports a prior marriage but no divorce decree or death certificate proves it ended.",
			Recommendation: "Upload the divorce decree or death certificate terminating each prior marriage.",
			Eval:           evalPriorMarriageTermination,
		},
		{
			ID:             "I130-RECENT-MARRIAGE",
			VisaTypes:      i130,
			Category:       casefile.CategoryProcedural,
			Severity:       casefile.SeverityMedium,
			Title:          "Marriage shortly before filing",
			Description:    "The marriage occurred within six months of the reference date; recent marriages receive heightened bona fides scrutiny.",
			Recommendation: "Front-load the petition with especially thorough relationship evidence covering the courtship period.",
			Eval:           evalRecentMarriage,
		},
	}
}

func evalMarriageCertMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if ctx.HasDocument(docMarriageCertificate) {
		return cleared(confCertain)
	}
	return triggered(confCertain,
		fmt.Sprintf("Required document %q has not been uploaded", docMarriageCertificate))
}

func evalBonaFideEvidence(ctx *casefile.AnalysisContext) casefile.RuleResult {
	present := map[string]bool{}
	for _, c := range ctx.BonaFideEvidenceCategories {
		present[strings.ToLower(strings.TrimSpace(c))] = true
	}
	count := len(present)
	if count == 0 {
		// Fall back to the collaborator's tally when no category names came
		// through.
		count = ctx.BonaFideEvidenceCount
	}
	min := rsettings.BonaFideMinimumCategories
	if count >= min {
		return cleared(confCertain)
	}

	ev := []string{fmt.Sprintf("Only %d of %d expected bona fide evidence categories documented", count, min)}
	for _, c := range bonaFideCategories {
		if !present[c] {
			ev = append(ev, fmt.Sprintf("Missing evidence category %q", c))
		}
	}
	conf := confCertain
	if len(present) == 0 && ctx.BonaFideEvidenceCount > 0 {
		// Tally without names: verdict stands but itemization is coarser.
		conf = confStrong
	}
	return triggered(conf, ev...)
}

func evalPriorMarriageTermination(ctx *casefile.AnalysisContext) casefile.RuleResult {
	prior := ctx.Beneficiary.PriorMarriages
	if prior == nil {
		return inconclusive("prior-marriage history not on file")
	}
	if *prior == 0 {
		return cleared(confCertain)
	}
	if ctx.HasDocument(docDivorceDecree) {
		return cleared(confCertain)
	}
	return triggered(confStrong,
		fmt.Sprintf("%d prior marriage(s) reported but no %q uploaded", *prior, docDivorceDecree))
}

func evalRecentMarriage(ctx *casefile.AnalysisContext) casefile.RuleResult {
	md := ctx.Beneficiary.MarriageDate
	if md == nil {
		return inconclusive("marriage date not on file")
	}
	if ctx.ReferenceTime.IsZero() {
		return inconclusive("no reference time to compare marriage date against")
	}
	if md.After(ctx.ReferenceTime) {
		return inconclusive("marriage date is in the future")
	}
	if ctx.ReferenceTime.Sub(*md).Hours() > 24*182 {
		return cleared(confCertain)
	}
	return triggered(confModerate,
		fmt.Sprintf("Marriage on %s is within six months of %s",
			md.Format("2006-01-02"), ctx.ReferenceTime.Format("2006-01-02")))
}
