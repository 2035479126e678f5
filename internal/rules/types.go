package rules

import "github.com/caselens/rfescope/internal/casefile"

// Rule is a single self-contained RFE-risk predicate over a case context.
// Eval must be pure: same context in, same result out, no I/O. A rule that
// lacks the facts it needs returns triggered=false with confidence below 0.5
// (inconclusive) rather than guessing.
type Rule struct {
	ID             string
	VisaTypes      []casefile.VisaType
	Category       casefile.Category
	Severity       casefile.Severity
	Title          string
	Description    string
	Recommendation string
	Eval           func(ctx *casefile.AnalysisContext) casefile.RuleResult
}

// AppliesTo reports whether the rule is registered for a visa type.
func (r Rule) AppliesTo(vt casefile.VisaType) bool {
	for _, v := range r.VisaTypes {
		if v == vt {
			return true
		}
	}
	return false
}

// Confidence conventions shared by the built-in rule sets. Inconclusive must
// stay below 0.5 so the aggregator's data-confidence signal can tell
// "evaluated and cleared" apart from "could not evaluate".
const (
	confCertain      = 0.95
	confStrong       = 0.85
	confModerate     = 0.70
	confInconclusive = 0.35
)

func triggered(conf float64, evidence ...string) casefile.RuleResult {
	return casefile.RuleResult{Triggered: true, Confidence: conf, Evidence: evidence}
}

func cleared(conf float64) casefile.RuleResult {
	return casefile.RuleResult{Triggered: false, Confidence: conf}
}

func inconclusive(details string) casefile.RuleResult {
	return casefile.RuleResult{Triggered: false, Confidence: confInconclusive, Details: details}
}

// Document types the built-in rule sets look for. The data layer normalizes
// document classifications to these identifiers.
const (
	docPassport            = "passport"
	docCertifiedLCA        = "certified_lca"
	docDegreeCertificate   = "degree_certificate"
	docCredentialEval      = "credential_evaluation"
	docEmploymentLetter    = "employment_letter"
	docEndClientLetter     = "end_client_letter"
	docPayStubs            = "pay_stubs"
	docMarriageCertificate = "marriage_certificate"
	docDivorceDecree       = "divorce_decree"
	docAffidavitOfSupport  = "i864_affidavit_of_support"
	docMedicalExam         = "i693_medical_exam"
	docTaxReturn           = "federal_tax_return"
	docLaborCertification  = "perm_labor_certification"
	docExperienceLetters   = "experience_letters"
)
