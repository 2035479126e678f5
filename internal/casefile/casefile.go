package casefile

import (
	"strings"
	"time"
)

// Version identifies the context/result schema revision.
const Version = "1.0"

// VisaType is a coded immigration category. It selects which rule sets apply.
type VisaType string

const (
	VisaH1B  VisaType = "H1B"
	VisaL1   VisaType = "L1"
	VisaO1   VisaType = "O1"
	VisaI130 VisaType = "I130"
	VisaI485 VisaType = "I485"
	VisaI140 VisaType = "I140"
)

// AllVisaTypes lists every visa type the product supports, in a stable order.
func AllVisaTypes() []VisaType {
	return []VisaType{VisaH1B, VisaL1, VisaO1, VisaI130, VisaI485, VisaI140}
}

// Severity is the impact of a rule if its finding is true.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityRank orders severities for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1 // low or unknown
	}
}

// Category groups rules by the kind of deficiency they look for.
type Category string

const (
	CategoryDocumentPresence Category = "document_presence"
	CategoryDocumentContent  Category = "document_content"
	CategoryCrossDocument    Category = "cross_document"
	CategoryFormConsistency  Category = "form_consistency"
	CategoryFinancial        Category = "financial"
	CategoryTimeline         Category = "timeline"
	CategoryProcedural       Category = "procedural"
)

// RiskLevel is the coarse banding of an assessment score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// EmployerInfo carries optional employer facts. A nil field means the
// collaborator could not source that fact; rules must treat it as unknown.
type EmployerInfo struct {
	Name             *string  `json:"name,omitempty"`
	NetIncome        *float64 `json:"netIncome,omitempty"`
	NetCurrentAssets *float64 `json:"netCurrentAssets,omitempty"`
	AnnualRevenue    *float64 `json:"annualRevenue,omitempty"`
	EmployeeCount    *int     `json:"employeeCount,omitempty"`
	IsStaffingFirm   *bool    `json:"isStaffingFirm,omitempty"`
}

// BeneficiaryInfo carries optional beneficiary facts.
type BeneficiaryInfo struct {
	YearsExperience *float64   `json:"yearsExperience,omitempty"`
	HighestDegree   *string    `json:"highestDegree,omitempty"`
	PriorMarriages  *int       `json:"priorMarriages,omitempty"`
	MarriageDate    *time.Time `json:"marriageDate,omitempty"`
	DaysOutOfStatus *int       `json:"daysOutOfStatus,omitempty"`
}

// FinancialInfo carries optional case financial facts.
type FinancialInfo struct {
	SponsorIncome    *float64 `json:"sponsorIncome,omitempty"`
	HouseholdSize    *int     `json:"householdSize,omitempty"`
	ProfferedWage    *float64 `json:"profferedWage,omitempty"`
	OfferedWageLevel *string  `json:"offeredWageLevel,omitempty"` // DOL levels "I".."IV"
	FeePaid          *bool    `json:"feePaid,omitempty"`
	TaxYearsProvided *int     `json:"taxYearsProvided,omitempty"`
}

// AnalysisContext is the normalized snapshot of one case's evidentiary state.
// It is built by the data layer and is read-only for the duration of one
// assessment; rules never mutate it.
type AnalysisContext struct {
	CaseID     string     `json:"caseId"`
	VisaType   VisaType   `json:"visaType"`
	CaseStatus string     `json:"caseStatus,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`

	// ReferenceTime anchors timeline rules. The aggregator fills it with the
	// current time when the collaborator leaves it zero; tests set it
	// explicitly so assessments stay reproducible.
	ReferenceTime time.Time `json:"referenceTime,omitempty"`

	UploadedDocumentTypes []string `json:"uploadedDocumentTypes,omitempty"`
	RequiredDocumentTypes []string `json:"requiredDocumentTypes,omitempty"`

	// ExtractedData maps document type -> field name -> extracted value,
	// as produced by the upstream OCR/extraction collaborator.
	ExtractedData map[string]map[string]string `json:"extractedData,omitempty"`

	// FormValues maps form identifier (e.g. "I-129") -> field name -> value.
	FormValues map[string]map[string]string `json:"formValues,omitempty"`
	FormTypes  []string                     `json:"formTypes,omitempty"`

	// Bona fide relationship evidence (relationship-based visas). Categories
	// lists the independent proof categories already documented; Count is the
	// collaborator's tally and is used when Categories was not populated.
	BonaFideEvidenceCategories []string `json:"bonaFideEvidenceCategories,omitempty"`
	BonaFideEvidenceCount      int      `json:"bonaFideEvidenceCount,omitempty"`

	Employer    EmployerInfo    `json:"employerInfo,omitempty"`
	Beneficiary BeneficiaryInfo `json:"beneficiaryInfo,omitempty"`
	Financial   FinancialInfo   `json:"financialInfo,omitempty"`
}

// HasDocument reports whether a document type was uploaded. Matching is
// case-insensitive because document types arrive from multiple collaborators.
func (c *AnalysisContext) HasDocument(docType string) bool {
	for _, d := range c.UploadedDocumentTypes {
		if strings.EqualFold(d, docType) {
			return true
		}
	}
	return false
}

// Requires reports whether a document type is on the required list.
func (c *AnalysisContext) Requires(docType string) bool {
	for _, d := range c.RequiredDocumentTypes {
		if strings.EqualFold(d, docType) {
			return true
		}
	}
	return false
}

// MissingRequiredDocuments returns required document types with no upload,
// preserving the required-list order.
func (c *AnalysisContext) MissingRequiredDocuments() []string {
	var out []string
	for _, d := range c.RequiredDocumentTypes {
		if !c.HasDocument(d) {
			out = append(out, d)
		}
	}
	return out
}

// DocumentField returns one extracted field of an uploaded document.
func (c *AnalysisContext) DocumentField(docType, field string) (string, bool) {
	for dt, fields := range c.ExtractedData {
		if strings.EqualFold(dt, docType) {
			v, ok := fields[field]
			return v, ok
		}
	}
	return "", false
}

// FormValue returns one field of a form, if the form and field are present.
func (c *AnalysisContext) FormValue(formID, field string) (string, bool) {
	for id, fields := range c.FormValues {
		if strings.EqualFold(id, formID) {
			v, ok := fields[field]
			return v, ok
		}
	}
	return "", false
}

// DaysUntilDeadline returns whole days between the reference time and the
// deadline. ok is false when no deadline is set.
func (c *AnalysisContext) DaysUntilDeadline() (int, bool) {
	if c.Deadline == nil || c.ReferenceTime.IsZero() {
		return 0, false
	}
	return int(c.Deadline.Sub(c.ReferenceTime).Hours() / 24), true
}

// RuleResult is one rule's verdict on a context. Confidence reflects the
// evaluator's certainty in its own verdict, not the rule's severity; by
// convention a rule that lacked the facts it needed reports triggered=false
// with confidence below 0.5.
type RuleResult struct {
	Triggered  bool     `json:"triggered"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
	Details    string   `json:"details,omitempty"`
}

// TriggeredRule joins a triggered RuleResult with its rule's static metadata
// so consumers need not re-join against the registry.
type TriggeredRule struct {
	RuleID         string   `json:"ruleId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Severity       Severity `json:"severity"`
	Category       Category `json:"category"`
	Confidence     float64  `json:"confidence"`
	Evidence       []string `json:"evidence"`
	Details        string   `json:"details,omitempty"`
}

// AssessmentResult is the engine's report for one case. It is constructed
// fresh per assessment and never mutated afterward.
//
// EstimatedRFEProbability is a presentational transform of the risk score,
// not a calibrated statistical estimate.
type AssessmentResult struct {
	ID                      string          `json:"id"`
	CaseID                  string          `json:"caseId"`
	VisaType                VisaType        `json:"visaType"`
	RFERiskScore            float64         `json:"rfeRiskScore"`
	RiskLevel               RiskLevel       `json:"riskLevel"`
	EstimatedRFEProbability float64         `json:"estimatedRFEProbability"`
	TriggeredRules          []TriggeredRule `json:"triggeredRules"`
	SafeRuleIDs             []string        `json:"safeRuleIds"`
	PriorityActions         []string        `json:"priorityActions"`
	DataConfidence          float64         `json:"dataConfidence"`
	AssessedAt              time.Time       `json:"assessedAt"`
	AssessmentVersion       string          `json:"assessmentVersion"`
}
