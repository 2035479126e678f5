// Package rulesdsl loads firm-specific rules from a YAML pack and registers
// them alongside the built-in sets. Packs support two declarative kinds:
// document-presence checks and numeric fact thresholds. Loading happens at
// process start, before assessments begin; the registry stays immutable
// afterward.
package rulesdsl

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/caselens/rfescope/internal/casefile"
	"github.com/caselens/rfescope/internal/rules"
)

type pack struct {
	Rules []packRule `yaml:"rules"`
}

type packRule struct {
	ID             string   `yaml:"id"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Recommendation string   `yaml:"recommendation"`
	Severity       string   `yaml:"severity"`   // critical|high|medium|low
	Category       string   `yaml:"category"`   // defaults by kind
	VisaTypes      []string `yaml:"visa_types"` // empty = all

	// Document-presence kind: triggers when the document is absent.
	Document       string `yaml:"document"`
	OnlyIfRequired bool   `yaml:"only_if_required"`

	// Fact-threshold kind: triggers when the fact crosses the bound.
	Fact  string  `yaml:"fact"` // e.g. "employer.netIncome"
	Op    string  `yaml:"op"`   // lt|le|gt|ge|eq
	Value float64 `yaml:"value"`

	Confidence float64 `yaml:"confidence"` // default 0.85
}

// LoadAndRegister reads a pack file and registers each compiled rule.
// It returns the number of rules registered.
func LoadAndRegister(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules pack: %w", err)
	}
	var p pack
	if err := yaml.Unmarshal(b, &p); err != nil {
		return 0, fmt.Errorf("parse rules pack: %w", err)
	}
	var n int
	for _, pr := range p.Rules {
		r, err := compile(pr)
		if err != nil {
			return n, fmt.Errorf("compile rule %q: %w", pr.ID, err)
		}
		if err := rules.Register(r); err != nil {
			return n, fmt.Errorf("register rule %q: %w", pr.ID, err)
		}
		n++
	}
	return n, nil
}

func compile(pr packRule) (rules.Rule, error) {
	if pr.ID == "" || pr.Title == "" || pr.Recommendation == "" {
		return rules.Rule{}, fmt.Errorf("id, title and recommendation are required")
	}
	sev, err := parseSeverity(pr.Severity)
	if err != nil {
		return rules.Rule{}, err
	}
	vts, err := parseVisaTypes(pr.VisaTypes)
	if err != nil {
		return rules.Rule{}, err
	}
	conf := pr.Confidence
	if conf == 0 {
		conf = 0.85
	}
	if conf < 0 || conf > 1 {
		return rules.Rule{}, fmt.Errorf("confidence %v out of [0,1]", conf)
	}

	r := rules.Rule{
		ID:             pr.ID,
		VisaTypes:      vts,
		Severity:       sev,
		Title:          pr.Title,
		Description:    pr.Description,
		Recommendation: pr.Recommendation,
	}

	switch {
	case pr.Document != "" && pr.Fact != "":
		return rules.Rule{}, fmt.Errorf("rule cannot be both document and fact kind")
	case pr.Document != "":
		r.Category = casefile.CategoryDocumentPresence
		r.Eval = documentEval(pr.Document, pr.OnlyIfRequired, conf)
	case pr.Fact != "":
		r.Category = casefile.CategoryFinancial
		cmp, err := comparator(pr.Op)
		if err != nil {
			return rules.Rule{}, err
		}
		get, err := factGetter(pr.Fact)
		if err != nil {
			return rules.Rule{}, err
		}
		r.Eval = factEval(pr.Fact, get, cmp, pr.Op, pr.Value, conf)
	default:
		return rules.Rule{}, fmt.Errorf("rule needs either document or fact")
	}
	if pr.Category != "" {
		r.Category = casefile.Category(pr.Category)
	}
	return r, nil
}

func documentEval(doc string, onlyIfRequired bool, conf float64) func(*casefile.AnalysisContext) casefile.RuleResult {
	return func(ctx *casefile.AnalysisContext) casefile.RuleResult {
		if onlyIfRequired && !ctx.Requires(doc) {
			return casefile.RuleResult{Triggered: false, Confidence: 0.70}
		}
		if ctx.HasDocument(doc) {
			return casefile.RuleResult{Triggered: false, Confidence: conf}
		}
		return casefile.RuleResult{
			Triggered:  true,
			Confidence: conf,
			Evidence:   []string{fmt.Sprintf("Document %q has not been uploaded", doc)},
		}
	}
}

func factEval(name string, get func(*casefile.AnalysisContext) *float64, cmp func(a, b float64) bool, op string, bound, conf float64) func(*casefile.AnalysisContext) casefile.RuleResult {
	return func(ctx *casefile.AnalysisContext) casefile.RuleResult {
		v := get(ctx)
		if v == nil {
			return casefile.RuleResult{
				Triggered:  false,
				Confidence: 0.35,
				Details:    fmt.Sprintf("fact %s not on file", name),
			}
		}
		if !cmp(*v, bound) {
			return casefile.RuleResult{Triggered: false, Confidence: conf}
		}
		return casefile.RuleResult{
			Triggered:  true,
			Confidence: conf,
			Evidence:   []string{fmt.Sprintf("%s is %.2f (%s %.2f)", name, *v, op, bound)},
		}
	}
}

func comparator(op string) (func(a, b float64) bool, error) {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "lt":
		return func(a, b float64) bool { return a < b }, nil
	case "le":
		return func(a, b float64) bool { return a <= b }, nil
	case "gt":
		return func(a, b float64) bool { return a > b }, nil
	case "ge":
		return func(a, b float64) bool { return a >= b }, nil
	case "eq":
		return func(a, b float64) bool { return a == b }, nil
	default:
		return nil, fmt.Errorf("unknown op %q", op)
	}
}

// factGetter resolves a dotted fact path into an accessor over the context's
// fact bags.
func factGetter(path string) (func(*casefile.AnalysisContext) *float64, error) {
	switch strings.ToLower(strings.TrimSpace(path)) {
	case "employer.netincome":
		return func(c *casefile.AnalysisContext) *float64 { return c.Employer.NetIncome }, nil
	case "employer.netcurrentassets":
		return func(c *casefile.AnalysisContext) *float64 { return c.Employer.NetCurrentAssets }, nil
	case "employer.annualrevenue":
		return func(c *casefile.AnalysisContext) *float64 { return c.Employer.AnnualRevenue }, nil
	case "employer.employeecount":
		return func(c *casefile.AnalysisContext) *float64 { return intPtrToFloat(c.Employer.EmployeeCount) }, nil
	case "beneficiary.yearsexperience":
		return func(c *casefile.AnalysisContext) *float64 { return c.Beneficiary.YearsExperience }, nil
	case "beneficiary.daysoutofstatus":
		return func(c *casefile.AnalysisContext) *float64 { return intPtrToFloat(c.Beneficiary.DaysOutOfStatus) }, nil
	case "financial.sponsorincome":
		return func(c *casefile.AnalysisContext) *float64 { return c.Financial.SponsorIncome }, nil
	case "financial.householdsize":
		return func(c *casefile.AnalysisContext) *float64 { return intPtrToFloat(c.Financial.HouseholdSize) }, nil
	case "financial.profferedwage":
		return func(c *casefile.AnalysisContext) *float64 { return c.Financial.ProfferedWage }, nil
	default:
		return nil, fmt.Errorf("unknown fact path %q", path)
	}
}

func intPtrToFloat(p *int) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}

func parseSeverity(s string) (casefile.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return casefile.SeverityCritical, nil
	case "high":
		return casefile.SeverityHigh, nil
	case "medium", "":
		return casefile.SeverityMedium, nil
	case "low":
		return casefile.SeverityLow, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

func parseVisaTypes(in []string) ([]casefile.VisaType, error) {
	if len(in) == 0 {
		return casefile.AllVisaTypes(), nil
	}
	known := map[casefile.VisaType]bool{}
	for _, vt := range casefile.AllVisaTypes() {
		known[vt] = true
	}
	var out []casefile.VisaType
	for _, s := range in {
		vt := casefile.VisaType(strings.ToUpper(strings.TrimSpace(s)))
		if !known[vt] {
			return nil, fmt.Errorf("unknown visa type %q", s)
		}
		out = append(out, vt)
	}
	return out, nil
}
