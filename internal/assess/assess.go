// Package assess turns a case's analysis context into an RFE risk assessment
// by evaluating every applicable registry rule and reducing the verdicts into
// a single explainable score.
package assess

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caselens/rfescope/internal/casefile"
	"github.com/caselens/rfescope/internal/rules"
)

// Engine performs one-shot, stateless assessments. It is safe for concurrent
// use: the rule registry is read-only and each assessment works on its own
// copy of the context.
type Engine struct {
	logger *slog.Logger
	lookup func(casefile.VisaType) []rules.Rule
	now    func() time.Time
	newID  func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger rule-evaluation defects are reported to.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithLookup overrides the rule source. Tests use it to inject synthetic
// rules without touching the global registry.
func WithLookup(fn func(casefile.VisaType) []rules.Rule) Option {
	return func(e *Engine) { e.lookup = fn }
}

// WithClock overrides the time source for reproducible results.
func WithClock(fn func() time.Time) Option { return func(e *Engine) { e.now = fn } }

// NewEngine returns an Engine backed by the global rule registry.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
		lookup: rules.ForVisaType,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Assess evaluates every rule applicable to the context's visa type and
// aggregates the verdicts. suppressed lists rule ids to skip for this case
// (attorney-approved suppressions); skipped rules contribute nothing to the
// score or the data-confidence signal.
//
// It returns an error only for caller contract violations in the context;
// a defective rule is recovered, logged, and excluded rather than aborting
// the assessment.
func (e *Engine) Assess(ctx casefile.AnalysisContext, suppressed ...string) (*casefile.AssessmentResult, error) {
	if err := casefile.Validate(&ctx); err != nil {
		return nil, err
	}
	now := e.now().UTC()
	if ctx.ReferenceTime.IsZero() {
		ctx.ReferenceTime = now
	}

	skip := map[string]bool{}
	for _, id := range suppressed {
		skip[strings.ToLower(strings.TrimSpace(id))] = true
	}

	applicable := e.lookup(ctx.VisaType)

	type verdict struct {
		rule   rules.Rule
		result casefile.RuleResult
		order  int
	}
	var (
		triggered []verdict
		safe      []string
		confSum   float64
		evaluated int
	)

	for i, r := range applicable {
		if skip[strings.ToLower(r.ID)] {
			continue
		}
		res, err := e.evalOne(r, &ctx)
		if err != nil {
			// Rule defect: exclude from scoring, surface to observability.
			e.logger.Warn("rule evaluation defect",
				"rule", r.ID, "case", ctx.CaseID, "err", err)
			continue
		}
		evaluated++
		confSum += res.Confidence
		if res.Triggered {
			triggered = append(triggered, verdict{rule: r, result: res, order: i})
		} else {
			safe = append(safe, r.ID)
		}
	}

	// Most severe first; registration order breaks ties deterministically.
	sort.SliceStable(triggered, func(i, j int) bool {
		ri := casefile.SeverityRank(triggered[i].rule.Severity)
		rj := casefile.SeverityRank(triggered[j].rule.Severity)
		if ri != rj {
			return ri > rj
		}
		return triggered[i].order < triggered[j].order
	})

	score := 100.0
	out := make([]casefile.TriggeredRule, 0, len(triggered))
	var actions []string
	seenActions := map[string]bool{}
	for _, v := range triggered {
		score -= rules.SeverityPenalties[v.rule.Severity] * v.result.Confidence
		out = append(out, casefile.TriggeredRule{
			RuleID:         v.rule.ID,
			Title:          v.rule.Title,
			Description:    v.rule.Description,
			Recommendation: v.rule.Recommendation,
			Severity:       v.rule.Severity,
			Category:       v.rule.Category,
			Confidence:     v.result.Confidence,
			Evidence:       v.result.Evidence,
			Details:        v.result.Details,
		})
		if rec := strings.TrimSpace(v.rule.Recommendation); rec != "" && !seenActions[rec] {
			seenActions[rec] = true
			actions = append(actions, rec)
		}
	}
	score = clamp(score, 0, 100)
	if limit := rules.CurrentSettings().MaxPriorityActions; len(actions) > limit {
		actions = actions[:limit]
	}

	dataConf := 0.0
	if evaluated > 0 {
		dataConf = confSum / float64(evaluated)
	}

	return &casefile.AssessmentResult{
		ID:                      e.newID(),
		CaseID:                  ctx.CaseID,
		VisaType:                ctx.VisaType,
		RFERiskScore:            score,
		RiskLevel:               RiskLevelForScore(score),
		EstimatedRFEProbability: clamp(1-score/100, 0, 1),
		TriggeredRules:          out,
		SafeRuleIDs:             safe,
		PriorityActions:         actions,
		DataConfidence:          dataConf,
		AssessedAt:              now,
		AssessmentVersion:       rules.RulesetVersion,
	}, nil
}

// evalOne runs a single rule, converting a panic into an error.
func (e *Engine) evalOne(r rules.Rule, ctx *casefile.AnalysisContext) (res casefile.RuleResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("rule %s panicked: %v", r.ID, p)
		}
	}()
	res = r.Eval(ctx)
	res.Confidence = clamp(res.Confidence, 0, 1)
	if res.Triggered && len(res.Evidence) == 0 {
		// Explainability invariant: every finding names its evidence.
		return res, fmt.Errorf("rule %s triggered without evidence", r.ID)
	}
	return res, nil
}

// RiskLevelForScore maps a score to its coarse band. Bands are deliberately
// non-linear near the bottom: legal risk compounds faster at low scores.
func RiskLevelForScore(score float64) casefile.RiskLevel {
	switch {
	case score >= 80:
		return casefile.RiskLow
	case score >= 60:
		return casefile.RiskMedium
	case score >= 35:
		return casefile.RiskHigh
	default:
		return casefile.RiskCritical
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
