package rules

import (
	"fmt"
	"strings"

	"github.com/caselens/rfescope/internal/casefile"
)

// RulesetVersion identifies the rule-set revision stamped into every
// assessment result. Bump it whenever rule logic or thresholds change.
const RulesetVersion = "2026.08"

var (
	registry  []Rule
	ruleIndex = map[string]int{} // lower(ruleID) -> index
)

// The registry is an explicit concatenation of the per-visa-family rule sets,
// visa-specific sets before the shared common set. It is assembled once at
// process start and never mutated afterward, so concurrent assessments may
// read it without locking.
func init() {
	for _, set := range [][]Rule{
		h1bRules(),
		i130Rules(),
		i485Rules(),
		i140Rules(),
		commonRules(),
	} {
		for _, r := range set {
			MustRegister(r)
		}
	}
}

// Register adds a rule to the registry. It is intended for startup-time use
// only (built-in sets and the YAML rules pack); the registry must not grow
// once assessments begin.
func Register(r Rule) error {
	key := strings.ToLower(strings.TrimSpace(r.ID))
	if key == "" {
		return fmt.Errorf("rule with empty id")
	}
	if _, dup := ruleIndex[key]; dup {
		return fmt.Errorf("duplicate rule id %q", r.ID)
	}
	if len(r.VisaTypes) == 0 {
		return fmt.Errorf("rule %q has no applicable visa types", r.ID)
	}
	if r.Eval == nil {
		return fmt.Errorf("rule %q has no evaluator", r.ID)
	}
	registry = append(registry, r)
	ruleIndex[key] = len(registry) - 1
	return nil
}

// MustRegister panics on a registration defect. Built-in sets use it so an
// invalid rule fails the process at init rather than skewing assessments.
func MustRegister(r Rule) {
	if err := Register(r); err != nil {
		panic("rules: " + err.Error())
	}
}

// ForVisaType returns every registered rule applicable to a visa type,
// preserving registration order, minus rules disabled in settings. Unknown
// visa types simply match zero rules. The returned slice is a fresh copy.
func ForVisaType(vt casefile.VisaType) []Rule {
	var out []Rule
	for _, r := range registry {
		if rsettings.Disabled[strings.ToLower(r.ID)] {
			continue
		}
		if r.AppliesTo(vt) {
			out = append(out, r)
		}
	}
	return out
}

// All returns the full registry (including disabled rules) for introspection
// and CI completeness checks.
func All() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	return out
}

// Get returns a rule by id if registered.
func Get(id string) (Rule, bool) {
	idx, ok := ruleIndex[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Rule{}, false
	}
	return registry[idx], true
}
