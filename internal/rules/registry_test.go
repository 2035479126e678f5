package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/rfescope/internal/casefile"
)

func TestRegistry_RuleIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range All() {
		require.False(t, seen[r.ID], "duplicate rule id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestRegistry_EveryRuleHasVisaTypesAndEval(t *testing.T) {
	for _, r := range All() {
		assert.NotEmpty(t, r.VisaTypes, "rule %s has no visa types", r.ID)
		assert.NotNil(t, r.Eval, "rule %s has no evaluator", r.ID)
		assert.NotEmpty(t, r.Title, "rule %s has no title", r.ID)
		assert.NotEmpty(t, r.Recommendation, "rule %s has no recommendation", r.ID)
	}
}

func TestRegistry_EveryVisaTypeCovered(t *testing.T) {
	for _, vt := range casefile.AllVisaTypes() {
		rs := ForVisaType(vt)
		assert.NotEmpty(t, rs, "visa type %s has no applicable rules", vt)
	}
}

func TestRegistry_VisaSpecificBeforeCommon(t *testing.T) {
	rs := ForVisaType(casefile.VisaH1B)
	require.NotEmpty(t, rs)
	// Registration order puts the H-1B set ahead of the shared set.
	assert.Equal(t, "H1B-LCA-MISSING", rs[0].ID)
	last := rs[len(rs)-1]
	assert.Len(t, last.VisaTypes, len(casefile.AllVisaTypes()),
		"expected a common rule at the end, got %s", last.ID)
}

func TestRegistry_ForVisaTypeIdempotent(t *testing.T) {
	a := ForVisaType(casefile.VisaI485)
	b := ForVisaType(casefile.VisaI485)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}

func TestRegistry_UnknownVisaTypeMatchesNothing(t *testing.T) {
	assert.Empty(t, ForVisaType(casefile.VisaType("B2")))
}

func TestRegistry_DisabledRulesFiltered(t *testing.T) {
	defer SetSettings(defaultSettings())

	SetSettings(Settings{Disabled: DisabledSet([]string{"COMMON-PASSPORT-MISSING"})})
	for _, r := range ForVisaType(casefile.VisaH1B) {
		assert.NotEqual(t, "COMMON-PASSPORT-MISSING", r.ID)
	}
	// Still present in the full inventory.
	_, ok := Get("common-passport-missing")
	assert.True(t, ok)
}

func TestRegister_RejectsDefects(t *testing.T) {
	eval := func(*casefile.AnalysisContext) casefile.RuleResult { return casefile.RuleResult{} }

	err := Register(Rule{ID: "", VisaTypes: []casefile.VisaType{casefile.VisaH1B}, Eval: eval})
	assert.Error(t, err)

	err = Register(Rule{ID: "H1B-LCA-MISSING", VisaTypes: []casefile.VisaType{casefile.VisaH1B}, Eval: eval})
	assert.Error(t, err, "duplicate id must be rejected")

	err = Register(Rule{ID: "TEST-NO-VISAS", Eval: eval})
	assert.Error(t, err)

	err = Register(Rule{ID: "TEST-NO-EVAL", VisaTypes: []casefile.VisaType{casefile.VisaH1B}})
	assert.Error(t, err)
}
