package rules

import "github.com/caselens/rfescope/internal/casefile"

// SeverityPenalties is the maximum score deduction a single triggered rule of
// each severity can contribute. The aggregator scales these by the rule's
// confidence before subtracting from 100.
var SeverityPenalties = map[casefile.Severity]float64{
	casefile.SeverityCritical: 30,
	casefile.SeverityHigh:     15,
	casefile.SeverityMedium:   8,
	casefile.SeverityLow:      3,
}

// Federal Poverty Guidelines for the 48 contiguous states, by household size.
// 2025 HHS figures; sponsors must show income at or above 125% of these.
var povertyGuidelines = map[int]float64{
	1: 15650,
	2: 21150,
	3: 26650,
	4: 32150,
	5: 37650,
	6: 43150,
	7: 48650,
	8: 54150,
}

// Per-person increment for households larger than eight.
const povertyGuidelineStep = 5500

// PovertyGuideline returns the FPG for a household size. ok is false for
// non-positive sizes.
func PovertyGuideline(householdSize int) (float64, bool) {
	if householdSize < 1 {
		return 0, false
	}
	if g, ok := povertyGuidelines[householdSize]; ok {
		return g, true
	}
	return povertyGuidelines[8] + float64(householdSize-8)*povertyGuidelineStep, true
}

// SponsorIncomeFloor returns the 125%-of-FPG income threshold an I-864
// sponsor must meet for a household size.
func SponsorIncomeFloor(householdSize int) (float64, bool) {
	g, ok := PovertyGuideline(householdSize)
	if !ok {
		return 0, false
	}
	return g * 1.25, true
}

// DOL wage level designating an entry-level position.
const wageLevelEntry = "I"

// Years of experience beyond which an entry-level wage designation draws
// scrutiny.
const seniorExperienceYears = 5.0
