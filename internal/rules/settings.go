package rules

import "strings"

// Settings tunes rule evaluation process-wide. Set once at startup from
// config; rules read it but never write it.
type Settings struct {
	// Disabled rule ids (lowercased) are excluded from ForVisaType.
	Disabled map[string]bool
	// MaxPriorityActions caps the recommendation list in a result.
	MaxPriorityActions int
	// DeadlineWindowDays is how close a filing deadline must be before
	// timeline rules treat outstanding documents as urgent.
	DeadlineWindowDays int
	// BonaFideMinimumCategories is the number of independent evidence
	// categories a relationship-based petition should document.
	BonaFideMinimumCategories int
}

var rsettings = defaultSettings()

func defaultSettings() Settings {
	return Settings{
		Disabled:                  map[string]bool{},
		MaxPriorityActions:        5,
		DeadlineWindowDays:        14,
		BonaFideMinimumCategories: 3,
	}
}

// SetSettings replaces the active settings, filling zero fields with defaults.
func SetSettings(s Settings) {
	d := defaultSettings()
	if s.Disabled == nil {
		s.Disabled = d.Disabled
	}
	if s.MaxPriorityActions == 0 {
		s.MaxPriorityActions = d.MaxPriorityActions
	}
	if s.DeadlineWindowDays == 0 {
		s.DeadlineWindowDays = d.DeadlineWindowDays
	}
	if s.BonaFideMinimumCategories == 0 {
		s.BonaFideMinimumCategories = d.BonaFideMinimumCategories
	}
	rsettings = s
}

// CurrentSettings returns the active settings.
func CurrentSettings() Settings { return rsettings }

// DisabledSet normalizes a list of rule ids into the Disabled map shape.
func DisabledSet(ids []string) map[string]bool {
	out := map[string]bool{}
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			out[id] = true
		}
	}
	return out
}
