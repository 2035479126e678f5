package storage

import (
	"database/sql"
	"time"
)

// AssessmentRow is a lightweight listing row for the assessments index.
type AssessmentRow struct {
	ID             string    `json:"id"`
	CaseID         string    `json:"caseId"`
	VisaType       string    `json:"visaType"`
	RiskScore      float64   `json:"rfeRiskScore"`
	RiskLevel      string    `json:"riskLevel"`
	TriggeredCount int       `json:"triggeredCount"`
	AssessedAt     time.Time `json:"assessedAt"`
	Version        string    `json:"assessmentVersion"`
}

// ListAssessments returns recent assessments, optionally filtered to one
// case. caseID == "" means all cases.
func (db *DB) ListAssessments(caseID string, limit, offset int) ([]AssessmentRow, error) {
	q := `
		SELECT a.id, a.case_id, a.visa_type, a.risk_score, a.risk_level, a.assessed_at, a.version,
		       (SELECT COUNT(1) FROM triggered_rules t WHERE t.assessment_id = a.id) AS triggered
		  FROM assessments a`
	args := []any{}
	if caseID != "" {
		q += ` WHERE a.case_id = ?`
		args = append(args, caseID)
	}
	q += ` ORDER BY a.assessed_at DESC, a.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssessmentRow
	for rows.Next() {
		var ar AssessmentRow
		var assessedAt string
		if err := rows.Scan(&ar.ID, &ar.CaseID, &ar.VisaType, &ar.RiskScore, &ar.RiskLevel,
			&assessedAt, &ar.Version, &ar.TriggeredCount); err != nil {
			return nil, err
		}
		ar.AssessedAt = parseStoredTime(assessedAt)
		out = append(out, ar)
	}
	return out, rows.Err()
}

// RuleHit is one aggregate row of RuleHitCounts.
type RuleHit struct {
	RuleID   string `json:"ruleId"`
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

// RuleHitCounts reports how often each rule triggered across all stored
// assessments, most frequent first. Used by the practice dashboard to spot
// systemic intake gaps.
func (db *DB) RuleHitCounts() ([]RuleHit, error) {
	const q = `
		SELECT rule_id, severity, COUNT(1) AS hits
		  FROM triggered_rules
		 GROUP BY rule_id, severity
		 ORDER BY hits DESC, rule_id`
	rows, err := db.conn.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RuleHit
	for rows.Next() {
		var h RuleHit
		if err := rows.Scan(&h.RuleID, &h.Severity, &h.Count); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// HasAssessment reports whether an assessment id exists.
func (db *DB) HasAssessment(id string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`SELECT 1 FROM assessments WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// parseStoredTime decodes the RFC3339Nano timestamps this package writes,
// falling back to RFC3339 for rows written by older builds.
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
