package storage

import (
	"database/sql"
	"time"
)

// Suppression records an attorney's decision to silence one rule, either for
// a single case or practice-wide, with a reason and an expiry. Active
// suppressions are fed to the engine as a skip list; they never persist past
// their expiry.
type Suppression struct {
	ID        int64      `json:"id"`
	RuleID    string     `json:"ruleId"`
	CaseID    string     `json:"caseId,omitempty"` // empty = every case
	Reason    string     `json:"reason"`
	ExpiresAt time.Time  `json:"expiresAt"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

func (db *DB) CreateSuppression(ruleID, caseID, reason, createdBy string, expires time.Time) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := db.conn.Exec(`
INSERT INTO suppressions(rule_id, case_id, reason, expires_at, created_by, created_at)
VALUES(?,?,?,?,?,?)`,
		ruleID, nz(caseID), reason, expires.UTC().Format(time.RFC3339Nano), createdBy, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) RevokeSuppression(id int64) error {
	_, err := db.conn.Exec(`UPDATE suppressions SET revoked_at=? WHERE id=? AND revoked_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339Nano), id)
	return err
}

// ActiveSuppressionIDs returns the rule ids currently suppressed for a case:
// case-scoped suppressions plus practice-wide ones.
func (db *DB) ActiveSuppressionIDs(caseID string) ([]string, error) {
	const q = `
SELECT DISTINCT rule_id FROM suppressions
WHERE revoked_at IS NULL AND expires_at > ?
  AND (case_id IS NULL OR case_id = ?)
ORDER BY rule_id`
	rows, err := db.conn.Query(q, time.Now().UTC().Format(time.RFC3339Nano), caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (db *DB) ListSuppressions(activeOnly bool) ([]Suppression, error) {
	q := `
SELECT id, rule_id, COALESCE(case_id,''), reason, expires_at, created_by, created_at, revoked_at
FROM suppressions`
	args := []any{}
	if activeOnly {
		q += ` WHERE revoked_at IS NULL AND expires_at > ?`
		args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	}
	q += ` ORDER BY id DESC`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Suppression
	for rows.Next() {
		var (
			s           Suppression
			exp, ca, ra sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.RuleID, &s.CaseID, &s.Reason, &exp, &s.CreatedBy, &ca, &ra); err != nil {
			return nil, err
		}
		if exp.Valid {
			s.ExpiresAt = parseStoredTime(exp.String)
		}
		if ca.Valid {
			s.CreatedAt = parseStoredTime(ca.String)
		}
		if ra.Valid {
			t := parseStoredTime(ra.String)
			s.RevokedAt = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nz(s string) any {
	if s == "" {
		return nil
	}
	return s
}
