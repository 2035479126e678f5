package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/caselens/rfescope/internal/casefile"
)

// DB is the concrete storage backed by SQLite. The engine itself never
// persists anything; this package is the collaborator that does.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures all tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS assessments (
  id              TEXT PRIMARY KEY,
  case_id         TEXT NOT NULL,
  visa_type       TEXT NOT NULL,
  risk_score      REAL NOT NULL,
  risk_level      TEXT NOT NULL,
  rfe_probability REAL NOT NULL,
  data_confidence REAL NOT NULL,
  assessed_at     TEXT NOT NULL,   -- RFC3339Nano
  version         TEXT NOT NULL,
  result_json     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_case ON assessments(case_id, assessed_at);

CREATE TABLE IF NOT EXISTS triggered_rules (
  assessment_id  TEXT NOT NULL,
  rule_id        TEXT NOT NULL,
  severity       TEXT NOT NULL,
  category       TEXT NOT NULL,
  title          TEXT NOT NULL,
  recommendation TEXT NOT NULL,
  confidence     REAL NOT NULL,
  evidence_json  TEXT NOT NULL,
  PRIMARY KEY (assessment_id, rule_id),
  FOREIGN KEY(assessment_id) REFERENCES assessments(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_triggered_rule ON triggered_rules(rule_id);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'attorney',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);

CREATE TABLE IF NOT EXISTS suppressions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rule_id     TEXT NOT NULL,
  case_id     TEXT,              -- NULL = every case
  reason      TEXT NOT NULL,
  expires_at  TEXT NOT NULL,     -- RFC3339Nano
  created_by  TEXT NOT NULL,
  created_at  TEXT NOT NULL,
  revoked_at  TEXT               -- NULL = active
);
`)
	return err
}

// SaveAssessment upserts the full result JSON and (re)writes its denormalized
// triggered-rule rows.
func (db *DB) SaveAssessment(a *casefile.AssessmentResult) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	ts := a.AssessedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO assessments (id, case_id, visa_type, risk_score, risk_level, rfe_probability, data_confidence, assessed_at, version, result_json)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET result_json=excluded.result_json, assessed_at=excluded.assessed_at`,
		a.ID, a.CaseID, string(a.VisaType), a.RFERiskScore, string(a.RiskLevel),
		a.EstimatedRFEProbability, a.DataConfidence, ts, a.AssessmentVersion, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM triggered_rules WHERE assessment_id = ?`, a.ID); err != nil {
		return err
	}
	if len(a.TriggeredRules) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO triggered_rules
			(assessment_id, rule_id, severity, category, title, recommendation, confidence, evidence_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, tr := range a.TriggeredRules {
			ev, _ := json.Marshal(tr.Evidence)
			if _, err := stmt.Exec(
				a.ID, tr.RuleID, string(tr.Severity), string(tr.Category),
				tr.Title, tr.Recommendation, tr.Confidence, string(ev),
			); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// LoadAssessment returns the full result (from stored JSON).
func (db *DB) LoadAssessment(id string) (casefile.AssessmentResult, error) {
	var s string
	row := db.conn.QueryRow(`SELECT result_json FROM assessments WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		return casefile.AssessmentResult{}, err
	}
	var a casefile.AssessmentResult
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return casefile.AssessmentResult{}, fmt.Errorf("decode stored assessment %s: %w", id, err)
	}
	return a, nil
}

// LoadLatestForCase returns the most recent assessment of a case.
func (db *DB) LoadLatestForCase(caseID string) (casefile.AssessmentResult, error) {
	var id string
	row := db.conn.QueryRow(
		`SELECT id FROM assessments WHERE case_id = ? ORDER BY assessed_at DESC, id DESC LIMIT 1`, caseID)
	if err := row.Scan(&id); err != nil {
		return casefile.AssessmentResult{}, err
	}
	return db.LoadAssessment(id)
}
