package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/rfescope/internal/casefile"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "rfescope.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.CreateSchema())
	return db
}

func sampleAssessment(id, caseID string, score float64, at time.Time) *casefile.AssessmentResult {
	return &casefile.AssessmentResult{
		ID:                      id,
		CaseID:                  caseID,
		VisaType:                casefile.VisaH1B,
		RFERiskScore:            score,
		RiskLevel:               casefile.RiskMedium,
		EstimatedRFEProbability: 1 - score/100,
		TriggeredRules: []casefile.TriggeredRule{
			{
				RuleID:         "H1B-LCA-MISSING",
				Title:          "Certified LCA missing",
				Recommendation: "Obtain the certified LCA.",
				Severity:       casefile.SeverityCritical,
				Category:       casefile.CategoryDocumentPresence,
				Confidence:     0.95,
				Evidence:       []string{"No certified_lca document on file"},
			},
		},
		SafeRuleIDs:       []string{"H1B-STAFFING-END-CLIENT"},
		PriorityActions:   []string{"Obtain the certified LCA."},
		DataConfidence:    0.82,
		AssessedAt:        at,
		AssessmentVersion: "2026.08",
	}
}

func TestSaveAndLoadAssessment(t *testing.T) {
	db := openTestDB(t)
	at := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	in := sampleAssessment("a-1", "case-001", 62.5, at)

	require.NoError(t, db.SaveAssessment(in))

	out, err := db.LoadAssessment("a-1")
	require.NoError(t, err)
	assert.Equal(t, in.CaseID, out.CaseID)
	assert.Equal(t, in.RFERiskScore, out.RFERiskScore)
	assert.Equal(t, in.RiskLevel, out.RiskLevel)
	require.Len(t, out.TriggeredRules, 1)
	assert.Equal(t, "H1B-LCA-MISSING", out.TriggeredRules[0].RuleID)
	assert.True(t, out.AssessedAt.Equal(at))

	_, err = db.LoadAssessment("no-such-id")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveAssessment_UpsertRewritesRules(t *testing.T) {
	db := openTestDB(t)
	at := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	in := sampleAssessment("a-1", "case-001", 62.5, at)
	require.NoError(t, db.SaveAssessment(in))

	in.TriggeredRules = nil
	in.RFERiskScore = 100
	require.NoError(t, db.SaveAssessment(in))

	out, err := db.LoadAssessment("a-1")
	require.NoError(t, err)
	assert.Empty(t, out.TriggeredRules)

	hits, err := db.RuleHitCounts()
	require.NoError(t, err)
	assert.Empty(t, hits, "denormalized rows must follow the upsert")
}

func TestLoadLatestForCase(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveAssessment(sampleAssessment("a-1", "case-001", 40, base)))
	require.NoError(t, db.SaveAssessment(sampleAssessment("a-2", "case-001", 70, base.Add(2*time.Hour))))
	require.NoError(t, db.SaveAssessment(sampleAssessment("a-3", "case-other", 90, base.Add(4*time.Hour))))

	latest, err := db.LoadLatestForCase("case-001")
	require.NoError(t, err)
	assert.Equal(t, "a-2", latest.ID)

	_, err = db.LoadLatestForCase("case-missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListAssessments(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveAssessment(sampleAssessment("a-1", "case-001", 40, base)))
	require.NoError(t, db.SaveAssessment(sampleAssessment("a-2", "case-002", 70, base.Add(time.Hour))))

	all, err := db.ListAssessments("", 50, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a-2", all[0].ID, "newest first")
	assert.Equal(t, 1, all[0].TriggeredCount)

	one, err := db.ListAssessments("case-001", 50, 0)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "a-1", one[0].ID)

	ok, err := db.HasAssessment("a-1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = db.HasAssessment("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRuleHitCounts(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a-1", "a-2", "a-3"} {
		a := sampleAssessment(id, "case-00"+id, 50, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, db.SaveAssessment(a))
	}

	hits, err := db.RuleHitCounts()
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "H1B-LCA-MISSING", hits[0].RuleID)
	assert.Equal(t, 3, hits[0].Count)
	assert.Equal(t, string(casefile.SeverityCritical), hits[0].Severity)
}

func TestSuppressionLifecycle(t *testing.T) {
	db := openTestDB(t)
	expires := time.Now().Add(24 * time.Hour)

	caseScoped, err := db.CreateSuppression("H1B-LCA-MISSING", "case-001", "cap-exempt filing", "admin", expires)
	require.NoError(t, err)
	_, err = db.CreateSuppression("COMMON-FILING-FEE-UNPAID", "", "fees handled outside the system", "admin", expires)
	require.NoError(t, err)
	_, err = db.CreateSuppression("I130-RECENT-MARRIAGE", "", "stale", "admin", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	ids, err := db.ActiveSuppressionIDs("case-001")
	require.NoError(t, err)
	assert.Equal(t, []string{"COMMON-FILING-FEE-UNPAID", "H1B-LCA-MISSING"}, ids)

	// Other cases only see the practice-wide suppression.
	ids, err = db.ActiveSuppressionIDs("case-002")
	require.NoError(t, err)
	assert.Equal(t, []string{"COMMON-FILING-FEE-UNPAID"}, ids)

	require.NoError(t, db.RevokeSuppression(caseScoped))
	ids, err = db.ActiveSuppressionIDs("case-001")
	require.NoError(t, err)
	assert.Equal(t, []string{"COMMON-FILING-FEE-UNPAID"}, ids)

	active, err := db.ListSuppressions(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "COMMON-FILING-FEE-UNPAID", active[0].RuleID)

	all, err := db.ListSuppressions(false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUsersAndSessions(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreateUser("jlee", "hash", "attorney")
	require.NoError(t, err)

	_, err = db.CreateUser("jlee", "hash2", "admin")
	require.Error(t, err, "usernames are unique")

	u, hash, err := db.GetUserByUsername("jlee")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "attorney", u.Role)
	assert.Equal(t, "hash", hash)

	require.NoError(t, db.CreateSession(id, "tok-1", time.Now().Add(time.Hour)))
	got, err := db.GetSession("tok-1")
	require.NoError(t, err)
	assert.Equal(t, "jlee", got.Username)

	require.NoError(t, db.CreateSession(id, "tok-stale", time.Now().Add(-time.Minute)))
	_, err = db.GetSession("tok-stale")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, db.DeleteSession("tok-1"))
	_, err = db.GetSession("tok-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, db.LogAudit("jlee", "login", "", map[string]any{"ip": "127.0.0.1"}))
}
