package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/caselens/rfescope/internal/assess"
	"github.com/caselens/rfescope/internal/casefile"
	"github.com/caselens/rfescope/internal/rules"
	"github.com/caselens/rfescope/internal/storage"
)

// Store is the minimal persistence contract the API needs.
type Store interface {
	SaveAssessment(a *casefile.AssessmentResult) error
	LoadAssessment(id string) (casefile.AssessmentResult, error)
	LoadLatestForCase(caseID string) (casefile.AssessmentResult, error)
	ListAssessments(caseID string, limit, offset int) ([]storage.AssessmentRow, error)
	RuleHitCounts() ([]storage.RuleHit, error)

	ActiveSuppressionIDs(caseID string) ([]string, error)
	ListSuppressions(activeOnly bool) ([]storage.Suppression, error)
	CreateSuppression(ruleID, caseID, reason, createdBy string, expires time.Time) (int64, error)
	RevokeSuppression(id int64) error
}

// UserStore is the auth/audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	DB              Store
	UserStore       UserStore
	Engine          *assess.Engine
	Logger          *slog.Logger
	AllowedOrigins  []string
	SessionDuration time.Duration
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	withCORS := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			h(w, r)
		}
	}

	// Health
	mux.HandleFunc("GET /api/v1/health", withCORS(s.handleHealth))

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", withCORS(s.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/logout", withCORS(withAuth(s, s.handleLogout, "auth:logout")))
	mux.HandleFunc("GET /api/v1/me", withCORS(withAuth(s, s.handleMe, "me")))

	// Assessments
	mux.HandleFunc("POST /api/v1/assessments", withCORS(withAuth(s, s.handleCreateAssessment, "assessments:create")))
	mux.HandleFunc("GET /api/v1/assessments", withCORS(s.handleListAssessments))
	mux.HandleFunc("GET /api/v1/assessments/latest", withCORS(s.handleLatestAssessment))
	mux.HandleFunc("GET /api/v1/assessments/{id}", withCORS(s.handleGetAssessment))

	// Rules inventory
	mux.HandleFunc("GET /api/v1/rules", withCORS(s.handleRules))
	mux.HandleFunc("GET /api/v1/rules/hits", withCORS(withAuth(s, s.handleRuleHits, "rules:hits")))

	// Suppressions
	mux.HandleFunc("GET /api/v1/suppressions", withCORS(withAuth(s, s.handleListSuppressions, "suppressions:list")))
	mux.HandleFunc("POST /api/v1/suppressions", withCORS(withAdmin(s, s.handleCreateSuppression, "suppressions:create")))
	mux.HandleFunc("POST /api/v1/suppressions/{id}/revoke", withCORS(withAdmin(s, s.handleRevokeSuppression, "suppressions:revoke")))

	// Fallback 404
	mux.HandleFunc("/", withCORS(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"version":   rules.RulesetVersion,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clampInt(parseInt(q.Get("limit"), 20), 1, 200)
	offset := parseInt(q.Get("offset"), 0)
	caseID := strings.TrimSpace(q.Get("case_id"))

	rows, err := s.DB.ListAssessments(caseID, limit, offset)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleLatestAssessment(w http.ResponseWriter, r *http.Request) {
	caseID := strings.TrimSpace(r.URL.Query().Get("case_id"))
	if caseID == "" {
		s.err(w, http.StatusBadRequest, "case_id is required")
		return
	}
	a, err := s.DB.LoadLatestForCase(caseID)
	if err != nil {
		s.err(w, http.StatusNotFound, "no assessments for case")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, err := s.DB.LoadAssessment(id)
	if err != nil {
		s.err(w, http.StatusNotFound, "assessment not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GET /api/v1/rules (optionally ?visa=H1B; no auth needed for read-only)
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	type R struct {
		ID        string   `json:"id"`
		Title     string   `json:"title"`
		Severity  string   `json:"severity"`
		Category  string   `json:"category"`
		VisaTypes []string `json:"visaTypes"`
	}
	var list []rules.Rule
	if visa := strings.TrimSpace(r.URL.Query().Get("visa")); visa != "" {
		list = rules.ForVisaType(casefile.VisaType(strings.ToUpper(visa)))
	} else {
		list = rules.All()
	}
	var out []R
	for _, rr := range list {
		vts := make([]string, 0, len(rr.VisaTypes))
		for _, vt := range rr.VisaTypes {
			vts = append(vts, string(vt))
		}
		out = append(out, R{
			ID: rr.ID, Title: rr.Title,
			Severity: string(rr.Severity), Category: string(rr.Category),
			VisaTypes: vts,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

func (s *Server) handleRuleHits(w http.ResponseWriter, r *http.Request) {
	hits, err := s.DB.RuleHitCounts()
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": hits})
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
