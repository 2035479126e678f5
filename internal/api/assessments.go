package api

import (
	"errors"
	"net/http"

	"github.com/caselens/rfescope/internal/casefile"
)

// POST /api/v1/assessments
//
// Body: one AnalysisContext JSON document built by the data layer. The
// handler loads active rule suppressions for the case, runs the engine,
// persists the result, and returns it. Rule-evaluation defects never reach
// the client; a contract-invalid context fails with 400.
func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	ctx, diags, err := casefile.Load(r.Body)
	if err != nil {
		if errors.Is(err, casefile.ErrInvalidContext) {
			s.err(w, http.StatusBadRequest, err.Error())
			return
		}
		s.err(w, http.StatusBadRequest, "invalid context document: "+err.Error())
		return
	}

	suppressed, err := s.DB.ActiveSuppressionIDs(ctx.CaseID)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	result, err := s.Engine.Assess(ctx, suppressed...)
	if err != nil {
		// Validate already passed in Load; anything here is a server defect.
		s.Logger.Error("assessment failed", "case", ctx.CaseID, "err", err)
		s.err(w, http.StatusInternalServerError, "assessment unavailable")
		return
	}

	if err := s.DB.SaveAssessment(result); err != nil {
		s.Logger.Error("save assessment", "assessment", result.ID, "err", err)
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	if u, ok := userFromCtx(r.Context()); ok {
		_ = s.UserStore.LogAudit(u.Username, "assessment:create", result.ID, map[string]any{
			"case":  ctx.CaseID,
			"visa":  string(ctx.VisaType),
			"score": result.RFERiskScore,
		})
	}

	resp := map[string]any{"assessment": result}
	if len(diags.Warnings) > 0 {
		resp["warnings"] = diags.Warnings
	}
	writeJSON(w, http.StatusCreated, resp)
}
