package casefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidContext marks caller contract violations in a context document.
// A context missing its identity is a bug in the collaborator that built it,
// not a data-quality gap in the case, so it is rejected before evaluation.
var ErrInvalidContext = errors.New("invalid analysis context")

// Diagnostics collects non-fatal oddities noticed while loading a context.
type Diagnostics struct {
	Warnings []string
}

func (d *Diagnostics) warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// Load decodes one AnalysisContext JSON document and validates the caller
// contract. Unknown fields are rejected so drift between the data layer and
// the engine surfaces immediately.
func Load(r io.Reader) (AnalysisContext, Diagnostics, error) {
	var ctx AnalysisContext
	diags := Diagnostics{}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ctx); err != nil {
		return AnalysisContext{}, diags, fmt.Errorf("decode context: %w", err)
	}

	if err := Validate(&ctx); err != nil {
		return AnalysisContext{}, diags, err
	}

	if ctx.BonaFideEvidenceCount == 0 && len(ctx.BonaFideEvidenceCategories) > 0 {
		diags.warnf("bonaFideEvidenceCount is 0 but %d categories listed; using category list",
			len(ctx.BonaFideEvidenceCategories))
	}
	if ctx.Deadline != nil && !ctx.ReferenceTime.IsZero() && ctx.Deadline.Before(ctx.ReferenceTime) {
		diags.warnf("deadline %s is already past", ctx.Deadline.Format("2006-01-02"))
	}
	for _, dt := range ctx.UploadedDocumentTypes {
		if dt == "" {
			diags.warnf("empty uploaded document type entry")
		}
	}
	return ctx, diags, nil
}

// LoadFile loads and validates a context document from disk.
func LoadFile(path string) (AnalysisContext, Diagnostics, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return AnalysisContext{}, Diagnostics{}, fmt.Errorf("read context %s: %w", path, err)
	}
	return Load(bytes.NewReader(b))
}

// Validate checks the caller contract on a context. It does not judge data
// quality; absent facts are the rules' concern, not validation's.
func Validate(ctx *AnalysisContext) error {
	if ctx.CaseID == "" {
		return fmt.Errorf("%w: caseId is required", ErrInvalidContext)
	}
	if ctx.VisaType == "" {
		return fmt.Errorf("%w: visaType is required", ErrInvalidContext)
	}
	return nil
}
