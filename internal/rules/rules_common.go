package rules

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/caselens/rfescope/internal/casefile"
)

// commonRules apply to every visa type the product supports. They are
// registered after the visa-specific sets.
func commonRules() []Rule {
	all := casefile.AllVisaTypes()
	return []Rule{
		{
			ID:             "COMMON-PASSPORT-MISSING",
			VisaTypes:      all,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityHigh,
			Title:          "Passport copy missing",
			Description:    "A passport biographic page is required for this case but has not been uploaded.",
			Recommendation: "Upload a clear copy of the beneficiary's passport biographic page.",
			Eval:           evalPassportMissing,
		},
		{
			ID:             "COMMON-REQUIRED-DOCS-OUTSTANDING",
			VisaTypes:      all,
			Category:       casefile.CategoryDocumentPresence,
			Severity:       casefile.SeverityMedium,
			Title:          "Required documents outstanding",
			Description:    "One or more documents on the case checklist have not been uploaded.",
			Recommendation: "Collect and upload the outstanding checklist documents before filing.",
			Eval:           evalRequiredDocsOutstanding,
		},
		{
			ID:             "COMMON-DEADLINE-PROXIMITY",
			VisaTypes:      all,
			Category:       casefile.CategoryTimeline,
			Severity:       casefile.SeverityHigh,
			Title:          "Filing deadline near with documents outstanding",
			Description:    "The filing deadline is close and required documents are still missing, leaving little time to cure deficiencies.",
			Recommendation: "Prioritize collection of outstanding documents or evaluate filing an extension request.",
			Eval:           evalDeadlineProximity,
		},
		{
			ID:             "COMMON-PASSPORT-EXPIRING",
			VisaTypes:      all,
			Category:       casefile.CategoryDocumentContent,
			Severity:       casefile.SeverityMedium,
			Title:          "Passport expires before adjudication window",
			Description:    "The uploaded passport's expiration date falls within six months of the reference date, which adjudicators routinely question.",
			Recommendation: "Advise the beneficiary to renew the passport and upload the renewed copy.",
			Eval:           evalPassportExpiring,
		},
		{
			ID:             "COMMON-FORM-SIGNATURE-MISSING",
			VisaTypes:      all,
			Category:       casefile.CategoryFormConsistency,
			Severity:       casefile.SeverityHigh,
			Title:          "Unsigned form",
			Description:    "A prepared form has an empty signature field. Unsigned forms are rejected or draw an RFE.",
			Recommendation: "Obtain signatures on all prepared forms before filing.",
			Eval:           evalFormSignatureMissing,
		},
		{
			ID:             "COMMON-FILING-FEE-UNPAID",
			VisaTypes:      all,
			Category:       casefile.CategoryProcedural,
			Severity:       casefile.SeverityLow,
			Title:          "Filing fee not recorded as paid",
			Description:    "The billing record shows the government filing fee as unpaid.",
			Recommendation: "Confirm filing-fee payment and record it before dispatching the petition.",
			Eval:           evalFilingFeeUnpaid,
		},
	}
}

func evalPassportMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if !ctx.Requires(docPassport) {
		return cleared(confModerate)
	}
	if ctx.HasDocument(docPassport) {
		return cleared(confCertain)
	}
	return triggered(confCertain,
		fmt.Sprintf("Required document %q has not been uploaded", docPassport))
}

func evalRequiredDocsOutstanding(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if len(ctx.RequiredDocumentTypes) == 0 {
		return inconclusive("no document checklist on the case")
	}
	missing := ctx.MissingRequiredDocuments()
	if len(missing) == 0 {
		return cleared(confCertain)
	}
	ev := make([]string, 0, len(missing))
	for _, d := range missing {
		ev = append(ev, fmt.Sprintf("Checklist document %q not uploaded", d))
	}
	res := triggered(confCertain, ev...)
	res.Details = fmt.Sprintf("%d of %d checklist documents outstanding",
		len(missing), len(ctx.RequiredDocumentTypes))
	return res
}

func evalDeadlineProximity(ctx *casefile.AnalysisContext) casefile.RuleResult {
	days, ok := ctx.DaysUntilDeadline()
	if !ok {
		// No deadline on file: this rule never fires, and we cannot tell
		// whether that is deliberate.
		return inconclusive("no filing deadline on the case")
	}
	missing := ctx.MissingRequiredDocuments()
	if days > rsettings.DeadlineWindowDays || len(missing) == 0 {
		return cleared(confCertain)
	}
	ev := []string{fmt.Sprintf("Filing deadline in %d days (window: %d)", days, rsettings.DeadlineWindowDays)}
	for _, d := range missing {
		ev = append(ev, fmt.Sprintf("Still missing %q", d))
	}
	return triggered(confCertain, ev...)
}

func evalPassportExpiring(ctx *casefile.AnalysisContext) casefile.RuleResult {
	raw, ok := ctx.DocumentField(docPassport, "expiration_date")
	if !ok || strings.TrimSpace(raw) == "" {
		return inconclusive("no extracted passport expiration date")
	}
	exp, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return inconclusive("unparseable passport expiration date: " + raw)
	}
	if ctx.ReferenceTime.IsZero() {
		return inconclusive("no reference time to compare expiration against")
	}
	horizon := ctx.ReferenceTime.AddDate(0, 6, 0)
	if exp.After(horizon) {
		return cleared(confCertain)
	}
	return triggered(confStrong,
		fmt.Sprintf("Passport expires %s, within six months of %s",
			exp.Format("2006-01-02"), ctx.ReferenceTime.Format("2006-01-02")))
}

func evalFormSignatureMissing(ctx *casefile.AnalysisContext) casefile.RuleResult {
	if len(ctx.FormValues) == 0 {
		return inconclusive("no prepared forms on the case")
	}
	var ev []string
	for formID, fields := range ctx.FormValues {
		sig, present := fields["signature"]
		if present && strings.TrimSpace(sig) == "" {
			ev = append(ev, fmt.Sprintf("Form %s has an empty signature field", formID))
		}
	}
	if len(ev) == 0 {
		return cleared(confStrong)
	}
	// Map iteration order is random; keep output deterministic.
	sort.Strings(ev)
	return triggered(confCertain, ev...)
}

func evalFilingFeeUnpaid(ctx *casefile.AnalysisContext) casefile.RuleResult {
	paid := ctx.Financial.FeePaid
	if paid == nil {
		return inconclusive("no fee-payment record")
	}
	if *paid {
		return cleared(confCertain)
	}
	return triggered(confCertain, "Billing record marks the government filing fee as unpaid")
}
