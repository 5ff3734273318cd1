package pipeline

import (
	"fmt"

	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocfm/internal/report"
)

// RunError summarizes a report as a single classified error, or nil when the
// run completed without error-level outcomes.
//
// The category is taken from the first failing entry so the CLI exit code
// reflects what went wrong first: a missing folder, an I/O failure or a
// malformed document. Check findings without a cause map to validation.
func RunError(rep *report.Report) error {
	if rep == nil || !rep.HasErrors() {
		return nil
	}

	cat := errors.CategoryValidation
	var first error
	if errs := rep.Errors(); len(errs) > 0 {
		first = errs[0]
		cat = errors.GetCategory(first)
	}

	failed := rep.Count(report.StatusFailed) + rep.Count(report.StatusMalformed)
	message := fmt.Sprintf("%s finished with errors: %d file(s) or folder(s) failed", rep.Operation, failed)
	if rep.Operation == report.OperationCheck {
		message = fmt.Sprintf("check found %d error(s) in %d file(s)",
			rep.IssueCount(report.SeverityError), rep.Count(report.StatusFlagged))
		if failed > 0 {
			message += fmt.Sprintf(", %d unreadable", failed)
		}
	}

	b := errors.NewError(cat, message).
		WithContext("run_id", rep.RunID).
		WithContext("operation", string(rep.Operation))
	if first != nil {
		b = b.WithCause(first)
	}
	return b.Build()
}
