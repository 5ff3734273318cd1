package frontmatterops

import (
	"bytes"

	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocfm/internal/frontmatter"
	"git.home.luguber.info/inful/apidocfm/internal/report"
)

// StripOptions tunes body restoration.
type StripOptions struct {
	// Normalize trims surrounding whitespace from the restored body and ends it
	// with exactly one newline. Off by default so strip(inject(b)) == b.
	Normalize bool
}

// StripOutcome describes what Strip did. Err is set for malformed documents.
type StripOutcome struct {
	Status report.Status
	Reason string
	Err    error
}

// Strip removes a leading metadata block and the blank separator line after it.
//
// A document whose block is never closed is returned unchanged with a malformed
// outcome; Strip never drops content that was not part of a well-formed block.
func Strip(doc Document, opts StripOptions) (Document, StripOutcome) {
	if !doc.HasFrontmatter() {
		return doc, StripOutcome{Status: report.StatusSkipped, Reason: "no frontmatter"}
	}

	_, body, _, style, err := frontmatter.Split(doc.Content)
	if err != nil {
		return doc, StripOutcome{
			Status: report.StatusMalformed,
			Reason: "malformed frontmatter, left unchanged",
			Err: errors.DocumentError("cannot strip frontmatter").
				WithCause(err).
				WithPath(doc.Path).
				Build(),
		}
	}

	var restored []byte
	if opts.Normalize {
		trimmed := bytes.TrimSpace(body)
		nl := style.NewlineOrDefault()
		restored = make([]byte, 0, len(trimmed)+len(nl))
		restored = append(restored, trimmed...)
		restored = append(restored, nl...)
	} else {
		restored = append([]byte(nil), trimSeparator(body)...)
	}

	return Document{Path: doc.Path, Content: restored}, StripOutcome{Status: report.StatusRemoved}
}

// trimSeparator drops the single blank line Inject writes between block and body.
func trimSeparator(body []byte) []byte {
	if rest, ok := bytes.CutPrefix(body, []byte("\r\n")); ok {
		return rest
	}
	if rest, ok := bytes.CutPrefix(body, []byte("\n")); ok {
		return rest
	}
	return body
}
