// Package frontmatter detects, splits and renders `---` delimited metadata
// blocks at the very start of a markdown document.
//
// Splitting is line oriented and lossless: Join(Split(x)) reproduces x byte for
// byte, and the body returned by Split is never re-encoded.
package frontmatter

import (
	"bytes"
	"errors"
)

// Delimiter is the line that opens and closes a metadata block.
const Delimiter = "---"

var (
	// ErrMissingClosingDelimiter indicates the document opened a block but never closed it.
	ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

	// ErrMalformedOpening indicates the document starts with three hyphens that are not a delimiter line.
	ErrMalformedOpening = errors.New("document starts with --- but the first line is not a frontmatter delimiter")
)

// Style captures formatting details needed for stable rewriting.
type Style struct {
	Newline string
}

// NewlineOrDefault returns the detected newline, falling back to LF.
func (s Style) NewlineOrDefault() string {
	if s.Newline == "" {
		return "\n"
	}
	return s.Newline
}

// HasFrontmatter reports whether content begins with the delimiter sequence.
//
// Any document whose first three bytes are hyphens counts as decorated, even
// if the block turns out to be malformed.
func HasFrontmatter(content []byte) bool {
	return bytes.HasPrefix(content, []byte(Delimiter))
}

// Split separates a leading metadata block from the markdown body.
//
// block is the raw text between the delimiter lines (without them). body starts
// right after the closing delimiter line's newline. If content doesn't start with
// the delimiter, had is false and body is the full input.
func Split(content []byte) (block []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)
	if !HasFrontmatter(content) {
		return nil, content, false, style, nil
	}

	openLine, rest, ok := cutLine(content)
	if !isDelimiterLine(openLine) {
		return nil, nil, false, style, ErrMalformedOpening
	}
	if !ok {
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	blockStart := len(content) - len(rest)
	offset := blockStart
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if isDelimiterLine(line) {
			bodyStart := len(content) - len(next)
			return content[blockStart:offset], content[bodyStart:], true, style, nil
		}
		offset += len(rest) - len(next)
		rest = next
	}
	return nil, nil, false, style, ErrMissingClosingDelimiter
}

// Join reassembles a document from a raw block and body.
//
// If had is false, Join returns body as-is.
func Join(block []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.NewlineOrDefault()
	out := make([]byte, 0, 2*(len(Delimiter)+len(nl))+len(block)+len(body))
	out = append(out, Delimiter...)
	out = append(out, nl...)
	out = append(out, block...)
	out = append(out, Delimiter...)
	out = append(out, nl...)
	out = append(out, body...)
	return out
}

// cutLine splits off the first line. line excludes the terminator; ok reports
// whether a newline was found.
func cutLine(b []byte) (line []byte, rest []byte, ok bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

func isDelimiterLine(line []byte) bool {
	return string(bytes.TrimSuffix(line, []byte("\r"))) == Delimiter
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}

	return Style{Newline: newline}
}
