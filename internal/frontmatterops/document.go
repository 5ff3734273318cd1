// Package frontmatterops implements the inject, strip and check operations as
// pure functions over in-memory documents. Nothing here touches the filesystem.
package frontmatterops

import (
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/apidocfm/internal/frontmatter"
)

// Document is a markdown file's name and full content.
type Document struct {
	Path    string
	Content []byte
}

// Name returns the file name without directories.
func (d Document) Name() string {
	return filepath.Base(d.Path)
}

// HasFrontmatter reports whether the document begins with the delimiter sequence.
func (d Document) HasFrontmatter() bool {
	return frontmatter.HasFrontmatter(d.Content)
}

// Title returns the first top-level heading text, or the file name without
// its extension when the document has no such heading.
func (d Document) Title() string {
	return DeriveTitle(d.Content, d.Name())
}

var headingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t\r]*$`)

// DeriveTitle scans body line by line for the first `# heading`.
func DeriveTitle(body []byte, filename string) string {
	if m := headingPattern.FindSubmatch(body); m != nil {
		if title := strings.TrimSpace(string(m[1])); title != "" {
			return title
		}
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
