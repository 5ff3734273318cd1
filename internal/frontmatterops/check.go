package frontmatterops

import (
	"bytes"
	"fmt"
	"slices"

	"git.home.luguber.info/inful/apidocfm/internal/category"
	"git.home.luguber.info/inful/apidocfm/internal/frontmatter"
	"git.home.luguber.info/inful/apidocfm/internal/report"
	adrgfm "github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Check rule identifiers.
const (
	RuleMissing      = "frontmatter-missing"
	RuleMalformed    = "frontmatter-malformed"
	RuleYAML         = "frontmatter-yaml"
	RuleRequiredKeys = "required-keys"
	RuleKeyOrder     = "key-order"
	RuleUnknownKeys  = "unknown-keys"
	RuleCategory     = "category-mismatch"
	RuleBadge        = "badge-mismatch"
	RuleDescription  = "description-format"
	RuleOrderRange   = "order-range"
	RuleHeading      = "top-level-heading"
	RuleBinaryValue  = "binary-value"
)

// Expectation is what a document in a given folder should carry.
type Expectation struct {
	Descriptor category.Descriptor
	Capacity   int
	Product    string
}

// CheckOutcome lists the issues found in one document.
type CheckOutcome struct {
	Status report.Status
	Issues []report.Issue
}

type decodedBlock struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Order       *int   `yaml:"order"`
	Badge       string `yaml:"badge"`
}

// Check validates a document's block against the consumer contract without modifying it.
func Check(doc Document, exp Expectation) CheckOutcome {
	var issues []report.Issue
	add := func(sev report.Severity, rule, format string, args ...any) {
		issues = append(issues, report.Issue{Severity: sev, Rule: rule, Message: fmt.Sprintf(format, args...)})
	}
	done := func() CheckOutcome {
		if len(issues) == 0 {
			return CheckOutcome{Status: report.StatusPassed}
		}
		return CheckOutcome{Status: report.StatusFlagged, Issues: issues}
	}

	if !doc.HasFrontmatter() {
		add(report.SeverityWarning, RuleMissing, "document has no frontmatter block")
		return done()
	}

	block, body, _, _, err := frontmatter.Split(doc.Content)
	if err != nil {
		add(report.SeverityError, RuleMalformed, "%v", err)
		return done()
	}

	var fields decodedBlock
	if _, err := adrgfm.Parse(bytes.NewReader(doc.Content), &fields); err != nil {
		add(report.SeverityError, RuleYAML, "frontmatter is not valid YAML: %v", err)
		return done()
	}

	keys, err := frontmatter.Keys(block)
	if err != nil {
		add(report.SeverityError, RuleYAML, "frontmatter is not a key/value block: %v", err)
		return done()
	}
	checkKeys(keys, add)

	binary, _ := frontmatter.BinaryKeys(block)
	for _, k := range binary {
		add(report.SeverityError, RuleBinaryValue, "value of %q is YAML binary, not literal text", k)
	}

	d := exp.Descriptor
	if fields.Category != "" && fields.Category != d.Title {
		add(report.SeverityWarning, RuleCategory, "category is %q, folder %q expects %q", fields.Category, d.Folder, d.Title)
	}
	if fields.Badge != "" && fields.Badge != d.Badge {
		add(report.SeverityWarning, RuleBadge, "badge is %q, folder %q expects %q", fields.Badge, d.Folder, d.Badge)
	}
	if fields.Title != "" && fields.Description != "" {
		want := Description(exp.Product, d.Badge, fields.Title)
		if fields.Description != want {
			add(report.SeverityWarning, RuleDescription, "description is %q, expected %q", fields.Description, want)
		}
	}
	if fields.Order != nil && exp.Capacity > 0 {
		lo, hi := d.BaseOrder, d.BaseOrder+exp.Capacity-1
		if *fields.Order < lo || *fields.Order > hi {
			add(report.SeverityWarning, RuleOrderRange, "order %d outside %d-%d reserved for %q", *fields.Order, lo, hi, d.Folder)
		}
	}

	if !startsWithTopLevelHeading(body) {
		add(report.SeverityInfo, RuleHeading, "body does not start with a top-level heading")
	}
	return done()
}

func checkKeys(keys []string, add func(report.Severity, string, string, ...any)) {
	present := make([]string, 0, len(RequiredKeys))
	for _, k := range keys {
		if slices.Contains(RequiredKeys, k) {
			present = append(present, k)
		} else {
			add(report.SeverityInfo, RuleUnknownKeys, "unrecognized key %q", k)
		}
	}
	for _, k := range RequiredKeys {
		if !slices.Contains(present, k) {
			add(report.SeverityError, RuleRequiredKeys, "missing required key %q", k)
		}
	}

	expected := make([]string, 0, len(present))
	for _, k := range RequiredKeys {
		if slices.Contains(present, k) {
			expected = append(expected, k)
		}
	}
	if !slices.Equal(present, expected) {
		add(report.SeverityWarning, RuleKeyOrder, "keys %v are not in the order %v", present, expected)
	}
}

func startsWithTopLevelHeading(body []byte) bool {
	root := goldmark.New().Parser().Parse(text.NewReader(body))
	first := root.FirstChild()
	if first == nil {
		return false
	}
	h, ok := first.(*gmast.Heading)
	return ok && h.Level == 1
}
