package frontmatterops

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/apidocfm/internal/category"
	"git.home.luguber.info/inful/apidocfm/internal/frontmatter"
	"git.home.luguber.info/inful/apidocfm/internal/report"
)

// DefaultProduct prefixes every synthesized description.
const DefaultProduct = "OpenSeadragon"

// Metadata is the block synthesized for one document.
type Metadata struct {
	Title       string
	Description string
	Category    string
	Order       int
	Badge       string
}

// Description is the "{product} {badge} - {title}" summary line. An empty
// product means DefaultProduct.
func Description(product, badge, title string) string {
	if product == "" {
		product = DefaultProduct
	}
	return product + " " + badge + " - " + title
}

// NewMetadata derives the block fields for the document at index within its folder.
func NewMetadata(product string, d category.Descriptor, title string, index int) Metadata {
	title = strings.ToValidUTF8(title, "\uFFFD")
	return Metadata{
		Title:       title,
		Description: Description(product, d.Badge, title),
		Category:    d.Title,
		Order:       d.Order(index),
		Badge:       d.Badge,
	}
}

// Fields returns the block lines in the order the docs renderer expects.
func (m Metadata) Fields() []frontmatter.Field {
	return []frontmatter.Field{
		{Key: "title", Value: m.Title},
		{Key: "description", Value: m.Description},
		{Key: "category", Value: m.Category},
		{Key: "order", Value: strconv.Itoa(m.Order), Raw: true},
		{Key: "badge", Value: m.Badge},
	}
}

// RequiredKeys lists the block keys in their fixed order.
var RequiredKeys = []string{"title", "description", "category", "order", "badge"}

// InjectOptions tunes block synthesis.
type InjectOptions struct {
	Product string
}

// InjectOutcome describes what Inject did. Metadata is set only when a block was added.
type InjectOutcome struct {
	Status   report.Status
	Reason   string
	Metadata *Metadata
}

// Inject prepends a metadata block followed by one blank line.
//
// Documents that already begin with the delimiter are returned unchanged with a
// skipped outcome, which is what makes repeated runs idempotent.
func Inject(doc Document, d category.Descriptor, index int, opts InjectOptions) (Document, InjectOutcome) {
	if doc.HasFrontmatter() {
		return doc, InjectOutcome{Status: report.StatusSkipped, Reason: "already has frontmatter"}
	}

	meta := NewMetadata(opts.Product, d, doc.Title(), index)
	_, _, _, style, _ := frontmatter.Split(doc.Content)
	nl := style.NewlineOrDefault()

	block := frontmatter.Render(meta.Fields(), style)
	content := make([]byte, 0, len(block)+len(nl)+len(doc.Content))
	content = append(content, block...)
	content = append(content, nl...)
	content = append(content, doc.Content...)

	return Document{Path: doc.Path, Content: content}, InjectOutcome{
		Status:   report.StatusAdded,
		Metadata: &meta,
	}
}
