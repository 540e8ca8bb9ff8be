// Package example turns annotated blocks of a specification document into
// typed example records keyed by title.
package example

import (
	"strings"

	"github.com/fulmenhq/specex/internal/document"
)

// SyntaxKind is the declared format of an example body.
type SyntaxKind string

const (
	KindJSON   SyntaxKind = "json"
	KindJSONLD SyntaxKind = "jsonld"
	KindQuads  SyntaxKind = "quads"
	KindMarkup SyntaxKind = "markup"
	KindTurtle SyntaxKind = "turtle"
	KindTriG   SyntaxKind = "trig"
	KindTable  SyntaxKind = "table"
	KindText   SyntaxKind = "text"
)

// Extension returns the file extension used for fixtures of this kind.
func (k SyntaxKind) Extension() string {
	switch k {
	case KindJSON:
		return "json"
	case KindQuads:
		return "nq"
	case KindMarkup:
		return "html"
	case KindTurtle:
		return "ttl"
	case KindTriG:
		return "trig"
	case KindTable:
		return "table"
	case KindText:
		return "txt"
	default:
		return "jsonld"
	}
}

// IsRDF reports whether the kind is a statement serialization compared by
// graph isomorphism rather than JSON equality.
func (k SyntaxKind) IsRDF() bool {
	switch k {
	case KindQuads, KindTurtle, KindTriG, KindMarkup, KindTable:
		return true
	}
	return false
}

// IsJSON reports whether the body must be well-formed JSON.
func (k SyntaxKind) IsJSON() bool {
	return k == KindJSON || k == KindJSONLD
}

// KindForContentType maps a data-content-type value to a SyntaxKind.
func KindForContentType(ct string) SyntaxKind {
	switch strings.TrimSpace(ct) {
	case "", "application/ld+json":
		return KindJSONLD
	case "application/json":
		return KindJSON
	case "application/n-quads", "nq":
		return KindQuads
	case "text/html", "html":
		return KindMarkup
	case "text/turtle", "ttl":
		return KindTurtle
	case "application/trig", "trig":
		return KindTriG
	default:
		return KindText
	}
}

// Status is the terminal outcome of an example.
type Status string

const (
	StatusPending Status = ""
	StatusError   Status = "error"
	StatusWarn    Status = "warn"
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusIgnored Status = "ignored"
)

// Attributes holds the relationships and hints declared on an example.
type Attributes struct {
	ContextFor string
	Context    string
	FrameFor   string
	Frame      string
	ResultFor  string
	Target     string
	Base       string
	Options    string

	Ignore  bool
	NoLint  bool
	Compact bool
	Flatten bool
	FromRDF bool
	ToRDF   bool
}

// Example is one titled, annotated block of the source document.
type Example struct {
	Title       string
	Number      int
	Line        int
	Element     string
	ContentType string
	Kind        SyntaxKind
	Content     string
	Filename    string
	Attrs       Attributes

	// Table is the parsed table for KindTable examples.
	Table *document.Element

	// Error and Warning are set while building: a missing title, or a
	// title that repeats an earlier example.
	Error   string
	Warning string

	Status  Status
	Message string
}

// Table is the per-document example table. Titles map to their last
// definition; the position of a title is that of its first definition.
type Table struct {
	byTitle map[string]*Example
	order   []string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{byTitle: make(map[string]*Example)}
}

// Put stores ex under its title, replacing any earlier entry.
func (t *Table) Put(ex *Example) {
	if _, ok := t.byTitle[ex.Title]; !ok {
		t.order = append(t.order, ex.Title)
	}
	t.byTitle[ex.Title] = ex
}

// Get looks an example up by title.
func (t *Table) Get(title string) (*Example, bool) {
	ex, ok := t.byTitle[title]
	return ex, ok
}

// Has reports whether title is defined.
func (t *Table) Has(title string) bool {
	_, ok := t.byTitle[title]
	return ok
}

// Len returns the number of distinct titles.
func (t *Table) Len() int { return len(t.order) }

// Examples returns the table entries in first-definition order.
func (t *Table) Examples() []*Example {
	out := make([]*Example, 0, len(t.order))
	for _, title := range t.order {
		out = append(out, t.byTitle[title])
	}
	return out
}
