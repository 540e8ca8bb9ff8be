// Package rdf holds the statement model used to compare RDF-shaped example
// results: terms, quads, datasets with set semantics, readers for the
// serializations that appear in specification documents, and an
// isomorphism check that ignores blank node labels.
package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// Well-known datatype and namespace IRIs.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	I18NNamespace = "https://www.w3.org/ns/i18n#"

	XSDString  = XSDNamespace + "string"
	LangString = RDFNamespace + "langString"
	RDFType    = RDFNamespace + "type"
)

// TermKind distinguishes IRIs, blank nodes and literals.
type TermKind int

const (
	KindNone TermKind = iota
	KindIRI
	KindBlank
	KindLiteral
)

// Term is an RDF term. The zero value is used for the default graph name.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Language string
}

// IRI builds an IRI term.
func IRI(v string) Term { return Term{Kind: KindIRI, Value: v} }

// Blank builds a blank node; a leading "_:" on id is dropped.
func Blank(id string) Term { return Term{Kind: KindBlank, Value: strings.TrimPrefix(id, "_:")} }

// Literal builds a literal. An empty datatype means xsd:string, and a
// language tag forces rdf:langString.
func Literal(value, datatype, language string) Term {
	switch {
	case language != "":
		datatype = LangString
	case datatype == "":
		datatype = XSDString
	}
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype, Language: strings.ToLower(language)}
}

// IsZero reports whether t is the default graph marker.
func (t Term) IsZero() bool { return t.Kind == KindNone }

// String renders t in N-Quads syntax.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + escapeLiteral(t.Value) + `"`
		switch {
		case t.Language != "":
			return s + "@" + t.Language
		case t.Datatype != XSDString:
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	}
	return ""
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

func escapeLiteral(s string) string { return literalEscaper.Replace(s) }

// Quad is a statement, optionally in a named graph.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// String renders q as an N-Quads line without the trailing newline.
func (q Quad) String() string {
	parts := []string{q.Subject.String(), q.Predicate.String(), q.Object.String()}
	if !q.Graph.IsZero() {
		parts = append(parts, q.Graph.String())
	}
	return strings.Join(parts, " ") + " ."
}

// Dataset is a set of quads.
type Dataset struct {
	quads []Quad
	index map[Quad]struct{}
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{index: make(map[Quad]struct{})}
}

// Add inserts q unless an identical quad is present.
func (d *Dataset) Add(q Quad) {
	if _, ok := d.index[q]; ok {
		return
	}
	d.index[q] = struct{}{}
	d.quads = append(d.quads, q)
}

// Has reports whether q is in the dataset.
func (d *Dataset) Has(q Quad) bool {
	_, ok := d.index[q]
	return ok
}

// Len returns the number of distinct quads.
func (d *Dataset) Len() int { return len(d.quads) }

// Quads returns the quads in insertion order.
func (d *Dataset) Quads() []Quad {
	out := make([]Quad, len(d.quads))
	copy(out, d.quads)
	return out
}

// GraphNames returns the distinct named graphs.
func (d *Dataset) GraphNames() []Term {
	seen := make(map[Term]bool)
	var out []Term
	for _, q := range d.quads {
		if q.Graph.IsZero() || seen[q.Graph] {
			continue
		}
		seen[q.Graph] = true
		out = append(out, q.Graph)
	}
	return out
}

// NQuads serializes the dataset as sorted N-Quads.
func (d *Dataset) NQuads() string {
	lines := make([]string, 0, len(d.quads))
	for _, q := range d.quads {
		lines = append(lines, q.String())
	}
	sort.Strings(lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Validate checks positional constraints: literals may only be objects and
// predicates must be IRIs.
func (q Quad) Validate() error {
	if q.Subject.Kind == KindLiteral || q.Subject.Kind == KindNone {
		return fmt.Errorf("invalid subject %s", q.Subject)
	}
	if q.Predicate.Kind != KindIRI {
		return fmt.Errorf("invalid predicate %s", q.Predicate)
	}
	if q.Object.Kind == KindNone {
		return fmt.Errorf("missing object for %s %s", q.Subject, q.Predicate)
	}
	if q.Graph.Kind == KindLiteral {
		return fmt.Errorf("invalid graph name %s", q.Graph)
	}
	return nil
}
