package rdf

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/fulmenhq/specex/internal/document"
)

// Column headings understood in statement tables.
const (
	ColGraph     = "Graph"
	ColSubject   = "Subject"
	ColProperty  = "Property"
	ColValue     = "Value"
	ColValueType = "Value Type"
	ColLanguage  = "Language"
	ColDirection = "Direction"
)

var scheme = regexp.MustCompile(`^\w+:`)

// TableToDataset reads a statement table. Each body row is one statement;
// cells are interpreted by the heading of their column. Later columns may
// retype the value read from an earlier one.
func TableToDataset(table *document.Element, p *Prefixes) (*Dataset, error) {
	var headings []string
	for _, th := range table.Find(document.Named("th")) {
		headings = append(headings, cellText(th))
	}
	if len(headings) == 0 {
		return nil, fmt.Errorf("table has no headings")
	}

	ds := NewDataset()
	row := 0
	for _, tr := range table.Find(document.Named("tr")) {
		if inHead(tr) {
			continue
		}
		row++
		quad, err := readRow(tr, headings, p)
		if err != nil {
			return ds, fmt.Errorf("row %d: %w", row, err)
		}
		if err := quad.Validate(); err != nil {
			return ds, fmt.Errorf("row %d: %w", row, err)
		}
		ds.Add(quad)
	}
	return ds, nil
}

func readRow(tr *document.Element, headings []string, p *Prefixes) (Quad, error) {
	var (
		q     Quad
		value string
		err   error
	)
	node := func(cell string) (Term, error) {
		if strings.HasPrefix(cell, "_:") {
			return Blank(cell), nil
		}
		iri, err := p.Expand(cell)
		return IRI(iri), err
	}

	for i, td := range tdCells(tr) {
		if i >= len(headings) {
			break
		}
		cell := cellText(td)
		switch headings[i] {
		case ColGraph:
			if !blankCell(cell) {
				q.Graph, err = node(cell)
			}
		case ColSubject:
			q.Subject, err = node(cell)
		case ColProperty:
			var iri string
			iri, err = p.Expand(cell)
			q.Predicate = IRI(iri)
		case ColValue:
			value = cell
			switch {
			case strings.HasPrefix(cell, "_:"):
				q.Object = Blank(cell)
			case scheme.MatchString(cell):
				// Text such as 12:00:00 only looks like an IRI.
				if obj, nerr := node(cell); nerr == nil {
					q.Object = obj
				} else {
					q.Object = Literal(cell, "", "")
				}
			default:
				q.Object = Literal(cell, "", "")
			}
		case ColValueType:
			if blankCell(cell) || strings.Contains(cell, "IRI") {
				continue
			}
			var dt string
			dt, err = p.Expand(cell)
			q.Object = Literal(value, dt, "")
		case ColLanguage:
			if !blankCell(cell) {
				q.Object = Literal(value, "", cell)
			}
		case ColDirection:
			if !blankCell(cell) {
				q.Object = Literal(value, I18NNamespace+q.Object.Language+"_"+cell, "")
			}
		}
		if err != nil {
			return q, err
		}
	}
	return q, nil
}

func tdCells(tr *document.Element) []*document.Element {
	var out []*document.Element
	for _, c := range tr.Children {
		if c.Name == "td" {
			out = append(out, c)
		}
	}
	return out
}

func inHead(el *document.Element) bool {
	for p := el.Parent; p != nil; p = p.Parent {
		if p.Name == "thead" {
			return true
		}
		if p.Name == "table" {
			return false
		}
	}
	return false
}

func cellText(el *document.Element) string {
	return strings.TrimSpace(strings.ReplaceAll(el.Text(), "\u00a0", " "))
}

func blankCell(s string) bool {
	return s == "" || s == "-"
}

// DatasetToTable renders ds as a statement table. Graph, Value Type and
// Language columns appear only when some statement needs them.
func DatasetToTable(ds *Dataset, p *Prefixes) (string, error) {
	quads := ds.Quads()
	sort.SliceStable(quads, func(i, j int) bool { return quads[i].String() < quads[j].String() })

	hasGraph := len(ds.GraphNames()) > 0
	hasDatatype, hasLanguage := false, false
	for _, q := range quads {
		if q.Object.Kind != KindLiteral {
			continue
		}
		if q.Object.Language != "" {
			hasLanguage = true
		} else if q.Object.Datatype != XSDString {
			hasDatatype = true
		}
	}

	var head []string
	if hasGraph {
		head = append(head, ColGraph)
	}
	head = append(head, ColSubject, ColProperty, ColValue)
	if hasDatatype {
		head = append(head, ColValueType)
	}
	if hasLanguage {
		head = append(head, ColLanguage)
	}

	doc := etree.NewDocument()
	table := doc.CreateElement("table")
	headRow := table.CreateElement("thead").CreateElement("tr")
	for _, h := range head {
		headRow.CreateElement("th").SetText(h)
	}

	body := table.CreateElement("tbody")
	for _, q := range quads {
		tr := body.CreateElement("tr")
		cell := func(s string) { tr.CreateElement("td").SetText(s) }
		if hasGraph {
			if q.Graph.IsZero() {
				cell("-")
			} else {
				cell(tableTerm(q.Graph, p))
			}
		}
		cell(tableTerm(q.Subject, p))
		cell(tableTerm(q.Predicate, p))
		cell(tableTerm(q.Object, p))
		if hasDatatype {
			switch {
			case q.Object.Kind == KindIRI:
				cell("IRI")
			case q.Object.Kind == KindLiteral && q.Object.Language == "" && q.Object.Datatype != XSDString:
				cell(p.Compact(q.Object.Datatype))
			default:
				cell("-")
			}
		}
		if hasLanguage {
			if q.Object.Language != "" {
				cell(q.Object.Language)
			} else {
				cell("-")
			}
		}
	}

	doc.Indent(2)
	return doc.WriteToString()
}

func tableTerm(t Term, p *Prefixes) string {
	switch t.Kind {
	case KindIRI:
		return p.Compact(t.Value)
	case KindBlank:
		return "_:" + t.Value
	}
	return t.Value
}
