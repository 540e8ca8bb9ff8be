package example

import (
	"fmt"
	"regexp"

	"golang.org/x/net/html"

	"github.com/fulmenhq/specex/internal/document"
	"github.com/fulmenhq/specex/internal/normalize"
)

// Variants are the classes of an aside's children that become examples of
// their own, in the order they are tried when a child carries several.
var Variants = []string{
	"original", "compacted", "expanded", "flattened", "turtle", "trig",
	"statements", "graph", "context", "frame", "framed",
}

// FirstNumber is the number given to the first example of a document. The
// typographical conventions section imports an example that takes number 1.
const FirstNumber = 2

var nonWord = regexp.MustCompile(`[^\w]+`)

// candidate is an element that will become a single example.
type candidate struct {
	el     *document.Element
	title  string
	number int
	ignore bool
	err    string
}

// Build enumerates every example in doc in document order and returns the
// resulting table.
func Build(doc *document.Document) *Table {
	table := NewTable()
	for _, c := range expand(doc) {
		ex := record(c)
		if table.Has(ex.Title) {
			ex.Warning = fmt.Sprintf("Example %d at line %d uses duplicate title: %s", ex.Number, ex.Line, ex.Title)
		}
		table.Put(ex)
	}
	return table
}

// expand walks the annotated elements, numbers them and splits asides into
// one candidate per variant child.
func expand(doc *document.Document) []candidate {
	var out []candidate
	number := FirstNumber - 1

	for _, el := range doc.Select(document.HasAnyClass("example", "illegal-example")) {
		if el.Name == "pre" || el.Name == "aside" {
			number++
		}
		title := el.AttrOr("title", "")

		var errMsg string
		if title == "" {
			errMsg = fmt.Sprintf("Example %d at line %d has no title", number, el.Line)
		}

		ignore := el.HasClass("illegal-example")
		if el.Name != "aside" {
			out = append(out, candidate{el: el, title: title, number: number, ignore: ignore, err: errMsg})
			continue
		}
		for _, sub := range el.Find(document.HasAnyClass(Variants...)) {
			variant := firstVariant(sub)
			out = append(out, candidate{
				el:     sub,
				title:  title + "-" + variant,
				number: number,
				ignore: ignore,
				err:    errMsg,
			})
		}
	}
	return out
}

func firstVariant(el *document.Element) string {
	for _, v := range Variants {
		if el.HasClass(v) {
			return v
		}
	}
	return ""
}

func record(c candidate) *Example {
	el := c.el
	ct := el.AttrOr("data-content-type", "")
	kind := KindForContentType(ct)

	ex := &Example{
		Title:       c.title,
		Number:      c.number,
		Line:        el.Line,
		Element:     el.Name,
		ContentType: ct,
		Kind:        kind,
		Error:       c.err,
	}

	if el.Name == "table" {
		ex.Kind = KindTable
		ex.Table = el
		ex.Content = el.OuterHTML()
	} else {
		ex.Content = normalize.RestoreComments(normalize.Justify(el.InnerHTML()))
		if kind != KindMarkup {
			ex.Content = html.UnescapeString(ex.Content)
		}
	}
	ex.Filename = nonWord.ReplaceAllString(c.title, "-") + "." + ex.Kind.Extension()

	_, hasIgnore := el.Attr("data-ignore")
	_, noLint := el.Attr("data-no-lint")
	ex.Attrs = Attributes{
		ContextFor: el.AttrOr("data-context-for", ""),
		Context:    el.AttrOr("data-context", ""),
		FrameFor:   el.AttrOr("data-frame-for", ""),
		Frame:      el.AttrOr("data-frame", ""),
		ResultFor:  el.AttrOr("data-result-for", ""),
		Target:     el.AttrOr("data-target", ""),
		Base:       el.AttrOr("data-base", ""),
		Options:    el.AttrOr("data-options", ""),
		Ignore:     hasIgnore || c.ignore,
		NoLint:     noLint,
		Compact:    flag(el, "data-compact"),
		Flatten:    flag(el, "data-flatten"),
		FromRDF:    flag(el, "data-from-rdf"),
		ToRDF:      flag(el, "data-to-rdf"),
	}
	return ex
}

// flag treats any present attribute as set, matching how boolean data
// attributes are written in the source documents.
func flag(el *document.Element, name string) bool {
	_, ok := el.Attr(name)
	return ok
}
