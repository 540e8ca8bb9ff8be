// Package document parses HTML specification documents into a lightweight
// element tree that keeps the original source of every element and the line
// on which it starts. Example bodies are sliced out of the source verbatim so
// that their formatting survives extraction.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseError is a markup problem found while building the tree.
type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Document is a parsed markup document.
type Document struct {
	Root   *Element
	Errors []ParseError
	src    []byte
}

// Element is a single markup element. Text content is kept alongside child
// elements so Text can reproduce it in document order.
type Element struct {
	Name     string
	Line     int
	Parent   *Element
	Children []*Element

	attrs []html.Attribute
	nodes []interface{}
	doc   *Document

	start      int
	innerStart int
	innerEnd   int
	end        int
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// optionalEnd lists elements whose end tag may be omitted in HTML.
var optionalEnd = map[string]bool{
	"html": true, "head": true, "body": true, "p": true, "li": true,
	"dt": true, "dd": true, "option": true, "optgroup": true, "tr": true,
	"td": true, "th": true, "thead": true, "tbody": true, "tfoot": true,
	"colgroup": true, "caption": true, "rp": true, "rt": true,
}

// closesParagraph lists start tags that implicitly end an open <p>.
var closesParagraph = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"details": true, "div": true, "dl": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "ul": true,
}

var scopeBoundary = map[string]bool{
	"#document": true, "html": true, "table": true, "td": true, "th": true,
	"caption": true, "template": true, "button": true, "object": true,
}

// Parse reads a whole document. Markup errors never fail the parse; they are
// collected on Document.Errors.
func Parse(r io.Reader) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return parseBytes(src), nil
}

// ParseString parses markup held in memory.
func ParseString(s string) *Document {
	return parseBytes([]byte(s))
}

type builder struct {
	doc    *Document
	stack  []*Element
	offset int
	line   int
}

func parseBytes(src []byte) *Document {
	doc := &Document{src: src}
	root := &Element{Name: "#document", Line: 1, doc: doc, innerEnd: len(src), end: len(src)}
	doc.Root = root

	b := &builder{doc: doc, stack: []*Element{root}, line: 1}
	z := html.NewTokenizer(bytes.NewReader(src))
	for {
		tt := z.Next()
		raw := z.Raw()
		start, line := b.offset, b.line
		b.offset += len(raw)
		b.line += bytes.Count(raw, []byte("\n"))

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				b.errorf(line, "tokenizer: %v", err)
			}
			b.finish()
			return doc
		case html.TextToken:
			b.current().nodes = append(b.current().nodes, string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			b.open(tok, start, b.offset, line, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			tok := z.Token()
			b.close(tok.Data, start, b.offset, line)
		}
	}
}

func (b *builder) current() *Element { return b.stack[len(b.stack)-1] }

func (b *builder) errorf(line int, format string, args ...interface{}) {
	b.doc.Errors = append(b.doc.Errors, ParseError{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (b *builder) open(tok html.Token, start, end, line int, selfClosing bool) {
	name := tok.Data
	b.implicitClose(name, start)

	parent := b.current()
	el := &Element{
		Name:       name,
		Line:       line,
		Parent:     parent,
		attrs:      tok.Attr,
		doc:        b.doc,
		start:      start,
		innerStart: end,
		innerEnd:   end,
		end:        end,
	}
	parent.Children = append(parent.Children, el)
	parent.nodes = append(parent.nodes, el)

	if selfClosing || voidElements[name] {
		return
	}
	b.stack = append(b.stack, el)
}

// implicitClose pops elements whose end tag is implied by the start of name.
func (b *builder) implicitClose(name string, at int) {
	switch name {
	case "li":
		b.popUntil(at, []string{"li"}, []string{"ul", "ol"})
	case "dt", "dd":
		b.popUntil(at, []string{"dt", "dd"}, []string{"dl"})
	case "tr":
		b.popUntil(at, []string{"tr"}, []string{"table", "thead", "tbody", "tfoot"})
	case "td", "th":
		b.popUntil(at, []string{"td", "th"}, []string{"tr", "table"})
	case "thead", "tbody", "tfoot":
		b.popUntil(at, []string{"thead", "tbody", "tfoot"}, []string{"table"})
	case "option":
		b.popUntil(at, []string{"option"}, []string{"select", "datalist", "optgroup"})
	}
	if closesParagraph[name] {
		for i := len(b.stack) - 1; i > 0; i-- {
			n := b.stack[i].Name
			if n == "p" {
				b.popTo(i, at, at, false)
				break
			}
			if scopeBoundary[n] {
				break
			}
		}
	}
}

// popUntil closes the innermost element named in targets, provided no
// element named in stops sits between it and the top of the stack.
func (b *builder) popUntil(at int, targets, stops []string) {
	for i := len(b.stack) - 1; i > 0; i-- {
		n := b.stack[i].Name
		if contains(targets, n) {
			b.popTo(i, at, at, false)
			return
		}
		if contains(stops, n) {
			return
		}
	}
}

func (b *builder) close(name string, start, end, line int) {
	for i := len(b.stack) - 1; i > 0; i-- {
		if b.stack[i].Name == name {
			for _, unclosed := range b.stack[i+1:] {
				if !optionalEnd[unclosed.Name] {
					b.errorf(line, "Opening and ending tag mismatch: %s and %s", unclosed.Name, name)
				}
			}
			b.popTo(i, start, end, true)
			return
		}
	}
	if name != "p" && name != "br" {
		b.errorf(line, "Unexpected end tag : %s", name)
	}
}

// popTo removes stack[i:] from the stack. The element at i ends at end; the
// ones above it are cut off where the closing token starts.
func (b *builder) popTo(i, innerEnd, end int, explicit bool) {
	for j := len(b.stack) - 1; j >= i; j-- {
		el := b.stack[j]
		el.innerEnd = innerEnd
		if j == i && explicit {
			el.end = end
		} else {
			el.end = innerEnd
		}
	}
	b.stack = b.stack[:i]
}

func (b *builder) finish() {
	for _, el := range b.stack[1:] {
		if !optionalEnd[el.Name] {
			b.errorf(b.line, "Premature end of data in tag %s line %d", el.Name, el.Line)
		}
		el.innerEnd = len(b.doc.src)
		el.end = len(b.doc.src)
	}
	b.stack = b.stack[:1]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or def when it is absent.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// Classes returns the whitespace separated class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.AttrOr("class", ""))
}

// HasClass reports whether the element carries class c.
func (e *Element) HasClass(c string) bool {
	for _, v := range e.Classes() {
		if v == c {
			return true
		}
	}
	return false
}

// InnerHTML returns the source between the element's start and end tags.
func (e *Element) InnerHTML() string {
	return string(e.doc.src[e.innerStart:e.innerEnd])
}

// OuterHTML returns the source of the element including its tags.
func (e *Element) OuterHTML() string {
	return string(e.doc.src[e.start:e.end])
}

// Text returns the unescaped text of the element and its descendants.
func (e *Element) Text() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	for _, n := range e.nodes {
		switch v := n.(type) {
		case string:
			sb.WriteString(v)
		case *Element:
			v.writeText(sb)
		}
	}
}
