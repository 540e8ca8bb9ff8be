package rdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	knakk "github.com/knakk/rdf"
	"github.com/piprate/json-gold/ld"
)

// ReadError is a problem found while reading a serialization. Readers keep
// going after an error where the format allows it.
type ReadError struct {
	Line    int
	Message string
}

func (e ReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ReadNQuads parses N-Quads one line at a time so that every malformed
// line is reported.
func ReadNQuads(input string) (*Dataset, []ReadError) {
	ds := NewDataset()
	var errs []ReadError

	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parsed, err := ld.ParseNQuads(text + "\n")
		if err != nil {
			errs = append(errs, ReadError{Line: line, Message: err.Error()})
			continue
		}
		for _, e := range mergeLD(ds, parsed) {
			errs = append(errs, ReadError{Line: line, Message: e.Error()})
		}
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, ReadError{Line: line, Message: err.Error()})
	}
	return ds, errs
}

// FromLD converts a dataset produced by the JSON-LD engine.
func FromLD(src *ld.RDFDataset) (*Dataset, error) {
	ds := NewDataset()
	if errs := mergeLD(ds, src); len(errs) > 0 {
		return ds, errors.Join(errs...)
	}
	return ds, nil
}

func mergeLD(ds *Dataset, src *ld.RDFDataset) []error {
	if src == nil {
		return nil
	}
	var errs []error
	for name, quads := range src.Graphs {
		var graph Term
		if name != "@default" {
			graph = graphTerm(name)
		}
		for _, q := range quads {
			if q == nil {
				continue
			}
			quad := Quad{
				Subject:   fromLDNode(q.Subject),
				Predicate: fromLDNode(q.Predicate),
				Object:    fromLDNode(q.Object),
				Graph:     graph,
			}
			if err := quad.Validate(); err != nil {
				errs = append(errs, err)
				continue
			}
			ds.Add(quad)
		}
	}
	return errs
}

func graphTerm(name string) Term {
	if strings.HasPrefix(name, "_:") {
		return Blank(name)
	}
	return IRI(name)
}

func fromLDNode(n ld.Node) Term {
	switch v := n.(type) {
	case *ld.IRI:
		return IRI(v.Value)
	case *ld.BlankNode:
		return Blank(v.Attribute)
	case *ld.Literal:
		return Literal(v.Value, v.Datatype, v.Language)
	}
	return Term{}
}

// ReadTurtle parses a Turtle document into the default graph.
func ReadTurtle(input string) (*Dataset, []ReadError) {
	ds := NewDataset()
	errs := decodeTurtle(ds, input, Term{}, 0, nil)
	return ds, errs
}

// decodeTurtle adds the triples of input to ds in graph. Decoding stops at
// the first syntax error because the decoder cannot resynchronize. A
// non-nil relabel rewrites every blank node label.
func decodeTurtle(ds *Dataset, input string, graph Term, lineOffset int, relabel func(string) string) []ReadError {
	dec := knakk.NewTripleDecoder(strings.NewReader(input), knakk.Turtle)
	var errs []ReadError
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, ReadError{Line: lineOffset, Message: err.Error()})
			break
		}
		quad := Quad{
			Subject:   fromKnakk(tr.Subj),
			Predicate: fromKnakk(tr.Pred),
			Object:    fromKnakk(tr.Obj),
			Graph:     graph,
		}
		if relabel != nil {
			quad.Subject = relabelBlank(quad.Subject, relabel)
			quad.Object = relabelBlank(quad.Object, relabel)
		}
		if err := quad.Validate(); err != nil {
			errs = append(errs, ReadError{Line: lineOffset, Message: err.Error()})
			continue
		}
		ds.Add(quad)
	}
	return errs
}

func relabelBlank(t Term, relabel func(string) string) Term {
	if t.Kind == KindBlank {
		t.Value = relabel(t.Value)
	}
	return t
}

func fromKnakk(t knakk.Term) Term {
	if t == nil {
		return Term{}
	}
	switch t.Type() {
	case knakk.TermIRI:
		return IRI(t.String())
	case knakk.TermBlank:
		return Blank(t.String())
	case knakk.TermLiteral:
		if lit, ok := t.(knakk.Literal); ok {
			return Literal(lit.String(), lit.DataType.String(), lit.Lang())
		}
		return Literal(t.String(), "", "")
	}
	return Term{}
}
