package verify

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/specex/internal/document"
	"github.com/fulmenhq/specex/internal/example"
	"github.com/fulmenhq/specex/internal/rdf"
)

// ValidateSyntax checks ex against its declared kind. It returns the
// example's effective base, which a <base> element in markup overrides,
// and one diagnostic per problem found.
func ValidateSyntax(ex *example.Example) (string, []Diagnostic) {
	base := ex.Attrs.Base
	var problems []string

	switch ex.Kind {
	case example.KindJSON, example.KindJSONLD:
		var v any
		if err := json.Unmarshal([]byte(ex.Content), &v); err != nil {
			problems = append(problems, err.Error())
		}
	case example.KindMarkup:
		doc := document.ParseString(ex.Content)
		for _, e := range doc.Errors {
			problems = append(problems, e.Error())
		}
		if len(problems) == 0 {
			if href, ok := doc.BaseHref(); ok {
				base = href
			}
		}
	case example.KindTurtle:
		_, errs := rdf.ReadTurtle(ex.Content)
		problems = append(problems, readErrors(errs)...)
	case example.KindTriG:
		_, errs := rdf.ReadTriG(ex.Content)
		problems = append(problems, readErrors(errs)...)
	case example.KindQuads:
		_, errs := rdf.ReadNQuads(ex.Content)
		problems = append(problems, readErrors(errs)...)
	case example.KindTable:
		if ex.Table == nil {
			problems = append(problems, "table content is missing")
		}
	}

	var diags []Diagnostic
	for _, p := range problems {
		diags = append(diags, Diagnostic{
			Kind:    KindSyntax,
			Number:  ex.Number,
			Line:    ex.Line,
			Title:   ex.Title,
			Message: fmt.Sprintf("Example %d at line %d parse error: %s", ex.Number, ex.Line, p),
		})
	}
	return base, diags
}

func readErrors(errs []rdf.ReadError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
