package verify

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/fulmenhq/specex/internal/document"
	"github.com/fulmenhq/specex/internal/engine"
	"github.com/fulmenhq/specex/internal/example"
	"github.com/fulmenhq/specex/internal/rdf"
)

// Result is what an operation produced: decoded JSON, a dataset, or
// nothing for examples that are not executed.
type Result struct {
	JSON    any
	Dataset *rdf.Dataset
}

// Empty reports whether the operation produced nothing.
func (r Result) Empty() bool { return r.JSON == nil && r.Dataset == nil }

// execute runs plan against the processor.
func (s *session) execute(plan *Plan) (res Result, err error) {
	p := s.r.proc
	opts := plan.Options
	switch plan.Op {
	case engine.OpNone:
		if plan.Reference == nil {
			return Result{}, nil
		}
		// The referenced content is itself the result. A JSON-LD reference
		// of an RDF expectation reaches the processor's toRdf in compareRDF.
		return s.identity(plan.Input)
	case engine.OpExpand:
		res.JSON, err = p.Expand(plan.Input, opts)
	case engine.OpCompact:
		res.JSON, err = p.Compact(plan.Input, plan.Second, opts)
	case engine.OpFlatten:
		res.JSON, err = p.Flatten(plan.Input, plan.Second, opts)
	case engine.OpFrame:
		if plan.Second == nil {
			return res, errors.New("no frame to apply")
		}
		res.JSON, err = p.Frame(plan.Input, *plan.Second, opts)
	case engine.OpFromRDF:
		var ds *rdf.Dataset
		if ds, err = s.dataset(plan.Input, opts); err != nil {
			return res, err
		}
		res.JSON, err = p.FromRDF(ds, opts)
	case engine.OpToRDF:
		res.Dataset, err = p.ToRDF(plan.Input, opts)
	default:
		err = fmt.Errorf("unsupported operation %q", plan.Op)
	}
	return res, err
}

// identity is the result of not transforming in at all.
func (s *session) identity(in engine.Input) (Result, error) {
	if in.Kind.IsRDF() {
		ds, err := s.dataset(in, engine.Options{})
		return Result{Dataset: ds}, err
	}
	if in.Kind.IsJSON() {
		v, err := engine.Decode(in)
		return Result{JSON: v}, err
	}
	return Result{JSON: in.Body}, nil
}

// dataset reads in as RDF according to its kind. JSON-LD and markup go
// through the processor's toRdf.
func (s *session) dataset(in engine.Input, opts engine.Options) (*rdf.Dataset, error) {
	var errs []rdf.ReadError
	var ds *rdf.Dataset
	switch in.Kind {
	case example.KindQuads:
		ds, errs = rdf.ReadNQuads(in.Body)
	case example.KindTurtle:
		ds, errs = rdf.ReadTurtle(in.Body)
	case example.KindTriG:
		ds, errs = rdf.ReadTriG(in.Body)
	case example.KindTable:
		table := document.ParseString(in.Body).Root.First(document.Named("table"))
		if table == nil {
			return nil, errors.New("no table element")
		}
		return rdf.TableToDataset(table, s.r.prefixes)
	case example.KindJSONLD, example.KindMarkup:
		return s.r.proc.ToRDF(in, opts)
	default:
		return nil, fmt.Errorf("cannot read %s content as RDF", in.Kind)
	}
	if len(errs) > 0 {
		return ds, errs[0]
	}
	return ds, nil
}

// compare judges res against ex, which declared itself the result of
// plan.Reference.
func (s *session) compare(ex *example.Example, plan *Plan, res Result) []Diagnostic {
	if plan.Reference == nil {
		return nil
	}
	if ex.Kind.IsRDF() {
		return s.compareRDF(ex, plan, res)
	}
	return s.compareJSON(ex, plan, res)
}

func (s *session) compareRDF(ex *example.Example, plan *Plan, res Result) []Diagnostic {
	var diags []Diagnostic

	var expected *rdf.Dataset
	var err error
	if ex.Kind == example.KindTable {
		expected, err = rdf.TableToDataset(ex.Table, s.r.prefixes)
		if err != nil {
			diags = append(diags, s.diag(ex, KindEquivalence, "raised error reading table: %v", err))
			expected = rdf.NewDataset()
		}
	} else {
		expected, err = s.dataset(engine.Input{Body: ex.Content, Kind: ex.Kind}, engine.Options{Base: plan.Options.Base})
		if err != nil {
			return append(diags, s.diag(ex, KindEquivalence, "parse error comparing result: %v", err))
		}
	}
	s.echof("expected:\n%s", expected.NQuads())

	actual := res.Dataset
	switch {
	case actual != nil:
	case res.JSON != nil:
		body, err := json.Marshal(res.JSON)
		if err != nil {
			return append(diags, s.diag(ex, KindEquivalence, "parse error comparing result: %v", err))
		}
		actual, err = s.r.proc.ToRDF(engine.Input{Body: string(body), Kind: example.KindJSONLD}, plan.Options)
		if err != nil {
			return append(diags, s.diag(ex, KindEquivalence, "parse error comparing result: %v", err))
		}
	default:
		actual = rdf.NewDataset()
	}

	if ex.Kind == example.KindTable && s.r.cfg.Verbose {
		if table, err := rdf.DatasetToTable(actual, s.r.prefixes); err != nil {
			diags = append(diags, s.diag(ex, KindEquivalence, "raised error turning into table: %v", err))
		} else {
			s.echof("result table:\n%s", table)
		}
	}

	if !rdf.Isomorphic(expected, actual) {
		return append(diags, s.diag(ex, KindEquivalence, "not isomorphic with %d", plan.Reference.Number))
	}

	if s.r.rules != nil && !ex.Attrs.NoLint {
		if report := s.r.rules.Lint(expected, s.r.prefixes); !report.Empty() {
			for _, e := range report.Entries() {
				s.echof("lint %s  %s", e.Kind, e.Term)
				for _, m := range e.Messages {
					s.echof("  %s", m)
				}
			}
			d := s.diag(ex, KindEquivalence, "has lint errors")
			d.Lint = report
			diags = append(diags, d)
		}
	}
	return diags
}

func (s *session) compareJSON(ex *example.Example, plan *Plan, res Result) []Diagnostic {
	var expected any
	if err := json.Unmarshal([]byte(ex.Content), &expected); err != nil {
		return []Diagnostic{s.diag(ex, KindEquivalence, "parse error comparing result: %v", err)}
	}
	s.echof("expected: %s", s.pretty(expected))

	if !cmp.Equal(expected, res.JSON) {
		d := s.diag(ex, KindEquivalence, "not equivalent to %d", plan.Reference.Number)
		d.Details = []string{cmp.Diff(expected, res.JSON)}
		s.echof("diff (-expected +result):\n%s", d.Details[0])
		return []Diagnostic{d}
	}
	return nil
}

func (s *session) diag(ex *example.Example, kind DiagnosticKind, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Number:  ex.Number,
		Line:    ex.Line,
		Title:   ex.Title,
		Message: fmt.Sprintf("Example %d at line %d ", ex.Number, ex.Line) + fmt.Sprintf(format, args...),
	}
}
