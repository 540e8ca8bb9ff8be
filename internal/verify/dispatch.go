package verify

import (
	"fmt"

	"github.com/fulmenhq/specex/internal/document"
	"github.com/fulmenhq/specex/internal/engine"
	"github.com/fulmenhq/specex/internal/example"
)

// Plan is the resolved engine call for one example.
type Plan struct {
	Op    engine.Operation
	Input engine.Input

	// Second is the context for compact and flatten, or the frame for
	// frame.
	Second  *engine.Input
	Options engine.Options

	// Reference is the example named by resultFor, if any.
	Reference *example.Example
}

// BaseOperation picks the operation from the example's own attributes,
// ignoring references. The first matching flag wins.
func BaseOperation(ex *example.Example) engine.Operation {
	a := ex.Attrs
	switch {
	case a.Compact:
		return engine.OpCompact
	case a.Flatten:
		return engine.OpFlatten
	case a.FromRDF:
		return engine.OpFromRDF
	case a.ToRDF:
		return engine.OpToRDF
	case ex.Kind == example.KindTable:
		return engine.OpToRDF
	}
	switch ex.Kind {
	case example.KindJSON, example.KindTurtle, example.KindTriG, example.KindQuads, example.KindText:
		return engine.OpNone
	}
	return engine.OpExpand
}

// resolution is the working state while rules run.
type resolution struct {
	ex    *example.Example
	table *example.Table
	base  string
	plan  *Plan
}

func (r *resolution) self() engine.Input {
	return engine.Input{Body: r.ex.Content, Kind: r.ex.Kind}
}

func (r *resolution) fail(format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:    KindReference,
		Number:  r.ex.Number,
		Line:    r.ex.Line,
		Title:   r.ex.Title,
		Message: fmt.Sprintf(format, args...),
	}
}

func (r *resolution) lookup(title string) (*example.Example, bool) {
	return r.table.Get(title)
}

func inputOf(ex *example.Example) *engine.Input {
	return &engine.Input{Body: ex.Content, Kind: ex.Kind}
}

// argumentRule decides the engine arguments. Rules are tried in order and
// the first whose condition holds is applied.
type argumentRule struct {
	name    string
	applies func(r *resolution) bool
	apply   func(r *resolution) *Diagnostic
}

var argumentRules = []argumentRule{
	{
		name:    "frame-for",
		applies: func(r *resolution) bool { return r.ex.Attrs.FrameFor != "" },
		apply: func(r *resolution) *Diagnostic {
			target, ok := r.lookup(r.ex.Attrs.FrameFor)
			if !ok {
				return r.fail("Example Frame %d at line %d references unknown example %s", r.ex.Number, r.ex.Line, r.ex.Attrs.FrameFor)
			}
			self := r.self()
			r.plan.Op = engine.OpFrame
			r.plan.Input = *inputOf(target)
			r.plan.Second = &self
			return nil
		},
	},
	{
		name:    "context-for",
		applies: func(r *resolution) bool { return r.ex.Attrs.ContextFor != "" },
		apply: func(r *resolution) *Diagnostic {
			target, ok := r.lookup(r.ex.Attrs.ContextFor)
			if !ok {
				return r.fail("Example Context %d at line %d references unknown example %s", r.ex.Number, r.ex.Line, r.ex.Attrs.ContextFor)
			}
			self := r.self()
			r.plan.Input = *inputOf(target)
			r.plan.Options.Base = r.base
			switch r.plan.Op {
			case engine.OpCompact, engine.OpFlatten, engine.OpNone:
				r.plan.Second = &self
			default:
				r.plan.Options.ExternalContext = &self
			}
			return nil
		},
	},
	{
		name: "sibling-context",
		applies: func(r *resolution) bool {
			return r.ex.Kind == example.KindJSONLD || r.ex.Kind == example.KindMarkup
		},
		apply: func(r *resolution) *Diagnostic {
			r.plan.Input = r.self()
			r.plan.Options.Base = r.base
			name := r.ex.Attrs.Context
			if name == "" {
				return nil
			}
			ctx, ok := r.lookup(name)
			if !ok {
				if r.ex.Attrs.ResultFor != "" {
					// reported once the result reference is resolved
					return nil
				}
				return r.fail("Example %d at line %d references unknown context %s", r.ex.Number, r.ex.Line, name)
			}
			switch r.plan.Op {
			case engine.OpCompact, engine.OpFlatten:
				r.plan.Second = inputOf(ctx)
			default:
				r.plan.Options.ExternalContext = inputOf(ctx)
			}
			return nil
		},
	},
	{
		name:    "default",
		applies: func(*resolution) bool { return true },
		apply: func(r *resolution) *Diagnostic {
			r.plan.Input = r.self()
			return nil
		},
	},
}

// Resolve builds the plan for ex. base is the example's effective base,
// which may come from a <base> element in markup content.
func Resolve(ex *example.Example, table *example.Table, base string) (*Plan, *Diagnostic) {
	r := &resolution{
		ex:    ex,
		table: table,
		base:  base,
		plan: &Plan{
			Op:      BaseOperation(ex),
			Options: engine.Options{Values: ParseOptions(ex.Attrs.Options)},
		},
	}

	for _, rule := range argumentRules {
		if !rule.applies(r) {
			continue
		}
		if d := rule.apply(r); d != nil {
			return nil, d
		}
		break
	}

	if ex.Attrs.ResultFor != "" {
		if d := r.resolveResultFor(); d != nil {
			return nil, d
		}
	}
	return r.plan, nil
}

// resolveResultFor substitutes the referenced example as the subject of
// the operation and applies frame and context attributes to it.
func (r *resolution) resolveResultFor() *Diagnostic {
	a := r.ex.Attrs
	ref, ok := r.lookup(a.ResultFor)
	if !ok {
		return r.fail("Example %d at line %d references unknown example %s", r.ex.Number, r.ex.Line, a.ResultFor)
	}
	r.plan.Reference = ref
	r.plan.Input = engine.Input{Body: ref.Content, Kind: ref.Kind}

	if ref.Kind == example.KindMarkup && (r.plan.Op == engine.OpExpand || a.Target != "") {
		doc := document.ParseString(ref.Content)
		if href, ok := doc.BaseHref(); ok {
			r.plan.Options.Base = href
		}
		if doc.JSONLDScript(a.Target) == nil {
			return r.fail("Example %d at line %d references example %s with no JSON-LD script element", r.ex.Number, r.ex.Line, a.ResultFor)
		}
		r.plan.Input.Target = a.Target
	}

	if a.Frame != "" {
		frame, ok := r.lookup(a.Frame)
		if !ok {
			return r.fail("Example %d at line %d references unknown frame %s", r.ex.Number, r.ex.Line, a.Frame)
		}
		r.plan.Op = engine.OpFrame
		r.plan.Second = inputOf(frame)
	}

	var ctx *example.Example
	if a.Context != "" {
		if ctx, ok = r.lookup(a.Context); !ok {
			return r.fail("Example %d at line %d references unknown context %s", r.ex.Number, r.ex.Line, a.Context)
		}
	}
	switch r.plan.Op {
	case engine.OpExpand, engine.OpToRDF, engine.OpFromRDF:
		if ctx != nil {
			r.plan.Options.ExternalContext = inputOf(ctx)
		}
	case engine.OpCompact, engine.OpFlatten:
		r.plan.Second = nil
		if ctx != nil {
			r.plan.Second = inputOf(ctx)
		}
	}
	return nil
}
