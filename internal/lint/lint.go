// Package lint runs quality checks over RDF datasets produced from examples.
// Rules are grouped into versioned sets so documents can pin the checks they
// were written against.
package lint

import (
	"fmt"
	"sort"

	"github.com/fulmenhq/specex/internal/rdf"
)

// Finding kinds.
const (
	KindLiteral  = "literal"
	KindDatatype = "datatype"
	KindProperty = "property"
	KindClass    = "class"
)

// DefaultVersion is the rule set used when none is configured.
const DefaultVersion = "v1"

// Emit records a problem with term, grouped under kind.
type Emit func(kind, term, message string)

// Rule inspects one statement at a time.
type Rule interface {
	Name() string
	Check(q rdf.Quad, emit Emit)
}

// RuleSet is a named, versioned collection of rules.
type RuleSet struct {
	Version string
	Rules   []Rule
}

var registry = map[string]*RuleSet{
	"v1": {
		Version: "v1",
		Rules: []Rule{
			languageRule{},
			datatypeRule{},
			directionRule{},
			vocabularyRule{},
			typeRule{},
		},
	},
}

// Lookup returns the rule set registered under version. An empty version
// selects DefaultVersion.
func Lookup(version string) (*RuleSet, error) {
	if version == "" {
		version = DefaultVersion
	}
	rs, ok := registry[version]
	if !ok {
		return nil, fmt.Errorf("unknown lint rule set %q (available: %v)", version, Versions())
	}
	return rs, nil
}

// Versions lists the registered rule set versions.
func Versions() []string {
	out := make([]string, 0, len(registry))
	for v := range registry {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Report groups messages by kind, then by the term they concern.
type Report map[string]map[string][]string

// Empty reports whether no rule fired.
func (r Report) Empty() bool { return len(r) == 0 }

// Count returns the total number of messages.
func (r Report) Count() int {
	n := 0
	for _, terms := range r {
		for _, msgs := range terms {
			n += len(msgs)
		}
	}
	return n
}

// Entry is one kind/term group of a report.
type Entry struct {
	Kind     string
	Term     string
	Messages []string
}

// Entries returns the report sorted by kind and term.
func (r Report) Entries() []Entry {
	var out []Entry
	for kind, terms := range r {
		for term, msgs := range terms {
			out = append(out, Entry{Kind: kind, Term: term, Messages: msgs})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// Lint applies every rule to every statement of ds. Terms in the report
// are abbreviated with p when possible.
func (rs *RuleSet) Lint(ds *rdf.Dataset, p *rdf.Prefixes) Report {
	report := Report{}
	seen := make(map[string]bool)
	emit := func(kind, term, message string) {
		if p != nil {
			term = p.Compact(term)
		}
		key := kind + "\x00" + term + "\x00" + message
		if seen[key] {
			return
		}
		seen[key] = true
		if report[kind] == nil {
			report[kind] = make(map[string][]string)
		}
		report[kind][term] = append(report[kind][term], message)
	}
	for _, q := range ds.Quads() {
		for _, rule := range rs.Rules {
			rule.Check(q, emit)
		}
	}
	return report
}
