// Package verify runs the examples of a document: it resolves references
// between them, validates their syntax, executes the selected operation and
// compares results with declared expectations.
package verify

import (
	"time"

	"github.com/fulmenhq/specex/internal/example"
	"github.com/fulmenhq/specex/internal/lint"
)

// DiagnosticKind classifies why an example failed.
type DiagnosticKind string

const (
	KindStructural  DiagnosticKind = "structural"
	KindReference   DiagnosticKind = "reference"
	KindSyntax      DiagnosticKind = "syntax"
	KindEngine      DiagnosticKind = "engine"
	KindEquivalence DiagnosticKind = "equivalence"
)

// Diagnostic is one reported problem with an example.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Number  int            `json:"number"`
	Line    int            `json:"line"`
	Title   string         `json:"title"`
	Message string         `json:"message"`

	// Details holds supporting output such as a JSON diff.
	Details []string    `json:"details,omitempty"`
	Lint    lint.Report `json:"lint,omitempty"`
}

// Counts tallies example outcomes.
type Counts struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Warned  int `json:"warned"`
	Failed  int `json:"failed"`
	Ignored int `json:"ignored"`
}

func (c *Counts) add(s example.Status) {
	c.Total++
	switch s {
	case example.StatusPass:
		c.Passed++
	case example.StatusWarn:
		c.Warned++
	case example.StatusFail, example.StatusError:
		c.Failed++
	case example.StatusIgnored:
		c.Ignored++
	}
}

func (c *Counts) merge(o Counts) {
	c.Total += o.Total
	c.Passed += o.Passed
	c.Warned += o.Warned
	c.Failed += o.Failed
	c.Ignored += o.Ignored
}

// Outcome is the processed state of one example.
type Outcome struct {
	Title     string         `json:"title"`
	Number    int            `json:"number"`
	Line      int            `json:"line"`
	Kind      string         `json:"kind"`
	Operation string         `json:"operation,omitempty"`
	Status    example.Status `json:"status"`
}

// DocumentResult is the outcome of checking one input document.
type DocumentResult struct {
	Path     string       `json:"path"`
	Outcomes []Outcome    `json:"examples"`
	Errors   []Diagnostic `json:"errors,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
	Counts   Counts       `json:"counts"`
}

// Failed reports whether any example of the document failed.
func (d *DocumentResult) Failed() bool { return len(d.Errors) > 0 }

// RunResult aggregates every document of a run.
type RunResult struct {
	ID        string           `json:"id"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration_ns"`
	Documents []DocumentResult `json:"documents"`
	Counts    Counts           `json:"counts"`
}

// Failed is the OR of every document's failure state.
func (r *RunResult) Failed() bool {
	for i := range r.Documents {
		if r.Documents[i].Failed() {
			return true
		}
	}
	return false
}
