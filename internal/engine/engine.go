// Package engine adapts a JSON-LD processor to the operations examples are
// checked with.
package engine

import (
	"fmt"

	"github.com/fulmenhq/specex/internal/example"
	"github.com/fulmenhq/specex/internal/rdf"
)

// Operation is the transformation applied to an example.
type Operation string

const (
	OpNone    Operation = "none"
	OpExpand  Operation = "expand"
	OpCompact Operation = "compact"
	OpFlatten Operation = "flatten"
	OpFrame   Operation = "frame"
	OpFromRDF Operation = "fromRdf"
	OpToRDF   Operation = "toRdf"
)

// Input is a document handed to the processor: example content together
// with its declared kind.
type Input struct {
	Body string
	Kind example.SyntaxKind

	// Target selects a JSON-LD script element by id when Body is markup.
	Target string
}

// Options carries the per-call settings derived from example attributes.
type Options struct {
	Base string

	// ExternalContext is applied before the input's own context when
	// expanding.
	ExternalContext *Input

	// Values are the parsed data-options pairs.
	Values map[string]any
}

// Processor performs JSON-LD operations. JSON results are returned as
// generic decoded JSON values.
type Processor interface {
	Expand(in Input, opts Options) (any, error)
	Compact(in Input, ctx *Input, opts Options) (any, error)
	Flatten(in Input, ctx *Input, opts Options) (any, error)
	Frame(in Input, frame Input, opts Options) (any, error)
	FromRDF(ds *rdf.Dataset, opts Options) (any, error)
	ToRDF(in Input, opts Options) (*rdf.Dataset, error)
}

// Error wraps a failure raised by the processor, including recovered
// panics.
type Error struct {
	Op  Operation
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
