package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/fulmenhq/specex/internal/document"
	"github.com/fulmenhq/specex/internal/example"
	"github.com/fulmenhq/specex/internal/rdf"
	"github.com/fulmenhq/specex/pkg/logger"
)

// DefaultProcessingMode is used unless configuration or data-options say
// otherwise.
const DefaultProcessingMode = "json-ld-1.1"

// Config configures the json-gold backed processor.
type Config struct {
	ProcessingMode string

	// Contexts maps remote context URLs to local files loaded up front.
	Contexts map[string]string
}

// JSONGold implements Processor with github.com/piprate/json-gold.
type JSONGold struct {
	proc   *ld.JsonLdProcessor
	loader ld.DocumentLoader
	mode   string
}

// NewJSONGold builds a processor whose document loader caches remote
// contexts and serves the configured local copies first.
func NewJSONGold(cfg Config) (*JSONGold, error) {
	loader := ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))
	if len(cfg.Contexts) > 0 {
		if err := loader.PreloadWithMapping(cfg.Contexts); err != nil {
			return nil, fmt.Errorf("failed to preload contexts: %w", err)
		}
		logger.Debug("Preloaded JSON-LD contexts", logger.Int("count", len(cfg.Contexts)))
	}
	mode := cfg.ProcessingMode
	if mode == "" {
		mode = DefaultProcessingMode
	}
	return &JSONGold{proc: ld.NewJsonLdProcessor(), loader: loader, mode: mode}, nil
}

// Expand implements Processor.
func (g *JSONGold) Expand(in Input, opts Options) (result any, err error) {
	defer recoverAs(OpExpand, &err)
	doc, o, err := g.prepare(in, opts)
	if err != nil {
		return nil, wrap(OpExpand, err)
	}
	out, err := g.proc.Expand(doc, o)
	if err != nil {
		return nil, wrap(OpExpand, err)
	}
	return normalize(out)
}

// Compact implements Processor. A nil ctx compacts against an empty
// context.
func (g *JSONGold) Compact(in Input, ctx *Input, opts Options) (result any, err error) {
	defer recoverAs(OpCompact, &err)
	doc, o, err := g.prepare(in, opts)
	if err != nil {
		return nil, wrap(OpCompact, err)
	}
	c, err := contextValue(ctx)
	if err != nil {
		return nil, wrap(OpCompact, err)
	}
	if c == nil {
		c = map[string]any{}
	}
	out, err := g.proc.Compact(doc, c, o)
	if err != nil {
		return nil, wrap(OpCompact, err)
	}
	return normalize(out)
}

// Flatten implements Processor.
func (g *JSONGold) Flatten(in Input, ctx *Input, opts Options) (result any, err error) {
	defer recoverAs(OpFlatten, &err)
	doc, o, err := g.prepare(in, opts)
	if err != nil {
		return nil, wrap(OpFlatten, err)
	}
	c, err := contextValue(ctx)
	if err != nil {
		return nil, wrap(OpFlatten, err)
	}
	out, err := g.proc.Flatten(doc, c, o)
	if err != nil {
		return nil, wrap(OpFlatten, err)
	}
	return normalize(out)
}

// Frame implements Processor.
func (g *JSONGold) Frame(in Input, frame Input, opts Options) (result any, err error) {
	defer recoverAs(OpFrame, &err)
	doc, o, err := g.prepare(in, opts)
	if err != nil {
		return nil, wrap(OpFrame, err)
	}
	f, err := Decode(frame)
	if err != nil {
		return nil, wrap(OpFrame, fmt.Errorf("frame: %w", err))
	}
	out, err := g.proc.Frame(doc, f, o)
	if err != nil {
		return nil, wrap(OpFrame, err)
	}
	return normalize(out)
}

// FromRDF implements Processor.
func (g *JSONGold) FromRDF(ds *rdf.Dataset, opts Options) (result any, err error) {
	defer recoverAs(OpFromRDF, &err)
	o, err := g.options(opts)
	if err != nil {
		return nil, wrap(OpFromRDF, err)
	}
	o.Format = "application/n-quads"
	out, err := g.proc.FromRDF(ds.NQuads(), o)
	if err != nil {
		return nil, wrap(OpFromRDF, err)
	}
	return normalize(out)
}

// ToRDF implements Processor.
func (g *JSONGold) ToRDF(in Input, opts Options) (result *rdf.Dataset, err error) {
	defer recoverAs(OpToRDF, &err)
	doc, o, err := g.prepare(in, opts)
	if err != nil {
		return nil, wrap(OpToRDF, err)
	}
	out, err := g.proc.ToRDF(doc, o)
	if err != nil {
		return nil, wrap(OpToRDF, err)
	}
	switch v := out.(type) {
	case *ld.RDFDataset:
		ds, err := rdf.FromLD(v)
		if err != nil {
			return nil, wrap(OpToRDF, err)
		}
		return ds, nil
	case string:
		ds, errs := rdf.ReadNQuads(v)
		if len(errs) > 0 {
			return nil, wrap(OpToRDF, errs[0])
		}
		return ds, nil
	}
	return nil, wrap(OpToRDF, fmt.Errorf("unexpected result type %T", out))
}

func (g *JSONGold) prepare(in Input, opts Options) (any, *ld.JsonLdOptions, error) {
	doc, err := Decode(in)
	if err != nil {
		return nil, nil, err
	}
	o, err := g.options(opts)
	if err != nil {
		return nil, nil, err
	}
	return doc, o, nil
}

func (g *JSONGold) options(opts Options) (*ld.JsonLdOptions, error) {
	o := ld.NewJsonLdOptions(opts.Base)
	o.DocumentLoader = g.loader
	o.ProcessingMode = g.mode

	if opts.ExternalContext != nil {
		c, err := contextValue(opts.ExternalContext)
		if err != nil {
			return nil, fmt.Errorf("external context: %w", err)
		}
		o.ExpandContext = c
	}

	for key, value := range opts.Values {
		if err := applyOption(o, key, value); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// applyOption maps a data-options pair onto the processor options. Keys the
// processor has no equivalent for are ignored.
func applyOption(o *ld.JsonLdOptions, key string, value any) error {
	b, isBool := value.(bool)
	s, _ := value.(string)
	boolean := func(dst *bool) error {
		if !isBool {
			return fmt.Errorf("option %s expects true or false, got %v", key, value)
		}
		*dst = b
		return nil
	}

	switch key {
	case "base":
		o.Base = s
	case "processingMode":
		o.ProcessingMode = s
	case "compactArrays":
		return boolean(&o.CompactArrays)
	case "useNativeTypes":
		return boolean(&o.UseNativeTypes)
	case "useRdfType":
		return boolean(&o.UseRdfType)
	case "produceGeneralizedRdf":
		return boolean(&o.ProduceGeneralizedRdf)
	case "omitGraph":
		return boolean(&o.OmitGraph)
	case "explicit":
		return boolean(&o.Explicit)
	case "requireAll":
		return boolean(&o.RequireAll)
	case "omitDefault":
		return boolean(&o.OmitDefault)
	default:
		logger.Trace("Ignoring processor option", logger.String("option", key))
	}
	return nil
}

// Decode turns an input into the JSON value the processor consumes. Markup
// yields the content of its JSON-LD script element.
func Decode(in Input) (any, error) {
	body := in.Body
	if in.Kind == example.KindMarkup {
		doc := document.ParseString(body)
		script := doc.JSONLDScript(in.Target)
		if script == nil {
			return nil, errors.New("no JSON-LD script element")
		}
		body = script.Text()
	}
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func contextValue(in *Input) (any, error) {
	if in == nil {
		return nil, nil
	}
	return Decode(*in)
}

// normalize round-trips v through encoding/json so results compare equal
// to values decoded from example text.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func wrap(op Operation, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Op: op, Err: err}
}

func recoverAs(op Operation, err *error) {
	if r := recover(); r != nil {
		*err = &Error{Op: op, Err: fmt.Errorf("panic: %v", r)}
	}
}
