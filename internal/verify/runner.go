/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fulmenhq/specex/internal/document"
	"github.com/fulmenhq/specex/internal/engine"
	"github.com/fulmenhq/specex/internal/example"
	"github.com/fulmenhq/specex/internal/fixture"
	"github.com/fulmenhq/specex/internal/lint"
	"github.com/fulmenhq/specex/internal/rdf"
	"github.com/fulmenhq/specex/pkg/format"
	"github.com/fulmenhq/specex/pkg/format/finalizer"
	"github.com/fulmenhq/specex/pkg/logger"
	"github.com/fulmenhq/specex/pkg/safeio"
)

// Config controls which examples are run and how they are judged.
type Config struct {
	// Verbose echoes every example, its result and the expectation.
	Verbose bool

	// Number and Line restrict the run to matching examples when non-zero.
	Number int
	Line   int

	// Lint enables linting of RDF expectations with the LintRules version.
	Lint      bool
	LintRules string

	// Prefixes extend the table prefix map.
	Prefixes map[string]string
}

// ProgressFunc is told about every example once it has a terminal status.
type ProgressFunc func(ex *example.Example)

// Runner checks documents against a processor.
type Runner struct {
	proc     engine.Processor
	cfg      Config
	fixtures *fixture.Writer
	rules    *lint.RuleSet
	prefixes *rdf.Prefixes
	echo     io.Writer
	progress ProgressFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithFixtures writes example and YAML fixtures through w.
func WithFixtures(w *fixture.Writer) Option {
	return func(r *Runner) { r.fixtures = w }
}

// WithEcho sets where verbose output goes.
func WithEcho(w io.Writer) Option {
	return func(r *Runner) { r.echo = w }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.progress = fn }
}

// NewRunner creates a runner. An unknown lint rule set version is an error.
func NewRunner(proc engine.Processor, cfg Config, opts ...Option) (*Runner, error) {
	if proc == nil {
		return nil, errors.New("no processor configured")
	}
	r := &Runner{
		proc:     proc,
		cfg:      cfg,
		prefixes: rdf.NewPrefixes(cfg.Prefixes),
		echo:     os.Stdout,
	}
	if cfg.Lint {
		version := cfg.LintRules
		if version == "" {
			version = lint.DefaultVersion
		}
		rules, err := lint.Lookup(version)
		if err != nil {
			return nil, err
		}
		r.rules = rules
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run checks every document in paths, one after another. A fixture write
// failure stops the run and is returned together with the partial result.
func (r *Runner) Run(ctx context.Context, paths []string) (*RunResult, error) {
	run := &RunResult{ID: uuid.New().String(), StartedAt: time.Now()}
	defer func() { run.Duration = time.Since(run.StartedAt) }()

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		clean, err := safeio.CleanUserPath(p)
		if err != nil {
			return run, fmt.Errorf("invalid document path %q: %w", p, err)
		}
		f, err := os.Open(clean) // #nosec G304 -- path cleaned above
		if err != nil {
			return run, fmt.Errorf("failed to open document: %w", err)
		}
		doc, err := r.CheckDocument(ctx, clean, f)
		_ = f.Close()
		if doc != nil {
			run.Documents = append(run.Documents, *doc)
			run.Counts.merge(doc.Counts)
		}
		if err != nil {
			return run, err
		}
	}
	return run, nil
}

// CheckDocument checks the examples of one document read from src.
func (r *Runner) CheckDocument(ctx context.Context, path string, src io.Reader) (*DocumentResult, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	raw, err = finalizer.PrepareDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	doc, err := document.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s := &session{
		r:      r,
		path:   path,
		table:  example.Build(doc),
		result: &DocumentResult{Path: path},
	}
	logger.Debug(fmt.Sprintf("Checking %s: %d examples", path, s.table.Len()))

	for _, ex := range s.ordered() {
		if err := ctx.Err(); err != nil {
			return s.result, err
		}
		if !r.selected(ex) {
			continue
		}
		if err := s.process(ex); err != nil {
			return s.result, err
		}
	}

	c := s.result.Counts
	logger.Info(fmt.Sprintf("Checked %s: %d passed, %d warned, %d failed, %d ignored",
		path, c.Passed, c.Warned, c.Failed, c.Ignored))
	return s.result, nil
}

func (r *Runner) selected(ex *example.Example) bool {
	if r.cfg.Number != 0 && ex.Number != r.cfg.Number {
		return false
	}
	if r.cfg.Line != 0 && ex.Line != r.cfg.Line {
		return false
	}
	return true
}

// session holds the state of one document while its examples run.
type session struct {
	r      *Runner
	path   string
	table  *example.Table
	result *DocumentResult
}

// ordered returns the table's examples by ascending number. Examples of an
// aside share a number and keep document order.
func (s *session) ordered() []*example.Example {
	exs := s.table.Examples()
	sort.SliceStable(exs, func(i, j int) bool { return exs[i].Number < exs[j].Number })
	return exs
}

// process runs one example to a terminal status. Only persistence errors
// are returned; everything else becomes a diagnostic.
func (s *session) process(ex *example.Example) error {
	s.echoExample(ex)

	var op engine.Operation
	defer func() {
		s.result.Outcomes = append(s.result.Outcomes, Outcome{
			Title:     ex.Title,
			Number:    ex.Number,
			Line:      ex.Line,
			Kind:      string(ex.Kind),
			Operation: string(op),
			Status:    ex.Status,
		})
		s.result.Counts.add(ex.Status)
		if s.r.progress != nil {
			s.r.progress(ex)
		}
	}()

	if ex.Attrs.Ignore {
		ex.Status = example.StatusIgnored
		return nil
	}
	if ex.Error != "" {
		s.fail(ex, example.StatusFail, Diagnostic{
			Kind: KindStructural, Number: ex.Number, Line: ex.Line, Title: ex.Title, Message: ex.Error,
		})
		return nil
	}
	switch ex.Element {
	case "pre", "script", "table":
	default:
		s.fail(ex, example.StatusFail, s.diag(ex, KindStructural, "has unknown element type %s", ex.Element))
		return nil
	}

	base, diags := ValidateSyntax(ex)
	if len(diags) > 0 {
		s.fail(ex, example.StatusFail, diags...)
		return nil
	}

	plan, d := Resolve(ex, s.table, base)
	if d != nil {
		s.fail(ex, example.StatusFail, *d)
		return nil
	}
	op = plan.Op

	if err := s.r.fixtures.Write(ex); err != nil {
		ex.Status = example.StatusError
		ex.Message = err.Error()
		logger.Error("Failed to write fixture", logger.String("example", ex.Title), logger.Err(err))
		return err
	}

	res, err := s.execute(plan)
	if err != nil {
		s.fail(ex, example.StatusError, s.diag(ex, KindEngine, "parse error generating result: %v", err))
		return nil
	}
	s.echoResult(res)

	if diags := s.compare(ex, plan, res); len(diags) > 0 {
		s.fail(ex, example.StatusFail, diags...)
		return nil
	}

	if ex.Warning != "" {
		ex.Status = example.StatusWarn
		ex.Message = ex.Warning
		s.result.Warnings = append(s.result.Warnings, ex.Warning)
		return nil
	}
	ex.Status = example.StatusPass
	return nil
}

func (s *session) fail(ex *example.Example, status example.Status, diags ...Diagnostic) {
	ex.Status = status
	ex.Message = diags[0].Message
	s.result.Errors = append(s.result.Errors, diags...)
	for _, d := range diags {
		logger.Debug(d.Message, logger.String("kind", string(d.Kind)))
	}
}

func (s *session) echof(format string, args ...any) {
	if !s.r.cfg.Verbose || s.r.echo == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = io.WriteString(s.r.echo, msg)
}

func (s *session) pretty(v any) string {
	return format.JSONValue(v)
}

func (s *session) echoExample(ex *example.Example) {
	if !s.r.cfg.Verbose {
		return
	}
	s.echof("\nExample %d (%s) at line %d", ex.Number, ex.Title, ex.Line)
	a := ex.Attrs
	for _, kv := range [][2]string{
		{"element", ex.Element},
		{"content-type", ex.ContentType},
		{"filename", ex.Filename},
		{"context-for", a.ContextFor},
		{"context", a.Context},
		{"frame-for", a.FrameFor},
		{"frame", a.Frame},
		{"result-for", a.ResultFor},
		{"target", a.Target},
		{"base", a.Base},
		{"options", a.Options},
	} {
		if kv[1] != "" {
			s.echof("  %s: %s", kv[0], kv[1])
		}
	}

	content := ex.Content
	switch {
	case ex.Kind.IsJSON():
		if out, _, err := format.PrettifyJSON([]byte(content), "  ", 0); err == nil {
			content = string(out)
		}
	case ex.Kind == example.KindTable:
		if out, _, err := format.PrettifyMarkup([]byte(content), 2); err == nil {
			content = string(out)
		}
	}
	s.echof("content:\n%s", content)
}

func (s *session) echoResult(res Result) {
	switch {
	case res.Dataset != nil:
		s.echof("result:\n%s", res.Dataset.NQuads())
	case res.JSON != nil:
		s.echof("result: %s", s.pretty(res.JSON))
	}
}
