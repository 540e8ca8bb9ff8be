/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aymerick/raymond"
	"github.com/mattn/go-runewidth"

	"github.com/fulmenhq/specex/internal/verify"
	"github.com/fulmenhq/specex/pkg/ascii"
)

// OutputFormat is the rendering of a run result.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
)

// Formats lists the supported output formats.
var Formats = []OutputFormat{FormatText, FormatJSON, FormatMarkdown, FormatHTML}

// ParseFormat validates a format name.
func ParseFormat(s string) (OutputFormat, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

//go:embed templates/report.html
var htmlTemplate string

// Formatter renders run results.
type Formatter struct {
	format  OutputFormat
	styles  Styles
	summary bool
}

// NewFormatter creates a formatter. styles only affect the text format.
func NewFormatter(format OutputFormat, styles Styles) *Formatter {
	return &Formatter{format: format, styles: styles}
}

// WithSummary adds a boxed count summary to text output.
func (f *Formatter) WithSummary(on bool) *Formatter {
	f.summary = on
	return f
}

// FormatReport renders run according to the configured format.
func (f *Formatter) FormatReport(run *verify.RunResult) (string, error) {
	switch f.format {
	case FormatText:
		return f.formatText(run), nil
	case FormatJSON:
		return f.formatJSON(run)
	case FormatMarkdown:
		return f.formatMarkdown(run), nil
	case FormatHTML:
		return f.formatHTML(run)
	default:
		return "", fmt.Errorf("unsupported format: %s", f.format)
	}
}

// WriteReport writes the rendered report to w.
func (f *Formatter) WriteReport(w io.Writer, run *verify.RunResult) error {
	output, err := f.FormatReport(run)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, output)
	return err
}

// formatText lists warnings and errors of every document, or ok when a
// document had neither. Progress marks are printed separately while the
// run is in flight.
func (f *Formatter) formatText(run *verify.RunResult) string {
	var sb strings.Builder
	for _, doc := range run.Documents {
		if len(run.Documents) > 1 {
			fmt.Fprintf(&sb, "%s\n", doc.Path)
		}
		if len(doc.Warnings) > 0 {
			sb.WriteString(f.styles.Warn.Render("Warnings:") + "\n")
			for _, w := range doc.Warnings {
				fmt.Fprintf(&sb, "  %s\n", w)
			}
		}
		if len(doc.Errors) > 0 {
			sb.WriteString(f.styles.Fail.Render("Errors:") + "\n")
			for _, e := range doc.Errors {
				fmt.Fprintf(&sb, "  %s\n", e.Message)
			}
		}
		if len(doc.Warnings) == 0 && len(doc.Errors) == 0 {
			sb.WriteString(f.styles.Pass.Render("ok") + "\n")
		}
	}

	if f.summary {
		c := run.Counts
		sb.WriteString(ascii.Box([]string{
			fmt.Sprintf("Run:       %s", ascii.TruncateForBox(run.ID, 16)),
			fmt.Sprintf("Documents: %d", len(run.Documents)),
			fmt.Sprintf("Examples:  %d", c.Total),
			fmt.Sprintf("Passed:    %d", c.Passed),
			fmt.Sprintf("Warned:    %d", c.Warned),
			fmt.Sprintf("Failed:    %d", c.Failed),
			fmt.Sprintf("Ignored:   %d", c.Ignored),
			fmt.Sprintf("Duration:  %s", formatDuration(run.Duration)),
		}))
	}
	return sb.String()
}

func (f *Formatter) formatJSON(run *verify.RunResult) (string, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(data) + "\n", nil
}

// formatMarkdown renders one aligned table of examples per document.
func (f *Formatter) formatMarkdown(run *verify.RunResult) string {
	var sb strings.Builder
	sb.WriteString("# Example Check Report\n\n")
	fmt.Fprintf(&sb, "**Run:** %s\n", run.ID)
	fmt.Fprintf(&sb, "**Started:** %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "**Duration:** %s\n\n", formatDuration(run.Duration))

	c := run.Counts
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Examples:** %d\n", c.Total)
	fmt.Fprintf(&sb, "- **Passed:** %d\n", c.Passed)
	fmt.Fprintf(&sb, "- **Warned:** %d\n", c.Warned)
	fmt.Fprintf(&sb, "- **Failed:** %d\n", c.Failed)
	fmt.Fprintf(&sb, "- **Ignored:** %d\n\n", c.Ignored)

	for _, doc := range run.Documents {
		fmt.Fprintf(&sb, "## %s %s\n\n", statusEmoji(&doc), doc.Path)

		rows := [][]string{{"#", "Title", "Kind", "Operation", "Status"}}
		for _, o := range doc.Outcomes {
			rows = append(rows, []string{
				strconv.Itoa(o.Number), escapeCell(o.Title), o.Kind, o.Operation, string(o.Status),
			})
		}
		sb.WriteString(markdownTable(rows))

		if len(doc.Errors) > 0 {
			sb.WriteString("\n### Errors\n\n")
			for _, e := range doc.Errors {
				fmt.Fprintf(&sb, "- %s\n", e.Message)
				for _, d := range e.Details {
					sb.WriteString("\n```diff\n" + strings.TrimRight(d, "\n") + "\n```\n\n")
				}
			}
		}
		if len(doc.Warnings) > 0 {
			sb.WriteString("\n### Warnings\n\n")
			for _, w := range doc.Warnings {
				fmt.Fprintf(&sb, "- %s\n", w)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// markdownTable pads every column to its widest cell by display width.
func markdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	line := func(row []string) {
		sb.WriteString("|")
		for i, cell := range row {
			sb.WriteString(" " + runewidth.FillRight(cell, widths[i]) + " |")
		}
		sb.WriteString("\n")
	}
	line(rows[0])
	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2) + "|")
	}
	sb.WriteString("\n")
	for _, row := range rows[1:] {
		line(row)
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func statusEmoji(doc *verify.DocumentResult) string {
	switch {
	case doc.Failed():
		return "❌"
	case len(doc.Warnings) > 0:
		return "⚠️"
	default:
		return "✅"
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}

// Template data for the HTML report.
type templateData struct {
	ID          string
	GeneratedAt string
	Duration    string
	Counts      verify.Counts
	Documents   []templateDocument
}

type templateDocument struct {
	Path     string
	Status   string
	Counts   verify.Counts
	Examples []verify.Outcome
	Errors   []verify.Diagnostic
	Warnings []string
}

func (f *Formatter) formatHTML(run *verify.RunResult) (string, error) {
	data := templateData{
		ID:          run.ID,
		GeneratedAt: run.StartedAt.Format(time.RFC3339),
		Duration:    formatDuration(run.Duration),
		Counts:      run.Counts,
	}
	for _, doc := range run.Documents {
		status := "pass"
		if doc.Failed() {
			status = "fail"
		} else if len(doc.Warnings) > 0 {
			status = "warn"
		}
		data.Documents = append(data.Documents, templateDocument{
			Path:     doc.Path,
			Status:   status,
			Counts:   doc.Counts,
			Examples: doc.Outcomes,
			Errors:   doc.Errors,
			Warnings: doc.Warnings,
		})
	}
	return renderHandlebars(htmlTemplate, data)
}

// renderHandlebars renders a Handlebars template with the report helpers.
func renderHandlebars(src string, data any) (string, error) {
	tpl, err := raymond.Parse(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	tpl.RegisterHelper("gt", func(a, b any) bool {
		aVal, _ := strconv.Atoi(fmt.Sprintf("%v", a))
		bVal, _ := strconv.Atoi(fmt.Sprintf("%v", b))
		return aVal > bVal
	})
	out, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return out, nil
}
