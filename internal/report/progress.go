/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package report renders run results: progress marks while examples run,
// then a text, JSON, markdown or HTML report.
package report

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/fulmenhq/specex/internal/example"
)

// Styles colors marks and headings of the text report.
type Styles struct {
	Pass   lipgloss.Style
	Warn   lipgloss.Style
	Ignore lipgloss.Style
	Fail   lipgloss.Style
}

// PlainStyles leaves text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Pass: plain, Warn: plain, Ignore: plain, Fail: plain}
}

// ColorStyles uses the ANSI palette.
func ColorStyles() Styles {
	return Styles{
		Pass:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Ignore: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// StylesFor picks colored styles when f is a terminal, noColor is unset
// and NO_COLOR is absent from the environment.
func StylesFor(f *os.File, noColor bool) Styles {
	if noColor || os.Getenv("NO_COLOR") != "" || f == nil || !term.IsTerminal(int(f.Fd())) {
		return PlainStyles()
	}
	return ColorStyles()
}

// Progress writes one mark per finished example.
type Progress struct {
	w      io.Writer
	styles Styles
	marks  int
}

// NewProgress creates a progress writer on w.
func NewProgress(w io.Writer, styles Styles) *Progress {
	return &Progress{w: w, styles: styles}
}

// Mark writes the mark for ex's status: '.' pass, 'w' warn, 'i' ignored and
// 'F' for failures.
func (p *Progress) Mark(ex *example.Example) {
	var mark string
	switch ex.Status {
	case example.StatusPass:
		mark = p.styles.Pass.Render(".")
	case example.StatusWarn:
		mark = p.styles.Warn.Render("w")
	case example.StatusIgnored:
		mark = p.styles.Ignore.Render("i")
	case example.StatusFail, example.StatusError:
		mark = p.styles.Fail.Render("F")
	default:
		return
	}
	p.marks++
	_, _ = io.WriteString(p.w, mark)
}

// Done ends the line of marks, if any were written.
func (p *Progress) Done() {
	if p.marks > 0 {
		_, _ = io.WriteString(p.w, "\n")
		p.marks = 0
	}
}
