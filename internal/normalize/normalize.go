// Package normalize cleans example bodies lifted out of a specification
// document before they are stored or parsed.
package normalize

import (
	"regexp"
	"strings"
)

var (
	commentOpenLine  = regexp.MustCompile(`(?m)^\s*<!--\s*$`)
	commentCloseLine = regexp.MustCompile(`(?m)^\s*-->\s*$`)
	commentHighlight = regexp.MustCompile(`####[^#]*####`)

	mangledOpen       = regexp.MustCompile(`(?m)^\s*< !\s*-\s*-`)
	mangledClose      = regexp.MustCompile(`-\s*- >`)
	mangledEscapedEnd = regexp.MustCompile(`-\s*-\s*&gt;`)
)

// Justify strips highlighting and commented-out sections, drops blank lines
// and removes the common leading indentation. Relative indentation between
// lines is preserved.
func Justify(s string) string {
	s = commentOpenLine.ReplaceAllString(s, "")
	s = commentCloseLine.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "****", "")
	s = commentHighlight.ReplaceAllString(s, "")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	if len(lines) == 0 {
		return ""
	}

	leading := -1
	for _, line := range lines {
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if leading < 0 || n < leading {
			leading = n
		}
	}
	for i, line := range lines {
		lines[i] = line[leading:]
	}
	return strings.Join(lines, "\n")
}

// RestoreComments repairs comment delimiters that were broken up so they
// would survive inside the host document.
func RestoreComments(s string) string {
	s = mangledOpen.ReplaceAllString(s, "<!--")
	s = mangledClose.ReplaceAllString(s, "-->")
	return mangledEscapedEnd.ReplaceAllString(s, "--&gt;")
}
