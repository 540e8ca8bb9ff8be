package rdf

import (
	"fmt"
	"regexp"
	"strings"
)

// trigBlock is one top-level unit of a TriG document.
type trigBlock struct {
	label     string // text before '{', empty for the default graph
	body      string
	line      int
	directive bool
	wrapped   bool
}

var (
	prefixDirective = regexp.MustCompile(`(?i)^@?prefix\s+([A-Za-z][\w.-]*)?:\s*<([^>]*)>`)
	blankLabel      = regexp.MustCompile(`_:([\w-]+(?:\.+[\w-]+)*)`)
	graphKeyword    = regexp.MustCompile(`(?i)^graph\s+`)
)

// ReadTriG parses a TriG document. Each graph block is decoded as Turtle
// with the document's directives in scope, so an error in one block does
// not hide errors in the others. Explicit blank node labels are shared by
// the whole document; anonymous nodes are local to their block.
func ReadTriG(input string) (*Dataset, []ReadError) {
	ds := NewDataset()
	blocks, errs := splitTriG(input)

	var directives []string
	prefixes := make(map[string]string)
	anon := 0

	for n, b := range blocks {
		if b.directive {
			directives = append(directives, turtleDirective(b.body))
			if m := prefixDirective.FindStringSubmatch(b.body); m != nil {
				prefixes[m[1]] = m[2]
			}
			continue
		}

		var graph Term
		if b.wrapped {
			label := strings.TrimSpace(graphKeyword.ReplaceAllString(stripComments(b.label), ""))
			switch {
			case label == "":
			case label == "[]":
				anon++
				graph = Blank(fmt.Sprintf("trig%d", anon))
			case strings.HasPrefix(label, "_:"):
				graph = Blank(label)
			case strings.HasPrefix(label, "<") && strings.HasSuffix(label, ">"):
				graph = IRI(label[1 : len(label)-1])
			default:
				i := strings.Index(label, ":")
				ns, ok := prefixes[label[:max(i, 0)]]
				if i < 0 || !ok {
					errs = append(errs, ReadError{Line: b.line, Message: fmt.Sprintf("undefined graph name %q", label)})
					continue
				}
				graph = IRI(ns + label[i+1:])
			}
		}

		body := strings.TrimSpace(b.body)
		if body == "" {
			continue
		}
		doc := strings.Join(directives, "\n") + "\n" + ensureDot(body)
		errs = append(errs, decodeTurtle(ds, doc, graph, b.line, scopeAnonymous(body, n))...)
	}
	return ds, errs
}

// scopeAnonymous returns a relabel function that keeps the labels written
// in body and prefixes the ones the decoder generated for [] and property
// lists with the block number.
func scopeAnonymous(body string, block int) func(string) string {
	explicit := make(map[string]bool)
	for _, m := range blankLabel.FindAllStringSubmatch(body, -1) {
		explicit[m[1]] = true
	}
	return func(label string) string {
		if explicit[label] {
			return label
		}
		return fmt.Sprintf("trig%d_%s", block, label)
	}
}

// turtleDirective rewrites a SPARQL style PREFIX or BASE as its Turtle
// form so it can be prepended to each block.
func turtleDirective(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "@") {
		if i := strings.IndexAny(s, " \t"); i > 0 {
			s = "@" + strings.ToLower(s[:i]) + s[i:]
		}
	}
	return ensureDot(s)
}

func ensureDot(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + " ."
}

// splitTriG cuts the document into directives, wrapped graphs and bare
// triple statements. Strings, IRIs and comments are skipped so braces and
// dots inside them do not count.
func splitTriG(input string) ([]trigBlock, []ReadError) {
	var (
		blocks []trigBlock
		errs   []ReadError
		start  = 0
		line   = 1
		startL = 1
	)

	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == '#':
			for i < len(input) && input[i] != '\n' {
				i++
			}
		case c == '<':
			i = skipIRI(input, i)
		case c == '"' || c == '\'':
			var n int
			i, n = skipString(input, i)
			line += n
		case c == '{':
			label := input[start:i]
			end, n, ok := matchBrace(input, i)
			if !ok {
				errs = append(errs, ReadError{Line: line, Message: "unterminated graph block"})
				return blocks, errs
			}
			blocks = append(blocks, trigBlock{label: label, body: input[i+1 : end], line: line, wrapped: true})
			line += n
			i = end + 1
			start, startL = i, line
		case c == '.' && terminates(input, i):
			stmt := stripComments(input[start : i+1])
			if stmt != "." {
				blocks = append(blocks, trigBlock{body: stmt, line: startL, directive: isDirective(stmt)})
			}
			i++
			start, startL = i, line
		case isSparqlDirectiveAt(input, start, i):
			end := strings.IndexByte(input[i:], '>')
			if end < 0 {
				errs = append(errs, ReadError{Line: line, Message: "unterminated directive"})
				return blocks, errs
			}
			stmt := stripComments(input[start : i+end+1])
			blocks = append(blocks, trigBlock{body: stmt, line: startL, directive: true})
			i += end + 1
			start, startL = i, line
		default:
			i++
		}
	}
	if rest := strings.TrimSpace(input[start:]); rest != "" && !onlyComments(rest) {
		errs = append(errs, ReadError{Line: startL, Message: fmt.Sprintf("unterminated statement %q", firstLine(rest))})
	}
	return blocks, errs
}

func isDirective(stmt string) bool {
	lower := strings.ToLower(stmt)
	return strings.HasPrefix(lower, "@prefix") || strings.HasPrefix(lower, "@base")
}

// isSparqlDirectiveAt reports whether position i begins a PREFIX or BASE
// directive at the start of a statement.
func isSparqlDirectiveAt(input string, start, i int) bool {
	if !onlyComments(input[start:i]) {
		return false
	}
	rest := strings.ToUpper(input[i:min(i+7, len(input))])
	return strings.HasPrefix(rest, "PREFIX ") || strings.HasPrefix(rest, "BASE ")
}

// terminates reports whether the dot at i ends a statement rather than
// sitting inside a prefixed name or a decimal.
func terminates(input string, i int) bool {
	if i+1 >= len(input) {
		return true
	}
	switch input[i+1] {
	case ' ', '\t', '\n', '\r', '#', '<', '[', '_':
		return true
	}
	return false
}

func skipIRI(input string, i int) int {
	for j := i + 1; j < len(input); j++ {
		switch input[j] {
		case '>':
			return j + 1
		case ' ', '\n', '\t':
			// a bare '<' is not an IRI start
			return i + 1
		}
	}
	return len(input)
}

// skipString returns the index after the string literal at i and the
// number of newlines it spans.
func skipString(input string, i int) (int, int) {
	q := input[i]
	long := strings.HasPrefix(input[i:], strings.Repeat(string(q), 3))
	delim := string(q)
	j := i + 1
	if long {
		delim = strings.Repeat(string(q), 3)
		j = i + 3
	}
	lines := 0
	for j < len(input) {
		switch {
		case input[j] == '\\':
			j += 2
			continue
		case strings.HasPrefix(input[j:], delim):
			return j + len(delim), lines
		case input[j] == '\n':
			lines++
		}
		j++
	}
	return len(input), lines
}

// matchBrace returns the index of the '}' closing the '{' at i and the
// number of newlines between them.
func matchBrace(input string, i int) (int, int, bool) {
	depth, lines := 0, 0
	for j := i; j < len(input); {
		switch c := input[j]; {
		case c == '\n':
			lines++
			j++
		case c == '#':
			for j < len(input) && input[j] != '\n' {
				j++
			}
		case c == '<':
			j = skipIRI(input, j)
		case c == '"' || c == '\'':
			var n int
			j, n = skipString(input, j)
			lines += n
		case c == '{':
			depth++
			j++
		case c == '}':
			depth--
			if depth == 0 {
				return j, lines, true
			}
			j++
		default:
			j++
		}
	}
	return 0, lines, false
}

// stripComments drops whole-line comments and surrounding space.
func stripComments(s string) string {
	var kept []string
	for _, l := range strings.Split(s, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(l), "#") {
			kept = append(kept, l)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func onlyComments(s string) bool {
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l != "" && !strings.HasPrefix(l, "#") {
			return false
		}
	}
	return true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
