// Package ignore filters document paths with gitignore-style patterns using go-git
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileName is the project-level ignore file.
const FileName = ".specexignore"

// Matcher decides whether a document found by a glob should be skipped.
type Matcher struct {
	root    string
	matcher gitignore.Matcher
}

// NewMatcher creates a matcher rooted at root with layered ignore files:
// 1. .gitignore files below root and .git/info/exclude
// 2. .specexignore at root
// 3. .specexignore in home (user overrides), when home is not empty
func NewMatcher(root, home string) (*Matcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	patterns := []gitignore.Pattern{
		gitignore.ParsePattern(".git/**", nil),
		gitignore.ParsePattern("node_modules/**", nil),
	}
	if gitPatterns, err := gitignore.ReadPatterns(osfs.New(abs), nil); err == nil {
		patterns = append(patterns, gitPatterns...)
	}
	for _, dir := range []string{abs, home} {
		if dir == "" {
			continue
		}
		lines, err := readIgnoreFile(filepath.Join(dir, FileName))
		if err != nil {
			continue
		}
		for _, line := range lines {
			patterns = append(patterns, gitignore.ParsePattern(line, nil))
		}
	}

	return &Matcher{root: abs, matcher: gitignore.NewMatcher(patterns)}, nil
}

// readIgnoreFile reads the non-comment lines of an ignore file.
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- fixed file name
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored reports whether path matches the ignore patterns. Paths outside
// the root are never ignored.
func (m *Matcher) IsIgnored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(m.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}

	parts := splitPath(filepath.ToSlash(rel))
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, false)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
