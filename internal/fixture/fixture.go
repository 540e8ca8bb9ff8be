// Package fixture persists extracted examples to disk: the normalized body
// of every example and a YAML rendition of JSON-shaped ones.
package fixture

import (
	"bytes"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/specex/internal/example"
	"github.com/fulmenhq/specex/pkg/logger"
	"github.com/fulmenhq/specex/pkg/safeio"
)

// WriteError reports a fixture that could not be persisted. It aborts the
// run.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write fixture %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

var jsonExt = regexp.MustCompile(`\.json.*$`)

// Writer writes fixtures into ExampleDir and YAMLDir. An empty directory
// disables that kind of output.
type Writer struct {
	ExampleDir string
	YAMLDir    string
}

// Enabled reports whether any output directory is configured.
func (w *Writer) Enabled() bool {
	return w != nil && (w.ExampleDir != "" || w.YAMLDir != "")
}

// Write persists ex. Only JSON-shaped examples get a YAML fixture.
func (w *Writer) Write(ex *example.Example) error {
	if w == nil {
		return nil
	}
	if w.ExampleDir != "" {
		path, err := safeio.WriteFileContained(w.ExampleDir, ex.Filename, []byte(ex.Content))
		if err != nil {
			return &WriteError{Path: ex.Filename, Err: err}
		}
		logger.Trace("Wrote example fixture", logger.String("path", path))
	}

	if w.YAMLDir != "" && jsonExt.MatchString(ex.Filename) {
		name := jsonExt.ReplaceAllString(ex.Filename, ".yaml")
		data, err := YAML(ex)
		if err != nil {
			return &WriteError{Path: name, Err: err}
		}
		path, err := safeio.WriteFileContained(w.YAMLDir, name, data)
		if err != nil {
			return &WriteError{Path: name, Err: err}
		}
		logger.Trace("Wrote YAML fixture", logger.String("path", path))
	}
	return nil
}

// YAML renders the JSON body of ex as a YAML document headed by a comment
// naming the example.
func YAML(ex *example.Example) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(ex.Content), &root); err != nil {
		return nil, fmt.Errorf("example %d is not valid JSON: %w", ex.Number, err)
	}
	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}}}
	}
	blockStyle(&root)
	root.HeadComment = fmt.Sprintf("Example %03d: %s", ex.Number, ex.Title)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow style JSON input carries so the output reads
// as ordinary YAML. Quoted scalars stay quoted where YAML would otherwise
// change their type.
func blockStyle(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		n.Style = 0
	case yaml.ScalarNode:
		if n.Tag == "!!str" && n.Style == yaml.DoubleQuotedStyle {
			n.Style = 0
		}
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
