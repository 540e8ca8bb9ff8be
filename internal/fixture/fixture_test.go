package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/specex/internal/example"
)

func sampleExample() *example.Example {
	return &example.Example{
		Title:    "Sample: expanded",
		Number:   7,
		Kind:     example.KindJSONLD,
		Filename: "Sample-expanded.jsonld",
		Content:  `{"@id": "http://example.org/x", "flag": "true", "list": [1, 2]}`,
	}
}

func TestWriter_WritesBothFixtures(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{ExampleDir: filepath.Join(dir, "ex"), YAMLDir: filepath.Join(dir, "yaml")}
	ex := sampleExample()

	require.NoError(t, w.Write(ex))

	raw, err := os.ReadFile(filepath.Join(dir, "ex", "Sample-expanded.jsonld"))
	require.NoError(t, err)
	assert.Equal(t, ex.Content, string(raw))

	data, err := os.ReadFile(filepath.Join(dir, "yaml", "Sample-expanded.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Example 007: Sample: expanded"))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "http://example.org/x", back["@id"])
	assert.Equal(t, "true", back["flag"], "string scalars keep their type")
	assert.Equal(t, []any{1, 2}, back["list"])
}

func TestWriter_SkipsYAMLForOtherKinds(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{YAMLDir: dir}
	ex := &example.Example{Title: "T", Number: 3, Kind: example.KindTurtle, Filename: "T.ttl", Content: "<a> <b> <c> ."}

	require.NoError(t, w.Write(ex))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriter_ReportsWriteErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := &Writer{ExampleDir: blocker}
	err := w.Write(sampleExample())

	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "Sample-expanded.jsonld", we.Path)
}

func TestWriter_Disabled(t *testing.T) {
	var w *Writer
	assert.False(t, w.Enabled())
	assert.NoError(t, w.Write(sampleExample()))
	assert.False(t, (&Writer{}).Enabled())
}
