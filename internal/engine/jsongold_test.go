package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/specex/internal/example"
	"github.com/fulmenhq/specex/internal/rdf"
)

func newProcessor(t *testing.T) *JSONGold {
	t.Helper()
	p, err := NewJSONGold(Config{})
	require.NoError(t, err)
	return p
}

func jsonld(body string) Input { return Input{Body: body, Kind: example.KindJSONLD} }

func TestJSONGold_Expand(t *testing.T) {
	p := newProcessor(t)

	out, err := p.Expand(jsonld(`{"@id":"http://example.org/x","http://schema.org/name":"x"}`), Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{
		"@id":                    "http://example.org/x",
		"http://schema.org/name": []any{map[string]any{"@value": "x"}},
	}}, out)

	// A node with nothing but an @id is dropped.
	out, err = p.Expand(jsonld(`{"@id":"http://example.org/x"}`), Options{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestJSONGold_ExpandWithExternalContext(t *testing.T) {
	p := newProcessor(t)
	ctx := jsonld(`{"@context": {"name": "http://schema.org/name"}}`)

	out, err := p.Expand(jsonld(`{"@id": "http://example.org/x", "name": "Jane"}`), Options{ExternalContext: &ctx})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{
		"@id":                    "http://example.org/x",
		"http://schema.org/name": []any{map[string]any{"@value": "Jane"}},
	}}, out)
}

func TestJSONGold_Compact(t *testing.T) {
	p := newProcessor(t)
	ctx := jsonld(`{"@context": {"name": "http://schema.org/name"}}`)

	out, err := p.Compact(jsonld(`[{"@id": "http://example.org/x", "http://schema.org/name": [{"@value": "Jane"}]}]`), &ctx, Options{})
	require.NoError(t, err)
	m, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane", m["name"])
	assert.Equal(t, "http://example.org/x", m["@id"])
}

func TestJSONGold_ToRDFAndBack(t *testing.T) {
	p := newProcessor(t)

	ds, err := p.ToRDF(jsonld(`{"@id": "http://example.org/x", "http://example.org/p": "v"}`), Options{})
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.True(t, ds.Has(rdf.Quad{
		Subject:   rdf.IRI("http://example.org/x"),
		Predicate: rdf.IRI("http://example.org/p"),
		Object:    rdf.Literal("v", "", ""),
	}))

	out, err := p.FromRDF(ds, Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{
		"@id":                  "http://example.org/x",
		"http://example.org/p": []any{map[string]any{"@value": "v"}},
	}}, out)
}

func TestJSONGold_MarkupInput(t *testing.T) {
	p := newProcessor(t)
	markup := `<html><head>
<script type="application/ld+json" id="first">{"@id": "http://example.org/a", "http://schema.org/name": "a"}</script>
<script type="application/ld+json" id="second">{"@id": "http://example.org/b", "http://schema.org/name": "b"}</script>
</head></html>`

	out, err := p.Expand(Input{Body: markup, Kind: example.KindMarkup, Target: "#second"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{
		"@id":                    "http://example.org/b",
		"http://schema.org/name": []any{map[string]any{"@value": "b"}},
	}}, out)

	_, err = p.Expand(Input{Body: "<p>no data</p>", Kind: example.KindMarkup}, Options{})
	var engineErr *Error
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, OpExpand, engineErr.Op)
}

func TestJSONGold_OptionErrors(t *testing.T) {
	p := newProcessor(t)
	_, err := p.Expand(jsonld(`{}`), Options{Values: map[string]any{"compactArrays": "maybe"}})
	assert.Error(t, err)

	_, err = p.Expand(jsonld(`{}`), Options{Values: map[string]any{"validate": true, "unknownOption": "x"}})
	assert.NoError(t, err)
}

func TestNewJSONGold_PreloadsContexts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctx.jsonld")
	require.NoError(t, os.WriteFile(path, []byte(`{"@context": {"name": "http://schema.org/name"}}`), 0o644))

	p, err := NewJSONGold(Config{Contexts: map[string]string{"https://example.org/ctx.jsonld": path}})
	require.NoError(t, err)

	out, err := p.Expand(jsonld(`{"@context": "https://example.org/ctx.jsonld", "@id": "http://example.org/x", "name": "Jane"}`), Options{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
