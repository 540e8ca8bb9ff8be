package example

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/specex/internal/document"
)

const builderDoc = `<section>
<pre class="example" title="Ex1" data-context="ctx">
  {
    "@id": "http://example.org/x"
  }
</pre>
<pre class="example" title="Dup" data-content-type="text/turtle">first</pre>
<pre class="example" title="Dup" data-content-type="application/n-quads" data-result-for="Ex1" data-to-rdf>second</pre>
<aside class="example" title="Agg">
  <pre class="original" data-compact>{"a": 1}</pre>
  <pre class="compacted" data-content-type="application/json">{"b": 2}</pre>
  <table class="statements"><thead><tr><th>Subject</th></tr></thead><tbody><tr><td>ex:a</td></tr></tbody></table>
</aside>
<pre class="example">untitled</pre>
<pre class="illegal-example" title="Bad">{ nope</pre>
<div class="example" title="Odd">div body</div>
</section>`

func buildSample(t *testing.T) *Table {
	t.Helper()
	return Build(document.ParseString(builderDoc))
}

func TestBuild_NumbersAndContent(t *testing.T) {
	table := buildSample(t)

	ex1, ok := table.Get("Ex1")
	require.True(t, ok)
	assert.Equal(t, 2, ex1.Number)
	assert.Equal(t, 2, ex1.Line)
	assert.Equal(t, KindJSONLD, ex1.Kind)
	assert.Equal(t, "{\n  \"@id\": \"http://example.org/x\"\n}", ex1.Content)
	assert.Equal(t, "ctx", ex1.Attrs.Context)
	assert.Equal(t, "Ex1.jsonld", ex1.Filename)
	assert.Empty(t, ex1.Error)
	assert.Empty(t, ex1.Warning)
}

func TestBuild_DuplicateTitleLastWriteWins(t *testing.T) {
	table := buildSample(t)

	dup, ok := table.Get("Dup")
	require.True(t, ok)
	assert.Equal(t, "second", dup.Content)
	assert.Equal(t, KindQuads, dup.Kind)
	assert.Equal(t, 4, dup.Number)
	assert.True(t, dup.Attrs.ToRDF)
	assert.Equal(t, "Ex1", dup.Attrs.ResultFor)
	assert.Equal(t, "Example 4 at line 8 uses duplicate title: Dup", dup.Warning)
}

func TestBuild_UntitledExamplesShareOneEntry(t *testing.T) {
	table := Build(document.ParseString(`<section>
<pre class="example">first</pre>
<pre class="example" title="Named">{}</pre>
<pre class="example">second</pre>
</section>`))

	assert.Equal(t, 2, table.Len())
	untitled, ok := table.Get("")
	require.True(t, ok)
	assert.Equal(t, "second", untitled.Content)
	assert.Equal(t, 4, untitled.Number)
	assert.Equal(t, "Example 4 at line 4 has no title", untitled.Error)
	assert.Equal(t, "Example 4 at line 4 uses duplicate title: ", untitled.Warning)
}

func TestBuild_AsideVariants(t *testing.T) {
	table := buildSample(t)

	original, ok := table.Get("Agg-original")
	require.True(t, ok)
	assert.Equal(t, 5, original.Number)
	assert.True(t, original.Attrs.Compact)
	assert.Equal(t, `{"a": 1}`, original.Content)

	compacted, ok := table.Get("Agg-compacted")
	require.True(t, ok)
	assert.Equal(t, 5, compacted.Number)
	assert.Equal(t, KindJSON, compacted.Kind)
	assert.Equal(t, "Agg-compacted.json", compacted.Filename)

	statements, ok := table.Get("Agg-statements")
	require.True(t, ok)
	assert.Equal(t, KindTable, statements.Kind)
	require.NotNil(t, statements.Table)
	assert.Equal(t, "table", statements.Element)
	assert.Contains(t, statements.Content, "<table class=\"statements\">")
}

func TestBuild_ErrorsAndIgnores(t *testing.T) {
	table := buildSample(t)

	untitled, ok := table.Get("")
	require.True(t, ok)
	assert.Equal(t, 6, untitled.Number)
	assert.Equal(t, "Example 6 at line 14 has no title", untitled.Error)

	bad, ok := table.Get("Bad")
	require.True(t, ok)
	assert.True(t, bad.Attrs.Ignore)

	odd, ok := table.Get("Odd")
	require.True(t, ok)
	assert.Equal(t, "div", odd.Element)
	assert.Equal(t, 7, odd.Number, "div does not advance numbering")
}

func TestTable_OrderKeepsFirstPosition(t *testing.T) {
	table := NewTable()
	table.Put(&Example{Title: "a", Content: "1"})
	table.Put(&Example{Title: "b"})
	table.Put(&Example{Title: "a", Content: "2"})

	got := table.Examples()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "2", got[0].Content)
	assert.Equal(t, 2, table.Len())
}

func TestKindForContentType(t *testing.T) {
	tests := map[string]SyntaxKind{
		"":                    KindJSONLD,
		"application/ld+json": KindJSONLD,
		"application/json":    KindJSON,
		"application/n-quads": KindQuads,
		"nq":                  KindQuads,
		"text/html":           KindMarkup,
		"text/turtle":         KindTurtle,
		"application/trig":    KindTriG,
		"text/plain":          KindText,
	}
	for ct, want := range tests {
		assert.Equal(t, want, KindForContentType(ct), ct)
	}
}

func TestBuild_UnescapesNonMarkupBodies(t *testing.T) {
	doc := document.ParseString(`<section>
<pre class="example" title="T" data-content-type="text/turtle">&lt;http://example.org/a&gt; &lt;http://example.org/b&gt; "a &amp; b" .</pre>
<pre class="example" title="H" data-content-type="text/html">&lt;p&gt;</pre>
</section>`)
	table := Build(doc)

	ttl, ok := table.Get("T")
	require.True(t, ok)
	assert.Equal(t, `<http://example.org/a> <http://example.org/b> "a & b" .`, ttl.Content)

	markup, ok := table.Get("H")
	require.True(t, ok)
	assert.Equal(t, "&lt;p&gt;", markup.Content)
}
