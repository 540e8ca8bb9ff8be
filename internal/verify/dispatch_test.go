package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/specex/internal/document"
	"github.com/fulmenhq/specex/internal/engine"
	"github.com/fulmenhq/specex/internal/example"
)

const dispatchDoc = `<section>
<pre class="example" title="Doc">{"@id": "http://example.org/x"}</pre>
<pre class="example" title="Ctx" data-context-for="Doc">{"@context": {"@vocab": "http://example.org/"}}</pre>
<pre class="example" title="CtxC" data-context-for="Doc" data-compact>{"@context": {}}</pre>
<pre class="example" title="Frm" data-frame-for="Doc">{"@type": "T"}</pre>
<pre class="example" title="Sib" data-context="Ctx">{"name": "x"}</pre>
<pre class="example" title="SibC" data-context="Ctx" data-compact>{"name": "x"}</pre>
<pre class="example" title="Lost" data-context="Nope">{}</pre>
<pre class="example" title="Res" data-result-for="Doc" data-frame="Frm">{}</pre>
<pre class="example" title="ResC" data-result-for="Doc" data-context="Ctx" data-compact>{}</pre>
<pre class="example" title="ResNoCtx" data-result-for="Doc" data-context="Nope">{}</pre>
<pre class="example" title="Page" data-content-type="text/html">
<!--
<html><head><base href="http://example.com/"></head><body><script type="application/ld+json" id="s1">{}</script></body></html>
-->
</pre>
<pre class="example" title="FromPage" data-result-for="Page" data-target="s1">[]</pre>
<pre class="example" title="FromPageBad" data-result-for="Page" data-target="s2">[]</pre>
<pre class="example" title="BadFrame" data-frame-for="Nope">{}</pre>
<pre class="example" title="BadCtx" data-context-for="Nope">{}</pre>
<pre class="example" title="Turtle" data-content-type="text/turtle">_:a _:b _:c .</pre>
</section>`

func dispatchTable(t *testing.T) *example.Table {
	t.Helper()
	return example.Build(document.ParseString(dispatchDoc))
}

func resolve(t *testing.T, table *example.Table, title string) (*Plan, *Diagnostic) {
	t.Helper()
	ex, ok := table.Get(title)
	require.True(t, ok, title)
	return Resolve(ex, table, ex.Attrs.Base)
}

func TestBaseOperation(t *testing.T) {
	tests := []struct {
		name string
		ex   example.Example
		want engine.Operation
	}{
		{"jsonld expands", example.Example{Kind: example.KindJSONLD}, engine.OpExpand},
		{"markup expands", example.Example{Kind: example.KindMarkup}, engine.OpExpand},
		{"compact wins", example.Example{Kind: example.KindJSONLD, Attrs: example.Attributes{Compact: true, Flatten: true}}, engine.OpCompact},
		{"flatten", example.Example{Kind: example.KindJSONLD, Attrs: example.Attributes{Flatten: true, ToRDF: true}}, engine.OpFlatten},
		{"from rdf", example.Example{Kind: example.KindQuads, Attrs: example.Attributes{FromRDF: true}}, engine.OpFromRDF},
		{"to rdf", example.Example{Kind: example.KindJSONLD, Attrs: example.Attributes{ToRDF: true}}, engine.OpToRDF},
		{"table", example.Example{Kind: example.KindTable}, engine.OpToRDF},
		{"json", example.Example{Kind: example.KindJSON}, engine.OpNone},
		{"turtle", example.Example{Kind: example.KindTurtle}, engine.OpNone},
		{"trig", example.Example{Kind: example.KindTriG}, engine.OpNone},
		{"quads", example.Example{Kind: example.KindQuads}, engine.OpNone},
		{"text", example.Example{Kind: example.KindText}, engine.OpNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := tt.ex
			assert.Equal(t, tt.want, BaseOperation(&ex))
		})
	}
}

func TestResolve_Arguments(t *testing.T) {
	table := dispatchTable(t)
	doc, _ := table.Get("Doc")
	ctx, _ := table.Get("Ctx")

	t.Run("context for expand is external", func(t *testing.T) {
		plan, d := resolve(t, table, "Ctx")
		require.Nil(t, d)
		assert.Equal(t, engine.OpExpand, plan.Op)
		assert.Equal(t, doc.Content, plan.Input.Body)
		require.NotNil(t, plan.Options.ExternalContext)
		assert.Equal(t, ctx.Content, plan.Options.ExternalContext.Body)
		assert.Nil(t, plan.Second)
	})

	t.Run("context for compact is the second argument", func(t *testing.T) {
		plan, d := resolve(t, table, "CtxC")
		require.Nil(t, d)
		assert.Equal(t, engine.OpCompact, plan.Op)
		assert.Equal(t, doc.Content, plan.Input.Body)
		require.NotNil(t, plan.Second)
		assert.Equal(t, `{"@context": {}}`, plan.Second.Body)
	})

	t.Run("frame for", func(t *testing.T) {
		plan, d := resolve(t, table, "Frm")
		require.Nil(t, d)
		assert.Equal(t, engine.OpFrame, plan.Op)
		assert.Equal(t, doc.Content, plan.Input.Body)
		require.NotNil(t, plan.Second)
		assert.Equal(t, `{"@type": "T"}`, plan.Second.Body)
	})

	t.Run("sibling context", func(t *testing.T) {
		plan, d := resolve(t, table, "Sib")
		require.Nil(t, d)
		assert.Equal(t, `{"name": "x"}`, plan.Input.Body)
		require.NotNil(t, plan.Options.ExternalContext)
		assert.Equal(t, ctx.Content, plan.Options.ExternalContext.Body)

		plan, d = resolve(t, table, "SibC")
		require.Nil(t, d)
		require.NotNil(t, plan.Second)
		assert.Equal(t, ctx.Content, plan.Second.Body)
		assert.Nil(t, plan.Options.ExternalContext)
	})

	t.Run("options default to validation", func(t *testing.T) {
		plan, d := resolve(t, table, "Doc")
		require.Nil(t, d)
		assert.Equal(t, true, plan.Options.Values["validate"])
		assert.Nil(t, plan.Reference)
	})

	t.Run("rdf content needs no engine", func(t *testing.T) {
		plan, d := resolve(t, table, "Turtle")
		require.Nil(t, d)
		assert.Equal(t, engine.OpNone, plan.Op)
		assert.Equal(t, example.KindTurtle, plan.Input.Kind)
	})
}

func TestResolve_ResultFor(t *testing.T) {
	table := dispatchTable(t)
	doc, _ := table.Get("Doc")

	t.Run("frame attribute switches to frame", func(t *testing.T) {
		plan, d := resolve(t, table, "Res")
		require.Nil(t, d)
		assert.Equal(t, engine.OpFrame, plan.Op)
		assert.Equal(t, doc.Content, plan.Input.Body)
		assert.Same(t, doc, plan.Reference)
		require.NotNil(t, plan.Second)
		assert.Equal(t, `{"@type": "T"}`, plan.Second.Body)
	})

	t.Run("context for compaction", func(t *testing.T) {
		plan, d := resolve(t, table, "ResC")
		require.Nil(t, d)
		assert.Equal(t, engine.OpCompact, plan.Op)
		require.NotNil(t, plan.Second)
		assert.Contains(t, plan.Second.Body, "@vocab")
	})

	t.Run("markup target", func(t *testing.T) {
		plan, d := resolve(t, table, "FromPage")
		require.Nil(t, d)
		assert.Equal(t, engine.OpExpand, plan.Op)
		assert.Equal(t, example.KindMarkup, plan.Input.Kind)
		assert.Equal(t, "s1", plan.Input.Target)
		assert.Equal(t, "http://example.com/", plan.Options.Base)
	})
}

func TestResolve_Failures(t *testing.T) {
	table := dispatchTable(t)
	tests := []struct {
		title   string
		message string
	}{
		{"Lost", "references unknown context Nope"},
		{"ResNoCtx", "references unknown context Nope"},
		{"FromPageBad", "references example Page with no JSON-LD script element"},
		{"BadFrame", "references unknown example Nope"},
		{"BadCtx", "references unknown example Nope"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			plan, d := resolve(t, table, tt.title)
			assert.Nil(t, plan)
			require.NotNil(t, d)
			assert.Equal(t, KindReference, d.Kind)
			assert.Contains(t, d.Message, tt.message)
		})
	}

	_, d := resolve(t, table, "BadFrame")
	require.NotNil(t, d)
	assert.Regexp(t, `^Example Frame \d+ at line \d+ `, d.Message)
	_, d = resolve(t, table, "BadCtx")
	require.NotNil(t, d)
	assert.Regexp(t, `^Example Context \d+ at line \d+ `, d.Message)
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]any
	}{
		{"", map[string]any{"validate": true}},
		{"validate=false", map[string]any{"validate": false}},
		{"processingMode=json-ld-1.0, compactArrays=true", map[string]any{
			"processingMode": "json-ld-1.0", "compactArrays": true, "validate": true,
		}},
		{" , base=http://example.org/a=b ,", map[string]any{"base": "http://example.org/a=b", "validate": true}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOptions(tt.in))
		})
	}
}
