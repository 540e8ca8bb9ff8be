package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<html>
<body>
<pre class="example" title="Ex1">
{"a": 1}
</pre>
<aside class="example" title="Agg">
  <pre class="original">{}</pre>
</aside>
</body>
</html>
`

func TestParse_LinesAndInnerHTML(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	assert.Empty(t, doc.Errors)

	examples := doc.Select(HasAnyClass("example", "illegal-example"))
	require.Len(t, examples, 2)

	pre := examples[0]
	assert.Equal(t, "pre", pre.Name)
	assert.Equal(t, 3, pre.Line)
	assert.Equal(t, "Ex1", pre.AttrOr("title", ""))
	assert.Equal(t, "\n{\"a\": 1}\n", pre.InnerHTML())

	aside := examples[1]
	assert.Equal(t, "aside", aside.Name)
	assert.Equal(t, 6, aside.Line)
	original := aside.First(HasAnyClass("original"))
	require.NotNil(t, original)
	assert.Equal(t, 7, original.Line)
	assert.Equal(t, "{}", original.InnerHTML())
	assert.Equal(t, `<pre class="original">{}</pre>`, original.OuterHTML())
}

func TestParse_ImpliedTableEndTags(t *testing.T) {
	doc := ParseString(`<table><thead><tr><th>Subject<th>Property</thead>` +
		`<tbody><tr><td>ex:a<td>a &amp; b<tr><td>ex:c<td>ex:d</tbody></table>`)
	assert.Empty(t, doc.Errors)

	table := doc.Root.First(Named("table"))
	require.NotNil(t, table)
	heads := table.Find(Named("th"))
	require.Len(t, heads, 2)
	assert.Equal(t, "Property", heads[1].Text())

	tbody := table.First(Named("tbody"))
	require.NotNil(t, tbody)
	rows := tbody.Find(Named("tr"))
	require.Len(t, rows, 2)
	cells := rows[0].Find(Named("td"))
	require.Len(t, cells, 2)
	assert.Equal(t, "ex:a", cells[0].Text())
	assert.Equal(t, "a & b", cells[1].Text())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"mismatched", "<div><span></div>", "Opening and ending tag mismatch: span and div"},
		{"stray end tag", "<p>ok</p></span>", "Unexpected end tag : span"},
		{"unterminated", "<div>\n<section>", "Premature end of data in tag div"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.markup)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Message, tt.want)
		})
	}
}

func TestValidate_OptionalEndTagsAreFine(t *testing.T) {
	errs := Validate(`<!DOCTYPE html><html><head><meta charset="utf-8"><base href="http://example.org/"></head>` +
		`<body><p>one<p>two<ul><li>a<li>b</ul></body></html>`)
	assert.Empty(t, errs)
}

func TestDocument_BaseHrefAndScripts(t *testing.T) {
	doc := ParseString(`<html><head><base href="http://example.org/base/"></head><body>
<script type="application/ld+json" id="a">{"@id": "a"}</script>
<script type="application/ld+json" id="b">{"@id": "b"}</script>
</body></html>`)

	href, ok := doc.BaseHref()
	assert.True(t, ok)
	assert.Equal(t, "http://example.org/base/", href)

	first := doc.JSONLDScript("")
	require.NotNil(t, first)
	assert.Equal(t, `{"@id": "a"}`, first.Text())

	second := doc.JSONLDScript("#b")
	require.NotNil(t, second)
	assert.Equal(t, `{"@id": "b"}`, second.InnerHTML())
	assert.Equal(t, 3, second.Line)

	assert.Nil(t, doc.JSONLDScript("#missing"))
}
