package pandoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "pandoc-api-version": [1, 23, 1],
  "meta": {
    "title": {"t": "MetaInlines", "c": [{"t": "Str", "c": "Lesson"}, {"t": "Space"}, {"t": "Str", "c": "one"}]},
    "repo_base_dir": {"t": "MetaString", "c": "/repos/course"}
  },
  "blocks": [
    {"t": "Header", "c": [1, ["intro", [], []], [{"t": "Str", "c": "Intro"}]]},
    {"t": "Para", "c": [
      {"t": "Str", "c": "Hello"}, {"t": "Space"},
      {"t": "Emph", "c": [{"t": "Str", "c": "world"}]},
      {"t": "FutureInline", "c": {"x": 1}}
    ]},
    {"t": "CodeBlock", "c": [["", ["mchoice"], []], ":answer1: yes\nQuestion?"]},
    {"t": "Div", "c": [["", ["infonote"], [["level", "2"]]], [
      {"t": "Plain", "c": [{"t": "Code", "c": [["", [], []], "x = 1"]}]}
    ]]},
    {"t": "BulletList", "c": [[{"t": "Plain", "c": [{"t": "Str", "c": "a"}]}], [{"t": "Plain", "c": [{"t": "Str", "c": "b"}]}]]},
    {"t": "FutureBlock", "c": [1, "two", {"t": "Str", "c": "three"}]},
    {"t": "HorizontalRule"}
  ]
}`

func TestRoundTrip(t *testing.T) {
	d, err := NewDocument([]byte(sampleDoc))
	require.NoError(t, err)

	bb, err := d.Flow()
	require.NoError(t, err)
	require.Len(t, bb, 7)

	out, err := d.Encode(bb)
	require.NoError(t, err)
	assert.JSONEq(t, sampleDoc, string(out))
}

func TestUnknownNodesAreOpaque(t *testing.T) {
	d, err := NewDocument([]byte(sampleDoc))
	require.NoError(t, err)
	bb, err := d.Flow()
	require.NoError(t, err)

	ub, ok := bb[5].(*UnknownBlock)
	require.True(t, ok)
	assert.Equal(t, "FutureBlock", ub.Tag())

	p, ok := bb[1].(*Para)
	require.True(t, ok)
	ul, ok := p.Inlines[3].(*UnknownInline)
	require.True(t, ok)
	assert.Equal(t, "FutureInline", ul.Tag())

	buf, err := EncodeBlock(ub)
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"FutureBlock","c":[1,"two",{"t":"Str","c":"three"}]}`, string(buf))
}

func TestParseMeta(t *testing.T) {
	d, err := NewDocument([]byte(sampleDoc))
	require.NoError(t, err)

	m := d.ParseMeta()
	assert.Equal(t, "Lesson one", m["title"])
	assert.Equal(t, "/repos/course", m["repo_base_dir"])

	d.SetMetaString("repo_base_dir", "/other")
	assert.Equal(t, "/other", d.ParseMeta()["repo_base_dir"])
}

func TestEncodeDefaults(t *testing.T) {
	d := &Document{}
	out, err := d.Encode(BlockList{
		&OrderedList{Items: []BlockList{{&Plain{Inlines: Text("x")}}}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"pandoc-api-version": [1, 23, 1],
		"meta": {},
		"blocks": [{"t": "OrderedList", "c": [
			[1, {"t": "Decimal"}, {"t": "Period"}],
			[[{"t": "Plain", "c": [{"t": "Str", "c": "x"}]}]]
		]}]
	}`, string(out))
}

func TestInvalidDocument(t *testing.T) {
	_, err := NewDocument([]byte(`{"blocks": 1}`))
	assert.Error(t, err)

	d, err := NewDocument([]byte(`{"blocks": [{"t": "Para", "c": 5}]}`))
	require.NoError(t, err)
	_, err = d.Flow()
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	assert.Equal(t, InlineList{
		&Str{Text: "a"}, &Space{}, &Str{Text: "b"}, &SoftBreak{}, &Str{Text: "c"},
	}, Text("a  b \nc"))
	assert.Empty(t, Text(""))
}

func TestAttr(t *testing.T) {
	a := Attr{Identifier: "q1", Classes: []string{"mchoice", "extra"}, KeyVals: []*KeyVal{{Key: "k", Val: "v"}}}
	assert.Equal(t, "mchoice", a.FirstClass())
	assert.True(t, a.HasClass("extra"))
	assert.False(t, a.HasClass("other"))
	assert.Equal(t, map[string]string{"k": "v"}, a.KeyValMap())

	c := a.Clone()
	c.Classes[0] = "changed"
	c.KeyVals[0].Val = "changed"
	assert.Equal(t, "mchoice", a.Classes[0])
	assert.Equal(t, "v", a.KeyVals[0].Val)

	assert.Equal(t, "", (&Attr{}).FirstClass())
}

func TestDecodeErrorLocation(t *testing.T) {
	_, err := NewDocument([]byte("{\n  \"blocks\": [,]\n}"))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Loc.Line)
	assert.Contains(t, err.Error(), "json 2:")

	assert.Equal(t, Location{Line: 2, Column: 2}, locate([]byte("ab\ncd"), 4))
	assert.Equal(t, Location{Line: 2, Column: 2}, locate([]byte("a\r\nb"), 4))
	assert.Equal(t, Location{Line: 1, Column: 2}, locate([]byte("\xef\xbb\xbfxy"), 4))
	assert.Equal(t, Location{Line: 1, Column: 3}, locate([]byte("ab"), 10))
}
