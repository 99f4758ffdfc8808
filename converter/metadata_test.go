package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataComment(t *testing.T) {
	assert.Equal(t, "", MetadataComment("paragraph", nil))
	assert.Equal(t, "", MetadataComment("paragraph", map[string]interface{}{}))

	comment := MetadataComment("media", map[string]interface{}{"id": "f1"})
	assert.Equal(t, `<!-- adf:media attrs='{"id":"f1"}' -->`, comment)
}

func TestMarshalAttrsEscapesSingleQuotes(t *testing.T) {
	out := MarshalAttrs(map[string]interface{}{"title": "it's here"})
	assert.NotContains(t, out, "'")
	assert.Contains(t, out, `\u0027`)
}

func TestMarshalAttrsCircularReference(t *testing.T) {
	attrs := map[string]interface{}{"name": "loop"}
	attrs["self"] = attrs

	out := MarshalAttrs(attrs)
	require.NotEmpty(t, out)
	assert.Contains(t, out, "[Circular]")
	assert.Contains(t, out, "loop")
}

func TestMarshalAttrsCircularSlice(t *testing.T) {
	inner := map[string]interface{}{}
	list := []interface{}{inner}
	inner["list"] = list
	attrs := map[string]interface{}{"items": list}

	out := MarshalAttrs(attrs)
	require.NotEmpty(t, out)
	assert.Contains(t, out, "[Circular]")
}

func TestFenceHeaderOrdering(t *testing.T) {
	header := FenceHeader("panel", map[string]interface{}{
		"zeta":  1,
		"alpha": 2,
		"type":  "warning",
	}, "type", "title")
	assert.Equal(t, "panel type=warning alpha=2 zeta=1", header)
}

func TestFenceHeaderQuoting(t *testing.T) {
	header := FenceHeader("expand", map[string]interface{}{"title": "More details"}, "title")
	assert.Equal(t, `expand title="More details"`, header)

	header = FenceHeader("expand", map[string]interface{}{"title": ""}, "title")
	assert.Equal(t, `expand title=""`, header)
}

func TestFenceHeaderComplexValuesFoldIntoAttrs(t *testing.T) {
	header := FenceHeader("mediaSingle", map[string]interface{}{
		"layout": "center",
		"marks":  []interface{}{"a", "b"},
	}, "layout")
	assert.Equal(t, `mediaSingle layout=center attrs='{"marks":["a","b"]}'`, header)
}

func TestFenceBlock(t *testing.T) {
	assert.Equal(t, "~~~panel type=info\nbody\n~~~", FenceBlock("panel type=info", "body"))
	assert.Equal(t, "~~~panel type=info\n~~~", FenceBlock("panel type=info", ""))
	assert.Equal(t, "~~~panel type=info\nbody\n~~~", FenceBlock("panel type=info", "body\n\n"))
}

func TestFenceBlockGrowsDelimiterAroundNestedFence(t *testing.T) {
	body := "~~~nestedExpand title=Inner\ninner text\n~~~"
	out := FenceBlock("expand title=More", body)
	assert.Equal(t, "~~~~expand title=More\n"+body+"\n~~~~", out)

	deeper := FenceBlock("expand title=Outer", out)
	assert.Equal(t, "~~~~~expand title=Outer\n"+out+"\n~~~~~", deeper)
}

func TestMarshalNodeJSON(t *testing.T) {
	node := Node{Type: "extension", Attrs: map[string]interface{}{"key": "chart"}}
	out := MarshalNodeJSON(node)
	assert.Contains(t, out, `"type": "extension"`)
	assert.Contains(t, out, `"key": "chart"`)
}
