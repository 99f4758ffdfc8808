package mdconverter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *state {
	t.Helper()
	return &state{config: ReverseConfig{}.applyDefaults(), budget: newTokenBudget()}
}

func TestFindInlineSpanStrongBeatsEmAtSameOffset(t *testing.T) {
	span, ok := findInlineSpan("**bold** tail")
	require.True(t, ok)
	assert.Equal(t, "strong", span.kind)
	assert.Equal(t, 0, span.start)
	assert.Equal(t, "bold", span.inner)
}

func TestFindInlineSpanEarliestWins(t *testing.T) {
	span, ok := findInlineSpan("a *em* then `code`")
	require.True(t, ok)
	assert.Equal(t, "em", span.kind)
}

func TestFindInlineSpanLink(t *testing.T) {
	span, ok := findInlineSpan(`see [docs](https://example.com "Docs") here`)
	require.True(t, ok)
	assert.Equal(t, "link", span.kind)
	assert.Equal(t, "docs", span.inner)
	assert.Equal(t, "https://example.com", span.dest)
	assert.Equal(t, "Docs", span.title)
}

func TestFindInlineSpanImage(t *testing.T) {
	span, ok := findInlineSpan("![alt text](adf:media:m1)")
	require.True(t, ok)
	assert.Equal(t, "image", span.kind)
	assert.Equal(t, "alt text", span.inner)
	assert.Equal(t, "adf:media:m1", span.dest)
}

func TestParseInlineNestedFormatting(t *testing.T) {
	s := newTestState(t)
	nodes := s.parseInline("**bold *and slanted* done**")

	require.Len(t, nodes, 3)
	assert.Equal(t, "bold ", nodes[0].Text)
	require.Len(t, nodes[0].Marks, 1)
	assert.Equal(t, "strong", nodes[0].Marks[0].Type)

	assert.Equal(t, "and slanted", nodes[1].Text)
	require.Len(t, nodes[1].Marks, 2)
	assert.Equal(t, "strong", nodes[1].Marks[0].Type)
	assert.Equal(t, "em", nodes[1].Marks[1].Type)

	assert.Equal(t, " done", nodes[2].Text)
	require.Len(t, nodes[2].Marks, 1)
}

func TestParseInlineStrongEmCombined(t *testing.T) {
	s := newTestState(t)
	nodes := s.parseInline("***text***")

	require.Len(t, nodes, 1)
	assert.Equal(t, "text", nodes[0].Text)
	require.Len(t, nodes[0].Marks, 2)
	assert.Equal(t, "strong", nodes[0].Marks[0].Type)
	assert.Equal(t, "em", nodes[0].Marks[1].Type)
}

func TestParseInlineCodeIsVerbatim(t *testing.T) {
	s := newTestState(t)
	nodes := s.parseInline("`**not bold**`")

	require.Len(t, nodes, 1)
	assert.Equal(t, "**not bold**", nodes[0].Text)
	require.Len(t, nodes[0].Marks, 1)
	assert.Equal(t, "code", nodes[0].Marks[0].Type)
}

func TestParseInlineUnderlineDelimiter(t *testing.T) {
	s := newTestState(t)
	nodes := s.parseInline("__under__")

	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Marks, 1)
	assert.Equal(t, "underline", nodes[0].Marks[0].Type)
}

func TestParseInlineHTMLColorSpan(t *testing.T) {
	s := newTestState(t)
	nodes := s.parseInline(`<span style="color: #97a0af">tinted</span>`)

	require.Len(t, nodes, 1)
	assert.Equal(t, "tinted", nodes[0].Text)
	require.Len(t, nodes[0].Marks, 1)
	assert.Equal(t, "textColor", nodes[0].Marks[0].Type)
	assert.Equal(t, "#97a0af", nodes[0].Marks[0].GetStringAttr("color", ""))
}

func TestParseInlineCardLink(t *testing.T) {
	s := newTestState(t)
	nodes := s.parseInline("[Page](adf://card/https%3A%2F%2Fexample.com)")

	require.Len(t, nodes, 1)
	assert.Equal(t, "inlineCard", nodes[0].Type)
	assert.Equal(t, "https://example.com", nodes[0].GetStringAttr("url", ""))
}

func TestStylePropertyDoesNotCrossMatch(t *testing.T) {
	style := "background-color: #deebff; color: #0747a6"
	assert.Equal(t, "#0747a6", styleProperty(style, "color"))
	assert.Equal(t, "#deebff", styleProperty(style, "background-color"))
}
