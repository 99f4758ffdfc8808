package mdconverter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenizeAll(source string) []token {
	return tokenize(source, DefaultMaxDepth, 0, newTokenBudget())
}

func TestTokenizeHeading(t *testing.T) {
	tokens := tokenizeAll("## Section Title")
	require.Len(t, tokens, 1)
	assert.Equal(t, tokenHeading, tokens[0].Type)
	assert.Equal(t, 2, tokens[0].Level)
	assert.Equal(t, "Section Title", tokens[0].Raw)
}

func TestTokenizeADFFence(t *testing.T) {
	tokens := tokenizeAll("~~~panel type=warning\nBe careful.\n~~~")
	require.Len(t, tokens, 1)
	assert.Equal(t, tokenADFFence, tokens[0].Type)
	assert.Equal(t, "panel", tokens[0].FenceType)
	assert.Equal(t, "type=warning", tokens[0].AttrString)
	assert.Equal(t, "Be careful.", tokens[0].Raw)
}

func TestTokenizeNestedFenceStaysInBody(t *testing.T) {
	input := "~~~~expand title=More\n~~~nestedExpand title=Inner\ninner text\n~~~\n~~~~"
	tokens := tokenizeAll(input)
	require.Len(t, tokens, 1)

	outer := tokens[0]
	assert.Equal(t, tokenADFFence, outer.Type)
	assert.Equal(t, "expand", outer.FenceType)
	assert.Equal(t, "~~~nestedExpand title=Inner\ninner text\n~~~", outer.Raw)

	inner := tokenizeAll(outer.Raw)
	require.Len(t, inner, 1)
	assert.Equal(t, "nestedExpand", inner[0].FenceType)
	assert.Equal(t, "inner text", inner[0].Raw)
}

func TestTokenizeLongerCloseEndsFence(t *testing.T) {
	tokens := tokenizeAll("~~~panel type=info\nbody\n~~~~~")
	require.Len(t, tokens, 1)
	assert.Equal(t, "body", tokens[0].Raw)
}

func TestTokenizePositions(t *testing.T) {
	tokens := tokenizeAll("# Title\n\nbody text")
	require.Len(t, tokens, 2)

	assert.Equal(t, 0, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)
	assert.Equal(t, 0, tokens[0].Offset)

	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 1, tokens[1].Column)
	assert.Equal(t, 9, tokens[1].Offset)
}

func TestTokenizeUnterminatedFenceRunsToEnd(t *testing.T) {
	tokens := tokenizeAll("~~~panel type=info\nline one\nline two")
	require.Len(t, tokens, 1)
	assert.Equal(t, "line one\nline two", tokens[0].Raw)
}

func TestTokenizeCodeFence(t *testing.T) {
	tokens := tokenizeAll("```go\nreturn nil\n```")
	require.Len(t, tokens, 1)
	assert.Equal(t, tokenCodeBlock, tokens[0].Type)
	assert.Equal(t, "go", tokens[0].Language)
	assert.Equal(t, "return nil", tokens[0].Raw)
}

func TestTokenizeTableWithAlignments(t *testing.T) {
	input := "| A | B | C |\n| :- | :-: | -: |\n| 1 | 2 | 3 |"
	tokens := tokenizeAll(input)
	require.Len(t, tokens, 1)

	table := tokens[0]
	assert.Equal(t, tokenTable, table.Type)
	assert.Equal(t, []string{"left", "center", "right"}, table.Alignments)
	require.Len(t, table.Children, 2)
	assert.True(t, table.Children[0].Header)
	assert.Equal(t, []string{"A", "B", "C"}, table.Children[0].Cells)
	assert.False(t, table.Children[1].Header)
	assert.Equal(t, []string{"1", "2", "3"}, table.Children[1].Cells)
}

func TestTokenizeBulletList(t *testing.T) {
	tokens := tokenizeAll("- one\n- two\n- three")
	require.Len(t, tokens, 1)
	list := tokens[0]
	assert.Equal(t, tokenBulletList, list.Type)
	require.Len(t, list.Children, 3)
	assert.Equal(t, "one", list.Children[0].Raw)
}

func TestTokenizeOrderedListStart(t *testing.T) {
	tokens := tokenizeAll("5. five\n6. six")
	require.Len(t, tokens, 1)
	assert.Equal(t, tokenOrderedList, tokens[0].Type)
	assert.Equal(t, 5, tokens[0].Start)
}

func TestTokenizeTaskItems(t *testing.T) {
	tokens := tokenizeAll("- [x] closed\n- [ ] open")
	require.Len(t, tokens, 1)
	require.Len(t, tokens[0].Children, 2)
	assert.Equal(t, "DONE", tokens[0].Children[0].TaskState)
	assert.Equal(t, "closed", tokens[0].Children[0].Raw)
	assert.Equal(t, "TODO", tokens[0].Children[1].TaskState)
}

func TestTokenizeNestedListItem(t *testing.T) {
	tokens := tokenizeAll("- outer\n  - inner one\n  - inner two")
	require.Len(t, tokens, 1)
	require.Len(t, tokens[0].Children, 1)

	item := tokens[0].Children[0]
	require.NotEmpty(t, item.Children)
	assert.Equal(t, tokenParagraph, item.Children[0].Type)

	var nested *token
	for i := range item.Children {
		if item.Children[i].Type == tokenBulletList {
			nested = &item.Children[i]
		}
	}
	require.NotNil(t, nested)
	assert.Len(t, nested.Children, 2)
}

func TestTokenizeBlockquote(t *testing.T) {
	tokens := tokenizeAll("> quoted line\n> second line")
	require.Len(t, tokens, 1)
	assert.Equal(t, tokenBlockquote, tokens[0].Type)
	require.NotEmpty(t, tokens[0].Children)
	assert.Equal(t, tokenParagraph, tokens[0].Children[0].Type)
}

func TestTokenizeRuleVariants(t *testing.T) {
	for _, input := range []string{"***", "___", "-----"} {
		tokens := tokenizeAll("x\n\n" + input)
		require.Len(t, tokens, 2, "input %q", input)
		assert.Equal(t, tokenRule, tokens[1].Type)
	}
}

func TestTokenizeLeadingDashesAsFrontmatter(t *testing.T) {
	tokens := tokenizeAll("---\ntitle: x\n---\nbody")
	require.Len(t, tokens, 2)
	assert.Equal(t, tokenFrontmatter, tokens[0].Type)
	assert.Equal(t, "title: x", tokens[0].Raw)
	assert.Equal(t, tokenParagraph, tokens[1].Type)
}

func TestTokenizeUnclosedDashesAreARule(t *testing.T) {
	tokens := tokenizeAll("---\n" + strings.Repeat("plain line\n", frontmatterWindow+2))
	require.NotEmpty(t, tokens)
	assert.Equal(t, tokenRule, tokens[0].Type)
}

func TestTokenizeCommentLine(t *testing.T) {
	tokens := tokenizeAll("<!-- adf:table attrs='{\"layout\":\"wide\"}' -->\n| A |\n| - |")
	require.Len(t, tokens, 2)
	assert.Equal(t, tokenComment, tokens[0].Type)
	assert.Equal(t, tokenTable, tokens[1].Type)
}

func TestTokenizeParagraphStopsAtBlockStart(t *testing.T) {
	tokens := tokenizeAll("some text\n# Heading")
	require.Len(t, tokens, 2)
	assert.Equal(t, tokenParagraph, tokens[0].Type)
	assert.Equal(t, "some text", tokens[0].Raw)
	assert.Equal(t, tokenHeading, tokens[1].Type)
}

func TestTokenizeBudgetTruncates(t *testing.T) {
	input := strings.Repeat("text\n\n", MaxTokens+100)
	tokens := tokenize(input, DefaultMaxDepth, 0, newTokenBudget())
	assert.LessOrEqual(t, len(tokens), MaxTokens)
}

func TestTokenizeDepthBoundFlattens(t *testing.T) {
	input := strings.Repeat("> ", 1) + strings.Repeat(">", 30) + " deep"
	tokens := tokenizeAll(input)
	require.NotEmpty(t, tokens)

	depth := 0
	tok := tokens[0]
	for tok.Type == tokenBlockquote {
		depth++
		require.NotEmpty(t, tok.Children)
		tok = tok.Children[0]
	}
	assert.LessOrEqual(t, depth, DefaultMaxDepth+1)
}

func TestParseFenceAttrs(t *testing.T) {
	attrs := parseFenceAttrs(`type=warning title="Heads up" width=42 ratio=1.5 flag=true attrs='{"extra":"x"}'`)
	assert.Equal(t, "warning", attrs["type"])
	assert.Equal(t, "Heads up", attrs["title"])
	assert.Equal(t, 42, attrs["width"])
	assert.Equal(t, 1.5, attrs["ratio"])
	assert.Equal(t, true, attrs["flag"])
	assert.Equal(t, "x", attrs["extra"])
}

func TestParseFenceAttrsSingleQuoted(t *testing.T) {
	attrs := parseFenceAttrs(`title='single quoted'`)
	assert.Equal(t, "single quoted", attrs["title"])
}
