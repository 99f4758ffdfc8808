package converter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConverter(t *testing.T, cfg Config) *Converter {
	t.Helper()
	conv, err := New(cfg)
	require.NoError(t, err)
	return conv
}

func textNode(text string, marks ...Mark) Node {
	return NewTextNode(text, marks)
}

func TestConvertEmptyDocument(t *testing.T) {
	conv := newConverter(t, Config{})

	result, err := conv.Convert(context.Background(), EmptyDoc())
	require.NoError(t, err)
	assert.Equal(t, "", result.Markdown)
	assert.Empty(t, result.Warnings)
}

func TestConvertHeading(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:    "heading",
			Attrs:   map[string]interface{}{"level": 1},
			Content: []Node{textNode("Title")},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "# Title", result.Markdown)
}

func TestConvertHeadingLevelClamped(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:    "heading",
			Attrs:   map[string]interface{}{"level": 9},
			Content: []Node{textNode("Deep")},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "###### Deep", result.Markdown)
}

func TestConvertInvalidRootStrict(t *testing.T) {
	conv := newConverter(t, Config{Strict: true})

	_, err := conv.Convert(context.Background(), Doc{Version: 1, Type: "invalid"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConvertInvalidRootBestEffort(t *testing.T) {
	conv := newConverter(t, Config{})

	result, err := conv.Convert(context.Background(), Doc{
		Version: 1,
		Type:    "invalid",
		Content: []Node{{Type: "paragraph", Content: []Node{textNode("still here")}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "still here", result.Markdown)
	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, WarningInvalidInput, result.Warnings[0].Type)
}

func TestConvertMarkOrderIsDeterministic(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "paragraph",
			Content: []Node{
				textNode("text", Mark{Type: "strong"}, Mark{Type: "em"}),
			},
		}},
	}

	for i := 0; i < 20; i++ {
		result, err := conv.Convert(context.Background(), doc)
		require.NoError(t, err)
		assert.Equal(t, "***text***", result.Markdown)
	}
}

func TestConvertMarks(t *testing.T) {
	tests := []struct {
		name     string
		mark     Mark
		expected string
	}{
		{"strong", Mark{Type: "strong"}, "**x**"},
		{"em", Mark{Type: "em"}, "*x*"},
		{"code", Mark{Type: "code"}, "`x`"},
		{"strike", Mark{Type: "strike"}, "~~x~~"},
		{"underline", Mark{Type: "underline"}, "<u>x</u>"},
		{"sub", Mark{Type: "subsup", Attrs: map[string]interface{}{"type": "sub"}}, "<sub>x</sub>"},
		{"sup", Mark{Type: "subsup", Attrs: map[string]interface{}{"type": "sup"}}, "<sup>x</sup>"},
		{
			"textColor",
			Mark{Type: "textColor", Attrs: map[string]interface{}{"color": "#ff0000"}},
			`<span style="color: #ff0000">x</span>`,
		},
		{
			"link",
			Mark{Type: "link", Attrs: map[string]interface{}{"href": "https://example.com"}},
			"[x](https://example.com)",
		},
	}

	conv := newConverter(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Doc{
				Version: 1,
				Type:    "doc",
				Content: []Node{{Type: "paragraph", Content: []Node{textNode("x", tt.mark)}}},
			}
			result, err := conv.Convert(context.Background(), doc)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Markdown)
		})
	}
}

func TestConvertUnknownNodePreserved(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:  "extension",
			Attrs: map[string]interface{}{"extensionKey": "chart"},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Markdown, `<!-- adf:unknown type="extension" -->`))
	assert.True(t, strings.HasSuffix(result.Markdown, "<!-- /adf:unknown -->"))
	assert.Contains(t, result.Markdown, `"extensionKey": "chart"`)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningUnknownNode, result.Warnings[0].Type)
	assert.Equal(t, "extension", result.Warnings[0].NodeType)
}

func TestConvertUnknownMarkPreserved(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "paragraph",
			Content: []Node{
				textNode("styled", Mark{Type: "customMark", Attrs: map[string]interface{}{"weight": "heavy"}}),
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Markdown, "styled"))
	assert.Contains(t, result.Markdown, "<!-- adf:mark attrs='")
	assert.Contains(t, result.Markdown, "customMark")
	assert.Contains(t, result.Markdown, "heavy")
}

func TestConvertBlocks(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{
			{Type: "paragraph", Content: []Node{textNode("first")}},
			{Type: "rule"},
			{Type: "paragraph", Content: []Node{textNode("second")}},
		},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "first\n\n---\n\nsecond", result.Markdown)
}

func TestConvertBlockquote(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "blockquote",
			Content: []Node{
				{Type: "paragraph", Content: []Node{textNode("quoted")}},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "> quoted", result.Markdown)
}

func TestConvertCodeBlock(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:    "codeBlock",
			Attrs:   map[string]interface{}{"language": "go"},
			Content: []Node{textNode("fmt.Println(\"hi\")")},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "```go\nfmt.Println(\"hi\")\n```", result.Markdown)
}

func TestConvertPanel(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:  "panel",
			Attrs: map[string]interface{}{"panelType": "warning"},
			Content: []Node{
				{Type: "paragraph", Content: []Node{textNode("Be careful.")}},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "~~~panel type=warning\nBe careful.\n~~~", result.Markdown)
}

func TestConvertPanelDefaultsToInfo(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "panel",
			Content: []Node{
				{Type: "paragraph", Content: []Node{textNode("note")}},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "~~~panel type=info\nnote\n~~~", result.Markdown)
}

func TestConvertExpand(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:  "expand",
			Attrs: map[string]interface{}{"title": "More details"},
			Content: []Node{
				{Type: "paragraph", Content: []Node{textNode("hidden")}},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "~~~expand title=\"More details\"\nhidden\n~~~", result.Markdown)
}

func TestConvertLists(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "bulletList",
			Content: []Node{
				{Type: "listItem", Content: []Node{{Type: "paragraph", Content: []Node{textNode("one")}}}},
				{Type: "listItem", Content: []Node{{Type: "paragraph", Content: []Node{textNode("two")}}}},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "- one\n- two", result.Markdown)
}

func TestConvertOrderedListWithStart(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:  "orderedList",
			Attrs: map[string]interface{}{"order": 3},
			Content: []Node{
				{Type: "listItem", Content: []Node{{Type: "paragraph", Content: []Node{textNode("third")}}}},
				{Type: "listItem", Content: []Node{{Type: "paragraph", Content: []Node{textNode("fourth")}}}},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "3. third\n4. fourth", result.Markdown)
}

func TestConvertTaskList(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:  "taskList",
			Attrs: map[string]interface{}{"localId": "a"},
			Content: []Node{
				{
					Type:    "taskItem",
					Attrs:   map[string]interface{}{"localId": "b", "state": "DONE"},
					Content: []Node{textNode("done thing")},
				},
				{
					Type:    "taskItem",
					Attrs:   map[string]interface{}{"localId": "c", "state": "TODO"},
					Content: []Node{textNode("open thing")},
				},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, result.Markdown, "- [x] done thing")
	assert.Contains(t, result.Markdown, "- [ ] open thing")
}

func TestConvertInlineTokens(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "paragraph",
			Content: []Node{
				textNode("ping "),
				{Type: "mention", Attrs: map[string]interface{}{"id": "abc-123"}},
				textNode(" status "),
				{Type: "status", Attrs: map[string]interface{}{"text": "Done", "color": "green"}},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "ping {user:abc-123} status {status:Done|color:green}", result.Markdown)
}

func TestConvertDateFromMilliseconds(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "paragraph",
			Content: []Node{
				{Type: "date", Attrs: map[string]interface{}{"timestamp": "1693526400000"}},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "{date:2023-09-01}", result.Markdown)
}

func TestConvertInvalidDate(t *testing.T) {
	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "paragraph",
			Content: []Node{
				{Type: "date", Attrs: map[string]interface{}{"timestamp": "not-a-number"}},
			},
		}},
	}

	strict := newConverter(t, Config{Strict: true})
	_, err := strict.Convert(context.Background(), doc)
	require.Error(t, err)

	lax := newConverter(t, Config{})
	result, err := lax.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "{date:invalid}", result.Markdown)
	require.NotEmpty(t, result.Warnings)
}

func TestConvertInlineCard(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "paragraph",
			Content: []Node{{
				Type: "inlineCard",
				Attrs: map[string]interface{}{
					"url":  "https://example.com/page",
					"data": map[string]interface{}{"title": "Example Page"},
				},
			}},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, result.Markdown, "[Example Page](adf://card/https%3A%2F%2Fexample.com%2Fpage)")
	assert.Contains(t, result.Markdown, "<!-- adf:inlineCard attrs='")
}

func TestConvertInlineCardWithoutURL(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:    "paragraph",
			Content: []Node{{Type: "inlineCard"}},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "[Card]", result.Markdown)
}

func TestConvertTable(t *testing.T) {
	conv := newConverter(t, Config{})

	cell := func(cellType, text string) Node {
		return Node{
			Type:    cellType,
			Content: []Node{{Type: "paragraph", Content: []Node{textNode(text)}}},
		}
	}

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "table",
			Content: []Node{
				{Type: "tableRow", Content: []Node{cell("tableHeader", "Name"), cell("tableHeader", "Role")}},
				{Type: "tableRow", Content: []Node{cell("tableCell", "Ada"), cell("tableCell", "Engineer")}},
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	lines := strings.Split(result.Markdown, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| Name | Role |", lines[0])
	assert.Equal(t, "| -------- | -------- |", lines[1])
	assert.Equal(t, "| Ada | Engineer |", lines[2])
}

func TestConvertMedia(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:  "mediaSingle",
			Attrs: map[string]interface{}{"layout": "center"},
			Content: []Node{{
				Type:  "media",
				Attrs: map[string]interface{}{"id": "file-1", "type": "file"},
			}},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Markdown, "~~~mediaSingle layout=center"))
	assert.Contains(t, result.Markdown, "![Media](adf:media:file-1)")
}

func TestConvertHardBreak(t *testing.T) {
	conv := newConverter(t, Config{})

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "paragraph",
			Content: []Node{
				textNode("line one"),
				{Type: "hardBreak"},
				textNode("line two"),
			},
		}},
	}

	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "line one\\\nline two", result.Markdown)
}

func TestConvertJSONInvalidInput(t *testing.T) {
	strict := newConverter(t, Config{Strict: true})
	_, err := strict.ConvertJSON(context.Background(), []byte("{not json"))
	require.Error(t, err)

	lax := newConverter(t, Config{})
	result, err := lax.ConvertJSON(context.Background(), []byte("{not json"))
	require.NoError(t, err)
	assert.Equal(t, "", result.Markdown)
	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, WarningInvalidInput, result.Warnings[0].Type)
}

func TestConvertCancelledContext(t *testing.T) {
	conv := newConverter(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{Type: "paragraph", Content: []Node{textNode("x")}}},
	}
	_, err := conv.Convert(ctx, doc)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConvertWithValidation(t *testing.T) {
	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:  "heading",
			Attrs: map[string]interface{}{"level": 42},
		}},
	}

	strict := newConverter(t, Config{Strict: true})
	_, err := strict.ConvertWithValidation(context.Background(), doc)
	require.ErrorIs(t, err, ErrValidation)

	lax := newConverter(t, Config{})
	result, err := lax.ConvertWithValidation(context.Background(), doc)
	require.NoError(t, err)
	found := false
	for _, w := range result.Warnings {
		if w.Type == WarningValidation {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRegistryOverride(t *testing.T) {
	conv := newConverter(t, Config{})
	conv.Registry().RegisterNode(NodeConverterFunc("rule", func(Node, Context) (string, error) {
		return "***", nil
	}))

	doc := Doc{Version: 1, Type: "doc", Content: []Node{{Type: "rule"}}}
	result, err := conv.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "***", result.Markdown)
}
