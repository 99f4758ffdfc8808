package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateADFValidDocument(t *testing.T) {
	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:    "paragraph",
			Content: []Node{{Type: "text", Text: "hello"}},
		}},
	}

	result := ValidateADF(doc)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateADFBadRoot(t *testing.T) {
	result := ValidateADF(Doc{Version: 2, Type: "page"})
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
}

func TestValidateADFHeadingLevel(t *testing.T) {
	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:  "heading",
			Attrs: map[string]interface{}{"level": 7},
		}},
	}

	result := ValidateADF(doc)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "content[0]", result.Errors[0].Path)
}

func TestValidateADFListChildren(t *testing.T) {
	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type:    "bulletList",
			Content: []Node{{Type: "paragraph"}},
		}},
	}

	result := ValidateADF(doc)
	assert.False(t, result.Valid)
}

func TestValidateADFUnknownTypeIsWarning(t *testing.T) {
	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{Type: "futureWidget"}},
	}

	result := ValidateADF(doc)
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
}

func TestValidateADFTextWithChildren(t *testing.T) {
	doc := Doc{
		Version: 1,
		Type:    "doc",
		Content: []Node{{
			Type: "paragraph",
			Content: []Node{{
				Type:    "text",
				Text:    "bad",
				Content: []Node{{Type: "text", Text: "nested"}},
			}},
		}},
	}

	result := ValidateADF(doc)
	assert.False(t, result.Valid)
}
