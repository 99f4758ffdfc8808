package mdconverter

import (
	"strings"

	"github.com/rgonek/adfmd/converter"
	"golang.org/x/net/html"
)

// convertRawHTML handles the inline HTML the forward direction emits: mark
// wrapper tags (<u>, <sub>, <sup>, <span style>, <mark style>), <br> and
// metadata comments. Comments pass through as text so the inline
// post-processing pass can resolve them against their owners. Everything
// else is dropped with a warning.
func (s *state) convertRawHTML(raw string, stack *markStack) []converter.Node {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "<!--") {
		if _, ok := parseMetadataComment(trimmed); ok {
			return []converter.Node{converter.NewTextNode(trimmed, nil)}
		}
		return nil
	}

	var content []converter.Node
	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			break
		}
		token := tokenizer.Token()

		switch tokenType {
		case html.StartTagToken, html.SelfClosingTagToken:
			if token.Data == "br" {
				content = append(content, converter.Node{Type: "hardBreak"})
				continue
			}
			mark, ok := markForTag(token)
			if !ok {
				s.addWarning(converter.WarningUnknownMark, token.Data, "unsupported HTML tag dropped: <"+token.Data+">")
				continue
			}
			stack.push(mark)

		case html.EndTagToken:
			if markType, ok := markTypeForTagName(token.Data); ok {
				stack.popByType(markType)
			}

		case html.TextToken:
			if token.Data != "" {
				content = append(content, converter.NewTextNode(token.Data, stack.current()))
			}
		}
	}
	return content
}

func markForTag(token html.Token) (converter.Mark, bool) {
	switch token.Data {
	case "u":
		return converter.Mark{Type: "underline"}, true
	case "sub":
		return converter.Mark{Type: "subsup", Attrs: map[string]interface{}{"type": "sub"}}, true
	case "sup":
		return converter.Mark{Type: "subsup", Attrs: map[string]interface{}{"type": "sup"}}, true
	case "span":
		if color := styleProperty(tagAttr(token, "style"), "color"); color != "" {
			return converter.Mark{Type: "textColor", Attrs: map[string]interface{}{"color": color}}, true
		}
	case "mark":
		if color := styleProperty(tagAttr(token, "style"), "background-color"); color != "" {
			return converter.Mark{Type: "backgroundColor", Attrs: map[string]interface{}{"color": color}}, true
		}
	}
	return converter.Mark{}, false
}

func markTypeForTagName(name string) (string, bool) {
	switch name {
	case "u":
		return "underline", true
	case "sub", "sup":
		return "subsup", true
	case "span":
		return "textColor", true
	case "mark":
		return "backgroundColor", true
	}
	return "", false
}

func tagAttr(token html.Token, name string) string {
	for _, attr := range token.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// styleProperty extracts one property value from an inline style string.
// "background-color" must not match when asked for "color".
func styleProperty(style, property string) string {
	for _, declaration := range strings.Split(style, ";") {
		key, value, ok := strings.Cut(declaration, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == property {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
