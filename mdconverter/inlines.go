package mdconverter

import (
	"net/url"
	"strings"

	"github.com/rgonek/adfmd/converter"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// markStack tracks the marks active while descending inline nodes. Marks are
// applied to every text node emitted while they are on the stack.
type markStack struct {
	marks []converter.Mark
}

func newMarkStack() *markStack {
	return &markStack{}
}

func (m *markStack) push(mark converter.Mark) {
	m.marks = append(m.marks, mark)
}

func (m *markStack) pop() {
	if len(m.marks) > 0 {
		m.marks = m.marks[:len(m.marks)-1]
	}
}

// popByType removes the innermost mark of the given type. Raw HTML close
// tags arrive out of band, so the matching open is not always on top.
func (m *markStack) popByType(markType string) {
	for i := len(m.marks) - 1; i >= 0; i-- {
		if m.marks[i].Type == markType {
			m.marks = append(m.marks[:i], m.marks[i+1:]...)
			return
		}
	}
}

func (m *markStack) current() []converter.Mark {
	if len(m.marks) == 0 {
		return nil
	}
	out := make([]converter.Mark, len(m.marks))
	copy(out, m.marks)
	return out
}

func (s *state) convertInlineChildren(parent ast.Node, stack *markStack) ([]converter.Node, error) {
	var content []converter.Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		converted, err := s.convertInlineNode(child, stack)
		if err != nil {
			return nil, err
		}
		for _, node := range converted {
			content = appendInlineNode(content, node)
		}
	}
	return content, nil
}

func (s *state) convertInlineNode(node ast.Node, stack *markStack) ([]converter.Node, error) {
	switch typed := node.(type) {
	case *ast.Text:
		value := string(typed.Segment.Value(s.source))
		content := []converter.Node{}
		if value != "" {
			content = append(content, converter.NewTextNode(value, stack.current()))
		}
		if typed.HardLineBreak() {
			content = append(content, converter.Node{Type: "hardBreak"})
		} else if typed.SoftLineBreak() {
			content = append(content, converter.NewTextNode(" ", stack.current()))
		}
		return content, nil

	case *ast.String:
		return []converter.Node{converter.NewTextNode(string(typed.Value), stack.current())}, nil

	case *ast.Emphasis:
		markType := "em"
		if typed.Level >= 2 {
			markType = "strong"
		}
		stack.push(converter.Mark{Type: markType})
		content, err := s.convertInlineChildren(typed, stack)
		stack.pop()
		return content, err

	case *extast.Strikethrough:
		stack.push(converter.Mark{Type: "strike"})
		content, err := s.convertInlineChildren(typed, stack)
		stack.pop()
		return content, err

	case *ast.CodeSpan:
		stack.push(converter.Mark{Type: "code"})
		value := s.codeSpanText(typed)
		node := converter.NewTextNode(value, stack.current())
		stack.pop()
		return []converter.Node{node}, nil

	case *ast.Link:
		return s.convertLinkNode(typed, stack)

	case *ast.AutoLink:
		return s.convertAutoLinkNode(typed, stack), nil

	case *ast.Image:
		return s.convertImageNode(typed, stack), nil

	case *ast.RawHTML:
		return s.convertRawHTML(s.rawHTMLText(typed), stack), nil

	case *extast.TaskCheckBox:
		// Consumed during task list construction.
		return nil, nil

	default:
		textValue := string(node.Text(s.source))
		if textValue == "" {
			return nil, nil
		}
		nodeKind := node.Kind().String()
		s.addWarning(converter.WarningUnknownNode, nodeKind, "unsupported inline node treated as text: "+nodeKind)
		return []converter.Node{converter.NewTextNode(textValue, stack.current())}, nil
	}
}

const cardURLPrefix = "adf://card/"

// convertLinkNode maps adf://card/ destinations back to inlineCard nodes and
// everything else to link-marked text. A trailing adf:inlineCard comment
// restores the card's full attrs during post-processing.
func (s *state) convertLinkNode(node *ast.Link, stack *markStack) ([]converter.Node, error) {
	dest := string(node.Destination)

	if strings.HasPrefix(dest, cardURLPrefix) {
		cardURL, err := url.QueryUnescape(strings.TrimPrefix(dest, cardURLPrefix))
		if err != nil {
			s.addWarning(converter.WarningInvalidInput, "inlineCard", "malformed card URL: "+dest)
			cardURL = strings.TrimPrefix(dest, cardURLPrefix)
		}
		return []converter.Node{{
			Type:  "inlineCard",
			Attrs: map[string]interface{}{"url": cardURL},
		}}, nil
	}

	mark := converter.Mark{Type: "link", Attrs: map[string]interface{}{"href": dest}}
	if title := string(node.Title); title != "" {
		mark.Attrs["title"] = title
	}
	stack.push(mark)
	content, err := s.convertInlineChildren(node, stack)
	stack.pop()
	return content, err
}

func (s *state) convertAutoLinkNode(node *ast.AutoLink, stack *markStack) []converter.Node {
	label := string(node.Label(s.source))
	href := label
	if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(href, "mailto:") {
		href = "mailto:" + href
	}
	stack.push(converter.Mark{Type: "link", Attrs: map[string]interface{}{"href": href}})
	textNode := converter.NewTextNode(label, stack.current())
	stack.pop()
	return []converter.Node{textNode}
}

const mediaURLPrefix = "adf:media:"

// convertImageNode maps adf:media: images back to media nodes. Regular
// images have no ADF equivalent and degrade to their alt text.
func (s *state) convertImageNode(node *ast.Image, stack *markStack) []converter.Node {
	dest := string(node.Destination)

	if strings.HasPrefix(dest, mediaURLPrefix) {
		id := strings.TrimPrefix(dest, mediaURLPrefix)
		attrs := map[string]interface{}{"id": id, "type": "file"}
		// "Media" is the fixed placeholder the forward direction writes;
		// anything else is author-supplied alt text worth keeping.
		if alt := string(node.Text(s.source)); alt != "" && alt != "Media" {
			attrs["alt"] = alt
		}
		return []converter.Node{{Type: "media", Attrs: attrs}}
	}

	s.addWarning(converter.WarningUnknownNode, "image", "external image has no ADF equivalent: "+dest)
	alt := string(node.Text(s.source))
	if alt == "" {
		return nil
	}
	return []converter.Node{converter.NewTextNode(alt, stack.current())}
}

func (s *state) codeSpanText(node *ast.CodeSpan) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if segment, ok := child.(*ast.Text); ok {
			sb.Write(segment.Segment.Value(s.source))
		}
	}
	return sb.String()
}

func (s *state) rawHTMLText(node *ast.RawHTML) string {
	var sb strings.Builder
	for i := 0; i < node.Segments.Len(); i++ {
		segment := node.Segments.At(i)
		sb.Write(segment.Value(s.source))
	}
	return sb.String()
}
