package converter

import (
	"strings"
)

// convertDoc renders the root node: block children joined with blank lines.
func convertDoc(node Node, ctx Context) (string, error) {
	return ctx.ConvertBlocks(node.Content)
}

// convertParagraph renders a paragraph. Empty content renders as the empty
// string; a non-empty attrs map is preserved as a trailing metadata comment.
func convertParagraph(node Node, ctx Context) (string, error) {
	if len(node.Content) == 0 {
		return "", nil
	}

	content, err := ctx.ConvertChildren(node.Content)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", nil
	}

	if comment := MetadataComment("paragraph", node.Attrs); comment != "" {
		content += " " + comment
	}
	return content, nil
}

// convertText renders a text node with its marks applied in array order.
func convertText(node Node, ctx Context) (string, error) {
	return applyMarks(node.Text, node.Marks, ctx)
}

// convertHeading renders a heading; attrs beyond level ride along as a
// trailing metadata comment on the same line.
func convertHeading(node Node, ctx Context) (string, error) {
	level := node.GetIntAttr("level", 1)
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}

	content, err := ctx.ConvertChildren(node.Content)
	if err != nil {
		return "", err
	}

	heading := strings.Repeat("#", level)
	if content != "" {
		heading += " " + content
	}

	extra := map[string]interface{}{}
	for key, value := range node.Attrs {
		if key == "level" {
			continue
		}
		extra[key] = value
	}
	if comment := MetadataComment("heading", extra); comment != "" {
		heading += " " + comment
	}

	return heading, nil
}

// convertBlockquote prefixes every line of the block content with ">".
func convertBlockquote(node Node, ctx Context) (string, error) {
	if len(node.Content) == 0 {
		return "", nil
	}

	content, err := ctx.ConvertBlocks(node.Content)
	if err != nil {
		return "", err
	}
	return blockquoteContent(content), nil
}

func convertRule(Node, Context) (string, error) {
	return "---", nil
}

func convertHardBreak(Node, Context) (string, error) {
	return "\\\n", nil
}

// convertCodeBlock renders a fenced code block with the language attribute on
// the opening fence. Attributes beyond language are preserved as a standalone
// metadata comment preceding the fence.
func convertCodeBlock(node Node, ctx Context) (string, error) {
	var text strings.Builder
	for _, child := range node.Content {
		if child.Type == "text" {
			text.WriteString(child.Text)
		}
	}

	language := node.GetStringAttr("language", "")

	var sb strings.Builder
	extra := map[string]interface{}{}
	for key, value := range node.Attrs {
		if key == "language" {
			continue
		}
		extra[key] = value
	}
	if comment := MetadataComment("codeBlock", extra); comment != "" {
		sb.WriteString(comment)
		sb.WriteString("\n")
	}

	sb.WriteString("```")
	sb.WriteString(language)
	sb.WriteString("\n")
	if content := strings.TrimRight(text.String(), "\n"); content != "" {
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	sb.WriteString("```")
	return sb.String(), nil
}

// blockquoteContent prefixes each line with "> ", keeping nested quote
// markers compact the way the rendered markdown is expected to look.
func blockquoteContent(content string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	quoted := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case line == "":
			quoted = append(quoted, ">")
		case strings.HasPrefix(line, ">"):
			quoted = append(quoted, ">"+line)
		default:
			quoted = append(quoted, "> "+line)
		}
	}
	return strings.Join(quoted, "\n")
}

// indent prefixes the first line with marker and continuation lines with
// matching spaces; used by list rendering.
func indent(content, marker string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	pad := strings.Repeat(" ", len(marker))

	result := make([]string, 0, len(lines))
	for i, line := range lines {
		switch {
		case i == 0:
			result = append(result, marker+line)
		case line == "":
			result = append(result, "")
		default:
			result = append(result, pad+line)
		}
	}
	return strings.Join(result, "\n")
}
