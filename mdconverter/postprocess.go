package mdconverter

import (
	"strings"

	"github.com/rgonek/adfmd/converter"
)

// finishInline is the metadata-comment post-processing pass over assembled
// inline content. Comments embedded in text runs are resolved against their
// owning nodes:
//
//   - adf:mark comments re-attach a preserved mark to the preceding node;
//   - comments whose kind matches the owning block (paragraph, heading)
//     merge into the owner's attrs;
//   - comments whose kind matches the preceding inline node (media,
//     inlineCard) merge into that node's attrs;
//   - anything else is an orphan and is dropped silently.
//
// Remaining plain text is then expanded for placeholder tokens.
func (s *state) finishInline(content []converter.Node, owner *converter.Node) []converter.Node {
	var out []converter.Node

	for _, node := range content {
		if node.Type != "text" || len(node.Marks) > 0 {
			if node.Type == "text" {
				out = appendInlineNode(out, node)
			} else {
				out = append(out, node)
			}
			continue
		}

		remaining := node.Text
		for remaining != "" {
			loc := metadataCommentRe.FindStringIndex(remaining)
			if loc == nil {
				for _, expanded := range s.expandTextPatterns(remaining, nil) {
					out = appendInlineNode(out, expanded)
				}
				break
			}

			before := remaining[:loc[0]]
			// The forward direction separates comments with one space;
			// drop it along with the comment.
			before = strings.TrimSuffix(before, " ")
			for _, expanded := range s.expandTextPatterns(before, nil) {
				out = appendInlineNode(out, expanded)
			}

			comment, _ := parseMetadataComment(remaining[loc[0]:loc[1]])
			out = s.applyInlineComment(out, comment, owner)
			remaining = strings.TrimPrefix(remaining[loc[1]:], " ")
		}
	}

	return out
}

func (s *state) applyInlineComment(content []converter.Node, comment metadataComment, owner *converter.Node) []converter.Node {
	switch {
	case comment.Kind == "mark":
		if len(content) == 0 {
			return content
		}
		markType, _ := comment.Attrs["type"].(string)
		if markType == "" {
			return content
		}
		mark := converter.Mark{Type: markType}
		if attrs, ok := comment.Attrs["attrs"].(map[string]interface{}); ok {
			mark.Attrs = attrs
		}
		last := &content[len(content)-1]
		last.Marks = append(last.Marks, mark)
		return content

	case comment.Kind == "cell" && owner != nil && (owner.Type == "tableCell" || owner.Type == "tableHeader"):
		if owner.Attrs == nil {
			owner.Attrs = map[string]interface{}{}
		}
		for key, value := range comment.Attrs {
			owner.Attrs[key] = value
		}
		return content

	case owner != nil && comment.Kind == owner.Type:
		if owner.Attrs == nil {
			owner.Attrs = map[string]interface{}{}
		}
		for key, value := range comment.Attrs {
			owner.Attrs[key] = value
		}
		return content

	case len(content) > 0 && comment.Kind == content[len(content)-1].Type:
		last := &content[len(content)-1]
		if last.Attrs == nil {
			last.Attrs = map[string]interface{}{}
		}
		for key, value := range comment.Attrs {
			last.Attrs[key] = value
		}
		return content

	default:
		return content
	}
}

// normalizeParagraph wraps assembled inline content in a paragraph, or
// promotes it when the sole child is a block-level replacement (a media node
// from an image placeholder becomes a mediaSingle wrapper).
func (s *state) normalizeParagraph(content []converter.Node) (converter.Node, bool) {
	if len(content) == 0 {
		return converter.Node{}, false
	}

	if len(content) == 1 && content[0].Type == "media" {
		return converter.Node{
			Type:    "mediaSingle",
			Content: []converter.Node{content[0]},
		}, true
	}

	return converter.Node{Type: "paragraph", Content: content}, true
}
