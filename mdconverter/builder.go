package mdconverter

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rgonek/adfmd/converter"
)

// buildDocument assembles the ADF tree from the token tree produced by the
// line tokenizer.
func (s *state) buildDocument(tokens []token) (converter.Doc, error) {
	doc := converter.EmptyDoc()
	content, err := s.buildTokens(tokens)
	if err != nil {
		return converter.Doc{}, err
	}
	if content != nil {
		doc.Content = content
	}
	return doc, nil
}

// buildTokens converts sibling block tokens, holding standalone metadata
// comments pending so they merge into the next node, mirroring the mdast
// path.
func (s *state) buildTokens(tokens []token) ([]converter.Node, error) {
	var content []converter.Node
	var pending *metadataComment

	for _, tok := range tokens {
		if err := s.checkContext(); err != nil {
			return nil, err
		}

		if tok.Type == tokenComment {
			if ref, ok := parseUnknownRef(tok.Raw); ok {
				if node, ok := s.stash.resolve(ref); ok {
					content = append(content, node)
				}
				pending = nil
				continue
			}
			if comment, ok := parseMetadataComment(tok.Raw); ok {
				pending = &comment
			}
			continue
		}

		converted, ok, err := s.buildToken(tok)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if pending != nil {
			s.mergePendingComment(*pending, &converted)
			pending = nil
		}
		content = append(content, converted)
	}
	return content, nil
}

func (s *state) buildToken(tok token) (converter.Node, bool, error) {
	switch tok.Type {
	case tokenParagraph:
		paragraph := converter.Node{Type: "paragraph"}
		paragraph.Content = s.finishInline(s.parseInline(tok.Raw), &paragraph)
		if len(paragraph.Content) == 0 && len(paragraph.Attrs) == 0 {
			return converter.Node{}, false, nil
		}
		if promoted, ok := s.normalizeParagraph(paragraph.Content); ok && promoted.Type != "paragraph" {
			return promoted, true, nil
		}
		return paragraph, true, nil

	case tokenHeading:
		heading := converter.Node{
			Type:  "heading",
			Attrs: map[string]interface{}{"level": tok.Level},
		}
		heading.Content = s.finishInline(s.parseInline(tok.Raw), &heading)
		return heading, true, nil

	case tokenCodeBlock:
		return s.buildCodeBlock(tok.Language, tok.Raw), true, nil

	case tokenADFFence:
		return s.buildFenceToken(tok)

	case tokenBulletList, tokenOrderedList:
		return s.buildListToken(tok)

	case tokenBlockquote:
		children, err := s.buildTokens(tok.Children)
		if err != nil {
			return converter.Node{}, false, err
		}
		return converter.Node{Type: "blockquote", Content: children}, true, nil

	case tokenRule:
		return converter.Node{Type: "rule"}, true, nil

	case tokenTable:
		return s.buildTableToken(tok)

	case tokenFrontmatter:
		// Top-level frontmatter is split off before tokenizing; a nested
		// occurrence carries no content.
		return converter.Node{}, false, nil

	default:
		return converter.Node{}, false, nil
	}
}

// buildFenceToken promotes an ADF fence into its node. Unrecognized fence
// words still build a node of that type so arbitrary ADF containers survive
// the trip.
func (s *state) buildFenceToken(tok token) (converter.Node, bool, error) {
	if s.depth >= s.config.MaxDepth {
		return s.buildCodeBlock(tok.FenceType, tok.Raw), true, nil
	}

	s.depth++
	children, err := s.buildTokens(tokenize(tok.Raw, s.config.MaxDepth, s.depth, s.budget))
	s.depth--
	if err != nil {
		return converter.Node{}, false, err
	}

	node := converter.Node{
		Type:  tok.FenceType,
		Attrs: buildFenceAttrs(tok.FenceType, tok.AttrString),
	}
	switch tok.FenceType {
	case "mediaSingle", "mediaGroup":
		node.Content = collectMediaNodes(children)
	default:
		node.Content = children
	}
	return node, true, nil
}

func (s *state) buildListToken(tok token) (converter.Node, bool, error) {
	taskList := false
	for _, item := range tok.Children {
		if item.TaskState != "" {
			taskList = true
			break
		}
	}
	if taskList {
		return s.buildTaskListToken(tok)
	}

	list := converter.Node{Type: "bulletList"}
	if tok.Type == tokenOrderedList {
		list.Type = "orderedList"
		if tok.Start > 1 {
			list.Attrs = map[string]interface{}{"order": tok.Start}
		}
	}

	for _, item := range tok.Children {
		itemNode := converter.Node{Type: "listItem"}
		if item.Children != nil {
			children, err := s.buildTokens(item.Children)
			if err != nil {
				return converter.Node{}, false, err
			}
			itemNode.Content = children
		} else {
			paragraph := converter.Node{Type: "paragraph"}
			paragraph.Content = s.finishInline(s.parseInline(item.Raw), &paragraph)
			itemNode.Content = []converter.Node{paragraph}
		}
		list.Content = append(list.Content, itemNode)
	}
	return list, true, nil
}

func (s *state) buildTaskListToken(tok token) (converter.Node, bool, error) {
	list := converter.Node{
		Type:  "taskList",
		Attrs: map[string]interface{}{"localId": uuid.NewString()},
	}

	for _, item := range tok.Children {
		state := item.TaskState
		if state == "" {
			state = "TODO"
		}
		itemNode := converter.Node{
			Type: "taskItem",
			Attrs: map[string]interface{}{
				"localId": uuid.NewString(),
				"state":   state,
			},
		}
		raw := item.Raw
		if raw == "" && item.Children != nil {
			raw = flattenTokenText(item.Children)
		}
		itemNode.Content = s.finishInline(s.parseInline(raw), &itemNode)
		list.Content = append(list.Content, itemNode)
	}
	return list, true, nil
}

// flattenTokenText joins nested token text; taskItem content is inline-only
// in ADF so nested blocks collapse.
func flattenTokenText(tokens []token) string {
	var parts []string
	for _, tok := range tokens {
		if tok.Raw != "" {
			parts = append(parts, tok.Raw)
		}
		if tok.Children != nil {
			parts = append(parts, flattenTokenText(tok.Children))
		}
	}
	return strings.Join(parts, " ")
}

func (s *state) buildTableToken(tok token) (converter.Node, bool, error) {
	tableNode := converter.Node{Type: "table"}

	for _, row := range tok.Children {
		cellType := "tableCell"
		if row.Header {
			cellType = "tableHeader"
		}
		rowNode := converter.Node{Type: "tableRow"}
		for _, cell := range row.Cells {
			cellNode := converter.Node{Type: cellType}
			content := s.finishInline(s.parseInline(cell), &cellNode)

			paragraph := converter.Node{Type: "paragraph"}
			if len(content) > 0 {
				paragraph.Content = content
			}
			cellNode.Content = []converter.Node{paragraph}
			rowNode.Content = append(rowNode.Content, cellNode)
		}
		tableNode.Content = append(tableNode.Content, rowNode)
	}
	return tableNode, true, nil
}
