package mdconverter

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rgonek/adfmd/converter"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func (s *state) convertDocument(root ast.Node) (converter.Doc, error) {
	doc := converter.EmptyDoc()

	content, err := s.convertNodeSequence(root)
	if err != nil {
		return converter.Doc{}, err
	}
	if content != nil {
		doc.Content = content
	}
	return doc, nil
}

func (s *state) convertNodeSequence(parent ast.Node) ([]converter.Node, error) {
	children := make([]ast.Node, 0, parent.ChildCount())
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		children = append(children, child)
	}
	return s.convertBlockSlice(children)
}

// convertBlockSlice converts sibling blocks, holding standalone metadata
// comments pending so they merge into the attrs of the node that follows.
// Orphaned comments are dropped silently.
func (s *state) convertBlockSlice(children []ast.Node) ([]converter.Node, error) {
	var content []converter.Node
	var pending *metadataComment

	for _, child := range children {
		if err := s.checkContext(); err != nil {
			return nil, err
		}

		if htmlBlock, ok := child.(*ast.HTMLBlock); ok {
			raw := s.htmlBlockText(htmlBlock)
			if ref, ok := parseUnknownRef(raw); ok {
				if node, ok := s.stash.resolve(ref); ok {
					content = append(content, node)
				}
				pending = nil
				continue
			}
			if comment, ok := parseMetadataComment(raw); ok {
				pending = &comment
				continue
			}
			s.addWarning(converter.WarningUnknownNode, "html", "unsupported HTML block dropped")
			continue
		}

		converted, ok, err := s.convertBlockNode(child)
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

// mergePendingComment merges a standalone comment into the following node,
// reaching through a mediaSingle wrapper for adf:media comments.
func (s *state) mergePendingComment(comment metadataComment, node *converter.Node) {
	if mergeCommentIntoNode(comment, node) {
		return
	}
	if comment.Kind == "media" && (node.Type == "mediaSingle" || node.Type == "mediaGroup") && len(node.Content) > 0 {
		mergeCommentIntoNode(comment, &node.Content[0])
	}
}

func (s *state) convertBlockNode(node ast.Node) (converter.Node, bool, error) {
	switch typed := node.(type) {
	case *ast.Paragraph:
		return s.convertParagraphNode(typed)
	case *ast.TextBlock:
		return s.convertParagraphNode(typed)
	case *ast.Heading:
		return s.convertHeadingNode(typed)
	case *ast.Blockquote:
		return s.convertBlockquoteNode(typed)
	case *ast.ThematicBreak:
		return converter.Node{Type: "rule"}, true, nil
	case *ast.FencedCodeBlock:
		return s.convertFencedCodeBlockNode(typed)
	case *ast.CodeBlock:
		return s.buildCodeBlock("", s.blockLinesText(typed)), true, nil
	case *ast.List:
		return s.convertListNode(typed)
	case *extast.Table:
		return s.convertTableNode(typed)
	default:
		textValue := strings.TrimSpace(string(node.Text(s.source)))
		if textValue == "" {
			return converter.Node{}, false, nil
		}
		nodeKind := typed.Kind().String()
		s.addWarning(converter.WarningUnknownNode, nodeKind, "unsupported markdown block node: "+nodeKind)
		return converter.Node{
			Type:    "paragraph",
			Content: []converter.Node{converter.NewTextNode(textValue, nil)},
		}, true, nil
	}
}

func (s *state) convertParagraphNode(node ast.Node) (converter.Node, bool, error) {
	inline, err := s.convertInlineChildren(node, newMarkStack())
	if err != nil {
		return converter.Node{}, false, err
	}

	paragraph := converter.Node{Type: "paragraph"}
	paragraph.Content = s.finishInline(inline, &paragraph)
	if len(paragraph.Content) == 0 && len(paragraph.Attrs) == 0 {
		return converter.Node{}, false, nil
	}
	if promoted, ok := s.normalizeParagraph(paragraph.Content); ok && promoted.Type != "paragraph" {
		return promoted, true, nil
	}
	return paragraph, true, nil
}

func (s *state) convertHeadingNode(node *ast.Heading) (converter.Node, bool, error) {
	inline, err := s.convertInlineChildren(node, newMarkStack())
	if err != nil {
		return converter.Node{}, false, err
	}

	level := node.Level
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	heading := converter.Node{
		Type:  "heading",
		Attrs: map[string]interface{}{"level": level},
	}
	heading.Content = s.finishInline(inline, &heading)
	return heading, true, nil
}

func (s *state) convertBlockquoteNode(node *ast.Blockquote) (converter.Node, bool, error) {
	content, err := s.convertNodeSequence(node)
	if err != nil {
		return converter.Node{}, false, err
	}
	return converter.Node{Type: "blockquote", Content: content}, true, nil
}

// convertFencedCodeBlockNode reclassifies fences whose language matches a
// known ADF container type into that node; everything else stays a codeBlock.
func (s *state) convertFencedCodeBlockNode(node *ast.FencedCodeBlock) (converter.Node, bool, error) {
	info := ""
	if node.Info != nil {
		info = string(node.Info.Segment.Value(s.source))
	}
	language, attrString, _ := strings.Cut(strings.TrimSpace(info), " ")
	body := s.blockLinesText(node)

	if adfFenceTypes[language] {
		promoted, ok, err := s.buildFenceNode(language, attrString, body)
		if err != nil {
			return converter.Node{}, false, err
		}
		if ok {
			return promoted, true, nil
		}
		// Depth-bounded: flatten into a code block rather than recurse.
	}

	return s.buildCodeBlock(language, body), true, nil
}

func (s *state) buildCodeBlock(language, body string) converter.Node {
	node := converter.Node{Type: "codeBlock"}
	if language != "" {
		node.Attrs = map[string]interface{}{"language": language}
	}
	if body = strings.TrimRight(body, "\n"); body != "" {
		node.Content = []converter.Node{converter.NewTextNode(body, nil)}
	}
	return node
}

// buildFenceNode promotes an ADF fence into its container node, re-parsing
// the body as nested markdown at depth+1, bounded by MaxDepth.
func (s *state) buildFenceNode(fenceType, attrString, body string) (converter.Node, bool, error) {
	if s.depth >= s.config.MaxDepth {
		return converter.Node{}, false, nil
	}

	s.depth++
	content, err := s.convertFragment(body)
	s.depth--
	if err != nil {
		return converter.Node{}, false, err
	}

	node := converter.Node{
		Type:  fenceType,
		Attrs: buildFenceAttrs(fenceType, attrString),
	}

	switch fenceType {
	case "mediaSingle", "mediaGroup":
		node.Content = collectMediaNodes(content)
	default:
		node.Content = content
	}
	return node, true, nil
}

// convertFragment parses nested markdown (fence bodies) with the same state.
func (s *state) convertFragment(fragment string) ([]converter.Node, error) {
	prevSource := s.source
	s.source = []byte(fragment)
	root := s.parser.Parser().Parse(text.NewReader(s.source))
	content, err := s.convertNodeSequence(root)
	s.source = prevSource
	return content, err
}

// collectMediaNodes unwraps media nodes from the paragraphs and wrappers a
// fence-body parse produces.
func collectMediaNodes(content []converter.Node) []converter.Node {
	var media []converter.Node
	for _, node := range content {
		switch node.Type {
		case "media":
			media = append(media, node)
		case "paragraph", "mediaSingle", "mediaGroup":
			media = append(media, collectMediaNodes(node.Content)...)
		}
	}
	return media
}

func (s *state) convertListNode(node *ast.List) (converter.Node, bool, error) {
	if s.listIsTaskList(node) {
		return s.convertTaskListNode(node)
	}

	list := converter.Node{Type: "bulletList"}
	if node.IsOrdered() {
		list.Type = "orderedList"
		if node.Start != 1 && node.Start != 0 {
			list.Attrs = map[string]interface{}{"order": node.Start}
		}
	}

	for item := node.FirstChild(); item != nil; item = item.NextSibling() {
		content, err := s.convertNodeSequence(item)
		if err != nil {
			return converter.Node{}, false, err
		}
		list.Content = append(list.Content, converter.Node{
			Type:    "listItem",
			Content: content,
		})
	}
	return list, true, nil
}

// listIsTaskList reports whether any item leads with a GFM task checkbox.
func (s *state) listIsTaskList(node *ast.List) bool {
	for item := node.FirstChild(); item != nil; item = item.NextSibling() {
		block := item.FirstChild()
		if block == nil {
			continue
		}
		if _, ok := block.FirstChild().(*extast.TaskCheckBox); ok {
			return true
		}
	}
	return false
}

// convertTaskListNode builds a taskList from a GFM checkbox list. ADF
// requires localId on both the list and its items; missing ids are minted.
func (s *state) convertTaskListNode(node *ast.List) (converter.Node, bool, error) {
	list := converter.Node{
		Type:  "taskList",
		Attrs: map[string]interface{}{"localId": uuid.NewString()},
	}

	for item := node.FirstChild(); item != nil; item = item.NextSibling() {
		state := "TODO"
		var inline []converter.Node

		for block := item.FirstChild(); block != nil; block = block.NextSibling() {
			for child := block.FirstChild(); child != nil; child = child.NextSibling() {
				if checkbox, ok := child.(*extast.TaskCheckBox); ok {
					if checkbox.IsChecked {
						state = "DONE"
					}
					continue
				}
				converted, err := s.convertInlineNode(child, newMarkStack())
				if err != nil {
					return converter.Node{}, false, err
				}
				for _, n := range converted {
					inline = appendInlineNode(inline, n)
				}
			}
		}

		taskItem := converter.Node{
			Type: "taskItem",
			Attrs: map[string]interface{}{
				"localId": uuid.NewString(),
				"state":   state,
			},
		}
		taskItem.Content = s.finishInline(inline, &taskItem)
		if len(taskItem.Content) > 0 && taskItem.Content[0].Type == "text" {
			taskItem.Content[0].Text = strings.TrimPrefix(taskItem.Content[0].Text, " ")
		}
		list.Content = append(list.Content, taskItem)
	}
	return list, true, nil
}

func (s *state) htmlBlockText(node *ast.HTMLBlock) string {
	var sb strings.Builder
	for i := 0; i < node.Lines().Len(); i++ {
		segment := node.Lines().At(i)
		sb.Write(segment.Value(s.source))
	}
	if node.HasClosure() {
		sb.Write(node.ClosureLine.Value(s.source))
	}
	return strings.TrimSpace(sb.String())
}

func (s *state) blockLinesText(node ast.Node) string {
	var sb strings.Builder
	for i := 0; i < node.Lines().Len(); i++ {
		segment := node.Lines().At(i)
		sb.Write(segment.Value(s.source))
	}
	return sb.String()
}
