package converter

// NodeConverter renders one ADF node type as Extended Markdown.
type NodeConverter interface {
	NodeType() string
	ToMarkdown(node Node, ctx Context) (string, error)
}

// MarkConverter wraps already-rendered text in the markdown form of one mark
// type. Mark converters are pure text transforms; applying them in the order
// of the node's marks array determines nesting.
type MarkConverter interface {
	MarkType() string
	ToMarkdown(text string, mark Mark, ctx Context) (string, error)
}

type nodeConverterFunc struct {
	nodeType string
	fn       func(Node, Context) (string, error)
}

func (c nodeConverterFunc) NodeType() string { return c.nodeType }

func (c nodeConverterFunc) ToMarkdown(node Node, ctx Context) (string, error) {
	return c.fn(node, ctx)
}

// NodeConverterFunc adapts a function into a NodeConverter.
func NodeConverterFunc(nodeType string, fn func(Node, Context) (string, error)) NodeConverter {
	return nodeConverterFunc{nodeType: nodeType, fn: fn}
}

type markConverterFunc struct {
	markType string
	fn       func(string, Mark, Context) (string, error)
}

func (c markConverterFunc) MarkType() string { return c.markType }

func (c markConverterFunc) ToMarkdown(text string, mark Mark, ctx Context) (string, error) {
	return c.fn(text, mark, ctx)
}

// MarkConverterFunc adapts a function into a MarkConverter.
func MarkConverterFunc(markType string, fn func(string, Mark, Context) (string, error)) MarkConverter {
	return markConverterFunc{markType: markType, fn: fn}
}

// Registry maps ADF node and mark type names to their converters. It is
// append/overwrite-only: re-registering a type replaces the previous entry
// (last writer wins), and there is no removal operation. The registry is
// populated at engine construction time and must not be mutated while a
// conversion is running.
type Registry struct {
	nodes map[string]NodeConverter
	marks map[string]MarkConverter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes: map[string]NodeConverter{},
		marks: map[string]MarkConverter{},
	}
}

// RegisterNode adds or replaces the converter for its node type.
func (r *Registry) RegisterNode(conv NodeConverter) {
	r.nodes[conv.NodeType()] = conv
}

// RegisterMark adds or replaces the converter for its mark type.
func (r *Registry) RegisterMark(conv MarkConverter) {
	r.marks[conv.MarkType()] = conv
}

// NodeConverter looks up the converter for a node type. The second return
// reports whether the type is registered; callers resolve a miss to the
// lossless fallback converter.
func (r *Registry) NodeConverter(nodeType string) (NodeConverter, bool) {
	conv, ok := r.nodes[nodeType]
	return conv, ok
}

// MarkConverter looks up the converter for a mark type.
func (r *Registry) MarkConverter(markType string) (MarkConverter, bool) {
	conv, ok := r.marks[markType]
	return conv, ok
}

// defaultRegistry builds the registry with every built-in converter.
func defaultRegistry() *Registry {
	r := NewRegistry()

	for _, conv := range []NodeConverter{
		NodeConverterFunc("doc", convertDoc),
		NodeConverterFunc("paragraph", convertParagraph),
		NodeConverterFunc("text", convertText),
		NodeConverterFunc("heading", convertHeading),
		NodeConverterFunc("blockquote", convertBlockquote),
		NodeConverterFunc("rule", convertRule),
		NodeConverterFunc("hardBreak", convertHardBreak),
		NodeConverterFunc("codeBlock", convertCodeBlock),
		NodeConverterFunc("panel", convertPanel),
		NodeConverterFunc("expand", convertExpand),
		NodeConverterFunc("nestedExpand", convertNestedExpand),
		NodeConverterFunc("bulletList", convertBulletList),
		NodeConverterFunc("orderedList", convertOrderedList),
		NodeConverterFunc("listItem", convertListItem),
		NodeConverterFunc("taskList", convertTaskList),
		NodeConverterFunc("taskItem", convertTaskItem),
		NodeConverterFunc("table", convertTable),
		NodeConverterFunc("tableRow", convertTableRow),
		NodeConverterFunc("tableHeader", convertTableCell),
		NodeConverterFunc("tableCell", convertTableCell),
		NodeConverterFunc("media", convertMedia),
		NodeConverterFunc("mediaSingle", convertMediaSingle),
		NodeConverterFunc("mediaGroup", convertMediaGroup),
		NodeConverterFunc("mention", convertMention),
		NodeConverterFunc("status", convertStatus),
		NodeConverterFunc("date", convertDate),
		NodeConverterFunc("emoji", convertEmoji),
		NodeConverterFunc("inlineCard", convertInlineCard),
	} {
		r.RegisterNode(conv)
	}

	for _, conv := range []MarkConverter{
		MarkConverterFunc("strong", convertStrongMark),
		MarkConverterFunc("em", convertEmMark),
		MarkConverterFunc("code", convertCodeMark),
		MarkConverterFunc("strike", convertStrikeMark),
		MarkConverterFunc("underline", convertUnderlineMark),
		MarkConverterFunc("textColor", convertTextColorMark),
		MarkConverterFunc("backgroundColor", convertBackgroundColorMark),
		MarkConverterFunc("link", convertLinkMark),
		MarkConverterFunc("subsup", convertSubSupMark),
	} {
		r.RegisterMark(conv)
	}

	return r
}
