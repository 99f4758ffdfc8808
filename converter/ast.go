package converter

// Doc represents the root document node of an ADF JSON tree.
type Doc struct {
	Version int    `json:"version"`
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

// Node represents any node in the ADF tree (e.g., paragraph, text, panel).
type Node struct {
	Type    string                 `json:"type"`
	Text    string                 `json:"text,omitempty"`
	Content []Node                 `json:"content,omitempty"`
	Marks   []Mark                 `json:"marks,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
}

// Mark represents text formatting applied to a text node (e.g., strong, em).
type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// GetStringAttr returns a string attribute or the given default.
func (n Node) GetStringAttr(key, def string) string {
	if n.Attrs == nil {
		return def
	}
	if value, ok := n.Attrs[key].(string); ok {
		return value
	}
	return def
}

// GetIntAttr returns an integer attribute or the given default.
// JSON numbers arrive as float64; both representations are accepted.
func (n Node) GetIntAttr(key string, def int) int {
	if n.Attrs == nil {
		return def
	}
	switch value := n.Attrs[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	default:
		return def
	}
}

// GetFloat64Attr returns a float attribute or the given default.
func (n Node) GetFloat64Attr(key string, def float64) float64 {
	if n.Attrs == nil {
		return def
	}
	switch value := n.Attrs[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	default:
		return def
	}
}

// GetStringAttr returns a string attribute of a mark or the given default.
func (m Mark) GetStringAttr(key, def string) string {
	if m.Attrs == nil {
		return def
	}
	if value, ok := m.Attrs[key].(string); ok {
		return value
	}
	return def
}

// NewTextNode builds a text node with the given marks.
func NewTextNode(text string, marks []Mark) Node {
	return Node{
		Type:  "text",
		Text:  text,
		Marks: marks,
	}
}

// EmptyDoc returns a structurally valid ADF document with no content.
func EmptyDoc() Doc {
	return Doc{Version: 1, Type: "doc", Content: []Node{}}
}
