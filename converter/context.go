package converter

// Context is the traversal environment threaded through every converter call.
// A fresh Context is built per node visit; nothing in it is shared mutable
// state, so concurrent conversions on the same engine are safe.
type Context struct {
	// ConvertChildren converts a node sequence as inline content and
	// concatenates the results.
	ConvertChildren func(nodes []Node) (string, error)

	// ConvertBlocks converts a node sequence as block content: empty
	// outputs are filtered and the rest joined with blank lines.
	ConvertBlocks func(nodes []Node) (string, error)

	// Depth counts nested container levels, starting at 0 for the doc root.
	Depth int

	// Parent is the node whose converter invoked this one, nil at the root.
	Parent *Node

	Config   Config
	Registry *Registry

	// Warn records a non-fatal conversion issue on the engine result.
	Warn func(warnType WarningType, nodeType, message string)
}
