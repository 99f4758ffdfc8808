package converter

// Fallback converters guarantee forward compatibility: an unregistered node
// or mark type is never an error, it is preserved losslessly.

// unknownNodeConverter serializes the full node as a commented JSON block:
//
//	<!-- adf:unknown type="T" -->
//	{ ...node JSON... }
//	<!-- /adf:unknown -->
//
// which the reverse direction reconstructs exactly.
func unknownNodeConverter() NodeConverter {
	return NodeConverterFunc("", func(node Node, ctx Context) (string, error) {
		return MetadataOpenComment("unknown", node.Type) + "\n" +
			MarshalNodeJSON(node) + "\n" +
			MetadataCloseComment("unknown"), nil
	})
}

// unknownMarkConverter preserves the original text unmodified and appends a
// metadata comment carrying the mark's type and attrs.
func unknownMarkConverter() MarkConverter {
	return MarkConverterFunc("", func(text string, mark Mark, ctx Context) (string, error) {
		payload := map[string]interface{}{"type": mark.Type}
		if len(mark.Attrs) > 0 {
			payload["attrs"] = mark.Attrs
		}
		return text + MetadataComment("mark", payload), nil
	})
}
