package converter

// ADF container nodes with no native markdown equivalent render as
// triple-tilde fence blocks: ~~~<nodeType> key=value ...\n<content>\n~~~.
// The reverse direction reclassifies these fences back into typed nodes.

// convertPanel renders a panel fence. The panelType attribute is written as
// the canonical leading type=... token.
func convertPanel(node Node, ctx Context) (string, error) {
	body, err := ctx.ConvertBlocks(node.Content)
	if err != nil {
		return "", err
	}

	attrs := map[string]interface{}{}
	for key, value := range node.Attrs {
		if key == "panelType" {
			attrs["type"] = value
			continue
		}
		attrs[key] = value
	}
	if _, ok := attrs["type"]; !ok {
		attrs["type"] = "info"
	}

	return FenceBlock(FenceHeader("panel", attrs, "type", "title"), body), nil
}

func convertExpand(node Node, ctx Context) (string, error) {
	return convertExpandFence(node, ctx, "expand")
}

// convertNestedExpand marks itself distinctly from a top-level expand so the
// reverse direction reconstructs the correct node type.
func convertNestedExpand(node Node, ctx Context) (string, error) {
	return convertExpandFence(node, ctx, "nestedExpand")
}

func convertExpandFence(node Node, ctx Context, fenceType string) (string, error) {
	body, err := ctx.ConvertBlocks(node.Content)
	if err != nil {
		return "", err
	}
	return FenceBlock(FenceHeader(fenceType, node.Attrs, "title"), body), nil
}
