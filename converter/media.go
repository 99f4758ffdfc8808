package converter

import (
	"fmt"
)

// convertMedia renders an id-bearing media node as an image placeholder link
// plus a metadata comment carrying its attributes. A missing id renders the
// fixed unknown placeholder.
func convertMedia(node Node, ctx Context) (string, error) {
	id := node.GetStringAttr("id", "")
	if id == "" {
		ctx.Warn(WarningMissingAttribute, node.Type, "media node missing id")
		return "![Media](adf:media:unknown)", nil
	}

	markdown := fmt.Sprintf("![Media](adf:media:%s)", id)
	if comment := MetadataComment("media", node.Attrs); comment != "" {
		markdown += " " + comment
	}
	return markdown, nil
}

// convertMediaSingle wraps its media child in a fence block so the reverse
// direction reconstructs the wrapper node with its layout attributes.
func convertMediaSingle(node Node, ctx Context) (string, error) {
	body, err := ctx.ConvertBlocks(node.Content)
	if err != nil {
		return "", err
	}
	return FenceBlock(FenceHeader("mediaSingle", node.Attrs, "layout", "width"), body), nil
}

func convertMediaGroup(node Node, ctx Context) (string, error) {
	body, err := ctx.ConvertBlocks(node.Content)
	if err != nil {
		return "", err
	}
	return FenceBlock(FenceHeader("mediaGroup", node.Attrs), body), nil
}
