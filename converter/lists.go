package converter

import (
	"fmt"
	"strings"
)

// convertBulletList renders each listItem as a "- " line, recursing through
// the registry for nested block content. Empty item output is filtered.
func convertBulletList(node Node, ctx Context) (string, error) {
	marker := string(ctx.Config.BulletMarker) + " "

	var items []string
	for _, item := range node.Content {
		if item.Type != "listItem" {
			if ctx.Config.Strict {
				return "", fmt.Errorf("bulletList expects listItem child, got %s", item.Type)
			}
			continue
		}

		content, err := ctx.ConvertBlocks(item.Content)
		if err != nil {
			return "", err
		}
		if content == "" {
			continue
		}
		items = append(items, indent(content, marker))
	}

	return strings.Join(items, "\n"), nil
}

// convertOrderedList renders numbered items honoring a custom attrs.order
// start number.
func convertOrderedList(node Node, ctx Context) (string, error) {
	number := node.GetIntAttr("order", 1)

	var items []string
	for _, item := range node.Content {
		if item.Type != "listItem" {
			if ctx.Config.Strict {
				return "", fmt.Errorf("orderedList expects listItem child, got %s", item.Type)
			}
			continue
		}

		content, err := ctx.ConvertBlocks(item.Content)
		if err != nil {
			return "", err
		}
		if content == "" {
			continue
		}
		items = append(items, indent(content, fmt.Sprintf("%d. ", number)))
		number++
	}

	return strings.Join(items, "\n"), nil
}

// convertListItem handles a listItem reached outside its list (degenerate
// input); list converters normally consume items directly.
func convertListItem(node Node, ctx Context) (string, error) {
	return ctx.ConvertBlocks(node.Content)
}

// convertTaskList renders taskItems as GFM checkboxes. The list's localId is
// preserved as a preceding metadata comment so the round trip can restore it.
func convertTaskList(node Node, ctx Context) (string, error) {
	var items []string
	for _, item := range node.Content {
		if item.Type != "taskItem" {
			if ctx.Config.Strict {
				return "", fmt.Errorf("taskList expects taskItem child, got %s", item.Type)
			}
			continue
		}

		content, err := convertTaskItem(item, ctx)
		if err != nil {
			return "", err
		}
		if content == "" {
			continue
		}
		items = append(items, content)
	}

	list := strings.Join(items, "\n")
	if comment := MetadataComment("taskList", node.Attrs); comment != "" && list != "" {
		list = comment + "\n" + list
	}
	return list, nil
}

func convertTaskItem(node Node, ctx Context) (string, error) {
	content, err := ctx.ConvertChildren(node.Content)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", nil
	}

	marker := "- [ ] "
	if node.GetStringAttr("state", "TODO") == "DONE" {
		marker = "- [x] "
	}
	return indent(content, marker), nil
}
