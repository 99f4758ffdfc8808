package converter

import (
	"strings"
)

// Mark converters wrap already-rendered text in the canonical markdown or
// HTML equivalent of the mark. Whenever a mark carries attributes beyond the
// minimum needed for the visual effect, the remainder is preserved in a
// trailing metadata comment so no information is lost.

func convertStrongMark(text string, mark Mark, ctx Context) (string, error) {
	return "**" + text + "**" + extraMarkComment(mark, nil), nil
}

func convertEmMark(text string, mark Mark, ctx Context) (string, error) {
	return "*" + text + "*" + extraMarkComment(mark, nil), nil
}

func convertCodeMark(text string, mark Mark, ctx Context) (string, error) {
	return "`" + text + "`" + extraMarkComment(mark, nil), nil
}

func convertStrikeMark(text string, mark Mark, ctx Context) (string, error) {
	return "~~" + text + "~~" + extraMarkComment(mark, nil), nil
}

func convertUnderlineMark(text string, mark Mark, ctx Context) (string, error) {
	return "<u>" + text + "</u>" + extraMarkComment(mark, nil), nil
}

func convertTextColorMark(text string, mark Mark, ctx Context) (string, error) {
	color := mark.GetStringAttr("color", "")
	if color == "" {
		return text, nil
	}
	return `<span style="color: ` + color + `">` + text + "</span>" + extraMarkComment(mark, []string{"color"}), nil
}

func convertBackgroundColorMark(text string, mark Mark, ctx Context) (string, error) {
	color := mark.GetStringAttr("color", "")
	if color == "" {
		return text, nil
	}
	return `<mark style="background-color: ` + color + `">` + text + "</mark>" + extraMarkComment(mark, []string{"color"}), nil
}

// convertLinkMark renders [text](href "title"). A link with no href is a
// no-op: the text passes through unmodified.
func convertLinkMark(text string, mark Mark, ctx Context) (string, error) {
	href := mark.GetStringAttr("href", "")
	if href == "" {
		return text, nil
	}

	closing := "](" + href
	if title := mark.GetStringAttr("title", ""); title != "" {
		escaped := strings.ReplaceAll(title, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		closing += " \"" + escaped + "\""
	}
	closing += ")"

	return "[" + text + closing + extraMarkComment(mark, []string{"href", "title"}), nil
}

func convertSubSupMark(text string, mark Mark, ctx Context) (string, error) {
	switch mark.GetStringAttr("type", "") {
	case "sub":
		return "<sub>" + text + "</sub>" + extraMarkComment(mark, []string{"type"}), nil
	case "sup":
		return "<sup>" + text + "</sup>" + extraMarkComment(mark, []string{"type"}), nil
	default:
		return text, nil
	}
}

// extraMarkComment preserves mark attributes the markdown form cannot carry.
// consumed lists the attribute keys already expressed by the visual syntax.
func extraMarkComment(mark Mark, consumed []string) string {
	if len(mark.Attrs) == 0 {
		return ""
	}

	rest := map[string]interface{}{}
	for key, value := range mark.Attrs {
		skip := false
		for _, used := range consumed {
			if key == used {
				skip = true
				break
			}
		}
		if !skip {
			rest[key] = value
		}
	}
	if len(rest) == 0 {
		return ""
	}

	return MetadataComment("mark", map[string]interface{}{
		"type":  mark.Type,
		"attrs": rest,
	})
}
