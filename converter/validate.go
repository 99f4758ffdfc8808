package converter

import (
	"fmt"
)

// ValidationIssue describes one structural problem found in a document.
type ValidationIssue struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationResult is the outcome of a structural validation pass.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

// ValidateADF checks the structural invariants of an ADF document: the root
// type, version, text-node shape, heading levels and table/list child types.
// Unknown node types are reported as warnings, never errors, because the
// conversion engine preserves them losslessly.
func ValidateADF(doc Doc) ValidationResult {
	v := &adfValidator{}

	if doc.Type != "doc" {
		v.errorf("", "root node type must be %q, got %q", "doc", doc.Type)
	}
	if doc.Version != 1 {
		v.errorf("", "unsupported ADF version %d", doc.Version)
	}
	for i, child := range doc.Content {
		v.walk(child, fmt.Sprintf("content[%d]", i))
	}

	return ValidationResult{
		Valid:    len(v.errors) == 0,
		Errors:   v.errors,
		Warnings: v.warnings,
	}
}

type adfValidator struct {
	errors   []ValidationIssue
	warnings []ValidationIssue
}

func (v *adfValidator) errorf(path, format string, args ...interface{}) {
	v.errors = append(v.errors, ValidationIssue{Message: fmt.Sprintf(format, args...), Path: path})
}

func (v *adfValidator) warnf(path, format string, args ...interface{}) {
	v.warnings = append(v.warnings, ValidationIssue{Message: fmt.Sprintf(format, args...), Path: path})
}

func (v *adfValidator) walk(node Node, path string) {
	switch node.Type {
	case "":
		v.errorf(path, "node is missing a type")
	case "text":
		if len(node.Content) > 0 {
			v.errorf(path, "text node must not carry content")
		}
		for i, mark := range node.Marks {
			if mark.Type == "" {
				v.errorf(fmt.Sprintf("%s.marks[%d]", path, i), "mark is missing a type")
			}
		}
	case "heading":
		level := node.GetIntAttr("level", 0)
		if level < 1 || level > 6 {
			v.errorf(path, "heading level must be 1-6, got %d", level)
		}
	case "bulletList", "orderedList":
		for i, child := range node.Content {
			if child.Type != "listItem" {
				v.errorf(fmt.Sprintf("%s.content[%d]", path, i), "%s expects listItem children, got %q", node.Type, child.Type)
			}
		}
	case "taskList":
		for i, child := range node.Content {
			if child.Type != "taskItem" {
				v.errorf(fmt.Sprintf("%s.content[%d]", path, i), "taskList expects taskItem children, got %q", child.Type)
			}
		}
	case "table":
		for i, child := range node.Content {
			if child.Type != "tableRow" {
				v.errorf(fmt.Sprintf("%s.content[%d]", path, i), "table expects tableRow children, got %q", child.Type)
			}
		}
	case "tableRow":
		for i, child := range node.Content {
			if child.Type != "tableCell" && child.Type != "tableHeader" {
				v.errorf(fmt.Sprintf("%s.content[%d]", path, i), "tableRow expects cell children, got %q", child.Type)
			}
		}
	case "paragraph", "blockquote", "panel", "expand", "nestedExpand",
		"listItem", "taskItem", "tableCell", "tableHeader", "codeBlock",
		"mediaSingle", "mediaGroup", "rule", "hardBreak", "media",
		"mention", "status", "date", "emoji", "inlineCard":
		// Known types with no additional shape constraints here.
	default:
		v.warnf(path, "unknown node type %q", node.Type)
	}

	if node.Type != "text" && node.Text != "" {
		v.errorf(path, "%s node must not carry text", node.Type)
	}

	for i, child := range node.Content {
		v.walk(child, fmt.Sprintf("%s.content[%d]", path, i))
	}
}
