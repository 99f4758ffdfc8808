package mdconverter

import "github.com/rgonek/adfmd/converter"

// Result holds the output of a reverse conversion.
type Result struct {
	Doc converter.Doc `json:"doc"`

	// Frontmatter carries the decoded YAML/TOML frontmatter, nil when the
	// document has none. Frontmatter contributes no document content.
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`

	Warnings []converter.Warning `json:"warnings,omitempty"`
}
