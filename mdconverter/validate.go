package mdconverter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgonek/adfmd/converter"
)

// ValidateMarkdown checks an extended markdown document for structural
// problems without converting it: unclosed fences and preservation blocks
// are errors, salvageable defects like malformed comment attrs are warnings.
func ValidateMarkdown(markdown string) converter.ValidationResult {
	result := converter.ValidationResult{Valid: true}

	fail := func(message, path string) {
		result.Valid = false
		result.Errors = append(result.Errors, converter.ValidationIssue{Message: message, Path: path})
	}
	warn := func(message, path string) {
		result.Warnings = append(result.Warnings, converter.ValidationIssue{Message: message, Path: path})
	}

	if len(markdown) > MaxInputSize {
		fail(fmt.Sprintf("input exceeds size limit: %d bytes", len(markdown)), "")
		return result
	}

	var (
		codeFenceLine    = -1
		codeFenceDelim   = ""
		adfFenceLine     = -1
		adfFenceDelim    = ""
		unknownBlockLine = -1
	)

	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		path := fmt.Sprintf("line %d", i+1)

		// Fence interiors are opaque: only the matching-length close counts,
		// shorter runs belong to nested fences inside the body.
		if codeFenceLine >= 0 {
			if closesFence(trimmed, codeFenceDelim) {
				codeFenceLine = -1
			}
			continue
		}
		if adfFenceLine >= 0 {
			if closesFence(trimmed, adfFenceDelim) {
				adfFenceLine = -1
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```"):
			codeFenceLine = i
			codeFenceDelim = trimmed[:len(trimmed)-len(strings.TrimLeft(trimmed, "`"))]

		case adfFenceOpenRe.MatchString(trimmed):
			adfFenceLine = i
			adfFenceDelim = trimmed[:len(trimmed)-len(strings.TrimLeft(trimmed, "~"))]

		case len(trimmed) >= 3 && strings.Trim(trimmed, "~") == "":
			fail("closing ~~~ without an open ADF fence", path)
		}

		if comment, ok := parseMetadataComment(trimmed); ok {
			if comment.Kind == "unknown" {
				if unknownBlockLine >= 0 {
					fail("nested adf:unknown block", path)
				}
				unknownBlockLine = i
			}
			if attrsMatch := metadataAttrsRe.FindStringSubmatch(trimmed); attrsMatch != nil {
				var attrs map[string]interface{}
				if err := json.Unmarshal([]byte(attrsMatch[1]), &attrs); err != nil {
					warn("metadata comment has malformed attrs JSON", path)
				}
			}
		}
		if match := closeCommentRe.FindStringSubmatch(trimmed); match != nil {
			if match[1] == "unknown" {
				if unknownBlockLine < 0 {
					warn("closing adf:unknown comment without an open block", path)
				}
				unknownBlockLine = -1
			}
		}
	}

	if codeFenceLine >= 0 {
		fail("unclosed code fence", fmt.Sprintf("line %d", codeFenceLine+1))
	}
	if adfFenceLine >= 0 {
		fail("unclosed ADF fence", fmt.Sprintf("line %d", adfFenceLine+1))
	}
	if unknownBlockLine >= 0 {
		fail("unclosed adf:unknown block", fmt.Sprintf("line %d", unknownBlockLine+1))
	}

	return result
}
