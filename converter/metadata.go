package converter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// The metadata micro-format smuggles ADF attributes that markdown cannot
// natively express. It has three surfaces:
//
//	<!-- adf:<kind> attrs='<json>' -->     attribute comment
//	<!-- adf:<kind> type="T" -->           open comment for block preservation
//	<!-- /adf:<kind> -->                   close comment
//
// and the key=value tokens used in ~~~fence headers.

// MetadataComment renders an attribute comment for the given kind.
// Returns the empty string when attrs is empty.
func MetadataComment(kind string, attrs map[string]interface{}) string {
	if len(attrs) == 0 {
		return ""
	}
	return fmt.Sprintf("<!-- adf:%s attrs='%s' -->", kind, MarshalAttrs(attrs))
}

// MetadataOpenComment renders the opening comment of a block-scoped pair.
func MetadataOpenComment(kind, nodeType string) string {
	return fmt.Sprintf("<!-- adf:%s type=%q -->", kind, nodeType)
}

// MetadataCloseComment renders the closing comment of a block-scoped pair.
func MetadataCloseComment(kind string) string {
	return fmt.Sprintf("<!-- /adf:%s -->", kind)
}

// MarshalAttrs serializes an attribute map as compact JSON. Self-referential
// values terminate with a "[Circular]" sentinel instead of recursing, and
// single quotes are escaped so the payload survives the '...' comment quoting.
func MarshalAttrs(attrs map[string]interface{}) string {
	sanitized := sanitizeValue(attrs, map[uintptr]bool{})
	data, err := json.Marshal(sanitized)
	if err != nil {
		// Sanitation removed cycles; remaining failures are unmarshalable
		// scalar types (chan, func). Represent them as a plain string.
		return fmt.Sprintf("%q", fmt.Sprint(attrs))
	}
	return escapeSingleQuotes(string(data))
}

// MarshalNodeJSON pretty-prints a full node for the lossless unknown-node
// fallback block.
func MarshalNodeJSON(node Node) string {
	sanitized := node
	if node.Attrs != nil {
		if cleaned, ok := sanitizeValue(node.Attrs, map[uintptr]bool{}).(map[string]interface{}); ok {
			sanitized.Attrs = cleaned
		}
	}
	data, err := json.MarshalIndent(sanitized, "", "  ")
	if err != nil {
		return fmt.Sprintf("{%q: %q}", "type", node.Type)
	}
	return string(data)
}

func escapeSingleQuotes(s string) string {
	// A raw ' can only occur inside a JSON string literal, where the
	// \u0027 escape is an exact equivalent.
	return strings.ReplaceAll(s, "'", `\u0027`)
}

// sanitizeValue walks a JSON-ish value with an identity-based visited set and
// replaces re-entered maps and slices with the "[Circular]" sentinel.
func sanitizeValue(value interface{}, visited map[uintptr]bool) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		ptr := reflect.ValueOf(typed).Pointer()
		if visited[ptr] {
			return "[Circular]"
		}
		visited[ptr] = true
		out := make(map[string]interface{}, len(typed))
		for key, val := range typed {
			out[key] = sanitizeValue(val, visited)
		}
		delete(visited, ptr)
		return out
	case []interface{}:
		if len(typed) == 0 {
			return typed
		}
		ptr := reflect.ValueOf(typed).Pointer()
		if visited[ptr] {
			return "[Circular]"
		}
		visited[ptr] = true
		out := make([]interface{}, len(typed))
		for i, val := range typed {
			out[i] = sanitizeValue(val, visited)
		}
		delete(visited, ptr)
		return out
	default:
		return value
	}
}

// FenceHeader renders the opening line payload of an ADF fence block:
// the node type followed by key=value attribute tokens. Keys listed in
// firstKeys render first (in that order); the rest follow sorted, so output
// is deterministic. Scalar values render as key=value tokens, quoted when
// they contain whitespace or quotes; non-scalar values are folded into a
// single trailing attrs='<json>' token.
func FenceHeader(nodeType string, attrs map[string]interface{}, firstKeys ...string) string {
	parts := []string{nodeType}
	complex := map[string]interface{}{}

	emitted := map[string]bool{}
	emit := func(key string) {
		value, ok := attrs[key]
		if !ok || emitted[key] {
			return
		}
		emitted[key] = true
		token, scalar := formatFenceValue(value)
		if !scalar {
			complex[key] = value
			return
		}
		parts = append(parts, key+"="+token)
	}

	for _, key := range firstKeys {
		emit(key)
	}
	rest := make([]string, 0, len(attrs))
	for key := range attrs {
		if !emitted[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		emit(key)
	}

	if len(complex) > 0 {
		parts = append(parts, "attrs='"+MarshalAttrs(complex)+"'")
	}

	return strings.Join(parts, " ")
}

// formatFenceValue renders a scalar attribute value as a fence-header token.
// The second return is false for values that need the attrs='json' form.
func formatFenceValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		if typed == "" || strings.ContainsAny(typed, " \t\"'=") {
			return strconv.Quote(typed), true
		}
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10), true
		}
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	default:
		return "", false
	}
}

// FenceBlock renders a complete tilde fence around body. The delimiter is
// one tilde longer than any tilde run opening a body line, so a fence block
// nested in the body cannot terminate its parent.
func FenceBlock(header, body string) string {
	body = strings.TrimRight(body, "\n")
	delimiter := fenceDelimiter(body)
	if body == "" {
		return delimiter + header + "\n" + delimiter
	}
	return delimiter + header + "\n" + body + "\n" + delimiter
}

func fenceDelimiter(body string) string {
	longest := 0
	for _, line := range strings.Split(body, "\n") {
		run := 0
		for run < len(line) && line[run] == '~' {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	if longest < 3 {
		return "~~~"
	}
	return strings.Repeat("~", longest+1)
}
