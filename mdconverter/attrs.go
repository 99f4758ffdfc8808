package mdconverter

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseFenceAttrs parses the key=value grammar of ADF fence headers and
// metadata tokens. It supports unquoted tokens, single- and double-quoted
// strings, and the special attrs='<json>' form whose object is merged (not
// nested) into the attribute map. Scalar values are coerced: "true"/"false"
// to bool, integer-looking tokens to int, decimal-looking tokens to float64.
func parseFenceAttrs(input string) map[string]interface{} {
	attrs := map[string]interface{}{}
	rest := strings.TrimSpace(input)

	for rest != "" {
		eq := strings.Index(rest, "=")
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(rest[:eq])
		if key == "" || strings.ContainsAny(key, " \t") {
			// Recover at the next whitespace boundary.
			space := strings.IndexAny(rest, " \t")
			if space < 0 {
				break
			}
			rest = strings.TrimSpace(rest[space+1:])
			continue
		}

		value, remainder := scanFenceValue(rest[eq+1:])
		rest = strings.TrimSpace(remainder)

		if key == "attrs" {
			var merged map[string]interface{}
			if err := json.Unmarshal([]byte(value), &merged); err == nil {
				for k, v := range merged {
					attrs[k] = v
				}
			}
			continue
		}
		attrs[key] = coerceFenceValue(value)
	}

	return attrs
}

// scanFenceValue consumes one value token starting right after "=".
func scanFenceValue(input string) (string, string) {
	if input == "" {
		return "", ""
	}

	switch input[0] {
	case '\'', '"':
		quote := input[0]
		for i := 1; i < len(input); i++ {
			if input[i] == '\\' {
				i++
				continue
			}
			if input[i] == quote {
				value := input[1:i]
				if quote == '"' {
					if unquoted, err := strconv.Unquote(`"` + value + `"`); err == nil {
						value = unquoted
					}
				}
				return value, input[i+1:]
			}
		}
		return input[1:], ""
	default:
		end := strings.IndexAny(input, " \t")
		if end < 0 {
			return input, ""
		}
		return input[:end], input[end:]
	}
}

func coerceFenceValue(value string) interface{} {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}
