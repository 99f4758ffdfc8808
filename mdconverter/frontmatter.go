package mdconverter

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// frontmatterWindow is how many lines ahead the closing delimiter may be for
// a leading --- to classify as frontmatter instead of a thematic break.
const frontmatterWindow = 20

// splitFrontmatter detects YAML (---) or TOML (+++) frontmatter at the start
// of the document and returns the remaining body plus the raw frontmatter
// payload and its format delimiter. found is false when the document has no
// frontmatter.
func splitFrontmatter(source string) (body, payload, delimiter string, found bool) {
	lines := strings.Split(source, "\n")
	if len(lines) == 0 {
		return source, "", "", false
	}

	first := strings.TrimRight(lines[0], " \t")
	if first != "---" && first != "+++" {
		return source, "", "", false
	}

	limit := len(lines)
	if limit > frontmatterWindow+1 {
		limit = frontmatterWindow + 1
	}
	for i := 1; i < limit; i++ {
		if strings.TrimRight(lines[i], " \t") == first {
			payload = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return body, payload, first, true
		}
	}
	return source, "", "", false
}

// parseFrontmatter decodes a frontmatter payload with the collaborator
// matching its delimiter: yaml.v3 for ---, BurntSushi/toml for +++.
func parseFrontmatter(payload, delimiter string) (map[string]interface{}, error) {
	meta := map[string]interface{}{}
	switch delimiter {
	case "+++":
		if err := toml.Unmarshal([]byte(payload), &meta); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFrontmatter, err)
		}
	default:
		if err := yaml.Unmarshal([]byte(payload), &meta); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFrontmatter, err)
		}
	}
	if len(meta) == 0 {
		return nil, nil
	}
	return meta, nil
}
