package mdconverter

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rgonek/adfmd/converter"
)

var (
	userTokenRe   = regexp.MustCompile(`\{user:([^}]+)\}`)
	statusTokenRe = regexp.MustCompile(`\{status:([^}|]+)(?:\|color:([^}]+))?\}`)
	dateTokenRe   = regexp.MustCompile(`\{date:([^}]+)\}`)
	mediaTokenRe  = regexp.MustCompile(`\{media:([^}]+)\}`)
	emojiTokenRe  = regexp.MustCompile(`:[A-Za-z0-9_+\-]+:`)
)

type patternMatch struct {
	kind  string
	start int
	end   int
	value string
	extra string
}

// expandTextPatterns splits a text run into text nodes interleaved with the
// inline ADF nodes encoded by placeholder tokens: {user:...}, {status:...},
// {date:...}, {media:...} and emoji shortcodes. Marked text is left alone;
// placeholder tokens only occur in plain runs the forward direction emits.
func (s *state) expandTextPatterns(textValue string, marks []converter.Mark) []converter.Node {
	if textValue == "" {
		return nil
	}
	if len(marks) > 0 {
		return []converter.Node{converter.NewTextNode(textValue, marks)}
	}

	var content []converter.Node
	remaining := textValue

	for remaining != "" {
		match, ok := s.findNextPattern(remaining)
		if !ok {
			content = appendInlineNode(content, converter.NewTextNode(remaining, nil))
			break
		}

		if match.start > 0 {
			content = appendInlineNode(content, converter.NewTextNode(remaining[:match.start], nil))
		}

		switch match.kind {
		case "user":
			content = append(content, converter.Node{
				Type:  "mention",
				Attrs: map[string]interface{}{"id": strings.TrimSpace(match.value)},
			})

		case "status":
			color := strings.TrimSpace(match.extra)
			if !converter.StatusColors[color] {
				color = "neutral"
			}
			content = append(content, converter.Node{
				Type: "status",
				Attrs: map[string]interface{}{
					"text":  strings.TrimSpace(match.value),
					"color": color,
				},
			})

		case "date":
			node, ok := s.buildDateNode(match.value)
			if !ok {
				content = appendInlineNode(content, converter.NewTextNode(remaining[match.start:match.end], nil))
				break
			}
			content = append(content, node)

		case "media":
			content = append(content, converter.Node{
				Type: "media",
				Attrs: map[string]interface{}{
					"id":   strings.TrimSpace(match.value),
					"type": "file",
				},
			})

		case "emoji":
			content = append(content, converter.Node{
				Type:  "emoji",
				Attrs: map[string]interface{}{"shortName": match.value},
			})
		}

		remaining = remaining[match.end:]
	}

	return content
}

func (s *state) buildDateNode(value string) (converter.Node, bool) {
	layout := s.config.DateFormat
	parsed, err := time.Parse(layout, strings.TrimSpace(value))
	if err != nil && layout != "2006-01-02" {
		parsed, err = time.Parse("2006-01-02", strings.TrimSpace(value))
	}
	if err != nil {
		return converter.Node{}, false
	}
	return converter.Node{
		Type: "date",
		Attrs: map[string]interface{}{
			"timestamp": strconv.FormatInt(parsed.UTC().UnixMilli(), 10),
		},
	}, true
}

func (s *state) shouldDetectEmoji() bool {
	return s.config.EmojiDetection != EmojiDetectNone
}

// findNextPattern returns the earliest-starting match among all placeholder
// grammars; ties prefer the longer match.
func (s *state) findNextPattern(textValue string) (patternMatch, bool) {
	var candidates []patternMatch

	if match := userTokenRe.FindStringSubmatchIndex(textValue); match != nil {
		candidates = append(candidates, patternMatch{
			kind:  "user",
			start: match[0],
			end:   match[1],
			value: textValue[match[2]:match[3]],
		})
	}

	if match := statusTokenRe.FindStringSubmatchIndex(textValue); match != nil {
		candidate := patternMatch{
			kind:  "status",
			start: match[0],
			end:   match[1],
			value: textValue[match[2]:match[3]],
		}
		if match[4] >= 0 {
			candidate.extra = textValue[match[4]:match[5]]
		}
		candidates = append(candidates, candidate)
	}

	if match := dateTokenRe.FindStringSubmatchIndex(textValue); match != nil {
		candidates = append(candidates, patternMatch{
			kind:  "date",
			start: match[0],
			end:   match[1],
			value: textValue[match[2]:match[3]],
		})
	}

	if match := mediaTokenRe.FindStringSubmatchIndex(textValue); match != nil {
		candidates = append(candidates, patternMatch{
			kind:  "media",
			start: match[0],
			end:   match[1],
			value: textValue[match[2]:match[3]],
		})
	}

	if s.shouldDetectEmoji() {
		if loc := findEmojiShortcode(textValue); loc != nil {
			candidates = append(candidates, patternMatch{
				kind:  "emoji",
				start: loc[0],
				end:   loc[1],
				value: textValue[loc[0]:loc[1]],
			})
		}
	}

	if len(candidates) == 0 {
		return patternMatch{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return candidates[i].end > candidates[j].end
	})
	return candidates[0], true
}

// findEmojiShortcode returns the first shortcode match that stands alone.
// Colon-delimited runs glued to surrounding word characters or further
// colons are not emoji; times like 10:30:45 stay text.
func findEmojiShortcode(textValue string) []int {
	offset := 0
	for offset < len(textValue) {
		loc := emojiTokenRe.FindStringIndex(textValue[offset:])
		if loc == nil {
			return nil
		}
		start, end := offset+loc[0], offset+loc[1]
		if emojiStandsAlone(textValue, start, end) {
			return []int{start, end}
		}
		offset = start + 1
	}
	return nil
}

func emojiStandsAlone(textValue string, start, end int) bool {
	if start > 0 && isShortcodeNeighbor(textValue[start-1]) {
		return false
	}
	if end < len(textValue) && isShortcodeNeighbor(textValue[end]) {
		return false
	}
	return true
}

func isShortcodeNeighbor(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == ':':
		return true
	}
	return false
}

// appendInlineNode appends an inline node, merging adjacent text nodes that
// carry identical marks.
func appendInlineNode(content []converter.Node, next converter.Node) []converter.Node {
	if next.Type == "text" && next.Text == "" {
		return content
	}
	if len(content) > 0 && next.Type == "text" {
		last := &content[len(content)-1]
		if last.Type == "text" && marksEqual(last.Marks, next.Marks) {
			last.Text += next.Text
			return content
		}
	}
	return append(content, next)
}

func marksEqual(a, b []converter.Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type {
			return false
		}
		if len(a[i].Attrs) != len(b[i].Attrs) {
			return false
		}
		for key, value := range a[i].Attrs {
			if b[i].Attrs[key] != value {
				return false
			}
		}
	}
	return true
}
