package mdconverter

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rgonek/adfmd/converter"
)

var inlineLinkRe = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+)(?:\s+"([^"]*)")?\)`)

// inlineSpan is one matched inline construct: a delimited formatting span, a
// link or image, or a line break.
type inlineSpan struct {
	kind        string
	start, end  int
	inner       string
	dest, title string
}

// inlineDelimiters in match-priority order. Longer delimiters are listed
// before their prefixes so ** is never misread as two em markers.
var inlineDelimiters = []struct {
	delim string
	kind  string
}{
	{"`", "code"},
	{"***", "strongem"},
	{"**", "strong"},
	{"__", "underline"},
	{"~~", "strike"},
	{"*", "em"},
}

// parseInline is the inline pass for tokenizer-built blocks: links first via
// a dedicated matcher, then the earliest-starting shortest span among code,
// strong, underline, strike and em. Nested formatting recurses except inside
// inline code, whose content is verbatim. Metadata comments and placeholder
// tokens survive as text for the post-processing pass.
func (s *state) parseInline(textValue string) []converter.Node {
	return s.parseInlineMarked(textValue, nil)
}

func (s *state) parseInlineMarked(textValue string, marks []converter.Mark) []converter.Node {
	var out []converter.Node
	remaining := textValue

	for remaining != "" {
		span, ok := findInlineSpan(remaining)
		if !ok {
			out = appendInlineNode(out, converter.NewTextNode(remaining, copyMarks(marks)))
			break
		}
		if span.start > 0 {
			out = appendInlineNode(out, converter.NewTextNode(remaining[:span.start], copyMarks(marks)))
		}

		switch span.kind {
		case "hardbreak":
			out = append(out, converter.Node{Type: "hardBreak"})

		case "softbreak":
			out = appendInlineNode(out, converter.NewTextNode(" ", copyMarks(marks)))

		case "code":
			out = appendInlineNode(out, converter.NewTextNode(span.inner,
				append(copyMarks(marks), converter.Mark{Type: "code"})))

		case "link":
			for _, node := range s.parseInlineLink(span, marks) {
				out = appendInlineNode(out, node)
			}

		case "html":
			inner := marks
			if mark, ok := markForHTMLTag(span.dest, span.title); ok {
				inner = append(copyMarks(marks), mark)
			}
			for _, node := range s.parseInlineMarked(span.inner, inner) {
				out = appendInlineNode(out, node)
			}

		case "image":
			for _, node := range s.parseInlineImage(span, marks) {
				out = appendInlineNode(out, node)
			}

		case "strongem":
			inner := append(copyMarks(marks),
				converter.Mark{Type: "strong"}, converter.Mark{Type: "em"})
			for _, node := range s.parseInlineMarked(span.inner, inner) {
				out = appendInlineNode(out, node)
			}

		default:
			mark := converter.Mark{Type: span.kind}
			for _, node := range s.parseInlineMarked(span.inner, append(copyMarks(marks), mark)) {
				out = appendInlineNode(out, node)
			}
		}

		remaining = remaining[span.end:]
	}
	return out
}

func (s *state) parseInlineLink(span inlineSpan, marks []converter.Mark) []converter.Node {
	if strings.HasPrefix(span.dest, cardURLPrefix) {
		cardURL, err := url.QueryUnescape(strings.TrimPrefix(span.dest, cardURLPrefix))
		if err != nil {
			s.addWarning(converter.WarningInvalidInput, "inlineCard", "malformed card URL: "+span.dest)
			cardURL = strings.TrimPrefix(span.dest, cardURLPrefix)
		}
		return []converter.Node{{
			Type:  "inlineCard",
			Attrs: map[string]interface{}{"url": cardURL},
		}}
	}

	mark := converter.Mark{Type: "link", Attrs: map[string]interface{}{"href": span.dest}}
	if span.title != "" {
		mark.Attrs["title"] = span.title
	}
	return s.parseInlineMarked(span.inner, append(copyMarks(marks), mark))
}

func (s *state) parseInlineImage(span inlineSpan, marks []converter.Mark) []converter.Node {
	if strings.HasPrefix(span.dest, mediaURLPrefix) {
		attrs := map[string]interface{}{
			"id":   strings.TrimPrefix(span.dest, mediaURLPrefix),
			"type": "file",
		}
		// "Media" is the fixed placeholder the forward direction writes;
		// anything else is author-supplied alt text worth keeping.
		if span.inner != "" && span.inner != "Media" {
			attrs["alt"] = span.inner
		}
		return []converter.Node{{Type: "media", Attrs: attrs}}
	}

	s.addWarning(converter.WarningUnknownNode, "image", "external image has no ADF equivalent: "+span.dest)
	if span.inner == "" {
		return nil
	}
	return []converter.Node{converter.NewTextNode(span.inner, copyMarks(marks))}
}

// findInlineSpan returns the earliest-starting inline construct; ties break
// toward the shortest span, with links winning over formatting at the same
// offset.
func findInlineSpan(textValue string) (inlineSpan, bool) {
	var candidates []inlineSpan

	if match := inlineLinkRe.FindStringSubmatchIndex(textValue); match != nil {
		span := inlineSpan{
			kind:  "link",
			start: match[0],
			end:   match[1],
			inner: textValue[match[4]:match[5]],
			dest:  textValue[match[6]:match[7]],
		}
		if textValue[match[2]:match[3]] == "!" {
			span.kind = "image"
		}
		if match[8] >= 0 {
			span.title = textValue[match[8]:match[9]]
		}
		candidates = append(candidates, span)
	}

	for _, d := range inlineDelimiters {
		if span, ok := findDelimiterSpan(textValue, d.delim, d.kind); ok {
			candidates = append(candidates, span)
		}
	}

	if span, ok := findHTMLSpan(textValue); ok {
		candidates = append(candidates, span)
	}

	if idx := strings.Index(textValue, "\\\n"); idx >= 0 {
		candidates = append(candidates, inlineSpan{kind: "hardbreak", start: idx, end: idx + 2})
	}
	if idx := strings.Index(textValue, "\n"); idx >= 0 && (idx == 0 || textValue[idx-1] != '\\') {
		candidates = append(candidates, inlineSpan{kind: "softbreak", start: idx, end: idx + 1})
	}

	if len(candidates) == 0 {
		return inlineSpan{}, false
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.start < best.start {
			best = candidate
			continue
		}
		if candidate.start == best.start {
			if best.kind == "link" || best.kind == "image" {
				continue
			}
			if candidate.kind == "link" || candidate.kind == "image" || candidate.end < best.end {
				best = candidate
			}
		}
	}
	return best, true
}

// findDelimiterSpan locates the first non-empty delimited span. Openings of
// * that actually start a ** run are skipped so em never swallows strong.
func findDelimiterSpan(textValue, delim, kind string) (inlineSpan, bool) {
	offset := 0
	for offset < len(textValue) {
		rel := strings.Index(textValue[offset:], delim)
		if rel < 0 {
			return inlineSpan{}, false
		}
		open := offset + rel
		contentStart := open + len(delim)

		if delim == "*" && strings.HasPrefix(textValue[open:], "**") {
			offset = open + 2
			continue
		}
		if delim == "**" && strings.HasPrefix(textValue[open:], "***") {
			offset = open + 3
			continue
		}

		rel = strings.Index(textValue[contentStart:], delim)
		if rel < 0 {
			return inlineSpan{}, false
		}
		if rel == 0 {
			offset = contentStart + len(delim)
			continue
		}

		return inlineSpan{
			kind:  kind,
			start: open,
			end:   contentStart + rel + len(delim),
			inner: textValue[contentStart : contentStart+rel],
		}, true
	}
	return inlineSpan{}, false
}

var (
	htmlOpenRe  = regexp.MustCompile(`<(u|sub|sup|span|mark)(\s[^>]*)?>`)
	htmlBreakRe = regexp.MustCompile(`<br\s*/?>`)
)

// findHTMLSpan matches the paired mark-wrapper tags and <br> the forward
// direction emits for marks with no markdown syntax.
func findHTMLSpan(textValue string) (inlineSpan, bool) {
	var best inlineSpan
	found := false

	if match := htmlOpenRe.FindStringSubmatchIndex(textValue); match != nil {
		tag := textValue[match[2]:match[3]]
		closing := "</" + tag + ">"
		if rel := strings.Index(textValue[match[1]:], closing); rel >= 0 {
			span := inlineSpan{
				kind:  "html",
				start: match[0],
				end:   match[1] + rel + len(closing),
				inner: textValue[match[1] : match[1]+rel],
				dest:  tag,
			}
			if match[4] >= 0 {
				span.title = textValue[match[4]:match[5]]
			}
			best = span
			found = true
		}
	}

	if loc := htmlBreakRe.FindStringIndex(textValue); loc != nil {
		if !found || loc[0] < best.start {
			best = inlineSpan{kind: "hardbreak", start: loc[0], end: loc[1]}
			found = true
		}
	}
	return best, found
}

// markForHTMLTag maps a wrapper tag and its raw attribute string to the ADF
// mark it encodes. Tags without the expected style carry no mark; their
// content passes through unchanged.
func markForHTMLTag(tag, attrString string) (converter.Mark, bool) {
	switch tag {
	case "u":
		return converter.Mark{Type: "underline"}, true
	case "sub":
		return converter.Mark{Type: "subsup", Attrs: map[string]interface{}{"type": "sub"}}, true
	case "sup":
		return converter.Mark{Type: "subsup", Attrs: map[string]interface{}{"type": "sup"}}, true
	case "span":
		if color := styleProperty(htmlStyleAttr(attrString), "color"); color != "" {
			return converter.Mark{Type: "textColor", Attrs: map[string]interface{}{"color": color}}, true
		}
	case "mark":
		if color := styleProperty(htmlStyleAttr(attrString), "background-color"); color != "" {
			return converter.Mark{Type: "backgroundColor", Attrs: map[string]interface{}{"color": color}}, true
		}
	}
	return converter.Mark{}, false
}

var htmlStyleRe = regexp.MustCompile(`style\s*=\s*"([^"]*)"`)

func htmlStyleAttr(attrString string) string {
	if match := htmlStyleRe.FindStringSubmatch(attrString); match != nil {
		return match[1]
	}
	return ""
}

func copyMarks(marks []converter.Mark) []converter.Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]converter.Mark, len(marks))
	copy(out, marks)
	return out
}
