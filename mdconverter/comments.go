package mdconverter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rgonek/adfmd/converter"
)

var (
	metadataCommentRe = regexp.MustCompile(`<!--\s*adf:([A-Za-z][A-Za-z0-9]*)((?:\s+[^>]*?)?)\s*-->`)
	metadataAttrsRe   = regexp.MustCompile(`attrs='([^']*)'`)
	metadataTypeRe    = regexp.MustCompile(`type="([^"]*)"`)
	closeCommentRe    = regexp.MustCompile(`^\s*<!--\s*/adf:([A-Za-z][A-Za-z0-9]*)\s*-->\s*$`)
)

// metadataComment is one decoded <!-- adf:... --> comment.
type metadataComment struct {
	Kind  string
	Type  string // type="..." payload of block-scoped open comments
	Attrs map[string]interface{}
}

// parseMetadataComment decodes a metadata comment from raw; ok is false when
// raw is not a metadata comment at all. Malformed attrs JSON is swallowed
// silently and yields an empty attribute map.
func parseMetadataComment(raw string) (metadataComment, bool) {
	match := metadataCommentRe.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return metadataComment{}, false
	}

	comment := metadataComment{Kind: match[1], Attrs: map[string]interface{}{}}
	payload := match[2]

	if attrsMatch := metadataAttrsRe.FindStringSubmatch(payload); attrsMatch != nil {
		var attrs map[string]interface{}
		if err := json.Unmarshal([]byte(attrsMatch[1]), &attrs); err == nil {
			comment.Attrs = attrs
		}
	}
	if typeMatch := metadataTypeRe.FindStringSubmatch(payload); typeMatch != nil {
		comment.Type = typeMatch[1]
	}
	return comment, true
}

// isMetadataCloseComment reports whether the line closes a block-scoped pair.
func isMetadataCloseComment(line, kind string) bool {
	match := closeCommentRe.FindStringSubmatch(line)
	return match != nil && match[1] == kind
}

// unknownBlockStash holds ADF nodes recovered from adf:unknown blocks before
// the markdown parser runs, keyed by their substitute reference comment.
type unknownBlockStash struct {
	nodes []converter.Node
}

func (s *unknownBlockStash) resolve(ref int) (converter.Node, bool) {
	if ref < 0 || ref >= len(s.nodes) {
		return converter.Node{}, false
	}
	return s.nodes[ref], true
}

var unknownRefRe = regexp.MustCompile(`^<!-- adf:unknownref id=(\d+) -->$`)

// extractUnknownBlocks replaces each lossless preservation block
//
//	<!-- adf:unknown type="T" -->
//	{ ...JSON... }
//	<!-- /adf:unknown -->
//
// with a single-line reference comment, returning the rewritten source and
// the stash of decoded nodes. The raw JSON payload must not reach the
// markdown parser: its indented lines would be misread as code blocks.
// Blocks whose JSON fails to decode are left in place as ordinary text.
func extractUnknownBlocks(source string) (string, *unknownBlockStash) {
	stash := &unknownBlockStash{}
	lines := strings.Split(source, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		comment, ok := parseMetadataComment(lines[i])
		if !ok || comment.Kind != "unknown" {
			out = append(out, lines[i])
			continue
		}

		end := -1
		for j := i + 1; j < len(lines); j++ {
			if isMetadataCloseComment(lines[j], "unknown") {
				end = j
				break
			}
		}
		if end < 0 {
			out = append(out, lines[i])
			continue
		}

		payload := strings.Join(lines[i+1:end], "\n")
		var node converter.Node
		if err := json.Unmarshal([]byte(payload), &node); err != nil || node.Type == "" {
			out = append(out, lines[i])
			continue
		}
		if node.Type != comment.Type && comment.Type != "" {
			node.Type = comment.Type
		}

		out = append(out, fmt.Sprintf("<!-- adf:unknownref id=%d -->", len(stash.nodes)))
		stash.nodes = append(stash.nodes, node)
		i = end
	}

	return strings.Join(out, "\n"), stash
}

// parseUnknownRef decodes a substitute reference comment.
func parseUnknownRef(line string) (int, bool) {
	match := unknownRefRe.FindStringSubmatch(strings.TrimSpace(line))
	if match == nil {
		return 0, false
	}
	var ref int
	fmt.Sscanf(match[1], "%d", &ref)
	return ref, true
}

// mergeCommentIntoNode merges a pending standalone comment into the block
// node that follows it, when the comment kind matches the node type (the
// taskList comment also matches its list). Returns true when consumed;
// orphaned comments are dropped silently by the caller.
func mergeCommentIntoNode(comment metadataComment, node *converter.Node) bool {
	if node == nil || len(comment.Attrs) == 0 {
		return false
	}
	if comment.Kind != node.Type {
		return false
	}
	if node.Attrs == nil {
		node.Attrs = map[string]interface{}{}
	}
	for key, value := range comment.Attrs {
		node.Attrs[key] = value
	}
	return true
}
