package mdconverter

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	adfFenceOpenRe  = regexp.MustCompile(`^(~{3,})(\w+)(?:\s+(.*))?$`)
	codeFenceOpenRe = regexp.MustCompile("^(```+)(.*)$")
	headingRe       = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletItemRe    = regexp.MustCompile(`^[-*+]\s+(.*)$`)
	orderedItemRe   = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
	taskBoxRe       = regexp.MustCompile(`^\[( |x|X)\]\s+(.*)$`)
	blockquoteRe    = regexp.MustCompile(`^\s{0,3}>\s?(.*)$`)
	ruleRe          = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})\s*$`)
	tableLineRe     = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	tableSepRe      = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?\s*$`)
	commentLineRe   = regexp.MustCompile(`^<!--.*-->\s*$`)
)

// tokenize is the line-based block tokenizer. Recognition order per line:
// ADF fence, code fence, heading, table, list, blockquote, rule (or
// frontmatter at the top of the input), standalone comment, paragraph.
// Nested block content is re-tokenized at depth+1 up to maxDepth; past the
// limit nested structure flattens into paragraph text. The shared budget
// truncates the stream on pathological input.
func tokenize(source string, maxDepth, depth int, budget *tokenBudget) []token {
	lines := strings.Split(source, "\n")
	offsets := lineOffsets(lines)
	var tokens []token

	emit := func(tok token) {
		markPosition(&tok, lines, offsets)
		tokens = append(tokens, tok)
	}

	i := 0
	for i < len(lines) {
		if !budget.step() || !budget.emit() {
			return tokens
		}

		line := lines[i]
		trimmed := strings.TrimRight(line, " \t")

		if trimmed == "" {
			i++
			budget.tokens++
			continue
		}

		if match := adfFenceOpenRe.FindStringSubmatch(trimmed); match != nil {
			tok, next := scanFence(lines, i, match[1])
			tok.Type = tokenADFFence
			tok.FenceType = match[2]
			tok.AttrString = match[3]
			emit(tok)
			i = next
			continue
		}

		if match := codeFenceOpenRe.FindStringSubmatch(trimmed); match != nil {
			tok, next := scanFence(lines, i, match[1])
			tok.Type = tokenCodeBlock
			tok.Language, _, _ = strings.Cut(strings.TrimSpace(match[2]), " ")
			emit(tok)
			i = next
			continue
		}

		if match := headingRe.FindStringSubmatch(trimmed); match != nil {
			emit(token{
				Type:  tokenHeading,
				Line:  i,
				Level: len(match[1]),
				Raw:   match[2],
			})
			i++
			continue
		}

		if tableLineRe.MatchString(trimmed) && i+1 < len(lines) && tableSepRe.MatchString(lines[i+1]) {
			tok, next := scanTable(lines, offsets, i, budget)
			emit(tok)
			i = next
			continue
		}

		if bulletItemRe.MatchString(trimmed) || orderedItemRe.MatchString(trimmed) {
			tok, next := scanList(lines, offsets, i, maxDepth, depth, budget)
			emit(tok)
			i = next
			continue
		}

		if blockquoteRe.MatchString(line) {
			tok, next := scanBlockquote(lines, i, maxDepth, depth, budget)
			emit(tok)
			i = next
			continue
		}

		if ruleRe.MatchString(trimmed) {
			if trimmed == "---" && i == 0 {
				if tok, next, ok := scanFrontmatter(lines, i); ok {
					emit(tok)
					i = next
					continue
				}
			}
			emit(token{Type: tokenRule, Line: i})
			i++
			continue
		}

		if commentLineRe.MatchString(trimmed) {
			emit(token{Type: tokenComment, Line: i, Raw: trimmed})
			i++
			continue
		}

		tok, next := scanParagraph(lines, i)
		emit(tok)
		i = next
	}

	return tokens
}

// lineOffsets returns the byte offset of each line start within the joined
// source.
func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	off := 0
	for i, line := range lines {
		offsets[i] = off
		off += len(line) + 1
	}
	return offsets
}

// markPosition fills the column and byte offset of a token from the line it
// starts on; the column skips leading indentation.
func markPosition(tok *token, lines []string, offsets []int) {
	if tok.Line < 0 || tok.Line >= len(lines) {
		return
	}
	line := lines[tok.Line]
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	tok.Column = indent + 1
	tok.Offset = offsets[tok.Line] + indent
}

// scanFence collects fence body lines until the closing delimiter. A shorter
// run of the fence character belongs to a nested fence and stays in the body.
// An unterminated fence runs to end of input.
func scanFence(lines []string, start int, delimiter string) (token, int) {
	var body []string
	i := start + 1
	for ; i < len(lines); i++ {
		if closesFence(strings.TrimRight(lines[i], " \t"), delimiter) {
			i++
			break
		}
		body = append(body, lines[i])
	}
	return token{Line: start, Raw: strings.Join(body, "\n")}, i
}

// closesFence reports whether line is a closing delimiter for the opening
// run: only the fence character, at least as many of them.
func closesFence(line, delimiter string) bool {
	if len(line) < len(delimiter) {
		return false
	}
	return strings.Trim(line, delimiter[:1]) == ""
}

// scanTable consumes a header row, the separator row (used only for column
// alignments) and data rows until a non-table line.
func scanTable(lines []string, offsets []int, start int, budget *tokenBudget) (token, int) {
	tok := token{Type: tokenTable, Line: start}

	header := token{Type: tokenTableRow, Line: start, Header: true, Cells: splitTableRow(lines[start])}
	markPosition(&header, lines, offsets)
	tok.Alignments = parseTableAlignments(lines[start+1], len(header.Cells))
	tok.Children = append(tok.Children, header)

	i := start + 2
	for ; i < len(lines); i++ {
		if !budget.step() || !budget.emit() {
			break
		}
		trimmed := strings.TrimRight(lines[i], " \t")
		if !tableLineRe.MatchString(trimmed) {
			break
		}
		row := token{
			Type:  tokenTableRow,
			Line:  i,
			Cells: splitTableRow(trimmed),
		}
		markPosition(&row, lines, offsets)
		tok.Children = append(tok.Children, row)
	}
	return tok, i
}

func splitTableRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}

func parseTableAlignments(separator string, columns int) []string {
	cells := splitTableRow(separator)
	alignments := make([]string, columns)
	for i := 0; i < columns && i < len(cells); i++ {
		cell := cells[i]
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		switch {
		case left && right:
			alignments[i] = "center"
		case right:
			alignments[i] = "right"
		case left:
			alignments[i] = "left"
		}
	}
	return alignments
}

// scanList collects items of one list. Continuation lines are 2-space
// indented; items with nested blocks are re-tokenized at depth+1 unless the
// depth limit keeps them flat.
func scanList(lines []string, offsets []int, start int, maxDepth, depth int, budget *tokenBudget) (token, int) {
	first := strings.TrimRight(lines[start], " \t")
	tok := token{Type: tokenBulletList, Line: start}
	if match := orderedItemRe.FindStringSubmatch(first); match != nil {
		tok.Type = tokenOrderedList
		tok.Start, _ = strconv.Atoi(match[1])
	}

	i := start
	for i < len(lines) {
		if !budget.step() || !budget.emit() {
			break
		}
		line := strings.TrimRight(lines[i], " \t")

		var body string
		if tok.Type == tokenOrderedList {
			match := orderedItemRe.FindStringSubmatch(line)
			if match == nil {
				break
			}
			body = match[2]
		} else {
			match := bulletItemRe.FindStringSubmatch(line)
			if match == nil {
				break
			}
			body = match[1]
		}

		item := token{Type: tokenListItem, Line: i}
		markPosition(&item, lines, offsets)
		if match := taskBoxRe.FindStringSubmatch(body); match != nil {
			item.TaskState = "TODO"
			if match[1] != " " {
				item.TaskState = "DONE"
			}
			body = match[2]
		}

		continuation := []string{body}
		i++
		for i < len(lines) {
			next := lines[i]
			if strings.TrimSpace(next) == "" {
				// A blank line ends the item unless indented content follows.
				if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "  ") && strings.TrimSpace(lines[i+1]) != "" {
					continuation = append(continuation, "")
					i++
					continue
				}
				break
			}
			if !strings.HasPrefix(next, "  ") {
				break
			}
			continuation = append(continuation, strings.TrimPrefix(next, "  "))
			i++
		}

		itemBody := strings.Join(continuation, "\n")
		if len(continuation) > 1 && depth < maxDepth {
			item.Children = tokenize(itemBody, maxDepth, depth+1, budget)
		} else {
			item.Raw = strings.ReplaceAll(itemBody, "\n", " ")
		}
		tok.Children = append(tok.Children, item)

		// Skip the blank separator between loose list items.
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			if i+1 < len(lines) && (bulletItemRe.MatchString(strings.TrimRight(lines[i+1], " \t")) ||
				orderedItemRe.MatchString(strings.TrimRight(lines[i+1], " \t"))) {
				i++
			} else {
				break
			}
		}
	}
	return tok, i
}

// scanBlockquote strips the > prefix from consecutive quoted lines and
// re-tokenizes the remainder at depth+1.
func scanBlockquote(lines []string, start int, maxDepth, depth int, budget *tokenBudget) (token, int) {
	var body []string
	i := start
	for ; i < len(lines); i++ {
		match := blockquoteRe.FindStringSubmatch(lines[i])
		if match == nil {
			break
		}
		body = append(body, match[1])
	}

	tok := token{Type: tokenBlockquote, Line: start}
	inner := strings.Join(body, "\n")
	if depth < maxDepth {
		tok.Children = tokenize(inner, maxDepth, depth+1, budget)
	} else {
		tok.Children = []token{{Type: tokenParagraph, Line: start, Raw: strings.ReplaceAll(inner, "\n", " ")}}
	}
	return tok, i
}

// scanFrontmatter classifies a leading --- as frontmatter when another ---
// closes it within the lookahead window; otherwise the caller emits a rule.
func scanFrontmatter(lines []string, start int) (token, int, bool) {
	limit := start + 1 + frontmatterWindow
	if limit > len(lines) {
		limit = len(lines)
	}
	for i := start + 1; i < limit; i++ {
		if strings.TrimRight(lines[i], " \t") == "---" {
			return token{
				Type: tokenFrontmatter,
				Line: start,
				Raw:  strings.Join(lines[start+1:i], "\n"),
			}, i + 1, true
		}
	}
	return token{}, 0, false
}

// scanParagraph accumulates lines until a blank line or the start of any
// other recognized block.
func scanParagraph(lines []string, start int) (token, int) {
	var body []string
	i := start
	for ; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], " \t")
		if strings.TrimSpace(lines[i]) == "" {
			break
		}
		if i > start && startsBlock(lines, i) {
			break
		}
		if strings.HasSuffix(lines[i], "\\") {
			// Preserve the hard break marker through the line join.
			body = append(body, lines[i])
			continue
		}
		body = append(body, trimmed)
	}
	return token{Type: tokenParagraph, Line: start, Raw: strings.Join(body, "\n")}, i
}

func startsBlock(lines []string, i int) bool {
	trimmed := strings.TrimRight(lines[i], " \t")
	switch {
	case adfFenceOpenRe.MatchString(trimmed),
		codeFenceOpenRe.MatchString(trimmed),
		headingRe.MatchString(trimmed),
		bulletItemRe.MatchString(trimmed),
		orderedItemRe.MatchString(trimmed),
		blockquoteRe.MatchString(lines[i]),
		ruleRe.MatchString(trimmed),
		commentLineRe.MatchString(trimmed):
		return true
	case tableLineRe.MatchString(trimmed) && i+1 < len(lines) && tableSepRe.MatchString(lines[i+1]):
		return true
	}
	return false
}
