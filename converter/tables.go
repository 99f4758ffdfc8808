package converter

import (
	"fmt"
	"strings"
)

// convertTable renders a GFM pipe table. The first row renders as the header
// followed by a separator row; when the document has no header row an empty
// header is synthesized. Table attrs are preserved as a standalone metadata
// comment preceding the table.
func convertTable(node Node, ctx Context) (string, error) {
	var rows [][]string
	hasHeader := false

	for i, rowNode := range node.Content {
		if rowNode.Type != "tableRow" {
			if ctx.Config.Strict {
				return "", fmt.Errorf("table expects tableRow child, got %s", rowNode.Type)
			}
			continue
		}

		var row []string
		for _, cellNode := range rowNode.Content {
			if i == 0 && cellNode.Type == "tableHeader" {
				hasHeader = true
			}
			cell, err := convertCellContent(cellNode, ctx)
			if err != nil {
				return "", err
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return "", nil
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	var header []string
	var dataRows [][]string
	if hasHeader {
		header = rows[0]
		dataRows = rows[1:]
	} else {
		header = make([]string, colCount)
		dataRows = rows
	}

	var sb strings.Builder
	if comment := MetadataComment("table", node.Attrs); comment != "" {
		sb.WriteString(comment)
		sb.WriteString("\n")
	}

	writeRow := func(row []string) {
		sb.WriteString("|")
		for i := 0; i < colCount; i++ {
			sb.WriteString(" ")
			if i < len(row) {
				sb.WriteString(row[i])
			}
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	sb.WriteString("|")
	for i := 0; i < colCount; i++ {
		sb.WriteString(" -------- |")
	}
	sb.WriteString("\n")
	for _, row := range dataRows {
		writeRow(row)
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

// convertTableRow handles a row reached outside a table (degenerate input).
func convertTableRow(node Node, ctx Context) (string, error) {
	var cells []string
	for _, cell := range node.Content {
		content, err := convertCellContent(cell, ctx)
		if err != nil {
			return "", err
		}
		cells = append(cells, content)
	}
	return "| " + strings.Join(cells, " | ") + " |", nil
}

// convertTableCell renders a cell for registry dispatch.
func convertTableCell(node Node, ctx Context) (string, error) {
	return convertCellContent(node, ctx)
}

// convertCellContent flattens cell blocks into a single pipe-safe line. A
// colspan > 1 is approximated with an inline annotation comment rather than
// duplicated cells; this is a known non-bit-exact behavior.
func convertCellContent(node Node, ctx Context) (string, error) {
	content, err := ctx.ConvertBlocks(node.Content)
	if err != nil {
		return "", err
	}

	content = strings.ReplaceAll(content, "\n\n", " ")
	content = strings.ReplaceAll(content, "\n", " ")

	if colspan := node.GetIntAttr("colspan", 1); colspan > 1 {
		annotation := MetadataComment("cell", map[string]interface{}{"colspan": colspan})
		if content == "" {
			content = annotation
		} else {
			content += " " + annotation
		}
	}
	return content, nil
}
