package mdconverter

import (
	"github.com/rgonek/adfmd/converter"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// convertTableNode rebuilds a table from a GFM pipe table. The header row
// becomes tableHeader cells, body rows tableCell cells. Cell contents are
// single paragraphs; colspan annotations come back through adf:cell comments
// resolved during inline post-processing.
func (s *state) convertTableNode(table *extast.Table) (converter.Node, bool, error) {
	tableNode := converter.Node{Type: "table"}

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		cellType := "tableCell"
		if _, ok := row.(*extast.TableHeader); ok {
			cellType = "tableHeader"
		}

		rowNode := converter.Node{Type: "tableRow"}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cellNode, err := s.convertTableCell(cell, cellType)
			if err != nil {
				return converter.Node{}, false, err
			}
			rowNode.Content = append(rowNode.Content, cellNode)
		}
		tableNode.Content = append(tableNode.Content, rowNode)
	}
	return tableNode, true, nil
}

func (s *state) convertTableCell(cell ast.Node, cellType string) (converter.Node, error) {
	inline, err := s.convertInlineChildren(cell, newMarkStack())
	if err != nil {
		return converter.Node{}, err
	}

	cellNode := converter.Node{Type: cellType}
	content := s.finishInline(inline, &cellNode)

	paragraph := converter.Node{Type: "paragraph"}
	if len(content) > 0 {
		paragraph.Content = content
	}
	cellNode.Content = []converter.Node{paragraph}
	return cellNode, nil
}
