package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/rs/zerolog/log"

	"github.com/afumu/prodsum/internal/model"
)

// ExportDOCX 把报表导出为 Word 文档，一张表一个章节。
// 面向打印/归档场景，行内容以制表文本呈现。
func (s *Service) ExportDOCX(title string, tables []model.Table) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("创建DOCX文档失败: %w", err)
	}
	defer doc.Close()

	doc.AddHeading(title, 1)
	doc.AddEmptyParagraph()

	for _, table := range tables {
		doc.AddHeading(table.Name, 2)

		doc.AddParagraph(strings.Join(table.ColumnNames(), " | "))
		for _, row := range table.Rows {
			cells := make([]string, len(row))
			for j, val := range row {
				cells[j] = cellString(val, table.Columns[j].Kind)
			}
			doc.AddParagraph(strings.Join(cells, " | "))
		}
		if table.Empty() {
			doc.AddParagraph("(无数据)")
		}
		doc.AddEmptyParagraph()
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("写入DOCX失败: %w", err)
	}

	log.Info().Int("tables", len(tables)).Msg("ExportDOCX 完成")
	return buf.Bytes(), nil
}
