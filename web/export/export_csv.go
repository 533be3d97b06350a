package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/afumu/prodsum/internal/model"
)

// ExportTableCSV 导出单张表为 CSV。
// 开头写入 UTF-8 BOM，确保 Excel 正确识别编码。
func (s *Service) ExportTableCSV(table model.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)

	if err := w.Write(table.ColumnNames()); err != nil {
		return nil, fmt.Errorf("写入CSV表头失败: %w", err)
	}

	for _, row := range table.Rows {
		record := make([]string, len(row))
		for j, val := range row {
			record[j] = cellString(val, table.Columns[j].Kind)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("写入CSV数据失败: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV写入错误: %w", err)
	}

	log.Info().Str("table", table.Name).Int("rows", len(table.Rows)).Msg("ExportCSV 完成")
	return buf.Bytes(), nil
}

// ExportZIP 把全部报表打包成一个 ZIP，每张表一个 CSV 文件。
func (s *Service) ExportZIP(tables []model.Table) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, table := range tables {
		data, err := s.ExportTableCSV(table)
		if err != nil {
			return nil, err
		}
		name := strings.ReplaceAll(sanitizeSheetName(table.Name), " ", "_") + ".csv"
		f, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("创建ZIP条目 %s 失败: %w", name, err)
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("写入ZIP条目 %s 失败: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("关闭ZIP失败: %w", err)
	}
	return buf.Bytes(), nil
}
