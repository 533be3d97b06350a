package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/afumu/prodsum/internal/model"
)

// ExportXLSX 把一组报表写成一个多工作表的 XLSX 工作簿。
// 每张表一个工作表：首行是合并的黄色标题，第二行红底白字表头，
// 数据区按列的语义类型套用数字格式，列宽按内容自适应。
func (s *Service) ExportXLSX(tables []model.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}},
	})
	if err != nil {
		return nil, fmt.Errorf("创建标题样式失败: %w", err)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FF0000"}},
	})

	styles := map[model.ColumnKind]int{}
	for kind, format := range map[model.ColumnKind]string{
		model.KindDate:     "yyyy-mm-dd",
		model.KindCurrency: "#,##0",
		model.KindDuration: "hh:mm:ss",
		model.KindCount:    "#,##0",
		model.KindCountAvg: "#,##0",
		model.KindFloatAvg: "#,##0.00",
	} {
		fmtCopy := format
		id, err := f.NewStyle(&excelize.Style{
			CustomNumFmt: &fmtCopy,
			Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:       cellBorder(),
		})
		if err != nil {
			return nil, fmt.Errorf("创建单元格样式失败: %w", err)
		}
		styles[kind] = id
	}
	textStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder(),
	})

	for i, table := range tables {
		sheet := sanitizeSheetName(table.Name)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("创建工作表 %s 失败: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, table, titleStyle, headerStyle, textStyle, styles); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("写入XLSX失败: %w", err)
	}
	log.Info().Int("tables", len(tables)).Msg("ExportXLSX 完成")
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, table model.Table,
	titleStyle, headerStyle, textStyle int, styles map[model.ColumnKind]int) error {

	cols := len(table.Columns)
	if cols == 0 {
		return nil
	}

	// 标题行：跨全部列合并
	lastCol, _ := excelize.ColumnNumberToName(cols)
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("合并标题行失败: %w", err)
	}
	f.SetCellValue(sheet, "A1", table.Name)
	f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle)

	// 表头行
	for j, col := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(j+1, 2)
		f.SetCellValue(sheet, cell, col.Name)
	}
	f.SetCellStyle(sheet, "A2", lastCol+"2", headerStyle)

	// 数据区
	widths := make([]int, cols)
	for j, col := range table.Columns {
		widths[j] = len(col.Name)
	}
	for i, row := range table.Rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+3)
			kind := table.Columns[j].Kind

			switch v := val.(type) {
			case time.Time:
				f.SetCellValue(sheet, cell, v.Format("2006-01-02"))
			default:
				f.SetCellValue(sheet, cell, v)
			}

			style, ok := styles[kind]
			if !ok {
				style = textStyle
			}
			// 汇总表的 DATE 列是日期范围文本，不能套日期格式
			if kind == model.KindDate {
				if _, isTime := val.(time.Time); !isTime {
					style = textStyle
				}
			}
			f.SetCellStyle(sheet, cell, cell, style)

			if w := len(cellString(val, kind)); w > widths[j] {
				widths[j] = w
			}
		}
	}

	for j := range table.Columns {
		name, _ := excelize.ColumnNumberToName(j + 1)
		f.SetColWidth(sheet, name, name, float64(widths[j]+2))
	}
	return nil
}

func cellBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
}
