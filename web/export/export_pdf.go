package export

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/signintech/gopdf"

	"github.com/afumu/prodsum/internal/model"
)

const (
	pdfPageWidth  = 841.89 // A4 横向，报表列多
	pdfPageHeight = 595.28
	pdfMarginLeft = 40.0
	pdfMarginTop  = 50.0
	pdfMarginBot  = 50.0
	pdfLineHeight = 16.0
	pdfFontSize   = 8.0
	pdfTitleSize  = 14.0
	pdfHeadSize   = 10.0
)

// reportFontPath 返回当前系统上可用的字体路径。
func reportFontPath() string {
	var candidates []string

	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/System/Library/Fonts/Supplemental/Arial.ttf",
			"/Library/Fonts/Arial Unicode.ttf",
			"/System/Library/Fonts/PingFang.ttc",
		}
	case "windows":
		candidates = []string{
			"C:\\Windows\\Fonts\\arial.ttf",
			"C:\\Windows\\Fonts\\calibri.ttf",
			"C:\\Windows\\Fonts\\msyh.ttc",
		}
	default: // linux
		candidates = []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf",
		}
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	// 返回第一个候选，字体缺失时由 gopdf 给出明确错误
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

// ExportPDF 把报表导出为横向 A4 的 PDF，一张表一段。
func (s *Service) ExportPDF(title string, tables []model.Table) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: pdfPageWidth, H: pdfPageHeight}})

	fontPath := reportFontPath()
	if err := pdf.AddTTFFont("report", fontPath); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", fontPath, err)
	}

	pdf.AddPage()
	y := pdfMarginTop

	newPage := func() {
		pdf.AddPage()
		y = pdfMarginTop
	}
	writeLine := func(text string, size float64) error {
		if y > pdfPageHeight-pdfMarginBot {
			newPage()
		}
		if err := pdf.SetFont("report", "", size); err != nil {
			return err
		}
		pdf.SetXY(pdfMarginLeft, y)
		if err := pdf.Cell(nil, text); err != nil {
			return err
		}
		y += pdfLineHeight
		return nil
	}

	if err := writeLine(title, pdfTitleSize); err != nil {
		return nil, fmt.Errorf("写入PDF标题失败: %w", err)
	}
	y += pdfLineHeight / 2

	for _, table := range tables {
		if err := writeLine(table.Name, pdfHeadSize); err != nil {
			return nil, fmt.Errorf("写入PDF失败: %w", err)
		}
		if err := writeLine(strings.Join(table.ColumnNames(), " | "), pdfFontSize); err != nil {
			return nil, fmt.Errorf("写入PDF失败: %w", err)
		}
		for _, row := range table.Rows {
			cells := make([]string, len(row))
			for j, val := range row {
				cells[j] = cellString(val, table.Columns[j].Kind)
			}
			if err := writeLine(strings.Join(cells, " | "), pdfFontSize); err != nil {
				return nil, fmt.Errorf("写入PDF失败: %w", err)
			}
		}
		y += pdfLineHeight
	}

	log.Info().Int("tables", len(tables)).Msg("ExportPDF 完成")
	return pdf.GetBytesPdf(), nil
}
