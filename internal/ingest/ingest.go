// Package ingest 负责把上传的表格文件读成内存里的活动记录。
// 流水线本身不碰文件，所有文件读取都止步于这里。
package ingest

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/afumu/prodsum/internal/model"
	"github.com/afumu/prodsum/internal/report"
)

// 输入表头的逻辑列名。匹配时去空白、不区分大小写。
const (
	colDate           = "DATE"
	colSubmissionDate = "SUBMISSION DATE / TIME"
	colClient         = "CLIENT"
	colRemarkBy       = "REMARK BY"
	colRemarkType     = "REMARK TYPE"
	colCallStatus     = "CALL STATUS"
	colAccountNo      = "ACCOUNT NO."
	colStatus         = "STATUS"
	colDebtor         = "DEBTOR"
	colRemark         = "REMARK"
	colCardNo         = "CARD NO."
	colTalkTime       = "TALK TIME DURATION"
	colPTPAmount      = "PTP AMOUNT"
	colBalance        = "BALANCE"
	colColStatus      = "COL STATUS"
	colSMSResponse    = "SMS STATUS RESPONSE DATE/TIME"
)

// 除日期外必须存在的逻辑列。日期列单独处理：
// 通话报表用 DATE，短信报表用 SUBMISSION DATE / TIME，两者有其一即可。
var requiredColumns = []string{colClient, colRemarkBy, colRemarkType, colAccountNo}

// FileResult 是单个文件的读取结果。
type FileResult struct {
	Name        string
	Fingerprint uint64 // 文件内容的 xxhash，用于跨上传去重
	Records     []model.ActivityRecord
	RowCount    int
	Diags       model.Diagnostics
}

// ReadWorkbook 读取一个 XLSX 文件的第一个工作表。
// 首行是表头；表头用列规范器对齐到逻辑列，缺必需列时返回 MissingColumns 错误。
// 日期无法解析的行被丢弃并计数，不会中断整个文件。
func ReadWorkbook(data []byte, name string) (*FileResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("打开工作簿 %s 失败: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("工作簿 %s 没有工作表", name)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %s 失败: %w", sheets[0], err)
	}

	result := &FileResult{
		Name:        name,
		Fingerprint: xxhash.Sum64(data),
	}
	if len(rows) == 0 {
		result.Diags.Info = fmt.Sprintf("文件 %s 是空表", name)
		return result, nil
	}

	header := rows[0]
	plan, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	// 逻辑列名 -> 行内下标
	idx := make(map[string]int, len(plan))
	lower := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := lower[key]; !ok {
			lower[key] = i
		}
	}
	for logical, actual := range plan {
		idx[logical] = lower[strings.ToLower(strings.TrimSpace(actual))]
	}

	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		rec, ok := parseRow(row, idx)
		if !ok {
			result.Diags.DroppedDates++
			continue
		}
		result.Records = append(result.Records, rec)
		result.RowCount++
	}

	if result.Diags.DroppedDates > 0 {
		result.Diags.Warn(fmt.Sprintf("文件 %s 有 %d 行日期无法解析，已丢弃",
			name, result.Diags.DroppedDates))
	}
	log.Info().Str("file", name).Int("rows", result.RowCount).
		Int("dropped", result.Diags.DroppedDates).Msg("工作簿读取完成")
	return result, nil
}

// resolveHeader 对齐表头。日期列接受 DATE 或 SUBMISSION DATE / TIME，
// 其余必需列走精确匹配；缺列时错误里列出缺失列和全部可用列。
func resolveHeader(header []string) (map[string]string, error) {
	plan, err := report.ResolveColumns(requiredColumns, header)
	if err != nil {
		return nil, err
	}

	if datePlan, dateErr := report.ResolveColumns([]string{colDate}, header); dateErr == nil {
		plan[colDate] = datePlan[colDate]
	} else if subPlan, subErr := report.ResolveColumns([]string{colSubmissionDate}, header); subErr == nil {
		plan[colDate] = subPlan[colSubmissionDate]
	} else {
		return nil, &report.MissingColumnsError{Missing: []string{colDate}, Available: header}
	}

	// 可选列：有就映射，没有就留空
	optional := []string{colCallStatus, colStatus, colDebtor, colRemark, colCardNo,
		colTalkTime, colPTPAmount, colBalance, colColStatus, colSMSResponse}
	for _, name := range optional {
		if p, err := report.ResolveColumns([]string{name}, header); err == nil {
			plan[name] = p[name]
		}
	}
	return plan, nil
}

// parseRow 把一行单元格转成记录；日期解析失败时返回 ok=false。
func parseRow(row []string, idx map[string]int) (model.ActivityRecord, bool) {
	cell := func(logical string) string {
		i, ok := idx[logical]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, ok := parseDate(cell(colDate))
	if !ok {
		return model.ActivityRecord{}, false
	}

	rec := model.ActivityRecord{
		Date:       date,
		Client:     cell(colClient),
		Collector:  cell(colRemarkBy),
		RemarkType: cell(colRemarkType),
		CallStatus: cell(colCallStatus),
		AccountNo:  cell(colAccountNo),
		Status:     cell(colStatus),
		Debtor:     cell(colDebtor),
		Remark:     cell(colRemark),
		CardNo:     cell(colCardNo),
		PTPAmount:  parseAmount(cell(colPTPAmount)),
		Balance:    parseAmount(cell(colBalance)),
	}

	if s := cell(colTalkTime); s != "" {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
			t := int(v)
			rec.TalkTime = &t
		}
	}
	if i, ok := idx[colColStatus]; ok && i < len(row) {
		if s := strings.TrimSpace(row[i]); s != "" {
			rec.ColStatus = &s
		}
	}
	if s := cell(colSMSResponse); s != "" {
		if t, ok := parseTimestamp(s); ok {
			rec.SMSResponseAt = &t
		}
	}
	return rec, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"01-02-06",
	"1/2/2006",
	"1/2/06 15:04",
}

// parseDate 解析日期单元格并截断到日期。
// excelize 对未格式化的日期单元格会给出序列号，这里也接受。
func parseDate(s string) (time.Time, bool) {
	t, ok := parseTimestamp(s)
	if !ok {
		return time.Time{}, false
	}
	return t.Truncate(24 * time.Hour), true
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Excel 序列号：自 1899-12-30 起的天数
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount 解析金额，容忍千分位逗号；解析失败按 0。
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
