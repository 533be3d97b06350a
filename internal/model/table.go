package model

// ColumnKind 是列的语义类型，导出层据此选择单元格格式。
type ColumnKind string

const (
	KindDate     ColumnKind = "date"      // 日期，yyyy-mm-dd；汇总表里可能退化为日期范围文本
	KindText     ColumnKind = "text"      // 普通文本
	KindCount    ColumnKind = "count"     // 整数计数
	KindCurrency ColumnKind = "currency"  // 金额，千分位 + 两位小数
	KindDuration ColumnKind = "duration"  // HH:MM:SS 文本
	KindCountAvg ColumnKind = "count-avg" // 整数化的平均值
	KindFloatAvg ColumnKind = "float-avg" // 两位小数的平均值
)

// Column 描述输出表的一列。
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Table 是流水线的输出形式：固定列结构加若干行。
// 各阶段只消费一张表、产出一张新表，计算完成后不再原地修改。
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Empty 报告该表是否没有数据行。
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// ColumnNames 返回所有列名，顺序与 Columns 一致。
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Diagnostics 汇集流水线在一次构建中产生的可恢复问题。
// 流水线本身从不抛出未捕获的错误，所有可恢复情况都降级为
// 空结果/哨兵值并通过这里反馈给调用方展示。
type Diagnostics struct {
	Warnings       []string `json:"warnings,omitempty"`
	DroppedDates   int      `json:"droppedDates,omitempty"` // 因日期无法解析被丢弃的行数
	DuplicateFiles int      `json:"duplicateFiles,omitempty"`
	Info           string   `json:"info,omitempty"`
}

// Warn 追加一条警告。
func (d *Diagnostics) Warn(msg string) {
	d.Warnings = append(d.Warnings, msg)
}

// Merge 合并另一份诊断信息。
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.DroppedDates += other.DroppedDates
	d.DuplicateFiles += other.DuplicateFiles
	if d.Info == "" {
		d.Info = other.Info
	}
}
