package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/afumu/prodsum/internal/model"
)

// DateRangeScope 决定汇总表的日期范围标签怎么算。
type DateRangeScope int

const (
	// DateRangeGlobal 对整张日报表取一次 min/max，所有客户共用同一个标签。
	// 历史实现是这个口径，作为默认值。
	DateRangeGlobal DateRangeScope = iota
	// DateRangePerClient 每个客户单独取自己行的 min/max。
	DateRangePerClient
)

// RollupConfig 配置汇总平均。
type RollupConfig struct {
	Scope DateRangeScope
}

// 日期解析失败时使用的哨兵标签。
const unknownDateRange = "Unknown Date Range"

// Rollup 把按天按客户的日报表压成每客户一行的总汇表：
// 数值 AVG 列取算术平均（计数类取整、金额类保留两位小数），
// 时长 AVG 列先解码为秒、取均值、再编码回 HH:MM:SS，
// COLLECTOR 列取各天催收员数的均值并取整，
// DATE 列整体替换成人类可读的日期范围标签。
// 输入缺少 DATE 列或日期全部无法解析时降级为空表/哨兵标签加诊断，不报错。
func Rollup(daily model.Table, cfg RollupConfig) (model.Table, model.Diagnostics) {
	var diags model.Diagnostics

	out := model.Table{Name: TableOverall}

	dateIdx := columnIndex(daily, ColDate)
	clientIdx := columnIndex(daily, ColClient)
	if dateIdx < 0 || clientIdx < 0 {
		diags.Warn(fmt.Sprintf("日报表缺少 %s 或 %s 列，无法汇总", ColDate, ColClient))
		out.Columns = overallColumns(daily)
		return out, diags
	}

	out.Columns = overallColumns(daily)
	if daily.Empty() {
		diags.Info = "日报表没有数据行"
		return out, diags
	}

	// 全局日期范围只算一次
	globalLabel := dateRangeLabel(daily.Rows, dateIdx, &diags)

	// 按客户分组，保持首次出现顺序，输出前再按客户名排序
	groups := make(map[string][][]any)
	var clients []string
	for _, row := range daily.Rows {
		client := fmt.Sprint(row[clientIdx])
		if _, ok := groups[client]; !ok {
			clients = append(clients, client)
		}
		groups[client] = append(groups[client], row)
	}
	sort.Strings(clients)

	for _, client := range clients {
		rows := groups[client]

		label := globalLabel
		if cfg.Scope == DateRangePerClient {
			label = dateRangeLabel(rows, dateIdx, &diags)
		}

		outRow := make([]any, 0, len(out.Columns))
		for _, col := range out.Columns {
			switch col.Name {
			case ColDate:
				outRow = append(outRow, label)
			case ColClient:
				outRow = append(outRow, client)
			default:
				srcIdx := columnIndex(daily, col.Name)
				outRow = append(outRow, averageCell(rows, srcIdx, col.Kind))
			}
		}
		out.Rows = append(out.Rows, outRow)
	}

	return out, diags
}

// overallColumns 挑选汇总表的列：DATE（退化为范围文本）、CLIENT、
// COLLECTOR 以及日报表里所有 AVG 后缀列，各列保留原语义类型。
func overallColumns(daily model.Table) []model.Column {
	cols := []model.Column{
		{Name: ColDate, Kind: model.KindText},
		{Name: ColClient, Kind: model.KindText},
		{Name: ColCollector, Kind: model.KindCountAvg},
	}
	for _, c := range daily.Columns {
		if strings.HasSuffix(c.Name, " AVG") {
			cols = append(cols, c)
		}
	}
	return cols
}

// averageCell 对一组行里同一列求均值，取整/保留小数由列的语义类型决定。
func averageCell(rows [][]any, idx int, kind model.ColumnKind) any {
	if idx < 0 {
		if kind == model.KindDuration {
			return EncodeDuration(0)
		}
		return 0
	}

	if kind == model.KindDuration {
		total, n := 0, 0
		for _, row := range rows {
			if s, ok := row[idx].(string); ok {
				total += DecodeDuration(s)
				n++
			}
		}
		if n == 0 {
			return EncodeDuration(0)
		}
		return EncodeDuration(total / n)
	}

	var sum float64
	n := 0
	for _, row := range rows {
		if v, ok := toFloat(row[idx]); ok {
			sum += v
			n++
		}
	}
	mean := safeDiv(sum, n)
	switch kind {
	case model.KindFloatAvg, model.KindCurrency:
		return round2(mean)
	default:
		return int(math.Round(mean))
	}
}

// dateRangeLabel 取这批行的最早/最晚日期，格式化为
// "January 02 - January 05, 2006" 样式；没有可解析日期时返回哨兵。
func dateRangeLabel(rows [][]any, dateIdx int, diags *model.Diagnostics) string {
	var min, max time.Time
	for _, row := range rows {
		d, ok := cellDate(row[dateIdx])
		if !ok {
			continue
		}
		if min.IsZero() || d.Before(min) {
			min = d
		}
		if max.IsZero() || d.After(max) {
			max = d
		}
	}
	if min.IsZero() {
		diags.Warn("日报表的日期全部无法解析，日期范围降级为哨兵值")
		return unknownDateRange
	}
	return fmt.Sprintf("%s - %s", min.Format("January 02"), max.Format("January 02, 2006"))
}

func cellDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d, true
	case string:
		for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "01/02/2006"} {
			if t, err := time.Parse(layout, d); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func columnIndex(t model.Table, name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return i
		}
	}
	return -1
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}
