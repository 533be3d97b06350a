package report

import (
	"testing"

	"github.com/afumu/prodsum/internal/model"
)

func dailyFixture(rows [][]any) model.Table {
	return model.Table{
		Name: TableDaily,
		Columns: []model.Column{
			{Name: ColDate, Kind: model.KindDate},
			{Name: ColClient, Kind: model.KindText},
			{Name: ColCollector, Kind: model.KindCountAvg},
			{Name: ColManualCallAvg, Kind: model.KindCountAvg},
			{Name: ColPTPAmountAvg, Kind: model.KindFloatAvg},
			{Name: ColTotalTalkTimeAvg, Kind: model.KindDuration},
			{Name: ColPTPCountAvg, Kind: model.KindCountAvg},
		},
		Rows: rows,
	}
}

// 单日日报的汇总必须原样复现当天的 AVG 值（平凡均值）。
func TestRollupSingleDay(t *testing.T) {
	daily := dailyFixture([][]any{
		{day(2024, 1, 5), "X", 3, 12.5, 1500.25, "00:10:00", 2.0},
	})

	got, diags := Rollup(daily, RollupConfig{})
	if len(diags.Warnings) != 0 {
		t.Fatalf("意外的警告: %v", diags.Warnings)
	}
	if len(got.Rows) != 1 {
		t.Fatalf("期望 1 行, 实际 %d", len(got.Rows))
	}

	row := got.Rows[0]
	names := got.ColumnNames()
	cells := make(map[string]any, len(names))
	for i, n := range names {
		cells[n] = row[i]
	}

	if cells[ColDate] != "January 05 - January 05, 2024" {
		t.Errorf("日期范围 = %v", cells[ColDate])
	}
	if cells[ColCollector] != 3 {
		t.Errorf("COLLECTOR = %v, 期望 3", cells[ColCollector])
	}
	if cells[ColManualCallAvg] != 13 {
		t.Errorf("MANUAL CALL AVG = %v, 期望整数 13", cells[ColManualCallAvg])
	}
	if cells[ColTotalTalkTimeAvg] != "00:10:00" {
		t.Errorf("TOTAL TALK TIME AVG = %v, 期望 00:10:00", cells[ColTotalTalkTimeAvg])
	}
	if cells[ColPTPCountAvg] != 2 {
		t.Errorf("PTP COUNT AVG = %v, 期望整数 2", cells[ColPTPCountAvg])
	}
}

// 场景 D: 两个客户各三天，汇总后每客户一行，数值为三天的算术平均。
func TestRollupTwoClientsThreeDays(t *testing.T) {
	daily := dailyFixture([][]any{
		{day(2024, 1, 1), "X", 2, 10.0, 100.0, "00:01:00", 1.0},
		{day(2024, 1, 2), "X", 4, 20.0, 200.0, "00:02:00", 2.0},
		{day(2024, 1, 3), "X", 3, 30.0, 300.0, "00:03:00", 3.0},
		{day(2024, 1, 1), "Y", 1, 1.0, 10.0, "00:00:30", 0.0},
		{day(2024, 1, 2), "Y", 1, 2.0, 20.0, "00:00:30", 1.0},
		{day(2024, 1, 3), "Y", 1, 3.0, 33.5, "00:00:30", 2.0},
	})

	got, _ := Rollup(daily, RollupConfig{})
	if len(got.Rows) != 2 {
		t.Fatalf("期望 2 行, 实际 %d", len(got.Rows))
	}

	names := got.ColumnNames()
	rowOf := func(client string) map[string]any {
		for _, row := range got.Rows {
			cells := make(map[string]any, len(names))
			for i, n := range names {
				cells[n] = row[i]
			}
			if cells[ColClient] == client {
				return cells
			}
		}
		t.Fatalf("找不到客户 %s 的行", client)
		return nil
	}

	x := rowOf("X")
	if x[ColCollector] != 3 {
		t.Errorf("X COLLECTOR = %v, 期望 3", x[ColCollector])
	}
	if x[ColManualCallAvg] != 20 {
		t.Errorf("X MANUAL CALL AVG = %v, 期望整数 20", x[ColManualCallAvg])
	}
	if x[ColTotalTalkTimeAvg] != "00:02:00" {
		t.Errorf("X TOTAL TALK TIME AVG = %v, 期望 00:02:00", x[ColTotalTalkTimeAvg])
	}

	y := rowOf("Y")
	if y[ColPTPAmountAvg] != 21.17 {
		t.Errorf("Y PTP AMOUNT AVG = %v, 期望 21.17 (两位小数)", y[ColPTPAmountAvg])
	}
	if y[ColPTPCountAvg] != 1 {
		t.Errorf("Y PTP COUNT AVG = %v, 期望 1", y[ColPTPCountAvg])
	}

	// 默认全局口径：两个客户共用同一个日期范围标签
	if x[ColDate] != y[ColDate] || x[ColDate] != "January 01 - January 03, 2024" {
		t.Errorf("全局日期范围 = %v / %v", x[ColDate], y[ColDate])
	}
}

// 计数类 AVG 列（通话/接通口径）汇总后必须取整，不保留小数。
func TestRollupCountAvgRoundsToInt(t *testing.T) {
	daily := DailyTable([]Summary{
		{
			Date: day(2024, 3, 1), Client: "X",
			ManualCallAvg: 12.0, ManualConnectedAvg: 3.4,
			PredictiveConnectedAvg: 1.2, TotalConnectedAvg: 4.6,
		},
		{
			Date: day(2024, 3, 2), Client: "X",
			ManualCallAvg: 13.5, ManualConnectedAvg: 3.6,
			PredictiveConnectedAvg: 1.4, TotalConnectedAvg: 5.0,
		},
	})

	got, _ := Rollup(daily, RollupConfig{})
	if len(got.Rows) != 1 {
		t.Fatalf("期望 1 行, 实际 %d", len(got.Rows))
	}
	cells := make(map[string]any)
	for i, n := range got.ColumnNames() {
		cells[n] = got.Rows[0][i]
	}

	expect := map[string]int{
		ColManualCallAvg:          13, // mean(12, 13.5) = 12.75 -> 13
		ColManualConnectedAvg:     4,
		ColPredictiveConnectedAvg: 1,
		ColTotalConnectedAvg:      5,
	}
	for col, want := range expect {
		if cells[col] != want {
			t.Errorf("%s = %v (%T), 期望整数 %d", col, cells[col], cells[col], want)
		}
	}
}

func TestRollupPerClientDateRange(t *testing.T) {
	daily := dailyFixture([][]any{
		{day(2024, 1, 1), "X", 1, 1.0, 1.0, "00:00:01", 0.0},
		{day(2024, 2, 10), "Y", 1, 1.0, 1.0, "00:00:01", 0.0},
	})

	got, _ := Rollup(daily, RollupConfig{Scope: DateRangePerClient})
	if len(got.Rows) != 2 {
		t.Fatalf("期望 2 行, 实际 %d", len(got.Rows))
	}
	if got.Rows[0][0] == got.Rows[1][0] {
		t.Errorf("每客户口径下日期范围不应相同: %v", got.Rows[0][0])
	}
}

// 缺少 DATE 列时优雅降级：空表加诊断，不报错。
func TestRollupMissingDateColumn(t *testing.T) {
	daily := model.Table{
		Name:    TableDaily,
		Columns: []model.Column{{Name: ColClient, Kind: model.KindText}},
		Rows:    [][]any{{"X"}},
	}

	got, diags := Rollup(daily, RollupConfig{})
	if !got.Empty() {
		t.Errorf("期望空表, 实际 %d 行", len(got.Rows))
	}
	if len(diags.Warnings) == 0 {
		t.Error("期望携带诊断警告")
	}
}

// 日期全部无法解析时使用哨兵标签。
func TestRollupUnparseableDates(t *testing.T) {
	daily := dailyFixture([][]any{
		{"not a date", "X", 1, 1.0, 1.0, "00:00:01", 0.0},
	})

	got, diags := Rollup(daily, RollupConfig{})
	if len(got.Rows) != 1 {
		t.Fatalf("期望 1 行, 实际 %d", len(got.Rows))
	}
	if got.Rows[0][0] != unknownDateRange {
		t.Errorf("日期范围 = %v, 期望哨兵 %q", got.Rows[0][0], unknownDateRange)
	}
	if len(diags.Warnings) == 0 {
		t.Error("期望携带诊断警告")
	}
}

func TestRollupEmptyDaily(t *testing.T) {
	got, diags := Rollup(dailyFixture(nil), RollupConfig{})
	if !got.Empty() {
		t.Errorf("期望空表")
	}
	if diags.Info == "" {
		t.Error("期望提示信息")
	}
}
