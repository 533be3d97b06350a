package report

import (
	"sort"
	"time"

	"github.com/afumu/prodsum/internal/model"
)

// 输出表的列名，与历史报表保持一致。
const (
	ColDate      = "DATE"
	ColClient    = "CLIENT"
	ColCollector = "COLLECTOR"

	ColManualCall          = "MANUAL CALL"
	ColManualAccount       = "MANUAL ACCOUNT"
	ColPredictiveConnected = "PREDICTIVE CONNECTED"
	ColManualConnected     = "MANUAL CONNECTED"
	ColConnectedUnique     = "CONNECTED UNIQUE"
	ColConnectedNotUnique  = "CONNECTED NOT UNIQUE"
	ColTotalTalkTime       = "TOTAL TALK TIME"
	ColManualTalkTime      = "MANUAL TALK TIME"
	ColPredictiveTalkTime  = "PREDICTIVE TALK TIME"
	ColPTPAcc              = "PTP ACC"
	ColTotalPTPAmount      = "TOTAL PTP AMOUNT"
	ColTotalBalance        = "TOTAL BALANCE"
	ColDeliveredSMS        = "DELIVERED SMS"
	ColFailedSMS           = "FAILED SMS"

	ColManualCallAvg          = "MANUAL CALL AVG"
	ColManualConnectedAvg     = "MANUAL CONNECTED AVG"
	ColPredictiveConnectedAvg = "PREDICTIVE CONNECTED AVG"
	ColTotalConnectedAvg      = "TOTAL CONNECTED AVG"
	ColManualTalkTimeAvg      = "MANUAL TALK TIME AVG"
	ColPredictiveTalkTimeAvg  = "PREDICTIVE TALK TIME AVG"
	ColTotalTalkTimeAvg       = "TOTAL TALK TIME AVG"
	ColPTPCountAvg            = "PTP COUNT AVG"
	ColPTPAmountAvg           = "PTP AMOUNT AVG"
	ColBalanceAvg             = "BALANCE AVG"
	ColDeliveredSMSAvg        = "DELIVERED SMS AVG"
	ColFailedSMSAvg           = "FAILED SMS AVG"
)

// 输出表名。
const (
	TablePerCollector = "Summary Per Collector"
	TableDaily        = "Daily Summary"
	TableOverall      = "Overall Summary"
	TableSMSStatus    = "SMS Status Summary"
)

// PerCollectorTable 把按催收员分组的汇总转成输出表。
func PerCollectorTable(summaries []Summary) model.Table {
	t := model.Table{
		Name: TablePerCollector,
		Columns: []model.Column{
			{Name: ColDate, Kind: model.KindDate},
			{Name: ColClient, Kind: model.KindText},
			{Name: ColCollector, Kind: model.KindText},
			{Name: ColManualCall, Kind: model.KindCount},
			{Name: ColManualAccount, Kind: model.KindCount},
			{Name: ColPredictiveConnected, Kind: model.KindCount},
			{Name: ColManualConnected, Kind: model.KindCount},
			{Name: ColConnectedUnique, Kind: model.KindCount},
			{Name: ColConnectedNotUnique, Kind: model.KindCount},
			{Name: ColTotalTalkTime, Kind: model.KindDuration},
			{Name: ColManualTalkTime, Kind: model.KindDuration},
			{Name: ColPredictiveTalkTime, Kind: model.KindDuration},
			{Name: ColPTPAcc, Kind: model.KindCount},
			{Name: ColTotalPTPAmount, Kind: model.KindCurrency},
			{Name: ColTotalBalance, Kind: model.KindCurrency},
			{Name: ColDeliveredSMS, Kind: model.KindCountAvg},
			{Name: ColFailedSMS, Kind: model.KindCountAvg},
		},
	}
	for _, s := range summaries {
		t.Rows = append(t.Rows, []any{
			s.Date, s.Client, s.Collector,
			s.ManualCall, s.ManualAccount,
			s.PredictiveConnected, s.ManualConnected,
			s.ConnectedUnique, s.ConnectedNotUnique,
			EncodeDuration(s.TotalTalkSeconds),
			EncodeDuration(s.ManualTalkSeconds),
			EncodeDuration(s.PredictiveTalkSeconds),
			s.PTPCount, s.TotalPTPAmount, s.TotalBalance,
			s.DeliveredSMS, s.FailedSMS,
		})
	}
	return t
}

// DailyTable 把按天分组的汇总转成输出表。
// COLLECTOR 列存放的是当天去重后的催收员数量，不是名字。
func DailyTable(summaries []Summary) model.Table {
	t := model.Table{
		Name: TableDaily,
		Columns: []model.Column{
			{Name: ColDate, Kind: model.KindDate},
			{Name: ColClient, Kind: model.KindText},
			{Name: ColCollector, Kind: model.KindCountAvg},
			{Name: ColManualCall, Kind: model.KindCount},
			{Name: ColManualAccount, Kind: model.KindCount},
			{Name: ColPredictiveConnected, Kind: model.KindCount},
			{Name: ColManualConnected, Kind: model.KindCount},
			{Name: ColConnectedUnique, Kind: model.KindCount},
			{Name: ColConnectedNotUnique, Kind: model.KindCount},
			{Name: ColTotalTalkTime, Kind: model.KindDuration},
			{Name: ColManualTalkTime, Kind: model.KindDuration},
			{Name: ColPredictiveTalkTime, Kind: model.KindDuration},
			{Name: ColPTPAcc, Kind: model.KindCount},
			{Name: ColTotalPTPAmount, Kind: model.KindCurrency},
			{Name: ColTotalBalance, Kind: model.KindCurrency},
			{Name: ColManualCallAvg, Kind: model.KindCountAvg},
			{Name: ColManualConnectedAvg, Kind: model.KindCountAvg},
			{Name: ColPredictiveConnectedAvg, Kind: model.KindCountAvg},
			{Name: ColTotalConnectedAvg, Kind: model.KindCountAvg},
			{Name: ColManualTalkTimeAvg, Kind: model.KindDuration},
			{Name: ColPredictiveTalkTimeAvg, Kind: model.KindDuration},
			{Name: ColTotalTalkTimeAvg, Kind: model.KindDuration},
			{Name: ColPTPCountAvg, Kind: model.KindCountAvg},
			{Name: ColPTPAmountAvg, Kind: model.KindFloatAvg},
			{Name: ColBalanceAvg, Kind: model.KindFloatAvg},
			{Name: ColDeliveredSMS, Kind: model.KindCountAvg},
			{Name: ColFailedSMS, Kind: model.KindCountAvg},
			{Name: ColDeliveredSMSAvg, Kind: model.KindCountAvg},
			{Name: ColFailedSMSAvg, Kind: model.KindCountAvg},
		},
	}
	for _, s := range summaries {
		t.Rows = append(t.Rows, []any{
			s.Date, s.Client, s.CollectorCount,
			s.ManualCall, s.ManualAccount,
			s.PredictiveConnected, s.ManualConnected,
			s.ConnectedUnique, s.ConnectedNotUnique,
			EncodeDuration(s.TotalTalkSeconds),
			EncodeDuration(s.ManualTalkSeconds),
			EncodeDuration(s.PredictiveTalkSeconds),
			s.PTPCount, s.TotalPTPAmount, s.TotalBalance,
			s.ManualCallAvg, s.ManualConnectedAvg,
			s.PredictiveConnectedAvg, s.TotalConnectedAvg,
			EncodeDuration(s.ManualTalkAvgSeconds),
			EncodeDuration(s.PredictiveTalkAvgSeconds),
			EncodeDuration(s.TotalTalkAvgSeconds),
			s.PTPCountAvg, s.PTPAmountAvg, s.BalanceAvg,
			s.DeliveredSMS, s.FailedSMS,
			s.DeliveredSMSAvg, s.FailedSMSAvg,
		})
	}
	return t
}

// SMSStatusTable 按提交日期统计短信送达/失败数量，产出纯短信视角的日报。
// 送达口径：状态文本包含 DELIVERED；失败口径与聚合器一致，由配置决定。
func SMSStatusTable(records []model.ActivityRecord, rule FailedSMSRule) model.Table {
	type smsCount struct {
		delivered int
		failed    int
	}
	byDate := make(map[time.Time]*smsCount)
	var dates []time.Time
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		c, ok := byDate[r.Date]
		if !ok {
			c = &smsCount{}
			byDate[r.Date] = c
			dates = append(dates, r.Date)
		}
		if r.ColStatus != nil && containsFold(*r.ColStatus, "DELIVERED") {
			c.delivered++
		}
		if failedSMS(r, rule) {
			c.failed++
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	t := model.Table{
		Name: TableSMSStatus,
		Columns: []model.Column{
			{Name: ColDate, Kind: model.KindDate},
			{Name: ColDeliveredSMS, Kind: model.KindCountAvg},
			{Name: ColFailedSMS, Kind: model.KindCountAvg},
		},
	}
	for _, d := range dates {
		c := byDate[d]
		t.Rows = append(t.Rows, []any{d, c.delivered, c.failed})
	}
	return t
}
