package report

import (
	"testing"
	"time"

	"github.com/afumu/prodsum/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func talkTime(v int) *int { return &v }

func strp(s string) *string { return &s }

func TestAggregatePerCollectorMetrics(t *testing.T) {
	d := day(2024, 1, 5)
	records := []model.ActivityRecord{
		// Outgoing 接通，带 PTP
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkOutgoing,
			CallStatus: model.CallStatusConnected, AccountNo: "AC1",
			Status: "PTP NEXT WEEK", PTPAmount: 500, Balance: 1200, TalkTime: talkTime(60)},
		// 同一账号再次 Outgoing，未接通
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkOutgoing,
			CallStatus: "NO ANSWER", AccountNo: "AC1", TalkTime: talkTime(30)},
		// Predictive 接通，金额非 0 但状态不含 PTP（只进余额，不进 PTP 口径）
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkPredictive,
			CallStatus: model.CallStatusConnected, AccountNo: "AC2",
			Status: "CALL BACK", PTPAmount: 300, Balance: 800, TalkTime: talkTime(90)},
		// Follow Up 接通
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkFollowUp,
			CallStatus: model.CallStatusConnected, AccountNo: "AC3", TalkTime: talkTime(120)},
	}

	got := Aggregate(records, AggregateConfig{Level: LevelPerCollector})
	if len(got) != 1 {
		t.Fatalf("期望 1 个分组, 实际 %d", len(got))
	}
	s := got[0]

	if s.ManualCall != 2 {
		t.Errorf("ManualCall = %d, 期望 2", s.ManualCall)
	}
	if s.ManualAccount != 1 {
		t.Errorf("ManualAccount = %d, 期望 1 (账号去重)", s.ManualAccount)
	}
	if s.PredictiveConnected != 2 {
		t.Errorf("PredictiveConnected = %d, 期望 2 (Predictive+Follow Up)", s.PredictiveConnected)
	}
	if s.ManualConnected != 1 {
		t.Errorf("ManualConnected = %d, 期望 1", s.ManualConnected)
	}
	if s.ConnectedUnique != 3 || s.ConnectedNotUnique != 3 {
		t.Errorf("Connected = (%d, %d), 期望 (3, 3)", s.ConnectedUnique, s.ConnectedNotUnique)
	}
	if s.PTPCount != 1 {
		t.Errorf("PTPCount = %d, 期望 1", s.PTPCount)
	}
	if s.TotalPTPAmount != 500 {
		t.Errorf("TotalPTPAmount = %v, 期望 500", s.TotalPTPAmount)
	}
	// 余额口径只看金额非 0，不叠加 PTP 文本条件
	if s.TotalBalance != 2000 {
		t.Errorf("TotalBalance = %v, 期望 2000", s.TotalBalance)
	}
	if s.TotalTalkSeconds != 300 || s.ManualTalkSeconds != 90 || s.PredictiveTalkSeconds != 210 {
		t.Errorf("talk = (%d, %d, %d), 期望 (300, 90, 210)",
			s.TotalTalkSeconds, s.ManualTalkSeconds, s.PredictiveTalkSeconds)
	}
}

// 没有任何 PTP 口径记录的分组，PTP 指标必须为零。
func TestAggregateNoPTP(t *testing.T) {
	d := day(2024, 2, 1)
	records := []model.ActivityRecord{
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkOutgoing,
			AccountNo: "AC1", Status: "NO CONTACT", TalkTime: talkTime(10)},
		// 状态含 PTP 但金额为 0，不计入
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkOutgoing,
			AccountNo: "AC2", Status: "PTP", PTPAmount: 0, TalkTime: talkTime(20)},
	}

	got := Aggregate(records, AggregateConfig{Level: LevelPerCollector})
	if len(got) != 1 {
		t.Fatalf("期望 1 个分组, 实际 %d", len(got))
	}
	if got[0].PTPCount != 0 || got[0].TotalPTPAmount != 0 {
		t.Errorf("PTP = (%d, %v), 期望 (0, 0)", got[0].PTPCount, got[0].TotalPTPAmount)
	}
}

// 组内所有通话时长都为空时，整组从输出中消失，而不是填零行。
func TestAggregateSkipsGroupWithoutTalkTime(t *testing.T) {
	d := day(2024, 2, 1)
	records := []model.ActivityRecord{
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkOutgoing, AccountNo: "AC1"},
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkOutgoing, AccountNo: "AC2"},
		// 另一组有通话时长，应该保留
		{Date: d, Client: "Y", Collector: "a2", RemarkType: model.RemarkOutgoing,
			AccountNo: "AC3", TalkTime: talkTime(0)},
	}

	got := Aggregate(records, AggregateConfig{Level: LevelPerCollector})
	if len(got) != 1 {
		t.Fatalf("期望 1 个分组, 实际 %d", len(got))
	}
	if got[0].Client != "Y" {
		t.Errorf("保留的分组错误: %+v", got[0])
	}
}

func TestAggregateRemarkTypeAllowList(t *testing.T) {
	d := day(2024, 2, 1)
	records := []model.ActivityRecord{
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkOutgoing,
			AccountNo: "AC1", TalkTime: talkTime(10)},
		{Date: d, Client: "X", Collector: "a1", RemarkType: "Incoming",
			AccountNo: "AC2", TalkTime: talkTime(10)},
	}

	got := Aggregate(records, AggregateConfig{Level: LevelPerDay})
	if len(got) != 1 {
		t.Fatalf("期望 1 个分组, 实际 %d", len(got))
	}
	// Incoming 不在白名单里，不参与任何计数
	if got[0].ManualCall != 1 || got[0].TotalTalkSeconds != 10 {
		t.Errorf("白名单外的记录被计入: %+v", got[0])
	}
}

func TestAggregatePerDayAverages(t *testing.T) {
	d := day(2024, 3, 4)
	records := []model.ActivityRecord{
		{Date: d, Client: "X", Collector: "a1", RemarkType: model.RemarkOutgoing,
			CallStatus: model.CallStatusConnected, AccountNo: "AC1", TalkTime: talkTime(100)},
		{Date: d, Client: "X", Collector: "a2", RemarkType: model.RemarkOutgoing,
			CallStatus: model.CallStatusConnected, AccountNo: "AC2", TalkTime: talkTime(50)},
		{Date: d, Client: "X", Collector: "a2", RemarkType: model.RemarkOutgoing,
			AccountNo: "AC3", TalkTime: talkTime(50)},
	}

	got := Aggregate(records, AggregateConfig{Level: LevelPerDay})
	if len(got) != 1 {
		t.Fatalf("期望 1 个分组, 实际 %d", len(got))
	}
	s := got[0]
	if s.CollectorCount != 2 {
		t.Fatalf("CollectorCount = %d, 期望 2", s.CollectorCount)
	}
	if s.ManualCallAvg != 1.5 {
		t.Errorf("ManualCallAvg = %v, 期望 1.5", s.ManualCallAvg)
	}
	if s.ManualConnectedAvg != 1 {
		t.Errorf("ManualConnectedAvg = %v, 期望 1", s.ManualConnectedAvg)
	}
	if s.TotalTalkAvgSeconds != 100 {
		t.Errorf("TotalTalkAvgSeconds = %d, 期望 100", s.TotalTalkAvgSeconds)
	}
}

func TestAggregateSortOrder(t *testing.T) {
	d1, d2 := day(2024, 1, 2), day(2024, 1, 1)
	records := []model.ActivityRecord{
		{Date: d1, Client: "X", Collector: "b", RemarkType: model.RemarkOutgoing, AccountNo: "1", TalkTime: talkTime(1)},
		{Date: d1, Client: "X", Collector: "a", RemarkType: model.RemarkOutgoing, AccountNo: "2", TalkTime: talkTime(1)},
		{Date: d2, Client: "X", Collector: "c", RemarkType: model.RemarkOutgoing, AccountNo: "3", TalkTime: talkTime(1)},
	}

	got := Aggregate(records, AggregateConfig{Level: LevelPerCollector})
	if len(got) != 3 {
		t.Fatalf("期望 3 个分组, 实际 %d", len(got))
	}
	if !got[0].Date.Equal(d2) || got[1].Collector != "a" || got[2].Collector != "b" {
		t.Errorf("排序错误: %v", []string{got[0].Collector, got[1].Collector, got[2].Collector})
	}
}

func TestFailedSMSRules(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		rec    model.ActivityRecord
		loose  bool // FailedSMSNullResponse 口径
		strict bool // FailedSMSStrictText 口径
	}{
		{"无状态列", model.ActivityRecord{}, false, false},
		{"有状态无回执", model.ActivityRecord{ColStatus: strp("SENT")}, true, false},
		{"FAILED 无回执", model.ActivityRecord{ColStatus: strp("FAILED - EXPIRED")}, true, true},
		{"有回执", model.ActivityRecord{ColStatus: strp("FAILED"), SMSResponseAt: &now}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failedSMS(tt.rec, FailedSMSNullResponse); got != tt.loose {
				t.Errorf("默认口径 = %v, 期望 %v", got, tt.loose)
			}
			if got := failedSMS(tt.rec, FailedSMSStrictText); got != tt.strict {
				t.Errorf("严格口径 = %v, 期望 %v", got, tt.strict)
			}
		})
	}
}
