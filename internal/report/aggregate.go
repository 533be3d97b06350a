package report

import (
	"math"
	"sort"
	"time"

	"github.com/afumu/prodsum/internal/model"
)

// Level 决定聚合的分组粒度。
type Level int

const (
	// LevelPerCollector 按 (日期, 客户, 催收员) 分组。
	LevelPerCollector Level = iota
	// LevelPerDay 按 (日期, 客户) 分组，并额外统计催收员去重数作为平均值分母。
	LevelPerDay
)

// FailedSMSRule 选择“短信失败”的判定口径。历史报表里存在两种口径，
// 这里用显式模式区分，同一次聚合只能使用其中一种。
type FailedSMSRule int

const (
	// FailedSMSNullResponse 是默认口径：回执时间为空且短信状态列非空。
	FailedSMSNullResponse FailedSMSRule = iota
	// FailedSMSStrictText 在默认口径之上额外要求状态文本包含 FAILED。
	FailedSMSStrictText
)

// AggregateConfig 配置一次聚合。
type AggregateConfig struct {
	Level         Level
	RemarkTypes   []string // 允许参与统计的 remark type 白名单
	FailedSMSRule FailedSMSRule
}

// DefaultRemarkTypes 是标准报表使用的 remark type 白名单。
func DefaultRemarkTypes() []string {
	return []string{model.RemarkPredictive, model.RemarkFollowUp, model.RemarkOutgoing}
}

// Summary 是一个分组的全部派生指标。
// LevelPerCollector 时填 Collector；LevelPerDay 时填 CollectorCount 和各 Avg 字段。
type Summary struct {
	Date      time.Time
	Client    string
	Collector string

	CollectorCount int

	ManualCall          int
	ManualAccount       int
	PredictiveConnected int
	ManualConnected     int
	ConnectedUnique     int
	ConnectedNotUnique  int
	PTPCount            int
	TotalPTPAmount      float64
	TotalBalance        float64

	TotalTalkSeconds      int
	ManualTalkSeconds     int
	PredictiveTalkSeconds int

	DeliveredSMS int
	FailedSMS    int

	ManualCallAvg            float64
	ManualConnectedAvg       float64
	PredictiveConnectedAvg   float64
	TotalConnectedAvg        float64
	ManualTalkAvgSeconds     int
	PredictiveTalkAvgSeconds int
	TotalTalkAvgSeconds      int
	PTPCountAvg              float64
	PTPAmountAvg             float64
	BalanceAvg               float64
	DeliveredSMSAvg          float64
	FailedSMSAvg             float64
}

// accumulator 在单次遍历中积累一个分组的原始量。
// 去重计数用集合实现，输出时只取基数。
type accumulator struct {
	date      time.Time
	client    string
	collector string

	records []model.ActivityRecord

	collectors map[string]struct{}
	hasTalk    bool
}

type groupKey struct {
	date      time.Time
	client    string
	collector string
}

// Aggregate 把清洗后的记录按配置分组并计算全部派生指标。
// 一个分组若没有任何一条通话时长非空的记录，则整组不出现在结果里。
// 所有除法在分母为 0 时返回 0，不会产生错误或 NaN。
func Aggregate(records []model.ActivityRecord, cfg AggregateConfig) []Summary {
	remarkTypes := cfg.RemarkTypes
	if len(remarkTypes) == 0 {
		remarkTypes = DefaultRemarkTypes()
	}
	allowed := make(map[string]struct{}, len(remarkTypes))
	for _, rt := range remarkTypes {
		allowed[rt] = struct{}{}
	}

	// 单次遍历建立 分组键 -> 累加器 的索引，最后一次性产出结果表。
	groups := make(map[groupKey]*accumulator)
	var order []groupKey
	for _, r := range records {
		if _, ok := allowed[r.RemarkType]; !ok {
			continue
		}
		key := groupKey{date: r.Date, client: r.Client}
		if cfg.Level == LevelPerCollector {
			key.collector = r.Collector
		}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{
				date:       key.date,
				client:     key.client,
				collector:  key.collector,
				collectors: make(map[string]struct{}),
			}
			groups[key] = acc
			order = append(order, key)
		}
		acc.records = append(acc.records, r)
		acc.collectors[r.Collector] = struct{}{}
		if r.TalkTime != nil {
			acc.hasTalk = true
		}
	}

	out := make([]Summary, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		if !acc.hasTalk {
			continue
		}
		out = append(out, acc.summarize(cfg))
	}

	sortSummaries(out, cfg.Level)
	return out
}

func (acc *accumulator) summarize(cfg AggregateConfig) Summary {
	s := Summary{
		Date:      acc.date,
		Client:    acc.client,
		Collector: acc.collector,
	}

	manualAccounts := make(map[string]struct{})
	connectedAccounts := make(map[string]struct{})
	ptpAccounts := make(map[string]struct{})

	for _, r := range acc.records {
		manual := r.RemarkType == model.RemarkOutgoing
		predictive := r.RemarkType == model.RemarkPredictive || r.RemarkType == model.RemarkFollowUp
		connected := r.CallStatus == model.CallStatusConnected

		if manual {
			s.ManualCall++
			manualAccounts[r.AccountNo] = struct{}{}
			if connected {
				s.ManualConnected++
			}
		}
		if predictive && connected {
			s.PredictiveConnected++
		}
		if connected {
			s.ConnectedNotUnique++
			connectedAccounts[r.AccountNo] = struct{}{}
		}

		// PTP 口径：状态文本包含 PTP 且承诺金额非 0。
		// 余额合计只看金额非 0，不叠加 PTP 文本条件，历史口径如此。
		if containsFold(r.Status, "PTP") && r.PTPAmount != 0 {
			ptpAccounts[r.AccountNo] = struct{}{}
			s.TotalPTPAmount += r.PTPAmount
		}
		if r.PTPAmount != 0 {
			s.TotalBalance += r.Balance
		}

		if r.TalkTime != nil {
			s.TotalTalkSeconds += *r.TalkTime
			if manual {
				s.ManualTalkSeconds += *r.TalkTime
			}
			if predictive {
				s.PredictiveTalkSeconds += *r.TalkTime
			}
		}

		if r.ColStatus != nil && containsFold(*r.ColStatus, "DELIVERED") {
			s.DeliveredSMS++
		}
		if failedSMS(r, cfg.FailedSMSRule) {
			s.FailedSMS++
		}
	}

	s.ManualAccount = len(manualAccounts)
	s.ConnectedUnique = len(connectedAccounts)
	s.PTPCount = len(ptpAccounts)

	if cfg.Level == LevelPerDay {
		s.CollectorCount = len(acc.collectors)
		s.fillAverages()
	}
	return s
}

func failedSMS(r model.ActivityRecord, rule FailedSMSRule) bool {
	if r.SMSResponseAt != nil || r.ColStatus == nil {
		return false
	}
	if rule == FailedSMSStrictText {
		return containsFold(*r.ColStatus, "FAILED")
	}
	return true
}

// fillAverages 用分组内催收员去重数作分母填充各平均值。
func (s *Summary) fillAverages() {
	n := s.CollectorCount
	s.ManualCallAvg = round2(safeDiv(float64(s.ManualCall), n))
	s.ManualConnectedAvg = round2(safeDiv(float64(s.ManualConnected), n))
	s.PredictiveConnectedAvg = round2(safeDiv(float64(s.PredictiveConnected), n))
	s.TotalConnectedAvg = round2(safeDiv(float64(s.ConnectedNotUnique), n))
	s.ManualTalkAvgSeconds = int(safeDiv(float64(s.ManualTalkSeconds), n))
	s.PredictiveTalkAvgSeconds = int(safeDiv(float64(s.PredictiveTalkSeconds), n))
	s.TotalTalkAvgSeconds = int(safeDiv(float64(s.TotalTalkSeconds), n))
	s.PTPCountAvg = round2(safeDiv(float64(s.PTPCount), n))
	s.PTPAmountAvg = round2(safeDiv(s.TotalPTPAmount, n))
	s.BalanceAvg = round2(safeDiv(s.TotalBalance, n))
	s.DeliveredSMSAvg = round2(safeDiv(float64(s.DeliveredSMS), n))
	s.FailedSMSAvg = round2(safeDiv(float64(s.FailedSMS), n))
}

func sortSummaries(out []Summary, level Level) {
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if level == LevelPerCollector && out[i].Collector != out[j].Collector {
			return out[i].Collector < out[j].Collector
		}
		return out[i].Client < out[j].Client
	})
}

// safeDiv 分母为 0 时返回 0。
func safeDiv(x float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return x / float64(n)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
