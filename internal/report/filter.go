package report

import (
	"regexp"
	"strings"
	"time"

	"github.com/afumu/prodsum/internal/model"
)

// FilterConfig 配置记录过滤器的各条排除规则。
// 所有规则都是针对单条记录的谓词，彼此独立，应用顺序不影响结果。
type FilterConfig struct {
	// SentinelCollector 是被禁用的系统账号 ID，该催收员名下的记录全部剔除。
	SentinelCollector string

	// DebtorPlaceholder 是欠款人占位前缀，子串匹配（不区分大小写）。
	DebtorPlaceholder string

	// DuplicatePTPPattern 匹配重复 PTP 噪声备注的正则（编译时应带 (?i)）。
	DuplicatePTPPattern *regexp.Regexp

	// NoisePhrases 是行政类噪声短语列表，任意一条子串命中即剔除（不区分大小写）。
	NoisePhrases []string

	// ExcludedWeekday 非空时剔除落在该星期几的记录，
	// 用于只统计工作日的日历类报表（通常是周日）。
	ExcludedWeekday *time.Weekday
}

// Filter 对原始记录应用固定的排除规则集，产出清洗后的记录。
// 字段缺失/为空时视为不命中任何排除规则；存活记录的字段原样保留。
func Filter(records []model.ActivityRecord, cfg FilterConfig) []model.ActivityRecord {
	out := make([]model.ActivityRecord, 0, len(records))
	for _, r := range records {
		if excluded(r, cfg) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func excluded(r model.ActivityRecord, cfg FilterConfig) bool {
	if cfg.SentinelCollector != "" && r.Collector == cfg.SentinelCollector {
		return true
	}
	if containsFold(r.Debtor, cfg.DebtorPlaceholder) {
		return true
	}
	if containsFold(r.Status, "ABORT") {
		return true
	}
	if cfg.DuplicatePTPPattern != nil && r.Remark != "" && cfg.DuplicatePTPPattern.MatchString(r.Remark) {
		return true
	}
	for _, phrase := range cfg.NoisePhrases {
		if containsFold(r.Remark, phrase) {
			return true
		}
	}
	if containsFold(r.CallStatus, "OTHERS") {
		return true
	}
	if cfg.ExcludedWeekday != nil && !r.Date.IsZero() && r.Date.Weekday() == *cfg.ExcludedWeekday {
		return true
	}
	return false
}

// containsFold 不区分大小写的子串匹配；任一参数为空都视为不匹配。
func containsFold(s, substr string) bool {
	if s == "" || substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
