package report

import (
	"github.com/afumu/prodsum/internal/model"
)

// BuildConfig 配置一次完整的报表构建。
type BuildConfig struct {
	Filter         FilterConfig
	RemarkTypes    []string
	FailedSMSRule  FailedSMSRule
	DateRangeScope DateRangeScope
}

// Bundle 是一次构建产出的全部命名报表。
type Bundle struct {
	PerCollector model.Table `json:"perCollector"`
	Daily        model.Table `json:"daily"`
	Overall      model.Table `json:"overall"`
	SMSStatus    model.Table `json:"smsStatus"`
}

// Tables 按导出顺序返回所有表。
func (b *Bundle) Tables() []model.Table {
	return []model.Table{b.PerCollector, b.Daily, b.Overall, b.SMSStatus}
}

// Build 执行 过滤 -> 分组聚合 -> 汇总平均 的完整流程。
// 输入为空或全部被过滤时返回空表加提示信息，不报错。
func Build(records []model.ActivityRecord, cfg BuildConfig) (Bundle, model.Diagnostics) {
	var diags model.Diagnostics

	cleaned := Filter(records, cfg.Filter)

	bundle := Bundle{
		PerCollector: PerCollectorTable(nil),
		Daily:        DailyTable(nil),
		SMSStatus:    SMSStatusTable(nil, cfg.FailedSMSRule),
	}

	if len(cleaned) == 0 {
		if len(records) == 0 {
			diags.Info = "没有输入记录"
		} else {
			diags.Info = "过滤后没有剩余记录"
		}
		overall, d := Rollup(bundle.Daily, RollupConfig{Scope: cfg.DateRangeScope})
		diags.Merge(d)
		bundle.Overall = overall
		return bundle, diags
	}

	perCollector := Aggregate(cleaned, AggregateConfig{
		Level:         LevelPerCollector,
		RemarkTypes:   cfg.RemarkTypes,
		FailedSMSRule: cfg.FailedSMSRule,
	})
	// 日报不是对催收员汇总表的二次聚合，而是对同一批清洗记录按天重新分组
	daily := Aggregate(cleaned, AggregateConfig{
		Level:         LevelPerDay,
		RemarkTypes:   cfg.RemarkTypes,
		FailedSMSRule: cfg.FailedSMSRule,
	})

	bundle.PerCollector = PerCollectorTable(perCollector)
	bundle.Daily = DailyTable(daily)
	bundle.SMSStatus = SMSStatusTable(cleaned, cfg.FailedSMSRule)

	overall, d := Rollup(bundle.Daily, RollupConfig{Scope: cfg.DateRangeScope})
	diags.Merge(d)
	bundle.Overall = overall

	return bundle, diags
}
