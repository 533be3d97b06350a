package api

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/afumu/prodsum/internal/dataset"
	"github.com/afumu/prodsum/internal/report"
	"github.com/afumu/prodsum/web/export"
	"github.com/afumu/prodsum/web/transport"
)

// API 封装了 API 处理器所需的所有依赖。
type API struct {
	Registry *dataset.Registry
	Export   *export.Service
	Conf     *Config
}

// Config 保存报表管线的默认配置，.env 里的 FILTER_*/REPORT_* 项落到这里。
// 单个请求可以通过查询参数覆盖其中的口径类选项。
type Config struct {
	SentinelCollector string
	DebtorPlaceholder string
	PTPDupPattern     string
	NoisePhrases      []string
	ExcludeWeekday    string

	RemarkTypes    []string
	FailedSMSRule  string
	DateRangeScope string
}

// NewAPI 创建一个新的 API 处理器。
func NewAPI(registry *dataset.Registry, conf *Config) *API {
	return &API{
		Registry: registry,
		Export:   export.NewService(),
		Conf:     conf,
	}
}

// buildConfig 把默认配置和单次请求的查询参数合成一份构建配置。
func (a *API) buildConfig(q transport.ReportQuery) (report.BuildConfig, error) {
	cfg := report.BuildConfig{
		Filter: report.FilterConfig{
			SentinelCollector: a.Conf.SentinelCollector,
			DebtorPlaceholder: a.Conf.DebtorPlaceholder,
			NoisePhrases:      a.Conf.NoisePhrases,
		},
		RemarkTypes: a.Conf.RemarkTypes,
	}

	if a.Conf.PTPDupPattern != "" {
		re, err := regexp.Compile("(?i)" + a.Conf.PTPDupPattern)
		if err != nil {
			return cfg, fmt.Errorf("FILTER_PTP_DUP_PATTERN 无效: %w", err)
		}
		cfg.Filter.DuplicatePTPPattern = re
	}

	weekday := a.Conf.ExcludeWeekday
	if q.ExcludeWeekday != "" {
		weekday = q.ExcludeWeekday
	}
	if weekday != "" {
		wd, err := parseWeekday(weekday)
		if err != nil {
			return cfg, err
		}
		cfg.Filter.ExcludedWeekday = &wd
	}

	if q.RemarkTypes != "" {
		cfg.RemarkTypes = splitCSV(q.RemarkTypes)
	}

	rule := a.Conf.FailedSMSRule
	if q.FailedSMSRule != "" {
		rule = q.FailedSMSRule
	}
	switch rule {
	case "", "null_response":
		cfg.FailedSMSRule = report.FailedSMSNullResponse
	case "strict_text":
		cfg.FailedSMSRule = report.FailedSMSStrictText
	default:
		return cfg, fmt.Errorf("failed_sms_rule 无效: %q", rule)
	}

	scope := a.Conf.DateRangeScope
	if q.DateRangeScope != "" {
		scope = q.DateRangeScope
	}
	switch scope {
	case "", "global":
		cfg.DateRangeScope = report.DateRangeGlobal
	case "per_client":
		cfg.DateRangeScope = report.DateRangePerClient
	default:
		return cfg, fmt.Errorf("date_range_scope 无效: %q", scope)
	}

	return cfg, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), name) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("无法识别的星期: %q", name)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
