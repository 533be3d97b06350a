package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/afumu/prodsum/internal/report"
	"github.com/afumu/prodsum/web/transport"
)

// reportPayload 是报表接口的响应体：四张命名表加构建诊断。
type reportPayload struct {
	Bundle      report.Bundle `json:"bundle"`
	Diagnostics any           `json:"diagnostics"`
}

// GetReport 对指定数据集执行一次完整的报表构建并返回 JSON 结果。
// 口径类选项可以通过查询参数对默认配置做单次覆盖。
func (a *API) GetReport(c *gin.Context) {
	ds, ok := a.Registry.Get(c.Param("id"))
	if !ok {
		transport.NotFound(c, "数据集不存在")
		return
	}

	var q transport.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		transport.BadRequest(c, "查询参数无效")
		return
	}

	cfg, err := a.buildConfig(q)
	if err != nil {
		transport.BadRequest(c, err.Error())
		return
	}

	bundle, diags := report.Build(ds.Records, cfg)
	log.Info().Str("dataset", ds.ID).
		Int("perCollector", len(bundle.PerCollector.Rows)).
		Int("daily", len(bundle.Daily.Rows)).
		Msg("报表构建完成")

	transport.SendSuccess(c, reportPayload{Bundle: bundle, Diagnostics: diags})
}
