package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/afumu/prodsum/internal/report"
	"github.com/afumu/prodsum/web/transport"
)

// ExportReport 对指定数据集构建报表并以文件下载的形式返回。
// format 支持 xlsx（默认）、csv、zip、docx、pdf；
// csv 只导出单张表，用 table 参数指定表名，默认日报。
func (a *API) ExportReport(c *gin.Context) {
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

	bundle, _ := report.Build(ds.Records, cfg)
	tables := bundle.Tables()
	stamp := time.Now().Format("20060102")

	format := c.DefaultQuery("format", "xlsx")
	switch format {
	case "xlsx":
		data, err := a.Export.ExportXLSX(tables)
		if err != nil {
			transport.InternalServerError(c, fmt.Sprintf("导出失败: %v", err))
			return
		}
		transport.SendAttachment(c, fmt.Sprintf("productivity_report_%s.xlsx", stamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	case "csv":
		tableName := c.DefaultQuery("table", report.TableDaily)
		for _, t := range tables {
			if t.Name == tableName {
				data, err := a.Export.ExportTableCSV(t)
				if err != nil {
					transport.InternalServerError(c, fmt.Sprintf("导出失败: %v", err))
					return
				}
				transport.SendAttachment(c, fmt.Sprintf("%s_%s.csv", tableName, stamp),
					"text/csv; charset=utf-8", data)
				return
			}
		}
		transport.BadRequest(c, fmt.Sprintf("未知的表名: %q", tableName))
		return

	case "zip":
		data, err := a.Export.ExportZIP(tables)
		if err != nil {
			transport.InternalServerError(c, fmt.Sprintf("导出失败: %v", err))
			return
		}
		transport.SendAttachment(c, fmt.Sprintf("productivity_report_%s.zip", stamp),
			"application/octet-stream", data)

	case "docx":
		data, err := a.Export.ExportDOCX(ds.Name, tables)
		if err != nil {
			transport.InternalServerError(c, fmt.Sprintf("导出失败: %v", err))
			return
		}
		transport.SendAttachment(c, fmt.Sprintf("productivity_report_%s.docx", stamp),
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document", data)

	case "pdf":
		data, err := a.Export.ExportPDF(ds.Name, tables)
		if err != nil {
			transport.InternalServerError(c, fmt.Sprintf("导出失败: %v", err))
			return
		}
		transport.SendAttachment(c, fmt.Sprintf("productivity_report_%s.pdf", stamp),
			"application/pdf", data)

	default:
		transport.BadRequest(c, fmt.Sprintf("不支持的导出格式: %q", format))
		return
	}

	log.Info().Str("dataset", ds.ID).Str("format", format).Msg("导出完成")
}
