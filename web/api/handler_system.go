package api

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/afumu/prodsum/web/transport"
)

var startedAt = time.Now()

// GetSystemStatus 返回服务运行状态。
func (a *API) GetSystemStatus(c *gin.Context) {
	datasets := a.Registry.List()
	rows := 0
	for _, ds := range datasets {
		rows += ds.RowCount
	}

	transport.SendSuccess(c, gin.H{
		"status":        "ok",
		"uptimeSeconds": int(time.Since(startedAt).Seconds()),
		"datasets":      len(datasets),
		"totalRows":     rows,
		"goVersion":     runtime.Version(),
	})
}
