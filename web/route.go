package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupRoutes 初始化所有应用程序路由。
func (s *Service) setupRoutes() {
	// API v1 路由组, 使用在 service 中初始化的处理器
	v1 := s.router.Group("/api/v1")
	{
		// 系统路由
		v1.GET("/system/status", s.api.GetSystemStatus)

		// 数据集路由
		v1.POST("/datasets", s.api.UploadDataset)
		v1.GET("/datasets", s.api.GetDatasets)
		v1.GET("/datasets/:id", s.api.GetDatasetByID)
		v1.DELETE("/datasets/:id", s.api.DeleteDataset)

		// 报表路由
		v1.GET("/reports/:id", s.api.GetReport)

		// 导出路由
		v1.GET("/export/:id", s.api.ExportReport)
	}

	// 健康检查
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 静态文件服务 (UI)，前端构建产物放在配置的目录即可
	if s.conf.StaticDir != "" {
		s.router.Static("/assets", s.conf.StaticDir)
		s.router.NoRoute(func(c *gin.Context) {
			if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
				c.JSON(http.StatusNotFound, gin.H{"error": "API route not found"})
				return
			}
			c.File(s.conf.StaticDir + "/index.html")
		})
	}
}
