package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/afumu/prodsum/internal/ingest"
	"github.com/afumu/prodsum/internal/report"
	"github.com/afumu/prodsum/web/transport"
)

// 单个上传文件的大小上限。
const maxUploadBytes = 64 << 20

// UploadDataset 处理多文件上传，摄入后登记为一个数据集。
// 多个文件的记录直接串联；缺必需列的文件让整次上传失败，
// 错误里带上缺失列和实际表头，方便用户修正后重传。
func (a *API) UploadDataset(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		transport.BadRequest(c, fmt.Sprintf("解析上传表单失败: %v", err))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		transport.BadRequest(c, "没有上传任何文件")
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = files[0].Filename
	}

	var results []*ingest.FileResult
	for _, fh := range files {
		if fh.Size > maxUploadBytes {
			transport.BadRequest(c, fmt.Sprintf("文件 %s 超过大小限制", fh.Filename))
			return
		}
		f, err := fh.Open()
		if err != nil {
			transport.InternalServerError(c, fmt.Sprintf("打开上传文件 %s 失败: %v", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			transport.InternalServerError(c, fmt.Sprintf("读取上传文件 %s 失败: %v", fh.Filename, err))
			return
		}

		result, err := ingest.ReadWorkbook(data, fh.Filename)
		if err != nil {
			var missErr *report.MissingColumnsError
			if errors.As(err, &missErr) {
				transport.SendMissingColumns(c,
					fmt.Sprintf("文件 %s 缺少必需列", fh.Filename),
					missErr.Missing, missErr.Available)
				return
			}
			transport.BadRequest(c, fmt.Sprintf("文件 %s 无法解析: %v", fh.Filename, err))
			return
		}
		results = append(results, result)
	}

	ds := a.Registry.Add(name, results)
	log.Info().Str("dataset", ds.ID).Int("files", len(files)).Msg("上传完成")
	transport.SendSuccess(c, ds)
}

// GetDatasets 返回所有数据集的元信息。
func (a *API) GetDatasets(c *gin.Context) {
	transport.SendSuccess(c, a.Registry.List())
}

// GetDatasetByID 返回单个数据集的元信息。
func (a *API) GetDatasetByID(c *gin.Context) {
	ds, ok := a.Registry.Get(c.Param("id"))
	if !ok {
		transport.NotFound(c, "数据集不存在")
		return
	}
	transport.SendSuccess(c, ds)
}

// DeleteDataset 删除一个数据集。
func (a *API) DeleteDataset(c *gin.Context) {
	if !a.Registry.Delete(c.Param("id")) {
		transport.NotFound(c, "数据集不存在")
		return
	}
	transport.SendSuccess(c, gin.H{"deleted": true})
}
