// Package export 把报表 Bundle 渲染成各种下载格式。
// 表格内容到这里已经是定稿，导出层只负责样式和编码。
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/afumu/prodsum/internal/model"
)

// Service 聚合各导出格式的实现。
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// sanitizeSheetName 把表名裁剪成合法的工作表名：
// 去掉 Excel 不允许的字符，长度压到 31 以内。
func sanitizeSheetName(name string) string {
	replacer := strings.NewReplacer(":", "", "\\", "", "/", "", "*", "", "?", "", "[", "", "]", "")
	name = replacer.Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Sheet"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// cellString 把单元格值转成文本表示，CSV/DOCX/PDF 共用。
func cellString(v any, kind model.ColumnKind) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format("2006-01-02")
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		switch kind {
		case model.KindCurrency, model.KindFloatAvg:
			return strconv.FormatFloat(x, 'f', 2, 64)
		default:
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
	default:
		return fmt.Sprint(v)
	}
}
