package report

import (
	"fmt"
	"strings"
)

// MissingColumnsError 表示部分逻辑列在输入表头里找不到对应列。
// 同时携带缺失的逻辑列名和实际可用的列名，方便调用方直接展示诊断。
type MissingColumnsError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("缺少必需列: %s (可用列: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// ResolveColumns 把一组逻辑列名映射到实际表头列名。
// 匹配规则：去除首尾空白后不区分大小写的精确匹配，不做模糊/前缀匹配。
// 任何逻辑列没有匹配时返回 *MissingColumnsError；
// 成功时返回 逻辑列名 -> 实际列名 的改名方案，由调用方应用。
func ResolveColumns(logical []string, actual []string) (map[string]string, error) {
	index := make(map[string]string, len(actual))
	for _, col := range actual {
		key := strings.ToLower(strings.TrimSpace(col))
		if _, ok := index[key]; !ok {
			index[key] = col
		}
	}

	plan := make(map[string]string, len(logical))
	var missing []string
	for _, name := range logical {
		key := strings.ToLower(strings.TrimSpace(name))
		if match, ok := index[key]; ok {
			plan[name] = match
		} else {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Available: actual}
	}
	return plan, nil
}
