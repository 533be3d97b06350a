package report

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeDuration 把秒数编码为 HH:MM:SS 文本。
// 小时字段不做 24 小时封顶，30 个小时会输出 "30:00:00"。
// 负数按 0 处理。
func EncodeDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// DecodeDuration 把 HH:MM:SS 文本解码为秒数。
// 兼容层：格式不对时返回 0 而不是报错，和历史行为保持一致。
// 新代码应当使用 ParseDuration。
func DecodeDuration(s string) int {
	v, err := ParseDuration(s)
	if err != nil {
		return 0
	}
	return v
}

// ParseDuration 是 DecodeDuration 的严格版本：
// 输入必须是冒号分隔的三段数字，否则返回错误。
func ParseDuration(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("时长格式无效: %q", s)
	}
	var fields [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("时长字段无效: %q", s)
		}
		fields[i] = v
	}
	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}
