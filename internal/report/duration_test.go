package report

import "testing"

func TestEncodeDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{108000, "30:00:00"}, // 小时不做 24 封顶
		{-5, "00:00:00"},     // 负数按 0
	}

	for _, tt := range tests {
		if got := EncodeDuration(tt.seconds); got != tt.expected {
			t.Errorf("EncodeDuration(%d) = %q, 期望 %q", tt.seconds, got, tt.expected)
		}
	}
}

func TestDecodeDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"00:00:00", 0},
		{"00:03:00", 180},
		{"01:01:01", 3661},
		{"30:00:00", 108000},
		// 格式错误一律静默返回 0
		{"", 0},
		{"abc", 0},
		{"1:2", 0},
		{"1:2:3:4", 0},
		{"aa:bb:cc", 0},
	}

	for _, tt := range tests {
		if got := DecodeDuration(tt.input); got != tt.expected {
			t.Errorf("DecodeDuration(%q) = %d, 期望 %d", tt.input, got, tt.expected)
		}
	}
}

// 往返性质：对任意合法 HH:MM:SS（小时可超过 24），编码解码互逆。
func TestDurationRoundTrip(t *testing.T) {
	wellFormed := []string{"00:00:00", "00:59:59", "01:30:00", "23:59:59", "48:00:01"}
	for _, s := range wellFormed {
		if got := EncodeDuration(DecodeDuration(s)); got != s {
			t.Errorf("往返失败: %q -> %q", s, got)
		}
	}
}

func TestParseDurationStrict(t *testing.T) {
	if _, err := ParseDuration("bogus"); err == nil {
		t.Error("ParseDuration(\"bogus\") 应该返回错误")
	}
	if _, err := ParseDuration("1:2:3:4"); err == nil {
		t.Error("ParseDuration 字段数不对时应该返回错误")
	}
	v, err := ParseDuration("02:10:05")
	if err != nil {
		t.Fatalf("ParseDuration 解析合法输入失败: %v", err)
	}
	if v != 7805 {
		t.Errorf("期望 7805, 实际 %d", v)
	}
}
