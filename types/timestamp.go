package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExTimestamp 支持多种格式的时间戳类型
// 兼容秒、带小数的秒、毫秒、微秒、纳秒与 RFC3339，零值表示空
type ExTimestamp struct {
	time.Time
	// sourceFormat 记录输入格式，用于序列化时保持原始格式
	// 可能的值: "s"(秒), "ms"(毫秒), "us"(微秒), "ns"(纳秒), "rfc3339"(RFC3339字符串)
	sourceFormat string
}

// NewExTimestampMillis 由毫秒时间戳创建，ms <= 0 时为空
func NewExTimestampMillis(ms int64) ExTimestamp {
	if ms <= 0 {
		return ExTimestamp{}
	}
	return ExTimestamp{Time: time.UnixMilli(ms), sourceFormat: "ms"}
}

// NewExTimestampSeconds 由（可带小数的）秒时间戳创建
func NewExTimestampSeconds(sec float64) ExTimestamp {
	if sec <= 0 {
		return ExTimestamp{}
	}
	return ExTimestamp{Time: time.UnixMilli(int64(sec * 1000)), sourceFormat: "ms"}
}

// NewExTimestamp 由 time.Time 创建
func NewExTimestamp(t time.Time) ExTimestamp {
	return ExTimestamp{Time: t, sourceFormat: "ms"}
}

// ParseExTimestamp 宽松解析，失败返回空值
func ParseExTimestamp(s string) ExTimestamp {
	var t ExTimestamp
	if err := t.parse(s); err != nil {
		return ExTimestamp{}
	}
	return t
}

// UnmarshalJSON 自定义 JSON 反序列化，支持多种时间戳格式
func (t *ExTimestamp) UnmarshalJSON(b []byte) error {
	return t.parse(string(b))
}

func (t *ExTimestamp) parse(raw string) error {
	s := strings.TrimSpace(strings.Trim(raw, `"`))
	if s == "" || s == "null" || s == "0" {
		t.Time = time.Time{}
		t.sourceFormat = ""
		return nil
	}

	// 尝试 int64（各种 timestamp）
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		switch {
		case len(s) <= 10:
			t.Time = time.Unix(ts, 0)
			t.sourceFormat = "s"
		case len(s) <= 13:
			t.Time = time.UnixMilli(ts)
			t.sourceFormat = "ms"
		case len(s) <= 16:
			t.Time = time.UnixMicro(ts)
			t.sourceFormat = "us"
		case len(s) <= 19:
			t.Time = time.Unix(0, ts)
			t.sourceFormat = "ns"
		default:
			return fmt.Errorf("unsupported timestamp length: %d (%s)", len(s), s)
		}
		return nil
	}

	// 带小数的秒，例如 1616663113.3211
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		t.Time = time.UnixMicro(int64(f * 1e6))
		t.sourceFormat = "ms"
		return nil
	}

	// fallback: RFC3339 string，以及不带时区的 "2006-01-02 15:04:05"（按 UTC）
	tt, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if tt, err = time.ParseInLocation(time.DateTime, s, time.UTC); err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", s, err)
		}
	}
	t.Time = tt
	t.sourceFormat = "rfc3339"
	return nil
}

// Millis 毫秒时间戳，空值返回 0
func (t ExTimestamp) Millis() int64 {
	if t.Time.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// IsNull 是否为空值
func (t ExTimestamp) IsNull() bool {
	return t.Time.IsZero()
}

// Datetime ISO8601 字符串，空值返回空字符串
func (t ExTimestamp) Datetime() string {
	if t.Time.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// MarshalJSON 自定义 JSON 序列化，保持原始格式
func (t ExTimestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	switch t.sourceFormat {
	case "s":
		return []byte(strconv.FormatInt(t.Unix(), 10)), nil
	case "us":
		return []byte(strconv.FormatInt(t.UnixMicro(), 10)), nil
	case "ns":
		return []byte(strconv.FormatInt(t.UnixNano(), 10)), nil
	case "rfc3339":
		return json.Marshal(t.Format(time.RFC3339Nano))
	default:
		return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
	}
}
