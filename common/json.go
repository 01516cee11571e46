package common

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/valyala/fastjson"

	"github.com/lemconn/exkit/types"
)

// PeekJSON 解析响应体用于错误检查，非 JSON 时返回 false
func PeekJSON(body []byte) (*fastjson.Value, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false
	}
	v, err := fastjson.ParseBytes(body)
	if err != nil {
		return nil, false
	}
	return v, true
}

// JSONString 读取字符串字段，数字按原样输出，缺失或 null 返回空字符串
func JSONString(v *fastjson.Value, keys ...string) string {
	if v == nil {
		return ""
	}
	f := v.Get(keys...)
	if f == nil {
		return ""
	}
	switch f.Type() {
	case fastjson.TypeString:
		return string(f.GetStringBytes())
	case fastjson.TypeNumber:
		return f.String()
	case fastjson.TypeTrue:
		return "true"
	case fastjson.TypeFalse:
		return "false"
	}
	return ""
}

// RawString 数组元素转字符串，字符串去引号，其它类型按原文
func RawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		s, err := strconv.Unquote(string(raw))
		if err != nil {
			return string(raw[1 : len(raw)-1])
		}
		return s
	}
	return string(raw)
}

// StringAt 取数组第 i 个元素的字符串形式，越界返回空字符串
func StringAt(row []json.RawMessage, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return RawString(row[i])
}

// DecimalAt 取数组第 i 个元素的数值，越界或无法解析时为空值
func DecimalAt(row []json.RawMessage, i int) types.ExDecimal {
	return types.ParseExDecimal(StringAt(row, i))
}

// TimestampAt 取数组第 i 个元素的时间戳，按位数判断单位
func TimestampAt(row []json.RawMessage, i int) types.ExTimestamp {
	return types.ParseExTimestamp(StringAt(row, i))
}
