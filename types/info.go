package types

import (
	"encoding/json"
)

// Info 交易所原始响应，保持不透明的 JSON 内容
type Info json.RawMessage

// MarshalJSON 原样输出，空值输出 null
func (i Info) MarshalJSON() ([]byte, error) {
	if len(i) == 0 {
		return []byte("null"), nil
	}
	return i, nil
}

// UnmarshalJSON 保存原始字节
func (i *Info) UnmarshalJSON(data []byte) error {
	if i == nil {
		return nil
	}
	*i = append((*i)[0:0], data...)
	return nil
}

// Map 将对象形式的原始响应解码为 map，非对象返回 nil
func (i Info) Map() map[string]interface{} {
	var m map[string]interface{}
	if err := json.Unmarshal(i, &m); err != nil {
		return nil
	}
	return m
}

// Get 读取对象形式原始响应中的字段
func (i Info) Get(key string) interface{} {
	return i.Map()[key]
}

// String 原始 JSON 字符串
func (i Info) String() string {
	return string(i)
}

// NewInfo 将任意值编码为 Info
func NewInfo(v interface{}) Info {
	if raw, ok := v.(json.RawMessage); ok {
		return Info(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return Info(b)
}
