package exchange

import (
	"strings"
)

// BroadRule 子串匹配规则
type BroadRule struct {
	Pattern string
	Kind    ErrorKind
}

// ErrorTable 交易所错误映射表
// Exact 为错误码或完整错误信息的精确匹配，Broad 为按声明顺序的子串匹配
type ErrorTable struct {
	Exact map[string]ErrorKind
	Broad []BroadRule
}

// MatchExact 精确匹配，空字符串不匹配
func (t ErrorTable) MatchExact(key string) (ErrorKind, bool) {
	if key == "" {
		return "", false
	}
	kind, ok := t.Exact[key]
	return kind, ok
}

// MatchBroad 子串匹配，第一个命中的规则生效
func (t ErrorTable) MatchBroad(message string) (ErrorKind, bool) {
	if message == "" {
		return "", false
	}
	for _, rule := range t.Broad {
		if rule.Pattern != "" && strings.Contains(message, rule.Pattern) {
			return rule.Kind, true
		}
	}
	return "", false
}

// Lookup 先对所有 key 做精确匹配，再做子串匹配
func (t ErrorTable) Lookup(keys ...string) (ErrorKind, bool) {
	for _, key := range keys {
		if kind, ok := t.MatchExact(key); ok {
			return kind, true
		}
	}
	for _, key := range keys {
		if kind, ok := t.MatchBroad(key); ok {
			return kind, true
		}
	}
	return "", false
}

// Classify 查表，未命中返回 ExchangeError
func (t ErrorTable) Classify(keys ...string) ErrorKind {
	if kind, ok := t.Lookup(keys...); ok {
		return kind
	}
	return ExchangeError
}

// Raise 查表并生成错误，feedback 为错误信息（通常为 "<交易所> <原始响应>"）
func (t ErrorTable) Raise(exchangeName, feedback string, keys ...string) *Error {
	return NewError(t.Classify(keys...), exchangeName, feedback)
}

// HTTPExceptions HTTP 状态码 -> 错误类型
type HTTPExceptions map[int]ErrorKind

// DefaultHTTPExceptions 默认状态码映射
func DefaultHTTPExceptions() HTTPExceptions {
	return HTTPExceptions{
		400: ExchangeNotAvailable,
		401: AuthenticationError,
		403: ExchangeNotAvailable,
		404: ExchangeNotAvailable,
		405: ExchangeNotAvailable,
		407: AuthenticationError,
		408: RequestTimeout,
		409: ExchangeNotAvailable,
		410: ExchangeNotAvailable,
		418: DDoSProtection,
		422: ExchangeError,
		429: RateLimitExceeded,
		451: ExchangeNotAvailable,
		500: ExchangeNotAvailable,
		501: ExchangeNotAvailable,
		502: ExchangeNotAvailable,
		503: ExchangeNotAvailable,
		504: RequestTimeout,
		511: AuthenticationError,
		520: ExchangeNotAvailable,
		521: ExchangeNotAvailable,
		522: ExchangeNotAvailable,
		525: ExchangeNotAvailable,
		526: ExchangeNotAvailable,
		530: ExchangeNotAvailable,
	}
}

// With 返回覆盖部分状态码后的新映射
func (h HTTPExceptions) With(overrides HTTPExceptions) HTTPExceptions {
	out := make(HTTPExceptions, len(h)+len(overrides))
	for code, kind := range h {
		out[code] = kind
	}
	for code, kind := range overrides {
		out[code] = kind
	}
	return out
}
