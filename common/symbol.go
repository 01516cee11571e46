package common

import (
	"fmt"
	"strings"
)

// Symbol 构造统一交易对，settle 非空时为合约格式 BASE/QUOTE:SETTLE
func Symbol(base, quote, settle string) string {
	s := strings.ToUpper(base) + "/" + strings.ToUpper(quote)
	if settle != "" {
		s += ":" + strings.ToUpper(settle)
	}
	return s
}

// ParseSymbol 解析统一交易对 (BTC/USDT:USDT -> BTC, USDT, USDT)
func ParseSymbol(symbol string) (base, quote, settle string, err error) {
	rest := symbol
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		settle = strings.ToUpper(rest[i+1:])
		rest = rest[:i]
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("invalid symbol format: %s, expected BASE/QUOTE", symbol)
	}
	return strings.ToUpper(parts[0]), strings.ToUpper(parts[1]), settle, nil
}
