package exkit

import "github.com/lemconn/exkit/exchange"

// Error 统一错误类型，调用方无需额外引入 exchange 包
type Error = exchange.Error

// ErrorKind 错误类型
type ErrorKind = exchange.ErrorKind

// 常用错误类型
const (
	ExchangeError        = exchange.ExchangeError
	AuthenticationError  = exchange.AuthenticationError
	PermissionDenied     = exchange.PermissionDenied
	ArgumentsRequired    = exchange.ArgumentsRequired
	BadRequest           = exchange.BadRequest
	BadSymbol            = exchange.BadSymbol
	InsufficientFunds    = exchange.InsufficientFunds
	InvalidAddress       = exchange.InvalidAddress
	InvalidOrder         = exchange.InvalidOrder
	OrderNotFound        = exchange.OrderNotFound
	NotSupported         = exchange.NotSupported
	NetworkError         = exchange.NetworkError
	RateLimitExceeded    = exchange.RateLimitExceeded
	ExchangeNotAvailable = exchange.ExchangeNotAvailable
	InvalidNonce         = exchange.InvalidNonce
	RequestTimeout       = exchange.RequestTimeout
)

// IsKind 判断 err 是否属于 kind 或其子类型
func IsKind(err error, kind ErrorKind) bool {
	return exchange.IsKind(err, kind)
}

// KindOf 返回错误类型，非 *Error 返回空字符串
func KindOf(err error) ErrorKind {
	return exchange.KindOf(err)
}
