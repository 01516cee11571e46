package exchange

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind 统一错误类型，按层级组织，可直接用于 errors.Is
type ErrorKind string

const (
	ExchangeError            ErrorKind = "ExchangeError"
	AuthenticationError      ErrorKind = "AuthenticationError"
	PermissionDenied         ErrorKind = "PermissionDenied"
	AccountNotEnabled        ErrorKind = "AccountNotEnabled"
	AccountSuspended         ErrorKind = "AccountSuspended"
	ArgumentsRequired        ErrorKind = "ArgumentsRequired"
	BadRequest               ErrorKind = "BadRequest"
	BadSymbol                ErrorKind = "BadSymbol"
	BadResponse              ErrorKind = "BadResponse"
	NullResponse             ErrorKind = "NullResponse"
	InsufficientFunds        ErrorKind = "InsufficientFunds"
	InvalidAddress           ErrorKind = "InvalidAddress"
	InvalidOrder             ErrorKind = "InvalidOrder"
	OrderNotFound            ErrorKind = "OrderNotFound"
	OrderImmediatelyFillable ErrorKind = "OrderImmediatelyFillable"
	CancelPending            ErrorKind = "CancelPending"
	NotSupported             ErrorKind = "NotSupported"

	NetworkError         ErrorKind = "NetworkError"
	DDoSProtection       ErrorKind = "DDoSProtection"
	RateLimitExceeded    ErrorKind = "RateLimitExceeded"
	ExchangeNotAvailable ErrorKind = "ExchangeNotAvailable"
	OnMaintenance        ErrorKind = "OnMaintenance"
	InvalidNonce         ErrorKind = "InvalidNonce"
	RequestTimeout       ErrorKind = "RequestTimeout"
)

// errorParents 子类型 -> 父类型
var errorParents = map[ErrorKind]ErrorKind{
	AuthenticationError:      ExchangeError,
	PermissionDenied:         AuthenticationError,
	AccountNotEnabled:        AuthenticationError,
	AccountSuspended:         AuthenticationError,
	ArgumentsRequired:        ExchangeError,
	BadRequest:               ExchangeError,
	BadSymbol:                BadRequest,
	BadResponse:              ExchangeError,
	NullResponse:             BadResponse,
	InsufficientFunds:        ExchangeError,
	InvalidAddress:           ExchangeError,
	InvalidOrder:             ExchangeError,
	OrderNotFound:            InvalidOrder,
	OrderImmediatelyFillable: InvalidOrder,
	CancelPending:            InvalidOrder,
	NotSupported:             ExchangeError,
	DDoSProtection:           NetworkError,
	RateLimitExceeded:        DDoSProtection,
	ExchangeNotAvailable:     NetworkError,
	OnMaintenance:            ExchangeNotAvailable,
	InvalidNonce:             NetworkError,
	RequestTimeout:           NetworkError,
}

// Error 实现 error 接口
func (k ErrorKind) Error() string {
	return string(k)
}

// Parent 父类型，根类型返回空字符串
func (k ErrorKind) Parent() ErrorKind {
	return errorParents[k]
}

// IsA 判断 k 是否为 ancestor 或其子类型
func (k ErrorKind) IsA(ancestor ErrorKind) bool {
	for cur := k; cur != ""; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Error 交易所返回或请求过程中产生的错误
type Error struct {
	Kind     ErrorKind
	Exchange string
	Message  string
	cause    error
}

// NewError 创建错误
func NewError(kind ErrorKind, exchangeName, message string) *Error {
	return &Error{Kind: kind, Exchange: exchangeName, Message: message}
}

// Errorf 按格式创建错误
func Errorf(kind ErrorKind, exchangeName, format string, args ...interface{}) *Error {
	return NewError(kind, exchangeName, fmt.Sprintf(format, args...))
}

// WrapError 以指定类型包装底层错误
func WrapError(kind ErrorKind, exchangeName string, cause error, message string) *Error {
	return &Error{Kind: kind, Exchange: exchangeName, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is 支持 errors.Is(err, exchange.InsufficientFunds) 按层级匹配
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorKind:
		return e.Kind.IsA(t)
	case *Error:
		return e.Kind.IsA(t.Kind)
	}
	return false
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf 返回错误类型，非 *Error 返回空字符串
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind 判断 err 是否属于 kind 或其子类型
func IsKind(err error, kind ErrorKind) bool {
	return errors.Is(err, kind)
}

// IsRetryable 网络类错误可由调用方重试
func IsRetryable(err error) bool {
	return IsKind(err, NetworkError)
}
