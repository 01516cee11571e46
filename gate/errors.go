package gate

import (
	"github.com/valyala/fastjson"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
)

var gateErrors = exchange.ErrorTable{
	Exact: map[string]exchange.ErrorKind{
		"INVALID_PARAM_VALUE":        exchange.BadRequest,
		"INVALID_PROTOCOL":           exchange.BadRequest,
		"INVALID_ARGUMENT":           exchange.BadRequest,
		"INVALID_REQUEST_BODY":       exchange.BadRequest,
		"MISSING_REQUIRED_PARAM":     exchange.ArgumentsRequired,
		"BAD_REQUEST":                exchange.BadRequest,
		"INVALID_CONTENT_TYPE":       exchange.BadRequest,
		"NOT_ACCEPTABLE":             exchange.BadRequest,
		"METHOD_NOT_ALLOWED":         exchange.BadRequest,
		"NOT_FOUND":                  exchange.ExchangeError,
		"INVALID_CREDENTIALS":        exchange.AuthenticationError,
		"INVALID_KEY":                exchange.AuthenticationError,
		"IP_FORBIDDEN":               exchange.AuthenticationError,
		"READ_ONLY":                  exchange.PermissionDenied,
		"INVALID_SIGNATURE":          exchange.AuthenticationError,
		"MISSING_REQUIRED_HEADER":    exchange.AuthenticationError,
		"REQUEST_EXPIRED":            exchange.InvalidNonce,
		"ACCOUNT_LOCKED":             exchange.AccountSuspended,
		"FORBIDDEN":                  exchange.PermissionDenied,
		"SUB_ACCOUNT_NOT_FOUND":      exchange.ExchangeError,
		"SUB_ACCOUNT_LOCKED":         exchange.AccountSuspended,
		"MARGIN_BALANCE_EXCEPTION":   exchange.ExchangeError,
		"MARGIN_TRANSFER_FAILED":     exchange.ExchangeError,
		"TOO_MUCH_FUTURES_AVAILABLE": exchange.ExchangeError,
		"FUTURES_BALANCE_NOT_ENOUGH": exchange.InsufficientFunds,
		"ACCOUNT_EXCEPTION":          exchange.ExchangeError,
		"ADDRESS_NOT_USED":           exchange.ExchangeError,
		"TOO_FAST":                   exchange.RateLimitExceeded,
		"WITHDRAWAL_OVER_LIMIT":      exchange.ExchangeError,
		"API_WITHDRAW_DISABLED":      exchange.ExchangeNotAvailable,
		"INVALID_WITHDRAW_ID":        exchange.ExchangeError,
		"INVALID_PRECISION":          exchange.InvalidOrder,
		"INVALID_CURRENCY":           exchange.BadSymbol,
		"INVALID_CURRENCY_PAIR":      exchange.BadSymbol,
		"POC_FILL_IMMEDIATELY":       exchange.OrderImmediatelyFillable,
		"ORDER_NOT_FOUND":            exchange.OrderNotFound,
		"CLIENT_ID_NOT_FOUND":        exchange.OrderNotFound,
		"ORDER_CLOSED":               exchange.InvalidOrder,
		"ORDER_CANCELLED":            exchange.InvalidOrder,
		"QUANTITY_NOT_ENOUGH":        exchange.InvalidOrder,
		"BALANCE_NOT_ENOUGH":         exchange.InsufficientFunds,
		"MARGIN_NOT_SUPPORTED":       exchange.InvalidOrder,
		"MARGIN_BALANCE_NOT_ENOUGH":  exchange.InsufficientFunds,
		"AMOUNT_TOO_LITTLE":          exchange.InvalidOrder,
		"AMOUNT_TOO_MUCH":            exchange.InvalidOrder,
		"REPEATED_CREATION":          exchange.InvalidOrder,
		"LOAN_NOT_FOUND":             exchange.OrderNotFound,
		"LOAN_RECORD_NOT_FOUND":      exchange.OrderNotFound,
		"NO_MATCHED_LOAN":            exchange.ExchangeError,
		"NOT_MERGEABLE":              exchange.ExchangeError,
		"NO_CHANGE":                  exchange.ExchangeError,
		"REPAY_TOO_MUCH":             exchange.ExchangeError,
		"TOO_MANY_CURRENCY_PAIRS":    exchange.InvalidOrder,
		"TOO_MANY_ORDERS":            exchange.InvalidOrder,
		"MIXED_ACCOUNT_TYPE":         exchange.InvalidOrder,
		"AUTO_BORROW_TOO_MUCH":       exchange.ExchangeError,
		"TRADE_RESTRICTED":           exchange.InsufficientFunds,
		"USER_NOT_FOUND":             exchange.AccountNotEnabled,
		"CONTRACT_NO_COUNTER":        exchange.ExchangeError,
		"CONTRACT_NOT_FOUND":         exchange.BadSymbol,
		"RISK_LIMIT_EXCEEDED":        exchange.ExchangeError,
		"INSUFFICIENT_AVAILABLE":     exchange.InsufficientFunds,
		"LIQUIDATE_IMMEDIATELY":      exchange.InvalidOrder,
		"LEVERAGE_TOO_HIGH":          exchange.InvalidOrder,
		"LEVERAGE_TOO_LOW":           exchange.InvalidOrder,
		"ORDER_NOT_OWNED":            exchange.ExchangeError,
		"ORDER_FINISHED":             exchange.ExchangeError,
		"POSITION_CROSS_MARGIN":      exchange.ExchangeError,
		"POSITION_IN_LIQUIDATION":    exchange.ExchangeError,
		"POSITION_IN_CLOSE":          exchange.ExchangeError,
		"POSITION_EMPTY":             exchange.InvalidOrder,
		"REMOVE_TOO_MUCH":            exchange.ExchangeError,
		"RISK_LIMIT_NOT_MULTIPLE":    exchange.ExchangeError,
		"RISK_LIMIT_TOO_HIGH":        exchange.ExchangeError,
		"RISK_LIMIT_TOO_lOW":         exchange.ExchangeError,
		"PRICE_TOO_DEVIATED":         exchange.InvalidOrder,
		"SIZE_TOO_LARGE":             exchange.InvalidOrder,
		"SIZE_TOO_SMALL":             exchange.InvalidOrder,
		"PRICE_OVER_LIQUIDATION":     exchange.InvalidOrder,
		"PRICE_OVER_BANKRUPT":        exchange.InvalidOrder,
		"ORDER_POC_IMMEDIATE":        exchange.OrderImmediatelyFillable,
		"INCREASE_POSITION":          exchange.InvalidOrder,
		"CONTRACT_IN_DELISTING":      exchange.ExchangeError,
		"INTERNAL":                   exchange.ExchangeNotAvailable,
		"SERVER_ERROR":               exchange.ExchangeNotAvailable,
		"TOO_BUSY":                   exchange.ExchangeNotAvailable,
		"TOO_MANY_REQUESTS":          exchange.RateLimitExceeded,
	},
	Broad: []exchange.BroadRule{
		{Pattern: "Your IP is not in the whitelist", Kind: exchange.AuthenticationError},
		{Pattern: "Request API key does not have", Kind: exchange.PermissionDenied},
		{Pattern: "Signature mismatch", Kind: exchange.AuthenticationError},
		{Pattern: "Gate API timestamp", Kind: exchange.InvalidNonce},
	},
}

// HandleErrors 处理 {"label":"ORDER_NOT_FOUND","message":"Order not found"}
// 合约接口部分错误使用 detail 字段
func (g *Gate) HandleErrors(resp *common.Response) error {
	v, ok := common.PeekJSON(resp.Body)
	if !ok || v.Type() != fastjson.TypeObject {
		return nil
	}
	label := common.JSONString(v, "label")
	if label == "" {
		return nil
	}
	message := common.JSONString(v, "message")
	if message == "" {
		message = common.JSONString(v, "detail")
	}
	return gateErrors.Raise(gateName, gateName+" "+string(resp.Body), label, message)
}
