package binance

import (
	"github.com/valyala/fastjson"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
)

var binanceErrors = exchange.ErrorTable{
	Exact: map[string]exchange.ErrorKind{
		"-1000": exchange.ExchangeNotAvailable,
		"-1001": exchange.ExchangeNotAvailable,
		"-1002": exchange.AuthenticationError,
		"-1003": exchange.RateLimitExceeded,
		"-1006": exchange.ExchangeNotAvailable,
		"-1007": exchange.RequestTimeout,
		"-1013": exchange.InvalidOrder,
		"-1015": exchange.RateLimitExceeded,
		"-1016": exchange.ExchangeNotAvailable,
		"-1021": exchange.InvalidNonce,
		"-1022": exchange.AuthenticationError,
		"-1100": exchange.BadRequest,
		"-1101": exchange.BadRequest,
		"-1102": exchange.BadRequest,
		"-1103": exchange.BadRequest,
		"-1104": exchange.BadRequest,
		"-1105": exchange.BadRequest,
		"-1106": exchange.BadRequest,
		"-1111": exchange.BadRequest,
		"-1112": exchange.InvalidOrder,
		"-1114": exchange.BadRequest,
		"-1115": exchange.BadRequest,
		"-1116": exchange.BadRequest,
		"-1117": exchange.BadRequest,
		"-1121": exchange.BadSymbol,
		"-1131": exchange.BadRequest,
		"-2010": exchange.InvalidOrder,
		"-2011": exchange.OrderNotFound,
		"-2013": exchange.OrderNotFound,
		"-2014": exchange.AuthenticationError,
		"-2015": exchange.AuthenticationError,
		"-2019": exchange.InsufficientFunds,
		"-4003": exchange.InvalidOrder,
		"-4164": exchange.InvalidOrder,

		"Account has insufficient balance for requested action.": exchange.InsufficientFunds,
		"Rest API trading is not enabled.":                       exchange.PermissionDenied,
		"This account may not place or cancel orders.":           exchange.PermissionDenied,
		"You don't have permission.":                             exchange.PermissionDenied,
		"Market is closed.":                                      exchange.OnMaintenance,
		"Too many requests. Please try again later.":             exchange.DDoSProtection,
		"Order would trigger immediately.":                       exchange.OrderImmediatelyFillable,
		"Order would immediately match and take.":                exchange.OrderImmediatelyFillable,
		"Stop price would trigger immediately.":                  exchange.OrderImmediatelyFillable,
		"Order does not exist.":                                  exchange.OrderNotFound,
		"Invalid API-key, IP, or permissions for action.":        exchange.AuthenticationError,
		"API key does not exist":                                 exchange.AuthenticationError,
	},
	Broad: []exchange.BroadRule{
		{Pattern: "has no operation privilege", Kind: exchange.PermissionDenied},
		{Pattern: "MAX_POSITION", Kind: exchange.InvalidOrder},
		{Pattern: "insufficient balance", Kind: exchange.InsufficientFunds},
		{Pattern: "Illegal characters found in parameter", Kind: exchange.BadRequest},
	},
}

// HandleErrors 处理 {"code":-1121,"msg":"..."} 与钱包接口的 {"success":false,"msg":"..."}
// code 为 0 或 200 视为成功
func (b *Binance) HandleErrors(resp *common.Response) error {
	v, ok := common.PeekJSON(resp.Body)
	if !ok || v.Type() != fastjson.TypeObject {
		return nil
	}
	feedback := binanceName + " " + string(resp.Body)
	message := common.JSONString(v, "msg")

	if v.Exists("success") && v.Get("success").Type() == fastjson.TypeFalse {
		return binanceErrors.Raise(binanceName, feedback, message)
	}

	code := common.JSONString(v, "code")
	if code == "" || code == "0" || code == "200" {
		return nil
	}
	return binanceErrors.Raise(binanceName, feedback, code, message)
}
