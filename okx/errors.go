package okx

import (
	"github.com/valyala/fastjson"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
)

var okxErrors = exchange.ErrorTable{
	Exact: map[string]exchange.ErrorKind{
		"50000": exchange.BadRequest,
		"50001": exchange.OnMaintenance,
		"50002": exchange.BadRequest,
		"50004": exchange.RequestTimeout,
		"50005": exchange.ExchangeNotAvailable,
		"50006": exchange.BadRequest,
		"50007": exchange.AccountSuspended,
		"50008": exchange.AuthenticationError,
		"50009": exchange.AccountSuspended,
		"50010": exchange.ExchangeError,
		"50011": exchange.RateLimitExceeded,
		"50012": exchange.ExchangeError,
		"50013": exchange.ExchangeNotAvailable,
		"50014": exchange.BadRequest,
		"50015": exchange.ExchangeError,
		"50016": exchange.ExchangeError,
		"50026": exchange.ExchangeNotAvailable,
		"50100": exchange.ExchangeError,
		"50101": exchange.AuthenticationError,
		"50102": exchange.InvalidNonce,
		"50103": exchange.AuthenticationError,
		"50104": exchange.AuthenticationError,
		"50105": exchange.AuthenticationError,
		"50106": exchange.AuthenticationError,
		"50107": exchange.AuthenticationError,
		"50108": exchange.ExchangeError,
		"50109": exchange.ExchangeError,
		"50110": exchange.PermissionDenied,
		"50111": exchange.AuthenticationError,
		"50112": exchange.AuthenticationError,
		"50113": exchange.AuthenticationError,
		"50114": exchange.AuthenticationError,
		"50115": exchange.BadRequest,
		"51000": exchange.BadRequest,
		"51001": exchange.BadSymbol,
		"51002": exchange.BadSymbol,
		"51003": exchange.BadRequest,
		"51004": exchange.InvalidOrder,
		"51005": exchange.InvalidOrder,
		"51006": exchange.InvalidOrder,
		"51008": exchange.InsufficientFunds,
		"51009": exchange.AccountSuspended,
		"51010": exchange.AccountNotEnabled,
		"51011": exchange.InvalidOrder,
		"51012": exchange.BadSymbol,
		"51014": exchange.BadSymbol,
		"51015": exchange.BadSymbol,
		"51020": exchange.InvalidOrder,
		"51024": exchange.AccountSuspended,
		"51116": exchange.InvalidOrder,
		"51119": exchange.InsufficientFunds,
		"51120": exchange.InvalidOrder,
		"51121": exchange.InvalidOrder,
		"51127": exchange.InsufficientFunds,
		"51131": exchange.InsufficientFunds,
		"51400": exchange.OrderNotFound,
		"51401": exchange.OrderNotFound,
		"51402": exchange.OrderNotFound,
		"51403": exchange.InvalidOrder,
		"51410": exchange.CancelPending,
		"51503": exchange.OrderNotFound,
		"51603": exchange.OrderNotFound,
		"58000": exchange.ExchangeError,
		"58001": exchange.AuthenticationError,
		"58002": exchange.PermissionDenied,
		"58003": exchange.ExchangeError,
		"58004": exchange.AccountSuspended,
		"58100": exchange.ExchangeError,
		"58101": exchange.AccountSuspended,
		"58200": exchange.ExchangeError,
		"58201": exchange.ExchangeError,
		"58202": exchange.ExchangeError,
		"58203": exchange.InvalidAddress,
		"58204": exchange.AccountSuspended,
		"58205": exchange.ExchangeError,
		"58206": exchange.ExchangeError,
		"58207": exchange.InvalidAddress,
		"58208": exchange.ExchangeError,
		"58209": exchange.ExchangeError,
		"58210": exchange.ExchangeError,
		"58211": exchange.ExchangeError,
		"58212": exchange.ExchangeError,
		"58213": exchange.AuthenticationError,
		"58350": exchange.InsufficientFunds,
		"59000": exchange.ExchangeError,
		"59001": exchange.ExchangeError,
	},
	Broad: []exchange.BroadRule{
		{Pattern: "Internal Server Error", Kind: exchange.ExchangeNotAvailable},
		{Pattern: "server error", Kind: exchange.ExchangeNotAvailable},
	},
}

// HandleErrors 处理 {"code":"51000","msg":"...","data":[...]}
// code 为 "1"/"2" 时为批量或单笔操作失败，具体原因在 data[].sCode / sMsg
func (o *OKX) HandleErrors(resp *common.Response) error {
	v, ok := common.PeekJSON(resp.Body)
	if !ok || v.Type() != fastjson.TypeObject {
		return nil
	}
	code := common.JSONString(v, "code")
	if code == "" || code == "0" {
		return nil
	}
	feedback := okxName + " " + string(resp.Body)

	for _, item := range v.GetArray("data") {
		sCode := common.JSONString(item, "sCode")
		if sCode == "" || sCode == "0" {
			continue
		}
		if kind, ok := okxErrors.MatchExact(sCode); ok {
			return exchange.NewError(kind, okxName, feedback)
		}
		if kind, ok := okxErrors.MatchBroad(common.JSONString(item, "sMsg")); ok {
			return exchange.NewError(kind, okxName, feedback)
		}
	}
	return okxErrors.Raise(okxName, feedback, code, common.JSONString(v, "msg"))
}
