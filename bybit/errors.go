package bybit

import (
	"github.com/valyala/fastjson"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
)

var bybitErrors = exchange.ErrorTable{
	Exact: map[string]exchange.ErrorKind{
		"10000":  exchange.ExchangeNotAvailable,
		"10001":  exchange.BadRequest,
		"10002":  exchange.InvalidNonce,
		"10003":  exchange.AuthenticationError,
		"10004":  exchange.AuthenticationError,
		"10005":  exchange.PermissionDenied,
		"10006":  exchange.RateLimitExceeded,
		"10007":  exchange.AuthenticationError,
		"10008":  exchange.AccountSuspended,
		"10009":  exchange.AuthenticationError,
		"10010":  exchange.PermissionDenied,
		"10014":  exchange.BadRequest,
		"10016":  exchange.ExchangeNotAvailable,
		"10017":  exchange.BadRequest,
		"10018":  exchange.RateLimitExceeded,
		"10020":  exchange.PermissionDenied,
		"10024":  exchange.PermissionDenied,
		"10027":  exchange.PermissionDenied,
		"10028":  exchange.PermissionDenied,
		"10029":  exchange.PermissionDenied,
		"110001": exchange.OrderNotFound,
		"110003": exchange.InvalidOrder,
		"110004": exchange.InsufficientFunds,
		"110005": exchange.InvalidOrder,
		"110006": exchange.InsufficientFunds,
		"110007": exchange.InsufficientFunds,
		"110008": exchange.InvalidOrder,
		"110009": exchange.InvalidOrder,
		"110010": exchange.InvalidOrder,
		"110012": exchange.InsufficientFunds,
		"110014": exchange.InsufficientFunds,
		"110017": exchange.InvalidOrder,
		"110020": exchange.InvalidOrder,
		"110021": exchange.InvalidOrder,
		"110040": exchange.InvalidOrder,
		"110044": exchange.InsufficientFunds,
		"110045": exchange.InsufficientFunds,
		"110052": exchange.InvalidOrder,
		"110094": exchange.InvalidOrder,
		"170005": exchange.InvalidOrder,
		"170007": exchange.RequestTimeout,
		"170010": exchange.InvalidOrder,
		"170121": exchange.InvalidOrder,
		"170124": exchange.InvalidOrder,
		"170130": exchange.BadRequest,
		"170131": exchange.InsufficientFunds,
		"170132": exchange.InvalidOrder,
		"170133": exchange.InvalidOrder,
		"170134": exchange.InvalidOrder,
		"170135": exchange.InvalidOrder,
		"170136": exchange.InvalidOrder,
		"170137": exchange.InvalidOrder,
		"170140": exchange.InvalidOrder,
		"170141": exchange.InvalidOrder,
		"170142": exchange.InvalidOrder,
		"170143": exchange.InvalidOrder,
		"170144": exchange.InvalidOrder,
		"170146": exchange.InvalidOrder,
		"170193": exchange.InvalidOrder,
		"170213": exchange.OrderNotFound,
		"170217": exchange.InvalidOrder,
		"170218": exchange.InvalidOrder,
		"131001": exchange.InsufficientFunds,
		"131002": exchange.BadRequest,
		"131200": exchange.ExchangeError,
		"131203": exchange.BadRequest,
		"131204": exchange.BadRequest,
		"131212": exchange.InsufficientFunds,
		"131213": exchange.BadRequest,
		"131214": exchange.BadRequest,
		"131215": exchange.BadRequest,
		"131216": exchange.ExchangeError,
		"131217": exchange.ExchangeError,
		"131228": exchange.BadRequest,
		"131230": exchange.BadRequest,
		"131232": exchange.BadRequest,
		"131233": exchange.BadRequest,
		"131234": exchange.InvalidAddress,
		"131235": exchange.InvalidAddress,
		"180001": exchange.BadRequest,
		"181000": exchange.BadRequest,
		"181001": exchange.BadRequest,
		"182000": exchange.InvalidOrder,
		"20006":  exchange.InvalidOrder,
		"30034":  exchange.OrderNotFound,
		"33004":  exchange.AuthenticationError,
		"34026":  exchange.ExchangeError,
		"34036":  exchange.BadRequest,
		"35015":  exchange.BadRequest,
	},
	Broad: []exchange.BroadRule{
		{Pattern: "Request timeout", Kind: exchange.RequestTimeout},
		{Pattern: "unknown orderInfo", Kind: exchange.OrderNotFound},
		{Pattern: "invalid api_key", Kind: exchange.AuthenticationError},
		{Pattern: "oc_diff", Kind: exchange.InsufficientFunds},
		{Pattern: "insufficient available balance", Kind: exchange.InsufficientFunds},
		{Pattern: "System busy", Kind: exchange.ExchangeNotAvailable},
		{Pattern: "Too many visits", Kind: exchange.RateLimitExceeded},
	},
}

// HandleErrors 处理 {"retCode":10001,"retMsg":"...","result":{}}
// HTTP 200 时 retCode 非 0 同样视为错误
func (b *Bybit) HandleErrors(resp *common.Response) error {
	v, ok := common.PeekJSON(resp.Body)
	if !ok || v.Type() != fastjson.TypeObject {
		return nil
	}
	code := common.JSONString(v, "retCode")
	if code == "" {
		code = common.JSONString(v, "ret_code")
	}
	if code == "" || code == "0" {
		return nil
	}
	message := common.JSONString(v, "retMsg")
	if message == "" {
		message = common.JSONString(v, "ret_msg")
	}
	return bybitErrors.Raise(bybitName, bybitName+" "+string(resp.Body), code, message)
}
