package kraken

import (
	"github.com/valyala/fastjson"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
)

var krakenErrors = exchange.ErrorTable{
	Exact: map[string]exchange.ErrorKind{
		"EQuery:Invalid asset pair":                   exchange.BadSymbol,
		"EAPI:Invalid key":                            exchange.AuthenticationError,
		"EFunding:Unknown withdraw key":               exchange.InvalidAddress,
		"EFunding:Invalid amount":                     exchange.InsufficientFunds,
		"EService:Unavailable":                        exchange.ExchangeNotAvailable,
		"EDatabase:Internal error":                    exchange.ExchangeNotAvailable,
		"EService:Busy":                               exchange.ExchangeNotAvailable,
		"EQuery:Unknown asset":                        exchange.BadSymbol,
		"EAPI:Rate limit exceeded":                    exchange.DDoSProtection,
		"EOrder:Rate limit exceeded":                  exchange.DDoSProtection,
		"EGeneral:Internal error":                     exchange.ExchangeNotAvailable,
		"EGeneral:Temporary lockout":                  exchange.DDoSProtection,
		"EGeneral:Permission denied":                  exchange.PermissionDenied,
		"EGeneral:Invalid arguments:price":            exchange.InvalidOrder,
		"EOrder:Unknown order":                        exchange.InvalidOrder,
		"EOrder:Invalid price:Invalid price argument": exchange.InvalidOrder,
		"EOrder:Order minimum not met":                exchange.InvalidOrder,
		"EOrder:Insufficient funds":                   exchange.InsufficientFunds,
		"EGeneral:Invalid arguments":                  exchange.BadRequest,
		"ESession:Invalid session":                    exchange.AuthenticationError,
		"EAPI:Invalid nonce":                          exchange.InvalidNonce,
		"EFunding:No funding method":                  exchange.BadRequest,
		"EFunding:Unknown asset":                      exchange.BadSymbol,
		"EService:Market in post_only mode":           exchange.OnMaintenance,
		"EGeneral:Too many requests":                  exchange.DDoSProtection,
		"ETrade:User Locked":                          exchange.AccountSuspended,
	},
	Broad: []exchange.BroadRule{
		{Pattern: ":Invalid order", Kind: exchange.InvalidOrder},
		{Pattern: ":Invalid arguments:volume", Kind: exchange.InvalidOrder},
		{Pattern: ":Invalid arguments:viqc", Kind: exchange.InvalidOrder},
		{Pattern: ":Invalid nonce", Kind: exchange.InvalidNonce},
		{Pattern: ":IInsufficient funds", Kind: exchange.InsufficientFunds},
		{Pattern: ":Cancel pending", Kind: exchange.CancelPending},
		{Pattern: ":Rate limit exceeded", Kind: exchange.RateLimitExceeded},
	},
}

// HandleErrors 非空的 error 数组按 精确 -> 子串 -> ExchangeError 映射，HTTP 200 同样适用
func (k *Kraken) HandleErrors(resp *common.Response) error {
	if resp.StatusCode == 520 {
		return exchange.NewError(exchange.ExchangeNotAvailable, krakenName,
			krakenName+" "+resp.Status+" "+string(resp.Body))
	}

	v, ok := common.PeekJSON(resp.Body)
	if !ok || v.Type() != fastjson.TypeObject {
		return nil
	}
	items := v.GetArray("error")
	if len(items) == 0 {
		return nil
	}

	messages := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type() == fastjson.TypeString {
			messages = append(messages, string(item.GetStringBytes()))
		}
	}
	feedback := krakenName + " " + string(resp.Body)
	for _, msg := range messages {
		if kind, ok := krakenErrors.Lookup(msg); ok {
			return exchange.NewError(kind, krakenName, feedback)
		}
	}
	return exchange.NewError(exchange.ExchangeError, krakenName, feedback)
}
