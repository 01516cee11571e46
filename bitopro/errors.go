package bitopro

import (
	"github.com/valyala/fastjson"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
)

var bitoproErrors = exchange.ErrorTable{
	Exact: map[string]exchange.ErrorKind{
		"Unsupported currency.":     exchange.BadRequest,
		"Unsupported order type":    exchange.BadRequest,
		"Invalid body":              exchange.BadRequest,
		"Invalid Signature":         exchange.AuthenticationError,
		"Address not in whitelist.": exchange.BadRequest,
	},
	Broad: []exchange.BroadRule{
		{Pattern: "Invalid amount", Kind: exchange.InvalidOrder},
		{Pattern: "Balance for ", Kind: exchange.InsufficientFunds},
		{Pattern: "Invalid ", Kind: exchange.BadRequest},
		{Pattern: "Wrong parameter", Kind: exchange.BadRequest},
	},
}

// HandleErrors 响应中带非空 error 字段即视为失败，与 HTTP 状态码无关
// 非 2xx 且无法识别时返回 ExchangeError
func (p *Bitopro) HandleErrors(resp *common.Response) error {
	v, ok := common.PeekJSON(resp.Body)
	if !ok || v.Type() != fastjson.TypeObject {
		return nil
	}
	feedback := bitoproName + " " + string(resp.Body)
	message := common.JSONString(v, "error")
	if message == "" {
		if resp.IsSuccess() {
			return nil
		}
		return exchange.NewError(exchange.ExchangeError, bitoproName, feedback)
	}
	return bitoproErrors.Raise(bitoproName, feedback, message)
}
