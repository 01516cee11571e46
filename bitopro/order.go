package bitopro

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

// 订单状态：-1 待触发、0 未成交、1 部分成交、2 完全成交、3 部分成交后撤单、4 已撤单、6 撤单处理中
var bitoproOrderStatus = model.StatusTable[model.OrderStatus]{
	"-1": model.OrderStatusOpen,
	"0":  model.OrderStatusOpen,
	"1":  model.OrderStatusOpen,
	"2":  model.OrderStatusClosed,
	"3":  model.OrderStatusClosed,
	"4":  model.OrderStatusCanceled,
	"6":  model.OrderStatusCanceled,
}

// FetchBalance 获取余额，used = amount - available
func (p *Bitopro) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.Balances, error) {
	if _, err := p.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var resp bitoproData
	if err := p.private(ctx, http.MethodGet, "accounts/balance", args.Params, &resp); err != nil {
		return nil, err
	}
	var rows []bitoproBalance
	if err := p.Decode(resp.Data, &rows); err != nil {
		return nil, err
	}

	result := model.NewBalances(types.Info(resp.Data))
	for _, b := range rows {
		result.Set(p.SafeCurrencyCode(b.Currency), b.Available, types.ExDecimal{}, b.Amount)
	}
	return result, nil
}

// CreateOrder 创建订单
// params 中带 triggerPrice/stopPrice 时下 STOP_LIMIT 单，此时 condition 必填
func (p *Bitopro) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgsOptions(opts...)
	req, err := p.PrepareOrder(ctx, symbol, side, amount, args)
	if err != nil {
		return nil, err
	}

	params := map[string]interface{}{
		"pair":      req.Market.ID,
		"type":      strings.ToUpper(string(req.Type)),
		"action":    strings.ToUpper(string(req.Side)),
		"amount":    req.AmountString(),
		"timestamp": p.Nonce(),
	}
	if req.IsLimit() {
		params["price"] = req.PriceString()
	}

	extra := common.Extend(req.Params)
	stopPrice, hasStop := extra["triggerPrice"]
	if !hasStop {
		stopPrice, hasStop = extra["stopPrice"]
	}
	if hasStop {
		if !req.IsLimit() {
			return nil, exchange.Errorf(exchange.InvalidOrder, bitoproName, "%s createOrder() stop orders must be limit orders", bitoproName)
		}
		condition, _ := extra["condition"].(string)
		if condition == "" {
			return nil, exchange.Errorf(exchange.InvalidOrder, bitoproName, "%s createOrder() requires a condition parameter for STOP_LIMIT orders", bitoproName)
		}
		params["type"] = "STOP_LIMIT"
		params["stopPrice"] = common.PriceToPrecision(req.Market, types.ExDecimalFromAny(stopPrice).Decimal)
		params["condition"] = condition
		extra = common.Omit(extra, "triggerPrice", "stopPrice", "condition")
	}
	if req.PostOnly && req.IsLimit() {
		params["timeInForce"] = "POST_ONLY"
	}

	var raw json.RawMessage
	if err := p.private(ctx, http.MethodPost, "orders/{pair}", common.Extend(params, extra), &raw); err != nil {
		return nil, err
	}
	return p.decodeOrder(raw, req.Market)
}

// CancelOrder 取消订单，必须指定交易对
func (p *Bitopro) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := p.requireMarket(ctx, "cancelOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := common.Extend(map[string]interface{}{"pair": market.ID, "id": id}, args.Params)
	var raw json.RawMessage
	if err := p.private(ctx, http.MethodDelete, "orders/{pair}/{id}", params, &raw); err != nil {
		return nil, err
	}
	return p.decodeOrder(raw, market)
}

// CancelAllOrders 取消全部订单，symbol 为空时取消所有交易对，返回 交易对ID -> 订单ID 列表
func (p *Bitopro) CancelAllOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) (map[string][]string, error) {
	if _, err := p.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path := "orders/all"
	params := map[string]interface{}{}
	if symbol != "" {
		market, err := p.Market(symbol)
		if err != nil {
			return nil, err
		}
		path = "orders/{pair}"
		params["pair"] = market.ID
	}

	var resp struct {
		Data map[string][]string `json:"data"`
	}
	if err := p.private(ctx, http.MethodDelete, path, common.Extend(params, args.Params), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchOrder 查询订单，必须指定交易对
func (p *Bitopro) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := p.requireMarket(ctx, "fetchOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := common.Extend(map[string]interface{}{"pair": market.ID, "orderId": id}, args.Params)
	var raw json.RawMessage
	if err := p.private(ctx, http.MethodGet, "orders/{pair}/{orderId}", params, &raw); err != nil {
		return nil, err
	}
	return p.decodeOrder(raw, market)
}

// FetchOrders 查询订单列表，必须指定交易对
func (p *Bitopro) FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return p.fetchOrders(ctx, "fetchOrders", symbol, "", opts...)
}

// FetchOpenOrders 查询未完成订单
func (p *Bitopro) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return p.fetchOrders(ctx, "fetchOpenOrders", symbol, "OPEN", opts...)
}

// FetchClosedOrders 查询已完成订单
func (p *Bitopro) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return p.fetchOrders(ctx, "fetchClosedOrders", symbol, "DONE", opts...)
}

// fetchOrders statusKind 为 OPEN 或 DONE，空表示全部
func (p *Bitopro) fetchOrders(ctx context.Context, method, symbol, statusKind string, opts ...option.ArgsOption) ([]*model.Order, error) {
	market, err := p.requireMarket(ctx, method, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"pair": market.ID}
	if statusKind != "" {
		params["statusKind"] = statusKind
	}
	if args.Since != nil {
		params["startTimestamp"] = args.Since.UnixMilli()
	}
	if args.Until != nil {
		params["endTimestamp"] = args.Until.UnixMilli()
	}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}

	var resp bitoproData
	if err := p.private(ctx, http.MethodGet, "orders/all/{pair}", common.Extend(params, args.Params), &resp); err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := p.Decode(resp.Data, &rows); err != nil {
			return nil, err
		}
	}

	orders := make([]*model.Order, 0, len(rows))
	for _, row := range rows {
		order, err := p.decodeOrder(row, market)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return base.FilterOrders(orders, market.Symbol, args), nil
}

// FetchMyTrades 获取我的成交记录，必须指定交易对
func (p *Bitopro) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	market, err := p.requireMarket(ctx, "fetchMyTrades", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var resp bitoproData
	params := common.Extend(map[string]interface{}{"pair": market.ID}, args.Params)
	if err := p.private(ctx, http.MethodGet, "orders/trades/{pair}", params, &resp); err != nil {
		return nil, err
	}
	trades, err := p.parseTrades(resp.Data, market)
	if err != nil {
		return nil, err
	}
	return base.FilterTrades(trades, market.Symbol, args), nil
}

func (p *Bitopro) requireMarket(ctx context.Context, method, symbol string) (*model.Market, error) {
	if symbol == "" {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, bitoproName, "%s %s() requires the symbol argument", bitoproName, method)
	}
	return p.LoadMarket(ctx, symbol)
}

func (p *Bitopro) decodeOrder(data json.RawMessage, market *model.Market) (*model.Order, error) {
	var o bitoproOrder
	if err := p.Decode(data, &o); err != nil {
		return nil, err
	}
	return p.parseOrder(&o, data, market), nil
}

// parseOrder 解析订单
// 成交额不取交易所的 total 字段，由 均价 × 成交量 推导
func (p *Bitopro) parseOrder(o *bitoproOrder, info json.RawMessage, market *model.Market) *model.Order {
	id := o.ID
	if id == "" {
		id = o.OrderID
	}
	timestamp := o.Timestamp
	if timestamp.IsNull() {
		timestamp = o.CreatedTimestamp
	}

	order := &model.Order{
		ID:                 id,
		Timestamp:          timestamp,
		LastTradeTimestamp: o.UpdatedTimestamp,
		Symbol:             p.safeSymbol(o.Pair, market),
		Type:               model.ParseOrderType(o.Type),
		TimeInForce:        model.OrderTimeInForce(o.TimeInForce),
		Side:               model.ParseOrderSide(strings.ToLower(o.Action)),
		Status:             bitoproOrderStatus.Parse(o.Status.String()),
		Price:              o.Price,
		Average:            o.AvgExecutionPrice,
		Amount:             o.Amount.Or(o.OriginalAmount),
		Filled:             o.ExecutedAmount,
		Remaining:          o.RemainingAmount,
		Info:               types.Info(info),
	}
	if o.TimeInForce == "POST_ONLY" {
		order.PostOnly = model.BoolPtr(true)
		order.TimeInForce = model.OrderTimeInForcePO
	}
	if o.Fee.IsPositive() {
		order.Fee = &model.Fee{Currency: p.SafeCurrencyCode(o.FeeSymbol), Cost: o.Fee}
	}
	return model.SafeOrder(order)
}
