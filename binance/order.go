package binance

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

var binanceOrderStatus = model.StatusTable[model.OrderStatus]{
	"NEW":              model.OrderStatusOpen,
	"PARTIALLY_FILLED": model.OrderStatusOpen,
	"FILLED":           model.OrderStatusClosed,
	"CANCELED":         model.OrderStatusCanceled,
	"PENDING_CANCEL":   model.OrderStatusCanceled,
	"REJECTED":         model.OrderStatusRejected,
	"EXPIRED":          model.OrderStatusExpired,
	"EXPIRED_IN_MATCH": model.OrderStatusExpired,
}

var binanceOrderType = model.StatusTable[model.OrderType]{
	"LIMIT":       model.OrderTypeLimit,
	"LIMIT_MAKER": model.OrderTypeLimit,
	"MARKET":      model.OrderTypeMarket,
}

// parseOrderType 条件单（STOP_MARKET、TAKE_PROFIT_LIMIT 等）以小写原样保留
func parseOrderType(raw string) model.OrderType {
	if t, ok := binanceOrderType[raw]; ok {
		return t
	}
	return model.OrderType(strings.ToLower(raw))
}

// FetchBalance 获取余额，默认现货；option.WithMarketType(model.MarketTypeSwap) 查询 U 本位合约账户
func (b *Binance) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.Balances, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	if isContract(args, nil) {
		var raw json.RawMessage
		if err := b.request(ctx, "fapiPrivate", http.MethodGet, "fapi/v2/balance", args.Params, &raw); err != nil {
			return nil, err
		}
		var rows []binanceFuturesBalance
		if err := b.Decode(raw, &rows); err != nil {
			return nil, err
		}
		result := model.NewBalances(types.Info(raw))
		for _, r := range rows {
			result.Set(b.SafeCurrencyCode(r.Asset), r.AvailableBalance, types.ExDecimal{}, r.Balance)
		}
		return result, nil
	}

	var raw json.RawMessage
	if err := b.request(ctx, "private", http.MethodGet, "api/v3/account", args.Params, &raw); err != nil {
		return nil, err
	}
	var account binanceSpotAccount
	if err := b.Decode(raw, &account); err != nil {
		return nil, err
	}
	result := model.NewBalances(types.Info(raw))
	result.Timestamp = account.UpdateTime
	for _, r := range account.Balances {
		result.Set(b.SafeCurrencyCode(r.Asset), r.Free, r.Locked, types.ExDecimal{})
	}
	return result, nil
}

// CreateOrder 创建订单
//   - 现货 PostOnly 限价单使用 LIMIT_MAKER，合约使用 timeInForce=GTX
//   - params 中带 triggerPrice/stopPrice 时下止损单
func (b *Binance) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgsOptions(opts...)
	req, err := b.PrepareOrder(ctx, symbol, side, amount, args)
	if err != nil {
		return nil, err
	}
	market := req.Market

	orderType := strings.ToUpper(string(req.Type))
	params := map[string]interface{}{
		"symbol":   market.ID,
		"side":     strings.ToUpper(string(req.Side)),
		"quantity": req.AmountString(),
	}
	if req.IsLimit() {
		params["price"] = req.PriceString()
		tif := req.TimeInForce
		if tif == "" || tif == model.OrderTimeInForcePO {
			tif = model.OrderTimeInForceGTC
		}
		params["timeInForce"] = string(tif)
	}
	if req.PostOnly {
		if !req.IsLimit() {
			return nil, exchange.Errorf(exchange.InvalidOrder, binanceName, "%s createOrder() postOnly orders must be limit orders", binanceName)
		}
		if market.Contract {
			params["timeInForce"] = "GTX"
		} else {
			orderType = "LIMIT_MAKER"
			delete(params, "timeInForce")
		}
	}

	extra := common.Extend(req.Params)
	stopPrice, hasStop := extra["triggerPrice"]
	if !hasStop {
		stopPrice, hasStop = extra["stopPrice"]
	}
	if hasStop {
		extra = common.Omit(extra, "triggerPrice", "stopPrice")
		params["stopPrice"] = common.PriceToPrecision(market, types.ExDecimalFromAny(stopPrice).Decimal)
		switch {
		case market.Contract && req.IsLimit():
			orderType = "STOP"
		case market.Contract:
			orderType = "STOP_MARKET"
		case req.IsLimit():
			orderType = "STOP_LOSS_LIMIT"
		default:
			orderType = "STOP_LOSS"
		}
	}
	params["type"] = orderType

	if req.ClientOrderID != "" {
		params["newClientOrderId"] = req.ClientOrderID
	}
	path := "api/v3/order"
	if market.Contract {
		path = "fapi/v1/order"
		if req.ReduceOnly {
			params["reduceOnly"] = "true"
		}
	} else {
		params["newOrderRespType"] = "FULL"
	}

	var raw json.RawMessage
	if err := b.privateCall(ctx, market.Contract, http.MethodPost, path, common.Extend(params, extra), &raw); err != nil {
		return nil, err
	}
	return b.decodeOrder(raw, market)
}

// CancelOrder 取消订单，必须指定交易对
// 通过 option.WithClientOrderID 指定时按客户端订单ID撤单
func (b *Binance) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := b.requireMarket(ctx, "cancelOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path := "api/v3/order"
	if market.Contract {
		path = "fapi/v1/order"
	}
	var raw json.RawMessage
	params := common.Extend(b.orderIDParams(market, id, args), args.Params)
	if err := b.privateCall(ctx, market.Contract, http.MethodDelete, path, params, &raw); err != nil {
		return nil, err
	}
	return b.decodeOrder(raw, market)
}

// CancelAllOrders 取消交易对下全部未完成订单
func (b *Binance) CancelAllOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	market, err := b.requireMarket(ctx, "cancelAllOrders", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := common.Extend(map[string]interface{}{"symbol": market.ID}, args.Params)
	if market.Contract {
		var ack json.RawMessage
		if err := b.privateCall(ctx, true, http.MethodDelete, "fapi/v1/allOpenOrders", params, &ack); err != nil {
			return nil, err
		}
		return []*model.Order{}, nil
	}
	var rows []json.RawMessage
	if err := b.privateCall(ctx, false, http.MethodDelete, "api/v3/openOrders", params, &rows); err != nil {
		return nil, err
	}
	return b.decodeOrders(rows, market)
}

// FetchOrder 查询订单，必须指定交易对
func (b *Binance) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := b.requireMarket(ctx, "fetchOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path := "api/v3/order"
	if market.Contract {
		path = "fapi/v1/order"
	}
	var raw json.RawMessage
	params := common.Extend(b.orderIDParams(market, id, args), args.Params)
	if err := b.privateCall(ctx, market.Contract, http.MethodGet, path, params, &raw); err != nil {
		return nil, err
	}
	return b.decodeOrder(raw, market)
}

// FetchOrders 查询历史订单，必须指定交易对
func (b *Binance) FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	market, err := b.requireMarket(ctx, "fetchOrders", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path := "api/v3/allOrders"
	if market.Contract {
		path = "fapi/v1/allOrders"
	}
	var rows []json.RawMessage
	params := common.Extend(rangeParams(market, args), args.Params)
	if err := b.privateCall(ctx, market.Contract, http.MethodGet, path, params, &rows); err != nil {
		return nil, err
	}
	orders, err := b.decodeOrders(rows, market)
	if err != nil {
		return nil, err
	}
	return base.FilterOrders(orders, market.Symbol, args), nil
}

// FetchOpenOrders 查询未完成订单，symbol 为空时按 MarketType 查询全部交易对
func (b *Binance) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var market *model.Market
	params := map[string]interface{}{}
	if symbol != "" {
		m, err := b.Market(symbol)
		if err != nil {
			return nil, err
		}
		market = m
		params["symbol"] = m.ID
	}
	contract := isContract(args, market)
	path := "api/v3/openOrders"
	if contract {
		path = "fapi/v1/openOrders"
	}

	var rows []json.RawMessage
	if err := b.privateCall(ctx, contract, http.MethodGet, path, common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	orders, err := b.decodeOrders(rows, market)
	if err != nil {
		return nil, err
	}
	return base.FilterOrders(orders, symbol, args), nil
}

// FetchClosedOrders 历史订单中非 open 状态的订单
func (b *Binance) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	orders, err := b.FetchOrders(ctx, symbol, opts...)
	if err != nil {
		return nil, err
	}
	closed := make([]*model.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != model.OrderStatusOpen {
			closed = append(closed, o)
		}
	}
	return closed, nil
}

// FetchMyTrades 获取我的成交记录，必须指定交易对
func (b *Binance) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	market, err := b.requireMarket(ctx, "fetchMyTrades", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path := "api/v3/myTrades"
	if market.Contract {
		path = "fapi/v1/userTrades"
	}
	var rows []json.RawMessage
	params := common.Extend(rangeParams(market, args), args.Params)
	if err := b.privateCall(ctx, market.Contract, http.MethodGet, path, params, &rows); err != nil {
		return nil, err
	}
	trades, err := b.parseTrades(rows, market)
	if err != nil {
		return nil, err
	}
	return base.FilterTrades(trades, market.Symbol, args), nil
}

func (b *Binance) requireMarket(ctx context.Context, method, symbol string) (*model.Market, error) {
	if symbol == "" {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, binanceName, "%s %s() requires the symbol argument", binanceName, method)
	}
	return b.LoadMarket(ctx, symbol)
}

func (b *Binance) orderIDParams(market *model.Market, id string, args *option.ExchangeArgsOptions) map[string]interface{} {
	params := map[string]interface{}{"symbol": market.ID}
	if id == "" && args.ClientOrderID != nil {
		params["origClientOrderId"] = *args.ClientOrderID
	} else {
		params["orderId"] = id
	}
	return params
}

func rangeParams(market *model.Market, args *option.ExchangeArgsOptions) map[string]interface{} {
	params := map[string]interface{}{"symbol": market.ID}
	if args.Since != nil {
		params["startTime"] = args.Since.UnixMilli()
	}
	if args.Until != nil {
		params["endTime"] = args.Until.UnixMilli()
	}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	return params
}

func (b *Binance) decodeOrders(rows []json.RawMessage, market *model.Market) ([]*model.Order, error) {
	orders := make([]*model.Order, 0, len(rows))
	for _, row := range rows {
		order, err := b.decodeOrder(row, market)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// decodeOrder market 为空时按订单中的 symbol 查找，合约优先由 cumQuote 字段判断
func (b *Binance) decodeOrder(data json.RawMessage, market *model.Market) (*model.Order, error) {
	var o binanceOrder
	if err := b.Decode(data, &o); err != nil {
		return nil, err
	}
	if market == nil {
		marketType := model.MarketTypeSpot
		if o.CumQuote.Valid {
			marketType = model.MarketTypeSwap
		}
		market = b.SafeMarket(o.Symbol, marketType)
	}
	return b.parseOrder(&o, data, market), nil
}

// parseOrder 成交额优先取交易所返回的 cummulativeQuoteQty / cumQuote，缺失时由 均价 × 成交量 推导
// 合约订单不带手续费，按市场费率推导
func (b *Binance) parseOrder(o *binanceOrder, info json.RawMessage, market *model.Market) *model.Order {
	order := &model.Order{
		ID:                 formatID(o.OrderID),
		ClientOrderID:      o.ClientOrderID,
		Timestamp:          firstTimestamp(o.Time, o.TransactTime, o.UpdateTime),
		LastTradeTimestamp: o.UpdateTime,
		Type:               parseOrderType(o.Type),
		TimeInForce:        model.ParseTimeInForce(o.TimeInForce),
		Side:               model.ParseOrderSide(o.Side),
		Status:             binanceOrderStatus.Parse(o.Status),
		Price:              o.Price,
		Amount:             o.OrigQty,
		Filled:             o.ExecutedQty,
		Cost:               o.CummulativeQuoteQty.Or(o.CumQuote),
		ReduceOnly:         o.ReduceOnly,
		Info:               types.Info(info),
	}
	if market != nil {
		order.Symbol = market.Symbol
	}
	if o.AvgPrice.IsPositive() {
		order.Average = o.AvgPrice
	}
	if order.Type == model.OrderTypeMarket && order.Price.Valid && order.Price.Decimal.IsZero() {
		order.Price = types.ExDecimal{}
	}
	order.PostOnly = model.BoolPtr(o.Type == "LIMIT_MAKER" || o.TimeInForce == "GTX")

	if len(o.Fills) > 0 && market != nil {
		var feeCost types.ExDecimal
		feeAsset := ""
		for _, f := range o.Fills {
			trade := model.SafeTrade(&model.Trade{
				ID:        formatID(f.TradeID),
				Order:     order.ID,
				Timestamp: order.Timestamp,
				Symbol:    market.Symbol,
				Type:      order.Type,
				Side:      order.Side,
				Price:     f.Price,
				Amount:    f.Qty,
				Fee:       &model.Fee{Currency: b.SafeCurrencyCode(f.CommissionAsset), Cost: f.Commission},
			})
			order.Trades = append(order.Trades, trade)
			if feeAsset == "" || feeAsset == f.CommissionAsset {
				feeAsset = f.CommissionAsset
				if feeCost.IsNull() {
					feeCost = f.Commission
				} else {
					feeCost = types.ExAdd(feeCost, f.Commission)
				}
			}
		}
		order.Fee = &model.Fee{Currency: b.SafeCurrencyCode(feeAsset), Cost: feeCost}
	}
	order = model.SafeOrder(order)
	if order.Fee == nil && market != nil && market.Contract && order.Cost.IsPositive() {
		order.Fee = common.FeeFromCost(market, orderRole(order), order.Cost)
	}
	return order
}

// orderRole 订单接口不返回成交角色，只做 Maker 的订单按 maker 计，其余按 taker
func orderRole(order *model.Order) model.TakerOrMaker {
	if order.PostOnly != nil && *order.PostOnly {
		return model.Maker
	}
	return model.Taker
}

func firstTimestamp(ts ...types.ExTimestamp) types.ExTimestamp {
	for _, t := range ts {
		if !t.IsNull() {
			return t
		}
	}
	return types.ExTimestamp{}
}
