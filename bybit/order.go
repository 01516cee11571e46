package bybit

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

var bybitOrderStatus = model.StatusTable[model.OrderStatus]{
	"Created":                 model.OrderStatusOpen,
	"New":                     model.OrderStatusOpen,
	"PartiallyFilled":         model.OrderStatusOpen,
	"Untriggered":             model.OrderStatusOpen,
	"Triggered":               model.OrderStatusOpen,
	"Active":                  model.OrderStatusOpen,
	"Filled":                  model.OrderStatusClosed,
	"Cancelled":               model.OrderStatusCanceled,
	"PartiallyFilledCanceled": model.OrderStatusCanceled,
	"Deactivated":             model.OrderStatusCanceled,
	"Rejected":                model.OrderStatusRejected,
}

var bybitTimeInForce = map[model.OrderTimeInForce]string{
	model.OrderTimeInForceGTC: "GTC",
	model.OrderTimeInForceIOC: "IOC",
	model.OrderTimeInForceFOK: "FOK",
	model.OrderTimeInForcePO:  "PostOnly",
}

// defaultSettleCoin 合约查询未指定交易对时 Bybit 要求 settleCoin
const defaultSettleCoin = "USDT"

// FetchBalance 统一账户余额 /v5/account/wallet-balance
//   - total 为 walletBalance
//   - used 为 locked 与保证金占用之和
func (b *Bybit) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.Balances, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var result struct {
		List []bybitWallet `json:"list"`
	}
	var raw json.RawMessage
	params := common.Extend(map[string]interface{}{"accountType": "UNIFIED"}, args.Params)
	ts, err := b.call(ctx, &base.Request{API: "private", Private: true, Method: http.MethodGet, Path: "v5/account/wallet-balance", Params: params}, &raw)
	if err != nil {
		return nil, err
	}
	if err := b.Decode(raw, &result); err != nil {
		return nil, err
	}
	balances := model.NewBalances(types.Info(raw))
	balances.Timestamp = ts
	for _, account := range result.List {
		for _, c := range account.Coin {
			used := types.ExAdd(c.Locked.Or(types.NewExDecimalFromInt(0)), c.TotalOrderIM.Or(types.NewExDecimalFromInt(0)))
			used = types.ExAdd(used, c.TotalPositionIM.Or(types.NewExDecimalFromInt(0)))
			balances.Set(b.SafeCurrencyCode(c.Coin), types.ExDecimal{}, used, c.WalletBalance)
		}
	}
	return balances, nil
}

// CreateOrder 创建订单 /v5/order/create
//   - 现货市价单以基础币数量下单（marketUnit=baseCoin）
//   - PostOnly 通过 timeInForce=PostOnly 表达
func (b *Bybit) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgsOptions(opts...)
	req, err := b.PrepareOrder(ctx, symbol, side, amount, args)
	if err != nil {
		return nil, err
	}
	market := req.Market

	params := map[string]interface{}{
		"category":  category(market.Type),
		"symbol":    market.ID,
		"side":      sideID(req.Side),
		"orderType": "Market",
		"qty":       req.AmountString(),
	}
	tif := req.TimeInForce
	if req.PostOnly {
		if !req.IsLimit() {
			return nil, exchange.Errorf(exchange.InvalidOrder, bybitName, "%s createOrder() postOnly orders must be limit orders", bybitName)
		}
		tif = model.OrderTimeInForcePO
	}
	if req.IsLimit() {
		params["orderType"] = "Limit"
		params["price"] = req.PriceString()
		if tif == "" {
			tif = model.OrderTimeInForceGTC
		}
	} else if !market.Contract {
		params["marketUnit"] = "baseCoin"
	}
	if tif != "" {
		params["timeInForce"] = bybitTimeInForce[tif]
	}
	if req.ClientOrderID != "" {
		params["orderLinkId"] = req.ClientOrderID
	}
	if market.Contract && req.ReduceOnly {
		params["reduceOnly"] = true
	}

	var ack bybitOrderAck
	if err := b.private(ctx, http.MethodPost, "v5/order/create", common.Extend(params, req.Params), &ack); err != nil {
		return nil, err
	}
	if ack.OrderID == "" {
		return nil, b.emptyResponse("createOrder")
	}
	order := &model.Order{
		ID:            ack.OrderID,
		ClientOrderID: ack.OrderLinkID,
		Symbol:        market.Symbol,
		Type:          req.Type,
		Side:          req.Side,
		Status:        model.OrderStatusOpen,
		Amount:        types.ParseExDecimal(req.AmountString()),
		PostOnly:      model.BoolPtr(req.PostOnly),
		ReduceOnly:    model.BoolPtr(req.ReduceOnly),
		Info:          types.NewInfo(ack),
	}
	if req.IsLimit() {
		order.Price = types.ParseExDecimal(req.PriceString())
		order.TimeInForce = tif
	}
	return order, nil
}

// CancelOrder 取消订单 /v5/order/cancel，必须指定交易对
func (b *Bybit) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := b.requireMarket(ctx, "cancelOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var ack bybitOrderAck
	params := common.Extend(orderIDParams(market, id, args), args.Params)
	if err := b.private(ctx, http.MethodPost, "v5/order/cancel", params, &ack); err != nil {
		return nil, err
	}
	return &model.Order{
		ID:            ack.OrderID,
		ClientOrderID: ack.OrderLinkID,
		Symbol:        market.Symbol,
		Status:        model.OrderStatusCanceled,
		Info:          types.NewInfo(ack),
	}, nil
}

// FetchOrder 先查 /v5/order/realtime，未找到再查 /v5/order/history
func (b *Bybit) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := b.requireMarket(ctx, "fetchOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := common.Extend(orderIDParams(market, id, args), args.Params)
	for _, path := range []string{"v5/order/realtime", "v5/order/history"} {
		var result bybitList
		if err := b.private(ctx, http.MethodGet, path, params, &result); err != nil {
			return nil, err
		}
		if len(result.List) > 0 {
			return b.decodeOrder(result.List[0], market)
		}
	}
	return nil, exchange.Errorf(exchange.OrderNotFound, bybitName, "%s order %s not found", bybitName, id)
}

// FetchOrders 合并未完成订单与历史订单，同一订单只保留一条
func (b *Bybit) FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	open, err := b.FetchOpenOrders(ctx, symbol, opts...)
	if err != nil {
		return nil, err
	}
	closed, err := b.FetchClosedOrders(ctx, symbol, opts...)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(open)+len(closed))
	merged := make([]*model.Order, 0, len(open)+len(closed))
	for _, o := range append(open, closed...) {
		if _, ok := seen[o.ID]; ok {
			continue
		}
		seen[o.ID] = struct{}{}
		merged = append(merged, o)
	}
	return base.FilterOrders(merged, "", option.ApplyArgsOptions(opts...)), nil
}

// FetchOpenOrders /v5/order/realtime
func (b *Bybit) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	orders, err := b.fetchOrderList(ctx, "v5/order/realtime", symbol, opts...)
	if err != nil {
		return nil, err
	}
	open := orders[:0]
	for _, o := range orders {
		if o.Status == model.OrderStatusOpen {
			open = append(open, o)
		}
	}
	return open, nil
}

// FetchClosedOrders /v5/order/history，未完成的订单被过滤
func (b *Bybit) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	orders, err := b.fetchOrderList(ctx, "v5/order/history", symbol, opts...)
	if err != nil {
		return nil, err
	}
	closed := orders[:0]
	for _, o := range orders {
		if o.Status != model.OrderStatusOpen {
			closed = append(closed, o)
		}
	}
	return closed, nil
}

func (b *Bybit) fetchOrderList(ctx context.Context, path, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	market, err := b.optionalMarket(symbol)
	if err != nil {
		return nil, err
	}
	var result bybitList
	if err := b.private(ctx, http.MethodGet, path, common.Extend(rangeParams(market, args), args.Params), &result); err != nil {
		return nil, err
	}
	orders := make([]*model.Order, 0, len(result.List))
	for _, row := range result.List {
		order, err := b.decodeOrderIn(row, market, categoryOf(args, market))
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return base.FilterOrders(orders, symbol, args), nil
}

// FetchMyTrades /v5/execution/list
func (b *Bybit) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	market, err := b.optionalMarket(symbol)
	if err != nil {
		return nil, err
	}
	cat := categoryOf(args, market)
	var result bybitList
	if err := b.private(ctx, http.MethodGet, "v5/execution/list", common.Extend(rangeParams(market, args), args.Params), &result); err != nil {
		return nil, err
	}
	trades := make([]*model.Trade, 0, len(result.List))
	for _, row := range result.List {
		var e bybitExecution
		if err := b.Decode(row, &e); err != nil {
			return nil, err
		}
		trade := &model.Trade{
			ID:           e.ExecID,
			Order:        e.OrderID,
			Timestamp:    e.ExecTime,
			Symbol:       b.SafeSymbol(e.Symbol, market, marketType(cat)),
			Type:         model.ParseOrderType(e.OrderType),
			Side:         model.ParseOrderSide(e.Side),
			TakerOrMaker: model.Taker,
			Price:        e.ExecPrice,
			Amount:       e.ExecQty,
			Cost:         e.ExecValue,
			Info:         types.Info(row),
		}
		if e.IsMaker {
			trade.TakerOrMaker = model.Maker
		}
		if e.ExecFee.Valid {
			trade.Fee = &model.Fee{Currency: b.feeCurrency(&e, cat), Cost: e.ExecFee}
		}
		trades = append(trades, model.SafeTrade(trade))
	}
	return base.FilterTrades(trades, symbol, args), nil
}

// feeCurrency 合约手续费以结算币计，现货以 feeCurrency 为准
func (b *Bybit) feeCurrency(e *bybitExecution, cat string) string {
	if e.FeeCurrency != "" {
		return b.SafeCurrencyCode(e.FeeCurrency)
	}
	if m := b.SafeMarket(e.Symbol, marketType(cat)); m != nil && m.Contract {
		return m.Settle
	}
	return ""
}

func (b *Bybit) requireMarket(ctx context.Context, method, symbol string) (*model.Market, error) {
	if symbol == "" {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, bybitName, "%s %s() requires the symbol argument", bybitName, method)
	}
	return b.LoadMarket(ctx, symbol)
}

func (b *Bybit) optionalMarket(symbol string) (*model.Market, error) {
	if symbol == "" {
		return nil, nil
	}
	return b.Market(symbol)
}

func sideID(side model.OrderSide) string {
	if side == model.OrderSideSell {
		return "Sell"
	}
	return "Buy"
}

func orderIDParams(market *model.Market, id string, args *option.ExchangeArgsOptions) map[string]interface{} {
	params := map[string]interface{}{"category": category(market.Type), "symbol": market.ID}
	if id == "" && args.ClientOrderID != nil {
		params["orderLinkId"] = *args.ClientOrderID
	} else {
		params["orderId"] = id
	}
	return params
}

// rangeParams 时间范围以 startTime/endTime 毫秒时间戳过滤
func rangeParams(market *model.Market, args *option.ExchangeArgsOptions) map[string]interface{} {
	cat := categoryOf(args, market)
	params := map[string]interface{}{"category": cat}
	if market != nil {
		params["symbol"] = market.ID
	} else if cat == "linear" {
		params["settleCoin"] = defaultSettleCoin
	}
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

func (b *Bybit) decodeOrder(data json.RawMessage, market *model.Market) (*model.Order, error) {
	return b.decodeOrderIn(data, market, category(market.Type))
}

func (b *Bybit) decodeOrderIn(data json.RawMessage, market *model.Market, cat string) (*model.Order, error) {
	var ord bybitOrder
	if err := b.Decode(data, &ord); err != nil {
		return nil, err
	}
	if m := b.SafeMarket(ord.Symbol, marketType(cat)); m != nil {
		market = m
	}
	return b.parseOrder(&ord, data, market), nil
}

// parseOrder 成交额取 cumExecValue，缺失时由 均价 × 成交量 推导
func (b *Bybit) parseOrder(ord *bybitOrder, info json.RawMessage, market *model.Market) *model.Order {
	order := &model.Order{
		ID:                 ord.OrderID,
		ClientOrderID:      ord.OrderLinkID,
		Timestamp:          ord.CreatedTime,
		LastTradeTimestamp: ord.UpdatedTime,
		Type:               model.ParseOrderType(ord.OrderType),
		TimeInForce:        model.ParseTimeInForce(ord.TimeInForce),
		Side:               model.ParseOrderSide(ord.Side),
		Status:             bybitOrderStatus.Parse(ord.OrderStatus),
		Price:              ord.Price,
		Amount:             ord.Qty,
		Filled:             ord.CumExecQty,
		Remaining:          ord.LeavesQty,
		Cost:               ord.CumExecValue,
		PostOnly:           model.BoolPtr(ord.TimeInForce == "PostOnly"),
		ReduceOnly:         model.BoolPtr(ord.ReduceOnly),
		Info:               types.Info(info),
	}
	if ord.AvgPrice.IsPositive() {
		order.Average = ord.AvgPrice
	}
	if order.Type == model.OrderTypeMarket && order.Price.Valid && order.Price.Decimal.IsZero() {
		order.Price = types.ExDecimal{}
	}
	if !order.Filled.IsPositive() {
		order.LastTradeTimestamp = types.ExTimestamp{}
	}
	if market != nil {
		order.Symbol = market.Symbol
		if ord.CumExecFee.Valid {
			currency := market.Settle
			if !market.Contract {
				currency = market.Quote
				if order.Side == model.OrderSideBuy {
					currency = market.Base
				}
			}
			order.Fee = &model.Fee{Currency: currency, Cost: ord.CumExecFee}
		}
	}
	return model.SafeOrder(order)
}
