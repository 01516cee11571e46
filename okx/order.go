package okx

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

var okxOrderStatus = model.StatusTable[model.OrderStatus]{
	"live":             model.OrderStatusOpen,
	"partially_filled": model.OrderStatusOpen,
	"filled":           model.OrderStatusClosed,
	"canceled":         model.OrderStatusCanceled,
	"mmp_canceled":     model.OrderStatusCanceled,
}

var okxOrderType = model.StatusTable[model.OrderType]{
	"market":    model.OrderTypeMarket,
	"limit":     model.OrderTypeLimit,
	"post_only": model.OrderTypeLimit,
	"fok":       model.OrderTypeLimit,
	"ioc":       model.OrderTypeLimit,
}

// FetchBalance 统一账户余额 /api/v5/account/balance，现货与合约共用
func (o *OKX) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.Balances, error) {
	if _, err := o.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var raw json.RawMessage
	if err := o.private(ctx, http.MethodGet, "account/balance", args.Params, &raw); err != nil {
		return nil, err
	}
	var rows []okxBalance
	if err := o.Decode(raw, &rows); err != nil {
		return nil, err
	}
	result := model.NewBalances(types.Info(raw))
	if len(rows) == 0 {
		return result, nil
	}
	result.Timestamp = rows[0].UTime
	for _, d := range rows[0].Details {
		result.Set(o.SafeCurrencyCode(d.Ccy), d.AvailBal, d.FrozenBal, d.Eq.Or(d.CashBal))
	}
	return result, nil
}

// CreateOrder 创建订单
//   - 现货 tdMode=cash，合约 tdMode=cross，可通过 params 覆盖
//   - 现货市价单按基础币数量下单（tgtCcy=base_ccy）
//   - PostOnly 使用 ordType=post_only，IOC/FOK 使用对应 ordType
func (o *OKX) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgsOptions(opts...)
	req, err := o.PrepareOrder(ctx, symbol, side, amount, args)
	if err != nil {
		return nil, err
	}
	market := req.Market

	ordType := string(req.Type)
	switch {
	case req.PostOnly:
		if !req.IsLimit() {
			return nil, exchange.Errorf(exchange.InvalidOrder, okxName, "%s createOrder() postOnly orders must be limit orders", okxName)
		}
		ordType = "post_only"
	case req.IsLimit() && req.TimeInForce == model.OrderTimeInForceIOC:
		ordType = "ioc"
	case req.IsLimit() && req.TimeInForce == model.OrderTimeInForceFOK:
		ordType = "fok"
	}

	params := map[string]interface{}{
		"instId":  market.ID,
		"side":    string(req.Side),
		"ordType": ordType,
		"sz":      req.AmountString(),
	}
	if req.IsLimit() {
		params["px"] = req.PriceString()
	}
	if market.Contract {
		params["tdMode"] = "cross"
		if req.ReduceOnly {
			params["reduceOnly"] = true
		}
	} else {
		params["tdMode"] = "cash"
		if !req.IsLimit() {
			params["tgtCcy"] = "base_ccy"
		}
	}
	if req.ClientOrderID != "" {
		params["clOrdId"] = req.ClientOrderID
	}

	var acks []okxOrderAck
	if err := o.private(ctx, http.MethodPost, "trade/order", common.Extend(params, req.Params), &acks); err != nil {
		return nil, err
	}
	if len(acks) == 0 {
		return nil, o.emptyResponse("createOrder")
	}
	ack := acks[0]
	order := &model.Order{
		ID:            ack.OrdID,
		ClientOrderID: ack.ClOrdID,
		Timestamp:     ack.Ts,
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
		order.TimeInForce = req.TimeInForce
		if order.TimeInForce == "" {
			order.TimeInForce = model.OrderTimeInForceGTC
		}
		if req.PostOnly {
			order.TimeInForce = model.OrderTimeInForcePO
		}
	}
	return order, nil
}

// CancelOrder 取消订单，必须指定交易对
func (o *OKX) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := o.requireMarket(ctx, "cancelOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var acks []okxOrderAck
	params := common.Extend(orderIDParams(market, id, args), args.Params)
	if err := o.private(ctx, http.MethodPost, "trade/cancel-order", params, &acks); err != nil {
		return nil, err
	}
	if len(acks) == 0 {
		return nil, o.emptyResponse("cancelOrder")
	}
	return &model.Order{
		ID:            acks[0].OrdID,
		ClientOrderID: acks[0].ClOrdID,
		Timestamp:     acks[0].Ts,
		Symbol:        market.Symbol,
		Status:        model.OrderStatusCanceled,
		Info:          types.NewInfo(acks[0]),
	}, nil
}

// FetchOrder 查询订单，必须指定交易对
func (o *OKX) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := o.requireMarket(ctx, "fetchOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var rows []json.RawMessage
	params := common.Extend(orderIDParams(market, id, args), args.Params)
	if err := o.private(ctx, http.MethodGet, "trade/order", params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, exchange.Errorf(exchange.OrderNotFound, okxName, "%s order %s not found", okxName, id)
	}
	return o.decodeOrder(rows[0], market)
}

// FetchOrders 合并未完成订单与最近 7 天的历史订单，按创建时间升序
func (o *OKX) FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	open, err := o.FetchOpenOrders(ctx, symbol, opts...)
	if err != nil {
		return nil, err
	}
	closed, err := o.FetchClosedOrders(ctx, symbol, opts...)
	if err != nil {
		return nil, err
	}
	return base.FilterOrders(append(open, closed...), "", option.ApplyArgsOptions(opts...)), nil
}

// FetchOpenOrders /api/v5/trade/orders-pending，symbol 为空时按 MarketType 查询
func (o *OKX) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return o.fetchOrderList(ctx, "trade/orders-pending", symbol, opts...)
}

// FetchClosedOrders /api/v5/trade/orders-history
func (o *OKX) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return o.fetchOrderList(ctx, "trade/orders-history", symbol, opts...)
}

func (o *OKX) fetchOrderList(ctx context.Context, path, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	if _, err := o.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var market *model.Market
	if symbol != "" {
		m, err := o.Market(symbol)
		if err != nil {
			return nil, err
		}
		market = m
	}
	params := rangeParams(market, args)
	var rows []json.RawMessage
	if err := o.private(ctx, http.MethodGet, path, common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	orders := make([]*model.Order, 0, len(rows))
	for _, row := range rows {
		order, err := o.decodeOrder(row, market)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return base.FilterOrders(orders, symbol, args), nil
}

// FetchMyTrades /api/v5/trade/fills，最近 3 天的成交
func (o *OKX) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	if _, err := o.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var market *model.Market
	if symbol != "" {
		m, err := o.Market(symbol)
		if err != nil {
			return nil, err
		}
		market = m
	}
	var rows []json.RawMessage
	if err := o.private(ctx, http.MethodGet, "trade/fills", common.Extend(rangeParams(market, args), args.Params), &rows); err != nil {
		return nil, err
	}
	trades := make([]*model.Trade, 0, len(rows))
	for _, row := range rows {
		var f okxFill
		if err := o.Decode(row, &f); err != nil {
			return nil, err
		}
		m := market
		if m == nil {
			m = o.SafeMarket(f.InstID, "")
		}
		trade := &model.Trade{
			ID:        f.TradeID,
			Order:     f.OrdID,
			Timestamp: f.Ts,
			Side:      model.ParseOrderSide(f.Side),
			Price:     f.FillPx,
			Amount:    f.FillSz,
			Info:      types.Info(row),
		}
		switch f.ExecType {
		case "T":
			trade.TakerOrMaker = model.Taker
		case "M":
			trade.TakerOrMaker = model.Maker
		}
		if m != nil {
			trade.Symbol = m.Symbol
			trade.Cost = contractCost(m, f.FillPx, f.FillSz)
		}
		if f.Fee.Valid {
			trade.Fee = &model.Fee{Currency: o.SafeCurrencyCode(f.FeeCcy), Cost: negate(f.Fee)}
		}
		trades = append(trades, model.SafeTrade(trade))
	}
	return base.FilterTrades(trades, symbol, args), nil
}

func (o *OKX) requireMarket(ctx context.Context, method, symbol string) (*model.Market, error) {
	if symbol == "" {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, okxName, "%s %s() requires the symbol argument", okxName, method)
	}
	return o.LoadMarket(ctx, symbol)
}

func orderIDParams(market *model.Market, id string, args *option.ExchangeArgsOptions) map[string]interface{} {
	params := map[string]interface{}{"instId": market.ID}
	if id == "" && args.ClientOrderID != nil {
		params["clOrdId"] = *args.ClientOrderID
	} else {
		params["ordId"] = id
	}
	return params
}

// rangeParams OKX 分页以 begin/end 毫秒时间戳过滤
func rangeParams(market *model.Market, args *option.ExchangeArgsOptions) map[string]interface{} {
	params := map[string]interface{}{"instType": instTypeOf(args, market)}
	if market != nil {
		params["instId"] = market.ID
	}
	if args.Since != nil {
		params["begin"] = args.Since.UnixMilli()
	}
	if args.Until != nil {
		params["end"] = args.Until.UnixMilli()
	}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	return params
}

func (o *OKX) decodeOrder(data json.RawMessage, market *model.Market) (*model.Order, error) {
	var ord okxOrder
	if err := o.Decode(data, &ord); err != nil {
		return nil, err
	}
	if m := o.SafeMarket(ord.InstID, ""); m != nil {
		market = m
	}
	return o.parseOrder(&ord, data, market), nil
}

// parseOrder 成交额 = 均价 × 成交量（合约再乘面值）；
// tgtCcy=quote_ccy 的现货市价买单 sz 即为成交额
func (o *OKX) parseOrder(ord *okxOrder, info json.RawMessage, market *model.Market) *model.Order {
	order := &model.Order{
		ID:                 ord.OrdID,
		ClientOrderID:      ord.ClOrdID,
		Timestamp:          ord.CTime,
		LastTradeTimestamp: ord.FillTime,
		Type:               okxOrderType.Parse(ord.OrdType),
		Side:               model.ParseOrderSide(ord.Side),
		Status:             okxOrderStatus.Parse(ord.State),
		Price:              ord.Px,
		Amount:             ord.Sz,
		Filled:             ord.AccFillSz,
		PostOnly:           model.BoolPtr(ord.OrdType == "post_only"),
		ReduceOnly:         model.BoolPtr(ord.ReduceOnly == "true"),
		Info:               types.Info(info),
	}
	switch ord.OrdType {
	case "post_only":
		order.TimeInForce = model.OrderTimeInForcePO
	case "ioc":
		order.TimeInForce = model.OrderTimeInForceIOC
	case "fok":
		order.TimeInForce = model.OrderTimeInForceFOK
	case "limit":
		order.TimeInForce = model.OrderTimeInForceGTC
	}
	if ord.AvgPx.IsPositive() {
		order.Average = ord.AvgPx
	}
	if order.Type == model.OrderTypeMarket && order.Price.Valid && order.Price.Decimal.IsZero() {
		order.Price = types.ExDecimal{}
	}

	quoteAmount := ord.TgtCcy == "quote_ccy" && order.Type == model.OrderTypeMarket && order.Side == model.OrderSideBuy
	if market != nil {
		order.Symbol = market.Symbol
		if market.Contract {
			order.Cost = types.ExMul(types.ExMul(order.Average, order.Filled), market.ContractSize)
		}
	}
	if quoteAmount {
		order.Cost = ord.Sz
		order.Amount = types.ExDecimal{}
	}

	if ord.Fee.Valid && ord.FeeCcy != "" {
		order.Fee = &model.Fee{Currency: o.SafeCurrencyCode(ord.FeeCcy), Cost: negate(ord.Fee)}
	}
	return model.SafeOrder(order)
}
