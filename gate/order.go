package gate

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

var gateOrderStatus = model.StatusTable[model.OrderStatus]{
	"open":      model.OrderStatusOpen,
	"closed":    model.OrderStatusClosed,
	"finished":  model.OrderStatusClosed,
	"cancelled": model.OrderStatusCanceled,
}

// gateFinishAs 订单结束原因，优先于 status
var gateFinishAs = model.StatusTable[model.OrderStatus]{
	"filled":           model.OrderStatusClosed,
	"liquidated":       model.OrderStatusClosed,
	"auto_deleveraged": model.OrderStatusClosed,
	"cancelled":        model.OrderStatusCanceled,
	"ioc":              model.OrderStatusCanceled,
	"poc":              model.OrderStatusCanceled,
	"fok":              model.OrderStatusCanceled,
	"stp":              model.OrderStatusCanceled,
	"reduce_only":      model.OrderStatusCanceled,
	"position_closed":  model.OrderStatusCanceled,
	"failed":           model.OrderStatusRejected,
	"expired":          model.OrderStatusExpired,
}

var gateTimeInForce = map[model.OrderTimeInForce]string{
	model.OrderTimeInForceGTC: "gtc",
	model.OrderTimeInForceIOC: "ioc",
	model.OrderTimeInForceFOK: "fok",
	model.OrderTimeInForcePO:  "poc",
}

var gateTimeInForceIDs = model.StatusTable[model.OrderTimeInForce]{
	"gtc": model.OrderTimeInForceGTC,
	"ioc": model.OrderTimeInForceIOC,
	"fok": model.OrderTimeInForceFOK,
	"poc": model.OrderTimeInForcePO,
}

// clientOrderPrefix Gate 要求自定义订单ID以 t- 开头
const clientOrderPrefix = "t-"

func parseStatus(status, finishAs string) model.OrderStatus {
	if status != "open" && finishAs != "" && finishAs != "open" {
		return gateFinishAs.Parse(finishAs)
	}
	return gateOrderStatus.Parse(status)
}

// FetchBalance 现货 spot/accounts，合约 futures/usdt/accounts
func (g *Gate) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.Balances, error) {
	if _, err := g.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var raw json.RawMessage
	if isSwap(args, nil) {
		if err := g.private(ctx, http.MethodGet, "futures/"+settle+"/accounts", args.Params, &raw); err != nil {
			return nil, err
		}
		var account gateFuturesAccount
		if err := g.Decode(raw, &account); err != nil {
			return nil, err
		}
		balances := model.NewBalances(types.Info(raw))
		balances.Set(g.SafeCurrencyCode(account.Currency), account.Available, types.ExDecimal{}, account.Total)
		return balances, nil
	}

	if err := g.private(ctx, http.MethodGet, "spot/accounts", args.Params, &raw); err != nil {
		return nil, err
	}
	var accounts []gateSpotAccount
	if err := g.Decode(raw, &accounts); err != nil {
		return nil, err
	}
	balances := model.NewBalances(types.Info(raw))
	for _, a := range accounts {
		balances.Set(g.SafeCurrencyCode(a.Currency), a.Available, a.Locked, types.ExDecimal{})
	}
	return balances, nil
}

// CreateOrder 现货 spot/orders，合约 futures/usdt/orders
//   - 现货市价买单的 amount 为计价币金额：指定价格时取 数量 × 价格，否则取 数量 × 最新价
//   - 合约 size 为整数张数，卖出为负数，市价单 price 为 0
func (g *Gate) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgsOptions(opts...)
	req, err := g.PrepareOrder(ctx, symbol, side, amount, args)
	if err != nil {
		return nil, err
	}
	if req.PostOnly && !req.IsLimit() {
		return nil, exchange.Errorf(exchange.InvalidOrder, gateName, "%s createOrder() postOnly orders must be limit orders", gateName)
	}
	text := req.ClientOrderID
	if text == "" {
		text = common.GenerateClientOrderID(gateName)
	}
	if !strings.HasPrefix(text, clientOrderPrefix) {
		text = clientOrderPrefix + text
	}

	tif := req.TimeInForce
	if req.PostOnly {
		tif = model.OrderTimeInForcePO
	}
	if tif == "" {
		tif = model.OrderTimeInForceGTC
	}
	if !req.IsLimit() {
		tif = model.OrderTimeInForceIOC
	}

	market := req.Market
	var raw json.RawMessage
	if market.Contract {
		params, err := g.futuresOrderParams(req, tif, text)
		if err != nil {
			return nil, err
		}
		if err := g.private(ctx, http.MethodPost, "futures/"+settle+"/orders", common.Extend(params, req.Params), &raw); err != nil {
			return nil, err
		}
	} else {
		params, err := g.spotOrderParams(ctx, req, tif, text)
		if err != nil {
			return nil, err
		}
		if err := g.private(ctx, http.MethodPost, "spot/orders", common.Extend(params, req.Params), &raw); err != nil {
			return nil, err
		}
	}
	order, err := g.decodeOrder(raw, market)
	if err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, g.emptyResponse("createOrder")
	}
	return order, nil
}

func (g *Gate) spotOrderParams(ctx context.Context, req *base.OrderRequest, tif model.OrderTimeInForce, text string) (map[string]interface{}, error) {
	market := req.Market
	params := map[string]interface{}{
		"currency_pair": market.ID,
		"account":       "spot",
		"side":          string(req.Side),
		"type":          string(req.Type),
		"amount":        req.AmountString(),
		"time_in_force": gateTimeInForce[tif],
		"text":          text,
	}
	if req.IsLimit() {
		params["price"] = req.PriceString()
		return params, nil
	}
	if req.Side == model.OrderSideBuy {
		price := req.Price
		if price.IsZero() {
			ticker, err := g.FetchTicker(ctx, market.Symbol)
			if err != nil {
				return nil, err
			}
			if !ticker.Last.IsPositive() {
				return nil, exchange.Errorf(exchange.InvalidOrder, gateName, "%s createOrder() cannot determine the cost of a market buy order for %s", gateName, market.Symbol)
			}
			price = ticker.Last.Decimal
		}
		params["amount"] = common.CostToPrecision(market, req.Amount.Mul(price))
	}
	return params, nil
}

func (g *Gate) futuresOrderParams(req *base.OrderRequest, tif model.OrderTimeInForce, text string) (map[string]interface{}, error) {
	size := req.Amount.Truncate(0)
	if size.IsZero() {
		return nil, exchange.Errorf(exchange.InvalidOrder, gateName, "%s createOrder() contract amount must be at least 1, got %s", gateName, req.Amount)
	}
	if req.Side == model.OrderSideSell {
		size = size.Neg()
	}
	params := map[string]interface{}{
		"contract": req.Market.ID,
		"size":     size.IntPart(),
		"price":    "0",
		"tif":      gateTimeInForce[tif],
		"text":     text,
	}
	if req.IsLimit() {
		params["price"] = req.PriceString()
	}
	if req.ReduceOnly {
		params["reduce_only"] = true
	}
	return params, nil
}

// CancelOrder 现货需同时提供 currency_pair
func (g *Gate) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := g.requireMarket(ctx, "cancelOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path, params := orderPath(market, id, args)
	var raw json.RawMessage
	if err := g.private(ctx, http.MethodDelete, path, common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	return g.decodeOrder(raw, market)
}

// FetchOrder 订单ID 也可传入 t- 开头的自定义ID
func (g *Gate) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	market, err := g.requireMarket(ctx, "fetchOrder", symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path, params := orderPath(market, id, args)
	var raw json.RawMessage
	if err := g.private(ctx, http.MethodGet, path, common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	return g.decodeOrder(raw, market)
}

// FetchOrders 合并未完成订单与已结束订单
func (g *Gate) FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	open, err := g.FetchOpenOrders(ctx, symbol, opts...)
	if err != nil {
		return nil, err
	}
	closed, err := g.FetchClosedOrders(ctx, symbol, opts...)
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

// FetchOpenOrders 现货未指定交易对时查询 spot/open_orders
func (g *Gate) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	if _, err := g.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	market, err := g.optionalMarket(symbol)
	if err != nil {
		return nil, err
	}
	if market == nil && !isSwap(args, nil) {
		var groups []struct {
			CurrencyPair string            `json:"currency_pair"`
			Orders       []json.RawMessage `json:"orders"`
		}
		if err := g.private(ctx, http.MethodGet, "spot/open_orders", args.Params, &groups); err != nil {
			return nil, err
		}
		orders := make([]*model.Order, 0)
		for _, group := range groups {
			m := g.SafeMarket(group.CurrencyPair, model.MarketTypeSpot)
			for _, row := range group.Orders {
				order, err := g.decodeOrderIn(row, m, false)
				if err != nil {
					return nil, err
				}
				orders = append(orders, order)
			}
		}
		return base.FilterOrders(orders, "", args), nil
	}
	return g.fetchOrderList(ctx, "open", market, args)
}

// FetchClosedOrders 现货必须指定交易对
func (g *Gate) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	if _, err := g.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	market, err := g.optionalMarket(symbol)
	if err != nil {
		return nil, err
	}
	if market == nil && !isSwap(args, nil) {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, gateName, "%s fetchClosedOrders() requires the symbol argument for spot markets", gateName)
	}
	return g.fetchOrderList(ctx, "finished", market, args)
}

func (g *Gate) fetchOrderList(ctx context.Context, status string, market *model.Market, args *option.ExchangeArgsOptions) ([]*model.Order, error) {
	swap := isSwap(args, market)
	params := map[string]interface{}{"status": status}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	path := "spot/orders"
	if swap {
		path = "futures/" + settle + "/orders"
		if market != nil {
			params["contract"] = market.ID
		}
	} else {
		params["currency_pair"] = market.ID
		if status == "finished" {
			addTimeRange(params, args)
		}
	}

	var rows []json.RawMessage
	if err := g.private(ctx, http.MethodGet, path, common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	orders := make([]*model.Order, 0, len(rows))
	for _, row := range rows {
		order, err := g.decodeOrderIn(row, market, swap)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return base.FilterOrders(orders, "", args), nil
}

// FetchMyTrades 现货 spot/my_trades，合约 futures/usdt/my_trades
func (g *Gate) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	if _, err := g.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	market, err := g.optionalMarket(symbol)
	if err != nil {
		return nil, err
	}
	swap := isSwap(args, market)
	params := map[string]interface{}{}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	path := "spot/my_trades"
	if swap {
		path = "futures/" + settle + "/my_trades"
		if market != nil {
			params["contract"] = market.ID
		}
	} else {
		if market != nil {
			params["currency_pair"] = market.ID
		}
		addTimeRange(params, args)
	}

	var rows []json.RawMessage
	if err := g.private(ctx, http.MethodGet, path, common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	trades := make([]*model.Trade, 0, len(rows))
	for _, row := range rows {
		var t *model.Trade
		if swap {
			t, err = g.parseFuturesTrade(row, market)
		} else {
			t, err = g.parseSpotTrade(row, market)
		}
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return base.FilterTrades(trades, symbol, args), nil
}

func (g *Gate) parseSpotTrade(row json.RawMessage, market *model.Market) (*model.Trade, error) {
	var t gateSpotTrade
	if err := g.Decode(row, &t); err != nil {
		return nil, err
	}
	trade := &model.Trade{
		ID:           t.ID,
		Order:        t.OrderID,
		Timestamp:    t.CreateTime,
		Symbol:       g.SafeSymbol(t.CurrencyPair, market, model.MarketTypeSpot),
		Side:         model.ParseOrderSide(t.Side),
		TakerOrMaker: model.TakerOrMaker(t.Role),
		Price:        t.Price,
		Amount:       t.Amount,
		Info:         types.Info(row),
	}
	if t.Fee.Valid {
		trade.Fee = &model.Fee{Currency: g.SafeCurrencyCode(t.FeeCurrency), Cost: t.Fee}
	}
	return model.SafeTrade(trade), nil
}

// parseFuturesTrade 成交额为 价格 × 张数 × 合约面值
func (g *Gate) parseFuturesTrade(row json.RawMessage, market *model.Market) (*model.Trade, error) {
	var t gateFuturesTrade
	if err := g.Decode(row, &t); err != nil {
		return nil, err
	}
	if m := g.SafeMarket(t.Contract, model.MarketTypeSwap); m != nil && m.Contract {
		market = m
	}
	id := t.TradeID.String()
	if id == "" {
		id = t.ID.String()
	}
	side := model.OrderSideBuy
	if t.Size.Valid && t.Size.Decimal.IsNegative() {
		side = model.OrderSideSell
	}
	amount := t.Size
	if amount.Valid {
		amount = types.NewExDecimal(amount.Decimal.Abs())
	}
	trade := &model.Trade{
		ID:           id,
		Order:        t.OrderID.String(),
		Timestamp:    t.CreateTime,
		Side:         side,
		TakerOrMaker: model.TakerOrMaker(t.Role),
		Price:        t.Price,
		Amount:       amount,
		Info:         types.Info(row),
	}
	if market != nil {
		trade.Symbol = market.Symbol
		trade.Cost = types.ExMul(types.ExMul(t.Price, amount), market.ContractSize)
		if t.Fee.Valid {
			trade.Fee = &model.Fee{Currency: market.Settle, Cost: t.Fee}
		}
	}
	return model.SafeTrade(trade), nil
}

func (g *Gate) requireMarket(ctx context.Context, method, symbol string) (*model.Market, error) {
	if symbol == "" {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, gateName, "%s %s() requires the symbol argument", gateName, method)
	}
	return g.LoadMarket(ctx, symbol)
}

func (g *Gate) optionalMarket(symbol string) (*model.Market, error) {
	if symbol == "" {
		return nil, nil
	}
	return g.Market(symbol)
}

// orderPath 未提供订单ID时使用自定义ID
func orderPath(market *model.Market, id string, args *option.ExchangeArgsOptions) (string, map[string]interface{}) {
	if id == "" && args.ClientOrderID != nil {
		id = *args.ClientOrderID
		if !strings.HasPrefix(id, clientOrderPrefix) {
			id = clientOrderPrefix + id
		}
	}
	params := map[string]interface{}{"order_id": id}
	if market.Contract {
		return "futures/" + settle + "/orders/{order_id}", params
	}
	params["currency_pair"] = market.ID
	return "spot/orders/{order_id}", params
}

// addTimeRange from/to 为秒级时间戳
func addTimeRange(params map[string]interface{}, args *option.ExchangeArgsOptions) {
	if args.Since != nil {
		params["from"] = args.Since.Unix()
	}
	if args.Until != nil {
		params["to"] = args.Until.Unix()
	}
}

func (g *Gate) decodeOrder(data json.RawMessage, market *model.Market) (*model.Order, error) {
	return g.decodeOrderIn(data, market, market.Contract)
}

func (g *Gate) decodeOrderIn(data json.RawMessage, market *model.Market, swap bool) (*model.Order, error) {
	if swap {
		var ord gateFuturesOrder
		if err := g.Decode(data, &ord); err != nil {
			return nil, err
		}
		if m := g.SafeMarket(ord.Contract, model.MarketTypeSwap); m != nil && m.Contract {
			market = m
		}
		return parseFuturesOrder(&ord, data, market), nil
	}
	var ord gateSpotOrder
	if err := g.Decode(data, &ord); err != nil {
		return nil, err
	}
	if m := g.SafeMarket(ord.CurrencyPair, model.MarketTypeSpot); m != nil && m.Spot {
		market = m
	}
	return g.parseSpotOrder(&ord, data, market), nil
}

// parseSpotOrder 市价买单的 amount 与 left 以计价币计，数量由 成交额 / 均价 推导
func (g *Gate) parseSpotOrder(ord *gateSpotOrder, info json.RawMessage, market *model.Market) *model.Order {
	order := &model.Order{
		ID:                 ord.ID,
		ClientOrderID:      ord.Text,
		Timestamp:          ord.CreateTimeMs,
		LastTradeTimestamp: ord.UpdateTimeMs,
		Type:               model.ParseOrderType(ord.Type),
		TimeInForce:        gateTimeInForceIDs.Parse(ord.TimeInForce),
		Side:               model.ParseOrderSide(ord.Side),
		Status:             parseStatus(ord.Status, ord.FinishAs),
		Price:              ord.Price,
		Amount:             ord.Amount,
		Remaining:          ord.Left,
		Cost:               ord.FilledTotal,
		PostOnly:           model.BoolPtr(ord.TimeInForce == "poc"),
		Info:               types.Info(info),
	}
	if ord.AvgDealPrice.IsPositive() {
		order.Average = ord.AvgDealPrice
	}
	if order.Type == model.OrderTypeMarket {
		if order.Price.Valid && order.Price.Decimal.IsZero() {
			order.Price = types.ExDecimal{}
		}
		if order.Side == model.OrderSideBuy {
			order.Amount = types.ExDecimal{}
			order.Remaining = types.ExDecimal{}
			if order.Average.IsPositive() {
				order.Filled = types.ExDiv(ord.FilledTotal, order.Average)
			}
		}
	}
	if market != nil {
		order.Symbol = market.Symbol
	}
	if ord.Fee.Valid && ord.FeeCurrency != "" {
		order.Fee = &model.Fee{Currency: g.SafeCurrencyCode(ord.FeeCurrency), Cost: ord.Fee}
	}
	order = model.SafeOrder(order)
	if !order.Filled.IsPositive() {
		order.LastTradeTimestamp = types.ExTimestamp{}
	}
	return order
}

// parseFuturesOrder size 与 left 带符号，price 为 0 表示市价单
// 订单不返回手续费，按合约费率由成交额推导
func parseFuturesOrder(ord *gateFuturesOrder, info json.RawMessage, market *model.Market) *model.Order {
	side := model.OrderSideBuy
	if ord.Size.Valid && ord.Size.Decimal.IsNegative() {
		side = model.OrderSideSell
	}
	orderType := model.OrderTypeLimit
	price := ord.Price
	if !price.IsPositive() {
		orderType = model.OrderTypeMarket
		price = types.ExDecimal{}
	}
	order := &model.Order{
		ID:            ord.ID.String(),
		ClientOrderID: ord.Text,
		Timestamp:     ord.CreateTime,
		Type:          orderType,
		TimeInForce:   gateTimeInForceIDs.Parse(ord.Tif),
		Side:          side,
		Status:        parseStatus(ord.Status, ord.FinishAs),
		Price:         price,
		Amount:        abs(ord.Size),
		Remaining:     abs(ord.Left),
		PostOnly:      model.BoolPtr(ord.Tif == "poc"),
		ReduceOnly:    model.BoolPtr(ord.IsReduce),
		Info:          types.Info(info),
	}
	if ord.FillPrice.IsPositive() {
		order.Average = ord.FillPrice
	}
	order.Filled = types.ExSub(order.Amount, order.Remaining)
	if market != nil {
		order.Symbol = market.Symbol
		if order.Average.Valid {
			order.Cost = types.ExMul(types.ExMul(order.Average, order.Filled), market.ContractSize)
		}
	}
	if order.Filled.IsPositive() && !ord.FinishTime.IsNull() {
		order.LastTradeTimestamp = ord.FinishTime
	}
	order = model.SafeOrder(order)
	if order.Cost.IsPositive() {
		role := model.Taker
		if ord.Tif == "poc" {
			role = model.Maker
		}
		order.Fee = common.FeeFromCost(market, role, order.Cost)
	}
	return order
}

func abs(d types.ExDecimal) types.ExDecimal {
	if d.IsNull() {
		return d
	}
	return types.NewExDecimal(d.Decimal.Abs())
}
