package kraken

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

var krakenOrderStatus = model.StatusTable[model.OrderStatus]{
	"pending":  model.OrderStatusOpen,
	"open":     model.OrderStatusOpen,
	"closed":   model.OrderStatusClosed,
	"canceled": model.OrderStatusCanceled,
	"expired":  model.OrderStatusExpired,
}

// 条件单类型按触发后的执行方式归类
var krakenOrderTypes = map[string]model.OrderType{
	"take-profit":         model.OrderTypeMarket,
	"stop-loss":           model.OrderTypeMarket,
	"stop-loss-limit":     model.OrderTypeLimit,
	"take-profit-limit":   model.OrderTypeLimit,
	"trailing-stop-limit": model.OrderTypeLimit,
}

// FetchBalance 获取余额，used 为挂单冻结
func (k *Kraken) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.Balances, error) {
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var raw json.RawMessage
	if err := k.privatePost(ctx, "BalanceEx", args.Params, &raw); err != nil {
		return nil, err
	}
	var balances map[string]krakenBalance
	if err := k.Decode(raw, &balances); err != nil {
		return nil, err
	}

	result := model.NewBalances(types.Info(raw))
	for id, b := range balances {
		result.Set(k.currencyCode(id), types.ExDecimal{}, b.HoldTrade, b.Balance)
	}
	return result, nil
}

// CreateOrder 创建订单
func (k *Kraken) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgsOptions(opts...)
	req, err := k.PrepareOrder(ctx, symbol, side, amount, args)
	if err != nil {
		return nil, err
	}

	params := map[string]interface{}{
		"pair":      req.Market.ID,
		"type":      string(req.Side),
		"ordertype": string(req.Type),
		"volume":    req.AmountString(),
	}
	if req.IsLimit() {
		params["price"] = req.PriceString()
	}
	if req.ClientOrderID != "" {
		params["cl_ord_id"] = req.ClientOrderID
	}
	if req.PostOnly {
		params["oflags"] = "post"
	}
	switch req.TimeInForce {
	case model.OrderTimeInForceIOC:
		params["timeinforce"] = "IOC"
	case model.OrderTimeInForceGTC:
		params["timeinforce"] = "GTC"
	}
	if req.ReduceOnly {
		params["reduce_only"] = true
	}
	params = common.Extend(params, req.Params)
	flags, _ := params["oflags"].(string)

	var raw json.RawMessage
	if err := k.privatePost(ctx, "AddOrder", params, &raw); err != nil {
		return nil, err
	}
	var o krakenOrder
	if err := k.Decode(raw, &o); err != nil {
		return nil, err
	}
	order := k.parseOrder(&o, raw, strings.Contains(flags, "viqc"))
	if order.Symbol == "" {
		order.Symbol = req.Market.Symbol
	}
	return order, nil
}

// CancelOrder 取消订单，未知订单返回 OrderNotFound
func (k *Kraken) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"txid": id}
	if args.ClientOrderID != nil {
		params = map[string]interface{}{"cl_ord_id": *args.ClientOrderID}
	}

	var raw json.RawMessage
	if err := k.privatePost(ctx, "CancelOrder", common.Extend(params, args.Params), &raw); err != nil {
		var e *exchange.Error
		if errors.As(err, &e) && strings.Contains(e.Message, "EOrder:Unknown order") {
			return nil, exchange.WrapError(exchange.OrderNotFound, krakenName, err, krakenName+" cancelOrder() error "+e.Message)
		}
		return nil, err
	}

	var result struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal(raw, &result)
	order := &model.Order{ID: id, Symbol: symbol, Info: types.Info(raw)}
	if result.Count > 0 {
		order.Status = model.OrderStatusCanceled
	}
	return order, nil
}

// FetchOrder 查询订单
func (k *Kraken) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"trades": true, "txid": id}
	var raw map[string]json.RawMessage
	if err := k.privatePost(ctx, "QueryOrders", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	data, ok := raw[id]
	if !ok {
		return nil, exchange.Errorf(exchange.OrderNotFound, krakenName, "%s fetchOrder() could not find order id %s", krakenName, id)
	}
	return k.decodeOrder(id, data)
}

// FetchOrders 查询订单列表，合并未成交与已完成订单
func (k *Kraken) FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	open, err := k.FetchOpenOrders(ctx, symbol, opts...)
	if err != nil {
		return nil, err
	}
	closed, err := k.FetchClosedOrders(ctx, symbol, opts...)
	if err != nil {
		return nil, err
	}
	return base.FilterOrders(append(open, closed...), "", option.ApplyArgsOptions(opts...)), nil
}

// FetchOpenOrders 查询未成交订单
func (k *Kraken) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return k.fetchOrdersByState(ctx, "OpenOrders", "open", symbol, opts...)
}

// FetchClosedOrders 查询已完成订单
func (k *Kraken) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return k.fetchOrdersByState(ctx, "ClosedOrders", "closed", symbol, opts...)
}

func (k *Kraken) fetchOrdersByState(ctx context.Context, path, key, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	if symbol != "" {
		if _, err := k.Market(symbol); err != nil {
			return nil, err
		}
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{}
	if args.Since != nil {
		params["start"] = args.Since.Unix()
	}
	if args.Until != nil && path == "ClosedOrders" {
		params["end"] = args.Until.Unix()
	}
	if args.ClientOrderID != nil {
		params["cl_ord_id"] = *args.ClientOrderID
	}

	var raw map[string]json.RawMessage
	if err := k.privatePost(ctx, path, common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	var items map[string]json.RawMessage
	if data, ok := raw[key]; ok {
		if err := k.Decode(data, &items); err != nil {
			return nil, err
		}
	}

	orders := make([]*model.Order, 0, len(items))
	for _, id := range sortedKeys(items) {
		order, err := k.decodeOrder(id, items[id])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return base.FilterOrders(orders, symbol, args), nil
}

func (k *Kraken) decodeOrder(id string, data json.RawMessage) (*model.Order, error) {
	var o krakenOrder
	if err := k.Decode(data, &o); err != nil {
		return nil, err
	}
	o.ID = id
	return k.parseOrder(&o, data, false), nil
}

// parseOrder 解析订单
// descr.order 形如 "buy 1.25000000 XBTUSD @ limit 30010.0"，descr 的结构化字段优先
// 成交额由 均价 × 成交量 推导，usingCost 时数量字段为金额
func (k *Kraken) parseOrder(o *krakenOrder, info json.RawMessage, usingCost bool) *model.Order {
	var (
		side     string
		rawType  string
		marketID string
		amount   types.ExDecimal
		cost     types.ExDecimal
		price    types.ExDecimal
	)

	descr := o.Descr
	if descr == nil {
		descr = &krakenOrderDescr{}
	}
	if descr.Order != "" {
		parts := strings.Split(descr.Order, " ")
		side = partAt(parts, 0)
		if usingCost {
			cost = types.ParseExDecimal(partAt(parts, 1))
		} else {
			amount = types.ParseExDecimal(partAt(parts, 1))
		}
		marketID = partAt(parts, 2)
		part4 := partAt(parts, 4)
		if part4 == "limit" || part4 == "market" {
			rawType = part4
		} else {
			rawType = part4 + " " + partAt(parts, 5)
		}
		if rawType == "limit" {
			price = types.ParseExDecimal(partAt(parts, 5))
		}
	}
	if descr.Type != "" {
		side = descr.Type
	}
	if descr.OrderType != "" {
		rawType = descr.OrderType
	}
	if descr.Pair != "" {
		marketID = descr.Pair
	}

	if descr.Price != "" {
		price = types.ParseExDecimal(descr.Price)
		if strings.HasSuffix(descr.Price, "%") {
			price = types.ExDecimal{}
		}
	}
	if price.Valid && price.Decimal.IsZero() {
		price = types.ExDecimal{}
	}
	if price.IsNull() {
		price = nonZero(o.LimitPrice).Or(nonZero(o.Price), nonZero(types.ParseExDecimal(descr.Price2)))
	}

	market := k.marketByAltnameOrID(marketID)
	symbol := ""
	if market != nil {
		symbol = market.Symbol
	}

	id := o.ID
	if id == "" {
		id = firstTxID(o.TxID)
	}

	clientOrderID := o.ClOrdID
	if clientOrderID == "" {
		if ref := o.UserRef.String(); ref != "" && ref != "0" {
			clientOrderID = ref
		}
	}

	var fee *model.Fee
	if market != nil && o.Fee != nil {
		fee = &model.Fee{Cost: *o.Fee}
		if strings.Contains(o.Oflags, "fciq") {
			fee.Currency = market.Quote
		} else if strings.Contains(o.Oflags, "fcib") {
			fee.Currency = market.Base
		}
	}

	orderType, ok := krakenOrderTypes[rawType]
	if !ok {
		orderType = model.ParseOrderType(rawType)
	}

	trades := make([]*model.Trade, 0, len(o.Trades))
	for _, tradeID := range o.Trades {
		trades = append(trades, &model.Trade{ID: tradeID, Order: id, Symbol: symbol})
	}

	postOnly := strings.Contains(o.Oflags, "post")
	if o.Vol.Valid {
		amount = o.Vol
	}

	return model.SafeOrder(&model.Order{
		ID:            id,
		ClientOrderID: clientOrderID,
		Timestamp:     o.OpenTm,
		Symbol:        symbol,
		Type:          orderType,
		Side:          model.ParseOrderSide(side),
		Status:        krakenOrderStatus.Parse(o.Status),
		Price:         price,
		Average:       o.Price,
		Amount:        amount,
		Filled:        o.VolExec,
		Cost:          cost,
		Fee:           fee,
		Trades:        trades,
		PostOnly:      &postOnly,
		ReduceOnly:    o.ReduceOnly,
		Info:          types.Info(info),
	})
}

// FetchMyTrades 获取我的成交记录
func (k *Kraken) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	if symbol != "" {
		if _, err := k.Market(symbol); err != nil {
			return nil, err
		}
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{}
	if args.Since != nil {
		params["start"] = args.Since.Unix()
	}
	if args.Until != nil {
		params["end"] = strconv.FormatInt(args.Until.Unix()+1, 10)
	}

	var raw struct {
		Trades map[string]json.RawMessage `json:"trades"`
	}
	if err := k.privatePost(ctx, "TradesHistory", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}

	trades := make([]*model.Trade, 0, len(raw.Trades))
	for _, id := range sortedKeys(raw.Trades) {
		var t krakenTrade
		if err := k.Decode(raw.Trades[id], &t); err != nil {
			return nil, err
		}
		t.ID = id
		trades = append(trades, k.parseMyTrade(&t, raw.Trades[id]))
	}
	return base.FilterTrades(trades, symbol, args), nil
}

func (k *Kraken) parseMyTrade(t *krakenTrade, info json.RawMessage) *model.Trade {
	market := k.marketByAltnameOrID(t.Pair)
	trade := &model.Trade{
		ID:        t.ID,
		Order:     t.OrderTxID,
		Timestamp: t.Time,
		Type:      model.ParseOrderType(t.OrderType),
		Side:      model.ParseOrderSide(t.Type),
		Price:     t.Price,
		Amount:    t.Vol,
		Cost:      t.Cost,
		Info:      types.Info(info),
	}
	if trade.ID == "" {
		trade.ID = t.PosTxID
	}
	if t.Maker != nil {
		trade.TakerOrMaker = model.Taker
		if *t.Maker {
			trade.TakerOrMaker = model.Maker
		}
	}
	if market != nil {
		trade.Symbol = market.Symbol
		if t.Fee != nil {
			trade.Fee = &model.Fee{Currency: market.Quote, Cost: *t.Fee}
		}
	}
	return model.SafeTrade(trade)
}

func partAt(parts []string, i int) string {
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

func nonZero(d types.ExDecimal) types.ExDecimal {
	if d.Valid && d.Decimal.IsZero() {
		return types.ExDecimal{}
	}
	return d
}

// firstTxID txid 可能是字符串也可能是字符串数组
func firstTxID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err == nil {
		if len(ids) > 0 {
			return ids[0]
		}
		return ""
	}
	return common.RawString(raw)
}
