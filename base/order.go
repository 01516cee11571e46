package base

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

// OrderRequest 校验后的下单参数
type OrderRequest struct {
	Market        *model.Market
	Side          model.OrderSide
	Type          model.OrderType
	Amount        decimal.Decimal
	Price         decimal.Decimal
	ClientOrderID string
	TimeInForce   model.OrderTimeInForce
	PostOnly      bool
	ReduceOnly    bool
	// Params 透传参数
	Params map[string]interface{}
}

// AmountString 按市场精度截断后的数量
func (r *OrderRequest) AmountString() string {
	return common.AmountToPrecision(r.Market, r.Amount)
}

// PriceString 按市场精度取整后的价格，市价单返回空字符串
func (r *OrderRequest) PriceString() string {
	if r.Type != model.OrderTypeLimit {
		return ""
	}
	return common.PriceToPrecision(r.Market, r.Price)
}

// IsLimit 是否限价单
func (r *OrderRequest) IsLimit() bool {
	return r.Type == model.OrderTypeLimit
}

// PrepareOrder 加载市场并校验下单参数
//   - 显式指定 OrderType 时以其为准，否则设置了价格即为限价单
//   - 限价单必须带价格
//   - TimeInForce 为 PO 时视为 PostOnly
func (e *BaseExchange) PrepareOrder(ctx context.Context, symbol string, side model.OrderSide, amount string, args *option.ExchangeArgsOptions) (*OrderRequest, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	normalized := model.ParseOrderSide(string(side))
	if normalized == "" {
		return nil, exchange.Errorf(exchange.InvalidOrder, e.cfg.Name, "%s invalid order side %q", e.cfg.Name, side)
	}

	qty, err := decimal.NewFromString(amount)
	if err != nil || !qty.IsPositive() {
		return nil, exchange.Errorf(exchange.InvalidOrder, e.cfg.Name, "%s invalid order amount %q", e.cfg.Name, amount)
	}

	req := &OrderRequest{
		Market: market,
		Side:   normalized,
		Type:   model.OrderTypeMarket,
		Amount: qty,
		Params: args.Params,
	}

	if raw, ok := option.GetString(args.Price); ok {
		price, valid := option.GetDecimalFromString(args.Price)
		if !valid || !price.IsPositive() {
			return nil, exchange.Errorf(exchange.InvalidOrder, e.cfg.Name, "%s invalid order price %q", e.cfg.Name, raw)
		}
		req.Price = price
		req.Type = model.OrderTypeLimit
	}
	if args.OrderType != nil && *args.OrderType != "" {
		t := model.ParseOrderType(string(*args.OrderType))
		if t == "" {
			return nil, exchange.Errorf(exchange.InvalidOrder, e.cfg.Name, "%s invalid order type %q", e.cfg.Name, *args.OrderType)
		}
		req.Type = t
	}
	if req.Type == model.OrderTypeLimit && req.Price.IsZero() {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, e.cfg.Name, "%s createOrder() requires a price argument for limit orders", e.cfg.Name)
	}

	req.ClientOrderID, _ = option.GetString(args.ClientOrderID)
	if args.TimeInForce != nil {
		req.TimeInForce = *args.TimeInForce
	}
	req.PostOnly, _ = option.GetBool(args.PostOnly)
	if req.TimeInForce == model.OrderTimeInForcePO {
		req.PostOnly = true
	}
	req.ReduceOnly, _ = option.GetBool(args.ReduceOnly)
	return req, nil
}
