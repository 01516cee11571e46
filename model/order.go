package model

import (
	"strings"

	"github.com/lemconn/exkit/types"
)

// OrderSide 订单方向
type OrderSide string

const (
	// OrderSideBuy 买入
	OrderSideBuy OrderSide = "buy"
	// OrderSideSell 卖出
	OrderSideSell OrderSide = "sell"
)

// OrderType 订单类型
type OrderType string

const (
	// OrderTypeMarket 市价单
	OrderTypeMarket OrderType = "market"
	// OrderTypeLimit 限价单
	OrderTypeLimit OrderType = "limit"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	// OrderStatusOpen 未完全成交
	OrderStatusOpen OrderStatus = "open"
	// OrderStatusClosed 已完全成交
	OrderStatusClosed OrderStatus = "closed"
	// OrderStatusCanceled 已取消
	OrderStatusCanceled OrderStatus = "canceled"
	// OrderStatusExpired 已过期
	OrderStatusExpired OrderStatus = "expired"
	// OrderStatusRejected 已拒绝
	OrderStatusRejected OrderStatus = "rejected"
	// OrderStatusTriggered 条件单已触发
	OrderStatusTriggered OrderStatus = "triggered"
)

// OrderTimeInForce 订单有效期
type OrderTimeInForce string

const (
	// OrderTimeInForceGTC 订单有效直到取消（Good Till Cancel）
	OrderTimeInForceGTC OrderTimeInForce = "GTC"
	// OrderTimeInForceIOC 立即成交或取消（Immediate Or Cancel）
	OrderTimeInForceIOC OrderTimeInForce = "IOC"
	// OrderTimeInForceFOK 全部成交或取消（Fill Or Kill）
	OrderTimeInForceFOK OrderTimeInForce = "FOK"
	// OrderTimeInForcePO 只做 Maker（Post Only）
	OrderTimeInForcePO OrderTimeInForce = "PO"
)

// Order 订单信息
type Order struct {
	// ID 订单ID
	ID string `json:"id"`
	// ClientOrderID 客户端订单ID
	ClientOrderID string `json:"clientOrderId"`
	// Timestamp 创建时间
	Timestamp types.ExTimestamp `json:"timestamp"`
	// LastTradeTimestamp 最后成交时间
	LastTradeTimestamp types.ExTimestamp `json:"lastTradeTimestamp"`
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Type 订单类型
	Type OrderType `json:"type"`
	// TimeInForce 订单有效期
	TimeInForce OrderTimeInForce `json:"timeInForce"`
	// Side 订单方向
	Side OrderSide `json:"side"`
	// Status 订单状态
	Status OrderStatus `json:"status"`
	// Price 委托价格
	Price types.ExDecimal `json:"price"`
	// Average 成交均价
	Average types.ExDecimal `json:"average"`
	// Amount 委托数量
	Amount types.ExDecimal `json:"amount"`
	// Filled 已成交数量
	Filled types.ExDecimal `json:"filled"`
	// Remaining 剩余数量
	Remaining types.ExDecimal `json:"remaining"`
	// Cost 成交金额
	Cost types.ExDecimal `json:"cost"`
	// Fee 手续费
	Fee *Fee `json:"fee"`
	// Trades 成交明细
	Trades []*Trade `json:"trades,omitempty"`
	// PostOnly 是否只做 Maker
	PostOnly *bool `json:"postOnly"`
	// ReduceOnly 是否只减仓
	ReduceOnly *bool `json:"reduceOnly"`
	// Info 原始响应
	Info types.Info `json:"info"`
}

// SafeOrder 补全数量相关字段
//   - Filled / Remaining / Amount 三者已知其二时推导第三个
//   - Average 由 Cost / Filled 推导
//   - Cost 由 Average × Filled 推导（仅在交易所字段均缺失时）
func SafeOrder(o *Order) *Order {
	switch {
	case o.Amount.Valid && o.Filled.Valid && o.Remaining.IsNull():
		o.Remaining = types.ExSub(o.Amount, o.Filled)
	case o.Amount.Valid && o.Remaining.Valid && o.Filled.IsNull():
		o.Filled = types.ExSub(o.Amount, o.Remaining)
	case o.Filled.Valid && o.Remaining.Valid && o.Amount.IsNull():
		o.Amount = types.ExAdd(o.Filled, o.Remaining)
	}
	if o.Remaining.Valid && o.Remaining.Decimal.IsNegative() {
		o.Remaining = types.NewExDecimalFromInt(0)
	}
	if o.Average.IsNull() && o.Cost.Valid && o.Filled.IsPositive() {
		o.Average = types.ExDiv(o.Cost, o.Filled)
	}
	if o.Cost.IsNull() && o.Average.Valid && o.Filled.Valid {
		o.Cost = types.ExMul(o.Average, o.Filled)
	}
	if o.LastTradeTimestamp.IsNull() && len(o.Trades) > 0 {
		o.LastTradeTimestamp = o.Trades[len(o.Trades)-1].Timestamp
	}
	return o
}

// ParseOrderSide 统一订单方向，无法识别时返回空字符串
func ParseOrderSide(raw string) OrderSide {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy", "bid", "b", "long":
		return OrderSideBuy
	case "sell", "ask", "s", "short":
		return OrderSideSell
	}
	return ""
}

// ParseOrderType 统一订单类型，无法识别时返回空字符串
func ParseOrderType(raw string) OrderType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "limit", "l", "limit_maker", "post_only", "postonly":
		return OrderTypeLimit
	case "market", "m":
		return OrderTypeMarket
	}
	return ""
}

// ParseTimeInForce 统一订单有效期，无法识别时返回空字符串
func ParseTimeInForce(raw string) OrderTimeInForce {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "GTC", "GOODTILLCANCEL", "GOOD_TILL_CANCEL":
		return OrderTimeInForceGTC
	case "IOC", "IMMEDIATEORCANCEL":
		return OrderTimeInForceIOC
	case "FOK", "FILLORKILL":
		return OrderTimeInForceFOK
	case "PO", "POST_ONLY", "POSTONLY", "GTX":
		return OrderTimeInForcePO
	}
	return ""
}
