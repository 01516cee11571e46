package model

import (
	"github.com/lemconn/exkit/types"
)

// TakerOrMaker 成交角色
type TakerOrMaker string

const (
	Taker TakerOrMaker = "taker"
	Maker TakerOrMaker = "maker"
)

// Trade 成交记录
type Trade struct {
	// ID 成交ID
	ID string `json:"id"`
	// Order 所属订单ID
	Order string `json:"order,omitempty"`
	// Timestamp 成交时间
	Timestamp types.ExTimestamp `json:"timestamp"`
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Type 订单类型
	Type OrderType `json:"type,omitempty"`
	// Side 成交方向
	Side OrderSide `json:"side"`
	// TakerOrMaker 成交角色
	TakerOrMaker TakerOrMaker `json:"takerOrMaker,omitempty"`
	// Price 成交价
	Price types.ExDecimal `json:"price"`
	// Amount 成交量
	Amount types.ExDecimal `json:"amount"`
	// Cost 成交额
	Cost types.ExDecimal `json:"cost"`
	// Fee 手续费
	Fee *Fee `json:"fee"`
	// Info 原始响应
	Info types.Info `json:"info"`
}

// SafeTrade 成交额缺失时以 价格 × 数量 补全
func SafeTrade(t *Trade) *Trade {
	if t.Cost.IsNull() {
		t.Cost = types.ExMul(t.Price, t.Amount)
	}
	return t
}

// Fee 手续费
type Fee struct {
	// Currency 手续费币种
	Currency string `json:"currency"`
	// Cost 手续费金额
	Cost types.ExDecimal `json:"cost"`
	// Rate 手续费率
	Rate types.ExDecimal `json:"rate"`
}
