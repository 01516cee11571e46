package common

import (
	"github.com/shopspring/decimal"

	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/types"
)

// CalculateFee 按市场费率估算手续费
// takerOrMaker 为空时按 taker 计算，手续费币种为计价币（卖出时）或基础币（买入时）
func CalculateFee(market *model.Market, side model.OrderSide, takerOrMaker model.TakerOrMaker, amount, price decimal.Decimal) *model.Fee {
	if market == nil {
		return nil
	}
	rate := market.Taker
	if takerOrMaker == model.Maker {
		rate = market.Maker
	}
	if rate.IsNull() {
		return nil
	}
	cost := amount
	currency := market.Base
	if side == model.OrderSideSell || market.Contract {
		cost = amount.Mul(price)
		currency = market.Quote
		if market.Contract && market.Settle != "" {
			currency = market.Settle
		}
	}
	return &model.Fee{
		Currency: currency,
		Cost:     types.NewExDecimal(cost.Mul(rate.Decimal)),
		Rate:     rate,
	}
}

// FeeFromCost 已知成交额与角色时，按费率推导手续费
// 角色未知时按 taker 计算，合约以结算币计价
func FeeFromCost(market *model.Market, takerOrMaker model.TakerOrMaker, cost types.ExDecimal) *model.Fee {
	if market == nil || cost.IsNull() {
		return nil
	}
	rate := market.Taker
	if takerOrMaker == model.Maker {
		rate = market.Maker
	}
	if rate.IsNull() {
		return nil
	}
	currency := market.Quote
	if market.Contract && market.Settle != "" {
		currency = market.Settle
	}
	return &model.Fee{Currency: currency, Cost: types.ExMul(cost, rate), Rate: rate}
}
