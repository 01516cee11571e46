package common

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/types"
)

// TickFromDecimals 小数位数 -> 最小变动单位，例如 2 -> 0.01
func TickFromDecimals(places int) types.ExDecimal {
	return types.NewExDecimal(decimal.New(1, int32(-places)))
}

// DecimalsFromTick 最小变动单位 -> 小数位数，例如 0.001 -> 3
func DecimalsFromTick(tick decimal.Decimal) int {
	if tick.IsZero() {
		return 0
	}
	parts := strings.Split(tick.String(), ".")
	if len(parts) > 1 {
		return len(strings.TrimRight(parts[1], "0"))
	}
	return 0
}

// Truncate 按最小变动单位向零截断
func Truncate(value, tick decimal.Decimal) decimal.Decimal {
	if tick.IsZero() || tick.IsNegative() {
		return value
	}
	return value.Div(tick).Truncate(0).Mul(tick)
}

// Round 按最小变动单位四舍五入
func Round(value, tick decimal.Decimal) decimal.Decimal {
	if tick.IsZero() || tick.IsNegative() {
		return value
	}
	return value.Div(tick).Round(0).Mul(tick)
}

// FormatByTick 按最小变动单位输出定长小数字符串
func FormatByTick(value, tick decimal.Decimal) string {
	if tick.IsZero() {
		return value.String()
	}
	return value.StringFixed(int32(DecimalsFromTick(tick)))
}

// AmountToPrecision 数量按市场精度截断（下单数量不可向上取整）
func AmountToPrecision(market *model.Market, amount decimal.Decimal) string {
	if market == nil || market.Precision.Amount.IsNull() {
		return amount.String()
	}
	tick := market.Precision.Amount.Decimal
	return FormatByTick(Truncate(amount, tick), tick)
}

// PriceToPrecision 价格按市场精度四舍五入
func PriceToPrecision(market *model.Market, price decimal.Decimal) string {
	if market == nil || market.Precision.Price.IsNull() {
		return price.String()
	}
	tick := market.Precision.Price.Decimal
	return FormatByTick(Round(price, tick), tick)
}

// CostToPrecision 金额按价格精度四舍五入
func CostToPrecision(market *model.Market, cost decimal.Decimal) string {
	return PriceToPrecision(market, cost)
}
