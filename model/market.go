package model

import (
	"github.com/lemconn/exkit/types"
)

// MarketType 市场类型
type MarketType string

const (
	// MarketTypeSpot 现货市场
	MarketTypeSpot MarketType = "spot"
	// MarketTypeSwap 永续合约市场
	MarketTypeSwap MarketType = "swap"
	// MarketTypeFuture 交割合约市场
	MarketTypeFuture MarketType = "future"
)

// MinMax 上下限，任一端可为空
type MinMax struct {
	Min types.ExDecimal `json:"min"`
	Max types.ExDecimal `json:"max"`
}

// Precision 精度，以最小变动单位表示（例如 0.01）
type Precision struct {
	Amount types.ExDecimal `json:"amount"`
	Price  types.ExDecimal `json:"price"`
	Cost   types.ExDecimal `json:"cost,omitempty"`
}

// Limits 下单限制
type Limits struct {
	Amount   MinMax `json:"amount"`
	Price    MinMax `json:"price"`
	Cost     MinMax `json:"cost"`
	Leverage MinMax `json:"leverage"`
}

// Market 市场信息
type Market struct {
	// ID 交易所原始市场ID，如 "BTCUSDT"、"XXBTZUSD"
	ID string `json:"id"`

	// Symbol 统一交易对，如 "BTC/USDT" 或 "BTC/USDT:USDT"（合约）
	Symbol string `json:"symbol"`

	Base     string `json:"base"`
	Quote    string `json:"quote"`
	Settle   string `json:"settle,omitempty"`
	BaseID   string `json:"baseId"`
	QuoteID  string `json:"quoteId"`
	SettleID string `json:"settleId,omitempty"`

	Type     MarketType `json:"type"`
	Spot     bool       `json:"spot"`
	Swap     bool       `json:"swap"`
	Future   bool       `json:"future"`
	Contract bool       `json:"contract"`
	Linear   bool       `json:"linear,omitempty"`
	Inverse  bool       `json:"inverse,omitempty"`

	// Active 是否可交易
	Active bool `json:"active"`

	// ContractSize 合约面值，仅合约市场有效
	ContractSize types.ExDecimal `json:"contractSize"`

	// Maker / Taker 手续费率
	Maker types.ExDecimal `json:"maker"`
	Taker types.ExDecimal `json:"taker"`

	Precision Precision `json:"precision"`
	Limits    Limits    `json:"limits"`

	// Info 原始响应
	Info types.Info `json:"info"`
}

// Markets 市场列表
type Markets []*Market

// Symbols 按原有顺序返回所有统一交易对
func (m Markets) Symbols() []string {
	out := make([]string, 0, len(m))
	for _, market := range m {
		out = append(out, market.Symbol)
	}
	return out
}

// FilterByType 过滤指定类型的市场
func (m Markets) FilterByType(t MarketType) Markets {
	out := make(Markets, 0, len(m))
	for _, market := range m {
		if market.Type == t {
			out = append(out, market)
		}
	}
	return out
}

// Currency 币种信息
type Currency struct {
	ID        string                      `json:"id"`
	Code      string                      `json:"code"`
	Name      string                      `json:"name"`
	Active    bool                        `json:"active"`
	Deposit   *bool                       `json:"deposit"`
	Withdraw  *bool                       `json:"withdraw"`
	Fee       types.ExDecimal             `json:"fee"`
	Precision types.ExDecimal             `json:"precision"`
	Limits    CurrencyLimits              `json:"limits"`
	Networks  map[string]*CurrencyNetwork `json:"networks,omitempty"`
	Info      types.Info                  `json:"info"`
}

// CurrencyLimits 充提限制
type CurrencyLimits struct {
	Deposit  MinMax `json:"deposit"`
	Withdraw MinMax `json:"withdraw"`
}

// CurrencyNetwork 币种在某条链上的充提信息
type CurrencyNetwork struct {
	ID       string          `json:"id"`
	Network  string          `json:"network"`
	Active   bool            `json:"active"`
	Deposit  *bool           `json:"deposit"`
	Withdraw *bool           `json:"withdraw"`
	Fee      types.ExDecimal `json:"fee"`
	Limits   CurrencyLimits  `json:"limits"`
}

// Currencies 币种代码 -> 币种信息
type Currencies map[string]*Currency

// TradingFee 交易手续费率
type TradingFee struct {
	Symbol string          `json:"symbol"`
	Maker  types.ExDecimal `json:"maker"`
	Taker  types.ExDecimal `json:"taker"`
	Info   types.Info      `json:"info"`
}

// TradingFees 交易对 -> 手续费率
type TradingFees map[string]*TradingFee

// BoolPtr 返回 b 的指针
func BoolPtr(b bool) *bool {
	return &b
}
