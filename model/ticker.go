package model

import (
	"github.com/shopspring/decimal"

	"github.com/lemconn/exkit/types"
)

// Ticker 行情信息，交易所未提供的字段为空值
type Ticker struct {
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Timestamp 时间戳
	Timestamp types.ExTimestamp `json:"timestamp"`
	// High 最高价
	High types.ExDecimal `json:"high"`
	// Low 最低价
	Low types.ExDecimal `json:"low"`
	// Bid 买一价
	Bid types.ExDecimal `json:"bid"`
	// BidVolume 买一量
	BidVolume types.ExDecimal `json:"bidVolume"`
	// Ask 卖一价
	Ask types.ExDecimal `json:"ask"`
	// AskVolume 卖一量
	AskVolume types.ExDecimal `json:"askVolume"`
	// Vwap 成交量加权平均价
	Vwap types.ExDecimal `json:"vwap"`
	// Open 开盘价
	Open types.ExDecimal `json:"open"`
	// Close 收盘价（同 Last）
	Close types.ExDecimal `json:"close"`
	// Last 最新价
	Last types.ExDecimal `json:"last"`
	// PreviousClose 前一周期收盘价
	PreviousClose types.ExDecimal `json:"previousClose"`
	// Change 涨跌额
	Change types.ExDecimal `json:"change"`
	// Percentage 涨跌幅（百分比）
	Percentage types.ExDecimal `json:"percentage"`
	// Average 开盘价与最新价的均值
	Average types.ExDecimal `json:"average"`
	// BaseVolume 24小时成交量
	BaseVolume types.ExDecimal `json:"baseVolume"`
	// QuoteVolume 24小时成交额
	QuoteVolume types.ExDecimal `json:"quoteVolume"`
	// Info 交易所原始信息
	Info types.Info `json:"info"`
}

// Tickers 交易对 -> 行情
type Tickers map[string]*Ticker

var hundred = types.NewExDecimalFromInt(100)

// SafeTicker 补全可推导的字段
//   - Close 与 Last 互补
//   - Change / Percentage / Average 由 Open 与 Last 推导
//   - Vwap 由 QuoteVolume / BaseVolume 推导
func SafeTicker(t *Ticker) *Ticker {
	if t.Close.IsNull() {
		t.Close = t.Last
	}
	if t.Last.IsNull() {
		t.Last = t.Close
	}
	if t.Open.IsNull() && t.Last.Valid && t.Change.Valid {
		t.Open = types.ExSub(t.Last, t.Change)
	}
	if t.Open.Valid && t.Last.Valid {
		if t.Change.IsNull() {
			t.Change = types.ExSub(t.Last, t.Open)
		}
		if t.Average.IsNull() {
			t.Average = types.NewExDecimal(t.Last.Decimal.Add(t.Open.Decimal).Div(decimal.NewFromInt(2)))
		}
		if t.Percentage.IsNull() && !t.Open.Decimal.IsZero() {
			t.Percentage = types.ExMul(types.ExDiv(t.Change, t.Open), hundred)
		}
	}
	if t.Vwap.IsNull() && t.BaseVolume.IsPositive() && t.QuoteVolume.Valid {
		t.Vwap = types.ExDiv(t.QuoteVolume, t.BaseVolume)
	}
	return t
}
