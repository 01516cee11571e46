package model

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lemconn/exkit/types"
)

// OrderBookEntry 订单簿条目 [price, amount]
type OrderBookEntry struct {
	// Price 价格
	Price decimal.Decimal `json:"price"`
	// Amount 数量
	Amount decimal.Decimal `json:"amount"`
}

// OrderBook 订单簿
type OrderBook struct {
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Bids 买单列表（价格从高到低）
	Bids []OrderBookEntry `json:"bids"`
	// Asks 卖单列表（价格从低到高）
	Asks []OrderBookEntry `json:"asks"`
	// Timestamp 时间戳
	Timestamp types.ExTimestamp `json:"timestamp"`
	// Nonce 交易所提供的序号
	Nonce *int64 `json:"nonce"`
	// Info 原始响应
	Info types.Info `json:"info,omitempty"`
}

// NewOrderBook 创建订单簿，买单按价格降序、卖单按价格升序
func NewOrderBook(symbol string, bids, asks []OrderBookEntry) *OrderBook {
	if bids == nil {
		bids = []OrderBookEntry{}
	}
	if asks == nil {
		asks = []OrderBookEntry{}
	}
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Price.GreaterThan(bids[j].Price) })
	sort.SliceStable(asks, func(i, j int) bool { return asks[i].Price.LessThan(asks[j].Price) })
	return &OrderBook{Symbol: symbol, Bids: bids, Asks: asks}
}

// ParseBidAsk 解析 [price, amount, ...] 形式的条目，缺失或无法解析的条目被忽略
func ParseBidAsk(rows [][]types.ExDecimal, priceIdx, amountIdx int) []OrderBookEntry {
	out := make([]OrderBookEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) <= priceIdx || len(row) <= amountIdx {
			continue
		}
		price, amount := row[priceIdx], row[amountIdx]
		if price.IsNull() || amount.IsNull() {
			continue
		}
		out = append(out, OrderBookEntry{Price: price.Decimal, Amount: amount.Decimal})
	}
	return out
}

// Limit 截取前 n 档，n <= 0 时不截取
func (b *OrderBook) Limit(n int) *OrderBook {
	if n <= 0 {
		return b
	}
	if len(b.Bids) > n {
		b.Bids = b.Bids[:n]
	}
	if len(b.Asks) > n {
		b.Asks = b.Asks[:n]
	}
	return b
}

// BestBid 买一，无买单返回 nil
func (b *OrderBook) BestBid() *OrderBookEntry {
	if len(b.Bids) == 0 {
		return nil
	}
	return &b.Bids[0]
}

// BestAsk 卖一，无卖单返回 nil
func (b *OrderBook) BestAsk() *OrderBookEntry {
	if len(b.Asks) == 0 {
		return nil
	}
	return &b.Asks[0]
}
