package base

import (
	"sort"
	"time"

	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

// FilterBySinceLimit 按时间升序排列，过滤 since 之前的记录并保留最近的 limit 条
func FilterBySinceLimit[T any](items []T, timestamp func(T) types.ExTimestamp, since *time.Time, limit *int) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return timestamp(items[i]).Millis() < timestamp(items[j]).Millis()
	})
	out := items
	if t, ok := option.GetTime(since); ok {
		from := t.UnixMilli()
		filtered := make([]T, 0, len(items))
		for _, item := range items {
			if timestamp(item).Millis() >= from {
				filtered = append(filtered, item)
			}
		}
		out = filtered
	}
	if n, ok := option.GetInt(limit); ok && n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// FilterBySymbol 只保留指定交易对的记录，symbol 为空时全部保留
func FilterBySymbol[T any](items []T, symbolOf func(T) string, symbol string) []T {
	if symbol == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if symbolOf(item) == symbol {
			out = append(out, item)
		}
	}
	return out
}

// FilterTrades 过滤成交记录，symbol 为空时不按交易对过滤
func FilterTrades(trades []*model.Trade, symbol string, args *option.ExchangeArgsOptions) []*model.Trade {
	trades = FilterBySymbol(trades, func(t *model.Trade) string { return t.Symbol }, symbol)
	return FilterBySinceLimit(trades, func(t *model.Trade) types.ExTimestamp { return t.Timestamp }, args.Since, args.Limit)
}

// FilterOrders 过滤订单，symbol 为空时不按交易对过滤
func FilterOrders(orders []*model.Order, symbol string, args *option.ExchangeArgsOptions) []*model.Order {
	orders = FilterBySymbol(orders, func(o *model.Order) string { return o.Symbol }, symbol)
	return FilterBySinceLimit(orders, func(o *model.Order) types.ExTimestamp { return o.Timestamp }, args.Since, args.Limit)
}

// FilterOHLCVs 过滤K线
func FilterOHLCVs(ohlcvs model.OHLCVs, args *option.ExchangeArgsOptions) model.OHLCVs {
	return FilterBySinceLimit(ohlcvs, func(o *model.OHLCV) types.ExTimestamp { return o.Timestamp }, args.Since, args.Limit)
}

// FilterTransactions 过滤充提记录，code 非空时只保留该币种
func FilterTransactions(txs []*model.Transaction, code string, args *option.ExchangeArgsOptions) []*model.Transaction {
	if code != "" {
		filtered := make([]*model.Transaction, 0, len(txs))
		for _, tx := range txs {
			if tx.Currency == code {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}
	return FilterBySinceLimit(txs, func(t *model.Transaction) types.ExTimestamp { return t.Timestamp }, args.Since, args.Limit)
}

// FilterTickers 只保留指定交易对的行情，symbols 为空时全部保留
func FilterTickers(tickers model.Tickers, symbols []string) model.Tickers {
	if len(symbols) == 0 {
		return tickers
	}
	out := make(model.Tickers, len(symbols))
	for _, s := range symbols {
		if t, ok := tickers[s]; ok {
			out[s] = t
		}
	}
	return out
}
