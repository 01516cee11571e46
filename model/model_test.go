package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemconn/exkit/types"
)

func d(s string) types.ExDecimal {
	return types.ParseExDecimal(s)
}

func TestStatusTable(t *testing.T) {
	table := StatusTable[OrderStatus]{
		"NEW":              OrderStatusOpen,
		"PARTIALLY_FILLED": OrderStatusOpen,
		"FILLED":           OrderStatusClosed,
		"CANCELED":         OrderStatusCanceled,
	}
	assert.Equal(t, OrderStatusOpen, table.Parse("PARTIALLY_FILLED"))
	assert.Equal(t, OrderStatusClosed, table.Parse("FILLED"))
	assert.Equal(t, OrderStatus("PENDING_NEW"), table.Parse("PENDING_NEW"))
}

func TestParseSideAndType(t *testing.T) {
	assert.Equal(t, OrderSideBuy, ParseOrderSide("BUY"))
	assert.Equal(t, OrderSideSell, ParseOrderSide(" ask "))
	assert.Equal(t, OrderSide(""), ParseOrderSide("hold"))
	assert.Equal(t, OrderTypeLimit, ParseOrderType("LIMIT_MAKER"))
	assert.Equal(t, OrderTypeMarket, ParseOrderType("market"))
	assert.Equal(t, OrderType(""), ParseOrderType("stop_loss"))
}

func TestSafeOrder(t *testing.T) {
	o := SafeOrder(&Order{Amount: d("2"), Filled: d("0.5"), Cost: d("50")})
	assert.Equal(t, "1.5", o.Remaining.String())
	assert.Equal(t, "100", o.Average.String())

	o = SafeOrder(&Order{Amount: d("2"), Remaining: d("2")})
	assert.Equal(t, "0", o.Filled.String())
	assert.True(t, o.Average.IsNull())

	o = SafeOrder(&Order{Filled: d("1"), Remaining: d("3"), Average: d("10")})
	assert.Equal(t, "4", o.Amount.String())
	assert.Equal(t, "10", o.Cost.String())

	o = SafeOrder(&Order{Amount: d("1"), Filled: d("1.2")})
	assert.Equal(t, "0", o.Remaining.String())

	last := types.NewExTimestampMillis(1700000000000)
	o = SafeOrder(&Order{Trades: []*Trade{{Timestamp: last}}})
	assert.Equal(t, last.Millis(), o.LastTradeTimestamp.Millis())
}

func TestSafeOrderIdempotent(t *testing.T) {
	once := SafeOrder(&Order{Amount: d("3"), Filled: d("1"), Cost: d("30")})
	copied := *once
	twice := SafeOrder(&copied)
	assert.Equal(t, once, twice)
}

func TestSafeTrade(t *testing.T) {
	tr := SafeTrade(&Trade{Price: d("30000"), Amount: d("0.01")})
	assert.Equal(t, "300", tr.Cost.String())

	tr = SafeTrade(&Trade{Price: d("30000"), Amount: d("0.01"), Cost: d("299.5")})
	assert.Equal(t, "299.5", tr.Cost.String())

	tr = SafeTrade(&Trade{Amount: d("0.01")})
	assert.True(t, tr.Cost.IsNull())
}

func TestSafeTicker(t *testing.T) {
	tk := SafeTicker(&Ticker{Open: d("100"), Last: d("110"), BaseVolume: d("2"), QuoteVolume: d("210")})
	assert.Equal(t, "110", tk.Close.String())
	assert.Equal(t, "10", tk.Change.String())
	assert.Equal(t, "10", tk.Percentage.String())
	assert.Equal(t, "105", tk.Average.String())
	assert.Equal(t, "105", tk.Vwap.String())

	tk = SafeTicker(&Ticker{Close: d("50"), Change: d("-5")})
	assert.Equal(t, "50", tk.Last.String())
	assert.Equal(t, "55", tk.Open.String())

	tk = SafeTicker(&Ticker{Last: d("1"), BaseVolume: d("0"), QuoteVolume: d("0")})
	assert.True(t, tk.Vwap.IsNull())
}

func TestOrderBook(t *testing.T) {
	var raw struct {
		Bids [][]types.ExDecimal `json:"bids"`
		Asks [][]types.ExDecimal `json:"asks"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"bids":[["100.5","2.0"]],"asks":[["101.0","1.5"]]}`), &raw))

	book := NewOrderBook("BTC/USDT", ParseBidAsk(raw.Bids, 0, 1), ParseBidAsk(raw.Asks, 0, 1))
	require.NotNil(t, book.BestBid())
	assert.Equal(t, "100.5", book.BestBid().Price.String())
	assert.Equal(t, "2", book.BestBid().Amount.String())
	assert.Equal(t, "101", book.BestAsk().Price.String())
	assert.Equal(t, "1.5", book.BestAsk().Amount.String())
}

func TestOrderBookSortingAndLimit(t *testing.T) {
	rows := [][]types.ExDecimal{
		{d("99"), d("1")},
		{d("101"), d("1")},
		{d("100"), d("1")},
		{d("98")},
		{{}, d("1")},
	}
	book := NewOrderBook("X/Y", ParseBidAsk(rows, 0, 1), ParseBidAsk(rows, 0, 1))
	require.Len(t, book.Bids, 3)
	assert.Equal(t, "101", book.Bids[0].Price.String())
	assert.Equal(t, "99", book.Asks[0].Price.String())

	book.Limit(2)
	assert.Len(t, book.Bids, 2)
	assert.Len(t, book.Asks, 2)

	empty := NewOrderBook("X/Y", nil, nil)
	assert.Nil(t, empty.BestBid())
	assert.Nil(t, empty.BestAsk())
	assert.NotNil(t, empty.Bids)
}

func TestBalances(t *testing.T) {
	b := NewBalances(nil)
	assert.Equal(t, "1.5", b.Set("BTC", d("1"), d("0.5"), types.ExDecimal{}).Total.String())
	assert.Equal(t, "7", b.Set("USDT", types.ExDecimal{}, d("3"), d("10")).Free.String())
	assert.Equal(t, "2", b.Set("ETH", d("3"), types.ExDecimal{}, d("5")).Used.String())
	b.Set("DOGE", d("0"), d("0"), d("0"))

	assert.Equal(t, []string{"BTC", "DOGE", "ETH", "USDT"}, b.Currencies())
	nonZero := b.NonZero()
	require.Len(t, nonZero, 3)
	assert.Equal(t, "BTC", nonZero[0].Currency)

	missing := b.Get("XRP")
	assert.Equal(t, "XRP", missing.Currency)
	assert.True(t, missing.Total.IsNull())
}

func TestTimeframeDuration(t *testing.T) {
	assert.Equal(t, time.Minute, Timeframe1m.Duration())
	assert.Equal(t, 4*time.Hour, Timeframe4h.Duration())
	assert.Equal(t, 7*24*time.Hour, Timeframe1w.Duration())
	assert.Equal(t, 30*24*time.Hour, Timeframe1M.Duration())
	assert.Equal(t, time.Duration(0), Timeframe("x").Duration())
	assert.Equal(t, time.Duration(0), Timeframe("0m").Duration())

	tfs := Timeframes{Timeframe1h: "60", Timeframe1d: "1D"}
	v, ok := tfs.Lookup("1h")
	assert.True(t, ok)
	assert.Equal(t, "60", v)
	_, ok = tfs.Lookup("2h")
	assert.False(t, ok)
	assert.Len(t, tfs.Keys(), 2)
}

func TestMarkets(t *testing.T) {
	markets := Markets{
		{Symbol: "BTC/USDT", Type: MarketTypeSpot},
		{Symbol: "BTC/USDT:USDT", Type: MarketTypeSwap},
		{Symbol: "ETH/USDT", Type: MarketTypeSpot},
	}
	assert.Equal(t, []string{"BTC/USDT", "BTC/USDT:USDT", "ETH/USDT"}, markets.Symbols())
	assert.Equal(t, []string{"BTC/USDT:USDT"}, markets.FilterByType(MarketTypeSwap).Symbols())
}
