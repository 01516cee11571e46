package common

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/types"
)

func TestHMAC(t *testing.T) {
	msg := []byte("The quick brown fox jumps over the lazy dog")
	key := []byte("key")
	assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", HMAC(msg, key, SHA256, Hex))
	assert.Equal(t, "97yD9DBThCSxMpjmqm+xQ+9NWaFJRhdZl0edvC0aPNg=", HMAC(msg, key, SHA256, Base64))
	assert.Equal(t, "de7c9b85b8b78aa6bc8a7a36f70a90701c9db4d9", HMAC(msg, key, SHA1, Hex))
	assert.Len(t, HMAC(msg, key, SHA512, Hex), 128)
	assert.Len(t, HMAC(msg, key, SHA384, Hex), 96)
}

func TestHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(nil, SHA256, Hex))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Hash(nil, MD5, Hex))

	encoded := Base64Encode([]byte("exkit"))
	decoded, err := Base64Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "exkit", string(decoded))
	assert.Equal(t, "2023-11-14T22:13:20.000Z", ISO8601(time.Unix(1700000000, 0)))
}

func TestPrecision(t *testing.T) {
	market := &model.Market{
		Precision: model.Precision{
			Amount: types.ParseExDecimal("0.001"),
			Price:  TickFromDecimals(2),
		},
	}
	assert.Equal(t, "0.01", TickFromDecimals(2).String())
	assert.Equal(t, "1.234", AmountToPrecision(market, decimal.RequireFromString("1.23499")))
	assert.Equal(t, "1.000", AmountToPrecision(market, decimal.RequireFromString("1")))
	assert.Equal(t, "100.13", PriceToPrecision(market, decimal.RequireFromString("100.125")))
	assert.Equal(t, "100.12", PriceToPrecision(market, decimal.RequireFromString("100.1249")))
	assert.Equal(t, "12.35", CostToPrecision(market, decimal.RequireFromString("12.345")))
	assert.Equal(t, "1.23499", AmountToPrecision(nil, decimal.RequireFromString("1.23499")))

	// 步长不是 10 的幂
	tick := decimal.RequireFromString("0.5")
	assert.Equal(t, "2", Truncate(decimal.RequireFromString("2.4"), tick).String())
	assert.Equal(t, "2.5", Round(decimal.RequireFromString("2.4"), tick).String())
	assert.Equal(t, 3, DecimalsFromTick(decimal.RequireFromString("0.001")))
	assert.Equal(t, 0, DecimalsFromTick(decimal.RequireFromString("10")))

	// 截断后再截断不变
	once := AmountToPrecision(market, decimal.RequireFromString("7.77777"))
	twice := AmountToPrecision(market, decimal.RequireFromString(once))
	assert.Equal(t, once, twice)
}

func TestRouteParams(t *testing.T) {
	path := "orders/{pair}/{id}"
	params := map[string]interface{}{"pair": "BTC_USDT", "id": 12, "limit": 5}

	assert.Equal(t, []string{"pair", "id"}, ExtractParams(path))
	assert.Equal(t, "orders/BTC_USDT/12", ImplodeParams(path, params))
	assert.Equal(t, "orders/BTC_USDT/{id}", ImplodeParams(path, map[string]interface{}{"pair": "BTC_USDT"}))
	assert.Equal(t, map[string]interface{}{"limit": 5}, Omit(params, ExtractParams(path)...))
	assert.Len(t, params, 3)

	merged := Extend(map[string]interface{}{"a": 1, "b": 1}, map[string]interface{}{"b": 2}, nil)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, merged)
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "BTC/USDT", Symbol("btc", "usdt", ""))
	assert.Equal(t, "BTC/USDT:USDT", Symbol("BTC", "USDT", "usdt"))

	base, quote, settle, err := ParseSymbol("eth/usdt:usdt")
	require.NoError(t, err)
	assert.Equal(t, []string{"ETH", "USDT", "USDT"}, []string{base, quote, settle})

	_, _, _, err = ParseSymbol("BTCUSDT")
	require.Error(t, err)
	_, _, _, err = ParseSymbol("BTC/")
	require.Error(t, err)
}

func TestPeekJSON(t *testing.T) {
	v, ok := PeekJSON([]byte(`{"code":10001,"msg":"bad","ok":true,"none":null}`))
	require.True(t, ok)
	assert.Equal(t, "10001", JSONString(v, "code"))
	assert.Equal(t, "bad", JSONString(v, "msg"))
	assert.Equal(t, "true", JSONString(v, "ok"))
	assert.Equal(t, "", JSONString(v, "none"))
	assert.Equal(t, "", JSONString(v, "missing"))
	assert.Equal(t, "", JSONString(nil, "code"))

	_, ok = PeekJSON([]byte(`<html>`))
	assert.False(t, ok)
	_, ok = PeekJSON([]byte("  "))
	assert.False(t, ok)
}

func TestArrayAccessors(t *testing.T) {
	var row []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(`[1700000000000,"30000.5",12.25,null]`), &row))

	assert.Equal(t, int64(1700000000000), TimestampAt(row, 0).Millis())
	assert.Equal(t, "30000.5", DecimalAt(row, 1).String())
	assert.Equal(t, "12.25", DecimalAt(row, 2).String())
	assert.True(t, DecimalAt(row, 3).IsNull())
	assert.True(t, DecimalAt(row, 9).IsNull())
	assert.Equal(t, "", StringAt(row, -1))
}

func TestCalculateFee(t *testing.T) {
	spot := &model.Market{
		Base: "BTC", Quote: "USDT",
		Maker: types.ParseExDecimal("0.001"),
		Taker: types.ParseExDecimal("0.002"),
	}
	amount := decimal.RequireFromString("2")
	price := decimal.RequireFromString("100")

	buy := CalculateFee(spot, model.OrderSideBuy, "", amount, price)
	assert.Equal(t, "BTC", buy.Currency)
	assert.Equal(t, "0.004", buy.Cost.String())
	assert.Equal(t, "0.002", buy.Rate.String())

	sell := CalculateFee(spot, model.OrderSideSell, model.Maker, amount, price)
	assert.Equal(t, "USDT", sell.Currency)
	assert.Equal(t, "0.2", sell.Cost.String())

	swap := &model.Market{Base: "BTC", Quote: "USDT", Settle: "USDT", Contract: true, Taker: types.ParseExDecimal("0.0005")}
	fee := CalculateFee(swap, model.OrderSideBuy, model.Taker, amount, price)
	assert.Equal(t, "USDT", fee.Currency)
	assert.Equal(t, "0.1", fee.Cost.String())

	assert.Nil(t, CalculateFee(nil, model.OrderSideBuy, "", amount, price))
	assert.Equal(t, "0.4", FeeFromCost(spot, model.Taker, types.ParseExDecimal("200")).Cost.String())
	assert.Nil(t, FeeFromCost(spot, model.Taker, types.ExDecimal{}))
	assert.Equal(t, "USDT", FeeFromCost(spot, model.Maker, types.ParseExDecimal("200")).Currency)
	assert.Equal(t, "0.2", FeeFromCost(spot, model.Maker, types.ParseExDecimal("200")).Cost.String())

	inverse := &model.Market{Base: "BTC", Quote: "USD", Settle: "BTC", Contract: true, Taker: types.ParseExDecimal("0.0005")}
	assert.Equal(t, "BTC", FeeFromCost(inverse, "", types.ParseExDecimal("2")).Currency)
}

func TestNonceConcurrent(t *testing.T) {
	n := NewNonce(time.Second)
	n.SetClock(func() time.Time { return time.Unix(1700000000, 0) })

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := n.Next()
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
	assert.True(t, seen[1700000000])
}

func TestGenerateClientOrderID(t *testing.T) {
	id := GenerateClientOrderID("Gate")
	assert.Regexp(t, regexp.MustCompile(`^exkitgate[0-9a-f]{16}$`), id)
	assert.NotEqual(t, id, GenerateClientOrderID("Gate"))
}

func TestThrottler(t *testing.T) {
	var disabled *Throttler
	assert.False(t, disabled.Enabled())
	require.NoError(t, disabled.Wait(context.Background(), 1))
	assert.False(t, NewThrottler(0).Enabled())

	th := NewThrottler(time.Hour)
	require.True(t, th.Enabled())
	require.NoError(t, th.Wait(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, th.Wait(ctx, 1))
}
