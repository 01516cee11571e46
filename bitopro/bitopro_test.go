package bitopro

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

const (
	testSecret = "test-secret"

	currenciesJSON = `{"data":[
		{"currency":"btc","withdrawFee":"0.0005","minWithdraw":"0.001","maxWithdraw":"10","maxDailyWithdraw":"20","withdraw":true,"deposit":true,"depositConfirmation":"2"},
		{"currency":"twd","withdrawFee":"15","minWithdraw":"100","maxWithdraw":"1000000","withdraw":true,"deposit":true},
		{"currency":"usdt","withdrawFee":"1","minWithdraw":"5","maxWithdraw":"100000","withdraw":true,"deposit":false}]}`

	pairsJSON = `{"data":[
		{"pair":"btc_twd","base":"btc","quote":"twd","basePrecision":"8","quotePrecision":"0",
			"minLimitBaseAmount":"0.0001","maxLimitBaseAmount":"1000","minMarketBuyQuoteAmount":"100","maintain":false},
		{"pair":"usdt_twd","base":"usdt","quote":"twd","basePrecision":"2","quotePrecision":"3",
			"minLimitBaseAmount":"1","maxLimitBaseAmount":"100000","maintain":true}]}`
)

type recorded struct {
	method string
	query  url.Values
	body   []byte
	header http.Header
}

// bitoproServer 按路径返回固定响应并记录请求
type bitoproServer struct {
	mu       sync.Mutex
	routes   map[string]string
	status   map[string]int
	calls    map[string]int
	requests map[string]recorded
}

func newBitoproServer(routes map[string]string) *bitoproServer {
	s := &bitoproServer{
		routes: map[string]string{
			"/provisioning/currencies":    currenciesJSON,
			"/provisioning/trading-pairs": pairsJSON,
		},
		status:   make(map[string]int),
		calls:    make(map[string]int),
		requests: make(map[string]recorded),
	}
	for path, body := range routes {
		s.routes[path] = body
	}
	return s
}

func (s *bitoproServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.calls[r.URL.Path]++
	s.requests[r.URL.Path] = recorded{method: r.Method, query: r.URL.Query(), body: body, header: r.Header.Clone()}
	resp, ok := s.routes[r.URL.Path]
	status := s.status[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func (s *bitoproServer) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *bitoproServer) request(path string) recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

func newTestBitopro(t *testing.T, routes map[string]string) (*Bitopro, *bitoproServer) {
	t.Helper()
	srv := newBitoproServer(routes)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	p, err := NewBitopro(
		option.WithAPIKey("test-key"),
		option.WithSecretKey(testSecret),
		option.WithBaseURL(ts.URL),
		option.WithEnableRateLimit(false),
	)
	require.NoError(t, err)
	return p, srv
}

func TestSignature(t *testing.T) {
	payload, err := Payload(map[string]int64{"nonce": 1700000000000})
	require.NoError(t, err)
	assert.Equal(t, common.Base64Encode([]byte(`{"nonce":1700000000000}`)), payload)

	sig := Signature(payload, testSecret)
	assert.Len(t, sig, 96)
	assert.Equal(t, sig, Signature(payload, testSecret))
	assert.NotEqual(t, sig, Signature(payload, "other-secret"))
}

func TestHandleErrors(t *testing.T) {
	p, _ := newTestBitopro(t, nil)

	tests := []struct {
		name   string
		status int
		body   string
		kind   exchange.ErrorKind
	}{
		{"exact", 401, `{"error":"Invalid Signature"}`, exchange.AuthenticationError},
		{"exact on http 200", 200, `{"error":"Unsupported currency."}`, exchange.BadRequest},
		{"broad declared first wins", 400, `{"error":"Invalid amount 0.00001"}`, exchange.InvalidOrder},
		{"broad generic", 400, `{"error":"Invalid pair xyz"}`, exchange.BadRequest},
		{"insufficient funds", 400, `{"error":"Balance for btc not enough, only 0.1 available"}`, exchange.InsufficientFunds},
		{"unknown message", 400, `{"error":"Something new"}`, exchange.ExchangeError},
		{"non 2xx without error", 500, `{"message":"oops"}`, exchange.ExchangeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.HandleErrors(&common.Response{StatusCode: tt.status, Status: http.StatusText(tt.status), Body: []byte(tt.body)})
			require.Error(t, err)
			assert.Equal(t, tt.kind, exchange.KindOf(err))
		})
	}

	assert.NoError(t, p.HandleErrors(&common.Response{StatusCode: 200, Body: []byte(`{"data":[]}`)}))
	assert.NoError(t, p.HandleErrors(&common.Response{StatusCode: 200, Body: []byte(`{"error":""}`)}))
	assert.NoError(t, p.HandleErrors(&common.Response{StatusCode: 500, Body: []byte(`<html>bad gateway</html>`)}))
}

func TestFetchMarkets(t *testing.T) {
	p, srv := newTestBitopro(t, nil)
	ctx := context.Background()

	markets, err := p.LoadMarkets(ctx, false)
	require.NoError(t, err)
	require.Len(t, markets, 2)

	m, err := p.Market("BTC/TWD")
	require.NoError(t, err)
	assert.Equal(t, "btc_twd", m.ID)
	assert.Equal(t, "BTC", m.Base)
	assert.Equal(t, "TWD", m.Quote)
	assert.Equal(t, "btc", m.BaseID)
	assert.True(t, m.Spot)
	assert.True(t, m.Active)
	assert.Equal(t, "0.001", m.Maker.String())
	assert.Equal(t, "0.002", m.Taker.String())
	assert.Equal(t, "1", m.Precision.Price.String())
	assert.Equal(t, "0.00000001", m.Precision.Amount.String())
	assert.Equal(t, "0.0001", m.Limits.Amount.Min.String())
	assert.Equal(t, "1000", m.Limits.Amount.Max.String())

	usdt, err := p.Market("USDT/TWD")
	require.NoError(t, err)
	assert.False(t, usdt.Active)

	cur, err := p.Currency("USDT")
	require.NoError(t, err)
	assert.Equal(t, "usdt", cur.ID)
	assert.False(t, cur.Active)
	require.NotNil(t, cur.Deposit)
	assert.False(t, *cur.Deposit)
	assert.Equal(t, "1", cur.Fee.String())
	assert.Equal(t, "5", cur.Limits.Withdraw.Min.String())

	_, err = p.LoadMarkets(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.count("/provisioning/trading-pairs"))
	assert.Equal(t, 1, srv.count("/provisioning/currencies"))
}

func TestFetchTicker(t *testing.T) {
	p, _ := newTestBitopro(t, map[string]string{
		"/tickers/btc_twd": `{"data":{"pair":"btc_twd","lastPrice":"1100000","isBuyer":false,
			"priceChange24hr":"-1.25","volume24hr":"12.5","high24hr":"1150000","low24hr":"1090000"}}`,
		"/tickers": `{"data":[
			{"pair":"btc_twd","lastPrice":"1100000","volume24hr":"12.5"},
			{"pair":"usdt_twd","lastPrice":"31.5","volume24hr":"100000"},
			{"pair":"eth_twd","lastPrice":"60000","volume24hr":"3"}]}`,
	})
	ctx := context.Background()

	ticker, err := p.FetchTicker(ctx, "BTC/TWD")
	require.NoError(t, err)
	assert.Equal(t, "BTC/TWD", ticker.Symbol)
	assert.Equal(t, "1100000", ticker.Last.String())
	assert.Equal(t, "1100000", ticker.Close.String())
	assert.Equal(t, "1150000", ticker.High.String())
	assert.Equal(t, "1090000", ticker.Low.String())
	assert.Equal(t, "-1.25", ticker.Percentage.String())
	assert.Equal(t, "12.5", ticker.BaseVolume.String())
	assert.True(t, ticker.Bid.IsNull())
	assert.NotEmpty(t, ticker.Info)

	tickers, err := p.FetchTickers(ctx)
	require.NoError(t, err)
	assert.Len(t, tickers, 3)
	require.Contains(t, tickers, "ETH/TWD")

	tickers, err = p.FetchTickers(ctx, option.WithSymbols("USDT/TWD"))
	require.NoError(t, err)
	require.Len(t, tickers, 1)
	assert.Equal(t, "31.5", tickers["USDT/TWD"].Last.String())
}

func TestFetchOrderBook(t *testing.T) {
	p, srv := newTestBitopro(t, map[string]string{
		"/order-book/btc_twd": `{
			"bids":[{"price":"100.5","amount":"2.0","count":1,"total":"2.0"},{"price":"100.7","amount":"0.5","count":1,"total":"2.5"}],
			"asks":[{"price":"101.0","amount":"1.5","count":2,"total":"1.5"}]}`,
	})

	ob, err := p.FetchOrderBook(context.Background(), "BTC/TWD", option.WithLimit(5))
	require.NoError(t, err)
	assert.Equal(t, "BTC/TWD", ob.Symbol)
	require.Len(t, ob.Bids, 2)
	require.Len(t, ob.Asks, 1)
	assert.Equal(t, "100.7", ob.Bids[0].Price.String())
	assert.Equal(t, "100.5", ob.Bids[1].Price.String())
	assert.Equal(t, "2", ob.Bids[1].Amount.String())
	assert.Equal(t, "101", ob.Asks[0].Price.String())
	assert.Equal(t, "1.5", ob.Asks[0].Amount.String())
	assert.Equal(t, "5", srv.request("/order-book/btc_twd").query.Get("limit"))
}

func TestFetchTrades(t *testing.T) {
	p, _ := newTestBitopro(t, map[string]string{
		"/trades/btc_twd": `{"data":[
			{"timestamp":1700000060,"price":"1100100","amount":"0.02","isBuyer":false},
			{"timestamp":1700000000,"price":"1100000","amount":"0.01","isBuyer":true}]}`,
	})

	trades, err := p.FetchTrades(context.Background(), "BTC/TWD")
	require.NoError(t, err)
	require.Len(t, trades, 2)

	// 按时间升序
	assert.Equal(t, int64(1700000000000), trades[0].Timestamp.Millis())
	assert.Equal(t, model.OrderSideBuy, trades[0].Side)
	assert.Equal(t, "11000", trades[0].Cost.String())
	assert.Equal(t, "BTC/TWD", trades[0].Symbol)
	assert.Equal(t, model.OrderSideSell, trades[1].Side)
	assert.Nil(t, trades[1].Fee)
}

func TestFetchMyTrades(t *testing.T) {
	p, _ := newTestBitopro(t, map[string]string{
		"/orders/trades/btc_twd": `{"data":[{"tradeId":"t1","orderId":"o1","pair":"btc_twd","action":"SELL",
			"price":"1100000","baseAmount":"0.02","quoteAmount":"22000","fee":"22","feeSymbol":"twd",
			"isTaker":true,"timestamp":1700000000123}]}`,
	})
	ctx := context.Background()

	trades, err := p.FetchMyTrades(ctx, "BTC/TWD")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	tr := trades[0]
	assert.Equal(t, "t1", tr.ID)
	assert.Equal(t, "o1", tr.Order)
	assert.Equal(t, int64(1700000000123), tr.Timestamp.Millis())
	assert.Equal(t, model.OrderSideSell, tr.Side)
	assert.Equal(t, model.Taker, tr.TakerOrMaker)
	assert.Equal(t, "0.02", tr.Amount.String())
	require.NotNil(t, tr.Fee)
	assert.Equal(t, "TWD", tr.Fee.Currency)
	assert.Equal(t, "22", tr.Fee.Cost.String())

	_, err = p.FetchMyTrades(ctx, "")
	assert.True(t, exchange.IsKind(err, exchange.ArgumentsRequired))
}

func TestFetchOHLCV(t *testing.T) {
	p, srv := newTestBitopro(t, map[string]string{
		"/trading-history/btc_twd": `{"data":[
			{"timestamp":1700000040000,"open":"100","high":"110","low":"90","close":"105","volume":"2"},
			{"timestamp":1700000160000,"open":"106","high":"108","low":"104","close":"107","volume":"1"}]}`,
	})
	ctx := context.Background()

	since := time.UnixMilli(1700000070000)
	candles, err := p.FetchOHLCV(ctx, "BTC/TWD", "1m", option.WithSince(since), option.WithLimit(3))
	require.NoError(t, err)
	require.Len(t, candles, 3)
	assert.Equal(t, int64(1700000040000), candles[0].Timestamp.Millis())
	assert.Equal(t, int64(1700000100000), candles[1].Timestamp.Millis())
	assert.Equal(t, "105", candles[1].Open.String())
	assert.Equal(t, "105", candles[1].Close.String())
	assert.Equal(t, "0", candles[1].Volume.String())
	assert.Equal(t, int64(1700000160000), candles[2].Timestamp.Millis())

	q := srv.request("/trading-history/btc_twd").query
	assert.Equal(t, "1m", q.Get("resolution"))
	assert.Equal(t, "1700000040", q.Get("from"))
	assert.Equal(t, "1700000220", q.Get("to"))

	p.NonceSource().SetClock(func() time.Time { return time.Unix(1700003600, 0) })
	_, err = p.FetchOHLCV(ctx, "BTC/TWD", "1h", option.WithLimit(2))
	require.NoError(t, err)
	q = srv.request("/trading-history/btc_twd").query
	assert.Equal(t, "1700003600", q.Get("to"))
	assert.Equal(t, "1699996400", q.Get("from"))

	_, err = p.FetchOHLCV(ctx, "BTC/TWD", "2h")
	assert.True(t, exchange.IsKind(err, exchange.NotSupported))
}

func TestFillMissingCandles(t *testing.T) {
	candle := func(ts int64, c string) *model.OHLCV {
		v := types.ParseExDecimal(c)
		return &model.OHLCV{Timestamp: types.NewExTimestampMillis(ts), Open: v, High: v, Low: v, Close: v, Volume: types.ParseExDecimal("1")}
	}
	const step = 60000
	t0 := int64(1700000040000)

	out := fillMissingCandles(model.OHLCVs{candle(t0, "1"), candle(t0+3*step, "4")}, step, 0, 10)
	require.Len(t, out, 4)
	assert.Equal(t, t0+step, out[1].Timestamp.Millis())
	assert.Equal(t, "1", out[2].Close.String())
	assert.Equal(t, "0", out[2].Volume.String())
	assert.Equal(t, "4", out[3].Close.String())

	out = fillMissingCandles(model.OHLCVs{candle(t0, "1"), candle(t0+3*step, "4")}, step, 0, 2)
	assert.Len(t, out, 2)

	// since 之前的K线被跳过
	out = fillMissingCandles(model.OHLCVs{candle(t0, "1"), candle(t0+step, "2")}, step, t0+step, 5)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].Close.String())

	assert.Empty(t, fillMissingCandles(nil, step, 0, 5))
}

func TestFetchTradingFees(t *testing.T) {
	p, _ := newTestBitopro(t, map[string]string{
		"/provisioning/limitations-and-fees": `{"tradingFeeRate":[
			{"rank":0,"twdVolumeSymbol":"<","twdVolume":"3000000","bitoAmountSymbol":"<","bitoAmount":"7500","makerFee":"0.001","takerFee":"0.002"},
			{"rank":1,"makerFee":"0.00094","takerFee":"0.00194"}]}`,
	})

	fees, err := p.FetchTradingFees(context.Background())
	require.NoError(t, err)
	require.Len(t, fees, 2)
	assert.Equal(t, "0.001", fees["BTC/TWD"].Maker.String())
	assert.Equal(t, "0.002", fees["USDT/TWD"].Taker.String())
}

func TestFetchBalance(t *testing.T) {
	p, srv := newTestBitopro(t, map[string]string{
		"/accounts/balance": `{"data":[
			{"amount":"10","available":"7.5","currency":"btc","stake":"0","tradable":true},
			{"amount":"0","available":"0","currency":"twd","stake":"0","tradable":true}]}`,
	})

	balances, err := p.FetchBalance(context.Background())
	require.NoError(t, err)
	btc := balances.Get("BTC")
	assert.Equal(t, "7.5", btc.Free.String())
	assert.Equal(t, "2.5", btc.Used.String())
	assert.Equal(t, "10", btc.Total.String())
	assert.Len(t, balances.NonZero(), 1)

	req := srv.request("/accounts/balance")
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "test-key", req.header.Get("X-BITOPRO-APIKEY"))
	payload := req.header.Get("X-BITOPRO-PAYLOAD")
	raw, err := common.Base64Decode(payload)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"nonce":`)
	assert.Equal(t, Signature(payload, testSecret), req.header.Get("X-BITOPRO-SIGNATURE"))
}

func TestCreateOrder(t *testing.T) {
	p, srv := newTestBitopro(t, map[string]string{
		"/orders/btc_twd": `{"orderId":"5566","timestamp":1700000000000,"action":"BUY","amount":"0.12345678","price":"1000000","timeInForce":"POST_ONLY"}`,
	})

	order, err := p.CreateOrder(context.Background(), "BTC/TWD", model.OrderSideBuy, "0.123456789",
		option.WithPrice("1000000.4"), option.WithPostOnly(true))
	require.NoError(t, err)
	assert.Equal(t, "5566", order.ID)
	assert.Equal(t, "BTC/TWD", order.Symbol)
	assert.Equal(t, model.OrderSideBuy, order.Side)
	assert.Equal(t, model.OrderTimeInForcePO, order.TimeInForce)
	require.NotNil(t, order.PostOnly)
	assert.True(t, *order.PostOnly)

	req := srv.request("/orders/btc_twd")
	assert.Equal(t, http.MethodPost, req.method)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.body, &body))
	assert.Equal(t, "LIMIT", body["type"])
	assert.Equal(t, "BUY", body["action"])
	assert.Equal(t, "0.12345678", body["amount"])
	assert.Equal(t, "1000000", body["price"])
	assert.Equal(t, "POST_ONLY", body["timeInForce"])
	assert.NotContains(t, body, "pair")
	assert.Contains(t, body, "timestamp")

	payload := req.header.Get("X-BITOPRO-PAYLOAD")
	assert.Equal(t, common.Base64Encode(req.body), payload)
	assert.Equal(t, Signature(payload, testSecret), req.header.Get("X-BITOPRO-SIGNATURE"))
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
}

func TestCreateStopOrder(t *testing.T) {
	p, srv := newTestBitopro(t, map[string]string{
		"/orders/btc_twd": `{"orderId":"7788","timestamp":1700000000000,"action":"SELL","amount":"0.1","price":"990000"}`,
	})
	ctx := context.Background()

	_, err := p.CreateOrder(ctx, "BTC/TWD", model.OrderSideSell, "0.1", option.WithParam("stopPrice", "995000"))
	assert.True(t, exchange.IsKind(err, exchange.InvalidOrder))
	_, err = p.CreateOrder(ctx, "BTC/TWD", model.OrderSideSell, "0.1",
		option.WithPrice("990000"), option.WithParam("stopPrice", "995000"))
	assert.True(t, exchange.IsKind(err, exchange.InvalidOrder))
	assert.Equal(t, 0, srv.count("/orders/btc_twd"))

	_, err = p.CreateOrder(ctx, "BTC/TWD", model.OrderSideSell, "0.1", option.WithPrice("990000"),
		option.WithParams(map[string]interface{}{"triggerPrice": "995000", "condition": "<="}))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(srv.request("/orders/btc_twd").body, &body))
	assert.Equal(t, "STOP_LIMIT", body["type"])
	assert.Equal(t, "995000", body["stopPrice"])
	assert.Equal(t, "<=", body["condition"])
	assert.NotContains(t, body, "triggerPrice")
}

func TestFetchOrder(t *testing.T) {
	p, _ := newTestBitopro(t, map[string]string{
		"/orders/btc_twd/123": `{"id":"123","pair":"btc_twd","price":"1000000","avgExecutionPrice":"1000500",
			"action":"BUY","type":"LIMIT","createdTimestamp":1700000000000,"updatedTimestamp":1700000001000,
			"status":1,"originalAmount":"0.1","remainingAmount":"0.04","executedAmount":"0.06",
			"fee":"0.00006","feeSymbol":"btc","timeInForce":"GTC"}`,
	})

	order, err := p.FetchOrder(context.Background(), "123", "BTC/TWD")
	require.NoError(t, err)
	assert.Equal(t, "123", order.ID)
	assert.Equal(t, model.OrderStatusOpen, order.Status)
	assert.Equal(t, model.OrderTypeLimit, order.Type)
	assert.Equal(t, int64(1700000000000), order.Timestamp.Millis())
	assert.Equal(t, int64(1700000001000), order.LastTradeTimestamp.Millis())
	assert.Equal(t, "0.1", order.Amount.String())
	assert.Equal(t, "0.06", order.Filled.String())
	assert.Equal(t, "0.04", order.Remaining.String())
	assert.Equal(t, "60030", order.Cost.String())
	require.NotNil(t, order.Fee)
	assert.Equal(t, "BTC", order.Fee.Currency)
}

func TestOrderStatus(t *testing.T) {
	tests := map[string]model.OrderStatus{
		"-1": model.OrderStatusOpen,
		"0":  model.OrderStatusOpen,
		"1":  model.OrderStatusOpen,
		"2":  model.OrderStatusClosed,
		"3":  model.OrderStatusClosed,
		"4":  model.OrderStatusCanceled,
		"6":  model.OrderStatusCanceled,
		"9":  model.OrderStatus("9"),
	}
	for raw, want := range tests {
		assert.Equal(t, want, bitoproOrderStatus.Parse(raw), raw)
	}
}

func TestFetchOrders(t *testing.T) {
	p, srv := newTestBitopro(t, map[string]string{
		"/orders/all/btc_twd": `{"data":[
			{"id":"2","pair":"btc_twd","action":"SELL","type":"MARKET","createdTimestamp":1700000002000,"status":"2","originalAmount":"0.1","executedAmount":"0.1","avgExecutionPrice":"1000000"},
			{"id":"1","pair":"btc_twd","action":"BUY","type":"LIMIT","createdTimestamp":1700000001000,"status":"0","price":"990000","originalAmount":"0.2","executedAmount":"0"}]}`,
		"/orders/btc_twd": `{"data":{"btc_twd":["1","3"]}}`,
	})
	ctx := context.Background()

	orders, err := p.FetchOpenOrders(ctx, "BTC/TWD", option.WithSince(time.UnixMilli(1700000000000)), option.WithLimit(10))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "1", orders[0].ID)
	assert.Equal(t, "0.2", orders[0].Remaining.String())
	assert.Equal(t, model.OrderStatusClosed, orders[1].Status)
	assert.Equal(t, "100000", orders[1].Cost.String())

	q := srv.request("/orders/all/btc_twd").query
	assert.Equal(t, "OPEN", q.Get("statusKind"))
	assert.Equal(t, "1700000000000", q.Get("startTimestamp"))
	assert.Equal(t, "10", q.Get("limit"))

	_, err = p.FetchClosedOrders(ctx, "BTC/TWD")
	require.NoError(t, err)
	assert.Equal(t, "DONE", srv.request("/orders/all/btc_twd").query.Get("statusKind"))

	_, err = p.FetchOpenOrders(ctx, "")
	assert.True(t, exchange.IsKind(err, exchange.ArgumentsRequired))

	canceled, err := p.CancelAllOrders(ctx, "BTC/TWD")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, canceled["btc_twd"])
	assert.Equal(t, http.MethodDelete, srv.request("/orders/btc_twd").method)
}

func TestFetchDeposits(t *testing.T) {
	p, srv := newTestBitopro(t, map[string]string{
		"/wallet/depositHistory/usdt": `{"data":[
			{"serial":"D2","timestamp":1700000100000,"address":"Txyz","amount":"50","fee":"0","total":"50","status":"WAIT_PROCESS","txid":"0xdef","protocol":"MAIN"},
			{"serial":"D1","timestamp":1700000000000,"address":"Txyz","amount":"100","fee":"0","total":"100","status":"COMPLETE","txid":"0xabc","protocol":"TRX","message":"memo"},
			{"serial":"D0","timestamp":1699999000000,"address":"0x1","amount":"1","fee":"0","total":"1","status":"NEW_STATE","protocol":"ERC20"}]}`,
	})
	ctx := context.Background()

	txs, err := p.FetchDeposits(ctx, "USDT", option.WithSince(time.UnixMilli(1699999999000)))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "D1", txs[0].ID)
	assert.Equal(t, model.TransactionDeposit, txs[0].Type)
	assert.Equal(t, model.TransactionOK, txs[0].Status)
	assert.Equal(t, "TRC20", txs[0].Network)
	assert.Equal(t, "memo", txs[0].Tag)
	assert.Equal(t, "USDT", txs[0].Currency)
	assert.Equal(t, "100", txs[0].Amount.String())
	assert.Equal(t, model.TransactionPending, txs[1].Status)
	assert.Equal(t, "USDT", txs[1].Network)

	assert.Equal(t, "1699999999000", srv.request("/wallet/depositHistory/usdt").query.Get("startTimestamp"))
	assert.Equal(t, model.TransactionStatus("NEW_STATE"), bitoproTransactionStatus.Parse("NEW_STATE"))

	_, err = p.FetchDeposits(ctx, "")
	assert.True(t, exchange.IsKind(err, exchange.ArgumentsRequired))
	_, err = p.FetchDepositAddress(ctx, "USDT")
	assert.True(t, exchange.IsKind(err, exchange.NotSupported))
}

func TestWithdraw(t *testing.T) {
	p, srv := newTestBitopro(t, map[string]string{
		"/wallet/withdraw/usdt": `{"data":{"serial":"W1","currency":"usdt","protocol":"TRX","address":"Txyz","amount":"50","fee":"1","total":"51"}}`,
		"/wallet/withdraw/usdt/W1": `{"data":{"serial":"W1","currency":"usdt","protocol":"TRX","address":"Txyz","amount":"50","fee":"1","total":"51",
			"status":"COMPLETE","txid":"0x99","timestamp":1700000000000}}`,
	})
	ctx := context.Background()

	_, err := p.Withdraw(ctx, "USDT", "50", "Txyz", option.WithNetwork("SOL"))
	assert.True(t, exchange.IsKind(err, exchange.ExchangeError))
	assert.Equal(t, 0, srv.count("/wallet/withdraw/usdt"))

	tx, err := p.Withdraw(ctx, "USDT", "50", "Txyz", option.WithNetwork("trc20"), option.WithTag("memo1"))
	require.NoError(t, err)
	assert.Equal(t, "W1", tx.ID)
	assert.Equal(t, model.TransactionWithdrawal, tx.Type)
	assert.Equal(t, "TRC20", tx.Network)
	assert.Equal(t, "51", tx.Amount.String())
	assert.Equal(t, "1", tx.Fee.Cost.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(srv.request("/wallet/withdraw/usdt").body, &body))
	assert.Equal(t, "TRX", body["protocol"])
	assert.Equal(t, "memo1", body["message"])
	assert.Equal(t, "50", body["amount"])
	assert.Equal(t, "Txyz", body["address"])

	got, err := p.FetchWithdrawal(ctx, "W1", "USDT")
	require.NoError(t, err)
	assert.Equal(t, model.TransactionOK, got.Status)
	assert.Equal(t, "0x99", got.TxID)

	_, err = p.Withdraw(ctx, "DOGE", "1", "D123")
	assert.True(t, exchange.IsKind(err, exchange.BadRequest))
}
