package bybit

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
)

const (
	testSecret = "test-secret"

	spotInstrumentsJSON = `{"retCode":0,"retMsg":"OK","result":{"category":"spot","list":[
		{"symbol":"BTCUSDT","baseCoin":"BTC","quoteCoin":"USDT","status":"Trading",
			"lotSizeFilter":{"basePrecision":"0.000001","quotePrecision":"0.00000001","minOrderQty":"0.000048","maxOrderQty":"71.73956243","minOrderAmt":"1","maxOrderAmt":"2000000"},
			"priceFilter":{"tickSize":"0.01"}},
		{"symbol":"ETHUSDT","baseCoin":"ETH","quoteCoin":"USDT","status":"Closed",
			"lotSizeFilter":{"basePrecision":"0.00001","minOrderQty":"0.00062","maxOrderQty":"1229.2336343","minOrderAmt":"1","maxOrderAmt":"2000000"},
			"priceFilter":{"tickSize":"0.01"}}],"nextPageCursor":""},"time":1700000000000}`

	linearInstrumentsJSON = `{"retCode":0,"retMsg":"OK","result":{"category":"linear","list":[
		{"symbol":"BTCUSDT","contractType":"LinearPerpetual","status":"Trading","baseCoin":"BTC","quoteCoin":"USDT","settleCoin":"USDT",
			"leverageFilter":{"minLeverage":"1","maxLeverage":"100.00","leverageStep":"0.01"},
			"priceFilter":{"minPrice":"0.50","maxPrice":"999999.00","tickSize":"0.10"},
			"lotSizeFilter":{"maxOrderQty":"100.000","minOrderQty":"0.001","qtyStep":"0.001","minNotionalValue":"5"}}],"nextPageCursor":"p2"},"time":1700000000000}`

	linearInstrumentsPage2JSON = `{"retCode":0,"retMsg":"OK","result":{"category":"linear","list":[
		{"symbol":"BTC-29DEC23","contractType":"LinearFutures","status":"Trading","baseCoin":"BTC","quoteCoin":"USDT","settleCoin":"USDT",
			"priceFilter":{"tickSize":"0.50"},"lotSizeFilter":{"qtyStep":"0.001","minOrderQty":"0.001"}}],"nextPageCursor":""},"time":1700000000000}`

	currenciesJSON = `{"retCode":0,"retMsg":"success","result":{"rows":[
		{"name":"USDT","coin":"USDT","remainAmount":"150000","chains":[
			{"chainType":"TRC20","confirmation":"50","withdrawFee":"1","depositMin":"0","withdrawMin":"10","chain":"TRX","chainDeposit":"1","chainWithdraw":"1","minAccuracy":"6"},
			{"chainType":"ERC20","confirmation":"12","withdrawFee":"4","depositMin":"0","withdrawMin":"20","chain":"ETH","chainDeposit":"1","chainWithdraw":"0","minAccuracy":"6"}]}]},
		"time":1700000000000}`
)

type recorded struct {
	method   string
	rawQuery string
	query    url.Values
	body     []byte
	header   http.Header
}

// bybitServer 按路径返回固定响应，依次尝试 path?category#cursor、path?category、path
type bybitServer struct {
	mu       sync.Mutex
	routes   map[string]string
	status   map[string]int
	calls    map[string]int
	requests map[string][]recorded
}

func newBybitServer(routes map[string]string) *bybitServer {
	s := &bybitServer{
		routes: map[string]string{
			"/v5/market/instruments-info?spot":      spotInstrumentsJSON,
			"/v5/market/instruments-info?linear":    linearInstrumentsJSON,
			"/v5/market/instruments-info?linear#p2": linearInstrumentsPage2JSON,
			"/v5/asset/coin/query-info":             currenciesJSON,
		},
		status:   make(map[string]int),
		calls:    make(map[string]int),
		requests: make(map[string][]recorded),
	}
	for path, body := range routes {
		s.routes[path] = body
	}
	return s
}

func (s *bybitServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	query := r.URL.Query()
	s.mu.Lock()
	s.calls[r.URL.Path]++
	s.requests[r.URL.Path] = append(s.requests[r.URL.Path], recorded{
		method:   r.Method,
		rawQuery: r.URL.RawQuery,
		query:    query,
		body:     body,
		header:   r.Header.Clone(),
	})
	keys := []string{r.URL.Path + "?" + query.Get("category"), r.URL.Path}
	if cursor := query.Get("cursor"); cursor != "" {
		keys = append([]string{r.URL.Path + "?" + query.Get("category") + "#" + cursor}, keys...)
	}
	resp, ok := "", false
	for _, key := range keys {
		if resp, ok = s.routes[key]; ok {
			break
		}
	}
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

func (s *bybitServer) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// request 返回该路径最近一次请求
func (s *bybitServer) request(path string) recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.requests[path]
	if len(list) == 0 {
		return recorded{}
	}
	return list[len(list)-1]
}

func newTestBybit(t *testing.T, routes map[string]string, opts ...option.Option) (*Bybit, *bybitServer) {
	t.Helper()
	srv := newBybitServer(routes)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	opts = append([]option.Option{
		option.WithAPIKey("test-key"),
		option.WithSecretKey(testSecret),
		option.WithBaseURL(ts.URL),
		option.WithEnableRateLimit(false),
	}, opts...)
	b, err := NewBybit(opts...)
	require.NoError(t, err)
	return b, srv
}

// assertSigned GET 以查询串、POST 以请求体重新计算签名
func assertSigned(t *testing.T, req recorded) {
	t.Helper()
	ts := req.header.Get("X-BAPI-TIMESTAMP")
	require.NotEmpty(t, ts)
	assert.Equal(t, "test-key", req.header.Get("X-BAPI-API-KEY"))
	assert.Equal(t, "5000", req.header.Get("X-BAPI-RECV-WINDOW"))
	payload := req.rawQuery
	if req.method == http.MethodPost {
		payload = string(req.body)
	}
	assert.Equal(t, Signature(ts, "test-key", "5000", payload, testSecret), req.header.Get("X-BAPI-SIGN"))
}

func decodeBody(t *testing.T, req recorded) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.body, &body))
	return body
}

func TestSignature(t *testing.T) {
	sig := Signature("1658385579423", "XXXXXXXXXX", "5000", "category=option&symbol=BTC-29JUL22-25000-C", "secret")
	expected := common.HMAC([]byte("1658385579423XXXXXXXXXX5000category=option&symbol=BTC-29JUL22-25000-C"), []byte("secret"), common.SHA256, common.Hex)
	assert.Equal(t, expected, sig)
	assert.Len(t, sig, 64)
}

func TestHandleErrors(t *testing.T) {
	b, _ := newTestBybit(t, nil)

	tests := []struct {
		name string
		body string
		kind exchange.ErrorKind
	}{
		{"exact code", `{"retCode":10003,"retMsg":"API key is invalid.","result":{},"time":1700000000000}`, exchange.AuthenticationError},
		{"insufficient balance", `{"retCode":110007,"retMsg":"ab not enough for new order","result":{}}`, exchange.InsufficientFunds},
		{"order not found", `{"retCode":110001,"retMsg":"Order does not exist","result":{}}`, exchange.OrderNotFound},
		{"broad message", `{"retCode":99999,"retMsg":"System busy, please retry","result":{}}`, exchange.ExchangeNotAvailable},
		{"legacy fields", `{"ret_code":10006,"ret_msg":"Too many visits!","result":null}`, exchange.RateLimitExceeded},
		{"unknown code", `{"retCode":77777,"retMsg":"brand new","result":{}}`, exchange.ExchangeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.HandleErrors(&common.Response{StatusCode: 200, Status: "OK", Body: []byte(tt.body)})
			require.Error(t, err)
			assert.Equal(t, tt.kind, exchange.KindOf(err))
		})
	}

	assert.NoError(t, b.HandleErrors(&common.Response{StatusCode: 200, Body: []byte(`{"retCode":0,"retMsg":"OK","result":{}}`)}))
	assert.NoError(t, b.HandleErrors(&common.Response{StatusCode: 200, Body: []byte(`[]`)}))
}

func TestErrorOnSuccessStatus(t *testing.T) {
	b, _ := newTestBybit(t, map[string]string{
		"/v5/market/tickers": `{"retCode":10001,"retMsg":"params error: symbol invalid","result":{},"time":1700000000000}`,
	})

	_, err := b.FetchTicker(context.Background(), "BTC/USDT")
	require.Error(t, err)
	assert.True(t, exchange.IsKind(err, exchange.BadRequest))
}

func TestHTTPForbiddenIsRateLimit(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/market/tickers": `<html>403 Forbidden</html>`,
	})
	srv.status["/v5/market/tickers"] = http.StatusForbidden

	_, err := b.FetchTicker(context.Background(), "BTC/USDT")
	require.Error(t, err)
	assert.Equal(t, exchange.RateLimitExceeded, exchange.KindOf(err))
}

func TestFetchMarkets(t *testing.T) {
	b, srv := newTestBybit(t, nil)
	ctx := context.Background()

	markets, err := b.LoadMarkets(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC/USDT", "ETH/USDT", "BTC/USDT:USDT"}, markets.Symbols())
	assert.Equal(t, 3, srv.count("/v5/market/instruments-info"))
	assert.Equal(t, "p2", srv.request("/v5/market/instruments-info").query.Get("cursor"))

	spot, err := b.Market("BTC/USDT")
	require.NoError(t, err)
	assert.True(t, spot.Spot)
	assert.True(t, spot.Active)
	assert.Equal(t, "0.000001", spot.Precision.Amount.String())
	assert.Equal(t, "0.01", spot.Precision.Price.String())
	assert.Equal(t, "1", spot.Limits.Cost.Min.String())

	closed, err := b.Market("ETH/USDT")
	require.NoError(t, err)
	assert.False(t, closed.Active)

	linear, err := b.Market("BTC/USDT:USDT")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", linear.ID)
	assert.True(t, linear.Swap)
	assert.True(t, linear.Linear)
	assert.Equal(t, "USDT", linear.Settle)
	assert.Equal(t, "0.001", linear.Precision.Amount.String())
	assert.Equal(t, "0.1", linear.Precision.Price.String())
	assert.Equal(t, "100", linear.Limits.Leverage.Max.String())
	assert.Equal(t, "5", linear.Limits.Cost.Min.String())

	// 相同 ID 的现货与合约按类型区分
	assert.Same(t, spot, b.SafeMarket("BTCUSDT", model.MarketTypeSpot))
	assert.Same(t, linear, b.SafeMarket("BTCUSDT", model.MarketTypeSwap))

	usdt, err := b.Currency("USDT")
	require.NoError(t, err)
	require.Len(t, usdt.Networks, 2)
	assert.Equal(t, "1", usdt.Networks["TRX"].Fee.String())
	assert.False(t, *usdt.Networks["ETH"].Withdraw)
	assert.True(t, *usdt.Withdraw)
	assert.Equal(t, "0.000001", usdt.Precision.String())
	assert.Equal(t, "1", usdt.Fee.String())

	assertSigned(t, srv.request("/v5/asset/coin/query-info"))
	assert.Empty(t, srv.request("/v5/market/instruments-info").header.Get("X-BAPI-SIGN"))
}

func TestMissingCredentials(t *testing.T) {
	srv := newBybitServer(nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	b, err := NewBybit(option.WithBaseURL(ts.URL), option.WithEnableRateLimit(false))
	require.NoError(t, err)

	_, err = b.LoadMarkets(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, srv.count("/v5/asset/coin/query-info"))

	_, err = b.FetchBalance(context.Background())
	assert.True(t, exchange.IsKind(err, exchange.AuthenticationError))
}

func TestFetchTicker(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/market/tickers": `{"retCode":0,"retMsg":"OK","result":{"category":"spot","list":[{"symbol":"BTCUSDT",
			"bid1Price":"20517.96","bid1Size":"2","ask1Price":"20527.77","ask1Size":"1.862172","lastPrice":"20533.13",
			"prevPrice24h":"20393.48","price24hPcnt":"0.0068","highPrice24h":"21128.12","lowPrice24h":"20318.89",
			"turnover24h":"243765620.65899866","volume24h":"11801.27771","usdIndexPrice":"20784.12"}]},"time":1673859087947}`,
	})

	tk, err := b.FetchTicker(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDT", tk.Symbol)
	assert.Equal(t, "20533.13", tk.Last.String())
	assert.Equal(t, "20393.48", tk.Open.String())
	assert.Equal(t, "139.65", tk.Change.String())
	assert.Equal(t, "0.68", tk.Percentage.String())
	assert.Equal(t, "11801.27771", tk.BaseVolume.String())
	assert.Equal(t, int64(1673859087947), tk.Timestamp.Millis())

	req := srv.request("/v5/market/tickers")
	assert.Equal(t, "spot", req.query.Get("category"))
	assert.Equal(t, "BTCUSDT", req.query.Get("symbol"))
}

func TestFetchTickersSkipsOtherCategory(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/market/tickers": `{"retCode":0,"retMsg":"OK","result":{"category":"linear","list":[
			{"symbol":"BTCUSDT","lastPrice":"30000","prevPrice24h":"29000","volume24h":"10","turnover24h":"300000"},
			{"symbol":"ETHUSDT","lastPrice":"2000","prevPrice24h":"1900"}]},"time":1700000000000}`,
	})

	tickers, err := b.FetchTickers(context.Background(), option.WithMarketType(model.MarketTypeSwap))
	require.NoError(t, err)
	require.Len(t, tickers, 1)
	assert.Equal(t, "30000", tickers["BTC/USDT:USDT"].Last.String())
	assert.Equal(t, "30000", tickers["BTC/USDT:USDT"].Vwap.String())
	assert.Equal(t, "linear", srv.request("/v5/market/tickers").query.Get("category"))
}

func TestFetchOrderBook(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/market/orderbook": `{"retCode":0,"retMsg":"OK","result":{"s":"BTCUSDT",
			"a":[["16638.64","0.008479"],["16638.50","0.1"]],"b":[["16638.27","0.305749"]],"ts":1672765737733,"u":5277055},"time":1672765737734}`,
	})

	ob, err := b.FetchOrderBook(context.Background(), "BTC/USDT:USDT", option.WithLimit(5))
	require.NoError(t, err)
	require.Len(t, ob.Asks, 2)
	assert.Equal(t, "16638.5", ob.Asks[0].Price.String())
	assert.Equal(t, "16638.27", ob.Bids[0].Price.String())
	assert.Equal(t, int64(1672765737733), ob.Timestamp.Millis())
	require.NotNil(t, ob.Nonce)
	assert.Equal(t, int64(5277055), *ob.Nonce)

	req := srv.request("/v5/market/orderbook")
	assert.Equal(t, "linear", req.query.Get("category"))
	assert.Equal(t, "5", req.query.Get("limit"))
}

func TestFetchTrades(t *testing.T) {
	b, _ := newTestBybit(t, map[string]string{
		"/v5/market/recent-trade": `{"retCode":0,"retMsg":"OK","result":{"category":"spot","list":[
			{"execId":"2100000000007764263","symbol":"BTCUSDT","price":"16618.49","size":"0.00012","side":"Buy","time":"1672052955758","isBlockTrade":false}]},
			"time":1672053054358}`,
	})

	trades, err := b.FetchTrades(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, model.OrderSideBuy, trades[0].Side)
	assert.Equal(t, "1.9942188", trades[0].Cost.String())
	assert.Equal(t, int64(1672052955758), trades[0].Timestamp.Millis())
}

func TestFetchOHLCV(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/market/kline": `{"retCode":0,"retMsg":"OK","result":{"symbol":"BTCUSDT","category":"spot","list":[
			["1670608800000","17071","17073","17027","17055.5","268611","15.74462667"],
			["1670605200000","17071.5","17071.5","17061","17071","4177","0.24469757"]]},"time":1672025956592}`,
	})

	since := time.UnixMilli(1670601600000)
	candles, err := b.FetchOHLCV(context.Background(), "BTC/USDT", "1h", option.WithSince(since), option.WithLimit(2))
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1670605200000), candles[0].Timestamp.Millis())
	assert.Equal(t, "17055.5", candles[1].Close.String())

	req := srv.request("/v5/market/kline")
	assert.Equal(t, "60", req.query.Get("interval"))
	assert.Equal(t, "1670601600000", req.query.Get("start"))

	_, err = b.FetchOHLCV(context.Background(), "BTC/USDT", "7m")
	assert.True(t, exchange.IsKind(err, exchange.NotSupported))
}

func TestFetchTradingFees(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/account/fee-rate": `{"retCode":0,"retMsg":"OK","result":{"list":[
			{"symbol":"BTCUSDT","takerFeeRate":"0.0006","makerFeeRate":"0.0001"},
			{"symbol":"XYZUSDT","takerFeeRate":"0.0006","makerFeeRate":"0.0001"}]},"time":1676360412576}`,
	})

	fees, err := b.FetchTradingFees(context.Background(), option.WithMarketType(model.MarketTypeSwap))
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, "0.0001", fees["BTC/USDT:USDT"].Maker.String())
	assert.Equal(t, "0.0006", fees["BTC/USDT:USDT"].Taker.String())
	assertSigned(t, srv.request("/v5/account/fee-rate"))
}

func TestFetchBalance(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/account/wallet-balance": `{"retCode":0,"retMsg":"OK","result":{"list":[{"accountType":"UNIFIED","coin":[
			{"coin":"USDT","equity":"1000","walletBalance":"1000","locked":"100","totalOrderIM":"50","totalPositionIM":"25"},
			{"coin":"BTC","equity":"0.5","walletBalance":"0.5","locked":"0","totalOrderIM":"","totalPositionIM":""}]}]},"time":1690872862481}`,
	})

	bal, err := b.FetchBalance(context.Background())
	require.NoError(t, err)
	usdt := bal.Get("USDT")
	assert.Equal(t, "1000", usdt.Total.String())
	assert.Equal(t, "175", usdt.Used.String())
	assert.Equal(t, "825", usdt.Free.String())
	assert.Equal(t, "0.5", bal.Get("BTC").Free.String())
	assert.Equal(t, int64(1690872862481), bal.Timestamp.Millis())

	req := srv.request("/v5/account/wallet-balance")
	assert.Equal(t, "UNIFIED", req.query.Get("accountType"))
	assertSigned(t, req)
}

func TestCreateOrder(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/order/create": `{"retCode":0,"retMsg":"OK","result":{"orderId":"1321003749386327552","orderLinkId":"my-1"},"time":1672211918471}`,
	})

	order, err := b.CreateOrder(context.Background(), "BTC/USDT:USDT", model.OrderSideBuy, "0.0125",
		option.WithPrice("30000.1"), option.WithPostOnly(true), option.WithClientOrderID("my-1"), option.WithReduceOnly(true))
	require.NoError(t, err)
	assert.Equal(t, "1321003749386327552", order.ID)
	assert.Equal(t, "my-1", order.ClientOrderID)
	assert.Equal(t, model.OrderTimeInForcePO, order.TimeInForce)
	assert.Equal(t, "0.012", order.Amount.String())

	req := srv.request("/v5/order/create")
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
	assertSigned(t, req)
	body := decodeBody(t, req)
	assert.Equal(t, "linear", body["category"])
	assert.Equal(t, "BTCUSDT", body["symbol"])
	assert.Equal(t, "Buy", body["side"])
	assert.Equal(t, "Limit", body["orderType"])
	assert.Equal(t, "0.012", body["qty"])
	assert.Equal(t, "30000.1", body["price"])
	assert.Equal(t, "PostOnly", body["timeInForce"])
	assert.Equal(t, "my-1", body["orderLinkId"])
	assert.Equal(t, true, body["reduceOnly"])
}

func TestCreateSpotMarketOrder(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/order/create": `{"retCode":0,"retMsg":"OK","result":{"orderId":"1","orderLinkId":""},"time":1672211918471}`,
	})

	_, err := b.CreateOrder(context.Background(), "BTC/USDT", model.OrderSideSell, "0.01")
	require.NoError(t, err)

	body := decodeBody(t, srv.request("/v5/order/create"))
	assert.Equal(t, "spot", body["category"])
	assert.Equal(t, "Sell", body["side"])
	assert.Equal(t, "Market", body["orderType"])
	assert.Equal(t, "baseCoin", body["marketUnit"])
	assert.Equal(t, "0.010000", body["qty"])
	assert.NotContains(t, body, "price")
	assert.NotContains(t, body, "timeInForce")

	_, err = b.CreateOrder(context.Background(), "BTC/USDT", model.OrderSideSell, "0.01", option.WithPostOnly(true))
	assert.True(t, exchange.IsKind(err, exchange.InvalidOrder))
}

func TestCreateOrderRejected(t *testing.T) {
	b, _ := newTestBybit(t, map[string]string{
		"/v5/order/create": `{"retCode":170131,"retMsg":"Insufficient balance.","result":{},"time":1672211918471}`,
	})

	_, err := b.CreateOrder(context.Background(), "BTC/USDT", model.OrderSideBuy, "1", option.WithPrice("20000"))
	require.Error(t, err)
	assert.True(t, exchange.IsKind(err, exchange.InsufficientFunds))
}

const filledOrderJSON = `{"retCode":0,"retMsg":"OK","result":{"category":"linear","list":[{"orderId":"fd4300ae","orderLinkId":"",
	"symbol":"BTCUSDT","price":"30000","qty":"0.02","side":"Sell","orderStatus":"Filled","orderType":"Limit","timeInForce":"GTC",
	"avgPrice":"30000","leavesQty":"0","cumExecQty":"0.02","cumExecValue":"600","cumExecFee":"0.33","reduceOnly":false,
	"createdTime":"1684738540559","updatedTime":"1684738540561"}]},"time":1684766282976}`

func TestFetchOrderFallsBackToHistory(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/order/realtime": `{"retCode":0,"retMsg":"OK","result":{"category":"linear","list":[]},"time":1684766282976}`,
		"/v5/order/history":  filledOrderJSON,
	})

	order, err := b.FetchOrder(context.Background(), "fd4300ae", "BTC/USDT:USDT")
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDT:USDT", order.Symbol)
	assert.Equal(t, model.OrderStatusClosed, order.Status)
	assert.Equal(t, model.OrderSideSell, order.Side)
	assert.Equal(t, model.OrderTimeInForceGTC, order.TimeInForce)
	assert.Equal(t, "600", order.Cost.String())
	assert.Equal(t, "0", order.Remaining.String())
	require.NotNil(t, order.Fee)
	assert.Equal(t, "USDT", order.Fee.Currency)
	assert.Equal(t, "0.33", order.Fee.Cost.String())

	assert.Equal(t, 1, srv.count("/v5/order/realtime"))
	assert.Equal(t, "fd4300ae", srv.request("/v5/order/history").query.Get("orderId"))

	_, err = b.FetchOrder(context.Background(), "x", "")
	assert.True(t, exchange.IsKind(err, exchange.ArgumentsRequired))
}

func TestFetchOrderNotFound(t *testing.T) {
	empty := `{"retCode":0,"retMsg":"OK","result":{"category":"spot","list":[]},"time":1684766282976}`
	b, _ := newTestBybit(t, map[string]string{
		"/v5/order/realtime": empty,
		"/v5/order/history":  empty,
	})

	_, err := b.FetchOrder(context.Background(), "404", "BTC/USDT")
	assert.True(t, exchange.IsKind(err, exchange.OrderNotFound))
}

func TestOrderStatus(t *testing.T) {
	tests := map[string]model.OrderStatus{
		"New":                     model.OrderStatusOpen,
		"PartiallyFilled":         model.OrderStatusOpen,
		"Untriggered":             model.OrderStatusOpen,
		"Filled":                  model.OrderStatusClosed,
		"Cancelled":               model.OrderStatusCanceled,
		"PartiallyFilledCanceled": model.OrderStatusCanceled,
		"Rejected":                model.OrderStatusRejected,
		"SomethingNew":            model.OrderStatus("SomethingNew"),
	}
	for raw, want := range tests {
		assert.Equal(t, want, bybitOrderStatus.Parse(raw), raw)
	}
}

func TestFetchOrdersMergesWithoutDuplicates(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/order/realtime": `{"retCode":0,"retMsg":"OK","result":{"category":"linear","list":[
			{"orderId":"a","symbol":"BTCUSDT","price":"29000","qty":"0.01","side":"Buy","orderStatus":"New","orderType":"Limit",
				"timeInForce":"GTC","leavesQty":"0.01","cumExecQty":"0","createdTime":"1684738540000"},
			{"orderId":"fd4300ae","symbol":"BTCUSDT","price":"30000","qty":"0.02","side":"Sell","orderStatus":"Filled","orderType":"Limit",
				"timeInForce":"GTC","leavesQty":"0","cumExecQty":"0.02","cumExecValue":"600","createdTime":"1684738540559"}]},"time":1684766282976}`,
		"/v5/order/history": filledOrderJSON,
	})

	orders, err := b.FetchOrders(context.Background(), "", option.WithMarketType(model.MarketTypeSwap))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "a", orders[0].ID)
	assert.Equal(t, model.OrderStatusOpen, orders[0].Status)
	assert.Equal(t, "fd4300ae", orders[1].ID)

	req := srv.request("/v5/order/realtime")
	assert.Equal(t, "linear", req.query.Get("category"))
	assert.Equal(t, "USDT", req.query.Get("settleCoin"))
}

func TestCancelOrder(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/order/cancel": `{"retCode":0,"retMsg":"OK","result":{"orderId":"c6f055d9","orderLinkId":"link-1"},"time":1672217377164}`,
	})

	order, err := b.CancelOrder(context.Background(), "", "BTC/USDT", option.WithClientOrderID("link-1"))
	require.NoError(t, err)
	assert.Equal(t, "c6f055d9", order.ID)
	assert.Equal(t, model.OrderStatusCanceled, order.Status)

	body := decodeBody(t, srv.request("/v5/order/cancel"))
	assert.Equal(t, "link-1", body["orderLinkId"])
	assert.NotContains(t, body, "orderId")
}

func TestFetchMyTrades(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/execution/list": `{"retCode":0,"retMsg":"OK","result":{"category":"linear","list":[
			{"symbol":"BTCUSDT","orderId":"o1","execId":"e2","side":"Sell","orderType":"Limit","execPrice":"30100","execQty":"0.01",
				"execValue":"301","execFee":"0.0602","feeCurrency":"","isMaker":true,"execTime":"1684738541000"},
			{"symbol":"BTCUSDT","orderId":"o1","execId":"e1","side":"Sell","orderType":"Limit","execPrice":"30000","execQty":"0.01",
				"execValue":"300","execFee":"0.165","feeCurrency":"","isMaker":false,"execTime":"1684738540000"}]},"time":1684766282976}`,
	})

	trades, err := b.FetchMyTrades(context.Background(), "BTC/USDT:USDT", option.WithSince(time.UnixMilli(1684738500000)))
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "e1", trades[0].ID)
	assert.Equal(t, model.Taker, trades[0].TakerOrMaker)
	assert.Equal(t, model.Maker, trades[1].TakerOrMaker)
	assert.Equal(t, "BTC/USDT:USDT", trades[1].Symbol)
	require.NotNil(t, trades[1].Fee)
	assert.Equal(t, "USDT", trades[1].Fee.Currency)

	assert.Equal(t, "1684738500000", srv.request("/v5/execution/list").query.Get("startTime"))
}

func TestFetchDepositAddress(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/asset/deposit/query-address": `{"retCode":0,"retMsg":"success","result":{"coin":"USDT","chains":[
			{"chainType":"ERC20","addressDeposit":"0xd9e1","tagDeposit":"","chain":"ETH"},
			{"chainType":"TRC20","addressDeposit":"TXYZ","tagDeposit":"","chain":"TRX"}]},"time":1672192792860}`,
	})

	addr, err := b.FetchDepositAddress(context.Background(), "USDT", option.WithNetwork("trx"))
	require.NoError(t, err)
	assert.Equal(t, "TXYZ", addr.Address)
	assert.Equal(t, "TRX", addr.Network)
	assert.Equal(t, "USDT", addr.Currency)

	addr, err = b.FetchDepositAddress(context.Background(), "USDT")
	require.NoError(t, err)
	assert.Equal(t, "0xd9e1", addr.Address)

	_, err = b.FetchDepositAddress(context.Background(), "USDT", option.WithNetwork("SOL"))
	assert.True(t, exchange.IsKind(err, exchange.InvalidAddress))
	assertSigned(t, srv.request("/v5/asset/deposit/query-address"))
}

func TestFetchDeposits(t *testing.T) {
	b, _ := newTestBybit(t, map[string]string{
		"/v5/asset/deposit/query-record": `{"retCode":0,"retMsg":"success","result":{"rows":[
			{"id":"d2","coin":"USDT","chain":"TRX","amount":"50","txID":"tx2","status":10011,"toAddress":"TXYZ","tag":"","depositFee":"",
				"successAt":"1686730000000"},
			{"id":"d1","coin":"USDT","chain":"ETH","amount":"100","txID":"tx1","status":3,"toAddress":"0xd9e1","tag":"","depositFee":"",
				"successAt":"1686720000000"}],"nextPageCursor":""},"time":1686730000001}`,
	})

	txs, err := b.FetchDeposits(context.Background(), "USDT")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "d1", txs[0].ID)
	assert.Equal(t, model.TransactionOK, txs[0].Status)
	assert.Equal(t, model.TransactionPending, txs[1].Status)
	assert.Equal(t, model.TransactionDeposit, txs[0].Type)
	assert.Equal(t, "0", txs[0].Fee.Cost.String())
}

func TestFetchWithdrawals(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/asset/withdraw/query-record": `{"retCode":0,"retMsg":"success","result":{"rows":[
			{"withdrawId":"w1","txID":"tx9","coin":"USDT","chain":"TRX","amount":"20","withdrawFee":"1","status":"success",
				"toAddress":"TABC","tag":"","createTime":"1686720000000","updateTime":"1686720500000"},
			{"withdrawId":"w2","txID":"","coin":"USDT","chain":"TRX","amount":"30","withdrawFee":"1","status":"CancelByUser",
				"toAddress":"TABC","tag":"","createTime":"1686730000000","updateTime":"1686730100000"}],"nextPageCursor":""},"time":1686730000001}`,
	})

	txs, err := b.FetchWithdrawals(context.Background(), "USDT", option.WithLimit(10))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, model.TransactionOK, txs[0].Status)
	assert.Equal(t, model.TransactionCanceled, txs[1].Status)
	assert.Equal(t, "1", txs[0].Fee.Cost.String())
	assert.Equal(t, int64(1686720500000), txs[0].Updated.Millis())
	assert.Equal(t, "10", srv.request("/v5/asset/withdraw/query-record").query.Get("limit"))
}

func TestWithdraw(t *testing.T) {
	b, srv := newTestBybit(t, map[string]string{
		"/v5/asset/withdraw/create": `{"retCode":0,"retMsg":"success","result":{"id":"10195"},"time":1672734174346}`,
	})

	tx, err := b.Withdraw(context.Background(), "USDT", "25", "TABC", option.WithNetwork("trx"), option.WithTag("memo-1"))
	require.NoError(t, err)
	assert.Equal(t, "10195", tx.ID)
	assert.Equal(t, model.TransactionPending, tx.Status)
	assert.Equal(t, "TRX", tx.Network)

	req := srv.request("/v5/asset/withdraw/create")
	assertSigned(t, req)
	body := decodeBody(t, req)
	assert.Equal(t, "USDT", body["coin"])
	assert.Equal(t, "TRX", body["chain"])
	assert.Equal(t, "TABC", body["address"])
	assert.Equal(t, "memo-1", body["tag"])
	assert.Equal(t, "25", body["amount"])
	assert.Equal(t, "FUND", body["accountType"])
	assert.Contains(t, body, "timestamp")

	_, err = b.Withdraw(context.Background(), "USDT", "25", "")
	assert.True(t, exchange.IsKind(err, exchange.InvalidAddress))
}
