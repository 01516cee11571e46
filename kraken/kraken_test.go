package kraken

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

const (
	testSecret = "kQH5HW/8p1uGOVjbgWA7FunAmGO8lsSUXNsu3eow76sz84Q18fWxnyRzBHCd3pd5nE9qa99HAZtuZuj6F1huXg=="

	assetsJSON = `{"error":[],"result":{
		"XXBT":{"aclass":"currency","altname":"XBT","decimals":10,"display_decimals":5,"status":"enabled"},
		"ZUSD":{"aclass":"currency","altname":"USD","decimals":4,"display_decimals":2,"status":"enabled"},
		"XETH":{"aclass":"currency","altname":"ETH","decimals":10,"display_decimals":5,"status":"enabled"}}}`

	assetPairsJSON = `{"error":[],"result":{
		"XXBTZUSD":{"altname":"XBTUSD","wsname":"XBT/USD","base":"XXBT","quote":"ZUSD","pair_decimals":1,"lot_decimals":8,
			"leverage_buy":[2,3,4,5],"fees":[[0,0.26],[50000,0.24]],"fees_maker":[[0,0.16],[50000,0.14]],
			"ordermin":"0.0001","costmin":"0.5","status":"online"}}}`
)

// krakenServer 按路径返回固定响应并记录请求
type krakenServer struct {
	mu     sync.Mutex
	routes map[string]string
	calls  map[string]int
	forms  map[string]url.Values
	header map[string]http.Header
}

func newKrakenServer(routes map[string]string) *krakenServer {
	s := &krakenServer{
		routes: map[string]string{
			"/0/public/Assets":     assetsJSON,
			"/0/public/AssetPairs": assetPairsJSON,
		},
		calls:  make(map[string]int),
		forms:  make(map[string]url.Values),
		header: make(map[string]http.Header),
	}
	for path, body := range routes {
		s.routes[path] = body
	}
	return s
}

func (s *krakenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.mu.Lock()
	s.calls[r.URL.Path]++
	s.forms[r.URL.Path] = r.Form
	s.header[r.URL.Path] = r.Header.Clone()
	body, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (s *krakenServer) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *krakenServer) form(path string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forms[path]
}

func newTestKraken(t *testing.T, routes map[string]string) (*Kraken, *krakenServer) {
	t.Helper()
	srv := newKrakenServer(routes)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	k, err := NewKraken(
		option.WithAPIKey("test-key"),
		option.WithSecretKey(testSecret),
		option.WithBaseURL(ts.URL),
		option.WithEnableRateLimit(false),
	)
	require.NoError(t, err)
	return k, srv
}

func TestSignature(t *testing.T) {
	secret, err := common.Base64Decode(testSecret)
	require.NoError(t, err)

	body := "nonce=1616492376594&ordertype=limit&pair=XBTUSD&price=37500&type=buy&volume=1.25"
	sig := Signature("/0/private/AddOrder", "1616492376594", body, secret)
	assert.Equal(t, "4/dpxb3iT4tp/ZCVEwSnEsLxx0bqyhLpdfOpc6fn7OR8+UClSV5n9E6aSS8MPtnRfp32bAb0nmbRn6H8ndwLUQ==", sig)
	assert.Equal(t, sig, Signature("/0/private/AddOrder", "1616492376594", body, secret))
}

func TestHandleErrors(t *testing.T) {
	k, _ := newTestKraken(t, nil)

	tests := []struct {
		name   string
		status int
		body   string
		kind   exchange.ErrorKind
	}{
		{"exact", 200, `{"error":["EOrder:Insufficient funds"]}`, exchange.InsufficientFunds},
		{"exact wins over broad", 200, `{"error":["EOrder:Rate limit exceeded"]}`, exchange.DDoSProtection},
		{"broad", 200, `{"error":["EOrder:Invalid order type"]}`, exchange.InvalidOrder},
		{"broad rate limit", 200, `{"error":["EFunding:Rate limit exceeded for account"]}`, exchange.RateLimitExceeded},
		{"fallback", 200, `{"error":["EFoo:Something new"]}`, exchange.ExchangeError},
		{"second message matches", 200, `{"error":["EFoo:Unknown","EAPI:Invalid key"]}`, exchange.AuthenticationError},
		{"cloudflare 520", 520, `<html>origin error</html>`, exchange.ExchangeNotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := k.HandleErrors(&common.Response{StatusCode: tt.status, Status: http.StatusText(tt.status), Body: []byte(tt.body)})
			require.Error(t, err)
			assert.Equal(t, tt.kind, exchange.KindOf(err))
		})
	}

	assert.NoError(t, k.HandleErrors(&common.Response{StatusCode: 200, Body: []byte(`{"error":[],"result":{}}`)}))
	assert.NoError(t, k.HandleErrors(&common.Response{StatusCode: 200, Body: []byte(`not json`)}))
}

func TestFetchMarkets(t *testing.T) {
	k, srv := newTestKraken(t, nil)
	ctx := context.Background()

	markets, err := k.LoadMarkets(ctx, false)
	require.NoError(t, err)
	require.Len(t, markets, 1)

	m := markets[0]
	assert.Equal(t, "XXBTZUSD", m.ID)
	assert.Equal(t, "BTC/USD", m.Symbol)
	assert.Equal(t, "BTC", m.Base)
	assert.Equal(t, "USD", m.Quote)
	assert.True(t, m.Spot)
	assert.True(t, m.Active)
	assert.Equal(t, "0.0016", m.Maker.String())
	assert.Equal(t, "0.0026", m.Taker.String())
	assert.Equal(t, "0.1", m.Precision.Price.String())
	assert.Equal(t, "0.00000001", m.Precision.Amount.String())
	assert.Equal(t, "0.0001", m.Limits.Amount.Min.String())
	assert.Equal(t, "0.5", m.Limits.Cost.Min.String())
	assert.Equal(t, "5", m.Limits.Leverage.Max.String())

	// 已加载时不再请求
	_, err = k.LoadMarkets(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.count("/0/public/AssetPairs"))

	assert.Equal(t, "BTC", k.currencyCode("XXBT"))
	assert.Equal(t, "BTC.M", k.currencyCode("XBT.M"))
	assert.Equal(t, "DOGE", k.currencyCode("XDG"))
	assert.Equal(t, "XXBT", k.CurrencyID("BTC"))
}

func TestFetchTicker(t *testing.T) {
	k, srv := newTestKraken(t, map[string]string{
		"/0/public/Ticker": `{"error":[],"result":{"XXBTZUSD":{
			"a":["30300.10000","1","1.000"],"b":["30300.00000","1","2.000"],
			"c":["30303.20000","0.00067643"],"v":["4083.67001100","4412.73601799"],
			"p":["30706.77771","30689.13205"],"t":[34619,38907],
			"l":["29868.30000","29800.00000"],"h":["31631.00000","31700.00000"],"o":"30502.80000"}}}`,
	})

	ticker, err := k.FetchTicker(context.Background(), "BTC/USD")
	require.NoError(t, err)
	assert.Equal(t, "BTC/USD", ticker.Symbol)
	assert.Equal(t, "30303.2", ticker.Last.String())
	assert.Equal(t, "30303.2", ticker.Close.String())
	assert.Equal(t, "30300", ticker.Bid.String())
	assert.Equal(t, "2", ticker.BidVolume.String())
	assert.Equal(t, "30300.1", ticker.Ask.String())
	assert.Equal(t, "31700", ticker.High.String())
	assert.Equal(t, "29800", ticker.Low.String())
	assert.Equal(t, "30502.8", ticker.Open.String())
	assert.Equal(t, "4412.73601799", ticker.BaseVolume.String())
	assert.True(t, ticker.QuoteVolume.Valid)
	assert.NotEmpty(t, ticker.Info)
	assert.Equal(t, "XXBTZUSD", srv.form("/0/public/Ticker").Get("pair"))
}

func TestFetchOrderBook(t *testing.T) {
	k, srv := newTestKraken(t, map[string]string{
		"/0/public/Depth": `{"error":[],"result":{"XXBTZUSD":{
			"asks":[["30385.0","1.0",1688671769],["30384.9","0.5",1688671770]],
			"bids":[["30297.0","2.0",1688671769],["30298.0","1.0",1688671770]]}}}`,
	})

	book, err := k.FetchOrderBook(context.Background(), "BTC/USD", option.WithLimit(2))
	require.NoError(t, err)
	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 2)
	assert.Equal(t, "30298", book.Bids[0].Price.String())
	assert.Equal(t, "30297", book.Bids[1].Price.String())
	assert.Equal(t, "30384.9", book.Asks[0].Price.String())
	assert.Equal(t, "0.5", book.Asks[0].Amount.String())
	assert.Equal(t, "2", srv.form("/0/public/Depth").Get("count"))
}

func TestFetchTrades(t *testing.T) {
	k, _ := newTestKraken(t, map[string]string{
		"/0/public/Trades": `{"error":[],"result":{"XXBTZUSD":[
			["30243.40000","0.34507674",1688669597.8277369,"b","m","",61260280],
			["30243.30000","0.00376960",1688669598.2804112,"s","l","",""]],
			"last":"1688671969993150842"}}`,
	})

	trades, err := k.FetchTrades(context.Background(), "BTC/USD")
	require.NoError(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, "61260280", trades[0].ID)
	assert.Equal(t, model.OrderSideBuy, trades[0].Side)
	assert.Equal(t, model.OrderTypeMarket, trades[0].Type)
	assert.Equal(t, "30243.4", trades[0].Price.String())
	assert.Equal(t, int64(1688669597827), trades[0].Timestamp.Millis())

	assert.Equal(t, "1688671969993150842", trades[1].ID)
	assert.Equal(t, model.OrderSideSell, trades[1].Side)
	assert.Equal(t, model.OrderTypeLimit, trades[1].Type)
}

func TestFetchBalance(t *testing.T) {
	k, _ := newTestKraken(t, map[string]string{
		"/0/private/BalanceEx": `{"error":[],"result":{
			"XXBT":{"balance":"1.5","hold_trade":"0.5"},
			"ZUSD":{"balance":"1000.0000","hold_trade":"0.0000"}}}`,
	})

	balances, err := k.FetchBalance(context.Background())
	require.NoError(t, err)
	btc := balances.Get("BTC")
	assert.Equal(t, "1.5", btc.Total.String())
	assert.Equal(t, "0.5", btc.Used.String())
	assert.Equal(t, "1", btc.Free.String())
	assert.Equal(t, "1000", balances.Get("USD").Free.String())
}

func TestCreateOrder(t *testing.T) {
	k, srv := newTestKraken(t, map[string]string{
		"/0/private/AddOrder": `{"error":[],"result":{
			"descr":{"order":"buy 1.25000000 XBTUSD @ limit 30000.0"},
			"txid":["OUF4EM-FRGI2-MQMWZD"]}}`,
	})

	order, err := k.CreateOrder(context.Background(), "BTC/USD", model.OrderSideBuy, "1.25",
		option.WithPrice("30000"), option.WithPostOnly(true))
	require.NoError(t, err)
	assert.Equal(t, "OUF4EM-FRGI2-MQMWZD", order.ID)
	assert.Equal(t, "BTC/USD", order.Symbol)
	assert.Equal(t, model.OrderSideBuy, order.Side)
	assert.Equal(t, model.OrderTypeLimit, order.Type)
	assert.Equal(t, "30000", order.Price.String())
	assert.Equal(t, "1.25", order.Amount.String())

	form := srv.form("/0/private/AddOrder")
	assert.Equal(t, "XXBTZUSD", form.Get("pair"))
	assert.Equal(t, "buy", form.Get("type"))
	assert.Equal(t, "limit", form.Get("ordertype"))
	assert.Equal(t, "1.25000000", form.Get("volume"))
	assert.Equal(t, "30000.0", form.Get("price"))
	assert.Equal(t, "post", form.Get("oflags"))
	assert.NotEmpty(t, form.Get("nonce"))

	srv.mu.Lock()
	header := srv.header["/0/private/AddOrder"]
	srv.mu.Unlock()
	assert.Equal(t, "test-key", header.Get("API-Key"))
	assert.NotEmpty(t, header.Get("API-Sign"))
}

func TestCreateOrderValidation(t *testing.T) {
	k, srv := newTestKraken(t, nil)
	ctx := context.Background()

	_, err := k.CreateOrder(ctx, "BTC/USD", model.OrderSideBuy, "1", option.WithOrderType(model.OrderTypeLimit))
	assert.True(t, exchange.IsKind(err, exchange.ArgumentsRequired))

	_, err = k.CreateOrder(ctx, "BTC/USD", model.OrderSide("hold"), "1")
	assert.True(t, exchange.IsKind(err, exchange.InvalidOrder))

	_, err = k.CreateOrder(ctx, "DOGE/EUR", model.OrderSideBuy, "1")
	assert.True(t, exchange.IsKind(err, exchange.BadSymbol))
	assert.Zero(t, srv.count("/0/private/AddOrder"))
}

func TestFetchOrder(t *testing.T) {
	k, _ := newTestKraken(t, map[string]string{
		"/0/private/QueryOrders": `{"error":[],"result":{"OQCLML-BW3P3-BUCMWZ":{
			"refid":null,"userref":0,"status":"closed","opentm":1688666559.8974,"closetm":1688666559.9,
			"descr":{"pair":"XBTUSD","type":"buy","ordertype":"limit","price":"30010.0","price2":"0",
				"leverage":"none","order":"buy 1.25000000 XBTUSD @ limit 30010.0","close":""},
			"vol":"1.25000000","vol_exec":"1.25000000","cost":"37526.2","fee":"37.5",
			"price":"30021.0","stopprice":"0.00000","limitprice":"0.00000","misc":"","oflags":"fciq",
			"trades":["TZX2WP-XSEOP-FP7WYR"]}}}`,
	})

	order, err := k.FetchOrder(context.Background(), "OQCLML-BW3P3-BUCMWZ", "BTC/USD")
	require.NoError(t, err)
	assert.Equal(t, "OQCLML-BW3P3-BUCMWZ", order.ID)
	assert.Equal(t, "", order.ClientOrderID)
	assert.Equal(t, "BTC/USD", order.Symbol)
	assert.Equal(t, model.OrderStatusClosed, order.Status)
	assert.Equal(t, model.OrderTypeLimit, order.Type)
	assert.Equal(t, "30010", order.Price.String())
	assert.Equal(t, "30021", order.Average.String())
	assert.Equal(t, "1.25", order.Amount.String())
	assert.Equal(t, "1.25", order.Filled.String())
	assert.Equal(t, "0", order.Remaining.String())
	// 成交额由均价推导，不取交易所的 cost 字段
	assert.Equal(t, "37526.25", order.Cost.String())
	require.NotNil(t, order.Fee)
	assert.Equal(t, "USD", order.Fee.Currency)
	assert.Equal(t, "37.5", order.Fee.Cost.String())
	require.Len(t, order.Trades, 1)
	assert.Equal(t, "TZX2WP-XSEOP-FP7WYR", order.Trades[0].ID)

	_, err = k.FetchOrder(context.Background(), "MISSING", "BTC/USD")
	assert.True(t, exchange.IsKind(err, exchange.OrderNotFound))
}

func TestCancelOrderUnknown(t *testing.T) {
	k, _ := newTestKraken(t, map[string]string{
		"/0/private/CancelOrder": `{"error":["EOrder:Unknown order"]}`,
	})

	_, err := k.CancelOrder(context.Background(), "OXXXXX", "BTC/USD")
	require.Error(t, err)
	assert.Equal(t, exchange.OrderNotFound, exchange.KindOf(err))
}

func TestFetchMyTrades(t *testing.T) {
	k, _ := newTestKraken(t, map[string]string{
		"/0/private/TradesHistory": `{"error":[],"result":{"count":1,"trades":{
			"THVRQM-33VKH-UCI7BS":{"ordertxid":"OQCLML-BW3P3-BUCMWZ","postxid":"TKH2SE-M7IF5-CFI7LT",
				"pair":"XXBTZUSD","time":1688667796.8802,"type":"buy","ordertype":"limit",
				"price":"30010.00000","cost":"600.20000","fee":"0.00000","vol":"0.02000000","maker":true}}}}`,
	})

	trades, err := k.FetchMyTrades(context.Background(), "BTC/USD")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	tr := trades[0]
	assert.Equal(t, "THVRQM-33VKH-UCI7BS", tr.ID)
	assert.Equal(t, "OQCLML-BW3P3-BUCMWZ", tr.Order)
	assert.Equal(t, "BTC/USD", tr.Symbol)
	assert.Equal(t, model.Maker, tr.TakerOrMaker)
	assert.Equal(t, "600.2", tr.Cost.String())
	require.NotNil(t, tr.Fee)
	assert.Equal(t, "USD", tr.Fee.Currency)
}

func TestDepositMethodCache(t *testing.T) {
	k, srv := newTestKraken(t, map[string]string{
		"/0/private/DepositMethods":   `{"error":[],"result":[{"method":"Bitcoin","limit":false,"fee":"0.0000000000","gen-address":true}]}`,
		"/0/private/DepositAddresses": `{"error":[],"result":[{"address":"2N9fRkx5JTWXWHmXzZtvhQsufvoYRMq9ExV","expiretm":"0","new":true}]}`,
	})
	ctx := context.Background()

	addr, err := k.FetchDepositAddress(ctx, "BTC")
	require.NoError(t, err)
	assert.Equal(t, "2N9fRkx5JTWXWHmXzZtvhQsufvoYRMq9ExV", addr.Address)
	assert.Equal(t, "BTC", addr.Currency)
	assert.Equal(t, "Bitcoin", srv.form("/0/private/DepositAddresses").Get("method"))
	assert.Equal(t, "XXBT", srv.form("/0/private/DepositAddresses").Get("asset"))

	_, err = k.FetchDepositAddress(ctx, "BTC")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.count("/0/private/DepositMethods"))

	// 强制刷新市场后缓存失效
	_, err = k.LoadMarkets(ctx, true)
	require.NoError(t, err)
	_, err = k.FetchDepositAddress(ctx, "BTC")
	require.NoError(t, err)
	assert.Equal(t, 2, srv.count("/0/private/DepositMethods"))

	// 显式指定充值方式时不查询
	_, err = k.FetchDepositAddress(ctx, "BTC", option.WithParam("method", "Bitcoin Lightning"))
	require.NoError(t, err)
	assert.Equal(t, 2, srv.count("/0/private/DepositMethods"))
	assert.Equal(t, "Bitcoin Lightning", srv.form("/0/private/DepositAddresses").Get("method"))

	k.InvalidateDepositMethods()
	_, err = k.FetchDepositAddress(ctx, "BTC")
	require.NoError(t, err)
	assert.Equal(t, 3, srv.count("/0/private/DepositMethods"))
}

func TestFetchDepositAddressEmpty(t *testing.T) {
	k, _ := newTestKraken(t, map[string]string{
		"/0/private/DepositMethods":   `{"error":[],"result":[{"method":"Bitcoin"}]}`,
		"/0/private/DepositAddresses": `{"error":[],"result":[]}`,
	})

	_, err := k.FetchDepositAddress(context.Background(), "BTC")
	assert.True(t, exchange.IsKind(err, exchange.InvalidAddress))
}

func TestChooseDepositMethod(t *testing.T) {
	methods := []*krakenDepositMethod{
		{Method: "Ether (Hex)"},
		{Method: "Ethereum (ERC20)"},
	}
	assert.Equal(t, "Ethereum (ERC20)", chooseDepositMethod(methods, "ERC20"))
	assert.Equal(t, "Ether (Hex)", chooseDepositMethod(methods, "TRC20"))
	assert.Equal(t, "Ether (Hex)", chooseDepositMethod(methods, ""))
	assert.Equal(t, "", chooseDepositMethod(nil, "ERC20"))
}

func TestFetchDeposits(t *testing.T) {
	k, srv := newTestKraken(t, map[string]string{
		"/0/private/DepositStatus": `{"error":[],"result":[
			{"method":"Bitcoin","aclass":"currency","asset":"XXBT","refid":"FTQcuak-V6Za8qrWnhzTx67yYHz8Tg",
				"txid":"6544b41b607d8b2512baf801755a3a87","info":"2Myd4eaAW96ojk38A2uDK4FbioCayvkEgVq",
				"amount":"0.78125000","fee":"0.0000000000","time":1688992722,"status":"Success","status-prop":"return"},
			{"method":"Bitcoin","aclass":"currency","asset":"XXBT","refid":"FTQcuak-V6Za8qrPnhsTx47yYLz8Tg",
				"txid":"f0a8d9","info":"2Myd4eaAW96ojk38A2uDK4FbioCayvkEgVq",
				"amount":"0.1","time":1688992800,"status":"Success","status-prop":"on-hold"}]}`,
	})

	deposits, err := k.FetchDeposits(context.Background(), "BTC")
	require.NoError(t, err)
	require.Len(t, deposits, 2)
	assert.Equal(t, "XXBT", srv.form("/0/private/DepositStatus").Get("asset"))

	d := deposits[0]
	assert.Equal(t, "FTQcuak-V6Za8qrWnhzTx67yYHz8Tg", d.ID)
	assert.Equal(t, model.TransactionDeposit, d.Type)
	assert.Equal(t, "BTC", d.Currency)
	assert.Equal(t, model.TransactionOK, d.Status)
	assert.Equal(t, "2Myd4eaAW96ojk38A2uDK4FbioCayvkEgVq", d.Address)
	assert.Equal(t, "0.78125", d.Amount.String())

	assert.Equal(t, model.TransactionPending, deposits[1].Status)
	require.NotNil(t, deposits[1].Fee)
	assert.Equal(t, "0", deposits[1].Fee.Cost.String())
}

func TestFetchWithdrawalsPaged(t *testing.T) {
	k, _ := newTestKraken(t, map[string]string{
		"/0/private/WithdrawStatus": `{"error":[],"result":{"withdrawals":[
			{"method":"Bitcoin","aclass":"currency","asset":"XXBT","refid":"FTQcuak-V6Za8qrWnhzTx67yYHz8Tg",
				"txid":"abc","info":"bc1qxdsh4sdd29h6ldehz0se5c61asq8cgwyjf2y3z",
				"amount":"0.72485000","fee":"0.00020000","time":1688014586,"status":"Pending","status-prop":"cancel-pending"}],
			"next_cursor":"2"}}`,
	})

	withdrawals, err := k.FetchWithdrawals(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, model.TransactionWithdrawal, withdrawals[0].Type)
	assert.Equal(t, model.TransactionPending, withdrawals[0].Status)
	assert.Equal(t, "0.0002", withdrawals[0].Fee.Cost.String())
}

func TestWithdraw(t *testing.T) {
	k, srv := newTestKraken(t, map[string]string{
		"/0/private/Withdraw": `{"error":[],"result":{"refid":"FTQcuak-V6Za8qrWnhzTx67yYHz8Tg"}}`,
	})
	ctx := context.Background()

	_, err := k.Withdraw(ctx, "BTC", "0.5", "")
	assert.True(t, exchange.IsKind(err, exchange.ExchangeError))
	assert.Zero(t, srv.count("/0/private/Withdraw"))

	tx, err := k.Withdraw(ctx, "BTC", "0.5", "", option.WithParam("key", "btc_2709"))
	require.NoError(t, err)
	assert.Equal(t, "FTQcuak-V6Za8qrWnhzTx67yYHz8Tg", tx.ID)
	assert.Equal(t, model.TransactionWithdrawal, tx.Type)
	assert.Equal(t, "0.5", tx.Amount.String())

	form := srv.form("/0/private/Withdraw")
	assert.Equal(t, "XXBT", form.Get("asset"))
	assert.Equal(t, "btc_2709", form.Get("key"))
}
