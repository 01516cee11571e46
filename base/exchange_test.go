package base

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

var testErrors = exchange.ErrorTable{
	Exact: map[string]exchange.ErrorKind{
		"1001": exchange.InsufficientFunds,
	},
	Broad: []exchange.BroadRule{
		{Pattern: "signature", Kind: exchange.AuthenticationError},
	},
}

// testExchange 最小化的交易所实现，签名只把 key 放进请求头
type testExchange struct {
	*BaseExchange
	markets     model.Markets
	marketCalls int32
	marketErr   error
	currencies  model.Currencies
	signed      []*Request
	mu          sync.Mutex
}

func (x *testExchange) Sign(req *Request) error {
	x.mu.Lock()
	x.signed = append(x.signed, req)
	x.mu.Unlock()

	u := x.URL(req.API) + "/" + req.Path
	if len(req.Params) > 0 {
		keys := make([]string, 0, len(req.Params))
		for k := range req.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		values := url.Values{}
		for _, k := range keys {
			values.Set(k, types.FormatValue(req.Params[k]))
		}
		u += "?" + values.Encode()
	}
	req.URL = u
	if req.Private {
		req.Headers["X-KEY"] = x.APIKey()
	}
	return nil
}

func (x *testExchange) HandleErrors(resp *common.Response) error {
	v, ok := common.PeekJSON(resp.Body)
	if !ok || v.Type() != fastjson.TypeObject {
		return nil
	}
	code := common.JSONString(v, "code")
	if code == "" || code == "0" {
		return nil
	}
	msg := common.JSONString(v, "msg")
	return testErrors.Raise("test", "test "+string(resp.Body), code, msg)
}

func (x *testExchange) FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error) {
	atomic.AddInt32(&x.marketCalls, 1)
	if x.marketErr != nil {
		return nil, x.marketErr
	}
	return x.markets, nil
}

func (x *testExchange) FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error) {
	return x.currencies, nil
}

func testMarkets() model.Markets {
	return model.Markets{
		{
			ID: "BTCUSDT", Symbol: "BTC/USDT", Base: "BTC", Quote: "USDT", Type: model.MarketTypeSpot, Spot: true,
			Precision: model.Precision{Amount: types.ParseExDecimal("0.001"), Price: types.ParseExDecimal("0.01")},
		},
		{
			ID: "BTCUSDT", Symbol: "BTC/USDT:USDT", Base: "BTC", Quote: "USDT", Settle: "USDT", Type: model.MarketTypeSwap, Swap: true, Contract: true,
			Precision: model.Precision{Amount: types.ParseExDecimal("1"), Price: types.ParseExDecimal("0.1")},
		},
	}
}

func newTestExchange(t *testing.T, serverURL string, opts ...option.Option) *testExchange {
	t.Helper()
	cfg := Config{
		Name:                "test",
		URLs:                map[string]string{"public": serverURL, "private": serverURL},
		RequiredCredentials: Credentials{APIKey: true, Secret: true},
		Features:            exchange.PublicFeatures.Enable(exchange.FeatureFetchCurrencies),
		CommonCurrencies:    map[string]string{"XBT": "BTC"},
	}
	b, err := NewBaseExchange(cfg, option.ApplyOptions(opts...))
	require.NoError(t, err)
	x := &testExchange{
		BaseExchange: b,
		markets:      testMarkets(),
		currencies: model.Currencies{
			"USDT": {ID: "usdt", Code: "USDT"},
		},
	}
	b.SetHooks(x)
	return x
}

func TestFetchFillsRouteAndQuery(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotKey = r.URL.Path, r.URL.RawQuery, r.Header.Get("X-KEY")
		_, _ = w.Write([]byte(`{"code":"0","data":[1,2]}`))
	}))
	defer srv.Close()

	x := newTestExchange(t, srv.URL, option.WithAPIKey("k"), option.WithSecretKey("s"), option.WithEnableRateLimit(false))
	var out struct {
		Data []int `json:"data"`
	}
	err := x.FetchJSON(context.Background(), &Request{
		API:     "private",
		Private: true,
		Method:  http.MethodGet,
		Path:    "orders/{pair}/{id}",
		Params:  map[string]interface{}{"pair": "btc_usdt", "id": 42, "limit": 5},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "/orders/btc_usdt/42", gotPath)
	assert.Equal(t, "limit=5", gotQuery)
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, []int{1, 2}, out.Data)
	require.Len(t, x.signed, 1)
	assert.NotContains(t, x.signed[0].Params, "pair")
}

func TestFetchRequiresCredentials(t *testing.T) {
	x := newTestExchange(t, "http://127.0.0.1:1", option.WithAPIKey("k"))
	_, err := x.Fetch(context.Background(), &Request{API: "private", Private: true, Method: http.MethodGet, Path: "balance"})
	require.Error(t, err)
	assert.True(t, exchange.IsKind(err, exchange.AuthenticationError))
	assert.Contains(t, err.Error(), `"secret"`)
	assert.Empty(t, x.signed)
}

func TestHandleErrorsRunsBeforeStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/funds":
			_, _ = w.Write([]byte(`{"code":"1001","msg":"balance not enough"}`))
		case "/sig":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"9999","msg":"invalid signature"}`))
		case "/limited":
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`too many requests`))
		case "/html":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		default:
			w.WriteHeader(http.StatusPaymentRequired)
		}
	}))
	defer srv.Close()
	x := newTestExchange(t, srv.URL, option.WithEnableRateLimit(false))

	cases := []struct {
		path string
		kind exchange.ErrorKind
	}{
		{"funds", exchange.InsufficientFunds},
		{"sig", exchange.AuthenticationError},
		{"limited", exchange.RateLimitExceeded},
		{"html", exchange.ExchangeNotAvailable},
		{"other", exchange.ExchangeError},
	}
	for _, c := range cases {
		_, err := x.Fetch(context.Background(), &Request{API: "public", Method: http.MethodGet, Path: c.path})
		require.Error(t, err, c.path)
		assert.Equal(t, c.kind, exchange.KindOf(err), c.path)
		assert.Contains(t, err.Error(), ": test ", c.path)
	}
}

func TestTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	x := newTestExchange(t, srv.URL, option.WithTimeout(50*time.Millisecond), option.WithEnableRateLimit(false))
	_, err := x.Fetch(context.Background(), &Request{API: "public", Method: http.MethodGet, Path: "slow"})
	require.Error(t, err)
	assert.True(t, exchange.IsKind(err, exchange.RequestTimeout))
	assert.True(t, exchange.IsRetryable(err))

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()
	x = newTestExchange(t, closedURL, option.WithEnableRateLimit(false))
	_, err = x.Fetch(context.Background(), &Request{API: "public", Method: http.MethodGet, Path: "gone"})
	require.Error(t, err)
	assert.True(t, exchange.IsKind(err, exchange.NetworkError))
}

func TestDecode(t *testing.T) {
	x := newTestExchange(t, "http://127.0.0.1:1")
	var out map[string]interface{}

	err := x.Decode(nil, &out)
	assert.Equal(t, exchange.NullResponse, exchange.KindOf(err))
	assert.True(t, exchange.IsKind(err, exchange.BadResponse))

	err = x.Decode([]byte(`<html>`), &out)
	assert.Equal(t, exchange.BadResponse, exchange.KindOf(err))
}

func TestSandboxAndBaseURL(t *testing.T) {
	cfg := Config{
		Name:        "test",
		URLs:        map[string]string{"public": "https://api.example.com", "private": "https://api.example.com"},
		SandboxURLs: map[string]string{"public": "https://testnet.example.com"},
	}
	b, err := NewBaseExchange(cfg, option.ApplyOptions(option.WithSandbox(true)))
	require.NoError(t, err)
	assert.Equal(t, "https://testnet.example.com", b.URL("public"))
	assert.Equal(t, "https://api.example.com", b.URL("private"))
	assert.True(t, b.IsSandbox())

	b, err = NewBaseExchange(cfg, option.ApplyOptions(option.WithBaseURL("http://localhost:8080")))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", b.URL("public"))
}

func TestNotSupported(t *testing.T) {
	x := newTestExchange(t, "http://127.0.0.1:1")
	_, err := x.Withdraw(context.Background(), "BTC", "1", "addr")
	require.Error(t, err)
	assert.True(t, exchange.IsKind(err, exchange.NotSupported))
	assert.False(t, x.Has(exchange.FeatureWithdraw))
	assert.True(t, x.Has(exchange.FeatureFetchTicker))
}

func TestNonceMonotonic(t *testing.T) {
	x := newTestExchange(t, "http://127.0.0.1:1")
	fixed := time.UnixMilli(1700000000000)
	x.NonceSource().SetClock(func() time.Time { return fixed })

	first := x.Nonce()
	assert.Equal(t, int64(1700000000000), first)
	assert.Equal(t, first+1, x.Nonce())
	assert.Equal(t, first+2, x.Nonce())
}
