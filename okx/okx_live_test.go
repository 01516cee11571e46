package okx

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/option"
)

// setupLiveExchange 需要 OKX_API_KEY、OKX_SECRET_KEY 与 OKX_PASSWORD
func setupLiveExchange(t *testing.T) *OKX {
	t.Helper()
	apiKey := os.Getenv("OKX_API_KEY")
	if apiKey == "" {
		t.Skip("OKX_API_KEY not set")
	}
	opts := []option.Option{
		option.WithAPIKey(apiKey),
		option.WithSecretKey(os.Getenv("OKX_SECRET_KEY")),
		option.WithPassword(os.Getenv("OKX_PASSWORD")),
		option.WithSandbox(os.Getenv("OKX_SANDBOX") == "1"),
		option.WithTimeout(15 * time.Second),
	}
	if proxy := os.Getenv("PROXY_URL"); proxy != "" {
		opts = append(opts, option.WithProxy(proxy))
	}
	o, err := NewOKX(opts...)
	require.NoError(t, err)
	return o
}

func skipUnavailable(t *testing.T, err error) {
	t.Helper()
	if exchange.IsKind(err, exchange.ExchangeNotAvailable) {
		t.Skipf("okx unavailable: %v", err)
	}
}

func TestLiveFetchOrderBook(t *testing.T) {
	o := setupLiveExchange(t)
	ctx := context.Background()

	for _, symbol := range []string{"BTC/USDT", "BTC/USDT:USDT"} {
		ob, err := o.FetchOrderBook(ctx, symbol, option.WithLimit(5))
		skipUnavailable(t, err)
		require.NoError(t, err, symbol)
		require.NotNil(t, ob.BestBid(), symbol)
		require.NotNil(t, ob.BestAsk(), symbol)
		assert.True(t, ob.BestAsk().Price.GreaterThan(ob.BestBid().Price), symbol)
	}
}

func TestLiveFetchOpenOrders(t *testing.T) {
	o := setupLiveExchange(t)

	orders, err := o.FetchOpenOrders(context.Background(), "")
	skipUnavailable(t, err)
	require.NoError(t, err)
	for _, order := range orders {
		assert.NotEmpty(t, order.ID)
		t.Logf("%s %s %s %s@%s %s", order.ID, order.Symbol, order.Side, order.Amount, order.Price, order.Status)
	}
}
