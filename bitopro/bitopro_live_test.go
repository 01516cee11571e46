package bitopro

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/option"
)

func setupLiveExchange(t *testing.T) *Bitopro {
	t.Helper()
	apiKey := os.Getenv("BITOPRO_API_KEY")
	if apiKey == "" {
		t.Skip("BITOPRO_API_KEY not set")
	}
	p, err := NewBitopro(
		option.WithAPIKey(apiKey),
		option.WithSecretKey(os.Getenv("BITOPRO_SECRET_KEY")),
		option.WithTimeout(15*time.Second),
	)
	require.NoError(t, err)
	return p
}

func TestLiveFetchTrades(t *testing.T) {
	p := setupLiveExchange(t)

	trades, err := p.FetchTrades(context.Background(), "BTC/TWD", option.WithLimit(20))
	if exchange.IsKind(err, exchange.ExchangeNotAvailable) {
		t.Skipf("bitopro unavailable: %v", err)
	}
	require.NoError(t, err)
	for _, trade := range trades {
		require.Equal(t, "BTC/TWD", trade.Symbol)
		require.Contains(t, []string{"buy", "sell"}, string(trade.Side))
	}
}
