package gate

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

const (
	gateName       = "gate"
	gateBaseURL    = "https://api.gateio.ws"
	gateSandboxURL = "https://api-testnet.gateapi.io"

	// apiPrefix 所有接口路径的公共前缀，同时参与签名
	apiPrefix = "/api/v4/"

	// settle USDT 本位永续的结算币种
	settle = "usdt"
)

var log = logrus.WithField("exchange", gateName)

var gateTimeframes = model.Timeframes{
	model.Timeframe1m:  "1m",
	model.Timeframe5m:  "5m",
	model.Timeframe15m: "15m",
	model.Timeframe30m: "30m",
	model.Timeframe1h:  "1h",
	model.Timeframe4h:  "4h",
	model.Timeframe8h:  "8h",
	model.Timeframe1d:  "1d",
	model.Timeframe1w:  "7d",
	model.Timeframe1M:  "30d",
}

// Gate Gate.io api/v4 实现，支持现货与 USDT 永续（futures/usdt）
type Gate struct {
	*base.BaseExchange
}

// NewGate 创建 Gate 交易所实例
func NewGate(opts ...option.Option) (*Gate, error) {
	cfg := base.Config{
		Name: gateName,
		URLs: map[string]string{
			"public":  gateBaseURL,
			"private": gateBaseURL,
		},
		SandboxURLs: map[string]string{
			"public":  gateSandboxURL,
			"private": gateSandboxURL,
		},
		RateLimit: 50 * time.Millisecond,
		RequiredCredentials: base.Credentials{
			APIKey: true,
			Secret: true,
		},
		Features: exchange.PublicFeatures.Enable(
			exchange.FeatureSpot,
			exchange.FeatureSwap,
			exchange.FeatureSandbox,
			exchange.FeatureFetchCurrencies,
			exchange.FeatureFetchTradingFees,
			exchange.FeatureFetchBalance,
			exchange.FeatureCreateOrder,
			exchange.FeatureCancelOrder,
			exchange.FeatureFetchOrder,
			exchange.FeatureFetchOrders,
			exchange.FeatureFetchOpenOrders,
			exchange.FeatureFetchClosedOrders,
			exchange.FeatureFetchMyTrades,
			exchange.FeatureFetchDepositAddress,
			exchange.FeatureFetchDeposits,
			exchange.FeatureFetchWithdrawals,
			exchange.FeatureWithdraw,
		),
		Timeframes: gateTimeframes,
	}

	b, err := base.NewBaseExchange(cfg, option.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}
	g := &Gate{BaseExchange: b}
	b.SetHooks(g)
	return g, nil
}

// public Gate 直接返回业务数据，无外层包装
func (g *Gate) public(ctx context.Context, path string, params map[string]interface{}, out interface{}) error {
	return g.FetchJSON(ctx, &base.Request{API: "public", Method: http.MethodGet, Path: path, Params: params}, out)
}

func (g *Gate) private(ctx context.Context, method, path string, params map[string]interface{}, out interface{}) error {
	return g.FetchJSON(ctx, &base.Request{API: "private", Private: true, Method: method, Path: path, Params: params}, out)
}

// isSwap 未指定市场时按 MarketType 判断，默认现货
func isSwap(args *option.ExchangeArgsOptions, market *model.Market) bool {
	if market != nil {
		return market.Contract
	}
	return args.MarketType != nil && *args.MarketType == model.MarketTypeSwap
}

func (g *Gate) emptyResponse(method string) error {
	return exchange.Errorf(exchange.BadResponse, gateName, "%s %s() returned empty data", gateName, method)
}

var _ exchange.Exchange = (*Gate)(nil)
