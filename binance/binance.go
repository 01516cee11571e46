package binance

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
	binanceName           = "binance"
	binanceBaseURL        = "https://api.binance.com"
	binanceSandboxURL     = "https://demo-api.binance.com"
	binanceFapiBaseURL    = "https://fapi.binance.com"
	binanceFapiSandboxURL = "https://demo-fapi.binance.com"

	// defaultRecvWindow 私有请求的有效时间窗口（毫秒）
	defaultRecvWindow = 5000
)

var log = logrus.WithField("exchange", binanceName)

var binanceTimeframes = model.Timeframes{
	model.Timeframe1m:  "1m",
	model.Timeframe3m:  "3m",
	model.Timeframe5m:  "5m",
	model.Timeframe15m: "15m",
	model.Timeframe30m: "30m",
	model.Timeframe1h:  "1h",
	model.Timeframe2h:  "2h",
	model.Timeframe4h:  "4h",
	model.Timeframe6h:  "6h",
	model.Timeframe8h:  "8h",
	model.Timeframe12h: "12h",
	model.Timeframe1d:  "1d",
	model.Timeframe3d:  "3d",
	model.Timeframe1w:  "1w",
	model.Timeframe1M:  "1M",
}

// Binance Binance 现货与 U 本位永续合约实现
//
// API 名称：
//   - public / private: 现货 /api/v3
//   - sapi: 钱包与资产 /sapi/v1
//   - fapiPublic / fapiPrivate: U 本位合约 /fapi/v1
type Binance struct {
	*base.BaseExchange
}

// NewBinance 创建 Binance 交易所实例
// 通过 option.WithOption("fetchMarkets", []model.MarketType{...}) 指定加载的市场类型，默认现货与合约都加载
func NewBinance(opts ...option.Option) (*Binance, error) {
	cfg := base.Config{
		Name: binanceName,
		URLs: map[string]string{
			"public":      binanceBaseURL,
			"private":     binanceBaseURL,
			"sapi":        binanceBaseURL,
			"fapiPublic":  binanceFapiBaseURL,
			"fapiPrivate": binanceFapiBaseURL,
		},
		SandboxURLs: map[string]string{
			"public":      binanceSandboxURL,
			"private":     binanceSandboxURL,
			"sapi":        binanceSandboxURL,
			"fapiPublic":  binanceFapiSandboxURL,
			"fapiPrivate": binanceFapiSandboxURL,
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
		Timeframes: binanceTimeframes,
		CommonCurrencies: map[string]string{
			"YOYO": "YOYOW",
		},
	}

	b, err := base.NewBaseExchange(cfg, option.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}
	x := &Binance{BaseExchange: b}
	b.SetHooks(x)
	return x, nil
}

// marketTypes 需要加载的市场类型
func (b *Binance) marketTypes() []model.MarketType {
	v, ok := b.Option("fetchMarkets")
	if !ok {
		return []model.MarketType{model.MarketTypeSpot, model.MarketTypeSwap}
	}
	switch t := v.(type) {
	case []model.MarketType:
		return t
	case model.MarketType:
		return []model.MarketType{t}
	case []string:
		out := make([]model.MarketType, 0, len(t))
		for _, s := range t {
			out = append(out, model.MarketType(s))
		}
		return out
	case string:
		return []model.MarketType{model.MarketType(t)}
	}
	return []model.MarketType{model.MarketTypeSpot}
}

func (b *Binance) request(ctx context.Context, api, method, path string, params map[string]interface{}, out interface{}) error {
	private := api == "private" || api == "sapi" || api == "fapiPrivate"
	return b.FetchJSON(ctx, &base.Request{API: api, Private: private, Method: method, Path: path, Params: params}, out)
}

func (b *Binance) publicGet(ctx context.Context, market *model.Market, path string, params map[string]interface{}, out interface{}) error {
	api := "public"
	if market != nil && market.Contract {
		api = "fapiPublic"
	}
	return b.request(ctx, api, http.MethodGet, path, params, out)
}

// privateCall 按市场类型选择现货或合约私有接口
func (b *Binance) privateCall(ctx context.Context, contract bool, method, path string, params map[string]interface{}, out interface{}) error {
	api := "private"
	if contract {
		api = "fapiPrivate"
	}
	return b.request(ctx, api, method, path, params, out)
}

// isContract 未指定市场类型时默认为现货
func isContract(args *option.ExchangeArgsOptions, market *model.Market) bool {
	if market != nil {
		return market.Contract
	}
	return args.MarketType != nil && *args.MarketType != model.MarketTypeSpot
}

var _ exchange.Exchange = (*Binance)(nil)
