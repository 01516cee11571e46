package bybit

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

const (
	bybitName       = "bybit"
	bybitBaseURL    = "https://api.bybit.com"
	bybitSandboxURL = "https://api-demo.bybit.com"

	// defaultRecvWindow 私有请求的有效时间窗口（毫秒）
	defaultRecvWindow = 5000
)

var log = logrus.WithField("exchange", bybitName)

var bybitTimeframes = model.Timeframes{
	model.Timeframe1m:  "1",
	model.Timeframe3m:  "3",
	model.Timeframe5m:  "5",
	model.Timeframe15m: "15",
	model.Timeframe30m: "30",
	model.Timeframe1h:  "60",
	model.Timeframe2h:  "120",
	model.Timeframe4h:  "240",
	model.Timeframe6h:  "360",
	model.Timeframe12h: "720",
	model.Timeframe1d:  "D",
	model.Timeframe1w:  "W",
	model.Timeframe1M:  "M",
}

// Bybit Bybit v5 统一账户实现，支持现货（category=spot）与 USDT 永续（category=linear）
type Bybit struct {
	*base.BaseExchange
}

// NewBybit 创建 Bybit 交易所实例
func NewBybit(opts ...option.Option) (*Bybit, error) {
	cfg := base.Config{
		Name: bybitName,
		URLs: map[string]string{
			"public":  bybitBaseURL,
			"private": bybitBaseURL,
		},
		SandboxURLs: map[string]string{
			"public":  bybitSandboxURL,
			"private": bybitSandboxURL,
		},
		RateLimit: 20 * time.Millisecond,
		RequiredCredentials: base.Credentials{
			APIKey: true,
			Secret: true,
		},
		HTTPExceptions: exchange.DefaultHTTPExceptions().With(exchange.HTTPExceptions{
			403: exchange.RateLimitExceeded,
		}),
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
		Timeframes: bybitTimeframes,
	}

	b, err := base.NewBaseExchange(cfg, option.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}
	x := &Bybit{BaseExchange: b}
	b.SetHooks(x)
	return x, nil
}

func (b *Bybit) public(ctx context.Context, path string, params map[string]interface{}, out interface{}) error {
	_, err := b.call(ctx, &base.Request{API: "public", Method: http.MethodGet, Path: path, Params: params}, out)
	return err
}

func (b *Bybit) private(ctx context.Context, method, path string, params map[string]interface{}, out interface{}) error {
	_, err := b.call(ctx, &base.Request{API: "private", Private: true, Method: method, Path: path, Params: params}, out)
	return err
}

// call 解出 result 字段，返回服务器时间；retCode 已由 HandleErrors 处理
func (b *Bybit) call(ctx context.Context, req *base.Request, out interface{}) (types.ExTimestamp, error) {
	var resp bybitResponse
	if err := b.FetchJSON(ctx, req, &resp); err != nil {
		return types.ExTimestamp{}, err
	}
	if out == nil {
		return resp.Time, nil
	}
	return resp.Time, b.Decode(resp.Result, out)
}

// category 市场类型 -> Bybit category
func category(t model.MarketType) string {
	if t == model.MarketTypeSwap {
		return "linear"
	}
	return "spot"
}

// categoryOf 未指定市场时按 MarketType 选择，默认现货
func categoryOf(args *option.ExchangeArgsOptions, market *model.Market) string {
	if market != nil {
		return category(market.Type)
	}
	if args.MarketType != nil {
		return category(*args.MarketType)
	}
	return "spot"
}

// marketType Bybit category -> 市场类型
func marketType(cat string) model.MarketType {
	if cat == "linear" {
		return model.MarketTypeSwap
	}
	return model.MarketTypeSpot
}

func (b *Bybit) emptyResponse(method string) error {
	return exchange.Errorf(exchange.BadResponse, bybitName, "%s %s() returned empty data", bybitName, method)
}

var _ exchange.Exchange = (*Bybit)(nil)
