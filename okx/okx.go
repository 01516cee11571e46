package okx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

const (
	okxName    = "okx"
	okxBaseURL = "https://www.okx.com"
)

var log = logrus.WithField("exchange", okxName)

var okxTimeframes = model.Timeframes{
	model.Timeframe1m:  "1m",
	model.Timeframe3m:  "3m",
	model.Timeframe5m:  "5m",
	model.Timeframe15m: "15m",
	model.Timeframe30m: "30m",
	model.Timeframe1h:  "1H",
	model.Timeframe2h:  "2H",
	model.Timeframe4h:  "4H",
	model.Timeframe6h:  "6H",
	model.Timeframe12h: "12H",
	model.Timeframe1d:  "1D",
	model.Timeframe1w:  "1W",
	model.Timeframe1M:  "1M",
}

// OKX OKX 现货与永续合约实现（统一账户 api/v5）
// 模拟盘与实盘同一域名，通过 x-simulated-trading 请求头区分
type OKX struct {
	*base.BaseExchange
}

// NewOKX 创建 OKX 交易所实例，私有接口需要 API Key、Secret 与 Passphrase（option.WithPassword）
func NewOKX(opts ...option.Option) (*OKX, error) {
	cfg := base.Config{
		Name: okxName,
		URLs: map[string]string{
			"public":  okxBaseURL,
			"private": okxBaseURL,
		},
		RateLimit: 100 * time.Millisecond,
		RequiredCredentials: base.Credentials{
			APIKey:   true,
			Secret:   true,
			Password: true,
		},
		HTTPExceptions: exchange.DefaultHTTPExceptions().With(exchange.HTTPExceptions{
			429: exchange.ExchangeNotAvailable,
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
		Timeframes: okxTimeframes,
	}

	b, err := base.NewBaseExchange(cfg, option.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}
	x := &OKX{BaseExchange: b}
	b.SetHooks(x)
	return x, nil
}

// public 公共接口，out 解码 data 字段
func (o *OKX) public(ctx context.Context, path string, params map[string]interface{}, out interface{}) error {
	return o.call(ctx, &base.Request{API: "public", Method: http.MethodGet, Path: path, Params: params}, out)
}

// private 私有接口，out 解码 data 字段
func (o *OKX) private(ctx context.Context, method, path string, params map[string]interface{}, out interface{}) error {
	return o.call(ctx, &base.Request{API: "private", Private: true, Method: method, Path: path, Params: params}, out)
}

func (o *OKX) call(ctx context.Context, req *base.Request, out interface{}) error {
	var resp okxResponse
	if err := o.FetchJSON(ctx, req, &resp); err != nil {
		return err
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = resp.Data
		return nil
	}
	return o.Decode(resp.Data, out)
}

func (o *OKX) emptyResponse(method string) error {
	return exchange.Errorf(exchange.BadResponse, okxName, "%s %s() returned empty data", okxName, method)
}

// instType 市场类型 -> OKX instType
func instType(t model.MarketType) string {
	if t == model.MarketTypeSwap {
		return "SWAP"
	}
	return "SPOT"
}

// instTypeOf 未指定市场时按 MarketType 选择，默认现货
func instTypeOf(args *option.ExchangeArgsOptions, market *model.Market) string {
	if market != nil {
		return instType(market.Type)
	}
	if args.MarketType != nil {
		return instType(*args.MarketType)
	}
	return "SPOT"
}

var _ exchange.Exchange = (*OKX)(nil)
