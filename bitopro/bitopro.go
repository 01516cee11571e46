package bitopro

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
	bitoproName    = "bitopro"
	bitoproBaseURL = "https://api.bitopro.com/v3"
)

var log = logrus.WithField("exchange", bitoproName)

// bitoproTimeframes K线 resolution 参数
var bitoproTimeframes = model.Timeframes{
	model.Timeframe1m:  "1m",
	model.Timeframe5m:  "5m",
	model.Timeframe15m: "15m",
	model.Timeframe30m: "30m",
	model.Timeframe1h:  "1h",
	model.Timeframe3h:  "3h",
	model.Timeframe6h:  "6h",
	model.Timeframe12h: "12h",
	model.Timeframe1d:  "1d",
	model.Timeframe1w:  "1w",
	model.Timeframe1M:  "1M",
}

// bitoproNetworks 统一网络名 -> 提现 protocol
var bitoproNetworks = map[string]string{
	"ERC20": "ERC20",
	"ETH":   "ERC20",
	"TRX":   "TRX",
	"TRC20": "TRX",
	"BEP20": "BSC",
	"BSC":   "BSC",
}

// bitoproNetworkCodes protocol -> 统一网络名
var bitoproNetworkCodes = map[string]string{
	"ERC20": "ERC20",
	"TRX":   "TRC20",
	"BSC":   "BEP20",
}

// Bitopro BitoPro 现货实现
type Bitopro struct {
	*base.BaseExchange
}

// NewBitopro 创建 BitoPro 交易所实例
func NewBitopro(opts ...option.Option) (*Bitopro, error) {
	cfg := base.Config{
		Name: bitoproName,
		URLs: map[string]string{
			"public":  bitoproBaseURL,
			"private": bitoproBaseURL,
		},
		RateLimit: 100 * time.Millisecond,
		RequiredCredentials: base.Credentials{
			APIKey: true,
			Secret: true,
		},
		Features: exchange.PublicFeatures.Enable(
			exchange.FeatureSpot,
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
			exchange.FeatureFetchDeposits,
			exchange.FeatureFetchWithdrawals,
			exchange.FeatureWithdraw,
		),
		Timeframes: bitoproTimeframes,
	}

	b, err := base.NewBaseExchange(cfg, option.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}
	p := &Bitopro{BaseExchange: b}
	b.SetHooks(p)
	return p, nil
}

func (p *Bitopro) publicGet(ctx context.Context, path string, params map[string]interface{}, out interface{}) error {
	return p.FetchJSON(ctx, &base.Request{API: "public", Method: http.MethodGet, Path: path, Params: params}, out)
}

func (p *Bitopro) private(ctx context.Context, method, path string, params map[string]interface{}, out interface{}) error {
	return p.FetchJSON(ctx, &base.Request{API: "private", Private: true, Method: method, Path: path, Params: params}, out)
}

var _ exchange.Exchange = (*Bitopro)(nil)
