package kraken

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

const (
	krakenName    = "kraken"
	krakenBaseURL = "https://api.kraken.com"
)

var log = logrus.WithField("exchange", krakenName)

var krakenTimeframes = model.Timeframes{
	model.Timeframe1m:  "1",
	model.Timeframe5m:  "5",
	model.Timeframe15m: "15",
	model.Timeframe30m: "30",
	model.Timeframe1h:  "60",
	model.Timeframe4h:  "240",
	model.Timeframe1d:  "1440",
	model.Timeframe1w:  "10080",
	model.Timeframe2w:  "21600",
}

// krakenNetworks 常用网络别名
var krakenNetworks = map[string]string{
	"ETH": "ERC20",
	"TRX": "TRC20",
}

// Kraken Kraken 现货实现
type Kraken struct {
	*base.BaseExchange

	// marketsByAltname 订单与成交中的交易对使用 altname（如 XBTUSD）
	altMu            sync.RWMutex
	marketsByAltname map[string]*model.Market

	// depositMethods 币种 -> 充值方式，市场强制刷新或调用 InvalidateDepositMethods 时清空
	dmMu           sync.Mutex
	depositMethods map[string][]*krakenDepositMethod
}

// NewKraken 创建 Kraken 交易所实例
func NewKraken(opts ...option.Option) (*Kraken, error) {
	cfg := base.Config{
		Name: krakenName,
		URLs: map[string]string{
			"public":  krakenBaseURL,
			"private": krakenBaseURL,
		},
		RateLimit: time.Second,
		RequiredCredentials: base.Credentials{
			APIKey: true,
			Secret: true,
		},
		HTTPExceptions: exchange.DefaultHTTPExceptions().With(exchange.HTTPExceptions{
			520: exchange.ExchangeNotAvailable,
		}),
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
			exchange.FeatureFetchDepositAddress,
			exchange.FeatureFetchDeposits,
			exchange.FeatureFetchWithdrawals,
			exchange.FeatureWithdraw,
		),
		Timeframes: krakenTimeframes,
		CommonCurrencies: map[string]string{
			"LUNA":  "LUNC",
			"LUNA2": "LUNA",
			"REPV2": "REP",
			"REP":   "REPV1",
			"UST":   "USTC",
			"XBT":   "BTC",
			"XDG":   "DOGE",
			"FEE":   "KFEE",
		},
	}

	b, err := base.NewBaseExchange(cfg, option.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}

	k := &Kraken{
		BaseExchange:     b,
		marketsByAltname: make(map[string]*model.Market),
		depositMethods:   make(map[string][]*krakenDepositMethod),
	}
	b.SetHooks(k)
	b.MarketCache().OnReload(k.InvalidateDepositMethods)
	return k, nil
}

// InvalidateDepositMethods 清空充值方式缓存
func (k *Kraken) InvalidateDepositMethods() {
	k.dmMu.Lock()
	k.depositMethods = make(map[string][]*krakenDepositMethod)
	k.dmMu.Unlock()
}

func (k *Kraken) publicGet(ctx context.Context, path string, params map[string]interface{}, result interface{}) error {
	return k.call(ctx, &base.Request{API: "public", Method: http.MethodGet, Path: path, Params: params}, result)
}

func (k *Kraken) privatePost(ctx context.Context, path string, params map[string]interface{}, result interface{}) error {
	return k.call(ctx, &base.Request{API: "private", Private: true, Method: http.MethodPost, Path: path, Params: params}, result)
}

// call 发送请求并解出 result 字段，错误字段已由 HandleErrors 处理
func (k *Kraken) call(ctx context.Context, req *base.Request, result interface{}) error {
	var resp krakenResponse
	if err := k.FetchJSON(ctx, req, &resp); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return exchange.Errorf(exchange.NullResponse, krakenName, "%s %s returned no result", krakenName, req.Path)
	}
	return k.Decode(resp.Result, result)
}

var _ exchange.Exchange = (*Kraken)(nil)
