package exchange

// Feature 交易所功能
type Feature string

const (
	FeatureFetchMarkets        Feature = "fetchMarkets"
	FeatureFetchCurrencies     Feature = "fetchCurrencies"
	FeatureFetchTicker         Feature = "fetchTicker"
	FeatureFetchTickers        Feature = "fetchTickers"
	FeatureFetchOrderBook      Feature = "fetchOrderBook"
	FeatureFetchTrades         Feature = "fetchTrades"
	FeatureFetchOHLCV          Feature = "fetchOHLCV"
	FeatureFetchTradingFees    Feature = "fetchTradingFees"
	FeatureFetchBalance        Feature = "fetchBalance"
	FeatureCreateOrder         Feature = "createOrder"
	FeatureCancelOrder         Feature = "cancelOrder"
	FeatureFetchOrder          Feature = "fetchOrder"
	FeatureFetchOrders         Feature = "fetchOrders"
	FeatureFetchOpenOrders     Feature = "fetchOpenOrders"
	FeatureFetchClosedOrders   Feature = "fetchClosedOrders"
	FeatureFetchMyTrades       Feature = "fetchMyTrades"
	FeatureFetchDepositAddress Feature = "fetchDepositAddress"
	FeatureFetchDeposits       Feature = "fetchDeposits"
	FeatureFetchWithdrawals    Feature = "fetchWithdrawals"
	FeatureWithdraw            Feature = "withdraw"
	FeatureSpot                Feature = "spot"
	FeatureSwap                Feature = "swap"
	FeatureSandbox             Feature = "sandbox"
)

// Features 功能开关表
type Features map[Feature]bool

// Has 是否支持
func (f Features) Has(feature Feature) bool {
	return f[feature]
}

// Enable 返回追加功能后的新表
func (f Features) Enable(features ...Feature) Features {
	out := make(Features, len(f)+len(features))
	for k, v := range f {
		out[k] = v
	}
	for _, feature := range features {
		out[feature] = true
	}
	return out
}

// List 已支持的功能
func (f Features) List() []Feature {
	out := make([]Feature, 0, len(f))
	for k, v := range f {
		if v {
			out = append(out, k)
		}
	}
	return out
}

// PublicFeatures 公共行情类功能
var PublicFeatures = Features{
	FeatureFetchMarkets:   true,
	FeatureFetchTicker:    true,
	FeatureFetchTickers:   true,
	FeatureFetchOrderBook: true,
	FeatureFetchTrades:    true,
	FeatureFetchOHLCV:     true,
}
