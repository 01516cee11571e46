package exkit

import (
	"sort"
	"strings"

	"github.com/lemconn/exkit/binance"
	"github.com/lemconn/exkit/bitopro"
	"github.com/lemconn/exkit/bybit"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/gate"
	"github.com/lemconn/exkit/kraken"
	"github.com/lemconn/exkit/okx"
	"github.com/lemconn/exkit/option"
)

// 交易所名称常量
const (
	ExchangeBinance = "binance" // Binance 交易所
	ExchangeBitopro = "bitopro" // BitoPro 交易所
	ExchangeBybit   = "bybit"   // Bybit 交易所
	ExchangeGate    = "gate"    // Gate 交易所
	ExchangeKraken  = "kraken"  // Kraken 交易所
	ExchangeOKX     = "okx"     // OKX 交易所
)

// ExchangeFactory 交易所构造函数
type ExchangeFactory func(opts ...option.Option) (exchange.Exchange, error)

// factories 静态注册表，新增交易所需在此登记
var factories = map[string]ExchangeFactory{
	ExchangeBinance: func(opts ...option.Option) (exchange.Exchange, error) { return binance.NewBinance(opts...) },
	ExchangeBitopro: func(opts ...option.Option) (exchange.Exchange, error) { return bitopro.NewBitopro(opts...) },
	ExchangeBybit:   func(opts ...option.Option) (exchange.Exchange, error) { return bybit.NewBybit(opts...) },
	ExchangeGate:    func(opts ...option.Option) (exchange.Exchange, error) { return gate.NewGate(opts...) },
	ExchangeKraken:  func(opts ...option.Option) (exchange.Exchange, error) { return kraken.NewKraken(opts...) },
	ExchangeOKX:     func(opts ...option.Option) (exchange.Exchange, error) { return okx.NewOKX(opts...) },
}

// NewExchange 按名称创建交易所实例，名称不区分大小写
//
//	ex, err := exkit.NewExchange("okx",
//		option.WithAPIKey(key),
//		option.WithSecretKey(secret),
//		option.WithPassword(passphrase),
//	)
func NewExchange(name string, opts ...option.Option) (exchange.Exchange, error) {
	factory, ok := factories[strings.ToLower(name)]
	if !ok {
		return nil, exchange.Errorf(exchange.NotSupported, name, "exchange not supported: %s", name)
	}
	return factory(opts...)
}

// SupportedExchanges 按字母序返回支持的交易所
func SupportedExchanges() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsExchangeSupported 检查交易所是否支持
func IsExchangeSupported(name string) bool {
	_, ok := factories[strings.ToLower(name)]
	return ok
}
