package exchange

import (
	"context"

	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

// Exchange 统一交易所接口
// 交易所不支持的方法返回 NotSupported 错误，可先通过 Has 判断
type Exchange interface {
	// Name 返回交易所名称
	Name() string

	// Has 是否支持某项功能
	Has(feature Feature) bool

	// ========== 市场数据 ==========

	// LoadMarkets 加载并缓存市场信息，reload 为 true 时强制刷新
	LoadMarkets(ctx context.Context, reload bool) (model.Markets, error)

	// FetchMarkets 从交易所获取市场列表（不读缓存）
	FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error)

	// Market 从缓存获取单个市场信息
	Market(symbol string) (*model.Market, error)

	// FetchCurrencies 获取币种信息
	FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error)

	// FetchTicker 获取行情（单个）
	FetchTicker(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.Ticker, error)

	// FetchTickers 批量获取行情，可通过 option.WithSymbols 指定交易对
	FetchTickers(ctx context.Context, opts ...option.ArgsOption) (model.Tickers, error)

	// FetchOrderBook 获取订单簿，可通过 option.WithLimit 指定档位
	FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error)

	// FetchTrades 获取公共成交记录
	FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error)

	// FetchOHLCV 获取K线数据
	FetchOHLCV(ctx context.Context, symbol string, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error)

	// FetchTradingFees 获取交易手续费率
	FetchTradingFees(ctx context.Context, opts ...option.ArgsOption) (model.TradingFees, error)

	// ========== 账户信息 ==========

	// FetchBalance 获取余额
	FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.Balances, error)

	// ========== 订单操作 ==========

	// CreateOrder 创建订单，设置 option.WithPrice 时默认为限价单，否则为市价单
	CreateOrder(ctx context.Context, symbol string, side model.OrderSide, amount string, opts ...option.ArgsOption) (*model.Order, error)

	// CancelOrder 取消订单
	CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error)

	// FetchOrder 查询订单
	FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error)

	// FetchOrders 查询订单列表
	FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error)

	// FetchOpenOrders 查询未成交订单
	FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error)

	// FetchClosedOrders 查询已完成订单
	FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error)

	// FetchMyTrades 获取我的成交记录
	FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error)

	// ========== 充值提现 ==========

	// FetchDepositAddress 获取充值地址
	FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error)

	// FetchDeposits 获取充值记录，code 为空时返回全部币种
	FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error)

	// FetchWithdrawals 获取提现记录，code 为空时返回全部币种
	FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error)

	// Withdraw 提现
	Withdraw(ctx context.Context, code string, amount string, address string, opts ...option.ArgsOption) (*model.Transaction, error)
}
