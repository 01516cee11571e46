package base

import (
	"context"

	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

// 以下为统一接口的默认实现，具体交易所覆盖自己支持的方法

// FetchMarkets 获取市场列表
func (e *BaseExchange) FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error) {
	return nil, e.NotSupported("fetchMarkets")
}

// FetchCurrencies 获取币种信息
func (e *BaseExchange) FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error) {
	return nil, e.NotSupported("fetchCurrencies")
}

// FetchTicker 获取行情（单个）
func (e *BaseExchange) FetchTicker(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.Ticker, error) {
	return nil, e.NotSupported("fetchTicker")
}

// FetchTickers 批量获取行情
func (e *BaseExchange) FetchTickers(ctx context.Context, opts ...option.ArgsOption) (model.Tickers, error) {
	return nil, e.NotSupported("fetchTickers")
}

// FetchOrderBook 获取订单簿
func (e *BaseExchange) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	return nil, e.NotSupported("fetchOrderBook")
}

// FetchTrades 获取公共成交记录
func (e *BaseExchange) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	return nil, e.NotSupported("fetchTrades")
}

// FetchOHLCV 获取K线数据
func (e *BaseExchange) FetchOHLCV(ctx context.Context, symbol string, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	return nil, e.NotSupported("fetchOHLCV")
}

// FetchTradingFees 获取交易手续费率
func (e *BaseExchange) FetchTradingFees(ctx context.Context, opts ...option.ArgsOption) (model.TradingFees, error) {
	return nil, e.NotSupported("fetchTradingFees")
}

// FetchBalance 获取余额
func (e *BaseExchange) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.Balances, error) {
	return nil, e.NotSupported("fetchBalance")
}

// CreateOrder 创建订单
func (e *BaseExchange) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	return nil, e.NotSupported("createOrder")
}

// CancelOrder 取消订单
func (e *BaseExchange) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	return nil, e.NotSupported("cancelOrder")
}

// FetchOrder 查询订单
func (e *BaseExchange) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	return nil, e.NotSupported("fetchOrder")
}

// FetchOrders 查询订单列表
func (e *BaseExchange) FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return nil, e.NotSupported("fetchOrders")
}

// FetchOpenOrders 查询未成交订单
func (e *BaseExchange) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return nil, e.NotSupported("fetchOpenOrders")
}

// FetchClosedOrders 查询已完成订单
func (e *BaseExchange) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return nil, e.NotSupported("fetchClosedOrders")
}

// FetchMyTrades 获取我的成交记录
func (e *BaseExchange) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	return nil, e.NotSupported("fetchMyTrades")
}

// FetchDepositAddress 获取充值地址
func (e *BaseExchange) FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	return nil, e.NotSupported("fetchDepositAddress")
}

// FetchDeposits 获取充值记录
func (e *BaseExchange) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return nil, e.NotSupported("fetchDeposits")
}

// FetchWithdrawals 获取提现记录
func (e *BaseExchange) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return nil, e.NotSupported("fetchWithdrawals")
}

// Withdraw 提现
func (e *BaseExchange) Withdraw(ctx context.Context, code string, amount string, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	return nil, e.NotSupported("withdraw")
}
