package option

import (
	"time"

	"github.com/lemconn/exkit/model"
)

// ExchangeArgsOptions 方法调用参数选项（用于 Exchange 方法调用）
type ExchangeArgsOptions struct {
	// ========== 通用查询参数 ==========
	// Limit 限制返回数量
	Limit *int
	// Since 起始时间（默认值：nil，表示不限制）
	Since *time.Time
	// Until 截止时间
	Until *time.Time
	// Symbols 交易对列表（用于 FetchTickers 等方法）
	Symbols []string
	// MarketType 市场类型（spot/swap），用于余额、批量行情等无交易对的方法
	MarketType *model.MarketType
	// Params 透传给交易所的额外参数，覆盖统一参数
	Params map[string]interface{}

	// ========== 订单相关参数 ==========
	// OrderType 订单类型（market/limit）
	OrderType *model.OrderType
	// Price 订单价格（设置时默认为限价单，未设置则为市价单）
	Price *string
	// ClientOrderID 客户端订单ID（所有交易所通用）
	ClientOrderID *string
	// TimeInForce 订单有效期（GTC/IOC/FOK/PO）
	TimeInForce *model.OrderTimeInForce
	// PostOnly 只做 Maker
	PostOnly *bool
	// ReduceOnly 只减仓（合约订单）
	ReduceOnly *bool

	// ========== 充提相关参数 ==========
	// Tag 地址标签 / memo
	Tag *string
	// Network 链名称，如 TRC20、ERC20
	Network *string
}

// ArgsOption 方法调用参数选项函数类型
type ArgsOption func(*ExchangeArgsOptions)

// ApplyArgsOptions 应用参数选项
func ApplyArgsOptions(opts ...ArgsOption) *ExchangeArgsOptions {
	args := &ExchangeArgsOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(args)
		}
	}
	if args.Params == nil {
		args.Params = make(map[string]interface{})
	}
	return args
}

// ========== 通用查询参数选项 ==========

// WithLimit 设置限制返回数量
func WithLimit(limit int) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Limit = &limit
	}
}

// WithSince 设置起始时间
func WithSince(since time.Time) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Since = &since
	}
}

// WithUntil 设置截止时间
func WithUntil(until time.Time) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Until = &until
	}
}

// WithSymbols 设置交易对列表
func WithSymbols(symbols ...string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Symbols = symbols
	}
}

// WithMarketType 设置市场类型
func WithMarketType(marketType model.MarketType) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.MarketType = &marketType
	}
}

// WithParams 合并额外参数
func WithParams(params map[string]interface{}) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		if opts.Params == nil {
			opts.Params = make(map[string]interface{}, len(params))
		}
		for k, v := range params {
			opts.Params[k] = v
		}
	}
}

// WithParam 设置单个额外参数
func WithParam(key string, value interface{}) ArgsOption {
	return WithParams(map[string]interface{}{key: value})
}

// ========== 订单相关参数选项 ==========

// WithOrderType 设置订单类型
func WithOrderType(orderType model.OrderType) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.OrderType = &orderType
	}
}

// WithPrice 设置订单价格（限价单必填）
func WithPrice(price string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Price = &price
	}
}

// WithClientOrderID 设置客户端订单ID
func WithClientOrderID(clientOrderID string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.ClientOrderID = &clientOrderID
	}
}

// WithTimeInForce 设置订单有效期
func WithTimeInForce(timeInForce model.OrderTimeInForce) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.TimeInForce = &timeInForce
	}
}

// WithPostOnly 设置只做 Maker
func WithPostOnly(postOnly bool) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.PostOnly = &postOnly
	}
}

// WithReduceOnly 设置只减仓
func WithReduceOnly(reduceOnly bool) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.ReduceOnly = &reduceOnly
	}
}

// ========== 充提相关参数选项 ==========

// WithTag 设置地址标签
func WithTag(tag string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Tag = &tag
	}
}

// WithNetwork 设置链名称
func WithNetwork(network string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Network = &network
	}
}
