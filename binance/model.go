package binance

import (
	"github.com/lemconn/exkit/types"
)

// binanceFilter 过滤器（现货和合约共用）
type binanceFilter struct {
	FilterType  string          `json:"filterType"`
	MinQty      types.ExDecimal `json:"minQty"`
	MaxQty      types.ExDecimal `json:"maxQty"`
	StepSize    types.ExDecimal `json:"stepSize"`
	MinPrice    types.ExDecimal `json:"minPrice"`
	MaxPrice    types.ExDecimal `json:"maxPrice"`
	TickSize    types.ExDecimal `json:"tickSize"`
	MinNotional types.ExDecimal `json:"minNotional"`
	Notional    types.ExDecimal `json:"notional"`
}

// binanceSymbol exchangeInfo 中的交易对，现货与合约字段取并集
type binanceSymbol struct {
	Symbol            string          `json:"symbol"`
	Status            string          `json:"status"`
	BaseAsset         string          `json:"baseAsset"`
	QuoteAsset        string          `json:"quoteAsset"`
	MarginAsset       string          `json:"marginAsset"`
	ContractType      string          `json:"contractType"`
	PricePrecision    *int            `json:"pricePrecision"`
	QuantityPrecision *int            `json:"quantityPrecision"`
	Filters           []binanceFilter `json:"filters"`
}

type binanceExchangeInfo struct {
	Symbols []binanceSymbol `json:"symbols"`
}

// binanceTicker 24hr 行情
type binanceTicker struct {
	Symbol             string            `json:"symbol"`
	PriceChange        types.ExDecimal   `json:"priceChange"`
	PriceChangePercent types.ExDecimal   `json:"priceChangePercent"`
	WeightedAvgPrice   types.ExDecimal   `json:"weightedAvgPrice"`
	PrevClosePrice     types.ExDecimal   `json:"prevClosePrice"`
	LastPrice          types.ExDecimal   `json:"lastPrice"`
	BidPrice           types.ExDecimal   `json:"bidPrice"`
	BidQty             types.ExDecimal   `json:"bidQty"`
	AskPrice           types.ExDecimal   `json:"askPrice"`
	AskQty             types.ExDecimal   `json:"askQty"`
	OpenPrice          types.ExDecimal   `json:"openPrice"`
	HighPrice          types.ExDecimal   `json:"highPrice"`
	LowPrice           types.ExDecimal   `json:"lowPrice"`
	Volume             types.ExDecimal   `json:"volume"`
	QuoteVolume        types.ExDecimal   `json:"quoteVolume"`
	CloseTime          types.ExTimestamp `json:"closeTime"`
}

type binanceOrderBook struct {
	LastUpdateID int64               `json:"lastUpdateId"`
	T            types.ExTimestamp   `json:"T"`
	Bids         [][]types.ExDecimal `json:"bids"`
	Asks         [][]types.ExDecimal `json:"asks"`
}

// binanceTrade 公共成交与我的成交共用
type binanceTrade struct {
	ID              int64             `json:"id"`
	OrderID         int64             `json:"orderId"`
	Symbol          string            `json:"symbol"`
	Price           types.ExDecimal   `json:"price"`
	Qty             types.ExDecimal   `json:"qty"`
	QuoteQty        types.ExDecimal   `json:"quoteQty"`
	Commission      types.ExDecimal   `json:"commission"`
	CommissionAsset string            `json:"commissionAsset"`
	Time            types.ExTimestamp `json:"time"`
	IsBuyerMaker    *bool             `json:"isBuyerMaker"`
	IsBuyer         *bool             `json:"isBuyer"`
	IsMaker         *bool             `json:"isMaker"`
	// 合约成交
	Side  string `json:"side"`
	Buyer *bool  `json:"buyer"`
	Maker *bool  `json:"maker"`
}

// binanceOrder 现货与合约订单，成交额字段分别为 cummulativeQuoteQty 与 cumQuote
type binanceOrder struct {
	Symbol              string            `json:"symbol"`
	OrderID             int64             `json:"orderId"`
	ClientOrderID       string            `json:"clientOrderId"`
	Price               types.ExDecimal   `json:"price"`
	AvgPrice            types.ExDecimal   `json:"avgPrice"`
	OrigQty             types.ExDecimal   `json:"origQty"`
	ExecutedQty         types.ExDecimal   `json:"executedQty"`
	CummulativeQuoteQty types.ExDecimal   `json:"cummulativeQuoteQty"`
	CumQuote            types.ExDecimal   `json:"cumQuote"`
	Status              string            `json:"status"`
	TimeInForce         string            `json:"timeInForce"`
	Type                string            `json:"type"`
	Side                string            `json:"side"`
	ReduceOnly          *bool             `json:"reduceOnly"`
	Time                types.ExTimestamp `json:"time"`
	TransactTime        types.ExTimestamp `json:"transactTime"`
	UpdateTime          types.ExTimestamp `json:"updateTime"`
	Fills               []binanceFill     `json:"fills"`
}

type binanceFill struct {
	Price           types.ExDecimal `json:"price"`
	Qty             types.ExDecimal `json:"qty"`
	Commission      types.ExDecimal `json:"commission"`
	CommissionAsset string          `json:"commissionAsset"`
	TradeID         int64           `json:"tradeId"`
}

type binanceSpotAccount struct {
	UpdateTime types.ExTimestamp `json:"updateTime"`
	Balances   []struct {
		Asset  string          `json:"asset"`
		Free   types.ExDecimal `json:"free"`
		Locked types.ExDecimal `json:"locked"`
	} `json:"balances"`
}

type binanceFuturesBalance struct {
	Asset              string          `json:"asset"`
	Balance            types.ExDecimal `json:"balance"`
	AvailableBalance   types.ExDecimal `json:"availableBalance"`
	CrossWalletBalance types.ExDecimal `json:"crossWalletBalance"`
}

type binanceNetwork struct {
	Network                 string          `json:"network"`
	Coin                    string          `json:"coin"`
	IsDefault               bool            `json:"isDefault"`
	DepositEnable           bool            `json:"depositEnable"`
	WithdrawEnable          bool            `json:"withdrawEnable"`
	WithdrawFee             types.ExDecimal `json:"withdrawFee"`
	WithdrawMin             types.ExDecimal `json:"withdrawMin"`
	WithdrawMax             types.ExDecimal `json:"withdrawMax"`
	WithdrawIntegerMultiple types.ExDecimal `json:"withdrawIntegerMultiple"`
}

// binanceCoin capital/config/getall
type binanceCoin struct {
	Coin              string           `json:"coin"`
	Name              string           `json:"name"`
	DepositAllEnable  bool             `json:"depositAllEnable"`
	WithdrawAllEnable bool             `json:"withdrawAllEnable"`
	Trading           bool             `json:"trading"`
	NetworkList       []binanceNetwork `json:"networkList"`
}

type binanceTradeFee struct {
	Symbol          string          `json:"symbol"`
	MakerCommission types.ExDecimal `json:"makerCommission"`
	TakerCommission types.ExDecimal `json:"takerCommission"`
}

// binanceTransaction 充值记录与提现记录共用
type binanceTransaction struct {
	ID             string            `json:"id"`
	Amount         types.ExDecimal   `json:"amount"`
	TransactionFee types.ExDecimal   `json:"transactionFee"`
	Coin           string            `json:"coin"`
	Status         int               `json:"status"`
	Address        string            `json:"address"`
	AddressTag     string            `json:"addressTag"`
	TxID           string            `json:"txId"`
	Network        string            `json:"network"`
	InsertTime     types.ExTimestamp `json:"insertTime"`
	ApplyTime      types.ExTimestamp `json:"applyTime"`
	CompleteTime   types.ExTimestamp `json:"completeTime"`
	Info           string            `json:"info"`
}

type binanceDepositAddress struct {
	Coin    string `json:"coin"`
	Address string `json:"address"`
	Tag     string `json:"tag"`
	URL     string `json:"url"`
}
