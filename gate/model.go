package gate

import (
	"encoding/json"

	"github.com/lemconn/exkit/types"
)

// gateCurrencyPair 现货交易对，fee 为百分比（0.2 即 0.2%）
type gateCurrencyPair struct {
	ID              string          `json:"id"`
	Base            string          `json:"base"`
	Quote           string          `json:"quote"`
	Fee             types.ExDecimal `json:"fee"`
	MinBaseAmount   types.ExDecimal `json:"min_base_amount"`
	MinQuoteAmount  types.ExDecimal `json:"min_quote_amount"`
	MaxQuoteAmount  types.ExDecimal `json:"max_quote_amount"`
	AmountPrecision int             `json:"amount_precision"`
	Precision       int             `json:"precision"`
	TradeStatus     string          `json:"trade_status"`
}

// gateContract USDT 永续合约，数量单位为张，quanto_multiplier 为每张对应的基础币数量
type gateContract struct {
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	QuantoMultiplier types.ExDecimal `json:"quanto_multiplier"`
	OrderPriceRound  types.ExDecimal `json:"order_price_round"`
	OrderSizeMin     types.ExDecimal `json:"order_size_min"`
	OrderSizeMax     types.ExDecimal `json:"order_size_max"`
	LeverageMin      types.ExDecimal `json:"leverage_min"`
	LeverageMax      types.ExDecimal `json:"leverage_max"`
	MakerFeeRate     types.ExDecimal `json:"maker_fee_rate"`
	TakerFeeRate     types.ExDecimal `json:"taker_fee_rate"`
	InDelisting      bool            `json:"in_delisting"`
}

type gateCurrency struct {
	Currency         string `json:"currency"`
	Name             string `json:"name"`
	Delisted         bool   `json:"delisted"`
	WithdrawDisabled bool   `json:"withdraw_disabled"`
	DepositDisabled  bool   `json:"deposit_disabled"`
	TradeDisabled    bool   `json:"trade_disabled"`
	Chains           []struct {
		Name             string `json:"name"`
		Addr             string `json:"addr"`
		WithdrawDisabled bool   `json:"withdraw_disabled"`
		DepositDisabled  bool   `json:"deposit_disabled"`
	} `json:"chains"`
}

// gateSpotTicker change_percentage 已是百分比
type gateSpotTicker struct {
	CurrencyPair     string          `json:"currency_pair"`
	Last             types.ExDecimal `json:"last"`
	LowestAsk        types.ExDecimal `json:"lowest_ask"`
	HighestBid       types.ExDecimal `json:"highest_bid"`
	ChangePercentage types.ExDecimal `json:"change_percentage"`
	BaseVolume       types.ExDecimal `json:"base_volume"`
	QuoteVolume      types.ExDecimal `json:"quote_volume"`
	High24h          types.ExDecimal `json:"high_24h"`
	Low24h           types.ExDecimal `json:"low_24h"`
}

type gateFuturesTicker struct {
	Contract         string          `json:"contract"`
	Last             types.ExDecimal `json:"last"`
	LowestAsk        types.ExDecimal `json:"lowest_ask"`
	HighestBid       types.ExDecimal `json:"highest_bid"`
	ChangePercentage types.ExDecimal `json:"change_percentage"`
	Volume24hBase    types.ExDecimal `json:"volume_24h_base"`
	Volume24hQuote   types.ExDecimal `json:"volume_24h_quote"`
	High24h          types.ExDecimal `json:"high_24h"`
	Low24h           types.ExDecimal `json:"low_24h"`
	MarkPrice        types.ExDecimal `json:"mark_price"`
}

// gateSpotOrderBook current 为毫秒时间戳
type gateSpotOrderBook struct {
	ID      int64               `json:"id"`
	Current types.ExTimestamp   `json:"current"`
	Asks    [][]types.ExDecimal `json:"asks"`
	Bids    [][]types.ExDecimal `json:"bids"`
}

// gateFuturesOrderBook current 为带小数的秒，档位为 {p, s} 对象
type gateFuturesOrderBook struct {
	ID      int64             `json:"id"`
	Current types.ExTimestamp `json:"current"`
	Asks    []gateBookLevel   `json:"asks"`
	Bids    []gateBookLevel   `json:"bids"`
}

type gateBookLevel struct {
	P types.ExDecimal `json:"p"`
	S types.ExDecimal `json:"s"`
}

// gateSpotTrade create_time 为秒，create_time_ms 为带小数的毫秒字符串，这里只取前者
type gateSpotTrade struct {
	ID           string            `json:"id"`
	CreateTime   types.ExTimestamp `json:"create_time"`
	Side         string            `json:"side"`
	Role         string            `json:"role"`
	Amount       types.ExDecimal   `json:"amount"`
	Price        types.ExDecimal   `json:"price"`
	OrderID      string            `json:"order_id"`
	Fee          types.ExDecimal   `json:"fee"`
	FeeCurrency  string            `json:"fee_currency"`
	CurrencyPair string            `json:"currency_pair"`
}

// gateFuturesTrade size 带符号，负数为卖出
type gateFuturesTrade struct {
	ID         json.Number       `json:"id"`
	TradeID    json.Number       `json:"trade_id"`
	CreateTime types.ExTimestamp `json:"create_time"`
	Contract   string            `json:"contract"`
	OrderID    json.Number       `json:"order_id"`
	Size       types.ExDecimal   `json:"size"`
	Price      types.ExDecimal   `json:"price"`
	Role       string            `json:"role"`
	Fee        types.ExDecimal   `json:"fee"`
}

type gateFuturesCandle struct {
	T   types.ExTimestamp `json:"t"`
	V   types.ExDecimal   `json:"v"`
	C   types.ExDecimal   `json:"c"`
	H   types.ExDecimal   `json:"h"`
	L   types.ExDecimal   `json:"l"`
	O   types.ExDecimal   `json:"o"`
	Sum types.ExDecimal   `json:"sum"`
}

type gateFee struct {
	MakerFee        types.ExDecimal `json:"maker_fee"`
	TakerFee        types.ExDecimal `json:"taker_fee"`
	FuturesMakerFee types.ExDecimal `json:"futures_maker_fee"`
	FuturesTakerFee types.ExDecimal `json:"futures_taker_fee"`
}

type gateSpotAccount struct {
	Currency  string          `json:"currency"`
	Available types.ExDecimal `json:"available"`
	Locked    types.ExDecimal `json:"locked"`
}

type gateFuturesAccount struct {
	Total     types.ExDecimal `json:"total"`
	Available types.ExDecimal `json:"available"`
	Currency  string          `json:"currency"`
}

// gateSpotOrder 市价买单的 amount 为计价币金额
type gateSpotOrder struct {
	ID           string            `json:"id"`
	Text         string            `json:"text"`
	CreateTimeMs types.ExTimestamp `json:"create_time_ms"`
	UpdateTimeMs types.ExTimestamp `json:"update_time_ms"`
	Status       string            `json:"status"`
	FinishAs     string            `json:"finish_as"`
	CurrencyPair string            `json:"currency_pair"`
	Type         string            `json:"type"`
	Side         string            `json:"side"`
	Amount       types.ExDecimal   `json:"amount"`
	Price        types.ExDecimal   `json:"price"`
	TimeInForce  string            `json:"time_in_force"`
	Left         types.ExDecimal   `json:"left"`
	FilledTotal  types.ExDecimal   `json:"filled_total"`
	AvgDealPrice types.ExDecimal   `json:"avg_deal_price"`
	Fee          types.ExDecimal   `json:"fee"`
	FeeCurrency  string            `json:"fee_currency"`
}

// gateFuturesOrder size 带符号，price 为 0 表示市价
type gateFuturesOrder struct {
	ID         json.Number       `json:"id"`
	Text       string            `json:"text"`
	CreateTime types.ExTimestamp `json:"create_time"`
	FinishTime types.ExTimestamp `json:"finish_time"`
	Status     string            `json:"status"`
	FinishAs   string            `json:"finish_as"`
	Contract   string            `json:"contract"`
	Size       types.ExDecimal   `json:"size"`
	Left       types.ExDecimal   `json:"left"`
	Price      types.ExDecimal   `json:"price"`
	FillPrice  types.ExDecimal   `json:"fill_price"`
	Tif        string            `json:"tif"`
	IsReduce   bool              `json:"is_reduce_only"`
	IsClose    bool              `json:"is_close"`
	Tkfr       types.ExDecimal   `json:"tkfr"`
	Mkfr       types.ExDecimal   `json:"mkfr"`
}

type gateDepositAddress struct {
	Currency            string `json:"currency"`
	Address             string `json:"address"`
	MultichainAddresses []struct {
		Chain        string `json:"chain"`
		Address      string `json:"address"`
		PaymentID    string `json:"payment_id"`
		PaymentName  string `json:"payment_name"`
		ObtainFailed int    `json:"obtain_failed"`
	} `json:"multichain_addresses"`
}

// gateTransaction 充值与提现记录共用
type gateTransaction struct {
	ID        string            `json:"id"`
	Txid      string            `json:"txid"`
	Timestamp types.ExTimestamp `json:"timestamp"`
	Amount    types.ExDecimal   `json:"amount"`
	Fee       types.ExDecimal   `json:"fee"`
	Currency  string            `json:"currency"`
	Address   string            `json:"address"`
	Memo      string            `json:"memo"`
	Status    string            `json:"status"`
	Chain     string            `json:"chain"`
}
