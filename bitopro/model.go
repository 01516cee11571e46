package bitopro

import (
	"encoding/json"

	"github.com/lemconn/exkit/types"
)

type bitoproCurrency struct {
	Currency            string          `json:"currency"`
	WithdrawFee         types.ExDecimal `json:"withdrawFee"`
	MinWithdraw         types.ExDecimal `json:"minWithdraw"`
	MaxWithdraw         types.ExDecimal `json:"maxWithdraw"`
	MaxDailyWithdraw    types.ExDecimal `json:"maxDailyWithdraw"`
	Withdraw            bool            `json:"withdraw"`
	Deposit             bool            `json:"deposit"`
	DepositConfirmation string          `json:"depositConfirmation"`
}

type bitoproPair struct {
	Pair                    string          `json:"pair"`
	Base                    string          `json:"base"`
	Quote                   string          `json:"quote"`
	BasePrecision           string          `json:"basePrecision"`
	QuotePrecision          string          `json:"quotePrecision"`
	MinLimitBaseAmount      types.ExDecimal `json:"minLimitBaseAmount"`
	MaxLimitBaseAmount      types.ExDecimal `json:"maxLimitBaseAmount"`
	MinMarketBuyQuoteAmount types.ExDecimal `json:"minMarketBuyQuoteAmount"`
	Maintain                bool            `json:"maintain"`
}

type bitoproTicker struct {
	Pair            string          `json:"pair"`
	LastPrice       types.ExDecimal `json:"lastPrice"`
	IsBuyer         bool            `json:"isBuyer"`
	PriceChange24hr types.ExDecimal `json:"priceChange24hr"`
	Volume24hr      types.ExDecimal `json:"volume24hr"`
	High24hr        types.ExDecimal `json:"high24hr"`
	Low24hr         types.ExDecimal `json:"low24hr"`
}

type bitoproBookEntry struct {
	Price  types.ExDecimal `json:"price"`
	Amount types.ExDecimal `json:"amount"`
	Count  int             `json:"count"`
	Total  types.ExDecimal `json:"total"`
}

type bitoproOrderBook struct {
	Bids []bitoproBookEntry `json:"bids"`
	Asks []bitoproBookEntry `json:"asks"`
}

// bitoproTrade 公共成交与我的成交共用，我的成交带 tradeId
type bitoproTrade struct {
	TradeID     string            `json:"tradeId"`
	OrderID     string            `json:"orderId"`
	Pair        string            `json:"pair"`
	Timestamp   types.ExTimestamp `json:"timestamp"`
	Price       types.ExDecimal   `json:"price"`
	Type        string            `json:"type"`
	Action      string            `json:"action"`
	IsBuyer     *bool             `json:"isBuyer"`
	Amount      types.ExDecimal   `json:"amount"`
	BaseAmount  types.ExDecimal   `json:"baseAmount"`
	QuoteAmount types.ExDecimal   `json:"quoteAmount"`
	Fee         types.ExDecimal   `json:"fee"`
	FeeSymbol   string            `json:"feeSymbol"`
	IsTaker     *bool             `json:"isTaker"`
}

type bitoproCandle struct {
	Timestamp types.ExTimestamp `json:"timestamp"`
	Open      types.ExDecimal   `json:"open"`
	High      types.ExDecimal   `json:"high"`
	Low       types.ExDecimal   `json:"low"`
	Close     types.ExDecimal   `json:"close"`
	Volume    types.ExDecimal   `json:"volume"`
}

type bitoproFeeTier struct {
	Rank     int             `json:"rank"`
	MakerFee types.ExDecimal `json:"makerFee"`
	TakerFee types.ExDecimal `json:"takerFee"`
}

type bitoproBalance struct {
	Currency  string          `json:"currency"`
	Amount    types.ExDecimal `json:"amount"`
	Available types.ExDecimal `json:"available"`
	Stake     types.ExDecimal `json:"stake"`
	Tradable  bool            `json:"tradable"`
}

// bitoproOrder 下单、撤单与查询订单的返回；下单返回 orderId，查询返回 id
type bitoproOrder struct {
	ID                string            `json:"id"`
	OrderID           string            `json:"orderId"`
	Pair              string            `json:"pair"`
	Price             types.ExDecimal   `json:"price"`
	AvgExecutionPrice types.ExDecimal   `json:"avgExecutionPrice"`
	Action            string            `json:"action"`
	Type              string            `json:"type"`
	Timestamp         types.ExTimestamp `json:"timestamp"`
	CreatedTimestamp  types.ExTimestamp `json:"createdTimestamp"`
	UpdatedTimestamp  types.ExTimestamp `json:"updatedTimestamp"`
	Status            json.Number       `json:"status"`
	Amount            types.ExDecimal   `json:"amount"`
	OriginalAmount    types.ExDecimal   `json:"originalAmount"`
	RemainingAmount   types.ExDecimal   `json:"remainingAmount"`
	ExecutedAmount    types.ExDecimal   `json:"executedAmount"`
	Fee               types.ExDecimal   `json:"fee"`
	FeeSymbol         string            `json:"feeSymbol"`
	TimeInForce       string            `json:"timeInForce"`
}

type bitoproTransaction struct {
	Serial    string            `json:"serial"`
	ID        string            `json:"id"`
	Currency  string            `json:"currency"`
	Timestamp types.ExTimestamp `json:"timestamp"`
	Address   string            `json:"address"`
	Amount    types.ExDecimal   `json:"amount"`
	Fee       types.ExDecimal   `json:"fee"`
	Total     types.ExDecimal   `json:"total"`
	Status    string            `json:"status"`
	TxID      string            `json:"txid"`
	Message   string            `json:"message"`
	Protocol  string            `json:"protocol"`
}

// bitoproData 大部分接口的外层结构
type bitoproData struct {
	Data json.RawMessage `json:"data"`
}
