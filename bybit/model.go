package bybit

import (
	"encoding/json"

	"github.com/lemconn/exkit/types"
)

// bybitResponse v5 统一响应外层
type bybitResponse struct {
	RetCode int               `json:"retCode"`
	RetMsg  string            `json:"retMsg"`
	Result  json.RawMessage   `json:"result"`
	Time    types.ExTimestamp `json:"time"`
}

// bybitList 列表类结果，instruments-info 等接口带分页游标
type bybitList struct {
	Category       string            `json:"category"`
	List           []json.RawMessage `json:"list"`
	NextPageCursor string            `json:"nextPageCursor"`
}

// bybitRows 资产类接口使用 rows 字段
type bybitRows struct {
	Rows           []json.RawMessage `json:"rows"`
	NextPageCursor string            `json:"nextPageCursor"`
}

// bybitInstrument 现货与合约共用，现货数量精度为 basePrecision，合约为 qtyStep
type bybitInstrument struct {
	Symbol        string `json:"symbol"`
	ContractType  string `json:"contractType"`
	Status        string `json:"status"`
	BaseCoin      string `json:"baseCoin"`
	QuoteCoin     string `json:"quoteCoin"`
	SettleCoin    string `json:"settleCoin"`
	LotSizeFilter struct {
		BasePrecision    types.ExDecimal `json:"basePrecision"`
		QtyStep          types.ExDecimal `json:"qtyStep"`
		MinOrderQty      types.ExDecimal `json:"minOrderQty"`
		MaxOrderQty      types.ExDecimal `json:"maxOrderQty"`
		MinOrderAmt      types.ExDecimal `json:"minOrderAmt"`
		MaxOrderAmt      types.ExDecimal `json:"maxOrderAmt"`
		MinNotionalValue types.ExDecimal `json:"minNotionalValue"`
	} `json:"lotSizeFilter"`
	PriceFilter struct {
		TickSize types.ExDecimal `json:"tickSize"`
		MinPrice types.ExDecimal `json:"minPrice"`
		MaxPrice types.ExDecimal `json:"maxPrice"`
	} `json:"priceFilter"`
	LeverageFilter struct {
		MinLeverage types.ExDecimal `json:"minLeverage"`
		MaxLeverage types.ExDecimal `json:"maxLeverage"`
	} `json:"leverageFilter"`
}

type bybitCoin struct {
	Name   string `json:"name"`
	Coin   string `json:"coin"`
	Chains []struct {
		Chain         string          `json:"chain"`
		ChainType     string          `json:"chainType"`
		WithdrawFee   types.ExDecimal `json:"withdrawFee"`
		WithdrawMin   types.ExDecimal `json:"withdrawMin"`
		DepositMin    types.ExDecimal `json:"depositMin"`
		MinAccuracy   types.ExDecimal `json:"minAccuracy"`
		ChainDeposit  string          `json:"chainDeposit"`
		ChainWithdraw string          `json:"chainWithdraw"`
	} `json:"chains"`
}

// bybitTicker price24hPcnt 为小数形式的涨跌幅（0.0123 即 1.23%）
type bybitTicker struct {
	Symbol       string          `json:"symbol"`
	LastPrice    types.ExDecimal `json:"lastPrice"`
	Bid1Price    types.ExDecimal `json:"bid1Price"`
	Bid1Size     types.ExDecimal `json:"bid1Size"`
	Ask1Price    types.ExDecimal `json:"ask1Price"`
	Ask1Size     types.ExDecimal `json:"ask1Size"`
	PrevPrice24h types.ExDecimal `json:"prevPrice24h"`
	Price24hPcnt types.ExDecimal `json:"price24hPcnt"`
	HighPrice24h types.ExDecimal `json:"highPrice24h"`
	LowPrice24h  types.ExDecimal `json:"lowPrice24h"`
	Volume24h    types.ExDecimal `json:"volume24h"`
	Turnover24h  types.ExDecimal `json:"turnover24h"`
}

type bybitOrderBook struct {
	Symbol string              `json:"s"`
	Bids   [][]types.ExDecimal `json:"b"`
	Asks   [][]types.ExDecimal `json:"a"`
	Ts     types.ExTimestamp   `json:"ts"`
	U      int64               `json:"u"`
}

type bybitTrade struct {
	ExecID string            `json:"execId"`
	Symbol string            `json:"symbol"`
	Price  types.ExDecimal   `json:"price"`
	Size   types.ExDecimal   `json:"size"`
	Side   string            `json:"side"`
	Time   types.ExTimestamp `json:"time"`
}

type bybitFeeRate struct {
	Symbol       string          `json:"symbol"`
	MakerFeeRate types.ExDecimal `json:"makerFeeRate"`
	TakerFeeRate types.ExDecimal `json:"takerFeeRate"`
}

type bybitWallet struct {
	AccountType string `json:"accountType"`
	Coin        []struct {
		Coin            string          `json:"coin"`
		Equity          types.ExDecimal `json:"equity"`
		WalletBalance   types.ExDecimal `json:"walletBalance"`
		Locked          types.ExDecimal `json:"locked"`
		TotalOrderIM    types.ExDecimal `json:"totalOrderIM"`
		TotalPositionIM types.ExDecimal `json:"totalPositionIM"`
	} `json:"coin"`
}

// bybitOrder cumExecValue 为成交额，cumExecFee 为累计手续费
type bybitOrder struct {
	OrderID      string            `json:"orderId"`
	OrderLinkID  string            `json:"orderLinkId"`
	Symbol       string            `json:"symbol"`
	Price        types.ExDecimal   `json:"price"`
	Qty          types.ExDecimal   `json:"qty"`
	Side         string            `json:"side"`
	OrderStatus  string            `json:"orderStatus"`
	OrderType    string            `json:"orderType"`
	TimeInForce  string            `json:"timeInForce"`
	AvgPrice     types.ExDecimal   `json:"avgPrice"`
	LeavesQty    types.ExDecimal   `json:"leavesQty"`
	CumExecQty   types.ExDecimal   `json:"cumExecQty"`
	CumExecValue types.ExDecimal   `json:"cumExecValue"`
	CumExecFee   types.ExDecimal   `json:"cumExecFee"`
	ReduceOnly   bool              `json:"reduceOnly"`
	TriggerPrice types.ExDecimal   `json:"triggerPrice"`
	CreatedTime  types.ExTimestamp `json:"createdTime"`
	UpdatedTime  types.ExTimestamp `json:"updatedTime"`
}

type bybitOrderAck struct {
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
}

type bybitExecution struct {
	Symbol      string            `json:"symbol"`
	OrderID     string            `json:"orderId"`
	ExecID      string            `json:"execId"`
	Side        string            `json:"side"`
	OrderType   string            `json:"orderType"`
	ExecPrice   types.ExDecimal   `json:"execPrice"`
	ExecQty     types.ExDecimal   `json:"execQty"`
	ExecValue   types.ExDecimal   `json:"execValue"`
	ExecFee     types.ExDecimal   `json:"execFee"`
	FeeCurrency string            `json:"feeCurrency"`
	IsMaker     bool              `json:"isMaker"`
	ExecTime    types.ExTimestamp `json:"execTime"`
}

type bybitDepositAddress struct {
	Coin   string `json:"coin"`
	Chains []struct {
		ChainType      string `json:"chainType"`
		AddressDeposit string `json:"addressDeposit"`
		TagDeposit     string `json:"tagDeposit"`
		Chain          string `json:"chain"`
	} `json:"chains"`
}

// bybitDeposit status 为数字，successAt 为到账时间
type bybitDeposit struct {
	ID         string            `json:"id"`
	Coin       string            `json:"coin"`
	Chain      string            `json:"chain"`
	Amount     types.ExDecimal   `json:"amount"`
	TxID       string            `json:"txID"`
	Status     json.Number       `json:"status"`
	ToAddress  string            `json:"toAddress"`
	Tag        string            `json:"tag"`
	DepositFee types.ExDecimal   `json:"depositFee"`
	SuccessAt  types.ExTimestamp `json:"successAt"`
}

// bybitWithdrawal status 为字符串，如 success、CancelByUser
type bybitWithdrawal struct {
	WithdrawID  string            `json:"withdrawId"`
	TxID        string            `json:"txID"`
	Coin        string            `json:"coin"`
	Chain       string            `json:"chain"`
	Amount      types.ExDecimal   `json:"amount"`
	WithdrawFee types.ExDecimal   `json:"withdrawFee"`
	Status      string            `json:"status"`
	ToAddress   string            `json:"toAddress"`
	Tag         string            `json:"tag"`
	CreateTime  types.ExTimestamp `json:"createTime"`
	UpdateTime  types.ExTimestamp `json:"updateTime"`
}
