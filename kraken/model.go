package kraken

import (
	"encoding/json"

	"github.com/lemconn/exkit/types"
)

// krakenResponse 所有接口的外层结构
type krakenResponse struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

// krakenAsset Assets 接口的币种信息
type krakenAsset struct {
	Aclass          string `json:"aclass"`
	Altname         string `json:"altname"`
	Decimals        int    `json:"decimals"`
	DisplayDecimals int    `json:"display_decimals"`
	Status          string `json:"status"`
}

// krakenAssetPair AssetPairs 接口的交易对信息
type krakenAssetPair struct {
	Altname      string              `json:"altname"`
	Wsname       string              `json:"wsname"`
	Base         string              `json:"base"`
	Quote        string              `json:"quote"`
	PairDecimals int                 `json:"pair_decimals"`
	LotDecimals  int                 `json:"lot_decimals"`
	LeverageBuy  []types.ExDecimal   `json:"leverage_buy"`
	Fees         [][]types.ExDecimal `json:"fees"`
	FeesMaker    [][]types.ExDecimal `json:"fees_maker"`
	OrderMin     types.ExDecimal     `json:"ordermin"`
	CostMin      types.ExDecimal     `json:"costmin"`
	Status       string              `json:"status"`
}

// krakenTicker Ticker 接口的行情，数组字段为 [今日, 24小时] 或 [价格, 整手量, 量]
type krakenTicker struct {
	A []types.ExDecimal `json:"a"`
	B []types.ExDecimal `json:"b"`
	C []types.ExDecimal `json:"c"`
	V []types.ExDecimal `json:"v"`
	P []types.ExDecimal `json:"p"`
	L []types.ExDecimal `json:"l"`
	H []types.ExDecimal `json:"h"`
	O types.ExDecimal   `json:"o"`
}

// krakenOrderBook Depth 接口的订单簿，每档为 [价格, 数量, 时间戳]
type krakenOrderBook struct {
	Asks [][]types.ExDecimal `json:"asks"`
	Bids [][]types.ExDecimal `json:"bids"`
}

// krakenOrderDescr 订单描述
type krakenOrderDescr struct {
	Pair      string `json:"pair"`
	Type      string `json:"type"`
	OrderType string `json:"ordertype"`
	Price     string `json:"price"`
	Price2    string `json:"price2"`
	Order     string `json:"order"`
}

// krakenOrder QueryOrders / OpenOrders / ClosedOrders / AddOrder 的订单
type krakenOrder struct {
	ID         string            `json:"-"`
	TxID       json.RawMessage   `json:"txid"`
	UserRef    json.Number       `json:"userref"`
	ClOrdID    string            `json:"cl_ord_id"`
	Status     string            `json:"status"`
	OpenTm     types.ExTimestamp `json:"opentm"`
	CloseTm    types.ExTimestamp `json:"closetm"`
	Descr      *krakenOrderDescr `json:"descr"`
	Vol        types.ExDecimal   `json:"vol"`
	VolExec    types.ExDecimal   `json:"vol_exec"`
	Cost       types.ExDecimal   `json:"cost"`
	Fee        *types.ExDecimal  `json:"fee"`
	Price      types.ExDecimal   `json:"price"`
	LimitPrice types.ExDecimal   `json:"limitprice"`
	Oflags     string            `json:"oflags"`
	Trades     []string          `json:"trades"`
	ReduceOnly *bool             `json:"reduce_only"`
}

// krakenTrade TradesHistory 接口的成交
type krakenTrade struct {
	ID        string            `json:"-"`
	OrderTxID string            `json:"ordertxid"`
	PosTxID   string            `json:"postxid"`
	Pair      string            `json:"pair"`
	Time      types.ExTimestamp `json:"time"`
	Type      string            `json:"type"`
	OrderType string            `json:"ordertype"`
	Price     types.ExDecimal   `json:"price"`
	Cost      types.ExDecimal   `json:"cost"`
	Fee       *types.ExDecimal  `json:"fee"`
	Vol       types.ExDecimal   `json:"vol"`
	Maker     *bool             `json:"maker"`
}

// krakenBalance BalanceEx 接口的单币种余额
type krakenBalance struct {
	Balance   types.ExDecimal `json:"balance"`
	HoldTrade types.ExDecimal `json:"hold_trade"`
}

// krakenTransaction DepositStatus / WithdrawStatus 的记录
type krakenTransaction struct {
	Method     string            `json:"method"`
	Aclass     string            `json:"aclass"`
	Asset      string            `json:"asset"`
	RefID      string            `json:"refid"`
	TxID       string            `json:"txid"`
	Info       string            `json:"info"`
	Amount     types.ExDecimal   `json:"amount"`
	Fee        types.ExDecimal   `json:"fee"`
	Time       types.ExTimestamp `json:"time"`
	Status     string            `json:"status"`
	StatusProp string            `json:"status-prop"`
	Network    string            `json:"network"`
}

// krakenDepositMethod DepositMethods 接口的充值方式
type krakenDepositMethod struct {
	Method     string          `json:"method"`
	Limit      json.RawMessage `json:"limit"`
	Fee        types.ExDecimal `json:"fee"`
	GenAddress bool            `json:"gen-address"`
	Minimum    types.ExDecimal `json:"minimum"`
}

// krakenDepositAddress DepositAddresses 接口的充值地址
type krakenDepositAddress struct {
	Address  string            `json:"address"`
	Tag      string            `json:"tag"`
	Expiretm types.ExTimestamp `json:"expiretm"`
	New      bool              `json:"new"`
}

// krakenTradeVolume TradeVolume 接口的费率信息
type krakenTradeVolume struct {
	Currency  string                   `json:"currency"`
	Volume    types.ExDecimal          `json:"volume"`
	Fees      map[string]krakenFeeTier `json:"fees"`
	FeesMaker map[string]krakenFeeTier `json:"fees_maker"`
}

type krakenFeeTier struct {
	Fee types.ExDecimal `json:"fee"`
}

func at(values []types.ExDecimal, i int) types.ExDecimal {
	if i < 0 || i >= len(values) {
		return types.ExDecimal{}
	}
	return values[i]
}
