package okx

import (
	"encoding/json"

	"github.com/lemconn/exkit/types"
)

// okxResponse 统一响应外层
type okxResponse struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// okxInstrument 现货与合约共用，合约的 baseCcy/quoteCcy 为空，需从 uly 拆分
type okxInstrument struct {
	InstType  string          `json:"instType"`
	InstID    string          `json:"instId"`
	Uly       string          `json:"uly"`
	BaseCcy   string          `json:"baseCcy"`
	QuoteCcy  string          `json:"quoteCcy"`
	SettleCcy string          `json:"settleCcy"`
	CtType    string          `json:"ctType"`
	CtVal     types.ExDecimal `json:"ctVal"`
	CtValCcy  string          `json:"ctValCcy"`
	Lever     types.ExDecimal `json:"lever"`
	State     string          `json:"state"`
	MinSz     types.ExDecimal `json:"minSz"`
	MaxLmtSz  types.ExDecimal `json:"maxLmtSz"`
	LotSz     types.ExDecimal `json:"lotSz"`
	TickSz    types.ExDecimal `json:"tickSz"`
}

type okxCurrency struct {
	Ccy      string          `json:"ccy"`
	Name     string          `json:"name"`
	Chain    string          `json:"chain"`
	CanDep   bool            `json:"canDep"`
	CanWd    bool            `json:"canWd"`
	MinFee   types.ExDecimal `json:"minFee"`
	MaxFee   types.ExDecimal `json:"maxFee"`
	MinDep   types.ExDecimal `json:"minDep"`
	MinWd    types.ExDecimal `json:"minWd"`
	MaxWd    types.ExDecimal `json:"maxWd"`
	WdTickSz types.ExDecimal `json:"wdTickSz"`
	MainNet  bool            `json:"mainNet"`
}

type okxTicker struct {
	InstType  string            `json:"instType"`
	InstID    string            `json:"instId"`
	Last      types.ExDecimal   `json:"last"`
	AskPx     types.ExDecimal   `json:"askPx"`
	AskSz     types.ExDecimal   `json:"askSz"`
	BidPx     types.ExDecimal   `json:"bidPx"`
	BidSz     types.ExDecimal   `json:"bidSz"`
	Open24h   types.ExDecimal   `json:"open24h"`
	High24h   types.ExDecimal   `json:"high24h"`
	Low24h    types.ExDecimal   `json:"low24h"`
	VolCcy24h types.ExDecimal   `json:"volCcy24h"`
	Vol24h    types.ExDecimal   `json:"vol24h"`
	Ts        types.ExTimestamp `json:"ts"`
}

type okxOrderBook struct {
	Asks  [][]types.ExDecimal `json:"asks"`
	Bids  [][]types.ExDecimal `json:"bids"`
	Ts    types.ExTimestamp   `json:"ts"`
	SeqID int64               `json:"seqId"`
}

type okxTrade struct {
	InstID  string            `json:"instId"`
	TradeID string            `json:"tradeId"`
	Px      types.ExDecimal   `json:"px"`
	Sz      types.ExDecimal   `json:"sz"`
	Side    string            `json:"side"`
	Ts      types.ExTimestamp `json:"ts"`
}

// okxFill 我的成交，fee 为负表示扣除
type okxFill struct {
	InstID   string            `json:"instId"`
	TradeID  string            `json:"tradeId"`
	OrdID    string            `json:"ordId"`
	FillPx   types.ExDecimal   `json:"fillPx"`
	FillSz   types.ExDecimal   `json:"fillSz"`
	Side     string            `json:"side"`
	ExecType string            `json:"execType"`
	Fee      types.ExDecimal   `json:"fee"`
	FeeCcy   string            `json:"feeCcy"`
	Ts       types.ExTimestamp `json:"ts"`
}

type okxBalance struct {
	UTime   types.ExTimestamp `json:"uTime"`
	Details []struct {
		Ccy       string          `json:"ccy"`
		Eq        types.ExDecimal `json:"eq"`
		CashBal   types.ExDecimal `json:"cashBal"`
		AvailBal  types.ExDecimal `json:"availBal"`
		FrozenBal types.ExDecimal `json:"frozenBal"`
	} `json:"details"`
}

// okxOrder fee 为负表示扣除；tgtCcy=quote_ccy 的市价买单 sz 为计价币金额
type okxOrder struct {
	InstID     string            `json:"instId"`
	OrdID      string            `json:"ordId"`
	ClOrdID    string            `json:"clOrdId"`
	Px         types.ExDecimal   `json:"px"`
	Sz         types.ExDecimal   `json:"sz"`
	OrdType    string            `json:"ordType"`
	Side       string            `json:"side"`
	State      string            `json:"state"`
	AccFillSz  types.ExDecimal   `json:"accFillSz"`
	AvgPx      types.ExDecimal   `json:"avgPx"`
	Fee        types.ExDecimal   `json:"fee"`
	FeeCcy     string            `json:"feeCcy"`
	TgtCcy     string            `json:"tgtCcy"`
	ReduceOnly string            `json:"reduceOnly"`
	FillTime   types.ExTimestamp `json:"fillTime"`
	CTime      types.ExTimestamp `json:"cTime"`
	UTime      types.ExTimestamp `json:"uTime"`
}

// okxOrderAck 下单与撤单的返回
type okxOrderAck struct {
	OrdID   string            `json:"ordId"`
	ClOrdID string            `json:"clOrdId"`
	SCode   string            `json:"sCode"`
	SMsg    string            `json:"sMsg"`
	Ts      types.ExTimestamp `json:"ts"`
}

type okxTradeFee struct {
	InstType string            `json:"instType"`
	Maker    types.ExDecimal   `json:"maker"`
	Taker    types.ExDecimal   `json:"taker"`
	Ts       types.ExTimestamp `json:"ts"`
}

type okxDepositAddress struct {
	Addr     string `json:"addr"`
	Tag      string `json:"tag"`
	Memo     string `json:"memo"`
	Ccy      string `json:"ccy"`
	Chain    string `json:"chain"`
	Selected bool   `json:"selected"`
}

// okxTransaction 充值记录与提现记录共用，充值 ID 为 depId，提现 ID 为 wdId
type okxTransaction struct {
	Ccy   string            `json:"ccy"`
	Chain string            `json:"chain"`
	Amt   types.ExDecimal   `json:"amt"`
	From  string            `json:"from"`
	To    string            `json:"to"`
	Tag   string            `json:"tag"`
	Memo  string            `json:"memo"`
	TxID  string            `json:"txId"`
	Fee   types.ExDecimal   `json:"fee"`
	State string            `json:"state"`
	DepID string            `json:"depId"`
	WdID  string            `json:"wdId"`
	Ts    types.ExTimestamp `json:"ts"`
}
