package okx

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

var (
	defaultMaker = types.ParseExDecimal("0.0008")
	defaultTaker = types.ParseExDecimal("0.001")
	swapMaker    = types.ParseExDecimal("0.0002")
	swapTaker    = types.ParseExDecimal("0.0005")
)

// FetchMarkets 获取现货与永续合约市场 /api/v5/public/instruments
func (o *OKX) FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error) {
	args := option.ApplyArgsOptions(opts...)
	markets := make(model.Markets, 0)
	for _, t := range []string{"SPOT", "SWAP"} {
		var rows []json.RawMessage
		params := common.Extend(map[string]interface{}{"instType": t}, args.Params)
		if err := o.public(ctx, "public/instruments", params, &rows); err != nil {
			return nil, err
		}
		for _, row := range rows {
			var inst okxInstrument
			if err := o.Decode(row, &inst); err != nil {
				return nil, err
			}
			m := o.parseMarket(&inst, row)
			if m == nil {
				log.WithField("instId", inst.InstID).Warn("skip instrument without underlying")
				continue
			}
			markets = append(markets, m)
		}
	}
	return markets, nil
}

// parseMarket 合约以 uly（如 BTC-USDT）拆分 base/quote，数量单位为张
func (o *OKX) parseMarket(inst *okxInstrument, info json.RawMessage) *model.Market {
	baseID, quoteID := inst.BaseCcy, inst.QuoteCcy
	if inst.InstType == "SWAP" {
		parts := strings.Split(inst.Uly, "-")
		if len(parts) != 2 {
			return nil
		}
		baseID, quoteID = parts[0], parts[1]
	}
	baseCode := o.SafeCurrencyCode(baseID)
	quoteCode := o.SafeCurrencyCode(quoteID)

	market := &model.Market{
		ID:      inst.InstID,
		Base:    baseCode,
		Quote:   quoteCode,
		BaseID:  baseID,
		QuoteID: quoteID,
		Active:  inst.State == "live",
		Precision: model.Precision{
			Amount: inst.LotSz,
			Price:  inst.TickSz,
		},
		Limits: model.Limits{
			Amount:   model.MinMax{Min: inst.MinSz, Max: inst.MaxLmtSz},
			Leverage: model.MinMax{Min: types.NewExDecimalFromInt(1), Max: inst.Lever},
		},
		Info: types.Info(info),
	}
	if inst.InstType == "SWAP" {
		settle := o.SafeCurrencyCode(inst.SettleCcy)
		market.Symbol = common.Symbol(baseCode, quoteCode, settle)
		market.Settle = settle
		market.SettleID = inst.SettleCcy
		market.Type = model.MarketTypeSwap
		market.Swap = true
		market.Contract = true
		market.Linear = inst.CtType == "linear"
		market.Inverse = inst.CtType == "inverse"
		market.ContractSize = inst.CtVal
		market.Maker = swapMaker
		market.Taker = swapTaker
	} else {
		market.Symbol = common.Symbol(baseCode, quoteCode, "")
		market.Type = model.MarketTypeSpot
		market.Spot = true
		market.Maker = defaultMaker
		market.Taker = defaultTaker
		market.Limits.Leverage = model.MinMax{}
	}
	return market
}

// FetchCurrencies /api/v5/asset/currencies 需要凭证，未配置时返回空
// 每行为一个币种在一条链上的信息，chain 形如 USDT-TRC20
func (o *OKX) FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error) {
	if o.APIKey() == "" || o.Secret() == "" || o.Password() == "" {
		return nil, nil
	}
	args := option.ApplyArgsOptions(opts...)
	var rows []json.RawMessage
	if err := o.private(ctx, "GET", "asset/currencies", args.Params, &rows); err != nil {
		return nil, err
	}

	currencies := make(model.Currencies)
	for _, row := range rows {
		var c okxCurrency
		if err := o.Decode(row, &c); err != nil {
			return nil, err
		}
		code := o.SafeCurrencyCode(c.Ccy)
		cur, ok := currencies[code]
		if !ok {
			cur = &model.Currency{
				ID:       c.Ccy,
				Code:     code,
				Name:     c.Name,
				Deposit:  model.BoolPtr(false),
				Withdraw: model.BoolPtr(false),
				Networks: make(map[string]*model.CurrencyNetwork),
				Info:     types.Info("[]"),
			}
			currencies[code] = cur
		}
		network := networkCode(c.Ccy, c.Chain)
		cur.Networks[network] = &model.CurrencyNetwork{
			ID:       c.Chain,
			Network:  network,
			Active:   c.CanDep && c.CanWd,
			Deposit:  model.BoolPtr(c.CanDep),
			Withdraw: model.BoolPtr(c.CanWd),
			Fee:      c.MinFee,
			Limits: model.CurrencyLimits{
				Deposit:  model.MinMax{Min: c.MinDep},
				Withdraw: model.MinMax{Min: c.MinWd, Max: c.MaxWd},
			},
		}
		if c.CanDep {
			*cur.Deposit = true
		}
		if c.CanWd {
			*cur.Withdraw = true
		}
		cur.Active = *cur.Deposit || *cur.Withdraw
		if c.MainNet || cur.Fee.IsNull() {
			cur.Fee = c.MinFee
			if c.WdTickSz.Valid {
				cur.Precision = common.TickFromDecimals(int(c.WdTickSz.Decimal.IntPart()))
			}
		}
		cur.Info = appendInfo(cur.Info, row)
	}
	return currencies, nil
}

// networkCode USDT-TRC20 -> TRC20
func networkCode(ccy, chain string) string {
	if strings.HasPrefix(chain, ccy+"-") {
		return chain[len(ccy)+1:]
	}
	return chain
}

func appendInfo(info types.Info, row json.RawMessage) types.Info {
	var list []json.RawMessage
	_ = json.Unmarshal(info, &list)
	return types.NewInfo(append(list, row))
}

// FetchTicker 获取行情
func (o *OKX) FetchTicker(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.Ticker, error) {
	market, err := o.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var rows []json.RawMessage
	params := common.Extend(map[string]interface{}{"instId": market.ID}, args.Params)
	if err := o.public(ctx, "market/ticker", params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, o.emptyResponse("fetchTicker")
	}
	return o.parseTicker(rows[0], market)
}

// FetchTickers 按 MarketType 批量获取行情，默认现货
func (o *OKX) FetchTickers(ctx context.Context, opts ...option.ArgsOption) (model.Tickers, error) {
	if _, err := o.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var market *model.Market
	if len(args.Symbols) > 0 {
		m, err := o.Market(args.Symbols[0])
		if err != nil {
			return nil, err
		}
		market = m
	}
	var rows []json.RawMessage
	params := common.Extend(map[string]interface{}{"instType": instTypeOf(args, market)}, args.Params)
	if err := o.public(ctx, "market/tickers", params, &rows); err != nil {
		return nil, err
	}

	tickers := make(model.Tickers, len(rows))
	for _, row := range rows {
		var id struct {
			InstID string `json:"instId"`
		}
		if err := o.Decode(row, &id); err != nil {
			return nil, err
		}
		m := o.SafeMarket(id.InstID, "")
		if m == nil {
			continue
		}
		t, err := o.parseTicker(row, m)
		if err != nil {
			return nil, err
		}
		tickers[m.Symbol] = t
	}
	return base.FilterTickers(tickers, args.Symbols), nil
}

// parseTicker 合约 vol24h 单位为张，volCcy24h 为基础币数量
func (o *OKX) parseTicker(row json.RawMessage, market *model.Market) (*model.Ticker, error) {
	var t okxTicker
	if err := o.Decode(row, &t); err != nil {
		return nil, err
	}
	ticker := &model.Ticker{
		Symbol:    market.Symbol,
		Timestamp: t.Ts,
		High:      t.High24h,
		Low:       t.Low24h,
		Bid:       t.BidPx,
		BidVolume: t.BidSz,
		Ask:       t.AskPx,
		AskVolume: t.AskSz,
		Open:      t.Open24h,
		Last:      t.Last,
		Info:      types.Info(row),
	}
	if market.Contract {
		ticker.BaseVolume = t.VolCcy24h
	} else {
		ticker.BaseVolume = t.Vol24h
		ticker.QuoteVolume = t.VolCcy24h
	}
	return model.SafeTicker(ticker), nil
}

// FetchOrderBook 获取订单簿，条目为 [price, size, 0, orders]
func (o *OKX) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	market, err := o.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"instId": market.ID}
	if args.Limit != nil {
		params["sz"] = *args.Limit
	}
	var rows []json.RawMessage
	if err := o.public(ctx, "market/books", common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, o.emptyResponse("fetchOrderBook")
	}
	var book okxOrderBook
	if err := o.Decode(rows[0], &book); err != nil {
		return nil, err
	}
	ob := model.NewOrderBook(market.Symbol, model.ParseBidAsk(book.Bids, 0, 1), model.ParseBidAsk(book.Asks, 0, 1))
	ob.Timestamp = book.Ts
	if book.SeqID != 0 {
		nonce := book.SeqID
		ob.Nonce = &nonce
	}
	ob.Info = types.Info(rows[0])
	return ob, nil
}

// FetchTrades 获取公共成交
func (o *OKX) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	market, err := o.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"instId": market.ID}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	var rows []json.RawMessage
	if err := o.public(ctx, "market/trades", common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	trades := make([]*model.Trade, 0, len(rows))
	for _, row := range rows {
		var t okxTrade
		if err := o.Decode(row, &t); err != nil {
			return nil, err
		}
		trades = append(trades, model.SafeTrade(&model.Trade{
			ID:        t.TradeID,
			Timestamp: t.Ts,
			Symbol:    market.Symbol,
			Side:      model.ParseOrderSide(t.Side),
			Price:     t.Px,
			Amount:    t.Sz,
			Cost:      contractCost(market, t.Px, t.Sz),
			Info:      types.Info(row),
		}))
	}
	return base.FilterTrades(trades, "", args), nil
}

// contractCost 合约成交额 = 价格 × 张数 × 面值，现货返回空由 SafeTrade 推导
func contractCost(market *model.Market, price, amount types.ExDecimal) types.ExDecimal {
	if !market.Contract || market.ContractSize.IsNull() {
		return types.ExDecimal{}
	}
	return types.ExMul(types.ExMul(price, amount), market.ContractSize)
}

// FetchOHLCV 获取K线，since 通过 before/after 转换为时间窗口
func (o *OKX) FetchOHLCV(ctx context.Context, symbol string, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	market, err := o.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	bar, err := o.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	limit := 100
	if args.Limit != nil && *args.Limit > 0 {
		limit = *args.Limit
	}
	params := map[string]interface{}{"instId": market.ID, "bar": bar, "limit": limit}
	if args.Since != nil {
		since := args.Since.UnixMilli()
		duration := model.Timeframe(timeframe).Duration().Milliseconds()
		params["before"] = since - 1
		params["after"] = since + duration*int64(limit)
	}
	if args.Until != nil {
		params["after"] = args.Until.UnixMilli()
	}

	var rows [][]json.RawMessage
	if err := o.public(ctx, "market/candles", common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	candles := make(model.OHLCVs, 0, len(rows))
	for _, row := range rows {
		candles = append(candles, &model.OHLCV{
			Timestamp: common.TimestampAt(row, 0),
			Open:      common.DecimalAt(row, 1),
			High:      common.DecimalAt(row, 2),
			Low:       common.DecimalAt(row, 3),
			Close:     common.DecimalAt(row, 4),
			Volume:    common.DecimalAt(row, 5),
		})
	}
	return base.FilterOHLCVs(candles, args), nil
}

// FetchTradingFees 账户费率档位对全部同类市场生效，OKX 以负数表示收取的费用
func (o *OKX) FetchTradingFees(ctx context.Context, opts ...option.ArgsOption) (model.TradingFees, error) {
	markets, err := o.LoadMarkets(ctx, false)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	kind := instTypeOf(args, nil)
	var rows []json.RawMessage
	params := common.Extend(map[string]interface{}{"instType": kind}, args.Params)
	if err := o.private(ctx, "GET", "account/trade-fee", params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, o.emptyResponse("fetchTradingFees")
	}
	var f okxTradeFee
	if err := o.Decode(rows[0], &f); err != nil {
		return nil, err
	}
	maker := negate(f.Maker)
	taker := negate(f.Taker)

	fees := make(model.TradingFees)
	for _, m := range markets {
		if instType(m.Type) != kind {
			continue
		}
		fees[m.Symbol] = &model.TradingFee{Symbol: m.Symbol, Maker: maker, Taker: taker, Info: types.Info(rows[0])}
	}
	return fees, nil
}

func negate(d types.ExDecimal) types.ExDecimal {
	if d.IsNull() {
		return d
	}
	return types.NewExDecimal(d.Decimal.Neg())
}
