package gate

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

var hundred = types.NewExDecimalFromInt(100)

// FetchMarkets 现货 spot/currency_pairs 与 USDT 永续 futures/usdt/contracts
func (g *Gate) FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error) {
	args := option.ApplyArgsOptions(opts...)

	var pairs []json.RawMessage
	if err := g.public(ctx, "spot/currency_pairs", args.Params, &pairs); err != nil {
		return nil, err
	}
	var contracts []json.RawMessage
	if err := g.public(ctx, "futures/"+settle+"/contracts", args.Params, &contracts); err != nil {
		return nil, err
	}

	markets := make(model.Markets, 0, len(pairs)+len(contracts))
	for _, row := range pairs {
		var p gateCurrencyPair
		if err := g.Decode(row, &p); err != nil {
			return nil, err
		}
		markets = append(markets, g.parseSpotMarket(&p, row))
	}
	for _, row := range contracts {
		var c gateContract
		if err := g.Decode(row, &c); err != nil {
			return nil, err
		}
		m := g.parseSwapMarket(&c, row)
		if m == nil {
			log.WithField("contract", c.Name).Debug("skip malformed contract name")
			continue
		}
		markets = append(markets, m)
	}
	return markets, nil
}

// parseSpotMarket 精度字段为小数位数
func (g *Gate) parseSpotMarket(p *gateCurrencyPair, info json.RawMessage) *model.Market {
	baseCode := g.SafeCurrencyCode(p.Base)
	quoteCode := g.SafeCurrencyCode(p.Quote)
	fee := types.ExDiv(p.Fee, hundred)
	return &model.Market{
		ID:      p.ID,
		Symbol:  common.Symbol(baseCode, quoteCode, ""),
		Base:    baseCode,
		Quote:   quoteCode,
		BaseID:  p.Base,
		QuoteID: p.Quote,
		Type:    model.MarketTypeSpot,
		Spot:    true,
		Active:  p.TradeStatus == "tradable",
		Maker:   fee,
		Taker:   fee,
		Precision: model.Precision{
			Amount: common.TickFromDecimals(p.AmountPrecision),
			Price:  common.TickFromDecimals(p.Precision),
		},
		Limits: model.Limits{
			Amount: model.MinMax{Min: p.MinBaseAmount},
			Cost:   model.MinMax{Min: p.MinQuoteAmount, Max: p.MaxQuoteAmount},
		},
		Info: types.Info(info),
	}
}

// parseSwapMarket 合约名形如 BTC_USDT，数量以张为单位
func (g *Gate) parseSwapMarket(c *gateContract, info json.RawMessage) *model.Market {
	parts := strings.Split(c.Name, "_")
	if len(parts) != 2 {
		return nil
	}
	baseCode := g.SafeCurrencyCode(parts[0])
	quoteCode := g.SafeCurrencyCode(parts[1])
	return &model.Market{
		ID:           c.Name,
		Symbol:       common.Symbol(baseCode, quoteCode, quoteCode),
		Base:         baseCode,
		Quote:        quoteCode,
		Settle:       quoteCode,
		BaseID:       parts[0],
		QuoteID:      parts[1],
		SettleID:     settle,
		Type:         model.MarketTypeSwap,
		Swap:         true,
		Contract:     true,
		Linear:       true,
		Active:       !c.InDelisting,
		ContractSize: c.QuantoMultiplier,
		Maker:        c.MakerFeeRate,
		Taker:        c.TakerFeeRate,
		Precision: model.Precision{
			Amount: types.NewExDecimalFromInt(1),
			Price:  c.OrderPriceRound,
		},
		Limits: model.Limits{
			Amount:   model.MinMax{Min: c.OrderSizeMin, Max: c.OrderSizeMax},
			Leverage: model.MinMax{Min: c.LeverageMin, Max: c.LeverageMax},
		},
		Info: types.Info(info),
	}
}

// FetchCurrencies spot/currencies 为公共接口，链信息取自 chains
func (g *Gate) FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error) {
	args := option.ApplyArgsOptions(opts...)

	var rows []json.RawMessage
	if err := g.public(ctx, "spot/currencies", args.Params, &rows); err != nil {
		return nil, err
	}
	currencies := make(model.Currencies, len(rows))
	for _, row := range rows {
		var c gateCurrency
		if err := g.Decode(row, &c); err != nil {
			return nil, err
		}
		code := g.SafeCurrencyCode(c.Currency)
		deposit := !c.DepositDisabled && !c.Delisted
		withdraw := !c.WithdrawDisabled && !c.Delisted
		cur := &model.Currency{
			ID:       c.Currency,
			Code:     code,
			Name:     c.Name,
			Active:   deposit || withdraw,
			Deposit:  model.BoolPtr(deposit),
			Withdraw: model.BoolPtr(withdraw),
			Networks: make(map[string]*model.CurrencyNetwork, len(c.Chains)),
			Info:     types.Info(row),
		}
		for _, ch := range c.Chains {
			chDeposit := !ch.DepositDisabled
			chWithdraw := !ch.WithdrawDisabled
			network := strings.ToUpper(ch.Name)
			cur.Networks[network] = &model.CurrencyNetwork{
				ID:       ch.Name,
				Network:  network,
				Active:   chDeposit && chWithdraw,
				Deposit:  model.BoolPtr(chDeposit),
				Withdraw: model.BoolPtr(chWithdraw),
			}
		}
		currencies[code] = cur
	}
	return currencies, nil
}

// FetchTicker 现货 spot/tickers，合约 futures/usdt/tickers
func (g *Gate) FetchTicker(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.Ticker, error) {
	market, err := g.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var rows []json.RawMessage
	if market.Contract {
		params := common.Extend(map[string]interface{}{"contract": market.ID}, args.Params)
		err = g.public(ctx, "futures/"+settle+"/tickers", params, &rows)
	} else {
		params := common.Extend(map[string]interface{}{"currency_pair": market.ID}, args.Params)
		err = g.public(ctx, "spot/tickers", params, &rows)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, g.emptyResponse("fetchTicker")
	}
	return g.parseTicker(rows[0], market)
}

// FetchTickers 按 MarketType 批量获取行情，默认现货
func (g *Gate) FetchTickers(ctx context.Context, opts ...option.ArgsOption) (model.Tickers, error) {
	if _, err := g.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var market *model.Market
	if len(args.Symbols) > 0 {
		m, err := g.Market(args.Symbols[0])
		if err != nil {
			return nil, err
		}
		market = m
	}
	swap := isSwap(args, market)
	path, idKey, kind := "spot/tickers", "currency_pair", model.MarketTypeSpot
	if swap {
		path, idKey, kind = "futures/"+settle+"/tickers", "contract", model.MarketTypeSwap
	}
	var rows []json.RawMessage
	if err := g.public(ctx, path, args.Params, &rows); err != nil {
		return nil, err
	}

	tickers := make(model.Tickers, len(rows))
	for _, row := range rows {
		v, ok := common.PeekJSON(row)
		if !ok {
			continue
		}
		// 现货与合约 ID 相同（BTC_USDT），按类型区分
		m := g.SafeMarket(common.JSONString(v, idKey), kind)
		if m == nil || m.Type != kind {
			continue
		}
		t, err := g.parseTicker(row, m)
		if err != nil {
			return nil, err
		}
		tickers[m.Symbol] = t
	}
	return base.FilterTickers(tickers, args.Symbols), nil
}

// parseTicker change_percentage 已是百分比，接口不返回时间戳
func (g *Gate) parseTicker(row json.RawMessage, market *model.Market) (*model.Ticker, error) {
	if market.Contract {
		var t gateFuturesTicker
		if err := g.Decode(row, &t); err != nil {
			return nil, err
		}
		return model.SafeTicker(&model.Ticker{
			Symbol:      market.Symbol,
			High:        t.High24h,
			Low:         t.Low24h,
			Bid:         t.HighestBid,
			Ask:         t.LowestAsk,
			Last:        t.Last,
			Percentage:  t.ChangePercentage,
			BaseVolume:  t.Volume24hBase,
			QuoteVolume: t.Volume24hQuote,
			Info:        types.Info(row),
		}), nil
	}
	var t gateSpotTicker
	if err := g.Decode(row, &t); err != nil {
		return nil, err
	}
	return model.SafeTicker(&model.Ticker{
		Symbol:      market.Symbol,
		High:        t.High24h,
		Low:         t.Low24h,
		Bid:         t.HighestBid,
		Ask:         t.LowestAsk,
		Last:        t.Last,
		Percentage:  t.ChangePercentage,
		BaseVolume:  t.BaseVolume,
		QuoteVolume: t.QuoteVolume,
		Info:        types.Info(row),
	}), nil
}

// FetchOrderBook with_id=true 时返回更新序号 id
func (g *Gate) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	market, err := g.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"with_id": true}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	var raw json.RawMessage
	if market.Contract {
		params["contract"] = market.ID
		err = g.public(ctx, "futures/"+settle+"/order_book", common.Extend(params, args.Params), &raw)
	} else {
		params["currency_pair"] = market.ID
		err = g.public(ctx, "spot/order_book", common.Extend(params, args.Params), &raw)
	}
	if err != nil {
		return nil, err
	}

	var ob *model.OrderBook
	var id int64
	if market.Contract {
		var book gateFuturesOrderBook
		if err := g.Decode(raw, &book); err != nil {
			return nil, err
		}
		ob = model.NewOrderBook(market.Symbol, model.ParseBidAsk(levels(book.Bids), 0, 1), model.ParseBidAsk(levels(book.Asks), 0, 1))
		ob.Timestamp = book.Current
		id = book.ID
	} else {
		var book gateSpotOrderBook
		if err := g.Decode(raw, &book); err != nil {
			return nil, err
		}
		ob = model.NewOrderBook(market.Symbol, model.ParseBidAsk(book.Bids, 0, 1), model.ParseBidAsk(book.Asks, 0, 1))
		ob.Timestamp = book.Current
		id = book.ID
	}
	if id != 0 {
		ob.Nonce = &id
	}
	ob.Info = types.Info(raw)
	return ob, nil
}

func levels(rows []gateBookLevel) [][]types.ExDecimal {
	out := make([][]types.ExDecimal, 0, len(rows))
	for _, l := range rows {
		out = append(out, []types.ExDecimal{l.P, l.S})
	}
	return out
}

// FetchTrades 公共成交，合约 size 为负表示卖出
func (g *Gate) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	market, err := g.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	var rows []json.RawMessage
	if market.Contract {
		params["contract"] = market.ID
		err = g.public(ctx, "futures/"+settle+"/trades", common.Extend(params, args.Params), &rows)
	} else {
		params["currency_pair"] = market.ID
		err = g.public(ctx, "spot/trades", common.Extend(params, args.Params), &rows)
	}
	if err != nil {
		return nil, err
	}

	trades := make([]*model.Trade, 0, len(rows))
	for _, row := range rows {
		var t *model.Trade
		if market.Contract {
			t, err = g.parseFuturesTrade(row, market)
		} else {
			t, err = g.parseSpotTrade(row, market)
		}
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return base.FilterTrades(trades, "", args), nil
}

// FetchOHLCV 现货行为 [t, 计价币成交额, close, high, low, open, 基础币成交量]
// 合约为 {t, v, c, h, l, o}，v 以张计
//   - 指定 since 时按 from/to 查询，Gate 不允许与 limit 同时使用
func (g *Gate) FetchOHLCV(ctx context.Context, symbol string, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	market, err := g.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	interval, err := g.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"interval": interval}
	duration := model.Timeframe(timeframe).Duration()
	switch {
	case args.Since != nil:
		from := args.Since.Unix()
		params["from"] = from
		if args.Until != nil {
			params["to"] = args.Until.Unix()
		} else if args.Limit != nil && duration > 0 {
			params["to"] = from + int64(*args.Limit)*int64(duration/time.Second)
		}
	case args.Until != nil && args.Limit != nil && duration > 0:
		to := args.Until.Unix()
		params["from"] = to - int64(*args.Limit)*int64(duration/time.Second)
		params["to"] = to
	case args.Limit != nil:
		params["limit"] = *args.Limit
	}

	candles := make(model.OHLCVs, 0)
	if market.Contract {
		params["contract"] = market.ID
		var rows []gateFuturesCandle
		if err := g.public(ctx, "futures/"+settle+"/candlesticks", common.Extend(params, args.Params), &rows); err != nil {
			return nil, err
		}
		for _, c := range rows {
			candles = append(candles, &model.OHLCV{Timestamp: c.T, Open: c.O, High: c.H, Low: c.L, Close: c.C, Volume: c.V})
		}
	} else {
		params["currency_pair"] = market.ID
		var rows [][]json.RawMessage
		if err := g.public(ctx, "spot/candlesticks", common.Extend(params, args.Params), &rows); err != nil {
			return nil, err
		}
		for _, row := range rows {
			candles = append(candles, &model.OHLCV{
				Timestamp: common.TimestampAt(row, 0),
				Open:      common.DecimalAt(row, 5),
				High:      common.DecimalAt(row, 3),
				Low:       common.DecimalAt(row, 4),
				Close:     common.DecimalAt(row, 2),
				Volume:    common.DecimalAt(row, 6),
			})
		}
	}
	return base.FilterOHLCVs(candles, args), nil
}

// FetchTradingFees wallet/fee 返回账户级费率，现货与合约分别套用
func (g *Gate) FetchTradingFees(ctx context.Context, opts ...option.ArgsOption) (model.TradingFees, error) {
	markets, err := g.LoadMarkets(ctx, false)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var raw json.RawMessage
	if err := g.private(ctx, http.MethodGet, "wallet/fee", args.Params, &raw); err != nil {
		return nil, err
	}
	var f gateFee
	if err := g.Decode(raw, &f); err != nil {
		return nil, err
	}
	fees := make(model.TradingFees, len(markets))
	for _, m := range markets {
		fee := &model.TradingFee{Symbol: m.Symbol, Maker: f.MakerFee, Taker: f.TakerFee, Info: types.Info(raw)}
		if m.Contract {
			fee.Maker, fee.Taker = f.FuturesMakerFee, f.FuturesTakerFee
		}
		fees[m.Symbol] = fee
	}
	return fees, nil
}
