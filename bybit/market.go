package bybit

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

var (
	spotMaker   = types.ParseExDecimal("0.001")
	spotTaker   = types.ParseExDecimal("0.001")
	linearMaker = types.ParseExDecimal("0.0002")
	linearTaker = types.ParseExDecimal("0.00055")
	hundred     = types.NewExDecimalFromInt(100)
)

// instrumentsPageLimit instruments-info 单页最大条数
const instrumentsPageLimit = 1000

// FetchMarkets 获取现货与 USDT 永续市场 /v5/market/instruments-info
// 按 nextPageCursor 翻页，只保留 LinearPerpetual 合约
func (b *Bybit) FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error) {
	args := option.ApplyArgsOptions(opts...)
	markets := make(model.Markets, 0)
	for _, cat := range []string{"spot", "linear"} {
		cursor := ""
		for {
			params := map[string]interface{}{"category": cat, "limit": instrumentsPageLimit}
			if cursor != "" {
				params["cursor"] = cursor
			}
			var page bybitList
			if err := b.public(ctx, "v5/market/instruments-info", common.Extend(params, args.Params), &page); err != nil {
				return nil, err
			}
			for _, row := range page.List {
				var inst bybitInstrument
				if err := b.Decode(row, &inst); err != nil {
					return nil, err
				}
				if cat == "linear" && inst.ContractType != "LinearPerpetual" {
					log.WithField("symbol", inst.Symbol).Debug("skip non-perpetual contract")
					continue
				}
				markets = append(markets, b.parseMarket(cat, &inst, row))
			}
			if page.NextPageCursor == "" || page.NextPageCursor == cursor || len(page.List) == 0 {
				break
			}
			cursor = page.NextPageCursor
		}
	}
	return markets, nil
}

func (b *Bybit) parseMarket(cat string, inst *bybitInstrument, info json.RawMessage) *model.Market {
	baseCode := b.SafeCurrencyCode(inst.BaseCoin)
	quoteCode := b.SafeCurrencyCode(inst.QuoteCoin)
	lot := inst.LotSizeFilter

	market := &model.Market{
		ID:      inst.Symbol,
		Base:    baseCode,
		Quote:   quoteCode,
		BaseID:  inst.BaseCoin,
		QuoteID: inst.QuoteCoin,
		Type:    marketType(cat),
		Active:  inst.Status == "Trading",
		Precision: model.Precision{
			Price: inst.PriceFilter.TickSize,
		},
		Limits: model.Limits{
			Amount: model.MinMax{Min: lot.MinOrderQty, Max: lot.MaxOrderQty},
			Price:  model.MinMax{Min: inst.PriceFilter.MinPrice, Max: inst.PriceFilter.MaxPrice},
		},
		Info: types.Info(info),
	}
	if cat == "linear" {
		settle := b.SafeCurrencyCode(inst.SettleCoin)
		market.Symbol = common.Symbol(baseCode, quoteCode, settle)
		market.Settle = settle
		market.SettleID = inst.SettleCoin
		market.Swap = true
		market.Contract = true
		market.Linear = true
		market.ContractSize = types.NewExDecimalFromInt(1)
		market.Maker = linearMaker
		market.Taker = linearTaker
		market.Precision.Amount = lot.QtyStep
		market.Limits.Cost = model.MinMax{Min: lot.MinNotionalValue}
		market.Limits.Leverage = model.MinMax{
			Min: inst.LeverageFilter.MinLeverage.Or(types.NewExDecimalFromInt(1)),
			Max: inst.LeverageFilter.MaxLeverage,
		}
	} else {
		market.Symbol = common.Symbol(baseCode, quoteCode, "")
		market.Spot = true
		market.Maker = spotMaker
		market.Taker = spotTaker
		market.Precision.Amount = lot.BasePrecision
		market.Limits.Cost = model.MinMax{Min: lot.MinOrderAmt, Max: lot.MaxOrderAmt}
	}
	return market
}

// FetchCurrencies /v5/asset/coin/query-info 需要凭证，未配置时返回空
func (b *Bybit) FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error) {
	if b.APIKey() == "" || b.Secret() == "" {
		return nil, nil
	}
	args := option.ApplyArgsOptions(opts...)

	var result bybitRows
	if err := b.private(ctx, http.MethodGet, "v5/asset/coin/query-info", args.Params, &result); err != nil {
		return nil, err
	}
	currencies := make(model.Currencies, len(result.Rows))
	for _, row := range result.Rows {
		var c bybitCoin
		if err := b.Decode(row, &c); err != nil {
			return nil, err
		}
		code := b.SafeCurrencyCode(c.Coin)
		cur := &model.Currency{
			ID:       c.Coin,
			Code:     code,
			Name:     c.Name,
			Deposit:  model.BoolPtr(false),
			Withdraw: model.BoolPtr(false),
			Networks: make(map[string]*model.CurrencyNetwork, len(c.Chains)),
			Info:     types.Info(row),
		}
		for i, ch := range c.Chains {
			deposit := ch.ChainDeposit == "1"
			withdraw := ch.ChainWithdraw == "1"
			network := strings.ToUpper(ch.Chain)
			cur.Networks[network] = &model.CurrencyNetwork{
				ID:       ch.Chain,
				Network:  network,
				Active:   deposit && withdraw,
				Deposit:  model.BoolPtr(deposit),
				Withdraw: model.BoolPtr(withdraw),
				Fee:      ch.WithdrawFee,
				Limits: model.CurrencyLimits{
					Deposit:  model.MinMax{Min: ch.DepositMin},
					Withdraw: model.MinMax{Min: ch.WithdrawMin},
				},
			}
			if deposit {
				*cur.Deposit = true
			}
			if withdraw {
				*cur.Withdraw = true
			}
			if i == 0 {
				cur.Fee = ch.WithdrawFee
				cur.Limits.Withdraw = model.MinMax{Min: ch.WithdrawMin}
				if ch.MinAccuracy.Valid {
					cur.Precision = common.TickFromDecimals(int(ch.MinAccuracy.Decimal.IntPart()))
				}
			}
		}
		cur.Active = *cur.Deposit || *cur.Withdraw
		currencies[code] = cur
	}
	return currencies, nil
}

// FetchTicker 获取行情
func (b *Bybit) FetchTicker(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.Ticker, error) {
	market, err := b.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var result bybitList
	params := common.Extend(map[string]interface{}{"category": category(market.Type), "symbol": market.ID}, args.Params)
	ts, err := b.call(ctx, &base.Request{API: "public", Method: http.MethodGet, Path: "v5/market/tickers", Params: params}, &result)
	if err != nil {
		return nil, err
	}
	if len(result.List) == 0 {
		return nil, b.emptyResponse("fetchTicker")
	}
	return b.parseTicker(result.List[0], market, ts)
}

// FetchTickers 按 MarketType 批量获取行情，默认现货
func (b *Bybit) FetchTickers(ctx context.Context, opts ...option.ArgsOption) (model.Tickers, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var market *model.Market
	if len(args.Symbols) > 0 {
		m, err := b.Market(args.Symbols[0])
		if err != nil {
			return nil, err
		}
		market = m
	}
	cat := categoryOf(args, market)
	var result bybitList
	params := common.Extend(map[string]interface{}{"category": cat}, args.Params)
	ts, err := b.call(ctx, &base.Request{API: "public", Method: http.MethodGet, Path: "v5/market/tickers", Params: params}, &result)
	if err != nil {
		return nil, err
	}

	tickers := make(model.Tickers, len(result.List))
	for _, row := range result.List {
		var id struct {
			Symbol string `json:"symbol"`
		}
		if err := b.Decode(row, &id); err != nil {
			return nil, err
		}
		// 现货与合约的 ID 相同（BTCUSDT），按 category 区分
		m := b.SafeMarket(id.Symbol, marketType(cat))
		if m == nil || m.Type != marketType(cat) {
			continue
		}
		t, err := b.parseTicker(row, m, ts)
		if err != nil {
			return nil, err
		}
		tickers[m.Symbol] = t
	}
	return base.FilterTickers(tickers, args.Symbols), nil
}

// parseTicker price24hPcnt 为比例，换算为百分比
func (b *Bybit) parseTicker(row json.RawMessage, market *model.Market, ts types.ExTimestamp) (*model.Ticker, error) {
	var t bybitTicker
	if err := b.Decode(row, &t); err != nil {
		return nil, err
	}
	return model.SafeTicker(&model.Ticker{
		Symbol:      market.Symbol,
		Timestamp:   ts,
		High:        t.HighPrice24h,
		Low:         t.LowPrice24h,
		Bid:         t.Bid1Price,
		BidVolume:   t.Bid1Size,
		Ask:         t.Ask1Price,
		AskVolume:   t.Ask1Size,
		Open:        t.PrevPrice24h,
		Last:        t.LastPrice,
		Percentage:  types.ExMul(t.Price24hPcnt, hundred),
		BaseVolume:  t.Volume24h,
		QuoteVolume: t.Turnover24h,
		Info:        types.Info(row),
	}), nil
}

// FetchOrderBook 获取订单簿 /v5/market/orderbook，u 为更新序号
func (b *Bybit) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	market, err := b.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"category": category(market.Type), "symbol": market.ID}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	var raw json.RawMessage
	if err := b.public(ctx, "v5/market/orderbook", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	var book bybitOrderBook
	if err := b.Decode(raw, &book); err != nil {
		return nil, err
	}
	ob := model.NewOrderBook(market.Symbol, model.ParseBidAsk(book.Bids, 0, 1), model.ParseBidAsk(book.Asks, 0, 1))
	ob.Timestamp = book.Ts
	if book.U != 0 {
		nonce := book.U
		ob.Nonce = &nonce
	}
	ob.Info = types.Info(raw)
	return ob, nil
}

// FetchTrades 获取公共成交 /v5/market/recent-trade
func (b *Bybit) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	market, err := b.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"category": category(market.Type), "symbol": market.ID}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	var result bybitList
	if err := b.public(ctx, "v5/market/recent-trade", common.Extend(params, args.Params), &result); err != nil {
		return nil, err
	}
	trades := make([]*model.Trade, 0, len(result.List))
	for _, row := range result.List {
		var t bybitTrade
		if err := b.Decode(row, &t); err != nil {
			return nil, err
		}
		trades = append(trades, model.SafeTrade(&model.Trade{
			ID:        t.ExecID,
			Timestamp: t.Time,
			Symbol:    market.Symbol,
			Side:      model.ParseOrderSide(t.Side),
			Price:     t.Price,
			Amount:    t.Size,
			Info:      types.Info(row),
		}))
	}
	return base.FilterTrades(trades, "", args), nil
}

// FetchOHLCV 获取K线 /v5/market/kline，返回按时间倒序
func (b *Bybit) FetchOHLCV(ctx context.Context, symbol string, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	market, err := b.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	interval, err := b.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{
		"category": category(market.Type),
		"symbol":   market.ID,
		"interval": interval,
	}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	if args.Since != nil {
		params["start"] = args.Since.UnixMilli()
	}
	if args.Until != nil {
		params["end"] = args.Until.UnixMilli()
	}

	var result struct {
		List [][]json.RawMessage `json:"list"`
	}
	if err := b.public(ctx, "v5/market/kline", common.Extend(params, args.Params), &result); err != nil {
		return nil, err
	}
	candles := make(model.OHLCVs, 0, len(result.List))
	for _, row := range result.List {
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

// FetchTradingFees /v5/account/fee-rate 按交易对返回费率
func (b *Bybit) FetchTradingFees(ctx context.Context, opts ...option.ArgsOption) (model.TradingFees, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	cat := categoryOf(args, nil)
	var result bybitList
	params := common.Extend(map[string]interface{}{"category": cat}, args.Params)
	if err := b.private(ctx, http.MethodGet, "v5/account/fee-rate", params, &result); err != nil {
		return nil, err
	}
	fees := make(model.TradingFees, len(result.List))
	for _, row := range result.List {
		var f bybitFeeRate
		if err := b.Decode(row, &f); err != nil {
			return nil, err
		}
		m := b.SafeMarket(f.Symbol, marketType(cat))
		if m == nil || m.Type != marketType(cat) {
			continue
		}
		fees[m.Symbol] = &model.TradingFee{Symbol: m.Symbol, Maker: f.MakerFeeRate, Taker: f.TakerFeeRate, Info: types.Info(row)}
	}
	return fees, nil
}
