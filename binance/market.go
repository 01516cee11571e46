package binance

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

// 默认费率，实际费率通过 FetchTradingFees 获取
var (
	spotFee       = types.ParseExDecimal("0.001")
	swapMakerFee  = types.ParseExDecimal("0.0002")
	swapTakerFee  = types.ParseExDecimal("0.0004")
	defaultLimits = 500
)

// FetchMarkets 获取市场列表，现货来自 /api/v3/exchangeInfo，U 本位永续来自 /fapi/v1/exchangeInfo
func (b *Binance) FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error) {
	args := option.ApplyArgsOptions(opts...)
	markets := make(model.Markets, 0)
	for _, t := range b.marketTypes() {
		switch t {
		case model.MarketTypeSpot:
			var info binanceExchangeInfo
			if err := b.request(ctx, "public", "GET", "api/v3/exchangeInfo", args.Params, &info); err != nil {
				return nil, err
			}
			for _, s := range info.Symbols {
				markets = append(markets, b.parseMarket(&s, false))
			}
		case model.MarketTypeSwap:
			var info binanceExchangeInfo
			if err := b.request(ctx, "fapiPublic", "GET", "fapi/v1/exchangeInfo", args.Params, &info); err != nil {
				return nil, err
			}
			for _, s := range info.Symbols {
				if s.ContractType != "PERPETUAL" {
					continue
				}
				markets = append(markets, b.parseMarket(&s, true))
			}
		}
	}
	return markets, nil
}

// parseMarket 精度取 PRICE_FILTER.tickSize 与 LOT_SIZE.stepSize
// 合约的数量精度以 quantityPrecision 为准
func (b *Binance) parseMarket(s *binanceSymbol, contract bool) *model.Market {
	baseCode := b.SafeCurrencyCode(s.BaseAsset)
	quoteCode := b.SafeCurrencyCode(s.QuoteAsset)
	market := &model.Market{
		ID:      s.Symbol,
		Base:    baseCode,
		Quote:   quoteCode,
		BaseID:  s.BaseAsset,
		QuoteID: s.QuoteAsset,
		Active:  s.Status == "TRADING",
		Info:    types.NewInfo(s),
	}
	if contract {
		settleID := s.MarginAsset
		if settleID == "" {
			settleID = s.QuoteAsset
		}
		settle := b.SafeCurrencyCode(settleID)
		market.Symbol = common.Symbol(baseCode, quoteCode, settle)
		market.Settle = settle
		market.SettleID = settleID
		market.Type = model.MarketTypeSwap
		market.Swap = true
		market.Contract = true
		market.Linear = settle == quoteCode
		market.Inverse = !market.Linear
		market.ContractSize = types.NewExDecimalFromInt(1)
		market.Maker = swapMakerFee
		market.Taker = swapTakerFee
	} else {
		market.Symbol = common.Symbol(baseCode, quoteCode, "")
		market.Type = model.MarketTypeSpot
		market.Spot = true
		market.Maker = spotFee
		market.Taker = spotFee
	}

	for _, f := range s.Filters {
		switch f.FilterType {
		case "PRICE_FILTER":
			market.Precision.Price = f.TickSize
			market.Limits.Price = model.MinMax{Min: f.MinPrice, Max: f.MaxPrice}
		case "LOT_SIZE":
			market.Precision.Amount = f.StepSize
			market.Limits.Amount = model.MinMax{Min: f.MinQty, Max: f.MaxQty}
		case "MIN_NOTIONAL":
			market.Limits.Cost.Min = f.MinNotional.Or(f.Notional)
		case "NOTIONAL":
			market.Limits.Cost.Min = f.MinNotional
		}
	}
	if contract && s.QuantityPrecision != nil {
		market.Precision.Amount = common.TickFromDecimals(*s.QuantityPrecision)
	}
	if market.Precision.Price.IsNull() && s.PricePrecision != nil {
		market.Precision.Price = common.TickFromDecimals(*s.PricePrecision)
	}
	return market
}

// FetchCurrencies 币种与链信息，需要 API Key；未配置时返回空
func (b *Binance) FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error) {
	if b.APIKey() == "" || b.Secret() == "" || b.IsSandbox() {
		return nil, nil
	}
	args := option.ApplyArgsOptions(opts...)
	var coins []binanceCoin
	if err := b.request(ctx, "sapi", "GET", "sapi/v1/capital/config/getall", args.Params, &coins); err != nil {
		return nil, err
	}

	currencies := make(model.Currencies, len(coins))
	for i := range coins {
		c := &coins[i]
		code := b.SafeCurrencyCode(c.Coin)
		cur := &model.Currency{
			ID:       c.Coin,
			Code:     code,
			Name:     c.Name,
			Active:   c.DepositAllEnable || c.WithdrawAllEnable,
			Deposit:  model.BoolPtr(c.DepositAllEnable),
			Withdraw: model.BoolPtr(c.WithdrawAllEnable),
			Networks: make(map[string]*model.CurrencyNetwork, len(c.NetworkList)),
			Info:     types.NewInfo(c),
		}
		for _, n := range c.NetworkList {
			cur.Networks[n.Network] = &model.CurrencyNetwork{
				ID:       n.Network,
				Network:  n.Network,
				Active:   n.DepositEnable || n.WithdrawEnable,
				Deposit:  model.BoolPtr(n.DepositEnable),
				Withdraw: model.BoolPtr(n.WithdrawEnable),
				Fee:      n.WithdrawFee,
				Limits: model.CurrencyLimits{
					Withdraw: model.MinMax{Min: n.WithdrawMin, Max: n.WithdrawMax},
				},
			}
			if n.IsDefault {
				cur.Fee = n.WithdrawFee
				cur.Limits.Withdraw = model.MinMax{Min: n.WithdrawMin, Max: n.WithdrawMax}
			}
		}
		currencies[code] = cur
	}
	return currencies, nil
}

// FetchTicker 获取行情（单个）
func (b *Binance) FetchTicker(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.Ticker, error) {
	market, err := b.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path := "api/v3/ticker/24hr"
	if market.Contract {
		path = "fapi/v1/ticker/24hr"
	}
	var raw json.RawMessage
	params := common.Extend(map[string]interface{}{"symbol": market.ID}, args.Params)
	if err := b.publicGet(ctx, market, path, params, &raw); err != nil {
		return nil, err
	}
	return b.parseTicker(raw, market)
}

// FetchTickers 批量获取行情，按 option.WithMarketType 选择现货或合约，默认现货
func (b *Binance) FetchTickers(ctx context.Context, opts ...option.ArgsOption) (model.Tickers, error) {
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
	contract := isContract(args, market)
	path, api := "api/v3/ticker/24hr", "public"
	if contract {
		path, api = "fapi/v1/ticker/24hr", "fapiPublic"
	}

	var rows []json.RawMessage
	if err := b.request(ctx, api, "GET", path, args.Params, &rows); err != nil {
		return nil, err
	}
	marketType := model.MarketTypeSpot
	if contract {
		marketType = model.MarketTypeSwap
	}

	tickers := make(model.Tickers, len(rows))
	for _, row := range rows {
		var t binanceTicker
		if err := b.Decode(row, &t); err != nil {
			return nil, err
		}
		m := b.SafeMarket(t.Symbol, marketType)
		if m == nil {
			continue
		}
		tickers[m.Symbol] = b.tickerFrom(&t, row, m)
	}
	return base.FilterTickers(tickers, args.Symbols), nil
}

func (b *Binance) parseTicker(data json.RawMessage, market *model.Market) (*model.Ticker, error) {
	var t binanceTicker
	if err := b.Decode(data, &t); err != nil {
		return nil, err
	}
	return b.tickerFrom(&t, data, market), nil
}

func (b *Binance) tickerFrom(t *binanceTicker, info json.RawMessage, market *model.Market) *model.Ticker {
	return model.SafeTicker(&model.Ticker{
		Symbol:        market.Symbol,
		Timestamp:     t.CloseTime,
		High:          t.HighPrice,
		Low:           t.LowPrice,
		Bid:           t.BidPrice,
		BidVolume:     t.BidQty,
		Ask:           t.AskPrice,
		AskVolume:     t.AskQty,
		Vwap:          t.WeightedAvgPrice,
		Open:          t.OpenPrice,
		Close:         t.LastPrice,
		Last:          t.LastPrice,
		PreviousClose: t.PrevClosePrice,
		Change:        t.PriceChange,
		Percentage:    t.PriceChangePercent,
		BaseVolume:    t.Volume,
		QuoteVolume:   t.QuoteVolume,
		Info:          types.Info(info),
	})
}

// FetchOrderBook 获取订单簿
func (b *Binance) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	market, err := b.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path := "api/v3/depth"
	if market.Contract {
		path = "fapi/v1/depth"
	}
	params := map[string]interface{}{"symbol": market.ID}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	var raw json.RawMessage
	if err := b.publicGet(ctx, market, path, common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	var book binanceOrderBook
	if err := b.Decode(raw, &book); err != nil {
		return nil, err
	}
	ob := model.NewOrderBook(market.Symbol, model.ParseBidAsk(book.Bids, 0, 1), model.ParseBidAsk(book.Asks, 0, 1))
	ob.Timestamp = book.T
	nonce := book.LastUpdateID
	ob.Nonce = &nonce
	ob.Info = types.Info(raw)
	return ob, nil
}

// FetchTrades 获取公共成交记录
func (b *Binance) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	market, err := b.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path := "api/v3/trades"
	if market.Contract {
		path = "fapi/v1/trades"
	}
	params := map[string]interface{}{"symbol": market.ID}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	var rows []json.RawMessage
	if err := b.publicGet(ctx, market, path, common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	trades, err := b.parseTrades(rows, market)
	if err != nil {
		return nil, err
	}
	return base.FilterTrades(trades, "", args), nil
}

func (b *Binance) parseTrades(rows []json.RawMessage, market *model.Market) ([]*model.Trade, error) {
	trades := make([]*model.Trade, 0, len(rows))
	for _, row := range rows {
		var t binanceTrade
		if err := b.Decode(row, &t); err != nil {
			return nil, err
		}
		trades = append(trades, b.parseTrade(&t, row, market))
	}
	return trades, nil
}

// parseTrade 公共成交以 isBuyerMaker 推导方向，我的成交使用 isBuyer/isMaker，合约成交使用 side/maker
func (b *Binance) parseTrade(t *binanceTrade, info json.RawMessage, market *model.Market) *model.Trade {
	trade := &model.Trade{
		ID:        formatID(t.ID),
		Order:     formatID(t.OrderID),
		Timestamp: t.Time,
		Symbol:    market.Symbol,
		Price:     t.Price,
		Amount:    t.Qty,
		Cost:      t.QuoteQty,
		Info:      types.Info(info),
	}
	switch {
	case t.Side != "":
		trade.Side = model.ParseOrderSide(t.Side)
	case t.IsBuyer != nil:
		trade.Side = sideOf(*t.IsBuyer)
	case t.Buyer != nil:
		trade.Side = sideOf(*t.Buyer)
	case t.IsBuyerMaker != nil:
		// 买方为 maker 时主动方为卖方
		trade.Side = sideOf(!*t.IsBuyerMaker)
	}
	maker := t.IsMaker
	if maker == nil {
		maker = t.Maker
	}
	if maker != nil {
		trade.TakerOrMaker = model.Taker
		if *maker {
			trade.TakerOrMaker = model.Maker
		}
	}
	if t.Commission.Valid {
		trade.Fee = &model.Fee{Currency: b.SafeCurrencyCode(t.CommissionAsset), Cost: t.Commission}
	}
	return model.SafeTrade(trade)
}

func sideOf(buy bool) model.OrderSide {
	if buy {
		return model.OrderSideBuy
	}
	return model.OrderSideSell
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// FetchOHLCV 获取K线数据
func (b *Binance) FetchOHLCV(ctx context.Context, symbol string, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	market, err := b.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	interval, err := b.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	path := "api/v3/klines"
	if market.Contract {
		path = "fapi/v1/klines"
	}
	params := map[string]interface{}{"symbol": market.ID, "interval": interval}
	if args.Since != nil {
		params["startTime"] = args.Since.UnixMilli()
	}
	if args.Until != nil {
		params["endTime"] = args.Until.UnixMilli()
	}
	limit := defaultLimits
	if args.Limit != nil && *args.Limit > 0 {
		limit = *args.Limit
	}
	params["limit"] = limit

	var rows [][]json.RawMessage
	if err := b.publicGet(ctx, market, path, common.Extend(params, args.Params), &rows); err != nil {
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

// FetchTradingFees 现货手续费率，来自 /sapi/v1/asset/tradeFee
func (b *Binance) FetchTradingFees(ctx context.Context, opts ...option.ArgsOption) (model.TradingFees, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var rows []json.RawMessage
	if err := b.request(ctx, "sapi", "GET", "sapi/v1/asset/tradeFee", args.Params, &rows); err != nil {
		return nil, err
	}
	fees := make(model.TradingFees, len(rows))
	for _, row := range rows {
		var f binanceTradeFee
		if err := b.Decode(row, &f); err != nil {
			return nil, err
		}
		m := b.SafeMarket(f.Symbol, model.MarketTypeSpot)
		if m == nil {
			continue
		}
		fees[m.Symbol] = &model.TradingFee{
			Symbol: m.Symbol,
			Maker:  f.MakerCommission,
			Taker:  f.TakerCommission,
			Info:   types.Info(row),
		}
	}
	return fees, nil
}
