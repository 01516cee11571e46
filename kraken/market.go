package kraken

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

var hundred = decimal.NewFromInt(100)

// FetchCurrencies 获取币种列表
// X/Z 前缀的旧式 ID（XXBT、ZUSD）按 altname 转换为统一代码
func (k *Kraken) FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error) {
	args := option.ApplyArgsOptions(opts...)
	var raw map[string]json.RawMessage
	if err := k.publicGet(ctx, "Assets", args.Params, &raw); err != nil {
		return nil, err
	}

	currencies := make(model.Currencies, len(raw))
	for _, id := range sortedKeys(raw) {
		var asset krakenAsset
		if err := json.Unmarshal(raw[id], &asset); err != nil {
			log.WithError(err).WithField("asset", id).Warn("skip malformed asset")
			continue
		}
		code := k.CommonCurrencyCode(id)
		if strings.Contains(id, ".") {
			code = k.splitCurrencyCode(id)
		} else if id != asset.Altname && (strings.HasPrefix(id, "X") || strings.HasPrefix(id, "Z")) {
			code = k.CommonCurrencyCode(asset.Altname)
		}
		currencies[code] = &model.Currency{
			ID:        id,
			Code:      code,
			Name:      asset.Altname,
			Active:    asset.Status == "enabled",
			Precision: common.TickFromDecimals(asset.Decimals),
			Info:      types.Info(raw[id]),
		}
	}
	return currencies, nil
}

// currencyCode 交易所币种ID -> 统一代码，支持 XBT.M 形式的后缀
func (k *Kraken) currencyCode(id string) string {
	if id == "" {
		return ""
	}
	if cur, ok := k.MarketCache().CurrencyByID(id); ok {
		return cur.Code
	}
	if strings.Contains(id, ".") {
		return k.splitCurrencyCode(id)
	}
	return k.SafeCurrencyCode(id)
}

func (k *Kraken) splitCurrencyCode(id string) string {
	parts := strings.SplitN(id, ".", 2)
	return k.SafeCurrencyCode(parts[0]) + "." + parts[1]
}

// FetchMarkets 获取现货市场列表
func (k *Kraken) FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error) {
	args := option.ApplyArgsOptions(opts...)
	var raw map[string]json.RawMessage
	if err := k.publicGet(ctx, "AssetPairs", args.Params, &raw); err != nil {
		return nil, err
	}

	markets := make(model.Markets, 0, len(raw))
	byAltname := make(map[string]*model.Market, len(raw))
	for _, id := range sortedKeys(raw) {
		var pair krakenAssetPair
		if err := json.Unmarshal(raw[id], &pair); err != nil {
			log.WithError(err).WithField("pair", id).Warn("skip malformed asset pair")
			continue
		}
		market := k.parseMarket(id, &pair, raw[id])
		markets = append(markets, market)
		if pair.Altname != "" {
			byAltname[pair.Altname] = market
		}
	}

	k.altMu.Lock()
	k.marketsByAltname = byAltname
	k.altMu.Unlock()
	return markets, nil
}

func (k *Kraken) parseMarket(id string, pair *krakenAssetPair, info json.RawMessage) *model.Market {
	baseCode := k.currencyCode(pair.Base)
	quoteCode := k.currencyCode(pair.Quote)

	market := &model.Market{
		ID:      id,
		Symbol:  common.Symbol(baseCode, quoteCode, ""),
		Base:    baseCode,
		Quote:   quoteCode,
		BaseID:  pair.Base,
		QuoteID: pair.Quote,
		Type:    model.MarketTypeSpot,
		Spot:    true,
		Active:  pair.Status == "online",
		Info:    types.Info(info),
	}

	if len(pair.FeesMaker) > 0 {
		if rate := at(pair.FeesMaker[0], 1); rate.Valid {
			market.Maker = types.NewExDecimal(rate.Decimal.Div(hundred))
		}
	}
	if len(pair.Fees) > 0 {
		if rate := at(pair.Fees[0], 1); rate.Valid {
			market.Taker = types.NewExDecimal(rate.Decimal.Div(hundred))
		}
	}

	market.Precision.Price = common.TickFromDecimals(pair.PairDecimals)
	market.Precision.Amount = common.TickFromDecimals(pair.LotDecimals)
	// 币种精度更粗时以币种精度为准
	if cur, ok := k.MarketCache().CurrencyByCode(baseCode); ok && cur.Precision.Valid {
		if cur.Precision.Decimal.GreaterThan(market.Precision.Amount.Decimal) {
			market.Precision.Amount = cur.Precision
		}
	}

	market.Limits.Amount.Min = pair.OrderMin
	market.Limits.Cost.Min = pair.CostMin
	market.Limits.Leverage.Min = types.NewExDecimalFromInt(1)
	market.Limits.Leverage.Max = types.NewExDecimalFromInt(1)
	if n := len(pair.LeverageBuy); n > 0 && pair.LeverageBuy[n-1].Valid {
		market.Limits.Leverage.Max = pair.LeverageBuy[n-1]
	}
	return market
}

// marketByAltnameOrID 订单中的交易对可能是 altname 也可能是 ID
func (k *Kraken) marketByAltnameOrID(id string) *model.Market {
	if id == "" {
		return nil
	}
	k.altMu.RLock()
	m, ok := k.marketsByAltname[id]
	k.altMu.RUnlock()
	if ok {
		return m
	}
	return k.SafeMarket(id, model.MarketTypeSpot)
}

// FetchTicker 获取行情（单个）
func (k *Kraken) FetchTicker(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.Ticker, error) {
	market, err := k.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var raw map[string]json.RawMessage
	params := common.Extend(map[string]interface{}{"pair": market.ID}, args.Params)
	if err := k.publicGet(ctx, "Ticker", params, &raw); err != nil {
		return nil, err
	}
	data, ok := raw[market.ID]
	if !ok {
		return nil, exchange.Errorf(exchange.BadResponse, krakenName, "%s ticker for %s missing in response", krakenName, market.ID)
	}
	return k.parseTicker(data, market)
}

// FetchTickers 批量获取行情，仅请求可交易的市场
func (k *Kraken) FetchTickers(ctx context.Context, opts ...option.ArgsOption) (model.Tickers, error) {
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := common.Extend(args.Params)
	if len(args.Symbols) > 0 {
		ids := make([]string, 0, len(args.Symbols))
		for _, symbol := range args.Symbols {
			market, err := k.Market(symbol)
			if err != nil {
				return nil, err
			}
			if market.Active {
				ids = append(ids, market.ID)
			}
		}
		params["pair"] = strings.Join(ids, ",")
	}

	var raw map[string]json.RawMessage
	if err := k.publicGet(ctx, "Ticker", params, &raw); err != nil {
		return nil, err
	}

	tickers := make(model.Tickers, len(raw))
	for id, data := range raw {
		market := k.marketByAltnameOrID(id)
		if market == nil {
			continue
		}
		ticker, err := k.parseTicker(data, market)
		if err != nil {
			return nil, err
		}
		tickers[ticker.Symbol] = ticker
	}
	return base.FilterTickers(tickers, args.Symbols), nil
}

func (k *Kraken) parseTicker(data json.RawMessage, market *model.Market) (*model.Ticker, error) {
	var t krakenTicker
	if err := k.Decode(data, &t); err != nil {
		return nil, err
	}
	baseVolume := at(t.V, 1)
	vwap := at(t.P, 1)
	last := at(t.C, 0)
	return model.SafeTicker(&model.Ticker{
		Symbol:      market.Symbol,
		High:        at(t.H, 1),
		Low:         at(t.L, 1),
		Bid:         at(t.B, 0),
		BidVolume:   at(t.B, 2),
		Ask:         at(t.A, 0),
		AskVolume:   at(t.A, 2),
		Vwap:        vwap,
		Open:        t.O,
		Close:       last,
		Last:        last,
		BaseVolume:  baseVolume,
		QuoteVolume: types.ExMul(baseVolume, vwap),
		Info:        types.Info(data),
	}), nil
}

// FetchOrderBook 获取订单簿
func (k *Kraken) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	market, err := k.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"pair": market.ID}
	if args.Limit != nil {
		params["count"] = *args.Limit
	}
	var raw map[string]json.RawMessage
	if err := k.publicGet(ctx, "Depth", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}

	data, ok := raw[market.ID]
	if wsname, _ := market.Info.Get("wsname").(string); wsname != "" {
		if alt, found := raw[wsname]; found {
			data, ok = alt, true
		}
	}
	if !ok {
		return nil, exchange.Errorf(exchange.BadResponse, krakenName, "%s order book for %s missing in response", krakenName, market.ID)
	}

	var book krakenOrderBook
	if err := k.Decode(data, &book); err != nil {
		return nil, err
	}
	ob := model.NewOrderBook(market.Symbol, model.ParseBidAsk(book.Bids, 0, 1), model.ParseBidAsk(book.Asks, 0, 1))
	ob.Info = types.Info(data)
	return ob, nil
}

// FetchTrades 获取公共成交记录
// 每条成交为 [价格, 数量, 时间, 方向(b/s), 类型(l/m), 其它, 成交ID]
func (k *Kraken) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	market, err := k.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"pair": market.ID}
	if args.Since != nil {
		params["since"] = strconv.FormatInt(args.Since.Unix(), 10)
	}
	if args.Limit != nil {
		params["count"] = *args.Limit
	}
	var raw map[string]json.RawMessage
	if err := k.publicGet(ctx, "Trades", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}

	var rows [][]json.RawMessage
	if data, ok := raw[market.ID]; ok {
		if err := k.Decode(data, &rows); err != nil {
			return nil, err
		}
	}
	lastID := common.RawString(raw["last"])

	trades := make([]*model.Trade, 0, len(rows))
	for i, row := range rows {
		trade := parsePublicTrade(row, market)
		if trade.ID == "" && i == len(rows)-1 {
			trade.ID = lastID
		}
		trades = append(trades, trade)
	}
	return base.FilterTrades(trades, "", args), nil
}

func parsePublicTrade(row []json.RawMessage, market *model.Market) *model.Trade {
	side := model.OrderSideBuy
	if common.StringAt(row, 3) == "s" {
		side = model.OrderSideSell
	}
	orderType := model.OrderTypeMarket
	if common.StringAt(row, 4) == "l" {
		orderType = model.OrderTypeLimit
	}
	info, _ := json.Marshal(row)
	return model.SafeTrade(&model.Trade{
		ID:        common.StringAt(row, 6),
		Timestamp: common.TimestampAt(row, 2),
		Symbol:    market.Symbol,
		Type:      orderType,
		Side:      side,
		Price:     common.DecimalAt(row, 0),
		Amount:    common.DecimalAt(row, 1),
		Info:      types.Info(info),
	})
}

// FetchOHLCV 获取K线数据
// 每根K线为 [时间(秒), 开, 高, 低, 收, 均价, 成交量, 笔数]
func (k *Kraken) FetchOHLCV(ctx context.Context, symbol string, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	market, err := k.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	interval, err := k.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"pair": market.ID, "interval": interval}
	if args.Since != nil {
		seconds := args.Since.Unix() - int64(model.Timeframe(timeframe).Duration().Seconds())
		params["since"] = strconv.FormatInt(seconds, 10)
	}
	var raw map[string]json.RawMessage
	if err := k.publicGet(ctx, "OHLC", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}

	var rows [][]json.RawMessage
	if data, ok := raw[market.ID]; ok {
		if err := k.Decode(data, &rows); err != nil {
			return nil, err
		}
	}
	ohlcvs := make(model.OHLCVs, 0, len(rows))
	for _, row := range rows {
		ohlcvs = append(ohlcvs, &model.OHLCV{
			Timestamp: common.TimestampAt(row, 0),
			Open:      common.DecimalAt(row, 1),
			High:      common.DecimalAt(row, 2),
			Low:       common.DecimalAt(row, 3),
			Close:     common.DecimalAt(row, 4),
			Volume:    common.DecimalAt(row, 6),
		})
	}
	return base.FilterOHLCVs(ohlcvs, args), nil
}

// FetchTradingFees 获取指定交易对的手续费率，需通过 option.WithSymbols 指定交易对
func (k *Kraken) FetchTradingFees(ctx context.Context, opts ...option.ArgsOption) (model.TradingFees, error) {
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)
	if len(args.Symbols) == 0 {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, krakenName, "%s fetchTradingFees() requires symbols", krakenName)
	}

	markets := make([]*model.Market, 0, len(args.Symbols))
	ids := make([]string, 0, len(args.Symbols))
	for _, symbol := range args.Symbols {
		market, err := k.Market(symbol)
		if err != nil {
			return nil, err
		}
		markets = append(markets, market)
		ids = append(ids, market.ID)
	}

	params := common.Extend(map[string]interface{}{
		"pair":     strings.Join(ids, ","),
		"fee-info": true,
	}, args.Params)
	var volume krakenTradeVolume
	var raw json.RawMessage
	if err := k.privatePost(ctx, "TradeVolume", params, &raw); err != nil {
		return nil, err
	}
	if err := k.Decode(raw, &volume); err != nil {
		return nil, err
	}

	fees := make(model.TradingFees, len(markets))
	for _, market := range markets {
		fee := &model.TradingFee{Symbol: market.Symbol, Info: types.Info(raw)}
		if tier, ok := volume.FeesMaker[market.ID]; ok && tier.Fee.Valid {
			fee.Maker = types.NewExDecimal(tier.Fee.Decimal.Div(hundred))
		}
		if tier, ok := volume.Fees[market.ID]; ok && tier.Fee.Valid {
			fee.Taker = types.NewExDecimal(tier.Fee.Decimal.Div(hundred))
		}
		fees[market.Symbol] = fee
	}
	return fees, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
