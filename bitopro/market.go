package bitopro

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

// defaultCandleLimit 接口必须同时提供 from 与 to，未指定 limit 时按 500 根推算区间
const defaultCandleLimit = 500

// 默认费率（第一档）
var (
	bitoproMaker = types.ParseExDecimal("0.001")
	bitoproTaker = types.ParseExDecimal("0.002")
)

// FetchCurrencies 获取币种列表
func (p *Bitopro) FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error) {
	args := option.ApplyArgsOptions(opts...)
	var resp bitoproData
	if err := p.publicGet(ctx, "provisioning/currencies", args.Params, &resp); err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := p.Decode(resp.Data, &rows); err != nil {
		return nil, err
	}

	currencies := make(model.Currencies, len(rows))
	for _, row := range rows {
		var c bitoproCurrency
		if err := json.Unmarshal(row, &c); err != nil {
			log.WithError(err).Warn("skip malformed currency")
			continue
		}
		code := p.SafeCurrencyCode(c.Currency)
		currencies[code] = &model.Currency{
			ID:       c.Currency,
			Code:     code,
			Active:   c.Deposit && c.Withdraw,
			Deposit:  model.BoolPtr(c.Deposit),
			Withdraw: model.BoolPtr(c.Withdraw),
			Fee:      c.WithdrawFee,
			Limits: model.CurrencyLimits{
				Withdraw: model.MinMax{Min: c.MinWithdraw, Max: c.MaxWithdraw},
			},
			Info: types.Info(row),
		}
	}
	return currencies, nil
}

// FetchMarkets 获取现货市场列表，交易对 ID 形如 btc_twd
func (p *Bitopro) FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error) {
	args := option.ApplyArgsOptions(opts...)
	var resp bitoproData
	if err := p.publicGet(ctx, "provisioning/trading-pairs", args.Params, &resp); err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := p.Decode(resp.Data, &rows); err != nil {
		return nil, err
	}

	markets := make(model.Markets, 0, len(rows))
	for _, row := range rows {
		var pair bitoproPair
		if err := json.Unmarshal(row, &pair); err != nil || pair.Pair == "" {
			log.WithField("row", string(row)).Warn("skip malformed trading pair")
			continue
		}
		baseCode := p.SafeCurrencyCode(pair.Base)
		quoteCode := p.SafeCurrencyCode(pair.Quote)
		market := &model.Market{
			ID:      pair.Pair,
			Symbol:  common.Symbol(baseCode, quoteCode, ""),
			Base:    baseCode,
			Quote:   quoteCode,
			BaseID:  pair.Base,
			QuoteID: pair.Quote,
			Type:    model.MarketTypeSpot,
			Spot:    true,
			Active:  !pair.Maintain,
			Maker:   bitoproMaker,
			Taker:   bitoproTaker,
			Info:    types.Info(row),
		}
		market.Precision.Price = precisionFromDigits(pair.QuotePrecision)
		market.Precision.Amount = precisionFromDigits(pair.BasePrecision)
		market.Limits.Amount = model.MinMax{Min: pair.MinLimitBaseAmount, Max: pair.MaxLimitBaseAmount}
		markets = append(markets, market)
	}
	return markets, nil
}

func precisionFromDigits(s string) types.ExDecimal {
	n, err := strconv.Atoi(s)
	if err != nil {
		return types.ExDecimal{}
	}
	return common.TickFromDecimals(n)
}

// safeSymbol 未知交易对按 base_quote 拼出统一交易对
func (p *Bitopro) safeSymbol(id string, market *model.Market) string {
	if id == "" {
		if market != nil {
			return market.Symbol
		}
		return ""
	}
	if m := p.SafeMarket(strings.ToLower(id), model.MarketTypeSpot); m != nil {
		return m.Symbol
	}
	parts := strings.Split(id, "_")
	if len(parts) == 2 {
		return common.Symbol(p.SafeCurrencyCode(parts[0]), p.SafeCurrencyCode(parts[1]), "")
	}
	return ""
}

// FetchTicker 获取行情（单个）
func (p *Bitopro) FetchTicker(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.Ticker, error) {
	market, err := p.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var resp bitoproData
	params := common.Extend(map[string]interface{}{"pair": market.ID}, args.Params)
	if err := p.publicGet(ctx, "tickers/{pair}", params, &resp); err != nil {
		return nil, err
	}
	return p.parseTicker(resp.Data, market)
}

// FetchTickers 批量获取行情
func (p *Bitopro) FetchTickers(ctx context.Context, opts ...option.ArgsOption) (model.Tickers, error) {
	if _, err := p.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var resp bitoproData
	if err := p.publicGet(ctx, "tickers", args.Params, &resp); err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := p.Decode(resp.Data, &rows); err != nil {
		return nil, err
	}

	tickers := make(model.Tickers, len(rows))
	for _, row := range rows {
		ticker, err := p.parseTicker(row, nil)
		if err != nil {
			return nil, err
		}
		if ticker.Symbol == "" {
			continue
		}
		tickers[ticker.Symbol] = ticker
	}
	return base.FilterTickers(tickers, args.Symbols), nil
}

// parseTicker 只有最新价、24小时高低、成交量与涨跌幅
func (p *Bitopro) parseTicker(data json.RawMessage, market *model.Market) (*model.Ticker, error) {
	var t bitoproTicker
	if err := p.Decode(data, &t); err != nil {
		return nil, err
	}
	return model.SafeTicker(&model.Ticker{
		Symbol:     p.safeSymbol(t.Pair, market),
		High:       t.High24hr,
		Low:        t.Low24hr,
		Close:      t.LastPrice,
		Last:       t.LastPrice,
		Percentage: t.PriceChange24hr,
		BaseVolume: t.Volume24hr,
		Info:       types.Info(data),
	}), nil
}

// FetchOrderBook 获取订单簿
func (p *Bitopro) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	market, err := p.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"pair": market.ID}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	var raw json.RawMessage
	if err := p.publicGet(ctx, "order-book/{pair}", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	var book bitoproOrderBook
	if err := p.Decode(raw, &book); err != nil {
		return nil, err
	}
	ob := model.NewOrderBook(market.Symbol, bookEntries(book.Bids), bookEntries(book.Asks))
	ob.Info = types.Info(raw)
	return ob, nil
}

func bookEntries(rows []bitoproBookEntry) []model.OrderBookEntry {
	out := make([]model.OrderBookEntry, 0, len(rows))
	for _, r := range rows {
		if r.Price.IsNull() || r.Amount.IsNull() {
			continue
		}
		out = append(out, model.OrderBookEntry{Price: r.Price.Decimal, Amount: r.Amount.Decimal})
	}
	return out
}

// FetchTrades 获取公共成交记录
func (p *Bitopro) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	market, err := p.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var resp bitoproData
	params := common.Extend(map[string]interface{}{"pair": market.ID}, args.Params)
	if err := p.publicGet(ctx, "trades/{pair}", params, &resp); err != nil {
		return nil, err
	}
	trades, err := p.parseTrades(resp.Data, market)
	if err != nil {
		return nil, err
	}
	return base.FilterTrades(trades, "", args), nil
}

func (p *Bitopro) parseTrades(data json.RawMessage, market *model.Market) ([]*model.Trade, error) {
	var rows []json.RawMessage
	if len(data) > 0 && string(data) != "null" {
		if err := p.Decode(data, &rows); err != nil {
			return nil, err
		}
	}
	trades := make([]*model.Trade, 0, len(rows))
	for _, row := range rows {
		var t bitoproTrade
		if err := p.Decode(row, &t); err != nil {
			return nil, err
		}
		trades = append(trades, p.parseTrade(&t, row, market))
	}
	return trades, nil
}

// parseTrade 公共成交时间为秒，我的成交为毫秒，均由 ExTimestamp 按位数识别
func (p *Bitopro) parseTrade(t *bitoproTrade, info json.RawMessage, market *model.Market) *model.Trade {
	side := model.ParseOrderSide(t.Action)
	if side == "" {
		side = model.OrderSideSell
		if t.IsBuyer != nil && *t.IsBuyer {
			side = model.OrderSideBuy
		}
	}
	trade := &model.Trade{
		ID:        t.TradeID,
		Order:     t.OrderID,
		Timestamp: t.Timestamp,
		Symbol:    p.safeSymbol(t.Pair, market),
		Type:      model.ParseOrderType(t.Type),
		Side:      side,
		Price:     t.Price,
		Amount:    t.Amount.Or(t.BaseAmount),
		Info:      types.Info(info),
	}
	if t.Fee.Valid {
		trade.Fee = &model.Fee{Currency: p.SafeCurrencyCode(t.FeeSymbol), Cost: t.Fee}
	}
	if t.IsTaker != nil {
		trade.TakerOrMaker = model.Maker
		if *t.IsTaker {
			trade.TakerOrMaker = model.Taker
		}
	}
	return model.SafeTrade(trade)
}

// FetchOHLCV 获取K线数据，成交量为零的K线不会返回，按收盘价补齐
func (p *Bitopro) FetchOHLCV(ctx context.Context, symbol string, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	market, err := p.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	resolution, err := p.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	limit := defaultCandleLimit
	if args.Limit != nil && *args.Limit > 0 {
		limit = *args.Limit
	}
	step := int64(model.Timeframe(timeframe).Duration() / time.Second)

	params := map[string]interface{}{"pair": market.ID, "resolution": resolution}
	var alignedSince int64
	if args.Since == nil {
		to := p.NonceSource().Now().Unix()
		params["to"] = to
		params["from"] = to - int64(limit)*step
	} else {
		stepMillis := step * 1000
		alignedSince = args.Since.UnixMilli() / stepMillis * stepMillis
		from := alignedSince / 1000
		params["from"] = from
		params["to"] = from + int64(limit)*step
	}

	var resp bitoproData
	if err := p.publicGet(ctx, "trading-history/{pair}", common.Extend(params, args.Params), &resp); err != nil {
		return nil, err
	}
	var rows []bitoproCandle
	if len(resp.Data) > 0 {
		if err := p.Decode(resp.Data, &rows); err != nil {
			return nil, err
		}
	}

	candles := make(model.OHLCVs, 0, len(rows))
	for _, r := range rows {
		candles = append(candles, &model.OHLCV{
			Timestamp: r.Timestamp,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		})
	}
	filter := *args
	if args.Since != nil {
		aligned := time.UnixMilli(alignedSince)
		filter.Since = &aligned
	}
	candles = base.FilterOHLCVs(candles, &filter)
	return fillMissingCandles(candles, step*1000, alignedSince, limit), nil
}

// fillMissingCandles 按固定间隔补齐缺失的K线，开高低取上一根的收盘价，成交量为 0
// since 为 0 时从第一根K线开始
func fillMissingCandles(candles model.OHLCVs, stepMillis, since int64, limit int) model.OHLCVs {
	if len(candles) == 0 || stepMillis <= 0 {
		return candles
	}
	ts := since
	if ts == 0 {
		ts = candles[0].Timestamp.Millis()
	}
	out := make(model.OHLCVs, 0, len(candles))
	prev := candles[0]
	for i := 0; len(out) < limit && i < len(candles); {
		c := candles[i]
		if c.Timestamp.Millis() < ts {
			i++
			continue
		}
		if c.Timestamp.Millis() == ts {
			out = append(out, c)
			i++
		} else {
			out = append(out, &model.OHLCV{
				Timestamp: types.NewExTimestampMillis(ts),
				Open:      prev.Close,
				High:      prev.Close,
				Low:       prev.Close,
				Close:     prev.Close,
				Volume:    types.NewExDecimalFromInt(0),
			})
		}
		ts += stepMillis
		prev = out[len(out)-1]
	}
	return out
}

// FetchTradingFees 费率不分交易对，取第一档应用到所有市场
func (p *Bitopro) FetchTradingFees(ctx context.Context, opts ...option.ArgsOption) (model.TradingFees, error) {
	markets, err := p.LoadMarkets(ctx, false)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	var resp struct {
		TradingFeeRate []json.RawMessage `json:"tradingFeeRate"`
	}
	if err := p.publicGet(ctx, "provisioning/limitations-and-fees", args.Params, &resp); err != nil {
		return nil, err
	}
	if len(resp.TradingFeeRate) == 0 {
		return nil, exchange.Errorf(exchange.BadResponse, bitoproName, "%s limitations-and-fees returned no fee tiers", bitoproName)
	}
	var first bitoproFeeTier
	if err := p.Decode(resp.TradingFeeRate[0], &first); err != nil {
		return nil, err
	}

	fees := make(model.TradingFees, len(markets))
	for _, m := range markets {
		fees[m.Symbol] = &model.TradingFee{
			Symbol: m.Symbol,
			Maker:  first.MakerFee,
			Taker:  first.TakerFee,
			Info:   types.Info(resp.TradingFeeRate[0]),
		}
	}
	return fees, nil
}
