package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

func (a *app) marketsCommand() *cobra.Command {
	var q queryFlags
	var reload bool
	cmd := &cobra.Command{
		Use:   "markets",
		Short: "list markets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			markets, err := call(ctx, a, func(ctx context.Context) (model.Markets, error) {
				return ex.LoadMarkets(ctx, reload)
			})
			if err != nil {
				return err
			}
			if q.marketType != "" {
				mt, err := parseMarketType(q.marketType)
				if err != nil {
					return err
				}
				markets = markets.FilterByType(mt)
			}
			if q.limit > 0 && len(markets) > q.limit {
				markets = markets[:q.limit]
			}
			return a.print(markets, func(out io.Writer) {
				renderMarkets(out, ex.Name(), markets)
			})
		},
	}
	q.addLimit(cmd.Flags(), 0)
	q.addMarketType(cmd.Flags())
	cmd.Flags().BoolVar(&reload, "reload", false, "ignore cached markets")
	return cmd
}

func (a *app) tickerCommand() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "ticker SYMBOL",
		Short: "show ticker of one market",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			ticker, err := call(ctx, a, func(ctx context.Context) (*model.Ticker, error) {
				return ex.FetchTicker(ctx, args[0], opts...)
			})
			if err != nil {
				return err
			}
			return a.print(ticker, func(out io.Writer) {
				renderTickers(out, ex.Name(), []*model.Ticker{ticker})
			})
		},
	}
	q.addParams(cmd.Flags())
	return cmd
}

func (a *app) tickersCommand() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "tickers [SYMBOL...]",
		Short: "show tickers, all markets of the type when no symbol is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				opts = append(opts, option.WithSymbols(args...))
			}
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}
			if err := requireFeature(ex, exchange.FeatureFetchTickers); err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			tickers, err := call(ctx, a, func(ctx context.Context) (model.Tickers, error) {
				return ex.FetchTickers(ctx, opts...)
			})
			if err != nil {
				return err
			}
			return a.print(tickers, func(out io.Writer) {
				renderTickers(out, ex.Name(), sortedTickers(tickers))
			})
		},
	}
	q.addMarketType(cmd.Flags())
	q.addParams(cmd.Flags())
	return cmd
}

func (a *app) orderBookCommand() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:     "orderbook SYMBOL",
		Aliases: []string{"book"},
		Short:   "show order book",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			book, err := call(ctx, a, func(ctx context.Context) (*model.OrderBook, error) {
				return ex.FetchOrderBook(ctx, args[0], opts...)
			})
			if err != nil {
				return err
			}
			return a.print(book, func(out io.Writer) {
				renderOrderBook(out, book)
			})
		},
	}
	q.addLimit(cmd.Flags(), 10)
	q.addParams(cmd.Flags())
	return cmd
}

func (a *app) tradesCommand() *cobra.Command {
	var q queryFlags
	var mine bool
	cmd := &cobra.Command{
		Use:   "trades SYMBOL",
		Short: "show recent public trades, or account trades with --mine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}
			fetch := ex.FetchTrades
			if mine {
				if err := requireFeature(ex, exchange.FeatureFetchMyTrades); err != nil {
					return err
				}
				fetch = ex.FetchMyTrades
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			trades, err := call(ctx, a, func(ctx context.Context) ([]*model.Trade, error) {
				return fetch(ctx, args[0], opts...)
			})
			if err != nil {
				return err
			}
			return a.print(trades, func(out io.Writer) {
				renderTrades(out, fmt.Sprintf("%s %s", ex.Name(), args[0]), trades)
			})
		},
	}
	q.addLimit(cmd.Flags(), 20)
	q.addTimeRange(cmd.Flags())
	q.addParams(cmd.Flags())
	cmd.Flags().BoolVar(&mine, "mine", false, "account trades, requires credentials")
	return cmd
}

func (a *app) ohlcvCommand() *cobra.Command {
	var q queryFlags
	var timeframe string
	cmd := &cobra.Command{
		Use:     "ohlcv SYMBOL",
		Aliases: []string{"klines", "candles"},
		Short:   "show candlesticks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			candles, err := call(ctx, a, func(ctx context.Context) (model.OHLCVs, error) {
				return ex.FetchOHLCV(ctx, args[0], timeframe, opts...)
			})
			if err != nil {
				return err
			}
			return a.print(candles, func(out io.Writer) {
				renderOHLCV(out, strings.Join([]string{ex.Name(), args[0], timeframe}, " "), candles)
			})
		},
	}
	q.addLimit(cmd.Flags(), 20)
	q.addTimeRange(cmd.Flags())
	q.addParams(cmd.Flags())
	cmd.Flags().StringVar(&timeframe, "timeframe", "1h", "candle timeframe, e.g. 1m 5m 1h 1d")
	return cmd
}
