package cli

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lemconn/exkit"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

// quote 单个交易所的比价结果
type quote struct {
	Exchange string        `json:"exchange"`
	Ticker   *model.Ticker `json:"ticker,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// comparison 跨交易所比价，BestBid 为最高买价，BestAsk 为最低卖价
type comparison struct {
	Symbol     string          `json:"symbol"`
	Quotes     []*quote        `json:"quotes"`
	BestBid    string          `json:"bestBid,omitempty"`
	BestAsk    string          `json:"bestAsk,omitempty"`
	Spread     decimal.Decimal `json:"spread"`
	SpreadRate decimal.Decimal `json:"spreadRate"`
}

func (a *app) compareCommand() *cobra.Command {
	var (
		names       []string
		marketType  string
		concurrency int
		strict      bool
		interval    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "compare SYMBOL",
		Short: "compare tickers of one symbol across exchanges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(names) == 0 {
				names = exkit.SupportedExchanges()
			}
			var opts []option.ArgsOption
			if marketType != "" {
				mt, err := parseMarketType(marketType)
				if err != nil {
					return err
				}
				opts = append(opts, option.WithMarketType(mt))
			}

			run := func() error {
				ctx, cancel := a.context(cmd)
				defer cancel()
				result, err := a.compare(ctx, args[0], names, concurrency, strict, opts...)
				if err != nil {
					return err
				}
				return a.print(result, func(out io.Writer) {
					renderComparison(out, result)
				})
			}
			if interval <= 0 {
				return run()
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				if err := run(); err != nil {
					return err
				}
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	fs := cmd.Flags()
	fs.StringSliceVar(&names, "exchanges", nil, "exchanges to compare, default all supported")
	fs.StringVarP(&marketType, "type", "t", "", "market type: spot or swap")
	fs.IntVar(&concurrency, "concurrency", 4, "max concurrent requests")
	fs.BoolVar(&strict, "strict", false, "fail when any exchange fails")
	fs.DurationVar(&interval, "interval", 0, "repeat every interval until interrupted")
	return cmd
}

// compare 并发拉取各交易所行情，单个交易所失败只记录在结果中，strict 时整体失败
func (a *app) compare(ctx context.Context, symbol string, names []string, concurrency int, strict bool, opts ...option.ArgsOption) (*comparison, error) {
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	var mu sync.Mutex
	quotes := make([]*quote, 0, len(names))
	for _, name := range names {
		name := strings.ToLower(strings.TrimSpace(name))
		g.Go(func() error {
			q := &quote{Exchange: name}
			ticker, err := a.fetchQuote(gctx, name, symbol, opts...)
			if err != nil {
				log.WithError(err).WithField("exchange", name).Warn("compare: fetch ticker failed")
				q.Error = err.Error()
			} else {
				q.Ticker = ticker
			}
			mu.Lock()
			quotes = append(quotes, q)
			mu.Unlock()
			if err != nil && strict {
				return errors.Wrap(err, name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Exchange < quotes[j].Exchange })
	return summarize(symbol, quotes), nil
}

func (a *app) fetchQuote(ctx context.Context, name, symbol string, opts ...option.ArgsOption) (*model.Ticker, error) {
	ex, err := a.open(name)
	if err != nil {
		return nil, err
	}
	return call(ctx, a, func(ctx context.Context) (*model.Ticker, error) {
		return ex.FetchTicker(ctx, symbol, opts...)
	})
}

func summarize(symbol string, quotes []*quote) *comparison {
	c := &comparison{Symbol: symbol, Quotes: quotes}
	var bestBid, bestAsk *quote
	for _, q := range quotes {
		if q.Ticker == nil {
			continue
		}
		if q.Ticker.Bid.IsPositive() && (bestBid == nil || q.Ticker.Bid.Decimal.GreaterThan(bestBid.Ticker.Bid.Decimal)) {
			bestBid = q
		}
		if q.Ticker.Ask.IsPositive() && (bestAsk == nil || q.Ticker.Ask.Decimal.LessThan(bestAsk.Ticker.Ask.Decimal)) {
			bestAsk = q
		}
	}
	if bestBid == nil || bestAsk == nil {
		return c
	}
	c.BestBid = bestBid.Exchange
	c.BestAsk = bestAsk.Exchange
	c.Spread = bestBid.Ticker.Bid.Decimal.Sub(bestAsk.Ticker.Ask.Decimal)
	c.SpreadRate = c.Spread.Div(bestAsk.Ticker.Ask.Decimal).Mul(decimal.NewFromInt(100)).Round(4)
	return c
}

func renderComparison(out io.Writer, c *comparison) {
	t := newTable(out, c.Symbol, table.Row{"Exchange", "Last", "Bid", "Ask", "Base Volume", "Note"})
	alignRight(t, 2, 3, 4, 5)
	for _, q := range c.Quotes {
		if q.Ticker == nil {
			t.AppendRow(table.Row{q.Exchange, "-", "-", "-", "-", q.Error})
			continue
		}
		var notes []string
		if q.Exchange == c.BestBid {
			notes = append(notes, "best bid")
		}
		if q.Exchange == c.BestAsk {
			notes = append(notes, "best ask")
		}
		tk := q.Ticker
		t.AppendRow(table.Row{q.Exchange, dec(tk.Last), dec(tk.Bid), dec(tk.Ask), dec(tk.BaseVolume), strings.Join(notes, ", ")})
	}
	if c.BestBid != "" {
		t.AppendFooter(table.Row{"spread", "", c.Spread.String(), c.SpreadRate.String() + "%", "", c.BestBid + " / " + c.BestAsk})
	}
	t.Render()
}
