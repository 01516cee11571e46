package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/types"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func newTable(out io.Writer, title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.Style().Format.Footer = text.FormatDefault
	if title != "" {
		t.SetTitle(title)
	}
	t.AppendHeader(header)
	return t
}

// alignRight 数值列右对齐，列号从 1 开始
func alignRight(t table.Writer, cols ...int) {
	configs := make([]table.ColumnConfig, 0, len(cols))
	for _, n := range cols {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
}

func dec(d types.ExDecimal) string {
	if d.IsNull() {
		return "-"
	}
	return d.String()
}

func ts(t types.ExTimestamp) string {
	if t.IsNull() {
		return "-"
	}
	return t.Datetime()
}

func fee(f *model.Fee) string {
	if f == nil || f.Cost.IsNull() {
		return "-"
	}
	return f.Cost.String() + " " + f.Currency
}

func (a *app) print(v interface{}, render func(out io.Writer)) error {
	if a.output == outputJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	render(a.out)
	return nil
}

func renderMarkets(out io.Writer, title string, markets model.Markets) {
	t := newTable(out, title, table.Row{"Symbol", "ID", "Type", "Active", "Amount Tick", "Price Tick", "Min Amount", "Maker", "Taker"})
	for _, m := range markets {
		t.AppendRow(table.Row{
			m.Symbol, m.ID, m.Type, m.Active,
			dec(m.Precision.Amount), dec(m.Precision.Price), dec(m.Limits.Amount.Min),
			dec(m.Maker), dec(m.Taker),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "Total", len(markets)})
	t.Render()
}

func renderTickers(out io.Writer, title string, tickers []*model.Ticker) {
	t := newTable(out, title, table.Row{"Symbol", "Last", "Bid", "Ask", "High", "Low", "Change %", "Base Volume", "Quote Volume", "Time"})
	alignRight(t, 2, 3, 4, 5, 6, 7, 8, 9)
	for _, tk := range tickers {
		t.AppendRow(table.Row{
			tk.Symbol, dec(tk.Last), dec(tk.Bid), dec(tk.Ask), dec(tk.High), dec(tk.Low),
			dec(tk.Percentage), dec(tk.BaseVolume), dec(tk.QuoteVolume), ts(tk.Timestamp),
		})
	}
	t.Render()
}

// sortedTickers 按交易对排序
func sortedTickers(tickers model.Tickers) []*model.Ticker {
	out := make([]*model.Ticker, 0, len(tickers))
	for _, tk := range tickers {
		out = append(out, tk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func renderOrderBook(out io.Writer, book *model.OrderBook) {
	t := newTable(out, fmt.Sprintf("%s %s", book.Symbol, ts(book.Timestamp)), table.Row{"Bid Amount", "Bid", "Ask", "Ask Amount"})
	alignRight(t, 1, 2, 3, 4)
	rows := len(book.Bids)
	if len(book.Asks) > rows {
		rows = len(book.Asks)
	}
	for i := 0; i < rows; i++ {
		row := table.Row{"", "", "", ""}
		if i < len(book.Bids) {
			row[0], row[1] = book.Bids[i].Amount.String(), book.Bids[i].Price.String()
		}
		if i < len(book.Asks) {
			row[2], row[3] = book.Asks[i].Price.String(), book.Asks[i].Amount.String()
		}
		t.AppendRow(row)
	}
	t.Render()
}

func renderTrades(out io.Writer, title string, trades []*model.Trade) {
	t := newTable(out, title, table.Row{"Time", "ID", "Order", "Side", "Price", "Amount", "Cost", "Fee"})
	alignRight(t, 5, 6, 7)
	for _, tr := range trades {
		t.AppendRow(table.Row{ts(tr.Timestamp), tr.ID, tr.Order, tr.Side, dec(tr.Price), dec(tr.Amount), dec(tr.Cost), fee(tr.Fee)})
	}
	t.Render()
}

func renderOHLCV(out io.Writer, title string, candles model.OHLCVs) {
	t := newTable(out, title, table.Row{"Time", "Open", "High", "Low", "Close", "Volume"})
	alignRight(t, 2, 3, 4, 5, 6)
	for _, c := range candles {
		t.AppendRow(table.Row{ts(c.Timestamp), dec(c.Open), dec(c.High), dec(c.Low), dec(c.Close), dec(c.Volume)})
	}
	t.Render()
}

func renderBalances(out io.Writer, title string, balances []*model.Balance) {
	t := newTable(out, title, table.Row{"Currency", "Free", "Used", "Total"})
	alignRight(t, 2, 3, 4)
	for _, b := range balances {
		t.AppendRow(table.Row{b.Currency, dec(b.Free), dec(b.Used), dec(b.Total)})
	}
	t.Render()
}

func renderOrders(out io.Writer, title string, orders []*model.Order) {
	t := newTable(out, title, table.Row{"Time", "ID", "Client ID", "Symbol", "Type", "Side", "Status", "Price", "Amount", "Filled", "Average"})
	alignRight(t, 8, 9, 10, 11)
	for _, o := range orders {
		t.AppendRow(table.Row{
			ts(o.Timestamp), o.ID, o.ClientOrderID, o.Symbol, o.Type, o.Side, o.Status,
			dec(o.Price), dec(o.Amount), dec(o.Filled), dec(o.Average),
		})
	}
	t.Render()
}

func renderTransactions(out io.Writer, title string, txs []*model.Transaction) {
	t := newTable(out, title, table.Row{"Time", "ID", "Currency", "Network", "Amount", "Fee", "Status", "Address", "TxID"})
	alignRight(t, 5)
	for _, tx := range txs {
		t.AppendRow(table.Row{ts(tx.Timestamp), tx.ID, tx.Currency, tx.Network, dec(tx.Amount), fee(tx.Fee), tx.Status, tx.Address, tx.TxID})
	}
	t.Render()
}

func renderDepositAddress(out io.Writer, addr *model.DepositAddress) {
	t := newTable(out, "", table.Row{"Currency", "Network", "Address", "Tag"})
	t.AppendRow(table.Row{addr.Currency, addr.Network, addr.Address, addr.Tag})
	t.Render()
}
