package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

func (a *app) balanceCommand() *cobra.Command {
	var q queryFlags
	var all bool
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "show account balance",
		Args:  cobra.NoArgs,
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

			balances, err := call(ctx, a, func(ctx context.Context) (*model.Balances, error) {
				return ex.FetchBalance(ctx, opts...)
			})
			if err != nil {
				return err
			}
			rows := balances.NonZero()
			if all {
				rows = make([]*model.Balance, 0, len(balances.Assets))
				for _, code := range balances.Currencies() {
					rows = append(rows, balances.Get(code))
				}
			}
			return a.print(balances, func(out io.Writer) {
				renderBalances(out, ex.Name(), rows)
			})
		},
	}
	q.addMarketType(cmd.Flags())
	q.addParams(cmd.Flags())
	cmd.Flags().BoolVar(&all, "all", false, "include zero balances")
	return cmd
}

func (a *app) ordersCommand() *cobra.Command {
	var q queryFlags
	var status string
	cmd := &cobra.Command{
		Use:   "orders [SYMBOL]",
		Short: "list orders, --status open, closed or all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			symbol := ""
			if len(args) > 0 {
				symbol = args[0]
			}
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}

			var fetch func(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error)
			switch status {
			case "open":
				fetch = ex.FetchOpenOrders
			case "closed":
				fetch = ex.FetchClosedOrders
			case "all":
				if err := requireFeature(ex, exchange.FeatureFetchOrders); err != nil {
					return err
				}
				fetch = ex.FetchOrders
			default:
				return errors.Errorf("--status must be open, closed or all, got %q", status)
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			orders, err := call(ctx, a, func(ctx context.Context) ([]*model.Order, error) {
				return fetch(ctx, symbol, opts...)
			})
			if err != nil {
				return err
			}
			return a.print(orders, func(out io.Writer) {
				renderOrders(out, fmt.Sprintf("%s %s orders", ex.Name(), status), orders)
			})
		},
	}
	q.addLimit(cmd.Flags(), 0)
	q.addTimeRange(cmd.Flags())
	q.addMarketType(cmd.Flags())
	q.addParams(cmd.Flags())
	cmd.Flags().StringVar(&status, "status", "open", "open, closed or all")
	return cmd
}

func (a *app) orderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "create, cancel or query one order",
	}
	cmd.AddCommand(a.orderCreateCommand(), a.orderCancelCommand(), a.orderGetCommand())
	return cmd
}

type orderFlags struct {
	queryFlags
	price       string
	orderType   string
	clientID    string
	timeInForce string
	postOnly    bool
	reduceOnly  bool
}

func (f *orderFlags) options() ([]option.ArgsOption, error) {
	opts, err := f.queryFlags.options()
	if err != nil {
		return nil, err
	}
	if f.price != "" {
		opts = append(opts, option.WithPrice(f.price))
	}
	switch f.orderType {
	case "":
	case string(model.OrderTypeLimit), string(model.OrderTypeMarket):
		opts = append(opts, option.WithOrderType(model.OrderType(f.orderType)))
	default:
		return nil, errors.Errorf("--type must be limit or market, got %q", f.orderType)
	}
	if f.clientID != "" {
		opts = append(opts, option.WithClientOrderID(f.clientID))
	}
	if f.timeInForce != "" {
		tif, err := parseTimeInForce(f.timeInForce)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithTimeInForce(tif))
	}
	if f.postOnly {
		opts = append(opts, option.WithPostOnly(true))
	}
	if f.reduceOnly {
		opts = append(opts, option.WithReduceOnly(true))
	}
	return opts, nil
}

func (a *app) orderCreateCommand() *cobra.Command {
	var f orderFlags
	cmd := &cobra.Command{
		Use:   "create SYMBOL SIDE AMOUNT",
		Short: "place an order, limit when --price is given",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			side, err := parseSide(args[1])
			if err != nil {
				return err
			}
			opts, err := f.options()
			if err != nil {
				return err
			}
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			order, err := ex.CreateOrder(ctx, args[0], side, args[2], opts...)
			if err != nil {
				return err
			}
			log.WithField("exchange", ex.Name()).WithField("id", order.ID).Info("order created")
			return a.print(order, func(out io.Writer) {
				renderOrders(out, ex.Name(), []*model.Order{order})
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.price, "price", "", "limit price")
	fs.StringVar(&f.orderType, "type", "", "limit or market, inferred from --price by default")
	fs.StringVar(&f.clientID, "client-id", "", "client order id")
	fs.StringVar(&f.timeInForce, "tif", "", "GTC, IOC, FOK or PO")
	fs.BoolVar(&f.postOnly, "post-only", false, "maker only")
	fs.BoolVar(&f.reduceOnly, "reduce-only", false, "reduce position only, contracts")
	f.addParams(fs)
	return cmd
}

func (a *app) orderCancelCommand() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "cancel ID SYMBOL",
		Short: "cancel an order",
		Args:  cobra.ExactArgs(2),
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

			order, err := ex.CancelOrder(ctx, args[0], args[1], opts...)
			if err != nil {
				return err
			}
			return a.print(order, func(out io.Writer) {
				renderOrders(out, ex.Name(), []*model.Order{order})
			})
		},
	}
	q.addParams(cmd.Flags())
	return cmd
}

func (a *app) orderGetCommand() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "get ID SYMBOL",
		Short: "query an order",
		Args:  cobra.ExactArgs(2),
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

			order, err := call(ctx, a, func(ctx context.Context) (*model.Order, error) {
				return ex.FetchOrder(ctx, args[0], args[1], opts...)
			})
			if err != nil {
				return err
			}
			return a.print(order, func(out io.Writer) {
				renderOrders(out, ex.Name(), []*model.Order{order})
			})
		},
	}
	q.addParams(cmd.Flags())
	return cmd
}
