package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

func (a *app) depositsCommand() *cobra.Command {
	return a.transactionsCommand("deposits", "list deposits", exchange.FeatureFetchDeposits,
		func(ex exchange.Exchange) func(context.Context, string, ...option.ArgsOption) ([]*model.Transaction, error) {
			return ex.FetchDeposits
		})
}

func (a *app) withdrawalsCommand() *cobra.Command {
	return a.transactionsCommand("withdrawals", "list withdrawals", exchange.FeatureFetchWithdrawals,
		func(ex exchange.Exchange) func(context.Context, string, ...option.ArgsOption) ([]*model.Transaction, error) {
			return ex.FetchWithdrawals
		})
}

func (a *app) transactionsCommand(
	use, short string,
	feature exchange.Feature,
	method func(exchange.Exchange) func(context.Context, string, ...option.ArgsOption) ([]*model.Transaction, error),
) *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   use + " [CODE]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			code := ""
			if len(args) > 0 {
				code = args[0]
			}
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}
			if err := requireFeature(ex, feature); err != nil {
				return err
			}
			fetch := method(ex)
			ctx, cancel := a.context(cmd)
			defer cancel()

			txs, err := call(ctx, a, func(ctx context.Context) ([]*model.Transaction, error) {
				return fetch(ctx, code, opts...)
			})
			if err != nil {
				return err
			}
			return a.print(txs, func(out io.Writer) {
				renderTransactions(out, fmt.Sprintf("%s %s", ex.Name(), use), txs)
			})
		},
	}
	q.addLimit(cmd.Flags(), 0)
	q.addTimeRange(cmd.Flags())
	q.addParams(cmd.Flags())
	return cmd
}

func (a *app) depositAddressCommand() *cobra.Command {
	var q queryFlags
	var network string
	cmd := &cobra.Command{
		Use:   "deposit-address CODE",
		Short: "show deposit address of a currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			if network != "" {
				opts = append(opts, option.WithNetwork(network))
			}
			ex, err := a.open(a.exchange)
			if err != nil {
				return err
			}
			if err := requireFeature(ex, exchange.FeatureFetchDepositAddress); err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			addr, err := call(ctx, a, func(ctx context.Context) (*model.DepositAddress, error) {
				return ex.FetchDepositAddress(ctx, args[0], opts...)
			})
			if err != nil {
				return err
			}
			return a.print(addr, func(out io.Writer) {
				renderDepositAddress(out, addr)
			})
		},
	}
	q.addParams(cmd.Flags())
	cmd.Flags().StringVar(&network, "network", "", "chain name, e.g. TRC20")
	return cmd
}
