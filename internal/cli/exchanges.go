package cli

import (
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lemconn/exkit"
	"github.com/lemconn/exkit/config"
	"github.com/lemconn/exkit/exchange"
)

// listedFeatures exchanges 命令展示的功能列
var listedFeatures = []exchange.Feature{
	exchange.FeatureSpot,
	exchange.FeatureSwap,
	exchange.FeatureSandbox,
	exchange.FeatureFetchCurrencies,
	exchange.FeatureFetchTradingFees,
	exchange.FeatureFetchOrders,
	exchange.FeatureFetchMyTrades,
	exchange.FeatureFetchDeposits,
	exchange.FeatureWithdraw,
}

type exchangeInfo struct {
	Name       string                    `json:"name"`
	Configured bool                      `json:"configured"`
	Features   map[exchange.Feature]bool `json:"features"`
}

func (a *app) exchangesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exchanges",
		Short: "list supported exchanges and their features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := make([]*exchangeInfo, 0)
			for _, name := range exkit.SupportedExchanges() {
				ex, err := a.open(name)
				if err != nil {
					return err
				}
				info := &exchangeInfo{
					Name:       name,
					Configured: a.cfg.Exchanges[name].HasCredentials(),
					Features:   make(map[exchange.Feature]bool, len(listedFeatures)),
				}
				for _, f := range listedFeatures {
					info.Features[f] = ex.Has(f)
				}
				infos = append(infos, info)
			}
			return a.print(infos, func(out io.Writer) {
				renderExchanges(out, infos)
			})
		},
	}
}

func renderExchanges(out io.Writer, infos []*exchangeInfo) {
	header := table.Row{"Exchange", "Credentials"}
	for _, f := range listedFeatures {
		header = append(header, string(f))
	}
	t := newTable(out, "", header)
	for _, info := range infos {
		row := table.Row{info.Name, mark(info.Configured)}
		for _, f := range listedFeatures {
			row = append(row, mark(info.Features[f]))
		}
		t.AppendRow(row)
	}
	t.Render()
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "-"
}

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}

	var force bool
	var path string
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "write a sample config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"setup": "skip"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = a.configFile
			}
			if path == "" {
				path = filepath.Join(".", config.DefaultName+".yaml")
			}
			if err := config.WriteSample(path, force); err != nil {
				return err
			}
			cmd.Printf("config written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "target file, defaults to --config or ./exkit.yaml")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "print the effective config with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.cfg.ExchangeNames() {
				cmd.Printf("%s: %s\n", name, a.cfg.Exchanges[name])
			}
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
