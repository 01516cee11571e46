// Package cli exkit 命令行
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lemconn/exkit"
	"github.com/lemconn/exkit/config"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/retry"
)

var log = logrus.WithField("component", "cli")

// newExchange 测试中替换为桩实现
var newExchange = exkit.NewExchange

type app struct {
	out io.Writer

	configFile string
	envFile    string
	exchange   string
	output     string
	logLevel   string
	logFormat  string
	logFile    string
	metrics    string
	timeout    time.Duration
	retries    int

	cfg           *config.Config
	metricsServer *metricsServer
}

// Execute 运行 exkit 根命令，收到 SIGINT / SIGTERM 时取消上下文
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand(os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("command failed")
		return err
	}
	return nil
}

func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "exkit",
		Short:         "unified crypto exchange client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default ./exkit.yaml or $HOME/.exkit/exkit.yaml)")
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file (default ./.env)")
	flags.StringVarP(&a.exchange, "exchange", "e", exkit.ExchangeBinance, "exchange name")
	flags.StringVarP(&a.output, "output", "o", outputTable, "output format: table or json")
	flags.StringVar(&a.logLevel, "log-level", "", "log level, overrides config")
	flags.StringVar(&a.logFormat, "log-format", "", "log format text or json, overrides config")
	flags.StringVar(&a.logFile, "log-file", "", "rotate logs into this file, overrides config")
	flags.StringVar(&a.metrics, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "timeout of one command")
	flags.IntVar(&a.retries, "retries", -1, "retry attempts on network errors, -1 uses config")

	root.AddCommand(
		a.marketsCommand(),
		a.tickerCommand(),
		a.tickersCommand(),
		a.orderBookCommand(),
		a.tradesCommand(),
		a.ohlcvCommand(),
		a.balanceCommand(),
		a.ordersCommand(),
		a.orderCommand(),
		a.depositsCommand(),
		a.withdrawalsCommand(),
		a.depositAddressCommand(),
		a.compareCommand(),
		a.exchangesCommand(),
		a.configCommand(),
	)
	return root
}

// skipSetup 不需要读取配置的命令
func skipSetup(cmd *cobra.Command) bool {
	return cmd.Annotations["setup"] == "skip"
}

func (a *app) setup(cmd *cobra.Command) error {
	switch a.output {
	case outputTable, outputJSON:
	default:
		return errors.Errorf("unknown output format %q", a.output)
	}
	if skipSetup(cmd) {
		a.cfg = config.Default()
		return nil
	}

	var dotenv []string
	if a.envFile != "" {
		dotenv = append(dotenv, a.envFile)
	}
	cfg, err := config.Load(a.configFile, dotenv...)
	if err != nil {
		return err
	}
	a.applyFlags(cmd.Flags(), cfg)
	a.cfg = cfg

	if err := setupLogging(cfg.Log); err != nil {
		return err
	}
	if cfg.Metrics.Addr != "" {
		a.metricsServer = serveMetrics(cfg.Metrics.Addr)
	}
	return nil
}

// applyFlags 显式传入的命令行参数覆盖配置文件
func (a *app) applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = a.metrics
	}
	if a.retries >= 0 {
		cfg.Retry.MaxRetries = uint64(a.retries)
	}
}

func (a *app) teardown() error {
	if a.metricsServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.metricsServer.Shutdown(ctx)
}

// context 单条命令的超时上下文
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// open 按名称创建交易所实例，凭证来自配置
func (a *app) open(name string) (exchange.Exchange, error) {
	name = strings.ToLower(name)
	ex, err := newExchange(name, a.cfg.Options(name)...)
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// requireFeature 不支持的功能直接返回 NotSupported
func requireFeature(ex exchange.Exchange, feature exchange.Feature) error {
	if ex.Has(feature) {
		return nil
	}
	return exchange.Errorf(exchange.NotSupported, ex.Name(), "%s does not support %s", ex.Name(), feature)
}

func (a *app) retryOptions() []retry.Option {
	return []retry.Option{
		retry.WithMaxRetries(a.cfg.Retry.MaxRetries),
		retry.WithInterval(a.cfg.Retry.InitialInterval, a.cfg.Retry.MaxInterval),
	}
}

// call 只读接口按配置重试，下单、撤单、提现不经过这里
func call[T any](ctx context.Context, a *app, op func(ctx context.Context) (T, error)) (T, error) {
	return retry.Value(ctx, func() (T, error) {
		return op(ctx)
	}, a.retryOptions()...)
}
