// Package config exkit 命令行使用的配置，YAML 文件 + 环境变量（EXKIT_ 前缀）+ .env
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/lemconn/exkit"
	"github.com/lemconn/exkit/option"
)

const (
	EnvPrefix      = "EXKIT"
	DefaultName    = "exkit"
	DefaultDotenv  = ".env"
	DefaultTimeout = 10 * time.Second
)

type Config struct {
	Log       LogConfig                 `mapstructure:"log" yaml:"log"`
	Metrics   MetricsConfig             `mapstructure:"metrics" yaml:"metrics"`
	Retry     RetryConfig               `mapstructure:"retry" yaml:"retry"`
	Exchanges map[string]ExchangeConfig `mapstructure:"exchanges" yaml:"exchanges"`
}

// LogConfig file 为空时输出到 stderr
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file,omitempty"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr,omitempty"`
}

type RetryConfig struct {
	MaxRetries      uint64        `mapstructure:"max_retries" yaml:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval" yaml:"max_interval"`
}

type ExchangeConfig struct {
	APIKey          string        `mapstructure:"api_key" yaml:"api_key"`
	SecretKey       string        `mapstructure:"secret_key" yaml:"secret_key"`
	Password        string        `mapstructure:"password" yaml:"password,omitempty"`
	UID             string        `mapstructure:"uid" yaml:"uid,omitempty"`
	Sandbox         bool          `mapstructure:"sandbox" yaml:"sandbox"`
	Proxy           string        `mapstructure:"proxy" yaml:"proxy,omitempty"`
	BaseURL         string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
	EnableRateLimit *bool         `mapstructure:"enable_rate_limit" yaml:"enable_rate_limit,omitempty"`
	Debug           bool          `mapstructure:"debug" yaml:"debug,omitempty"`
}

var exchangeKeys = []string{
	"api_key", "secret_key", "password", "uid", "sandbox",
	"proxy", "base_url", "timeout", "enable_rate_limit", "debug",
}

// 需要 passphrase 的交易所
var passwordRequired = map[string]bool{
	exkit.ExchangeOKX: true,
}

// Default 未加载任何文件时的配置
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Retry: RetryConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		Exchanges: map[string]ExchangeConfig{},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.max_size", def.Log.MaxSize)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.max_age", def.Log.MaxAge)
	v.SetDefault("retry.max_retries", def.Retry.MaxRetries)
	v.SetDefault("retry.initial_interval", def.Retry.InitialInterval)
	v.SetDefault("retry.max_interval", def.Retry.MaxInterval)
}

// bindEnv 为每个支持的交易所绑定 EXKIT_EXCHANGES_<NAME>_<KEY>，
// 另外接受 <NAME>_API_KEY 这类短名
func bindEnv(v *viper.Viper) error {
	var err error
	for _, key := range []string{
		"log.level", "log.format", "log.file", "metrics.addr",
		"retry.max_retries", "retry.initial_interval", "retry.max_interval",
	} {
		err = multierr.Append(err, v.BindEnv(key))
	}
	for _, name := range exkit.SupportedExchanges() {
		for _, key := range exchangeKeys {
			full := "exchanges." + name + "." + key
			short := strings.ToUpper(name + "_" + key)
			err = multierr.Append(err, v.BindEnv(full, envName(full), short))
		}
	}
	return err
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load 读取配置。file 为空时依次在当前目录与 $HOME/.exkit 下查找 exkit.yaml，
// 找不到文件不算错误；dotenv 为空时尝试加载当前目录的 .env
func Load(file string, dotenv ...string) (*Config, error) {
	if err := loadDotenv(dotenv...); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, errors.Wrap(err, "bind env")
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	} else {
		v.SetConfigName(DefaultName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.exkit")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		logrus.WithField("file", used).Debug("config loaded")
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotenv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultDotenv); err != nil {
			return nil
		}
		files = []string{DefaultDotenv}
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Wrap(err, "load dotenv")
	}
	return nil
}

// normalize 交易所名统一小写
func (c *Config) normalize() {
	if c.Exchanges == nil {
		c.Exchanges = map[string]ExchangeConfig{}
		return
	}
	out := make(map[string]ExchangeConfig, len(c.Exchanges))
	for name, ex := range c.Exchanges {
		out[strings.ToLower(name)] = ex
	}
	c.Exchanges = out
}

// Validate 汇总所有配置错误后一次返回
func (c *Config) Validate() error {
	var err error
	if _, e := logrus.ParseLevel(c.Log.Level); e != nil {
		err = multierr.Append(err, errors.Errorf("log.level: invalid level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		err = multierr.Append(err, errors.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}
	if c.Retry.InitialInterval < 0 || c.Retry.MaxInterval < 0 {
		err = multierr.Append(err, errors.New("retry: intervals must not be negative"))
	}
	if c.Retry.MaxInterval > 0 && c.Retry.InitialInterval > c.Retry.MaxInterval {
		err = multierr.Append(err, errors.New("retry: initial_interval exceeds max_interval"))
	}

	for _, name := range c.ExchangeNames() {
		ex := c.Exchanges[name]
		if !exkit.IsExchangeSupported(name) {
			err = multierr.Append(err, errors.Errorf("exchanges.%s: exchange not supported", name))
			continue
		}
		if ex.APIKey != "" && ex.SecretKey == "" {
			err = multierr.Append(err, errors.Errorf("exchanges.%s: secret_key is required with api_key", name))
		}
		if ex.APIKey != "" && passwordRequired[name] && ex.Password == "" {
			err = multierr.Append(err, errors.Errorf("exchanges.%s: password is required", name))
		}
		if ex.Timeout < 0 {
			err = multierr.Append(err, errors.Errorf("exchanges.%s: timeout must not be negative", name))
		}
	}
	return err
}

// ExchangeNames 已配置的交易所，按名称排序
func (c *Config) ExchangeNames() []string {
	names := make([]string, 0, len(c.Exchanges))
	for name := range c.Exchanges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options 将交易所配置转换为构造参数，未配置的交易所只带默认超时
func (c *Config) Options(name string) []option.Option {
	ex, ok := c.Exchanges[strings.ToLower(name)]
	if !ok {
		return []option.Option{option.WithTimeout(DefaultTimeout)}
	}
	return ex.Options()
}

func (e ExchangeConfig) Options() []option.Option {
	timeout := e.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	opts := []option.Option{
		option.WithTimeout(timeout),
		option.WithSandbox(e.Sandbox),
		option.WithDebug(e.Debug),
	}
	if e.APIKey != "" {
		opts = append(opts, option.WithAPIKey(e.APIKey), option.WithSecretKey(e.SecretKey))
	}
	if e.Password != "" {
		opts = append(opts, option.WithPassword(e.Password))
	}
	if e.UID != "" {
		opts = append(opts, option.WithUID(e.UID))
	}
	if e.Proxy != "" {
		opts = append(opts, option.WithProxy(e.Proxy))
	}
	if e.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(e.BaseURL))
	}
	if e.EnableRateLimit != nil {
		opts = append(opts, option.WithEnableRateLimit(*e.EnableRateLimit))
	}
	return opts
}

// HasCredentials 是否配置了私有接口凭证
func (e ExchangeConfig) HasCredentials() bool {
	return e.APIKey != "" && e.SecretKey != ""
}

func (e ExchangeConfig) String() string {
	return fmt.Sprintf("api_key=%s sandbox=%v", mask(e.APIKey), e.Sandbox)
}

func mask(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
