package option

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ExchangeOptions 交易所配置选项（用于 Exchange 初始化）
type ExchangeOptions struct {
	APIKey    string
	SecretKey string
	Password  string // 密码（OKX 等需要 passphrase 的交易所）
	UID       string
	Sandbox   bool
	Proxy     string
	BaseURL   string
	Debug     bool
	Timeout   time.Duration
	// EnableRateLimit 是否按交易所频率限制节流，默认开启
	EnableRateLimit bool
	Logger          logrus.FieldLogger
	Options         map[string]interface{} // 其他自定义选项
}

// Option 配置选项函数类型（用于 Exchange 初始化）
type Option func(*ExchangeOptions)

// ApplyOptions 应用配置选项
func ApplyOptions(opts ...Option) *ExchangeOptions {
	o := &ExchangeOptions{
		Timeout:         30 * time.Second,
		EnableRateLimit: true,
		Options:         make(map[string]interface{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithAPIKey 设置 API Key
func WithAPIKey(apiKey string) Option {
	return func(opts *ExchangeOptions) {
		opts.APIKey = apiKey
	}
}

// WithSecretKey 设置 Secret Key
func WithSecretKey(secretKey string) Option {
	return func(opts *ExchangeOptions) {
		opts.SecretKey = secretKey
	}
}

// WithPassword 设置 Password（用于 OKX 等需要 password 的交易所）
func WithPassword(password string) Option {
	return func(opts *ExchangeOptions) {
		opts.Password = password
	}
}

// WithUID 设置用户 ID
func WithUID(uid string) Option {
	return func(opts *ExchangeOptions) {
		opts.UID = uid
	}
}

// WithSandbox 设置是否使用模拟盘
func WithSandbox(sandbox bool) Option {
	return func(opts *ExchangeOptions) {
		opts.Sandbox = sandbox
	}
}

// WithProxy 设置代理
func WithProxy(proxy string) Option {
	return func(opts *ExchangeOptions) {
		opts.Proxy = proxy
	}
}

// WithBaseURL 设置基础 URL（覆盖所有 API 的地址，常用于测试）
func WithBaseURL(baseURL string) Option {
	return func(opts *ExchangeOptions) {
		opts.BaseURL = baseURL
	}
}

// WithDebug 设置是否启用调试模式
func WithDebug(debug bool) Option {
	return func(opts *ExchangeOptions) {
		opts.Debug = debug
	}
}

// WithTimeout 设置请求超时
func WithTimeout(timeout time.Duration) Option {
	return func(opts *ExchangeOptions) {
		opts.Timeout = timeout
	}
}

// WithEnableRateLimit 设置是否启用节流
func WithEnableRateLimit(enable bool) Option {
	return func(opts *ExchangeOptions) {
		opts.EnableRateLimit = enable
	}
}

// WithLogger 设置日志
func WithLogger(logger logrus.FieldLogger) Option {
	return func(opts *ExchangeOptions) {
		opts.Logger = logger
	}
}

// WithOption 设置自定义选项
func WithOption(key string, value interface{}) Option {
	return func(opts *ExchangeOptions) {
		if opts.Options == nil {
			opts.Options = make(map[string]interface{})
		}
		opts.Options[key] = value
	}
}
