package base

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
)

// Credentials 私有接口需要的凭证
type Credentials struct {
	APIKey   bool
	Secret   bool
	Password bool
	UID      bool
}

// Config 交易所静态配置
type Config struct {
	// Name 交易所名称
	Name string
	// URLs API 名称 -> 基础地址
	URLs map[string]string
	// SandboxURLs 模拟盘地址，未配置的 API 沿用正式地址
	SandboxURLs map[string]string
	// RateLimit 相邻请求的最小间隔
	RateLimit time.Duration
	// RequiredCredentials 私有接口需要的凭证
	RequiredCredentials Credentials
	// HTTPExceptions 状态码映射，nil 时使用默认映射
	HTTPExceptions exchange.HTTPExceptions
	// Features 支持的功能
	Features exchange.Features
	// Timeframes K线周期映射
	Timeframes model.Timeframes
	// CommonCurrencies 交易所币种代码 -> 统一代码，例如 XBT -> BTC
	CommonCurrencies map[string]string
	// NonceUnit nonce 的时间单位，默认毫秒
	NonceUnit time.Duration
}

// Hooks 由具体交易所实现的扩展点
type Hooks interface {
	// Sign 填充请求地址、请求头与请求体，私有接口附加签名
	Sign(req *Request) error
	// HandleErrors 检查响应，返回交易所错误；无法识别时返回 nil
	HandleErrors(resp *common.Response) error
	// FetchMarkets 获取市场列表
	FetchMarkets(ctx context.Context, opts ...option.ArgsOption) (model.Markets, error)
	// FetchCurrencies 获取币种列表，不支持时返回 NotSupported
	FetchCurrencies(ctx context.Context, opts ...option.ArgsOption) (model.Currencies, error)
}

// Request 一次 REST 请求
type Request struct {
	// API 对应 Config.URLs 中的名称
	API string
	// Private 是否为私有接口
	Private bool
	// Method HTTP 方法
	Method string
	// Path 路由模板，例如 "orders/{pair}/{id}"
	Path string
	// Params 请求参数，模板占用的参数会被移除
	Params map[string]interface{}
	// Cost 节流权重，默认为 1
	Cost int

	// 以下字段由 Sign 填充
	URL     string
	Headers map[string]string
	Body    []byte
}

// BaseExchange 交易所基础实现
type BaseExchange struct {
	cfg            Config
	opts           *option.ExchangeOptions
	urls           map[string]string
	client         *common.HTTPClient
	throttler      *common.Throttler
	nonce          *common.Nonce
	httpExceptions exchange.HTTPExceptions
	markets        *MarketCache
	hooks          Hooks
	log            logrus.FieldLogger
}

// NewBaseExchange 创建基础交易所
func NewBaseExchange(cfg Config, opts *option.ExchangeOptions) (*BaseExchange, error) {
	if opts == nil {
		opts = option.ApplyOptions()
	}

	urls := make(map[string]string, len(cfg.URLs))
	for api, u := range cfg.URLs {
		urls[api] = u
		if opts.Sandbox {
			if s, ok := cfg.SandboxURLs[api]; ok {
				urls[api] = s
			}
		}
		if opts.BaseURL != "" {
			urls[api] = opts.BaseURL
		}
	}

	var logger logrus.FieldLogger = logrus.WithField("exchange", cfg.Name)
	if opts.Logger != nil {
		logger = opts.Logger.WithField("exchange", cfg.Name)
	}

	client := common.NewHTTPClient(cfg.Name)
	client.SetTimeout(opts.Timeout)
	client.SetDebug(opts.Debug)
	client.SetLogger(logger)
	if err := client.SetProxy(opts.Proxy); err != nil {
		return nil, errors.Wrapf(err, "%s: set proxy", cfg.Name)
	}

	rateLimit := cfg.RateLimit
	if !opts.EnableRateLimit {
		rateLimit = 0
	}

	httpExceptions := cfg.HTTPExceptions
	if httpExceptions == nil {
		httpExceptions = exchange.DefaultHTTPExceptions()
	}

	if cfg.Features == nil {
		cfg.Features = exchange.Features{}
	}

	return &BaseExchange{
		cfg:            cfg,
		opts:           opts,
		urls:           urls,
		client:         client,
		throttler:      common.NewThrottler(rateLimit),
		nonce:          common.NewNonce(cfg.NonceUnit),
		httpExceptions: httpExceptions,
		markets:        NewMarketCache(),
		log:            logger,
	}, nil
}

// SetHooks 设置交易所扩展点，必须在首次请求前调用
func (e *BaseExchange) SetHooks(hooks Hooks) {
	e.hooks = hooks
}

// Name 返回交易所名称
func (e *BaseExchange) Name() string {
	return e.cfg.Name
}

// Has 是否支持某项功能
func (e *BaseExchange) Has(feature exchange.Feature) bool {
	return e.cfg.Features.Has(feature)
}

// Features 支持的功能
func (e *BaseExchange) Features() exchange.Features {
	return e.cfg.Features
}

// Timeframes K线周期映射
func (e *BaseExchange) Timeframes() model.Timeframes {
	return e.cfg.Timeframes
}

// Timeframe 查找交易所K线周期参数
func (e *BaseExchange) Timeframe(tf string) (string, error) {
	if v, ok := e.cfg.Timeframes.Lookup(tf); ok {
		return v, nil
	}
	return "", exchange.Errorf(exchange.NotSupported, e.cfg.Name, "%s does not support timeframe %s", e.cfg.Name, tf)
}

// Options 初始化选项
func (e *BaseExchange) Options() *option.ExchangeOptions {
	return e.opts
}

// Option 自定义选项
func (e *BaseExchange) Option(key string) (interface{}, bool) {
	v, ok := e.opts.Options[key]
	return v, ok
}

// IsSandbox 是否模拟盘模式
func (e *BaseExchange) IsSandbox() bool {
	return e.opts.Sandbox
}

// APIKey API 密钥
func (e *BaseExchange) APIKey() string {
	return e.opts.APIKey
}

// Secret 私钥
func (e *BaseExchange) Secret() string {
	return e.opts.SecretKey
}

// Password passphrase
func (e *BaseExchange) Password() string {
	return e.opts.Password
}

// UID 用户 ID
func (e *BaseExchange) UID() string {
	return e.opts.UID
}

// Nonce 单调递增的 nonce
func (e *BaseExchange) Nonce() int64 {
	return e.nonce.Next()
}

// NonceSource 返回 nonce 生成器，用于测试时替换时钟
func (e *BaseExchange) NonceSource() *common.Nonce {
	return e.nonce
}

// Logger 日志
func (e *BaseExchange) Logger() logrus.FieldLogger {
	return e.log
}

// URL 返回 API 的基础地址
func (e *BaseExchange) URL(api string) string {
	return e.urls[api]
}

// CheckRequiredCredentials 校验私有接口需要的凭证
func (e *BaseExchange) CheckRequiredCredentials() error {
	missing := make([]string, 0, 4)
	if e.cfg.RequiredCredentials.APIKey && e.opts.APIKey == "" {
		missing = append(missing, "apiKey")
	}
	if e.cfg.RequiredCredentials.Secret && e.opts.SecretKey == "" {
		missing = append(missing, "secret")
	}
	if e.cfg.RequiredCredentials.Password && e.opts.Password == "" {
		missing = append(missing, "password")
	}
	if e.cfg.RequiredCredentials.UID && e.opts.UID == "" {
		missing = append(missing, "uid")
	}
	if len(missing) > 0 {
		return exchange.Errorf(exchange.AuthenticationError, e.cfg.Name,
			"%s requires \"%s\" credential", e.cfg.Name, strings.Join(missing, "\", \""))
	}
	return nil
}

// Fetch 执行请求：填充路由、校验凭证、签名、节流、发送、错误处理
func (e *BaseExchange) Fetch(ctx context.Context, req *Request) ([]byte, error) {
	if e.hooks == nil {
		return nil, exchange.NewError(exchange.ExchangeError, e.cfg.Name, "hooks not set")
	}

	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}
	routeParams := common.ExtractParams(req.Path)
	req.Path = common.ImplodeParams(req.Path, req.Params)
	req.Params = common.Omit(req.Params, routeParams...)
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}

	if req.Private {
		if err := e.CheckRequiredCredentials(); err != nil {
			return nil, err
		}
	}

	if err := e.hooks.Sign(req); err != nil {
		return nil, err
	}
	if req.URL == "" {
		return nil, exchange.Errorf(exchange.ExchangeError, e.cfg.Name, "%s sign produced empty url for %s", e.cfg.Name, req.Path)
	}

	if err := e.throttler.Wait(ctx, req.Cost); err != nil {
		return nil, exchange.WrapError(exchange.RequestTimeout, e.cfg.Name, err, "throttle")
	}

	resp, err := e.client.Do(ctx, req.Method, req.URL, req.Headers, req.Body)
	if err != nil {
		return nil, e.transportError(req, err)
	}

	if err := e.hooks.HandleErrors(resp); err != nil {
		e.log.WithError(err).WithField("url", req.URL).Debug("exchange error")
		return nil, err
	}
	if err := e.HandleHTTPStatus(resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// FetchJSON 执行请求并将响应解码到 out
func (e *BaseExchange) FetchJSON(ctx context.Context, req *Request, out interface{}) error {
	body, err := e.Fetch(ctx, req)
	if err != nil {
		return err
	}
	return e.Decode(body, out)
}

// Decode 解码响应，失败时返回 BadResponse
func (e *BaseExchange) Decode(body []byte, out interface{}) error {
	if len(body) == 0 {
		return exchange.NewError(exchange.NullResponse, e.cfg.Name, e.cfg.Name+" returned an empty response")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return exchange.WrapError(exchange.BadResponse, e.cfg.Name, err, e.cfg.Name+" "+truncate(string(body), 512))
	}
	return nil
}

// HandleHTTPStatus 按状态码映射错误，未收录的非 2xx 状态码返回 ExchangeError
func (e *BaseExchange) HandleHTTPStatus(resp *common.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	message := fmt.Sprintf("%s %s %s %d %s %s", e.cfg.Name, resp.Method, resp.URL, resp.StatusCode, resp.Status, string(resp.Body))
	if kind, ok := e.httpExceptions[resp.StatusCode]; ok {
		return exchange.NewError(kind, e.cfg.Name, message)
	}
	return exchange.NewError(exchange.ExchangeError, e.cfg.Name, message)
}

func (e *BaseExchange) transportError(req *Request, err error) error {
	message := fmt.Sprintf("%s %s %s", e.cfg.Name, req.Method, req.URL)
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return exchange.WrapError(exchange.RequestTimeout, e.cfg.Name, err, message)
	}
	return exchange.WrapError(exchange.NetworkError, e.cfg.Name, err, message)
}

// NotSupported 生成不支持错误
func (e *BaseExchange) NotSupported(method string) error {
	return exchange.Errorf(exchange.NotSupported, e.cfg.Name, "%s %s() is not supported yet", e.cfg.Name, method)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
