package common

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Response HTTP 响应，非 2xx 状态码不视为错误，由调用方按交易所规则判定
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	URL        string
	Method     string
}

// IsSuccess 是否为 2xx 状态码
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPClient HTTP客户端
type HTTPClient struct {
	client   *resty.Client
	exchange string
	proxy    string
	debug    bool
	logger   logrus.FieldLogger
}

// NewHTTPClient 创建HTTP客户端，exchange 用于日志与指标标签
func NewHTTPClient(exchange string) *HTTPClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	return &HTTPClient{
		client:   client,
		exchange: exchange,
		logger:   logrus.WithField("exchange", exchange),
	}
}

// SetProxy 设置代理
func (c *HTTPClient) SetProxy(proxyURL string) error {
	if proxyURL == "" {
		c.client.RemoveProxy()
		c.proxy = ""
		return nil
	}
	if _, err := url.Parse(proxyURL); err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}
	c.client.SetProxy(proxyURL)
	c.proxy = proxyURL
	return nil
}

// GetProxy 获取当前代理设置
func (c *HTTPClient) GetProxy() string {
	return c.proxy
}

// SetHeader 设置所有请求共用的请求头
func (c *HTTPClient) SetHeader(key, value string) {
	c.client.SetHeader(key, value)
}

// SetTimeout 设置超时时间
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.client.SetTimeout(timeout)
	}
}

// SetDebug 设置是否启用调试模式
func (c *HTTPClient) SetDebug(debug bool) {
	c.debug = debug
}

// SetLogger 设置日志
func (c *HTTPClient) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetTransport 替换底层 RoundTripper
func (c *HTTPClient) SetTransport(transport http.RoundTripper) {
	c.client.SetTransport(transport)
}

// Do 发送请求，body 为 nil 时不携带请求体
func (c *HTTPClient) Do(ctx context.Context, method, rawURL string, headers map[string]string, body []byte) (*Response, error) {
	req := c.client.R().SetContext(ctx).SetHeaders(headers)
	if body != nil {
		req.SetBody(body)
	}

	if c.debug {
		c.logger.WithFields(logrus.Fields{
			"method":  method,
			"url":     rawURL,
			"headers": redactHeaders(headers),
			"body":    string(body),
		}).Debug("request")
	}

	start := time.Now()
	resp, err := req.Execute(method, rawURL)
	if err != nil {
		observeRequestError(c.exchange, method)
		return nil, err
	}
	elapsed := time.Since(start)
	observeRequest(c.exchange, method, resp.StatusCode(), elapsed)

	if c.debug {
		c.logger.WithFields(logrus.Fields{
			"status":  resp.Status(),
			"elapsed": elapsed,
			"body":    string(resp.Body()),
		}).Debug("response")
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		URL:        rawURL,
		Method:     method,
	}, nil
}

// redactHeaders 调试输出时隐藏签名与密钥
func redactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		switch http.CanonicalHeaderKey(k) {
		case "Content-Type", "Accept", "User-Agent":
			out[k] = v
		default:
			out[k] = "***"
		}
	}
	return out
}
