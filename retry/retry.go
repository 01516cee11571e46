// Package retry 调用方侧的重试封装，adapter 内部不做重试
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/lemconn/exkit/exchange"
)

var log = logrus.WithField("component", "retry")

// DefaultMaxRetries 默认最大重试次数（不含首次调用）
var DefaultMaxRetries uint64 = 5

type Options struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Retryable       func(err error) bool
	Notify          backoff.Notify
}

type Option func(*Options)

func WithMaxRetries(n uint64) Option {
	return func(o *Options) { o.MaxRetries = n }
}

// WithInterval 设置首次退避间隔与退避上限
func WithInterval(initial, max time.Duration) Option {
	return func(o *Options) {
		o.InitialInterval = initial
		o.MaxInterval = max
	}
}

func WithMaxElapsedTime(d time.Duration) Option {
	return func(o *Options) { o.MaxElapsedTime = d }
}

// WithRetryable 替换默认的可重试判断
func WithRetryable(fn func(err error) bool) Option {
	return func(o *Options) { o.Retryable = fn }
}

func WithNotify(fn backoff.Notify) Option {
	return func(o *Options) { o.Notify = fn }
}

func newOptions(opts ...Option) *Options {
	o := &Options{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: backoff.DefaultInitialInterval,
		MaxInterval:     backoff.DefaultMaxInterval,
		MaxElapsedTime:  backoff.DefaultMaxElapsedTime,
		Retryable:       exchange.IsRetryable,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Notify == nil {
		o.Notify = func(err error, wait time.Duration) {
			log.WithError(err).WithField("wait", wait).Warn("request failed, retrying")
		}
	}
	return o
}

// Do 以指数退避执行 op，仅 NetworkError 一类错误会重试，其余错误立即返回
func Do(ctx context.Context, op func() error, opts ...Option) error {
	o := newOptions(opts...)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.InitialInterval
	b.MaxInterval = o.MaxInterval
	b.MaxElapsedTime = o.MaxElapsedTime

	return backoff.RetryNotify(func() error {
		err := op()
		if err != nil && !o.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, o.MaxRetries), ctx), o.Notify)
}

// Value Do 的带返回值版本
func Value[T any](ctx context.Context, op func() (T, error), opts ...Option) (T, error) {
	var result T
	err := Do(ctx, func() error {
		v, err := op()
		if err != nil {
			return err
		}
		result = v
		return nil
	}, opts...)
	return result, err
}
