package common

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttler 按交易所频率限制节流
type Throttler struct {
	limiter *rate.Limiter
}

// NewThrottler interval 为相邻两次请求的最小间隔，<= 0 时不节流
func NewThrottler(interval time.Duration) *Throttler {
	if interval <= 0 {
		return &Throttler{}
	}
	return &Throttler{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait 等待 cost 个令牌
func (t *Throttler) Wait(ctx context.Context, cost int) error {
	if t == nil || t.limiter == nil {
		return nil
	}
	if cost < 1 {
		cost = 1
	}
	if b := t.limiter.Burst(); cost > b {
		// 超过桶容量的请求按桶容量计
		cost = b
	}
	return t.limiter.WaitN(ctx, cost)
}

// Enabled 是否启用节流
func (t *Throttler) Enabled() bool {
	return t != nil && t.limiter != nil
}
