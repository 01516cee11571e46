package common

import (
	"sync/atomic"
	"time"
)

// Nonce 单调不减的请求序号，默认取当前毫秒时间戳
// 同一毫秒内多次调用时递增，避免交易所因重复 nonce 拒绝请求
type Nonce struct {
	last atomic.Int64
	unit time.Duration
	now  func() time.Time
}

// NewNonce 创建 Nonce，unit 为时间单位（time.Millisecond、time.Second 等）
func NewNonce(unit time.Duration) *Nonce {
	if unit <= 0 {
		unit = time.Millisecond
	}
	return &Nonce{unit: unit, now: time.Now}
}

// SetClock 替换时钟，用于测试
func (n *Nonce) SetClock(now func() time.Time) {
	n.now = now
}

// Next 返回下一个 nonce
func (n *Nonce) Next() int64 {
	for {
		last := n.last.Load()
		next := n.now().UnixNano() / int64(n.unit)
		if next <= last {
			next = last + 1
		}
		if n.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

// Now 当前时间，跟随 SetClock
func (n *Nonce) Now() time.Time {
	return n.now()
}
