package model

import (
	"strconv"
	"time"
)

// Timeframe 时间框架类型
type Timeframe string

const (
	// Timeframe1m 1分钟
	Timeframe1m Timeframe = "1m"
	// Timeframe3m 3分钟
	Timeframe3m Timeframe = "3m"
	// Timeframe5m 5分钟
	Timeframe5m Timeframe = "5m"
	// Timeframe15m 15分钟
	Timeframe15m Timeframe = "15m"
	// Timeframe30m 30分钟
	Timeframe30m Timeframe = "30m"
	// Timeframe1h 1小时
	Timeframe1h Timeframe = "1h"
	// Timeframe2h 2小时
	Timeframe2h Timeframe = "2h"
	// Timeframe3h 3小时
	Timeframe3h Timeframe = "3h"
	// Timeframe4h 4小时
	Timeframe4h Timeframe = "4h"
	// Timeframe6h 6小时
	Timeframe6h Timeframe = "6h"
	// Timeframe8h 8小时
	Timeframe8h Timeframe = "8h"
	// Timeframe12h 12小时
	Timeframe12h Timeframe = "12h"
	// Timeframe1d 1天
	Timeframe1d Timeframe = "1d"
	// Timeframe3d 3天
	Timeframe3d Timeframe = "3d"
	// Timeframe1w 1周
	Timeframe1w Timeframe = "1w"
	// Timeframe2w 2周
	Timeframe2w Timeframe = "2w"
	// Timeframe1M 1月
	Timeframe1M Timeframe = "1M"
)

// Duration 时间框架对应的时长，1M 按 30 天计算，无法识别返回 0
func (t Timeframe) Duration() time.Duration {
	s := string(t)
	if len(s) < 2 {
		return 0
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0
	}
	unit := time.Duration(0)
	switch s[len(s)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	case 'M':
		unit = 30 * 24 * time.Hour
	case 'y':
		unit = 365 * 24 * time.Hour
	}
	return time.Duration(n) * unit
}

// Timeframes 统一时间框架 -> 交易所参数
type Timeframes map[Timeframe]string

// Lookup 查找交易所参数
func (t Timeframes) Lookup(tf string) (string, bool) {
	v, ok := t[Timeframe(tf)]
	return v, ok
}

// Keys 所有支持的统一时间框架
func (t Timeframes) Keys() []Timeframe {
	out := make([]Timeframe, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	return out
}
