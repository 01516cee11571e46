package model

import (
	"sort"

	"github.com/lemconn/exkit/types"
)

// Balance 单币种余额
type Balance struct {
	// Currency 币种
	Currency string `json:"currency"`
	// Free 可用余额
	Free types.ExDecimal `json:"free"`
	// Used 冻结余额
	Used types.ExDecimal `json:"used"`
	// Total 总余额
	Total types.ExDecimal `json:"total"`
}

// Balances 账户余额
type Balances struct {
	// Assets 币种 -> 余额
	Assets map[string]*Balance `json:"assets"`
	// Timestamp 时间戳
	Timestamp types.ExTimestamp `json:"timestamp"`
	// Info 原始响应
	Info types.Info `json:"info"`
}

// NewBalances 创建空余额
func NewBalances(info types.Info) *Balances {
	return &Balances{Assets: make(map[string]*Balance), Info: info}
}

// Set 写入余额，三者缺一时按 total = free + used 推导
func (b *Balances) Set(code string, free, used, total types.ExDecimal) *Balance {
	switch {
	case total.IsNull() && free.Valid && used.Valid:
		total = types.ExAdd(free, used)
	case free.IsNull() && total.Valid && used.Valid:
		free = types.ExSub(total, used)
	case used.IsNull() && total.Valid && free.Valid:
		used = types.ExSub(total, free)
	}
	balance := &Balance{Currency: code, Free: free, Used: used, Total: total}
	b.Assets[code] = balance
	return balance
}

// Get 获取指定币种余额，不存在时返回空余额
func (b *Balances) Get(code string) *Balance {
	if balance, ok := b.Assets[code]; ok {
		return balance
	}
	return &Balance{Currency: code}
}

// Currencies 按字母序返回所有币种
func (b *Balances) Currencies() []string {
	out := make([]string, 0, len(b.Assets))
	for code := range b.Assets {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// NonZero 返回总余额大于零的币种
func (b *Balances) NonZero() []*Balance {
	out := make([]*Balance, 0)
	for _, code := range b.Currencies() {
		if balance := b.Assets[code]; balance.Total.IsPositive() || balance.Free.IsPositive() {
			out = append(out, balance)
		}
	}
	return out
}
