package base

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
)

// MarketCache 市场与币种缓存
// 状态只有 未加载 -> 已加载 两种；加载失败时保持未加载
type MarketCache struct {
	mu             sync.RWMutex
	loaded         bool
	markets        model.Markets
	bySymbol       map[string]*model.Market
	byID           map[string][]*model.Market
	currencies     model.Currencies
	currenciesByID map[string]*model.Currency
	group          singleflight.Group
	onReload       []func()
}

// NewMarketCache 创建空缓存
func NewMarketCache() *MarketCache {
	return &MarketCache{
		bySymbol:       make(map[string]*model.Market),
		byID:           make(map[string][]*model.Market),
		currencies:     make(model.Currencies),
		currenciesByID: make(map[string]*model.Currency),
	}
}

// Loaded 是否已加载
func (c *MarketCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Set 替换缓存内容并标记为已加载
func (c *MarketCache) Set(markets model.Markets, currencies model.Currencies) {
	bySymbol := make(map[string]*model.Market, len(markets))
	byID := make(map[string][]*model.Market, len(markets))
	for _, m := range markets {
		bySymbol[m.Symbol] = m
		byID[m.ID] = append(byID[m.ID], m)
	}
	if currencies == nil {
		currencies = make(model.Currencies)
	}
	currenciesByID := make(map[string]*model.Currency, len(currencies))
	for _, cur := range currencies {
		currenciesByID[cur.ID] = cur
	}

	c.mu.Lock()
	c.markets = markets
	c.bySymbol = bySymbol
	c.byID = byID
	c.currencies = currencies
	c.currenciesByID = currenciesByID
	c.loaded = true
	c.mu.Unlock()
}

// Invalidate 清空缓存，并通知依赖市场数据的其它缓存
func (c *MarketCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.markets = nil
	c.bySymbol = make(map[string]*model.Market)
	c.byID = make(map[string][]*model.Market)
	hooks := append([]func(){}, c.onReload...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// OnReload 注册强制刷新时的回调
func (c *MarketCache) OnReload(fn func()) {
	c.mu.Lock()
	c.onReload = append(c.onReload, fn)
	c.mu.Unlock()
}

// Markets 缓存中的所有市场
func (c *MarketCache) Markets() model.Markets {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.markets
}

// BySymbol 按统一交易对查找
func (c *MarketCache) BySymbol(symbol string) (*model.Market, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.bySymbol[symbol]
	return m, ok
}

// ByID 按交易所市场ID查找，同一 ID 对应多个类型时优先返回 marketType 类型
func (c *MarketCache) ByID(id string, marketType model.MarketType) (*model.Market, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := c.byID[id]
	if len(list) == 0 {
		return nil, false
	}
	if marketType != "" {
		for _, m := range list {
			if m.Type == marketType {
				return m, true
			}
		}
	}
	return list[0], true
}

// Currencies 缓存中的所有币种
func (c *MarketCache) Currencies() model.Currencies {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currencies
}

// CurrencyByCode 按统一币种代码查找
func (c *MarketCache) CurrencyByCode(code string) (*model.Currency, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cur, ok := c.currencies[code]
	return cur, ok
}

// CurrencyByID 按交易所币种ID查找
func (c *MarketCache) CurrencyByID(id string) (*model.Currency, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cur, ok := c.currenciesByID[id]
	return cur, ok
}

// ========== BaseExchange 市场相关方法 ==========

// MarketCache 返回市场缓存
func (e *BaseExchange) MarketCache() *MarketCache {
	return e.markets
}

// LoadMarkets 加载市场信息，并发的首次加载只请求一次
func (e *BaseExchange) LoadMarkets(ctx context.Context, reload bool) (model.Markets, error) {
	if !reload && e.markets.Loaded() {
		return e.markets.Markets(), nil
	}
	if reload && e.markets.Loaded() {
		e.markets.Invalidate()
	}

	v, err, _ := e.markets.group.Do("markets", func() (interface{}, error) {
		if !reload && e.markets.Loaded() {
			return e.markets.Markets(), nil
		}

		var currencies model.Currencies
		if e.cfg.Features.Has(exchange.FeatureFetchCurrencies) {
			cur, err := e.hooks.FetchCurrencies(ctx)
			if err != nil {
				return nil, err
			}
			currencies = cur
			// 币种先行写入，解析市场时可用于币种代码转换
			e.markets.mu.Lock()
			e.markets.currencies = currencies
			e.markets.currenciesByID = make(map[string]*model.Currency, len(currencies))
			for _, c := range currencies {
				e.markets.currenciesByID[c.ID] = c
			}
			e.markets.mu.Unlock()
		}

		markets, err := e.hooks.FetchMarkets(ctx)
		if err != nil {
			return nil, err
		}
		e.checkMarkets(markets)
		e.markets.Set(markets, currencies)
		e.log.WithField("markets", len(markets)).Debug("markets loaded")
		return markets, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(model.Markets), nil
}

func (e *BaseExchange) checkMarkets(markets model.Markets) {
	seen := make(map[string]struct{}, len(markets))
	for _, m := range markets {
		key := string(m.Type) + "|" + m.ID
		if _, ok := seen[key]; ok {
			e.log.WithField("id", m.ID).Warn("duplicate market id")
		}
		seen[key] = struct{}{}
	}
}

// Market 从缓存获取单个市场信息
func (e *BaseExchange) Market(symbol string) (*model.Market, error) {
	if !e.markets.Loaded() {
		return nil, exchange.Errorf(exchange.ExchangeError, e.cfg.Name, "%s markets not loaded", e.cfg.Name)
	}
	if m, ok := e.markets.BySymbol(symbol); ok {
		return m, nil
	}
	if m, ok := e.markets.ByID(symbol, ""); ok {
		return m, nil
	}
	// 大小写不规范的统一交易对，如 btc/usdt
	if base, quote, settle, err := common.ParseSymbol(symbol); err == nil {
		if m, ok := e.markets.BySymbol(common.Symbol(base, quote, settle)); ok {
			return m, nil
		}
	}
	return nil, exchange.Errorf(exchange.BadSymbol, e.cfg.Name, "%s does not have market symbol %s", e.cfg.Name, symbol)
}

// LoadMarket 按需加载后获取单个市场信息
func (e *BaseExchange) LoadMarket(ctx context.Context, symbol string) (*model.Market, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	return e.Market(symbol)
}

// SafeMarket 按交易所市场ID查找，未找到返回 nil
func (e *BaseExchange) SafeMarket(id string, marketType model.MarketType) *model.Market {
	if id == "" {
		return nil
	}
	m, ok := e.markets.ByID(id, marketType)
	if !ok {
		return nil
	}
	return m
}

// SafeSymbol 交易所市场ID -> 统一交易对；优先使用已知市场，未找到时返回空字符串
func (e *BaseExchange) SafeSymbol(id string, market *model.Market, marketType model.MarketType) string {
	if m := e.SafeMarket(id, marketType); m != nil {
		return m.Symbol
	}
	if id == "" && market != nil {
		return market.Symbol
	}
	return ""
}

// SafeCurrencyCode 交易所币种ID -> 统一币种代码
func (e *BaseExchange) SafeCurrencyCode(id string) string {
	if id == "" {
		return ""
	}
	if cur, ok := e.markets.CurrencyByID(id); ok {
		return cur.Code
	}
	return e.CommonCurrencyCode(strings.ToUpper(id))
}

// CommonCurrencyCode 应用交易所的币种别名
func (e *BaseExchange) CommonCurrencyCode(code string) string {
	if v, ok := e.cfg.CommonCurrencies[code]; ok {
		return v
	}
	return code
}

// CurrencyID 统一币种代码 -> 交易所币种ID
func (e *BaseExchange) CurrencyID(code string) string {
	if cur, ok := e.markets.CurrencyByCode(code); ok {
		return cur.ID
	}
	for id, common := range e.cfg.CommonCurrencies {
		if common == code {
			return id
		}
	}
	return code
}

// Currency 按统一代码获取币种信息
func (e *BaseExchange) Currency(code string) (*model.Currency, error) {
	if cur, ok := e.markets.CurrencyByCode(code); ok {
		return cur, nil
	}
	return nil, exchange.Errorf(exchange.BadRequest, e.cfg.Name, "%s does not have currency code %s", e.cfg.Name, code)
}
