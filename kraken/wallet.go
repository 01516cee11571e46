package kraken

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

var krakenTransactionStatus = model.StatusTable[model.TransactionStatus]{
	"Initial": model.TransactionPending,
	"Pending": model.TransactionPending,
	"Success": model.TransactionOK,
	"Settled": model.TransactionPending,
	"Failure": model.TransactionFailed,
	"Partial": model.TransactionOK,
}

// depositMethodsFor 返回币种的充值方式，优先读缓存
func (k *Kraken) depositMethodsFor(ctx context.Context, currency *model.Currency) ([]*krakenDepositMethod, error) {
	k.dmMu.Lock()
	cached, ok := k.depositMethods[currency.Code]
	k.dmMu.Unlock()
	if ok {
		return cached, nil
	}

	var methods []*krakenDepositMethod
	if err := k.privatePost(ctx, "DepositMethods", map[string]interface{}{"asset": currency.ID}, &methods); err != nil {
		return nil, err
	}

	k.dmMu.Lock()
	k.depositMethods[currency.Code] = methods
	k.dmMu.Unlock()
	return methods, nil
}

// FetchDepositAddress 获取充值地址
// 未通过 params["method"] 指定充值方式时，按网络名匹配充值方式，匹配不到取第一个
func (k *Kraken) FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	currency, err := k.Currency(code)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	network := ""
	if args.Network != nil {
		network = strings.ToUpper(*args.Network)
		if alias, ok := krakenNetworks[network]; ok {
			network = alias
		}
	}

	method, _ := args.Params["method"].(string)
	if method == "" {
		methods, err := k.depositMethodsFor(ctx, currency)
		if err != nil {
			return nil, err
		}
		method = chooseDepositMethod(methods, network)
	}

	params := common.Extend(args.Params, map[string]interface{}{
		"asset":  currency.ID,
		"method": method,
	})
	var addresses []*krakenDepositAddress
	var raw json.RawMessage
	if err := k.privatePost(ctx, "DepositAddresses", params, &raw); err != nil {
		return nil, err
	}
	if err := k.Decode(raw, &addresses); err != nil {
		return nil, err
	}
	if len(addresses) == 0 || addresses[0].Address == "" {
		return nil, exchange.Errorf(exchange.InvalidAddress, krakenName, "%s DepositAddresses returned no addresses for %s", krakenName, code)
	}

	first, _ := json.Marshal(addresses[0])
	return &model.DepositAddress{
		Currency: currency.Code,
		Network:  network,
		Address:  addresses[0].Address,
		Tag:      addresses[0].Tag,
		Info:     types.Info(first),
	}, nil
}

func chooseDepositMethod(methods []*krakenDepositMethod, network string) string {
	if network != "" {
		for _, m := range methods {
			if strings.Contains(m.Method, network) {
				return m.Method
			}
		}
	}
	if len(methods) > 0 {
		return methods[0].Method
	}
	return ""
}

// FetchDeposits 获取充值记录
func (k *Kraken) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return k.fetchTransactions(ctx, "DepositStatus", model.TransactionDeposit, code, opts...)
}

// FetchWithdrawals 获取提现记录
func (k *Kraken) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return k.fetchTransactions(ctx, "WithdrawStatus", model.TransactionWithdrawal, code, opts...)
}

func (k *Kraken) fetchTransactions(ctx context.Context, path string, txType model.TransactionType, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{}
	if code != "" {
		currency, err := k.Currency(code)
		if err != nil {
			return nil, err
		}
		params["asset"] = currency.ID
	}
	if args.Since != nil {
		params["start"] = strconv.FormatInt(args.Since.Unix(), 10)
	}
	if args.Until != nil {
		params["end"] = strconv.FormatInt(args.Until.Unix()+1, 10)
	}

	var raw json.RawMessage
	if err := k.privatePost(ctx, path, common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	items, err := k.decodeTransactions(raw)
	if err != nil {
		return nil, err
	}

	txs := make([]*model.Transaction, 0, len(items))
	for _, item := range items {
		var t krakenTransaction
		if err := k.Decode(item, &t); err != nil {
			return nil, err
		}
		txs = append(txs, k.parseTransaction(&t, txType, item))
	}
	return base.FilterTransactions(txs, code, args), nil
}

// decodeTransactions 提现记录在分页模式下为 {"withdrawals": [...], "next_cursor": ...}
func (k *Kraken) decodeTransactions(raw json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var paged struct {
		Withdrawals []json.RawMessage `json:"withdrawals"`
	}
	if err := k.Decode(raw, &paged); err != nil {
		return nil, err
	}
	return paged.Withdrawals, nil
}

// parseTransaction status-prop 为 on-hold、cancel-pending、onhold 时视为处理中
func (k *Kraken) parseTransaction(t *krakenTransaction, txType model.TransactionType, info json.RawMessage) *model.Transaction {
	code := k.currencyCode(t.Asset)
	status := krakenTransactionStatus.Parse(t.Status)
	switch t.StatusProp {
	case "on-hold", "cancel-pending", "onhold":
		status = model.TransactionPending
	}

	feeCost := t.Fee
	if feeCost.IsNull() && txType == model.TransactionDeposit {
		feeCost = types.NewExDecimalFromInt(0)
	}

	return &model.Transaction{
		ID:        t.RefID,
		TxID:      t.TxID,
		Type:      txType,
		Timestamp: t.Time,
		Network:   t.Network,
		Address:   t.Info,
		Currency:  code,
		Amount:    t.Amount,
		Status:    status,
		Fee:       &model.Fee{Currency: code, Cost: feeCost},
		Info:      types.Info(info),
	}
}

// Withdraw 提现，必须通过 params["key"] 指定账户中预设的提现地址名称
func (k *Kraken) Withdraw(ctx context.Context, code string, amount string, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	args := option.ApplyArgsOptions(opts...)
	if _, ok := args.Params["key"]; !ok {
		return nil, exchange.Errorf(exchange.ExchangeError, krakenName,
			"%s withdraw() requires a 'key' parameter (withdrawal key name, as set up on your account)", krakenName)
	}
	if _, err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	currency, err := k.Currency(code)
	if err != nil {
		return nil, err
	}

	params := map[string]interface{}{
		"asset":  currency.ID,
		"amount": amount,
	}
	if address != "" {
		params["address"] = address
	}

	var raw json.RawMessage
	if err := k.privatePost(ctx, "Withdraw", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	var t krakenTransaction
	if err := k.Decode(raw, &t); err != nil {
		return nil, err
	}
	tx := k.parseTransaction(&t, model.TransactionWithdrawal, raw)
	if tx.Currency == "" {
		tx.Currency = currency.Code
	}
	if tx.Amount.IsNull() {
		tx.Amount = types.ParseExDecimal(amount)
	}
	if tx.Address == "" {
		tx.Address = address
	}
	return tx, nil
}
