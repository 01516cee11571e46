package binance

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

// 充值状态：0 待确认、6 已入账不可提、1 成功
var binanceDepositStatus = model.StatusTable[model.TransactionStatus]{
	"0": model.TransactionPending,
	"1": model.TransactionOK,
	"6": model.TransactionOK,
}

// 提现状态：0 已发送确认邮件、1 已取消、2 待确认、3 被拒绝、4 处理中、5 失败、6 完成
var binanceWithdrawStatus = model.StatusTable[model.TransactionStatus]{
	"0": model.TransactionPending,
	"1": model.TransactionCanceled,
	"2": model.TransactionPending,
	"3": model.TransactionFailed,
	"4": model.TransactionPending,
	"5": model.TransactionFailed,
	"6": model.TransactionOK,
}

// 统一链名 -> Binance 链名
var binanceNetworks = map[string]string{
	"ERC20": "ETH",
	"TRC20": "TRX",
	"BEP20": "BSC",
	"BEP2":  "BNB",
	"SOL":   "SOL",
	"ARB":   "ARBITRUM",
	"OP":    "OPTIMISM",
}

func networkID(network string) string {
	if id, ok := binanceNetworks[strings.ToUpper(network)]; ok {
		return id
	}
	return network
}

// FetchDepositAddress 获取充值地址，可通过 option.WithNetwork 指定链
func (b *Binance) FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{"coin": b.CurrencyID(code)}
	if args.Network != nil && *args.Network != "" {
		params["network"] = networkID(*args.Network)
	}
	var raw json.RawMessage
	if err := b.request(ctx, "sapi", http.MethodGet, "sapi/v1/capital/deposit/address", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	var addr binanceDepositAddress
	if err := b.Decode(raw, &addr); err != nil {
		return nil, err
	}
	if addr.Address == "" {
		return nil, exchange.Errorf(exchange.InvalidAddress, binanceName, "%s fetchDepositAddress() returned an empty address for %s", binanceName, code)
	}

	network := ""
	if n, ok := params["network"].(string); ok {
		network = n
	}
	return &model.DepositAddress{
		Currency: b.SafeCurrencyCode(addr.Coin),
		Network:  network,
		Address:  addr.Address,
		Tag:      addr.Tag,
		Info:     types.Info(raw),
	}, nil
}

// FetchDeposits 充值记录，code 为空时返回全部币种
func (b *Binance) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return b.fetchTransactions(ctx, model.TransactionDeposit, "sapi/v1/capital/deposit/hisrec", code, opts...)
}

// FetchWithdrawals 提现记录，code 为空时返回全部币种
func (b *Binance) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return b.fetchTransactions(ctx, model.TransactionWithdrawal, "sapi/v1/capital/withdraw/history", code, opts...)
}

func (b *Binance) fetchTransactions(ctx context.Context, kind model.TransactionType, path, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{}
	if code != "" {
		params["coin"] = b.CurrencyID(code)
	}
	if args.Since != nil {
		params["startTime"] = args.Since.UnixMilli()
	}
	if args.Until != nil {
		params["endTime"] = args.Until.UnixMilli()
	}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}

	var rows []json.RawMessage
	if err := b.request(ctx, "sapi", http.MethodGet, path, common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	txs := make([]*model.Transaction, 0, len(rows))
	for _, row := range rows {
		var t binanceTransaction
		if err := b.Decode(row, &t); err != nil {
			return nil, err
		}
		txs = append(txs, b.parseTransaction(&t, row, kind))
	}
	return base.FilterTransactions(txs, code, args), nil
}

// Withdraw 提现，返回的记录只有 ID，状态为 pending
func (b *Binance) Withdraw(ctx context.Context, code string, amount string, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	if address == "" {
		return nil, exchange.Errorf(exchange.InvalidAddress, binanceName, "%s withdraw() requires a valid address", binanceName)
	}
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	coin := b.CurrencyID(code)
	params := map[string]interface{}{
		"coin":    coin,
		"address": address,
		"amount":  amount,
	}
	if args.Tag != nil && *args.Tag != "" {
		params["addressTag"] = *args.Tag
	}
	if args.Network != nil && *args.Network != "" {
		params["network"] = networkID(*args.Network)
	}

	var raw json.RawMessage
	if err := b.request(ctx, "sapi", http.MethodPost, "sapi/v1/capital/withdraw/apply", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := b.Decode(raw, &resp); err != nil {
		return nil, err
	}
	tx := &model.Transaction{
		ID:       resp.ID,
		Type:     model.TransactionWithdrawal,
		Currency: b.SafeCurrencyCode(coin),
		Address:  address,
		Amount:   types.ParseExDecimal(amount),
		Status:   model.TransactionPending,
		Info:     types.Info(raw),
	}
	if n, ok := params["network"].(string); ok {
		tx.Network = n
	}
	if args.Tag != nil {
		tx.Tag = *args.Tag
	}
	return tx, nil
}

// parseTransaction 充值时间取 insertTime，提现时间取 applyTime
func (b *Binance) parseTransaction(t *binanceTransaction, info json.RawMessage, kind model.TransactionType) *model.Transaction {
	status := strconv.Itoa(t.Status)
	tx := &model.Transaction{
		ID:       t.ID,
		TxID:     t.TxID,
		Type:     kind,
		Network:  t.Network,
		Address:  t.Address,
		Tag:      t.AddressTag,
		Currency: b.SafeCurrencyCode(t.Coin),
		Amount:   t.Amount,
		Comment:  t.Info,
		Info:     types.Info(info),
	}
	if kind == model.TransactionDeposit {
		tx.Status = binanceDepositStatus.Parse(status)
		tx.Timestamp = t.InsertTime
		tx.Fee = &model.Fee{Currency: tx.Currency, Cost: types.NewExDecimalFromInt(0)}
	} else {
		tx.Status = binanceWithdrawStatus.Parse(status)
		tx.Timestamp = firstTimestamp(t.ApplyTime, t.InsertTime)
		tx.Updated = t.CompleteTime
		if t.TransactionFee.Valid {
			tx.Fee = &model.Fee{Currency: tx.Currency, Cost: t.TransactionFee}
		}
	}
	return tx
}
