package gate

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

// gateTransactionStatus 未列出的中间状态（PEND、REQUEST、MANUAL、VERIFY 等）均视为处理中
var gateTransactionStatus = map[string]model.TransactionStatus{
	"DONE":    model.TransactionOK,
	"CANCEL":  model.TransactionCanceled,
	"FAIL":    model.TransactionFailed,
	"INVALID": model.TransactionFailed,
	"BLOCKED": model.TransactionFailed,
}

func parseTransactionStatus(raw string) model.TransactionStatus {
	if status, ok := gateTransactionStatus[strings.ToUpper(raw)]; ok {
		return status
	}
	return model.TransactionPending
}

// FetchDepositAddress wallet/deposit_address 返回各链地址，未指定链时取第一条可用地址
func (g *Gate) FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	if _, err := g.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	network := ""
	if args.Network != nil {
		network = strings.ToUpper(*args.Network)
	}
	var raw json.RawMessage
	params := common.Extend(map[string]interface{}{"currency": g.CurrencyID(code)}, args.Params)
	if err := g.private(ctx, http.MethodGet, "wallet/deposit_address", params, &raw); err != nil {
		return nil, err
	}
	var result gateDepositAddress
	if err := g.Decode(raw, &result); err != nil {
		return nil, err
	}
	for _, a := range result.MultichainAddresses {
		if network != "" && !strings.EqualFold(a.Chain, network) {
			continue
		}
		if a.ObtainFailed != 0 || a.Address == "" {
			continue
		}
		return &model.DepositAddress{
			Currency: g.SafeCurrencyCode(result.Currency),
			Network:  strings.ToUpper(a.Chain),
			Address:  a.Address,
			Tag:      a.PaymentID,
			Info:     types.Info(raw),
		}, nil
	}
	return nil, exchange.Errorf(exchange.InvalidAddress, gateName, "%s fetchDepositAddress() cannot find a deposit address for %s %s", gateName, code, network)
}

// FetchDeposits wallet/deposits
func (g *Gate) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return g.fetchTransactions(ctx, model.TransactionDeposit, "wallet/deposits", code, opts...)
}

// FetchWithdrawals wallet/withdrawals
func (g *Gate) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return g.fetchTransactions(ctx, model.TransactionWithdrawal, "wallet/withdrawals", code, opts...)
}

func (g *Gate) fetchTransactions(ctx context.Context, kind model.TransactionType, path, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	if _, err := g.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{}
	if code != "" {
		params["currency"] = g.CurrencyID(code)
	}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}
	addTimeRange(params, args)

	var rows []json.RawMessage
	if err := g.private(ctx, http.MethodGet, path, common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	txs := make([]*model.Transaction, 0, len(rows))
	for _, row := range rows {
		var t gateTransaction
		if err := g.Decode(row, &t); err != nil {
			return nil, err
		}
		txs = append(txs, g.parseTransaction(&t, kind, row))
	}
	return base.FilterTransactions(txs, code, args), nil
}

// Withdraw 链上提现 POST withdrawals，network 对应 chain
func (g *Gate) Withdraw(ctx context.Context, code string, amount string, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	if address == "" {
		return nil, exchange.Errorf(exchange.InvalidAddress, gateName, "%s withdraw() requires a valid address", gateName)
	}
	if _, err := g.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{
		"currency": g.CurrencyID(code),
		"address":  address,
		"amount":   amount,
	}
	if args.Tag != nil && *args.Tag != "" {
		params["memo"] = *args.Tag
	}
	if args.Network != nil && *args.Network != "" {
		params["chain"] = strings.ToUpper(*args.Network)
	}

	var raw json.RawMessage
	if err := g.private(ctx, http.MethodPost, "withdrawals", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	var t gateTransaction
	if err := g.Decode(raw, &t); err != nil {
		return nil, err
	}
	if t.ID == "" {
		return nil, g.emptyResponse("withdraw")
	}
	tx := g.parseTransaction(&t, model.TransactionWithdrawal, raw)
	if tx.Amount.IsNull() {
		tx.Amount = types.ParseExDecimal(amount)
	}
	if tx.Address == "" {
		tx.Address = address
	}
	return tx, nil
}

// parseTransaction 充值记录无手续费字段，按 0 计
func (g *Gate) parseTransaction(t *gateTransaction, kind model.TransactionType, info json.RawMessage) *model.Transaction {
	tx := &model.Transaction{
		ID:        t.ID,
		TxID:      t.Txid,
		Type:      kind,
		Timestamp: t.Timestamp,
		Network:   strings.ToUpper(t.Chain),
		Address:   t.Address,
		Tag:       t.Memo,
		Currency:  g.SafeCurrencyCode(t.Currency),
		Amount:    t.Amount,
		Status:    parseTransactionStatus(t.Status),
		Info:      types.Info(info),
	}
	fee := t.Fee
	if kind == model.TransactionDeposit {
		fee = fee.Or(types.NewExDecimalFromInt(0))
	}
	if fee.Valid {
		tx.Fee = &model.Fee{Currency: tx.Currency, Cost: fee}
	}
	return tx
}
