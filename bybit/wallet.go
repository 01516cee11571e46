package bybit

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

// 充值状态：0 未知、1 待确认、2 处理中、3 成功、4 失败、10011 未到账、10012 已到账
var bybitDepositStatus = model.StatusTable[model.TransactionStatus]{
	"0":     model.TransactionPending,
	"1":     model.TransactionPending,
	"2":     model.TransactionPending,
	"3":     model.TransactionOK,
	"4":     model.TransactionFailed,
	"10011": model.TransactionPending,
	"10012": model.TransactionOK,
}

var bybitWithdrawStatus = model.StatusTable[model.TransactionStatus]{
	"SecurityCheck":           model.TransactionPending,
	"Pending":                 model.TransactionPending,
	"BlockchainConfirmed":     model.TransactionPending,
	"MoreInformationRequired": model.TransactionPending,
	"success":                 model.TransactionOK,
	"CancelByUser":            model.TransactionCanceled,
	"Reject":                  model.TransactionFailed,
	"Fail":                    model.TransactionFailed,
}

// FetchDepositAddress /v5/asset/deposit/query-address，未指定链时取第一条
func (b *Bybit) FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	coin := b.CurrencyID(code)
	params := map[string]interface{}{"coin": coin}
	network := ""
	if args.Network != nil && *args.Network != "" {
		network = strings.ToUpper(*args.Network)
		params["chainType"] = network
	}
	var raw json.RawMessage
	if err := b.private(ctx, http.MethodGet, "v5/asset/deposit/query-address", common.Extend(params, args.Params), &raw); err != nil {
		return nil, err
	}
	var result bybitDepositAddress
	if err := b.Decode(raw, &result); err != nil {
		return nil, err
	}
	for _, ch := range result.Chains {
		if network != "" && !strings.EqualFold(ch.ChainType, network) && !strings.EqualFold(ch.Chain, network) {
			continue
		}
		if ch.AddressDeposit == "" {
			break
		}
		return &model.DepositAddress{
			Currency: b.SafeCurrencyCode(result.Coin),
			Network:  strings.ToUpper(ch.Chain),
			Address:  ch.AddressDeposit,
			Tag:      ch.TagDeposit,
			Info:     types.Info(raw),
		}, nil
	}
	return nil, exchange.Errorf(exchange.InvalidAddress, bybitName, "%s fetchDepositAddress() cannot find a deposit address for %s %s", bybitName, code, network)
}

// FetchDeposits /v5/asset/deposit/query-record
func (b *Bybit) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return b.fetchTransactions(ctx, model.TransactionDeposit, "v5/asset/deposit/query-record", code, opts...)
}

// FetchWithdrawals /v5/asset/withdraw/query-record
func (b *Bybit) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return b.fetchTransactions(ctx, model.TransactionWithdrawal, "v5/asset/withdraw/query-record", code, opts...)
}

func (b *Bybit) fetchTransactions(ctx context.Context, kind model.TransactionType, path, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
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

	var result bybitRows
	if err := b.private(ctx, http.MethodGet, path, common.Extend(params, args.Params), &result); err != nil {
		return nil, err
	}
	txs := make([]*model.Transaction, 0, len(result.Rows))
	for _, row := range result.Rows {
		tx, err := b.parseTransaction(row, kind)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return base.FilterTransactions(txs, code, args), nil
}

// Withdraw 链上提现 /v5/asset/withdraw/create，默认从资金账户扣款
func (b *Bybit) Withdraw(ctx context.Context, code string, amount string, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	if address == "" {
		return nil, exchange.Errorf(exchange.InvalidAddress, bybitName, "%s withdraw() requires a valid address", bybitName)
	}
	if _, err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	coin := b.CurrencyID(code)
	params := map[string]interface{}{
		"coin":        coin,
		"amount":      amount,
		"address":     address,
		"timestamp":   b.Nonce(),
		"accountType": "FUND",
	}
	tag := ""
	if args.Tag != nil && *args.Tag != "" {
		tag = *args.Tag
		params["tag"] = tag
	}
	network := ""
	if args.Network != nil && *args.Network != "" {
		network = strings.ToUpper(*args.Network)
		params["chain"] = network
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := b.private(ctx, http.MethodPost, "v5/asset/withdraw/create", common.Extend(params, args.Params), &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, b.emptyResponse("withdraw")
	}
	return &model.Transaction{
		ID:       resp.ID,
		Type:     model.TransactionWithdrawal,
		Currency: b.SafeCurrencyCode(coin),
		Network:  network,
		Address:  address,
		Tag:      tag,
		Amount:   types.ParseExDecimal(amount),
		Status:   model.TransactionPending,
		Info:     types.NewInfo(resp),
	}, nil
}

func (b *Bybit) parseTransaction(row json.RawMessage, kind model.TransactionType) (*model.Transaction, error) {
	if kind == model.TransactionDeposit {
		var d bybitDeposit
		if err := b.Decode(row, &d); err != nil {
			return nil, err
		}
		tx := &model.Transaction{
			ID:        d.ID,
			TxID:      d.TxID,
			Type:      kind,
			Timestamp: d.SuccessAt,
			Network:   strings.ToUpper(d.Chain),
			Address:   d.ToAddress,
			Tag:       d.Tag,
			Currency:  b.SafeCurrencyCode(d.Coin),
			Amount:    d.Amount,
			Status:    bybitDepositStatus.Parse(d.Status.String()),
			Info:      types.Info(row),
		}
		tx.Fee = &model.Fee{Currency: tx.Currency, Cost: d.DepositFee.Or(types.NewExDecimalFromInt(0))}
		return tx, nil
	}

	var w bybitWithdrawal
	if err := b.Decode(row, &w); err != nil {
		return nil, err
	}
	tx := &model.Transaction{
		ID:        w.WithdrawID,
		TxID:      w.TxID,
		Type:      kind,
		Timestamp: w.CreateTime,
		Updated:   w.UpdateTime,
		Network:   strings.ToUpper(w.Chain),
		Address:   w.ToAddress,
		Tag:       w.Tag,
		Currency:  b.SafeCurrencyCode(w.Coin),
		Amount:    w.Amount,
		Status:    bybitWithdrawStatus.Parse(w.Status),
		Info:      types.Info(row),
	}
	if w.WithdrawFee.Valid {
		tx.Fee = &model.Fee{Currency: tx.Currency, Cost: w.WithdrawFee}
	}
	return tx, nil
}
