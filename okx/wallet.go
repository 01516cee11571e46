package okx

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

// 充值状态：0 等待确认、1 已到账、2 充值成功、8 因风控暂停、11-14 异常或被拒绝
var okxDepositStatus = model.StatusTable[model.TransactionStatus]{
	"0":  model.TransactionPending,
	"1":  model.TransactionOK,
	"2":  model.TransactionOK,
	"8":  model.TransactionPending,
	"11": model.TransactionFailed,
	"12": model.TransactionFailed,
	"13": model.TransactionFailed,
	"14": model.TransactionFailed,
}

// 提现状态：-3 撤销中、-2 已撤销、-1 失败、0 等待提现、1 提现中、2 成功、4-12 各类审核中
var okxWithdrawStatus = model.StatusTable[model.TransactionStatus]{
	"-3": model.TransactionPending,
	"-2": model.TransactionCanceled,
	"-1": model.TransactionFailed,
	"0":  model.TransactionPending,
	"1":  model.TransactionPending,
	"2":  model.TransactionOK,
	"4":  model.TransactionPending,
	"5":  model.TransactionPending,
	"6":  model.TransactionPending,
	"7":  model.TransactionPending,
	"8":  model.TransactionPending,
	"9":  model.TransactionPending,
	"10": model.TransactionPending,
	"12": model.TransactionPending,
}

// chainID 统一链名 -> OKX 链名（USDT + TRC20 -> USDT-TRC20）
func chainID(ccy, network string) string {
	if network == "" || strings.Contains(network, "-") {
		return network
	}
	return ccy + "-" + network
}

// FetchDepositAddress 获取充值地址，未指定链时取 selected 的地址
func (o *OKX) FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	if _, err := o.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	ccy := o.CurrencyID(code)
	var rows []json.RawMessage
	params := common.Extend(map[string]interface{}{"ccy": ccy}, args.Params)
	if err := o.private(ctx, http.MethodGet, "asset/deposit-address", params, &rows); err != nil {
		return nil, err
	}

	chain := ""
	if args.Network != nil {
		chain = chainID(ccy, strings.ToUpper(*args.Network))
	}
	var picked *okxDepositAddress
	var info json.RawMessage
	for _, row := range rows {
		var a okxDepositAddress
		if err := o.Decode(row, &a); err != nil {
			return nil, err
		}
		if (chain != "" && strings.EqualFold(a.Chain, chain)) || (chain == "" && a.Selected) {
			picked, info = &a, row
			break
		}
	}
	if picked == nil && chain == "" && len(rows) > 0 {
		var a okxDepositAddress
		if err := o.Decode(rows[0], &a); err != nil {
			return nil, err
		}
		picked, info = &a, rows[0]
	}
	if picked == nil || picked.Addr == "" {
		return nil, exchange.Errorf(exchange.InvalidAddress, okxName, "%s fetchDepositAddress() cannot find a deposit address for %s %s", okxName, code, chain)
	}

	address, tag := picked.Addr, picked.Tag
	if tag == "" {
		tag = picked.Memo
	}
	// 带 tag 的地址形如 addr:tag
	if tag != "" {
		address = strings.TrimSuffix(address, ":"+tag)
	}
	return &model.DepositAddress{
		Currency: o.SafeCurrencyCode(picked.Ccy),
		Network:  networkCode(picked.Ccy, picked.Chain),
		Address:  address,
		Tag:      tag,
		Info:     types.Info(info),
	}, nil
}

// FetchDeposits /api/v5/asset/deposit-history
func (o *OKX) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return o.fetchTransactions(ctx, model.TransactionDeposit, "asset/deposit-history", code, opts...)
}

// FetchWithdrawals /api/v5/asset/withdrawal-history
func (o *OKX) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return o.fetchTransactions(ctx, model.TransactionWithdrawal, "asset/withdrawal-history", code, opts...)
}

func (o *OKX) fetchTransactions(ctx context.Context, kind model.TransactionType, path, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	if _, err := o.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{}
	if code != "" {
		params["ccy"] = o.CurrencyID(code)
	}
	// before 返回晚于该时间的记录，after 返回早于该时间的记录
	if args.Since != nil {
		params["before"] = args.Since.UnixMilli()
	}
	if args.Until != nil {
		params["after"] = args.Until.UnixMilli()
	}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}

	var rows []json.RawMessage
	if err := o.private(ctx, http.MethodGet, path, common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	txs := make([]*model.Transaction, 0, len(rows))
	for _, row := range rows {
		var t okxTransaction
		if err := o.Decode(row, &t); err != nil {
			return nil, err
		}
		txs = append(txs, o.parseTransaction(&t, row, kind))
	}
	return base.FilterTransactions(txs, code, args), nil
}

// Withdraw 链上提现（dest=4），手续费未通过 params 指定时取该链的最小手续费
func (o *OKX) Withdraw(ctx context.Context, code string, amount string, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	if address == "" {
		return nil, exchange.Errorf(exchange.InvalidAddress, okxName, "%s withdraw() requires a valid address", okxName)
	}
	if _, err := o.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	ccy := o.CurrencyID(code)
	toAddr := address
	tag := ""
	if args.Tag != nil && *args.Tag != "" {
		tag = *args.Tag
		toAddr = address + ":" + tag
	}
	params := map[string]interface{}{
		"ccy":    ccy,
		"amt":    amount,
		"dest":   "4",
		"toAddr": toAddr,
	}
	network := ""
	if args.Network != nil && *args.Network != "" {
		network = strings.ToUpper(*args.Network)
		params["chain"] = chainID(ccy, network)
	}
	if _, ok := args.Params["fee"]; !ok {
		if fee := o.withdrawFee(code, network); fee.Valid {
			params["fee"] = fee.String()
		}
	}

	var rows []json.RawMessage
	if err := o.private(ctx, http.MethodPost, "asset/withdrawal", common.Extend(params, args.Params), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, o.emptyResponse("withdraw")
	}
	var resp struct {
		WdID  string `json:"wdId"`
		Chain string `json:"chain"`
	}
	if err := o.Decode(rows[0], &resp); err != nil {
		return nil, err
	}
	return &model.Transaction{
		ID:       resp.WdID,
		Type:     model.TransactionWithdrawal,
		Currency: o.SafeCurrencyCode(ccy),
		Network:  networkCode(ccy, resp.Chain),
		Address:  address,
		Tag:      tag,
		Amount:   types.ParseExDecimal(amount),
		Status:   model.TransactionPending,
		Info:     types.Info(rows[0]),
	}, nil
}

// withdrawFee 从已加载的币种信息中查找提现手续费，未找到返回空
func (o *OKX) withdrawFee(code, network string) types.ExDecimal {
	cur, err := o.Currency(code)
	if err != nil {
		return types.ExDecimal{}
	}
	if network != "" {
		if n, ok := cur.Networks[network]; ok {
			return n.Fee
		}
		return types.ExDecimal{}
	}
	return cur.Fee
}

func (o *OKX) parseTransaction(t *okxTransaction, info json.RawMessage, kind model.TransactionType) *model.Transaction {
	tx := &model.Transaction{
		TxID:      t.TxID,
		Type:      kind,
		Timestamp: t.Ts,
		Network:   networkCode(t.Ccy, t.Chain),
		Tag:       t.Tag,
		Address:   t.To,
		Currency:  o.SafeCurrencyCode(t.Ccy),
		Amount:    t.Amt,
		Info:      types.Info(info),
	}
	if tx.Tag == "" {
		tx.Tag = t.Memo
	}
	if kind == model.TransactionDeposit {
		tx.ID = t.DepID
		tx.Status = okxDepositStatus.Parse(t.State)
		tx.Fee = &model.Fee{Currency: tx.Currency, Cost: types.NewExDecimalFromInt(0)}
	} else {
		tx.ID = t.WdID
		tx.Status = okxWithdrawStatus.Parse(t.State)
		if t.Fee.Valid {
			tx.Fee = &model.Fee{Currency: tx.Currency, Cost: t.Fee}
		}
	}
	if tx.Tag != "" {
		tx.Address = strings.TrimSuffix(tx.Address, ":"+tx.Tag)
	}
	return tx
}
