package bitopro

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

var bitoproTransactionStatus = model.StatusTable[model.TransactionStatus]{
	"COMPLETE":           model.TransactionOK,
	"INVALID":            model.TransactionFailed,
	"PROCESSING":         model.TransactionPending,
	"WAIT_PROCESS":       model.TransactionPending,
	"FAILED":             model.TransactionFailed,
	"EXPIRED":            model.TransactionFailed,
	"CANCELLED":          model.TransactionFailed,
	"EMAIL_VERIFICATION": model.TransactionPending,
	"WAIT_CONFIRMATION":  model.TransactionPending,
}

// FetchDeposits 获取充值记录，必须指定币种
func (p *Bitopro) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return p.fetchTransactions(ctx, "fetchDeposits", "wallet/depositHistory/{currency}", model.TransactionDeposit, code, opts...)
}

// FetchWithdrawals 获取提现记录，必须指定币种
func (p *Bitopro) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return p.fetchTransactions(ctx, "fetchWithdrawals", "wallet/withdrawHistory/{currency}", model.TransactionWithdrawal, code, opts...)
}

func (p *Bitopro) fetchTransactions(ctx context.Context, method, path string, txType model.TransactionType, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	if code == "" {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, bitoproName, "%s %s() requires the code argument", bitoproName, method)
	}
	if _, err := p.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)
	currency := p.safeCurrency(code)

	params := map[string]interface{}{"currency": currency.ID}
	if args.Since != nil {
		params["startTimestamp"] = args.Since.UnixMilli()
	}
	if args.Until != nil {
		params["endTimestamp"] = args.Until.UnixMilli()
	}
	if args.Limit != nil {
		params["limit"] = *args.Limit
	}

	var resp bitoproData
	if err := p.private(ctx, http.MethodGet, path, common.Extend(params, args.Params), &resp); err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := p.Decode(resp.Data, &rows); err != nil {
			return nil, err
		}
	}

	txs := make([]*model.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := p.decodeTransaction(row, currency.Code)
		if err != nil {
			return nil, err
		}
		tx.Type = txType
		txs = append(txs, tx)
	}
	return base.FilterTransactions(txs, currency.Code, args), nil
}

// FetchWithdrawal 按流水号查询单笔提现
func (p *Bitopro) FetchWithdrawal(ctx context.Context, serial, code string, opts ...option.ArgsOption) (*model.Transaction, error) {
	if code == "" {
		return nil, exchange.Errorf(exchange.ArgumentsRequired, bitoproName, "%s fetchWithdrawal() requires the code argument", bitoproName)
	}
	if _, err := p.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)
	currency := p.safeCurrency(code)

	var resp bitoproData
	params := common.Extend(map[string]interface{}{"currency": currency.ID, "serial": serial}, args.Params)
	if err := p.private(ctx, http.MethodGet, "wallet/withdraw/{currency}/{serial}", params, &resp); err != nil {
		return nil, err
	}
	tx, err := p.decodeTransaction(resp.Data, currency.Code)
	if err != nil {
		return nil, err
	}
	tx.Type = model.TransactionWithdrawal
	return tx, nil
}

// Withdraw 提现
// 网络通过 option.WithNetwork 或 params["network"] 指定，映射为交易所的 protocol
func (p *Bitopro) Withdraw(ctx context.Context, code string, amount string, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	if address == "" {
		return nil, exchange.Errorf(exchange.InvalidAddress, bitoproName, "%s withdraw() requires an address", bitoproName)
	}
	if _, err := p.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	currency, err := p.Currency(code)
	if err != nil {
		return nil, err
	}
	args := option.ApplyArgsOptions(opts...)

	params := map[string]interface{}{
		"currency": currency.ID,
		"amount":   amount,
		"address":  address,
	}
	extra := common.Extend(args.Params)
	network := ""
	if args.Network != nil {
		network = *args.Network
	}
	if v, ok := extra["network"].(string); ok {
		network = v
		extra = common.Omit(extra, "network")
	}
	if network != "" {
		protocol, ok := bitoproNetworks[strings.ToUpper(network)]
		if !ok {
			return nil, exchange.Errorf(exchange.ExchangeError, bitoproName, "%s invalid network %s", bitoproName, strings.ToUpper(network))
		}
		params["protocol"] = protocol
	}
	if args.Tag != nil && *args.Tag != "" {
		params["message"] = *args.Tag
	}

	var resp bitoproData
	if err := p.private(ctx, http.MethodPost, "wallet/withdraw/{currency}", common.Extend(params, extra), &resp); err != nil {
		return nil, err
	}
	tx, err := p.decodeTransaction(resp.Data, currency.Code)
	if err != nil {
		return nil, err
	}
	tx.Type = model.TransactionWithdrawal
	return tx, nil
}

// safeCurrency 未加载的币种按小写代码作为 ID
func (p *Bitopro) safeCurrency(code string) *model.Currency {
	if c, err := p.Currency(code); err == nil {
		return c
	}
	return &model.Currency{ID: strings.ToLower(code), Code: code}
}

func (p *Bitopro) decodeTransaction(data json.RawMessage, code string) (*model.Transaction, error) {
	var t bitoproTransaction
	if err := p.Decode(data, &t); err != nil {
		return nil, err
	}
	return p.parseTransaction(&t, data, code), nil
}

// parseTransaction amount 取 total（含手续费），protocol 为 MAIN 时网络即币种本身
func (p *Bitopro) parseTransaction(t *bitoproTransaction, info json.RawMessage, code string) *model.Transaction {
	if code == "" {
		code = p.SafeCurrencyCode(t.Currency)
	}
	network := t.Protocol
	if network == "MAIN" {
		network = code
	} else if n, ok := bitoproNetworkCodes[network]; ok {
		network = n
	}
	return &model.Transaction{
		ID:        t.Serial,
		TxID:      t.TxID,
		Timestamp: t.Timestamp,
		Network:   network,
		Address:   t.Address,
		Tag:       t.Message,
		Currency:  code,
		Amount:    t.Total,
		Status:    bitoproTransactionStatus.Parse(t.Status),
		Fee:       &model.Fee{Currency: code, Cost: t.Fee},
		Info:      types.Info(info),
	}
}
