package model

import (
	"github.com/lemconn/exkit/types"
)

// TransactionType 充提类型
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus 充提状态
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionOK       TransactionStatus = "ok"
	TransactionFailed   TransactionStatus = "failed"
	TransactionCanceled TransactionStatus = "canceled"
)

// Transaction 充值或提现记录
type Transaction struct {
	ID        string            `json:"id"`
	TxID      string            `json:"txid"`
	Type      TransactionType   `json:"type"`
	Timestamp types.ExTimestamp `json:"timestamp"`
	Updated   types.ExTimestamp `json:"updated"`
	Network   string            `json:"network"`
	Address   string            `json:"address"`
	Tag       string            `json:"tag"`
	Currency  string            `json:"currency"`
	Amount    types.ExDecimal   `json:"amount"`
	Status    TransactionStatus `json:"status"`
	Fee       *Fee              `json:"fee"`
	Comment   string            `json:"comment,omitempty"`
	Info      types.Info        `json:"info"`
}

// DepositAddress 充值地址
type DepositAddress struct {
	Currency string     `json:"currency"`
	Network  string     `json:"network"`
	Address  string     `json:"address"`
	Tag      string     `json:"tag"`
	Info     types.Info `json:"info"`
}
