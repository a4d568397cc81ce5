package model

import (
	"math/big"
	"time"
)

// TxStatus is the lifecycle state of a dispatched transaction.
type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusConfirmed TxStatus = "confirmed"
	TxStatusFailed    TxStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s TxStatus) Terminal() bool {
	return s == TxStatusConfirmed || s == TxStatusFailed
}

// PendingTransaction is one entry of the append-only transaction history.
// Records are created with status pending when a send is dispatched and are
// mutated only by status transitions; terminal records never change again.
type PendingTransaction struct {
	Hash      string    `json:"hash"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Value     string    `json:"value"` // base units, decimal string
	Network   string    `json:"network"`
	Status    TxStatus  `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// SendParams are the caller-supplied parameters of a send request. Value
// accepts a decimal string or a 0x-prefixed hex quantity.
type SendParams struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data,omitempty"` // EVM calldata, 0x-prefixed hex
}

// ParseValue converts a SendParams value string into base units.
func (p *SendParams) ParseValue() (*big.Int, error) {
	s := p.Value
	if s == "" {
		return nil, NewValidationError("value", "missing")
	}
	base := 10
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
		base = 16
		if s == "" {
			s = "0"
		}
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok || v.Sign() < 0 {
		return nil, NewValidationError("value", "not a valid non-negative amount")
	}
	return v, nil
}
