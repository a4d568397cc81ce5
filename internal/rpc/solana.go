package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
)

// Solana convenience wrappers. Solana speaks JSON-RPC too, so the same
// failover transport serves it; only the method names and result envelopes
// differ from the EVM family.

type solanaValueResult struct {
	Value json.RawMessage `json:"value"`
}

// SolanaBalance returns the lamport balance of an address.
func (c *Client) SolanaBalance(ctx context.Context, network, address string) (*big.Int, error) {
	result, err := c.Call(ctx, network, "getBalance", []any{address})
	if err != nil {
		return nil, err
	}
	var parsed solanaValueResult
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode getBalance result: %w", err)
	}
	var lamports uint64
	if err := json.Unmarshal(parsed.Value, &lamports); err != nil {
		return nil, fmt.Errorf("failed to decode lamport value: %w", err)
	}
	return new(big.Int).SetUint64(lamports), nil
}

// SolanaLatestBlockhash returns the recent blockhash a new transaction must
// reference.
func (c *Client) SolanaLatestBlockhash(ctx context.Context, network string) (string, error) {
	result, err := c.Call(ctx, network, "getLatestBlockhash", []any{})
	if err != nil {
		return "", err
	}
	var parsed struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode getLatestBlockhash result: %w", err)
	}
	if parsed.Value.Blockhash == "" {
		return "", fmt.Errorf("getLatestBlockhash returned no blockhash")
	}
	return parsed.Value.Blockhash, nil
}

// SolanaSendTransaction broadcasts a base64-encoded signed transaction and
// returns its signature. The SendRaw de-duplication caveat applies here as
// well.
func (c *Client) SolanaSendTransaction(ctx context.Context, network, txBase64 string) (string, error) {
	result, err := c.Call(ctx, network, "sendTransaction", []any{
		txBase64,
		map[string]string{"encoding": "base64"},
	})
	if err != nil {
		return "", err
	}
	var signature string
	if err := json.Unmarshal(result, &signature); err != nil {
		return "", fmt.Errorf("failed to decode transaction signature: %w", err)
	}
	return signature, nil
}
