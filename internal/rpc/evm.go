package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EVM convenience wrappers over Call. All of them are idempotent reads
// except SendRaw, whose failover caveat is documented below.

// Balance returns the wei balance of an address at the latest block.
func (c *Client) Balance(ctx context.Context, network, address string) (*big.Int, error) {
	return c.quantity(ctx, network, "eth_getBalance", address, "latest")
}

// Nonce returns the next transaction nonce of an address, counting pending
// transactions so back-to-back sends do not reuse a nonce.
func (c *Client) Nonce(ctx context.Context, network, address string) (uint64, error) {
	v, err := c.quantity(ctx, network, "eth_getTransactionCount", address, "pending")
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// GasPrice returns the network's current gas price suggestion in wei.
func (c *Client) GasPrice(ctx context.Context, network string) (*big.Int, error) {
	return c.quantity(ctx, network, "eth_gasPrice")
}

// EstimateGas asks the network for a gas estimate of a call object.
func (c *Client) EstimateGas(ctx context.Context, network string, call map[string]string) (uint64, error) {
	result, err := c.Call(ctx, network, "eth_estimateGas", []any{call})
	if err != nil {
		return 0, err
	}
	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return 0, fmt.Errorf("failed to decode eth_estimateGas result: %w", err)
	}
	v, err := hexutil.DecodeBig(encoded)
	if err != nil {
		return 0, fmt.Errorf("failed to parse gas estimate %q: %w", encoded, err)
	}
	return v.Uint64(), nil
}

// SendRaw broadcasts a signed raw transaction and returns its hash.
//
// A broadcast that fails over may have partially succeeded on an earlier
// endpoint; the transaction hash is deterministic from the signed payload,
// so callers de-duplicate by hash instead of re-signing and re-broadcasting.
func (c *Client) SendRaw(ctx context.Context, network, rawTx string) (string, error) {
	result, err := c.Call(ctx, network, "eth_sendRawTransaction", []any{rawTx})
	if err != nil {
		return "", err
	}
	var hash string
	if err := json.Unmarshal(result, &hash); err != nil {
		return "", fmt.Errorf("failed to decode transaction hash: %w", err)
	}
	return hash, nil
}

// quantity issues a call whose result is a 0x-prefixed hex quantity.
func (c *Client) quantity(ctx context.Context, network, method string, params ...any) (*big.Int, error) {
	result, err := c.Call(ctx, network, method, params)
	if err != nil {
		return nil, err
	}
	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	v, err := hexutil.DecodeBig(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s quantity %q: %w", method, encoded, err)
	}
	return v, nil
}
