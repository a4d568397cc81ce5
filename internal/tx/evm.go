package tx

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/sentinelwallet/sentinel/internal/auth"
	"github.com/sentinelwallet/sentinel/internal/derive"
	"github.com/sentinelwallet/sentinel/internal/model"
)

// evmTransferGas is the intrinsic gas of a plain value transfer.
const evmTransferGas = 21000

// sendEVM signs a legacy transaction for any EVM network and broadcasts it
// through the failover transport.
func (d *Dispatcher) sendEVM(ctx context.Context, seed *auth.Seed, account *model.Account, net derive.Network, params *model.SendParams, value *big.Int) (*model.PendingTransaction, error) {
	network := net.ID

	var data []byte
	if params.Data != "" {
		decoded, err := hexutil.Decode(params.Data)
		if err != nil {
			return nil, model.NewValidationError("data", "not 0x-prefixed hex")
		}
		data = decoded
	}

	balance, err := d.evmBalance(ctx, account, network, params.From)
	if err != nil {
		return nil, err
	}

	gasPrice, err := d.rpc.GasPrice(ctx, network)
	if err != nil {
		return nil, err
	}

	gasLimit := uint64(evmTransferGas)
	if len(data) > 0 {
		gasLimit, err = d.rpc.EstimateGas(ctx, network, map[string]string{
			"from":  params.From,
			"to":    params.To,
			"value": hexutil.EncodeBig(value),
			"data":  params.Data,
		})
		if err != nil {
			return nil, err
		}
	}

	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	required := new(big.Int).Add(value, fee)
	if balance.Cmp(required) < 0 {
		return nil, model.NewValidationError("value", "insufficient balance for value plus fee")
	}

	nonce, err := d.rpc.Nonce(ctx, network, params.From)
	if err != nil {
		return nil, err
	}

	seedBytes := seed.Bytes()
	defer clear(seedBytes)
	kp, err := derive.Keys(seedBytes, network, account.Index)
	if err != nil {
		return nil, err
	}
	defer kp.Zero()

	if !strings.EqualFold(kp.Address, params.From) {
		return nil, &model.DerivationError{Network: network, Reason: "derived key does not match the account address"}
	}

	priv, err := kp.ECDSA()
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	to := common.HexToAddress(params.To)
	unsigned := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	})

	// Signing is atomic: once the key has produced a signature for this
	// nonce the transaction is never re-signed or retried under the hood.
	signed, err := types.SignTx(unsigned, types.LatestSignerForChainID(net.ChainID), priv)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	hash := signed.Hash().Hex()
	if err := d.guardDuplicateBroadcast(hash); err != nil {
		return nil, err
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode signed transaction: %w", err)
	}

	if _, err := d.rpc.SendRaw(ctx, network, hexutil.Encode(raw)); err != nil {
		return nil, err
	}

	d.updateCaches(account, network, new(big.Int).Sub(balance, required), nonce+1, true)

	return &model.PendingTransaction{
		Hash:      hash,
		From:      params.From,
		To:        params.To,
		Value:     value.String(),
		Network:   network,
		Status:    model.TxStatusPending,
		Timestamp: time.Now().UTC(),
	}, nil
}

// evmBalance returns the freshest known balance, fetching when the cache is
// empty.
func (d *Dispatcher) evmBalance(ctx context.Context, account *model.Account, network, address string) (*big.Int, error) {
	if cached, ok := cachedBalance(account, network); ok {
		return cached, nil
	}
	return d.rpc.Balance(ctx, network, address)
}
