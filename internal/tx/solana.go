package tx

import (
	"context"
	"fmt"
	"math/big"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/sentinelwallet/sentinel/internal/auth"
	"github.com/sentinelwallet/sentinel/internal/derive"
	"github.com/sentinelwallet/sentinel/internal/model"
)

// solanaFeeLamports is the flat per-signature fee (0.000005 SOL).
const solanaFeeLamports = 5000

// sendSolana builds, signs, and broadcasts a system transfer.
func (d *Dispatcher) sendSolana(ctx context.Context, seed *auth.Seed, account *model.Account, net derive.Network, params *model.SendParams, value *big.Int) (*model.PendingTransaction, error) {
	network := net.ID

	if !value.IsUint64() {
		return nil, model.NewValidationError("value", "amount exceeds lamport range")
	}
	lamports := value.Uint64()

	balance, err := d.solanaBalance(ctx, account, network, params.From)
	if err != nil {
		return nil, err
	}

	required := new(big.Int).Add(value, big.NewInt(solanaFeeLamports))
	if balance.Cmp(required) < 0 {
		return nil, model.NewValidationError("value", "insufficient balance for value plus fee")
	}

	fromPub, err := solanago.PublicKeyFromBase58(params.From)
	if err != nil {
		return nil, model.NewValidationError("from", "invalid Solana address")
	}
	toPub, err := solanago.PublicKeyFromBase58(params.To)
	if err != nil {
		return nil, model.NewValidationError("to", "invalid Solana address")
	}

	blockhash, err := d.rpc.SolanaLatestBlockhash(ctx, network)
	if err != nil {
		return nil, err
	}
	recent, err := solanago.HashFromBase58(blockhash)
	if err != nil {
		return nil, fmt.Errorf("failed to parse blockhash: %w", err)
	}

	transfer := system.NewTransferInstruction(lamports, fromPub, toPub).Build()
	transaction, err := solanago.NewTransaction(
		[]solanago.Instruction{transfer},
		recent,
		solanago.TransactionPayer(fromPub),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	seedBytes := seed.Bytes()
	defer clear(seedBytes)
	kp, err := derive.Keys(seedBytes, network, account.Index)
	if err != nil {
		return nil, err
	}
	defer kp.Zero()

	signingKey := solanago.PrivateKey(kp.PrivateKey)
	if !signingKey.PublicKey().Equals(fromPub) {
		return nil, &model.DerivationError{
			Network: network,
			Reason:  "derived key does not match the account address",
		}
	}

	if _, err := transaction.Sign(func(key solanago.PublicKey) *solanago.PrivateKey {
		if key.Equals(fromPub) {
			return &signingKey
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	signature := transaction.Signatures[0].String()
	if err := d.guardDuplicateBroadcast(signature); err != nil {
		return nil, err
	}

	encoded, err := transaction.ToBase64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	if _, err := d.rpc.SolanaSendTransaction(ctx, network, encoded); err != nil {
		return nil, err
	}

	d.updateCaches(account, network, new(big.Int).Sub(balance, required), 0, false)

	return &model.PendingTransaction{
		Hash:      signature,
		From:      params.From,
		To:        params.To,
		Value:     value.String(),
		Network:   network,
		Status:    model.TxStatusPending,
		Timestamp: time.Now().UTC(),
	}, nil
}

// solanaBalance mirrors evmBalance for the lamport ledger.
func (d *Dispatcher) solanaBalance(ctx context.Context, account *model.Account, network, address string) (*big.Int, error) {
	if cached, ok := cachedBalance(account, network); ok {
		return cached, nil
	}
	return d.rpc.SolanaBalance(ctx, network, address)
}
