// Package tx validates, signs, and broadcasts transactions. One dispatcher
// serves every network: the EVM family shares a single chain-id
// parameterized signer, Solana has its own, and the remaining families fail
// fast as unsupported rather than silently no-opping.
package tx

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/auth"
	"github.com/sentinelwallet/sentinel/internal/common"
	"github.com/sentinelwallet/sentinel/internal/derive"
	"github.com/sentinelwallet/sentinel/internal/model"
	"github.com/sentinelwallet/sentinel/internal/rpc"
	"github.com/sentinelwallet/sentinel/internal/store"
)

// Dispatcher routes send/sign requests to the network family's signer.
type Dispatcher struct {
	store    *store.Store
	sessions *auth.SessionManager
	rpc      *rpc.Client
	logger   *zap.Logger
}

// NewDispatcher wires a Dispatcher.
func NewDispatcher(st *store.Store, sessions *auth.SessionManager, client *rpc.Client, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{store: st, sessions: sessions, rpc: client, logger: logger}
}

// Send signs and broadcasts a transfer. Preconditions, in order: the wallet
// session is unlocked, the destination is valid for the network, the source
// resolves to an owned account, and the cached balance covers value plus the
// estimated fee. Balance insufficiency is a ValidationError raised before
// any signing and, when the cache already disproves the transfer, before any
// network call.
func (d *Dispatcher) Send(ctx context.Context, walletID string, params *model.SendParams, network string) (*model.PendingTransaction, error) {
	net, ok := derive.Lookup(network)
	if !ok {
		return nil, model.NewValidationError("network", fmt.Sprintf("unknown network %q", network))
	}

	seed, err := d.sessions.RequireUnlocked(walletID)
	if err != nil {
		return nil, err
	}

	if err := derive.ValidateAddress(network, params.To); err != nil {
		return nil, err
	}

	account, err := d.resolveFromAccount(walletID, network, params.From)
	if err != nil {
		return nil, err
	}

	value, err := parseAmount(net, params)
	if err != nil {
		return nil, err
	}

	// Cheap rejection from the cache: every supported network charges a
	// nonzero fee on top of the value, so a cached balance at or below the
	// bare value settles it offline.
	if cached, ok := cachedBalance(account, network); ok && cached.Cmp(value) <= 0 {
		return nil, model.NewValidationError("value", "insufficient balance")
	}

	var pending *model.PendingTransaction
	switch net.Family {
	case derive.FamilyEVM:
		pending, err = d.sendEVM(ctx, seed, account, net, params, value)
	case derive.FamilySolana:
		pending, err = d.sendSolana(ctx, seed, account, net, params, value)
	case derive.FamilyBitcoin, derive.FamilyTron, derive.FamilyTON, derive.FamilyXRP:
		return nil, &model.UnsupportedOperationError{Network: network, Operation: "sendTransaction"}
	default:
		return nil, &model.UnsupportedOperationError{Network: network, Operation: "sendTransaction"}
	}
	if err != nil {
		return nil, err
	}

	if err := d.store.AppendTransaction(pending); err != nil {
		// The broadcast went out; losing the history record is worth
		// surfacing but must not fail the send.
		d.logger.Error("failed to record dispatched transaction",
			zap.String("hash", pending.Hash), zap.Error(err))
	}

	d.logger.Info("transaction dispatched",
		zap.String("wallet_id", walletID),
		zap.String("network", network),
		zap.String("hash", pending.Hash))

	return pending, nil
}

// resolveFromAccount maps the from address to an account this wallet owns on
// the given network.
func (d *Dispatcher) resolveFromAccount(walletID, network, from string) (*model.Account, error) {
	if from == "" {
		return nil, model.NewValidationError("from", "missing")
	}
	accounts, err := d.store.AccountsByWallet(walletID)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.OwnsAddress(network, from) {
			return a, nil
		}
	}
	return nil, model.NewValidationError("from", "address is not owned by this wallet on "+network)
}

// parseAmount reads params.Value as integer base units, or, when it carries
// a decimal point, as a display amount at the network family's precision.
func parseAmount(net derive.Network, params *model.SendParams) (*big.Int, error) {
	if strings.Contains(params.Value, ".") {
		v, err := common.ParseDisplayAmount(params.Value, common.Decimals(net.Family))
		if err != nil {
			return nil, model.NewValidationError("value", err.Error())
		}
		return v, nil
	}
	return params.ParseValue()
}

// cachedBalance reads the account's cached base-unit balance for a network.
func cachedBalance(account *model.Account, network string) (*big.Int, bool) {
	raw, ok := account.Balances[network]
	if !ok || raw == "" {
		return nil, false
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, false
	}
	return v, true
}

// updateCaches persists the post-send balance and nonce caches. Failures are
// logged, not surfaced: the caches are advisory and refreshed on read.
func (d *Dispatcher) updateCaches(account *model.Account, network string, balance *big.Int, nonce uint64, hasNonce bool) {
	if account.Balances == nil {
		account.Balances = make(map[string]string)
	}
	account.Balances[network] = balance.String()
	if hasNonce {
		if account.Nonces == nil {
			account.Nonces = make(map[string]uint64)
		}
		account.Nonces[network] = nonce
	}
	account.BalancesUpdatedAt = time.Now().UTC()
	if err := d.store.PutAccount(account); err != nil {
		d.logger.Warn("failed to update account caches", zap.String("account_id", account.ID), zap.Error(err))
	}
}

// guardDuplicateBroadcast enforces hash de-duplication: an uncertain earlier
// broadcast must not be blindly repeated.
func (d *Dispatcher) guardDuplicateBroadcast(hash string) error {
	seen, err := d.store.HasTransaction(hash)
	if err != nil {
		return err
	}
	if seen {
		return model.NewValidationError("transaction",
			fmt.Sprintf("transaction %s was already broadcast; not re-broadcasting", hash))
	}
	return nil
}
