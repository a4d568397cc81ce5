// Package engine ties the store, sessions, derivation, and dispatch together
// behind one explicit state object. There are no package-level singletons:
// every operation runs against the Engine it is handed.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/auth"
	"github.com/sentinelwallet/sentinel/internal/model"
	"github.com/sentinelwallet/sentinel/internal/notify"
	"github.com/sentinelwallet/sentinel/internal/rpc"
	"github.com/sentinelwallet/sentinel/internal/store"
	"github.com/sentinelwallet/sentinel/internal/tx"
)

// Engine owns the wallet engine's entire state and collaborators.
type Engine struct {
	store      *store.Store
	sessions   *auth.SessionManager
	dispatcher *tx.Dispatcher
	rpc        *rpc.Client
	bus        *notify.Bus
	logger     *zap.Logger
}

// New wires an Engine from its collaborators.
func New(st *store.Store, sessions *auth.SessionManager, dispatcher *tx.Dispatcher, client *rpc.Client, bus *notify.Bus, logger *zap.Logger) *Engine {
	return &Engine{
		store:      st,
		sessions:   sessions,
		dispatcher: dispatcher,
		rpc:        client,
		bus:        bus,
		logger:     logger,
	}
}

// Events exposes the notification bus for outbound listeners.
func (e *Engine) Events() *notify.Bus { return e.bus }

// Close locks every session and releases the store.
func (e *Engine) Close() error {
	e.sessions.Stop()
	return e.store.Close()
}

// Request is the closed set of engine operations. Each inbound message maps
// to exactly one concrete request type, and Dispatch matches them
// exhaustively, so adding an operation is a compile-visible change.
type Request interface {
	isRequest()
}

type CreateWalletRequest struct {
	Password   string `json:"password"`
	SeedPhrase string `json:"seedPhrase,omitempty"` // empty generates a fresh mnemonic
	Name       string `json:"name"`
}

type DeleteWalletRequest struct {
	WalletID string `json:"walletId"`
}

type UnlockWalletRequest struct {
	WalletID string `json:"walletId"`
	Password string `json:"password"`
}

type LockWalletRequest struct {
	WalletID string `json:"walletId"`
}

type ExtendSessionRequest struct {
	WalletID string `json:"walletId"`
}

type ListWalletsRequest struct{}

type GetAccountsRequest struct {
	WalletID string `json:"walletId"`
}

type DeriveAddressRequest struct {
	WalletID  string `json:"walletId"`
	AccountID string `json:"accountId"`
	Network   string `json:"network"`
}

type AddAccountRequest struct {
	WalletID string `json:"walletId"`
}

type RemoveAccountRequest struct {
	WalletID  string `json:"walletId"`
	AccountID string `json:"accountId"`
}

type RefreshBalanceRequest struct {
	WalletID  string `json:"walletId"`
	AccountID string `json:"accountId"`
	Network   string `json:"network"`
}

type SendTransactionRequest struct {
	WalletID string           `json:"walletId"`
	Network  string           `json:"network"`
	Params   model.SendParams `json:"params"`
}

type SignMessageRequest struct {
	WalletID string `json:"walletId"`
	Network  string `json:"network"`
	Address  string `json:"address"`
	Message  string `json:"message"`
}

type TransactionHistoryRequest struct {
	Address string `json:"address,omitempty"`
}

type ReceiveQRRequest struct {
	WalletID  string `json:"walletId"`
	AccountID string `json:"accountId"`
	Network   string `json:"network"`
}

type ExportSeedPhraseRequest struct {
	WalletID string `json:"walletId"`
	Password string `json:"password"`
}

type SetActiveNetworkRequest struct {
	Network string `json:"network"`
}

type GetActiveNetworkRequest struct{}

func (CreateWalletRequest) isRequest()       {}
func (DeleteWalletRequest) isRequest()       {}
func (UnlockWalletRequest) isRequest()       {}
func (LockWalletRequest) isRequest()         {}
func (ExtendSessionRequest) isRequest()      {}
func (ListWalletsRequest) isRequest()        {}
func (GetAccountsRequest) isRequest()        {}
func (DeriveAddressRequest) isRequest()      {}
func (AddAccountRequest) isRequest()         {}
func (RemoveAccountRequest) isRequest()      {}
func (RefreshBalanceRequest) isRequest()     {}
func (SendTransactionRequest) isRequest()    {}
func (SignMessageRequest) isRequest()        {}
func (TransactionHistoryRequest) isRequest() {}
func (ReceiveQRRequest) isRequest()          {}
func (ExportSeedPhraseRequest) isRequest()   {}
func (SetActiveNetworkRequest) isRequest()   {}
func (GetActiveNetworkRequest) isRequest()   {}

// Dispatch executes one typed request and returns its payload.
func (e *Engine) Dispatch(ctx context.Context, req Request) (any, error) {
	switch r := req.(type) {
	case CreateWalletRequest:
		return e.CreateWallet(r.Password, r.SeedPhrase, r.Name)
	case DeleteWalletRequest:
		return nil, e.DeleteWallet(r.WalletID)
	case UnlockWalletRequest:
		return e.UnlockWallet(r.WalletID, r.Password)
	case LockWalletRequest:
		e.LockWallet(r.WalletID)
		return nil, nil
	case ExtendSessionRequest:
		return nil, e.ExtendSession(r.WalletID)
	case ListWalletsRequest:
		return e.ListWallets()
	case GetAccountsRequest:
		return e.GetAccounts(r.WalletID)
	case DeriveAddressRequest:
		return e.DeriveNetworkAddress(r.WalletID, r.AccountID, r.Network)
	case AddAccountRequest:
		return e.AddAccount(r.WalletID)
	case RemoveAccountRequest:
		return nil, e.RemoveAccount(r.WalletID, r.AccountID)
	case RefreshBalanceRequest:
		return e.RefreshBalance(ctx, r.WalletID, r.AccountID, r.Network)
	case SendTransactionRequest:
		return e.dispatcher.Send(ctx, r.WalletID, &r.Params, r.Network)
	case SignMessageRequest:
		return e.dispatcher.SignMessage(ctx, r.WalletID, r.Network, r.Address, []byte(r.Message))
	case TransactionHistoryRequest:
		return e.store.Transactions(r.Address)
	case ReceiveQRRequest:
		return e.ReceiveQR(r.WalletID, r.AccountID, r.Network)
	case ExportSeedPhraseRequest:
		return e.ExportSeedPhrase(r.WalletID, r.Password)
	case SetActiveNetworkRequest:
		return nil, e.SetActiveNetwork(r.Network)
	case GetActiveNetworkRequest:
		return e.ActiveNetwork()
	default:
		return nil, &model.UnsupportedOperationError{Operation: "unknown request"}
	}
}
