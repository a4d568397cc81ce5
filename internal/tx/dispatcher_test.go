package tx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/auth"
	"github.com/sentinelwallet/sentinel/internal/crypto"
	"github.com/sentinelwallet/sentinel/internal/derive"
	"github.com/sentinelwallet/sentinel/internal/model"
	"github.com/sentinelwallet/sentinel/internal/notify"
	"github.com/sentinelwallet/sentinel/internal/rpc"
	"github.com/sentinelwallet/sentinel/internal/store"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testPassword = "Passw0rd!"
)

type fixture struct {
	dispatcher *Dispatcher
	store      *store.Store
	sessions   *auth.SessionManager
	wallet     *model.Wallet
	account    *model.Account
	ethAddr    string
	rpcHits    *atomic.Int32
}

// newFixture builds an unlocked wallet whose account index 0 is derived for
// ethereum, with the dispatcher pointed at a scripted RPC server.
func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "wallet.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	envelope, err := crypto.EncryptWithParams([]byte(testMnemonic), []byte(testPassword), crypto.Params{N: 1 << 12, R: 8, P: 1})
	require.NoError(t, err)
	wallet := &model.Wallet{ID: "w1", Name: "Main", Envelope: envelope, CreatedAt: time.Now().UTC()}
	require.NoError(t, st.PutWallet(wallet))

	seed := authSeedBytes(t)
	ethAddr, err := derive.Address(seed, "ethereum", 0)
	require.NoError(t, err)
	solAddr, err := derive.Address(seed, "solana", 0)
	require.NoError(t, err)

	account := &model.Account{
		ID:       "a1",
		WalletID: "w1",
		Index:    0,
		IsActive: true,
		Addresses: map[string]string{
			"ethereum": ethAddr,
			"solana":   solAddr,
		},
		Balances: map[string]string{},
	}
	require.NoError(t, st.PutAccount(account))

	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := rpc.New(map[string][]string{
		"ethereum": {srv.URL},
		"solana":   {srv.URL},
	}, zap.NewNop())

	bus := notify.NewBus(zap.NewNop())
	sessions := auth.NewSessionManager(
		auth.NewVerifier(st, zap.NewNop()),
		clock.NewDefaultClock(),
		auth.DefaultAutoLockTimeout,
		bus,
		zap.NewNop(),
	)
	t.Cleanup(sessions.LockAll)

	return &fixture{
		dispatcher: NewDispatcher(st, sessions, client, zap.NewNop()),
		store:      st,
		sessions:   sessions,
		wallet:     wallet,
		account:    account,
		ethAddr:    ethAddr,
		rpcHits:    hits,
	}
}

func authSeedBytes(t *testing.T) []byte {
	t.Helper()
	// Mirror of what the session computes at unlock time.
	return bip39.NewSeed(testMnemonic, "")
}

func (f *fixture) unlock(t *testing.T) {
	t.Helper()
	_, err := f.sessions.Unlock(f.wallet, []byte(testPassword))
	require.NoError(t, err)
}

func (f *fixture) setBalance(t *testing.T, network, balance string) {
	t.Helper()
	f.account.Balances[network] = balance
	require.NoError(t, f.store.PutAccount(f.account))
}

func evmRPCHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result string
		switch req.Method {
		case "eth_gasPrice":
			result = `"0x3b9aca00"` // 1 gwei
		case "eth_getTransactionCount":
			result = `"0x0"`
		case "eth_getBalance":
			result = `"0x0"`
		case "eth_sendRawTransaction":
			result = `"0xbroadcast"`
		default:
			t.Fatalf("unexpected RPC method %s", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + result + `}`))
	}
}

func TestSendRequiresUnlockedSession(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))

	_, err := f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From: f.ethAddr, To: f.ethAddr, Value: "0x0",
	}, "ethereum")
	require.ErrorIs(t, err, model.ErrLocked)
	require.Zero(t, f.rpcHits.Load())
}

func TestSendRejectsMalformedDestination(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)

	_, err := f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From: f.ethAddr, To: "not-an-address", Value: "0x0",
	}, "ethereum")

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Zero(t, f.rpcHits.Load())
}

func TestSendRejectsUnownedSource(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)

	_, err := f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From:  "0x1111111111111111111111111111111111111111",
		To:    f.ethAddr,
		Value: "0x0",
	}, "ethereum")

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestInsufficientBalanceMakesNoNetworkCall(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)
	f.setBalance(t, "ethereum", "0")

	_, err := f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From: f.ethAddr, To: "0x2222222222222222222222222222222222222222", Value: "1",
	}, "ethereum")

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Zero(t, f.rpcHits.Load(), "insufficient funds must be decided offline")
}

func TestZeroValueWithZeroBalanceRejectedOffline(t *testing.T) {
	// A zero balance cannot cover the fee on any network, so even a
	// zero-value transfer is settled from the cache.
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)
	f.setBalance(t, "ethereum", "0")

	_, err := f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From: f.ethAddr, To: "0x2222222222222222222222222222222222222222", Value: "0x0",
	}, "ethereum")

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Zero(t, f.rpcHits.Load())
}

func TestSendUnsupportedFamilyFailsFast(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)

	seed := authSeedBytes(t)
	btcAddr, err := derive.Address(seed, "bitcoin", 0)
	require.NoError(t, err)
	f.account.Addresses["bitcoin"] = btcAddr
	require.NoError(t, f.store.PutAccount(f.account))

	_, err = f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From: btcAddr, To: btcAddr, Value: "1",
	}, "bitcoin")

	var unsupported *model.UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)
	require.Zero(t, f.rpcHits.Load())
}

func TestSendEVMHappyPath(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)
	f.setBalance(t, "ethereum", "1000000000000000000") // 1 ether

	pending, err := f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From:  f.ethAddr,
		To:    "0x2222222222222222222222222222222222222222",
		Value: "0x0",
	}, "ethereum")
	require.NoError(t, err)
	require.Equal(t, model.TxStatusPending, pending.Status)
	require.Regexp(t, `^0x[0-9a-f]{64}$`, pending.Hash)
	require.Equal(t, "ethereum", pending.Network)

	// History got the record.
	list, err := f.store.Transactions(f.ethAddr)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, pending.Hash, list[0].Hash)

	// Nonce cache advanced.
	account, err := f.store.Account("a1")
	require.NoError(t, err)
	require.Equal(t, uint64(1), account.Nonces["ethereum"])
}

func TestDuplicateBroadcastRejected(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)
	f.setBalance(t, "ethereum", "1000000000000000000")

	params := &model.SendParams{
		From:  f.ethAddr,
		To:    "0x2222222222222222222222222222222222222222",
		Value: "0x0",
	}
	_, err := f.dispatcher.Send(context.Background(), "w1", params, "ethereum")
	require.NoError(t, err)

	// The mock returns the same nonce, so the re-signed transaction hashes
	// identically; the dispatcher must refuse to re-broadcast it.
	f.setBalance(t, "ethereum", "1000000000000000000")
	_, err = f.dispatcher.Send(context.Background(), "w1", params, "ethereum")
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSignMessageEVM(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)

	sig, err := f.dispatcher.SignMessage(context.Background(), "w1", "ethereum", f.ethAddr, []byte("hello"))
	require.NoError(t, err)
	require.Regexp(t, `^0x[0-9a-f]{130}$`, sig)

	// Deterministic per go-ethereum's RFC6979-style signing.
	again, err := f.dispatcher.SignMessage(context.Background(), "w1", "ethereum", f.ethAddr, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, sig, again)
}

func TestSignMessageUnsupportedFamily(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)

	seed := authSeedBytes(t)
	tronAddr, err := derive.Address(seed, "tron", 0)
	require.NoError(t, err)
	f.account.Addresses["tron"] = tronAddr
	require.NoError(t, f.store.PutAccount(f.account))

	_, err = f.dispatcher.SignMessage(context.Background(), "w1", "tron", tronAddr, []byte("hello"))
	var unsupported *model.UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)
}

func TestSendRefusesMismatchedDerivedKey(t *testing.T) {
	// A stale address cache must never let one slot's key sign for another
	// slot's address: the derived address has to match the source exactly.
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)

	otherAddr, err := derive.Address(authSeedBytes(t), "ethereum", 1)
	require.NoError(t, err)
	f.account.Addresses["ethereum"] = otherAddr
	f.account.Balances["ethereum"] = "1000000000000000000"
	require.NoError(t, f.store.PutAccount(f.account))

	_, err = f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From: otherAddr, To: "0x2222222222222222222222222222222222222222", Value: "0x0",
	}, "ethereum")

	var derivationErr *model.DerivationError
	require.ErrorAs(t, err, &derivationErr)

	// Nothing was broadcast or recorded.
	list, err := f.store.Transactions("")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSendResolvesSourceCaseInsensitively(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)
	f.setBalance(t, "ethereum", "0")

	upper := "0x" + strings.ToUpper(f.ethAddr[2:])
	_, err := f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From: upper, To: "0x2222222222222222222222222222222222222222", Value: "1",
	}, "ethereum")

	// The checksum-cased source resolved to the owned account; the failure
	// is the balance, not ownership.
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "value", validationErr.Field)
	require.Zero(t, f.rpcHits.Load())
}

func TestSendAcceptsDisplayAmounts(t *testing.T) {
	f := newFixture(t, evmRPCHandler(t))
	f.unlock(t)
	f.setBalance(t, "ethereum", "400000000000000000") // 0.4 ether

	// "0.5" scales to wei and exceeds the cached balance, so the transfer
	// is settled offline.
	_, err := f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From: f.ethAddr, To: "0x2222222222222222222222222222222222222222", Value: "0.5",
	}, "ethereum")
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Zero(t, f.rpcHits.Load())

	// More fractional digits than wei can represent.
	_, err = f.dispatcher.Send(context.Background(), "w1", &model.SendParams{
		From: f.ethAddr, To: "0x2222222222222222222222222222222222222222",
		Value: "0.1234567890123456789012",
	}, "ethereum")
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "value", validationErr.Field)
}
