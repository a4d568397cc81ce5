package store

import (
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/crypto"
	"github.com/sentinelwallet/sentinel/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "wallet.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWalletRoundTrip(t *testing.T) {
	s := testStore(t)

	w := &model.Wallet{
		ID:        "w1",
		Name:      "Main",
		Envelope:  "opaque-blob",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.PutWallet(w))

	got, err := s.Wallet("w1")
	require.NoError(t, err)
	require.Equal(t, w, got)

	_, err = s.Wallet("missing")
	require.ErrorIs(t, err, model.ErrWalletNotFound)
}

func TestDeleteWalletCascades(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.PutWallet(&model.Wallet{ID: "w1", Name: "Main"}))
	require.NoError(t, s.PutCredential("w1", "v1$aa$bb"))
	require.NoError(t, s.PutAccount(&model.Account{ID: "a1", WalletID: "w1", IsActive: true}))
	require.NoError(t, s.PutAccount(&model.Account{ID: "a2", WalletID: "other"}))

	require.NoError(t, s.DeleteWallet("w1"))

	_, err := s.Wallet("w1")
	require.ErrorIs(t, err, model.ErrWalletNotFound)

	cred, err := s.Credential("w1")
	require.NoError(t, err)
	require.Empty(t, cred)

	_, err = s.Account("a1")
	require.ErrorIs(t, err, model.ErrAccountNotFound)

	// Accounts of other wallets are untouched.
	_, err = s.Account("a2")
	require.NoError(t, err)
}

func TestDeleteAccountReassignsActive(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.PutAccount(&model.Account{ID: "a1", WalletID: "w1", Index: 0, IsActive: true}))
	require.NoError(t, s.PutAccount(&model.Account{ID: "a2", WalletID: "w1", Index: 1}))

	require.NoError(t, s.DeleteAccount("a1"))

	remaining, err := s.AccountsByWallet("w1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.True(t, remaining[0].IsActive, "remaining account must become active")
}

func TestTransactionHistoryAppendOnly(t *testing.T) {
	s := testStore(t)

	tx := &model.PendingTransaction{
		Hash:      "0xabc",
		From:      "0xfrom",
		To:        "0xto",
		Value:     "1",
		Network:   "ethereum",
		Status:    model.TxStatusPending,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, s.AppendTransaction(tx))

	// Duplicate hash is rejected, not overwritten.
	require.Error(t, s.AppendTransaction(tx))

	found, err := s.HasTransaction("0xabc")
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, s.UpdateTransactionStatus("0xabc", model.TxStatusConfirmed))

	// Terminal records are immutable.
	require.Error(t, s.UpdateTransactionStatus("0xabc", model.TxStatusFailed))

	list, err := s.Transactions("0xfrom")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, model.TxStatusConfirmed, list[0].Status)
}

func TestLegacyWalletMigration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.db")

	// Seed a database with a v0 record: flat salt/nonce/cipherText fields,
	// written by the generation of the engine that kept one wallet per
	// file. Use a real envelope so the migrated blob stays decryptable.
	envelope, err := crypto.EncryptWithParams([]byte("legacy seed phrase words"), []byte("pw"), crypto.Params{N: 1 << 12, R: 8, P: 1})
	require.NoError(t, err)
	blob, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)

	legacy := map[string]string{
		"network":    "solana",
		"address":    "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		"salt":       base64.StdEncoding.EncodeToString(blob[4:36]),
		"nonce":      base64.StdEncoding.EncodeToString(blob[36:48]),
		"cipherText": base64.StdEncoding.EncodeToString(blob[48:]),
	}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)

	db, err := bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte("wallets"))
		if err != nil {
			return err
		}
		return b.Put([]byte("legacy-1"), raw)
	}))
	require.NoError(t, db.Close())

	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	w, err := s.Wallet("legacy-1")
	require.NoError(t, err)
	require.NotEmpty(t, w.Envelope)

	// The migrated envelope must decrypt with the original password. The
	// header written by migration declares the legacy scrypt profile, so
	// rebuild it with the test profile before decrypting.
	migrated, err := base64.StdEncoding.DecodeString(w.Envelope)
	require.NoError(t, err)
	migrated[1] = 12 // test blobs above were written with N=2^12
	plaintext, err := crypto.Decrypt(base64.StdEncoding.EncodeToString(migrated), []byte("pw"))
	require.NoError(t, err)
	require.Equal(t, "legacy seed phrase words", string(plaintext))

	// The cached address became an account.
	accounts, err := s.AccountsByWallet("legacy-1")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", accounts[0].Address("solana"))
	require.True(t, accounts[0].IsActive)

	// Re-opening must not migrate twice.
	require.NoError(t, s.Close())
	s2, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer s2.Close()
	accounts, err = s2.AccountsByWallet("legacy-1")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
}

func TestActiveNetworkSetting(t *testing.T) {
	s := testStore(t)

	network, err := s.ActiveNetwork("ethereum")
	require.NoError(t, err)
	require.Equal(t, "ethereum", network)

	require.NoError(t, s.SetActiveNetwork("solana"))

	network, err = s.ActiveNetwork("ethereum")
	require.NoError(t, err)
	require.Equal(t, "solana", network)
}

func TestTransactionsHexFilterIgnoresCase(t *testing.T) {
	s := testStore(t)

	tx := &model.PendingTransaction{
		Hash:      "0xcase",
		From:      "0xd8da6bf26964af9d7eed9e03e53415d37aa96045",
		To:        "0x2222222222222222222222222222222222222222",
		Value:     "1",
		Network:   "ethereum",
		Status:    model.TxStatusPending,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, s.AppendTransaction(tx))

	// EIP-55 checksum casing of the same account.
	list, err := s.Transactions("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "0xcase", list[0].Hash)

	list, err = s.Transactions("0XD8DA6BF26964AF9D7EED9E03E53415D37AA96045")
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = s.Transactions("0xd8da6bf26964af9d7eed9e03e53415d37aa96046")
	require.NoError(t, err)
	require.Empty(t, list)
}
