// Package store persists wallets, accounts, password credentials, and the
// transaction history in a single bbolt database. Seed material never passes
// through this package except inside its opaque encrypted envelope.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/model"
)

var (
	bucketWallets      = []byte("wallets")
	bucketAccounts     = []byte("accounts")
	bucketCredentials  = []byte("credentials")
	bucketTransactions = []byte("transactions")
	bucketMeta         = []byte("meta")

	keySchemaVersion = []byte("schemaVersion")
	keyActiveNetwork = []byte("activeNetwork")
)

// Store is the engine's durable record set.
type Store struct {
	db     *bolt.DB
	logger *zap.Logger
}

// Open opens (creating if absent) the database at path and migrates any
// legacy on-disk shape to the current schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, logger: logger}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketWallets, bucketAccounts, bucketCredentials, bucketTransactions, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return s.migrate(tx)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutWallet inserts or replaces a wallet record.
func (s *Store) PutWallet(w *model.Wallet) error {
	return s.putJSON(bucketWallets, []byte(w.ID), w)
}

// Wallet loads one wallet by id.
func (s *Store) Wallet(id string) (*model.Wallet, error) {
	var w model.Wallet
	if err := s.getJSON(bucketWallets, []byte(id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Wallets lists all wallets sorted by creation time.
func (s *Store) Wallets() ([]*model.Wallet, error) {
	var out []*model.Wallet
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWallets).ForEach(func(_, v []byte) error {
			var w model.Wallet
			if err := json.Unmarshal(v, &w); err != nil {
				return fmt.Errorf("failed to decode wallet record: %w", err)
			}
			out = append(out, &w)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// DeleteWallet removes a wallet, its credential, and its accounts.
func (s *Store) DeleteWallet(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketWallets).Get([]byte(id)) == nil {
			return model.ErrWalletNotFound
		}
		if err := tx.Bucket(bucketWallets).Delete([]byte(id)); err != nil {
			return err
		}
		if err := tx.Bucket(bucketCredentials).Delete([]byte(id)); err != nil {
			return err
		}

		accounts := tx.Bucket(bucketAccounts)
		var orphaned [][]byte
		err := accounts.ForEach(func(k, v []byte) error {
			var a model.Account
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			if a.WalletID == id {
				orphaned = append(orphaned, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range orphaned {
			if err := accounts.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Credential loads the stored password credential of a wallet; "" when none
// exists (a missing credential is not an error, the verifier falls back to
// seed decryption).
func (s *Store) Credential(walletID string) (string, error) {
	var cred string
	err := s.db.View(func(tx *bolt.Tx) error {
		cred = string(tx.Bucket(bucketCredentials).Get([]byte(walletID)))
		return nil
	})
	return cred, err
}

// PutCredential stores a wallet's password credential.
func (s *Store) PutCredential(walletID, credential string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCredentials).Put([]byte(walletID), []byte(credential))
	})
}

// PutAccount inserts or replaces an account record.
func (s *Store) PutAccount(a *model.Account) error {
	return s.putJSON(bucketAccounts, []byte(a.ID), a)
}

// Account loads one account by id.
func (s *Store) Account(id string) (*model.Account, error) {
	var a model.Account
	if err := s.getJSON(bucketAccounts, []byte(id), &a); err != nil {
		if err == errKeyNotFound {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// AccountsByWallet lists a wallet's accounts ordered by derivation index.
func (s *Store) AccountsByWallet(walletID string) ([]*model.Account, error) {
	var out []*model.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(_, v []byte) error {
			var a model.Account
			if err := json.Unmarshal(v, &a); err != nil {
				return fmt.Errorf("failed to decode account record: %w", err)
			}
			if a.WalletID == walletID {
				out = append(out, &a)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// DeleteAccount removes an account. When the removed account was active the
// first remaining account of the wallet becomes active.
func (s *Store) DeleteAccount(id string) error {
	a, err := s.Account(id)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).Delete([]byte(id))
	}); err != nil {
		return err
	}

	if !a.IsActive {
		return nil
	}
	remaining, err := s.AccountsByWallet(a.WalletID)
	if err != nil || len(remaining) == 0 {
		return err
	}
	remaining[0].IsActive = true
	return s.PutAccount(remaining[0])
}

// AppendTransaction adds a new history record. The history is append-only
// and keyed by hash, so a duplicate hash (an uncertain broadcast retried by
// a caller) is rejected rather than recorded twice.
func (s *Store) AppendTransaction(t *model.PendingTransaction) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		if b.Get([]byte(t.Hash)) != nil {
			return fmt.Errorf("transaction %s already recorded", t.Hash)
		}
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode transaction: %w", err)
		}
		return b.Put([]byte(t.Hash), raw)
	})
}

// HasTransaction reports whether a hash is already in the history.
func (s *Store) HasTransaction(hash string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketTransactions).Get([]byte(hash)) != nil
		return nil
	})
	return found, err
}

// UpdateTransactionStatus applies a status transition. Terminal records are
// immutable.
func (s *Store) UpdateTransactionStatus(hash string, status model.TxStatus) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		raw := b.Get([]byte(hash))
		if raw == nil {
			return fmt.Errorf("transaction %s not found", hash)
		}
		var t model.PendingTransaction
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("failed to decode transaction: %w", err)
		}
		if t.Status.Terminal() {
			return fmt.Errorf("transaction %s is already %s", hash, t.Status)
		}
		t.Status = status
		updated, err := json.Marshal(&t)
		if err != nil {
			return err
		}
		return b.Put([]byte(hash), updated)
	})
}

// Transactions lists history records for an address (either side), newest
// first. An empty address lists everything. Hex addresses match
// case-insensitively since checksum casing varies by client.
func (s *Store) Transactions(address string) ([]*model.PendingTransaction, error) {
	match := func(candidate string) bool {
		if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
			return strings.EqualFold(candidate, address)
		}
		return candidate == address
	}
	var out []*model.PendingTransaction
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTransactions).ForEach(func(_, v []byte) error {
			var t model.PendingTransaction
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("failed to decode transaction record: %w", err)
			}
			if address == "" || match(t.From) || match(t.To) {
				out = append(out, &t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

var errKeyNotFound = fmt.Errorf("key not found")

// SetActiveNetwork records the globally selected network.
func (s *Store) SetActiveNetwork(network string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyActiveNetwork, []byte(network))
	})
}

// ActiveNetwork returns the selected network, or fallback when none was ever
// set.
func (s *Store) ActiveNetwork(fallback string) (string, error) {
	network := fallback
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketMeta).Get(keyActiveNetwork); len(v) > 0 {
			network = string(v)
		}
		return nil
	})
	return network, err
}

func (s *Store) putJSON(bucket, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(key, raw)
	})
}

func (s *Store) getJSON(bucket, key []byte, v any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucket).Get(key)
		if raw == nil {
			if string(bucket) == string(bucketWallets) {
				return model.ErrWalletNotFound
			}
			return errKeyNotFound
		}
		return json.Unmarshal(raw, v)
	})
}
