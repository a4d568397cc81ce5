package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/model"
)

const schemaVersion = 1

// legacyWallet is the v0 on-disk shape: one record per wallet with the
// envelope split into flat base64 fields and a single cached address. Those
// blobs were written with scrypt N=2^18, r=8, p=1.
type legacyWallet struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// migrate upgrades any legacy records to the current schema inside the open
// transaction. Runs once; subsequent opens see the current version marker.
func (s *Store) migrate(tx *bolt.Tx) error {
	meta := tx.Bucket(bucketMeta)
	if v := meta.Get(keySchemaVersion); string(v) == fmt.Sprint(schemaVersion) {
		return nil
	}

	wallets := tx.Bucket(bucketWallets)
	accounts := tx.Bucket(bucketAccounts)

	type rewrite struct {
		key []byte
		val []byte
	}
	var rewrites []rewrite
	var newAccounts []*model.Account

	err := wallets.ForEach(func(k, v []byte) error {
		var legacy legacyWallet
		if err := json.Unmarshal(v, &legacy); err != nil || legacy.CipherText == "" {
			// Already canonical (or unreadable, in which case leaving
			// it alone is the safe choice).
			return nil
		}

		envelope, err := legacyEnvelope(&legacy)
		if err != nil {
			return fmt.Errorf("failed to upgrade wallet record %q: %w", k, err)
		}

		w := &model.Wallet{
			ID:        string(k),
			Name:      "Migrated Wallet",
			Envelope:  envelope,
			CreatedAt: time.Now().UTC(),
		}
		raw, err := json.Marshal(w)
		if err != nil {
			return err
		}
		rewrites = append(rewrites, rewrite{key: append([]byte(nil), k...), val: raw})

		if legacy.Address != "" && legacy.Network != "" {
			newAccounts = append(newAccounts, &model.Account{
				ID:        uuid.NewString(),
				WalletID:  w.ID,
				Index:     0,
				IsActive:  true,
				Addresses: map[string]string{legacy.Network: legacy.Address},
			})
		}

		s.logger.Info("migrated legacy wallet record",
			zap.String("wallet_id", w.ID),
			zap.String("network", legacy.Network))
		return nil
	})
	if err != nil {
		return err
	}

	for _, r := range rewrites {
		if err := wallets.Put(r.key, r.val); err != nil {
			return err
		}
	}
	for _, a := range newAccounts {
		raw, err := json.Marshal(a)
		if err != nil {
			return err
		}
		if err := accounts.Put([]byte(a.ID), raw); err != nil {
			return err
		}
	}

	return meta.Put(keySchemaVersion, []byte(fmt.Sprint(schemaVersion)))
}

// legacyEnvelope reassembles the flat v0 fields into the current envelope
// blob: header (version, log2 N, r, p) || salt || nonce || ciphertext.
func legacyEnvelope(legacy *legacyWallet) (string, error) {
	salt, err := base64.StdEncoding.DecodeString(legacy.Salt)
	if err != nil {
		return "", fmt.Errorf("bad salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(legacy.Nonce)
	if err != nil {
		return "", fmt.Errorf("bad nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(legacy.CipherText)
	if err != nil {
		return "", fmt.Errorf("bad ciphertext: %w", err)
	}
	if len(salt) != 32 || len(nonce) != 12 {
		return "", fmt.Errorf("unexpected salt/nonce length %d/%d", len(salt), len(nonce))
	}

	blob := make([]byte, 0, 4+len(salt)+len(nonce)+len(ciphertext))
	blob = append(blob, 1, 18, 8, 1) // v1 header with the legacy scrypt profile
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return base64.StdEncoding.EncodeToString(blob), nil
}
