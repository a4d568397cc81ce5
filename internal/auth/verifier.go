package auth

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/crypto"
	"github.com/sentinelwallet/sentinel/internal/model"
)

// Accepted seed phrase word counts (BIP39 range).
const (
	minSeedWords = 12
	maxSeedWords = 24
)

// CredentialStore is the slice of the account store the verifier needs.
type CredentialStore interface {
	Credential(walletID string) (string, error)
	PutCredential(walletID, credential string) error
}

// Verifier authenticates passwords against a wallet. Verification order is
// fixed and must not be reordered:
//
//  1. stored credential, when present and conclusive — O(1), offline;
//  2. decrypting the seed envelope — the ground truth, because the stored
//     credential may be stale or missing while the envelope is not;
//  3. on a ground-truth success where path 1 could not confirm, the
//     credential is regenerated and persisted ("self-heal") and the repair
//     is flagged so silent drift stays observable.
//
// Only when every path fails is the password rejected.
type Verifier struct {
	store  CredentialStore
	logger *zap.Logger
}

// NewVerifier creates a Verifier over the credential store.
func NewVerifier(store CredentialStore, logger *zap.Logger) *Verifier {
	return &Verifier{store: store, logger: logger}
}

// VerifyResult reports how authentication succeeded. Phrase is the decrypted
// seed phrase; callers take ownership and must zero it.
type VerifyResult struct {
	Phrase []byte

	// ViaCredential is true when path 1 confirmed the password.
	ViaCredential bool

	// Repaired is true when the credential was missing or stale and has
	// been regenerated from the verified password.
	Repaired bool
}

// Verify authenticates password for wallet. Never partially unlocks: either
// the result carries a decrypted, plausible seed phrase, or the error is
// model.ErrAuthentication.
func (v *Verifier) Verify(wallet *model.Wallet, password []byte) (*VerifyResult, error) {
	credential, err := v.store.Credential(wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	credentialOK := false
	if credential != "" {
		match, conclusive := credentialMatches(credential, password)
		if conclusive && match {
			credentialOK = true
		}
		// A mismatch is NOT an immediate rejection: the stored artifact
		// may be stale. The envelope decides.
	}

	phrase, err := crypto.Decrypt(wallet.Envelope, password)
	if err != nil {
		clear(phrase)
		if credentialOK {
			// Credential says yes but the envelope does not open:
			// the ciphertext is corrupt, not the password.
			return nil, fmt.Errorf("credential matched but envelope is unreadable: %w", err)
		}
		return nil, model.ErrAuthentication
	}

	if !plausibleSeedPhrase(phrase) {
		clear(phrase)
		return nil, model.ErrAuthentication
	}

	result := &VerifyResult{Phrase: phrase, ViaCredential: credentialOK}

	if !credentialOK {
		// Self-heal: the password is proven correct by the ground truth,
		// so regenerate the missing/stale artifact.
		fresh, err := NewCredential(password)
		if err != nil {
			clear(phrase)
			return nil, fmt.Errorf("failed to regenerate credential: %w", err)
		}
		if err := v.store.PutCredential(wallet.ID, fresh); err != nil {
			clear(phrase)
			return nil, fmt.Errorf("failed to persist regenerated credential: %w", err)
		}
		result.Repaired = true
		v.logger.Warn("password credential repaired from seed decryption",
			zap.String("wallet_id", wallet.ID),
			zap.Bool("was_missing", credential == ""))
	}

	return result, nil
}

// plausibleSeedPhrase checks that a decrypted blob looks like a mnemonic:
// 12-24 space-separated words. GCM already authenticates the plaintext; this
// guards against an envelope that was never a seed phrase.
func plausibleSeedPhrase(phrase []byte) bool {
	words := strings.Fields(string(phrase))
	return len(words) >= minSeedWords && len(words) <= maxSeedWords
}
