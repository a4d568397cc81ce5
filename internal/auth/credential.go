// Package auth implements password verification and the lock/unlock session
// state machine that gates every seed-derived operation.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Credential format: "v1$hex(salt)$hex(scrypt(password, salt))". The
// credential answers "is this password correct" without touching the seed
// envelope; possession of it must not help recover the seed, which scrypt's
// one-way construction guarantees.
const (
	credentialVersion = "v1"

	// Cheaper profile than the envelope KDF: this artifact only gates an
	// interactive check, the envelope is the real prize.
	credScryptN      = 1 << 15
	credScryptR      = 8
	credScryptP      = 1
	credScryptKeyLen = 32
	credSaltLen      = 16
)

// NewCredential derives a fresh verification artifact from a password.
// password must be []byte for security (caller should zero it after use).
func NewCredential(password []byte) (string, error) {
	salt := make([]byte, credSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate credential salt: %w", err)
	}

	key, err := scrypt.Key(password, salt, credScryptN, credScryptR, credScryptP, credScryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive credential: %w", err)
	}
	defer clear(key)

	return strings.Join([]string{
		credentialVersion,
		hex.EncodeToString(salt),
		hex.EncodeToString(key),
	}, "$"), nil
}

// credentialMatches compares a password against a stored credential.
// conclusive is false when the artifact is unparseable (corrupt or from an
// unknown version) — that is not a rejection, the caller must fall through
// to the seed-decrypt ground truth.
func credentialMatches(credential string, password []byte) (match, conclusive bool) {
	parts := strings.Split(credential, "$")
	if len(parts) != 3 || parts[0] != credentialVersion {
		return false, false
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil || len(salt) != credSaltLen {
		return false, false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != credScryptKeyLen {
		return false, false
	}

	got, err := scrypt.Key(password, salt, credScryptN, credScryptR, credScryptP, credScryptKeyLen)
	if err != nil {
		return false, false
	}
	defer clear(got)

	return subtle.ConstantTimeCompare(got, want) == 1, true
}
