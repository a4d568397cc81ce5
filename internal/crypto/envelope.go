// Package crypto implements envelope encryption of secret strings under a
// password-derived key: scrypt for key derivation, AES-256-GCM for the
// authenticated cipher.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"math/bits"

	"github.com/sentinelwallet/sentinel/internal/model"
	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters
	// Security is prioritized over performance
	//
	// N=2^18 (~256MB RAM, 0.5-2s) - optimal balance:
	//   - Maximum security while remaining compatible with mobile devices
	//   - Brute-force attacks remain extremely expensive
	//
	// Note: N=2^20 (~1GB) offers the highest security but fails on low-memory
	// devices
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32

	saltLen  = 32
	nonceLen = 12

	envelopeVersion = 1
	headerLen       = 4 // version, log2(N), r, p
)

// Params are the scrypt cost parameters recorded in each envelope, so blobs
// written under one profile stay decryptable if the default changes.
type Params struct {
	N int
	R int
	P int
}

// DefaultParams is the production scrypt profile.
var DefaultParams = Params{N: scryptN, R: scryptR, P: scryptP}

// Encrypt encrypts plaintext under a password-derived key using the default
// scrypt profile. password must be []byte for security (caller should zero it
// after use). The returned envelope is base64(header || salt || nonce ||
// ciphertext).
func Encrypt(plaintext, password []byte) (string, error) {
	return EncryptWithParams(plaintext, password, DefaultParams)
}

// EncryptWithParams encrypts plaintext under a specific scrypt profile.
func EncryptWithParams(plaintext, password []byte, params Params) (string, error) {
	if params.N < 2 || params.N&(params.N-1) != 0 {
		return "", fmt.Errorf("scrypt N must be a power of two > 1, got %d", params.N)
	}

	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt, params)
	if err != nil {
		return "", err
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	blob := make([]byte, 0, headerLen+saltLen+nonceLen+len(ciphertext))
	blob = append(blob, envelopeVersion, byte(bits.TrailingZeros(uint(params.N))), byte(params.R), byte(params.P))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens an envelope produced by Encrypt. A wrong password and a
// tampered blob both fail with model.ErrDecryption; no partial plaintext is
// ever returned. Caller should zero the returned plaintext after use.
func Decrypt(envelope string, password []byte) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}

	if len(blob) < headerLen+saltLen+nonceLen+1 {
		return nil, fmt.Errorf("envelope too short: %w", model.ErrDecryption)
	}
	if blob[0] != envelopeVersion {
		return nil, fmt.Errorf("unknown envelope version %d", blob[0])
	}
	params := Params{N: 1 << int(blob[1]), R: int(blob[2]), P: int(blob[3])}

	salt := blob[headerLen : headerLen+saltLen]
	nonce := blob[headerLen+saltLen : headerLen+saltLen+nonceLen]
	ciphertext := blob[headerLen+saltLen+nonceLen:]

	aesGCM, err := newGCM(password, salt, params)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// GCM authentication failure: wrong key or tampering
		return nil, model.ErrDecryption
	}

	return plaintext, nil
}

// newGCM derives the symmetric key from the password and salt and builds the
// AEAD instance.
func newGCM(password, salt []byte, params Params) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key) // wipe key bytes once the cipher holds its schedule

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aesGCM, nil
}
