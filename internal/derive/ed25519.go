package derive

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
)

// SLIP-0010 ed25519 derivation. The curve admits hardened children only, so
// every path step is hardened implicitly. Hand-rolled because neither
// solana-go nor the btcd suite exposes ed25519 HD derivation; the algorithm
// is two HMAC-SHA512 constructions over fixed layouts.

const slip10Key = "ed25519 seed"

// slip10Master computes the SLIP-0010 master secret and chain code.
func slip10Master(seed []byte) (secret, chainCode []byte) {
	mac := hmac.New(sha512.New, []byte(slip10Key))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// slip10Child derives one hardened child from (secret, chainCode).
func slip10Child(secret, chainCode []byte, index uint32) (childSecret, childChain []byte) {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, secret...)
	data = binary.BigEndian.AppendUint32(data, hardened+index)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// ed25519Child walks a SLIP-0010 path and expands the leaf secret into an
// ed25519 key pair.
func ed25519Child(seed []byte, path []uint32) (ed25519.PrivateKey, ed25519.PublicKey) {
	secret, chainCode := slip10Master(seed)
	for _, step := range path {
		secret, chainCode = slip10Child(secret, chainCode, step)
	}
	defer clear(secret)
	defer clear(chainCode)

	priv := ed25519.NewKeyFromSeed(secret)
	return priv, priv.Public().(ed25519.PublicKey)
}
