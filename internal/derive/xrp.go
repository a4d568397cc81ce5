package derive

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/mr-tron/base58"
)

// xrpAlphabet is the XRPL base58 dictionary; its zero digit is 'r', which is
// why account addresses start with it.
var xrpAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

// xrpAccountVersion is the account-id version byte of the classic address
// encoding.
const xrpAccountVersion = 0x00

// xrpKeys derives m/44'/144'/0'/0/index and encodes the classic address:
// version byte + hash160 of the compressed point, double-SHA256 checksum,
// ripple-alphabet base58.
func xrpKeys(seed []byte, index uint32) (*KeyPair, error) {
	priv, pub, err := secpChild(seed, bip44Path(44, coinTypeXRP, index))
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, 25)
	payload = append(payload, xrpAccountVersion)
	payload = append(payload, btcutil.Hash160(pub.SerializeCompressed())...)
	payload = append(payload, xrpChecksum(payload)...)

	return &KeyPair{
		Address:    base58.EncodeAlphabet(payload, xrpAlphabet),
		PrivateKey: priv.Serialize(),
		PublicKey:  pub.SerializeCompressed(),
	}, nil
}

// xrpChecksum is the first four bytes of double SHA-256.
func xrpChecksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}
