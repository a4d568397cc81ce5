package derive

import (
	"crypto/ecdsa"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/sentinelwallet/sentinel/internal/model"
)

// KeyPair is derived signing material for one (seed, network, index). The
// private key lives in memory only for the duration of a signing operation;
// callers must Zero it when done.
type KeyPair struct {
	Network string
	Family  string
	Index   uint32
	Address string

	// PrivateKey holds a 32-byte secp256k1 scalar or a 64-byte expanded
	// ed25519 key depending on the family.
	PrivateKey []byte
	// PublicKey holds a 33-byte compressed secp256k1 point or a 32-byte
	// ed25519 point.
	PublicKey []byte
}

// ECDSA converts a secp256k1 key pair into the crypto/ecdsa form the EVM
// signer wants.
func (k *KeyPair) ECDSA() (*ecdsa.PrivateKey, error) {
	if len(k.PrivateKey) != 32 {
		return nil, fmt.Errorf("not a secp256k1 key pair (family %s)", k.Family)
	}
	return ethcrypto.ToECDSA(k.PrivateKey)
}

// Zero wipes the private key material.
func (k *KeyPair) Zero() {
	clear(k.PrivateKey)
}

// Address derives the network-formatted address for (seed, network, index).
// The result is re-validated against the network's own address format before
// it is returned; a failed check is a DerivationError, never a malformed
// address.
func Address(seed []byte, network string, index uint32) (string, error) {
	kp, err := Keys(seed, network, index)
	if err != nil {
		return "", err
	}
	defer kp.Zero()
	return kp.Address, nil
}

// Keys derives the full key pair for (seed, network, index).
func Keys(seed []byte, network string, index uint32) (*KeyPair, error) {
	net, ok := Lookup(network)
	if !ok {
		return nil, model.NewValidationError("network", fmt.Sprintf("unknown network %q", network))
	}

	var (
		kp  *KeyPair
		err error
	)
	switch net.Family {
	case FamilyEVM:
		kp, err = evmKeys(seed, index)
	case FamilyBitcoin:
		kp, err = bitcoinKeys(seed, index)
	case FamilySolana:
		kp, err = solanaKeys(seed, index)
	case FamilyTron:
		kp, err = tronKeys(seed, index)
	case FamilyTON:
		kp, err = tonKeys(seed, index)
	case FamilyXRP:
		kp, err = xrpKeys(seed, index)
	default:
		return nil, &model.UnsupportedOperationError{Network: network, Operation: "derive"}
	}
	if err != nil {
		return nil, &model.DerivationError{Network: network, Reason: err.Error()}
	}

	kp.Network = network
	kp.Family = net.Family
	kp.Index = index

	// Format postcondition: never hand out an address the network itself
	// would reject.
	if err := ValidateAddress(network, kp.Address); err != nil {
		kp.Zero()
		return nil, &model.DerivationError{
			Network: network,
			Reason:  fmt.Sprintf("derived address %q failed format check: %v", kp.Address, err),
		}
	}

	return kp, nil
}
