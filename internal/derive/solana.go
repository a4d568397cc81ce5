package derive

import (
	solanago "github.com/gagliardetto/solana-go"
)

// solanaKeys derives the Phantom-compatible path m/44'/501'/index'/0' over
// SLIP-0010 ed25519.
func solanaKeys(seed []byte, index uint32) (*KeyPair, error) {
	priv, pub := ed25519Child(seed, []uint32{44, coinTypeSolana, index, 0})

	address := solanago.PublicKeyFromBytes(pub).String()

	return &KeyPair{
		Address:    address,
		PrivateKey: priv,
		PublicKey:  pub,
	}, nil
}
