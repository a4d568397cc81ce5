package derive

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// bitcoinKeys derives m/84'/0'/0'/0/index and encodes a native segwit
// (P2WPKH, bc1…) address.
func bitcoinKeys(seed []byte, index uint32) (*KeyPair, error) {
	priv, pub, err := secpChild(seed, bip44Path(84, coinTypeBitcoin, index))
	if err != nil {
		return nil, err
	}

	witnessProg := btcutil.Hash160(pub.SerializeCompressed())
	addr, err := btcutil.NewAddressWitnessPubKeyHash(witnessProg, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to build witness address: %w", err)
	}

	return &KeyPair{
		Address:    addr.EncodeAddress(),
		PrivateKey: priv.Serialize(),
		PublicKey:  pub.SerializeCompressed(),
	}, nil
}
