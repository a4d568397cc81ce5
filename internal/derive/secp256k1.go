package derive

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

const hardened = hdkeychain.HardenedKeyStart

// secpChild walks a BIP32 path from the master key of seed and returns the
// leaf key pair. Intermediate extended keys are zeroed before returning.
func secpChild(seed []byte, path []uint32) (*btcec.PrivateKey, *btcec.PublicKey, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build master key: %w", err)
	}

	for depth, step := range path {
		child, err := key.Derive(step)
		key.Zero()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to derive path step %d: %w", depth, err)
		}
		key = child
	}
	defer key.Zero()

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract private key: %w", err)
	}

	return priv, priv.PubKey(), nil
}

// bip44Path is m/purpose'/coinType'/0'/0/index, the shape every secp256k1
// family here uses.
func bip44Path(purpose, coinType, index uint32) []uint32 {
	return []uint32{hardened + purpose, hardened + coinType, hardened, 0, index}
}
