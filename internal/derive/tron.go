package derive

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// tronAddressPrefix is the mainnet version byte; base58check of
// 0x41||hash160 always starts with 'T'.
const tronAddressPrefix = 0x41

// tronKeys derives m/44'/195'/0'/0/index. TRON reuses the EVM account hash
// construction (keccak256 of the uncompressed point) under its own coin type
// and base58check encoding.
func tronKeys(seed []byte, index uint32) (*KeyPair, error) {
	priv, pub, err := secpChild(seed, bip44Path(44, coinTypeTron, index))
	if err != nil {
		return nil, err
	}

	uncompressed := pub.SerializeUncompressed()
	digest := ethcrypto.Keccak256(uncompressed[1:]) // drop the 0x04 point tag
	address := base58.CheckEncode(digest[12:], tronAddressPrefix)

	return &KeyPair{
		Address:    address,
		PrivateKey: priv.Serialize(),
		PublicKey:  pub.SerializeCompressed(),
	}, nil
}
