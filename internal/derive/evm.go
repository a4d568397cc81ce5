package derive

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// evmKeys derives m/44'/60'/0'/0/index. One derivation serves every EVM
// network, so a given account index has the same address on all of them.
func evmKeys(seed []byte, index uint32) (*KeyPair, error) {
	priv, pub, err := secpChild(seed, bip44Path(44, coinTypeEVM, index))
	if err != nil {
		return nil, err
	}

	address := ethcrypto.PubkeyToAddress(priv.ToECDSA().PublicKey).Hex()

	return &KeyPair{
		Address:    address,
		PrivateKey: priv.Serialize(),
		PublicKey:  pub.SerializeCompressed(),
	}, nil
}
