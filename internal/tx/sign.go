package tx

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"

	"github.com/sentinelwallet/sentinel/internal/derive"
	"github.com/sentinelwallet/sentinel/internal/model"
)

// SignMessage signs an arbitrary message with the key behind one of the
// wallet's addresses. EVM networks use the personal_sign construction (the
// "\x19Ethereum Signed Message" prefix keeps signed messages from doubling
// as transactions); Solana signs the raw bytes with ed25519. Other families
// are unsupported.
func (d *Dispatcher) SignMessage(ctx context.Context, walletID, network, address string, message []byte) (string, error) {
	net, ok := derive.Lookup(network)
	if !ok {
		return "", model.NewValidationError("network", fmt.Sprintf("unknown network %q", network))
	}

	seed, err := d.sessions.RequireUnlocked(walletID)
	if err != nil {
		return "", err
	}

	account, err := d.resolveFromAccount(walletID, network, address)
	if err != nil {
		return "", err
	}

	seedBytes := seed.Bytes()
	defer clear(seedBytes)
	kp, err := derive.Keys(seedBytes, network, account.Index)
	if err != nil {
		return "", err
	}
	defer kp.Zero()

	switch net.Family {
	case derive.FamilyEVM:
		return signEVMPersonal(kp, message)
	case derive.FamilySolana:
		sig := ed25519.Sign(ed25519.PrivateKey(kp.PrivateKey), message)
		return base58.Encode(sig), nil
	default:
		return "", &model.UnsupportedOperationError{Network: network, Operation: "signMessage"}
	}
}

func signEVMPersonal(kp *derive.KeyPair, message []byte) (string, error) {
	priv, err := kp.ECDSA()
	if err != nil {
		return "", fmt.Errorf("failed to load signing key: %w", err)
	}

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	digest := ethcrypto.Keccak256([]byte(prefixed))

	sig, err := ethcrypto.Sign(digest, priv)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	// Recovery id to Ethereum's 27/28 convention.
	sig[64] += 27

	return hexutil.Encode(sig), nil
}
