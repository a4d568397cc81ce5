package derive

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	btcbase58 "github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	solanago "github.com/gagliardetto/solana-go"
	mrbase58 "github.com/mr-tron/base58"

	"github.com/sentinelwallet/sentinel/internal/model"
)

// ValidateAddress checks that address is structurally valid for the given
// network: prefix, length, charset and, where the format defines one, the
// checksum. A failure is a ValidationError.
func ValidateAddress(network, address string) error {
	net, ok := Lookup(network)
	if !ok {
		return model.NewValidationError("network", fmt.Sprintf("unknown network %q", network))
	}

	var valid bool
	switch net.Family {
	case FamilyEVM:
		valid = common.IsHexAddress(address)
	case FamilyBitcoin:
		valid = validBitcoinAddress(address)
	case FamilySolana:
		_, err := solanago.PublicKeyFromBase58(address)
		valid = err == nil
	case FamilyTron:
		valid = validTronAddress(address)
	case FamilyTON:
		valid = validTONAddress(address)
	case FamilyXRP:
		valid = validXRPAddress(address)
	}

	if !valid {
		return model.NewValidationError("address",
			fmt.Sprintf("%q is not a valid %s address", address, network))
	}
	return nil
}

func validBitcoinAddress(address string) bool {
	addr, err := btcutil.DecodeAddress(address, &chaincfg.MainNetParams)
	return err == nil && addr.IsForNet(&chaincfg.MainNetParams)
}

func validTronAddress(address string) bool {
	hash, version, err := btcbase58.CheckDecode(address)
	return err == nil && version == tronAddressPrefix && len(hash) == 20
}

func validTONAddress(address string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(address)
	if err != nil || len(raw) != 36 {
		return false
	}
	if raw[0] != tonTagBounceable && raw[0] != tonTagNonBounceable {
		return false
	}
	crc := crc16xmodem(raw[:34])
	return raw[34] == byte(crc>>8) && raw[35] == byte(crc)
}

func validXRPAddress(address string) bool {
	raw, err := mrbase58.DecodeAlphabet(address, xrpAlphabet)
	if err != nil || len(raw) != 25 || raw[0] != xrpAccountVersion {
		return false
	}
	want := xrpChecksum(raw[:21])
	return subtle.ConstantTimeCompare(raw[21:], want) == 1
}
