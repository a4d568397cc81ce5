package derive

import (
	"crypto/sha256"
	"encoding/base64"
)

// TON user-friendly address tags: flags byte then workchain byte, both
// covered by a CRC16-XMODEM suffix.
const (
	tonTagBounceable    = 0x11
	tonTagNonBounceable = 0x51
	tonWorkchainBase    = 0x00
)

// tonAccountLabel domain-separates the account id from every other use of
// the ed25519 public key.
const tonAccountLabel = "ton/wallet/v4r2"

// tonKeys derives m/44'/607'/index' over SLIP-0010 ed25519 and encodes the
// bounceable user-friendly address for workchain 0.
//
// The account id is a deterministic digest of the public key under a wallet
// version label. Deriving it from the real wallet-contract state-init cell
// requires a TON cell serializer and must replace this digest before funds
// are received on TON (see DESIGN.md).
func tonKeys(seed []byte, index uint32) (*KeyPair, error) {
	priv, pub := ed25519Child(seed, []uint32{44, coinTypeTON, index})

	h := sha256.New()
	h.Write([]byte(tonAccountLabel))
	h.Write(pub)
	accountID := h.Sum(nil)

	return &KeyPair{
		Address:    tonFriendlyAddress(tonTagBounceable, tonWorkchainBase, accountID),
		PrivateKey: priv,
		PublicKey:  pub,
	}, nil
}

// tonFriendlyAddress encodes tag || workchain || accountID || crc16 as
// unpadded base64url (48 characters, "EQ…"/"UQ…" for workchain 0).
func tonFriendlyAddress(tag, workchain byte, accountID []byte) string {
	data := make([]byte, 0, 36)
	data = append(data, tag, workchain)
	data = append(data, accountID...)
	crc := crc16xmodem(data)
	data = append(data, byte(crc>>8), byte(crc))
	return base64.RawURLEncoding.EncodeToString(data)
}

// crc16xmodem is the CRC-16/XMODEM variant TON uses for address checksums
// (poly 0x1021, zero init).
func crc16xmodem(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
