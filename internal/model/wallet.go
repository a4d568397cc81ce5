package model

import (
	"strings"
	"time"
)

// Wallet is the canonical persisted wallet record. The seed phrase exists on
// disk only inside Envelope (see internal/crypto); plaintext seed material is
// never serialized.
type Wallet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Envelope  string    `json:"envelope"`
	CreatedAt time.Time `json:"createdAt"`
}

// Account is one derivation slot of a wallet. A single account can hold
// addresses for several networks; every EVM network resolves to the same
// address per index.
type Account struct {
	ID       string `json:"id"`
	WalletID string `json:"walletId"`
	Index    uint32 `json:"index"`
	IsActive bool   `json:"isActive"`

	// Addresses caches derived addresses per network id. Once present, an
	// address is never re-derived to serve a read.
	Addresses map[string]string `json:"addresses"`

	// Balances holds base-unit amounts as decimal strings per network id
	// (wei, lamports, satoshi); uint64 is too small for wei.
	Balances map[string]string `json:"balances"`

	// Nonces caches the next transaction nonce per network id.
	Nonces map[string]uint64 `json:"nonces"`

	BalancesUpdatedAt time.Time `json:"balancesUpdatedAt,omitempty"`
}

// Address returns the cached address for a network, or "" when the account
// has not been derived for it yet.
func (a *Account) Address(network string) string {
	if a.Addresses == nil {
		return ""
	}
	return a.Addresses[network]
}

// OwnsAddress reports whether the account's cached address for the network
// matches the given address. Hex addresses compare case-insensitively since
// checksum casing varies by client.
func (a *Account) OwnsAddress(network, address string) bool {
	cached := a.Address(network)
	if cached == "" || address == "" {
		return false
	}
	if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
		return strings.EqualFold(cached, address)
	}
	return cached == address
}
