// Package derive turns an unlocked seed into per-network key pairs and
// addresses. Derivation is deterministic: for a fixed (seed, network, index)
// the output never changes, and every network family uses its own derivation
// path so keys never collide across families.
package derive

import (
	"math/big"
	"sort"
)

// Network families. All EVM networks share one derivation, so every EVM
// chain resolves to the same address per account index.
const (
	FamilyEVM     = "evm"
	FamilyBitcoin = "bitcoin"
	FamilySolana  = "solana"
	FamilyTron    = "tron"
	FamilyTON     = "ton"
	FamilyXRP     = "xrp"
)

// SLIP-0044 coin types used for path domain separation.
const (
	coinTypeBitcoin = 0
	coinTypeEVM     = 60
	coinTypeXRP     = 144
	coinTypeTron    = 195
	coinTypeSolana  = 501
	coinTypeTON     = 607
)

// Network describes one supported network id.
type Network struct {
	ID       string
	Family   string
	CoinType uint32

	// ChainID is set for EVM networks only and parameterizes the shared
	// EVM signer.
	ChainID *big.Int
}

var networks = map[string]Network{
	"ethereum": {ID: "ethereum", Family: FamilyEVM, CoinType: coinTypeEVM, ChainID: big.NewInt(1)},
	"polygon":  {ID: "polygon", Family: FamilyEVM, CoinType: coinTypeEVM, ChainID: big.NewInt(137)},
	"bsc":      {ID: "bsc", Family: FamilyEVM, CoinType: coinTypeEVM, ChainID: big.NewInt(56)},
	"arbitrum": {ID: "arbitrum", Family: FamilyEVM, CoinType: coinTypeEVM, ChainID: big.NewInt(42161)},
	"optimism": {ID: "optimism", Family: FamilyEVM, CoinType: coinTypeEVM, ChainID: big.NewInt(10)},
	"bitcoin":  {ID: "bitcoin", Family: FamilyBitcoin, CoinType: coinTypeBitcoin},
	"solana":   {ID: "solana", Family: FamilySolana, CoinType: coinTypeSolana},
	"tron":     {ID: "tron", Family: FamilyTron, CoinType: coinTypeTron},
	"ton":      {ID: "ton", Family: FamilyTON, CoinType: coinTypeTON},
	"xrp":      {ID: "xrp", Family: FamilyXRP, CoinType: coinTypeXRP},
}

// Lookup resolves a network id to its descriptor.
func Lookup(id string) (Network, bool) {
	n, ok := networks[id]
	return n, ok
}

// Supported returns all known network ids in stable order.
func Supported() []string {
	ids := make([]string, 0, len(networks))
	for id := range networks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
