package derive

import (
	"crypto/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testSeed(t *testing.T) []byte {
	t.Helper()
	return bip39.NewSeed(testMnemonic, "")
}

func randomSeed(t *testing.T) []byte {
	t.Helper()
	seed := make([]byte, 64)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	return seed
}

func TestAddressDeterminism(t *testing.T) {
	seed := testSeed(t)
	for _, network := range Supported() {
		first, err := Address(seed, network, 0)
		require.NoError(t, err, network)
		second, err := Address(seed, network, 0)
		require.NoError(t, err, network)
		require.Equal(t, first, second, network)
	}
}

func TestCrossNetworkDomainSeparation(t *testing.T) {
	seed := testSeed(t)

	eth, err := Address(seed, "ethereum", 0)
	require.NoError(t, err)
	btc, err := Address(seed, "bitcoin", 0)
	require.NoError(t, err)
	require.NotEqual(t, eth, btc)

	// Non-EVM families must all differ from each other too.
	seen := map[string]string{}
	for _, network := range []string{"bitcoin", "solana", "tron", "ton", "xrp", "ethereum"} {
		addr, err := Address(seed, network, 0)
		require.NoError(t, err)
		for other, prev := range seen {
			require.NotEqual(t, prev, addr, "%s vs %s", network, other)
		}
		seen[network] = addr
	}
}

func TestEVMNetworksShareOneAddress(t *testing.T) {
	seed := testSeed(t)
	eth, err := Address(seed, "ethereum", 0)
	require.NoError(t, err)

	for _, network := range []string{"polygon", "bsc", "arbitrum", "optimism"} {
		addr, err := Address(seed, network, 0)
		require.NoError(t, err)
		require.Equal(t, eth, addr, network)
	}
}

func TestIndexSeparation(t *testing.T) {
	seed := testSeed(t)
	for _, network := range Supported() {
		zero, err := Address(seed, network, 0)
		require.NoError(t, err)
		one, err := Address(seed, network, 1)
		require.NoError(t, err)
		require.NotEqual(t, zero, one, network)
	}
}

var addressShapes = map[string]*regexp.Regexp{
	"ethereum": regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`),
	"bitcoin":  regexp.MustCompile(`^bc1[02-9ac-hj-np-z]{11,71}$`),
	"solana":   regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`),
	"tron":     regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`),
	"ton":      regexp.MustCompile(`^(EQ|UQ)[A-Za-z0-9_-]{46}$`),
	"xrp":      regexp.MustCompile(`^r[1-9A-HJ-NP-Za-km-z]{24,34}$`),
}

func TestAddressFormatAcrossRandomSeeds(t *testing.T) {
	for i := 0; i < 16; i++ {
		seed := randomSeed(t)
		for network, shape := range addressShapes {
			addr, err := Address(seed, network, uint32(i))
			require.NoError(t, err, network)
			require.Regexp(t, shape, addr, network)

			require.NoError(t, ValidateAddress(network, addr), network)
		}
	}
}

func TestValidateAddressRejectsForeignFormats(t *testing.T) {
	seed := testSeed(t)
	eth, err := Address(seed, "ethereum", 0)
	require.NoError(t, err)
	sol, err := Address(seed, "solana", 0)
	require.NoError(t, err)

	require.Error(t, ValidateAddress("solana", eth))
	require.Error(t, ValidateAddress("ethereum", sol))
	require.Error(t, ValidateAddress("tron", eth))
	require.Error(t, ValidateAddress("xrp", sol))
	require.Error(t, ValidateAddress("ton", "EQtooshort"))
	require.Error(t, ValidateAddress("bitcoin", "bc1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"))
}

func TestKeysMatchAddress(t *testing.T) {
	seed := testSeed(t)
	for _, network := range Supported() {
		kp, err := Keys(seed, network, 0)
		require.NoError(t, err, network)

		addr, err := Address(seed, network, 0)
		require.NoError(t, err, network)
		require.Equal(t, addr, kp.Address, network)
		require.NotEmpty(t, kp.PrivateKey, network)
		require.NotEmpty(t, kp.PublicKey, network)

		kp.Zero()
		allZero := true
		for _, b := range kp.PrivateKey {
			if b != 0 {
				allZero = false
			}
		}
		require.True(t, allZero, "Zero must wipe key material for %s", network)
	}
}

func TestUnknownNetwork(t *testing.T) {
	_, err := Address(testSeed(t), "dogecoin", 0)
	require.Error(t, err)
}
