package auth

import (
	"sync"

	"github.com/tyler-smith/go-bip39"
)

// Seed is the ephemeral in-memory holder of a decrypted seed. It is the most
// sensitive resource in the engine: it exists only inside a live unlocked
// session and is explicitly zeroed on lock, timeout, and teardown.
type Seed struct {
	mu     sync.Mutex
	phrase []byte
	binary []byte // bip39 binary seed the derivation engine consumes
}

// newSeed takes ownership of the decrypted phrase bytes and precomputes the
// binary seed once per unlock.
func newSeed(phrase []byte) *Seed {
	return &Seed{
		phrase: phrase,
		binary: bip39.NewSeed(string(phrase), ""),
	}
}

// Bytes returns a copy of the 64-byte binary seed, or nil after Zero. The
// copy keeps a signer that is mid-derivation immune to a concurrent lock
// zeroing the holder; callers clear their copy when done with it.
func (s *Seed) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.binary == nil {
		return nil
	}
	out := make([]byte, len(s.binary))
	copy(out, s.binary)
	return out
}

// Phrase returns the mnemonic, or "" after Zero. Used only by the explicit
// export-backup operation.
func (s *Seed) Phrase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.phrase)
}

// Zero wipes both representations.
func (s *Seed) Zero() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.phrase)
	clear(s.binary)
	s.phrase = nil
	s.binary = nil
}
