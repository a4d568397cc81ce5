package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/crypto"
	"github.com/sentinelwallet/sentinel/internal/model"
)

const testPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

var testEnvelopeParams = crypto.Params{N: 1 << 12, R: 8, P: 1}

type memCredentials struct {
	mu    sync.Mutex
	creds map[string]string
}

func newMemCredentials() *memCredentials {
	return &memCredentials{creds: make(map[string]string)}
}

func (m *memCredentials) Credential(walletID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds[walletID], nil
}

func (m *memCredentials) PutCredential(walletID, credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[walletID] = credential
	return nil
}

func testWallet(t *testing.T, password string) *model.Wallet {
	t.Helper()
	envelope, err := crypto.EncryptWithParams([]byte(testPhrase), []byte(password), testEnvelopeParams)
	require.NoError(t, err)
	return &model.Wallet{ID: "w1", Name: "Main", Envelope: envelope}
}

func TestVerifyViaCredential(t *testing.T) {
	creds := newMemCredentials()
	cred, err := NewCredential([]byte("Passw0rd!"))
	require.NoError(t, err)
	require.NoError(t, creds.PutCredential("w1", cred))

	v := NewVerifier(creds, zap.NewNop())
	result, err := v.Verify(testWallet(t, "Passw0rd!"), []byte("Passw0rd!"))
	require.NoError(t, err)
	require.True(t, result.ViaCredential)
	require.False(t, result.Repaired)
	require.Equal(t, testPhrase, string(result.Phrase))
}

func TestVerifyWrongPassword(t *testing.T) {
	v := NewVerifier(newMemCredentials(), zap.NewNop())
	_, err := v.Verify(testWallet(t, "Passw0rd!"), []byte("nope"))
	require.ErrorIs(t, err, model.ErrAuthentication)
}

func TestSelfHealIdempotence(t *testing.T) {
	creds := newMemCredentials()
	v := NewVerifier(creds, zap.NewNop())
	w := testWallet(t, "Passw0rd!")

	// No credential stored: verification succeeds via seed decryption and
	// regenerates the artifact.
	result, err := v.Verify(w, []byte("Passw0rd!"))
	require.NoError(t, err)
	require.False(t, result.ViaCredential)
	require.True(t, result.Repaired)

	stored, err := creds.Credential("w1")
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	// A subsequent verify succeeds via path 1 alone, without repair.
	result, err = v.Verify(w, []byte("Passw0rd!"))
	require.NoError(t, err)
	require.True(t, result.ViaCredential)
	require.False(t, result.Repaired)
}

func TestStaleCredentialDoesNotReject(t *testing.T) {
	// The stored artifact matches an old password; the envelope is the
	// ground truth and must win.
	creds := newMemCredentials()
	stale, err := NewCredential([]byte("old-password"))
	require.NoError(t, err)
	require.NoError(t, creds.PutCredential("w1", stale))

	v := NewVerifier(creds, zap.NewNop())
	result, err := v.Verify(testWallet(t, "Passw0rd!"), []byte("Passw0rd!"))
	require.NoError(t, err)
	require.False(t, result.ViaCredential)
	require.True(t, result.Repaired, "stale credential must be replaced")
}

func TestCorruptCredentialFallsThrough(t *testing.T) {
	creds := newMemCredentials()
	require.NoError(t, creds.PutCredential("w1", "not-a-credential"))

	v := NewVerifier(creds, zap.NewNop())
	result, err := v.Verify(testWallet(t, "Passw0rd!"), []byte("Passw0rd!"))
	require.NoError(t, err)
	require.True(t, result.Repaired)

	// And a wrong password still fails even with the corrupt artifact.
	_, err = v.Verify(testWallet(t, "Passw0rd!"), []byte("wrong"))
	require.ErrorIs(t, err, model.ErrAuthentication)
}

func TestVerifyRejectsImplausiblePlaintext(t *testing.T) {
	// An envelope that decrypts fine but does not contain a seed phrase
	// must not authenticate.
	envelope, err := crypto.EncryptWithParams([]byte("just one secret"), []byte("pw"), testEnvelopeParams)
	require.NoError(t, err)

	v := NewVerifier(newMemCredentials(), zap.NewNop())
	_, err = v.Verify(&model.Wallet{ID: "w1", Envelope: envelope}, []byte("pw"))
	require.ErrorIs(t, err, model.ErrAuthentication)
}
