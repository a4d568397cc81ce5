package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/model"
)

type recordingNotifier struct {
	mu       sync.Mutex
	unlocked []string
	locked   []string
}

func (n *recordingNotifier) WalletUnlocked(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.unlocked = append(n.unlocked, id)
}

func (n *recordingNotifier) WalletLocked(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.locked = append(n.locked, id)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.unlocked), len(n.locked)
}

func testManager(t *testing.T) (*SessionManager, *model.Wallet, *clock.TestClock, *recordingNotifier) {
	t.Helper()
	w := testWallet(t, "Passw0rd!")
	clk := clock.NewTestClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	notifier := &recordingNotifier{}
	verifier := NewVerifier(newMemCredentials(), zap.NewNop())
	m := NewSessionManager(verifier, clk, DefaultAutoLockTimeout, notifier, zap.NewNop())
	return m, w, clk, notifier
}

func TestUnlockLockCycle(t *testing.T) {
	m, w, _, notifier := testManager(t)

	_, err := m.RequireUnlocked(w.ID)
	require.ErrorIs(t, err, model.ErrLocked)

	_, err = m.Unlock(w, []byte("wrong"))
	require.ErrorIs(t, err, model.ErrAuthentication)
	require.False(t, m.IsUnlocked(w.ID))

	_, err = m.Unlock(w, []byte("Passw0rd!"))
	require.NoError(t, err)
	require.True(t, m.IsUnlocked(w.ID))

	seed, err := m.RequireUnlocked(w.ID)
	require.NoError(t, err)
	require.Len(t, seed.Bytes(), 64)

	m.Lock(w.ID)
	require.False(t, m.IsUnlocked(w.ID))
	require.Nil(t, seed.Bytes(), "seed must be zeroed on lock")

	unlocks, locks := notifier.counts()
	require.Equal(t, 1, unlocks)
	require.Equal(t, 1, locks)
}

func TestAutoLockBoundary(t *testing.T) {
	m, w, clk, _ := testManager(t)

	t0 := clk.Now()
	_, err := m.Unlock(w, []byte("Passw0rd!"))
	require.NoError(t, err)

	// 29 minutes in: still unlocked.
	clk.SetTime(t0.Add(29 * time.Minute))
	m.sweep()
	require.True(t, m.IsUnlocked(w.ID))

	// 31 minutes in: locked.
	clk.SetTime(t0.Add(31 * time.Minute))
	m.sweep()
	require.False(t, m.IsUnlocked(w.ID))

	_, err = m.RequireUnlocked(w.ID)
	require.ErrorIs(t, err, model.ErrLocked)
}

func TestExtendDefersAutoLock(t *testing.T) {
	m, w, clk, _ := testManager(t)

	t0 := clk.Now()
	_, err := m.Unlock(w, []byte("Passw0rd!"))
	require.NoError(t, err)

	clk.SetTime(t0.Add(29 * time.Minute))
	require.True(t, m.Extend(w.ID))

	// 31 minutes after unlock but only 2 after activity.
	clk.SetTime(t0.Add(31 * time.Minute))
	m.sweep()
	require.True(t, m.IsUnlocked(w.ID))

	clk.SetTime(t0.Add(61 * time.Minute))
	m.sweep()
	require.False(t, m.IsUnlocked(w.ID))

	require.False(t, m.Extend(w.ID), "extend on a locked wallet must report failure")
}

func TestConcurrentUnlockConvergesToOneTransition(t *testing.T) {
	m, w, _, notifier := testManager(t)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Unlock(w, []byte("Passw0rd!"))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}
	require.True(t, m.IsUnlocked(w.ID))

	unlocks, _ := notifier.counts()
	require.Equal(t, 1, unlocks, "racing unlocks must produce exactly one notification")
}

func TestLockAllOnStop(t *testing.T) {
	m, w, _, _ := testManager(t)
	m.Start()

	_, err := m.Unlock(w, []byte("Passw0rd!"))
	require.NoError(t, err)

	seed, err := m.RequireUnlocked(w.ID)
	require.NoError(t, err)

	m.Stop()
	require.False(t, m.IsUnlocked(w.ID))
	require.Nil(t, seed.Bytes())
}

func TestSeedBytesSurviveConcurrentLock(t *testing.T) {
	m, w, _, _ := testManager(t)

	_, err := m.Unlock(w, []byte("Passw0rd!"))
	require.NoError(t, err)

	seed, err := m.RequireUnlocked(w.ID)
	require.NoError(t, err)

	// A signer takes its seed copy, then the wallet locks underneath it.
	b := seed.Bytes()
	require.Len(t, b, 64)
	snapshot := append([]byte(nil), b...)

	m.Lock(w.ID)

	// The in-flight copy is untouched; only fresh reads see the wipe.
	require.Equal(t, snapshot, b)
	require.NotEqual(t, make([]byte, 64), b)
	require.Nil(t, seed.Bytes())
}
