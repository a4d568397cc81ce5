package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sentinelwallet/sentinel/internal/model"
)

const (
	// DefaultAutoLockTimeout is the inactivity window before a session
	// locks itself.
	DefaultAutoLockTimeout = 30 * time.Minute

	// sweepInterval is how often the auto-lock check runs.
	sweepInterval = time.Minute
)

// Notifier receives session state transitions so collaborators (UI,
// content-script layer) can drop cached authorization.
type Notifier interface {
	WalletUnlocked(walletID string)
	WalletLocked(walletID string)
}

// session is the per-wallet unlocked state. Guarded by SessionManager.mu.
type session struct {
	seed       *Seed
	unlockedAt time.Time
}

// SessionManager owns the Locked/Unlocked state machine of every wallet.
// All transitions for one wallet are serialized behind its mutex, and
// concurrent unlocks collapse through singleflight so exactly one
// verification, one transition, and one notification happen.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session

	verifier *Verifier
	clock    clock.Clock
	timeout  time.Duration
	notify   Notifier
	logger   *zap.Logger

	unlockGroup singleflight.Group

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewSessionManager creates a SessionManager; Start must be called to arm
// the auto-lock sweeper.
func NewSessionManager(verifier *Verifier, clk clock.Clock, timeout time.Duration, notify Notifier, logger *zap.Logger) *SessionManager {
	if timeout <= 0 {
		timeout = DefaultAutoLockTimeout
	}
	return &SessionManager{
		sessions: make(map[string]*session),
		verifier: verifier,
		clock:    clk,
		timeout:  timeout,
		notify:   notify,
		logger:   logger,
		quit:     make(chan struct{}),
	}
}

// Start launches the periodic auto-lock sweep.
func (m *SessionManager) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case <-m.clock.TickAfter(sweepInterval):
				m.sweep()
			case <-m.quit:
				return
			}
		}
	}()
}

// Stop tears the manager down, locking every session so no seed outlives the
// process's working state.
func (m *SessionManager) Stop() {
	close(m.quit)
	m.wg.Wait()
	m.LockAll()
}

// Unlock authenticates the password and transitions the wallet to Unlocked.
// Racing calls with the same password share one verification and converge on
// a single transition; an already-unlocked wallet is a no-op.
func (m *SessionManager) Unlock(wallet *model.Wallet, password []byte) (*VerifyResult, error) {
	// The flight key covers the password digest so a caller presenting a
	// wrong password can never ride along with a correct one.
	digest := sha256.Sum256(password)
	key := wallet.ID + ":" + hex.EncodeToString(digest[:8])

	result, err, _ := m.unlockGroup.Do(key, func() (any, error) {
		m.mu.Lock()
		if _, ok := m.sessions[wallet.ID]; ok {
			m.mu.Unlock()
			return &VerifyResult{}, nil
		}
		m.mu.Unlock()

		// Verification runs outside the state mutex: scrypt is slow and
		// must not block Extend/RequireUnlocked on other wallets' flows.
		verified, err := m.verifier.Verify(wallet, password)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		if _, ok := m.sessions[wallet.ID]; ok {
			// Lost the race to another flight key (different password
			// digest, same wallet). Keep the existing session.
			m.mu.Unlock()
			clear(verified.Phrase)
			return &VerifyResult{Repaired: verified.Repaired}, nil
		}
		m.sessions[wallet.ID] = &session{
			seed:       newSeed(verified.Phrase),
			unlockedAt: m.clock.Now(),
		}
		m.mu.Unlock()

		m.logger.Info("wallet unlocked",
			zap.String("wallet_id", wallet.ID),
			zap.Bool("via_credential", verified.ViaCredential),
			zap.Bool("credential_repaired", verified.Repaired))
		m.notify.WalletUnlocked(wallet.ID)

		return &VerifyResult{ViaCredential: verified.ViaCredential, Repaired: verified.Repaired}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*VerifyResult), nil
}

// RequireUnlocked returns the wallet's live seed or model.ErrLocked. Every
// downstream operation that needs the seed calls this guard.
func (m *SessionManager) RequireUnlocked(walletID string) (*Seed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[walletID]
	if !ok {
		return nil, model.ErrLocked
	}
	return s.seed, nil
}

// IsUnlocked reports the wallet's session state.
func (m *SessionManager) IsUnlocked(walletID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[walletID]
	return ok
}

// Extend refreshes the inactivity clock on qualifying user activity without
// re-entering the password.
func (m *SessionManager) Extend(walletID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[walletID]
	if !ok {
		return false
	}
	s.unlockedAt = m.clock.Now()
	return true
}

// Lock transitions a wallet to Locked, zeroing its seed and notifying
// collaborators. Locking a locked wallet is a no-op.
func (m *SessionManager) Lock(walletID string) {
	m.mu.Lock()
	s, ok := m.sessions[walletID]
	if ok {
		delete(m.sessions, walletID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	s.seed.Zero()
	m.logger.Info("wallet locked", zap.String("wallet_id", walletID))
	m.notify.WalletLocked(walletID)
}

// LockAll locks every open session.
func (m *SessionManager) LockAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Lock(id)
	}
}

// sweep locks every session whose inactivity window has elapsed.
func (m *SessionManager) sweep() {
	now := m.clock.Now()

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if now.Sub(s.unlockedAt) > m.timeout {
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.logger.Info("auto-lock timeout elapsed", zap.String("wallet_id", id))
		m.Lock(id)
	}
}
