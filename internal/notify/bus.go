// Package notify fans engine state transitions out to collaborators (UI and
// content-script layers) so they can revoke or refresh cached authorization.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventType enumerates the outbound notification kinds.
type EventType string

const (
	EventWalletUnlocked  EventType = "wallet-unlocked"
	EventWalletLocked    EventType = "wallet-locked"
	EventAccountsChanged EventType = "accounts-changed"
	EventChainChanged    EventType = "chain-changed"
)

// Event is one notification.
type Event struct {
	Type     EventType `json:"type"`
	WalletID string    `json:"walletId,omitempty"`
	Network  string    `json:"network,omitempty"`
	At       time.Time `json:"at"`
}

// subscriberBuffer bounds each subscriber channel; a subscriber that stops
// draining loses events rather than blocking the engine.
const subscriberBuffer = 16

// Bus is an in-process publish/subscribe hub.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	logger *zap.Logger
}

// NewBus creates an empty Bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{subs: make(map[int]chan Event), logger: logger}
}

// Subscribe registers a listener. The returned cancel function must be
// called to release the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Bus) publish(e Event) {
	e.At = time.Now().UTC()

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("notification dropped: slow subscriber",
				zap.Int("subscriber", id),
				zap.String("event", string(e.Type)))
		}
	}
}

// WalletUnlocked publishes a wallet-unlocked event.
func (b *Bus) WalletUnlocked(walletID string) {
	b.publish(Event{Type: EventWalletUnlocked, WalletID: walletID})
}

// WalletLocked publishes a wallet-locked event.
func (b *Bus) WalletLocked(walletID string) {
	b.publish(Event{Type: EventWalletLocked, WalletID: walletID})
}

// AccountsChanged publishes an accounts-changed event.
func (b *Bus) AccountsChanged(walletID string) {
	b.publish(Event{Type: EventAccountsChanged, WalletID: walletID})
}

// ChainChanged publishes a chain-changed event.
func (b *Bus) ChainChanged(network string) {
	b.publish(Event{Type: EventChainChanged, Network: network})
}
