// Package livesync is the change-notification channel that keeps clients'
// conversation lists fresh without polling. Events carry no row data; a
// received event only means "something changed, re-query".
package livesync

import (
	"context"
	"sync"
)

// ScopeConversations is the global conversations change-feed (admin
// dashboards). Per-owner feeds use OwnerScope.
const ScopeConversations = "conversations"

func OwnerScope(ownerID string) string {
	return ScopeConversations + ":" + ownerID
}

type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

type Event struct {
	Scope string `json:"scope"`
	Kind  Kind   `json:"kind"`
}

// Subscription is one subscriber's handle on a scope. Close must be called
// when the caller stops observing; it is safe to call more than once.
type Subscription struct {
	ch        chan Event
	closeOnce sync.Once
	onClose   func()
}

// C delivers events until Close. Slow consumers may miss events; they were
// only hints to re-query anyway.
func (s *Subscription) C() <-chan Event { return s.ch }

func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
	})
}

type Broker interface {
	Subscribe(ctx context.Context, scope string) (*Subscription, error)
	Publish(ctx context.Context, e Event) error
}

// MemoryBroker fans events out in-process. Used by tests and single-node
// deployments; the subscriber set is the only shared mutable state and is
// mutex-guarded.
type MemoryBroker struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[*Subscription]struct{})}
}

func (b *MemoryBroker) Subscribe(_ context.Context, scope string) (*Subscription, error) {
	sub := &Subscription{ch: make(chan Event, 8)}
	sub.onClose = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.subs[scope]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(b.subs, scope)
			}
		}
		close(sub.ch)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[scope]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.subs[scope] = set
	}
	set[sub] = struct{}{}
	return sub, nil
}

func (b *MemoryBroker) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[e.Scope] {
		select {
		case sub.ch <- e:
		default:
			// full buffer: drop rather than block the writer
		}
	}
	return nil
}
