package registry

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxSubscribers is the maximum number of subscriber records the registry
// will hold at once.
const MaxSubscribers = 16

// FailThreshold is the number of consecutive send failures after which a
// subscriber is marked inactive.
const FailThreshold = 10

// Timeout is how long a subscriber may go without being refreshed before it
// is considered stale and swept.
const Timeout = 30 * time.Second

// Outcome is the result of a registration attempt.
type Outcome uint8

const (
	// Added means a new record was created.
	Added Outcome = iota
	// Refreshed means an existing record's liveness was renewed.
	Refreshed
	// Rejected means the registry was full and held no replaceable slot.
	Rejected
)

// Subscriber is one registered remote sink.
type Subscriber struct {
	Addr *net.UDPAddr

	// SessionID is an opaque identifier assigned when the subscriber is
	// first added, stable across refreshes: a short, stable handle that
	// does not leak the subscriber's address, the way ka9q_ubersdr labels
	// its client sessions. No log line or metric in this module uses it.
	SessionID uuid.UUID

	FirstSeen           time.Time
	LastSeen            time.Time
	PacketsSent         uint64
	ConsecutiveFailures int
	TotalFailures       uint64
	Active              bool
}

func key(addr *net.UDPAddr) string {
	return addr.String()
}

// Registry is the bounded, mutex-guarded subscriber set. The zero value is
// not usable; use New.
type Registry struct {
	mu   sync.Mutex
	subs map[string]*Subscriber
	// order preserves insertion order so sweeps and snapshots are
	// deterministic for a fixed sequence of registrations, which matters
	// for tests asserting on "the first 16" subscribers.
	order []string
	now   func() time.Time
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		subs: make(map[string]*Subscriber),
		now:  time.Now,
	}
}

// RegisterOrRefresh registers addr as a subscriber, or refreshes its
// liveness if it is already present. If the registry is full and holds no
// inactive (timed-out or over-failed) slot to replace, it returns Rejected.
func (r *Registry) RegisterOrRefresh(addr *net.UDPAddr) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	k := key(addr)

	if sub, ok := r.subs[k]; ok {
		sub.Active = true
		sub.LastSeen = now
		return Refreshed
	}

	if len(r.subs) < MaxSubscribers {
		r.subs[k] = &Subscriber{Addr: addr, SessionID: uuid.New(), FirstSeen: now, LastSeen: now, Active: true}
		r.order = append(r.order, k)
		return Added
	}

	// Look for an inactive slot to evict and replace.
	for _, existingKey := range r.order {
		sub := r.subs[existingKey]
		if sub == nil {
			continue
		}
		if !r.isLive(sub, now) {
			delete(r.subs, existingKey)
			r.subs[k] = &Subscriber{Addr: addr, SessionID: uuid.New(), FirstSeen: now, LastSeen: now, Active: true}
			r.replaceInOrder(existingKey, k)
			return Added
		}
	}

	return Rejected
}

func (r *Registry) replaceInOrder(oldKey, newKey string) {
	for i, k := range r.order {
		if k == oldKey {
			r.order[i] = newKey
			return
		}
	}
	r.order = append(r.order, newKey)
}

// RecordSuccess marks a successful send to addr: increments PacketsSent,
// resets ConsecutiveFailures, and refreshes LastSeen. A send to an address
// the registry does not know about is a no-op.
func (r *Registry) RecordSuccess(addr *net.UDPAddr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[key(addr)]
	if !ok {
		return
	}
	sub.PacketsSent++
	sub.ConsecutiveFailures = 0
	sub.LastSeen = r.now()
}

// RecordFailure marks a failed send to addr: increments
// ConsecutiveFailures and TotalFailures, and marks the slot inactive once
// ConsecutiveFailures reaches FailThreshold.
func (r *Registry) RecordFailure(addr *net.UDPAddr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[key(addr)]
	if !ok {
		return
	}
	sub.ConsecutiveFailures++
	sub.TotalFailures++
	if sub.ConsecutiveFailures >= FailThreshold {
		sub.Active = false
	}
}

// isLive reports whether sub is active and within Timeout. Caller must
// hold r.mu.
func (r *Registry) isLive(sub *Subscriber, now time.Time) bool {
	return sub.Active && now.Sub(sub.LastSeen) < Timeout
}

// Sweep marks inactive any live slot whose LastSeen is older than Timeout.
func (r *Registry) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for _, sub := range r.subs {
		if sub.Active && now.Sub(sub.LastSeen) >= Timeout {
			sub.Active = false
		}
	}
}

// Snapshot returns a cheap copy of every currently live subscriber,
// suitable for a fan-out loop to iterate without holding the registry's
// mutex.
func (r *Registry) Snapshot() []Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	out := make([]Subscriber, 0, len(r.subs))
	for _, k := range r.order {
		sub, ok := r.subs[k]
		if !ok || !r.isLive(sub, now) {
			continue
		}
		out = append(out, *sub)
	}
	return out
}

// Len returns the number of records currently held, active or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// vim: foldmethod=marker
