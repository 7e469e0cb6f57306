// Package participants maps opaque participant ids to display names drawn
// from a finite pool, and tracks which participants are active — meaning
// they currently hold a live broadcast subscription.
package participants

import (
	"fmt"
	"math/rand"
	"sync"
)

// namePool is the finite set of display names handed out without
// replacement. When exhausted, a random suffix disambiguates.
var namePool = []string{
	"Alex", "Blake", "Casey", "Drew", "Ellis", "Finley", "Gray", "Harper",
	"Jordan", "Kai", "Logan", "Morgan", "Parker", "Quinn", "Riley", "Sage",
	"Taylor", "Avery", "Cameron", "Dakota", "Emery", "Hayden", "Jamie", "Kendall",
	"Phoenix", "River", "Skyler", "Tatum", "Winter", "Zephyr",
}

// Participant is a single resolved identity.
type Participant struct {
	ID          string
	DisplayName string
}

// Registry assigns and looks up participant display names, and tracks which
// participants are currently active (hold a live broadcast subscription).
// Active tracking is refcounted: a participant with two simultaneous
// subscriptions (e.g. two browser tabs) stays active until both disconnect.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]string // participant id -> display name
	active map[string]int    // participant id -> live subscription count
	rng    *rand.Rand
}

// NewRegistry creates an empty participant registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]string),
		active: make(map[string]int),
		rng:    rand.New(rand.NewSource(1)),
	}
}

// GetOrCreate resolves id to a Participant, assigning a fresh display name
// drawn without replacement from namePool on first contact. Safe to call
// concurrently.
func (r *Registry) GetOrCreate(id string) Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.byID[id]; ok {
		return Participant{ID: id, DisplayName: name}
	}

	name := r.nextNameLocked()
	r.byID[id] = name
	return Participant{ID: id, DisplayName: name}
}

// Get looks up an existing participant without creating one.
func (r *Registry) Get(id string) (Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byID[id]
	if !ok {
		return Participant{}, false
	}
	return Participant{ID: id, DisplayName: name}, true
}

// nextNameLocked picks an unused name, or a pool name suffixed with a random
// integer once the pool is exhausted. Caller must hold r.mu.
func (r *Registry) nextNameLocked() string {
	used := make(map[string]bool, len(r.byID))
	for _, n := range r.byID {
		used[n] = true
	}

	for _, candidate := range namePool {
		if !used[candidate] {
			return candidate
		}
	}

	base := namePool[r.rng.Intn(len(namePool))]
	return fmt.Sprintf("%s%d", base, r.rng.Intn(999)+1)
}

// MarkActive records that id now holds one more live broadcast subscription.
func (r *Registry) MarkActive(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[id]++
}

// MarkInactive records that one of id's broadcast subscriptions ended.
func (r *Registry) MarkInactive(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[id] <= 1 {
		delete(r.active, id)
		return
	}
	r.active[id]--
}

// ActiveParticipants returns a snapshot of currently active participants.
func (r *Registry) ActiveParticipants() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Participant, 0, len(r.active))
	for id := range r.active {
		if name, ok := r.byID[id]; ok {
			out = append(out, Participant{ID: id, DisplayName: name})
		}
	}
	return out
}

// ActiveCount returns the number of currently active participants.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// IsActive reports whether id currently holds at least one live subscription.
func (r *Registry) IsActive(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[id] > 0
}
