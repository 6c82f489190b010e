// Package allowlist holds the set of identities granted admin capability.
// Membership is the authorization check for the admin surface: proving an
// identity to the provider is not enough, the identity must also be listed
// here.
package allowlist

import (
	"errors"
	"sync"
)

// ErrEmptyIdentity is returned when an empty identity is offered to Add.
var ErrEmptyIdentity = errors.New("empty identity")

// List is an insertion-ordered set of identity strings. It is safe for
// concurrent use.
type List struct {
	mu      sync.RWMutex
	members map[string]struct{}
	order   []string
}

// New returns a List seeded with the given identities. Seeding fails if any
// seed is empty; duplicate seeds are collapsed silently.
func New(seed ...string) (*List, error) {
	l := &List{members: make(map[string]struct{}, len(seed))}
	for _, identity := range seed {
		if _, err := l.Add(identity); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Contains reports membership of identity.
func (l *List) Contains(identity string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.members[identity]
	return ok
}

// Add inserts identity and reports whether it was newly added. Adding an
// existing member returns false without mutating the set.
func (l *List) Add(identity string) (bool, error) {
	if identity == "" {
		return false, ErrEmptyIdentity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.members[identity]; ok {
		return false, nil
	}
	l.members[identity] = struct{}{}
	l.order = append(l.order, identity)
	return true, nil
}

// All returns the members in insertion order.
func (l *List) All() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Len returns the number of members.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}
