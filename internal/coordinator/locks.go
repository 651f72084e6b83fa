package coordinator

import "sync"

// conversationLocks serializes turns per conversation. Both the phase
// machine and the assignment ledger mutate state in place without
// versioning, so two turns for the same conversation must never overlap.
type conversationLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for the given key, creating it on first use, and
// returns the matching unlock function. Locks are never removed; the map
// grows with the number of distinct conversations handled by this process.
func (l *conversationLocks) lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
