package companion

import "sync"

// convLocks serializes turns per conversation so concurrent submissions on
// one conversation cannot interleave their turn counters or message order.
// Different conversations proceed independently.
type convLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newConvLocks() *convLocks {
	return &convLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the mutex for the conversation, creating it on first use,
// and returns the unlock function.
func (c *convLocks) lock(conversationID int64) func() {
	c.mu.Lock()
	m, ok := c.locks[conversationID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[conversationID] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}
