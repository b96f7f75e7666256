package binding

import "sync"

// DefaultMailboxSize bounds the number of pending writes.
const DefaultMailboxSize = 256

// Mailbox queues writes from transport goroutines. Safe for concurrent use.
type Mailbox struct {
	mu      sync.Mutex
	pending []Write
	limit   int
	dropped uint64
}

// NewMailbox creates a mailbox holding at most limit writes (DefaultMailboxSize if <= 0).
func NewMailbox(limit int) *Mailbox {
	if limit <= 0 {
		limit = DefaultMailboxSize
	}
	return &Mailbox{limit: limit}
}

// Post queues w. It returns ErrMailboxFull and drops w when the mailbox is full.
func (m *Mailbox) Post(w Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) >= m.limit {
		m.dropped++
		return ErrMailboxFull
	}
	m.pending = append(m.pending, w)
	return nil
}

// Drain removes and returns all pending writes in posting order.
func (m *Mailbox) Drain() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil
	}
	out := m.pending
	m.pending = nil
	return out
}

// Len returns the number of pending writes.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Dropped returns the number of writes rejected because the mailbox was full.
func (m *Mailbox) Dropped() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}
