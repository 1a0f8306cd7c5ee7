package link

import "sync"

// Mailbox is the single-slot staging area between the transport's receive
// callback and the control loop. The callback only copies the payload in and
// sets the ready flag; decode, validation and state changes happen on the
// loop goroutine, which is the sole consumer. A newer payload overwrites an
// unconsumed one wholesale, never partially.
type Mailbox struct {
	mu    sync.Mutex
	buf   []byte
	ready bool
}

// Put stages a copy of payload.
func (m *Mailbox) Put(payload []byte) {
	m.mu.Lock()
	if cap(m.buf) < len(payload) {
		m.buf = make([]byte, len(payload))
	}
	m.buf = m.buf[:len(payload)]
	copy(m.buf, payload)
	m.ready = true
	m.mu.Unlock()
}

// Take returns the staged payload and clears the ready flag. The returned
// slice is a copy owned by the caller.
func (m *Mailbox) Take() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return nil, false
	}
	out := make([]byte, len(m.buf))
	copy(out, m.buf)
	m.ready = false
	return out, true
}
