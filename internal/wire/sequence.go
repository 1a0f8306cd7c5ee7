package wire

import "sync"

// Sequencer issues the monotonic sequence ids attached to outgoing control
// commands. Ids start at zero on construction (one sequencer per ground
// session) and wrap at 65536.
type Sequencer struct {
	mu   sync.Mutex
	next uint16
}

// Next returns the current sequence id and advances the counter.
func (s *Sequencer) Next() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++ // uint16 wraps naturally
	return id
}
