package link

import "sync"

// Loopback is an in-process Transport pair used by tests and the
// single-process demo mode. Each endpoint's Send delivers to its peer's
// receive callback on a fresh goroutine, mimicking the interrupt-style
// delivery of the radio.
type Loopback struct {
	mu        sync.Mutex
	peer      *Loopback
	onReceive ReceiveFunc
	onResult  SendResultFunc
	closed    bool

	// FailSends forces Send to report a failure through the send-result
	// callback without delivering, for exercising the re-init path.
	FailSends bool
	failWith  error
}

// NewLoopbackPair returns two connected endpoints.
func NewLoopbackPair() (*Loopback, *Loopback) {
	a, b := &Loopback{}, &Loopback{}
	a.peer, b.peer = b, a
	return a, b
}

// Failing reports whether sends are currently forced to fail.
func (l *Loopback) Failing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.FailSends
}

// FailWith makes subsequent sends fail with err via the result callback.
func (l *Loopback) FailWith(err error) {
	l.mu.Lock()
	l.FailSends = true
	l.failWith = err
	l.mu.Unlock()
}

// Send delivers payload to the peer endpoint. dest is ignored; a loopback
// has exactly one partner, like the broadcast link it stands in for.
func (l *Loopback) Send(_ string, payload []byte) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrNotInitialized
	}
	fail := l.FailSends
	failErr := l.failWith
	onResult := l.onResult
	peer := l.peer
	l.mu.Unlock()

	if fail {
		if onResult != nil {
			go onResult(failErr)
		}
		return nil
	}

	buf := make([]byte, len(payload))
	copy(buf, payload)
	go func() {
		peer.mu.Lock()
		fn := peer.onReceive
		peer.mu.Unlock()
		if fn != nil {
			fn(buf)
		}
		if onResult != nil {
			onResult(nil)
		}
	}()
	return nil
}

func (l *Loopback) HandleReceive(fn ReceiveFunc) {
	l.mu.Lock()
	l.onReceive = fn
	l.mu.Unlock()
}

func (l *Loopback) HandleSendResult(fn SendResultFunc) {
	l.mu.Lock()
	l.onResult = fn
	l.mu.Unlock()
}

// Reinit clears any forced failure, standing in for a successful link
// re-initialization.
func (l *Loopback) Reinit() error {
	l.mu.Lock()
	l.FailSends = false
	l.failWith = nil
	l.closed = false
	l.mu.Unlock()
	return nil
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}
