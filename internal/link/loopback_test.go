package link

import (
	"errors"
	"testing"
	"time"
)

func TestLoopbackDelivers(t *testing.T) {
	a, b := NewLoopbackPair()
	got := make(chan []byte, 1)
	b.HandleReceive(func(p []byte) { got <- p })

	if err := a.Send("anywhere", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	select {
	case p := <-got:
		if len(p) != 3 || p[0] != 1 {
			t.Fatalf("unexpected payload %v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("payload never delivered")
	}
}

func TestLoopbackCopiesPayload(t *testing.T) {
	a, b := NewLoopbackPair()
	got := make(chan []byte, 1)
	b.HandleReceive(func(p []byte) { got <- p })

	buf := []byte{9, 9, 9}
	if err := a.Send("", buf); err != nil {
		t.Fatalf("Send: %v", err)
	}
	buf[0] = 0 // mutate after send; receiver must see the original
	select {
	case p := <-got:
		if p[0] != 9 {
			t.Fatal("payload aliased the sender's buffer")
		}
	case <-time.After(time.Second):
		t.Fatal("payload never delivered")
	}
}

func TestLoopbackSendFailureAndReinit(t *testing.T) {
	a, _ := NewLoopbackPair()
	wantErr := errors.New("radio down")
	a.FailWith(wantErr)

	results := make(chan error, 1)
	a.HandleSendResult(func(err error) { results <- err })

	if err := a.Send("", []byte{1}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	select {
	case err := <-results:
		if !errors.Is(err, wantErr) {
			t.Fatalf("send result = %v, want %v", err, wantErr)
		}
	case <-time.After(time.Second):
		t.Fatal("send result never reported")
	}

	if err := a.Reinit(); err != nil {
		t.Fatalf("Reinit: %v", err)
	}
	if err := a.Send("", []byte{1}); err != nil {
		t.Fatalf("Send after Reinit: %v", err)
	}
	select {
	case err := <-results:
		if err != nil {
			t.Fatalf("send after Reinit reported %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("send result never reported after Reinit")
	}
}

func TestLoopbackClosed(t *testing.T) {
	a, _ := NewLoopbackPair()
	a.Close()
	if err := a.Send("", []byte{1}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Send on closed = %v, want ErrNotInitialized", err)
	}
}
