// Package link is the wireless transport boundary of the telemetry core.
//
// The core treats the radio as an external collaborator: it sends opaque
// byte buffers to one broadcast destination and registers callbacks for
// inbound buffers and send outcomes. Receive callbacks may fire at any time
// between control-loop iterations and must stay short; consumers stage the
// payload and return.
package link

import "errors"

// Transport errors form a small closed set mirroring what the radio layer
// reports. Anything else arrives wrapped.
var (
	ErrNotInitialized  = errors.New("link: transport not initialized")
	ErrInvalidArgument = errors.New("link: invalid argument")
	ErrNoMemory        = errors.New("link: out of memory")
)

// ReceiveFunc is invoked for every inbound payload. The slice is owned by
// the transport and only valid for the duration of the call; copy it out.
type ReceiveFunc func(payload []byte)

// SendResultFunc is invoked after each send attempt with its outcome.
type SendResultFunc func(err error)

// Transport is a fire-and-forget broadcast channel. There is no ARQ: a
// failed send is reported through the send-result callback and the only
// defined recovery is one Reinit attempt by the caller.
type Transport interface {
	// Send transmits payload toward dest (a topic or address, transport
	// specific). It returns immediately with a queueing error, if any;
	// the delivery outcome arrives via the send-result callback.
	Send(dest string, payload []byte) error

	// HandleReceive registers the inbound callback. Must be called before
	// traffic is expected; later calls replace the handler.
	HandleReceive(fn ReceiveFunc)

	// HandleSendResult registers the send-outcome callback.
	HandleSendResult(fn SendResultFunc)

	// Reinit tears down and re-establishes the link once. Callers invoke
	// it after a send failure; there is no retry queue behind it.
	Reinit() error

	Close() error
}
