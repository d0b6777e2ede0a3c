package protocol

import (
	"errors"
	"sync"
)

// ErrChannelClosed is returned by Send after the channel has been severed.
var ErrChannelClosed = errors.New("protocol: channel closed")

// Channel is one party's endpoint of a bidirectional envelope stream.
// Delivery is at-most-once and fire-and-forget: no acknowledgement, no
// retry. Order is preserved per sender. Implementations may be backed by
// in-process queues or a network socket.
type Channel interface {
	// Send delivers an envelope to the peer. A send on a severed channel
	// returns ErrChannelClosed; an in-flight message at sever time may be
	// silently dropped.
	Send(Envelope) error
	// Recv returns the stream of inbound envelopes. The channel is closed
	// when the peer is gone.
	Recv() <-chan Envelope
	// Close severs the connection. Safe to call more than once.
	Close() error
}

// pairEnd is one side of an in-process channel pair.
type pairEnd struct {
	out    chan Envelope
	in     chan Envelope
	mu     sync.Mutex
	closed bool
	peer   *pairEnd
}

// NewPair creates two connected in-process endpoints: writes on one side
// arrive on the other. Both endpoints share one lifetime — closing either
// severs the pair, mirroring a torn-down execution context.
func NewPair() (Channel, Channel) {
	hostToWidget := make(chan Envelope, 64)
	widgetToHost := make(chan Envelope, 64)
	host := &pairEnd{out: hostToWidget, in: widgetToHost}
	widget := &pairEnd{out: widgetToHost, in: hostToWidget}
	host.peer = widget
	widget.peer = host
	return host, widget
}

func (e *pairEnd) Send(env Envelope) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrChannelClosed
	}
	select {
	case e.out <- env:
		return nil
	default:
		// Full buffer on a fire-and-forget channel drops the message
		// rather than blocking the sender.
		return nil
	}
}

func (e *pairEnd) Recv() <-chan Envelope {
	return e.in
}

func (e *pairEnd) Close() error {
	e.closeLocal()
	e.peer.closeLocal()
	return nil
}

// closeLocal marks one end severed and closes its outbound stream so the
// peer's Recv terminates.
func (e *pairEnd) closeLocal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	close(e.out)
}
