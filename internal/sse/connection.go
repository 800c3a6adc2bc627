// Package sse owns the live delivery channel to connected members: the
// per-recipient connection handle and the process-wide registry mapping
// recipient identities to open handles. Durable notification storage is
// deliberately outside this package; everything here is transient state
// that dies with the process.
package sse

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout is the connection lifetime when none is configured.
const DefaultTimeout = 60 * time.Minute

// outboundBuffer is the number of events a handle can hold while the
// stream writer drains them. A full buffer means the client stopped
// reading and the push is treated as failed.
const outboundBuffer = 16

var (
	// ErrConnectionClosed is returned by Send after the handle was closed.
	ErrConnectionClosed = errors.New("sse: connection closed")
	// ErrSlowConsumer is returned by Send when the outbound buffer is full.
	ErrSlowConsumer = errors.New("sse: outbound buffer full")
)

// Event is one server-sent event: the event kind as the name tag and the
// pre-formatted message text as the payload.
type Event struct {
	Name string
	Data string
}

// Connection is a live delivery channel to exactly one recipient. Events
// are queued on a buffered channel and drained by the HTTP stream writer;
// Send never blocks on the network.
type Connection struct {
	id          string
	recipientID string
	timeout     time.Duration

	outbound  chan Event
	done      chan struct{}
	closeOnce sync.Once
	onClose   func(*Connection)
}

func newConnection(recipientID string, timeout time.Duration, onClose func(*Connection)) *Connection {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Connection{
		id:          fmt.Sprintf("%s_%d", recipientID, time.Now().UnixMilli()),
		recipientID: recipientID,
		timeout:     timeout,
		outbound:    make(chan Event, outboundBuffer),
		done:        make(chan struct{}),
		onClose:     onClose,
	}
}

// ID uniquely identifies this physical connection; a recipient gets a new
// ID on every subscribe.
func (c *Connection) ID() string { return c.id }

// RecipientID is the identity the connection delivers to.
func (c *Connection) RecipientID() string { return c.recipientID }

// Timeout is the configured connection lifetime.
func (c *Connection) Timeout() time.Duration { return c.timeout }

// Events is the outbound queue drained by the stream writer.
func (c *Connection) Events() <-chan Event { return c.outbound }

// Done is closed when the connection is torn down.
func (c *Connection) Done() <-chan struct{} { return c.done }

// IsClosed reports whether the connection has been torn down.
func (c *Connection) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Send queues one event for delivery. It fails when the connection is
// closed or the client stopped draining its buffer; the caller decides
// what eviction that failure implies.
func (c *Connection) Send(ev Event) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.outbound <- ev:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		return ErrSlowConsumer
	}
}

// Close tears the connection down. Safe to call from the stream writer,
// the timeout path, and the registry concurrently; only the first call
// runs the teardown hook.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.onClose != nil {
			c.onClose(c)
		}
	})
}

// WriteEvent encodes one event in SSE wire format and flushes it. Multi-line
// payloads become one data: line per line, per the event-stream format.
func WriteEvent(w *bufio.Writer, ev Event) error {
	if ev.Name != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", ev.Name); err != nil {
			return err
		}
	}
	for _, line := range strings.Split(ev.Data, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, "\n"); err != nil {
		return err
	}
	return w.Flush()
}
