package sse

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// connectEventName is the no-op control event written right after
// subscribing so intermediaries see a response body immediately instead
// of treating the stream as stalled.
const connectEventName = "connect"

// ErrSubscribeFailed is returned when the initial control event cannot be
// written to a fresh connection.
var ErrSubscribeFailed = errors.New("sse: subscribe failed")

// Registry maps recipient identities to their open connection. At most one
// connection is registered per recipient; subscribing again replaces the
// mapping and closes the superseded handle. All synchronization lives
// inside the registry.
type Registry struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.RWMutex
	conns map[string]*Connection
}

func NewRegistry(timeout time.Duration, logger *zap.Logger) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		timeout: timeout,
		logger:  logger,
		conns:   make(map[string]*Connection),
	}
}

// Subscribe creates a connection for the recipient, queues the initial
// connect control event, and registers the handle. A connection already
// registered for the same recipient is closed and replaced.
func (r *Registry) Subscribe(recipientID string) (*Connection, error) {
	conn := newConnection(recipientID, r.timeout, r.release)

	if err := conn.Send(Event{Name: connectEventName}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
	}

	r.mu.Lock()
	prev := r.conns[recipientID]
	r.conns[recipientID] = conn
	r.mu.Unlock()

	if prev != nil {
		prev.Close()
		r.logger.Info("sse connection replaced",
			zap.String("recipient", recipientID),
			zap.String("previousConnId", prev.ID()),
			zap.String("connId", conn.ID()),
		)
	} else {
		r.logger.Info("sse connection registered",
			zap.String("recipient", recipientID),
			zap.String("connId", conn.ID()),
		)
	}

	return conn, nil
}

// Lookup returns the currently registered connection, if any.
func (r *Registry) Lookup(recipientID string) (*Connection, bool) {
	r.mu.RLock()
	conn, ok := r.conns[recipientID]
	r.mu.RUnlock()
	return conn, ok
}

// Remove deregisters and closes whatever connection is mapped to the
// recipient. Idempotent; the push-failure path, completion hooks, and
// timeout hooks may all race on the same key.
func (r *Registry) Remove(recipientID string) {
	r.mu.Lock()
	conn, ok := r.conns[recipientID]
	if ok {
		delete(r.conns, recipientID)
	}
	r.mu.Unlock()

	if ok {
		conn.Close()
		r.logger.Info("sse connection removed", zap.String("recipient", recipientID), zap.String("connId", conn.ID()))
	}
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// ActiveConnections is a prometheus GaugeFunc source.
func (r *Registry) ActiveConnections() float64 {
	return float64(r.Count())
}

// release is the teardown hook bound to every connection at creation. It
// only evicts the mapping if it still points at this exact handle, so a
// replacement registered in the meantime survives its predecessor's
// completion or timeout.
func (r *Registry) release(conn *Connection) {
	r.mu.Lock()
	current, ok := r.conns[conn.recipientID]
	if ok && current == conn {
		delete(r.conns, conn.recipientID)
	} else {
		ok = false
	}
	r.mu.Unlock()

	if ok {
		r.logger.Debug("sse connection deregistered",
			zap.String("recipient", conn.recipientID),
			zap.String("connId", conn.ID()),
		)
	}
}
