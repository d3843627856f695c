package events

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
)

// MemoryBackend dispatches messages to in-process subscribers. It is
// the default backend: no broker required, no delivery after restart.
type MemoryBackend struct {
	mu       sync.Mutex
	closed   bool
	nextID   int
	handlers map[string]map[int]Handler
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		handlers: make(map[string]map[int]Handler),
	}
}

// Publish dispatches the message synchronously to all current
// subscribers of the channel. Handler errors are ignored; there is no
// in-process redelivery.
func (m *MemoryBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", errors.New("memory backend closed")
	}
	subscribers := make([]Handler, 0, len(m.handlers[channel]))
	for _, handler := range m.handlers[channel] {
		subscribers = append(subscribers, handler)
	}
	m.mu.Unlock()

	messageID := newMessageID()
	msg := Message{ID: messageID, Data: data, Attributes: attrs}
	for _, handler := range subscribers {
		_ = handler(ctx, msg)
	}
	return messageID, nil
}

// Subscribe registers the handler and blocks until the context is done.
func (m *MemoryBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.New("memory backend closed")
	}
	if m.handlers[channel] == nil {
		m.handlers[channel] = make(map[int]Handler)
	}
	m.nextID++
	id := m.nextID
	m.handlers[channel][id] = handler
	m.mu.Unlock()

	<-ctx.Done()

	m.mu.Lock()
	delete(m.handlers[channel], id)
	m.mu.Unlock()
	return ctx.Err()
}

// Close drops all subscriptions.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.handlers = make(map[string]map[int]Handler)
	return nil
}

func newMessageID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(buf[:])
}
