package httpapi_test

import (
	"context"
	"sync"

	"github.com/VictorPortugues07/Xis-Clique/internal/cart"
	"github.com/VictorPortugues07/Xis-Clique/internal/events"
)

// memStore is an in-memory snapshot.Store with optional error injection.
type memStore struct {
	mu        sync.Mutex
	snapshots map[string][]byte
	loadErr   error
	saveErr   error
}

func newMemStore() *memStore {
	return &memStore{snapshots: make(map[string][]byte)}
}

func (s *memStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.snapshots[sessionID], nil
}

func (s *memStore) Save(_ context.Context, sessionID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshots[sessionID] = data
	return nil
}

func (s *memStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
	return nil
}

func (s *memStore) get(sessionID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.snapshots[sessionID]
	return data, ok
}

type publishCall struct {
	OrderID   string
	SessionID string
	Items     []cart.LineItem
	Total     string
	Metadata  events.PublishMetadata
}

// OrderEventsPublisherMock records publishes; PublishOrderPlacedFunc can
// override the default success behavior.
type OrderEventsPublisherMock struct {
	PublishOrderPlacedFunc func(ctx context.Context, orderID, sessionID string, c *cart.Cart, metadata events.PublishMetadata) error

	mu    sync.Mutex
	calls []publishCall
}

func (m *OrderEventsPublisherMock) PublishOrderPlaced(ctx context.Context, orderID, sessionID string, c *cart.Cart, metadata events.PublishMetadata) error {
	m.mu.Lock()
	m.calls = append(m.calls, publishCall{
		OrderID:   orderID,
		SessionID: sessionID,
		Items:     c.Items(),
		Total:     c.Total().StringFixed(2),
		Metadata:  metadata,
	})
	m.mu.Unlock()

	if m.PublishOrderPlacedFunc != nil {
		return m.PublishOrderPlacedFunc(ctx, orderID, sessionID, c, metadata)
	}
	return nil
}

func (m *OrderEventsPublisherMock) PublishOrderPlacedCalls() []publishCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishCall(nil), m.calls...)
}
