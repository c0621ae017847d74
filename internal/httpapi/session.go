package httpapi

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VictorPortugues07/Xis-Clique/internal/cart"
	"github.com/VictorPortugues07/Xis-Clique/internal/catalog"
	"github.com/VictorPortugues07/Xis-Clique/internal/snapshot"
)

// SessionCarts owns the live cart of every active session. Carts are
// hydrated from their persisted snapshot on first touch and re-snapshotted
// through the cart's change callback after every mutation.
type SessionCarts struct {
	mu          sync.Mutex
	carts       map[string]*cart.Cart
	store       snapshot.Store
	catalog     catalog.Source
	deliveryFee decimal.Decimal
	logger      *log.Logger
}

func NewSessionCarts(store snapshot.Store, src catalog.Source, deliveryFee decimal.Decimal, logger *log.Logger) *SessionCarts {
	return &SessionCarts{
		carts:       make(map[string]*cart.Cart),
		store:       store,
		catalog:     src,
		deliveryFee: deliveryFee,
		logger:      logger,
	}
}

// With runs fn against the session's cart. Access is serialized; the cart
// itself has no locking discipline of its own.
func (s *SessionCarts) With(ctx context.Context, sessionID string, fn func(*cart.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = s.hydrate(ctx, sessionID)
		s.carts[sessionID] = c
	}

	return fn(c)
}

// Drop forgets the session's cart and deletes its snapshot, e.g. after a
// completed checkout.
func (s *SessionCarts) Drop(ctx context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Printf("delete snapshot for session %s: %v", sessionID, err)
	}
}

func (s *SessionCarts) hydrate(ctx context.Context, sessionID string) *cart.Cart {
	c := cart.NewWithDeliveryFee(s.deliveryFee)

	data, err := s.store.Load(ctx, sessionID)
	if err != nil {
		// A broken snapshot never blocks the session; start empty.
		s.logger.Printf("load snapshot for session %s: %v", sessionID, err)
	} else {
		snapshot.Restore(ctx, data, s.catalog, c)
	}

	// Registered after restore so replaying records does not rewrite the
	// snapshot it came from.
	c.OnChange(func(c *cart.Cart) {
		s.persist(sessionID, c)
	})

	return c
}

func (s *SessionCarts) persist(sessionID string, c *cart.Cart) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := snapshot.Encode(c)
	if err != nil {
		s.logger.Printf("encode snapshot for session %s: %v", sessionID, err)
		return
	}
	if err := s.store.Save(ctx, sessionID, data); err != nil {
		s.logger.Printf("save snapshot for session %s: %v", sessionID, err)
	}
}
