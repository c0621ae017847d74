package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/VictorPortugues07/Xis-Clique/internal/cart"
	"github.com/VictorPortugues07/Xis-Clique/internal/catalog"
	"github.com/VictorPortugues07/Xis-Clique/internal/events"
)

const sessionCookieName = "storefront_session"

type OrderEventsPublisher interface {
	PublishOrderPlaced(ctx context.Context, orderID, sessionID string, c *cart.Cart, metadata events.PublishMetadata) error
}

type CartHandler struct {
	sessions      *SessionCarts
	catalog       catalog.Source
	publisher     OrderEventsPublisher
	checkoutDelay time.Duration
	logger        *log.Logger
}

func NewCartHandler(sessions *SessionCarts, src catalog.Source, publisher OrderEventsPublisher, checkoutDelay time.Duration, logger *log.Logger) *CartHandler {
	return &CartHandler{
		sessions:      sessions,
		catalog:       src,
		publisher:     publisher,
		checkoutDelay: checkoutDelay,
		logger:        logger,
	}
}

// sessionID returns the session cookie value, minting a new session when the
// request has none.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

type cartItemResponse struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
	LineTotal string `json:"lineTotal"`
}

type cartResponse struct {
	Items       []cartItemResponse `json:"items"`
	Subtotal    string             `json:"subtotal"`
	DeliveryFee string             `json:"deliveryFee"`
	Total       string             `json:"total"`
	ItemCount   int                `json:"itemCount"`
}

// Display rounding happens here and nowhere else; the ledger accumulates
// unrounded decimals.
func renderCart(c *cart.Cart) cartResponse {
	items := c.Items()
	out := cartResponse{
		Items:       make([]cartItemResponse, len(items)),
		Subtotal:    c.Subtotal().StringFixed(2),
		DeliveryFee: c.DeliveryCharge().StringFixed(2),
		Total:       c.Total().StringFixed(2),
		ItemCount:   c.ItemCount(),
	}
	for i, item := range items {
		out.Items[i] = cartItemResponse{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			UnitPrice: item.Product.Price.StringFixed(2),
			Quantity:  item.Quantity,
			Notes:     item.Notes,
			LineTotal: item.LineTotal().StringFixed(2),
		}
	}
	return out
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var resp cartResponse
	_ = h.sessions.With(ctx, sid, func(c *cart.Cart) error {
		resp = renderCart(c)
		return nil
	})

	writeJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	var body struct {
		ProductID int64  `json:"productId"`
		Quantity  *int   `json:"quantity"`
		Notes     string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.catalog.Product(ctx, body.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "unknown product")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	var resp cartResponse
	err = h.sessions.With(ctx, sid, func(c *cart.Cart) error {
		if err := c.AddItem(p, quantity, body.Notes); err != nil {
			return err
		}
		resp = renderCart(c)
		return nil
	})
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			writeError(w, http.StatusUnprocessableEntity, "quantity must be a positive integer")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	var body struct {
		ProductID int64  `json:"productId"`
		Notes     string `json:"notes"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := cart.ItemKey{ProductID: body.ProductID, Notes: body.Notes}

	var resp cartResponse
	err := h.sessions.With(ctx, sid, func(c *cart.Cart) error {
		if err := c.UpdateQuantity(key, body.Quantity); err != nil {
			return err
		}
		resp = renderCart(c)
		return nil
	})
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "item not in cart")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	var body struct {
		ProductID int64  `json:"productId"`
		Notes     string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := cart.ItemKey{ProductID: body.ProductID, Notes: body.Notes}

	var resp cartResponse
	err := h.sessions.With(ctx, sid, func(c *cart.Cart) error {
		if err := c.RemoveItem(key); err != nil {
			return err
		}
		resp = renderCart(c)
		return nil
	})
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "item not in cart")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var resp cartResponse
	_ = h.sessions.With(ctx, sid, func(c *cart.Cart) error {
		c.Clear()
		resp = renderCart(c)
		return nil
	})

	writeJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	metadata := events.PublishMetadata{
		CorrelationID: r.Header.Get("X-Correlation-Id"),
		CausationID:   r.Header.Get("X-Causation-Id"),
	}
	if metadata.CorrelationID == "" {
		metadata.CorrelationID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.checkoutDelay+5*time.Second)
	defer cancel()

	orderID := uuid.NewString()

	empty := false
	_ = h.sessions.With(ctx, sid, func(c *cart.Cart) error {
		empty = c.Len() == 0
		return nil
	})
	if empty {
		writeError(w, http.StatusConflict, "cart is empty")
		return
	}

	// Mock payment confirmation; the delay mimics the original flow. Runs
	// outside the registry lock so other sessions are not held up.
	select {
	case <-time.After(h.checkoutDelay):
	case <-ctx.Done():
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	var total string
	err := h.sessions.With(ctx, sid, func(c *cart.Cart) error {
		if c.Len() == 0 {
			empty = true
			return nil
		}
		if err := h.publisher.PublishOrderPlaced(ctx, orderID, sid, c, metadata); err != nil {
			return err
		}
		total = c.Total().StringFixed(2)
		c.Clear()
		return nil
	})
	if err != nil {
		h.logger.Printf("checkout for session %s: %v", sid, err)
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}
	if empty {
		writeError(w, http.StatusConflict, "cart is empty")
		return
	}

	h.sessions.Drop(ctx, sid)
	writeJSON(w, http.StatusOK, map[string]string{
		"orderId": orderID,
		"status":  "confirmed",
		"total":   total,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
