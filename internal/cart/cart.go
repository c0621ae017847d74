package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/VictorPortugues07/Xis-Clique/internal/catalog"
)

var (
	// ErrInvalidQuantity is returned when a quantity is zero or negative.
	ErrInvalidQuantity = errors.New("cart: quantity must be a positive integer")
	// ErrItemNotFound is returned when no line item matches the given key.
	ErrItemNotFound = errors.New("cart: item not found")
)

// DefaultDeliveryFee is the flat fee charged once per non-empty cart.
var DefaultDeliveryFee = decimal.NewFromFloat(5.00)

// ItemKey identifies a line item. Two additions with the same product and the
// same notes merge into one line; different notes stay separate lines.
type ItemKey struct {
	ProductID int64
	Notes     string
}

// LineItem is one entry in the cart. Quantity is always >= 1.
type LineItem struct {
	Product  catalog.Product
	Quantity int
	Notes    string
}

// Key returns the identity key of the line item.
func (li LineItem) Key() ItemKey {
	return ItemKey{ProductID: li.Product.ID, Notes: li.Notes}
}

// LineTotal is unit price times quantity, unrounded.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart holds the ordered set of line items for one session and computes the
// derived totals. It is not safe for concurrent use; callers serialize access
// per session.
type Cart struct {
	items       []*LineItem
	index       map[ItemKey]*LineItem
	deliveryFee decimal.Decimal
	onChange    []func(*Cart)
}

// New returns an empty cart with the default delivery fee.
func New() *Cart {
	return NewWithDeliveryFee(DefaultDeliveryFee)
}

// NewWithDeliveryFee returns an empty cart charging the given flat fee on
// non-empty checkouts.
func NewWithDeliveryFee(fee decimal.Decimal) *Cart {
	return &Cart{
		index:       make(map[ItemKey]*LineItem),
		deliveryFee: fee,
	}
}

// OnChange registers a callback invoked after every successful mutation.
// Rejected operations do not fire callbacks.
func (c *Cart) OnChange(fn func(*Cart)) {
	c.onChange = append(c.onChange, fn)
}

func (c *Cart) notify() {
	for _, fn := range c.onChange {
		fn(c)
	}
}

// AddItem merges quantity into an existing line with the same (product id,
// notes) key, or appends a new line at the end of the cart.
func (c *Cart) AddItem(p catalog.Product, quantity int, notes string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	key := ItemKey{ProductID: p.ID, Notes: notes}
	if existing, ok := c.index[key]; ok {
		existing.Quantity += quantity
	} else {
		item := &LineItem{Product: p, Quantity: quantity, Notes: notes}
		c.items = append(c.items, item)
		c.index[key] = item
	}

	c.notify()
	return nil
}

// UpdateQuantity sets the line's quantity to an absolute value. A value of
// zero or less removes the line, same as RemoveItem.
func (c *Cart) UpdateQuantity(key ItemKey, quantity int) error {
	item, ok := c.index[key]
	if !ok {
		return ErrItemNotFound
	}

	if quantity <= 0 {
		c.remove(key)
	} else {
		item.Quantity = quantity
	}

	c.notify()
	return nil
}

// RemoveItem deletes the line with the given key.
func (c *Cart) RemoveItem(key ItemKey) error {
	if _, ok := c.index[key]; !ok {
		return ErrItemNotFound
	}

	c.remove(key)
	c.notify()
	return nil
}

func (c *Cart) remove(key ItemKey) {
	delete(c.index, key)
	for i, item := range c.items {
		if item.Key() == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Idempotent.
func (c *Cart) Clear() {
	c.items = nil
	c.index = make(map[ItemKey]*LineItem)
	c.notify()
}

// Items returns the line items in insertion order of their identity keys.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = *item
	}
	return out
}

// Len returns the number of distinct line items.
func (c *Cart) Len() int {
	return len(c.items)
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums price times quantity over all lines. Zero for an empty cart.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// DeliveryCharge returns the delivery fee, waived when the cart is empty.
func (c *Cart) DeliveryCharge() decimal.Decimal {
	if len(c.items) == 0 {
		return decimal.Zero
	}
	return c.deliveryFee
}

// Total is subtotal plus the applicable delivery charge.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.DeliveryCharge())
}
