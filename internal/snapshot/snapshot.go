// Package snapshot serializes cart contents so a session can be restored
// after a restart. Snapshots are best effort: anything unreadable degrades
// to an empty cart instead of an error.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/VictorPortugues07/Xis-Clique/internal/cart"
	"github.com/VictorPortugues07/Xis-Clique/internal/catalog"
)

// Record is one persisted line item. Product data is not embedded; the
// catalog is the source of truth for names and prices on restore.
type Record struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

// Encode serializes the cart's line items.
func Encode(c *cart.Cart) ([]byte, error) {
	items := c.Items()
	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = Record{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Restore replays snapshot records into dst, resolving products against the
// catalog. Corrupt data leaves dst empty; records with unknown products or
// non-positive quantities are dropped. Restore never fails.
func Restore(ctx context.Context, data []byte, src catalog.Source, dst *cart.Cart) {
	if len(data) == 0 {
		return
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return
	}

	for _, rec := range records {
		if rec.Quantity <= 0 {
			continue
		}
		p, err := src.Product(ctx, rec.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				continue
			}
			// Catalog unavailable mid-restore; keep what was replayed so far.
			return
		}
		_ = dst.AddItem(p, rec.Quantity, rec.Notes)
	}
}
