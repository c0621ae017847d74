package snapshot_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/VictorPortugues07/Xis-Clique/internal/cart"
	"github.com/VictorPortugues07/Xis-Clique/internal/catalog"
	"github.com/VictorPortugues07/Xis-Clique/internal/snapshot"
)

func testSource() *catalog.MemorySource {
	return catalog.NewMemorySource([]catalog.Product{
		{ID: 1, Name: "Big Burger Clássico", Price: decimal.RequireFromString("15.90"), Category: "burgers"},
		{ID: 2, Name: "Pizza Margherita", Price: decimal.RequireFromString("28.90"), Category: "pizzas"},
	}, nil)
}

func TestEncodeRestoreRoundTrip(t *testing.T) {
	src := testSource()
	ctx := context.Background()

	orig := cart.New()
	p1, _ := src.Product(ctx, 1)
	p2, _ := src.Product(ctx, 2)
	_ = orig.AddItem(p1, 2, "")
	_ = orig.AddItem(p2, 1, "")
	_ = orig.AddItem(p1, 1, "sem cebola")

	data, err := snapshot.Encode(orig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	restored := cart.New()
	snapshot.Restore(ctx, data, src, restored)

	if restored.Len() != 3 {
		t.Fatalf("expected 3 line items, got %d", restored.Len())
	}
	if restored.ItemCount() != 4 {
		t.Fatalf("expected 4 units, got %d", restored.ItemCount())
	}
	if !restored.Subtotal().Equal(orig.Subtotal()) {
		t.Fatalf("subtotal changed across restore: %s vs %s", restored.Subtotal(), orig.Subtotal())
	}

	items := restored.Items()
	if items[2].Notes != "sem cebola" {
		t.Fatalf("notes lost on restore: %+v", items[2])
	}
}

func TestRestoreCorruptedSnapshotYieldsEmptyCart(t *testing.T) {
	src := testSource()

	for _, data := range [][]byte{
		[]byte("{not json"),
		[]byte(`{"items": "wrong shape"}`),
		[]byte("\x00\x01\x02"),
	} {
		c := cart.New()
		snapshot.Restore(context.Background(), data, src, c)
		if c.Len() != 0 {
			t.Fatalf("corrupted snapshot %q must restore to empty cart, got %d items", data, c.Len())
		}
	}
}

func TestRestoreEmptySnapshot(t *testing.T) {
	c := cart.New()
	snapshot.Restore(context.Background(), nil, testSource(), c)
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d items", c.Len())
	}
}

func TestRestoreDropsUnknownProducts(t *testing.T) {
	src := testSource()
	data := []byte(`[
		{"productId": 1, "quantity": 2},
		{"productId": 42, "quantity": 1},
		{"productId": 2, "quantity": 1, "notes": "extra queijo"}
	]`)

	c := cart.New()
	snapshot.Restore(context.Background(), data, src, c)

	if c.Len() != 2 {
		t.Fatalf("expected 2 line items, got %d", c.Len())
	}
	for _, item := range c.Items() {
		if item.Product.ID == 42 {
			t.Fatalf("unknown product survived restore")
		}
	}
}

func TestRestoreDropsNonPositiveQuantities(t *testing.T) {
	src := testSource()
	data := []byte(`[
		{"productId": 1, "quantity": 0},
		{"productId": 2, "quantity": -3},
		{"productId": 1, "quantity": 1, "notes": "ok"}
	]`)

	c := cart.New()
	snapshot.Restore(context.Background(), data, src, c)

	if c.Len() != 1 {
		t.Fatalf("expected 1 line item, got %d", c.Len())
	}
	if c.Items()[0].Notes != "ok" {
		t.Fatalf("wrong record survived: %+v", c.Items()[0])
	}
}

func TestRestoreUsesCatalogPrices(t *testing.T) {
	src := testSource()
	data := []byte(`[{"productId": 2, "quantity": 2}]`)

	c := cart.New()
	snapshot.Restore(context.Background(), data, src, c)

	want := decimal.RequireFromString("57.80")
	if !c.Subtotal().Equal(want) {
		t.Fatalf("expected subtotal %s from catalog price, got %s", want, c.Subtotal())
	}
}
