package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when no product has the requested id.
var ErrProductNotFound = errors.New("catalog: product not found")

// CategoryAll is the pseudo-category that matches every product.
const CategoryAll = "all"

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Featured    bool            `json:"featured,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Source supplies the immutable product list. The cart never mutates it.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
	Product(ctx context.Context, id int64) (Product, error)
	Categories(ctx context.Context) ([]Category, error)
}

// Filter narrows products by category and a case-insensitive search over
// name and description. CategoryAll or an empty category matches everything.
func Filter(products []Product, category, query string) []Product {
	out := make([]Product, 0, len(products))
	query = strings.ToLower(strings.TrimSpace(query))

	for _, p := range products {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}

	return out
}

// MemorySource serves a fixed product list, typically the embedded seed.
type MemorySource struct {
	products   []Product
	categories []Category
	byID       map[int64]Product
}

func NewMemorySource(products []Product, categories []Category) *MemorySource {
	byID := make(map[int64]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &MemorySource{products: products, categories: categories, byID: byID}
}

func (s *MemorySource) Products(_ context.Context) ([]Product, error) {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemorySource) Product(_ context.Context, id int64) (Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *MemorySource) Categories(_ context.Context) ([]Category, error) {
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}
