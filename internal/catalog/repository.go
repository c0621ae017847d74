package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository serves the catalog from Postgres. It satisfies Source so the
// HTTP layer does not care whether products come from the seed or a database.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Products(ctx context.Context) ([]Product, error) {
	const query = `
SELECT id, name, description, price, category, image, featured
FROM catalog_products ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image, &p.Featured); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *Repository) Product(ctx context.Context, id int64) (Product, error) {
	const query = `
SELECT id, name, description, price, category, image, featured
FROM catalog_products WHERE id = $1`

	var p Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image, &p.Featured)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("query product %d: %w", id, err)
	}

	return p, nil
}

func (r *Repository) Categories(ctx context.Context) ([]Category, error) {
	const query = `SELECT id, name, icon FROM catalog_categories ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// Seed loads products and categories into Postgres, updating rows that
// already exist so the embedded seed can be re-applied on startup.
func (r *Repository) Seed(ctx context.Context, products []Product, categories []Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const upsertCategory = `
INSERT INTO catalog_categories (id, name, icon, position)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, icon = EXCLUDED.icon, position = EXCLUDED.position`

	for i, c := range categories {
		if _, err = tx.ExecContext(ctx, upsertCategory, c.ID, c.Name, c.Icon, i); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}

	const upsertProduct = `
INSERT INTO catalog_products (id, name, description, price, category, image, featured)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
    category = EXCLUDED.category, image = EXCLUDED.image, featured = EXCLUDED.featured`

	for _, p := range products {
		if _, err = tx.ExecContext(ctx, upsertProduct, p.ID, p.Name, p.Description, p.Price, p.Category, p.Image, p.Featured); err != nil {
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}

	err = tx.Commit()
	return err
}
