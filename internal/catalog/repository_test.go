package catalog

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRepositoryProducts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "category", "image", "featured"}).
		AddRow(1, "Big Burger Clássico", "Hambúrguer artesanal", "28.90", "burgers", "img1", true).
		AddRow(3, "Coca-Cola 350ml", "Refrigerante tradicional gelado", "6.90", "drinks", "img3", false)

	mock.ExpectQuery(regexp.QuoteMeta(`
SELECT id, name, description, price, category, image, featured
FROM catalog_products ORDER BY id`)).
		WillReturnRows(rows)

	products, err := repo.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, int64(1), products[0].ID)
	require.True(t, products[0].Price.Equal(decimal.RequireFromString("28.90")))
	require.True(t, products[0].Featured)
	require.Equal(t, "drinks", products[1].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryProductNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
SELECT id, name, description, price, category, image, featured
FROM catalog_products WHERE id = $1`)).
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Product(context.Background(), 999)
	require.ErrorIs(t, err, ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "icon"}).
		AddRow("all", "Todos os Produtos", "bi-grid-3x3-gap").
		AddRow("burgers", "Hamburgers", "bi-circle")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, icon FROM catalog_categories ORDER BY position`)).
		WillReturnRows(rows)

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "all", categories[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySeedRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	categories := []Category{{ID: "burgers", Name: "Hamburgers", Icon: "bi-circle"}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO catalog_categories").
		WithArgs("burgers", "Hamburgers", "bi-circle", 0).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err = repo.Seed(context.Background(), nil, categories)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
