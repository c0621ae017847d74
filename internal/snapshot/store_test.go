package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	payload := []byte(`[{"productId":1,"quantity":2}]`)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM cart_snapshots WHERE session_id = $1`)).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadMissingSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM cart_snapshots WHERE session_id = $1`)).
		WithArgs("sess-unknown").
		WillReturnError(sql.ErrNoRows)

	got, err := store.Load(context.Background(), "sess-unknown")
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	payload := []byte(`[]`)

	mock.ExpectExec("INSERT INTO cart_snapshots").
		WithArgs("sess-1", payload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), "sess-1", payload))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	mock.ExpectExec("INSERT INTO cart_snapshots").
		WithArgs("sess-1", []byte(`[]`)).
		WillReturnError(errors.New("write failed"))

	require.Error(t, store.Save(context.Background(), "sess-1", []byte(`[]`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_snapshots WHERE session_id = $1`)).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), "sess-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
