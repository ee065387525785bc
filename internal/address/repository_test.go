package address

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addrRowColumns = []string{
	"id", "user_id", "address_type", "name", "phone", "address_line1", "address_line2",
	"city", "state", "postal_code", "country", "is_default", "created_at", "updated_at",
}

func addrRow(id uuid.UUID, userID uint, typ Type, isDefault bool) *sqlmock.Rows {
	return sqlmock.NewRows(addrRowColumns).AddRow(
		id.String(), userID, typ, "Home", "555-0101", "1 Main St", nil,
		"Springfield", "IL", "62701", "US", isDefault, time.Now(), nil,
	)
}

func TestRepository_GetOwned(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM addresses").
			WithArgs(id, uint64(1), TypeShipping).
			WillReturnRows(addrRow(id, 1, TypeShipping, true))

		repo := NewRepository(db)
		a, err := repo.GetOwned(context.Background(), id, 1, TypeShipping)

		require.NoError(t, err)
		assert.Equal(t, id, a.ID)
		assert.Equal(t, TypeShipping, a.Type)
		assert.True(t, a.IsDefault)
	})

	t.Run("WrongTypeIsNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM addresses").
			WithArgs(id, uint64(1), TypeBilling).
			WillReturnRows(sqlmock.NewRows(addrRowColumns))

		repo := NewRepository(db)
		_, err = repo.GetOwned(context.Background(), id, 1, TypeBilling)

		assert.ErrorIs(t, err, ErrAddressNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	t.Run("DefaultClearsSiblingsFirst", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE addresses").
			WithArgs(uint64(1), TypeShipping).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO addresses").
			WillReturnRows(addrRow(id, 1, TypeShipping, true))
		mock.ExpectCommit()

		repo := NewRepository(db)
		a, err := repo.Create(context.Background(), 1, CreateAddressInput{
			Type: TypeShipping, Name: "Home", Phone: "555-0101",
			Line1: "1 Main St", City: "Springfield", State: "IL",
			Postal: "62701", Country: "US", SetAsDefault: true,
		})

		require.NoError(t, err)
		assert.True(t, a.IsDefault)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NonDefaultSkipsSiblingUpdate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO addresses").
			WillReturnRows(addrRow(id, 1, TypeBilling, false))
		mock.ExpectCommit()

		repo := NewRepository(db)
		a, err := repo.Create(context.Background(), 1, CreateAddressInput{
			Type: TypeBilling, Name: "Home", Phone: "555-0101",
			Line1: "1 Main St", City: "Springfield", State: "IL",
			Postal: "62701", Country: "US",
		})

		require.NoError(t, err)
		assert.False(t, a.IsDefault)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_SetDefault(t *testing.T) {
	t.Run("ClearsSiblingsAndSetsTarget", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT address_type FROM addresses").
			WithArgs(id, uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"address_type"}).AddRow(TypeShipping))
		mock.ExpectExec("UPDATE addresses").
			WithArgs(uint64(1), TypeShipping, id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE addresses").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRepository(db)
		err = repo.SetDefault(context.Background(), id, 1)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownAddress", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT address_type FROM addresses").
			WithArgs(id, uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"address_type"}))
		mock.ExpectRollback()

		repo := NewRepository(db)
		err = repo.SetDefault(context.Background(), id, 1)

		assert.ErrorIs(t, err, ErrAddressNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	t.Run("NotOwned", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		mock.ExpectExec("DELETE FROM addresses").
			WithArgs(id, uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRepository(db)
		err = repo.Delete(context.Background(), id, 2)

		assert.ErrorIs(t, err, ErrAddressNotFound)
	})
}
