package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storeops/backoffice/internal/domain/purchasing"
	"github.com/storeops/backoffice/internal/domain/shared"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormPurchaseOrderRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPurchaseOrderRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "purchase_orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPurchaseOrderRepository_SaveWithLock_VersionConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPurchaseOrderRepository(db)

	order, err := purchasing.NewPurchaseOrder("PO-2026-00001", uuid.New(), "Acme Wholesale")
	require.NoError(t, err)

	// Stored version is already at or past the in-memory one.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "version" FROM "purchase_orders" .* FOR UPDATE`).
		WithArgs(order.ID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(order.Version))
	mock.ExpectRollback()

	err = repo.SaveWithLock(context.Background(), order)
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeConcurrentModification))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPurchaseOrderRepository_SaveWithLock_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPurchaseOrderRepository(db)

	order, err := purchasing.NewPurchaseOrder("PO-2026-00002", uuid.New(), "Acme Wholesale")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "version" FROM "purchase_orders" .* FOR UPDATE`).
		WithArgs(order.ID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectRollback()

	err = repo.SaveWithLock(context.Background(), order)
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPurchaseOrderRepository_GenerateOrderNumber(t *testing.T) {
	prefix := fmt.Sprintf("PO-%d-", time.Now().Year())

	t.Run("continues from the highest existing number", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormPurchaseOrderRepository(db)

		mock.ExpectQuery(`SELECT "order_number" FROM "purchase_orders"`).
			WillReturnRows(sqlmock.NewRows([]string{"order_number"}).AddRow(prefix + "00041"))

		number, err := repo.GenerateOrderNumber(context.Background())
		require.NoError(t, err)
		assert.Equal(t, prefix+"00042", number)
	})

	t.Run("starts at one for the first order of the year", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormPurchaseOrderRepository(db)

		mock.ExpectQuery(`SELECT "order_number" FROM "purchase_orders"`).
			WillReturnRows(sqlmock.NewRows([]string{"order_number"}))

		number, err := repo.GenerateOrderNumber(context.Background())
		require.NoError(t, err)
		assert.Equal(t, prefix+"00001", number)
	})
}

func TestTranslateError(t *testing.T) {
	t.Run("record not found maps to NOT_FOUND", func(t *testing.T) {
		err := translateError(gorm.ErrRecordNotFound, "payment")
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeNotFound))
	})

	t.Run("unique violation maps to ALREADY_EXISTS", func(t *testing.T) {
		err := translateError(&pq.Error{Code: "23505"}, "batch")
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeAlreadyExists))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		cause := fmt.Errorf("connection reset")
		assert.Equal(t, cause, translateError(cause, "payment"))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil, "payment"))
	})
}
