package sqlstore

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFromDB(db, DialectPostgres), mock
}

func TestPostgresSaveBill(t *testing.T) {
	store, mock := newMockStore(t)
	bill := testBill("b1", "alice", "Water")

	mock.ExpectQuery(`INSERT INTO bills .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10, \$11, \$12, \$13\)`).
		WithArgs("b1", "alice", "Water", "utility", "", "2024-01-15", "month", 1, false, false, true,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(int64(1700000000)))

	err := store.SaveBill(context.Background(), bill)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), bill.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveBillOwnedByAnother(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO bills`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	err := store.SaveBill(context.Background(), testBill("b1", "mallory", "Water"))
	assert.ErrorIs(t, err, storage.ErrBillOwnedByAnother)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListPayments(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "bill_id", "owner_id", "amount", "paid_at"}).
		AddRow("b1-1", "b1", "alice", 12.5, "2024-03-01T00:00:00.000Z")
	mock.ExpectQuery(`SELECT id, bill_id, owner_id, amount, paid_at FROM payments WHERE owner_id = \$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	payments, err := store.ListPaymentsFor(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.Payment{
		ID: "b1-1", BillID: "b1", OwnerID: "alice", Amount: 12.5, Timestamp: "2024-03-01T00:00:00.000Z",
	}, payments[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreatePayment(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO payments \(id, bill_id, owner_id, amount, paid_at\) VALUES \(\$1, \$2, \$3, \$4, \$5\)`).
		WithArgs("b1-1", "b1", "alice", 10.0, "2024-03-01T00:00:00.000Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.CreatePayment(context.Background(), &models.Payment{
		ID: "b1-1", BillID: "b1", OwnerID: "alice", Amount: 10.0, Timestamp: "2024-03-01T00:00:00.000Z",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreatePaymentDuplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint \"payments_pkey\""})

	err := store.CreatePayment(context.Background(), &models.Payment{
		ID: "b1-1", BillID: "b1", OwnerID: "alice", Amount: 10.0, Timestamp: "2024-03-01T00:00:00.000Z",
	})
	assert.ErrorIs(t, err, storage.ErrDuplicatePayment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreatePaymentOtherError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign key violation"})

	err := store.CreatePayment(context.Background(), &models.Payment{ID: "b1-1", BillID: "b1", OwnerID: "alice"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrDuplicatePayment)
}
