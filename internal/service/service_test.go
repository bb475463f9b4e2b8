package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billminder/internal/calculator"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/storage"
	"github.com/mmynk/billminder/internal/storage/sqlstore"
)

// 2024-03-10 12:00 in UTC-5
var testNow = time.Date(2024, 3, 10, 17, 0, 0, 0, time.UTC)

// setupTestStore creates a SQLite store in a temp directory.
func setupTestStore(t *testing.T) storage.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "billminder-service-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := sqlstore.New(sqlstore.DialectSQLite, filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func setupServices(t *testing.T) (*BillService, *PaymentService, *clock.Fake) {
	t.Helper()
	store := setupTestStore(t)
	clk := clock.NewFake(testNow)
	opts := calculator.DefaultOptions()
	return NewBillService(store, clk, opts, nil), NewPaymentService(store, clk, opts.Location, nil), clk
}

func boolPtr(b bool) *bool { return &b }

func validInput() BillInput {
	return BillInput{
		Name:      "Electricity",
		Type:      "utility",
		StartDate: "2024-01-08",
		Frequency: &FrequencyInput{Unit: "month", Interval: json.Number("1")},
	}
}

// mockStore is a testify mock of storage.Store for failure paths.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) SaveBill(ctx context.Context, bill *models.Bill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *mockStore) ListBillsFor(ctx context.Context, ownerID string) ([]models.Bill, error) {
	args := m.Called(ctx, ownerID)
	bills, _ := args.Get(0).([]models.Bill)
	return bills, args.Error(1)
}

func (m *mockStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *mockStore) ListPaymentsFor(ctx context.Context, ownerID string) ([]models.Payment, error) {
	args := m.Called(ctx, ownerID)
	payments, _ := args.Get(0).([]models.Payment)
	return payments, args.Error(1)
}

func (m *mockStore) ListOwners(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	owners, _ := args.Get(0).([]string)
	return owners, args.Error(1)
}

func (m *mockStore) Close() error {
	return nil
}
