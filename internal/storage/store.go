// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billminder/internal/models"
)

// ErrBillOwnedByAnother is returned when saving a bill whose ID already
// belongs to a different owner.
var ErrBillOwnedByAnother = errors.New("bill id belongs to another owner")

// ErrDuplicatePayment is returned when a payment ID is already taken.
var ErrDuplicatePayment = errors.New("payment id already exists")

// Store is the owner-scoped repository for bills and payments.
// Every read takes the owner ID and returns only that owner's records;
// callers never filter a global read themselves.
type Store interface {
	// SaveBill inserts the bill or replaces the owner's existing bill with the same ID.
	// CreatedAt is kept on replace; UpdatedAt is always refreshed.
	SaveBill(ctx context.Context, bill *models.Bill) error

	// ListBillsFor returns all bills belonging to ownerID.
	ListBillsFor(ctx context.Context, ownerID string) ([]models.Bill, error)

	// CreatePayment persists a new payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPaymentsFor returns all payments belonging to ownerID.
	ListPaymentsFor(ctx context.Context, ownerID string) ([]models.Payment, error)

	// ListOwners returns the distinct owners that have at least one bill.
	ListOwners(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
