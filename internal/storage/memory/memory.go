// Package memory provides an in-process storage.Store, used by tests and by
// the "memory" storage driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps bills and payments in maps guarded by a mutex.
type Store struct {
	mu         sync.RWMutex
	bills      map[string]models.Bill
	payments   []models.Payment
	paymentIDs map[string]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{
		bills:      make(map[string]models.Bill),
		paymentIDs: make(map[string]struct{}),
	}
}

// SaveBill inserts or replaces a bill of the same owner.
func (s *Store) SaveBill(_ context.Context, bill *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	if existing, ok := s.bills[bill.ID]; ok {
		if existing.OwnerID != bill.OwnerID {
			return storage.ErrBillOwnedByAnother
		}
		bill.CreatedAt = existing.CreatedAt
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = now
	}
	bill.UpdatedAt = now

	s.bills[bill.ID] = *bill
	return nil
}

// ListBillsFor returns the owner's bills ordered by name.
func (s *Store) ListBillsFor(_ context.Context, ownerID string) ([]models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bills := []models.Bill{}
	for _, b := range s.bills {
		if b.OwnerID == ownerID {
			bills = append(bills, b)
		}
	}
	sort.Slice(bills, func(i, j int) bool {
		if bills[i].Name != bills[j].Name {
			return bills[i].Name < bills[j].Name
		}
		return bills[i].ID < bills[j].ID
	})
	return bills, nil
}

// CreatePayment appends a payment. Duplicate ids are rejected.
func (s *Store) CreatePayment(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paymentIDs[payment.ID]; ok {
		return storage.ErrDuplicatePayment
	}
	s.paymentIDs[payment.ID] = struct{}{}
	s.payments = append(s.payments, *payment)
	return nil
}

// ListPaymentsFor returns the owner's payments in insertion order.
func (s *Store) ListPaymentsFor(_ context.Context, ownerID string) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payments := []models.Payment{}
	for _, p := range s.payments {
		if p.OwnerID == ownerID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// ListOwners returns the distinct owners of stored bills.
func (s *Store) ListOwners(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var owners []string
	for _, b := range s.bills {
		if _, ok := seen[b.OwnerID]; ok {
			continue
		}
		seen[b.OwnerID] = struct{}{}
		owners = append(owners, b.OwnerID)
	}
	sort.Strings(owners)
	return owners, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
