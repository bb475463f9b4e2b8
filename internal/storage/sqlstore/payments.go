package sqlstore

import (
	"context"
	"fmt"

	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/storage"
)

// CreatePayment inserts a payment. A taken ID yields storage.ErrDuplicatePayment.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind("INSERT INTO payments (id, bill_id, owner_id, amount, paid_at) VALUES (?, ?, ?, ?, ?)"),
		payment.ID, payment.BillID, payment.OwnerID, payment.Amount, payment.Timestamp,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicatePayment
	}
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// ListPaymentsFor returns the owner's payments ordered by timestamp.
func (s *Store) ListPaymentsFor(ctx context.Context, ownerID string) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT id, bill_id, owner_id, amount, paid_at FROM payments WHERE owner_id = ? ORDER BY paid_at, id"),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.BillID, &p.OwnerID, &p.Amount, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
