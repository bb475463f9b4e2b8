package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/storage"
)

const upsertBill = `
	INSERT INTO bills (id, owner_id, name, type, reference, start_date, frequency_unit,
		frequency_interval, auto_pay, is_variable_amount, is_active, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		type = excluded.type,
		reference = excluded.reference,
		start_date = excluded.start_date,
		frequency_unit = excluded.frequency_unit,
		frequency_interval = excluded.frequency_interval,
		auto_pay = excluded.auto_pay,
		is_variable_amount = excluded.is_variable_amount,
		is_active = excluded.is_active,
		updated_at = excluded.updated_at
	WHERE bills.owner_id = excluded.owner_id
	RETURNING created_at
`

// SaveBill inserts or replaces a bill. Replacing a bill that belongs to another
// owner updates nothing and returns storage.ErrBillOwnedByAnother.
func (s *Store) SaveBill(ctx context.Context, bill *models.Bill) error {
	now := time.Now().Unix()
	if bill.CreatedAt == 0 {
		bill.CreatedAt = now
	}
	bill.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, s.rebind(upsertBill),
		bill.ID,
		bill.OwnerID,
		bill.Name,
		bill.Type,
		bill.Reference,
		bill.StartDate,
		string(bill.Frequency.Unit),
		bill.Frequency.Interval,
		bill.AutoPay,
		bill.IsVariableAmount,
		bill.IsActive,
		bill.CreatedAt,
		bill.UpdatedAt,
	).Scan(&bill.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrBillOwnedByAnother
	}
	if err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}

	return nil
}

// ListBillsFor returns the owner's bills ordered by name.
func (s *Store) ListBillsFor(ctx context.Context, ownerID string) ([]models.Bill, error) {
	query := `
		SELECT id, owner_id, name, type, reference, start_date, frequency_unit,
			frequency_interval, auto_pay, is_variable_amount, is_active, created_at, updated_at
		FROM bills
		WHERE owner_id = ?
		ORDER BY name, id
	`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		var b models.Bill
		var unit string
		if err := rows.Scan(
			&b.ID,
			&b.OwnerID,
			&b.Name,
			&b.Type,
			&b.Reference,
			&b.StartDate,
			&unit,
			&b.Frequency.Interval,
			&b.AutoPay,
			&b.IsVariableAmount,
			&b.IsActive,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		b.Frequency.Unit = models.FrequencyUnit(unit)
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

// ListOwners returns every owner with at least one bill.
func (s *Store) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT owner_id FROM bills ORDER BY owner_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owners: %w", err)
	}

	return owners, nil
}
