package calculator

import (
	"time"

	"github.com/mmynk/billminder/internal/models"
)

// ParseTimestamp parses a payment timestamp (RFC 3339, optional fractional seconds).
func ParseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// newer reports whether candidate should replace the current latest payment.
// Later timestamps win; equal timestamps fall back to the greater payment ID.
func newer(candTS time.Time, cand *models.Payment, bestTS time.Time, best *models.Payment) bool {
	if best == nil {
		return true
	}
	if !candTS.Equal(bestTS) {
		return candTS.After(bestTS)
	}
	return cand.ID > best.ID
}

// LastAmount returns the amount of the most recent payment for billID across all time.
// Payments with unparseable timestamps are ignored. ok is false if there is none.
func LastAmount(payments []models.Payment, billID string) (amount float64, ok bool) {
	var best *models.Payment
	var bestTS time.Time
	for i := range payments {
		p := &payments[i]
		if p.BillID != billID {
			continue
		}
		ts, valid := ParseTimestamp(p.Timestamp)
		if !valid {
			continue
		}
		if newer(ts, p, bestTS, best) {
			best, bestTS = p, ts
		}
	}
	if best == nil {
		return 0, false
	}
	return best.Amount, true
}

// LatestPaymentInWindow returns the most recent payment for billID and ownerID whose
// timestamp falls within [from, to), or nil if there is none.
func LatestPaymentInWindow(payments []models.Payment, billID, ownerID string, from, to time.Time) *models.Payment {
	var best *models.Payment
	var bestTS time.Time
	for i := range payments {
		p := &payments[i]
		if p.BillID != billID || p.OwnerID != ownerID {
			continue
		}
		ts, valid := ParseTimestamp(p.Timestamp)
		if !valid {
			continue
		}
		if ts.Before(from) || !ts.Before(to) {
			continue
		}
		if newer(ts, p, bestTS, best) {
			best, bestTS = p, ts
		}
	}
	return best
}

// indexByBill groups payments by bill ID, preserving their order.
func indexByBill(payments []models.Payment) map[string][]models.Payment {
	idx := make(map[string][]models.Payment)
	for _, p := range payments {
		if p.BillID == "" {
			continue
		}
		idx[p.BillID] = append(idx[p.BillID], p)
	}
	return idx
}
