package calculator

import (
	"sort"
	"strings"
	"time"

	"github.com/mmynk/billminder/internal/models"
)

const (
	unknownBillName = "Unknown bill"
	defaultBillName = "Bill"
)

// GroupPaymentsByMonth builds the payment history: one entry per YYYY-MM month
// (as seen in loc) in ascending order, payments inside a month newest first.
// Bill names are looked up in bills; payments with unparseable timestamps are dropped.
func GroupPaymentsByMonth(payments []models.Payment, bills []models.Bill, loc *time.Location) *models.PaymentHistory {
	if loc == nil {
		loc = time.UTC
	}

	names := make(map[string]string, len(bills))
	for _, b := range bills {
		name := b.Name
		if strings.TrimSpace(name) == "" {
			name = defaultBillName
		}
		names[b.ID] = name
	}

	type entry struct {
		ts time.Time
		p  models.HistoryPayment
	}
	months := make(map[string]*models.HistoryMonth)
	entries := make(map[string][]entry)

	for _, p := range payments {
		ts, ok := ParseTimestamp(p.Timestamp)
		if !ok {
			continue
		}
		local := ts.In(loc)
		key := local.Format("2006-01")

		m, exists := months[key]
		if !exists {
			m = &models.HistoryMonth{
				Key:   key,
				Label: local.Format("Jan 2006"),
			}
			months[key] = m
		}
		m.TotalPaid += p.Amount

		name, known := names[p.BillID]
		if !known {
			name = unknownBillName
		}
		entries[key] = append(entries[key], entry{
			ts: ts,
			p: models.HistoryPayment{
				ID:       p.ID,
				BillID:   p.BillID,
				BillName: name,
				PaidAt:   p.Timestamp,
				Amount:   p.Amount,
			},
		})
	}

	history := &models.PaymentHistory{Months: make([]models.HistoryMonth, 0, len(months))}
	for key, m := range months {
		list := entries[key]
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].ts.Equal(list[j].ts) {
				return list[i].ts.After(list[j].ts)
			}
			return list[i].p.ID > list[j].p.ID
		})
		m.Payments = make([]models.HistoryPayment, len(list))
		for i, e := range list {
			m.Payments[i] = e.p
		}
		history.Months = append(history.Months, *m)
	}
	sort.Slice(history.Months, func(i, j int) bool {
		return history.Months[i].Key < history.Months[j].Key
	})

	return history
}
