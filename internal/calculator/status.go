package calculator

import (
	"log/slog"
	"sort"
	"time"

	"github.com/mmynk/billminder/internal/models"
)

// Bucket is the status bucket a bill is classified into.
type Bucket string

const (
	BucketPayImmediately Bucket = "payImmediately"
	BucketUpcoming       Bucket = "upcoming"
	BucketPaid           Bucket = "paid"
)

// DefaultLookaheadDays is how far ahead a due date counts as upcoming.
const DefaultLookaheadDays = 5

// Options configures a status evaluation.
type Options struct {
	// Location is the reference zone that decides what "today" and "this month" are.
	Location *time.Location

	// LookaheadDays is the size of the upcoming window after today.
	LookaheadDays int
}

// DefaultOptions evaluates in UTC-5 with a five day lookahead.
func DefaultOptions() Options {
	return Options{
		Location:      ReferenceZone(-5),
		LookaheadDays: DefaultLookaheadDays,
	}
}

// evaluation holds the windows shared by every bill in one ComputeStatus call.
type evaluation struct {
	ownerID   string
	today     time.Time
	windowEnd time.Time // today + lookahead, inclusive
	monthDate time.Time // first day of today's month, date-only

	// payment window for "paid this month", as instants in the reference zone
	monthFrom time.Time
	monthTo   time.Time
}

// ComputeStatus classifies the owner's active bills as of now.
//
// Algorithm, per bill:
//   - skip bills of other owners, inactive bills, and bills with an unparseable
//     start date or unknown frequency unit
//   - not started (today < start): relevant only if start is within the lookahead;
//     paid if any payment landed this month, otherwise upcoming
//   - started: the due date is the current cycle's due date, moved to the next
//     one when the current cycle began before this month
//   - a payment this calendar month marks the bill paid regardless of cycle
//   - otherwise due on or before today is pay-immediately, due within the
//     lookahead is upcoming, anything later is left out
//
// Each bucket is ordered by due date, then name.
func ComputeStatus(now time.Time, ownerID string, bills []models.Bill, payments []models.Payment, opts Options) *models.StatusReport {
	if opts.Location == nil {
		opts.Location = DefaultOptions().Location
	}
	if opts.LookaheadDays < 0 {
		opts.LookaheadDays = 0
	}

	today := Today(now, opts.Location)
	from, to := MonthWindow(today, opts.Location)
	ev := evaluation{
		ownerID:   ownerID,
		today:     today,
		windowEnd: today.AddDate(0, 0, opts.LookaheadDays),
		monthDate: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
		monthFrom: from,
		monthTo:   to,
	}

	byBill := indexByBill(payments)
	report := models.NewStatusReport()

	for _, b := range bills {
		bucket, rec, ok := classify(b, byBill[b.ID], ev)
		if !ok {
			continue
		}
		switch bucket {
		case BucketPaid:
			report.Paid = append(report.Paid, rec)
		case BucketPayImmediately:
			report.PayImmediately = append(report.PayImmediately, rec)
		case BucketUpcoming:
			report.Upcoming = append(report.Upcoming, rec)
		}
	}

	sortRecords(report.PayImmediately)
	sortRecords(report.Upcoming)
	sortRecords(report.Paid)
	return report
}

// sortRecords orders a bucket by due date, then name, then id.
func sortRecords(recs []models.StatusRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// classify places one bill into a bucket. ok is false when the bill is not shown.
func classify(b models.Bill, payments []models.Payment, ev evaluation) (Bucket, models.StatusRecord, bool) {
	if b.OwnerID != ev.ownerID || !b.IsActive {
		return "", models.StatusRecord{}, false
	}

	start, err := ParseDateOnly(b.StartDate)
	if err != nil {
		slog.Debug("Skipping bill with bad start date", "bill_id", b.ID, "error", err)
		return "", models.StatusRecord{}, false
	}

	freq, ok := normalizeFrequency(b.Frequency)
	if !ok {
		slog.Debug("Skipping bill with unknown frequency unit", "bill_id", b.ID, "unit", b.Frequency.Unit)
		return "", models.StatusRecord{}, false
	}

	notStarted := ev.today.Before(start)

	var due time.Time
	if notStarted {
		due = start
		if due.After(ev.windowEnd) {
			return "", models.StatusRecord{}, false
		}
	} else {
		cycle, _ := ComputeCycle(ev.today, start, freq.Unit, freq.Interval)
		due = cycle.CurrentDue
		if cycle.CurrentDue.Before(ev.monthDate) {
			due = cycle.NextDue
		}
	}

	rec := newStatusRecord(b, freq, due)
	if amount, ok := LastAmount(payments, b.ID); ok {
		rec.LastAmount = amount
	}

	if p := LatestPaymentInWindow(payments, b.ID, ev.ownerID, ev.monthFrom, ev.monthTo); p != nil {
		paidAt, amount := p.Timestamp, p.Amount
		rec.PaidThisMonth = true
		rec.PaidAt = &paidAt
		rec.PaidAmount = &amount
		return BucketPaid, rec, true
	}

	if notStarted {
		return BucketUpcoming, rec, true
	}

	if !due.After(ev.today) {
		overdue := max(0, DaysBetween(due, ev.today))
		rec.DaysOverdue = &overdue
		return BucketPayImmediately, rec, true
	}

	if !due.After(ev.windowEnd) {
		return BucketUpcoming, rec, true
	}

	return "", models.StatusRecord{}, false
}

// normalizeFrequency fills in the defaults for missing fields: month, every 1.
// An unknown unit makes the bill unusable.
func normalizeFrequency(f models.Frequency) (models.Frequency, bool) {
	out := models.Frequency{Unit: models.UnitMonth, Interval: f.Interval}
	if f.Unit != "" {
		unit, ok := models.ParseFrequencyUnit(string(f.Unit))
		if !ok {
			return models.Frequency{}, false
		}
		out.Unit = unit
	}
	if out.Interval < 1 {
		out.Interval = 1
	}
	return out, true
}

func newStatusRecord(b models.Bill, freq models.Frequency, due time.Time) models.StatusRecord {
	return models.StatusRecord{
		ID:               b.ID,
		Name:             b.Name,
		Type:             b.Type,
		Reference:        b.Reference,
		AutoPay:          b.AutoPay,
		IsVariableAmount: b.IsVariableAmount,
		IsActive:         true,
		StartDate:        b.StartDate,
		Frequency:        freq,
		DueDate:          FormatDate(due),
	}
}
