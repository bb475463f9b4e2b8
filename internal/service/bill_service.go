package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billminder/internal/calculator"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/metrics"
	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/storage"
)

// BillInput is the accepted shape of a bill create/replace request.
// Keys outside this set are ignored. Pointer fields distinguish "absent" from
// an explicit false.
type BillInput struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	StartDate        string          `json:"startDate"`
	Frequency        *FrequencyInput `json:"frequency"`
	Reference        string          `json:"reference"`
	AutoPay          *bool           `json:"autoPay"`
	IsVariableAmount *bool           `json:"isVariableAmount"`
	IsActive         *bool           `json:"isActive"`
}

// FrequencyInput is the request form of models.Frequency.
type FrequencyInput struct {
	Unit     string      `json:"unit"`
	Interval json.Number `json:"interval"`
}

// BillService serves bill listing, saving and the status view.
type BillService struct {
	store   storage.Store
	clock   clock.Clock
	opts    calculator.Options
	metrics *metrics.Collector
}

// NewBillService creates a BillService. m may be nil.
func NewBillService(store storage.Store, clk clock.Clock, opts calculator.Options, m *metrics.Collector) *BillService {
	return &BillService{store: store, clock: clk, opts: opts, metrics: m}
}

// ListBills returns the owner's bills as stored.
func (s *BillService) ListBills(ctx context.Context, ownerID string) ([]models.Bill, error) {
	bills, err := s.store.ListBillsFor(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// SaveBill validates the input and stores it as one of the owner's bills.
func (s *BillService) SaveBill(ctx context.Context, ownerID string, in BillInput) (*models.Bill, error) {
	bill, err := sanitizeBill(in)
	if err != nil {
		return nil, err
	}
	bill.OwnerID = ownerID

	if err := s.store.SaveBill(ctx, bill); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BillsSaved.Inc()
	}
	slog.Info("Bill saved", "bill_id", bill.ID, "owner_id", ownerID)
	return bill, nil
}

// Status computes the owner's status view as of the service clock.
func (s *BillService) Status(ctx context.Context, ownerID string) (*models.StatusReport, error) {
	return s.StatusAt(ctx, ownerID, s.clock.Now())
}

// StatusAt computes the owner's status view as of now.
func (s *BillService) StatusAt(ctx context.Context, ownerID string, now time.Time) (report *models.StatusReport, err error) {
	bills, err := s.store.ListBillsFor(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusFailed, err)
	}
	payments, err := s.store.ListPaymentsFor(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusFailed, err)
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Status computation panicked", "owner_id", ownerID, "panic", r)
			report, err = nil, fmt.Errorf("%w: %v", ErrStatusFailed, r)
		}
	}()

	report = calculator.ComputeStatus(now, ownerID, bills, payments, s.opts)

	if s.metrics != nil {
		s.metrics.StatusRecords.WithLabelValues(string(calculator.BucketPayImmediately)).Add(float64(len(report.PayImmediately)))
		s.metrics.StatusRecords.WithLabelValues(string(calculator.BucketUpcoming)).Add(float64(len(report.Upcoming)))
		s.metrics.StatusRecords.WithLabelValues(string(calculator.BucketPaid)).Add(float64(len(report.Paid)))
	}
	return report, nil
}

// sanitizeBill applies the validation rules and defaults for a bill request.
func sanitizeBill(in BillInput) (*models.Bill, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("Field 'name' is required.")
	}
	if strings.TrimSpace(in.Type) == "" {
		return nil, invalid("Field 'type' is required.")
	}
	if strings.TrimSpace(in.StartDate) == "" {
		return nil, invalid("Field 'startDate' is required (YYYY-MM-DD).")
	}
	if _, err := calculator.ParseDateOnly(in.StartDate); err != nil {
		return nil, invalid("Field 'startDate' must be a valid date (YYYY-MM-DD).")
	}
	if in.Frequency == nil {
		return nil, invalid("Field 'frequency' is required.")
	}

	unit := models.FrequencyUnit(in.Frequency.Unit)
	switch unit {
	case models.UnitDay, models.UnitWeek, models.UnitMonth, models.UnitYear:
	default:
		return nil, invalid("Field 'frequency.unit' must be one of: day, week, month, year.")
	}

	interval, ok := positiveInt(in.Frequency.Interval)
	if !ok {
		return nil, invalid("Field 'frequency.interval' must be a positive integer.")
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.New().String()
	}

	return &models.Bill{
		ID:               id,
		Name:             in.Name,
		Type:             in.Type,
		Reference:        in.Reference,
		StartDate:        in.StartDate,
		Frequency:        models.Frequency{Unit: unit, Interval: interval},
		AutoPay:          boolOr(in.AutoPay, false),
		IsVariableAmount: boolOr(in.IsVariableAmount, false),
		IsActive:         boolOr(in.IsActive, true),
	}, nil
}

// positiveInt accepts any numeric form of a whole number above zero, so 3, 3.0
// and 3e0 are all 3.
func positiveInt(n json.Number) (int, bool) {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
