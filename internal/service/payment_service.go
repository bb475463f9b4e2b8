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

	"github.com/mmynk/billminder/internal/calculator"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/metrics"
	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/storage"
)

// TimestampLayout is RFC 3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// PaymentInput is the accepted shape of a payment request. Amount may be a
// JSON number or a numeric string.
type PaymentInput struct {
	BillID string      `json:"billId"`
	Amount json.Number `json:"amount"`
}

// PaymentService records payments and builds the payment history.
type PaymentService struct {
	store   storage.Store
	clock   clock.Clock
	loc     *time.Location
	metrics *metrics.Collector
}

// NewPaymentService creates a PaymentService. loc is the zone months are
// grouped in; m may be nil.
func NewPaymentService(store storage.Store, clk clock.Clock, loc *time.Location, m *metrics.Collector) *PaymentService {
	return &PaymentService{store: store, clock: clk, loc: loc, metrics: m}
}

// LogPayment records a payment by the owner against a bill. The bill reference
// is not checked.
func (s *PaymentService) LogPayment(ctx context.Context, ownerID string, in PaymentInput) (*models.Payment, error) {
	billID := strings.TrimSpace(in.BillID)
	if billID == "" {
		return nil, invalid("billId is required")
	}

	amount, err := strconv.ParseFloat(in.Amount.String(), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, invalid("amount must be a non-negative number")
	}

	now := s.clock.Now().UTC()
	payment := &models.Payment{
		ID:        fmt.Sprintf("%s-%d", billID, now.UnixMilli()),
		BillID:    billID,
		OwnerID:   ownerID,
		Amount:    amount,
		Timestamp: now.Format(TimestampLayout),
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PaymentsLogged.Inc()
	}
	slog.Info("Payment logged", "payment_id", payment.ID, "bill_id", billID, "owner_id", ownerID)
	return payment, nil
}

// History groups the owner's payments by month.
func (s *PaymentService) History(ctx context.Context, ownerID string) (*models.PaymentHistory, error) {
	payments, err := s.store.ListPaymentsFor(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	bills, err := s.store.ListBillsFor(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	return calculator.GroupPaymentsByMonth(payments, bills, s.loc), nil
}
