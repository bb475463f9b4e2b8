// Package jobs runs scheduled background work: the daily bill reminder digest.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/billminder/internal/calculator"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/metrics"
	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/notify"
)

// OwnerLister lists every owner known to the store.
type OwnerLister interface {
	ListOwners(ctx context.Context) ([]string, error)
}

// StatusSource computes an owner's status view as of a given instant.
type StatusSource interface {
	StatusAt(ctx context.Context, ownerID string, now time.Time) (*models.StatusReport, error)
}

// ReminderJob evaluates every owner's bills and notifies those with bills to
// pay now or coming up.
type ReminderJob struct {
	owners   OwnerLister
	status   StatusSource
	notifier notify.Notifier
	clock    clock.Clock
	loc      *time.Location
	metrics  *metrics.Collector
}

// NewReminderJob creates a ReminderJob. m may be nil.
func NewReminderJob(owners OwnerLister, status StatusSource, notifier notify.Notifier, clk clock.Clock, loc *time.Location, m *metrics.Collector) *ReminderJob {
	return &ReminderJob{
		owners:   owners,
		status:   status,
		notifier: notifier,
		clock:    clk,
		loc:      loc,
		metrics:  m,
	}
}

// Run sends one digest per owner with something due. A failure for one owner
// is logged and does not stop the others; the returned error reports only a
// failure to list owners.
func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	now := j.clock.Now()
	asOf := calculator.FormatDate(calculator.Today(now, j.loc))

	if j.metrics != nil {
		j.metrics.ReminderLastRun.Set(float64(now.Unix()))
	}

	owners, err := j.owners.ListOwners(ctx)
	if err != nil {
		j.countError()
		return 0, fmt.Errorf("failed to list owners: %w", err)
	}

	sent := 0
	for _, ownerID := range owners {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		report, err := j.status.StatusAt(ctx, ownerID, now)
		if err != nil {
			j.countError()
			slog.Error("Reminder status failed", "owner_id", ownerID, "error", err)
			continue
		}

		reminder := notify.Reminder{
			OwnerID:        ownerID,
			AsOf:           asOf,
			PayImmediately: report.PayImmediately,
			Upcoming:       report.Upcoming,
		}
		if reminder.Empty() {
			continue
		}

		if err := j.notifier.Notify(ctx, reminder); err != nil {
			j.countError()
			slog.Error("Reminder delivery failed", "owner_id", ownerID, "error", err)
			continue
		}
		sent++
		if j.metrics != nil {
			j.metrics.RemindersSent.Inc()
		}
	}

	return sent, nil
}

// RunWithRecovery runs the job from the scheduler, logging instead of
// propagating errors and panics.
func (j *ReminderJob) RunWithRecovery() {
	defer func() {
		if r := recover(); r != nil {
			j.countError()
			slog.Error("Job panicked", "job", "SendReminders", "panic", r)
		}
	}()

	slog.Info("Starting job", "job", "SendReminders")
	sent, err := j.Run(context.Background())
	if err != nil {
		slog.Error("Job failed", "job", "SendReminders", "error", err)
		return
	}
	slog.Info("Job completed", "job", "SendReminders", "sent", sent)
}

func (j *ReminderJob) countError() {
	if j.metrics != nil {
		j.metrics.ReminderErrors.Inc()
	}
}
