package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billminder/internal/calculator"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/metrics"
	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/notify"
)

type staticOwners struct {
	owners []string
	err    error
}

func (s staticOwners) ListOwners(context.Context) ([]string, error) {
	return s.owners, s.err
}

type statusFunc func(ownerID string) (*models.StatusReport, error)

func (f statusFunc) StatusAt(_ context.Context, ownerID string, _ time.Time) (*models.StatusReport, error) {
	return f(ownerID)
}

type recordingNotifier struct {
	got []notify.Reminder
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, rem notify.Reminder) error {
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, rem)
	return nil
}

var jobNow = time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC)

func reports() statusFunc {
	return func(ownerID string) (*models.StatusReport, error) {
		report := models.NewStatusReport()
		switch ownerID {
		case "alice":
			report.PayImmediately = append(report.PayImmediately, models.StatusRecord{ID: "rent", Name: "Rent"})
		case "bob":
			report.Paid = append(report.Paid, models.StatusRecord{ID: "gym", Name: "Gym"})
		case "carol":
			return nil, errors.New("store unavailable")
		case "dave":
			report.Upcoming = append(report.Upcoming, models.StatusRecord{ID: "water", Name: "Water"})
		}
		return report, nil
	}
}

func TestReminderJobRun(t *testing.T) {
	n := &recordingNotifier{}
	m := metrics.New()
	job := NewReminderJob(
		staticOwners{owners: []string{"alice", "bob", "carol", "dave"}},
		reports(), n, clock.NewFake(jobNow), calculator.ReferenceZone(-5), m,
	)

	sent, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	require.Len(t, n.got, 2)
	assert.Equal(t, "alice", n.got[0].OwnerID)
	assert.Equal(t, "2024-03-10", n.got[0].AsOf)
	assert.Equal(t, "dave", n.got[1].OwnerID)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RemindersSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReminderErrors))
	assert.Equal(t, float64(jobNow.Unix()), testutil.ToFloat64(m.ReminderLastRun))
}

func TestReminderJobListOwnersFails(t *testing.T) {
	job := NewReminderJob(
		staticOwners{err: errors.New("boom")},
		reports(), &recordingNotifier{}, clock.NewFake(jobNow), time.UTC, nil,
	)

	_, err := job.Run(context.Background())
	assert.ErrorContains(t, err, "failed to list owners")
}

func TestReminderJobDeliveryFailureContinues(t *testing.T) {
	n := &recordingNotifier{err: errors.New("telegram down")}
	job := NewReminderJob(
		staticOwners{owners: []string{"alice", "dave"}},
		reports(), n, clock.NewFake(jobNow), time.UTC, nil,
	)

	sent, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRunWithRecovery(t *testing.T) {
	panicking := statusFunc(func(string) (*models.StatusReport, error) {
		panic("unexpected")
	})
	m := metrics.New()
	job := NewReminderJob(staticOwners{owners: []string{"alice"}}, panicking,
		&recordingNotifier{}, clock.NewFake(jobNow), time.UTC, m)

	assert.NotPanics(t, job.RunWithRecovery)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReminderErrors))
}

func TestScheduler(t *testing.T) {
	loc := calculator.ReferenceZone(-5)
	s := NewScheduler(loc)

	assert.Error(t, s.Register("bad", "not a schedule", func() {}))
	_, ok := s.Next()
	assert.False(t, ok)

	require.NoError(t, s.Register("reminders", "0 0 8 * * *", func() {}))
	s.Start()
	defer s.Stop()

	next, ok := s.Next()
	require.True(t, ok)
	local := next.In(loc)
	assert.Equal(t, 8, local.Hour())
	assert.Equal(t, 0, local.Minute())
}
