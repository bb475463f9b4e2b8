// Package notify delivers reminder digests built from the status view.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/billminder/internal/models"
)

// Reminder is the digest sent to one owner.
type Reminder struct {
	OwnerID string
	// AsOf is the evaluation date, YYYY-MM-DD.
	AsOf           string
	PayImmediately []models.StatusRecord
	Upcoming       []models.StatusRecord
}

// Empty reports whether there is nothing to remind about.
func (r Reminder) Empty() bool {
	return len(r.PayImmediately) == 0 && len(r.Upcoming) == 0
}

// Notifier delivers a reminder.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// FormatReminder renders a reminder as plain text, one bill per line.
func FormatReminder(r Reminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bills for %s (%s)\n", r.OwnerID, r.AsOf)

	if len(r.PayImmediately) > 0 {
		b.WriteString("\nPay now:\n")
		for _, rec := range r.PayImmediately {
			overdue := 0
			if rec.DaysOverdue != nil {
				overdue = *rec.DaysOverdue
			}
			fmt.Fprintf(&b, "- %s, due %s", rec.Name, rec.DueDate)
			if overdue > 0 {
				fmt.Fprintf(&b, " (%d days overdue)", overdue)
			}
			writeAmount(&b, rec)
			b.WriteString("\n")
		}
	}

	if len(r.Upcoming) > 0 {
		b.WriteString("\nComing up:\n")
		for _, rec := range r.Upcoming {
			fmt.Fprintf(&b, "- %s, due %s", rec.Name, rec.DueDate)
			writeAmount(&b, rec)
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeAmount(b *strings.Builder, rec models.StatusRecord) {
	if rec.AutoPay {
		b.WriteString(" [autopay]")
	}
	if rec.LastAmount > 0 {
		prefix := ""
		if rec.IsVariableAmount {
			prefix = "~"
		}
		fmt.Fprintf(b, " last %s%.2f", prefix, rec.LastAmount)
	}
}

// LogNotifier writes reminders to the structured log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, r Reminder) error {
	slog.Info("Bill reminder",
		"owner_id", r.OwnerID,
		"as_of", r.AsOf,
		"pay_immediately", len(r.PayImmediately),
		"upcoming", len(r.Upcoming),
		"text", FormatReminder(r),
	)
	return nil
}
