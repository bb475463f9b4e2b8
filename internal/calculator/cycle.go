package calculator

import (
	"time"

	"github.com/mmynk/billminder/internal/models"
)

// Cycle is one recurrence period of a bill: CurrentDue is inclusive, NextDue exclusive.
type Cycle struct {
	CurrentDue time.Time
	NextDue    time.Time
}

// ComputeCycle finds the most recent due date on or before today and the one after it.
// It returns false when today is before start, i.e. the bill has not started yet.
//
// The scan steps from start one interval at a time. Each step is taken from the
// previous due date, so a clamped month carries forward: Jan 31, Feb 29, Mar 29.
func ComputeCycle(today, start time.Time, unit models.FrequencyUnit, interval int) (Cycle, bool) {
	if today.Before(start) {
		return Cycle{}, false
	}

	current := start
	next := AddInterval(current, unit, interval)
	for !next.After(today) {
		current = next
		next = AddInterval(current, unit, interval)
	}

	return Cycle{CurrentDue: current, NextDue: next}, true
}
