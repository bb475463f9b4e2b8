package models

import "strings"

// FrequencyUnit is the step unit of a bill's recurrence.
type FrequencyUnit string

const (
	UnitDay   FrequencyUnit = "day"
	UnitWeek  FrequencyUnit = "week"
	UnitMonth FrequencyUnit = "month"
	UnitYear  FrequencyUnit = "year"
)

// ParseFrequencyUnit normalizes a unit name. The second result is false for
// anything outside day, week, month and year.
func ParseFrequencyUnit(s string) (FrequencyUnit, bool) {
	switch u := FrequencyUnit(strings.ToLower(strings.TrimSpace(s))); u {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return u, true
	default:
		return "", false
	}
}

// Frequency is the recurrence step: every Interval units of Unit.
type Frequency struct {
	Unit     FrequencyUnit `bson:"unit" json:"unit"`
	Interval int           `bson:"interval" json:"interval"`
}

// Bill represents a recurring bill owned by a single user.
//
// The due-date sequence of a bill is fully determined by StartDate and
// Frequency. Payments never shift it.
type Bill struct {
	// ID is the unique identifier for the bill (UUID unless supplied by the client).
	ID string `bson:"_id" json:"id"`

	// OwnerID identifies the user the bill belongs to.
	OwnerID string `bson:"ownerId" json:"ownerId"`

	Name      string `bson:"name" json:"name"`
	Type      string `bson:"type" json:"type"`
	Reference string `bson:"reference" json:"reference"`

	// StartDate is the first due date, formatted YYYY-MM-DD.
	StartDate string `bson:"startDate" json:"startDate"`

	Frequency Frequency `bson:"frequency" json:"frequency"`

	AutoPay          bool `bson:"autoPay" json:"autoPay"`
	IsVariableAmount bool `bson:"isVariableAmount" json:"isVariableAmount"`

	// IsActive must be true for the bill to show up in the status view.
	IsActive bool `bson:"isActive" json:"isActive"`

	// CreatedAt and UpdatedAt are Unix timestamps maintained by the store.
	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64 `bson:"updatedAt" json:"updatedAt"`
}
