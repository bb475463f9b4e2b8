package models

// StatusRecord is the status view of one active bill for the current evaluation.
type StatusRecord struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Reference        string    `json:"reference"`
	AutoPay          bool      `json:"autoPay"`
	IsVariableAmount bool      `json:"isVariableAmount"`
	IsActive         bool      `json:"isActive"`
	StartDate        string    `json:"startDate"`
	Frequency        Frequency `json:"frequency"`

	// LastAmount is the amount of the most recent payment for the bill, across all time.
	LastAmount float64 `json:"lastAmount"`

	PaidThisMonth bool     `json:"paidThisMonth"`
	PaidAt        *string  `json:"paidAt"`
	PaidAmount    *float64 `json:"paidAmount"`

	// DueDate is the due date shown for this evaluation, formatted YYYY-MM-DD.
	DueDate string `json:"dueDate"`

	// DaysOverdue is only set for bills in the pay-immediately bucket.
	DaysOverdue *int `json:"daysOverdue,omitempty"`
}

// StatusReport partitions the relevant active bills into three buckets.
// A bill appears in at most one bucket.
type StatusReport struct {
	PayImmediately []StatusRecord `json:"payImmediately"`
	Upcoming       []StatusRecord `json:"upcoming"`
	Paid           []StatusRecord `json:"paid"`
}

// NewStatusReport returns a report with empty, non-nil buckets.
func NewStatusReport() *StatusReport {
	return &StatusReport{
		PayImmediately: []StatusRecord{},
		Upcoming:       []StatusRecord{},
		Paid:           []StatusRecord{},
	}
}

// Len returns the number of records across all buckets.
func (r *StatusReport) Len() int {
	return len(r.PayImmediately) + len(r.Upcoming) + len(r.Paid)
}
