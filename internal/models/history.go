package models

// HistoryPayment is one payment as listed in the monthly history.
type HistoryPayment struct {
	ID       string  `json:"id"`
	BillID   string  `json:"billId"`
	BillName string  `json:"billName"`
	PaidAt   string  `json:"paidAt"`
	Amount   float64 `json:"amount"`
}

// HistoryMonth groups the payments of one calendar month.
type HistoryMonth struct {
	// Key is the month formatted YYYY-MM.
	Key string `json:"key"`

	// Label is the display form of the month, e.g. "Mar 2024".
	Label string `json:"label"`

	TotalPaid float64          `json:"totalPaid"`
	Payments  []HistoryPayment `json:"payments"`
}

// PaymentHistory is the response shape of the payment history endpoint.
type PaymentHistory struct {
	Months []HistoryMonth `json:"months"`
}
