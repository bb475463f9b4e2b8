package models

// Payment records that an amount was paid against a bill.
// Payments are created once and never modified or deleted.
type Payment struct {
	// ID is derived from the bill ID and the creation time in milliseconds.
	ID string `bson:"_id" json:"id"`

	// BillID references Bill.ID. The reference is not enforced.
	BillID string `bson:"billId" json:"billId"`

	// OwnerID is copied from the authenticated caller.
	OwnerID string `bson:"ownerId" json:"ownerId"`

	Amount float64 `bson:"amount" json:"amount"`

	// Timestamp is the RFC 3339 instant the payment was recorded.
	Timestamp string `bson:"timestamp" json:"timestamp"`
}
