// Package models defines the core domain models for billminder.
//
// # Records
//
// Two kinds of records are persisted per owner:
//   - Bill: a recurring obligation described by a start date and a frequency
//   - Payment: an immutable record that some amount was paid against a bill
//
// Every record carries the OwnerID of the authenticated user that created it.
// Storage backends only ever hand out records for a single owner.
//
// # Derived views
//
// The remaining types are computed, never stored:
//   - StatusRecord / StatusReport: the current-cycle classification of active bills
//   - HistoryMonth / PaymentHistory: payments grouped by calendar month
//
// # Design Principles
//
// 1. **Dates as text**: StartDate and Timestamp stay strings so that malformed stored
// data can be skipped per record instead of failing a whole load
// 2. **IDs, not pointers**: payments reference bills by ID and dangling references are tolerated
// 3. **One shape for the wire and the store**: json and bson tags share the same camelCase names
package models
