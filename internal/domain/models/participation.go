package models

import "time"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

// ParticipationRecord is one person's subscription to one trip.
// ApprovedAt and ApprovedBy are historical stamps of the last approval;
// ApprovalStatus is the current state.
type ParticipationRecord struct {
	ID             int64          `json:"id"`
	PersonID       int64          `json:"person_id"`
	TripID         int64          `json:"trip_id"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	PaymentStatus  PaymentStatus  `json:"payment_status"`
	AmountPaid     int64          `json:"amount_paid"`
	RegisteredAt   time.Time      `json:"registered_at"`
	ApprovedAt     *time.Time     `json:"approved_at,omitempty"`
	ApprovedBy     *int64         `json:"approved_by,omitempty"`
}
