package domain

import (
	"fmt"
	"time"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

// NewParticipation opens a record for (person, trip) in its initial state.
func NewParticipation(personID, tripID int64, now time.Time) models.ParticipationRecord {
	return models.ParticipationRecord{
		PersonID:       personID,
		TripID:         tripID,
		ApprovalStatus: models.ApprovalPending,
		PaymentStatus:  models.PaymentPending,
		RegisteredAt:   now.UTC(),
	}
}

// Approve moves a record into approved, stamping who and when.
// Approving an already approved record leaves it untouched. A free trip
// (price 0) is settled on approval.
func Approve(rec models.ParticipationRecord, actor *Actor, price int64, now time.Time) (models.ParticipationRecord, error) {
	a, err := RequireActor(actor)
	if err != nil {
		return rec, err
	}
	if rec.ApprovalStatus == models.ApprovalApproved {
		return rec, nil
	}
	at := now.UTC()
	by := a.UserID
	rec.ApprovalStatus = models.ApprovalApproved
	rec.ApprovedAt = &at
	rec.ApprovedBy = &by
	if price == 0 && rec.AmountPaid == 0 {
		rec.PaymentStatus = models.PaymentPaid
	}
	return rec, nil
}

// Reject moves a record into rejected. Approval stamps are kept as history.
func Reject(rec models.ParticipationRecord, actor *Actor) (models.ParticipationRecord, error) {
	if _, err := RequireActor(actor); err != nil {
		return rec, err
	}
	rec.ApprovalStatus = models.ApprovalRejected
	return rec, nil
}

// ApplyPayment adds increment to the running total under the price ceiling.
// On error the returned record equals the input.
func ApplyPayment(rec models.ParticipationRecord, increment, price int64) (models.ParticipationRecord, error) {
	if increment <= 0 {
		return rec, StateError{Code: StateInvalidPaymentAmount, Msg: fmt.Sprintf("payment amount must be positive, got %d", increment)}
	}
	total := rec.AmountPaid + increment
	if total > price {
		return rec, StateError{
			Code: StatePaymentExceedsPrice,
			Msg:  fmt.Sprintf("paid %d + %d would exceed price %d", rec.AmountPaid, increment, price),
		}
	}
	rec.AmountPaid = total
	rec.PaymentStatus = DerivePaymentStatus(total, price)
	return rec, nil
}

// DerivePaymentStatus computes payment_status from the running total.
func DerivePaymentStatus(total, price int64) models.PaymentStatus {
	switch {
	case total <= 0:
		return models.PaymentPending
	case total >= price:
		return models.PaymentPaid
	default:
		return models.PaymentPartiallyPaid
	}
}
