package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

func TestNewParticipation(t *testing.T) {
	now := june(1)
	rec := NewParticipation(5, 9, now)

	assert.Equal(t, int64(5), rec.PersonID)
	assert.Equal(t, int64(9), rec.TripID)
	assert.Equal(t, models.ApprovalPending, rec.ApprovalStatus)
	assert.Equal(t, models.PaymentPending, rec.PaymentStatus)
	assert.Zero(t, rec.AmountPaid)
	assert.True(t, rec.RegisteredAt.Equal(now))
	assert.Nil(t, rec.ApprovedAt)
}

func TestApplyPayment_Sequence(t *testing.T) {
	rec := NewParticipation(1, 1, june(1))

	rec, err := ApplyPayment(rec, 60, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(60), rec.AmountPaid)
	assert.Equal(t, models.PaymentPartiallyPaid, rec.PaymentStatus)

	rec, err = ApplyPayment(rec, 40, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.AmountPaid)
	assert.Equal(t, models.PaymentPaid, rec.PaymentStatus)

	after, err := ApplyPayment(rec, 1, 100)
	require.Error(t, err)
	assert.Equal(t, StatePaymentExceedsPrice, Code(err))
	assert.Equal(t, rec, after)
}

func TestApplyPayment_RejectsNonPositive(t *testing.T) {
	rec := NewParticipation(1, 1, june(1))
	for _, amount := range []int64{0, -5} {
		after, err := ApplyPayment(rec, amount, 100)
		require.Error(t, err)
		assert.True(t, IsState(err))
		assert.Equal(t, StateInvalidPaymentAmount, Code(err))
		assert.Equal(t, rec, after)
	}
}

func TestApplyPayment_NeverExceedsCeiling(t *testing.T) {
	rec := NewParticipation(1, 1, june(1))
	price := int64(250)
	var prev int64
	for _, inc := range []int64{30, 100, 200, 90, 50, 1, 40, 29} {
		next, err := ApplyPayment(rec, inc, price)
		if err == nil {
			rec = next
		}
		assert.GreaterOrEqual(t, rec.AmountPaid, prev)
		assert.LessOrEqual(t, rec.AmountPaid, price)
		assert.Equal(t, DerivePaymentStatus(rec.AmountPaid, price), rec.PaymentStatus)
		prev = rec.AmountPaid
	}
	assert.Equal(t, price, rec.AmountPaid)
	assert.Equal(t, models.PaymentPaid, rec.PaymentStatus)
}

func TestDerivePaymentStatus(t *testing.T) {
	assert.Equal(t, models.PaymentPending, DerivePaymentStatus(0, 100))
	assert.Equal(t, models.PaymentPartiallyPaid, DerivePaymentStatus(1, 100))
	assert.Equal(t, models.PaymentPaid, DerivePaymentStatus(100, 100))
}

func TestApproveThenReject_KeepsStamps(t *testing.T) {
	rec := NewParticipation(1, 1, june(1))
	admin := &Actor{UserID: 42, Role: "admin"}
	now := june(2).Add(3 * time.Hour)

	rec, err := Approve(rec, admin, 100, now)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, rec.ApprovalStatus)
	require.NotNil(t, rec.ApprovedAt)
	require.NotNil(t, rec.ApprovedBy)
	assert.True(t, rec.ApprovedAt.Equal(now))
	assert.Equal(t, int64(42), *rec.ApprovedBy)
	assert.Equal(t, models.PaymentPending, rec.PaymentStatus)

	rec, err = Reject(rec, &Actor{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, rec.ApprovalStatus)
	require.NotNil(t, rec.ApprovedAt)
	assert.True(t, rec.ApprovedAt.Equal(now))
	assert.Equal(t, int64(42), *rec.ApprovedBy)
}

func TestApprove_RequiresActor(t *testing.T) {
	rec := NewParticipation(1, 1, june(1))

	after, err := Approve(rec, nil, 100, june(2))
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Equal(t, rec, after)

	_, err = Approve(rec, &Actor{}, 100, june(2))
	assert.True(t, IsAuth(err))

	_, err = Reject(rec, nil)
	assert.True(t, IsAuth(err))
}

func TestApprove_AlreadyApprovedKeepsOriginalStamp(t *testing.T) {
	rec := NewParticipation(1, 1, june(1))
	rec, err := Approve(rec, &Actor{UserID: 1}, 100, june(2))
	require.NoError(t, err)

	again, err := Approve(rec, &Actor{UserID: 2}, 100, june(3))
	require.NoError(t, err)
	assert.Equal(t, rec, again)
}

func TestApprove_FreeTripIsSettled(t *testing.T) {
	rec := NewParticipation(1, 1, june(1))
	rec, err := Approve(rec, &Actor{UserID: 1}, 0, june(2))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, rec.PaymentStatus)
	assert.Zero(t, rec.AmountPaid)

	_, err = ApplyPayment(rec, 1, 0)
	assert.Equal(t, StatePaymentExceedsPrice, Code(err))
}

func TestApprove_RejectedCanBeApprovedAgain(t *testing.T) {
	rec := NewParticipation(1, 1, june(1))
	rec, err := Reject(rec, &Actor{UserID: 1})
	require.NoError(t, err)

	rec, err = Approve(rec, &Actor{UserID: 1}, 10, june(4))
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, rec.ApprovalStatus)
}
