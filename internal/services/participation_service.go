package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/utils"
)

// ParticipationService drives the trip participation ledger: subscribe, approve,
// reject and record payments. Every mutation goes through the store's locked update.
type ParticipationService struct {
	Things         ThingStore
	People         PersonStore
	Participations ParticipationStore

	// RequireApprovalForPayment rejects payments on records that are not approved.
	RequireApprovalForPayment bool

	Logger    *zap.Logger
	RequestID string
	Now       func() time.Time
}

func (s ParticipationService) Get(ctx context.Context, id int64) (models.ParticipationRecord, error) {
	return s.Participations.GetParticipation(ctx, id)
}

// Subscribe creates the pending record of a person on a trip. A second
// subscription of the same pair fails with already-subscribed.
func (s ParticipationService) Subscribe(ctx context.Context, personID, tripID int64) (models.ParticipationRecord, error) {
	thing, err := s.Things.GetThing(ctx, tripID)
	if err != nil {
		return models.ParticipationRecord{}, err
	}
	if thing.Kind != models.KindTrip {
		return models.ParticipationRecord{}, domain.NotFoundError{Resource: "trip"}
	}
	if _, err := s.People.GetPerson(ctx, personID); err != nil {
		return models.ParticipationRecord{}, err
	}

	existing, err := s.Participations.FindParticipation(ctx, personID, tripID)
	switch {
	case err == nil:
		err = domain.StateError{
			Code: domain.StateAlreadySubscribed,
			Msg:  fmt.Sprintf("person %d is already subscribed to trip %d (record %d)", personID, tripID, existing.ID),
		}
		utils.LogFailure(s.Logger, s.RequestID, "participation", "subscribe", err)
		return models.ParticipationRecord{}, err
	case !domain.IsNotFound(err):
		return models.ParticipationRecord{}, err
	}

	rec, err := s.Participations.InsertParticipation(ctx, domain.NewParticipation(personID, tripID, nowOrDefault(s.Now)))
	if err != nil {
		utils.LogFailure(s.Logger, s.RequestID, "participation", "subscribe", err,
			zap.Int64("person_id", personID), zap.Int64("trip_id", tripID))
		return models.ParticipationRecord{}, err
	}
	utils.LogEvent(s.Logger, s.RequestID, "participation", "subscribe",
		zap.Int64("participation_id", rec.ID),
		zap.Int64("person_id", personID),
		zap.Int64("trip_id", tripID))
	return rec, nil
}

// Approve moves the record to approved, stamping the acting admin. The price
// resolved now decides whether a free trip is settled on the spot.
func (s ParticipationService) Approve(ctx context.Context, actor *domain.Actor, id int64) (models.ParticipationRecord, error) {
	if _, err := domain.RequireActor(actor); err != nil {
		return models.ParticipationRecord{}, err
	}
	now := nowOrDefault(s.Now)

	current, err := s.Participations.GetParticipation(ctx, id)
	if err != nil {
		return models.ParticipationRecord{}, err
	}
	quote, err := s.resolve(ctx, current, now)
	if err != nil {
		return models.ParticipationRecord{}, err
	}

	rec, err := s.Participations.UpdateParticipation(ctx, id, func(cur models.ParticipationRecord) (models.ParticipationRecord, error) {
		return domain.Approve(cur, actor, quote.Amount, now)
	})
	if err != nil {
		utils.LogFailure(s.Logger, s.RequestID, "participation", "approve", err, zap.Int64("participation_id", id))
		return models.ParticipationRecord{}, err
	}
	utils.LogEvent(s.Logger, s.RequestID, "participation", "approve",
		zap.Int64("participation_id", id),
		zap.Int64("actor_id", actor.UserID),
		zap.String("payment_status", string(rec.PaymentStatus)))
	return rec, nil
}

// Reject moves the record to rejected. Earlier approval stamps are kept.
func (s ParticipationService) Reject(ctx context.Context, actor *domain.Actor, id int64) (models.ParticipationRecord, error) {
	if _, err := domain.RequireActor(actor); err != nil {
		return models.ParticipationRecord{}, err
	}

	rec, err := s.Participations.UpdateParticipation(ctx, id, func(cur models.ParticipationRecord) (models.ParticipationRecord, error) {
		return domain.Reject(cur, actor)
	})
	if err != nil {
		utils.LogFailure(s.Logger, s.RequestID, "participation", "reject", err, zap.Int64("participation_id", id))
		return models.ParticipationRecord{}, err
	}
	utils.LogEvent(s.Logger, s.RequestID, "participation", "reject",
		zap.Int64("participation_id", id),
		zap.Int64("actor_id", actor.UserID))
	return rec, nil
}

// RecordPayment adds amount to the record. The person's price resolved now is a
// hard ceiling on the running total; a rejected payment changes nothing.
func (s ParticipationService) RecordPayment(ctx context.Context, actor *domain.Actor, id, amount int64) (models.ParticipationRecord, error) {
	admin, err := domain.RequireActor(actor)
	if err != nil {
		return models.ParticipationRecord{}, err
	}
	if amount <= 0 {
		return models.ParticipationRecord{}, domain.StateError{
			Code: domain.StateInvalidPaymentAmount,
			Msg:  fmt.Sprintf("payment amount must be positive, got %d", amount),
		}
	}
	now := nowOrDefault(s.Now)

	current, err := s.Participations.GetParticipation(ctx, id)
	if err != nil {
		return models.ParticipationRecord{}, err
	}
	quote, err := s.resolve(ctx, current, now)
	if err != nil {
		return models.ParticipationRecord{}, err
	}

	rec, err := s.Participations.UpdateParticipation(ctx, id, func(cur models.ParticipationRecord) (models.ParticipationRecord, error) {
		if s.RequireApprovalForPayment && cur.ApprovalStatus != models.ApprovalApproved {
			return cur, domain.StateError{
				Code: domain.StateNotApproved,
				Msg:  fmt.Sprintf("participation %d is %s", cur.ID, cur.ApprovalStatus),
			}
		}
		return domain.ApplyPayment(cur, amount, quote.Amount)
	})
	if err != nil {
		utils.LogFailure(s.Logger, s.RequestID, "participation", "record_payment", err,
			zap.Int64("participation_id", id),
			zap.Int64("amount", amount),
			zap.Int64("price", quote.Amount))
		return models.ParticipationRecord{}, err
	}
	utils.LogEvent(s.Logger, s.RequestID, "participation", "record_payment",
		zap.Int64("participation_id", id),
		zap.Int64("amount", amount),
		zap.Int64("amount_paid", rec.AmountPaid),
		zap.Int64("price", quote.Amount),
		zap.String("payment_status", string(rec.PaymentStatus)),
		zap.Int64("actor_id", admin.UserID))
	return rec, nil
}

// resolve prices the record's trip for its person's tier.
func (s ParticipationService) resolve(ctx context.Context, rec models.ParticipationRecord, at time.Time) (models.PriceQuote, error) {
	trip, err := s.Things.GetThing(ctx, rec.TripID)
	if err != nil {
		return models.PriceQuote{}, err
	}
	person, err := s.People.GetPerson(ctx, rec.PersonID)
	if err != nil {
		return models.PriceQuote{}, err
	}
	return domain.ResolvePrice(trip, person.Tier, at), nil
}
