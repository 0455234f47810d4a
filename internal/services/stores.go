package services

import (
	"context"
	"time"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/utils"
)

type ThingStore interface {
	GetThing(ctx context.Context, id int64) (models.SellableThing, error)
}

type OfferStore interface {
	ListOffers(ctx context.Context, thingID int64) ([]models.SpecialOffer, error)
	// ReplaceOffers swaps the whole set atomically.
	ReplaceOffers(ctx context.Context, thingID int64, offers []models.SpecialOffer) ([]models.SpecialOffer, error)
}

type PersonStore interface {
	GetPerson(ctx context.Context, id int64) (models.Person, error)
}

// ParticipationStore persists ledger records. InsertParticipation must reject a
// second record for the same (person, trip) pair with StateError already-subscribed,
// and UpdateParticipation must hold the record exclusively while fn runs.
type ParticipationStore interface {
	GetParticipation(ctx context.Context, id int64) (models.ParticipationRecord, error)
	FindParticipation(ctx context.Context, personID, tripID int64) (models.ParticipationRecord, error)
	InsertParticipation(ctx context.Context, rec models.ParticipationRecord) (models.ParticipationRecord, error)
	UpdateParticipation(ctx context.Context, id int64, fn func(models.ParticipationRecord) (models.ParticipationRecord, error)) (models.ParticipationRecord, error)
	ListParticipations(ctx context.Context, tripID int64) ([]models.ParticipationRecord, error)
}

type StoreOrderStore interface {
	ListStoreOrderDemand(ctx context.Context) ([]models.DemandRecord, error)
}

// Store is everything the engine needs from durable storage.
type Store interface {
	ThingStore
	OfferStore
	PersonStore
	ParticipationStore
	StoreOrderStore
}

func nowOrDefault(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return utils.NowUTC()
}
