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

// PricingService resolves prices and owns the validated offer write path.
type PricingService struct {
	Things    ThingStore
	Offers    OfferStore
	People    PersonStore
	Logger    *zap.Logger
	RequestID string
	Now       func() time.Time
}

// Quote resolves the effective price of a thing for a tier at a point in time.
// A zero at means now.
func (s PricingService) Quote(ctx context.Context, thingID int64, tier models.PricingTier, at time.Time) (models.PriceQuote, error) {
	if !tier.Valid() {
		return models.PriceQuote{}, domain.ValidationError{
			Code:  domain.ReasonInvalidTier,
			Index: -1,
			Other: -1,
			Field: "tier",
			Msg:   fmt.Sprintf("unknown pricing tier %q", tier),
		}
	}
	if at.IsZero() {
		at = nowOrDefault(s.Now)
	}

	thing, err := s.Things.GetThing(ctx, thingID)
	if err != nil {
		return models.PriceQuote{}, err
	}
	q := domain.ResolvePrice(thing, tier, at.UTC())
	utils.LogEvent(s.Logger, s.RequestID, "pricing", "quote",
		zap.Int64("thing_id", thingID),
		zap.String("tier", string(tier)),
		zap.String("source", string(q.Source)),
		zap.Int64("amount", q.Amount))
	return q, nil
}

// QuoteForPerson resolves the price using the person's own tier.
func (s PricingService) QuoteForPerson(ctx context.Context, thingID, personID int64, at time.Time) (models.PriceQuote, error) {
	if s.People == nil {
		return models.PriceQuote{}, fmt.Errorf("pricing service has no person store")
	}
	person, err := s.People.GetPerson(ctx, personID)
	if err != nil {
		return models.PriceQuote{}, err
	}
	return s.Quote(ctx, thingID, person.Tier, at)
}

// ListOffers returns the committed offer set. Unknown things are NotFound.
func (s PricingService) ListOffers(ctx context.Context, thingID int64) ([]models.SpecialOffer, error) {
	thing, err := s.Things.GetThing(ctx, thingID)
	if err != nil {
		return nil, err
	}
	if thing.Offers == nil {
		return []models.SpecialOffer{}, nil
	}
	return thing.Offers, nil
}

// ReplaceOffers validates the submitted set and, only if it is valid, swaps it in
// as the thing's new offer set. A rejected set never reaches the store.
func (s PricingService) ReplaceOffers(ctx context.Context, actor *domain.Actor, thingID int64, drafts []models.OfferDraft) ([]models.SpecialOffer, error) {
	admin, err := domain.RequireActor(actor)
	if err != nil {
		return nil, err
	}

	offers, err := domain.ParseOfferDrafts(thingID, drafts)
	if err != nil {
		utils.LogFailure(s.Logger, s.RequestID, "pricing", "replace_offers", err,
			zap.Int64("thing_id", thingID),
			zap.String("reason", domain.Code(err)))
		return nil, err
	}

	saved, err := s.Offers.ReplaceOffers(ctx, thingID, offers)
	if err != nil {
		utils.LogFailure(s.Logger, s.RequestID, "pricing", "replace_offers", err, zap.Int64("thing_id", thingID))
		return nil, err
	}
	utils.LogEvent(s.Logger, s.RequestID, "pricing", "replace_offers",
		zap.Int64("thing_id", thingID),
		zap.Int("offers", len(saved)),
		zap.Int64("actor_id", admin.UserID))
	return saved, nil
}
