package domain

import (
	"time"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

// ResolvePrice returns the effective price of thing for tier at the given time.
// An offer active at `at` wins when it prices the tier; otherwise the base
// table applies. The offer set is assumed valid (no overlaps), so at most one
// offer can be active.
func ResolvePrice(thing models.SellableThing, tier models.PricingTier, at time.Time) models.PriceQuote {
	q := models.PriceQuote{
		ThingID: thing.ID,
		Tier:    tier,
		At:      at,
		Amount:  thing.Base.Price(tier),
		Source:  models.SourceBase,
	}
	for _, o := range thing.Offers {
		if !o.Contains(at) {
			continue
		}
		if price, ok := o.Prices.Get(tier); ok {
			q.Amount = price
			q.Source = models.SourceOffer
			q.OfferID = o.ID
		}
		break
	}
	return q
}
