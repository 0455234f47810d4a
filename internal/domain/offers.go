package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/utils"
)

// ParseOfferDrafts turns submitted drafts into offers and runs the full
// offer-set validation. Checks run in a fixed order and the first violation
// wins: missing price, range, duplicate price, duplicate range, duplicate
// boundary, overlap.
func ParseOfferDrafts(thingID int64, drafts []models.OfferDraft) ([]models.SpecialOffer, error) {
	for i, d := range drafts {
		if err := checkPrices(i, d.ID, d.Prices); err != nil {
			return nil, err
		}
	}

	offers := make([]models.SpecialOffer, 0, len(drafts))
	for i, d := range drafts {
		start, err := utils.ParseTimestamp(d.StartAt)
		if err != nil {
			return nil, rangeError(i, d.ID, "start_at", err)
		}
		end, err := utils.ParseTimestamp(d.EndAt)
		if err != nil {
			return nil, rangeError(i, d.ID, "end_at", err)
		}
		offers = append(offers, models.SpecialOffer{
			ID:      d.ID,
			ThingID: thingID,
			Prices:  d.Prices.Clone(),
			StartAt: start,
			EndAt:   end,
		})
	}

	if err := ValidateOffers(offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// ValidateOffers enforces the scheduling invariants over a whole offer set.
// It never mutates its input.
func ValidateOffers(offers []models.SpecialOffer) error {
	for i, o := range offers {
		if err := checkPrices(i, o.ID, o.Prices); err != nil {
			return err
		}
	}

	for i, o := range offers {
		if o.StartAt.IsZero() || o.EndAt.IsZero() {
			return rangeError(i, o.ID, "", fmt.Errorf("both bounds are required"))
		}
		if !o.StartAt.Before(o.EndAt) {
			return ValidationError{
				Code: ReasonInvalidRange, Index: i, Other: -1, OfferID: o.ID,
				Msg: fmt.Sprintf("offer %d: start %s must be before end %s", i, o.StartAt.Format(time.RFC3339), o.EndAt.Format(time.RFC3339)),
			}
		}
	}

	for _, tier := range models.AllTiers {
		seen := map[int64]int{}
		for i, o := range offers {
			price, ok := o.Prices.Get(tier)
			if !ok {
				continue
			}
			if j, dup := seen[price]; dup {
				return ValidationError{
					Code: ReasonDuplicatePrice, Index: i, Other: j, OfferID: o.ID, Field: string(tier),
					Msg: fmt.Sprintf("offers %d and %d both set price %d", j, i, price),
				}
			}
			seen[price] = i
		}
	}

	type span struct{ start, end int64 }
	ranges := map[span]int{}
	for i, o := range offers {
		key := span{o.StartAt.UnixNano(), o.EndAt.UnixNano()}
		if j, dup := ranges[key]; dup {
			return ValidationError{
				Code: ReasonDuplicateRange, Index: i, Other: j, OfferID: o.ID,
				Msg: fmt.Sprintf("offers %d and %d share the same date range", j, i),
			}
		}
		ranges[key] = i
	}

	starts := map[int64]int{}
	ends := map[int64]int{}
	for i, o := range offers {
		if j, dup := starts[o.StartAt.UnixNano()]; dup {
			return ValidationError{
				Code: ReasonDuplicateBoundary, Index: i, Other: j, OfferID: o.ID, Field: "start_at",
				Msg: fmt.Sprintf("offers %d and %d start at the same time", j, i),
			}
		}
		starts[o.StartAt.UnixNano()] = i
		if j, dup := ends[o.EndAt.UnixNano()]; dup {
			return ValidationError{
				Code: ReasonDuplicateBoundary, Index: i, Other: j, OfferID: o.ID, Field: "end_at",
				Msg: fmt.Sprintf("offers %d and %d end at the same time", j, i),
			}
		}
		ends[o.EndAt.UnixNano()] = i
	}

	order := make([]int, len(offers))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return offers[order[a]].StartAt.Before(offers[order[b]].StartAt)
	})
	for k := 1; k < len(order); k++ {
		prev, cur := offers[order[k-1]], offers[order[k]]
		// back-to-back (prev.EndAt == cur.StartAt) is allowed
		if prev.EndAt.After(cur.StartAt) {
			return ValidationError{
				Code: ReasonOverlap, Index: order[k], Other: order[k-1], OfferID: cur.ID,
				Msg: fmt.Sprintf("offer %d overlaps offer %d", order[k], order[k-1]),
			}
		}
	}

	return nil
}

// IntervalsOverlap is the pairwise overlap rule for half-open intervals.
func IntervalsOverlap(a, b models.SpecialOffer) bool {
	return a.StartAt.Before(b.EndAt) && b.StartAt.Before(a.EndAt)
}

func checkPrices(i int, id int64, prices models.TierPrices) error {
	if len(prices) == 0 {
		return ValidationError{
			Code: ReasonMissingPrice, Index: i, Other: -1, OfferID: id,
			Msg: fmt.Sprintf("offer %d sets no tier price", i),
		}
	}
	for tier := range prices {
		if !tier.Valid() {
			return ValidationError{
				Code: ReasonInvalidTier, Index: i, Other: -1, OfferID: id, Field: string(tier),
				Msg: fmt.Sprintf("offer %d uses unknown tier", i),
			}
		}
	}
	for _, tier := range models.AllTiers {
		if price, ok := prices[tier]; ok && price < 0 {
			return ValidationError{
				Code: ReasonInvalidPrice, Index: i, Other: -1, OfferID: id, Field: string(tier),
				Msg: fmt.Sprintf("offer %d has a negative price", i),
			}
		}
	}
	return nil
}

func rangeError(i int, id int64, field string, err error) error {
	return ValidationError{
		Code: ReasonInvalidRange, Index: i, Other: -1, OfferID: id, Field: field,
		Msg: fmt.Sprintf("offer %d has an unusable date bound", i), Err: err,
	}
}
