package models

import "time"

// SpecialOffer is a time-bounded promotional override of some tier prices.
// The interval is half-open: [StartAt, EndAt).
type SpecialOffer struct {
	ID      int64      `json:"id"`
	ThingID int64      `json:"thing_id"`
	Prices  TierPrices `json:"tier_prices"`
	StartAt time.Time  `json:"start_at"`
	EndAt   time.Time  `json:"end_at"`
}

// Contains reports whether t falls inside the offer window.
func (o SpecialOffer) Contains(t time.Time) bool {
	return !t.Before(o.StartAt) && t.Before(o.EndAt)
}

// OfferDraft is a submitted offer before its bounds are parsed.
type OfferDraft struct {
	ID      int64      `json:"id,omitempty"`
	Prices  TierPrices `json:"tier_prices"`
	StartAt string     `json:"start_at"`
	EndAt   string     `json:"end_at"`
}
