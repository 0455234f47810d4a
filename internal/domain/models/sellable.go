package models

import "time"

// ThingKind distinguishes trips from store items. Both carry tiered prices and offers.
type ThingKind string

const (
	KindTrip      ThingKind = "trip"
	KindStoreItem ThingKind = "store_item"
)

// SellableThing is a trip or a store item.
type SellableThing struct {
	ID     int64          `json:"id"`
	Kind   ThingKind      `json:"kind"`
	Name   string         `json:"name"`
	Base   TierPriceTable `json:"base"`
	Offers []SpecialOffer `json:"offers,omitempty"`
}

// Person is the subset of a roster member the engine reads.
type Person struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Tier PricingTier `json:"tier"`
}

// PriceSource tells where a resolved price came from.
type PriceSource string

const (
	SourceBase  PriceSource = "base"
	SourceOffer PriceSource = "offer"
)

// PriceQuote is the outcome of resolving a price at a point in time.
type PriceQuote struct {
	ThingID int64       `json:"thing_id"`
	Tier    PricingTier `json:"tier"`
	At      time.Time   `json:"at"`
	Amount  int64       `json:"amount"`
	Source  PriceSource `json:"source"`
	OfferID int64       `json:"offer_id,omitempty"`
}
