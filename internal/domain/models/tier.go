package models

import (
	"fmt"
	"strings"
)

// PricingTier is a person's fare class. The set is closed.
type PricingTier string

const (
	TierNormal PricingTier = "normal"
	TierB      PricingTier = "tierB"
	TierC      PricingTier = "tierC"
)

// AllTiers lists every tier in a stable order.
var AllTiers = []PricingTier{TierNormal, TierB, TierC}

// ParsePricingTier maps a stored or submitted tier name onto the enum.
// Matching is case-insensitive; unknown names are an error, never a silent default.
func ParsePricingTier(s string) (PricingTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return TierNormal, nil
	case "tierb", "tier_b":
		return TierB, nil
	case "tierc", "tier_c":
		return TierC, nil
	}
	return "", fmt.Errorf("unknown pricing tier %q", s)
}

func (t PricingTier) Valid() bool {
	switch t {
	case TierNormal, TierB, TierC:
		return true
	}
	return false
}

// Column returns the persisted price column for the tier.
func (t PricingTier) Column() string {
	switch t {
	case TierB:
		return "price_tier_b"
	case TierC:
		return "price_tier_c"
	default:
		return "price_normal"
	}
}

// TierPrices holds one price per tier in minor units. A missing key means
// "not set" for that tier.
type TierPrices map[PricingTier]int64

// Get returns the price set for tier, if any.
func (p TierPrices) Get(t PricingTier) (int64, bool) {
	v, ok := p[t]
	return v, ok
}

// Clone returns an independent copy.
func (p TierPrices) Clone() TierPrices {
	if p == nil {
		return nil
	}
	out := make(TierPrices, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// TierPriceTable is the base price of a sellable thing per tier.
// The normal tier is mandatory and acts as the fallback.
type TierPriceTable struct {
	Prices TierPrices `json:"prices"`
}

// NewTierPriceTable builds a table from the three persisted columns.
// Nil pointers mean the tier has no dedicated base price.
func NewTierPriceTable(normal int64, tierB, tierC *int64) TierPriceTable {
	prices := TierPrices{TierNormal: normal}
	if tierB != nil {
		prices[TierB] = *tierB
	}
	if tierC != nil {
		prices[TierC] = *tierC
	}
	return TierPriceTable{Prices: prices}
}

// Validate is the data-entry check: normal must exist, nothing may be negative.
func (t TierPriceTable) Validate() error {
	if _, ok := t.Prices[TierNormal]; !ok {
		return fmt.Errorf("base price for tier %s is required", TierNormal)
	}
	for tier, price := range t.Prices {
		if !tier.Valid() {
			return fmt.Errorf("unknown pricing tier %q", tier)
		}
		if price < 0 {
			return fmt.Errorf("base price for tier %s must not be negative", tier)
		}
	}
	return nil
}

// Price returns the base price for tier, falling back to the normal tier.
func (t TierPriceTable) Price(tier PricingTier) int64 {
	if v, ok := t.Prices[tier]; ok {
		return v
	}
	return t.Prices[TierNormal]
}
