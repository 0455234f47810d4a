package domain

import (
	"sort"
	"strings"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

// AggregateDemand folds records into per-thing counts, skipping cancelled ones.
// The result is ordered by thing id.
func AggregateDemand(records []models.DemandRecord) []models.DemandSummary {
	byThing := map[int64]*models.DemandSummary{}
	for _, r := range records {
		if r.Cancelled {
			continue
		}
		qty := r.Quantity
		if qty <= 0 {
			qty = 1
		}
		s, ok := byThing[r.ThingID]
		if !ok {
			s = &models.DemandSummary{ThingID: r.ThingID}
			byThing[r.ThingID] = s
		}
		switch r.Status {
		case models.DemandPending:
			s.Pending += qty
		case models.DemandApproved:
			s.Approved += qty
		case models.DemandFulfilled:
			s.Fulfilled += qty
		default:
			continue
		}
		s.Total += qty
	}

	out := make([]models.DemandSummary, 0, len(byThing))
	for _, s := range byThing {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ThingID < out[j].ThingID })
	return out
}

// ParticipationDemand maps a trip registration onto a demand record.
func ParticipationDemand(rec models.ParticipationRecord) models.DemandRecord {
	d := models.DemandRecord{ThingID: rec.TripID, Kind: models.KindTrip, Quantity: 1}
	switch rec.ApprovalStatus {
	case models.ApprovalRejected:
		d.Cancelled = true
	case models.ApprovalApproved:
		d.Status = models.DemandApproved
		if rec.PaymentStatus == models.PaymentPaid {
			d.Status = models.DemandFulfilled
		}
	default:
		d.Status = models.DemandPending
	}
	return d
}

// StoreOrderDemand maps one store order line onto a demand record using the
// status of its order. Unknown statuses count as pending.
func StoreOrderDemand(itemID int64, orderStatus string, quantity int64) models.DemandRecord {
	d := models.DemandRecord{ThingID: itemID, Kind: models.KindStoreItem, Quantity: quantity, Status: models.DemandPending}
	switch strings.ToLower(strings.TrimSpace(orderStatus)) {
	case "cancelled", "canceled", "rejected":
		d.Cancelled = true
	case "approved":
		d.Status = models.DemandApproved
	case "fulfilled", "delivered", "completed":
		d.Status = models.DemandFulfilled
	}
	return d
}
