package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/utils"
)

// DemandService builds the read-only demand report over trip registrations and store orders.
type DemandService struct {
	Participations ParticipationStore
	Orders         StoreOrderStore
	Logger         *zap.Logger
	RequestID      string
}

// Report aggregates demand per thing. kind narrows the report to trips or store
// items; an empty kind covers both.
func (s DemandService) Report(ctx context.Context, kind string) ([]models.DemandSummary, error) {
	k := models.ThingKind(strings.ToLower(strings.TrimSpace(kind)))
	if k != "" && k != models.KindTrip && k != models.KindStoreItem {
		return nil, domain.ValidationError{
			Code:  domain.ReasonInvalidKind,
			Index: -1,
			Other: -1,
			Field: "kind",
			Msg:   fmt.Sprintf("unknown kind %q", kind),
		}
	}

	records := []models.DemandRecord{}
	if k == "" || k == models.KindTrip {
		recs, err := s.Participations.ListParticipations(ctx, 0)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			records = append(records, domain.ParticipationDemand(r))
		}
	}
	if k == "" || k == models.KindStoreItem {
		lines, err := s.Orders.ListStoreOrderDemand(ctx)
		if err != nil {
			return nil, err
		}
		records = append(records, lines...)
	}

	out := domain.AggregateDemand(records)
	utils.LogEvent(s.Logger, s.RequestID, "demand", "report",
		zap.String("kind", string(k)),
		zap.Int("records", len(records)),
		zap.Int("things", len(out)))
	return out, nil
}
