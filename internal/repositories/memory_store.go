package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

type pairKey struct {
	personID int64
	tripID   int64
}

type storeOrderLine struct {
	itemID   int64
	status   string
	quantity int64
}

// MemoryStore keeps everything in process. It satisfies the same contract as the
// MySQL repositories; a single mutex gives every write exclusive access.
type MemoryStore struct {
	mu sync.RWMutex

	things         map[int64]models.SellableThing
	offers         map[int64][]models.SpecialOffer
	people         map[int64]models.Person
	participations map[int64]models.ParticipationRecord
	byPair         map[pairKey]int64
	orderLines     []storeOrderLine

	nextOfferID         int64
	nextParticipationID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		things:         make(map[int64]models.SellableThing),
		offers:         make(map[int64][]models.SpecialOffer),
		people:         make(map[int64]models.Person),
		participations: make(map[int64]models.ParticipationRecord),
		byPair:         make(map[pairKey]int64),
	}
}

// PutThing adds or replaces a sellable thing. Offers on the value are ignored;
// use ReplaceOffers for those.
func (s *MemoryStore) PutThing(thing models.SellableThing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	thing.Base = models.TierPriceTable{Prices: thing.Base.Prices.Clone()}
	thing.Offers = nil
	s.things[thing.ID] = thing
}

func (s *MemoryStore) PutPerson(p models.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people[p.ID] = p
}

// AddStoreOrderLine records one line of a store order with its order status.
func (s *MemoryStore) AddStoreOrderLine(itemID int64, orderStatus string, quantity int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderLines = append(s.orderLines, storeOrderLine{itemID: itemID, status: orderStatus, quantity: quantity})
}

func (s *MemoryStore) GetThing(_ context.Context, id int64) (models.SellableThing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	thing, ok := s.things[id]
	if !ok {
		return models.SellableThing{}, domain.NotFoundError{Resource: "sellable thing"}
	}
	thing.Base = models.TierPriceTable{Prices: thing.Base.Prices.Clone()}
	thing.Offers = cloneOffers(s.offers[id])
	return thing, nil
}

func (s *MemoryStore) ListOffers(_ context.Context, thingID int64) ([]models.SpecialOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOffers(s.offers[thingID]), nil
}

func (s *MemoryStore) ReplaceOffers(_ context.Context, thingID int64, offers []models.SpecialOffer) ([]models.SpecialOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.things[thingID]; !ok {
		return nil, domain.NotFoundError{Resource: "sellable thing"}
	}

	saved := make([]models.SpecialOffer, 0, len(offers))
	for _, o := range offers {
		s.nextOfferID++
		o.ID = s.nextOfferID
		o.ThingID = thingID
		o.Prices = o.Prices.Clone()
		o.StartAt = o.StartAt.UTC()
		o.EndAt = o.EndAt.UTC()
		saved = append(saved, o)
	}
	sort.SliceStable(saved, func(i, j int) bool { return saved[i].StartAt.Before(saved[j].StartAt) })
	s.offers[thingID] = saved
	return cloneOffers(saved), nil
}

func (s *MemoryStore) GetPerson(_ context.Context, id int64) (models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people[id]
	if !ok {
		return models.Person{}, domain.NotFoundError{Resource: "person"}
	}
	return p, nil
}

func (s *MemoryStore) GetParticipation(_ context.Context, id int64) (models.ParticipationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.participations[id]
	if !ok {
		return models.ParticipationRecord{}, domain.NotFoundError{Resource: "participation"}
	}
	return cloneParticipation(rec), nil
}

func (s *MemoryStore) FindParticipation(_ context.Context, personID, tripID int64) (models.ParticipationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPair[pairKey{personID, tripID}]
	if !ok {
		return models.ParticipationRecord{}, domain.NotFoundError{Resource: "participation"}
	}
	return cloneParticipation(s.participations[id]), nil
}

func (s *MemoryStore) InsertParticipation(_ context.Context, rec models.ParticipationRecord) (models.ParticipationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{rec.PersonID, rec.TripID}
	if _, exists := s.byPair[key]; exists {
		return models.ParticipationRecord{}, domain.StateError{
			Code: domain.StateAlreadySubscribed,
			Msg:  fmt.Sprintf("person %d is already subscribed to trip %d", rec.PersonID, rec.TripID),
		}
	}
	s.nextParticipationID++
	rec.ID = s.nextParticipationID
	s.participations[rec.ID] = cloneParticipation(rec)
	s.byPair[key] = rec.ID
	return cloneParticipation(rec), nil
}

func (s *MemoryStore) UpdateParticipation(_ context.Context, id int64, fn func(models.ParticipationRecord) (models.ParticipationRecord, error)) (models.ParticipationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.participations[id]
	if !ok {
		return models.ParticipationRecord{}, domain.NotFoundError{Resource: "participation"}
	}
	next, err := fn(cloneParticipation(current))
	if err != nil {
		return models.ParticipationRecord{}, err
	}
	next.ID = current.ID
	s.participations[id] = cloneParticipation(next)
	return cloneParticipation(next), nil
}

func (s *MemoryStore) ListParticipations(_ context.Context, tripID int64) ([]models.ParticipationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ParticipationRecord{}
	for _, rec := range s.participations {
		if tripID > 0 && rec.TripID != tripID {
			continue
		}
		out = append(out, cloneParticipation(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListStoreOrderDemand(_ context.Context) ([]models.DemandRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DemandRecord, 0, len(s.orderLines))
	for _, l := range s.orderLines {
		out = append(out, domain.StoreOrderDemand(l.itemID, l.status, l.quantity))
	}
	return out, nil
}

func cloneOffers(in []models.SpecialOffer) []models.SpecialOffer {
	out := make([]models.SpecialOffer, len(in))
	for i, o := range in {
		o.Prices = o.Prices.Clone()
		out[i] = o
	}
	return out
}

func cloneParticipation(rec models.ParticipationRecord) models.ParticipationRecord {
	if rec.ApprovedAt != nil {
		t := *rec.ApprovedAt
		rec.ApprovedAt = &t
	}
	if rec.ApprovedBy != nil {
		by := *rec.ApprovedBy
		rec.ApprovedBy = &by
	}
	return rec
}
