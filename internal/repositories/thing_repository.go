package repositories

import (
	"context"
	"database/sql"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

// ThingRepository reads sellable_things (trips and store items) with their offers.
type ThingRepository struct {
	DB *sql.DB
}

func (r ThingRepository) db() (*sql.DB, error) {
	return connOrDefault(r.DB)
}

// GetThing loads a sellable thing, its base tier prices and its current offer set.
func (r ThingRepository) GetThing(ctx context.Context, id int64) (models.SellableThing, error) {
	db, err := r.db()
	if err != nil {
		return models.SellableThing{}, err
	}

	var (
		thing  models.SellableThing
		kind   string
		normal int64
		tierB  sql.NullInt64
		tierC  sql.NullInt64
	)
	err = db.QueryRowContext(ctx, `
		SELECT id, kind, name, price_normal, price_tier_b, price_tier_c
		FROM sellable_things
		WHERE id = ?
	`, id).Scan(&thing.ID, &kind, &thing.Name, &normal, &tierB, &tierC)
	if err != nil {
		return models.SellableThing{}, wrap("load thing", "sellable thing", err)
	}
	thing.Kind = models.ThingKind(kind)
	thing.Base = models.NewTierPriceTable(normal, int64Ptr(tierB), int64Ptr(tierC))

	offers, err := OfferRepository{DB: db}.ListOffers(ctx, id)
	if err != nil {
		return models.SellableThing{}, err
	}
	thing.Offers = offers
	return thing, nil
}
